package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/tenantflare/cmd/tenantflare/handlers"
)

// Provision returns the command that bootstraps the platform resources.
func Provision() *cobra.Command {
	var (
		configPath string
		scriptPath string
	)

	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Provision the shared platform resources",
		Long: `Provision the shared platform resources.

This command is idempotent and safe to re-run. It:

  - creates the R2 site bucket if it does not exist
  - creates the D1 database if no database ID is configured
  - creates the tenant and domain tables if they do not exist
  - deploys the routing worker script when --script is given

Example:
  tenantflare provision --script ./worker/router.mjs`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Provision(cmd.Context(), configPath, scriptPath)
		},
	}

	configFlag(cmd, &configPath)
	cmd.Flags().StringVar(&scriptPath, "script", "", "Path to the routing worker module to deploy")

	return cmd
}
