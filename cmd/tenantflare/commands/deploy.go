package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/tenantflare/cmd/tenantflare/handlers"
)

// Deploy returns the command for uploading tenant site files.
func Deploy() *cobra.Command {
	var (
		configPath string
		tenantID   string
	)

	cmd := &cobra.Command{
		Use:   "deploy <dir>",
		Short: "Upload a directory as a tenant's site",
		Long: `Upload a local directory as a tenant's site.

Files are stored in the shared R2 bucket under the tenant's prefix
with content types derived from file extensions. Hidden files and
directories are skipped.

Example:
  tenantflare deploy ./dist --tenant 4f1c...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Deploy(cmd.Context(), configPath, tenantID, args[0])
		},
	}

	configFlag(cmd, &configPath)
	cmd.Flags().StringVarP(&tenantID, "tenant", "t", "", "Tenant ID to deploy for (required)")
	_ = cmd.MarkFlagRequired("tenant")

	cmd.AddCommand(deployStatus())

	return cmd
}

func deployStatus() *cobra.Command {
	var (
		configPath string
		tenantID   string
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show what is currently deployed for a tenant",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.DeployStatus(cmd.Context(), configPath, tenantID)
		},
	}

	configFlag(cmd, &configPath)
	cmd.Flags().StringVarP(&tenantID, "tenant", "t", "", "Tenant ID to inspect (required)")
	_ = cmd.MarkFlagRequired("tenant")

	return cmd
}
