package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/tenantflare/cmd/tenantflare/handlers"
)

// Init returns the command for interactively creating a platform configuration.
//
// Flags:
//
//	--output, -o: Path to output file (default "tenantflare.yaml")
func Init() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively create a platform configuration",
		Long: `Interactively create a platform configuration file.

This command guides you through configuring the tenant platform
step by step. It will ask about:

  - Platform domain (the zone tenant subdomains hang off)
  - Cloudflare account and zone identifiers
  - The routing worker script name
  - The R2 bucket for tenant site files
  - The D1 database for tenant records

Secrets (API token, R2 keys) are never written to the file; supply
them via environment variables instead.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "tenantflare.yaml", "Output file path")

	return cmd
}
