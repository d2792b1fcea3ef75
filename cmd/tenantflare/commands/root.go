// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument
// parsing, flag binding, and validation. Command execution is delegated
// to handler functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the tenantflare CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenantflare",
		Short: "Manage white-label tenant sites on Cloudflare",
	}

	// Core commands
	cmd.AddCommand(Init())
	cmd.AddCommand(Provision())
	cmd.AddCommand(Tenant())
	cmd.AddCommand(Domain())
	cmd.AddCommand(Deploy())

	// Utility commands
	cmd.AddCommand(Infra())
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}

// configFlag registers the shared --config flag.
func configFlag(cmd *cobra.Command, configPath *string) {
	cmd.Flags().StringVarP(configPath, "config", "c", "", "Path to configuration file (default: find tenantflare.yaml)")
}
