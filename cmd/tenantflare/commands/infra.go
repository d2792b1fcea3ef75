package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/tenantflare/cmd/tenantflare/handlers"
)

// Infra returns the parent command for running the declarative infra
// engine against the platform's terraform working directory.
func Infra() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "infra",
		Short: "Run terraform against the platform infrastructure",
	}

	cmd.AddCommand(infraApply())
	cmd.AddCommand(infraDestroy())

	return cmd
}

func infraApply() *cobra.Command {
	var (
		configPath  string
		autoApprove bool
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Initialize and apply the platform infrastructure",
		Long: `Initialize and apply the platform infrastructure.

Runs terraform init and apply in the configured working directory and
prints the resulting outputs. The terraform configuration itself is
maintained separately; this command only drives it.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.InfraApply(cmd.Context(), configPath, autoApprove)
		},
	}

	configFlag(cmd, &configPath)
	cmd.Flags().BoolVar(&autoApprove, "auto-approve", false, "Skip interactive approval")

	return cmd
}

func infraDestroy() *cobra.Command {
	var (
		configPath  string
		autoApprove bool
	)

	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Destroy the platform infrastructure",
		Long: `Destroy the platform infrastructure.

WARNING: This operation is irreversible.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.InfraDestroy(cmd.Context(), configPath, autoApprove)
		},
	}

	configFlag(cmd, &configPath)
	cmd.Flags().BoolVar(&autoApprove, "auto-approve", false, "Skip interactive approval")

	return cmd
}
