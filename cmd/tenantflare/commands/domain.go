package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/tenantflare/cmd/tenantflare/handlers"
)

// Domain returns the parent command for custom domain operations.
func Domain() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "domain",
		Short: "Manage custom domains",
	}

	cmd.AddCommand(domainAdd())
	cmd.AddCommand(domainStatus())
	cmd.AddCommand(domainRemove())
	cmd.AddCommand(domainVerify())

	return cmd
}

func domainAdd() *cobra.Command {
	var (
		configPath string
		tenantID   string
	)

	cmd := &cobra.Command{
		Use:   "add <domain>",
		Short: "Attach a custom domain to a tenant",
		Long: `Attach a custom domain to a tenant.

A custom hostname is created in the platform zone with HTTP SSL
validation and a worker route is attached for it. The command prints
the DNS records the tenant must publish: the CNAME pointing at the
platform domain plus the ownership and SSL validation records.

Example:
  tenantflare domain add www.acme.com --tenant 4f1c...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.DomainAdd(cmd.Context(), configPath, tenantID, args[0])
		},
	}

	configFlag(cmd, &configPath)
	cmd.Flags().StringVarP(&tenantID, "tenant", "t", "", "Tenant ID the domain belongs to (required)")
	_ = cmd.MarkFlagRequired("tenant")

	return cmd
}

func domainStatus() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "status <domain>",
		Short: "Show verification and SSL status for a domain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.DomainStatus(cmd.Context(), configPath, args[0])
		},
	}

	configFlag(cmd, &configPath)
	return cmd
}

func domainRemove() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "remove <domain>",
		Short: "Remove a custom domain",
		Long: `Remove a custom domain.

The domain's worker route is detached, the custom hostname deleted and
the store record dropped. A hostname that is already gone remotely is
not an error.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.DomainRemove(cmd.Context(), configPath, args[0])
		},
	}

	configFlag(cmd, &configPath)
	return cmd
}

func domainVerify() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "verify <domain>...",
		Short: "Check verification status for several domains at once",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.DomainVerify(cmd.Context(), configPath, args)
		},
	}

	configFlag(cmd, &configPath)
	return cmd
}
