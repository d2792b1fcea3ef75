package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/tenantflare/cmd/tenantflare/handlers"
)

// Tenant returns the parent command for tenant lifecycle operations.
func Tenant() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenant",
		Short: "Manage tenants",
	}

	cmd.AddCommand(tenantCreate())
	cmd.AddCommand(tenantDelete())
	cmd.AddCommand(tenantDomains())
	cmd.AddCommand(tenantResolve())

	return cmd
}

func tenantCreate() *cobra.Command {
	var (
		configPath string
		name       string
		slug       string
		ownerID    string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a tenant with a platform subdomain",
		Long: `Create a tenant and derive its platform subdomain from the slug.

The slug must be lowercase alphanumerics and hyphens; the tenant's
site becomes reachable at {slug}.{platform_domain} once deployed.

Example:
  tenantflare tenant create --name "Acme Corp" --slug acme`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.TenantCreate(cmd.Context(), configPath, name, slug, ownerID)
		},
	}

	configFlag(cmd, &configPath)
	cmd.Flags().StringVarP(&name, "name", "n", "", "Display name of the tenant (required)")
	cmd.Flags().StringVarP(&slug, "slug", "s", "", "URL-safe slug for the platform subdomain (required)")
	cmd.Flags().StringVar(&ownerID, "owner", "", "Identifier of the owning user")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("slug")

	return cmd
}

func tenantDelete() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "delete <tenant-id>",
		Short: "Delete a tenant and all of its custom domains",
		Long: `Delete a tenant.

All custom domains are removed first: each domain's custom hostname is
deleted and its worker route detached. A domain that fails to clean up
is logged and skipped; the tenant record is removed regardless.

WARNING: This operation is irreversible.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.TenantDelete(cmd.Context(), configPath, args[0])
		},
	}

	configFlag(cmd, &configPath)
	return cmd
}

func tenantDomains() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "domains <tenant-id>",
		Short: "List a tenant's custom domains",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.TenantDomains(cmd.Context(), configPath, args[0])
		},
	}

	configFlag(cmd, &configPath)
	return cmd
}

func tenantResolve() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "resolve <host>",
		Short: "Resolve a request host to its tenant",
		Long: `Resolve a request host to its tenant.

The host is either a platform subdomain ({slug}.{platform_domain}) or
a registered custom domain. This is the same lookup the routing worker
performs per request.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.TenantResolve(cmd.Context(), configPath, args[0])
		},
	}

	configFlag(cmd, &configPath)
	return cmd
}
