package handlers

import (
	"context"
	"fmt"
	"log"
)

// TenantCreate handles the tenant create command.
func TenantCreate(ctx context.Context, configPath, name, slug, ownerID string) error {
	platform, _, err := platformFor(configPath)
	if err != nil {
		return err
	}

	t, err := platform.CreateTenant(ctx, name, slug, ownerID)
	if err != nil {
		return fmt.Errorf("failed to create tenant: %w", err)
	}

	fmt.Println("Tenant created.")
	fmt.Printf("  ID:        %s\n", t.ID)
	fmt.Printf("  Name:      %s\n", t.Name)
	fmt.Printf("  Subdomain: https://%s\n", t.Subdomain)
	fmt.Println()
	fmt.Println("Deploy a site with:")
	fmt.Printf("  tenantflare deploy ./dist --tenant %s\n", t.ID)
	return nil
}

// TenantDelete handles the tenant delete command.
func TenantDelete(ctx context.Context, configPath, tenantID string) error {
	platform, _, err := platformFor(configPath)
	if err != nil {
		return err
	}

	log.Printf("Deleting tenant %s", tenantID)
	if err := platform.DeleteTenant(ctx, tenantID); err != nil {
		return fmt.Errorf("failed to delete tenant: %w", err)
	}

	log.Printf("Tenant %s deleted", tenantID)
	return nil
}

// TenantDomains handles the tenant domains command.
func TenantDomains(ctx context.Context, configPath, tenantID string) error {
	platform, _, err := platformFor(configPath)
	if err != nil {
		return err
	}

	domains, err := platform.ListTenantDomains(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("failed to list domains: %w", err)
	}

	if len(domains) == 0 {
		fmt.Println("No custom domains.")
		return nil
	}
	for _, d := range domains {
		fmt.Println(d)
	}
	return nil
}

// TenantResolve handles the tenant resolve command.
func TenantResolve(ctx context.Context, configPath, host string) error {
	platform, _, err := platformFor(configPath)
	if err != nil {
		return err
	}

	t, err := platform.ResolveTenantFromHost(ctx, host)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", host, err)
	}

	fmt.Printf("  Tenant: %s (%s)\n", t.Name, t.ID)
	fmt.Printf("  Slug:   %s\n", t.Slug)
	return nil
}
