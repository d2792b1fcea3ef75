package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/imamik/tenantflare/internal/tenant"
)

// DomainAdd handles the domain add command. It prints the DNS records
// the tenant has to publish before the domain can go live.
func DomainAdd(ctx context.Context, configPath, tenantID, domain string) error {
	platform, _, err := platformFor(configPath)
	if err != nil {
		return err
	}

	v, err := platform.AddCustomDomain(ctx, tenantID, domain)
	if err != nil {
		return fmt.Errorf("failed to add domain %s: %w", domain, err)
	}

	fmt.Printf("Custom domain %s registered (hostname %s, status %s).\n", v.Domain, v.HostnameID, v.Status)
	if v.RouteAttach.Failed() {
		fmt.Printf("Warning: worker route was not attached: %v\n", v.RouteAttach.Err)
		fmt.Println("Re-running 'domain add' will retry the attachment.")
	}

	fmt.Println()
	fmt.Println("Publish these DNS records:")
	fmt.Println()
	fmt.Printf("  CNAME  %s -> %s\n", v.Domain, v.CNAMETarget)
	if v.OwnershipRecord != nil {
		fmt.Printf("  TXT    %s = %s\n", v.OwnershipRecord.Name, v.OwnershipRecord.Value)
	}
	for _, rec := range v.ValidationRecords {
		if rec.TxtName != "" {
			fmt.Printf("  TXT    %s = %s\n", rec.TxtName, rec.TxtValue)
		}
		if rec.HTTPURL != "" {
			fmt.Printf("  HTTP   %s -> %s\n", rec.HTTPURL, rec.HTTPBody)
		}
	}
	fmt.Println()
	fmt.Printf("Check progress with: tenantflare domain status %s\n", v.Domain)
	return nil
}

// DomainStatus handles the domain status command.
func DomainStatus(ctx context.Context, configPath, domain string) error {
	platform, _, err := platformFor(configPath)
	if err != nil {
		return err
	}

	st, err := platform.GetDomainStatus(ctx, domain)
	if err != nil {
		return fmt.Errorf("failed to get status for %s: %w", domain, err)
	}

	printDomainStatus(st)
	return nil
}

// DomainRemove handles the domain remove command.
func DomainRemove(ctx context.Context, configPath, domain string) error {
	platform, _, err := platformFor(configPath)
	if err != nil {
		return err
	}

	if err := platform.RemoveCustomDomain(ctx, domain); err != nil {
		return fmt.Errorf("failed to remove domain %s: %w", domain, err)
	}

	fmt.Printf("Domain %s removed.\n", domain)
	return nil
}

// DomainVerify handles the domain verify command: one status line per
// domain, checked concurrently. The command fails if any check failed.
func DomainVerify(ctx context.Context, configPath string, domains []string) error {
	platform, _, err := platformFor(configPath)
	if err != nil {
		return err
	}

	results := platform.VerifyDomainsBatch(ctx, domains)

	var failed int
	for _, res := range results {
		if res.Err != nil {
			failed++
			fmt.Printf("  %-40s ERROR: %v\n", res.Domain, res.Err)
			continue
		}
		fmt.Printf("  %-40s %s (ssl: %s)\n", res.Domain, res.Status.Status, res.Status.SSLStatus)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d domains failed verification checks", failed, len(domains))
	}
	return nil
}

func printDomainStatus(st *tenant.DomainStatus) {
	fmt.Printf("  Domain:   %s\n", st.Domain)
	fmt.Printf("  Hostname: %s\n", st.HostnameID)
	if st.TenantID != "" {
		fmt.Printf("  Tenant:   %s\n", st.TenantID)
	}
	fmt.Printf("  Status:   %s\n", st.Status)
	fmt.Printf("  SSL:      %s\n", st.SSLStatus)
	if len(st.VerificationErrors) > 0 {
		fmt.Printf("  Issues:   %s\n", strings.Join(st.VerificationErrors, "; "))
	}
}
