// Package handlers implements the command execution logic behind the
// CLI. Commands parse flags; handlers load the configuration, construct
// the platform clients and run the operation. Collaborators are created
// through package-level factory variables so tests can substitute fakes.
package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/tenantflare/internal/config"
	"github.com/imamik/tenantflare/internal/platform/cloudflare"
	"github.com/imamik/tenantflare/internal/platform/d1"
	"github.com/imamik/tenantflare/internal/platform/r2"
	"github.com/imamik/tenantflare/internal/tenant"
)

// Platform is the slice of the tenant service the handlers use.
type Platform interface {
	CreateTenant(ctx context.Context, name, slug, ownerID string) (*tenant.Tenant, error)
	GetTenant(ctx context.Context, id string) (*tenant.Tenant, error)
	DeleteTenant(ctx context.Context, id string) error
	AddCustomDomain(ctx context.Context, tenantID, domain string) (*tenant.DomainVerification, error)
	GetDomainStatus(ctx context.Context, domain string) (*tenant.DomainStatus, error)
	RemoveCustomDomain(ctx context.Context, domain string) error
	ListTenantDomains(ctx context.Context, tenantID string) ([]string, error)
	ResolveTenantFromHost(ctx context.Context, host string) (*tenant.Tenant, error)
	DeploySite(ctx context.Context, tenantID, dir string) (*r2.Deployment, error)
	DeploymentStatus(ctx context.Context, tenantID string) (*r2.SiteStatus, error)
	VerifyDomainsBatch(ctx context.Context, domains []string) []tenant.DomainResult
}

// Factory function variables - can be replaced in tests.
var (
	// loadConfig resolves and loads the configuration file.
	loadConfig = func(path string) (*config.Config, error) {
		if path == "" {
			found, err := config.FindConfigFile()
			if err != nil {
				return nil, err
			}
			path = found
		}
		return config.Load(path)
	}

	// newPlatform wires the tenant service from a validated config.
	newPlatform = func(cfg *config.Config) (Platform, error) {
		cf := newCloudflareClient(cfg)
		store := d1.NewStore(newD1Client(cfg), cfg.Cloudflare.ZoneID)

		sites, err := newR2Client(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create R2 client: %w", err)
		}

		return tenant.NewService(cf, store, sites, cfg.R2.Bucket, cfg.PlatformDomain), nil
	}

	newCloudflareClient = func(cfg *config.Config) *cloudflare.Client {
		return cloudflare.NewClient(
			cfg.Cloudflare.APIToken,
			cfg.Cloudflare.AccountID,
			cfg.Cloudflare.ZoneID,
			cfg.Cloudflare.WorkerScript,
		)
	}

	newD1Client = func(cfg *config.Config) *d1.Client {
		return d1.NewClient(cfg.Cloudflare.APIToken, cfg.Cloudflare.AccountID, cfg.D1.DatabaseID)
	}

	newR2Client = func(cfg *config.Config) (*r2.Client, error) {
		return r2.NewClient(r2.Endpoint(cfg.Cloudflare.AccountID), cfg.R2.AccessKey, cfg.R2.SecretKey)
	}
)

// platformFor loads the config and builds the tenant service in one step.
func platformFor(configPath string) (Platform, *config.Config, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}

	p, err := newPlatform(cfg)
	if err != nil {
		return nil, nil, err
	}
	return p, cfg, nil
}
