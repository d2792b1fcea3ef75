package handlers

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"

	"github.com/imamik/tenantflare/internal/config"
	"github.com/imamik/tenantflare/internal/platform/r2"
	"github.com/imamik/tenantflare/internal/tenant"
)

// captureOutput captures stdout during function execution.
func captureOutput(f func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	f()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// fakePlatform implements Platform with canned responses.
type fakePlatform struct {
	tenants   map[string]*tenant.Tenant
	createErr error
	deleteErr error

	verification *tenant.DomainVerification
	domainErr    error
	status       *tenant.DomainStatus
	removed      []string
	domains      []string
	batch        []tenant.DomainResult

	deployment *r2.Deployment
	deployErr  error
	siteStatus *r2.SiteStatus
}

func (f *fakePlatform) CreateTenant(_ context.Context, name, slug, ownerID string) (*tenant.Tenant, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &tenant.Tenant{ID: "tnt-1", Name: name, Slug: slug, Subdomain: slug + ".example-saas.com", OwnerID: ownerID}, nil
}

func (f *fakePlatform) GetTenant(_ context.Context, id string) (*tenant.Tenant, error) {
	t, ok := f.tenants[id]
	if !ok {
		return nil, tenant.ErrTenantNotFound
	}
	return t, nil
}

func (f *fakePlatform) DeleteTenant(_ context.Context, id string) error {
	return f.deleteErr
}

func (f *fakePlatform) AddCustomDomain(_ context.Context, tenantID, domain string) (*tenant.DomainVerification, error) {
	if f.domainErr != nil {
		return nil, f.domainErr
	}
	return f.verification, nil
}

func (f *fakePlatform) GetDomainStatus(_ context.Context, domain string) (*tenant.DomainStatus, error) {
	if f.domainErr != nil {
		return nil, f.domainErr
	}
	return f.status, nil
}

func (f *fakePlatform) RemoveCustomDomain(_ context.Context, domain string) error {
	if f.domainErr != nil {
		return f.domainErr
	}
	f.removed = append(f.removed, domain)
	return nil
}

func (f *fakePlatform) ListTenantDomains(_ context.Context, tenantID string) ([]string, error) {
	return f.domains, nil
}

func (f *fakePlatform) ResolveTenantFromHost(_ context.Context, host string) (*tenant.Tenant, error) {
	for _, t := range f.tenants {
		if t.Subdomain == host {
			return t, nil
		}
	}
	return nil, tenant.ErrTenantNotFound
}

func (f *fakePlatform) DeploySite(_ context.Context, tenantID, dir string) (*r2.Deployment, error) {
	if f.deployErr != nil {
		return nil, f.deployErr
	}
	return f.deployment, nil
}

func (f *fakePlatform) DeploymentStatus(_ context.Context, tenantID string) (*r2.SiteStatus, error) {
	return f.siteStatus, nil
}

func (f *fakePlatform) VerifyDomainsBatch(_ context.Context, domains []string) []tenant.DomainResult {
	return f.batch
}

// usePlatform swaps the config loader and platform factory for a fake.
func usePlatform(t *testing.T, fake *fakePlatform) {
	t.Helper()
	origLoad := loadConfig
	origNew := newPlatform
	t.Cleanup(func() {
		loadConfig = origLoad
		newPlatform = origNew
	})

	loadConfig = func(string) (*config.Config, error) {
		return &config.Config{PlatformDomain: "example-saas.com"}, nil
	}
	newPlatform = func(*config.Config) (Platform, error) {
		return fake, nil
	}
}
