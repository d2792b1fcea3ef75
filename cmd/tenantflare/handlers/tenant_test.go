package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/tenantflare/internal/tenant"
)

func TestTenantCreatePrintsSubdomain(t *testing.T) {
	usePlatform(t, &fakePlatform{})

	var err error
	output := captureOutput(func() {
		err = TenantCreate(context.Background(), "", "Acme Corp", "acme", "user-1")
	})

	require.NoError(t, err)
	assert.Contains(t, output, "Tenant created.")
	assert.Contains(t, output, "tnt-1")
	assert.Contains(t, output, "https://acme.example-saas.com")
	assert.Contains(t, output, "tenantflare deploy")
}

func TestTenantCreateError(t *testing.T) {
	usePlatform(t, &fakePlatform{createErr: errors.New("slug taken")})

	err := TenantCreate(context.Background(), "", "Acme", "acme", "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create tenant")
}

func TestTenantDelete(t *testing.T) {
	usePlatform(t, &fakePlatform{})
	assert.NoError(t, TenantDelete(context.Background(), "", "tnt-1"))
}

func TestTenantDeleteError(t *testing.T) {
	usePlatform(t, &fakePlatform{deleteErr: errors.New("boom")})

	err := TenantDelete(context.Background(), "", "tnt-1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to delete tenant")
}

func TestTenantDomainsEmpty(t *testing.T) {
	usePlatform(t, &fakePlatform{})

	output := captureOutput(func() {
		_ = TenantDomains(context.Background(), "", "tnt-1")
	})

	assert.Contains(t, output, "No custom domains.")
}

func TestTenantDomainsListsAll(t *testing.T) {
	usePlatform(t, &fakePlatform{domains: []string{"www.acme.com", "shop.acme.com"}})

	output := captureOutput(func() {
		_ = TenantDomains(context.Background(), "", "tnt-1")
	})

	assert.Contains(t, output, "www.acme.com")
	assert.Contains(t, output, "shop.acme.com")
}

func TestTenantResolve(t *testing.T) {
	fake := &fakePlatform{tenants: map[string]*tenant.Tenant{
		"tnt-1": {ID: "tnt-1", Name: "Acme", Slug: "acme", Subdomain: "acme.example-saas.com"},
	}}
	usePlatform(t, fake)

	var err error
	output := captureOutput(func() {
		err = TenantResolve(context.Background(), "", "acme.example-saas.com")
	})

	require.NoError(t, err)
	assert.Contains(t, output, "Acme")
	assert.Contains(t, output, "tnt-1")
}

func TestTenantResolveUnknownHost(t *testing.T) {
	usePlatform(t, &fakePlatform{})

	err := TenantResolve(context.Background(), "", "nobody.example")

	require.Error(t, err)
	assert.ErrorIs(t, err, tenant.ErrTenantNotFound)
}
