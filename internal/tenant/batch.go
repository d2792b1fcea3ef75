package tenant

import (
	"context"
	"sync"

	"github.com/imamik/tenantflare/internal/orchestration"
	"github.com/imamik/tenantflare/internal/platform/r2"
)

// NewTenant is one entry in a batch create request.
type NewTenant struct {
	Name    string
	Slug    string
	OwnerID string
}

// TenantResult is one outcome of a batch create.
type TenantResult struct {
	Slug   string
	Tenant *Tenant
	Err    error
}

// SiteDeploy is one entry in a batch deploy request.
type SiteDeploy struct {
	TenantID string
	Dir      string
}

// DeployResult is one outcome of a batch deploy.
type DeployResult struct {
	TenantID   string
	Deployment *r2.Deployment
	Err        error
}

// DomainResult is one outcome of a batch verification check.
type DomainResult struct {
	Domain string
	Status *DomainStatus
	Err    error
}

// CreateTenantsBatch creates tenants concurrently. Every entry gets a
// result; one failing create never aborts the others.
func (s *Service) CreateTenantsBatch(ctx context.Context, requests []NewTenant) []TenantResult {
	results := make([]TenantResult, len(requests))
	var mu sync.Mutex

	tasks := make([]orchestration.Task, len(requests))
	for i, req := range requests {
		tasks[i] = orchestration.Task{
			Name: req.Slug,
			Func: func(ctx context.Context) error {
				t, err := s.CreateTenant(ctx, req.Name, req.Slug, req.OwnerID)
				mu.Lock()
				results[i] = TenantResult{Slug: req.Slug, Tenant: t, Err: err}
				mu.Unlock()
				return err
			},
		}
	}
	orchestration.RunCollect(ctx, tasks, true)
	return results
}

// DeploySitesBatch uploads several tenant sites concurrently.
func (s *Service) DeploySitesBatch(ctx context.Context, requests []SiteDeploy) []DeployResult {
	results := make([]DeployResult, len(requests))
	var mu sync.Mutex

	tasks := make([]orchestration.Task, len(requests))
	for i, req := range requests {
		tasks[i] = orchestration.Task{
			Name: req.TenantID,
			Func: func(ctx context.Context) error {
				dep, err := s.DeploySite(ctx, req.TenantID, req.Dir)
				mu.Lock()
				results[i] = DeployResult{TenantID: req.TenantID, Deployment: dep, Err: err}
				mu.Unlock()
				return err
			},
		}
	}
	orchestration.RunCollect(ctx, tasks, true)
	return results
}

// VerifyDomainsBatch fetches the verification status of several domains
// concurrently.
func (s *Service) VerifyDomainsBatch(ctx context.Context, domains []string) []DomainResult {
	results := make([]DomainResult, len(domains))
	var mu sync.Mutex

	tasks := make([]orchestration.Task, len(domains))
	for i, domain := range domains {
		tasks[i] = orchestration.Task{
			Name: domain,
			Func: func(ctx context.Context) error {
				st, err := s.GetDomainStatus(ctx, domain)
				mu.Lock()
				results[i] = DomainResult{Domain: domain, Status: st, Err: err}
				mu.Unlock()
				return err
			},
		}
	}
	orchestration.RunCollect(ctx, tasks, false)
	return results
}
