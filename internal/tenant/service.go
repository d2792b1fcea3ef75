package tenant

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"regexp"
	"time"

	"github.com/imamik/tenantflare/internal/platform/cloudflare"
	"github.com/imamik/tenantflare/internal/platform/d1"
	"github.com/imamik/tenantflare/internal/platform/r2"
	"github.com/imamik/tenantflare/internal/util/naming"
)

var (
	// ErrTenantNotFound is returned when a tenant ID or slug resolves to nothing.
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrDomainNotFound is returned when a domain has no record and no hostname.
	ErrDomainNotFound = errors.New("domain not found")
)

var slugPattern = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]*[a-z0-9])?$`)

// newID generates tenant identifiers. Overridable in tests.
var newID = func() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

// HostnameClient is the slice of the Cloudflare client the service needs.
type HostnameClient interface {
	CreateCustomHostname(ctx context.Context, hostname string) (*cloudflare.CustomHostname, cloudflare.SideEffect, error)
	DeleteCustomHostname(ctx context.Context, id, hostname string) (cloudflare.SideEffect, error)
	ListCustomHostnames(ctx context.Context, hostname string) ([]cloudflare.CustomHostname, error)
	EnsureWorkerRoute(ctx context.Context, hostname string) (bool, error)
}

// RecordStore persists tenant and domain records.
type RecordStore interface {
	UpsertDomain(ctx context.Context, name, tenantID string) error
	GetDomain(ctx context.Context, name string) (*d1.DomainRecord, error)
	DeleteDomain(ctx context.Context, name string) error
	ListDomainsByTenant(ctx context.Context, tenantID string) ([]d1.DomainRecord, error)
	UpsertTenant(ctx context.Context, rec d1.TenantRecord) error
	GetTenant(ctx context.Context, id string) (*d1.TenantRecord, error)
	GetTenantBySlug(ctx context.Context, slug string) (*d1.TenantRecord, error)
	DeleteTenant(ctx context.Context, id string) error
}

// SiteStore uploads and inspects tenant site files.
type SiteStore interface {
	DeploySite(ctx context.Context, bucketName, prefix, dir string) (*r2.Deployment, error)
	SiteStatus(ctx context.Context, bucketName, prefix string) (*r2.SiteStatus, error)
}

// Tenant is a provisioned tenant with its platform subdomain.
type Tenant struct {
	ID        string
	Name      string
	Slug      string
	Subdomain string
	OwnerID   string
	CreatedAt string
}

// DomainVerification is what a tenant needs to publish to bring a custom
// domain live: the CNAME target plus the ownership and SSL validation
// records from the hostname response.
type DomainVerification struct {
	Domain            string
	HostnameID        string
	Status            string
	CNAMETarget       string
	OwnershipRecord   *cloudflare.OwnershipVerification
	ValidationRecords []cloudflare.ValidationRecord
	RouteAttach       cloudflare.SideEffect
}

// DomainStatus is a point-in-time snapshot of a custom domain.
type DomainStatus struct {
	Domain             string
	HostnameID         string
	TenantID           string
	Status             string
	SSLStatus          string
	VerificationErrors []string
}

// Service is the platform facade. It coordinates the Cloudflare hostname
// client, the D1 record store and the R2 site store; callers never touch
// those directly.
type Service struct {
	hostnames      HostnameClient
	store          RecordStore
	sites          SiteStore
	siteBucket     string
	platformDomain string
}

// NewService wires the facade together. platformDomain is the zone tenant
// subdomains hang off (e.g. "example-saas.com"); siteBucket holds every
// tenant's site files under per-tenant prefixes.
func NewService(hostnames HostnameClient, store RecordStore, sites SiteStore, siteBucket, platformDomain string) *Service {
	return &Service{
		hostnames:      hostnames,
		store:          store,
		sites:          sites,
		siteBucket:     siteBucket,
		platformDomain: platformDomain,
	}
}

// CreateTenant registers a tenant and derives its platform subdomain from
// the slug. The slug must be unique; the store's slug constraint is the
// source of truth for that.
func (s *Service) CreateTenant(ctx context.Context, name, slug, ownerID string) (*Tenant, error) {
	if name == "" {
		return nil, fmt.Errorf("tenant name must not be empty")
	}
	if !slugPattern.MatchString(slug) {
		return nil, fmt.Errorf("invalid slug %q: must be lowercase alphanumerics and hyphens", slug)
	}

	t := &Tenant{
		ID:        newID(),
		Name:      name,
		Slug:      slug,
		Subdomain: naming.Subdomain(slug, s.platformDomain),
		OwnerID:   ownerID,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	rec := d1.TenantRecord{ID: t.ID, Name: t.Name, Slug: t.Slug, OwnerID: t.OwnerID, Created: t.CreatedAt}
	if err := s.store.UpsertTenant(ctx, rec); err != nil {
		return nil, fmt.Errorf("persist tenant %s: %w", slug, err)
	}
	return t, nil
}

// GetTenant looks up a tenant by ID.
func (s *Service) GetTenant(ctx context.Context, id string) (*Tenant, error) {
	rec, err := s.store.GetTenant(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("tenant %s: %w", id, ErrTenantNotFound)
	}
	return tenantFromRecord(rec, s.platformDomain), nil
}

// DeleteTenant removes a tenant and all of its custom domains. Domain
// removal is best-effort per domain: a failing removal is logged and the
// remaining domains and the tenant record are still processed.
func (s *Service) DeleteTenant(ctx context.Context, id string) error {
	domains, err := s.store.ListDomainsByTenant(ctx, id)
	if err != nil {
		return fmt.Errorf("list domains for tenant %s: %w", id, err)
	}

	for _, d := range domains {
		if err := s.RemoveCustomDomain(ctx, d.Name); err != nil {
			log.Printf("Warning: failed to remove domain %s while deleting tenant %s: %v", d.Name, id, err)
		}
	}

	if err := s.store.DeleteTenant(ctx, id); err != nil {
		return fmt.Errorf("delete tenant %s: %w", id, err)
	}
	return nil
}

// AddCustomDomain provisions a custom hostname for the tenant's domain and
// records the domain ownership. The returned verification carries everything
// the tenant must publish in their DNS. A 409 from the hostname create means
// the hostname already exists; the existing one is looked up and reused, and
// its worker route is reconciled so that re-adding a domain retries an
// attach that failed on an earlier add.
func (s *Service) AddCustomDomain(ctx context.Context, tenantID, domain string) (*DomainVerification, error) {
	if _, err := s.GetTenant(ctx, tenantID); err != nil {
		return nil, err
	}

	ch, attach, err := s.hostnames.CreateCustomHostname(ctx, domain)
	if err != nil {
		if !cloudflare.IsAlreadyExists(err) {
			return nil, fmt.Errorf("create custom hostname %s: %w", domain, err)
		}
		ch, err = s.findHostname(ctx, domain)
		if err != nil {
			return nil, err
		}
		attach = s.reconcileRoute(ctx, domain)
	}

	if err := s.store.UpsertDomain(ctx, domain, tenantID); err != nil {
		return nil, fmt.Errorf("record domain %s: %w", domain, err)
	}

	v := &DomainVerification{
		Domain:      domain,
		HostnameID:  ch.ID,
		Status:      ch.Status,
		CNAMETarget: s.platformDomain,
		RouteAttach: attach,
	}
	v.OwnershipRecord = ch.OwnershipVerification
	if ch.SSL != nil {
		v.ValidationRecords = ch.SSL.ValidationRecords
	}
	return v, nil
}

// GetDomainStatus fetches the current hostname and SSL state for a domain.
func (s *Service) GetDomainStatus(ctx context.Context, domain string) (*DomainStatus, error) {
	ch, err := s.findHostname(ctx, domain)
	if err != nil {
		return nil, err
	}

	st := &DomainStatus{
		Domain:             domain,
		HostnameID:         ch.ID,
		Status:             ch.Status,
		VerificationErrors: ch.VerificationErrors,
	}
	if ch.SSL != nil {
		st.SSLStatus = ch.SSL.Status
	}
	if rec, err := s.store.GetDomain(ctx, domain); err == nil && rec != nil {
		st.TenantID = rec.TenantID
	}
	return st, nil
}

// RemoveCustomDomain deletes the domain's custom hostname (detaching its
// worker route first) and drops the store record. A hostname that is
// already gone remotely is not an error; the record is removed regardless.
func (s *Service) RemoveCustomDomain(ctx context.Context, domain string) error {
	ch, err := s.findHostname(ctx, domain)
	switch {
	case errors.Is(err, ErrDomainNotFound):
		// Nothing remote to clean up.
	case err != nil:
		return err
	default:
		side, err := s.hostnames.DeleteCustomHostname(ctx, ch.ID, domain)
		if err != nil {
			return fmt.Errorf("delete custom hostname %s: %w", domain, err)
		}
		if side.Failed() {
			log.Printf("Warning: worker route for %s was not detached: %v", domain, side.Err)
		}
	}

	if err := s.store.DeleteDomain(ctx, domain); err != nil {
		return fmt.Errorf("delete domain record %s: %w", domain, err)
	}
	return nil
}

// ListTenantDomains returns the custom domains recorded for a tenant.
func (s *Service) ListTenantDomains(ctx context.Context, tenantID string) ([]string, error) {
	records, err := s.store.ListDomainsByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(records))
	for _, rec := range records {
		names = append(names, rec.Name)
	}
	return names, nil
}

// ResolveTenantFromHost maps a request host to its tenant: either a platform
// subdomain ({slug}.{platformDomain}) or a recorded custom domain.
func (s *Service) ResolveTenantFromHost(ctx context.Context, host string) (*Tenant, error) {
	if slug := naming.SlugFromHost(host, s.platformDomain); slug != "" {
		rec, err := s.store.GetTenantBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			return nil, fmt.Errorf("host %s: %w", host, ErrTenantNotFound)
		}
		return tenantFromRecord(rec, s.platformDomain), nil
	}

	domain, err := s.store.GetDomain(ctx, host)
	if err != nil {
		return nil, err
	}
	if domain == nil {
		return nil, fmt.Errorf("host %s: %w", host, ErrTenantNotFound)
	}
	return s.GetTenant(ctx, domain.TenantID)
}

// DeploySite uploads a local directory as the tenant's site.
func (s *Service) DeploySite(ctx context.Context, tenantID, dir string) (*r2.Deployment, error) {
	if _, err := s.GetTenant(ctx, tenantID); err != nil {
		return nil, err
	}
	return s.sites.DeploySite(ctx, s.siteBucket, naming.SitePrefix(tenantID), dir)
}

// DeploymentStatus reports what is currently stored for the tenant's site.
func (s *Service) DeploymentStatus(ctx context.Context, tenantID string) (*r2.SiteStatus, error) {
	return s.sites.SiteStatus(ctx, s.siteBucket, naming.SitePrefix(tenantID))
}

// reconcileRoute checks an existing hostname's worker route, creating it if
// it is missing. Best-effort: a failure is reported in the SideEffect, never
// returned.
func (s *Service) reconcileRoute(ctx context.Context, domain string) cloudflare.SideEffect {
	created, err := s.hostnames.EnsureWorkerRoute(ctx, domain)
	switch {
	case err != nil:
		log.Printf("Warning: failed to attach worker route for %s: %v", domain, err)
		return cloudflare.SideEffect{State: cloudflare.SecondaryFailed, Err: err}
	case created:
		return cloudflare.SideEffect{State: cloudflare.SecondaryOK}
	default:
		return cloudflare.SideEffect{State: cloudflare.SecondarySkipped}
	}
}

// findHostname resolves a domain to its custom hostname via the list filter.
func (s *Service) findHostname(ctx context.Context, domain string) (*cloudflare.CustomHostname, error) {
	hostnames, err := s.hostnames.ListCustomHostnames(ctx, domain)
	if err != nil {
		return nil, fmt.Errorf("list custom hostnames for %s: %w", domain, err)
	}
	for i := range hostnames {
		if hostnames[i].Hostname == domain {
			return &hostnames[i], nil
		}
	}
	return nil, fmt.Errorf("hostname %s: %w", domain, ErrDomainNotFound)
}

func tenantFromRecord(rec *d1.TenantRecord, platformDomain string) *Tenant {
	return &Tenant{
		ID:        rec.ID,
		Name:      rec.Name,
		Slug:      rec.Slug,
		Subdomain: naming.Subdomain(rec.Slug, platformDomain),
		OwnerID:   rec.OwnerID,
		CreatedAt: rec.Created,
	}
}
