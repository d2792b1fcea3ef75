package d1

import (
	"context"
	"fmt"
)

// DomainRecord is a row in the domains table mapping a custom domain to the
// tenant that owns it.
type DomainRecord struct {
	Name     string
	Zone     string
	TenantID string
	Created  string
	Updated  string
	LastDate string
}

// TenantRecord is a row in the tenants table.
type TenantRecord struct {
	ID      string
	Name    string
	Slug    string
	OwnerID string
	Created string
}

// Store persists tenant and domain records in D1. It satisfies the minimal
// CRUD contract the tenant platform needs; nothing else about D1 leaks out.
type Store struct {
	client *Client
	zoneID string
}

// NewStore creates a store bound to a zone. The zone is part of the domains
// primary key so several zones can share one database.
func NewStore(client *Client, zoneID string) *Store {
	return &Store{client: client, zoneID: zoneID}
}

// EnsureSchema creates the tables and indexes if they do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS domains (
			name TEXT NOT NULL,
			zone TEXT NOT NULL,
			tenant_id TEXT NOT NULL,
			created DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated DATETIME DEFAULT CURRENT_TIMESTAMP,
			last_date DATETIME,
			PRIMARY KEY (name, zone)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_domains_tenant_id ON domains(tenant_id)`,
		`CREATE INDEX IF NOT EXISTS idx_domains_zone ON domains(zone)`,
		`CREATE TABLE IF NOT EXISTS tenants (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			owner_id TEXT,
			created DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.client.Query(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// UpsertDomain inserts or replaces a domain record.
func (s *Store) UpsertDomain(ctx context.Context, name, tenantID string) error {
	sql := `INSERT OR REPLACE INTO domains (name, zone, tenant_id, last_date)
		VALUES (?, ?, ?, datetime('now'))`
	if _, err := s.client.Query(ctx, sql, name, s.zoneID, tenantID); err != nil {
		return fmt.Errorf("upsert domain %s: %w", name, err)
	}
	return nil
}

// UpdateDomainTenant reassigns a domain to another tenant.
func (s *Store) UpdateDomainTenant(ctx context.Context, name, tenantID string) error {
	sql := `UPDATE domains
		SET tenant_id = ?, updated = datetime('now'), last_date = datetime('now')
		WHERE name = ? AND zone = ?`
	if _, err := s.client.Query(ctx, sql, tenantID, name, s.zoneID); err != nil {
		return fmt.Errorf("update domain %s: %w", name, err)
	}
	return nil
}

// GetDomain returns a domain record, or nil when the domain is unknown.
func (s *Store) GetDomain(ctx context.Context, name string) (*DomainRecord, error) {
	sql := `SELECT name, zone, tenant_id, created, updated, last_date
		FROM domains WHERE name = ? AND zone = ?`
	results, err := s.client.Query(ctx, sql, name, s.zoneID)
	if err != nil {
		return nil, fmt.Errorf("get domain %s: %w", name, err)
	}

	row := firstRow(results)
	if row == nil {
		return nil, nil
	}
	return domainFromRow(row), nil
}

// DeleteDomain removes a domain record.
func (s *Store) DeleteDomain(ctx context.Context, name string) error {
	sql := `DELETE FROM domains WHERE name = ? AND zone = ?`
	if _, err := s.client.Query(ctx, sql, name, s.zoneID); err != nil {
		return fmt.Errorf("delete domain %s: %w", name, err)
	}
	return nil
}

// ListDomainsByTenant returns all domain records owned by a tenant.
func (s *Store) ListDomainsByTenant(ctx context.Context, tenantID string) ([]DomainRecord, error) {
	sql := `SELECT name, zone, tenant_id, created, updated, last_date
		FROM domains WHERE tenant_id = ? AND zone = ? ORDER BY name`
	results, err := s.client.Query(ctx, sql, tenantID, s.zoneID)
	if err != nil {
		return nil, fmt.Errorf("list domains for tenant %s: %w", tenantID, err)
	}

	var records []DomainRecord
	for _, res := range results {
		for _, row := range res.Results {
			records = append(records, *domainFromRow(row))
		}
	}
	return records, nil
}

// UpsertTenant inserts or replaces a tenant record.
func (s *Store) UpsertTenant(ctx context.Context, rec TenantRecord) error {
	sql := `INSERT OR REPLACE INTO tenants (id, name, slug, owner_id) VALUES (?, ?, ?, ?)`
	if _, err := s.client.Query(ctx, sql, rec.ID, rec.Name, rec.Slug, rec.OwnerID); err != nil {
		return fmt.Errorf("upsert tenant %s: %w", rec.ID, err)
	}
	return nil
}

// GetTenant returns a tenant record by ID, or nil when unknown.
func (s *Store) GetTenant(ctx context.Context, id string) (*TenantRecord, error) {
	results, err := s.client.Query(ctx,
		`SELECT id, name, slug, owner_id, created FROM tenants WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("get tenant %s: %w", id, err)
	}

	row := firstRow(results)
	if row == nil {
		return nil, nil
	}
	return tenantFromRow(row), nil
}

// GetTenantBySlug returns a tenant record by slug, or nil when unknown.
func (s *Store) GetTenantBySlug(ctx context.Context, slug string) (*TenantRecord, error) {
	results, err := s.client.Query(ctx,
		`SELECT id, name, slug, owner_id, created FROM tenants WHERE slug = ?`, slug)
	if err != nil {
		return nil, fmt.Errorf("get tenant by slug %s: %w", slug, err)
	}

	row := firstRow(results)
	if row == nil {
		return nil, nil
	}
	return tenantFromRow(row), nil
}

// DeleteTenant removes a tenant record.
func (s *Store) DeleteTenant(ctx context.Context, id string) error {
	if _, err := s.client.Query(ctx, `DELETE FROM tenants WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete tenant %s: %w", id, err)
	}
	return nil
}

func firstRow(results []QueryResult) map[string]any {
	if len(results) == 0 || len(results[0].Results) == 0 {
		return nil
	}
	return results[0].Results[0]
}

func domainFromRow(row map[string]any) *DomainRecord {
	return &DomainRecord{
		Name:     str(row["name"]),
		Zone:     str(row["zone"]),
		TenantID: str(row["tenant_id"]),
		Created:  str(row["created"]),
		Updated:  str(row["updated"]),
		LastDate: str(row["last_date"]),
	}
}

func tenantFromRow(row map[string]any) *TenantRecord {
	return &TenantRecord{
		ID:      str(row["id"]),
		Name:    str(row["name"]),
		Slug:    str(row["slug"]),
		OwnerID: str(row["owner_id"]),
		Created: str(row["created"]),
	}
}

func str(v any) string {
	s, _ := v.(string)
	return s
}
