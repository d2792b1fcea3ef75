package d1

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/imamik/tenantflare/internal/platform/cloudflare"
)

// Database describes a provisioned D1 database.
type Database struct {
	UUID      string `json:"uuid"`
	Name      string `json:"name"`
	Version   string `json:"version,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

type createDatabaseRequest struct {
	Name         string `json:"name"`
	Jurisdiction string `json:"jurisdiction,omitempty"`
}

type databaseResponse struct {
	Success bool                     `json:"success"`
	Errors  []cloudflare.ErrorDetail `json:"errors"`
	Result  json.RawMessage          `json:"result"`
}

// CreateDatabase provisions a new D1 database, optionally pinned to a
// jurisdiction (e.g. "eu"). A database that already exists is returned via
// lookup instead of failing, keeping provisioning flows idempotent.
func (c *Client) CreateDatabase(ctx context.Context, name, jurisdiction string) (*Database, error) {
	if c.accountID == "" {
		return nil, &cloudflare.ConfigError{Field: "account ID"}
	}

	body, err := json.Marshal(createDatabaseRequest{Name: name, Jurisdiction: jurisdiction})
	if err != nil {
		return nil, fmt.Errorf("encode create database: %w", err)
	}

	url := fmt.Sprintf("%s/accounts/%s/d1/database", c.baseURL, c.accountID)
	var resp databaseResponse
	if err := c.doAdmin(ctx, http.MethodPost, url, body, &resp); err != nil {
		if cloudflare.IsAlreadyExists(err) {
			return c.findDatabase(ctx, name)
		}
		return nil, fmt.Errorf("create d1 database %s: %w", name, err)
	}

	var db Database
	if err := json.Unmarshal(resp.Result, &db); err != nil {
		return nil, fmt.Errorf("parse database: %w", err)
	}
	return &db, nil
}

// ListDatabases returns the account's D1 databases.
func (c *Client) ListDatabases(ctx context.Context) ([]Database, error) {
	if c.accountID == "" {
		return nil, &cloudflare.ConfigError{Field: "account ID"}
	}

	url := fmt.Sprintf("%s/accounts/%s/d1/database", c.baseURL, c.accountID)
	var resp databaseResponse
	if err := c.doAdmin(ctx, http.MethodGet, url, nil, &resp); err != nil {
		return nil, fmt.Errorf("list d1 databases: %w", err)
	}

	var dbs []Database
	if err := json.Unmarshal(resp.Result, &dbs); err != nil {
		return nil, fmt.Errorf("parse databases: %w", err)
	}
	return dbs, nil
}

func (c *Client) findDatabase(ctx context.Context, name string) (*Database, error) {
	dbs, err := c.ListDatabases(ctx)
	if err != nil {
		return nil, err
	}
	for i := range dbs {
		if dbs[i].Name == name {
			return &dbs[i], nil
		}
	}
	return nil, fmt.Errorf("database %s: %w", name, cloudflare.ErrNotFound)
}

// doAdmin issues a single administrative request (no retry; provisioning is
// driven interactively and failures are surfaced to the operator).
func (c *Client) doAdmin(ctx context.Context, method, url string, body []byte, out *databaseResponse) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &cloudflare.APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
		if resp.StatusCode == http.StatusConflict {
			return fmt.Errorf("%w: %w", cloudflare.ErrAlreadyExists, apiErr)
		}
		return apiErr
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	if !out.Success {
		return &cloudflare.APIError{StatusCode: resp.StatusCode, Errors: out.Errors, Body: string(respBody)}
	}
	return nil
}
