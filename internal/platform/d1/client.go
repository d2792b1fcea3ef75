// Package d1 provides a client for Cloudflare D1, the SQL-over-HTTP query
// endpoint, and a domain record store built on top of it.
package d1

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/imamik/tenantflare/internal/metrics"
	"github.com/imamik/tenantflare/internal/platform/cloudflare"
	"github.com/imamik/tenantflare/internal/util/retry"
)

// Client executes SQL statements against a D1 database over HTTP.
type Client struct {
	apiToken   string
	accountID  string
	databaseID string

	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint. Used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// NewClient creates a new D1 client. databaseID may be empty for clients
// that only provision databases; query operations will then fail fast.
func NewClient(apiToken, accountID, databaseID string, opts ...Option) *Client {
	c := &Client{
		apiToken:   apiToken,
		accountID:  accountID,
		databaseID: databaseID,
		baseURL:    cloudflare.DefaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// QueryResult is one statement result from a D1 query response.
type QueryResult struct {
	Results []map[string]any `json:"results"`
	Success bool             `json:"success"`
	Meta    json.RawMessage  `json:"meta,omitempty"`
}

type queryRequest struct {
	SQL    string `json:"sql"`
	Params []any  `json:"params"`
}

type queryResponse struct {
	Success bool                     `json:"success"`
	Errors  []cloudflare.ErrorDetail `json:"errors"`
	Result  []QueryResult            `json:"result"`
}

// Backoff bounds, vars so tests can shrink them.
var (
	retryMinDelay = 2 * time.Second
	retryMaxDelay = 10 * time.Second
)

// Query executes a SQL statement with positional parameters and returns the
// per-statement results. Transport failures and 5xx responses are retried;
// a logically rejected statement is surfaced immediately.
func (c *Client) Query(ctx context.Context, sql string, params ...any) ([]QueryResult, error) {
	if c.databaseID == "" {
		return nil, &cloudflare.ConfigError{Field: "D1 database ID"}
	}

	if params == nil {
		params = []any{}
	}
	body, err := json.Marshal(queryRequest{SQL: sql, Params: params})
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	url := fmt.Sprintf("%s/accounts/%s/d1/database/%s/query", c.baseURL, c.accountID, c.databaseID)

	var out queryResponse
	start := time.Now()
	err = retry.Do(ctx, func() error {
		return c.post(ctx, url, body, &out)
	},
		retry.WithMaxAttempts(3),
		retry.WithMinDelay(retryMinDelay),
		retry.WithMaxDelay(retryMaxDelay))

	result := "success"
	if err != nil {
		result = "error"
	}
	metrics.RecordAPICall("d1_query", result, time.Since(start).Seconds())

	if err != nil {
		return nil, fmt.Errorf("d1 query: %w", err)
	}
	return out.Result, nil
}

// post issues a single query request and classifies the outcome the same
// way the Cloudflare client does: 5xx retryable, everything else fatal.
func (c *Client) post(ctx context.Context, url string, body []byte, out *queryResponse) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return retry.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post d1 query: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &cloudflare.APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
		if resp.StatusCode >= 500 {
			return apiErr
		}
		return retry.Fatal(apiErr)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return retry.Fatal(fmt.Errorf("parse response: %w", err))
	}
	if !out.Success {
		return retry.Fatal(&cloudflare.APIError{StatusCode: resp.StatusCode, Errors: out.Errors, Body: string(respBody)})
	}
	return nil
}
