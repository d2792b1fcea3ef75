package cloudflare

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/imamik/tenantflare/internal/metrics"
	"github.com/imamik/tenantflare/internal/util/retry"
)

// DefaultBaseURL is the Cloudflare v4 API endpoint.
const DefaultBaseURL = "https://api.cloudflare.com/client/v4"

// Retry bounds for remote calls. Creates and deletes are assumed safe to
// repeat at the edge; a lost success response can surface as a 409 or a
// not-found on the retry, which callers treat as equivalent to success.
const retryAttempts = 3

// Backoff bounds are vars so tests can shrink them.
var (
	retryMinDelay = 2 * time.Second
	retryMaxDelay = 10 * time.Second
)

// Client is a Cloudflare API client for custom hostnames, worker routes and
// worker scripts. It holds a single shared HTTP transport; construct one per
// process and pass it to every operation.
type Client struct {
	apiToken     string
	accountID    string
	zoneID       string
	workerScript string

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

// NewClient creates a new Cloudflare API client. workerScript names the
// worker that custom hostnames are routed to.
func NewClient(apiToken, accountID, zoneID, workerScript string, opts ...Option) *Client {
	c := &Client{
		apiToken:     apiToken,
		accountID:    accountID,
		zoneID:       zoneID,
		workerScript: workerScript,
		baseURL:      DefaultBaseURL,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// apiResponse is the Cloudflare response envelope.
type apiResponse struct {
	Success    bool            `json:"success"`
	Errors     []ErrorDetail   `json:"errors"`
	Result     json.RawMessage `json:"result"`
	ResultInfo resultInfo      `json:"result_info"`
}

type resultInfo struct {
	Page       int `json:"page"`
	TotalPages int `json:"total_pages"`
}

// call performs a remote call with retry and records metrics for it.
// Transport failures and 5xx responses are retried up to retryAttempts
// times with jittered exponential backoff; everything else fails on the
// first attempt.
func (c *Client) call(ctx context.Context, operation, method, path string, payload any, out *apiResponse) error {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode %s payload: %w", operation, err)
		}
	}

	start := time.Now()
	err := retry.Do(ctx, func() error {
		return c.doOnce(ctx, method, path, body, "application/json", out)
	},
		retry.WithMaxAttempts(retryAttempts),
		retry.WithMinDelay(retryMinDelay),
		retry.WithMaxDelay(retryMaxDelay))

	result := "success"
	if err != nil {
		result = "error"
	}
	metrics.RecordAPICall(operation, result, time.Since(start).Seconds())

	return err
}

// doOnce issues a single HTTP request and classifies the outcome:
//   - transport failure or 5xx: returned as-is (retryable)
//   - 404: fatal, wraps ErrNotFound
//   - 409: fatal, wraps ErrAlreadyExists
//   - other 4xx: fatal
//   - 2xx with success=false: fatal logical failure
func (c *Client) doOnce(ctx context.Context, method, path string, body []byte, contentType string, out *apiResponse) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return retry.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
		// Carry the envelope errors when the body parses.
		var envelope apiResponse
		if json.Unmarshal(respBody, &envelope) == nil {
			apiErr.Errors = envelope.Errors
		}

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return retry.Fatal(fmt.Errorf("%w: %w", ErrNotFound, apiErr))
		case resp.StatusCode == http.StatusConflict:
			return retry.Fatal(fmt.Errorf("%w: %w", ErrAlreadyExists, apiErr))
		case resp.StatusCode >= 500:
			return apiErr // retryable
		default:
			return retry.Fatal(apiErr)
		}
	}

	if out == nil {
		// Callers that discard the result still get envelope
		// classification: a 2xx carrying success=false is a rejection,
		// not a success.
		if len(bytes.TrimSpace(respBody)) == 0 {
			return nil
		}
		out = &apiResponse{}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return retry.Fatal(fmt.Errorf("parse response: %w (status %d)", err, resp.StatusCode))
	}

	// 2xx transport with a logically rejected request. Repeating it is
	// assumed futile.
	if !out.Success {
		return retry.Fatal(&APIError{StatusCode: resp.StatusCode, Errors: out.Errors, Body: string(respBody)})
	}

	return nil
}
