package cloudflare

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"

	"github.com/imamik/tenantflare/internal/metrics"
)

// CustomHostname is a snapshot of a custom hostname as reported by the API.
// It has no local lifecycle; every read refreshes it from remote state.
type CustomHostname struct {
	ID                        string                     `json:"id"`
	Hostname                  string                     `json:"hostname"`
	Status                    string                     `json:"status"`
	VerificationErrors        []string                   `json:"verification_errors,omitempty"`
	SSL                       *SSLInfo                   `json:"ssl,omitempty"`
	OwnershipVerification     *OwnershipVerification     `json:"ownership_verification,omitempty"`
	OwnershipVerificationHTTP *OwnershipVerificationHTTP `json:"ownership_verification_http,omitempty"`
}

// SSLInfo carries the certificate state and the validation records the
// tenant must publish.
type SSLInfo struct {
	Status            string             `json:"status"`
	Method            string             `json:"method,omitempty"`
	Type              string             `json:"type,omitempty"`
	ValidationRecords []ValidationRecord `json:"validation_records,omitempty"`
}

// ValidationRecord is an opaque pass-through of a single SSL validation
// record (TXT or HTTP token).
type ValidationRecord struct {
	TxtName  string `json:"txt_name,omitempty"`
	TxtValue string `json:"txt_value,omitempty"`
	HTTPURL  string `json:"http_url,omitempty"`
	HTTPBody string `json:"http_body,omitempty"`
}

// OwnershipVerification is the TXT record proving hostname ownership.
type OwnershipVerification struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

// OwnershipVerificationHTTP is the HTTP token alternative to the TXT record.
type OwnershipVerificationHTTP struct {
	HTTPURL  string `json:"http_url"`
	HTTPBody string `json:"http_body"`
}

type createHostnameRequest struct {
	Hostname string      `json:"hostname"`
	SSL      sslSettings `json:"ssl"`
}

type sslSettings struct {
	Method   string         `json:"method"`
	Type     string         `json:"type"`
	Settings sslTLSSettings `json:"settings"`
}

type sslTLSSettings struct {
	HTTP2         string `json:"http2"`
	MinTLSVersion string `json:"min_tls_version"`
	TLS13         string `json:"tls_1_3"`
}

// CreateCustomHostname creates a custom hostname in the configured zone and
// attaches a worker route for it as a best-effort follow-up. The hostname is
// returned even when the route attach fails; inspect the SideEffect for the
// attach outcome.
func (c *Client) CreateCustomHostname(ctx context.Context, hostname string) (*CustomHostname, SideEffect, error) {
	if c.zoneID == "" {
		return nil, SideEffect{State: SecondarySkipped}, &ConfigError{Field: "zone ID"}
	}

	payload := createHostnameRequest{
		Hostname: hostname,
		SSL: sslSettings{
			Method: "http",
			Type:   "dv",
			Settings: sslTLSSettings{
				HTTP2:         "on",
				MinTLSVersion: "1.2",
				TLS13:         "on",
			},
		},
	}

	var resp apiResponse
	path := fmt.Sprintf("/zones/%s/custom_hostnames", c.zoneID)
	if err := c.call(ctx, "create_custom_hostname", http.MethodPost, path, payload, &resp); err != nil {
		return nil, SideEffect{State: SecondarySkipped}, fmt.Errorf("create custom hostname %s: %w", hostname, err)
	}

	var ch CustomHostname
	if err := json.Unmarshal(resp.Result, &ch); err != nil {
		return nil, SideEffect{State: SecondarySkipped}, fmt.Errorf("parse custom hostname: %w", err)
	}

	// Attach the worker route. Its failure must not undo the create.
	effect := SideEffect{State: SecondaryOK}
	if _, err := c.AttachWorkerRoute(ctx, hostname); err != nil {
		log.Printf("warning: failed to attach worker route for %s: %v", hostname, err)
		metrics.RecordSideEffectFailure("attach_worker_route")
		effect = SideEffect{State: SecondaryFailed, Err: err}
	}

	return &ch, effect, nil
}

// GetCustomHostname fetches the current state of a custom hostname by ID.
// Returns an error wrapping ErrNotFound when the hostname does not exist.
func (c *Client) GetCustomHostname(ctx context.Context, id string) (*CustomHostname, error) {
	if c.zoneID == "" {
		return nil, &ConfigError{Field: "zone ID"}
	}

	var resp apiResponse
	path := fmt.Sprintf("/zones/%s/custom_hostnames/%s", c.zoneID, id)
	if err := c.call(ctx, "get_custom_hostname", http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("get custom hostname %s: %w", id, err)
	}

	var ch CustomHostname
	if err := json.Unmarshal(resp.Result, &ch); err != nil {
		return nil, fmt.Errorf("parse custom hostname: %w", err)
	}
	return &ch, nil
}

// DeleteCustomHostname deletes a custom hostname. When hostname is empty it
// is resolved via GetCustomHostname first. The worker route is detached
// before the delete; a detach failure is logged and the delete proceeds.
func (c *Client) DeleteCustomHostname(ctx context.Context, id, hostname string) (SideEffect, error) {
	if c.zoneID == "" {
		return SideEffect{State: SecondarySkipped}, &ConfigError{Field: "zone ID"}
	}

	effect := SideEffect{State: SecondarySkipped}
	if hostname == "" {
		ch, err := c.GetCustomHostname(ctx, id)
		if err != nil {
			log.Printf("warning: could not resolve hostname for %s, skipping route detach: %v", id, err)
		} else {
			hostname = ch.Hostname
		}
	}

	if hostname != "" {
		if err := c.DetachWorkerRoute(ctx, hostname); err != nil {
			log.Printf("warning: failed to detach worker route for %s: %v", hostname, err)
			metrics.RecordSideEffectFailure("detach_worker_route")
			effect = SideEffect{State: SecondaryFailed, Err: err}
		} else {
			effect = SideEffect{State: SecondaryOK}
		}
	}

	path := fmt.Sprintf("/zones/%s/custom_hostnames/%s", c.zoneID, id)
	if err := c.call(ctx, "delete_custom_hostname", http.MethodDelete, path, nil, nil); err != nil {
		// A retried delete whose first attempt actually succeeded comes
		// back as not-found. That is equivalent to success.
		if !IsNotFound(err) {
			return effect, fmt.Errorf("delete custom hostname %s: %w", id, err)
		}
	}
	return effect, nil
}

// ListCustomHostnames lists custom hostnames in the zone, optionally
// filtered by hostname. All result pages are fetched.
func (c *Client) ListCustomHostnames(ctx context.Context, hostname string) ([]CustomHostname, error) {
	if c.zoneID == "" {
		return nil, &ConfigError{Field: "zone ID"}
	}

	var all []CustomHostname
	page := 1

	for {
		q := url.Values{}
		q.Set("per_page", "50")
		q.Set("page", fmt.Sprintf("%d", page))
		if hostname != "" {
			q.Set("hostname", hostname)
		}

		var resp apiResponse
		path := fmt.Sprintf("/zones/%s/custom_hostnames?%s", c.zoneID, q.Encode())
		if err := c.call(ctx, "list_custom_hostnames", http.MethodGet, path, nil, &resp); err != nil {
			return nil, fmt.Errorf("list custom hostnames page %d: %w", page, err)
		}

		var items []CustomHostname
		if err := json.Unmarshal(resp.Result, &items); err != nil {
			return nil, fmt.Errorf("parse custom hostnames: %w", err)
		}
		all = append(all, items...)

		if page >= resp.ResultInfo.TotalPages {
			break
		}
		page++
	}

	return all, nil
}
