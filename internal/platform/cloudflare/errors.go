package cloudflare

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates the requested resource does not exist remotely.
var ErrNotFound = errors.New("resource not found")

// ErrAlreadyExists indicates a create call conflicted with an existing
// resource. Provisioning flows treat this as success.
var ErrAlreadyExists = errors.New("resource already exists")

// ConfigError indicates a required identifier or credential is missing.
// These errors fail fast and are never retried.
type ConfigError struct {
	Field string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", e.Field)
}

// APIError represents a failed Cloudflare API call. StatusCode is the HTTP
// status; a StatusCode of 200 means the transport succeeded but the response
// envelope reported success=false.
type APIError struct {
	StatusCode int
	Errors     []ErrorDetail
	Body       string
}

// ErrorDetail is a single error entry from the Cloudflare response envelope.
type ErrorDetail struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("API error (status %d): [%d] %s", e.StatusCode, e.Errors[0].Code, e.Errors[0].Message)
	}
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Body)
}

// IsNotFound checks if an error indicates a resource was not found.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error indicates a create conflict.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsTransient checks if an error is worth retrying: either the transport
// failed outright or the API returned a 5xx status.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500
	}
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return false
	}
	// Transport-level failures carry no status code.
	return !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrAlreadyExists)
}

// IsLogicalFailure checks if the API accepted the request but rejected it in
// the response envelope (success=false on a 2xx status).
func IsLogicalFailure(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode >= 200 && apiErr.StatusCode < 300
}
