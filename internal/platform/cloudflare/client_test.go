package cloudflare

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// shortBackoff shrinks the retry delays for the duration of a test.
func shortBackoff(t *testing.T) {
	t.Helper()
	origMin, origMax := retryMinDelay, retryMaxDelay
	retryMinDelay = time.Millisecond
	retryMaxDelay = 5 * time.Millisecond
	t.Cleanup(func() {
		retryMinDelay = origMin
		retryMaxDelay = origMax
	})
}

func newTestClient(srvURL string) *Client {
	return NewClient("test-token", "acct-1", "zone-1", "router", WithBaseURL(srvURL))
}

func writeEnvelope(w http.ResponseWriter, result string) {
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"result":  json.RawMessage(result),
	})
}

func TestCall_AuthHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		writeEnvelope(w, `{"id":"ch-1","hostname":"www.acme.com","status":"pending"}`)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	ch, err := c.GetCustomHostname(context.Background(), "ch-1")
	require.NoError(t, err)
	assert.Equal(t, "www.acme.com", ch.Hostname)
}

func TestCall_TransientRetriedThenSucceeds(t *testing.T) {
	shortBackoff(t)

	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		writeEnvelope(w, `{"id":"ch-1","hostname":"www.acme.com","status":"active"}`)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	ch, err := c.GetCustomHostname(context.Background(), "ch-1")
	require.NoError(t, err)
	assert.Equal(t, "active", ch.Status)
	assert.Equal(t, 3, attempts, "transient failures on attempts 1 and 2 must be retried")
}

func TestCall_TransientExhaustsAttempts(t *testing.T) {
	shortBackoff(t)

	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.GetCustomHostname(context.Background(), "ch-1")
	require.Error(t, err)
	assert.Equal(t, 3, attempts)
	assert.True(t, IsTransient(err))
}

func TestCall_LogicalFailureNotRetried(t *testing.T) {
	shortBackoff(t)

	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"errors":  []map[string]any{{"code": 1407, "message": "Invalid hostname"}},
		})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, _, err := c.CreateCustomHostname(context.Background(), "bad host")
	require.Error(t, err)
	assert.Equal(t, 1, attempts, "logical failures must fail after exactly one attempt")
	assert.True(t, IsLogicalFailure(err))
	assert.Contains(t, err.Error(), "Invalid hostname")
}

func TestCall_PermanentClientErrorNotRetried(t *testing.T) {
	shortBackoff(t)

	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"errors":  []map[string]any{{"code": 10000, "message": "Authentication error"}},
		})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.GetCustomHostname(context.Background(), "ch-1")
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.False(t, IsTransient(err))
}

func TestCall_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"errors":  []map[string]any{{"code": 1436, "message": "Custom hostname not found"}},
		})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.GetCustomHostname(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, IsNotFound(err), "404 must be distinguishable as absence")
	assert.False(t, IsTransient(err))
}

func TestCall_ConflictIsAlreadyExists(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, _, err := c.CreateCustomHostname(context.Background(), "www.acme.com")
	require.Error(t, err)
	assert.Equal(t, 1, attempts, "409 must not be retried")
	assert.True(t, IsAlreadyExists(err))
}

func TestCall_MissingZoneFailsFast(t *testing.T) {
	c := NewClient("test-token", "acct-1", "", "router")
	_, err := c.GetCustomHostname(context.Background(), "ch-1")
	require.Error(t, err)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "zone ID", cfgErr.Field)
}
