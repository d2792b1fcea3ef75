package d1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/tenantflare/internal/platform/cloudflare"
)

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

func TestQuery_SendsSQLAndParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts/acct-1/d1/database/db-1/query", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var req queryRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "SELECT * FROM domains WHERE name = ?", req.SQL)
		assert.Equal(t, []any{"www.acme.com"}, req.Params)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"result": []map[string]any{
				{"success": true, "results": []map[string]any{{"name": "www.acme.com", "tenant_id": "t-1"}}},
			},
		})
	}))
	defer srv.Close()

	c := NewClient("test-token", "acct-1", "db-1", WithBaseURL(srv.URL))
	results, err := c.Query(context.Background(), "SELECT * FROM domains WHERE name = ?", "www.acme.com")
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Len(t, results[0].Results, 1)
	assert.Equal(t, "t-1", results[0].Results[0]["tenant_id"])
}

func TestQuery_MissingDatabaseIDFailsFast(t *testing.T) {
	c := NewClient("test-token", "acct-1", "")
	_, err := c.Query(context.Background(), "SELECT 1")
	require.Error(t, err)

	var cfgErr *cloudflare.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "D1 database ID", cfgErr.Field)
}

func TestQuery_RetriesServerErrors(t *testing.T) {
	shortBackoff(t)

	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "result": []map[string]any{}})
	}))
	defer srv.Close()

	c := NewClient("test-token", "acct-1", "db-1", WithBaseURL(srv.URL))
	_, err := c.Query(context.Background(), "SELECT 1")
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestQuery_LogicalErrorNotRetried(t *testing.T) {
	shortBackoff(t)

	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"errors":  []map[string]any{{"code": 7500, "message": "no such table: nope"}},
		})
	}))
	defer srv.Close()

	c := NewClient("test-token", "acct-1", "db-1", WithBaseURL(srv.URL))
	_, err := c.Query(context.Background(), "SELECT * FROM nope")
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.Contains(t, err.Error(), "no such table")
}

func TestCreateDatabase(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var req createDatabaseRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "tenant-domains", req.Name)
		assert.Equal(t, "eu", req.Jurisdiction)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"result":  map[string]string{"uuid": "db-uuid", "name": "tenant-domains"},
		})
	}))
	defer srv.Close()

	c := NewClient("test-token", "acct-1", "", WithBaseURL(srv.URL))
	db, err := c.CreateDatabase(context.Background(), "tenant-domains", "eu")
	require.NoError(t, err)
	assert.Equal(t, "db-uuid", db.UUID)
}

func TestCreateDatabase_ExistingIsResolvedByLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			w.WriteHeader(http.StatusConflict)
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"result": []map[string]string{
					{"uuid": "db-old", "name": "tenant-domains"},
				},
			})
		}
	}))
	defer srv.Close()

	c := NewClient("test-token", "acct-1", "", WithBaseURL(srv.URL))
	db, err := c.CreateDatabase(context.Background(), "tenant-domains", "")
	require.NoError(t, err, "409 on create must be treated as already-exists")
	assert.Equal(t, "db-old", db.UUID)
}
