package r2

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSiteFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "css"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html></html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "css", "app.css"), []byte("body{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden"), []byte("secret"), 0o644))

	return dir
}

func TestDeploySite(t *testing.T) {
	var mu sync.Mutex
	uploads := map[string]string{} // key -> content type

	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			mu.Lock()
			uploads[r.URL.Path] = r.Header.Get("Content-Type")
			mu.Unlock()
		}
		w.WriteHeader(http.StatusOK)
	}))

	dep, err := c.DeploySite(context.Background(), "tenant-sites", "sites/t-1", writeSiteFixture(t))
	require.NoError(t, err)

	assert.Equal(t, 2, dep.FilesUploaded, "hidden files must be skipped")
	assert.Equal(t, int64(len("<html></html>")+len("body{}")), dep.TotalBytes)

	require.Contains(t, uploads, "/tenant-sites/sites/t-1/index.html")
	require.Contains(t, uploads, "/tenant-sites/sites/t-1/css/app.css")
	assert.Contains(t, uploads["/tenant-sites/sites/t-1/index.html"], "text/html")
	assert.Contains(t, uploads["/tenant-sites/sites/t-1/css/app.css"], "text/css")
}

func TestSiteStatus(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		xmlResponse(w, http.StatusOK, `<ListBucketResult>
			<IsTruncated>false</IsTruncated>
			<Contents><Key>sites/t-1/index.html</Key><Size>13</Size></Contents>
			<Contents><Key>sites/t-1/css/app.css</Key><Size>6</Size></Contents>
		</ListBucketResult>`)
	}))

	status, err := c.SiteStatus(context.Background(), "tenant-sites", "sites/t-1")
	require.NoError(t, err)
	assert.Equal(t, 2, status.ObjectCount)
	assert.Equal(t, int64(19), status.TotalBytes)
}

func TestContentTypeFor(t *testing.T) {
	assert.Contains(t, contentTypeFor("index.html"), "text/html")
	assert.Contains(t, contentTypeFor("app.css"), "text/css")
	assert.Equal(t, "application/octet-stream", contentTypeFor("blob.weird"))
}
