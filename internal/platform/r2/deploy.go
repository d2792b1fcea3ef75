package r2

import (
	"context"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/imamik/tenantflare/internal/metrics"
)

// Deployment summarizes a completed site upload.
type Deployment struct {
	FilesUploaded int
	TotalBytes    int64
	Duration      time.Duration
}

// SiteStatus summarizes the objects currently stored under a site prefix.
type SiteStatus struct {
	ObjectCount int
	TotalBytes  int64
}

// DeploySite uploads every file under dir to the bucket, keyed as
// {prefix}/{relative path}. Hidden files and directories are skipped.
// Content types are derived from file extensions.
func (c *Client) DeploySite(ctx context.Context, bucketName, prefix, dir string) (*Deployment, error) {
	start := time.Now()
	dep := &Deployment{}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(path) // #nosec G304
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		key := prefix + "/" + filepath.ToSlash(rel)
		if err := c.PutObject(ctx, bucketName, key, data, contentTypeFor(rel)); err != nil {
			return err
		}

		dep.FilesUploaded++
		dep.TotalBytes += int64(len(data))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("deploy site from %s: %w", dir, err)
	}

	dep.Duration = time.Since(start)
	metrics.RecordFilesUploaded(dep.FilesUploaded)
	return dep, nil
}

// SiteStatus returns the object count and total size under a site prefix.
func (c *Client) SiteStatus(ctx context.Context, bucketName, prefix string) (*SiteStatus, error) {
	objects, err := c.ListObjects(ctx, bucketName, prefix)
	if err != nil {
		return nil, err
	}

	status := &SiteStatus{ObjectCount: len(objects)}
	for _, obj := range objects {
		status.TotalBytes += obj.Size
	}
	return status, nil
}

// contentTypeFor maps a file name to a MIME type, defaulting to
// octet-stream for unknown extensions.
func contentTypeFor(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
