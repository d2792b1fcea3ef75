package cloudflare

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"github.com/imamik/tenantflare/internal/metrics"
	"github.com/imamik/tenantflare/internal/util/retry"
)

// WorkerMetadata describes a worker script upload: its bindings and
// environment variables.
type WorkerMetadata struct {
	MainModule         string            `json:"main_module"`
	Bindings           []WorkerBinding   `json:"bindings,omitempty"`
	CompatibilityDate  string            `json:"compatibility_date,omitempty"`
	CompatibilityFlags []string          `json:"compatibility_flags,omitempty"`
	Vars               map[string]string `json:"vars,omitempty"`
}

// WorkerBinding binds a named resource (e.g. an R2 bucket) into the worker.
type WorkerBinding struct {
	Type       string `json:"type"`
	Name       string `json:"name"`
	BucketName string `json:"bucket_name,omitempty"`
}

// R2BucketBinding returns a binding exposing an R2 bucket to the worker
// under the given variable name.
func R2BucketBinding(name, bucket string) WorkerBinding {
	return WorkerBinding{Type: "r2_bucket", Name: name, BucketName: bucket}
}

// DeployWorkerScript uploads a worker module script with its metadata. The
// upload is a multipart request: one part carries the metadata JSON, one the
// module source. Re-deploying an existing script overwrites it.
func (c *Client) DeployWorkerScript(ctx context.Context, scriptName string, source []byte, meta WorkerMetadata) error {
	if c.accountID == "" {
		return &ConfigError{Field: "account ID"}
	}
	if meta.MainModule == "" {
		meta.MainModule = "index.js"
	}

	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("encode worker metadata: %w", err)
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	metaHeader := textproto.MIMEHeader{}
	metaHeader.Set("Content-Disposition", `form-data; name="metadata"`)
	metaHeader.Set("Content-Type", "application/json")
	metaPart, err := w.CreatePart(metaHeader)
	if err != nil {
		return fmt.Errorf("create metadata part: %w", err)
	}
	if _, err := metaPart.Write(metaJSON); err != nil {
		return fmt.Errorf("write metadata part: %w", err)
	}

	moduleHeader := textproto.MIMEHeader{}
	moduleHeader.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, meta.MainModule, meta.MainModule))
	moduleHeader.Set("Content-Type", "application/javascript+module")
	modulePart, err := w.CreatePart(moduleHeader)
	if err != nil {
		return fmt.Errorf("create module part: %w", err)
	}
	if _, err := modulePart.Write(source); err != nil {
		return fmt.Errorf("write module part: %w", err)
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize multipart body: %w", err)
	}

	path := fmt.Sprintf("/accounts/%s/workers/scripts/%s", c.accountID, scriptName)
	payload := body.Bytes()
	contentType := w.FormDataContentType()

	start := time.Now()
	callErr := retry.Do(ctx, func() error {
		var resp apiResponse
		return c.doOnce(ctx, http.MethodPut, path, payload, contentType, &resp)
	},
		retry.WithMaxAttempts(retryAttempts),
		retry.WithMinDelay(retryMinDelay),
		retry.WithMaxDelay(retryMaxDelay))

	result := "success"
	if callErr != nil {
		result = "error"
	}
	metrics.RecordAPICall("deploy_worker_script", result, time.Since(start).Seconds())

	if callErr != nil {
		return fmt.Errorf("deploy worker script %s: %w", scriptName, callErr)
	}
	return nil
}

// DeleteWorkerScript removes a worker script. A missing script is treated
// as already deleted.
func (c *Client) DeleteWorkerScript(ctx context.Context, scriptName string) error {
	if c.accountID == "" {
		return &ConfigError{Field: "account ID"}
	}

	path := fmt.Sprintf("/accounts/%s/workers/scripts/%s", c.accountID, scriptName)
	if err := c.call(ctx, "delete_worker_script", http.MethodDelete, path, nil, nil); err != nil {
		if IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("delete worker script %s: %w", scriptName, err)
	}
	return nil
}
