// Package r2 provides a client for Cloudflare R2 object storage
// (S3-compatible).
//
// It handles bucket creation, object upload, and tenant site deployment.
// The client derives the R2 endpoint from the account ID.
package r2
