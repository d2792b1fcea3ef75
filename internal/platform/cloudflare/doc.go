// Package cloudflare provides a client for the Cloudflare v4 API covering
// custom hostnames, worker routes and worker scripts.
//
// Every remote call handles both failure envelopes: a non-2xx status is a
// transport-level failure (5xx retried, 4xx surfaced immediately), and a 2xx
// status with success=false in the body is a logical failure that is never
// retried. Creating or deleting a custom hostname also maintains its worker
// route as a best-effort side effect; route failures are reported via
// [SideEffect] and logged, never propagated.
package cloudflare
