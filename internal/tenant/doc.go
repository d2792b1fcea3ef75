// Package tenant is the platform facade for tenant lifecycle management.
//
// A tenant gets a platform subdomain at creation time and can attach any
// number of custom domains, each backed by a Cloudflare custom hostname
// with a worker route. Site files live in a shared R2 bucket under a
// per-tenant prefix; tenant and domain records live in D1.
//
// The facade holds no state of its own. Remote APIs and the record store
// are the sources of truth, so every operation can be retried or re-run.
package tenant
