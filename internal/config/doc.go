// Package config loads and validates the tenantflare platform
// configuration from a YAML file plus environment variable overlays.
// Secrets (API token, R2 keys) are expected from the environment;
// the file carries the stable identifiers.
package config
