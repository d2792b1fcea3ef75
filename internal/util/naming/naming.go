package naming

import (
	"fmt"
	"strings"
)

// Naming functions for tenant resources.
// All derived names are deterministic so resources can be found again
// without storing their remote identifiers.

// RoutePattern returns the worker route pattern associated with a hostname.
func RoutePattern(hostname string) string {
	return fmt.Sprintf("%s/*", hostname)
}

// Subdomain returns the platform subdomain for a tenant slug.
func Subdomain(slug, platformDomain string) string {
	return fmt.Sprintf("%s.%s", slug, platformDomain)
}

// SitePrefix returns the object key prefix for a tenant's site files.
func SitePrefix(tenantID string) string {
	return fmt.Sprintf("sites/%s", tenantID)
}

// SiteObjectKey returns the object key for a file within a tenant's site.
func SiteObjectKey(tenantID, relPath string) string {
	return fmt.Sprintf("%s/%s", SitePrefix(tenantID), strings.TrimPrefix(relPath, "/"))
}

// SlugFromHost extracts the tenant slug from a platform subdomain host.
// Returns the empty string when host is not a direct subdomain of the
// platform domain.
func SlugFromHost(host, platformDomain string) string {
	suffix := "." + platformDomain
	if !strings.HasSuffix(host, suffix) {
		return ""
	}
	slug := strings.TrimSuffix(host, suffix)
	if slug == "" || strings.Contains(slug, ".") {
		return ""
	}
	return slug
}
