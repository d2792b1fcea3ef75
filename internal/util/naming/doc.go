// Package naming provides consistent naming functions for tenant resources.
//
// Worker route patterns follow {hostname}/* so a route can always be located
// from its hostname without storing the route ID. Tenant subdomains follow
// {slug}.{platform-domain} and site objects live under sites/{tenant}/.
package naming
