// Package main is the entry point for the tenantflare CLI.
//
// tenantflare manages white-label tenant sites on Cloudflare: custom
// hostnames with worker routes, site files in R2 and tenant records in
// D1. It talks to the Cloudflare APIs directly; the only local state is
// the configuration file.
//
// Commands: init, provision, tenant, domain, deploy, infra.
//
// For detailed usage information, run:
//
//	tenantflare --help
package main

import (
	"fmt"
	"os"

	"github.com/imamik/tenantflare/cmd/tenantflare/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
