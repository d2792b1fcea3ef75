// Package wizard implements the interactive setup flow behind
// "tenantflare init". It asks for the handful of identifiers the
// platform needs and writes a starter configuration file.
package wizard

import (
	"context"
	"os"
	"regexp"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"

	"github.com/imamik/tenantflare/internal/config"
)

// Result holds the answers from the interactive wizard.
type Result struct {
	PlatformDomain string
	AccountID      string
	ZoneID         string
	WorkerScript   string
	SiteBucket     string
	DatabaseID     string
}

var domainRegex = regexp.MustCompile(`^([a-z0-9]([a-z0-9-]*[a-z0-9])?\.)+[a-z]{2,}$`)

// CanPrompt reports whether stdin/stdout are attached to a terminal.
// The init handler refuses to start the wizard otherwise.
func CanPrompt() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// Run walks the user through the platform identifiers. The context is
// used for cancellation support (e.g. Ctrl+C).
func Run(ctx context.Context) (*Result, error) {
	result := &Result{
		WorkerScript: "tenant-router",
		SiteBucket:   "tenant-sites",
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Platform Domain").
				Description("The zone tenant subdomains hang off, e.g. example-saas.com").
				Placeholder("example-saas.com").
				Value(&result.PlatformDomain).
				Validate(validateDomain),
			huh.NewInput().
				Title("Cloudflare Account ID").
				Description("Found on the Cloudflare dashboard overview page").
				Value(&result.AccountID).
				Validate(required("account ID")),
			huh.NewInput().
				Title("Cloudflare Zone ID").
				Description("Zone ID of the platform domain").
				Value(&result.ZoneID).
				Validate(required("zone ID")),
		).Title("Cloudflare"),

		huh.NewGroup(
			huh.NewInput().
				Title("Worker Script Name").
				Description("The routing worker custom domains are attached to").
				Value(&result.WorkerScript).
				Validate(required("worker script name")),
			huh.NewInput().
				Title("R2 Bucket").
				Description("Shared bucket holding every tenant's site files").
				Value(&result.SiteBucket).
				Validate(required("bucket name")),
			huh.NewInput().
				Title("D1 Database ID").
				Description("Database holding tenant and domain records (leave empty to create one later)").
				Value(&result.DatabaseID),
		).Title("Storage"),
	)

	if err := form.RunWithContext(ctx); err != nil {
		return nil, err
	}
	return result, nil
}

// ToConfig converts the wizard answers into a platform configuration.
// Secrets are intentionally absent; the loader pulls those from the
// environment.
func (r *Result) ToConfig() *config.Config {
	return &config.Config{
		PlatformDomain: r.PlatformDomain,
		Cloudflare: config.CloudflareConfig{
			AccountID:    r.AccountID,
			ZoneID:       r.ZoneID,
			WorkerScript: r.WorkerScript,
		},
		R2: config.R2Config{Bucket: r.SiteBucket},
		D1: config.D1Config{DatabaseID: r.DatabaseID},
	}
}

func validateDomain(s string) error {
	if !domainRegex.MatchString(s) {
		return errInvalidDomain
	}
	return nil
}

func required(name string) func(string) error {
	return func(s string) error {
		if s == "" {
			return &missingError{field: name}
		}
		return nil
	}
}
