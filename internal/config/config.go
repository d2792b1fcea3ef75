package config

import (
	"errors"
	"fmt"
	"os"
)

// Config is the full tenantflare platform configuration.
type Config struct {
	// PlatformDomain is the zone tenant subdomains hang off, e.g.
	// "example-saas.com". It is also the CNAME target handed to tenants.
	PlatformDomain string `yaml:"platform_domain"`

	Cloudflare CloudflareConfig `yaml:"cloudflare"`
	R2         R2Config         `yaml:"r2"`
	D1         D1Config         `yaml:"d1"`
	Terraform  TerraformConfig  `yaml:"terraform,omitempty"`
}

// CloudflareConfig identifies the account, zone and routing worker.
type CloudflareConfig struct {
	// APIToken is normally supplied via CLOUDFLARE_API_TOKEN rather than
	// the config file; a value here is a fallback for local development.
	APIToken     string `yaml:"api_token,omitempty"`
	AccountID    string `yaml:"account_id"`
	ZoneID       string `yaml:"zone_id"`
	WorkerScript string `yaml:"worker_script"`
}

// R2Config locates the shared site bucket and its S3 credentials.
type R2Config struct {
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"access_key,omitempty"`
	SecretKey string `yaml:"secret_key,omitempty"`
}

// D1Config identifies the tenant record database.
type D1Config struct {
	DatabaseID string `yaml:"database_id"`
}

// TerraformConfig points at the working directory for the infra runner.
type TerraformConfig struct {
	WorkingDir string `yaml:"working_dir,omitempty"`
}

// ApplyEnv overlays environment variables onto the config. Environment
// values always win so tokens never have to live in the file.
func (c *Config) ApplyEnv() {
	overlay := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	overlay(&c.Cloudflare.APIToken, "CLOUDFLARE_API_TOKEN")
	overlay(&c.Cloudflare.AccountID, "CLOUDFLARE_ACCOUNT_ID")
	overlay(&c.Cloudflare.ZoneID, "CLOUDFLARE_ZONE_ID")
	overlay(&c.R2.AccessKey, "R2_ACCESS_KEY_ID")
	overlay(&c.R2.SecretKey, "R2_SECRET_ACCESS_KEY")
	overlay(&c.D1.DatabaseID, "D1_DATABASE_ID")
}

// Validate checks the configuration and returns all problems at once.
func (c *Config) Validate() error {
	var errs []error

	if c.PlatformDomain == "" {
		errs = append(errs, errors.New("platform_domain is required"))
	}
	if c.Cloudflare.APIToken == "" {
		errs = append(errs, errors.New("CLOUDFLARE_API_TOKEN environment variable (or cloudflare.api_token) is required"))
	}
	if c.Cloudflare.AccountID == "" {
		errs = append(errs, errors.New("cloudflare.account_id is required"))
	}
	if c.Cloudflare.ZoneID == "" {
		errs = append(errs, errors.New("cloudflare.zone_id is required"))
	}
	if c.Cloudflare.WorkerScript == "" {
		errs = append(errs, errors.New("cloudflare.worker_script is required"))
	}
	if c.R2.Bucket == "" {
		errs = append(errs, errors.New("r2.bucket is required"))
	} else {
		if c.R2.AccessKey == "" {
			errs = append(errs, errors.New("R2_ACCESS_KEY_ID environment variable (or r2.access_key) is required"))
		}
		if c.R2.SecretKey == "" {
			errs = append(errs, errors.New("R2_SECRET_ACCESS_KEY environment variable (or r2.secret_key) is required"))
		}
	}
	if c.D1.DatabaseID == "" {
		errs = append(errs, errors.New("d1.database_id is required"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %w", errors.Join(errs...))
	}
	return nil
}
