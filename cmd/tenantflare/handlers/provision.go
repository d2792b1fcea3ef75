package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/imamik/tenantflare/internal/config"
	"github.com/imamik/tenantflare/internal/platform/cloudflare"
	"github.com/imamik/tenantflare/internal/platform/d1"
)

// Narrow interfaces over the platform clients so tests can fake them.
type bucketProvisioner interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	CreateBucket(ctx context.Context, bucketName string) error
}

type databaseAdmin interface {
	CreateDatabase(ctx context.Context, name, jurisdiction string) (*d1.Database, error)
}

type schemaEnsurer interface {
	EnsureSchema(ctx context.Context) error
}

type workerDeployer interface {
	DeployWorkerScript(ctx context.Context, scriptName string, source []byte, meta cloudflare.WorkerMetadata) error
}

// Factory function variables for provision - can be replaced in tests.
var (
	// loadConfigLoose loads without full validation; provision may still
	// have to create the D1 database the validator insists on.
	loadConfigLoose = func(path string) (*config.Config, error) {
		if path == "" {
			found, err := config.FindConfigFile()
			if err != nil {
				return nil, err
			}
			path = found
		}
		return config.LoadWithoutValidation(path)
	}

	newBucketProvisioner = func(cfg *config.Config) (bucketProvisioner, error) {
		return newR2Client(cfg)
	}

	newDatabaseAdmin = func(cfg *config.Config) databaseAdmin {
		return newD1Client(cfg)
	}

	newSchemaEnsurer = func(cfg *config.Config) schemaEnsurer {
		return d1.NewStore(newD1Client(cfg), cfg.Cloudflare.ZoneID)
	}

	newWorkerDeployer = func(cfg *config.Config) workerDeployer {
		return newCloudflareClient(cfg)
	}

	readWorkerScript = os.ReadFile
)

// platformDatabaseName is the D1 database created when none is configured.
const platformDatabaseName = "tenantflare"

// Provision bootstraps the shared platform resources. Every step is
// idempotent: existing buckets, databases and tables are left alone.
func Provision(ctx context.Context, configPath, scriptPath string) error {
	cfg, err := loadConfigLoose(configPath)
	if err != nil {
		return err
	}
	if err := validateProvisionConfig(cfg); err != nil {
		return err
	}

	if err := provisionBucket(ctx, cfg); err != nil {
		return err
	}

	if err := provisionDatabase(ctx, cfg); err != nil {
		return err
	}

	if err := newSchemaEnsurer(cfg).EnsureSchema(ctx); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	log.Printf("Tenant and domain tables ready in database %s", cfg.D1.DatabaseID)

	if scriptPath != "" {
		if err := provisionWorker(ctx, cfg, scriptPath); err != nil {
			return err
		}
	}

	log.Println("Platform provisioned")
	return nil
}

func validateProvisionConfig(cfg *config.Config) error {
	var errs []error
	if cfg.PlatformDomain == "" {
		errs = append(errs, errors.New("platform_domain is required"))
	}
	if cfg.Cloudflare.APIToken == "" {
		errs = append(errs, errors.New("CLOUDFLARE_API_TOKEN environment variable is required"))
	}
	if cfg.Cloudflare.AccountID == "" {
		errs = append(errs, errors.New("cloudflare.account_id is required"))
	}
	if cfg.R2.Bucket == "" {
		errs = append(errs, errors.New("r2.bucket is required"))
	}
	return errors.Join(errs...)
}

func provisionBucket(ctx context.Context, cfg *config.Config) error {
	buckets, err := newBucketProvisioner(cfg)
	if err != nil {
		return fmt.Errorf("failed to create R2 client: %w", err)
	}

	exists, err := buckets.BucketExists(ctx, cfg.R2.Bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", cfg.R2.Bucket, err)
	}
	if exists {
		log.Printf("Bucket %s already exists", cfg.R2.Bucket)
		return nil
	}

	if err := buckets.CreateBucket(ctx, cfg.R2.Bucket); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", cfg.R2.Bucket, err)
	}
	log.Printf("Created bucket %s", cfg.R2.Bucket)
	return nil
}

func provisionDatabase(ctx context.Context, cfg *config.Config) error {
	if cfg.D1.DatabaseID != "" {
		return nil
	}

	db, err := newDatabaseAdmin(cfg).CreateDatabase(ctx, platformDatabaseName, "")
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}

	// The rest of this run uses the fresh database; the config file still
	// needs the ID for future runs.
	cfg.D1.DatabaseID = db.UUID
	log.Printf("Created database %s (%s)", db.Name, db.UUID)
	fmt.Printf("\nAdd this to your config file:\n\nd1:\n  database_id: %s\n\n", db.UUID)
	return nil
}

func provisionWorker(ctx context.Context, cfg *config.Config, scriptPath string) error {
	source, err := readWorkerScript(scriptPath)
	if err != nil {
		return fmt.Errorf("failed to read worker script: %w", err)
	}

	meta := cloudflare.WorkerMetadata{
		MainModule:        filepath.Base(scriptPath),
		Bindings:          []cloudflare.WorkerBinding{cloudflare.R2BucketBinding("SITES", cfg.R2.Bucket)},
		CompatibilityDate: "2025-01-01",
		Vars: map[string]string{
			"PLATFORM_DOMAIN": cfg.PlatformDomain,
			"D1_DATABASE_ID":  cfg.D1.DatabaseID,
		},
	}

	if err := newWorkerDeployer(cfg).DeployWorkerScript(ctx, cfg.Cloudflare.WorkerScript, source, meta); err != nil {
		return fmt.Errorf("failed to deploy worker: %w", err)
	}
	log.Printf("Deployed worker script %s", cfg.Cloudflare.WorkerScript)
	return nil
}
