package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/imamik/tenantflare/internal/config"
	"github.com/imamik/tenantflare/internal/config/wizard"
)

// Factory function variables for init - can be replaced in tests.
var (
	canPrompt   = wizard.CanPrompt
	fileExists  = wizard.FileExists
	runWizard   = wizard.Run
	writeConfig = wizard.WriteConfig
)

// Init runs the configuration wizard and writes the result to a file.
func Init(ctx context.Context, outputPath string) error {
	if !canPrompt() {
		return errors.New("init needs an interactive terminal; write the config file by hand instead")
	}

	if fileExists(outputPath) {
		fmt.Printf("Warning: %s already exists and will be overwritten.\n\n", outputPath)
	}

	printWelcome()

	result, err := runWizard(ctx)
	if err != nil {
		return fmt.Errorf("wizard canceled: %w", err)
	}

	cfg := result.ToConfig()

	if err := writeConfig(cfg, outputPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printInitSuccess(outputPath, cfg)
	return nil
}

func printWelcome() {
	fmt.Println()
	fmt.Println("tenantflare - white-label tenant sites on Cloudflare")
	fmt.Println("=====================================================")
	fmt.Println()
	fmt.Println("This wizard creates a platform configuration file.")
	fmt.Println("Secrets stay out of the file; supply them via environment variables.")
	fmt.Println()
}

func printInitSuccess(outputPath string, cfg *config.Config) {
	fmt.Println()
	fmt.Println("Configuration saved!")
	fmt.Println()
	fmt.Printf("  File: %s\n", outputPath)
	fmt.Println()

	fmt.Println("Platform Summary")
	fmt.Println("----------------")
	fmt.Printf("  Domain:        %s\n", cfg.PlatformDomain)
	fmt.Printf("  Account:       %s\n", cfg.Cloudflare.AccountID)
	fmt.Printf("  Zone:          %s\n", cfg.Cloudflare.ZoneID)
	fmt.Printf("  Worker Script: %s\n", cfg.Cloudflare.WorkerScript)
	fmt.Printf("  Site Bucket:   %s\n", cfg.R2.Bucket)
	if cfg.D1.DatabaseID != "" {
		fmt.Printf("  Database:      %s\n", cfg.D1.DatabaseID)
	}
	fmt.Println()

	fmt.Println("Next Steps")
	fmt.Println("----------")
	fmt.Println("  1. Set your Cloudflare API token and R2 keys:")
	fmt.Println("     export CLOUDFLARE_API_TOKEN=<your-token>")
	fmt.Println("     export R2_ACCESS_KEY_ID=<your-key>")
	fmt.Println("     export R2_SECRET_ACCESS_KEY=<your-secret>")
	fmt.Println()
	fmt.Println("  2. Provision the shared resources:")
	fmt.Printf("     tenantflare provision -c %s\n", outputPath)
	fmt.Println()
	fmt.Println("  3. Create your first tenant:")
	fmt.Println("     tenantflare tenant create --name \"Acme\" --slug acme")
	fmt.Println()
}
