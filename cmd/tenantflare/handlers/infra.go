package handlers

import (
	"context"
	"fmt"
	"log"

	"github.com/imamik/tenantflare/internal/config"
	"github.com/imamik/tenantflare/internal/platform/infra"
)

// infraRunner is the subset of the terraform runner the handlers use.
type infraRunner interface {
	Init(ctx context.Context) error
	Apply(ctx context.Context, autoApprove bool) (*infra.Result, error)
	Destroy(ctx context.Context, autoApprove bool) (*infra.Result, error)
}

// newInfraRunner creates the terraform runner - can be replaced in tests.
var newInfraRunner = func(workingDir string) infraRunner {
	return infra.NewRunner(workingDir)
}

// InfraApply handles the infra apply command.
func InfraApply(ctx context.Context, configPath string, autoApprove bool) error {
	cfg, err := loadConfigLoose(configPath)
	if err != nil {
		return err
	}
	dir, err := terraformDir(cfg)
	if err != nil {
		return err
	}

	runner := newInfraRunner(dir)

	log.Printf("Initializing terraform in %s", dir)
	if err := runner.Init(ctx); err != nil {
		return fmt.Errorf("terraform init failed: %w", err)
	}

	result, err := runner.Apply(ctx, autoApprove)
	if err != nil {
		return fmt.Errorf("terraform apply failed: %w", err)
	}

	log.Println("Infrastructure applied")
	for key, value := range result.Outputs {
		fmt.Printf("  %s = %s\n", key, value)
	}
	return nil
}

// InfraDestroy handles the infra destroy command.
func InfraDestroy(ctx context.Context, configPath string, autoApprove bool) error {
	cfg, err := loadConfigLoose(configPath)
	if err != nil {
		return err
	}
	dir, err := terraformDir(cfg)
	if err != nil {
		return err
	}

	runner := newInfraRunner(dir)

	log.Printf("Destroying infrastructure in %s", dir)
	if _, err := runner.Destroy(ctx, autoApprove); err != nil {
		return fmt.Errorf("terraform destroy failed: %w", err)
	}

	log.Println("Infrastructure destroyed")
	return nil
}

func terraformDir(cfg *config.Config) (string, error) {
	if cfg.Terraform.WorkingDir == "" {
		return "", fmt.Errorf("terraform.working_dir is not configured")
	}
	return cfg.Terraform.WorkingDir, nil
}
