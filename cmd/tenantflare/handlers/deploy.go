package handlers

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Deploy handles the deploy command.
func Deploy(ctx context.Context, configPath, tenantID, dir string) error {
	platform, _, err := platformFor(configPath)
	if err != nil {
		return err
	}

	log.Printf("Deploying %s for tenant %s", dir, tenantID)

	dep, err := platform.DeploySite(ctx, tenantID, dir)
	if err != nil {
		return fmt.Errorf("deploy failed: %w", err)
	}

	fmt.Printf("Deployed %d files (%d bytes) in %s.\n", dep.FilesUploaded, dep.TotalBytes, dep.Duration.Round(time.Millisecond))
	return nil
}

// DeployStatus handles the deploy status command.
func DeployStatus(ctx context.Context, configPath, tenantID string) error {
	platform, _, err := platformFor(configPath)
	if err != nil {
		return err
	}

	st, err := platform.DeploymentStatus(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("failed to get deployment status: %w", err)
	}

	fmt.Printf("  Objects: %d\n", st.ObjectCount)
	fmt.Printf("  Size:    %d bytes\n", st.TotalBytes)
	return nil
}
