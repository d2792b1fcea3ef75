// Package infra drives an external declarative-infrastructure engine
// (terraform) as a subprocess.
//
// The engine owns the resources that are not manageable through the
// platform API. This package only cares about whether a run succeeded and
// what outputs it produced; authoring the configuration is out of scope.
package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
)

// Runner executes terraform commands in a fixed working directory.
type Runner struct {
	binary     string
	workingDir string
}

// Result reports a completed run: whether it succeeded and the engine's
// key/value outputs.
type Result struct {
	Success bool
	Outputs map[string]string
}

// execCommand is replaceable in tests.
var execCommand = exec.CommandContext

// NewRunner creates a runner for the given working directory. The terraform
// binary is resolved from PATH.
func NewRunner(workingDir string) *Runner {
	return &Runner{binary: "terraform", workingDir: workingDir}
}

// Init runs `terraform init`.
func (r *Runner) Init(ctx context.Context) error {
	if _, err := r.run(ctx, "init", "-input=false"); err != nil {
		return fmt.Errorf("terraform init: %w", err)
	}
	return nil
}

// Apply runs `terraform apply` and returns the run result with outputs.
func (r *Runner) Apply(ctx context.Context, autoApprove bool) (*Result, error) {
	args := []string{"apply", "-input=false"}
	if autoApprove {
		args = append(args, "-auto-approve")
	}
	if _, err := r.run(ctx, args...); err != nil {
		return &Result{Success: false}, fmt.Errorf("terraform apply: %w", err)
	}

	outputs, err := r.Outputs(ctx)
	if err != nil {
		return &Result{Success: true}, fmt.Errorf("read outputs after apply: %w", err)
	}
	return &Result{Success: true, Outputs: outputs}, nil
}

// Destroy runs `terraform destroy`.
func (r *Runner) Destroy(ctx context.Context, autoApprove bool) (*Result, error) {
	args := []string{"destroy", "-input=false"}
	if autoApprove {
		args = append(args, "-auto-approve")
	}
	if _, err := r.run(ctx, args...); err != nil {
		return &Result{Success: false}, fmt.Errorf("terraform destroy: %w", err)
	}
	return &Result{Success: true}, nil
}

// Outputs runs `terraform output -json` and flattens the values to strings.
// Non-string values are kept as their JSON encoding.
func (r *Runner) Outputs(ctx context.Context) (map[string]string, error) {
	raw, err := r.run(ctx, "output", "-json")
	if err != nil {
		return nil, fmt.Errorf("terraform output: %w", err)
	}

	var parsed map[string]struct {
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse terraform outputs: %w", err)
	}

	outputs := make(map[string]string, len(parsed))
	for key, entry := range parsed {
		var s string
		if json.Unmarshal(entry.Value, &s) == nil {
			outputs[key] = s
		} else {
			outputs[key] = string(entry.Value)
		}
	}
	return outputs, nil
}

func (r *Runner) run(ctx context.Context, args ...string) ([]byte, error) {
	// #nosec G204 - binary name is fixed, args are built internally
	cmd := execCommand(ctx, r.binary, args...)
	cmd.Dir = r.workingDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w\nOutput: %s", err, stderr.String())
	}
	return stdout.Bytes(), nil
}
