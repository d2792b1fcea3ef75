// Package orchestration provides helpers for running independent tenant
// operations concurrently.
//
// Operations are stateless and impose no ordering between each other; two
// concurrent operations for the same logical name race against the remote
// platform's own uniqueness constraints.
package orchestration

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Task represents an asynchronous operation with a name and function.
type Task struct {
	Name string
	Func func(context.Context) error
}

// TaskResult pairs a task name with its outcome.
type TaskResult struct {
	Name string
	Err  error
}

// RunParallel executes multiple tasks in parallel and returns the first error encountered.
// All tasks are started concurrently, and the function waits for all to complete.
// If any task returns an error, the first error is returned after all tasks finish.
//
// Set withLogging to true to log task start and completion times, which is useful
// for tracking batch provisioning progress.
func RunParallel(ctx context.Context, tasks []Task, withLogging bool) error {
	results := runAll(ctx, tasks, withLogging)

	var firstError error
	for _, res := range results {
		if res.Err != nil && firstError == nil {
			firstError = fmt.Errorf("failed to run %s: %w", res.Name, res.Err)
		}
	}
	return firstError
}

// RunCollect executes multiple tasks in parallel and returns every task's
// outcome in task order. Unlike RunParallel it never fails fast: batch
// callers want per-item results, not the first error.
func RunCollect(ctx context.Context, tasks []Task, withLogging bool) []TaskResult {
	return runAll(ctx, tasks, withLogging)
}

func runAll(ctx context.Context, tasks []Task, withLogging bool) []TaskResult {
	if len(tasks) == 0 {
		return nil
	}

	type indexed struct {
		index int
		err   error
	}
	resultChan := make(chan indexed, len(tasks))

	for i, task := range tasks {
		go func() {
			if withLogging {
				log.Printf("[%s] Starting at %s", task.Name, time.Now().Format("15:04:05"))
			}
			err := task.Func(ctx)
			if withLogging {
				log.Printf("[%s] Completed at %s", task.Name, time.Now().Format("15:04:05"))
			}
			resultChan <- indexed{index: i, err: err}
		}()
	}

	results := make([]TaskResult, len(tasks))
	for range len(tasks) {
		res := <-resultChan
		results[res.index] = TaskResult{Name: tasks[res.index].Name, Err: res.err}
	}
	return results
}
