// Package retry provides utilities for retrying operations with exponential backoff.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// Config holds retry configuration.
type Config struct {
	// MaxAttempts is the total number of times the operation is tried,
	// including the first attempt.
	MaxAttempts int

	// MinDelay is the lower bound for the wait between attempts.
	MinDelay time.Duration

	// MaxDelay is the upper bound for the wait between attempts.
	MaxDelay time.Duration

	// Multiplier scales the delay after each failed attempt.
	Multiplier float64

	// Jitter adds up to Jitter*delay of random extra wait, capped at MaxDelay.
	Jitter float64
}

// Option is a functional option for retry configuration.
type Option func(*Config)

// timeAfter is replaceable in tests to observe backoff delays.
var timeAfter = time.After

// Do executes the operation with exponential backoff retry.
// The operation is tried up to MaxAttempts times, with exponentially
// increasing delays between attempts, clamped to [MinDelay, MaxDelay] and
// randomized by the jitter factor. Context cancellation is respected
// throughout.
//
// Errors wrapped with Fatal() are not retried.
func Do(ctx context.Context, operation func() error, opts ...Option) error {
	cfg := &Config{
		MaxAttempts: 3,
		MinDelay:    2 * time.Second,
		MaxDelay:    10 * time.Second,
		Multiplier:  2.0,
		Jitter:      0.5,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	delay := cfg.MinDelay
	var lastErr error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}

		lastErr = err

		if IsFatal(err) {
			return fmt.Errorf("fatal error (not retrying): %w", err)
		}

		if attempt < cfg.MaxAttempts {
			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled after %d attempts: %w", attempt, ctx.Err())
			case <-timeAfter(jittered(delay, cfg)):
				delay = time.Duration(float64(delay) * cfg.Multiplier)
				if delay > cfg.MaxDelay {
					delay = cfg.MaxDelay
				}
			}
		}
	}

	return fmt.Errorf("operation failed after %d attempts: %w", cfg.MaxAttempts, lastErr)
}

// jittered returns the delay with random jitter applied, clamped to the
// configured bounds. With a multiplier of at least 1+Jitter the jittered
// waits stay non-decreasing across attempts.
func jittered(delay time.Duration, cfg *Config) time.Duration {
	if cfg.Jitter <= 0 {
		return delay
	}
	d := time.Duration(float64(delay) * (1 + rand.Float64()*cfg.Jitter)) // #nosec G404
	if d > cfg.MaxDelay {
		d = cfg.MaxDelay
	}
	if d < cfg.MinDelay {
		d = cfg.MinDelay
	}
	return d
}

// WithMaxAttempts sets the total number of attempts.
func WithMaxAttempts(n int) Option {
	return func(c *Config) {
		c.MaxAttempts = n
	}
}

// WithMinDelay sets the minimum delay between attempts.
func WithMinDelay(d time.Duration) Option {
	return func(c *Config) {
		c.MinDelay = d
	}
}

// WithMaxDelay sets the maximum delay between attempts.
func WithMaxDelay(d time.Duration) Option {
	return func(c *Config) {
		c.MaxDelay = d
	}
}

// WithMultiplier sets the backoff multiplier.
func WithMultiplier(m float64) Option {
	return func(c *Config) {
		c.Multiplier = m
	}
}

// WithJitter sets the jitter factor. Zero disables jitter.
func WithJitter(j float64) Option {
	return func(c *Config) {
		c.Jitter = j
	}
}

// FatalError wraps an error to mark it as fatal (non-retryable).
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// Fatal marks an error as fatal (non-retryable).
// Operations that encounter fatal errors will not be retried.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &FatalError{Err: err}
}

// IsFatal checks if an error is fatal (non-retryable).
func IsFatal(err error) bool {
	var fatalErr *FatalError
	return errors.As(err, &fatalErr)
}
