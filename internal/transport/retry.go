// Package transport provides retry-with-backoff for network-facing calls
// that fail in a transient (5xx/timeout) vs. permanent (bad-request) shape.
// Its one caller is the LLM client's completions; mirror clone/push and
// container commands are run once, without going through it.
package transport

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// RetryConfig configures exponential backoff retry behavior.
type RetryConfig struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultRetryConfig returns the policy used when a config.Defaults.RetryMax
// is not overridden.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:     5,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     30 * time.Second,
	}
}

// Permanent marks err as non-retryable — Do/DoValue return it immediately
// instead of retrying. Use for errors where retrying cannot help (bad
// credentials, malformed patch, 4xx from an LLM provider).
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Do retries op until it succeeds, cfg.MaxAttempts is exhausted, ctx is
// cancelled, or op returns a Permanent error.
func Do(ctx context.Context, cfg RetryConfig, op func() error) error {
	_, err := DoValue(ctx, cfg, func() (struct{}, error) {
		return struct{}{}, op()
	})
	return err
}

// DoValue is Do for operations that produce a result.
func DoValue[T any](ctx context.Context, cfg RetryConfig, op func() (T, error)) (T, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = cfg.InitialInterval
	bo.MaxInterval = cfg.MaxInterval

	result, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(uint(cfg.MaxAttempts)),
	)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("after retries: %w", err)
	}
	return result, nil
}
