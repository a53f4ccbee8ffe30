package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"
)

// Config holds retry configuration.
type Config struct {
	// MaxAttempts is the total number of calls, including the first one.
	MaxAttempts int

	// InitialDelay is the delay before the first retry. It doubles on every
	// subsequent retry and is clamped to MaxDelay.
	InitialDelay time.Duration

	// MaxDelay caps the backoff delay.
	MaxDelay time.Duration

	// Multiplier scales the delay between attempts.
	Multiplier float64

	// Retryable reports whether an error is worth another attempt.
	// When nil, no error is retried.
	Retryable func(error) bool

	// Log receives a warning-level event before each retry sleep.
	Log logr.Logger
}

// Option is a functional option for retry configuration.
type Option func(*Config)

// Do executes op with bounded exponential backoff.
//
// At most MaxAttempts calls are made (default 3: one initial call plus two
// retries). Delays between attempts grow exponentially and are clamped to
// [InitialDelay, MaxDelay] (defaults 2s and 10s). Context cancellation is
// respected during the backoff sleep.
//
// The last error is returned unchanged so that callers can still match on
// its concrete kind after retries are exhausted.
func Do(ctx context.Context, name string, op func() error, opts ...Option) error {
	cfg := &Config{
		MaxAttempts:  3,
		InitialDelay: 2 * time.Second,
		MaxDelay:     10 * time.Second,
		Multiplier:   2.0,
		Log:          logr.Discard(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}

	delay := cfg.InitialDelay
	var lastErr error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		err := op()
		if err == nil {
			return nil
		}
		lastErr = err

		if cfg.Retryable == nil || !cfg.Retryable(err) {
			return err
		}
		if attempt == cfg.MaxAttempts {
			break
		}

		cfg.Log.Info("call failed, retrying",
			"call", name,
			"error", err.Error(),
			"attempt", fmt.Sprintf("%d/%d", attempt, cfg.MaxAttempts),
			"backoff", delay.String(),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		delay = time.Duration(float64(delay) * cfg.Multiplier)
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	return lastErr
}

// WithMaxAttempts sets the total number of attempts, including the first call.
func WithMaxAttempts(n int) Option {
	return func(c *Config) {
		c.MaxAttempts = n
	}
}

// WithInitialDelay sets the delay before the first retry.
func WithInitialDelay(d time.Duration) Option {
	return func(c *Config) {
		c.InitialDelay = d
	}
}

// WithMaxDelay caps the backoff delay.
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

// WithRetryable sets the predicate deciding which errors are retried.
func WithRetryable(f func(error) bool) Option {
	return func(c *Config) {
		c.Retryable = f
	}
}

// WithLogger sets the logger used for pre-retry warnings.
func WithLogger(log logr.Logger) Option {
	return func(c *Config) {
		c.Log = log
	}
}
