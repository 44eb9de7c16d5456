// Package retry implements retries with exponential backoff and jitter for
// best-effort outbound calls (the CRM forwarder).
package retry

import (
	"context"
	"math/rand"
	"time"
)

// Config configures retry behavior.
type Config struct {
	// MaxAttempts is the maximum number of attempts (including the first).
	// Default: 3.
	MaxAttempts int

	// InitialDelay is the delay before the first retry.
	// Default: 100ms.
	InitialDelay time.Duration

	// MaxDelay caps the delay between retries.
	// Default: 30 seconds.
	MaxDelay time.Duration

	// Multiplier increases the delay after each retry.
	// Default: 2.0 (exponential backoff).
	Multiplier float64

	// Jitter adds randomness to delays (0.0 to 1.0).
	// Default: 0.1 (10% jitter).
	Jitter float64

	// RetryIf determines whether to retry based on the error.
	// Default: retry all non-nil errors.
	RetryIf func(error) bool

	// OnRetry is called before each retry attempt.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// DefaultConfig returns sensible retry defaults.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
		Jitter:       0.1,
	}
}

// Do executes a function with retries using the given configuration.
// It returns nil on the first success, the last error once attempts are
// exhausted, or the context error if ctx is canceled between attempts.
func Do(ctx context.Context, cfg Config, fn func(ctx context.Context) error) error {
	cfg = withDefaults(cfg)

	var lastErr error
	delay := cfg.InitialDelay

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if ctx.Err() != nil {
			if lastErr != nil {
				return lastErr
			}
			return ctx.Err()
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if cfg.RetryIf != nil && !cfg.RetryIf(err) {
			return err
		}

		// Don't wait after the last attempt
		if attempt >= cfg.MaxAttempts {
			break
		}

		actualDelay := addJitter(delay, cfg.Jitter)

		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, err, actualDelay)
		}

		select {
		case <-ctx.Done():
			return lastErr
		case <-time.After(actualDelay):
		}

		delay = time.Duration(float64(delay) * cfg.Multiplier)
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	return lastErr
}

func withDefaults(cfg Config) Config {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.InitialDelay <= 0 {
		cfg.InitialDelay = 100 * time.Millisecond
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = 30 * time.Second
	}
	if cfg.Multiplier <= 1 {
		cfg.Multiplier = 2.0
	}
	if cfg.Jitter < 0 || cfg.Jitter > 1 {
		cfg.Jitter = 0.1
	}
	return cfg
}

func addJitter(d time.Duration, jitter float64) time.Duration {
	if jitter <= 0 {
		return d
	}
	// Spread the delay across [d*(1-jitter), d*(1+jitter)].
	delta := float64(d) * jitter
	return time.Duration(float64(d) - delta + rand.Float64()*2*delta)
}
