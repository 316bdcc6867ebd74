// Package retry wraps transient source operations in exponential backoff
// with jitter. It is the single resilience primitive for every network call.
package retry

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Config holds the backoff parameters for one call site.
type Config struct {
	// Attempts is the total number of invocations, including the first.
	Attempts int
	// InitialDelay is the wait before the second attempt.
	InitialDelay time.Duration
	// Factor multiplies the delay after each failed attempt.
	Factor float64
	// Jitter randomizes each delay to avoid retry storms.
	Jitter bool
}

// Defaults returns the backoff parameters used when a call site does not
// override them.
func Defaults() Config {
	return Config{
		Attempts:     3,
		InitialDelay: 1000 * time.Millisecond,
		Factor:       2,
		Jitter:       true,
	}
}

// Permanent marks err as non-retryable; Do returns it immediately.
// No-match conditions use this so they are never retried as failures.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Do runs op up to cfg.Attempts times, backing off between attempts.
// On exhaustion the last error is returned unchanged. Each failed attempt
// logs a warning and each scheduled retry logs at info level.
func Do[T any](ctx context.Context, logger *slog.Logger, label string, cfg Config, op func(context.Context) (T, error)) (T, error) {
	if cfg.Attempts < 1 {
		cfg.Attempts = 1
	}
	if cfg.Factor < 1 {
		cfg.Factor = 2
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = cfg.InitialDelay
	b.Multiplier = cfg.Factor
	b.MaxInterval = 2 * time.Minute
	b.MaxElapsedTime = 0 // bounded by attempts, not wall clock
	if cfg.Jitter {
		b.RandomizationFactor = 0.3
	} else {
		b.RandomizationFactor = 0
	}
	b.Reset()

	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(cfg.Attempts-1)), ctx)

	var result T
	attempt := 0
	operation := func() error {
		attempt++
		v, err := op(ctx)
		if err != nil {
			return err
		}
		result = v
		return nil
	}
	notify := func(err error, next time.Duration) {
		logger.Warn("attempt failed",
			slog.String("op", label),
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()))
		logger.Info("retry scheduled",
			slog.String("op", label),
			slog.Duration("delay", next))
	}

	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
