package retry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fastConfig(attempts int) Config {
	return Config{
		Attempts:     attempts,
		InitialDelay: time.Millisecond,
		Factor:       2,
		Jitter:       false,
	}
}

func TestSucceedsAfterFailures(t *testing.T) {
	calls := 0
	result, err := Do(context.Background(), testLogger(), "test", fastConfig(3), func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("transient")
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "ok" {
		t.Errorf("expected ok, got %q", result)
	}
	if calls != 3 {
		t.Errorf("expected 3 invocations, got %d", calls)
	}
}

func TestExhaustionReturnsLastError(t *testing.T) {
	lastErr := errors.New("attempt 4")
	calls := 0
	_, err := Do(context.Background(), testLogger(), "test", fastConfig(4), func(context.Context) (int, error) {
		calls++
		if calls == 4 {
			return 0, lastErr
		}
		return 0, errors.New("earlier")
	})
	if calls != 4 {
		t.Errorf("expected exactly 4 invocations, got %d", calls)
	}
	if !errors.Is(err, lastErr) {
		t.Errorf("expected last error unchanged, got %v", err)
	}
}

func TestFirstAttemptSuccess(t *testing.T) {
	calls := 0
	v, err := Do(context.Background(), testLogger(), "test", fastConfig(3), func(context.Context) (int, error) {
		calls++
		return 42, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 42 || calls != 1 {
		t.Errorf("expected single successful invocation, got v=%d calls=%d", v, calls)
	}
}

func TestPermanentErrorStopsRetries(t *testing.T) {
	sentinel := errors.New("no match")
	calls := 0
	_, err := Do(context.Background(), testLogger(), "test", fastConfig(5), func(context.Context) (int, error) {
		calls++
		return 0, Permanent(sentinel)
	})
	if calls != 1 {
		t.Errorf("permanent error should not be retried, got %d invocations", calls)
	}
	if !errors.Is(err, sentinel) {
		t.Errorf("expected sentinel error, got %v", err)
	}
}

func TestContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	cfg := Config{Attempts: 10, InitialDelay: 50 * time.Millisecond, Factor: 2}
	_, err := Do(ctx, testLogger(), "test", cfg, func(context.Context) (int, error) {
		calls++
		cancel()
		return 0, errors.New("transient")
	})
	if err == nil {
		t.Fatal("expected error after cancellation")
	}
	if calls != 1 {
		t.Errorf("expected 1 invocation before cancellation, got %d", calls)
	}
}
