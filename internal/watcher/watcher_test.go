package watcher

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pellman/matinee/internal/config"
	"github.com/pellman/matinee/internal/event"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeConfig(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
}

func startWatcher(t *testing.T, path string, onReload ReloadFunc) {
	t.Helper()
	bus := event.NewBus(testLogger(), 16)
	go bus.Start()
	t.Cleanup(bus.Stop)

	svc := NewService(path, onReload, bus, testLogger())
	svc.SetDebounce(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go svc.Start(ctx)

	// Give the watcher time to register before mutating the file.
	time.Sleep(100 * time.Millisecond)
}

func TestReloadOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeConfig(t, path, "scoring:\n  decision_threshold: 37\n")

	reloaded := make(chan *config.Config, 1)
	startWatcher(t, path, func(cfg *config.Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})

	writeConfig(t, path, "scoring:\n  decision_threshold: 53\n")

	select {
	case cfg := <-reloaded:
		if cfg.Scoring.DecisionThreshold != 53 {
			t.Errorf("threshold = %v, want 53", cfg.Scoring.DecisionThreshold)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestInvalidConfigKeepsPrevious(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeConfig(t, path, "scoring:\n  decision_threshold: 37\n")

	reloaded := make(chan struct{}, 1)
	startWatcher(t, path, func(_ *config.Config) {
		select {
		case reloaded <- struct{}{}:
		default:
		}
	})

	writeConfig(t, path, "scoring:\n  decision_threshold: 400\n")

	select {
	case <-reloaded:
		t.Fatal("out-of-range config must not trigger the callback")
	case <-time.After(500 * time.Millisecond):
	}
}

func TestUnrelatedFileIgnored(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeConfig(t, path, "scoring:\n  decision_threshold: 37\n")

	reloaded := make(chan struct{}, 1)
	startWatcher(t, path, func(_ *config.Config) {
		select {
		case reloaded <- struct{}{}:
		default:
		}
	})

	writeConfig(t, filepath.Join(dir, "notes.txt"), "not a config\n")

	select {
	case <-reloaded:
		t.Fatal("unrelated file must not trigger a reload")
	case <-time.After(500 * time.Millisecond):
	}
}
