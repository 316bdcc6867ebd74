// Package watcher hot-reloads the configuration file so scoring and retry
// tuning changes apply without a restart.
package watcher

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/pellman/matinee/internal/config"
	"github.com/pellman/matinee/internal/event"
)

// ReloadFunc receives the freshly loaded configuration.
type ReloadFunc func(*config.Config)

// Service watches the config file and invokes the reload callback when it
// changes. Editors typically replace the file rather than write in place,
// so the parent directory is watched and events are filtered by name.
type Service struct {
	path     string
	onReload ReloadFunc
	eventBus *event.Bus
	logger   *slog.Logger
	debounce time.Duration

	mu sync.Mutex
}

// NewService creates a config watcher for the given file path.
func NewService(path string, onReload ReloadFunc, eventBus *event.Bus, logger *slog.Logger) *Service {
	return &Service{
		path:     filepath.Clean(path),
		onReload: onReload,
		eventBus: eventBus,
		logger:   logger.With("component", "config-watcher"),
		debounce: 500 * time.Millisecond,
	}
}

// SetDebounce overrides the default debounce interval (for testing).
func (s *Service) SetDebounce(d time.Duration) {
	s.debounce = d
}

// Start blocks until ctx is canceled. Write and create events for the
// config file are coalesced through a debounce timer before reloading;
// a reload that fails to parse keeps the previous configuration.
func (s *Service) Start(ctx context.Context) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		s.logger.Warn("fsnotify unavailable, config hot reload disabled", "error", err)
		return
	}
	defer w.Close() //nolint:errcheck

	dir := filepath.Dir(s.path)
	if err := w.Add(dir); err != nil {
		s.logger.Error("failed to watch config directory", "dir", dir, "error", err)
		return
	}
	s.logger.Info("watching config file", "path", s.path)

	// Debounce timer starts stopped; reset on each relevant event.
	debounceTimer := time.NewTimer(0)
	if !debounceTimer.Stop() {
		<-debounceTimer.C
	}
	reloadPending := false

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("config watcher stopping")
			return

		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if !s.relevant(ev) {
				continue
			}
			if !debounceTimer.Stop() {
				select {
				case <-debounceTimer.C:
				default:
				}
			}
			debounceTimer.Reset(s.debounce)
			reloadPending = true

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			s.logger.Error("fsnotify error", "error", err)

		case <-debounceTimer.C:
			if reloadPending {
				reloadPending = false
				s.reload()
			}
		}
	}
}

func (s *Service) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	return filepath.Clean(ev.Name) == s.path
}

func (s *Service) reload() {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := config.Load(s.path)
	if err != nil {
		s.logger.Error("config reload failed, keeping previous configuration",
			"path", s.path, "error", err)
		return
	}

	s.logger.Info("configuration reloaded", "path", s.path)
	s.onReload(cfg)
	s.eventBus.Publish(event.Event{
		Type: event.ConfigReloaded,
		Data: map[string]any{"path": s.path},
	})
}
