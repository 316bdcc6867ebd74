package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/pellman/matinee/internal/api"
	"github.com/pellman/matinee/internal/api/middleware"
	"github.com/pellman/matinee/internal/config"
	"github.com/pellman/matinee/internal/database"
	"github.com/pellman/matinee/internal/event"
	"github.com/pellman/matinee/internal/logging"
	"github.com/pellman/matinee/internal/movie"
	"github.com/pellman/matinee/internal/prefs"
	"github.com/pellman/matinee/internal/retry"
	"github.com/pellman/matinee/internal/source"
	"github.com/pellman/matinee/internal/source/academy"
	"github.com/pellman/matinee/internal/source/screenboard"
	"github.com/pellman/matinee/internal/source/tomatometer"
	"github.com/pellman/matinee/internal/watcher"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	configPath := os.Getenv("MATINEE_CONFIG_PATH")
	if configPath == "" {
		configPath = "/data/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Set up structured logging via the logging Manager
	logCfg := logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}
	logManager, logger := logging.NewManager(logCfg)
	defer logManager.Close() //nolint:errcheck
	slog.SetDefault(logger)

	// Open database
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("closing database", "error", err)
		}
	}()

	// Run migrations
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	logger.Info("database ready", slog.String("path", cfg.Database.Path))

	// Event bus for lookup, enrichment, and config lifecycle events
	eventBus := event.NewBus(logger, 256)
	go eventBus.Start()
	defer eventBus.Stop()

	// Source adapters share a per-source rate limiter map so retries and
	// concurrent lookups respect each upstream's request budget.
	limiters := source.NewRateLimiterMap()
	retryCfg := retry.Config{
		Attempts:     cfg.Retry.Attempts,
		InitialDelay: cfg.Retry.InitialDelay,
		Factor:       cfg.Retry.Factor,
		Jitter:       cfg.Retry.Jitter,
	}

	ratingSource := screenboard.New(limiters, logger, cfg.Sources.ScreenboardURL,
		cfg.Sources.ScreenboardAPIKey, retryCfg)
	scorecardSource := tomatometer.New(limiters, logger, cfg.Sources.TomatometerURL, retryCfg)
	awardsSource := academy.New(limiters, logger, cfg.Sources.AcademyURL, retryCfg)

	recordCache := movie.NewCache(cfg.Lookup.CacheTTL)
	builder := movie.NewBuilder(ratingSource, scorecardSource, awardsSource,
		recordCache, eventBus, logger, movie.BuilderOptions{
			SearchTimeout: cfg.Lookup.SearchTimeout,
			AwardsAsync:   cfg.Lookup.AwardsAsync,
		})

	prefService := prefs.NewService(db)

	// The decision threshold is hot-reloadable, so the router reads it
	// through an atomic holder the watcher callback updates.
	var thresholdBits atomic.Uint64
	thresholdBits.Store(math.Float64bits(cfg.Scoring.DecisionThreshold))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Watch the config file and apply logging and scoring changes in place.
	reload := func(next *config.Config) {
		thresholdBits.Store(math.Float64bits(next.Scoring.DecisionThreshold))
		logManager.Reconfigure(logging.Config{
			Level:  next.Logging.Level,
			Format: next.Logging.Format,
		})
		logger.Info("configuration applied",
			slog.Float64("decision_threshold", next.Scoring.DecisionThreshold),
			slog.String("log_level", next.Logging.Level))
	}
	watcherService := watcher.NewService(configPath, reload, eventBus, logger)
	go watcherService.Start(ctx)

	router := api.NewRouter(api.RouterDeps{
		Builder:   builder,
		Prefs:     prefService,
		Threshold: func() float64 { return math.Float64frombits(thresholdBits.Load()) },
		RateLimit: middleware.NewLookupRateLimiter(2, 5),
		Bus:       eventBus,
		Logger:    logger,
		BasePath:  cfg.Server.BasePath,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", slog.String("addr", addr), slog.String("base_path", cfg.Server.BasePath))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
