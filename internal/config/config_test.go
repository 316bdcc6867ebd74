package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Scoring.DecisionThreshold != 37 {
		t.Errorf("expected default threshold 37, got %v", cfg.Scoring.DecisionThreshold)
	}
	if cfg.Retry.Attempts != 3 {
		t.Errorf("expected 3 retry attempts, got %d", cfg.Retry.Attempts)
	}
	if cfg.Lookup.AwardsAsync {
		t.Error("awards enrichment should default to synchronous")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte(`
server:
  port: 9090
scoring:
  decision_threshold: 53
retry:
  attempts: 4
  initial_delay: 1500ms
lookup:
  awards_async: true
  cache_ttl: 5m
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Scoring.DecisionThreshold != 53 {
		t.Errorf("expected threshold 53, got %v", cfg.Scoring.DecisionThreshold)
	}
	if cfg.Retry.Attempts != 4 {
		t.Errorf("expected 4 attempts, got %d", cfg.Retry.Attempts)
	}
	if cfg.Retry.InitialDelay != 1500*time.Millisecond {
		t.Errorf("expected 1500ms initial delay, got %v", cfg.Retry.InitialDelay)
	}
	if !cfg.Lookup.AwardsAsync {
		t.Error("expected awards_async true")
	}
	if cfg.Lookup.CacheTTL != 5*time.Minute {
		t.Errorf("expected 5m cache TTL, got %v", cfg.Lookup.CacheTTL)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("MATINEE_PORT", "7070")
	t.Setenv("MATINEE_DECISION_THRESHOLD", "53")
	t.Setenv("MATINEE_AWARDS_ASYNC", "true")
	t.Setenv("MATINEE_SCREENBOARD_API_KEY", "k-123")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("expected port 7070, got %d", cfg.Server.Port)
	}
	if cfg.Scoring.DecisionThreshold != 53 {
		t.Errorf("expected threshold 53, got %v", cfg.Scoring.DecisionThreshold)
	}
	if !cfg.Lookup.AwardsAsync {
		t.Error("expected awards_async true")
	}
	if cfg.Sources.ScreenboardAPIKey != "k-123" {
		t.Errorf("expected api key from env, got %q", cfg.Sources.ScreenboardAPIKey)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"empty db path", func(c *Config) { c.Database.Path = "" }},
		{"threshold above 100", func(c *Config) { c.Scoring.DecisionThreshold = 120 }},
		{"zero attempts", func(c *Config) { c.Retry.Attempts = 0 }},
		{"factor below one", func(c *Config) { c.Retry.Factor = 0.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port, got %d", cfg.Server.Port)
	}
}
