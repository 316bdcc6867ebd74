// Package config loads application configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Sources  SourcesConfig  `yaml:"sources"`
	Lookup   LookupConfig   `yaml:"lookup"`
	Scoring  ScoringConfig  `yaml:"scoring"`
	Retry    RetryConfig    `yaml:"retry"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port     int    `yaml:"port"`
	BasePath string `yaml:"base_path"`
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// SourcesConfig holds the base URLs for the external movie sources.
// Overriding these points the adapters at a mirror or a test fixture.
type SourcesConfig struct {
	ScreenboardURL    string `yaml:"screenboard_url"`
	ScreenboardAPIKey string `yaml:"screenboard_api_key"`
	TomatometerURL    string `yaml:"tomatometer_url"`
	AcademyURL        string `yaml:"academy_url"`
}

// LookupConfig controls the record builder.
type LookupConfig struct {
	// SearchTimeout bounds a single search or detail fetch attempt.
	SearchTimeout time.Duration `yaml:"search_timeout"`
	// AwardsAsync makes awards enrichment best-effort in the background
	// instead of being awaited by Build.
	AwardsAsync bool `yaml:"awards_async"`
	// CacheTTL is how long a resolved record stays in the lookup cache.
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// ScoringConfig holds the tunable decision parameters.
type ScoringConfig struct {
	// DecisionThreshold is the final-score cutoff for a watch recommendation.
	DecisionThreshold float64 `yaml:"decision_threshold"`
}

// RetryConfig holds the default backoff parameters for source calls.
type RetryConfig struct {
	Attempts     int           `yaml:"attempts"`
	InitialDelay time.Duration `yaml:"initial_delay"`
	Factor       float64       `yaml:"factor"`
	Jitter       bool          `yaml:"jitter"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:     8080,
			BasePath: "/",
		},
		Database: DatabaseConfig{
			Path: "/data/matinee.db",
		},
		Sources: SourcesConfig{
			ScreenboardURL: "https://api.screenboard.example.com",
			TomatometerURL: "https://www.tomatometer.example.com",
			AcademyURL:     "https://awards.academy.example.com",
		},
		Lookup: LookupConfig{
			SearchTimeout: 30 * time.Second,
			AwardsAsync:   false,
			CacheTTL:      15 * time.Minute,
		},
		Scoring: ScoringConfig{
			DecisionThreshold: 37,
		},
		Retry: RetryConfig{
			Attempts:     3,
			InitialDelay: 1000 * time.Millisecond,
			Factor:       2,
			Jitter:       true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads config from a YAML file (if it exists) and overrides with
// environment variables. Environment variables take precedence.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFromFile(path); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	cfg.loadFromEnv()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) loadFromEnv() {
	if v := os.Getenv("MATINEE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("MATINEE_BASE_PATH"); v != "" {
		c.Server.BasePath = v
	}
	if v := os.Getenv("MATINEE_DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("MATINEE_SCREENBOARD_URL"); v != "" {
		c.Sources.ScreenboardURL = v
	}
	if v := os.Getenv("MATINEE_SCREENBOARD_API_KEY"); v != "" {
		c.Sources.ScreenboardAPIKey = v
	}
	if v := os.Getenv("MATINEE_TOMATOMETER_URL"); v != "" {
		c.Sources.TomatometerURL = v
	}
	if v := os.Getenv("MATINEE_ACADEMY_URL"); v != "" {
		c.Sources.AcademyURL = v
	}
	if v := os.Getenv("MATINEE_DECISION_THRESHOLD"); v != "" {
		if t, err := strconv.ParseFloat(v, 64); err == nil {
			c.Scoring.DecisionThreshold = t
		}
	}
	if v := os.Getenv("MATINEE_AWARDS_ASYNC"); v != "" {
		c.Lookup.AwardsAsync = v == "true" || v == "1"
	}
	if v := os.Getenv("MATINEE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("MATINEE_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}
	if c.Scoring.DecisionThreshold < 0 || c.Scoring.DecisionThreshold > 100 {
		return fmt.Errorf("decision threshold must be in [0,100], got %v", c.Scoring.DecisionThreshold)
	}
	if c.Retry.Attempts < 1 {
		return fmt.Errorf("retry attempts must be at least 1, got %d", c.Retry.Attempts)
	}
	if c.Retry.Factor < 1 {
		return fmt.Errorf("retry factor must be at least 1, got %v", c.Retry.Factor)
	}
	c.Server.BasePath = strings.TrimRight(c.Server.BasePath, "/")
	return nil
}
