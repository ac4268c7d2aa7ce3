// Package config loads the command-line configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/spetersoncode/openrouter/client"
)

// Config holds the configuration loaded from environment variables.
type Config struct {
	APIKey   string
	BaseURL  string
	Model    string
	Timeout  time.Duration
	LogLevel string // debug, info, warn, error

	// Attribution headers
	AppName string
	AppURL  string

	// MetricsAddr is where the MCP server exposes Prometheus metrics; empty disables it.
	MetricsAddr string
}

// Load loads configuration from environment variables.
// It loads a .env file if present (silent fail if not found).
func Load() *Config {
	godotenv.Load() // Load .env file if present

	return &Config{
		APIKey:      os.Getenv(client.APIKeyEnv),
		BaseURL:     os.Getenv("OPENROUTER_BASE_URL"),
		Model:       os.Getenv("OPENROUTER_MODEL"),
		Timeout:     getEnvDurationOrDefault("OPENROUTER_TIMEOUT", client.DefaultTimeout),
		LogLevel:    getEnvOrDefault("OPENROUTER_LOG_LEVEL", "warn"),
		AppName:     os.Getenv("OPENROUTER_APP_NAME"),
		AppURL:      os.Getenv("OPENROUTER_APP_URL"),
		MetricsAddr: os.Getenv("OPENROUTER_METRICS_ADDR"),
	}
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("%s is required", client.APIKeyEnv)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("OPENROUTER_TIMEOUT must be positive, got %s", c.Timeout)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Logger returns a text logger writing to stderr at the configured level.
func (c *Config) Logger() *slog.Logger {
	level, _ := ParseLevel(c.LogLevel)
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// Client builds the client configuration. events may be nil.
func (c *Config) Client(logger *slog.Logger, events chan<- client.Event) client.Config {
	return client.Config{
		APIKey:       c.APIKey,
		BaseURL:      c.BaseURL,
		Timeout:      c.Timeout,
		DefaultModel: c.Model,
		AppName:      c.AppName,
		AppURL:       c.AppURL,
		Events:       events,
		Logger:       logger,
	}
}

// ParseLevel parses a log level name such as "debug" or "WARN".
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return 0, fmt.Errorf("OPENROUTER_LOG_LEVEL: unknown level %q (debug, info, warn, error)", s)
	}
	return level, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
