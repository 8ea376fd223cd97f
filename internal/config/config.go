// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"
)

// Rasterizer names accepted in configuration.
const (
	RasterizerNative = "native"
	RasterizerChrome = "chrome"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Rendering
	Template       string  `json:"template,omitempty"`        // Template identifier
	Backend        string  `json:"backend,omitempty"`         // "primitive" or "raster"
	Rasterizer     string  `json:"rasterizer,omitempty"`      // "native" or "chrome"
	ChromePath     string  `json:"chrome_path,omitempty"`     // Browser executable for the chrome rasterizer
	DPI            float64 `json:"dpi,omitempty"`             // Raster resolution
	TimeoutSeconds int     `json:"timeout_seconds,omitempty"` // Per-render timeout
	Workers        int     `json:"workers,omitempty"`         // Parallel renders in batch mode

	// Storage
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	RedisURL    string `json:"redis_url,omitempty"`    // Redis URL for wizard drafts

	// Behavior
	Verbose bool `json:"verbose,omitempty"` // Print layout summaries
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: template identifiers are checked against the registry at render time.
func (c *Config) Validate() error {
	if c.Backend != "" && !slices.Contains([]string{"primitive", "raster"}, c.Backend) {
		return fmt.Errorf("config error: 'backend' must be primitive or raster, got %q", c.Backend)
	}
	if c.Rasterizer != "" && c.Rasterizer != RasterizerNative && c.Rasterizer != RasterizerChrome {
		return fmt.Errorf("config error: 'rasterizer' must be native or chrome, got %q", c.Rasterizer)
	}

	// Validate numeric ranges
	if c.DPI < 0 {
		return fmt.Errorf("config error: 'dpi' must be non-negative")
	}
	if c.DPI > 600 {
		return fmt.Errorf("config error: 'dpi' must be at most 600")
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'timeout_seconds' must be non-negative")
	}
	if c.Workers < 0 {
		return fmt.Errorf("config error: 'workers' must be non-negative")
	}

	if c.ChromePath != "" {
		if _, err := os.Stat(c.ChromePath); os.IsNotExist(err) {
			return fmt.Errorf("config error: chrome executable not found: %s", c.ChromePath)
		}
	}

	return nil
}

// Timeout returns the per-render timeout, zero when unset.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Template == "" {
		result.Template = defaults.Template
	}
	if result.Backend == "" {
		result.Backend = defaults.Backend
	}
	if result.Rasterizer == "" {
		result.Rasterizer = defaults.Rasterizer
	}
	if result.ChromePath == "" {
		result.ChromePath = defaults.ChromePath
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.RedisURL == "" {
		result.RedisURL = defaults.RedisURL
	}

	// Numeric fields: use default if zero
	if result.DPI == 0 {
		result.DPI = defaults.DPI
	}
	if result.TimeoutSeconds == 0 {
		result.TimeoutSeconds = defaults.TimeoutSeconds
	}
	if result.Workers == 0 {
		if defaults.Workers > 0 {
			result.Workers = defaults.Workers
		} else {
			result.Workers = 4
		}
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
