package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ServerConfig holds the settings the HTTP server reads from the environment.
type ServerConfig struct {
	Port          int
	DatabaseURL   string
	RedisURL      string
	DraftTTL      time.Duration
	RenderTimeout time.Duration
	Backend       string
	Rasterizer    string
	ChromePath    string
	DPI           float64
}

// FromEnv reads PORT, DATABASE_URL, REDIS_URL, DRAFT_TTL, RENDER_TIMEOUT,
// RENDER_BACKEND, RENDER_RASTERIZER, CHROME_PATH and RENDER_DPI.
func FromEnv() (*ServerConfig, error) {
	cfg := &ServerConfig{
		Port:          8080,
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		RedisURL:      strings.TrimSpace(os.Getenv("REDIS_URL")),
		DraftTTL:      72 * time.Hour,
		RenderTimeout: 30 * time.Second,
		Backend:       envOr("RENDER_BACKEND", "primitive"),
		Rasterizer:    envOr("RENDER_RASTERIZER", RasterizerNative),
		ChromePath:    os.Getenv("CHROME_PATH"),
		DPI:           150,
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return nil, fmt.Errorf("invalid PORT: %q", v)
		}
		cfg.Port = port
	}
	if v := os.Getenv("DRAFT_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid DRAFT_TTL: %v", err)
		}
		cfg.DraftTTL = d
	}
	if v := os.Getenv("RENDER_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid RENDER_TIMEOUT: %v", err)
		}
		cfg.RenderTimeout = d
	}
	if v := os.Getenv("RENDER_DPI"); v != "" {
		dpi, err := strconv.ParseFloat(v, 64)
		if err != nil || dpi <= 0 {
			return nil, fmt.Errorf("invalid RENDER_DPI: %q", v)
		}
		cfg.DPI = dpi
	}

	file := Config{Backend: cfg.Backend, Rasterizer: cfg.Rasterizer, DPI: cfg.DPI}
	if err := file.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
