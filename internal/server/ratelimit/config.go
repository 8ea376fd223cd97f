package ratelimit

import (
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig limits one route. A Limit of zero leaves the route unlimited.
type EndpointConfig struct {
	Path   string        // Exact path, or a prefix when it ends in "/"
	Method string        // HTTP method; empty matches any
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// renderPaths share RATE_LIMIT_RENDER_LIMIT: each of them runs a full render.
var renderPaths = []string{"/render", "/render/letter", "/render/stream", "/documents"}

// LoadConfig loads rate limiting configuration from environment variables.
func LoadConfig() *Config {
	return FromLookup(os.Getenv)
}

// FromLookup builds a configuration from the RATE_LIMIT_* values getenv
// returns. Unset or malformed values keep their defaults.
func FromLookup(getenv func(string) string) *Config {
	env := envReader(getenv)
	if !env.bool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	cfg := &Config{
		Enabled:         true,
		DefaultLimit:    env.int("RATE_LIMIT_DEFAULT_LIMIT", 1000),
		DefaultWindow:   env.duration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: env.duration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       env.ips("RATE_LIMIT_WHITELIST"),
		Blacklist:       env.ips("RATE_LIMIT_BLACKLIST"),
		EndpointConfigs: DefaultEndpointConfigs(),
	}

	if limit := env.int("RATE_LIMIT_RENDER_LIMIT", 0); limit > 0 {
		for i := range cfg.EndpointConfigs {
			ec := &cfg.EndpointConfigs[i]
			if ec.Method == "POST" && slices.Contains(renderPaths, ec.Path) {
				ec.Limit = limit
				ec.Burst = min(ec.Burst, limit)
			}
		}
	}
	return cfg
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		{Path: "/health", Method: "GET"},

		// Full renders
		{Path: "/render", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5},
		{Path: "/render/letter", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5},
		{Path: "/render/stream", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5},
		{Path: "/documents", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5},

		// Previews and wizard steps
		{Path: "/layout", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/drafts", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/drafts/", Method: "PATCH", Limit: 300, Window: time.Minute, Burst: 30},
		{Path: "/drafts/", Method: "DELETE", Limit: 60, Window: time.Minute, Burst: 10},

		// Payment confirmations
		{Path: "/renders/", Method: "POST", Limit: 20, Window: time.Minute, Burst: 5},
	}
}

// envReader parses typed values out of an environment lookup.
type envReader func(string) string

func (e envReader) int(key string, fallback int) int {
	if v, err := strconv.Atoi(e(key)); err == nil {
		return v
	}
	return fallback
}

func (e envReader) bool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(e(key)); err == nil {
		return v
	}
	return fallback
}

func (e envReader) duration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(e(key)); err == nil {
		return v
	}
	return fallback
}

// ips parses a comma-separated list of client addresses into a set.
func (e envReader) ips(key string) map[string]bool {
	set := make(map[string]bool)
	for _, ip := range strings.Split(e(key), ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			set[ip] = true
		}
	}
	return set
}
