package config

import (
	"fmt"
	"os"
	"strconv"
)

// ReleaseConfig holds the signing settings for download tokens.
type ReleaseConfig struct {
	Secret     string
	TokenHours int
}

// NewReleaseConfig creates a release configuration from environment variables.
// It reads RELEASE_SECRET (required) and RELEASE_TOKEN_HOURS (default: 24).
func NewReleaseConfig() (*ReleaseConfig, error) {
	secret := os.Getenv("RELEASE_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("RELEASE_SECRET is required but not set")
	}

	hoursStr := os.Getenv("RELEASE_TOKEN_HOURS")
	if hoursStr == "" {
		hoursStr = "24" // default
	}

	hours, err := strconv.Atoi(hoursStr)
	if err != nil {
		return nil, fmt.Errorf("invalid RELEASE_TOKEN_HOURS: %v", err)
	}

	config := &ReleaseConfig{
		Secret:     secret,
		TokenHours: hours,
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}

	return config, nil
}

// normalize validates the configuration.
func (c *ReleaseConfig) normalize() error {
	if len(c.Secret) < 16 {
		return fmt.Errorf("RELEASE_SECRET must be at least 16 characters")
	}
	if c.TokenHours < 1 {
		return fmt.Errorf("RELEASE_TOKEN_HOURS must be at least 1 hour, got: %d", c.TokenHours)
	}
	return nil
}
