// Package config provides session token configuration functionality.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// MinSecretLength is the minimum accepted HMAC secret length in bytes.
const MinSecretLength = 32

// JWTConfig holds configuration for session token generation and validation.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

// NewJWTConfig creates a new session token configuration from environment variables.
// It reads SESSION_SECRET (required) and SESSION_EXPIRATION_HOURS (default: 24).
func NewJWTConfig() (*JWTConfig, error) {
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("SESSION_SECRET is required but not set")
	}

	expirationStr := os.Getenv("SESSION_EXPIRATION_HOURS")
	if expirationStr == "" {
		expirationStr = "24"
	}

	expirationHours, err := strconv.Atoi(expirationStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_EXPIRATION_HOURS: %v", err)
	}

	config := &JWTConfig{
		Secret:          secret,
		ExpirationHours: expirationHours,
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *JWTConfig) normalize() error {
	if len(c.Secret) < MinSecretLength {
		return fmt.Errorf("SESSION_SECRET must be at least %d bytes, got %d", MinSecretLength, len(c.Secret))
	}
	if c.ExpirationHours < 1 {
		return fmt.Errorf("SESSION_EXPIRATION_HOURS must be at least 1 hour, got: %d", c.ExpirationHours)
	}
	return nil
}
