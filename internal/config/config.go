package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds server configuration.
type Config struct {
	// Addr is the listen address for the HTTP server.
	Addr string
	// MasterSecret seeds the signing key for confirmation tokens.
	MasterSecret string
	Debug        bool
	// AllowedOrigins is the CORS origin allowlist.
	AllowedOrigins []string
	// ConfirmTTL bounds how long a minted confirmation token stays valid.
	// Zero means pending transfers never expire.
	ConfirmTTL time.Duration
}

// Overrides optionally overrides values from environment variables.
//
// A nil pointer means "use the environment/default value".
type Overrides struct {
	Addr         *string
	MasterSecret *string
	Debug        *bool
	ConfirmTTL   *time.Duration
}

// Load loads server configuration from environment variables and applies any
// explicit overrides.
func Load(overrides Overrides) (*Config, error) {
	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		if p, err := strconv.Atoi(portStr); err == nil {
			port = p
		}
	}

	addr := fmt.Sprintf(":%d", port)
	if overrides.Addr != nil {
		addr = *overrides.Addr
	}

	masterSecret := os.Getenv("ORCHESTRATOR_MASTER_SECRET")
	if overrides.MasterSecret != nil {
		masterSecret = *overrides.MasterSecret
	}
	if masterSecret == "" {
		return nil, fmt.Errorf("ORCHESTRATOR_MASTER_SECRET environment variable is required")
	}

	debug := false
	if debugStr := os.Getenv("DEBUG"); debugStr == "true" || debugStr == "1" {
		debug = true
	}
	if overrides.Debug != nil {
		debug = *overrides.Debug
	}

	confirmTTL := time.Duration(0)
	if ttlStr := os.Getenv("CONFIRM_TTL"); ttlStr != "" {
		ttl, err := time.ParseDuration(ttlStr)
		if err != nil {
			return nil, fmt.Errorf("invalid CONFIRM_TTL: %w", err)
		}
		if ttl < 0 {
			return nil, fmt.Errorf("CONFIRM_TTL must not be negative")
		}
		confirmTTL = ttl
	}
	if overrides.ConfirmTTL != nil {
		confirmTTL = *overrides.ConfirmTTL
	}

	return &Config{
		Addr:           addr,
		MasterSecret:   masterSecret,
		Debug:          debug,
		AllowedOrigins: []string{"*"},
		ConfirmTTL:     confirmTTL,
	}, nil
}
