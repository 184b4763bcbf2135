// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	APIBaseURL    string `env:"FOS_API_BASE_URL,required"`
	SessionSecret string `env:"FOS_SESSION_SECRET,required"`
	SessionDBPath string `env:"FOS_SESSION_DB_PATH" envDefault:"./data/fosweb.db"`
	ServerHost    string `env:"FOS_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"FOS_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"FOS_ENV" envDefault:"development"`
	LogLevel      string `env:"FOS_LOG_LEVEL" envDefault:"info"`

	// APITimeoutSeconds bounds every backend call. The backend is a remote
	// service; a hung call must not pin a request handler forever.
	APITimeoutSeconds int `env:"FOS_API_TIMEOUT" envDefault:"15"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// APITimeout returns the backend call timeout as a duration.
func (c Config) APITimeout() time.Duration {
	return time.Duration(c.APITimeoutSeconds) * time.Second
}

// MinSessionSecretLength is the minimum required length for the session secret.
// The CSRF layer needs a 32-byte key.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// The API base URL must be absolute; every client call is resolved
	// against it.
	u, err := url.Parse(cfg.APIBaseURL)
	if err != nil || !u.IsAbs() {
		return nil, fmt.Errorf("FOS_API_BASE_URL must be an absolute URL, got %q", cfg.APIBaseURL)
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")

	// Validate session secret length
	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("FOS_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	// Reject known weak/default secrets
	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("FOS_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	// Warn about low-entropy secrets
	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("FOS_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	if cfg.APITimeoutSeconds <= 0 {
		return nil, fmt.Errorf("FOS_API_TIMEOUT must be positive, got %d", cfg.APITimeoutSeconds)
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
