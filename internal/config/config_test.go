// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"os"
	"testing"
	"time"
)

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set %s: %v", key, err)
	}
}

func setRequired(t *testing.T) {
	t.Helper()
	setEnv(t, "FOS_API_BASE_URL", "http://localhost:5000")
	setEnv(t, "FOS_SESSION_SECRET", "test-secret-key-32-bytes-long!!!")
}

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.SessionDBPath != "./data/fosweb.db" {
		t.Errorf("SessionDBPath = %q, want %q", cfg.SessionDBPath, "./data/fosweb.db")
	}
	if cfg.ServerHost != "localhost" {
		t.Errorf("ServerHost = %q, want %q", cfg.ServerHost, "localhost")
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort = %d, want %d", cfg.ServerPort, 8080)
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %q, want %q", cfg.Env, "development")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.APITimeout() != 15*time.Second {
		t.Errorf("APITimeout() = %v, want %v", cfg.APITimeout(), 15*time.Second)
	}
	if !cfg.IsDevelopment() {
		t.Error("IsDevelopment() = false, want true")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Clearenv()
	customSecret := "custom-secret-key-32-bytes-long!"
	setEnv(t, "FOS_API_BASE_URL", "https://fos-backend.example.com/")
	setEnv(t, "FOS_SESSION_SECRET", customSecret)
	setEnv(t, "FOS_SESSION_DB_PATH", "/custom/path.db")
	setEnv(t, "FOS_SERVER_HOST", "0.0.0.0")
	setEnv(t, "FOS_SERVER_PORT", "3000")
	setEnv(t, "FOS_ENV", "production")
	setEnv(t, "FOS_LOG_LEVEL", "debug")
	setEnv(t, "FOS_API_TIMEOUT", "30")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.APIBaseURL != "https://fos-backend.example.com" {
		t.Errorf("APIBaseURL = %q, want trailing slash trimmed", cfg.APIBaseURL)
	}
	if cfg.SessionSecret != customSecret {
		t.Errorf("SessionSecret = %q, want %q", cfg.SessionSecret, customSecret)
	}
	if cfg.ServerAddr() != "0.0.0.0:3000" {
		t.Errorf("ServerAddr() = %q, want %q", cfg.ServerAddr(), "0.0.0.0:3000")
	}
	if cfg.Env != "production" {
		t.Errorf("Env = %q, want %q", cfg.Env, "production")
	}
	if cfg.APITimeout() != 30*time.Second {
		t.Errorf("APITimeout() = %v, want %v", cfg.APITimeout(), 30*time.Second)
	}
}

func TestLoad_MissingBaseURL(t *testing.T) {
	os.Clearenv()
	setEnv(t, "FOS_SESSION_SECRET", "test-secret-key-32-bytes-long!!!")

	if _, err := Load(); err == nil {
		t.Error("Load() without FOS_API_BASE_URL should fail")
	}
}

func TestLoad_RelativeBaseURL(t *testing.T) {
	os.Clearenv()
	setRequired(t)
	setEnv(t, "FOS_API_BASE_URL", "/api")

	if _, err := Load(); err == nil {
		t.Error("Load() with a relative FOS_API_BASE_URL should fail")
	}
}

func TestLoad_ShortSecret(t *testing.T) {
	os.Clearenv()
	setEnv(t, "FOS_API_BASE_URL", "http://localhost:5000")
	setEnv(t, "FOS_SESSION_SECRET", "too-short")

	if _, err := Load(); err == nil {
		t.Error("Load() with a short session secret should fail")
	}
}

func TestLoad_WeakSecret(t *testing.T) {
	os.Clearenv()
	setEnv(t, "FOS_API_BASE_URL", "http://localhost:5000")
	setEnv(t, "FOS_SESSION_SECRET", "change-me-to-32-byte-secret-key!")

	if _, err := Load(); err == nil {
		t.Error("Load() with a known weak secret should fail")
	}
}

func TestHasMinimumEntropy(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		want   bool
	}{
		{"three classes", "abcDEF123", true},
		{"lowercase only", "abcdefghij", false},
		{"two classes", "abcdef1234", false},
		{"all four classes", "aB3!aB3!aB3!", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hasMinimumEntropy(tt.secret); got != tt.want {
				t.Errorf("hasMinimumEntropy(%q) = %v, want %v", tt.secret, got, tt.want)
			}
		})
	}
}
