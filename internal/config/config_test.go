package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// clearEnv isolates the test from any override variables on the host.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "DATABASE_URL", "JWT_SECRET", "TOKEN_TTL", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
port: "9090"
databaseURL: "postgres://localhost/users"
jwtSecret: "file-secret"
tokenTTL: "12h"
logLevel: "debug"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9090" || cfg.DatabaseURL != "postgres://localhost/users" || cfg.JWTSecret != "file-secret" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.TokenTTL != "12h" || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
port: "9090"
databaseURL: "postgres://localhost/users"
jwtSecret: "file-secret"
`)
	t.Setenv("PORT", "7070")
	t.Setenv("JWT_SECRET", "env-secret")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "7070" {
		t.Fatalf("expected env port, got %q", cfg.Port)
	}
	if cfg.JWTSecret != "env-secret" {
		t.Fatalf("expected env secret, got %q", cfg.JWTSecret)
	}
}

func TestMissingFileFallsBackToEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/users")
	t.Setenv("JWT_SECRET", "env-secret")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %q", cfg.Port)
	}
	if cfg.DatabaseURL != "postgres://localhost/users" {
		t.Fatalf("unexpected database URL: %q", cfg.DatabaseURL)
	}
}

func TestValidationErrors(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `jwtSecret: "s"`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "databaseURL") {
		t.Fatalf("expected databaseURL error, got %v", err)
	}
	path = writeConfig(t, `databaseURL: "postgres://localhost/users"`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "jwtSecret") {
		t.Fatalf("expected jwtSecret error, got %v", err)
	}
}

func TestParseTokenTTL(t *testing.T) {
	dur, err := ParseTokenTTL("")
	if err != nil || dur != 0 {
		t.Fatalf("empty TTL: dur=%v err=%v", dur, err)
	}
	dur, err = ParseTokenTTL("24h")
	if err != nil || dur != 24*time.Hour {
		t.Fatalf("24h TTL: dur=%v err=%v", dur, err)
	}
	if _, err := ParseTokenTTL("not-a-duration"); err == nil {
		t.Fatalf("expected error for bad duration")
	}
}
