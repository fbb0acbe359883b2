package config

import (
	"os"
	"testing"
	"time"
)

func clearAuthEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"TOKEN_BACKEND", "JWT_SECRET", "PASETO_KEY", "TOKEN_DURATION"} {
		os.Unsetenv(key)
	}
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	clearAuthEnv(t)

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when JWT_SECRET is unset, got nil")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearAuthEnv(t)
	os.Setenv("JWT_SECRET", "test-secret")
	defer os.Unsetenv("JWT_SECRET")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Auth.TokenBackend != TokenBackendJWT {
		t.Errorf("expected default token backend %q, got %q", TokenBackendJWT, cfg.Auth.TokenBackend)
	}
	if cfg.Auth.TokenDuration != 7*24*time.Hour {
		t.Errorf("expected default token duration of 7 days, got %v", cfg.Auth.TokenDuration)
	}
	if cfg.Database.DBName != "mylibrary" {
		t.Errorf("expected default db name mylibrary, got %s", cfg.Database.DBName)
	}
}

func TestLoad_PasetoKeyLength(t *testing.T) {
	clearAuthEnv(t)
	os.Setenv("TOKEN_BACKEND", "paseto")
	os.Setenv("PASETO_KEY", "too-short")
	defer func() {
		os.Unsetenv("TOKEN_BACKEND")
		os.Unsetenv("PASETO_KEY")
	}()

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for short PASETO key, got nil")
	}

	os.Setenv("PASETO_KEY", "0123456789abcdef0123456789abcdef")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error with 32-byte key, got %v", err)
	}
	if cfg.Auth.TokenBackend != TokenBackendPaseto {
		t.Errorf("expected paseto backend, got %q", cfg.Auth.TokenBackend)
	}
}

func TestLoad_UnknownBackend(t *testing.T) {
	clearAuthEnv(t)
	os.Setenv("TOKEN_BACKEND", "hmac-diy")
	defer os.Unsetenv("TOKEN_BACKEND")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for unknown token backend, got nil")
	}
}

func TestDatabaseConfig_ConnectionString(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     "5433",
		User:     "app",
		Password: "pw",
		DBName:   "library",
		SSLMode:  "require",
	}

	got := cfg.ConnectionString()
	want := "host=db.internal port=5433 user=app password=pw dbname=library sslmode=require"
	if got != want {
		t.Errorf("connection string mismatch:\ngot  %s\nwant %s", got, want)
	}
}
