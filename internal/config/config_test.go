package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoad_MissingJWTSecretFails(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); !errors.Is(err, ErrMissingJWTSecret) {
		t.Errorf("err = %v, want ErrMissingJWTSecret", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.JWT.SessionTTL != 4*time.Hour {
		t.Errorf("session ttl = %v, want 4h", cfg.JWT.SessionTTL)
	}
	if cfg.HTTP.Port != "8080" {
		t.Errorf("port = %q, want 8080", cfg.HTTP.Port)
	}
	if cfg.Database.URL == "" {
		t.Error("database URL must be derived from parts when unset")
	}
	if got, want := cfg.Address(), "0.0.0.0:8080"; got != want {
		t.Errorf("address = %q, want %q", got, want)
	}
}

func TestGetDuration_PlainSeconds(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "7")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Context.RequestTimeout != 7*time.Second {
		t.Errorf("request timeout = %v, want 7s", cfg.Context.RequestTimeout)
	}
}
