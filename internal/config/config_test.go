package config_test

import (
	"testing"
	"time"

	"github.com/fittrack/backend/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.AppName != "fittrack-backend" {
		t.Errorf("app name = %q", cfg.AppName)
	}
	if cfg.Reconciler.Schedule != "0 0 * * *" {
		t.Errorf("reconciler schedule = %q, want daily midnight", cfg.Reconciler.Schedule)
	}
	if !cfg.Reconciler.RunOnStart {
		t.Error("reconciler should run on start by default")
	}
	if cfg.Session.TTL != 24*time.Hour {
		t.Errorf("session ttl = %s", cfg.Session.TTL)
	}
	if cfg.Database.URL == "" {
		t.Error("database URL should be derived from parts")
	}
	if cfg.Address() == "" {
		t.Error("address should not be empty")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9999")
	t.Setenv("RECONCILER_SCHEDULE", "30 2 * * *")
	t.Setenv("RECONCILER_RUN_ON_START", "false")
	t.Setenv("JWT_TOKEN_TTL", "30m")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/fit?sslmode=disable")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.HTTP.Port != "9999" {
		t.Errorf("port = %q", cfg.HTTP.Port)
	}
	if cfg.Reconciler.Schedule != "30 2 * * *" {
		t.Errorf("schedule = %q", cfg.Reconciler.Schedule)
	}
	if cfg.Reconciler.RunOnStart {
		t.Error("run-on-start override ignored")
	}
	if cfg.JWT.TokenTTL != 30*time.Minute {
		t.Errorf("token ttl = %s", cfg.JWT.TokenTTL)
	}
	if cfg.Database.URL != "postgres://u:p@db:5432/fit?sslmode=disable" {
		t.Errorf("database url = %q", cfg.Database.URL)
	}
}

func TestDurationFromSeconds(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "12")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Context.RequestTimeout != 12*time.Second {
		t.Errorf("request timeout = %s, want 12s", cfg.Context.RequestTimeout)
	}
}
