package config_test

import (
	"errors"
	"testing"

	"github.com/accountd/accountd/internal/config"
)

func TestLoad_MissingSecretFailsOutsideDev(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load()

	if !errors.Is(err, config.ErrMissingJWTSecret) {
		t.Fatalf("expected ErrMissingJWTSecret, got %v", err)
	}
}

func TestLoad_DevFallsBackToDevSecret(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("JWT_SECRET", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !cfg.UsingDevSecret() {
		t.Fatalf("expected dev secret fallback in dev env")
	}
}

func TestLoad_ExplicitSecretIsNotDevSecret(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("JWT_SECRET", "configured-secret")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.UsingDevSecret() {
		t.Fatalf("explicit secret should not count as dev secret")
	}
	if cfg.JWTSecret != "configured-secret" {
		t.Fatalf("unexpected secret: %q", cfg.JWTSecret)
	}
}

func TestSessionTTL_DefaultsTo24Hours(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("SESSION_TTL_HOURS", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got := cfg.SessionTTL().Hours(); got != 24 {
		t.Fatalf("expected 24h default TTL, got %vh", got)
	}
}

func TestLoad_DatabaseURLOverridesParts(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/accounts?sslmode=require")
	t.Setenv("DB_HOST", "ignored-host")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.DBURL != "postgres://u:p@db:5432/accounts?sslmode=require" {
		t.Fatalf("DATABASE_URL should win, got %q", cfg.DBURL)
	}
}
