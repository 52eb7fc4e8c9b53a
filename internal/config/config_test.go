package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.DefaultFeeRupees != 500 {
		t.Errorf("expected default fee 500, got %d", cfg.DefaultFeeRupees)
	}
	if cfg.MinFeeRupees != 100 {
		t.Errorf("expected min fee 100, got %d", cfg.MinFeeRupees)
	}
	if cfg.Currency != "inr" {
		t.Errorf("expected currency inr, got %s", cfg.Currency)
	}
	if cfg.GatewayTimeout != 10*time.Second {
		t.Errorf("expected 10s gateway timeout, got %s", cfg.GatewayTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ENV", "production")
	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com")

	cfg := Load()

	if cfg.Port != "9000" {
		t.Errorf("expected port 9000, got %s", cfg.Port)
	}
	if !cfg.IsProduction() {
		t.Errorf("expected production mode")
	}
	if cfg.TokenTTL != time.Hour {
		t.Errorf("expected 1h token ttl, got %s", cfg.TokenTTL)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://admin.example.com" {
		t.Errorf("unexpected origins: %v", cfg.CORSOrigins)
	}
}

func TestInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("DEFAULT_CONSULTATION_FEE", "not-a-number")
	t.Setenv("RATE_LIMIT_RPS", "nope")

	cfg := Load()

	if cfg.DefaultFeeRupees != 500 {
		t.Errorf("expected fallback fee 500, got %d", cfg.DefaultFeeRupees)
	}
	if cfg.RateLimitRPS != 10 {
		t.Errorf("expected fallback rps 10, got %f", cfg.RateLimitRPS)
	}
}
