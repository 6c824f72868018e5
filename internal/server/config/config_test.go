package config

import (
	"encoding/base64"
	"testing"
	"time"
)

func TestSigningKey_Valid(t *testing.T) {
	cfg := &Config{JWTSecret: base64.StdEncoding.EncodeToString(make([]byte, 32))}

	key, err := cfg.SigningKey()
	if err != nil {
		t.Fatalf("SigningKey error: %v", err)
	}
	if len(key) != 32 {
		t.Fatalf("unexpected key length: %d", len(key))
	}
}

func TestSigningKey_Undersized(t *testing.T) {
	cfg := &Config{JWTSecret: base64.StdEncoding.EncodeToString([]byte("short"))}

	if _, err := cfg.SigningKey(); err == nil {
		t.Fatalf("expected error for undersized secret")
	}
}

func TestSigningKey_NotBase64(t *testing.T) {
	cfg := &Config{JWTSecret: "not-base64!!!"}

	if _, err := cfg.SigningKey(); err == nil {
		t.Fatalf("expected error for invalid base64")
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if cfg.EndpointAddr == "" || cfg.DatabaseDSN == "" {
		t.Fatalf("defaults not populated: %+v", cfg)
	}
	if cfg.TokenTTL != time.Hour {
		t.Fatalf("unexpected default TTL: %v", cfg.TokenTTL)
	}
	if _, err := cfg.SigningKey(); err != nil {
		t.Fatalf("default secret must be usable: %v", err)
	}
}

func TestParseEnv_Overlay(t *testing.T) {
	t.Setenv("ADDRESS", ":9090")
	t.Setenv("JWT_TTL_MS", "60000")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://shop.example.com")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	if cfg.EndpointAddr != ":9090" {
		t.Fatalf("ADDRESS not applied: %q", cfg.EndpointAddr)
	}
	if cfg.TokenTTL != time.Minute {
		t.Fatalf("JWT_TTL_MS not applied: %v", cfg.TokenTTL)
	}
	if cfg.CORSAllowedOrigins != "https://shop.example.com" {
		t.Fatalf("CORS_ALLOWED_ORIGINS not applied: %q", cfg.CORSAllowedOrigins)
	}
}

func TestParseEnv_IgnoresInvalidTTL(t *testing.T) {
	t.Setenv("JWT_TTL_MS", "not-a-number")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	if cfg.TokenTTL != time.Hour {
		t.Fatalf("invalid TTL must keep the default, got %v", cfg.TokenTTL)
	}
}
