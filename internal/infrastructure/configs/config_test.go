package configs_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/guruqool/gurukul/internal/infrastructure/configs"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := configs.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.HTTP.Port != 5000 {
		t.Errorf("HTTP.Port = %d, want 5000", cfg.HTTP.Port)
	}
	if cfg.RateLimiter.Window != 30*time.Minute {
		t.Errorf("RateLimiter.Window = %s, want 30m", cfg.RateLimiter.Window)
	}
	if cfg.RateLimiter.MaxRequests != 200 {
		t.Errorf("RateLimiter.MaxRequests = %d, want 200", cfg.RateLimiter.MaxRequests)
	}
	if cfg.Payment.Currency != "INR" {
		t.Errorf("Payment.Currency = %q, want INR", cfg.Payment.Currency)
	}
	if cfg.Payment.BaseURL != "https://api.razorpay.com" {
		t.Errorf("Payment.BaseURL = %q, want razorpay", cfg.Payment.BaseURL)
	}
	if len(cfg.HTTP.AllowedOrigins) == 0 {
		t.Error("HTTP.AllowedOrigins is empty, want at least the production origin")
	}
	if cfg.Mongo.Database != "gurukul" {
		t.Errorf("Mongo.Database = %q, want gurukul", cfg.Mongo.Database)
	}
	if cfg.Tracing.Endpoint != "http://jaeger:4318" {
		t.Errorf("Tracing.Endpoint = %q, want the collector default", cfg.Tracing.Endpoint)
	}
	if cfg.Tracing.Environment != "development" {
		t.Errorf("Tracing.Environment = %q, want development", cfg.Tracing.Environment)
	}
	if cfg.Tracing.SampleRatio != 1.0 {
		t.Errorf("Tracing.SampleRatio = %v, want 1.0", cfg.Tracing.SampleRatio)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := []byte(`
http:
  port: 8080
  allowed_origins:
    - http://localhost:3000
rateLimiter:
  window: 5m
  maxRequests: 10
payment:
  currency: USD
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := configs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.HTTP.Port != 8080 {
		t.Errorf("HTTP.Port = %d, want 8080", cfg.HTTP.Port)
	}
	if cfg.RateLimiter.Window != 5*time.Minute {
		t.Errorf("RateLimiter.Window = %s, want 5m", cfg.RateLimiter.Window)
	}
	if cfg.RateLimiter.MaxRequests != 10 {
		t.Errorf("RateLimiter.MaxRequests = %d, want 10", cfg.RateLimiter.MaxRequests)
	}
	if cfg.Payment.Currency != "USD" {
		t.Errorf("Payment.Currency = %q, want USD", cfg.Payment.Currency)
	}

	// Keys absent from the file keep their defaults.
	if cfg.Payment.BaseURL != "https://api.razorpay.com" {
		t.Errorf("Payment.BaseURL = %q, want default", cfg.Payment.BaseURL)
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := configs.Load("/nonexistent/config.yaml"); err == nil {
		t.Fatal("Load succeeded with a nonexistent file")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("ALLOWED_ORIGIN", "https://staging.guruqool.app")
	t.Setenv("RAZORPAY_KEY_ID", "rzp_test_abc")
	t.Setenv("RAZORPAY_KEY_SECRET", "shhh")
	t.Setenv("RATE_LIMIT_WINDOW_MINUTES", "10")
	t.Setenv("RATE_LIMIT_MAX_REQUESTS", "25")
	t.Setenv("MONGODB_URI", "mongodb://db.internal:27017")
	t.Setenv("OTLP_ENDPOINT", "http://collector.internal:4318")
	t.Setenv("ENVIRONMENT", "staging")

	cfg, err := configs.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.HTTP.Port != 9999 {
		t.Errorf("HTTP.Port = %d, want 9999", cfg.HTTP.Port)
	}
	if len(cfg.HTTP.AllowedOrigins) != 1 || cfg.HTTP.AllowedOrigins[0] != "https://staging.guruqool.app" {
		t.Errorf("HTTP.AllowedOrigins = %v, want the env origin only", cfg.HTTP.AllowedOrigins)
	}
	if cfg.Payment.KeyID != "rzp_test_abc" {
		t.Errorf("Payment.KeyID = %q, want env value", cfg.Payment.KeyID)
	}
	if cfg.Payment.KeySecret != "shhh" {
		t.Errorf("Payment.KeySecret = %q, want env value", cfg.Payment.KeySecret)
	}
	if cfg.RateLimiter.Window != 10*time.Minute {
		t.Errorf("RateLimiter.Window = %s, want 10m", cfg.RateLimiter.Window)
	}
	if cfg.RateLimiter.MaxRequests != 25 {
		t.Errorf("RateLimiter.MaxRequests = %d, want 25", cfg.RateLimiter.MaxRequests)
	}
	if cfg.Mongo.URI != "mongodb://db.internal:27017" {
		t.Errorf("Mongo.URI = %q, want env value", cfg.Mongo.URI)
	}
	if cfg.Tracing.Endpoint != "http://collector.internal:4318" {
		t.Errorf("Tracing.Endpoint = %q, want env value", cfg.Tracing.Endpoint)
	}
	if cfg.Tracing.Environment != "staging" {
		t.Errorf("Tracing.Environment = %q, want env value", cfg.Tracing.Environment)
	}
}
