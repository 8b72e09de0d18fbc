package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	os.Unsetenv("PROXY_DEADLINE")
	os.Unsetenv("NEWS_CACHE_TTL")
	os.Unsetenv("APP_ENV")

	cfg := Load()

	if cfg.ProxyDeadline != 55*time.Second {
		t.Errorf("expected 55s proxy deadline, got %v", cfg.ProxyDeadline)
	}
	if cfg.NewsCacheTTL != 5*time.Minute {
		t.Errorf("expected 5m news cache TTL, got %v", cfg.NewsCacheTTL)
	}
	if cfg.RSSConverterURL == "" {
		t.Error("expected a default RSS converter URL")
	}
}

func TestLoadOverrides(t *testing.T) {
	os.Setenv("PROXY_DEADLINE", "10s")
	os.Setenv("IMPROVE_WEBHOOK_URL", "https://hooks.example.com/improve")
	defer func() {
		os.Unsetenv("PROXY_DEADLINE")
		os.Unsetenv("IMPROVE_WEBHOOK_URL")
	}()

	cfg := Load()

	if cfg.ProxyDeadline != 10*time.Second {
		t.Errorf("expected overridden proxy deadline, got %v", cfg.ProxyDeadline)
	}
	if cfg.ImproveWebhookURL != "https://hooks.example.com/improve" {
		t.Errorf("unexpected improve URL: %s", cfg.ImproveWebhookURL)
	}
}

func TestLoadInvalidDurationFallsBack(t *testing.T) {
	os.Setenv("PROXY_DEADLINE", "not-a-duration")
	defer os.Unsetenv("PROXY_DEADLINE")

	cfg := Load()
	if cfg.ProxyDeadline != 55*time.Second {
		t.Errorf("expected default on invalid duration, got %v", cfg.ProxyDeadline)
	}
}

func TestMirroringEnabled(t *testing.T) {
	cfg := &Config{}
	if cfg.MirroringEnabled() {
		t.Error("mirroring should be off without R2 credentials")
	}

	cfg.R2Endpoint = "https://acc.r2.cloudflarestorage.com"
	cfg.R2AccessKey = "key"
	cfg.R2SecretKey = "secret"
	if !cfg.MirroringEnabled() {
		t.Error("mirroring should be on with full R2 credentials")
	}
}
