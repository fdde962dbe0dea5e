package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("CACHE_BACKEND", "")
	t.Setenv("TARIFF_CACHE_TTL", "")
	t.Setenv("CONFIG_FILE", "")
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.TariffCacheTTL != 24*time.Hour {
		t.Fatalf("expected 24h tariff ttl, got %v", cfg.TariffCacheTTL)
	}
	if cfg.RegionsCacheTTL != 5*time.Minute {
		t.Fatalf("expected 5m regions ttl, got %v", cfg.RegionsCacheTTL)
	}
	if cfg.FallbackBasePrice != 35000 || cfg.PerKgIncrement != 5000 {
		t.Fatalf("unexpected pricing defaults: %d/%d", cfg.FallbackBasePrice, cfg.PerKgIncrement)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CACHE_BACKEND", " Redis ")
	t.Setenv("REDIS_ADDR", "127.0.0.1:6379")
	t.Setenv("TARIFF_CACHE_TTL", "90m")
	t.Setenv("PER_KG_INCREMENT", "7000")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("unexpected port: %q", cfg.Port)
	}
	if cfg.CacheBackend != "redis" {
		t.Fatalf("expected normalized backend 'redis', got %q", cfg.CacheBackend)
	}
	if cfg.TariffCacheTTL != 90*time.Minute {
		t.Fatalf("unexpected ttl: %v", cfg.TariffCacheTTL)
	}
	if cfg.PerKgIncrement != 7000 {
		t.Fatalf("unexpected increment: %d", cfg.PerKgIncrement)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tariff.yaml")
	if err := os.WriteFile(path, []byte("CARRIER_PROVIDER: bts\nFALLBACK_BASE_PRICE: 40000\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("CARRIER_PROVIDER", "")
	t.Setenv("FALLBACK_BASE_PRICE", "")
	cfg := Load()
	if cfg.CarrierProvider != "bts" {
		t.Fatalf("expected provider from file, got %q", cfg.CarrierProvider)
	}
	if cfg.FallbackBasePrice != 40000 {
		t.Fatalf("expected base price from file, got %d", cfg.FallbackBasePrice)
	}
}
