package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	DatabaseURL     string
	Port            string
	CarrierProvider string

	CacheBackend  string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	TariffCacheTTL  time.Duration
	RegionsCacheTTL time.Duration

	FallbackBasePrice int64
	PerKgIncrement    int64
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first and never overrides variables already set; when
// CONFIG_FILE points at a YAML file its keys fill in anything the environment
// leaves unset.
func Load() Config {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("CARRIER_PROVIDER", "none")
	v.SetDefault("CACHE_BACKEND", "memory")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("TARIFF_CACHE_TTL", "24h")
	v.SetDefault("REGIONS_CACHE_TTL", "5m")
	v.SetDefault("FALLBACK_BASE_PRICE", 35000)
	v.SetDefault("PER_KG_INCREMENT", 5000)
	v.AutomaticEnv()

	if path := strings.TrimSpace(v.GetString("CONFIG_FILE")); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		// a missing or broken file leaves env + defaults in place
		_ = v.ReadInConfig()
	}

	return Config{
		DatabaseURL:       v.GetString("DATABASE_URL"),
		Port:              v.GetString("PORT"),
		CarrierProvider:   v.GetString("CARRIER_PROVIDER"),
		CacheBackend:      strings.ToLower(strings.TrimSpace(v.GetString("CACHE_BACKEND"))),
		RedisAddr:         v.GetString("REDIS_ADDR"),
		RedisPassword:     v.GetString("REDIS_PASSWORD"),
		RedisDB:           v.GetInt("REDIS_DB"),
		TariffCacheTTL:    durationOr(v.GetDuration("TARIFF_CACHE_TTL"), 24*time.Hour),
		RegionsCacheTTL:   durationOr(v.GetDuration("REGIONS_CACHE_TTL"), 5*time.Minute),
		FallbackBasePrice: v.GetInt64("FALLBACK_BASE_PRICE"),
		PerKgIncrement:    v.GetInt64("PER_KG_INCREMENT"),
	}
}

func durationOr(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
