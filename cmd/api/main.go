package main

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"deliverytariff/internal/config"
	"deliverytariff/internal/db"
	"deliverytariff/internal/geo"
	"deliverytariff/internal/logger"
	"deliverytariff/internal/pricing"
	"deliverytariff/internal/rate"
	"deliverytariff/internal/server"
	"deliverytariff/internal/store"
	"deliverytariff/internal/tariff"
)

func main() {
	cfg := config.Load()
	log := logger.Setup()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Without a database the engine answers from the carrier and the static
	// fallback, and regions come from the embedded catalog.
	var settings tariff.SettingsStore
	var regionSource geo.RegionSource
	if strings.TrimSpace(cfg.DatabaseURL) != "" {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("failed to connect db", "err", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			log.Error("database ping failed", "err", err)
			os.Exit(1)
		}
		if err := db.EnsureSchema(ctx, pool); err != nil {
			log.Error("ensure schema failed", "err", err)
			os.Exit(1)
		}
		st := store.New(pool)
		settings = st
		regionSource = st
	} else {
		log.Warn("DATABASE_URL not set; serving static catalog and fallback tariffs")
	}

	var cache tariff.Cache
	switch cfg.CacheBackend {
	case "redis":
		rc := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rc.Close()
		if err := rc.Ping(ctx).Err(); err != nil {
			log.Warn("redis ping failed; cache misses will fall through", "addr", cfg.RedisAddr, "err", err)
		}
		cache = tariff.NewRedisCache(rc, cfg.TariffCacheTTL)
	default:
		cache = tariff.NewMemoryCache()
	}

	catalog, err := geo.New(geo.Options{Source: regionSource, TTL: cfg.RegionsCacheTTL})
	if err != nil {
		log.Error("failed to load catalog", "err", err)
		os.Exit(1)
	}

	engine := tariff.NewEngine(tariff.Options{
		Home:     catalog,
		Store:    settings,
		Carrier:  rate.NewByName(cfg.CarrierProvider),
		Cache:    cache,
		Schedule: pricing.Schedule{Base: cfg.FallbackBasePrice, PerKg: cfg.PerKgIncrement},
		TTL:      cfg.TariffCacheTTL,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.New(engine, catalog),
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Info("api listening", "port", cfg.Port, "carrier", cfg.CarrierProvider, "cache", cfg.CacheBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "err", err)
		os.Exit(1)
	}
}
