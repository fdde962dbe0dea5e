package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"deliverytariff/internal/config"
	"deliverytariff/internal/db"
	"deliverytariff/internal/geo"
	"deliverytariff/internal/logger"
	"deliverytariff/internal/store"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "tariffctl",
		Short:         "Resolve delivery tariffs and manage tariff settings",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(resolveCmd())
	rootCmd.AddCommand(regionsCmd())
	rootCmd.AddCommand(districtsCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// env holds what every command needs. store is nil when DATABASE_URL is unset.
type env struct {
	cfg     config.Config
	pool    *pgxpool.Pool
	store   *store.Store
	catalog *geo.Catalog
}

func (e *env) Close() {
	if e.pool != nil {
		e.pool.Close()
	}
}

func openEnv(ctx context.Context, requireDB bool) (*env, error) {
	cfg := config.Load()
	logger.Setup()
	e := &env{cfg: cfg}

	var source geo.RegionSource
	if strings.TrimSpace(cfg.DatabaseURL) != "" {
		// migrations and seeding may outlast the checkout statement timeout
		pool, err := db.NewPoolWithOptions(ctx, cfg.DatabaseURL, db.PoolOptions{
			ApplicationName:  "tariffctl",
			MaxConns:         2,
			StatementTimeout: 30 * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("connect db: %w", err)
		}
		e.pool = pool
		e.store = store.New(pool)
		source = e.store
	} else if requireDB {
		return nil, fmt.Errorf("DATABASE_URL not set")
	}

	catalog, err := geo.New(geo.Options{Source: source, TTL: cfg.RegionsCacheTTL})
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	e.catalog = catalog
	return e, nil
}
