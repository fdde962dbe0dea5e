// Package db opens the Postgres pool backing the tariff settings store.
package db

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolOptions tunes the settings pool. Zero fields take the defaults below.
type PoolOptions struct {
	ApplicationName string
	MaxConns        int32
	// StatementTimeout bounds every query so a slow settings read falls
	// through to the next tariff source instead of stalling checkout.
	StatementTimeout time.Duration
}

const (
	defaultApplicationName  = "deliverytariff"
	defaultMaxConns         = 5
	defaultStatementTimeout = 3 * time.Second
)

func (o PoolOptions) withDefaults() PoolOptions {
	if o.ApplicationName == "" {
		o.ApplicationName = defaultApplicationName
	}
	if o.MaxConns <= 0 {
		o.MaxConns = defaultMaxConns
	}
	if o.StatementTimeout <= 0 {
		o.StatementTimeout = defaultStatementTimeout
	}
	return o
}

// NewPool connects with default PoolOptions.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	return NewPoolWithOptions(ctx, databaseURL, PoolOptions{})
}

func NewPoolWithOptions(ctx context.Context, databaseURL string, opts PoolOptions) (*pgxpool.Pool, error) {
	cfg, err := poolConfig(databaseURL, opts)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	return pool, nil
}

func poolConfig(databaseURL string, opts PoolOptions) (*pgxpool.Config, error) {
	if databaseURL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}
	opts = opts.withDefaults()

	cfg.MaxConns = opts.MaxConns
	cfg.MinConns = 0
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second

	params := cfg.ConnConfig.RuntimeParams
	params["application_name"] = opts.ApplicationName
	params["search_path"] = "public"
	params["client_encoding"] = "UTF8"
	params["timezone"] = "UTC"
	params["statement_timeout"] = strconv.FormatInt(opts.StatementTimeout.Milliseconds(), 10)
	params["idle_in_transaction_session_timeout"] = "5000"
	return cfg, nil
}
