package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS delivery_regions (
		id                  BIGSERIAL PRIMARY KEY,
		code                TEXT NOT NULL UNIQUE,
		name_uz             TEXT NOT NULL DEFAULT '',
		name_ru             TEXT NOT NULL DEFAULT '',
		name_en             TEXT NOT NULL DEFAULT '',
		base_delivery_price BIGINT,
		is_free_delivery    BOOLEAN NOT NULL DEFAULT FALSE,
		delivery_eta_hours  INTEGER NOT NULL DEFAULT 72,
		use_bts_tariff      BOOLEAN NOT NULL DEFAULT TRUE,
		sort_order          INTEGER NOT NULL DEFAULT 0,
		is_active           BOOLEAN NOT NULL DEFAULT TRUE,
		updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS delivery_city_overrides (
		id                 BIGSERIAL PRIMARY KEY,
		region_id          BIGINT NOT NULL REFERENCES delivery_regions(id) ON DELETE CASCADE,
		city_name          TEXT NOT NULL,
		delivery_price     BIGINT,
		is_free_delivery   BOOLEAN NOT NULL DEFAULT FALSE,
		delivery_eta_hours INTEGER,
		is_active          BOOLEAN NOT NULL DEFAULT TRUE,
		source             TEXT NOT NULL DEFAULT 'operator',
		updated_at         TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS delivery_city_overrides_region_city_uq
		ON delivery_city_overrides (region_id, lower(city_name))`,
}

// EnsureSchema creates the settings tables when they are missing. It is
// idempotent and safe to run on every start.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for i, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	return nil
}
