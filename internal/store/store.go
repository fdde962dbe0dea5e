// Package store reads and writes delivery settings (regions and city
// overrides) in Postgres.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"deliverytariff/internal/model"
)

const regionColumns = `id, code, name_uz, name_ru, name_en, base_delivery_price,
	is_free_delivery, delivery_eta_hours, use_bts_tariff, sort_order, is_active`

const overrideColumns = `id, region_id, city_name, delivery_price, is_free_delivery,
	delivery_eta_hours, is_active, source`

type Store struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Store { return &Store{db: db} }

// ActiveRegions returns operator-active regions ordered by sort position.
func (s *Store) ActiveRegions(ctx context.Context) ([]model.Region, error) {
	rows, err := s.db.Query(ctx, `SELECT `+regionColumns+`
		FROM delivery_regions
		WHERE is_active = TRUE
		ORDER BY sort_order, code`)
	if err != nil {
		return nil, fmt.Errorf("query regions: %w", err)
	}
	regions, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Region])
	if err != nil {
		return nil, fmt.Errorf("scan regions: %w", err)
	}
	return regions, nil
}

// RegionByCode returns the region record for code, or nil when none exists.
func (s *Store) RegionByCode(ctx context.Context, code string) (*model.Region, error) {
	rows, err := s.db.Query(ctx, `SELECT `+regionColumns+`
		FROM delivery_regions
		WHERE code = $1`, code)
	if err != nil {
		return nil, fmt.Errorf("query region %s: %w", code, err)
	}
	r, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Region])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan region %s: %w", code, err)
	}
	return &r, nil
}

// CityOverrides returns the active city overrides of a region.
func (s *Store) CityOverrides(ctx context.Context, regionID int64) ([]model.CityOverride, error) {
	rows, err := s.db.Query(ctx, `SELECT `+overrideColumns+`
		FROM delivery_city_overrides
		WHERE region_id = $1 AND is_active = TRUE
		ORDER BY city_name`, regionID)
	if err != nil {
		return nil, fmt.Errorf("query city overrides: %w", err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.CityOverride])
	if err != nil {
		return nil, fmt.Errorf("scan city overrides: %w", err)
	}
	return out, nil
}

// UpsertRegion inserts or updates a region by code.
func (s *Store) UpsertRegion(ctx context.Context, r model.Region) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO delivery_regions (
			code, name_uz, name_ru, name_en, base_delivery_price,
			is_free_delivery, delivery_eta_hours, use_bts_tariff, sort_order, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (code) DO UPDATE SET
			name_uz = EXCLUDED.name_uz,
			name_ru = EXCLUDED.name_ru,
			name_en = EXCLUDED.name_en,
			base_delivery_price = EXCLUDED.base_delivery_price,
			is_free_delivery = EXCLUDED.is_free_delivery,
			delivery_eta_hours = EXCLUDED.delivery_eta_hours,
			use_bts_tariff = EXCLUDED.use_bts_tariff,
			sort_order = EXCLUDED.sort_order,
			is_active = EXCLUDED.is_active,
			updated_at = now()`,
		r.Code, r.NameUz, r.NameRu, r.NameEn, r.BaseDeliveryPrice,
		r.IsFreeDelivery, r.DeliveryETAHours, r.UseBTSTariff, r.SortOrder, r.IsActive,
	)
	if err != nil {
		return fmt.Errorf("upsert region %s: %w", r.Code, err)
	}
	return nil
}

// UpsertCityOverride writes an override for a city of the region with the
// given code. Operator rows are never replaced by carrier rows. It is a no-op
// when the region does not exist.
func (s *Store) UpsertCityOverride(ctx context.Context, regionCode string, o model.CityOverride) error {
	if o.Source == "" {
		o.Source = model.SourceOperator
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO delivery_city_overrides (
			region_id, city_name, delivery_price, is_free_delivery,
			delivery_eta_hours, is_active, source
		)
		SELECT r.id, $2, $3, $4, $5, $6, $7
		FROM delivery_regions r
		WHERE r.code = $1
		ON CONFLICT (region_id, lower(city_name)) DO UPDATE SET
			delivery_price = EXCLUDED.delivery_price,
			is_free_delivery = EXCLUDED.is_free_delivery,
			delivery_eta_hours = EXCLUDED.delivery_eta_hours,
			is_active = EXCLUDED.is_active,
			source = EXCLUDED.source,
			updated_at = now()
		WHERE delivery_city_overrides.source = 'carrier' OR EXCLUDED.source = 'operator'`,
		regionCode, o.CityName, o.DeliveryPrice, o.IsFreeDelivery,
		o.DeliveryETAHours, o.IsActive, o.Source,
	)
	if err != nil {
		return fmt.Errorf("upsert city override %s/%s: %w", regionCode, o.CityName, err)
	}
	return nil
}
