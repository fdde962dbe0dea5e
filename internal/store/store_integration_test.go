package store

import (
	"context"
	"os"
	"testing"

	"deliverytariff/internal/db"
	"deliverytariff/internal/model"
	"deliverytariff/internal/tariff"
)

func newIntegrationStore(t *testing.T) *Store {
	t.Helper()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set; skipping integration test")
	}
	pool, err := db.NewPool(testContext(t), dbURL)
	if err != nil {
		t.Fatalf("failed to connect db: %v", err)
	}
	t.Cleanup(pool.Close)
	if err := db.EnsureSchema(testContext(t), pool); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	t.Cleanup(func() {
		_, _ = pool.Exec(testContext(t), `DELETE FROM delivery_regions WHERE code LIKE 'itest_%'`)
	})
	return New(pool)
}

func TestRegionAndOverrideRoundTrip(t *testing.T) {
	s := newIntegrationStore(t)
	ctx := testContext(t)

	base := int64(30000)
	err := s.UpsertRegion(ctx, model.Region{
		Code: "itest_region", NameEn: "Itest", BaseDeliveryPrice: &base,
		DeliveryETAHours: 48, UseBTSTariff: true, SortOrder: 99, IsActive: true,
	})
	if err != nil {
		t.Fatalf("upsert region: %v", err)
	}
	r, err := s.RegionByCode(ctx, "itest_region")
	if err != nil || r == nil {
		t.Fatalf("expected region, got %v / %v", r, err)
	}
	if r.BaseDeliveryPrice == nil || *r.BaseDeliveryPrice != 30000 || r.DeliveryETAHours != 48 {
		t.Fatalf("unexpected region: %+v", r)
	}

	missing, err := s.RegionByCode(ctx, "itest_missing")
	if err != nil || missing != nil {
		t.Fatalf("expected nil, nil for missing region, got %v / %v", missing, err)
	}

	price := int64(25000)
	if err := s.UpsertCityOverride(ctx, "itest_region", model.CityOverride{CityName: "Angren", DeliveryPrice: &price, IsActive: true}); err != nil {
		t.Fatalf("upsert override: %v", err)
	}
	// carrier quotes must not replace an operator row
	carrierPrice := int64(1)
	if err := s.UpsertCityOverride(ctx, "itest_region", model.CityOverride{CityName: "ANGREN", DeliveryPrice: &carrierPrice, IsActive: true, Source: model.SourceCarrier}); err != nil {
		t.Fatalf("upsert carrier override: %v", err)
	}
	overrides, err := s.CityOverrides(ctx, r.ID)
	if err != nil {
		t.Fatalf("city overrides: %v", err)
	}
	if len(overrides) != 1 || overrides[0].DeliveryPrice == nil || *overrides[0].DeliveryPrice != 25000 || overrides[0].Source != model.SourceOperator {
		t.Fatalf("unexpected overrides: %+v", overrides)
	}
}

func TestEngineReadsStore(t *testing.T) {
	s := newIntegrationStore(t)
	ctx := testContext(t)

	base := int64(20000)
	err := s.UpsertRegion(ctx, model.Region{
		Code: "itest_flat", BaseDeliveryPrice: &base, DeliveryETAHours: 36,
		UseBTSTariff: false, IsActive: true,
	})
	if err != nil {
		t.Fatalf("upsert region: %v", err)
	}
	e := tariff.NewEngine(tariff.Options{Store: s})
	got := e.Resolve(ctx, "itest_flat", "Anywhere", 9)
	if got.Price != 20000 || got.ETAHours != 36 || got.Provenance != tariff.FromOverride {
		t.Fatalf("unexpected tariff: %+v", got)
	}
}

// testContext stands in for testing.T.Context (Go 1.24+) on older toolchains:
// the returned context is cancelled when the test's cleanups run.
func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
