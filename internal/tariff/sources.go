package tariff

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"deliverytariff/internal/geo"
	"deliverytariff/internal/model"
	"deliverytariff/internal/pricing"
	"deliverytariff/internal/rate"
)

// SettingsStore is the persistent source of operator overrides.
// RegionByCode returns nil, nil when the region has no record.
type SettingsStore interface {
	RegionByCode(ctx context.Context, code string) (*model.Region, error)
	CityOverrides(ctx context.Context, regionID int64) ([]model.CityOverride, error)
	UpsertCityOverride(ctx context.Context, regionCode string, o model.CityOverride) error
}

// overrideSource answers from region defaults and city overrides.
type overrideSource struct {
	store    SettingsStore
	schedule pricing.Schedule
}

func (s *overrideSource) Name() string { return "override" }

func (s *overrideSource) Resolve(ctx context.Context, q Query) (Resolution, error) {
	region, err := s.store.RegionByCode(ctx, q.RegionCode)
	if err != nil {
		return Resolution{}, err
	}
	if region == nil {
		return Resolution{}, ErrUnavailable
	}
	regionETA := region.DeliveryETAHours
	if regionETA <= 0 {
		regionETA = FallbackETAHours(q.RegionCode)
	}

	if region.IsFreeDelivery {
		return fixed(0, regionETA, FromOverride, q.WeightKg), nil
	}
	// A region that opts out of the carrier tariff and names a price wins
	// outright, over any city override and regardless of weight.
	if !region.UseBTSTariff && region.BaseDeliveryPrice != nil {
		return fixed(*region.BaseDeliveryPrice, regionETA, FromOverride, q.WeightKg), nil
	}

	overrides, err := s.store.CityOverrides(ctx, region.ID)
	if err != nil {
		return Resolution{}, err
	}
	o := matchOverride(overrides, q.CityName)
	if o == nil {
		return Resolution{}, ErrUnavailable
	}
	eta := regionETA
	if o.DeliveryETAHours != nil && *o.DeliveryETAHours > 0 {
		eta = *o.DeliveryETAHours
	}
	switch {
	case o.IsFreeDelivery:
		return fixed(0, eta, FromOverride, q.WeightKg), nil
	case o.DeliveryPrice != nil:
		return fixed(*o.DeliveryPrice, eta, FromOverride, q.WeightKg), nil
	default:
		sched := s.schedule
		if region.BaseDeliveryPrice != nil {
			sched.Base = *region.BaseDeliveryPrice
		}
		return weightRated(sched, eta, FromOverride, q.WeightKg), nil
	}
}

// matchOverride picks the active override for city: an exact normalized
// match first, then the first substring match.
func matchOverride(overrides []model.CityOverride, city string) *model.CityOverride {
	want := geo.Normalize(city)
	if want == "" {
		return nil
	}
	var partial *model.CityOverride
	for i := range overrides {
		o := &overrides[i]
		if !o.IsActive {
			continue
		}
		if geo.Normalize(o.CityName) == want {
			return o
		}
		if partial == nil && geo.Matches(o.CityName, city) {
			partial = o
		}
	}
	return partial
}

// carrierSource asks the live carrier and writes a successful quote back to
// the settings store as a carrier override.
type carrierSource struct {
	carrier rate.Carrier
	store   SettingsStore
	log     *slog.Logger
}

func (s *carrierSource) Name() string { return "carrier" }

func (s *carrierSource) Resolve(ctx context.Context, q Query) (Resolution, error) {
	quote, err := s.carrier.Quote(ctx, q.RegionCode, q.CityName, q.WeightKg)
	if err != nil {
		return Resolution{}, err
	}
	if quote == nil {
		return Resolution{}, ErrUnavailable
	}
	if quote.Price < 0 || quote.ETAHours <= 0 {
		return Resolution{}, fmt.Errorf("invalid carrier quote: price=%d eta=%d", quote.Price, quote.ETAHours)
	}
	if s.store != nil {
		price, eta := quote.Price, quote.ETAHours
		err := s.store.UpsertCityOverride(ctx, q.RegionCode, model.CityOverride{
			CityName:         strings.TrimSpace(q.CityName),
			DeliveryPrice:    &price,
			DeliveryETAHours: &eta,
			IsActive:         true,
			Source:           model.SourceCarrier,
		})
		if err != nil {
			s.log.Warn("carrier_quote_persist_error", "region", q.RegionCode, "city", q.CityName, "err", err)
		}
	}
	return fixed(quote.Price, quote.ETAHours, FromLiveCarrier, q.WeightKg), nil
}
