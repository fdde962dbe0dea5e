package tariff

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"deliverytariff/internal/geo"
	"deliverytariff/internal/logger"
	"deliverytariff/internal/metrics"
	"deliverytariff/internal/pricing"
	"deliverytariff/internal/rate"
)

// HomeCityETAHours is the ETA promised for free home-city delivery.
const HomeCityETAHours = 24

// HomeCityChecker answers whether a destination is the seller's home city.
type HomeCityChecker interface {
	IsHomeCity(regionCode, cityName string) bool
}

type Options struct {
	Home HomeCityChecker
	// Store is optional; without it the override stage is skipped.
	Store SettingsStore
	// Carrier defaults to rate.Unavailable.
	Carrier rate.Carrier
	// Cache defaults to a MemoryCache.
	Cache Cache
	// Schedule prices computed tariffs. Zero means pricing.Default().
	Schedule pricing.Schedule
	// TTL is the cache freshness window. Zero means DefaultTTL.
	TTL    time.Duration
	Now    func() time.Time
	Logger *slog.Logger
}

type Engine struct {
	home     HomeCityChecker
	cache    Cache
	sources  []Source
	fallback fallback
	ttl      time.Duration
	now      func() time.Time
	log      *slog.Logger
}

func NewEngine(opts Options) *Engine {
	e := &Engine{
		home:  opts.Home,
		cache: opts.Cache,
		ttl:   opts.TTL,
		now:   opts.Now,
		log:   opts.Logger,
	}
	if e.cache == nil {
		e.cache = NewMemoryCache()
	}
	if e.ttl <= 0 {
		e.ttl = DefaultTTL
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.log == nil {
		e.log = logger.L()
	}
	sched := opts.Schedule
	if sched == (pricing.Schedule{}) {
		sched = pricing.Default()
	}
	carrier := opts.Carrier
	if carrier == nil {
		carrier = rate.NewUnavailable()
	}

	if opts.Store != nil {
		e.sources = append(e.sources, &overrideSource{store: opts.Store, schedule: sched})
	}
	e.sources = append(e.sources, &carrierSource{carrier: carrier, store: opts.Store, log: e.log})
	e.fallback = fallback{schedule: sched}
	return e
}

// Resolve returns the delivery tariff for a destination and weight. It never
// fails: sources that error or have no data are skipped and the static
// fallback answers last. Callers validate weightKg >= 0.
func (e *Engine) Resolve(ctx context.Context, regionCode, cityName string, weightKg float64) Tariff {
	start := time.Now()
	defer func() {
		metrics.TariffResolveDurationMs.Observe(float64(time.Since(start).Milliseconds()))
	}()

	if e.home != nil && e.home.IsHomeCity(regionCode, cityName) {
		metrics.TariffResolutionsTotal.WithLabelValues("home_city").Inc()
		return Tariff{Price: 0, ETAHours: HomeCityETAHours, Provenance: FromOverride, WeightKg: weightKg}
	}

	q := Query{RegionCode: regionCode, CityName: cityName, City: geo.Normalize(cityName), WeightKg: weightKg}
	key := Key{Region: regionCode, City: q.City}

	if entry, ok := e.cache.Get(ctx, key); !ok {
		metrics.TariffCacheLookupsTotal.WithLabelValues("miss").Inc()
	} else if entry.Fresh(e.now(), e.ttl) {
		metrics.TariffCacheLookupsTotal.WithLabelValues("hit").Inc()
		metrics.TariffResolutionsTotal.WithLabelValues("cache").Inc()
		return entry.hit(weightKg)
	} else {
		metrics.TariffCacheLookupsTotal.WithLabelValues("stale").Inc()
	}

	res, stage := e.fromSources(ctx, q)
	metrics.TariffResolutionsTotal.WithLabelValues(stage).Inc()

	// An abandoned request must not pin its degraded answer in the cache.
	if ctx.Err() == nil {
		e.cache.Set(ctx, key, Entry{Tariff: res.Tariff, Basis: res.Basis, CreatedAt: e.now()})
	}
	return res.Tariff
}

func (e *Engine) fromSources(ctx context.Context, q Query) (Resolution, string) {
	for _, s := range e.sources {
		res, err := tryResolve(ctx, s, q)
		if err == nil {
			return res, s.Name()
		}
		if errors.Is(err, ErrUnavailable) {
			e.log.Debug("tariff_source_no_data", "source", s.Name(), "region", q.RegionCode, "city", q.CityName)
			continue
		}
		metrics.TariffSourceErrorsTotal.WithLabelValues(s.Name()).Inc()
		e.log.Warn("tariff_source_error", "source", s.Name(), "region", q.RegionCode, "city", q.CityName, "err", err)
	}
	e.log.Info("tariff_fallback_estimate", "region", q.RegionCode, "city", q.CityName, "weight_kg", q.WeightKg)
	return e.fallback.resolve(q), "fallback"
}

// tryResolve runs one source and converts a panic into an error so a broken
// source degrades like an unreachable one.
func tryResolve(ctx context.Context, s Source, q Query) (res Resolution, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s source panic: %v", s.Name(), r)
		}
	}()
	return s.Resolve(ctx, q)
}
