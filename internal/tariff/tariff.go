// Package tariff resolves a delivery price and ETA for a destination and
// shipment weight. Resolution always succeeds: each source either answers or
// reports ErrUnavailable, and a static fallback terminates the pipeline.
package tariff

import (
	"context"
	"errors"
	"strings"

	"deliverytariff/internal/pricing"
)

// Provenance is a set of flags recording which stage produced a Tariff.
// A cache hit keeps the flag of the stage that originally produced it.
type Provenance uint8

const (
	FromCache Provenance = 1 << iota
	FromOverride
	FromLiveCarrier
	FallbackEstimate
)

var provenanceNames = []struct {
	flag Provenance
	name string
}{
	{FromCache, "from-cache"},
	{FromOverride, "from-override"},
	{FromLiveCarrier, "from-live-carrier"},
	{FallbackEstimate, "fallback-estimate"},
}

func (p Provenance) Has(f Provenance) bool { return p&f != 0 }

// Origin drops FromCache, leaving the stage that produced the value.
func (p Provenance) Origin() Provenance { return p &^ FromCache }

func (p Provenance) Names() []string {
	out := make([]string, 0, 2)
	for _, n := range provenanceNames {
		if p.Has(n.flag) {
			out = append(out, n.name)
		}
	}
	return out
}

func (p Provenance) String() string { return strings.Join(p.Names(), ",") }

// Tariff is a resolved delivery price (so'm) and ETA for one request.
type Tariff struct {
	Price      int64      `json:"price"`
	ETAHours   int        `json:"eta_hours"`
	Provenance Provenance `json:"provenance"`
	WeightKg   float64    `json:"weight_kg"`
}

// Estimated reports whether the price came from the static fallback.
func (t Tariff) Estimated() bool { return t.Provenance.Has(FallbackEstimate) }

// Basis records how a price was derived so a cached tariff can be re-priced
// for a different weight. Fixed prices are reused as-is.
type Basis struct {
	WeightRated bool             `json:"weight_rated"`
	Schedule    pricing.Schedule `json:"schedule"`
}

// Query is one resolution request. City is the normalized CityName.
type Query struct {
	RegionCode string
	CityName   string
	City       string
	WeightKg   float64
}

// Resolution is what a source produced.
type Resolution struct {
	Tariff Tariff
	Basis  Basis
}

// ErrUnavailable means a source has no data for the query.
var ErrUnavailable = errors.New("tariff source unavailable")

// Source is one pipeline stage. Any error other than ErrUnavailable is
// logged by the engine and then treated as ErrUnavailable.
type Source interface {
	Name() string
	Resolve(ctx context.Context, q Query) (Resolution, error)
}

func fixed(price int64, eta int, p Provenance, weightKg float64) Resolution {
	return Resolution{Tariff: Tariff{Price: price, ETAHours: eta, Provenance: p, WeightKg: weightKg}}
}

func weightRated(s pricing.Schedule, eta int, p Provenance, weightKg float64) Resolution {
	return Resolution{
		Tariff: Tariff{Price: s.PriceFor(weightKg), ETAHours: eta, Provenance: p, WeightKg: weightKg},
		Basis:  Basis{WeightRated: true, Schedule: s},
	}
}
