// Package pricing maps a shipment weight to a delivery price.
package pricing

import "math"

const (
	DefaultBase  int64 = 35000
	DefaultPerKg int64 = 5000

	// MaxWeightKg is the heaviest shipment callers accept for pricing.
	MaxWeightKg = 1000.0
)

// Schedule is a weight-tiered price list: Base covers the first kilogram and
// every started kilogram above it adds PerKg.
type Schedule struct {
	Base  int64 `json:"base"`
	PerKg int64 `json:"per_kg"`
}

func Default() Schedule { return Schedule{Base: DefaultBase, PerKg: DefaultPerKg} }

// PriceFor returns Base + ceil(max(0, weightKg-1)) * PerKg, saturating at
// math.MaxInt64 and never below zero.
func (s Schedule) PriceFor(weightKg float64) int64 {
	base := max(s.Base, 0)
	excess := ExcessKg(weightKg)
	if s.PerKg <= 0 || excess == 0 {
		return base
	}
	if excess > (math.MaxInt64-base)/s.PerKg {
		return math.MaxInt64
	}
	return base + excess*s.PerKg
}

// ExcessKg is the number of started kilograms above the first one. Weights
// beyond the int64 range saturate at math.MaxInt64.
func ExcessKg(weightKg float64) int64 {
	excess := weightKg - 1
	if excess <= 0 || math.IsNaN(excess) {
		return 0
	}
	if excess >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(math.Ceil(excess))
}

// ValidWeight reports whether weightKg is a finite weight in [0, MaxWeightKg].
func ValidWeight(weightKg float64) bool {
	return weightKg >= 0 && weightKg <= MaxWeightKg && !math.IsNaN(weightKg)
}
