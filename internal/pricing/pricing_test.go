package pricing

import (
	"math"
	"testing"
)

func TestPriceFor(t *testing.T) {
	s := Schedule{Base: 35000, PerKg: 5000}
	cases := []struct {
		weight float64
		want   int64
	}{
		{0, 35000},
		{0.2, 35000},
		{1.0, 35000},
		{1.1, 40000},
		{2.0, 40000},
		{2.01, 45000},
		{2.3, 45000},
		{2.5, 45000},
		{10, 80000},
	}
	for _, c := range cases {
		if got := s.PriceFor(c.weight); got != c.want {
			t.Fatalf("PriceFor(%v) = %d, want %d", c.weight, got, c.want)
		}
	}
}

func TestPriceForAtOrBelowOneKgIsBase(t *testing.T) {
	s := Default()
	for _, w := range []float64{0.001, 0.25, 0.5, 0.999, 1} {
		if got := s.PriceFor(w); got != s.Base {
			t.Fatalf("PriceFor(%v) = %d, want base %d", w, got, s.Base)
		}
	}
}

func TestExcessKgRoundsUp(t *testing.T) {
	if got := ExcessKg(2.3); got != 2 {
		t.Fatalf("ExcessKg(2.3) = %d, want 2", got)
	}
	if got := ExcessKg(-3); got != 0 {
		t.Fatalf("ExcessKg(-3) = %d, want 0", got)
	}
}

func TestPriceForSaturatesInsteadOfWrapping(t *testing.T) {
	s := Default()
	for _, w := range []float64{2e15, 1e19, 1e300, math.Inf(1)} {
		if got := s.PriceFor(w); got != math.MaxInt64 {
			t.Fatalf("PriceFor(%g) = %d, want saturation at MaxInt64", w, got)
		}
	}
	if got := ExcessKg(1e19); got != math.MaxInt64 {
		t.Fatalf("ExcessKg(1e19) = %d, want MaxInt64", got)
	}
	if got := s.PriceFor(MaxWeightKg); got != 35000+999*5000 {
		t.Fatalf("PriceFor(MaxWeightKg) = %d", got)
	}
}

func TestPriceForNeverNegative(t *testing.T) {
	if got := (Schedule{Base: -10, PerKg: -5}).PriceFor(7); got != 0 {
		t.Fatalf("expected 0 for a negative schedule, got %d", got)
	}
}

func TestValidWeight(t *testing.T) {
	cases := []struct {
		weight float64
		want   bool
	}{
		{0, true},
		{2.5, true},
		{MaxWeightKg, true},
		{MaxWeightKg + 0.1, false},
		{-0.5, false},
		{2e15, false},
		{math.NaN(), false},
		{math.Inf(1), false},
	}
	for _, c := range cases {
		if got := ValidWeight(c.weight); got != c.want {
			t.Fatalf("ValidWeight(%g) = %v, want %v", c.weight, got, c.want)
		}
	}
}
