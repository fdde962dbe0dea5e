package rate

import (
	"context"
	"testing"
)

func TestUnavailableNeverQuotes(t *testing.T) {
	c := NewUnavailable()
	q, err := c.Quote(context.Background(), "tashkent_region", "Chirchiq", 2.5)
	if err != nil || q != nil {
		t.Fatalf("expected nil quote and nil error, got %+v / %v", q, err)
	}
}

func TestBTSPlaceholderReportsNoData(t *testing.T) {
	c := NewByName("BTS")
	if _, ok := c.(*BTS); !ok {
		t.Fatalf("expected *BTS from NewByName('BTS'), got %T", c)
	}
	q, err := c.Quote(context.Background(), "samarkand", "Urgut", 1)
	if err != nil || q != nil {
		t.Fatalf("expected no data, got %+v / %v", q, err)
	}
}

func TestBTSHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewBTS().Quote(ctx, "samarkand", "Urgut", 1); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestNewByNameFallsBackToUnavailable(t *testing.T) {
	for _, name := range []string{"", "none", "karrio"} {
		if _, ok := NewByName(name).(*Unavailable); !ok {
			t.Fatalf("expected *Unavailable for %q", name)
		}
	}
}
