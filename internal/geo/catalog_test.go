package geo

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"deliverytariff/internal/model"
)

type fakeSource struct {
	calls   int
	regions []model.Region
	err     error
}

func (f *fakeSource) ActiveRegions(ctx context.Context) ([]model.Region, error) {
	f.calls++
	return f.regions, f.err
}

func newCatalog(t *testing.T, opts Options) *Catalog {
	t.Helper()
	c, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestIsHomeCity(t *testing.T) {
	c := newCatalog(t, Options{})
	cases := []struct {
		region, city string
		want         bool
	}{
		{"bukhara", "Buxoro shahri", true},
		{"bukhara", "  BUXORO  ", true},
		{"bukhara", "г. Бухара", true},
		{"bukhara", "Bukhara city", true},
		{"bukhara", "Kogon", false},
		{"bukhara", "", false},
		{"samarkand", "Buxoro shahri", false},
		{"", "Buxoro", false},
	}
	for _, tc := range cases {
		if got := c.IsHomeCity(tc.region, tc.city); got != tc.want {
			t.Fatalf("IsHomeCity(%q, %q) = %v, want %v", tc.region, tc.city, got, tc.want)
		}
	}
}

func TestListDistricts(t *testing.T) {
	c := newCatalog(t, Options{})
	ds := c.ListDistricts("tashkent_region")
	if len(ds) == 0 {
		t.Fatalf("expected districts for tashkent_region")
	}
	found := false
	for _, d := range ds {
		if d.Name == "Chirchiq" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected Chirchiq in tashkent_region districts: %+v", ds)
	}

	home := c.ListDistricts("bukhara")
	if len(home) == 0 || !home[0].IsHomeCity {
		t.Fatalf("expected first bukhara district flagged as home city: %+v", home)
	}
}

func TestListDistrictsUnknownRegion(t *testing.T) {
	c := newCatalog(t, Options{})
	ds := c.ListDistricts("atlantis")
	if ds == nil || len(ds) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", ds)
	}
}

func TestListRegionsStaticWithoutSource(t *testing.T) {
	c := newCatalog(t, Options{})
	regions := c.ListRegions(context.Background())
	if len(regions) != 14 {
		t.Fatalf("expected 14 static regions, got %d", len(regions))
	}
	for i := 1; i < len(regions); i++ {
		if regions[i-1].SortOrder > regions[i].SortOrder {
			t.Fatalf("regions not sorted at %d: %d > %d", i, regions[i-1].SortOrder, regions[i].SortOrder)
		}
	}
	if regions[0].Code != "tashkent_city" {
		t.Fatalf("unexpected first region: %s", regions[0].Code)
	}
}

func TestListRegionsCachedWithinTTL(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	src := &fakeSource{regions: []model.Region{{Code: "bukhara", SortOrder: 1, IsActive: true}}}
	c := newCatalog(t, Options{Source: src, TTL: 5 * time.Minute, Now: func() time.Time { return now }})

	for i := 0; i < 3; i++ {
		regions := c.ListRegions(context.Background())
		if len(regions) != 1 || regions[0].Code != "bukhara" {
			t.Fatalf("unexpected regions: %+v", regions)
		}
	}
	if src.calls != 1 {
		t.Fatalf("expected 1 source call within ttl, got %d", src.calls)
	}

	now = now.Add(5 * time.Minute)
	c.ListRegions(context.Background())
	if src.calls != 2 {
		t.Fatalf("expected refetch after ttl, got %d calls", src.calls)
	}
}

func TestListRegionsSourceFailureServesStatic(t *testing.T) {
	src := &fakeSource{err: errors.New("connection refused")}
	c := newCatalog(t, Options{Source: src})
	regions := c.ListRegions(context.Background())
	if len(regions) != 14 {
		t.Fatalf("expected static fallback, got %d regions", len(regions))
	}
}

func TestListRegionsReturnsCopy(t *testing.T) {
	c := newCatalog(t, Options{})
	regions := c.ListRegions(context.Background())
	regions[0].Code = "mutated"
	again := c.ListRegions(context.Background())
	if again[0].Code == "mutated" {
		t.Fatalf("cached regions were mutated through returned slice")
	}
}

func TestNewRejectsDuplicateDistricts(t *testing.T) {
	doc := []byte(`
regions:
  - code: a
    districts:
      - {name: Kogon}
      - {name: " KOGON "}
`)
	if _, err := New(Options{Data: doc}); err == nil {
		t.Fatalf("expected duplicate district error")
	}
}

func TestNormalizeAndMatches(t *testing.T) {
	if got := Normalize("  Farg`ona   Shahri "); got != "farg'ona shahri" {
		t.Fatalf("unexpected normalized form: %q", got)
	}
	if !Matches("Chirchiq shahri", "chirchiq") {
		t.Fatalf("expected substring match")
	}
	if !Matches("Qo‘qon", "qo'qon") {
		t.Fatalf("expected apostrophe variants to match")
	}
	if Matches("Angren", "") {
		t.Fatalf("empty name must not match")
	}
}

// slowSource blocks its first call until released; later calls return at once.
type slowSource struct {
	calls   atomic.Int32
	entered chan struct{}
	release chan struct{}
}

func (s *slowSource) ActiveRegions(ctx context.Context) ([]model.Region, error) {
	if s.calls.Add(1) == 1 {
		close(s.entered)
		<-s.release
	}
	return []model.Region{{Code: "samarkand", SortOrder: 1, IsActive: true}}, nil
}

func TestListRegionsDoesNotHoldLockDuringFetch(t *testing.T) {
	src := &slowSource{entered: make(chan struct{}), release: make(chan struct{})}
	c := newCatalog(t, Options{Source: src})

	done := make(chan []model.Region)
	go func() { done <- c.ListRegions(context.Background()) }()
	<-src.entered

	second := make(chan []model.Region)
	go func() { second <- c.ListRegions(context.Background()) }()
	select {
	case regions := <-second:
		if len(regions) != 1 || regions[0].Code != "samarkand" {
			t.Fatalf("unexpected regions: %+v", regions)
		}
	case <-time.After(2 * time.Second):
		close(src.release)
		t.Fatalf("second ListRegions blocked behind an in-flight fetch")
	}

	close(src.release)
	if regions := <-done; len(regions) != 1 {
		t.Fatalf("unexpected regions from slow fetch: %+v", regions)
	}
}
