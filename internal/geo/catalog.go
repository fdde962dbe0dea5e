// Package geo is the geography catalog: the region → district hierarchy, the
// operator-active region list and the home-city predicate that triggers free
// delivery.
package geo

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"

	"deliverytariff/internal/logger"
	"deliverytariff/internal/metrics"
	"deliverytariff/internal/model"
)

//go:embed catalog.yaml
var defaultCatalog []byte

const DefaultRegionsTTL = 5 * time.Minute

// RegionSource lists operator-active regions ordered by sort position.
type RegionSource interface {
	ActiveRegions(ctx context.Context) ([]model.Region, error)
}

type Options struct {
	// Source is optional; without it ListRegions serves the static catalog.
	Source RegionSource
	// TTL bounds how long a region list is reused. Zero means DefaultRegionsTTL.
	TTL time.Duration
	// Data replaces the embedded catalog document.
	Data   []byte
	Now    func() time.Time
	Logger *slog.Logger
}

type Catalog struct {
	regions       []model.Region
	districts     map[string][]model.District
	homeRegion    string
	homeSpellings []string

	source RegionSource
	ttl    time.Duration
	now    func() time.Time
	log    *slog.Logger

	mu        sync.Mutex
	cached    []model.Region
	fetchedAt time.Time
}

type catalogDoc struct {
	Home struct {
		Region    string   `yaml:"region"`
		Spellings []string `yaml:"spellings"`
	} `yaml:"home"`
	Regions []struct {
		Code      string           `yaml:"code"`
		NameUz    string           `yaml:"name_uz"`
		NameRu    string           `yaml:"name_ru"`
		NameEn    string           `yaml:"name_en"`
		Sort      int              `yaml:"sort"`
		ETAHours  int              `yaml:"eta_hours"`
		Districts []model.District `yaml:"districts"`
	} `yaml:"regions"`
}

func New(opts Options) (*Catalog, error) {
	data := opts.Data
	if data == nil {
		data = defaultCatalog
	}
	var doc catalogDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(doc.Regions) == 0 {
		return nil, errors.New("catalog has no regions")
	}

	c := &Catalog{
		districts:  make(map[string][]model.District, len(doc.Regions)),
		homeRegion: strings.TrimSpace(doc.Home.Region),
		source:     opts.Source,
		ttl:        opts.TTL,
		now:        opts.Now,
		log:        opts.Logger,
	}
	if c.ttl <= 0 {
		c.ttl = DefaultRegionsTTL
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.log == nil {
		c.log = logger.L()
	}
	for _, s := range doc.Home.Spellings {
		if n := Normalize(s); n != "" {
			c.homeSpellings = append(c.homeSpellings, n)
		}
	}
	for _, r := range doc.Regions {
		if _, dup := c.districts[r.Code]; dup {
			return nil, fmt.Errorf("duplicate region code %q", r.Code)
		}
		seen := make(map[string]bool, len(r.Districts))
		for _, d := range r.Districts {
			key := Normalize(d.Name)
			if seen[key] {
				return nil, fmt.Errorf("duplicate district %q in region %q", d.Name, r.Code)
			}
			seen[key] = true
		}
		c.districts[r.Code] = r.Districts
		c.regions = append(c.regions, model.Region{
			Code:             r.Code,
			NameUz:           r.NameUz,
			NameRu:           r.NameRu,
			NameEn:           r.NameEn,
			DeliveryETAHours: r.ETAHours,
			UseBTSTariff:     true,
			SortOrder:        r.Sort,
			IsActive:         true,
		})
	}
	slices.SortStableFunc(c.regions, func(a, b model.Region) int { return a.SortOrder - b.SortOrder })
	return c, nil
}

// StaticRegions returns the regions of the embedded catalog in sort order.
func (c *Catalog) StaticRegions() []model.Region {
	return slices.Clone(c.regions)
}

// ListRegions returns operator-active regions ordered by sort position. The
// result is reused for the catalog TTL. When the source fails or has no rows
// the static catalog is served instead; errors never reach the caller. The
// source is queried without holding the catalog lock.
func (c *Catalog) ListRegions(ctx context.Context) []model.Region {
	now := c.now()
	c.mu.Lock()
	if c.cached != nil && now.Sub(c.fetchedAt) < c.ttl {
		out := slices.Clone(c.cached)
		c.mu.Unlock()
		return out
	}
	c.mu.Unlock()

	regions := c.regions
	outcome := "static"
	if c.source != nil {
		fetched, err := c.source.ActiveRegions(ctx)
		switch {
		case err != nil:
			c.log.Warn("regions_fetch_error", "err", err)
		case len(fetched) == 0:
			c.log.Info("regions_fetch_empty")
		default:
			regions = fetched
			outcome = "store"
		}
	}
	metrics.RegionListRefreshTotal.WithLabelValues(outcome).Inc()

	c.mu.Lock()
	if !now.Before(c.fetchedAt) {
		c.cached = slices.Clone(regions)
		c.fetchedAt = now
	}
	c.mu.Unlock()
	return slices.Clone(regions)
}

// ListDistricts returns the districts of a region. Unknown codes yield an
// empty slice and a warning.
func (c *Catalog) ListDistricts(regionCode string) []model.District {
	ds, ok := c.districts[regionCode]
	if !ok {
		c.log.Warn("districts_unknown_region", "region", regionCode)
		return []model.District{}
	}
	return slices.Clone(ds)
}

// IsHomeCity reports whether cityName in regionCode is the seller's home city.
// It must be consulted before any paid tariff logic.
func (c *Catalog) IsHomeCity(regionCode, cityName string) bool {
	if c.homeRegion == "" || regionCode != c.homeRegion {
		return false
	}
	city := Normalize(cityName)
	if city == "" {
		return false
	}
	for _, s := range c.homeSpellings {
		if strings.Contains(city, s) {
			return true
		}
	}
	return false
}

var apostrophes = strings.NewReplacer("ʻ", "'", "ʼ", "'", "‘", "'", "’", "'", "`", "'")

// Normalize folds case, unifies apostrophe variants and collapses whitespace
// so free-text city entries compare equal to catalog and override names.
func Normalize(s string) string {
	s = apostrophes.Replace(s)
	s = cases.Fold().String(s)
	return strings.Join(strings.Fields(s), " ")
}

// Matches reports whether two city names refer to the same place: either
// normalized name contains the other.
func Matches(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return false
	}
	return strings.Contains(na, nb) || strings.Contains(nb, na)
}
