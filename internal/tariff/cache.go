package tariff

import (
	"context"
	"sync"
	"time"
)

const DefaultTTL = 24 * time.Hour

// Key identifies a cached tariff. City is normalized.
type Key struct {
	Region string
	City   string
}

func (k Key) String() string { return k.Region + ":" + k.City }

// Entry is a cached resolution and the time it was produced.
type Entry struct {
	Tariff    Tariff    `json:"tariff"`
	Basis     Basis     `json:"basis"`
	CreatedAt time.Time `json:"created_at"`
}

// Fresh reports whether the entry is younger than ttl at now.
func (e Entry) Fresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.CreatedAt) < ttl
}

// hit turns a cached entry into a response for weightKg. Only the
// weight-dependent part of the price is recomputed.
func (e Entry) hit(weightKg float64) Tariff {
	t := e.Tariff
	if e.Basis.WeightRated {
		t.Price = e.Basis.Schedule.PriceFor(weightKg)
	}
	t.WeightKg = weightKg
	t.Provenance = t.Provenance.Origin() | FromCache
	return t
}

// Cache stores resolved tariffs. Implementations never evict on their own
// schedule; expiry is decided by the engine at read time. Set replaces any
// previous entry for the key.
type Cache interface {
	Get(ctx context.Context, k Key) (Entry, bool)
	Set(ctx context.Context, k Key, e Entry)
}

// MemoryCache is a process-local Cache with no capacity bound; the key space
// is limited to regions × known cities.
type MemoryCache struct {
	mu sync.RWMutex
	m  map[Key]Entry
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{m: make(map[Key]Entry)}
}

func (c *MemoryCache) Get(_ context.Context, k Key) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.m[k]
	return e, ok
}

func (c *MemoryCache) Set(_ context.Context, k Key, e Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[k] = e
}

func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}
