// Package quotes provides cached access to the external quote provider.
package quotes

import (
	"sync"
	"time"
)

// entry pairs a payload with the instant it was stored.
type entry[V any] struct {
	value    V
	storedAt time.Time
}

// CacheStats describes the cache contents at a point in time. Expired
// entries are masked on read but linger until overwritten or cleared, so
// total = valid + expired.
type CacheStats struct {
	Total   int `json:"total"`
	Valid   int `json:"valid"`
	Expired int `json:"expired"`
}

// Cache is a time-windowed cache with lazy expiry: entries past the
// window are treated as absent on read, never proactively evicted.
// The clock is injected so expiry is testable without sleeping.
type Cache[V any] struct {
	mu      sync.Mutex
	entries map[string]entry[V]
	window  time.Duration
	now     func() time.Time
}

// NewCache creates a cache whose entries stay fresh for window.
// now may be nil, in which case the wall clock is used.
func NewCache[V any](window time.Duration, now func() time.Time) *Cache[V] {
	if now == nil {
		now = time.Now
	}
	return &Cache[V]{
		entries: make(map[string]entry[V]),
		window:  window,
		now:     now,
	}
}

// Get returns the cached payload for key if it is still inside the
// window. An expired or missing entry is a miss, not an error.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || c.now().Sub(e.storedAt) >= c.window {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores the payload with the current timestamp, unconditionally
// overwriting any prior entry.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[V]{value: value, storedAt: c.now()}
}

// Fetch returns the cached payload for key, invoking fetcher on a miss.
// A successful fetch is stored before returning. A fetcher failure leaves
// the cache untouched and propagates unchanged: no stale-on-error
// fallback, no retries. Concurrent misses for the same key each invoke
// the fetcher independently.
func (c *Cache[V]) Fetch(key string, fetcher func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	v, err := fetcher()
	if err != nil {
		var zero V
		return zero, err
	}

	c.Set(key, v)
	return v, nil
}

// Clear removes all entries unconditionally.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]entry[V])
}

// Stats counts stored entries, splitting them into still-valid and
// expired-but-present.
func (c *Cache[V]) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	stats := CacheStats{Total: len(c.entries)}
	for _, e := range c.entries {
		if now.Sub(e.storedAt) < c.window {
			stats.Valid++
		} else {
			stats.Expired++
		}
	}
	return stats
}
