// Package cache memoizes expensive-to-regenerate payloads under a fixed TTL,
// persisted through the storage layer so a value survives page reloads within
// its window.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mkravets/transitpass/internal/domain"
	"github.com/mkravets/transitpass/internal/storage"
)

type Cache struct {
	store *storage.Store
	ttl   time.Duration
	now   func() time.Time
}

type Option func(*Cache)

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

func New(store *storage.Store, ttl time.Duration, opts ...Option) *Cache {
	c := &Cache{store: store, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetOrGenerate returns the cached raw payload for key if it is younger than
// the TTL; otherwise it invokes gen, stores the result with a fresh timestamp
// and returns it. A failing generator propagates its error and leaves the
// cache unchanged for that key.
func (c *Cache) GetOrGenerate(ctx context.Context, key string, gen func() (json.RawMessage, error)) (json.RawMessage, error) {
	entries := c.store.LoadCache(ctx)
	now := c.now()

	if entry, ok := entries[key]; ok && !entry.Expired(now, c.ttl) {
		return entry.Data, nil
	}

	data, err := gen()
	if err != nil {
		return nil, err
	}

	entries[key] = domain.CacheEntry{Data: data, Timestamp: now}
	if err := c.store.SaveCache(ctx, entries); err != nil {
		// A failed persist only costs a regeneration next time.
		return data, nil
	}
	return data, nil
}

// SweepExpired removes every entry whose age has reached the TTL. The cache
// is persisted only when something was actually removed.
func (c *Cache) SweepExpired(ctx context.Context) int {
	entries := c.store.LoadCache(ctx)
	now := c.now()

	removed := 0
	for key, entry := range entries {
		if entry.Expired(now, c.ttl) {
			delete(entries, key)
			removed++
		}
	}
	if removed > 0 {
		_ = c.store.SaveCache(ctx, entries)
	}
	return removed
}

// GetOrGenerate is the typed form of Cache.GetOrGenerate: values round-trip
// through JSON so any serializable type works.
func GetOrGenerate[T any](ctx context.Context, c *Cache, key string, gen func() (T, error)) (T, error) {
	var zero T
	raw, err := c.GetOrGenerate(ctx, key, func() (json.RawMessage, error) {
		value, err := gen()
		if err != nil {
			return nil, err
		}
		return json.Marshal(value)
	})
	if err != nil {
		return zero, err
	}
	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		return zero, err
	}
	return value, nil
}
