package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/mkravets/transitpass/config"
	"github.com/mkravets/transitpass/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, now *time.Time, ttl time.Duration) (*Cache, *storage.Store) {
	t.Helper()
	store := storage.NewStore(storage.NewMemoryKV(), config.StorageConfig{
		TicketsKey:     "transport_tickets",
		StatisticsKey:  "transport_statistics",
		CacheKey:       "transport_cache",
		EnabledFlagKey: "storage_enabled",
	})
	c := New(store, ttl, WithClock(func() time.Time { return *now }))
	return c, store
}

func TestCache_GeneratorCalledOnceWithinTTL(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c, _ := newTestCache(t, &now, 24*time.Hour)
	ctx := context.Background()

	calls := 0
	gen := func() (json.RawMessage, error) {
		calls++
		return json.RawMessage(`"value"`), nil
	}

	first, err := c.GetOrGenerate(ctx, "card", gen)
	require.NoError(t, err)

	now = now.Add(23 * time.Hour)
	second, err := c.GetOrGenerate(ctx, "card", gen)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
}

func TestCache_RegeneratesAfterTTL(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c, _ := newTestCache(t, &now, 24*time.Hour)
	ctx := context.Background()

	calls := 0
	gen := func() (json.RawMessage, error) {
		calls++
		return json.RawMessage(`"value"`), nil
	}

	_, err := c.GetOrGenerate(ctx, "card", gen)
	require.NoError(t, err)

	// An age of exactly the TTL is already stale.
	now = now.Add(24 * time.Hour)
	_, err = c.GetOrGenerate(ctx, "card", gen)
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
}

func TestCache_GeneratorFailureLeavesCacheUnchanged(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c, store := newTestCache(t, &now, 24*time.Hour)
	ctx := context.Background()

	_, err := c.GetOrGenerate(ctx, "card", func() (json.RawMessage, error) {
		return nil, errors.New("generator exploded")
	})
	assert.Error(t, err)
	assert.Empty(t, store.LoadCache(ctx))
}

func TestCache_SweepExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c, store := newTestCache(t, &now, 24*time.Hour)
	ctx := context.Background()

	_, err := c.GetOrGenerate(ctx, "old", func() (json.RawMessage, error) {
		return json.RawMessage(`1`), nil
	})
	require.NoError(t, err)

	now = now.Add(12 * time.Hour)
	_, err = c.GetOrGenerate(ctx, "fresh", func() (json.RawMessage, error) {
		return json.RawMessage(`2`), nil
	})
	require.NoError(t, err)

	now = now.Add(12 * time.Hour) // "old" is 24h, "fresh" is 12h
	removed := c.SweepExpired(ctx)

	assert.Equal(t, 1, removed)
	entries := store.LoadCache(ctx)
	assert.NotContains(t, entries, "old")
	assert.Contains(t, entries, "fresh")
}

func TestCache_SweepNothingToRemove(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c, _ := newTestCache(t, &now, 24*time.Hour)

	assert.Zero(t, c.SweepExpired(context.Background()))
}

func TestCache_TypedRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c, _ := newTestCache(t, &now, 24*time.Hour)
	ctx := context.Background()

	type payload struct {
		Balance string `json:"balance"`
	}

	calls := 0
	value, err := GetOrGenerate(ctx, c, "card", func() (payload, error) {
		calls++
		return payload{Balance: "123.45"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "123.45", value.Balance)

	again, err := GetOrGenerate(ctx, c, "card", func() (payload, error) {
		calls++
		return payload{Balance: "999.99"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "123.45", again.Balance)
	assert.Equal(t, 1, calls)
}
