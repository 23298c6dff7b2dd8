package storage

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/mkravets/transitpass/config"
	"github.com/mkravets/transitpass/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKeys() config.StorageConfig {
	return config.StorageConfig{
		TicketsKey:     "transport_tickets",
		StatisticsKey:  "transport_statistics",
		CacheKey:       "transport_cache",
		EnabledFlagKey: "storage_enabled",
	}
}

// failingKV simulates an unavailable backend.
type failingKV struct{}

func (failingKV) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, errors.New("backend unavailable")
}

func (failingKV) Set(ctx context.Context, key string, value []byte) error {
	return errors.New("backend unavailable")
}

func (failingKV) Delete(ctx context.Context, key string) error {
	return errors.New("backend unavailable")
}

func TestStore_LoadTickets_Empty(t *testing.T) {
	store := NewStore(NewMemoryKV(), testKeys())

	tickets := store.LoadTickets(context.Background())

	assert.NotNil(t, tickets)
	assert.Empty(t, tickets)
}

func TestStore_SaveAndLoadTickets(t *testing.T) {
	store := NewStore(NewMemoryKV(), testKeys())
	ctx := context.Background()

	ticket := domain.Ticket{
		ID:              "t1",
		SerialNumbers:   []string{"123456789", "987654321"},
		TransportNumber: "042",
		Passengers:      2,
		PurchaseTime:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		DurationSeconds: 3600,
	}
	require.NoError(t, store.SaveTickets(ctx, []domain.Ticket{ticket}))

	loaded := store.LoadTickets(ctx)
	require.Len(t, loaded, 1)
	assert.Equal(t, ticket, loaded[0])
}

func TestStore_LoadTickets_MigratesLegacyRecords(t *testing.T) {
	kv := NewMemoryKV()
	store := NewStore(kv, testKeys())
	ctx := context.Background()

	legacy := `[{"id":"old1","serialNumber":"111222333","transportNumber":"7",
		"purchaseTime":"2026-01-10T08:00:00Z","duration":3600,"isExpired":true}]`
	require.NoError(t, kv.Set(ctx, testKeys().TicketsKey, []byte(legacy)))

	loaded := store.LoadTickets(ctx)
	require.Len(t, loaded, 1)
	assert.Equal(t, []string{"111222333"}, loaded[0].SerialNumbers)
	assert.Equal(t, 1, loaded[0].Passengers)
	assert.True(t, loaded[0].IsExpired)

	// The normalized set was written back: the stored payload no longer
	// carries the legacy scalar field.
	raw, err := kv.Get(ctx, testKeys().TicketsKey)
	require.NoError(t, err)
	var records []map[string]any
	require.NoError(t, json.Unmarshal(raw, &records))
	assert.NotContains(t, records[0], "serialNumber")
	assert.Contains(t, records[0], "serialNumbers")
}

func TestStore_Migration_Idempotent(t *testing.T) {
	kv := NewMemoryKV()
	store := NewStore(kv, testKeys())
	ctx := context.Background()

	legacy := `[{"id":"old1","serialNumber":"111222333","transportNumber":"7",
		"purchaseTime":"2026-01-10T08:00:00Z","duration":3600,"isExpired":false}]`
	require.NoError(t, kv.Set(ctx, testKeys().TicketsKey, []byte(legacy)))

	first := store.LoadTickets(ctx)
	second := store.LoadTickets(ctx)

	assert.Equal(t, first, second)
}

func TestStore_LoadTickets_CorruptPayload(t *testing.T) {
	kv := NewMemoryKV()
	store := NewStore(kv, testKeys())
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, testKeys().TicketsKey, []byte("{not json")))

	tickets := store.LoadTickets(ctx)
	assert.Empty(t, tickets)
}

func TestStore_LoadTickets_BackendFailure(t *testing.T) {
	store := NewStore(failingKV{}, testKeys())

	assert.Empty(t, store.LoadTickets(context.Background()))
	assert.Empty(t, store.LoadStatistics(context.Background()).Tickets)
	assert.Empty(t, store.LoadCache(context.Background()))
	assert.True(t, store.Enabled(context.Background()))
}

func TestStore_SaveTickets_GatedByFlag(t *testing.T) {
	kv := NewMemoryKV()
	store := NewStore(kv, testKeys())
	ctx := context.Background()

	require.NoError(t, store.SetEnabled(ctx, false))

	err := store.SaveTickets(ctx, []domain.Ticket{{ID: "t1"}})
	assert.ErrorIs(t, err, ErrPersistenceDisabled)

	_, getErr := kv.Get(ctx, testKeys().TicketsKey)
	assert.ErrorIs(t, getErr, ErrNotFound)
}

func TestStore_EnabledFlag_DefaultsTrue(t *testing.T) {
	store := NewStore(NewMemoryKV(), testKeys())
	ctx := context.Background()

	assert.True(t, store.Enabled(ctx))

	require.NoError(t, store.SetEnabled(ctx, false))
	assert.False(t, store.Enabled(ctx))

	require.NoError(t, store.SetEnabled(ctx, true))
	assert.True(t, store.Enabled(ctx))
}

func TestStore_StatisticsSaves_NotGated(t *testing.T) {
	store := NewStore(NewMemoryKV(), testKeys())
	ctx := context.Background()

	require.NoError(t, store.SetEnabled(ctx, false))
	require.NoError(t, store.AppendStatistics(ctx, domain.StatsEntry{
		PurchaseTime: time.Now(),
		Passengers:   2,
	}))

	feed := store.LoadStatistics(ctx)
	require.Len(t, feed.Tickets, 1)
	assert.Equal(t, 2, feed.Tickets[0].Passengers)
}

func TestStore_ClearTickets_LeavesStatisticsAndCache(t *testing.T) {
	store := NewStore(NewMemoryKV(), testKeys())
	ctx := context.Background()

	require.NoError(t, store.SaveTickets(ctx, []domain.Ticket{{ID: "t1"}}))
	require.NoError(t, store.AppendStatistics(ctx, domain.StatsEntry{Passengers: 1}))
	require.NoError(t, store.SaveCache(ctx, map[string]domain.CacheEntry{
		"k": {Data: json.RawMessage(`"v"`), Timestamp: time.Now()},
	}))

	require.NoError(t, store.ClearTickets(ctx))

	assert.Empty(t, store.LoadTickets(ctx))
	assert.Len(t, store.LoadStatistics(ctx).Tickets, 1)
	assert.Len(t, store.LoadCache(ctx), 1)
}

func TestStore_CacheSizeBytes(t *testing.T) {
	store := NewStore(NewMemoryKV(), testKeys())
	ctx := context.Background()

	assert.Zero(t, store.CacheSizeBytes(ctx))

	require.NoError(t, store.SaveCache(ctx, map[string]domain.CacheEntry{
		"k": {Data: json.RawMessage(`"v"`), Timestamp: time.Now()},
	}))
	assert.Greater(t, store.CacheSizeBytes(ctx), 0)
}
