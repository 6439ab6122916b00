package changedetect

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"roomrates/internal/domain/syncstate"
	"roomrates/internal/infra/storage/memory"
)

func items(t *testing.T, n int, price string) []syncstate.Item {
	t.Helper()
	out := make([]syncstate.Item, n)
	for i := range out {
		it, err := syncstate.NewItem(syncstate.Rate{
			HotelID:           "h1",
			RoomProductID:     fmt.Sprintf("p%d", i),
			RatePlanID:        "bar",
			Date:              "2025-01-01",
			AccommodationRate: decimal.RequireFromString(price),
		})
		require.NoError(t, err)
		out[i] = it
	}
	return out
}

func TestFilterChanged(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.NewHashStore()
	cache := &Cache{Store: store, ChunkSize: 2}

	batch := items(t, 5, "100")
	require.Len(t, cache.FilterChanged(ctx, batch), 5, "empty store reports everything")

	require.NoError(t, cache.SetHashes(ctx, batch))
	require.Equal(t, 5, store.Len())
	require.Empty(t, cache.FilterChanged(ctx, batch), "matching store reports nothing")

	moved := items(t, 5, "101")
	mixed := append([]syncstate.Item{moved[3]}, batch[:2]...)
	got := cache.FilterChanged(ctx, mixed)
	require.Len(t, got, 1)
	require.Equal(t, moved[3].Key, got[0].Key)
}

func TestFilterChangedFailsOpen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.NewHashStore()
	cache := &Cache{Store: store}
	batch := items(t, 3, "100")
	require.NoError(t, cache.SetHashes(ctx, batch))

	store.Fail = true
	require.Len(t, cache.FilterChanged(ctx, batch), 3)
	require.Error(t, cache.SetHashes(ctx, batch))
}

func TestDisabled(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cache := Disabled()
	batch := items(t, 2, "100")
	require.False(t, cache.Enabled())
	require.NoError(t, cache.SetHashes(ctx, batch))
	require.Len(t, cache.FilterChanged(ctx, batch), 2)
}

func TestSetHashesUsesTTL(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rec := &recordingStore{}
	cache := &Cache{Store: rec, Now: func() time.Time { return now }}
	require.NoError(t, cache.SetHashes(context.Background(), items(t, 1, "100")))
	require.Len(t, rec.entries, 1)
	require.Equal(t, now.Add(400*24*time.Hour), rec.entries[0].ExpiresAt)
}

type recordingStore struct {
	entries []syncstate.Entry
}

func (r *recordingStore) Lookup(context.Context, []string) (map[string]string, error) {
	return map[string]string{}, nil
}

func (r *recordingStore) Store(_ context.Context, entries []syncstate.Entry) error {
	r.entries = append(r.entries, entries...)
	return nil
}
