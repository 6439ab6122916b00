package syncstate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	t.Parallel()

	require.Equal(t, "sm:rate:h1:p1:bar:2025-01-01", Key(KindRate, "h1", "p1", "bar", "2025-01-01"))
	require.Equal(t, "sm:avail:h1:p1:2025-01-01", Availability{HotelID: "h1", RoomProductID: "p1", Date: "2025-01-01"}.CacheKey())
}

func TestDigestIsDeterministic(t *testing.T) {
	t.Parallel()

	base := Rate{
		HotelID:           "h1",
		RoomProductID:     "p1",
		RatePlanID:        "bar",
		Date:              "2025-01-01",
		AccommodationRate: decimal.RequireFromString("110.00"),
		NetPrice:          decimal.RequireFromString("110"),
		GrossPrice:        decimal.RequireFromString("121.0000"),
		TotalTaxAmount:    decimal.RequireFromString("11"),
	}
	same := base
	same.AccommodationRate = decimal.RequireFromString("110")
	same.GrossPrice = decimal.RequireFromString("121")

	a, err := NewItem(base)
	require.NoError(t, err)
	b, err := NewItem(same)
	require.NoError(t, err)
	require.Equal(t, a.Digest, b.Digest)
	require.Len(t, a.Digest, 64)

	changed := base
	changed.NetPrice = decimal.RequireFromString("110.01")
	c, err := NewItem(changed)
	require.NoError(t, err)
	require.NotEqual(t, a.Digest, c.Digest)
}

func TestDigestNormalizesNumbers(t *testing.T) {
	t.Parallel()

	a, err := Digest(map[string]any{"n": 2, "f": 1.5})
	require.NoError(t, err)
	b, err := Digest(map[string]any{"f": decimal.RequireFromString("1.50"), "n": int64(2)})
	require.NoError(t, err)
	require.Equal(t, a, b)

	_, err = Digest(map[string]any{"bad": struct{}{}})
	require.ErrorIs(t, err, ErrUnsupportedValue)
}
