package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"roomrates/internal/domain/syncstate"
)

func TestHashMatchesCacheEntry(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	err := newApp(&out).Run([]string{"ratectl", "hash",
		"--hotel", "h1", "--product", "std", "--rate-plan", "bar", "--date", "2025-09-01",
		"--rate", "110.50", "--tax", "10",
	})
	require.NoError(t, err)

	want, err := syncstate.NewItem(syncstate.Rate{
		HotelID:           "h1",
		RoomProductID:     "std",
		RatePlanID:        "bar",
		Date:              "2025-09-01",
		AccommodationRate: decimal.RequireFromString("110.5"),
		NetPrice:          decimal.RequireFromString("110.5"),
		GrossPrice:        decimal.RequireFromString("110.5"),
		TotalTaxAmount:    decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	fields := strings.Fields(out.String())
	require.Equal(t, []string{want.Key, want.Digest}, fields)
}

func TestHashRejectsBadAmount(t *testing.T) {
	t.Parallel()

	err := newApp(&bytes.Buffer{}).Run([]string{"ratectl", "hash",
		"--hotel", "h1", "--product", "std", "--rate-plan", "bar", "--date", "2025-09-01",
		"--rate", "lots",
	})
	require.Error(t, err)
}
