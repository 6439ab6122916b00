package rateplan

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"roomrates/internal/domain/pricing"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	plans := []RatePlan{
		{ID: "bar", Status: StatusActive, DefaultAdjustment: pricing.Percentage(decimal.NewFromInt(10))},
		{ID: "old", Status: StatusInactive, DefaultAdjustment: pricing.Fixed(decimal.NewFromInt(5))},
	}
	overrides := []DailyAdjustment{
		{RatePlanID: "bar", Date: "2025-03-02", Adjustment: pricing.Fixed(decimal.NewFromInt(-15))},
	}
	dates := []string{"2025-03-01", "2025-03-02"}

	got := Resolve(plans, overrides, dates)
	require.Len(t, got, 2)

	first, ok := got.Lookup("bar", "2025-03-01")
	require.True(t, ok)
	require.False(t, first.Override)
	require.Equal(t, pricing.AdjustmentPercentage, first.Adjustment.Unit())

	second, ok := got.Lookup("bar", "2025-03-02")
	require.True(t, ok)
	require.True(t, second.Override)
	require.True(t, second.Adjustment.Value.Equal(decimal.NewFromInt(-15)))

	_, ok = got.Lookup("old", "2025-03-01")
	require.False(t, ok)
	require.True(t, got.For("old", "2025-03-01").IsZero())
}
