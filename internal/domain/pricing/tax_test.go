package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTaxInclusive(t *testing.T) {
	t.Parallel()

	vat := TaxSetting{Code: "VAT", Rate: dec("10")}
	city := TaxSetting{Code: "CITY", Rate: dec("5")}

	t.Run("no taxes", func(t *testing.T) {
		t.Parallel()
		got := TaxInclusive("2025-01-01", Breakdown{BasePrice: dec("100")}, nil, RoundingNone)
		requireDecimal(t, "100", got.GrossPrice)
		requireDecimal(t, "100", got.NetPrice)
		requireDecimal(t, "0", got.TotalTaxAmount)
		require.Empty(t, got.Taxes)
	})

	t.Run("single tax", func(t *testing.T) {
		t.Parallel()
		got := TaxInclusive("2025-01-01", Breakdown{BasePrice: dec("100")}, []TaxSetting{vat}, RoundingNone)
		requireDecimal(t, "110", got.GrossPrice)
		requireDecimal(t, "100", got.NetPrice)
		requireDecimal(t, "10", got.TotalTaxAmount)
		require.Len(t, got.Taxes, 1)
		require.Equal(t, "VAT", got.Taxes[0].Code)
	})

	t.Run("stacked taxes", func(t *testing.T) {
		t.Parallel()
		got := TaxInclusive("2025-01-01", Breakdown{BasePrice: dec("100")}, []TaxSetting{vat, city}, RoundingNone)
		requireDecimal(t, "115", got.GrossPrice)
		requireDecimal(t, "15", got.TotalTaxAmount)
		requireDecimal(t, "100", got.NetPrice)
		requireDecimal(t, "10", got.Taxes[0].Amount)
		requireDecimal(t, "5", got.Taxes[1].Amount)
	})

	t.Run("expired tax is skipped", func(t *testing.T) {
		t.Parallel()
		to := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
		expired := TaxSetting{Code: "OLD", Rate: dec("20"), ValidTo: &to}
		got := TaxInclusive("2025-01-01", Breakdown{BasePrice: dec("100")}, []TaxSetting{expired}, RoundingNone)
		requireDecimal(t, "100", got.GrossPrice)
	})
}

func TestTaxInclusiveNetPlusTaxEqualsGross(t *testing.T) {
	t.Parallel()

	taxes := []TaxSetting{{Code: "A", Rate: dec("7")}, {Code: "B", Rate: dec("3.5")}}
	for _, base := range []string{"99.99", "123.456", "1", "0.01", "1000"} {
		got := TaxInclusive("2025-06-01", Breakdown{BasePrice: dec(base)}, taxes, RoundingNone)
		require.True(t, got.NetPrice.Add(got.TotalTaxAmount).Equal(got.GrossPrice), base)
		require.LessOrEqual(t, got.GrossPrice.Exponent(), int32(0))
		require.GreaterOrEqual(t, got.GrossPrice.Exponent(), int32(-TaxPrecision))
	}
}

func TestRoundingMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mode RoundingMode
		in   string
		want string
	}{
		{RoundingNone, "100.4", "100.4"},
		{RoundingHalfUp, "100.5", "101"},
		{RoundingHalfUp, "100.4", "100"},
		{RoundingUp, "100.1", "101"},
		{RoundingDown, "100.9", "100"},
		{ParseRoundingMode("bogus"), "100.9", "100.9"},
	}
	for _, tc := range tests {
		requireDecimal(t, tc.want, tc.mode.Apply(dec(tc.in)))
	}
}
