package strategy

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"roomrates/internal/domain/inventory"
	"roomrates/internal/domain/pricing"
	"roomrates/internal/domain/rateplan"
)

const day = "2025-07-01"

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

func baseInput(plans ...rateplan.RatePlan) Input {
	return Input{
		Dates:          []string{day},
		Products:       inventory.Lookup{},
		Related:        map[inventory.ProductID][]inventory.ProductID{},
		Features:       pricing.FeaturePrices{},
		Selling:        pricing.SellingIndex{},
		Adjustments:    rateplan.Resolve(plans, nil, []string{day}),
		RatePlans:      rateplan.NewIndex(plans),
		ExternalPrices: pricing.ProductPrices{},
		FixedPrices:    pricing.ProductPrices{},
		Settings:       pricing.DefaultSettings(),
	}
}

func plan(id string, adj pricing.Adjustment) rateplan.RatePlan {
	return rateplan.RatePlan{ID: id, Status: rateplan.StatusActive, DefaultAdjustment: adj}
}

func TestFeatureBasedWithPlanAndTax(t *testing.T) {
	t.Parallel()

	in := baseInput(plan("bar", pricing.Percentage(dec("10"))))
	in.Features = pricing.SumFeatureRates([]pricing.FeatureRate{
		{RoomProductID: "rfc", FeatureID: "bed", Date: day, Rate: dec("60"), Quantity: 1},
		{RoomProductID: "rfc", FeatureID: "view", Date: day, Rate: dec("20"), Quantity: 2},
	})
	in.Taxes = []pricing.TaxSetting{{Code: "VAT", Rate: dec("10")}}
	in.Details = []pricing.MethodDetail{{RoomProductID: "rfc", RatePlanID: "bar", Method: pricing.MethodProductBased}}

	rows := FeatureBased(in)
	require.Len(t, rows, 1)
	row := rows[0]
	require.Equal(t, pricing.BucketFeatureBased, row.Strategy)
	requireDecimal(t, "100", row.FeatureBasedRate)
	requireDecimal(t, "10", row.AdjustmentRate)
	requireDecimal(t, "110", row.AccommodationRate)
	requireDecimal(t, "121", row.GrossPrice)
	requireDecimal(t, "110", row.NetPrice)
	requireDecimal(t, "11", row.TotalTaxAmount)
}

func TestFeatureBasedDropsUnsellable(t *testing.T) {
	t.Parallel()

	in := baseInput(plan("bar", pricing.Fixed(dec("-20"))))
	in.Features.Set("rfc", day, dec("10"))
	in.Details = []pricing.MethodDetail{{RoomProductID: "rfc", RatePlanID: "bar", Method: pricing.MethodProductBased}}

	require.Empty(t, FeatureBased(in))
	require.Empty(t, EvaluateExcludingTax(in))
}

func TestFeatureBasedDerivedUsesParentSellingPrice(t *testing.T) {
	t.Parallel()

	in := baseInput(plan("child", pricing.Fixed(dec("5"))), plan("parent", pricing.Adjustment{}))
	in.Features.Set("rfc", day, dec("999"))
	in.Selling = pricing.NewSellingIndex([]pricing.SellingPrice{
		{RoomProductID: "rfc", RatePlanID: "parent", Date: day, BasePrice: dec("200"), AccommodationRate: dec("220")},
	})
	in.Details = []pricing.MethodDetail{{
		RoomProductID:    "rfc",
		RatePlanID:       "child",
		Method:           pricing.MethodDerived,
		Adjustment:       pricing.Percentage(dec("-10")),
		TargetRatePlanID: "parent",
	}}

	rows := FeatureBased(in)
	require.Len(t, rows, 1)
	requireDecimal(t, "200", rows[0].FeatureBasedRate)
	requireDecimal(t, "-20", rows[0].PricingMethodAdjustmentRate)
	requireDecimal(t, "185", rows[0].AccommodationRate)
}

func TestFeatureBasedTakesLinkedSellingPriceWithoutMethodLayer(t *testing.T) {
	t.Parallel()

	in := baseInput(plan("bar", pricing.Fixed(dec("5"))))
	in.Features.Set("rfc", day, dec("999"))
	in.Selling = pricing.NewSellingIndex([]pricing.SellingPrice{
		{RoomProductID: "parent", RatePlanID: "bar", Date: day, BasePrice: dec("140"), AccommodationRate: dec("150")},
	})
	in.Details = []pricing.MethodDetail{
		{RoomProductID: "rfc", RatePlanID: "bar", Method: pricing.MethodLink, Adjustment: pricing.Fixed(dec("30")), TargetRoomProductID: "parent"},
		{RoomProductID: "rfc", RatePlanID: "bar", Method: pricing.MethodReversed, Adjustment: pricing.Fixed(dec("30")), TargetRoomProductID: "missing"},
	}

	rows := FeatureBased(in)
	require.Len(t, rows, 2)
	requireDecimal(t, "150", rows[0].FeatureBasedRate)
	require.True(t, rows[0].PricingMethodAdjustmentRate.IsZero())
	requireDecimal(t, "155", rows[0].AccommodationRate)
	// nothing published for the target: falls back to the feature sum
	requireDecimal(t, "999", rows[1].FeatureBasedRate)
	requireDecimal(t, "1034", rows[1].AccommodationRate)
}

func TestMidpointAverage(t *testing.T) {
	t.Parallel()

	prices := func(units ...int) []ComponentPrice {
		out := make([]ComponentPrice, len(units))
		for i, u := range units {
			out[i] = ComponentPrice{Price: decimal.NewFromInt(int64((i + 1) * 10)), AvailableUnits: u, TotalUnits: 3}
		}
		return out
	}

	tests := []struct {
		name   string
		parent inventory.ProductType
		comps  []ComponentPrice
		want   string
	}{
		{name: "equal weights", parent: inventory.TypeMRFC, comps: prices(1, 1, 1), want: "20"},
		{name: "weighted above midpoint", parent: inventory.TypeMRFC, comps: prices(0, 0, 3), want: "30"},
		{name: "weighted below midpoint", parent: inventory.TypeMRFC, comps: prices(3, 0, 0), want: "20"},
		{name: "nothing available falls back to midpoint", parent: inventory.TypeERFC, comps: prices(0, 0, 0), want: "20"},
		{name: "erfc counts presence not units", parent: inventory.TypeERFC, comps: prices(0, 1, 3), want: "25"},
		{name: "empty", parent: inventory.TypeMRFC, want: "0"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			requireDecimal(t, tc.want, MidpointAverage(tc.parent, tc.comps))
		})
	}
}

func TestDefaultMidpointPriceIgnoresAvailability(t *testing.T) {
	t.Parallel()

	comps := []ComponentPrice{
		{Price: dec("10"), AvailableUnits: 0, TotalUnits: 1},
		{Price: dec("40"), AvailableUnits: 0, TotalUnits: 3},
	}
	requireDecimal(t, "32.5", DefaultMidpointPrice(inventory.TypeMRFC, comps))
}

func TestOccupancyCurve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		occupancy float64
		want      string
	}{
		{0, "10"},
		{0.25, "12.5"},
		{0.5, "15"},
		{1, "20"},
	}
	for _, tc := range tests {
		requireDecimal(t, tc.want, OccupancyCurve(dec("10"), dec("20"), tc.occupancy))
	}

	upper := OccupancyCurve(dec("10"), dec("20"), 0.75)
	require.True(t, upper.GreaterThan(dec("17.5")), "fifth root steepens above half: %s", upper)
	require.True(t, upper.LessThan(dec("20")))
}

func TestOccupancy(t *testing.T) {
	t.Parallel()

	require.Equal(t, 0.0, Occupancy(0, 0))
	require.Equal(t, 0.75, Occupancy(1, 4))
	require.Equal(t, 0.0, Occupancy(4, 4))
}

func TestOccupancyAverageSkipsUnavailable(t *testing.T) {
	t.Parallel()

	comps := []ComponentPrice{
		{Price: dec("5"), AvailableUnits: 0},
		{Price: dec("10"), AvailableUnits: 1},
		{Price: dec("20"), AvailableUnits: 2},
	}
	requireDecimal(t, "10", OccupancyAverage(comps, 0))
	require.True(t, OccupancyAverage(nil, 1).IsZero())
}

func compositeInput(mode inventory.BasePriceMode) Input {
	in := baseInput(plan("bar", pricing.Adjustment{}))
	in.Products = inventory.NewLookup([]inventory.RoomProduct{
		{ID: "single", Type: inventory.TypeRFC},
		{ID: "double", Type: inventory.TypeRFC},
		{ID: "family", Type: inventory.TypeMRFC, BasePriceMode: mode},
	})
	in.Related["family"] = []inventory.ProductID{"single", "double"}
	in.Features.Set("single", day, dec("50"))
	in.Features.Set("double", day, dec("70"))
	in.Availability = inventory.NewSnapshot(inventory.AssignedUnits{
		"single": {"1"},
		"double": {"2", "3"},
		"family": {"1", "2", "3"},
	}, []inventory.UnitAvailability{{UnitID: "3", Date: day, Available: false}}, nil)
	in.Details = []pricing.MethodDetail{{
		RoomProductID: "family",
		RatePlanID:    "bar",
		Method:        pricing.MethodProductBased,
		Adjustment:    pricing.Fixed(dec("10")),
	}}
	return in
}

func TestCombined(t *testing.T) {
	t.Parallel()

	rows := Combined(compositeInput(inventory.BasePriceCombined))
	require.Len(t, rows, 1)
	require.Equal(t, inventory.ProductID("family"), rows[0].RoomProductID)
	requireDecimal(t, "120", rows[0].FeatureBasedRate)
	requireDecimal(t, "130", rows[0].AccommodationRate)
}

func TestAverageMidpoint(t *testing.T) {
	t.Parallel()

	rows := Average(compositeInput(inventory.BasePriceAverage))
	require.Len(t, rows, 1)
	// one free unit each: weighted 60, midpoint 60
	requireDecimal(t, "60", rows[0].FeatureBasedRate)
	requireDecimal(t, "70", rows[0].AccommodationRate)
}

func TestAverageOccupancy(t *testing.T) {
	t.Parallel()

	in := compositeInput(inventory.BasePriceAverage)
	in.Settings.AverageMode = pricing.AverageOccupancy
	rows := Average(in)
	require.Len(t, rows, 1)
	// 2 of 3 pooled units free: occupancy 1/3, linear half
	expected := OccupancyCurve(dec("50"), dec("70"), Occupancy(2, 3))
	require.True(t, expected.Equal(rows[0].FeatureBasedRate))
}

func TestAverageOccupancyIgnoresBookedComponents(t *testing.T) {
	t.Parallel()

	in := baseInput(plan("bar", pricing.Adjustment{}))
	in.Settings.AverageMode = pricing.AverageOccupancy
	in.Products = inventory.NewLookup([]inventory.RoomProduct{
		{ID: "a", Type: inventory.TypeRFC},
		{ID: "b", Type: inventory.TypeRFC},
		{ID: "c", Type: inventory.TypeRFC},
		{ID: "pack", Type: inventory.TypeMRFC, BasePriceMode: inventory.BasePriceAverage},
	})
	in.Related["pack"] = []inventory.ProductID{"a", "b", "c"}
	in.Features.Set("a", day, dec("100"))
	in.Features.Set("b", day, dec("200"))
	in.Features.Set("c", day, dec("300"))
	in.Availability = inventory.NewSnapshot(inventory.AssignedUnits{
		"a":    {"1"},
		"b":    {"2"},
		"c":    {"3", "4"},
		"pack": {"1", "2", "3", "4"},
	}, []inventory.UnitAvailability{
		{UnitID: "3", Date: day, Available: false},
		{UnitID: "4", Date: day, Available: false},
	}, nil)
	in.Details = []pricing.MethodDetail{{RoomProductID: "pack", RatePlanID: "bar", Method: pricing.MethodProductBased}}

	rows := Average(in)
	require.Len(t, rows, 1)
	// c is sold out, so the pool is a and b with every unit free
	requireDecimal(t, "100", rows[0].FeatureBasedRate)
}

func TestPoolOccupancy(t *testing.T) {
	t.Parallel()

	comps := []ComponentPrice{
		{Price: dec("100"), AvailableUnits: 1, TotalUnits: 2},
		{Price: dec("200"), AvailableUnits: 2, TotalUnits: 2},
		{Price: dec("300"), AvailableUnits: 0, TotalUnits: 4},
	}
	require.Equal(t, 0.25, PoolOccupancy(comps))
	require.Equal(t, 0.0, PoolOccupancy(nil))
}

func TestFixed(t *testing.T) {
	t.Parallel()

	in := baseInput(plan("bar", pricing.Fixed(dec("20"))))
	in.FixedPrices.Set("rfc", day, dec("80"))
	in.Details = []pricing.MethodDetail{{RoomProductID: "rfc", RatePlanID: "bar"}}

	rows := Fixed(in)
	require.Len(t, rows, 1)
	require.Equal(t, pricing.BucketFixed, rows[0].Strategy)
	requireDecimal(t, "100", rows[0].AccommodationRate)
}

func TestLinked(t *testing.T) {
	t.Parallel()

	in := baseInput(plan("bar", pricing.Adjustment{}))
	in.Selling = pricing.NewSellingIndex([]pricing.SellingPrice{
		{RoomProductID: "source", RatePlanID: "bar", Date: day, AccommodationRate: dec("150")},
	})
	in.Details = []pricing.MethodDetail{{
		RoomProductID:       "copy",
		RatePlanID:          "bar",
		Method:              pricing.MethodLink,
		Adjustment:          pricing.Fixed(dec("10")),
		TargetRoomProductID: "source",
	}}

	rows := Linked(in)
	require.Len(t, rows, 1)
	require.Equal(t, inventory.ProductID("copy"), rows[0].RoomProductID)
	requireDecimal(t, "160", rows[0].AccommodationRate)
}

func TestPMSAnchored(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		method   pricing.Adjustment
		wantBase string
		wantAcc  string
	}{
		{name: "plan layer only reproduces target", wantBase: "110", wantAcc: "121"},
		// method layer is computed forward from the recovered base
		{name: "fixed method on top of recovered base", method: pricing.Fixed(dec("10")), wantBase: "110", wantAcc: "131"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			in := baseInput(plan("bar", pricing.Percentage(dec("10"))))
			in.ExternalPrices.Set("rfc", day, dec("121"))
			in.Details = []pricing.MethodDetail{{RoomProductID: "rfc", RatePlanID: "bar", Method: pricing.MethodPMS, Adjustment: tc.method}}

			rows := PMSAnchored(in)
			require.Len(t, rows, 1)
			requireDecimal(t, tc.wantBase, rows[0].FeatureBasedRate)
			requireDecimal(t, tc.wantAcc, rows[0].AccommodationRate)
		})
	}
}

func TestProportionalReversed(t *testing.T) {
	t.Parallel()

	build := func(attributePricing bool) Input {
		p := plan("bar", pricing.Adjustment{})
		p.AttributePricing = attributePricing
		in := baseInput(p)
		in.Products = inventory.NewLookup([]inventory.RoomProduct{
			{ID: "a", Type: inventory.TypeRFC},
			{ID: "b", Type: inventory.TypeRFC},
			{ID: "pack", Type: inventory.TypeMRFC},
		})
		in.Related["pack"] = []inventory.ProductID{"a", "b"}
		in.Features.Set("a", day, dec("100"))
		in.Features.Set("b", day, dec("200"))
		in.ExternalPrices.Set("pack", day, dec("300"))
		in.Details = []pricing.MethodDetail{{RoomProductID: "pack", RatePlanID: "bar", Method: pricing.MethodReversed}}
		return in
	}

	byProduct := func(rows []pricing.DailyResult) map[inventory.ProductID]pricing.DailyResult {
		out := make(map[inventory.ProductID]pricing.DailyResult)
		for _, r := range rows {
			out[r.RoomProductID] = r
		}
		return out
	}

	rows := byProduct(ProportionalReversed(build(false)))
	require.Len(t, rows, 2)
	requireDecimal(t, "200", rows["a"].AccommodationRate)
	requireDecimal(t, "400", rows["b"].AccommodationRate)

	floored := byProduct(ProportionalReversed(build(true)))
	requireDecimal(t, "300", floored["a"].AccommodationRate)
	requireDecimal(t, "400", floored["b"].AccommodationRate)
}

func TestTableCoversEveryBucket(t *testing.T) {
	t.Parallel()

	table := Table()
	for _, b := range Order {
		require.Contains(t, table, b)
	}
	require.Len(t, table, len(Order))
}
