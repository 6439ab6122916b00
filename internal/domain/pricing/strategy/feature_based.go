package strategy

import (
	"github.com/shopspring/decimal"

	"roomrates/internal/domain/pricing"
)

// FeatureBased prices each pairing from the sum of its feature rates, or from a
// published selling price for DERIVED, LINK and REVERSED_PRICING pairings.
// The orchestrator only routes DERIVED pairings here; LINK goes to Linked and
// REVERSED_PRICING to ProportionalReversed. The other two branches serve callers
// that price a mixed batch with this engine alone.
func FeatureBased(in Input) []pricing.DailyResult {
	return featureBased(in, false)
}

// EvaluateExcludingTax is the intermediate mode used when feature prices feed
// other strategies. Rows skip rounding and tax, and are kept while
// base + method + rate-plan adjustments stay positive.
func EvaluateExcludingTax(in Input) []pricing.DailyResult {
	return featureBased(in, true)
}

func featureBased(in Input, excludeTax bool) []pricing.DailyResult {
	bucket := in.bucketOr(pricing.BucketFeatureBased)
	var out []pricing.DailyResult
	for _, d := range in.Details {
		for _, date := range in.Dates {
			b, ok := featureBreakdown(in, d, date)
			if !ok {
				continue
			}
			key := pricing.RowKey{RoomProductID: d.RoomProductID, RatePlanID: d.RatePlanID, Date: date}
			if !excludeTax {
				out = in.priced(out, key, bucket, b)
				continue
			}
			acc := b.AccommodationRate()
			if !acc.IsPositive() {
				continue
			}
			out = append(out, pricing.NewDailyResult(key, bucket, b, pricing.DailyAmounts{
				AccommodationRate: acc,
				GrossPrice:        acc,
				NetPrice:          acc,
				TotalTaxAmount:    decimal.Zero,
			}))
		}
	}
	return out
}

func featureBreakdown(in Input, d pricing.MethodDetail, date string) (pricing.Breakdown, bool) {
	ratePlanAdj := in.Adjustments.For(d.RatePlanID, date)
	if usesSellingPrice(d.Method) {
		if sp, ok := in.Selling.Get(d.SourceProduct(), d.SourceRatePlan(), date); ok {
			if d.Method == pricing.MethodDerived {
				return pricing.ForwardAdjustment(sp.BasePrice, d.Adjustment, ratePlanAdj), true
			}
			return pricing.ForwardAdjustment(sp.AccommodationRate, pricing.Adjustment{}, ratePlanAdj), true
		}
	}
	base, ok := in.Features.Get(d.RoomProductID, date)
	if !ok {
		return pricing.Breakdown{}, false
	}
	return pricing.ForwardAdjustment(base, d.Adjustment, ratePlanAdj), true
}

func usesSellingPrice(m pricing.Method) bool {
	switch m {
	case pricing.MethodDerived, pricing.MethodLink, pricing.MethodReversed:
		return true
	}
	return false
}
