package strategy

import (
	"github.com/shopspring/decimal"

	"roomrates/internal/domain/pricing"
)

// Combined prices a composite as the plain sum of its components' prices.
func Combined(in Input) []pricing.DailyResult {
	bucket := in.bucketOr(pricing.BucketCombined)
	cache := newComponentCache(in)
	var out []pricing.DailyResult
	for _, d := range in.Details {
		components := in.Related[d.RoomProductID]
		if len(components) == 0 {
			continue
		}
		rows := cache.forRatePlan(d.RatePlanID, components)
		for _, date := range in.Dates {
			sum := decimal.Zero
			contributed := false
			for _, c := range components {
				row, ok := rows[productDay{product: c, date: date}]
				if !ok {
					continue
				}
				sum = sum.Add(row.BeforeRatePlan())
				contributed = true
			}
			if !contributed {
				continue
			}
			b := pricing.ForwardAdjustment(sum, d.Adjustment, in.Adjustments.For(d.RatePlanID, date))
			key := pricing.RowKey{RoomProductID: d.RoomProductID, RatePlanID: d.RatePlanID, Date: date}
			out = in.priced(out, key, bucket, b)
		}
	}
	return out
}
