package strategy

import (
	"github.com/shopspring/decimal"

	"roomrates/internal/domain/inventory"
	"roomrates/internal/domain/pricing"
)

// Fixed prices pairings from administrator supplied base prices.
func Fixed(in Input) []pricing.DailyResult {
	return fromProductPrices(in, in.bucketOr(pricing.BucketFixed), in.FixedPrices, false)
}

// PMSAnchored works backwards from an external target price so that the
// adjustment layers reproduce it.
func PMSAnchored(in Input) []pricing.DailyResult {
	return fromProductPrices(in, in.bucketOr(pricing.BucketPMS), in.ExternalPrices, true)
}

func fromProductPrices(in Input, bucket pricing.Bucket, prices pricing.ProductPrices, reverse bool) []pricing.DailyResult {
	var out []pricing.DailyResult
	for _, d := range in.Details {
		for _, date := range in.Dates {
			price, ok := prices.Get(d.RoomProductID, date)
			if !ok {
				continue
			}
			ratePlanAdj := in.Adjustments.For(d.RatePlanID, date)
			var b pricing.Breakdown
			if reverse {
				b = pricing.ReverseAdjustment(price, d.Adjustment, ratePlanAdj)
			} else {
				b = pricing.ForwardAdjustment(price, d.Adjustment, ratePlanAdj)
			}
			key := pricing.RowKey{RoomProductID: d.RoomProductID, RatePlanID: d.RatePlanID, Date: date}
			out = in.priced(out, key, bucket, b)
		}
	}
	return out
}

// Linked copies the published price of the target product and applies the
// pairing's own adjustments on top.
func Linked(in Input) []pricing.DailyResult {
	bucket := in.bucketOr(pricing.BucketLinked)
	var out []pricing.DailyResult
	for _, d := range in.Details {
		for _, date := range in.Dates {
			sp, ok := in.Selling.Get(d.SourceProduct(), d.SourceRatePlan(), date)
			if !ok {
				continue
			}
			b := pricing.ForwardAdjustment(sp.AccommodationRate, d.Adjustment, in.Adjustments.For(d.RatePlanID, date))
			key := pricing.RowKey{RoomProductID: d.RoomProductID, RatePlanID: d.RatePlanID, Date: date}
			out = in.priced(out, key, bucket, b)
		}
	}
	return out
}

// ProportionalReversed spreads the external price of a composite across its
// single-room components in proportion to their reference rates, then reverses
// each share through the pairing's adjustments. Rows are emitted for the
// components, not for the composite.
func ProportionalReversed(in Input) []pricing.DailyResult {
	bucket := in.bucketOr(pricing.BucketReversed)
	var out []pricing.DailyResult
	for _, d := range in.Details {
		components := singleRoomComponents(in, d)
		if len(components) == 0 {
			continue
		}
		plan, _ := in.RatePlans.Get(d.RatePlanID)
		for _, date := range in.Dates {
			anchor, ok := in.ExternalPrices.Get(d.RoomProductID, date)
			if !ok || !anchor.IsPositive() {
				continue
			}
			refs := make([]reference, 0, len(components))
			sum := decimal.Zero
			for _, c := range components {
				ref, ok := referenceRate(in, c, d.RatePlanID, date)
				if !ok || !ref.IsPositive() {
					continue
				}
				refs = append(refs, reference{product: c, rate: ref})
				sum = sum.Add(ref)
			}
			if len(refs) == 0 {
				continue
			}
			avg := sum.Div(decimal.NewFromInt(int64(len(refs))))
			if avg.IsZero() {
				continue
			}
			ratePlanAdj := in.Adjustments.For(d.RatePlanID, date)
			for _, r := range refs {
				share := anchor.Mul(r.rate).Div(avg)
				if plan.AttributePricing && share.LessThan(anchor) {
					share = anchor
				}
				b := pricing.ReverseAdjustment(share, d.Adjustment, ratePlanAdj)
				key := pricing.RowKey{RoomProductID: r.product, RatePlanID: d.RatePlanID, Date: date}
				out = in.priced(out, key, bucket, b)
			}
		}
	}
	return out
}

type reference struct {
	product inventory.ProductID
	rate    decimal.Decimal
}

func singleRoomComponents(in Input, d pricing.MethodDetail) []inventory.ProductID {
	var out []inventory.ProductID
	for _, id := range in.Related[d.RoomProductID] {
		if p, ok := in.Products.Get(id); ok && p.Type == inventory.TypeRFC {
			out = append(out, id)
		}
	}
	return out
}

// referenceRate is the component's own feature price, or its currently published
// price when the hotel references current rates.
func referenceRate(in Input, product inventory.ProductID, ratePlanID, date string) (decimal.Decimal, bool) {
	if in.Settings.ReversedReference == pricing.ReferenceCurrent {
		if sp, ok := in.Selling.Get(product, ratePlanID, date); ok {
			return sp.AccommodationRate, true
		}
	}
	return in.Features.Get(product, date)
}
