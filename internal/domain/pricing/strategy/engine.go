// Package strategy holds the pricing engines. Each engine is a pure function over
// a request-scoped Input; none keeps state between calls.
package strategy

import (
	"github.com/shopspring/decimal"

	"roomrates/internal/domain/inventory"
	"roomrates/internal/domain/pricing"
	"roomrates/internal/domain/rateplan"
)

// Input is everything an engine may read for one batch of pairings.
type Input struct {
	Bucket         pricing.Bucket
	Details        []pricing.MethodDetail
	Dates          []string
	Products       inventory.Lookup
	Related        map[inventory.ProductID][]inventory.ProductID
	Features       pricing.FeaturePrices
	Selling        pricing.SellingIndex
	Adjustments    rateplan.Adjustments
	RatePlans      rateplan.Index
	Taxes          []pricing.TaxSetting
	Availability   *inventory.Snapshot
	ExternalPrices pricing.ProductPrices
	FixedPrices    pricing.ProductPrices
	Settings       pricing.Settings
}

// WithDetails returns a copy of the input scoped to other pairings.
func (in Input) WithDetails(bucket pricing.Bucket, details []pricing.MethodDetail) Input {
	in.Bucket = bucket
	in.Details = details
	return in
}

// Engine computes daily rows for a batch.
type Engine func(in Input) []pricing.DailyResult

// Table maps every bucket to the engine that prices it.
func Table() map[pricing.Bucket]Engine {
	return map[pricing.Bucket]Engine{
		pricing.BucketFeatureBased: FeatureBased,
		pricing.BucketDerived:      FeatureBased,
		pricing.BucketCombined:     Combined,
		pricing.BucketAverage:      Average,
		pricing.BucketLinked:       Linked,
		pricing.BucketPMS:          PMSAnchored,
		pricing.BucketReversed:     ProportionalReversed,
		pricing.BucketFixed:        Fixed,
	}
}

// Order is the sequence buckets run in; later buckets win on duplicate rows.
var Order = []pricing.Bucket{
	pricing.BucketFeatureBased,
	pricing.BucketDerived,
	pricing.BucketCombined,
	pricing.BucketAverage,
	pricing.BucketLinked,
	pricing.BucketPMS,
	pricing.BucketReversed,
	pricing.BucketFixed,
}

func (in Input) bucketOr(def pricing.Bucket) pricing.Bucket {
	if in.Bucket != "" {
		return in.Bucket
	}
	return def
}

// priced runs a breakdown through tax and keeps it only when sellable.
func (in Input) priced(out []pricing.DailyResult, key pricing.RowKey, bucket pricing.Bucket, b pricing.Breakdown) []pricing.DailyResult {
	amounts := pricing.TaxInclusive(key.Date, b, in.Taxes, in.Settings.RoundingMode)
	row := pricing.NewDailyResult(key, bucket, b, amounts)
	if !row.Sellable() {
		return out
	}
	return append(out, row)
}

type productDay struct {
	product inventory.ProductID
	date    string
}

// componentRows prices the given components under one rate plan without tax or
// method adjustments, keyed by product and day.
func componentRows(in Input, ratePlanID string, components []inventory.ProductID) map[productDay]pricing.DailyResult {
	details := make([]pricing.MethodDetail, 0, len(components))
	for _, c := range components {
		details = append(details, pricing.MethodDetail{
			RoomProductID: c,
			RatePlanID:    ratePlanID,
			Method:        pricing.MethodProductBased,
		})
	}
	rows := EvaluateExcludingTax(in.WithDetails(pricing.BucketFeatureBased, details))
	out := make(map[productDay]pricing.DailyResult, len(rows))
	for _, r := range rows {
		out[productDay{product: r.RoomProductID, date: r.Date}] = r
	}
	return out
}

// componentCache memoizes componentRows per rate plan within one engine call.
type componentCache struct {
	in   Input
	rows map[string]map[productDay]pricing.DailyResult
}

func newComponentCache(in Input) *componentCache {
	return &componentCache{in: in, rows: make(map[string]map[productDay]pricing.DailyResult)}
}

func (c *componentCache) forRatePlan(ratePlanID string, components []inventory.ProductID) map[productDay]pricing.DailyResult {
	if rows, ok := c.rows[ratePlanID]; ok {
		return rows
	}
	var all []inventory.ProductID
	seen := make(map[inventory.ProductID]struct{})
	for _, related := range c.in.Related {
		for _, id := range related {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			all = append(all, id)
		}
	}
	for _, id := range components {
		if _, ok := seen[id]; !ok {
			all = append(all, id)
		}
	}
	rows := componentRows(c.in, ratePlanID, all)
	c.rows[ratePlanID] = rows
	return rows
}

func minMax(values []decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	if len(values) == 0 {
		return decimal.Zero, decimal.Zero
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v.LessThan(lo) {
			lo = v
		}
		if v.GreaterThan(hi) {
			hi = v
		}
	}
	return lo, hi
}
