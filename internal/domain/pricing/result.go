package pricing

import (
	"github.com/shopspring/decimal"

	"roomrates/internal/domain/inventory"
)

// RowKey identifies one daily price of a product under a rate plan.
type RowKey struct {
	RoomProductID inventory.ProductID
	RatePlanID    string
	Date          string
}

// DailyResult is the priced row for one room product, rate plan and day.
type DailyResult struct {
	RoomProductID               inventory.ProductID
	RatePlanID                  string
	Date                        string
	Strategy                    Bucket
	FeatureBasedRate            decimal.Decimal
	AdjustmentRate              decimal.Decimal
	PricingMethodAdjustmentRate decimal.Decimal
	AccommodationRate           decimal.Decimal
	NetPrice                    decimal.Decimal
	GrossPrice                  decimal.Decimal
	TotalTaxAmount              decimal.Decimal
	Taxes                       []TaxAmount
}

func NewDailyResult(key RowKey, strategy Bucket, b Breakdown, amounts DailyAmounts) DailyResult {
	return DailyResult{
		RoomProductID:               key.RoomProductID,
		RatePlanID:                  key.RatePlanID,
		Date:                        key.Date,
		Strategy:                    strategy,
		FeatureBasedRate:            b.BasePrice,
		AdjustmentRate:              b.RatePlanAdjustmentRate,
		PricingMethodAdjustmentRate: b.PricingMethodAdjustmentRate,
		AccommodationRate:           amounts.AccommodationRate,
		NetPrice:                    amounts.NetPrice,
		GrossPrice:                  amounts.GrossPrice,
		TotalTaxAmount:              amounts.TotalTaxAmount,
		Taxes:                       amounts.Taxes,
	}
}

func (r DailyResult) Key() RowKey {
	return RowKey{RoomProductID: r.RoomProductID, RatePlanID: r.RatePlanID, Date: r.Date}
}

// Sellable reports whether the row may be published.
func (r DailyResult) Sellable() bool {
	return r.AccommodationRate.IsPositive()
}

// BeforeRatePlan is the price of the row without its rate-plan layer.
func (r DailyResult) BeforeRatePlan() decimal.Decimal {
	return r.AccommodationRate.Sub(r.AdjustmentRate)
}

// SellingPrice is a previously published daily price.
type SellingPrice struct {
	RoomProductID       inventory.ProductID
	RatePlanID          string
	Date                string
	BasePrice           decimal.Decimal
	RatePlanAdjustments decimal.Decimal
	MethodAdjustments   decimal.Decimal
	AccommodationRate   decimal.Decimal
}

func (p SellingPrice) Key() RowKey {
	return RowKey{RoomProductID: p.RoomProductID, RatePlanID: p.RatePlanID, Date: p.Date}
}

// SellingIndex looks up published prices by row key.
type SellingIndex map[RowKey]SellingPrice

func NewSellingIndex(prices []SellingPrice) SellingIndex {
	out := make(SellingIndex, len(prices))
	for _, p := range prices {
		out[p.Key()] = p
	}
	return out
}

func (s SellingIndex) Get(product inventory.ProductID, ratePlanID, date string) (SellingPrice, bool) {
	p, ok := s[RowKey{RoomProductID: product, RatePlanID: ratePlanID, Date: date}]
	return p, ok
}

// FilterSellable drops rows that cannot be sold.
func FilterSellable(rows []DailyResult) []DailyResult {
	out := rows[:0:0]
	for _, r := range rows {
		if r.Sellable() {
			out = append(out, r)
		}
	}
	return out
}
