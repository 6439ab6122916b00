package pricing

import (
	"github.com/shopspring/decimal"

	"roomrates/internal/domain/inventory"
)

// Method governs how a product/rate-plan pairing derives its base price.
type Method string

const (
	MethodProductBased Method = "PRODUCT_BASED_PRICING"
	MethodLink         Method = "LINK"
	MethodDerived      Method = "DERIVED"
	MethodReversed     Method = "REVERSED_PRICING"
	MethodPMS          Method = "PMS_PRICING"
)

// MethodDetail configures one (room product, rate plan) pairing.
type MethodDetail struct {
	RoomProductID inventory.ProductID
	RatePlanID    string
	Method        Method
	Adjustment    Adjustment
	// TargetRoomProductID names the product a LINK pairing copies from.
	TargetRoomProductID inventory.ProductID
	// TargetRatePlanID names the parent rate plan a DERIVED pairing follows.
	TargetRatePlanID string
}

// SourceProduct is the product whose published price feeds this pairing.
func (d MethodDetail) SourceProduct() inventory.ProductID {
	if d.TargetRoomProductID != "" {
		return d.TargetRoomProductID
	}
	return d.RoomProductID
}

// SourceRatePlan is the rate plan whose published price feeds this pairing.
func (d MethodDetail) SourceRatePlan() string {
	if d.TargetRatePlanID != "" {
		return d.TargetRatePlanID
	}
	return d.RatePlanID
}

type FeatureRate struct {
	RoomProductID inventory.ProductID
	FeatureID     string
	Date          string
	Rate          decimal.Decimal
	Quantity      int
}

type productDay struct {
	product inventory.ProductID
	date    string
}

// FeaturePrices holds the summed feature price per product and day.
type FeaturePrices map[productDay]decimal.Decimal

// SumFeatureRates adds rate*quantity per product and day.
func SumFeatureRates(rates []FeatureRate) FeaturePrices {
	out := make(FeaturePrices)
	for _, r := range rates {
		key := productDay{product: r.RoomProductID, date: r.Date}
		out[key] = out[key].Add(r.Rate.Mul(decimal.NewFromInt(int64(r.Quantity))))
	}
	return out
}

func (f FeaturePrices) Get(product inventory.ProductID, date string) (decimal.Decimal, bool) {
	v, ok := f[productDay{product: product, date: date}]
	return v, ok
}

func (f FeaturePrices) Set(product inventory.ProductID, date string, v decimal.Decimal) {
	f[productDay{product: product, date: date}] = v
}

// ProductPrices holds one externally supplied price per product and day, such as
// PMS prices or administrator fixed prices.
type ProductPrices map[productDay]decimal.Decimal

func (p ProductPrices) Get(product inventory.ProductID, date string) (decimal.Decimal, bool) {
	v, ok := p[productDay{product: product, date: date}]
	return v, ok
}

func (p ProductPrices) Set(product inventory.ProductID, date string, v decimal.Decimal) {
	p[productDay{product: product, date: date}] = v
}

// DailyPrice is a wire-friendly product price entry.
type DailyPrice struct {
	RoomProductID inventory.ProductID
	Date          string
	Price         decimal.Decimal
}

func NewProductPrices(prices []DailyPrice) ProductPrices {
	out := make(ProductPrices, len(prices))
	for _, p := range prices {
		out.Set(p.RoomProductID, p.Date, p.Price)
	}
	return out
}
