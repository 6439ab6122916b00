package pricing

import "github.com/shopspring/decimal"

type AdjustmentType string

const (
	AdjustmentFixed      AdjustmentType = "FIXED"
	AdjustmentPercentage AdjustmentType = "PERCENTAGE"
)

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// Adjustment is a value with its unit. The zero value is a FIXED adjustment of 0.
type Adjustment struct {
	Value decimal.Decimal
	Type  AdjustmentType
}

func Fixed(v decimal.Decimal) Adjustment {
	return Adjustment{Value: v, Type: AdjustmentFixed}
}

func Percentage(v decimal.Decimal) Adjustment {
	return Adjustment{Value: v, Type: AdjustmentPercentage}
}

// Unit returns the adjustment type, defaulting to FIXED.
func (a Adjustment) Unit() AdjustmentType {
	if a.Type == AdjustmentPercentage {
		return AdjustmentPercentage
	}
	return AdjustmentFixed
}

func (a Adjustment) IsZero() bool {
	return a.Value.IsZero()
}

// CalculateAdjustment returns the absolute amount the adjustment adds to basePrice.
func CalculateAdjustment(basePrice decimal.Decimal, adj Adjustment) decimal.Decimal {
	if adj.Unit() == AdjustmentPercentage {
		return basePrice.Mul(adj.Value).Div(hundred)
	}
	return adj.Value
}

// Breakdown splits an accommodation rate into its base and adjustment layers.
type Breakdown struct {
	BasePrice                   decimal.Decimal
	PricingMethodAdjustmentRate decimal.Decimal
	RatePlanAdjustmentRate      decimal.Decimal
}

// AccommodationRate is the unrounded sum of all layers.
func (b Breakdown) AccommodationRate() decimal.Decimal {
	return b.BasePrice.Add(b.PricingMethodAdjustmentRate).Add(b.RatePlanAdjustmentRate)
}

// ForwardAdjustment applies the pricing-method adjustment to basePrice, then the
// rate-plan adjustment to the method-adjusted price. The order matters for
// percentage layers.
func ForwardAdjustment(basePrice decimal.Decimal, method, ratePlan Adjustment) Breakdown {
	methodRate := CalculateAdjustment(basePrice, method)
	rateRate := CalculateAdjustment(basePrice.Add(methodRate), ratePlan)
	return Breakdown{
		BasePrice:                   basePrice,
		PricingMethodAdjustmentRate: methodRate,
		RatePlanAdjustmentRate:      rateRate,
	}
}

// ReverseAdjustment recovers a breakdown from a sell price. The rate-plan layer is
// removed from targetPrice and the remainder is the base price; the method layer
// is then computed forward from that base instead of being inverted. With a
// non-zero method layer the breakdown no longer sums to targetPrice. Downstream
// hashes depend on this exact arithmetic.
func ReverseAdjustment(targetPrice decimal.Decimal, method, ratePlan Adjustment) Breakdown {
	var rateRate decimal.Decimal
	if ratePlan.Unit() == AdjustmentPercentage {
		divisor := one.Add(ratePlan.Value.Div(hundred))
		if divisor.IsZero() {
			rateRate = decimal.Zero
		} else {
			rateRate = targetPrice.Sub(targetPrice.Div(divisor))
		}
	} else {
		rateRate = ratePlan.Value
	}
	basePrice := targetPrice.Sub(rateRate)
	return Breakdown{
		BasePrice:                   basePrice,
		PricingMethodAdjustmentRate: CalculateAdjustment(basePrice, method),
		RatePlanAdjustmentRate:      rateRate,
	}
}
