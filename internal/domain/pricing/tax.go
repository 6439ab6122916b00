package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"roomrates/internal/domain/shared/daterange"
)

// TaxPrecision is the number of decimals kept while distributing inclusive taxes.
const TaxPrecision = 4

type RoundingMode string

const (
	RoundingNone   RoundingMode = "NO_ROUNDING"
	RoundingHalfUp RoundingMode = "ROUND"
	RoundingUp     RoundingMode = "ROUND_UP"
	RoundingDown   RoundingMode = "ROUND_DOWN"
)

// Apply rounds to whole currency units; RoundingNone and unknown modes leave d untouched.
func (m RoundingMode) Apply(d decimal.Decimal) decimal.Decimal {
	switch m {
	case RoundingHalfUp:
		return d.Round(0)
	case RoundingUp:
		return d.RoundCeil(0)
	case RoundingDown:
		return d.RoundFloor(0)
	default:
		return d
	}
}

func ParseRoundingMode(raw string) RoundingMode {
	switch RoundingMode(raw) {
	case RoundingHalfUp, RoundingUp, RoundingDown:
		return RoundingMode(raw)
	default:
		return RoundingNone
	}
}

// TaxSetting is a percentage tax with an optional validity window.
type TaxSetting struct {
	Code      string
	Rate      decimal.Decimal
	ValidFrom *time.Time
	ValidTo   *time.Time
}

func (t TaxSetting) ValidOn(day string) bool {
	return daterange.Within(day, t.ValidFrom, t.ValidTo)
}

type TaxAmount struct {
	Code   string
	Amount decimal.Decimal
}

// DailyAmounts is the taxed view of one accommodation rate.
type DailyAmounts struct {
	AccommodationRate decimal.Decimal
	GrossPrice        decimal.Decimal
	NetPrice          decimal.Decimal
	TotalTaxAmount    decimal.Decimal
	Taxes             []TaxAmount
}

// TaxInclusive rounds the accommodation rate per mode and distributes every tax
// valid on day over the resulting gross amount.
func TaxInclusive(day string, b Breakdown, taxes []TaxSetting, mode RoundingMode) DailyAmounts {
	accommodation := mode.Apply(b.AccommodationRate())

	applicable := make([]TaxSetting, 0, len(taxes))
	totalRate := decimal.Zero
	for _, t := range taxes {
		if !t.ValidOn(day) {
			continue
		}
		applicable = append(applicable, t)
		totalRate = totalRate.Add(t.Rate.Div(hundred))
	}

	if len(applicable) == 0 {
		return DailyAmounts{
			AccommodationRate: accommodation,
			GrossPrice:        accommodation,
			NetPrice:          accommodation,
			TotalTaxAmount:    decimal.Zero,
		}
	}

	factor := one.Add(totalRate)
	gross := accommodation.Mul(factor).Round(TaxPrecision)
	totalTax := decimal.Zero
	amounts := make([]TaxAmount, 0, len(applicable))
	for _, t := range applicable {
		share := gross.Mul(t.Rate.Div(hundred)).Div(factor).Round(TaxPrecision)
		totalTax = totalTax.Add(share)
		amounts = append(amounts, TaxAmount{Code: t.Code, Amount: share})
	}

	return DailyAmounts{
		AccommodationRate: accommodation,
		GrossPrice:        gross,
		NetPrice:          gross.Sub(totalTax),
		TotalTaxAmount:    totalTax,
		Taxes:             amounts,
	}
}
