package dto

import (
	"github.com/shopspring/decimal"

	domainpricing "roomrates/internal/domain/pricing"
)

type TaxAmount struct {
	Code   string          `json:"code"`
	Amount decimal.Decimal `json:"amount"`
}

type DailyRate struct {
	RoomProductID               string          `json:"room_product_id"`
	RatePlanID                  string          `json:"rate_plan_id"`
	Date                        string          `json:"date"`
	Strategy                    string          `json:"strategy"`
	FeatureBasedRate            decimal.Decimal `json:"feature_based_rate"`
	AdjustmentRate              decimal.Decimal `json:"adjustment_rate"`
	PricingMethodAdjustmentRate decimal.Decimal `json:"pricing_method_adjustment_rate"`
	AccommodationRate           decimal.Decimal `json:"accommodation_rate"`
	NetPrice                    decimal.Decimal `json:"net_price"`
	GrossPrice                  decimal.Decimal `json:"gross_price"`
	TotalTaxAmount              decimal.Decimal `json:"total_tax_amount"`
	Taxes                       []TaxAmount     `json:"taxes,omitempty"`
}

func MapDailyRates(rows []domainpricing.DailyResult) []DailyRate {
	out := make([]DailyRate, 0, len(rows))
	for _, r := range rows {
		taxes := make([]TaxAmount, 0, len(r.Taxes))
		for _, t := range r.Taxes {
			taxes = append(taxes, TaxAmount{Code: t.Code, Amount: t.Amount})
		}
		out = append(out, DailyRate{
			RoomProductID:               string(r.RoomProductID),
			RatePlanID:                  r.RatePlanID,
			Date:                        r.Date,
			Strategy:                    string(r.Strategy),
			FeatureBasedRate:            r.FeatureBasedRate,
			AdjustmentRate:              r.AdjustmentRate,
			PricingMethodAdjustmentRate: r.PricingMethodAdjustmentRate,
			AccommodationRate:           r.AccommodationRate,
			NetPrice:                    r.NetPrice,
			GrossPrice:                  r.GrossPrice,
			TotalTaxAmount:              r.TotalTaxAmount,
			Taxes:                       taxes,
		})
	}
	return out
}

// RunSummary reports a recalculation that was pushed downstream.
type RunSummary struct {
	RunID                 string `json:"run_id"`
	HotelID               string `json:"hotel_id"`
	From                  string `json:"from"`
	To                    string `json:"to"`
	Computed              int    `json:"computed"`
	Unchanged             int    `json:"unchanged"`
	RatesPublished        int    `json:"rates_published"`
	RatesSkipped          int    `json:"rates_skipped"`
	AvailabilityPublished int    `json:"availability_published"`
	AvailabilitySkipped   int    `json:"availability_skipped"`
	ArchiveKey            string `json:"archive_key,omitempty"`
}

type Preview struct {
	RunID    string      `json:"run_id"`
	HotelID  string      `json:"hotel_id"`
	From     string      `json:"from"`
	To       string      `json:"to"`
	Computed int         `json:"computed"`
	Rates    []DailyRate `json:"rates"`
}

type DefaultPrice struct {
	HotelID       string          `json:"hotel_id"`
	RoomProductID string          `json:"room_product_id"`
	Price         decimal.Decimal `json:"price"`
}
