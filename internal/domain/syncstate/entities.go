package syncstate

import (
	"github.com/shopspring/decimal"

	"roomrates/internal/domain/inventory"
	"roomrates/internal/domain/pricing"
)

// Rate is the pushed view of one daily price.
type Rate struct {
	HotelID           string          `json:"hotel_id"`
	RoomProductID     string          `json:"room_product_id"`
	RatePlanID        string          `json:"rate_plan_id"`
	Date              string          `json:"date"`
	AccommodationRate decimal.Decimal `json:"accommodation_rate"`
	NetPrice          decimal.Decimal `json:"net_price"`
	GrossPrice        decimal.Decimal `json:"gross_price"`
	TotalTaxAmount    decimal.Decimal `json:"total_tax_amount"`
}

func RateFromResult(hotelID string, r pricing.DailyResult) Rate {
	return Rate{
		HotelID:           hotelID,
		RoomProductID:     string(r.RoomProductID),
		RatePlanID:        r.RatePlanID,
		Date:              r.Date,
		AccommodationRate: r.AccommodationRate,
		NetPrice:          r.NetPrice,
		GrossPrice:        r.GrossPrice,
		TotalTaxAmount:    r.TotalTaxAmount,
	}
}

func (r Rate) CacheKey() string {
	return Key(KindRate, r.HotelID, r.RoomProductID, r.RatePlanID, r.Date)
}

func (r Rate) Fields() map[string]any {
	return map[string]any{
		"accommodationRate": r.AccommodationRate,
		"netPrice":          r.NetPrice,
		"grossPrice":        r.GrossPrice,
		"totalTaxAmount":    r.TotalTaxAmount,
	}
}

// Availability is the pushed view of a product's sellable inventory on a day.
type Availability struct {
	HotelID       string `json:"hotel_id"`
	RoomProductID string `json:"room_product_id"`
	Date          string `json:"date"`
	Available     int    `json:"available"`
	Open          bool   `json:"open"`
}

func (a Availability) CacheKey() string {
	return Key(KindAvailability, a.HotelID, a.RoomProductID, a.Date)
}

func (a Availability) Fields() map[string]any {
	return map[string]any{
		"available": a.Available,
		"open":      a.Open,
	}
}

func AvailabilityFromDaily(hotelID string, d inventory.DailyAvailability) Availability {
	return Availability{
		HotelID:       hotelID,
		RoomProductID: string(d.RoomProductID),
		Date:          d.Date,
		Available:     d.AvailableUnits,
		Open:          d.Open,
	}
}
