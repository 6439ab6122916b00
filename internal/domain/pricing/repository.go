package pricing

import (
	"context"
	"time"

	"roomrates/internal/domain/inventory"
)

type MethodRepository interface {
	MethodDetails(ctx context.Context, hotelID string) ([]MethodDetail, error)
}

// FeatureRateRepository serves dated feature rates and the undated defaults
// used when no stay date is known.
type FeatureRateRepository interface {
	FeatureRates(ctx context.Context, hotelID string, from, to time.Time) ([]FeatureRate, error)
	DefaultFeatureRates(ctx context.Context, hotelID string) ([]FeatureRate, error)
}

type TaxRepository interface {
	TaxSettings(ctx context.Context, hotelID string) ([]TaxSetting, error)
}

// SellingPriceRepository serves previously published prices and externally
// supplied (PMS) prices.
type SellingPriceRepository interface {
	SellingPrices(ctx context.Context, hotelID string, from, to time.Time) ([]SellingPrice, error)
	ExternalPrices(ctx context.Context, hotelID string, from, to time.Time) ([]DailyPrice, error)
}

type SettingsRepository interface {
	Settings(ctx context.Context, hotelID string) (Settings, error)
}

// Run is the archived outcome of one pricing computation.
type Run struct {
	ID        string
	HotelID   string
	From      string
	To        string
	CreatedAt time.Time
	Products  []inventory.ProductID
	Rows      []DailyResult
}
