package memory

import (
	"context"
	"sync"
	"time"

	"roomrates/internal/app/policies"
	domaininventory "roomrates/internal/domain/inventory"
	domainpricing "roomrates/internal/domain/pricing"
	domainrateplan "roomrates/internal/domain/rateplan"
	domainrange "roomrates/internal/domain/shared/daterange"
)

// HotelData is the full pricing catalog of one hotel.
type HotelData struct {
	Products            []domaininventory.RoomProduct
	Assigned            domaininventory.AssignedUnits
	RatePlans           []domainrateplan.RatePlan
	DailyAdjustments    []domainrateplan.DailyAdjustment
	MethodDetails       []domainpricing.MethodDetail
	FeatureRates        []domainpricing.FeatureRate
	DefaultFeatureRates []domainpricing.FeatureRate
	Taxes               []domainpricing.TaxSetting
	SellingPrices       []domainpricing.SellingPrice
	ExternalPrices      []domainpricing.DailyPrice
	UnitAvailability    []domaininventory.UnitAvailability
	ProductAvailability []domaininventory.ProductAvailability
	Settings            *domainpricing.Settings
}

// Catalog serves hotel data from memory for local runs and tests.
type Catalog struct {
	mu     sync.RWMutex
	hotels map[string]HotelData
}

var _ policies.PricingCatalog = (*Catalog)(nil)

func NewCatalog() *Catalog {
	return &Catalog{hotels: make(map[string]HotelData)}
}

// Put replaces the data of a hotel.
func (c *Catalog) Put(hotelID string, data HotelData) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hotels[hotelID] = data
}

// Publish records rows as the hotel's published selling prices, replacing rows
// with the same key.
func (c *Catalog) Publish(hotelID string, rows []domainpricing.DailyResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data := c.hotels[hotelID]
	index := domainpricing.NewSellingIndex(data.SellingPrices)
	for _, r := range rows {
		index[r.Key()] = domainpricing.SellingPrice{
			RoomProductID:       r.RoomProductID,
			RatePlanID:          r.RatePlanID,
			Date:                r.Date,
			BasePrice:           r.FeatureBasedRate,
			RatePlanAdjustments: r.AdjustmentRate,
			MethodAdjustments:   r.PricingMethodAdjustmentRate,
			AccommodationRate:   r.AccommodationRate,
		}
	}
	data.SellingPrices = data.SellingPrices[:0:0]
	for _, p := range index {
		data.SellingPrices = append(data.SellingPrices, p)
	}
	c.hotels[hotelID] = data
}

func (c *Catalog) hotel(hotelID string) HotelData {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hotels[hotelID]
}

func (c *Catalog) Products(_ context.Context, hotelID string) ([]domaininventory.RoomProduct, error) {
	return c.hotel(hotelID).Products, nil
}

func (c *Catalog) AssignedUnits(_ context.Context, hotelID string) (domaininventory.AssignedUnits, error) {
	return c.hotel(hotelID).Assigned, nil
}

func (c *Catalog) RatePlans(_ context.Context, hotelID string) ([]domainrateplan.RatePlan, error) {
	return c.hotel(hotelID).RatePlans, nil
}

func (c *Catalog) DailyAdjustments(_ context.Context, hotelID string, from, to time.Time) ([]domainrateplan.DailyAdjustment, error) {
	return inWindow(c.hotel(hotelID).DailyAdjustments, from, to, func(a domainrateplan.DailyAdjustment) string { return a.Date }), nil
}

func (c *Catalog) MethodDetails(_ context.Context, hotelID string) ([]domainpricing.MethodDetail, error) {
	return c.hotel(hotelID).MethodDetails, nil
}

func (c *Catalog) FeatureRates(_ context.Context, hotelID string, from, to time.Time) ([]domainpricing.FeatureRate, error) {
	return inWindow(c.hotel(hotelID).FeatureRates, from, to, func(r domainpricing.FeatureRate) string { return r.Date }), nil
}

func (c *Catalog) DefaultFeatureRates(_ context.Context, hotelID string) ([]domainpricing.FeatureRate, error) {
	rates := c.hotel(hotelID).DefaultFeatureRates
	out := make([]domainpricing.FeatureRate, len(rates))
	for i, r := range rates {
		r.Date = ""
		out[i] = r
	}
	return out, nil
}

func (c *Catalog) TaxSettings(_ context.Context, hotelID string) ([]domainpricing.TaxSetting, error) {
	return c.hotel(hotelID).Taxes, nil
}

func (c *Catalog) SellingPrices(_ context.Context, hotelID string, from, to time.Time) ([]domainpricing.SellingPrice, error) {
	return inWindow(c.hotel(hotelID).SellingPrices, from, to, func(p domainpricing.SellingPrice) string { return p.Date }), nil
}

func (c *Catalog) ExternalPrices(_ context.Context, hotelID string, from, to time.Time) ([]domainpricing.DailyPrice, error) {
	return inWindow(c.hotel(hotelID).ExternalPrices, from, to, func(p domainpricing.DailyPrice) string { return p.Date }), nil
}

func (c *Catalog) UnitAvailability(_ context.Context, hotelID string, from, to time.Time) ([]domaininventory.UnitAvailability, error) {
	return inWindow(c.hotel(hotelID).UnitAvailability, from, to, func(u domaininventory.UnitAvailability) string { return u.Date }), nil
}

func (c *Catalog) ProductAvailability(_ context.Context, hotelID string, from, to time.Time) ([]domaininventory.ProductAvailability, error) {
	return inWindow(c.hotel(hotelID).ProductAvailability, from, to, func(p domaininventory.ProductAvailability) string { return p.Date }), nil
}

func (c *Catalog) Settings(_ context.Context, hotelID string) (domainpricing.Settings, error) {
	if s := c.hotel(hotelID).Settings; s != nil {
		return *s, nil
	}
	return domainpricing.DefaultSettings(), nil
}

// inWindow keeps records whose day lies in [from, to]. Days compare as strings.
func inWindow[T any](items []T, from, to time.Time, day func(T) string) []T {
	lo, hi := domainrange.FormatDay(from), domainrange.FormatDay(to)
	out := make([]T, 0, len(items))
	for _, it := range items {
		d := day(it)
		if d < lo || d > hi {
			continue
		}
		out = append(out, it)
	}
	return out
}
