package mongo

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	domaininventory "roomrates/internal/domain/inventory"
	domainpricing "roomrates/internal/domain/pricing"
	domainrateplan "roomrates/internal/domain/rateplan"
)

// Money is stored as decimal strings so values round-trip exactly.

func parseAmount(field, raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("mongo: %s: %w", field, err)
	}
	return d, nil
}

type adjustmentDocument struct {
	Value string `bson:"value"`
	Type  string `bson:"type"`
}

func (d adjustmentDocument) toDomain() (domainpricing.Adjustment, error) {
	v, err := parseAmount("adjustment", d.Value)
	if err != nil {
		return domainpricing.Adjustment{}, err
	}
	return domainpricing.Adjustment{Value: v, Type: domainpricing.AdjustmentType(d.Type)}, nil
}

type productDocument struct {
	ID            string   `bson:"_id"`
	HotelID       string   `bson:"hotel_id"`
	Code          string   `bson:"code"`
	Type          string   `bson:"type"`
	BasePriceMode string   `bson:"base_price_mode"`
	UnitIDs       []string `bson:"unit_ids"`
}

func (d productDocument) toDomain() domaininventory.RoomProduct {
	return domaininventory.RoomProduct{
		ID:            domaininventory.ProductID(d.ID),
		HotelID:       d.HotelID,
		Code:          d.Code,
		Type:          domaininventory.ProductType(d.Type),
		BasePriceMode: domaininventory.BasePriceMode(d.BasePriceMode),
	}
}

type ratePlanDocument struct {
	ID                string             `bson:"_id"`
	HotelID           string             `bson:"hotel_id"`
	Code              string             `bson:"code"`
	Status            string             `bson:"status"`
	DefaultAdjustment adjustmentDocument `bson:"default_adjustment"`
	AttributePricing  bool               `bson:"attribute_pricing"`
}

func (d ratePlanDocument) toDomain() (domainrateplan.RatePlan, error) {
	adj, err := d.DefaultAdjustment.toDomain()
	if err != nil {
		return domainrateplan.RatePlan{}, err
	}
	return domainrateplan.RatePlan{
		ID:                d.ID,
		HotelID:           d.HotelID,
		Code:              d.Code,
		Status:            domainrateplan.Status(d.Status),
		DefaultAdjustment: adj,
		AttributePricing:  d.AttributePricing,
	}, nil
}

type dailyAdjustmentDocument struct {
	HotelID    string             `bson:"hotel_id"`
	RatePlanID string             `bson:"rate_plan_id"`
	Date       string             `bson:"date"`
	Adjustment adjustmentDocument `bson:"adjustment"`
}

func (d dailyAdjustmentDocument) toDomain() (domainrateplan.DailyAdjustment, error) {
	adj, err := d.Adjustment.toDomain()
	if err != nil {
		return domainrateplan.DailyAdjustment{}, err
	}
	return domainrateplan.DailyAdjustment{RatePlanID: d.RatePlanID, Date: d.Date, Adjustment: adj}, nil
}

type methodDetailDocument struct {
	HotelID             string             `bson:"hotel_id"`
	RoomProductID       string             `bson:"room_product_id"`
	RatePlanID          string             `bson:"rate_plan_id"`
	Method              string             `bson:"method"`
	Adjustment          adjustmentDocument `bson:"adjustment"`
	TargetRoomProductID string             `bson:"target_room_product_id,omitempty"`
	TargetRatePlanID    string             `bson:"target_rate_plan_id,omitempty"`
}

func (d methodDetailDocument) toDomain() (domainpricing.MethodDetail, error) {
	adj, err := d.Adjustment.toDomain()
	if err != nil {
		return domainpricing.MethodDetail{}, err
	}
	return domainpricing.MethodDetail{
		RoomProductID:       domaininventory.ProductID(d.RoomProductID),
		RatePlanID:          d.RatePlanID,
		Method:              domainpricing.Method(d.Method),
		Adjustment:          adj,
		TargetRoomProductID: domaininventory.ProductID(d.TargetRoomProductID),
		TargetRatePlanID:    d.TargetRatePlanID,
	}, nil
}

type featureRateDocument struct {
	HotelID       string `bson:"hotel_id"`
	RoomProductID string `bson:"room_product_id"`
	FeatureID     string `bson:"feature_id"`
	Date          string `bson:"date,omitempty"`
	Rate          string `bson:"rate"`
	Quantity      int    `bson:"quantity"`
}

func (d featureRateDocument) toDomain() (domainpricing.FeatureRate, error) {
	rate, err := parseAmount("feature rate", d.Rate)
	if err != nil {
		return domainpricing.FeatureRate{}, err
	}
	return domainpricing.FeatureRate{
		RoomProductID: domaininventory.ProductID(d.RoomProductID),
		FeatureID:     d.FeatureID,
		Date:          d.Date,
		Rate:          rate,
		Quantity:      d.Quantity,
	}, nil
}

type taxDocument struct {
	HotelID   string     `bson:"hotel_id"`
	Code      string     `bson:"code"`
	Rate      string     `bson:"rate"`
	ValidFrom *time.Time `bson:"valid_from,omitempty"`
	ValidTo   *time.Time `bson:"valid_to,omitempty"`
}

func (d taxDocument) toDomain() (domainpricing.TaxSetting, error) {
	rate, err := parseAmount("tax rate", d.Rate)
	if err != nil {
		return domainpricing.TaxSetting{}, err
	}
	return domainpricing.TaxSetting{Code: d.Code, Rate: rate, ValidFrom: d.ValidFrom, ValidTo: d.ValidTo}, nil
}

type sellingPriceDocument struct {
	HotelID             string `bson:"hotel_id"`
	RoomProductID       string `bson:"room_product_id"`
	RatePlanID          string `bson:"rate_plan_id"`
	Date                string `bson:"date"`
	BasePrice           string `bson:"base_price"`
	RatePlanAdjustments string `bson:"rate_plan_adjustments"`
	MethodAdjustments   string `bson:"method_adjustments"`
	AccommodationRate   string `bson:"accommodation_rate"`
}

func (d sellingPriceDocument) toDomain() (domainpricing.SellingPrice, error) {
	amounts := make([]decimal.Decimal, 4)
	for i, raw := range []string{d.BasePrice, d.RatePlanAdjustments, d.MethodAdjustments, d.AccommodationRate} {
		v, err := parseAmount("selling price", raw)
		if err != nil {
			return domainpricing.SellingPrice{}, err
		}
		amounts[i] = v
	}
	return domainpricing.SellingPrice{
		RoomProductID:       domaininventory.ProductID(d.RoomProductID),
		RatePlanID:          d.RatePlanID,
		Date:                d.Date,
		BasePrice:           amounts[0],
		RatePlanAdjustments: amounts[1],
		MethodAdjustments:   amounts[2],
		AccommodationRate:   amounts[3],
	}, nil
}

type externalPriceDocument struct {
	HotelID       string `bson:"hotel_id"`
	RoomProductID string `bson:"room_product_id"`
	Date          string `bson:"date"`
	Price         string `bson:"price"`
}

func (d externalPriceDocument) toDomain() (domainpricing.DailyPrice, error) {
	price, err := parseAmount("external price", d.Price)
	if err != nil {
		return domainpricing.DailyPrice{}, err
	}
	return domainpricing.DailyPrice{RoomProductID: domaininventory.ProductID(d.RoomProductID), Date: d.Date, Price: price}, nil
}

type unitAvailabilityDocument struct {
	HotelID   string `bson:"hotel_id"`
	UnitID    string `bson:"unit_id"`
	Date      string `bson:"date"`
	Available bool   `bson:"available"`
}

type productAvailabilityDocument struct {
	HotelID       string `bson:"hotel_id"`
	RoomProductID string `bson:"room_product_id"`
	Date          string `bson:"date"`
	Open          bool   `bson:"open"`
}

type settingsDocument struct {
	HotelID           string `bson:"_id"`
	RoundingMode      string `bson:"rounding_mode"`
	AverageMode       string `bson:"average_mode"`
	ReversedReference string `bson:"reversed_reference"`
}

// toDomain fills blank fields from defaults.
func (d settingsDocument) toDomain(defaults domainpricing.Settings) domainpricing.Settings {
	out := defaults
	if d.RoundingMode != "" {
		out.RoundingMode = domainpricing.ParseRoundingMode(d.RoundingMode)
	}
	if d.AverageMode != "" {
		out.AverageMode = domainpricing.ParseAverageMode(d.AverageMode)
	}
	if d.ReversedReference != "" {
		out.ReversedReference = domainpricing.ParseReferenceRate(d.ReversedReference)
	}
	return out
}

// mapDocs converts documents, stopping at the first malformed one.
func mapDocs[D, T any](docs []D, convert func(D) (T, error)) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		v, err := convert(d)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
