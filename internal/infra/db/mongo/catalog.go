package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"roomrates/internal/app/policies"
	domaininventory "roomrates/internal/domain/inventory"
	domainpricing "roomrates/internal/domain/pricing"
	domainrateplan "roomrates/internal/domain/rateplan"
	domainrange "roomrates/internal/domain/shared/daterange"
)

const (
	colProducts            = "room_products"
	colRatePlans           = "rate_plans"
	colDailyAdjustments    = "rate_plan_daily_adjustments"
	colMethodDetails       = "pricing_method_details"
	colFeatureRates        = "feature_rates"
	colDefaultFeatureRates = "default_feature_rates"
	colTaxes               = "tax_settings"
	colSellingPrices       = "selling_prices"
	colExternalPrices      = "pms_prices"
	colUnitAvailability    = "unit_availability"
	colProductAvailability = "product_availability"
	colSettings            = "hotel_pricing_settings"
)

// CatalogRepository reads the pricing collaborators of a hotel. Days are stored
// as YYYY-MM-DD strings so window filters compare lexically.
type CatalogRepository struct {
	db *mongo.Database
	// Defaults apply to hotels without stored settings.
	Defaults domainpricing.Settings
}

var _ policies.PricingCatalog = (*CatalogRepository)(nil)

func NewCatalogRepository(db *mongo.Database, defaults domainpricing.Settings) *CatalogRepository {
	return &CatalogRepository{db: db, Defaults: defaults}
}

func hotelFilter(hotelID string) bson.M {
	return bson.M{"hotel_id": hotelID}
}

func windowFilter(hotelID string, from, to time.Time) bson.M {
	return bson.M{
		"hotel_id": hotelID,
		"date":     bson.M{"$gte": domainrange.FormatDay(from), "$lte": domainrange.FormatDay(to)},
	}
}

func (r *CatalogRepository) Products(ctx context.Context, hotelID string) ([]domaininventory.RoomProduct, error) {
	docs, err := findAll[productDocument](ctx, r.db.Collection(colProducts), hotelFilter(hotelID))
	if err != nil {
		return nil, err
	}
	out := make([]domaininventory.RoomProduct, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *CatalogRepository) AssignedUnits(ctx context.Context, hotelID string) (domaininventory.AssignedUnits, error) {
	docs, err := findAll[productDocument](ctx, r.db.Collection(colProducts), hotelFilter(hotelID))
	if err != nil {
		return nil, err
	}
	out := make(domaininventory.AssignedUnits, len(docs))
	for _, d := range docs {
		units := make([]domaininventory.UnitID, 0, len(d.UnitIDs))
		for _, u := range d.UnitIDs {
			units = append(units, domaininventory.UnitID(u))
		}
		out[domaininventory.ProductID(d.ID)] = units
	}
	return out, nil
}

func (r *CatalogRepository) RatePlans(ctx context.Context, hotelID string) ([]domainrateplan.RatePlan, error) {
	docs, err := findAll[ratePlanDocument](ctx, r.db.Collection(colRatePlans), hotelFilter(hotelID))
	if err != nil {
		return nil, err
	}
	return mapDocs(docs, ratePlanDocument.toDomain)
}

func (r *CatalogRepository) DailyAdjustments(ctx context.Context, hotelID string, from, to time.Time) ([]domainrateplan.DailyAdjustment, error) {
	docs, err := findAll[dailyAdjustmentDocument](ctx, r.db.Collection(colDailyAdjustments), windowFilter(hotelID, from, to))
	if err != nil {
		return nil, err
	}
	return mapDocs(docs, dailyAdjustmentDocument.toDomain)
}

func (r *CatalogRepository) MethodDetails(ctx context.Context, hotelID string) ([]domainpricing.MethodDetail, error) {
	docs, err := findAll[methodDetailDocument](ctx, r.db.Collection(colMethodDetails), hotelFilter(hotelID))
	if err != nil {
		return nil, err
	}
	return mapDocs(docs, methodDetailDocument.toDomain)
}

func (r *CatalogRepository) FeatureRates(ctx context.Context, hotelID string, from, to time.Time) ([]domainpricing.FeatureRate, error) {
	docs, err := findAll[featureRateDocument](ctx, r.db.Collection(colFeatureRates), windowFilter(hotelID, from, to))
	if err != nil {
		return nil, err
	}
	return mapDocs(docs, featureRateDocument.toDomain)
}

func (r *CatalogRepository) DefaultFeatureRates(ctx context.Context, hotelID string) ([]domainpricing.FeatureRate, error) {
	docs, err := findAll[featureRateDocument](ctx, r.db.Collection(colDefaultFeatureRates), hotelFilter(hotelID))
	if err != nil {
		return nil, err
	}
	for i := range docs {
		docs[i].Date = ""
	}
	return mapDocs(docs, featureRateDocument.toDomain)
}

func (r *CatalogRepository) TaxSettings(ctx context.Context, hotelID string) ([]domainpricing.TaxSetting, error) {
	docs, err := findAll[taxDocument](ctx, r.db.Collection(colTaxes), hotelFilter(hotelID))
	if err != nil {
		return nil, err
	}
	return mapDocs(docs, taxDocument.toDomain)
}

func (r *CatalogRepository) SellingPrices(ctx context.Context, hotelID string, from, to time.Time) ([]domainpricing.SellingPrice, error) {
	docs, err := findAll[sellingPriceDocument](ctx, r.db.Collection(colSellingPrices), windowFilter(hotelID, from, to))
	if err != nil {
		return nil, err
	}
	return mapDocs(docs, sellingPriceDocument.toDomain)
}

func (r *CatalogRepository) ExternalPrices(ctx context.Context, hotelID string, from, to time.Time) ([]domainpricing.DailyPrice, error) {
	docs, err := findAll[externalPriceDocument](ctx, r.db.Collection(colExternalPrices), windowFilter(hotelID, from, to))
	if err != nil {
		return nil, err
	}
	return mapDocs(docs, externalPriceDocument.toDomain)
}

func (r *CatalogRepository) UnitAvailability(ctx context.Context, hotelID string, from, to time.Time) ([]domaininventory.UnitAvailability, error) {
	docs, err := findAll[unitAvailabilityDocument](ctx, r.db.Collection(colUnitAvailability), windowFilter(hotelID, from, to))
	if err != nil {
		return nil, err
	}
	out := make([]domaininventory.UnitAvailability, 0, len(docs))
	for _, d := range docs {
		out = append(out, domaininventory.UnitAvailability{UnitID: domaininventory.UnitID(d.UnitID), Date: d.Date, Available: d.Available})
	}
	return out, nil
}

func (r *CatalogRepository) ProductAvailability(ctx context.Context, hotelID string, from, to time.Time) ([]domaininventory.ProductAvailability, error) {
	docs, err := findAll[productAvailabilityDocument](ctx, r.db.Collection(colProductAvailability), windowFilter(hotelID, from, to))
	if err != nil {
		return nil, err
	}
	out := make([]domaininventory.ProductAvailability, 0, len(docs))
	for _, d := range docs {
		out = append(out, domaininventory.ProductAvailability{RoomProductID: domaininventory.ProductID(d.RoomProductID), Date: d.Date, Open: d.Open})
	}
	return out, nil
}

func (r *CatalogRepository) Settings(ctx context.Context, hotelID string) (domainpricing.Settings, error) {
	var doc settingsDocument
	if err := r.db.Collection(colSettings).FindOne(ctx, bson.M{"_id": hotelID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return r.Defaults, nil
		}
		return domainpricing.Settings{}, err
	}
	return doc.toDomain(r.Defaults), nil
}
