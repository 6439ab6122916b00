package pricing

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	domaininventory "roomrates/internal/domain/inventory"
	domainpricing "roomrates/internal/domain/pricing"
	"roomrates/internal/domain/pricing/strategy"
)

// DefaultAveragePrice is the undated midpoint price of a composite, computed from
// its components' default feature rates with every unit counted as free.
func (s *Service) DefaultAveragePrice(ctx context.Context, hotelID string, productID domaininventory.ProductID) (decimal.Decimal, error) {
	if err := s.ensureDependencies(); err != nil {
		return decimal.Zero, err
	}
	if hotelID == "" {
		return decimal.Zero, ErrHotelRequired
	}
	products, err := s.Catalog.Products(ctx, hotelID)
	if err != nil {
		return decimal.Zero, wrap("products", err)
	}
	lookup := domaininventory.NewLookup(products)
	parent, ok := lookup.Get(productID)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", domaininventory.ErrProductNotFound, productID)
	}
	if !parent.IsComposite() {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrNotComposite, productID)
	}
	assigned, err := s.Catalog.AssignedUnits(ctx, hotelID)
	if err != nil {
		return decimal.Zero, wrap("assigned units", err)
	}
	rates, err := s.Catalog.DefaultFeatureRates(ctx, hotelID)
	if err != nil {
		return decimal.Zero, wrap("default feature rates", err)
	}
	defaults := domainpricing.SumFeatureRates(rates)

	var components []strategy.ComponentPrice
	for _, id := range Related(lookup, assigned, parent) {
		price, ok := defaults.Get(id, "")
		if !ok || !price.IsPositive() {
			continue
		}
		components = append(components, strategy.ComponentPrice{
			RoomProductID: id,
			Price:         price,
			TotalUnits:    assigned.Count(id),
		})
	}
	return strategy.DefaultMidpointPrice(parent.Type, components), nil
}
