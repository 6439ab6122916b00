package pricing

import (
	"context"
	"sort"

	domaininventory "roomrates/internal/domain/inventory"
	domainpricing "roomrates/internal/domain/pricing"
)

// RelatedProducts resolves the single-room components of a composite product.
// Lookup failures are logged and yield no components so other pairings still price.
func (s *Service) RelatedProducts(ctx context.Context, hotelID string, productID domaininventory.ProductID) []domaininventory.RoomProduct {
	if err := s.ensureDependencies(); err != nil {
		return nil
	}
	products, err := s.Catalog.Products(ctx, hotelID)
	if err != nil {
		s.logger().Error("related products: load products", "hotel_id", hotelID, "product_id", productID, "error", err)
		return nil
	}
	assigned, err := s.Catalog.AssignedUnits(ctx, hotelID)
	if err != nil {
		s.logger().Error("related products: load assigned units", "hotel_id", hotelID, "product_id", productID, "error", err)
		return nil
	}
	lookup := domaininventory.NewLookup(products)
	parent, ok := lookup.Get(productID)
	if !ok {
		return nil
	}
	ids := Related(lookup, assigned, parent)
	out := make([]domaininventory.RoomProduct, 0, len(ids))
	for _, id := range ids {
		p, _ := lookup.Get(id)
		out = append(out, p)
	}
	return out
}

// Related lists component ids of parent. An MRFC owns every RFC whose units all
// belong to it; an ERFC relates to every RFC sharing at least one unit.
func Related(products domaininventory.Lookup, assigned domaininventory.AssignedUnits, parent domaininventory.RoomProduct) []domaininventory.ProductID {
	var out []domaininventory.ProductID
	for id, candidate := range products {
		if id == parent.ID || candidate.Type != domaininventory.TypeRFC {
			continue
		}
		switch parent.Type {
		case domaininventory.TypeMRFC:
			if assigned.Subset(id, parent.ID) {
				out = append(out, id)
			}
		case domaininventory.TypeERFC:
			if len(assigned.Shared(parent.ID, id)) > 0 {
				out = append(out, id)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func relatedGraph(products domaininventory.Lookup, assigned domaininventory.AssignedUnits, details []domainpricing.MethodDetail) map[domaininventory.ProductID][]domaininventory.ProductID {
	graph := make(map[domaininventory.ProductID][]domaininventory.ProductID)
	for _, d := range details {
		if _, done := graph[d.RoomProductID]; done {
			continue
		}
		parent, ok := products.Get(d.RoomProductID)
		if !ok || !parent.IsComposite() {
			continue
		}
		graph[d.RoomProductID] = Related(products, assigned, parent)
	}
	return graph
}

// FilterRedundantInput drops rows whose base plus rate-plan adjustment equals the
// published base plus rate-plan adjustment exactly. Rows with nothing published
// are kept.
func FilterRedundantInput(rows []domainpricing.DailyResult, prior []domainpricing.SellingPrice) []domainpricing.DailyResult {
	published := domainpricing.NewSellingIndex(prior)
	out := make([]domainpricing.DailyResult, 0, len(rows))
	for _, r := range rows {
		p, ok := published[r.Key()]
		if !ok {
			out = append(out, r)
			continue
		}
		if r.FeatureBasedRate.Add(r.AdjustmentRate).Equal(p.BasePrice.Add(p.RatePlanAdjustments)) {
			continue
		}
		out = append(out, r)
	}
	return out
}
