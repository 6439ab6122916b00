package pricing

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	domaininventory "roomrates/internal/domain/inventory"
	domainpricing "roomrates/internal/domain/pricing"
	"roomrates/internal/domain/pricing/strategy"
	domainrateplan "roomrates/internal/domain/rateplan"
	domainrange "roomrates/internal/domain/shared/daterange"
)

type FixedPriceRequest struct {
	HotelID string
	Prices  []domainpricing.DailyPrice
	// RatePlanIDs limits the plans priced; empty means every active plan
	// configured for the product.
	RatePlanIDs []string
}

// ApplyFixedPrices prices administrator supplied base prices through each
// plan's adjustments and tax.
func (s *Service) ApplyFixedPrices(ctx context.Context, req FixedPriceRequest) (Result, error) {
	if err := s.ensureDependencies(); err != nil {
		return Result{}, err
	}
	hotelID := strings.TrimSpace(req.HotelID)
	if hotelID == "" {
		return Result{}, ErrHotelRequired
	}
	if len(req.Prices) == 0 {
		return Result{}, ErrNoPrices
	}
	dates, dr, err := priceDates(req.Prices)
	if err != nil {
		return Result{}, err
	}

	var (
		plans     []domainrateplan.RatePlan
		overrides []domainrateplan.DailyAdjustment
		details   []domainpricing.MethodDetail
		taxes     []domainpricing.TaxSetting
		settings  domainpricing.Settings
	)
	c := s.Catalog
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		plans, err = c.RatePlans(gctx, hotelID)
		return wrap("rate plans", err)
	})
	g.Go(func() (err error) {
		overrides, err = c.DailyAdjustments(gctx, hotelID, dr.From, dr.To)
		return wrap("daily adjustments", err)
	})
	g.Go(func() (err error) {
		details, err = c.MethodDetails(gctx, hotelID)
		return wrap("method details", err)
	})
	g.Go(func() (err error) {
		taxes, err = c.TaxSettings(gctx, hotelID)
		return wrap("tax settings", err)
	})
	g.Go(func() (err error) {
		settings, err = c.Settings(gctx, hotelID)
		return wrap("settings", err)
	})
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	index := domainrateplan.NewIndex(plans)
	in := strategy.Input{
		Dates:       dates,
		Adjustments: domainrateplan.Resolve(plans, overrides, dates),
		RatePlans:   index,
		Taxes:       taxes,
		FixedPrices: domainpricing.NewProductPrices(req.Prices),
		Settings:    settings,
	}
	pairings := fixedPairings(req.Prices, details, index, req.RatePlanIDs)
	rows := strategy.Fixed(in.WithDetails(domainpricing.BucketFixed, pairings))
	merged := make(map[domainpricing.RowKey]domainpricing.DailyResult, len(rows))
	for _, r := range rows {
		merged[r.Key()] = r
	}
	rows = sortedRows(merged)

	products := make([]domaininventory.ProductID, 0)
	seen := make(map[domaininventory.ProductID]struct{})
	for _, p := range req.Prices {
		if _, ok := seen[p.RoomProductID]; !ok {
			seen[p.RoomProductID] = struct{}{}
			products = append(products, p.RoomProductID)
		}
	}
	run := s.newRun(hotelID, dr, products, rows)
	s.logger().Info("fixed prices applied", "hotel_id", hotelID, "run_id", run.ID, "rows", len(rows))
	return Result{Run: run, Computed: len(rows)}, nil
}

// fixedPairings reuses configured method adjustments where a pairing exists and
// falls back to a bare pairing for explicitly requested plans.
func fixedPairings(prices []domainpricing.DailyPrice, details []domainpricing.MethodDetail, plans domainrateplan.Index, ratePlanIDs []string) []domainpricing.MethodDetail {
	requested := make(map[string]struct{}, len(ratePlanIDs))
	for _, id := range ratePlanIDs {
		requested[id] = struct{}{}
	}
	products := make(map[domaininventory.ProductID]struct{})
	for _, p := range prices {
		products[p.RoomProductID] = struct{}{}
	}

	type pair struct {
		product  domaininventory.ProductID
		ratePlan string
	}
	seen := make(map[pair]struct{})
	var out []domainpricing.MethodDetail
	for _, d := range details {
		if _, ok := products[d.RoomProductID]; !ok {
			continue
		}
		if len(requested) > 0 {
			if _, ok := requested[d.RatePlanID]; !ok {
				continue
			}
		}
		if plan, ok := plans.Get(d.RatePlanID); !ok || !plan.Active() {
			continue
		}
		seen[pair{d.RoomProductID, d.RatePlanID}] = struct{}{}
		out = append(out, d)
	}
	for product := range products {
		for _, id := range ratePlanIDs {
			if _, ok := seen[pair{product, id}]; ok {
				continue
			}
			if plan, ok := plans.Get(id); !ok || !plan.Active() {
				continue
			}
			out = append(out, domainpricing.MethodDetail{RoomProductID: product, RatePlanID: id})
		}
	}
	return out
}

func priceDates(prices []domainpricing.DailyPrice) ([]string, domainrange.DateRange, error) {
	set := make(map[string]struct{}, len(prices))
	for _, p := range prices {
		if _, err := domainrange.ParseDay(p.Date); err != nil {
			return nil, domainrange.DateRange{}, err
		}
		set[p.Date] = struct{}{}
	}
	dates := make([]string, 0, len(set))
	for d := range set {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	dr, err := domainrange.Parse(dates[0], dates[len(dates)-1])
	if err != nil {
		return nil, domainrange.DateRange{}, err
	}
	return dates, dr, nil
}
