package pricing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"roomrates/internal/app/policies"
	domaininventory "roomrates/internal/domain/inventory"
	domainpricing "roomrates/internal/domain/pricing"
	"roomrates/internal/domain/pricing/strategy"
	domainrateplan "roomrates/internal/domain/rateplan"
	domainrange "roomrates/internal/domain/shared/daterange"
)

var (
	ErrHotelRequired    = errors.New("pricing: hotel id is required")
	ErrCatalogMissing   = errors.New("pricing: catalog not configured")
	ErrNoPrices         = errors.New("pricing: no prices supplied")
	ErrNotComposite     = errors.New("pricing: product is not a composite")
	ErrRangeUnavailable = errors.New("pricing: date range is required")
)

// Service loads catalog data for a hotel, dispatches pairings to the strategy
// engines and returns the resulting daily rows.
type Service struct {
	Catalog policies.PricingCatalog
	Engines map[domainpricing.Bucket]strategy.Engine
	Logger  *slog.Logger
	Now     func() time.Time
}

type Request struct {
	HotelID        string
	Range          domainrange.DateRange
	RoomProductIDs []domaininventory.ProductID
	// Settings overrides the hotel's stored settings when set.
	Settings *domainpricing.Settings
	// KeepUnchanged skips the comparison against published prices.
	KeepUnchanged bool
}

type Result struct {
	Run      domainpricing.Run
	Computed int
	Skipped  int
	// Availability covers every priced product on every day of the window.
	Availability []domaininventory.DailyAvailability
}

func (r Result) Rows() []domainpricing.DailyResult { return r.Run.Rows }

// Calculate runs one pricing pass over the requested window.
func (s *Service) Calculate(ctx context.Context, req Request) (Result, error) {
	if err := s.ensureDependencies(); err != nil {
		return Result{}, err
	}
	hotelID := strings.TrimSpace(req.HotelID)
	if hotelID == "" {
		return Result{}, ErrHotelRequired
	}
	if err := req.Range.Validate(); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrRangeUnavailable, err)
	}

	data, err := s.load(ctx, hotelID, req.Range)
	if err != nil {
		return Result{}, err
	}
	settings := data.settings
	if req.Settings != nil {
		settings = *req.Settings
	}

	dates := req.Range.Days()
	in := strategy.Input{
		Dates:          dates,
		Products:       domaininventory.NewLookup(data.products),
		Features:       domainpricing.SumFeatureRates(data.features),
		Selling:        domainpricing.NewSellingIndex(data.selling),
		Adjustments:    domainrateplan.Resolve(data.plans, data.overrides, dates),
		RatePlans:      domainrateplan.NewIndex(data.plans),
		Taxes:          data.taxes,
		Availability:   domaininventory.NewSnapshot(data.assigned, data.unitAvailability, data.productAvailability),
		ExternalPrices: domainpricing.NewProductPrices(data.external),
		FixedPrices:    domainpricing.ProductPrices{},
		Settings:       settings,
	}

	details := s.selectDetails(data.details, in.RatePlans, req.RoomProductIDs)
	in.Related = relatedGraph(in.Products, data.assigned, details)

	rows := s.run(in, domainpricing.Classify(details, in.Products))
	computed := len(rows)
	if !req.KeepUnchanged {
		rows = FilterRedundantInput(rows, data.selling)
	}

	run := s.newRun(hotelID, req.Range, req.RoomProductIDs, rows)
	s.logger().Info("pricing run computed",
		"hotel_id", hotelID,
		"run_id", run.ID,
		"pairings", len(details),
		"computed", computed,
		"changed", len(rows),
	)
	return Result{
		Run:          run,
		Computed:     computed,
		Skipped:      computed - len(rows),
		Availability: dailyAvailability(in.Availability, details, dates),
	}, nil
}

func dailyAvailability(snap *domaininventory.Snapshot, details []domainpricing.MethodDetail, dates []string) []domaininventory.DailyAvailability {
	seen := make(map[domaininventory.ProductID]struct{})
	var products []domaininventory.ProductID
	for _, d := range details {
		if _, ok := seen[d.RoomProductID]; ok {
			continue
		}
		seen[d.RoomProductID] = struct{}{}
		products = append(products, d.RoomProductID)
	}
	sort.Slice(products, func(i, j int) bool { return products[i] < products[j] })
	out := make([]domaininventory.DailyAvailability, 0, len(products)*len(dates))
	for _, id := range products {
		for _, date := range dates {
			out = append(out, snap.Daily(id, date))
		}
	}
	return out
}

// run executes every bucket through its engine. Later buckets overwrite rows an
// earlier bucket produced for the same key.
func (s *Service) run(in strategy.Input, buckets domainpricing.Buckets) []domainpricing.DailyResult {
	engines := s.Engines
	if engines == nil {
		engines = strategy.Table()
	}
	merged := make(map[domainpricing.RowKey]domainpricing.DailyResult)
	for _, bucket := range strategy.Order {
		details := buckets[bucket]
		if len(details) == 0 {
			continue
		}
		engine, ok := engines[bucket]
		if !ok {
			s.logger().Warn("no engine for bucket", "bucket", bucket, "pairings", len(details))
			continue
		}
		for _, row := range engine(in.WithDetails(bucket, details)) {
			merged[row.Key()] = row
		}
	}
	return sortedRows(merged)
}

// selectDetails keeps pairings of active rate plans, narrowed to the requested
// products when any are given.
func (s *Service) selectDetails(details []domainpricing.MethodDetail, plans domainrateplan.Index, products []domaininventory.ProductID) []domainpricing.MethodDetail {
	wanted := make(map[domaininventory.ProductID]struct{}, len(products))
	for _, id := range products {
		wanted[id] = struct{}{}
	}
	out := make([]domainpricing.MethodDetail, 0, len(details))
	for _, d := range details {
		if len(wanted) > 0 {
			if _, ok := wanted[d.RoomProductID]; !ok {
				continue
			}
		}
		plan, ok := plans.Get(d.RatePlanID)
		if !ok || !plan.Active() {
			continue
		}
		out = append(out, d)
	}
	return out
}

type catalogData struct {
	products            []domaininventory.RoomProduct
	assigned            domaininventory.AssignedUnits
	plans               []domainrateplan.RatePlan
	overrides           []domainrateplan.DailyAdjustment
	details             []domainpricing.MethodDetail
	features            []domainpricing.FeatureRate
	taxes               []domainpricing.TaxSetting
	selling             []domainpricing.SellingPrice
	external            []domainpricing.DailyPrice
	unitAvailability    []domaininventory.UnitAvailability
	productAvailability []domaininventory.ProductAvailability
	settings            domainpricing.Settings
}

// load fetches every collaborator dataset concurrently.
func (s *Service) load(ctx context.Context, hotelID string, dr domainrange.DateRange) (catalogData, error) {
	var data catalogData
	c := s.Catalog
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		data.products, err = c.Products(gctx, hotelID)
		return wrap("products", err)
	})
	g.Go(func() (err error) {
		data.assigned, err = c.AssignedUnits(gctx, hotelID)
		return wrap("assigned units", err)
	})
	g.Go(func() (err error) {
		data.plans, err = c.RatePlans(gctx, hotelID)
		return wrap("rate plans", err)
	})
	g.Go(func() (err error) {
		data.overrides, err = c.DailyAdjustments(gctx, hotelID, dr.From, dr.To)
		return wrap("daily adjustments", err)
	})
	g.Go(func() (err error) {
		data.details, err = c.MethodDetails(gctx, hotelID)
		return wrap("method details", err)
	})
	g.Go(func() (err error) {
		data.features, err = c.FeatureRates(gctx, hotelID, dr.From, dr.To)
		return wrap("feature rates", err)
	})
	g.Go(func() (err error) {
		data.taxes, err = c.TaxSettings(gctx, hotelID)
		return wrap("tax settings", err)
	})
	g.Go(func() (err error) {
		data.selling, err = c.SellingPrices(gctx, hotelID, dr.From, dr.To)
		return wrap("selling prices", err)
	})
	g.Go(func() (err error) {
		data.external, err = c.ExternalPrices(gctx, hotelID, dr.From, dr.To)
		return wrap("external prices", err)
	})
	g.Go(func() (err error) {
		data.unitAvailability, err = c.UnitAvailability(gctx, hotelID, dr.From, dr.To)
		return wrap("unit availability", err)
	})
	g.Go(func() (err error) {
		data.productAvailability, err = c.ProductAvailability(gctx, hotelID, dr.From, dr.To)
		return wrap("product availability", err)
	})
	g.Go(func() (err error) {
		data.settings, err = c.Settings(gctx, hotelID)
		return wrap("settings", err)
	})
	if err := g.Wait(); err != nil {
		return catalogData{}, err
	}
	return data, nil
}

func wrap(what string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("pricing: load %s: %w", what, err)
}

func (s *Service) newRun(hotelID string, dr domainrange.DateRange, products []domaininventory.ProductID, rows []domainpricing.DailyResult) domainpricing.Run {
	return domainpricing.Run{
		ID:        uuid.NewString(),
		HotelID:   hotelID,
		From:      domainrange.FormatDay(dr.From),
		To:        domainrange.FormatDay(dr.To),
		CreatedAt: s.now(),
		Products:  products,
		Rows:      rows,
	}
}

func sortedRows(rows map[domainpricing.RowKey]domainpricing.DailyResult) []domainpricing.DailyResult {
	out := make([]domainpricing.DailyResult, 0, len(rows))
	for _, r := range rows {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.RoomProductID != b.RoomProductID {
			return a.RoomProductID < b.RoomProductID
		}
		if a.RatePlanID != b.RatePlanID {
			return a.RatePlanID < b.RatePlanID
		}
		return a.Date < b.Date
	})
	return out
}

func (s *Service) ensureDependencies() error {
	if s == nil || s.Catalog == nil {
		return ErrCatalogMissing
	}
	return nil
}

func (s *Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
