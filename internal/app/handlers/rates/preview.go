package rates

import (
	"context"
	"strings"

	"roomrates/internal/app/dto"
	"roomrates/internal/app/queries"
	pricingsvc "roomrates/internal/app/services/pricing"
	domaininventory "roomrates/internal/domain/inventory"
	domainpricing "roomrates/internal/domain/pricing"
	domainrange "roomrates/internal/domain/shared/daterange"
)

const (
	PreviewKey      = "rates.preview"
	DefaultPriceKey = "rates.default_price"
)

// PreviewRatesQuery computes rates without publishing them. Empty mode fields
// keep the hotel's stored settings.
type PreviewRatesQuery struct {
	HotelID          string
	From             string
	To               string
	RoomProductIDs   []string
	AverageMode      string
	RoundingMode     string
	IncludeUnchanged bool
}

func (q PreviewRatesQuery) Key() string { return PreviewKey }

func (q PreviewRatesQuery) Validate() error {
	return RecalculateRatesCommand{HotelID: q.HotelID, From: q.From, To: q.To}.Validate()
}

type PreviewRatesHandler struct {
	Pricing *pricingsvc.Service
}

func (h *PreviewRatesHandler) Handle(ctx context.Context, q PreviewRatesQuery) (dto.Preview, error) {
	if h.Pricing == nil || h.Pricing.Catalog == nil {
		return dto.Preview{}, pricingsvc.ErrCatalogMissing
	}
	dr, err := domainrange.Parse(q.From, q.To)
	if err != nil {
		return dto.Preview{}, err
	}
	req := pricingsvc.Request{
		HotelID:        q.HotelID,
		Range:          dr,
		RoomProductIDs: productIDs(q.RoomProductIDs),
		KeepUnchanged:  q.IncludeUnchanged,
	}
	if q.AverageMode != "" || q.RoundingMode != "" {
		settings, err := h.Pricing.Catalog.Settings(ctx, q.HotelID)
		if err != nil {
			return dto.Preview{}, err
		}
		if q.AverageMode != "" {
			settings.AverageMode = domainpricing.ParseAverageMode(strings.ToUpper(q.AverageMode))
		}
		if q.RoundingMode != "" {
			settings.RoundingMode = domainpricing.ParseRoundingMode(strings.ToUpper(q.RoundingMode))
		}
		req.Settings = &settings
	}
	res, err := h.Pricing.Calculate(ctx, req)
	if err != nil {
		return dto.Preview{}, err
	}
	return dto.Preview{
		RunID:    res.Run.ID,
		HotelID:  res.Run.HotelID,
		From:     res.Run.From,
		To:       res.Run.To,
		Computed: res.Computed,
		Rates:    dto.MapDailyRates(res.Rows()),
	}, nil
}

type DefaultAveragePriceQuery struct {
	HotelID       string
	RoomProductID string
}

func (q DefaultAveragePriceQuery) Key() string { return DefaultPriceKey }

func (q DefaultAveragePriceQuery) Validate() error {
	if strings.TrimSpace(q.HotelID) == "" {
		return ErrHotelRequired
	}
	if strings.TrimSpace(q.RoomProductID) == "" {
		return domaininventory.ErrProductNotFound
	}
	return nil
}

type DefaultAveragePriceHandler struct {
	Pricing *pricingsvc.Service
}

func (h *DefaultAveragePriceHandler) Handle(ctx context.Context, q DefaultAveragePriceQuery) (dto.DefaultPrice, error) {
	price, err := h.Pricing.DefaultAveragePrice(ctx, q.HotelID, domaininventory.ProductID(q.RoomProductID))
	if err != nil {
		return dto.DefaultPrice{}, err
	}
	return dto.DefaultPrice{HotelID: q.HotelID, RoomProductID: q.RoomProductID, Price: price}, nil
}

var (
	_ queries.Handler[PreviewRatesQuery, dto.Preview]             = (*PreviewRatesHandler)(nil)
	_ queries.Handler[DefaultAveragePriceQuery, dto.DefaultPrice] = (*DefaultAveragePriceHandler)(nil)
)
