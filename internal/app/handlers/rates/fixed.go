package rates

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"roomrates/internal/app/commands"
	"roomrates/internal/app/dto"
	"roomrates/internal/app/policies"
	"roomrates/internal/app/ratesync"
	pricingsvc "roomrates/internal/app/services/pricing"
	domaininventory "roomrates/internal/domain/inventory"
	domainpricing "roomrates/internal/domain/pricing"
	domainrange "roomrates/internal/domain/shared/daterange"
)

const ApplyFixedPricesKey = "rates.fixed"

var (
	ErrPricesRequired = errors.New("rates: at least one price is required")
	ErrNegativePrice  = errors.New("rates: fixed price must be positive")
)

type FixedPrice struct {
	RoomProductID string
	Date          string
	Price         decimal.Decimal
}

type ApplyFixedPricesCommand struct {
	HotelID     string
	RatePlanIDs []string
	Prices      []FixedPrice
}

func (c ApplyFixedPricesCommand) Key() string { return ApplyFixedPricesKey }

func (c ApplyFixedPricesCommand) Validate() error {
	if strings.TrimSpace(c.HotelID) == "" {
		return ErrHotelRequired
	}
	if len(c.Prices) == 0 {
		return ErrPricesRequired
	}
	for _, p := range c.Prices {
		if _, err := domainrange.ParseDay(p.Date); err != nil {
			return err
		}
		if !p.Price.IsPositive() {
			return ErrNegativePrice
		}
	}
	return nil
}

type ApplyFixedPricesHandler struct {
	Pricing  *pricingsvc.Service
	Pusher   *ratesync.Pusher
	Archiver policies.SnapshotArchiver
	Logger   *slog.Logger
}

func (h *ApplyFixedPricesHandler) Handle(ctx context.Context, cmd ApplyFixedPricesCommand) (dto.RunSummary, error) {
	prices := make([]domainpricing.DailyPrice, 0, len(cmd.Prices))
	for _, p := range cmd.Prices {
		prices = append(prices, domainpricing.DailyPrice{
			RoomProductID: domaininventory.ProductID(p.RoomProductID),
			Date:          p.Date,
			Price:         p.Price,
		})
	}
	res, err := h.Pricing.ApplyFixedPrices(ctx, pricingsvc.FixedPriceRequest{
		HotelID:     cmd.HotelID,
		Prices:      prices,
		RatePlanIDs: cmd.RatePlanIDs,
	})
	if err != nil {
		return dto.RunSummary{}, err
	}
	summary := dto.RunSummary{
		RunID:    res.Run.ID,
		HotelID:  res.Run.HotelID,
		From:     res.Run.From,
		To:       res.Run.To,
		Computed: res.Computed,
	}
	report, err := h.Pusher.PushRates(ctx, cmd.HotelID, res.Rows())
	if err != nil {
		return summary, err
	}
	summary.RatesPublished, summary.RatesSkipped = report.Published, report.Skipped
	summary.ArchiveKey = archive(ctx, h.Archiver, h.Logger, res.Run)
	return summary, nil
}

var _ commands.Handler[ApplyFixedPricesCommand, dto.RunSummary] = (*ApplyFixedPricesHandler)(nil)
