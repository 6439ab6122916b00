package rates

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"roomrates/internal/app/commands"
	"roomrates/internal/app/dto"
	"roomrates/internal/app/policies"
	"roomrates/internal/app/ratesync"
	pricingsvc "roomrates/internal/app/services/pricing"
	domaininventory "roomrates/internal/domain/inventory"
	domainpricing "roomrates/internal/domain/pricing"
	domainrange "roomrates/internal/domain/shared/daterange"
	"roomrates/internal/domain/syncstate"
)

const RecalculateKey = "rates.recalculate"

var ErrHotelRequired = errors.New("rates: hotel id is required")

type RecalculateRatesCommand struct {
	HotelID        string
	From           string
	To             string
	RoomProductIDs []string
	// Force pushes every computed row, even those equal to the published price.
	Force bool
}

func (c RecalculateRatesCommand) Key() string { return RecalculateKey }

func (c RecalculateRatesCommand) Validate() error {
	if strings.TrimSpace(c.HotelID) == "" {
		return ErrHotelRequired
	}
	_, err := domainrange.Parse(c.From, c.To)
	return err
}

// RecalculateRatesHandler prices a window, pushes what changed and archives the run.
type RecalculateRatesHandler struct {
	Pricing  *pricingsvc.Service
	Pusher   *ratesync.Pusher
	Archiver policies.SnapshotArchiver
	Logger   *slog.Logger
}

func (h *RecalculateRatesHandler) Handle(ctx context.Context, cmd RecalculateRatesCommand) (dto.RunSummary, error) {
	dr, err := domainrange.Parse(cmd.From, cmd.To)
	if err != nil {
		return dto.RunSummary{}, err
	}
	res, err := h.Pricing.Calculate(ctx, pricingsvc.Request{
		HotelID:        cmd.HotelID,
		Range:          dr,
		RoomProductIDs: productIDs(cmd.RoomProductIDs),
		KeepUnchanged:  cmd.Force,
	})
	if err != nil {
		return dto.RunSummary{}, err
	}

	summary := dto.RunSummary{
		RunID:     res.Run.ID,
		HotelID:   res.Run.HotelID,
		From:      res.Run.From,
		To:        res.Run.To,
		Computed:  res.Computed,
		Unchanged: res.Skipped,
	}
	rateReport, err := h.Pusher.PushRates(ctx, cmd.HotelID, res.Rows())
	if err != nil {
		return summary, err
	}
	summary.RatesPublished, summary.RatesSkipped = rateReport.Published, rateReport.Skipped

	avail := make([]syncstate.Availability, 0, len(res.Availability))
	for _, a := range res.Availability {
		avail = append(avail, syncstate.AvailabilityFromDaily(cmd.HotelID, a))
	}
	availReport, err := h.Pusher.PushAvailability(ctx, cmd.HotelID, avail)
	if err != nil {
		return summary, err
	}
	summary.AvailabilityPublished, summary.AvailabilitySkipped = availReport.Published, availReport.Skipped

	summary.ArchiveKey = archive(ctx, h.Archiver, h.Logger, res.Run)
	return summary, nil
}

// archive stores the run snapshot; a failed archive never fails the run.
func archive(ctx context.Context, archiver policies.SnapshotArchiver, log *slog.Logger, run domainpricing.Run) string {
	if archiver == nil {
		return ""
	}
	key, err := archiver.Archive(ctx, run)
	if err != nil {
		if log != nil {
			log.Warn("archive run snapshot", "run_id", run.ID, "hotel_id", run.HotelID, "error", err)
		}
		return ""
	}
	return key
}

func productIDs(raw []string) []domaininventory.ProductID {
	out := make([]domaininventory.ProductID, 0, len(raw))
	for _, id := range raw {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, domaininventory.ProductID(id))
		}
	}
	return out
}

var _ commands.Handler[RecalculateRatesCommand, dto.RunSummary] = (*RecalculateRatesHandler)(nil)
