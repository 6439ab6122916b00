package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"roomrates/internal/app/commands"
	"roomrates/internal/app/dto"
	"roomrates/internal/app/policies"
)

// Inventory event types that move prices.
const (
	EventInventoryChanged   = "inventory.changed"
	EventRatePlanChanged    = "rateplan.changed"
	EventFeatureRateChanged = "feature_rate.changed"
)

var ErrMalformedEvent = errors.New("rates: malformed inventory event")

// InventoryEvent is the envelope of messages on the inventory topic.
type InventoryEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		HotelID        string   `json:"hotel_id"`
		From           string   `json:"from"`
		To             string   `json:"to"`
		RoomProductIDs []string `json:"room_product_ids"`
	} `json:"data"`
}

// TriggerHandler turns inventory events into recalculation commands. An event id
// is marked in the inbox only after its recalculation succeeded, so a failed
// event is retried on redelivery.
type TriggerHandler struct {
	Commands commands.Bus
	Inbox    policies.Inbox
	Logger   *slog.Logger
}

// HandleEvent returns nil for events it deliberately drops so the consumer can
// commit past them.
func (h *TriggerHandler) HandleEvent(ctx context.Context, payload []byte) error {
	var ev InventoryEvent
	if err := json.Unmarshal(payload, &ev); err != nil || ev.ID == "" {
		h.log().Warn("drop malformed inventory event", "error", err)
		return nil
	}
	switch ev.Type {
	case EventInventoryChanged, EventRatePlanChanged, EventFeatureRateChanged:
	default:
		return nil
	}
	if h.Inbox != nil {
		seen, err := h.Inbox.Seen(ctx, ev.ID)
		if err != nil {
			return fmt.Errorf("rates: inbox: %w", err)
		}
		if seen {
			h.log().Debug("skip duplicate inventory event", "event_id", ev.ID)
			return nil
		}
	}
	cmd := RecalculateRatesCommand{
		HotelID:        ev.Data.HotelID,
		From:           ev.Data.From,
		To:             ev.Data.To,
		RoomProductIDs: ev.Data.RoomProductIDs,
	}
	if err := cmd.Validate(); err != nil {
		h.log().Warn("drop invalid inventory event", "event_id", ev.ID, "error", fmt.Errorf("%w: %w", ErrMalformedEvent, err))
		return nil
	}
	summary, err := commands.Dispatch[RecalculateRatesCommand, dto.RunSummary](ctx, h.Commands, cmd)
	if err != nil {
		return err
	}
	if h.Inbox != nil {
		if err := h.Inbox.Mark(ctx, ev.ID); err != nil {
			// the run already went out; a redelivery recomputes and the change cache skips it
			h.log().Error("mark inventory event", "event_id", ev.ID, "error", err)
		}
	}
	h.log().Info("recalculated from event",
		"event_id", ev.ID,
		"hotel_id", summary.HotelID,
		"run_id", summary.RunID,
		"rates_published", summary.RatesPublished,
	)
	return nil
}

func (h *TriggerHandler) log() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}
