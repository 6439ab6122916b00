// Package ratesync pushes computed prices and availability downstream, skipping
// whatever the change-detection cache has already seen.
package ratesync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"roomrates/internal/app/changedetect"
	"roomrates/internal/app/policies"
	domainpricing "roomrates/internal/domain/pricing"
	"roomrates/internal/domain/syncstate"
)

var ErrPublisherMissing = errors.New("ratesync: publisher not configured")

type Pusher struct {
	Publisher policies.RatePublisher
	Changes   policies.ChangeDetector
	Logger    *slog.Logger
}

// Report summarizes one push.
type Report struct {
	Total     int `json:"total"`
	Published int `json:"published"`
	Skipped   int `json:"skipped"`
}

// PushRates publishes changed rows, then records their digests. Digests are only
// written after the publisher acknowledged the batch.
func (p *Pusher) PushRates(ctx context.Context, hotelID string, rows []domainpricing.DailyResult) (Report, error) {
	if p == nil || p.Publisher == nil {
		return Report{}, ErrPublisherMissing
	}
	items := make([]syncstate.Item, 0, len(rows))
	for _, r := range rows {
		it, err := syncstate.NewItem(syncstate.RateFromResult(hotelID, r))
		if err != nil {
			return Report{}, err
		}
		items = append(items, it)
	}
	changed := p.changes().FilterChanged(ctx, items)
	report := Report{Total: len(items), Published: len(changed), Skipped: len(items) - len(changed)}
	if len(changed) == 0 {
		return report, nil
	}

	rates := make([]syncstate.Rate, 0, len(changed))
	for _, it := range changed {
		rates = append(rates, it.Entity.(syncstate.Rate))
	}
	if err := p.Publisher.PublishRates(ctx, hotelID, rates); err != nil {
		return Report{Total: report.Total}, fmt.Errorf("ratesync: publish rates: %w", err)
	}
	p.remember(ctx, hotelID, changed)
	return report, nil
}

// PushAvailability is PushRates for availability entries.
func (p *Pusher) PushAvailability(ctx context.Context, hotelID string, entries []syncstate.Availability) (Report, error) {
	if p == nil || p.Publisher == nil {
		return Report{}, ErrPublisherMissing
	}
	items := make([]syncstate.Item, 0, len(entries))
	for _, e := range entries {
		e.HotelID = hotelID
		it, err := syncstate.NewItem(e)
		if err != nil {
			return Report{}, err
		}
		items = append(items, it)
	}
	changed := p.changes().FilterChanged(ctx, items)
	report := Report{Total: len(items), Published: len(changed), Skipped: len(items) - len(changed)}
	if len(changed) == 0 {
		return report, nil
	}

	out := make([]syncstate.Availability, 0, len(changed))
	for _, it := range changed {
		out = append(out, it.Entity.(syncstate.Availability))
	}
	if err := p.Publisher.PublishAvailability(ctx, hotelID, out); err != nil {
		return Report{Total: report.Total}, fmt.Errorf("ratesync: publish availability: %w", err)
	}
	p.remember(ctx, hotelID, changed)
	return report, nil
}

// remember never fails the push; a lost digest only costs a repeat publish.
func (p *Pusher) remember(ctx context.Context, hotelID string, items []syncstate.Item) {
	if err := p.changes().SetHashes(ctx, items); err != nil {
		p.logger().Warn("store push digests", "hotel_id", hotelID, "items", len(items), "error", err)
	}
}

func (p *Pusher) changes() policies.ChangeDetector {
	if p.Changes != nil {
		return p.Changes
	}
	return changedetect.Disabled()
}

func (p *Pusher) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}
