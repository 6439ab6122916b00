package rateplan

import (
	"context"
	"time"

	"roomrates/internal/domain/pricing"
)

type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

type RatePlan struct {
	ID                string
	HotelID           string
	Code              string
	Status            Status
	DefaultAdjustment pricing.Adjustment
	// AttributePricing keeps redistributed component prices at or above the anchor.
	AttributePricing bool
}

func (p RatePlan) Active() bool {
	return p.Status == StatusActive
}

// DailyAdjustment overrides a plan's default adjustment on one day.
type DailyAdjustment struct {
	RatePlanID string
	Date       string
	Adjustment pricing.Adjustment
}

type Repository interface {
	RatePlans(ctx context.Context, hotelID string) ([]RatePlan, error)
	DailyAdjustments(ctx context.Context, hotelID string, from, to time.Time) ([]DailyAdjustment, error)
}

// Index looks up plans by id.
type Index map[string]RatePlan

func NewIndex(plans []RatePlan) Index {
	out := make(Index, len(plans))
	for _, p := range plans {
		out[p.ID] = p
	}
	return out
}

func (i Index) Get(id string) (RatePlan, bool) {
	p, ok := i[id]
	return p, ok
}
