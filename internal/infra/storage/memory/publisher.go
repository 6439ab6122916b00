package memory

import (
	"context"
	"sync"

	"roomrates/internal/app/policies"
	"roomrates/internal/domain/syncstate"
)

// Publisher records pushes instead of sending them anywhere.
type Publisher struct {
	mu           sync.Mutex
	Rates        []syncstate.Rate
	Availability []syncstate.Availability
	Err          error
}

var _ policies.RatePublisher = (*Publisher)(nil)

func (p *Publisher) PublishRates(_ context.Context, _ string, rates []syncstate.Rate) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.Rates = append(p.Rates, rates...)
	return nil
}

func (p *Publisher) PublishAvailability(_ context.Context, _ string, items []syncstate.Availability) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.Availability = append(p.Availability, items...)
	return nil
}
