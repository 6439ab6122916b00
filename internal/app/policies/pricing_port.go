package policies

import (
	"context"

	"roomrates/internal/domain/inventory"
	"roomrates/internal/domain/pricing"
	"roomrates/internal/domain/rateplan"
	"roomrates/internal/domain/syncstate"
)

// PricingCatalog is every read the pricing service makes against persistence.
type PricingCatalog interface {
	inventory.Repository
	inventory.AvailabilityRepository
	rateplan.Repository
	pricing.MethodRepository
	pricing.FeatureRateRepository
	pricing.TaxRepository
	pricing.SellingPriceRepository
	pricing.SettingsRepository
}

// HashStore is the key-value backend of the change-detection cache. Lookup
// returns only the keys it knows.
type HashStore interface {
	Lookup(ctx context.Context, keys []string) (map[string]string, error)
	Store(ctx context.Context, entries []syncstate.Entry) error
}

// ChangeDetector reports which items differ from what was last pushed.
type ChangeDetector interface {
	FilterChanged(ctx context.Context, items []syncstate.Item) []syncstate.Item
	SetHashes(ctx context.Context, items []syncstate.Item) error
}

// RatePublisher delivers computed state downstream. A nil error means delivery
// was acknowledged.
type RatePublisher interface {
	PublishRates(ctx context.Context, hotelID string, rates []syncstate.Rate) error
	PublishAvailability(ctx context.Context, hotelID string, items []syncstate.Availability) error
}

type SnapshotArchiver interface {
	Archive(ctx context.Context, run pricing.Run) (string, error)
}

// NoopArchiver drops snapshots.
type NoopArchiver struct{}

func (NoopArchiver) Archive(context.Context, pricing.Run) (string, error) { return "", nil }

// Inbox deduplicates consumed events. Seen only reads; Mark records eventID and is
// called once the event was fully processed, so a failed event stays unseen.
type Inbox interface {
	Seen(ctx context.Context, eventID string) (bool, error)
	Mark(ctx context.Context, eventID string) error
}
