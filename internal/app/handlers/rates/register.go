package rates

import (
	"log/slog"

	"roomrates/internal/app/commands"
	"roomrates/internal/app/dto"
	"roomrates/internal/app/policies"
	"roomrates/internal/app/queries"
	"roomrates/internal/app/ratesync"
	pricingsvc "roomrates/internal/app/services/pricing"
)

type Deps struct {
	Pricing  *pricingsvc.Service
	Pusher   *ratesync.Pusher
	Archiver policies.SnapshotArchiver
	Logger   *slog.Logger
}

// Register wires every rate handler onto the buses.
func Register(cmdBus *commands.InMemoryBus, queryBus *queries.InMemoryBus, deps Deps) {
	commands.Register[RecalculateRatesCommand, dto.RunSummary](cmdBus, RecalculateKey, &RecalculateRatesHandler{
		Pricing:  deps.Pricing,
		Pusher:   deps.Pusher,
		Archiver: deps.Archiver,
		Logger:   deps.Logger,
	})
	commands.Register[ApplyFixedPricesCommand, dto.RunSummary](cmdBus, ApplyFixedPricesKey, &ApplyFixedPricesHandler{
		Pricing:  deps.Pricing,
		Pusher:   deps.Pusher,
		Archiver: deps.Archiver,
		Logger:   deps.Logger,
	})
	queries.Register[PreviewRatesQuery, dto.Preview](queryBus, PreviewKey, &PreviewRatesHandler{Pricing: deps.Pricing})
	queries.Register[DefaultAveragePriceQuery, dto.DefaultPrice](queryBus, DefaultPriceKey, &DefaultAveragePriceHandler{Pricing: deps.Pricing})
}
