// Package bootstrap assembles the rate engine from configuration. Both binaries
// share it so the HTTP server and the operator CLI run identical pipelines.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"roomrates/internal/app/changedetect"
	"roomrates/internal/app/commands"
	ratesapp "roomrates/internal/app/handlers/rates"
	"roomrates/internal/app/middleware"
	"roomrates/internal/app/policies"
	"roomrates/internal/app/queries"
	"roomrates/internal/app/ratesync"
	pricingsvc "roomrates/internal/app/services/pricing"
	domainpricing "roomrates/internal/domain/pricing"
	"roomrates/internal/infra/broker/kafka"
	"roomrates/internal/infra/config"
	mongodb "roomrates/internal/infra/db/mongo"
	"roomrates/internal/infra/inbox"
	"roomrates/internal/infra/obs"
	"roomrates/internal/infra/storage/memory"
	"roomrates/internal/infra/storage/s3"
	"roomrates/internal/infra/storage/scylla"
)

type App struct {
	Config   config.Config
	Logger   *slog.Logger
	Commands commands.Bus
	Queries  queries.Bus
	Health   obs.HealthHandlers
	Triggers *ratesapp.TriggerHandler
	// Consumer is nil when Kafka is not configured.
	Consumer *kafka.Consumer

	closers []func(context.Context) error
}

// Build connects every backend named by cfg and registers the rate handlers.
func Build(cfg config.Config, logger *slog.Logger) (*App, error) {
	app := &App{Config: cfg, Logger: logger, Health: obs.HealthHandlers{Checks: map[string]obs.Check{}}}

	mongoClient, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: mongo: %w", err)
	}
	app.onClose(mongoClient.Close)
	app.Health.Checks["mongo"] = mongoClient.Ping

	catalog := mongodb.NewCatalogRepository(mongoClient.DB, defaultSettings(cfg))

	changes, err := app.changeDetector(cfg, mongoClient)
	if err != nil {
		app.Close(context.Background())
		return nil, err
	}

	publisher, err := app.publisher(cfg)
	if err != nil {
		app.Close(context.Background())
		return nil, err
	}

	archiver, err := app.archiver(cfg)
	if err != nil {
		app.Close(context.Background())
		return nil, err
	}

	cmdBus := commands.NewInMemoryBus()
	queryBus := queries.NewInMemoryBus()
	ratesapp.Register(cmdBus, queryBus, ratesapp.Deps{
		Pricing:  &pricingsvc.Service{Catalog: catalog, Logger: logger},
		Pusher:   &ratesync.Pusher{Publisher: publisher, Changes: changes, Logger: logger},
		Archiver: archiver,
		Logger:   logger,
	})
	app.Commands = middleware.ChainCommands(cmdBus, middleware.Logging(logger), middleware.Validation())
	app.Queries = middleware.ChainQueries(queryBus, middleware.QueryLogging(logger), middleware.QueryValidation())

	app.Triggers = &ratesapp.TriggerHandler{
		Commands: app.Commands,
		Inbox:    inbox.NewStore(mongoClient.DB, cfg.KafkaConsumerGroup),
		Logger:   logger,
	}
	if cfg.KafkaEnabled() {
		consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaConsumerGroup, app.Triggers, logger)
		if err != nil {
			app.Close(context.Background())
			return nil, fmt.Errorf("bootstrap: kafka consumer: %w", err)
		}
		app.Consumer = consumer
		app.onClose(func(context.Context) error { return consumer.Close() })
	}
	return app, nil
}

// TriggerTopics are the topics the consumer subscribes to.
func (a *App) TriggerTopics() []string {
	return []string{a.Config.KafkaTopicPrefix + kafka.TriggerTopic}
}

// Close releases backends in reverse order of creation.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) onClose(fn func(context.Context) error) {
	a.closers = append(a.closers, fn)
}

func (a *App) changeDetector(cfg config.Config, mongoClient *mongodb.Client) (policies.ChangeDetector, error) {
	var store policies.HashStore
	switch cfg.HashStore {
	case config.HashStoreDisabled:
		a.Logger.Warn("change detection disabled; every row is pushed")
		return changedetect.Disabled(), nil
	case config.HashStoreMemory:
		store = memory.NewHashStore()
	case config.HashStoreScylla:
		session, err := scylla.NewSession(cfg, a.Logger)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: scylla: %w", err)
		}
		a.onClose(func(context.Context) error { session.Close(); return nil })
		store = scylla.NewHashStore(session)
	default:
		store = mongodb.NewHashStore(mongoClient.DB)
	}
	return &changedetect.Cache{
		Store:     store,
		ChunkSize: cfg.HashChunkSize,
		TTL:       cfg.HashTTL,
		Logger:    a.Logger,
	}, nil
}

func (a *App) publisher(cfg config.Config) (policies.RatePublisher, error) {
	if !cfg.KafkaEnabled() {
		a.Logger.Warn("KAFKA_BROKERS not set; computed rates are kept in memory only")
		return &memory.Publisher{}, nil
	}
	producer, err := kafka.NewProducer(cfg.KafkaBrokers, kafka.NewConfig("roomrates-engine"))
	if err != nil {
		return nil, fmt.Errorf("bootstrap: kafka producer: %w", err)
	}
	a.onClose(func(context.Context) error { return producer.Close() })
	return &kafka.RatePublisher{Producer: producer, TopicPrefix: cfg.KafkaTopicPrefix}, nil
}

func (a *App) archiver(cfg config.Config) (policies.SnapshotArchiver, error) {
	if !cfg.ArchiveEnabled() {
		return policies.NoopArchiver{}, nil
	}
	archiver, err := s3.NewArchiver(cfg.S3Endpoint, cfg.S3UseSSL, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, a.Logger)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: s3: %w", err)
	}
	return archiver, nil
}

func defaultSettings(cfg config.Config) domainpricing.Settings {
	s := domainpricing.DefaultSettings()
	s.AverageMode = domainpricing.ParseAverageMode(cfg.AverageMode)
	s.RoundingMode = domainpricing.ParseRoundingMode(cfg.RoundingMode)
	return s
}
