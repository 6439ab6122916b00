package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"roomrates/internal/infra/bootstrap"
	"roomrates/internal/infra/config"
	ginserver "roomrates/internal/infra/http/gin"
	"roomrates/internal/infra/obs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := obs.NewLogger(getenv("APP_ENV", "dev"))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	app, err := bootstrap.Build(cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.Close(closeCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}()

	server := ginserver.NewServer(cfg.HTTPAddr, cfg.Env, obs.Middleware{Logger: logger}, app.Health, ginserver.Handlers{
		Rates: ginserver.RatesHandler{Commands: app.Commands, Queries: app.Queries, Logger: logger},
	})

	if app.Consumer != nil {
		go func() {
			topics := app.TriggerTopics()
			logger.Info("trigger consumer starting", "topics", topics, "group", cfg.KafkaConsumerGroup)
			if err := app.Consumer.Run(ctx, topics); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("trigger consumer stopped", "error", err)
				stop()
			}
		}()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
