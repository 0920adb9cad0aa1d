package main

import (
	"context"
	"os/signal"
	"syscall"

	appanalysis "main/internal/application/service/analysis"
	"main/internal/config"
	"main/internal/infrastructure/agents"
	infraanalysis "main/internal/infrastructure/analysis"
	"main/internal/infrastructure/broker"
	"main/internal/infrastructure/venue"

	"github.com/sirupsen/logrus"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	store, err := infraanalysis.NewRepository(ctx, cfg.Postgres.DSN)
	if err != nil {
		logger.Fatalf("failed to init analysis repo: %v", err)
	}
	defer store.Close()

	roster := agents.Roster(cfg.Agents.Enabled)
	if len(roster) == 0 {
		logger.Fatal("no analysis agents enabled")
	}

	provider := venue.NewClient(cfg.Venue, logger)
	orchestrator := appanalysis.NewOrchestrator(cfg, logger)
	service := appanalysis.NewService(provider, store, orchestrator, roster, logger)

	consumer, err := broker.NewConsumer(cfg.RabbitMQ, service, logger)
	if err != nil {
		logger.Fatalf("failed to init consumer: %v", err)
	}
	if err := consumer.Start(ctx); err != nil {
		logger.Fatalf("failed to start consumer: %v", err)
	}

	logger.WithField("agents", len(roster)).Info("analysis worker running")

	<-ctx.Done()
	logger.Info("shutting down worker")

	if err := consumer.Close(); err != nil {
		logger.Errorf("consumer shutdown error: %v", err)
	}
	logger.Info("worker stopped")
}
