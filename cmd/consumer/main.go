package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spacesedan/feedbackflow/config"
	"github.com/spacesedan/feedbackflow/internal/bootstrap"
	"github.com/spacesedan/feedbackflow/internal/clients/kafka_client"
	"github.com/spacesedan/feedbackflow/internal/consumers"
	"github.com/spacesedan/feedbackflow/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("[Main] Invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logging.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kcfg := kafka_client.NewKafkaConfig(cfg)

	var producer *kafka_client.ResultProducer
	for {
		producer, err = kafka_client.NewResultProducer(kcfg)
		if err == nil {
			break
		}
		slog.Warn("[Main] Kafka init failed, retrying...", slog.String("error", err.Error()))
		select {
		case <-ctx.Done():
			return
		case <-time.After(5 * time.Second):
		}
	}
	defer producer.Close()

	store, closeStore, err := bootstrap.FeedbackStore(ctx, cfg)
	if err != nil {
		slog.Error("[Main] Failed to open feedback store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	pipeline, closeBackends, err := bootstrap.Pipeline(ctx, cfg)
	if err != nil {
		slog.Error("[Main] Failed to build pipeline", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeBackends()

	consumer, err := kafka_client.NewConsumer(kcfg)
	if err != nil {
		slog.Error("[Main] Failed to start consumer", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer consumer.Close()

	handler := consumers.NewAnalysisRequestConsumer(
		store,
		pipeline,
		producer,
		kafka_client.NewCommitHandler(consumer),
		cfg.BatchWindow,
	)
	if err := handler.Run(ctx, kafka_client.NewKafkaMessageIterator(ctx, consumer)); err != nil {
		slog.Error("[Main] Consumer stopped", slog.String("error", err.Error()))
	}
}
