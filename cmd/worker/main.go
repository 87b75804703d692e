// Command worker delivers queued push notifications.
package main

import (
	"log/slog"
	"os"

	"nightlife/internal/config"
	"nightlife/internal/middleware"
	"nightlife/internal/queue"

	"github.com/hibiken/asynq"
)

func main() {
	logger := middleware.Logger

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	opt, err := queue.RedisOpt(cfg.RedisURL)
	if err != nil {
		logger.Error("invalid redis url", slog.String("error", err.Error()))
		os.Exit(1)
	}

	concurrency := cfg.WorkerConcurrency
	if concurrency <= 0 {
		concurrency = 5
	}
	srv := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Logger:      queue.NewLogger(logger),
	})

	registry := queue.NewHandlersRegistry()
	registry.Register(queue.TypePushNotification, queue.NewPushHandler(cfg.PushWebhookURL))

	logger.Info("starting worker", slog.Int("concurrency", concurrency))
	if err := srv.Run(registry.Mux()); err != nil {
		logger.Error("worker error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
