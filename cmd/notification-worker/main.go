package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"school-management-api/internal/config"
	"school-management-api/internal/logger"
	"school-management-api/internal/notification"
	"school-management-api/internal/queue"
	"school-management-api/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.Get()

	log.Info().Str("version", cfg.App.Version).Str("provider", cfg.Email.Provider).Msg("Starting notification worker")

	redisClient, err := queue.NewRedisClient(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()

	sender, err := notification.NewSender(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize email sender")
	}

	notificationWorker := worker.NewNotificationWorker(cfg, redisClient, sender)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- notificationWorker.Start(ctx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-done:
		log.Fatal().Err(err).Msg("Notification worker failed")
	}

	log.Info().Msg("Shutting down notification worker...")

	// The consumer must stop submitting before the pool closes.
	cancel()
	if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("Notification worker stopped with error")
	}
	notificationWorker.Stop()

	log.Info().Msg("Notification worker exited")
}
