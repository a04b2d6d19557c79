package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/biraj16/TPBK-V8/internal/alert"
	"github.com/biraj16/TPBK-V8/internal/config"
	"github.com/biraj16/TPBK-V8/internal/storage"
	"github.com/biraj16/TPBK-V8/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.LogLevel, cfg.Environment); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting alert delivery service",
		logger.String("stream", cfg.Alert.StreamName),
		logger.String("group", cfg.Alert.ConsumerGroup),
	)

	redisClient, err := storage.NewRedisClient(cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", logger.ErrorField(err))
	}
	defer redisClient.Close()

	deduplicator := alert.NewDeduplicator(redisClient, cfg.Alert.DedupeTTL)
	sender := alert.NewTelegramSender(
		cfg.Alert.TelegramBotToken,
		cfg.Alert.TelegramChatID,
		cfg.Alert.RetryAttempts,
		cfg.Alert.RetryDelay,
	)

	consumer := alert.NewConsumer(cfg.Alert, redisClient, deduplicator, sender)
	if err := consumer.Start(); err != nil {
		logger.Fatal("Failed to start alert consumer", logger.ErrorField(err))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down alert delivery service")
	consumer.Stop()
}
