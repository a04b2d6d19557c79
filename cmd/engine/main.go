package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/biraj16/TPBK-V8/internal/api"
	"github.com/biraj16/TPBK-V8/internal/config"
	"github.com/biraj16/TPBK-V8/internal/driverstore"
	"github.com/biraj16/TPBK-V8/internal/engine"
	"github.com/biraj16/TPBK-V8/internal/models"
	"github.com/biraj16/TPBK-V8/internal/notify"
	"github.com/biraj16/TPBK-V8/internal/state"
	"github.com/biraj16/TPBK-V8/internal/storage"
	"github.com/biraj16/TPBK-V8/pkg/logger"
)

const snapshotWorkers = 4

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

	logger.Info("Starting thesis engine service",
		logger.String("segment", cfg.Engine.Segment),
		logger.String("snapshot_stream", cfg.Engine.SnapshotStream),
		logger.String("driver_store", cfg.Engine.DriverStoreType),
	)

	redisClient, err := storage.NewRedisClient(cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", logger.ErrorField(err))
	}
	defer redisClient.Close()

	signalLog, err := storage.NewSignalLog(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize signal log", logger.ErrorField(err))
	}
	defer signalLog.Close()

	var driverStore driverstore.Store
	if cfg.Engine.DriverStoreType == "redis" {
		driverStore, err = driverstore.NewRedisStore(redisClient)
		if err != nil {
			logger.Fatal("Failed to initialize driver store", logger.ErrorField(err))
		}
	} else {
		driverStore = driverstore.NewMemoryStore(nil)
	}

	marketState := state.NewMarketState(cfg.Engine.CandleHistory)
	dispatcher := notify.NewStreamDispatcher(redisClient, cfg.Engine.AlertStream)
	notifier := notify.NewNotifier(marketState, signalLog, dispatcher, cfg.Engine.NotifyWindow)
	eng := engine.New(cfg.Engine, driverStore, marketState, notifier)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup

	// Session phase tracking
	marketState.SetPhase(state.PhaseAt(time.Now()))
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				marketState.SetPhase(state.PhaseAt(now))
			}
		}
	}()

	// Candle history feed
	candleChan, err := redisClient.ConsumeFromStream(ctx, cfg.Engine.CandleStream, cfg.Engine.ConsumerGroup, "engine-candles")
	if err != nil {
		logger.Fatal("Failed to consume candle stream", logger.ErrorField(err))
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for msg := range candleChan {
			handleCandle(ctx, redisClient, cfg, marketState, msg)
		}
	}()

	// Snapshot evaluation workers
	snapshotChan, err := redisClient.ConsumeFromStream(ctx, cfg.Engine.SnapshotStream, cfg.Engine.ConsumerGroup, "engine-snapshots")
	if err != nil {
		logger.Fatal("Failed to consume snapshot stream", logger.ErrorField(err))
	}
	for i := 0; i < snapshotWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for msg := range snapshotChan {
				handleSnapshot(ctx, redisClient, cfg, eng, msg)
			}
		}()
	}

	// REST API
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.API.Port),
		Handler:      api.NewServer(driverStore, eng).Handler(),
		ReadTimeout:  cfg.API.ReadTimeout,
		WriteTimeout: cfg.API.WriteTimeout,
	}
	go func() {
		logger.Info("API listening", logger.Int("port", cfg.API.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("API server error", logger.ErrorField(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down thesis engine service")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	server.Shutdown(shutdownCtx)
	cancel()
	wg.Wait()
}

func handleCandle(ctx context.Context, redis storage.RedisClient, cfg *config.Config, marketState *state.MarketState, msg storage.StreamMessage) {
	defer ack(ctx, redis, cfg.Engine.CandleStream, cfg.Engine.ConsumerGroup, msg.ID)

	raw, ok := msg.Values["candle"].(string)
	if !ok {
		logger.Warn("Dropping malformed candle message", logger.String("message_id", msg.ID))
		return
	}
	var candle models.Candle
	if err := json.Unmarshal([]byte(raw), &candle); err != nil {
		logger.Warn("Failed to unmarshal candle", logger.ErrorField(err), logger.String("message_id", msg.ID))
		return
	}
	if err := marketState.AppendCandle(&candle); err != nil {
		logger.Warn("Rejected candle", logger.ErrorField(err), logger.String("instrument", candle.InstrumentID))
	}
}

func handleSnapshot(ctx context.Context, redis storage.RedisClient, cfg *config.Config, eng *engine.Engine, msg storage.StreamMessage) {
	defer ack(ctx, redis, cfg.Engine.SnapshotStream, cfg.Engine.ConsumerGroup, msg.ID)

	raw, ok := msg.Values["snapshot"].(string)
	if !ok {
		logger.Warn("Dropping malformed snapshot message", logger.String("message_id", msg.ID))
		return
	}
	var snap models.SignalSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		logger.Warn("Failed to unmarshal snapshot", logger.ErrorField(err), logger.String("message_id", msg.ID))
		return
	}
	if err := eng.Evaluate(ctx, &snap); err != nil {
		logger.Warn("Evaluation rejected snapshot",
			logger.ErrorField(err),
			logger.String("instrument", snap.InstrumentID),
		)
	}
}

func ack(ctx context.Context, redis storage.RedisClient, stream, group, id string) {
	if err := redis.AcknowledgeMessage(ctx, stream, group, id); err != nil {
		logger.Warn("Failed to acknowledge message",
			logger.ErrorField(err),
			logger.String("stream", stream),
			logger.String("message_id", id),
		)
	}
}
