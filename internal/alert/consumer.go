package alert

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/biraj16/TPBK-V8/internal/config"
	"github.com/biraj16/TPBK-V8/internal/models"
	"github.com/biraj16/TPBK-V8/internal/storage"
	"github.com/biraj16/TPBK-V8/pkg/logger"
)

var deliveriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "alert_deliveries_total",
		Help: "Alert delivery outcomes",
	},
	[]string{"outcome"}, // "delivered", "duplicate", "failed", "malformed"
)

// Consumer consumes dispatched alerts from the Redis stream and delivers them
type Consumer struct {
	cfg          config.AlertConfig
	redis        storage.RedisClient
	deduplicator *Deduplicator
	sender       Sender

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

// NewConsumer creates a new alert consumer
func NewConsumer(cfg config.AlertConfig, redis storage.RedisClient, deduplicator *Deduplicator, sender Sender) *Consumer {
	ctx, cancel := context.WithCancel(context.Background())
	return &Consumer{
		cfg:          cfg,
		redis:        redis,
		deduplicator: deduplicator,
		sender:       sender,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Start starts consuming from the alert stream
func (c *Consumer) Start() error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return fmt.Errorf("consumer is already running")
	}
	c.running = true
	c.mu.Unlock()

	logger.Info("Starting alert consumer",
		logger.String("stream", c.cfg.StreamName),
		logger.String("group", c.cfg.ConsumerGroup),
	)

	messageChan, err := c.redis.ConsumeFromStream(c.ctx, c.cfg.StreamName, c.cfg.ConsumerGroup, "alert-delivery-1")
	if err != nil {
		c.mu.Lock()
		c.running = false
		c.mu.Unlock()
		return fmt.Errorf("failed to start consuming from stream: %w", err)
	}

	c.wg.Add(1)
	go c.processMessages(messageChan)
	return nil
}

// Stop stops the consumer and waits for in-flight work
func (c *Consumer) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
	logger.Info("Alert consumer stopped")
}

func (c *Consumer) processMessages(messages <-chan storage.StreamMessage) {
	defer c.wg.Done()

	for msg := range messages {
		c.handleMessage(msg)
	}
}

// handleMessage processes one stream message. Malformed messages are acked
// and dropped so they cannot wedge the group.
func (c *Consumer) handleMessage(msg storage.StreamMessage) {
	ctx, cancel := context.WithTimeout(c.ctx, c.cfg.ProcessTimeout)
	defer cancel()

	ack := func() {
		if err := c.redis.AcknowledgeMessage(ctx, c.cfg.StreamName, c.cfg.ConsumerGroup, msg.ID); err != nil {
			logger.Warn("Failed to acknowledge message",
				logger.ErrorField(err),
				logger.String("message_id", msg.ID),
			)
		}
	}

	alert, err := parseAlert(msg)
	if err != nil {
		deliveriesTotal.WithLabelValues("malformed").Inc()
		logger.Warn("Dropping malformed alert message",
			logger.ErrorField(err),
			logger.String("message_id", msg.ID),
		)
		ack()
		return
	}

	duplicate, err := c.deduplicator.IsDuplicate(ctx, alert)
	if err != nil {
		logger.Warn("Deduplication check failed, delivering anyway",
			logger.ErrorField(err),
			logger.String("alert_id", alert.ID),
		)
	}
	if duplicate {
		deliveriesTotal.WithLabelValues("duplicate").Inc()
		ack()
		return
	}

	if err := c.sender.Send(ctx, alert); err != nil {
		deliveriesTotal.WithLabelValues("failed").Inc()
		logger.Error("Alert delivery failed",
			logger.ErrorField(err),
			logger.String("alert_id", alert.ID),
			logger.String("instrument", alert.InstrumentID),
		)
		// Leave unacked so the pending-entries list keeps the message for
		// inspection or a redelivery pass
		return
	}

	deliveriesTotal.WithLabelValues("delivered").Inc()
	logger.Info("Delivered alert",
		logger.String("alert_id", alert.ID),
		logger.String("instrument", alert.InstrumentID),
		logger.String("signal", string(alert.NewSignal)),
	)
	ack()
}

func parseAlert(msg storage.StreamMessage) (*models.SignalAlert, error) {
	raw, ok := msg.Values["alert"]
	if !ok {
		return nil, fmt.Errorf("message has no alert field")
	}
	jsonStr, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("alert field is not a string")
	}

	var alert models.SignalAlert
	if err := json.Unmarshal([]byte(jsonStr), &alert); err != nil {
		return nil, fmt.Errorf("failed to unmarshal alert: %w", err)
	}
	if err := alert.Validate(); err != nil {
		return nil, fmt.Errorf("invalid alert payload: %w", err)
	}
	return &alert, nil
}
