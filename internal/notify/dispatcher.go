package notify

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/biraj16/TPBK-V8/internal/models"
	"github.com/biraj16/TPBK-V8/internal/storage"
	"github.com/biraj16/TPBK-V8/pkg/logger"
)

var (
	dispatchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alert_dispatch_total",
			Help: "Total number of alerts handed to the dispatch stream",
		},
		[]string{"instrument"},
	)

	dispatchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alert_dispatch_errors_total",
			Help: "Total number of alert dispatch failures",
		},
		[]string{"instrument"},
	)
)

// Dispatcher hands an alert to the delivery channel. Delivery guarantees and
// retries are owned entirely by the consumer of that channel.
type Dispatcher interface {
	Dispatch(ctx context.Context, alert *models.SignalAlert) error
}

// StreamDispatcher publishes alerts to a Redis stream for the alert delivery
// worker
type StreamDispatcher struct {
	redis  storage.RedisClient
	stream string
}

// NewStreamDispatcher creates a new stream dispatcher
func NewStreamDispatcher(redis storage.RedisClient, stream string) *StreamDispatcher {
	return &StreamDispatcher{
		redis:  redis,
		stream: stream,
	}
}

// Dispatch publishes one alert to the stream
func (d *StreamDispatcher) Dispatch(ctx context.Context, alert *models.SignalAlert) error {
	if err := alert.Validate(); err != nil {
		return fmt.Errorf("invalid alert: %w", err)
	}

	if err := d.redis.PublishToStream(ctx, d.stream, "alert", alert); err != nil {
		dispatchErrors.WithLabelValues(alert.InstrumentID).Inc()
		return fmt.Errorf("failed to publish alert to stream %s: %w", d.stream, err)
	}

	dispatchTotal.WithLabelValues(alert.InstrumentID).Inc()
	logger.Debug("Dispatched alert",
		logger.String("alert_id", alert.ID),
		logger.String("instrument", alert.InstrumentID),
		logger.String("stream", d.stream),
	)
	return nil
}
