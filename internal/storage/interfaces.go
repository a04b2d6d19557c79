package storage

import (
	"context"
	"time"

	"github.com/biraj16/TPBK-V8/internal/models"
)

// SignalStorage persists signal transitions to the durable log. LogSignal is
// called synchronously from the notifier and is expected to be fast.
type SignalStorage interface {
	// LogSignal records a primary-signal transition for an instrument
	LogSignal(ctx context.Context, snap *models.SignalSnapshot, previous models.PrimarySignal) error

	// Close closes the storage connection
	Close() error
}

// RedisClient defines the Redis operations used by the engine and the alert
// worker.
type RedisClient interface {
	// Stream operations
	PublishToStream(ctx context.Context, stream string, key string, value interface{}) error
	ConsumeFromStream(ctx context.Context, stream string, group string, consumer string) (<-chan StreamMessage, error)
	AcknowledgeMessage(ctx context.Context, stream string, group string, id string) error

	// Key-value operations
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	GetJSON(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)

	// Close closes the Redis connection
	Close() error
}

// StreamMessage represents a message read from a Redis stream
type StreamMessage struct {
	ID     string
	Stream string
	Values map[string]interface{}
}
