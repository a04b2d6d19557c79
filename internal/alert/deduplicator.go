// Package alert implements the outbound alert delivery worker: it consumes
// dispatched alerts from the Redis stream, drops duplicates, and delivers to
// Telegram with bounded retries.
package alert

import (
	"context"
	"fmt"
	"time"

	"github.com/biraj16/TPBK-V8/internal/models"
	"github.com/biraj16/TPBK-V8/internal/storage"
	"github.com/biraj16/TPBK-V8/pkg/logger"
)

// Deduplicator drops alerts already delivered, using idempotency keys with a
// TTL in Redis. Redispatch after a crash or a stream redelivery must not page
// the channel twice.
type Deduplicator struct {
	redis storage.RedisClient
	ttl   time.Duration
}

// NewDeduplicator creates a new deduplicator
func NewDeduplicator(redis storage.RedisClient, ttl time.Duration) *Deduplicator {
	return &Deduplicator{
		redis: redis,
		ttl:   ttl,
	}
}

// IdempotencyKey derives the dedupe key for an alert. The timestamp is
// truncated to the minute so a redelivered message maps to the same key while
// distinct transitions in later minutes do not.
func IdempotencyKey(a *models.SignalAlert) string {
	rounded := a.Timestamp.Truncate(time.Minute)
	return fmt.Sprintf("%s:%s:%s:%d", a.InstrumentID, a.PreviousSignal, a.NewSignal, rounded.Unix())
}

// IsDuplicate checks whether the alert was already seen and marks it seen if
// not
func (d *Deduplicator) IsDuplicate(ctx context.Context, a *models.SignalAlert) (bool, error) {
	redisKey := "alert:dedupe:" + IdempotencyKey(a)

	exists, err := d.redis.Exists(ctx, redisKey)
	if err != nil {
		return false, fmt.Errorf("failed to check duplicate: %w", err)
	}
	if exists {
		logger.Debug("Duplicate alert detected",
			logger.String("alert_id", a.ID),
			logger.String("instrument", a.InstrumentID),
		)
		return true, nil
	}

	if err := d.redis.Set(ctx, redisKey, a.ID, d.ttl); err != nil {
		// The alert is still delivered; worst case a redelivery duplicates it
		logger.Warn("Failed to set deduplication key",
			logger.ErrorField(err),
			logger.String("alert_id", a.ID),
		)
	}
	return false, nil
}
