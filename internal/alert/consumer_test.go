package alert

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biraj16/TPBK-V8/internal/config"
	"github.com/biraj16/TPBK-V8/internal/models"
	"github.com/biraj16/TPBK-V8/internal/storage"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []*models.SignalAlert
	err  error
}

func (r *recordingSender) Send(ctx context.Context, alert *models.SignalAlert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, alert)
	return nil
}

func (r *recordingSender) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

func consumerConfig() config.AlertConfig {
	return config.AlertConfig{
		StreamName:     "signal_alerts",
		ConsumerGroup:  "alert-delivery",
		DedupeTTL:      time.Hour,
		ProcessTimeout: 5 * time.Second,
	}
}

func TestConsumer_DeliversAlert(t *testing.T) {
	cfg := consumerConfig()
	redis := storage.NewMockRedisClient()
	require.NoError(t, redis.PublishToStream(context.Background(), cfg.StreamName, "alert", testAlert()))

	sender := &recordingSender{}
	c := NewConsumer(cfg, redis, NewDeduplicator(redis, cfg.DedupeTTL), sender)
	require.NoError(t, c.Start())
	defer c.Stop()

	require.Eventually(t, func() bool {
		return sender.count() == 1
	}, 2*time.Second, 10*time.Millisecond)

	sender.mu.Lock()
	defer sender.mu.Unlock()
	assert.Equal(t, "NIFTY", sender.sent[0].InstrumentID)
	assert.Equal(t, models.SignalBullish, sender.sent[0].NewSignal)
}

func TestConsumer_DropsDuplicates(t *testing.T) {
	cfg := consumerConfig()
	redis := storage.NewMockRedisClient()
	ctx := context.Background()
	require.NoError(t, redis.PublishToStream(ctx, cfg.StreamName, "alert", testAlert()))
	require.NoError(t, redis.PublishToStream(ctx, cfg.StreamName, "alert", testAlert()))

	sender := &recordingSender{}
	c := NewConsumer(cfg, redis, NewDeduplicator(redis, cfg.DedupeTTL), sender)
	require.NoError(t, c.Start())
	defer c.Stop()

	require.Eventually(t, func() bool {
		return sender.count() == 1
	}, 2*time.Second, 10*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, sender.count())
}

func TestConsumer_SkipsMalformedMessages(t *testing.T) {
	cfg := consumerConfig()
	redis := storage.NewMockRedisClient()
	ctx := context.Background()
	require.NoError(t, redis.PublishToStream(ctx, cfg.StreamName, "garbage", "not an alert"))
	require.NoError(t, redis.PublishToStream(ctx, cfg.StreamName, "alert", testAlert()))

	sender := &recordingSender{}
	c := NewConsumer(cfg, redis, NewDeduplicator(redis, cfg.DedupeTTL), sender)
	require.NoError(t, c.Start())
	defer c.Stop()

	require.Eventually(t, func() bool {
		return sender.count() == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestConsumer_StartTwiceFails(t *testing.T) {
	cfg := consumerConfig()
	redis := storage.NewMockRedisClient()
	c := NewConsumer(cfg, redis, NewDeduplicator(redis, cfg.DedupeTTL), &recordingSender{})
	require.NoError(t, c.Start())
	defer c.Stop()

	assert.Error(t, c.Start())
}

func TestConsumer_StopIsIdempotent(t *testing.T) {
	cfg := consumerConfig()
	redis := storage.NewMockRedisClient()
	c := NewConsumer(cfg, redis, NewDeduplicator(redis, cfg.DedupeTTL), &recordingSender{})
	require.NoError(t, c.Start())

	c.Stop()
	c.Stop()
}

func TestParseAlert(t *testing.T) {
	_, err := parseAlert(storage.StreamMessage{Values: map[string]interface{}{}})
	assert.Error(t, err)

	_, err = parseAlert(storage.StreamMessage{Values: map[string]interface{}{"alert": 42}})
	assert.Error(t, err)

	_, err = parseAlert(storage.StreamMessage{Values: map[string]interface{}{"alert": "{not json"}})
	assert.Error(t, err)

	// Valid JSON but missing required fields
	_, err = parseAlert(storage.StreamMessage{Values: map[string]interface{}{"alert": "{}"}})
	assert.Error(t, err)
}
