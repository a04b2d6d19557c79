package alert

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biraj16/TPBK-V8/internal/models"
	"github.com/biraj16/TPBK-V8/internal/storage"
)

func testAlert() *models.SignalAlert {
	return &models.SignalAlert{
		ID:             "alert-1",
		InstrumentID:   "NIFTY",
		PreviousSignal: models.SignalNeutral,
		NewSignal:      models.SignalBullish,
		Thesis:         models.ThesisBullishReversal,
		Confidence:     8,
		LTP:            22150,
		DominantPlayer: models.PlayerBuyers,
		Timestamp:      time.Date(2025, 6, 2, 10, 30, 45, 0, time.UTC),
	}
}

func TestIdempotencyKey_TruncatesToMinute(t *testing.T) {
	a := testAlert()
	b := testAlert()
	b.ID = "alert-2"
	b.Timestamp = a.Timestamp.Add(10 * time.Second)

	// Same transition in the same minute maps to one key
	assert.Equal(t, IdempotencyKey(a), IdempotencyKey(b))

	b.Timestamp = a.Timestamp.Add(time.Minute)
	assert.NotEqual(t, IdempotencyKey(a), IdempotencyKey(b))
}

func TestIdempotencyKey_DistinguishesTransitions(t *testing.T) {
	a := testAlert()
	b := testAlert()
	b.NewSignal = models.SignalBearish
	assert.NotEqual(t, IdempotencyKey(a), IdempotencyKey(b))

	c := testAlert()
	c.InstrumentID = "BANKNIFTY"
	assert.NotEqual(t, IdempotencyKey(a), IdempotencyKey(c))
}

func TestIsDuplicate(t *testing.T) {
	d := NewDeduplicator(storage.NewMockRedisClient(), time.Hour)
	ctx := context.Background()

	dup, err := d.IsDuplicate(ctx, testAlert())
	require.NoError(t, err)
	assert.False(t, dup)

	// A redelivery of the same transition is now a duplicate
	dup, err = d.IsDuplicate(ctx, testAlert())
	require.NoError(t, err)
	assert.True(t, dup)
}

func TestIsDuplicate_KeyExpires(t *testing.T) {
	d := NewDeduplicator(storage.NewMockRedisClient(), 10*time.Millisecond)
	ctx := context.Background()

	dup, err := d.IsDuplicate(ctx, testAlert())
	require.NoError(t, err)
	require.False(t, dup)

	time.Sleep(20 * time.Millisecond)
	dup, err = d.IsDuplicate(ctx, testAlert())
	require.NoError(t, err)
	assert.False(t, dup)
}

func TestIsDuplicate_SetFailureStillDelivers(t *testing.T) {
	redis := storage.NewMockRedisClient()
	redis.SetErr = assert.AnError
	d := NewDeduplicator(redis, time.Hour)

	dup, err := d.IsDuplicate(context.Background(), testAlert())
	require.NoError(t, err)
	assert.False(t, dup)
}
