package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biraj16/TPBK-V8/internal/config"
	"github.com/biraj16/TPBK-V8/internal/driverstore"
	"github.com/biraj16/TPBK-V8/internal/models"
	"github.com/biraj16/TPBK-V8/internal/notify"
	"github.com/biraj16/TPBK-V8/internal/state"
	"github.com/biraj16/TPBK-V8/internal/storage"
)

type testHarness struct {
	engine *Engine
	state  *state.MarketState
	store  *storage.MockSignalStorage
	redis  *storage.MockRedisClient
}

func newHarness() *testHarness {
	cfg := config.EngineConfig{
		Segment:      models.SegmentIndex,
		NotifyWindow: time.Minute,
		AlertStream:  "signal_alerts",
	}
	st := state.NewMarketState(10)
	store := &storage.MockSignalStorage{}
	redis := storage.NewMockRedisClient()
	notifier := notify.NewNotifier(st, store, notify.NewStreamDispatcher(redis, cfg.AlertStream), cfg.NotifyWindow)
	return &testHarness{
		engine: New(cfg, driverstore.NewMemoryStore(nil), st, notifier),
		state:  st,
		store:  store,
		redis:  redis,
	}
}

// reversalSnapshot activates pattern_at_key_support(+4), volume bull(+2) and
// rsi_oversold(+2) from the bullish reversal list
func reversalSnapshot() *models.SignalSnapshot {
	return &models.SignalSnapshot{
		InstrumentID:  "NIFTY",
		Segment:       models.SegmentIndex,
		Timestamp:     time.Now(),
		LTP:           22150,
		CandleBias:    models.BiasBullish,
		RangePosition: models.RangeNearSupport,
		VolumeSignal:  models.VolumeConfirming,
		RSI:           35,
	}
}

func TestEvaluate_BullishReversalNormalPhase(t *testing.T) {
	h := newHarness()
	snap := reversalSnapshot()

	require.NoError(t, h.engine.Evaluate(context.Background(), snap))

	assert.Equal(t, models.ThesisBullishReversal, snap.Thesis)
	assert.Equal(t, 8, snap.Confidence)
	assert.Equal(t, models.SignalBullish, snap.PrimarySignal)
	assert.Equal(t, models.ThesisBullishReversal, snap.ActiveThesis)
	assert.Equal(t, 22150.0, snap.ActiveThesisEntry)
	assert.Contains(t, snap.BullishDrivers, "pattern_at_key_support(+4)")
	assert.Contains(t, snap.BullishDrivers, "rsi_oversold(+2)")
	assert.Empty(t, snap.BearishDrivers)
	assert.NotEmpty(t, snap.Narrative)
}

func TestEvaluate_OpeningPhaseDampensConfidence(t *testing.T) {
	h := newHarness()
	h.state.SetPhase(models.PhaseOpening)
	snap := reversalSnapshot()

	require.NoError(t, h.engine.Evaluate(context.Background(), snap))

	// Raw 8 scales to 4.8 and rounds to 5: enough for a bullish signal but
	// below the latch threshold
	assert.Equal(t, 5, snap.Confidence)
	assert.Equal(t, models.SignalBullish, snap.PrimarySignal)
	assert.Equal(t, models.ThesisNeutral, snap.ActiveThesis)
	assert.Zero(t, snap.ActiveThesisEntry)
}

func TestEvaluate_SegmentMismatchPassesThrough(t *testing.T) {
	h := newHarness()
	snap := reversalSnapshot()
	snap.Segment = "EQUITY"

	require.NoError(t, h.engine.Evaluate(context.Background(), snap))

	assert.Empty(t, snap.Thesis)
	assert.Zero(t, snap.Confidence)
	_, ok := h.engine.LastResult("NIFTY")
	assert.False(t, ok)
}

func TestEvaluate_NilSnapshot(t *testing.T) {
	h := newHarness()
	assert.NoError(t, h.engine.Evaluate(context.Background(), nil))
}

func TestEvaluate_InvalidSnapshot(t *testing.T) {
	h := newHarness()
	snap := reversalSnapshot()
	snap.InstrumentID = ""
	assert.Error(t, h.engine.Evaluate(context.Background(), snap))
}

func TestEvaluate_QuietSnapshotIsIndeterminate(t *testing.T) {
	h := newHarness()
	snap := &models.SignalSnapshot{
		InstrumentID: "NIFTY",
		Segment:      models.SegmentIndex,
		Timestamp:    time.Now(),
		LTP:          22000,
	}

	require.NoError(t, h.engine.Evaluate(context.Background(), snap))

	assert.Equal(t, models.ThesisIndeterminate, snap.Thesis)
	assert.Zero(t, snap.Confidence)
	assert.Equal(t, models.SignalNeutral, snap.PrimarySignal)
	assert.Equal(t, models.PlayerBalance, snap.DominantPlayer)
}

func TestEvaluate_FirstTransitionDoesNotNotify(t *testing.T) {
	h := newHarness()
	snap := reversalSnapshot()

	// PrimarySignal starts at the empty sentinel, so the move to Bullish is
	// the initial classification, not a change
	require.NoError(t, h.engine.Evaluate(context.Background(), snap))
	assert.Zero(t, h.store.Count())
}

func TestEvaluate_SignalChangeNotifiesOnce(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	snap := reversalSnapshot()
	require.NoError(t, h.engine.Evaluate(ctx, snap))
	require.Equal(t, models.SignalBullish, snap.PrimarySignal)

	// Second tick: conditions collapse, signal drops to Neutral
	snap.CandleBias = models.BiasNeutral
	snap.RangePosition = models.RangeMid
	snap.VolumeSignal = ""
	snap.RSI = 50
	require.NoError(t, h.engine.Evaluate(ctx, snap))
	require.Equal(t, models.SignalNeutral, snap.PrimarySignal)
	assert.Equal(t, 1, h.store.Count())
	assert.Equal(t, models.SignalBullish, h.store.Logged[0].Previous)
	assert.Equal(t, models.SignalNeutral, h.store.Logged[0].New)

	// Third tick inside the debounce window: back to bullish, suppressed
	snap.CandleBias = models.BiasBullish
	snap.RangePosition = models.RangeNearSupport
	snap.VolumeSignal = models.VolumeConfirming
	snap.RSI = 35
	require.NoError(t, h.engine.Evaluate(ctx, snap))
	assert.Equal(t, 1, h.store.Count())
}

func TestEvaluate_LatchResetsWhenConvictionCollapses(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	snap := reversalSnapshot()
	require.NoError(t, h.engine.Evaluate(ctx, snap))
	require.Equal(t, models.ThesisBullishReversal, snap.ActiveThesis)
	entry := snap.ActiveThesisEntry

	// Weaker follow-up tick: only VWAP-above from the trend list would be
	// active, nowhere near a playbook match, confidence 0 resets the latch
	snap.CandleBias = models.BiasNeutral
	snap.RangePosition = models.RangeMid
	snap.VolumeSignal = ""
	snap.RSI = 50
	snap.VWAPPosition = models.VWAPAbove
	snap.LTP = 22200
	require.NoError(t, h.engine.Evaluate(ctx, snap))
	assert.Equal(t, models.ThesisNeutral, snap.ActiveThesis)
	assert.NotEqual(t, entry, snap.ActiveThesisEntry)
}

func TestEvaluate_UsesCandleHistory(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	require.NoError(t, h.state.AppendCandle(&models.Candle{
		InstrumentID: "NIFTY",
		Timeframe:    models.Timeframe5m,
		Timestamp:    time.Now(),
		Open:         22140,
		High:         22160,
		Low:          22135,
		Close:        22155,
		Volume:       1200,
	}))

	snap := reversalSnapshot()
	require.NoError(t, h.engine.Evaluate(ctx, snap))

	// The bullish 5m candle driver joins the reversal list: 8 + 1
	assert.Equal(t, 9, snap.Confidence)
	assert.Contains(t, snap.BullishDrivers, "candle_5m_bullish(+1)")
}

func TestLastResult(t *testing.T) {
	h := newHarness()
	snap := reversalSnapshot()
	require.NoError(t, h.engine.Evaluate(context.Background(), snap))

	result, ok := h.engine.LastResult("NIFTY")
	require.True(t, ok)
	assert.Equal(t, models.ThesisBullishReversal, result.Thesis)
	assert.Equal(t, 8, result.Confidence)
	assert.Equal(t, 22150.0, result.EntryPrice)

	_, ok = h.engine.LastResult("UNKNOWN")
	assert.False(t, ok)
}
