package state

import (
	"sync"
	"time"

	"github.com/biraj16/TPBK-V8/internal/models"
)

// MarketState holds the process-lifetime shared state read and written by the
// engine: the current session phase, last-notification timestamps keyed by
// instrument, and a bounded per-instrument candle history. All methods are
// safe for concurrent use; instruments are evaluated concurrently by the
// caller.
type MarketState struct {
	phaseMu sync.RWMutex
	phase   models.SessionPhase

	notifyMu sync.Mutex
	notified map[string]time.Time

	candleMu   sync.RWMutex
	candles    map[string]map[string][]*models.Candle // instrument -> timeframe -> bars
	maxCandles int
}

// NewMarketState creates a new market state. maxCandles bounds the candle
// history kept per instrument per timeframe.
func NewMarketState(maxCandles int) *MarketState {
	if maxCandles <= 0 {
		maxCandles = 100
	}
	return &MarketState{
		phase:      models.PhaseNormal,
		notified:   make(map[string]time.Time),
		candles:    make(map[string]map[string][]*models.Candle),
		maxCandles: maxCandles,
	}
}

// Phase returns the current session phase
func (m *MarketState) Phase() models.SessionPhase {
	m.phaseMu.RLock()
	defer m.phaseMu.RUnlock()
	return m.phase
}

// SetPhase sets the current session phase
func (m *MarketState) SetPhase(phase models.SessionPhase) {
	m.phaseMu.Lock()
	defer m.phaseMu.Unlock()
	m.phase = phase
}

// MarkNotified records a notification for the instrument if none fired within
// the given window. It returns true when the caller owns the notification:
// the timestamp write and the window check happen under one lock, so two
// concurrent evaluations of the same instrument cannot both dispatch.
func (m *MarketState) MarkNotified(instrumentID string, now time.Time, window time.Duration) bool {
	m.notifyMu.Lock()
	defer m.notifyMu.Unlock()

	if last, ok := m.notified[instrumentID]; ok && now.Sub(last) < window {
		return false
	}
	m.notified[instrumentID] = now
	return true
}

// LastNotified returns the last notification time for the instrument
func (m *MarketState) LastNotified(instrumentID string) (time.Time, bool) {
	m.notifyMu.Lock()
	defer m.notifyMu.Unlock()
	t, ok := m.notified[instrumentID]
	return t, ok
}

// AppendCandle appends a completed candle to the instrument's history,
// evicting the oldest bar once the history is full
func (m *MarketState) AppendCandle(candle *models.Candle) error {
	if candle == nil {
		return nil
	}
	if err := candle.Validate(); err != nil {
		return err
	}

	m.candleMu.Lock()
	defer m.candleMu.Unlock()

	byTimeframe, ok := m.candles[candle.InstrumentID]
	if !ok {
		byTimeframe = make(map[string][]*models.Candle)
		m.candles[candle.InstrumentID] = byTimeframe
	}

	bars := append(byTimeframe[candle.Timeframe], candle)
	if len(bars) > m.maxCandles {
		bars = bars[len(bars)-m.maxCandles:]
	}
	byTimeframe[candle.Timeframe] = bars
	return nil
}

// Candles returns a copy of the instrument's candle history for a timeframe,
// oldest first. Returns nil when no history exists.
func (m *MarketState) Candles(instrumentID, timeframe string) []*models.Candle {
	m.candleMu.RLock()
	defer m.candleMu.RUnlock()

	byTimeframe, ok := m.candles[instrumentID]
	if !ok {
		return nil
	}
	bars := byTimeframe[timeframe]
	if len(bars) == 0 {
		return nil
	}

	out := make([]*models.Candle, len(bars))
	copy(out, bars)
	return out
}

// LastCompleted returns the most recent completed candle for the instrument
// and timeframe, or nil when no history exists. Predicates that depend on
// candle direction treat nil as "condition not met".
func (m *MarketState) LastCompleted(instrumentID, timeframe string) *models.Candle {
	m.candleMu.RLock()
	defer m.candleMu.RUnlock()

	byTimeframe, ok := m.candles[instrumentID]
	if !ok {
		return nil
	}
	bars := byTimeframe[timeframe]
	if len(bars) == 0 {
		return nil
	}
	return bars[len(bars)-1]
}
