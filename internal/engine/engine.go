// Package engine orchestrates thesis synthesis for one instrument per tick:
// dominant player, playbook cascade, confidence scoring, the hysteresis
// latch, and the signal-change notification gate, in that order.
package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/biraj16/TPBK-V8/internal/config"
	"github.com/biraj16/TPBK-V8/internal/drivers"
	"github.com/biraj16/TPBK-V8/internal/driverstore"
	"github.com/biraj16/TPBK-V8/internal/models"
	"github.com/biraj16/TPBK-V8/internal/notify"
	"github.com/biraj16/TPBK-V8/internal/state"
	"github.com/biraj16/TPBK-V8/internal/thesis"
	"github.com/biraj16/TPBK-V8/pkg/logger"
)

var evaluationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "thesis_evaluations_total",
		Help: "Completed evaluations by resulting thesis",
	},
	[]string{"thesis"},
)

// Result is the output summary of the last evaluation of one instrument,
// kept for the read API.
type Result struct {
	InstrumentID   string                `json:"instrument_id"`
	Thesis         models.Thesis         `json:"thesis"`
	Confidence     int                   `json:"confidence"`
	PrimarySignal  models.PrimarySignal  `json:"primary_signal"`
	ActiveThesis   models.Thesis         `json:"active_thesis"`
	EntryPrice     float64               `json:"entry_price"`
	DominantPlayer models.DominantPlayer `json:"dominant_player"`
	BullishDrivers string                `json:"bullish_drivers"`
	BearishDrivers string                `json:"bearish_drivers"`
	Narrative      string                `json:"narrative"`
}

// Engine evaluates signal snapshots for instruments in the configured
// segment. Evaluate is safe to call concurrently for different instruments.
type Engine struct {
	cfg      config.EngineConfig
	store    driverstore.Store
	state    *state.MarketState
	notifier *notify.Notifier

	resultsMu sync.RWMutex
	results   map[string]Result
}

// New creates a new engine
func New(cfg config.EngineConfig, store driverstore.Store, st *state.MarketState, notifier *notify.Notifier) *Engine {
	return &Engine{
		cfg:      cfg,
		store:    store,
		state:    st,
		notifier: notifier,
		results:  make(map[string]Result),
	}
}

// Evaluate runs one full evaluation for a snapshot, mutating its output
// fields in place. Snapshots outside the configured segment pass through
// untouched. The call always completes; collaborator failures are contained
// at the notifier boundary.
func (e *Engine) Evaluate(ctx context.Context, snap *models.SignalSnapshot) error {
	if snap == nil {
		return nil
	}
	if snap.Segment != e.cfg.Segment {
		return nil
	}
	if err := snap.Validate(); err != nil {
		return fmt.Errorf("invalid snapshot: %w", err)
	}

	previousSignal := snap.PrimarySignal

	// Independent side computation, before the cascade touches anything
	snap.DominantPlayer = thesis.DominantPlayer(snap)

	// Driver configuration is read fresh each call so settings changes apply
	// between evaluations
	driverCfg, err := e.store.GetConfig(ctx)
	if err != nil {
		return fmt.Errorf("failed to load driver config: %w", err)
	}

	candle5m := e.state.LastCompleted(snap.InstrumentID, models.Timeframe5m)
	ev := drivers.NewEvaluator(snap, candle5m)

	classification, active := thesis.SelectPlaybook(snap, driverCfg, ev)
	raw := thesis.Score(active)
	confidence := thesis.Dampen(raw, e.state.Phase())

	snap.Thesis = classification
	snap.Confidence = confidence
	snap.BullishDrivers, snap.BearishDrivers = renderDrivers(active)
	thesis.ApplyLatch(snap, classification, confidence)
	snap.PrimarySignal = thesis.PrimarySignalFor(confidence)
	snap.Narrative = buildNarrative(snap, len(active))

	evaluationsTotal.WithLabelValues(string(classification)).Inc()
	logger.Debug("Evaluated snapshot",
		logger.String("instrument", snap.InstrumentID),
		logger.String("thesis", string(classification)),
		logger.Int("confidence", confidence),
		logger.String("primary_signal", string(snap.PrimarySignal)),
	)

	e.notifier.SignalChanged(ctx, snap, previousSignal)
	e.storeResult(snap)

	return nil
}

// LastResult returns the output of the most recent evaluation for an
// instrument
func (e *Engine) LastResult(instrumentID string) (Result, bool) {
	e.resultsMu.RLock()
	defer e.resultsMu.RUnlock()
	result, ok := e.results[instrumentID]
	return result, ok
}

func (e *Engine) storeResult(snap *models.SignalSnapshot) {
	e.resultsMu.Lock()
	defer e.resultsMu.Unlock()
	e.results[snap.InstrumentID] = Result{
		InstrumentID:   snap.InstrumentID,
		Thesis:         snap.Thesis,
		Confidence:     snap.Confidence,
		PrimarySignal:  snap.PrimarySignal,
		ActiveThesis:   snap.ActiveThesis,
		EntryPrice:     snap.ActiveThesisEntry,
		DominantPlayer: snap.DominantPlayer,
		BullishDrivers: snap.BullishDrivers,
		BearishDrivers: snap.BearishDrivers,
		Narrative:      snap.Narrative,
	}
}

// renderDrivers formats the contributing drivers as signed text lists, split
// by weight sign
func renderDrivers(active []models.Driver) (bullish, bearish string) {
	var bulls, bears []string
	for _, d := range active {
		if d.Weight >= 0 {
			bulls = append(bulls, fmt.Sprintf("%s(+%d)", d.Name, d.Weight))
		} else {
			bears = append(bears, fmt.Sprintf("%s(%d)", d.Name, d.Weight))
		}
	}
	return strings.Join(bulls, ", "), strings.Join(bears, ", ")
}

func buildNarrative(snap *models.SignalSnapshot, driverCount int) string {
	return fmt.Sprintf("%s (confidence %+d, %d drivers, %s in control)",
		snap.Thesis, snap.Confidence, driverCount, snap.DominantPlayer)
}
