// Package notify decides whether a primary-signal change leaves the process:
// it debounces per instrument, records the transition to the durable log, and
// dispatches the outbound alert as fire-and-forget work.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/biraj16/TPBK-V8/internal/models"
	"github.com/biraj16/TPBK-V8/internal/state"
	"github.com/biraj16/TPBK-V8/internal/storage"
	"github.com/biraj16/TPBK-V8/pkg/logger"
)

var notificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "signal_notifications_total",
		Help: "Signal-change notification outcomes",
	},
	[]string{"outcome"}, // "sent", "suppressed_unchanged", "suppressed_initial", "suppressed_debounce"
)

// Notifier gates side effects on primary-signal changes
type Notifier struct {
	state      *state.MarketState
	store      storage.SignalStorage
	dispatcher Dispatcher
	window     time.Duration

	// dispatchTimeout bounds the background dispatch, which has no caller
	// waiting on it
	dispatchTimeout time.Duration
}

// NewNotifier creates a notifier with the given debounce window
func NewNotifier(st *state.MarketState, store storage.SignalStorage, dispatcher Dispatcher, window time.Duration) *Notifier {
	if window <= 0 {
		window = 60 * time.Second
	}
	return &Notifier{
		state:           st,
		store:           store,
		dispatcher:      dispatcher,
		window:          window,
		dispatchTimeout: 10 * time.Second,
	}
}

// SignalChanged handles one evaluated snapshot. The action is suppressed when
// the category did not change, when the old category is the initialization
// sentinel, or when a notification for this instrument fired inside the
// debounce window. Otherwise the last-notification timestamp is written
// before anything is dispatched, the transition is logged synchronously, and
// the alert goes out on a background goroutine. Failures on that goroutine
// are contained; they never surface to the evaluation call.
func (n *Notifier) SignalChanged(ctx context.Context, snap *models.SignalSnapshot, previous models.PrimarySignal) {
	if previous == snap.PrimarySignal {
		notificationsTotal.WithLabelValues("suppressed_unchanged").Inc()
		return
	}
	if previous == models.SignalNone {
		notificationsTotal.WithLabelValues("suppressed_initial").Inc()
		return
	}
	if !n.state.MarkNotified(snap.InstrumentID, time.Now(), n.window) {
		notificationsTotal.WithLabelValues("suppressed_debounce").Inc()
		logger.Debug("Notification suppressed by debounce window",
			logger.String("instrument", snap.InstrumentID),
			logger.Duration("window", n.window),
		)
		return
	}

	// Durable log first, synchronously. A log failure is reported loudly but
	// does not fail the evaluation: thesis synthesis must complete for every
	// eligible instrument on every tick.
	if err := n.store.LogSignal(ctx, snap, previous); err != nil {
		logger.Error("Failed to log signal transition",
			logger.ErrorField(err),
			logger.String("instrument", snap.InstrumentID),
		)
	}

	alert := &models.SignalAlert{
		ID:             uuid.NewString(),
		InstrumentID:   snap.InstrumentID,
		PreviousSignal: previous,
		NewSignal:      snap.PrimarySignal,
		Thesis:         snap.Thesis,
		Confidence:     snap.Confidence,
		LTP:            snap.LTP,
		DominantPlayer: snap.DominantPlayer,
		Narrative:      snap.Narrative,
		Timestamp:      time.Now(),
	}

	notificationsTotal.WithLabelValues("sent").Inc()
	logger.Info("Primary signal changed",
		logger.String("instrument", snap.InstrumentID),
		logger.String("from", string(previous)),
		logger.String("to", string(snap.PrimarySignal)),
		logger.Int("confidence", snap.Confidence),
	)

	go n.dispatch(alert)
}

// dispatch runs off the evaluation path. Any panic or error is contained
// here.
func (n *Notifier) dispatch(alert *models.SignalAlert) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Panic in alert dispatch",
				logger.String("instrument", alert.InstrumentID),
				logger.String("panic", toString(r)),
			)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), n.dispatchTimeout)
	defer cancel()

	if err := n.dispatcher.Dispatch(ctx, alert); err != nil {
		logger.Warn("Alert dispatch failed",
			logger.ErrorField(err),
			logger.String("alert_id", alert.ID),
			logger.String("instrument", alert.InstrumentID),
		)
	}
}

func toString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	if err, ok := v.(error); ok {
		return err.Error()
	}
	return "unknown panic"
}
