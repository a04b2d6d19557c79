package thesis

import (
	"github.com/biraj16/TPBK-V8/internal/models"
)

// Hysteresis thresholds for the active-thesis latch
const (
	// latchThreshold is the minimum |confidence| to latch a new thesis
	latchThreshold = 7
	// resetBand resets the latch to Neutral when |confidence| falls inside
	// the open interval (-resetBand, resetBand)
	resetBand = 3
)

// ApplyLatch updates the snapshot's active-thesis state from this call's
// classification and confidence. The latch is sticky: it changes only on a
// strong signal for a different playbook, resets only when conviction has
// collapsed, and otherwise holds, which prevents thesis flapping near the
// decision thresholds.
func ApplyLatch(snap *models.SignalSnapshot, classification models.Thesis, confidence int) {
	if snap.ActiveThesis == "" {
		snap.ActiveThesis = models.ThesisNeutral
	}

	abs := confidence
	if abs < 0 {
		abs = -abs
	}

	switch {
	case abs >= latchThreshold && classification != snap.ActiveThesis:
		snap.ActiveThesis = classification
		snap.ActiveThesisEntry = snap.LTP
	case abs < resetBand:
		snap.ActiveThesis = models.ThesisNeutral
		snap.ActiveThesisEntry = 0
	}
	// abs in [resetBand, latchThreshold), or same classification: hold
}

// PrimarySignalFor maps a confidence score to the coarse signal category.
// Unlike the latch this is recomputed on every call and drives the notifier.
func PrimarySignalFor(confidence int) models.PrimarySignal {
	switch {
	case confidence >= resetBand:
		return models.SignalBullish
	case confidence <= -resetBand:
		return models.SignalBearish
	default:
		return models.SignalNeutral
	}
}
