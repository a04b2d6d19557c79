package drivers

import (
	"math"

	"github.com/biraj16/TPBK-V8/internal/models"
)

// gammaPinProximityPct is the max distance from the max-gamma level, as a
// fraction of that level, for the pinning driver to fire.
const gammaPinProximityPct = 0.0025

// Predicate decides whether one driver is active for the current snapshot
type Predicate func(snap *models.SignalSnapshot, f Features) bool

// Evaluator evaluates driver predicates against one snapshot. It derives the
// shared feature set once at construction and is then a pure lookup table:
// the same inputs always produce the same answers.
type Evaluator struct {
	snap     *models.SignalSnapshot
	features Features
}

// NewEvaluator creates an evaluator for one snapshot. candle5m is the most
// recent completed 5-minute candle and may be nil.
func NewEvaluator(snap *models.SignalSnapshot, candle5m *models.Candle) *Evaluator {
	return &Evaluator{
		snap:     snap,
		features: DeriveFeatures(snap, candle5m),
	}
}

// Features returns the derived feature set
func (e *Evaluator) Features() Features {
	return e.features
}

// IsActive reports whether the named driver's condition holds for the current
// snapshot. Unrecognized driver names evaluate false; that is the fail-safe
// default, not an error.
func (e *Evaluator) IsActive(name string) bool {
	predicate, ok := predicates[name]
	if !ok {
		return false
	}
	return predicate(e.snap, e.features)
}

// predicates maps each driver name to its fixed boolean condition. Changing
// this table changes behavior without touching the cascade or the scorer;
// each entry is unit-testable in isolation.
var predicates = map[string]Predicate{
	models.DriverPatternAtSupport: func(snap *models.SignalSnapshot, f Features) bool {
		return f.BullishBias && f.AtSupport
	},
	models.DriverPatternAtResistance: func(snap *models.SignalSnapshot, f Features) bool {
		return f.BearishBias && f.AtResistance
	},
	models.DriverVolumeConfirmBull: func(snap *models.SignalSnapshot, f Features) bool {
		return f.BullishBias && f.VolumeConfirmed
	},
	models.DriverVolumeConfirmBear: func(snap *models.SignalSnapshot, f Features) bool {
		return f.BearishBias && f.VolumeConfirmed
	},
	models.DriverPriceAboveVWAP: func(snap *models.SignalSnapshot, f Features) bool {
		return snap.VWAPPosition == models.VWAPAbove
	},
	models.DriverPriceBelowVWAP: func(snap *models.SignalSnapshot, f Features) bool {
		return snap.VWAPPosition == models.VWAPBelow
	},
	models.DriverEMACrossBullish: func(snap *models.SignalSnapshot, f Features) bool {
		return snap.EMACross == models.EMABullishCross
	},
	models.DriverEMACrossBearish: func(snap *models.SignalSnapshot, f Features) bool {
		return snap.EMACross == models.EMABearishCross
	},
	models.DriverOILongBuildup: func(snap *models.SignalSnapshot, f Features) bool {
		return snap.OIRegime == models.OILongBuildup
	},
	models.DriverOIShortBuildup: func(snap *models.SignalSnapshot, f Features) bool {
		return snap.OIRegime == models.OIShortBuildup
	},
	models.DriverOIShortCovering: func(snap *models.SignalSnapshot, f Features) bool {
		return snap.OIRegime == models.OIShortCovering
	},
	models.DriverOILongUnwinding: func(snap *models.SignalSnapshot, f Features) bool {
		return snap.OIRegime == models.OILongUnwinding
	},
	models.DriverGammaPositive: func(snap *models.SignalSnapshot, f Features) bool {
		return snap.GammaRegime == models.GammaPositive
	},
	models.DriverGammaNegative: func(snap *models.SignalSnapshot, f Features) bool {
		return snap.GammaRegime == models.GammaNegative
	},
	models.DriverSkewDivergeBull: func(snap *models.SignalSnapshot, f Features) bool {
		return snap.SkewDivergence == models.DivergenceBullish && f.NotInStrongTrend
	},
	models.DriverSkewDivergeBear: func(snap *models.SignalSnapshot, f Features) bool {
		return snap.SkewDivergence == models.DivergenceBearish && f.NotInStrongTrend
	},
	models.DriverMomoDivergeBull: func(snap *models.SignalSnapshot, f Features) bool {
		return snap.MomentumDivergence == models.DivergenceBullish && f.NotInStrongTrend
	},
	models.DriverMomoDivergeBear: func(snap *models.SignalSnapshot, f Features) bool {
		return snap.MomentumDivergence == models.DivergenceBearish && f.NotInStrongTrend
	},
	models.DriverProfileAcceptAbove: func(snap *models.SignalSnapshot, f Features) bool {
		return snap.ProfileState == models.ProfileAcceptanceAbove
	},
	models.DriverProfileAcceptBelow: func(snap *models.SignalSnapshot, f Features) bool {
		return snap.ProfileState == models.ProfileAcceptanceBelow
	},
	models.DriverIBExtensionUp: func(snap *models.SignalSnapshot, f Features) bool {
		return snap.IBSignal == models.IBBreakoutUp
	},
	models.DriverIBExtensionDown: func(snap *models.SignalSnapshot, f Features) bool {
		return snap.IBSignal == models.IBBreakoutDown
	},
	models.DriverVolContraction: func(snap *models.SignalSnapshot, f Features) bool {
		return snap.VolatilityRegime == models.VolContracting
	},
	models.DriverGEXFlipCrossUp: func(snap *models.SignalSnapshot, f Features) bool {
		// Unset flip level means the condition cannot be met
		if snap.GEXFlipLevel <= 0 || f.Candle5m == nil {
			return false
		}
		return snap.LTP > snap.GEXFlipLevel && f.Candle5m.IsBullish()
	},
	models.DriverGEXFlipCrossDown: func(snap *models.SignalSnapshot, f Features) bool {
		if snap.GEXFlipLevel <= 0 || f.Candle5m == nil {
			return false
		}
		return snap.LTP < snap.GEXFlipLevel && f.Candle5m.IsBearish()
	},
	models.DriverGammaPinProximity: func(snap *models.SignalSnapshot, f Features) bool {
		// Guard the denominator: an unset max-gamma level is "not met"
		if snap.MaxGammaLevel <= 0 {
			return false
		}
		return math.Abs(snap.LTP-snap.MaxGammaLevel)/snap.MaxGammaLevel <= gammaPinProximityPct
	},
	models.DriverCandle5mBullish: func(snap *models.SignalSnapshot, f Features) bool {
		return f.Candle5m != nil && f.Candle5m.IsBullish()
	},
	models.DriverCandle5mBearish: func(snap *models.SignalSnapshot, f Features) bool {
		return f.Candle5m != nil && f.Candle5m.IsBearish()
	},
	models.DriverRSIOversold: func(snap *models.SignalSnapshot, f Features) bool {
		return snap.RSI > 0 && snap.RSI < 40
	},
	models.DriverRSIOverbought: func(snap *models.SignalSnapshot, f Features) bool {
		return snap.RSI > 60
	},
}

// KnownDrivers returns the names of all drivers with a registered predicate
func KnownDrivers() []string {
	names := make([]string, 0, len(predicates))
	for name := range predicates {
		names = append(names, name)
	}
	return names
}
