package drivers

import (
	"github.com/biraj16/TPBK-V8/internal/models"
)

// Features is the small set of reusable booleans derived once per evaluation.
// Predicates combine these with direct snapshot fields.
type Features struct {
	BullishBias bool
	BearishBias bool

	// AtSupport / AtResistance come from the session range position, the VWAP
	// band touch, or a market-profile value-area rejection.
	AtSupport    bool
	AtResistance bool

	VolumeConfirmed bool

	// NotInStrongTrend gates the divergence drivers. It is computed from the
	// classification written by the previous evaluation, before this call's
	// cascade runs.
	NotInStrongTrend bool

	// Candle5m is the most recent completed 5-minute candle. Nil when no
	// history exists; candle-direction predicates then evaluate false.
	Candle5m *models.Candle
}

// DeriveFeatures computes the feature set for one snapshot. candle5m may be
// nil.
func DeriveFeatures(snap *models.SignalSnapshot, candle5m *models.Candle) Features {
	return Features{
		BullishBias: snap.CandleBias == models.BiasBullish,
		BearishBias: snap.CandleBias == models.BiasBearish,

		AtSupport: snap.RangePosition == models.RangeNearSupport ||
			snap.VWAPPosition == models.VWAPAtLowerBand ||
			snap.ProfileState == models.ProfileRejectionAtVAL,

		AtResistance: snap.RangePosition == models.RangeNearResistance ||
			snap.VWAPPosition == models.VWAPAtUpperBand ||
			snap.ProfileState == models.ProfileRejectionAtVAH,

		VolumeConfirmed: snap.VolumeSignal == models.VolumeConfirming,

		NotInStrongTrend: !snap.Thesis.IsTrend(),

		Candle5m: candle5m,
	}
}
