package models

import (
	"time"
)

// Thesis is the playbook classification produced for an instrument on each
// evaluation tick. Exactly one value is produced per evaluation.
type Thesis string

const (
	ThesisBullishReversal  Thesis = "BULLISH_REVERSAL_AT_SUPPORT"
	ThesisBearishReversal  Thesis = "BEARISH_REVERSAL_AT_RESISTANCE"
	ThesisBullishBreakout  Thesis = "BULLISH_BREAKOUT_ATTEMPT"
	ThesisBearishBreakdown Thesis = "BEARISH_BREAKDOWN_ATTEMPT"
	ThesisBullishTrend     Thesis = "BULLISH_TREND_CONTINUATION"
	ThesisBearishTrend     Thesis = "BEARISH_TREND_CONTINUATION"
	ThesisHighVolChoppy    Thesis = "HIGH_VOLATILITY_CHOPPY"
	ThesisBalancing        Thesis = "BALANCING_RANGE_BOUND"
	ThesisIndeterminate    Thesis = "INDETERMINATE"

	// ThesisNeutral is the unlatched state of the active-thesis field.
	ThesisNeutral Thesis = "NEUTRAL"
)

// IsTrend reports whether the thesis is one of the trend-continuation
// playbooks. Divergence drivers are gated on this.
func (t Thesis) IsTrend() bool {
	return t == ThesisBullishTrend || t == ThesisBearishTrend
}

// PrimarySignal is the coarse signal category recomputed on every evaluation.
// The zero value is the pipeline initialization sentinel: the notifier never
// fires off a transition out of it.
type PrimarySignal string

const (
	SignalNone    PrimarySignal = ""
	SignalBullish PrimarySignal = "BULLISH"
	SignalBearish PrimarySignal = "BEARISH"
	SignalNeutral PrimarySignal = "NEUTRAL"
)

// DominantPlayer labels which side controls short-term price action.
type DominantPlayer string

const (
	PlayerBuyers  DominantPlayer = "BUYERS"
	PlayerSellers DominantPlayer = "SELLERS"
	PlayerBalance DominantPlayer = "BALANCE"
)

// SessionPhase is the current phase of the trading session.
type SessionPhase string

const (
	PhaseOpening SessionPhase = "OPENING"
	PhaseNormal  SessionPhase = "NORMAL"
	PhaseClosing SessionPhase = "CLOSING"
)

// Categorical indicator states carried on the snapshot. These are produced
// upstream; the engine only reads them.
const (
	// Candle pattern bias
	BiasBullish = "BULLISH"
	BiasBearish = "BEARISH"
	BiasNeutral = "NEUTRAL"

	// Price position relative to VWAP and its bands
	VWAPAbove       = "ABOVE_VWAP"
	VWAPBelow       = "BELOW_VWAP"
	VWAPAtUpperBand = "AT_UPPER_BAND"
	VWAPAtLowerBand = "AT_LOWER_BAND"
	VWAPInsideBands = "INSIDE_BANDS"

	// Market-profile acceptance state
	ProfileAcceptanceAbove = "ACCEPTANCE_ABOVE_VALUE"
	ProfileAcceptanceBelow = "ACCEPTANCE_BELOW_VALUE"
	ProfileRejectionAtVAH  = "REJECTION_AT_VAH"
	ProfileRejectionAtVAL  = "REJECTION_AT_VAL"
	ProfileInsideValue     = "INSIDE_VALUE"

	// Open-interest regime
	OILongBuildup   = "LONG_BUILDUP"
	OIShortBuildup  = "SHORT_BUILDUP"
	OIShortCovering = "SHORT_COVERING"
	OILongUnwinding = "LONG_UNWINDING"
	OINeutral       = "NEUTRAL"

	// Volatility regime
	VolHigh        = "HIGH"
	VolNormal      = "NORMAL"
	VolContracting = "CONTRACTING"
	VolLow         = "LOW"

	// Options gamma-exposure regime
	GammaPositive = "POSITIVE"
	GammaNegative = "NEGATIVE"
	GammaNeutral  = "NEUTRAL"

	// Market structure
	StructureTrendingUp   = "TRENDING_UP"
	StructureTrendingDown = "TRENDING_DOWN"
	StructureBalancing    = "BALANCING"

	// EMA cross direction
	EMABullishCross = "BULLISH_CROSS"
	EMABearishCross = "BEARISH_CROSS"
	EMANoCross      = "NONE"

	// Divergence direction (skew and momentum)
	DivergenceBullish = "BULLISH"
	DivergenceBearish = "BEARISH"
	DivergenceNone    = "NONE"

	// Initial-balance extension
	IBBreakoutUp   = "BREAKOUT_UP"
	IBBreakoutDown = "BREAKOUT_DOWN"
	IBNone         = "NONE"

	// Position within the session range
	RangeNearSupport    = "NEAR_SUPPORT"
	RangeNearResistance = "NEAR_RESISTANCE"
	RangeMid            = "MID_RANGE"

	// Volume confirmation
	VolumeConfirming = "CONFIRMING"
	VolumeDiverging  = "DIVERGING"
	VolumeNone       = "NONE"
)

// SegmentIndex is the instrument segment the engine evaluates. Snapshots for
// other segments are passed through untouched.
const SegmentIndex = "INDEX"

// SignalSnapshot is the per-instrument, per-tick record supplied by the
// upstream analytics producer. The engine receives it by reference and writes
// the output fields in place; there is no engine-owned copy.
type SignalSnapshot struct {
	InstrumentID string    `json:"instrument_id"`
	Segment      string    `json:"segment"`
	Timestamp    time.Time `json:"timestamp"`

	// Categorical indicator states (inputs)
	CandleBias         string `json:"candle_bias"`
	VWAPPosition       string `json:"vwap_position"`
	ProfileState       string `json:"profile_state"`
	OIRegime           string `json:"oi_regime"`
	VolatilityRegime   string `json:"volatility_regime"`
	GammaRegime        string `json:"gamma_regime"`
	MarketStructure    string `json:"market_structure"`
	EMACross           string `json:"ema_cross"`
	SkewDivergence     string `json:"skew_divergence"`
	MomentumDivergence string `json:"momentum_divergence"`
	IBSignal           string `json:"ib_signal"`
	RangePosition      string `json:"range_position"`
	VolumeSignal       string `json:"volume_signal"`

	// Numeric fields (inputs)
	LTP           float64 `json:"ltp"`
	DevelopingPOC float64 `json:"developing_poc"`
	RSI           float64 `json:"rsi"`
	GEXFlipLevel  float64 `json:"gex_flip_level"`
	NetGEX        float64 `json:"net_gex"`
	MaxGammaLevel float64 `json:"max_gamma_level"`

	// Synthesized output fields (written by the engine)
	Thesis            Thesis         `json:"thesis"`
	BullishDrivers    string         `json:"bullish_drivers"`
	BearishDrivers    string         `json:"bearish_drivers"`
	Confidence        int            `json:"confidence"`
	PrimarySignal     PrimarySignal  `json:"primary_signal"`
	ActiveThesis      Thesis         `json:"active_thesis"`
	ActiveThesisEntry float64        `json:"active_thesis_entry"`
	DominantPlayer    DominantPlayer `json:"dominant_player"`
	Narrative         string         `json:"narrative"`
}

// Validate validates the input side of a snapshot
func (s *SignalSnapshot) Validate() error {
	if s.InstrumentID == "" {
		return ErrInvalidInstrument
	}
	if s.LTP <= 0 {
		return ErrInvalidPrice
	}
	if s.Timestamp.IsZero() {
		return ErrInvalidTimestamp
	}
	return nil
}

// Candle represents a completed OHLCV bar for one timeframe
type Candle struct {
	InstrumentID string    `json:"instrument_id"`
	Timeframe    string    `json:"timeframe"`
	Timestamp    time.Time `json:"timestamp"`
	Open         float64   `json:"open"`
	High         float64   `json:"high"`
	Low          float64   `json:"low"`
	Close        float64   `json:"close"`
	Volume       int64     `json:"volume"`
}

// Validate validates a Candle
func (c *Candle) Validate() error {
	if c.InstrumentID == "" {
		return ErrInvalidInstrument
	}
	if c.Timestamp.IsZero() {
		return ErrInvalidTimestamp
	}
	if c.High < c.Low {
		return ErrInvalidCandle
	}
	if c.Volume < 0 {
		return ErrInvalidVolume
	}
	return nil
}

// IsBullish reports whether the candle closed above its open
func (c *Candle) IsBullish() bool {
	return c.Close > c.Open
}

// IsBearish reports whether the candle closed below its open
func (c *Candle) IsBearish() bool {
	return c.Close < c.Open
}

// Timeframe5m is the timeframe the predicate evaluator consumes
const Timeframe5m = "5m"

// SignalAlert is the payload handed to the alert delivery worker when the
// primary signal category changes for an instrument.
type SignalAlert struct {
	ID             string         `json:"id"`
	InstrumentID   string         `json:"instrument_id"`
	PreviousSignal PrimarySignal  `json:"previous_signal"`
	NewSignal      PrimarySignal  `json:"new_signal"`
	Thesis         Thesis         `json:"thesis"`
	Confidence     int            `json:"confidence"`
	LTP            float64        `json:"ltp"`
	DominantPlayer DominantPlayer `json:"dominant_player"`
	Narrative      string         `json:"narrative"`
	Timestamp      time.Time      `json:"timestamp"`
}

// Validate validates a SignalAlert
func (a *SignalAlert) Validate() error {
	if a.ID == "" {
		return ErrInvalidAlertID
	}
	if a.InstrumentID == "" {
		return ErrInvalidInstrument
	}
	if a.NewSignal == SignalNone {
		return ErrInvalidSignal
	}
	return nil
}
