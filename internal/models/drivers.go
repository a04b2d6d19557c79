package models

// Driver is a named, weighted, enable-able condition contributing to playbook
// selection and confidence scoring. Positive weights are bullish, negative
// bearish.
type Driver struct {
	Name    string `json:"name"`
	Weight  int    `json:"weight"`
	Enabled bool   `json:"enabled"`
}

// Validate validates a Driver
func (d *Driver) Validate() error {
	if d.Name == "" {
		return ErrInvalidDriverName
	}
	return nil
}

// Names of the six configurable driver lists
const (
	ListReversalBullish  = "reversal_bullish"
	ListReversalBearish  = "reversal_bearish"
	ListBreakoutBullish  = "breakout_bullish"
	ListBreakdownBearish = "breakdown_bearish"
	ListTrendBullish     = "trend_bullish"
	ListTrendBearish     = "trend_bearish"
)

// DriverListNames is the closed set of list names, in cascade order
var DriverListNames = []string{
	ListReversalBullish,
	ListReversalBearish,
	ListBreakoutBullish,
	ListBreakdownBearish,
	ListTrendBullish,
	ListTrendBearish,
}

// IsDriverList reports whether name is one of the six configured lists
func IsDriverList(name string) bool {
	for _, n := range DriverListNames {
		if n == name {
			return true
		}
	}
	return false
}

// DriverConfig maps a list name to its drivers. It is owned by the settings
// collaborator and read-only to the engine.
type DriverConfig map[string][]Driver

// Names of the built-in drivers understood by the predicate evaluator
const (
	DriverPatternAtSupport    = "pattern_at_key_support"
	DriverPatternAtResistance = "pattern_at_key_resistance"
	DriverVolumeConfirmBull   = "volume_confirmation_bullish"
	DriverVolumeConfirmBear   = "volume_confirmation_bearish"
	DriverPriceAboveVWAP      = "price_above_vwap"
	DriverPriceBelowVWAP      = "price_below_vwap"
	DriverEMACrossBullish     = "ema_cross_bullish"
	DriverEMACrossBearish     = "ema_cross_bearish"
	DriverOILongBuildup       = "oi_long_buildup"
	DriverOIShortBuildup      = "oi_short_buildup"
	DriverOIShortCovering     = "oi_short_covering"
	DriverOILongUnwinding     = "oi_long_unwinding"
	DriverGammaPositive       = "gamma_regime_positive"
	DriverGammaNegative       = "gamma_regime_negative"
	DriverSkewDivergeBull     = "skew_divergence_bullish"
	DriverSkewDivergeBear     = "skew_divergence_bearish"
	DriverMomoDivergeBull     = "momentum_divergence_bullish"
	DriverMomoDivergeBear     = "momentum_divergence_bearish"
	DriverProfileAcceptAbove  = "profile_acceptance_above"
	DriverProfileAcceptBelow  = "profile_acceptance_below"
	DriverIBExtensionUp       = "ib_extension_up"
	DriverIBExtensionDown     = "ib_extension_down"
	DriverVolContraction      = "volatility_contraction"
	DriverGEXFlipCrossUp      = "gex_flip_cross_up"
	DriverGEXFlipCrossDown    = "gex_flip_cross_down"
	DriverGammaPinProximity   = "gamma_pin_proximity"
	DriverCandle5mBullish     = "candle_5m_bullish"
	DriverCandle5mBearish     = "candle_5m_bearish"
	DriverRSIOversold         = "rsi_oversold"
	DriverRSIOverbought       = "rsi_overbought"
)

// DefaultDriverConfig returns the built-in driver configuration. The settings
// collaborator normally overrides this; it doubles as the seed for fresh
// deployments.
func DefaultDriverConfig() DriverConfig {
	return DriverConfig{
		ListReversalBullish: {
			{Name: DriverPatternAtSupport, Weight: 4, Enabled: true},
			{Name: DriverVolumeConfirmBull, Weight: 2, Enabled: true},
			{Name: DriverRSIOversold, Weight: 2, Enabled: true},
			{Name: DriverOIShortCovering, Weight: 2, Enabled: true},
			{Name: DriverMomoDivergeBull, Weight: 3, Enabled: true},
			{Name: DriverGEXFlipCrossUp, Weight: 2, Enabled: true},
			{Name: DriverCandle5mBullish, Weight: 1, Enabled: true},
		},
		ListReversalBearish: {
			{Name: DriverPatternAtResistance, Weight: -4, Enabled: true},
			{Name: DriverVolumeConfirmBear, Weight: -2, Enabled: true},
			{Name: DriverRSIOverbought, Weight: -2, Enabled: true},
			{Name: DriverOILongUnwinding, Weight: -2, Enabled: true},
			{Name: DriverMomoDivergeBear, Weight: -3, Enabled: true},
			{Name: DriverGEXFlipCrossDown, Weight: -2, Enabled: true},
			{Name: DriverCandle5mBearish, Weight: -1, Enabled: true},
		},
		ListBreakoutBullish: {
			{Name: DriverIBExtensionUp, Weight: 3, Enabled: true},
			{Name: DriverProfileAcceptAbove, Weight: 3, Enabled: true},
			{Name: DriverPriceAboveVWAP, Weight: 2, Enabled: true},
			{Name: DriverOILongBuildup, Weight: 2, Enabled: true},
			{Name: DriverVolContraction, Weight: 1, Enabled: true},
		},
		ListBreakdownBearish: {
			{Name: DriverIBExtensionDown, Weight: -3, Enabled: true},
			{Name: DriverProfileAcceptBelow, Weight: -3, Enabled: true},
			{Name: DriverPriceBelowVWAP, Weight: -2, Enabled: true},
			{Name: DriverOIShortBuildup, Weight: -2, Enabled: true},
			{Name: DriverVolContraction, Weight: -1, Enabled: true},
		},
		ListTrendBullish: {
			{Name: DriverPriceAboveVWAP, Weight: 2, Enabled: true},
			{Name: DriverEMACrossBullish, Weight: 2, Enabled: true},
			{Name: DriverOILongBuildup, Weight: 2, Enabled: true},
			{Name: DriverGammaPositive, Weight: 1, Enabled: true},
			{Name: DriverCandle5mBullish, Weight: 1, Enabled: true},
		},
		ListTrendBearish: {
			{Name: DriverPriceBelowVWAP, Weight: -2, Enabled: true},
			{Name: DriverEMACrossBearish, Weight: -2, Enabled: true},
			{Name: DriverOIShortBuildup, Weight: -2, Enabled: true},
			{Name: DriverGammaNegative, Weight: -1, Enabled: true},
			{Name: DriverCandle5mBearish, Weight: -1, Enabled: true},
		},
	}
}
