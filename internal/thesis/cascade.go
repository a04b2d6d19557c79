// Package thesis implements playbook selection, confidence scoring, the
// hysteresis latch, and the dominant-player heuristic.
package thesis

import (
	"github.com/biraj16/TPBK-V8/internal/drivers"
	"github.com/biraj16/TPBK-V8/internal/models"
)

// minTrendDrivers is the number of active trend drivers a trend-continuation
// playbook must exceed.
const minTrendDrivers = 2

// ActiveLookup returns the enabled and currently active drivers of one
// configured list.
type ActiveLookup func(list string) []models.Driver

// CascadeRule is one candidate playbook in the prioritization cascade. Match
// returns the contributing drivers and whether the rule is satisfied.
type CascadeRule struct {
	Thesis models.Thesis
	Match  func(snap *models.SignalSnapshot, active ActiveLookup) ([]models.Driver, bool)
}

// Cascade is the priority-ordered candidate list. The first satisfied rule
// wins; reversal and directional-conviction setups come before the generic
// trend and fallback classifications so a strong localized signal is never
// masked by a weaker trend signal. The terminal rule always matches.
var Cascade = []CascadeRule{
	{
		Thesis: models.ThesisBullishReversal,
		Match: func(snap *models.SignalSnapshot, active ActiveLookup) ([]models.Driver, bool) {
			act := active(models.ListReversalBullish)
			if len(act) >= 2 && containsDriver(act, models.DriverPatternAtSupport) {
				return act, true
			}
			return nil, false
		},
	},
	{
		Thesis: models.ThesisBearishReversal,
		Match: func(snap *models.SignalSnapshot, active ActiveLookup) ([]models.Driver, bool) {
			act := active(models.ListReversalBearish)
			if len(act) >= 2 && containsDriver(act, models.DriverPatternAtResistance) {
				return act, true
			}
			return nil, false
		},
	},
	{
		Thesis: models.ThesisBullishBreakout,
		Match: func(snap *models.SignalSnapshot, active ActiveLookup) ([]models.Driver, bool) {
			act := active(models.ListBreakoutBullish)
			upside := snap.IBSignal == models.IBBreakoutUp ||
				snap.ProfileState == models.ProfileAcceptanceAbove
			if len(act) >= 1 && upside {
				return act, true
			}
			return nil, false
		},
	},
	{
		Thesis: models.ThesisBearishBreakdown,
		Match: func(snap *models.SignalSnapshot, active ActiveLookup) ([]models.Driver, bool) {
			act := active(models.ListBreakdownBearish)
			downside := snap.IBSignal == models.IBBreakoutDown ||
				snap.ProfileState == models.ProfileAcceptanceBelow
			if len(act) >= 1 && downside {
				return act, true
			}
			return nil, false
		},
	},
	{
		Thesis: models.ThesisBullishTrend,
		Match: func(snap *models.SignalSnapshot, active ActiveLookup) ([]models.Driver, bool) {
			if snap.MarketStructure != models.StructureTrendingUp {
				return nil, false
			}
			act := active(models.ListTrendBullish)
			if len(act) > minTrendDrivers {
				return act, true
			}
			return nil, false
		},
	},
	{
		Thesis: models.ThesisBearishTrend,
		Match: func(snap *models.SignalSnapshot, active ActiveLookup) ([]models.Driver, bool) {
			if snap.MarketStructure != models.StructureTrendingDown {
				return nil, false
			}
			act := active(models.ListTrendBearish)
			if len(act) > minTrendDrivers {
				return act, true
			}
			return nil, false
		},
	},
	{
		Thesis: models.ThesisHighVolChoppy,
		Match: func(snap *models.SignalSnapshot, active ActiveLookup) ([]models.Driver, bool) {
			bulls := active(models.ListTrendBullish)
			bears := active(models.ListTrendBearish)
			conflicting := len(bulls) >= 1 && len(bears) >= 1
			if snap.VolatilityRegime == models.VolHigh || conflicting {
				return append(bulls, bears...), true
			}
			return nil, false
		},
	},
	{
		Thesis: models.ThesisBalancing,
		Match: func(snap *models.SignalSnapshot, active ActiveLookup) ([]models.Driver, bool) {
			return nil, snap.MarketStructure == models.StructureBalancing
		},
	},
	{
		Thesis: models.ThesisIndeterminate,
		Match: func(snap *models.SignalSnapshot, active ActiveLookup) ([]models.Driver, bool) {
			return nil, true
		},
	},
}

// SelectPlaybook evaluates the cascade against one snapshot and returns the
// winning classification with its contributing drivers. Disabled drivers
// never contribute. Pure: identical inputs yield identical outputs.
func SelectPlaybook(snap *models.SignalSnapshot, cfg models.DriverConfig, ev *drivers.Evaluator) (models.Thesis, []models.Driver) {
	active := func(list string) []models.Driver {
		var act []models.Driver
		for _, d := range cfg[list] {
			if d.Enabled && ev.IsActive(d.Name) {
				act = append(act, d)
			}
		}
		return act
	}

	for _, rule := range Cascade {
		if matched, ok := rule.Match(snap, active); ok {
			return rule.Thesis, matched
		}
	}
	// Unreachable: the terminal rule always matches
	return models.ThesisIndeterminate, nil
}

func containsDriver(drivers []models.Driver, name string) bool {
	for _, d := range drivers {
		if d.Name == name {
			return true
		}
	}
	return false
}
