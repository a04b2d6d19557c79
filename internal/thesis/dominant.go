package thesis

import (
	"github.com/biraj16/TPBK-V8/internal/models"
)

// dominanceRatio is how far one side's score must exceed the other's before
// it is declared in control.
const dominanceRatio = 1.5

// DominantPlayer labels which side controls short-term price action. It
// accumulates independent buyer and seller scores from six binary checks and
// declares a side dominant only when its score strictly exceeds 1.5x the
// other's. Pure and stateless; independent of the cascade and the latch.
func DominantPlayer(snap *models.SignalSnapshot) models.DominantPlayer {
	var buyers, sellers int

	switch snap.VWAPPosition {
	case models.VWAPAbove:
		buyers += 2
	case models.VWAPBelow:
		sellers += 2
	}

	if snap.DevelopingPOC > 0 {
		if snap.LTP > snap.DevelopingPOC {
			buyers++
		} else if snap.LTP < snap.DevelopingPOC {
			sellers++
		}
	}

	switch snap.EMACross {
	case models.EMABullishCross:
		buyers++
	case models.EMABearishCross:
		sellers++
	}

	if snap.RSI > 60 {
		buyers++
	} else if snap.RSI > 0 && snap.RSI < 40 {
		sellers++
	}

	switch snap.OIRegime {
	case models.OILongBuildup:
		buyers += 2
	case models.OIShortCovering:
		buyers++
	case models.OIShortBuildup:
		sellers += 2
	case models.OILongUnwinding:
		sellers++
	}

	b, s := float64(buyers), float64(sellers)
	switch {
	case b > dominanceRatio*s:
		return models.PlayerBuyers
	case s > dominanceRatio*b:
		return models.PlayerSellers
	default:
		return models.PlayerBalance
	}
}
