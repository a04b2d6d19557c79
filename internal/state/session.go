package state

import (
	"time"

	"github.com/biraj16/TPBK-V8/internal/models"
)

// NSE cash session boundaries, minutes from midnight IST
const (
	sessionOpenMinute  = 9*60 + 15  // 09:15
	openingPhaseEnd    = 9*60 + 45  // first 30 minutes count as Opening
	closingPhaseStart  = 15 * 60    // 15:00
	sessionCloseMinute = 15*60 + 30 // 15:30
	istOffsetFromUTC   = 5*3600 + 30*60
	istLocationName    = "Asia/Kolkata"
)

// PhaseAt derives the session phase from wall-clock time. Outside session
// hours it reports Normal; snapshots should not arrive then anyway.
func PhaseAt(t time.Time) models.SessionPhase {
	loc, err := time.LoadLocation(istLocationName)
	if err != nil {
		loc = time.FixedZone("IST", istOffsetFromUTC)
	}
	local := t.In(loc)
	minute := local.Hour()*60 + local.Minute()

	switch {
	case minute >= sessionOpenMinute && minute < openingPhaseEnd:
		return models.PhaseOpening
	case minute >= closingPhaseStart && minute < sessionCloseMinute:
		return models.PhaseClosing
	default:
		return models.PhaseNormal
	}
}
