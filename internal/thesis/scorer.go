package thesis

import (
	"math"

	"github.com/biraj16/TPBK-V8/internal/models"
)

// openingDampFactor scales confidence during the volatile session open
const openingDampFactor = 0.6

// Score sums the signed weights of the drivers contributing to the winning
// playbook. Only the cascade's matched drivers count, not all enabled ones.
func Score(active []models.Driver) int {
	sum := 0
	for _, d := range active {
		sum += d.Weight
	}
	return sum
}

// Dampen applies the session-phase scaling to a raw score. During the Opening
// phase the raw sum is scaled by 0.6 and rounded half away from zero
// (math.Round); every other phase passes the raw score through.
func Dampen(raw int, phase models.SessionPhase) int {
	if phase != models.PhaseOpening {
		return raw
	}
	return int(math.Round(float64(raw) * openingDampFactor))
}
