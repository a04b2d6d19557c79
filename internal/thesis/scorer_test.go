package thesis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/biraj16/TPBK-V8/internal/models"
)

func TestScore_SumsSignedWeights(t *testing.T) {
	active := []models.Driver{
		{Name: models.DriverPatternAtSupport, Weight: 4},
		{Name: models.DriverVolumeConfirmBull, Weight: 2},
		{Name: models.DriverMomoDivergeBull, Weight: 3},
	}
	assert.Equal(t, 9, Score(active))

	mixed := []models.Driver{
		{Name: models.DriverPriceAboveVWAP, Weight: 2},
		{Name: models.DriverEMACrossBearish, Weight: -2},
		{Name: models.DriverOIShortBuildup, Weight: -2},
	}
	assert.Equal(t, -2, Score(mixed))

	assert.Equal(t, 0, Score(nil))
}

func TestDampen_OpeningPhase(t *testing.T) {
	tests := []struct {
		raw  int
		want int
	}{
		{8, 5},   // 4.8 rounds to 5
		{-8, -5}, // -4.8 rounds away from zero to -5
		{7, 4},   // 4.2 rounds to 4
		{-7, -4},
		{5, 3}, // 3.0 exact
		{0, 0},
		{10, 6},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Dampen(tt.raw, models.PhaseOpening), "raw=%d", tt.raw)
	}
}

func TestDampen_OtherPhasesPassThrough(t *testing.T) {
	for _, phase := range []models.SessionPhase{models.PhaseNormal, models.PhaseClosing} {
		assert.Equal(t, 8, Dampen(8, phase))
		assert.Equal(t, -8, Dampen(-8, phase))
	}
}
