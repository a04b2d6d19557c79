package breadth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore_WeightedAverage(t *testing.T) {
	score := Score([]Constituent{
		{Symbol: "RELIANCE", Weight: 10, Participation: 1},
		{Symbol: "HDFCBANK", Weight: 10, Participation: -1},
	})
	assert.Zero(t, score)

	score = Score([]Constituent{
		{Symbol: "RELIANCE", Weight: 30, Participation: 1},
		{Symbol: "HDFCBANK", Weight: 10, Participation: -1},
	})
	assert.InDelta(t, 0.5, score, 1e-9)
}

func TestScore_Empty(t *testing.T) {
	assert.Zero(t, Score(nil))
	assert.Zero(t, Score([]Constituent{}))
}

func TestScore_IgnoresNonPositiveWeights(t *testing.T) {
	score := Score([]Constituent{
		{Symbol: "RELIANCE", Weight: 0, Participation: 1},
		{Symbol: "HDFCBANK", Weight: -5, Participation: 1},
	})
	assert.Zero(t, score)

	score = Score([]Constituent{
		{Symbol: "RELIANCE", Weight: 0, Participation: -1},
		{Symbol: "INFY", Weight: 20, Participation: 0.5},
	})
	assert.InDelta(t, 0.5, score, 1e-9)
}

func TestScore_ClampsParticipation(t *testing.T) {
	score := Score([]Constituent{
		{Symbol: "RELIANCE", Weight: 10, Participation: 5},
	})
	assert.InDelta(t, 1, score, 1e-9)

	score = Score([]Constituent{
		{Symbol: "RELIANCE", Weight: 10, Participation: -5},
	})
	assert.InDelta(t, -1, score, 1e-9)
}
