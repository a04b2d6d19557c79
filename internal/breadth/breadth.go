// Package breadth computes the market-breadth participation score across
// index constituents. It is auxiliary arithmetic, independent of the thesis
// engine; nothing in the evaluation pipeline consumes it by default.
package breadth

// Constituent is one index member's participation reading
type Constituent struct {
	Symbol string
	Weight float64 // index weight, > 0
	// Participation in [-1, 1]: +1 fully advancing, -1 fully declining
	Participation float64
}

// Score returns the weight-averaged participation across constituents, in
// [-1, 1]. Constituents with non-positive weight are ignored; an empty or
// all-ignored input scores 0.
func Score(constituents []Constituent) float64 {
	var weighted, total float64
	for _, c := range constituents {
		if c.Weight <= 0 {
			continue
		}
		weighted += c.Weight * clamp(c.Participation)
		total += c.Weight
	}
	if total == 0 {
		return 0
	}
	return weighted / total
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
