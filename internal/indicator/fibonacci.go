package indicator

import (
	"fmt"
	"math"

	"github.com/quantora/marketlens/internal/contracts"
)

// fibLevels are the standard retracement ratios, ascending
var fibLevels = []struct {
	label string
	ratio float64
}{
	{"0%", 0},
	{"23.6%", 0.236},
	{"38.2%", 0.382},
	{"50%", 0.5},
	{"61.8%", 0.618},
	{"100%", 1},
}

// fibRetracement describes the retracement grid over one rolling range
// and where a close sits relative to it.
type fibRetracement struct {
	levels  [6]float64
	nearest string
	state   string
}

// computeFib anchors the grid at the rolling low (0%) and high (100%)
// and locates close against it. Ties on distance resolve to the lower
// level. A degenerate range (high == low) collapses every level onto
// the same price; it reports 50% as nearest and the full band as state.
func computeFib(low, high, close float64) fibRetracement {
	var f fibRetracement
	rng := high - low
	for i, lv := range fibLevels {
		f.levels[i] = low + lv.ratio*rng
	}

	if rng == 0 {
		f.nearest = "50%"
		f.state = "between 0% and 100%"
		return f
	}

	best := 0
	bestDist := math.Abs(close - f.levels[0])
	for i := 1; i < len(f.levels); i++ {
		if d := math.Abs(close - f.levels[i]); d < bestDist {
			best, bestDist = i, d
		}
	}
	f.nearest = fibLevels[best].label

	switch {
	case close > high:
		f.state = contracts.FibAboveRange
	case close < low:
		f.state = contracts.FibBelowRange
	default:
		// Find the band [level_i, level_i+1] holding close
		for i := len(f.levels) - 2; i >= 0; i-- {
			if close >= f.levels[i] {
				f.state = fmt.Sprintf("between %s and %s", fibLevels[i].label, fibLevels[i+1].label)
				break
			}
		}
	}
	return f
}
