package indicator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quantora/marketlens/internal/contracts"
)

func TestComputeFibLevels(t *testing.T) {
	f := computeFib(130, 155, 150)

	assert.InDelta(t, 130, f.levels[0], 1e-9)
	assert.InDelta(t, 135.9, f.levels[1], 1e-9)
	assert.InDelta(t, 139.55, f.levels[2], 1e-9)
	assert.InDelta(t, 142.5, f.levels[3], 1e-9)
	assert.InDelta(t, 145.45, f.levels[4], 1e-9)
	assert.InDelta(t, 155, f.levels[5], 1e-9)

	// 150 is 4.55 from the 61.8% level and 5 from the high
	assert.Equal(t, "61.8%", f.nearest)
	assert.Equal(t, "between 61.8% and 100%", f.state)
}

func TestComputeFibOutsideRange(t *testing.T) {
	above := computeFib(130, 155, 160)
	assert.Equal(t, contracts.FibAboveRange, above.state)
	assert.Equal(t, "100%", above.nearest)

	below := computeFib(130, 155, 120)
	assert.Equal(t, contracts.FibBelowRange, below.state)
	assert.Equal(t, "0%", below.nearest)
}

func TestComputeFibDegenerateRange(t *testing.T) {
	f := computeFib(100, 100, 100)
	assert.Equal(t, "50%", f.nearest)
	assert.Equal(t, "between 0% and 100%", f.state)
	for _, lv := range f.levels {
		assert.InDelta(t, 100, lv, 1e-9)
	}
}

func TestComputeFibAtExactLevel(t *testing.T) {
	// Close sitting exactly on the low anchors the bottom band
	f := computeFib(100, 200, 100)
	assert.Equal(t, "0%", f.nearest)
	assert.Equal(t, "between 0% and 23.6%", f.state)
}

func TestChanges(t *testing.T) {
	bars := risingBars(30, 100)
	changes := Changes(bars)

	assert.Nil(t, changes[0].Daily)
	assert.Nil(t, changes[10].Monthly)
	assert.Nil(t, changes[29].Annual)

	// close 101 over 100
	assert.InDelta(t, 0.01, *changes[1].Daily, 1e-9)
	// close 105 over 100
	assert.InDelta(t, 0.05, *changes[5].Weekly, 1e-9)
	// close 121 over 100
	assert.InDelta(t, 0.21, *changes[21].Monthly, 1e-9)
}
