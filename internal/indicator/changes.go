package indicator

import "github.com/quantora/marketlens/internal/contracts"

// Trailing horizons in trading days
const (
	horizonDaily   = 1
	horizonWeekly  = 5
	horizonMonthly = 21
	horizonAnnual  = 252
	horizon5Y      = 1260
)

// Changes computes trailing percent changes of the close over the
// standard horizons, one row per bar. A horizon reaching past the start
// of the series, or onto a zero close, yields nil.
func Changes(bars []*contracts.Bar) []*contracts.PriceChange {
	out := make([]*contracts.PriceChange, 0, len(bars))
	for i, b := range bars {
		out = append(out, &contracts.PriceChange{
			Ticker:   b.Ticker,
			Date:     b.Date,
			Close:    b.Close,
			Daily:    pctChange(bars, i, horizonDaily),
			Weekly:   pctChange(bars, i, horizonWeekly),
			Monthly:  pctChange(bars, i, horizonMonthly),
			Annual:   pctChange(bars, i, horizonAnnual),
			FiveYear: pctChange(bars, i, horizon5Y),
		})
	}
	return out
}

func pctChange(bars []*contracts.Bar, i, lag int) *float64 {
	j := i - lag
	if j < 0 {
		return nil
	}
	base := bars[j].Close
	if base == 0 {
		return nil
	}
	return ptr(bars[i].Close/base - 1)
}
