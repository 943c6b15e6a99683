package indicator

import (
	"math"

	"github.com/quantora/marketlens/internal/contracts"
)

// Standard periods. The Fibonacci lookback is the only configurable one.
const (
	smaShortPeriod = 20
	smaLongPeriod  = 50
	emaPeriod      = 20
	rsiPeriod      = 14
	macdFastPeriod = 12
	macdSlowPeriod = 26
	macdSignalSpan = 9
	atrPeriod      = 14
	bollingerWidth = 2.0

	// DefaultFibLookback is one trading year
	DefaultFibLookback = 252
)

// State is an incremental indicator calculator over one security's bar
// stream. Feed bars oldest first; each Next returns the indicator row
// for that bar. Indicators report nil until their warm-up window has
// passed, so a row computed at position i is identical no matter how
// many later bars exist - recomputing a full history and extending an
// old one produce the same rows.
type State struct {
	n         int
	prevClose float64
	obv       int64

	closesShort *window // SMA20 + Bollinger + volatility source
	closesLong  *window
	ema         *emaStream
	rsi         *rsiStream
	emaFast     *emaStream
	emaSlow     *emaStream
	macdSignal  *emaStream
	atr         *atrStream
	fibHighs    *window
	fibLows     *window
}

// NewState creates a calculator. fibLookback is the rolling window for
// the retracement range; values below 2 fall back to the default.
func NewState(fibLookback int) *State {
	if fibLookback < 2 {
		fibLookback = DefaultFibLookback
	}
	return &State{
		closesShort: newWindow(smaShortPeriod),
		closesLong:  newWindow(smaLongPeriod),
		ema:         newEMAStream(emaPeriod),
		rsi:         newRSIStream(rsiPeriod),
		emaFast:     newEMAStream(macdFastPeriod),
		emaSlow:     newEMAStream(macdSlowPeriod),
		macdSignal:  newEMAStream(macdSignalSpan),
		atr:         newATRStream(atrPeriod),
		fibHighs:    newWindow(fibLookback),
		fibLows:     newWindow(fibLookback),
	}
}

// Next consumes one bar and returns its indicator row
func (s *State) Next(bar *contracts.Bar) *contracts.IndicatorRow {
	s.n++
	row := &contracts.IndicatorRow{
		Ticker: bar.Ticker,
		Date:   bar.Date,
		Close:  bar.Close,
	}

	s.closesShort.push(bar.Close)
	s.closesLong.push(bar.Close)

	if s.closesShort.full {
		row.SMA20 = ptr(s.closesShort.mean())

		mid := s.closesShort.mean()
		dev := s.closesShort.stddev()
		row.BBMiddle = ptr(mid)
		row.BBUpper = ptr(mid + bollingerWidth*dev)
		row.BBLower = ptr(mid - bollingerWidth*dev)

		if vol, ok := volatility(s.closesShort.ordered()); ok {
			row.Volatility20 = ptr(vol)
		}
	}
	if s.closesLong.full {
		row.SMA50 = ptr(s.closesLong.mean())
	}

	if v, ok := s.ema.next(bar.Close); ok {
		row.EMA20 = ptr(v)
	}

	fast, fastOK := s.emaFast.next(bar.Close)
	slow, slowOK := s.emaSlow.next(bar.Close)
	if fastOK && slowOK {
		macd := fast - slow
		row.MACD = ptr(macd)
		if sig, ok := s.macdSignal.next(macd); ok {
			row.MACDSignal = ptr(sig)
			row.MACDHist = ptr(macd - sig)
		}
	}

	// True range and RSI need a previous close; the first bar seeds
	// them with its own range and a zero OBV baseline.
	if s.n == 1 {
		s.atr.next(bar.High - bar.Low)
	} else {
		tr := trueRange(bar.High, bar.Low, s.prevClose)
		if v, ok := s.atr.next(tr); ok {
			row.ATR14 = ptr(v)
		}
		if v, ok := s.rsi.next(bar.Close - s.prevClose); ok {
			row.RSI14 = ptr(v)
		}
		switch {
		case bar.Close > s.prevClose:
			s.obv += bar.Volume
		case bar.Close < s.prevClose:
			s.obv -= bar.Volume
		}
	}
	row.OBV = s.obv

	s.fibHighs.push(bar.High)
	s.fibLows.push(bar.Low)
	fib := computeFib(s.fibLows.min(), s.fibHighs.max(), bar.Close)
	row.Fib0 = fib.levels[0]
	row.Fib236 = fib.levels[1]
	row.Fib382 = fib.levels[2]
	row.Fib50 = fib.levels[3]
	row.Fib618 = fib.levels[4]
	row.Fib100 = fib.levels[5]
	row.NearestFibLevel = fib.nearest
	row.FibState = fib.state

	s.prevClose = bar.Close
	return row
}

func trueRange(high, low, prevClose float64) float64 {
	tr := high - low
	if d := math.Abs(high - prevClose); d > tr {
		tr = d
	}
	if d := math.Abs(low - prevClose); d > tr {
		tr = d
	}
	return tr
}

// volatility is the sample standard deviation of the simple returns
// between consecutive closes. 20 closes give 19 returns.
func volatility(closes []float64) (float64, bool) {
	if len(closes) < 3 {
		return 0, false
	}
	rets := newWindow(len(closes) - 1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			return 0, false
		}
		rets.push(closes[i]/closes[i-1] - 1)
	}
	return rets.stddev(), true
}

func ptr(v float64) *float64 { return &v }
