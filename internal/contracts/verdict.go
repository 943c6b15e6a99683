package contracts

// Verdict is a three-valued trading signal
type Verdict string

const (
	VerdictBuy  Verdict = "BUY"
	VerdictSell Verdict = "SELL"
	VerdictHold Verdict = "HOLD"
)

// Valid reports whether v is one of the three defined verdicts
func (v Verdict) Valid() bool {
	switch v {
	case VerdictBuy, VerdictSell, VerdictHold:
		return true
	}
	return false
}

// Bollinger band states reported alongside the Bollinger verdict
const (
	BollingerOverbought = "overbought" // close above upper band
	BollingerOversold   = "oversold"   // close below lower band
	BollingerNormal     = "normal"
)

// Fibonacci range states for closes outside the retracement range.
// Closes inside the range get a "between <a> and <b>" state built from
// the two adjacent level labels.
const (
	FibAboveRange = "above_range"
	FibBelowRange = "below_range"
)
