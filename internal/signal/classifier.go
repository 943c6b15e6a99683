package signal

import (
	"github.com/quantora/marketlens/internal/contracts"
	"github.com/quantora/marketlens/pkg/config"
)

// Classifier turns indicator values into per-indicator verdicts using
// the configured thresholds. An indicator still inside its warm-up
// window yields a nil verdict and is excluded from aggregation, never
// counted as HOLD.
type Classifier struct {
	cfg config.SignalConfig
}

// NewClassifier creates a classifier with the given thresholds
func NewClassifier(cfg config.SignalConfig) *Classifier {
	return &Classifier{cfg: cfg}
}

// TechnicalVerdicts holds the classification of one indicator row
type TechnicalVerdicts struct {
	RSI       *contracts.Verdict
	SMAvsEMA  *contracts.Verdict
	MACD      *contracts.Verdict
	Bollinger *contracts.Verdict
	Fibonacci *contracts.Verdict

	BollingerState *string
	FibonacciState string
}

// FundamentalVerdicts holds the classification of one snapshot
type FundamentalVerdicts struct {
	PER        *contracts.Verdict
	ROE        *contracts.Verdict
	EPSGrowth  *contracts.Verdict
	DebtEquity *contracts.Verdict
}

// Technical classifies the latest indicator row
func (c *Classifier) Technical(row *contracts.IndicatorRow) TechnicalVerdicts {
	var tv TechnicalVerdicts
	if row == nil {
		return tv
	}
	tv.FibonacciState = row.FibState

	if row.RSI14 != nil {
		tv.RSI = verdictPtr(c.classifyRSI(*row.RSI14))
	}
	if row.SMA20 != nil && row.EMA20 != nil {
		tv.SMAvsEMA = verdictPtr(classifyCross(*row.SMA20, *row.EMA20))
	}
	if row.MACD != nil && row.MACDSignal != nil {
		tv.MACD = verdictPtr(classifyCross(*row.MACD, *row.MACDSignal))
	}
	if row.BBUpper != nil && row.BBLower != nil {
		v, state := classifyBollinger(row.Close, *row.BBUpper, *row.BBLower)
		tv.Bollinger = verdictPtr(v)
		tv.BollingerState = &state
	}
	if row.NearestFibLevel != "" {
		tv.Fibonacci = verdictPtr(classifyFibonacci(row.NearestFibLevel))
	}
	return tv
}

// Fundamental classifies the current fundamental snapshot
func (c *Classifier) Fundamental(snap *contracts.FundamentalSnapshot) FundamentalVerdicts {
	var fv FundamentalVerdicts
	if snap == nil {
		return fv
	}
	if snap.PER != nil {
		fv.PER = verdictPtr(c.classifyPER(*snap.PER))
	}
	if snap.ROE != nil {
		fv.ROE = verdictPtr(c.classifyROE(*snap.ROE))
	}
	if snap.EPSGrowthYoY != nil {
		fv.EPSGrowth = verdictPtr(c.classifyEPSGrowth(*snap.EPSGrowthYoY))
	}
	if snap.DebtToEquity != nil {
		fv.DebtEquity = verdictPtr(c.classifyDebtEquity(*snap.DebtToEquity))
	}
	return fv
}

func (c *Classifier) classifyRSI(rsi float64) contracts.Verdict {
	switch {
	case rsi < c.cfg.RSIOversold:
		return contracts.VerdictBuy
	case rsi > c.cfg.RSIOverbought:
		return contracts.VerdictSell
	default:
		return contracts.VerdictHold
	}
}

// classifyCross compares a line against its reference: above is a buy,
// below a sell, equality holds. Used for SMA-over-EMA and
// MACD-over-signal.
func classifyCross(line, reference float64) contracts.Verdict {
	switch {
	case line > reference:
		return contracts.VerdictBuy
	case line < reference:
		return contracts.VerdictSell
	default:
		return contracts.VerdictHold
	}
}

// classifyFibonacci reads the nearest retracement level: a close
// hugging the top of the range (61.8% or 100%) is bullish, one hugging
// the bottom (0% or 23.6%) bearish, the middle of the grid neutral.
func classifyFibonacci(nearest string) contracts.Verdict {
	switch nearest {
	case "61.8%", "100%":
		return contracts.VerdictBuy
	case "0%", "23.6%":
		return contracts.VerdictSell
	default:
		return contracts.VerdictHold
	}
}

func classifyBollinger(close, upper, lower float64) (contracts.Verdict, string) {
	switch {
	case close > upper:
		return contracts.VerdictSell, contracts.BollingerOverbought
	case close < lower:
		return contracts.VerdictBuy, contracts.BollingerOversold
	default:
		return contracts.VerdictHold, contracts.BollingerNormal
	}
}

// classifyPER treats non-positive earnings as a sell regardless of the
// buy cutoff; a negative ratio would otherwise pass the "cheap" test.
func (c *Classifier) classifyPER(per float64) contracts.Verdict {
	switch {
	case per <= 0:
		return contracts.VerdictSell
	case per < c.cfg.PERBuyBelow:
		return contracts.VerdictBuy
	case per > c.cfg.PERSellAbove:
		return contracts.VerdictSell
	default:
		return contracts.VerdictHold
	}
}

func (c *Classifier) classifyROE(roe float64) contracts.Verdict {
	switch {
	case roe > c.cfg.ROEBuyAbove:
		return contracts.VerdictBuy
	case roe < c.cfg.ROESellBelow:
		return contracts.VerdictSell
	default:
		return contracts.VerdictHold
	}
}

func (c *Classifier) classifyEPSGrowth(growth float64) contracts.Verdict {
	switch {
	case growth > c.cfg.EPSGrowthBuyAbove:
		return contracts.VerdictBuy
	case growth < 0:
		return contracts.VerdictSell
	default:
		return contracts.VerdictHold
	}
}

func (c *Classifier) classifyDebtEquity(de float64) contracts.Verdict {
	switch {
	case de < c.cfg.DebtEquityBuyBelow:
		return contracts.VerdictBuy
	case de > c.cfg.DebtEquitySellAbove:
		return contracts.VerdictSell
	default:
		return contracts.VerdictHold
	}
}

func verdictPtr(v contracts.Verdict) *contracts.Verdict { return &v }
