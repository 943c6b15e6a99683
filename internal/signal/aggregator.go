package signal

import (
	"github.com/quantora/marketlens/internal/contracts"
	"github.com/quantora/marketlens/pkg/config"
)

// Aggregator folds per-indicator verdicts into one composite decision.
// Each group's buy fraction counts BUY verdicts over defined verdicts
// only; a group with nothing defined reports nil. The final decision is
// BUY when both fractions clear the majority threshold, SELL when both
// fall under the minority threshold, HOLD otherwise - including when
// either fraction is undefined.
type Aggregator struct {
	cfg config.SignalConfig
}

// NewAggregator creates an aggregator with the given thresholds
func NewAggregator(cfg config.SignalConfig) *Aggregator {
	return &Aggregator{cfg: cfg}
}

// Summarize builds the investment summary for one security
func (a *Aggregator) Summarize(ticker string, tech TechnicalVerdicts, fund FundamentalVerdicts) *contracts.InvestmentSummary {
	pctTech := buyFraction(tech.RSI, tech.SMAvsEMA, tech.MACD, tech.Bollinger, tech.Fibonacci)
	pctFund := buyFraction(fund.PER, fund.ROE, fund.EPSGrowth, fund.DebtEquity)

	return &contracts.InvestmentSummary{
		Ticker:            ticker,
		PctTechnicalBuy:   pctTech,
		PctFundamentalBuy: pctFund,
		FinalDecision:     a.decide(pctTech, pctFund),

		BollingerState:  tech.BollingerState,
		SMAvsEMA:        tech.SMAvsEMA,
		MACDState:       tech.MACD,
		RSIState:        tech.RSI,
		PERState:        fund.PER,
		ROEState:        fund.ROE,
		EPSGrowthState:  fund.EPSGrowth,
		DebtEquityState: fund.DebtEquity,
		FibonacciState:  tech.FibonacciState,
	}
}

func (a *Aggregator) decide(pctTech, pctFund *float64) contracts.Verdict {
	if pctTech == nil || pctFund == nil {
		return contracts.VerdictHold
	}
	switch {
	case *pctTech > a.cfg.MajorityThreshold && *pctFund > a.cfg.MajorityThreshold:
		return contracts.VerdictBuy
	case *pctTech < a.cfg.MinorityThreshold && *pctFund < a.cfg.MinorityThreshold:
		return contracts.VerdictSell
	default:
		return contracts.VerdictHold
	}
}

func buyFraction(verdicts ...*contracts.Verdict) *float64 {
	var defined, buys int
	for _, v := range verdicts {
		if v == nil {
			continue
		}
		defined++
		if *v == contracts.VerdictBuy {
			buys++
		}
	}
	if defined == 0 {
		return nil
	}
	f := float64(buys) / float64(defined)
	return &f
}
