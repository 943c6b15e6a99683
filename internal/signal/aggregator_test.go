package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantora/marketlens/internal/contracts"
)

func v(verdict contracts.Verdict) *contracts.Verdict { return &verdict }

func TestAggregatorBuy(t *testing.T) {
	a := NewAggregator(testSignalConfig())

	sum := a.Summarize("AAPL",
		TechnicalVerdicts{
			RSI:       v(contracts.VerdictBuy),
			SMAvsEMA:  v(contracts.VerdictBuy),
			MACD:      v(contracts.VerdictBuy),
			Bollinger: v(contracts.VerdictHold),
		},
		FundamentalVerdicts{
			PER:        v(contracts.VerdictBuy),
			ROE:        v(contracts.VerdictBuy),
			EPSGrowth:  v(contracts.VerdictHold),
			DebtEquity: v(contracts.VerdictBuy),
		},
	)

	require.NotNil(t, sum.PctTechnicalBuy)
	require.NotNil(t, sum.PctFundamentalBuy)
	assert.InDelta(t, 0.75, *sum.PctTechnicalBuy, 1e-9)
	assert.InDelta(t, 0.75, *sum.PctFundamentalBuy, 1e-9)
	assert.Equal(t, contracts.VerdictBuy, sum.FinalDecision)
}

func TestAggregatorSell(t *testing.T) {
	a := NewAggregator(testSignalConfig())

	sum := a.Summarize("AAPL",
		TechnicalVerdicts{
			RSI:       v(contracts.VerdictSell),
			SMAvsEMA:  v(contracts.VerdictSell),
			MACD:      v(contracts.VerdictHold),
			Bollinger: v(contracts.VerdictSell),
		},
		FundamentalVerdicts{
			PER:        v(contracts.VerdictSell),
			ROE:        v(contracts.VerdictHold),
			EPSGrowth:  v(contracts.VerdictSell),
			DebtEquity: v(contracts.VerdictHold),
		},
	)

	assert.InDelta(t, 0, *sum.PctTechnicalBuy, 1e-9)
	assert.InDelta(t, 0, *sum.PctFundamentalBuy, 1e-9)
	assert.Equal(t, contracts.VerdictSell, sum.FinalDecision)
}

func TestAggregatorHoldOnSplit(t *testing.T) {
	a := NewAggregator(testSignalConfig())

	// Technicals bullish, fundamentals not: no consensus
	sum := a.Summarize("AAPL",
		TechnicalVerdicts{
			RSI:      v(contracts.VerdictBuy),
			SMAvsEMA: v(contracts.VerdictBuy),
			MACD:     v(contracts.VerdictBuy),
		},
		FundamentalVerdicts{
			PER: v(contracts.VerdictHold),
			ROE: v(contracts.VerdictHold),
		},
	)

	assert.InDelta(t, 1, *sum.PctTechnicalBuy, 1e-9)
	assert.InDelta(t, 0, *sum.PctFundamentalBuy, 1e-9)
	assert.Equal(t, contracts.VerdictHold, sum.FinalDecision)
}

func TestAggregatorPartialWarmup(t *testing.T) {
	a := NewAggregator(testSignalConfig())

	// Only one technical defined; fraction uses defined verdicts only
	sum := a.Summarize("AAPL",
		TechnicalVerdicts{RSI: v(contracts.VerdictBuy)},
		FundamentalVerdicts{
			PER: v(contracts.VerdictBuy),
			ROE: v(contracts.VerdictBuy),
		},
	)

	assert.InDelta(t, 1, *sum.PctTechnicalBuy, 1e-9)
	assert.Equal(t, contracts.VerdictBuy, sum.FinalDecision)
}

func TestAggregatorAllUndefined(t *testing.T) {
	a := NewAggregator(testSignalConfig())

	sum := a.Summarize("AAPL", TechnicalVerdicts{}, FundamentalVerdicts{})
	assert.Nil(t, sum.PctTechnicalBuy)
	assert.Nil(t, sum.PctFundamentalBuy)
	assert.Equal(t, contracts.VerdictHold, sum.FinalDecision)
}

func TestAggregatorOneGroupUndefined(t *testing.T) {
	a := NewAggregator(testSignalConfig())

	// Unanimous technicals cannot force a BUY without fundamentals
	sum := a.Summarize("AAPL",
		TechnicalVerdicts{
			RSI:      v(contracts.VerdictBuy),
			SMAvsEMA: v(contracts.VerdictBuy),
		},
		FundamentalVerdicts{},
	)

	assert.Nil(t, sum.PctFundamentalBuy)
	assert.Equal(t, contracts.VerdictHold, sum.FinalDecision)
}
