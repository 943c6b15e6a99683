package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantora/marketlens/internal/contracts"
	"github.com/quantora/marketlens/pkg/config"
)

func testSignalConfig() config.SignalConfig {
	return config.SignalConfig{
		RSIOversold:         30,
		RSIOverbought:       70,
		PERBuyBelow:         20,
		PERSellAbove:        30,
		ROEBuyAbove:         0.15,
		ROESellBelow:        0.05,
		EPSGrowthBuyAbove:   0.10,
		DebtEquityBuyBelow:  100,
		DebtEquitySellAbove: 200,
		MajorityThreshold:   0.5,
		MinorityThreshold:   0.25,
	}
}

func f(v float64) *float64 { return &v }

func TestClassifierTechnical(t *testing.T) {
	c := NewClassifier(testSignalConfig())

	// RSI oversold, SMA below EMA, MACD below signal, close above the
	// upper band, close hugging the top of the retracement range
	row := &contracts.IndicatorRow{
		Close:           150,
		RSI14:           f(25),
		SMA20:           f(140),
		EMA20:           f(142),
		MACD:            f(-1.2),
		MACDSignal:      f(-0.8),
		BBUpper:         f(148),
		BBLower:         f(132),
		NearestFibLevel: "61.8%",
		FibState:        "between 61.8% and 100%",
	}

	tv := c.Technical(row)
	require.NotNil(t, tv.RSI)
	assert.Equal(t, contracts.VerdictBuy, *tv.RSI)
	assert.Equal(t, contracts.VerdictSell, *tv.SMAvsEMA)
	assert.Equal(t, contracts.VerdictSell, *tv.MACD)
	assert.Equal(t, contracts.VerdictSell, *tv.Bollinger)
	require.NotNil(t, tv.BollingerState)
	assert.Equal(t, contracts.BollingerOverbought, *tv.BollingerState)
	require.NotNil(t, tv.Fibonacci)
	assert.Equal(t, contracts.VerdictBuy, *tv.Fibonacci)
	assert.Equal(t, "between 61.8% and 100%", tv.FibonacciState)
}

func TestClassifierFibonacciLevels(t *testing.T) {
	assert.Equal(t, contracts.VerdictBuy, classifyFibonacci("100%"))
	assert.Equal(t, contracts.VerdictSell, classifyFibonacci("0%"))
	assert.Equal(t, contracts.VerdictSell, classifyFibonacci("23.6%"))
	assert.Equal(t, contracts.VerdictHold, classifyFibonacci("38.2%"))
	assert.Equal(t, contracts.VerdictHold, classifyFibonacci("50%"))
}

func TestClassifierTechnicalWarmup(t *testing.T) {
	c := NewClassifier(testSignalConfig())

	// Nothing defined yet: every verdict stays nil
	tv := c.Technical(&contracts.IndicatorRow{Close: 100})
	assert.Nil(t, tv.RSI)
	assert.Nil(t, tv.SMAvsEMA)
	assert.Nil(t, tv.MACD)
	assert.Nil(t, tv.Bollinger)
	assert.Nil(t, tv.Fibonacci)
	assert.Nil(t, tv.BollingerState)
}

func TestClassifierRSIBands(t *testing.T) {
	c := NewClassifier(testSignalConfig())

	assert.Equal(t, contracts.VerdictBuy, c.classifyRSI(29.9))
	assert.Equal(t, contracts.VerdictHold, c.classifyRSI(30))
	assert.Equal(t, contracts.VerdictHold, c.classifyRSI(70))
	assert.Equal(t, contracts.VerdictSell, c.classifyRSI(70.1))
}

func TestClassifierFundamental(t *testing.T) {
	c := NewClassifier(testSignalConfig())

	fv := c.Fundamental(&contracts.FundamentalSnapshot{
		PER:          f(15),
		ROE:          f(0.20),
		EPSGrowthYoY: f(-0.02),
		DebtToEquity: f(150),
	})
	assert.Equal(t, contracts.VerdictBuy, *fv.PER)
	assert.Equal(t, contracts.VerdictBuy, *fv.ROE)
	assert.Equal(t, contracts.VerdictSell, *fv.EPSGrowth)
	assert.Equal(t, contracts.VerdictHold, *fv.DebtEquity)
}

func TestClassifierFundamentalMissingFields(t *testing.T) {
	c := NewClassifier(testSignalConfig())

	fv := c.Fundamental(&contracts.FundamentalSnapshot{ROE: f(0.01)})
	assert.Nil(t, fv.PER)
	assert.Nil(t, fv.EPSGrowth)
	assert.Nil(t, fv.DebtEquity)
	require.NotNil(t, fv.ROE)
	assert.Equal(t, contracts.VerdictSell, *fv.ROE)
}

func TestClassifierNegativePER(t *testing.T) {
	c := NewClassifier(testSignalConfig())

	fv := c.Fundamental(&contracts.FundamentalSnapshot{PER: f(-8)})
	require.NotNil(t, fv.PER)
	assert.Equal(t, contracts.VerdictSell, *fv.PER)
}
