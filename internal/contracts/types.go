package contracts

import "time"

// Security represents a registry entry for one listed company
type Security struct {
	Ticker   string `json:"ticker"`
	Name     string `json:"name"`
	Sector   string `json:"sector"`
	Industry string `json:"industry"`
}

// Bar represents one day's OHLCV data for a security.
// Bars are immutable once ingested; (Ticker, Date) is unique.
type Bar struct {
	Ticker string    `json:"ticker"`
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// FundamentalSnapshot represents the current fundamental ratios for a
// security. One row per ticker, replaced wholesale on each refresh.
type FundamentalSnapshot struct {
	Ticker            string   `json:"ticker"`
	PER               *float64 `json:"per"`
	ROE               *float64 `json:"roe"`
	EPSGrowthYoY      *float64 `json:"eps_growth_yoy"`
	DebtToEquity      *float64 `json:"debt_to_equity"`
	NetMargin         *float64 `json:"net_margin"`
	DividendYield     *float64 `json:"dividend_yield"`
	MarketCap         int64    `json:"market_cap"`
	SharesOutstanding int64    `json:"shares_outstanding"`
	MarketCapRank     int      `json:"ranking_marketcap"`
}

// IndicatorRow holds the technical indicators derived from one bar.
// Keyed by (Ticker, Date); fully recomputable from the bar history.
// Pointer fields are nil during the indicator's warm-up window - nil
// means "not yet defined", never "neutral".
type IndicatorRow struct {
	Ticker string    `json:"ticker"`
	Date   time.Time `json:"date"`
	Close  float64   `json:"close"`

	SMA20 *float64 `json:"sma_20"`
	SMA50 *float64 `json:"sma_50"`
	EMA20 *float64 `json:"ema_20"`
	RSI14 *float64 `json:"rsi_14"`

	MACD       *float64 `json:"macd"`
	MACDSignal *float64 `json:"macd_signal"`
	MACDHist   *float64 `json:"macd_hist"`

	ATR14 *float64 `json:"atr_14"`
	OBV   int64    `json:"obv"`

	BBMiddle *float64 `json:"bb_middle"`
	BBUpper  *float64 `json:"bb_upper"`
	BBLower  *float64 `json:"bb_lower"`

	Volatility20 *float64 `json:"volatility_20"`

	Fib0   float64 `json:"fib_0"`
	Fib236 float64 `json:"fib_23_6"`
	Fib382 float64 `json:"fib_38_2"`
	Fib50  float64 `json:"fib_50"`
	Fib618 float64 `json:"fib_61_8"`
	Fib100 float64 `json:"fib_100"`

	NearestFibLevel string `json:"nearest_fib_level"`
	FibState        string `json:"fib_state"`
}

// InvestmentSummary is the composite recommendation for one security.
// It is a pure function of the latest IndicatorRow and the current
// FundamentalSnapshot and is fully replaced on each recomputation.
type InvestmentSummary struct {
	Ticker string `json:"ticker"`

	// Buy fractions over the non-nil indicators of each group.
	// nil when every indicator in the group was undefined.
	PctTechnicalBuy   *float64 `json:"pct_technical_buy"`
	PctFundamentalBuy *float64 `json:"pct_fundamental_buy"`

	FinalDecision Verdict `json:"final_decision"`

	BollingerState  *string  `json:"bollinger_state"`
	SMAvsEMA        *Verdict `json:"sma_vs_ema"`
	MACDState       *Verdict `json:"macd_state"`
	RSIState        *Verdict `json:"rsi_state"`
	PERState        *Verdict `json:"per_state"`
	ROEState        *Verdict `json:"roe_state"`
	EPSGrowthState  *Verdict `json:"eps_growth_state"`
	DebtEquityState *Verdict `json:"debt_equity_state"`
	FibonacciState  string   `json:"fibonacci_state"`
}

// PriceChange holds trailing percent changes of the closing price over
// standard horizons (in trading days: 1, 5, 21, 252, 1260).
type PriceChange struct {
	Ticker string    `json:"ticker"`
	Date   time.Time `json:"date"`
	Close  float64   `json:"close"`

	Daily    *float64 `json:"var_daily"`
	Weekly   *float64 `json:"var_weekly"`
	Monthly  *float64 `json:"var_monthly"`
	Annual   *float64 `json:"var_annual"`
	FiveYear *float64 `json:"var_5y"`
}

// RankedSecurity pairs a ticker with its dense market-cap rank
type RankedSecurity struct {
	Ticker    string `json:"ticker"`
	MarketCap int64  `json:"market_cap"`
	Rank      int    `json:"rank"`
}
