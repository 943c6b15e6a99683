package provider

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/quantora/marketlens/internal/contracts"
)

// rawValue is the quote API's number wrapper; raw is null when the
// figure is not reported
type rawValue struct {
	Raw *float64 `json:"raw"`
}

// quoteSummaryResponse mirrors the quote API's fundamentals payload
type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			SummaryDetail struct {
				TrailingPE    rawValue `json:"trailingPE"`
				DividendYield rawValue `json:"dividendYield"`
				MarketCap     rawValue `json:"marketCap"`
			} `json:"summaryDetail"`
			DefaultKeyStatistics struct {
				SharesOutstanding rawValue `json:"sharesOutstanding"`
			} `json:"defaultKeyStatistics"`
			FinancialData struct {
				ReturnOnEquity rawValue `json:"returnOnEquity"`
				EarningsGrowth rawValue `json:"earningsGrowth"`
				DebtToEquity   rawValue `json:"debtToEquity"`
				ProfitMargins  rawValue `json:"profitMargins"`
			} `json:"financialData"`
		} `json:"result"`
	} `json:"quoteSummary"`
}

// FetchFundamentals returns the current fundamental snapshot for a
// ticker. Figures the upstream does not report come back nil and are
// later excluded from classification.
func (c *Client) FetchFundamentals(ctx context.Context, ticker string) (*contracts.FundamentalSnapshot, error) {
	url := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=summaryDetail,defaultKeyStatistics,financialData",
		c.cfg.BaseURL, ticker)

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch fundamentals for %s: %w", ticker, err)
	}
	defer body.Close()

	var payload quoteSummaryResponse
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode fundamentals for %s: %w", ticker, err)
	}
	return parseQuoteSummary(ticker, &payload)
}

func parseQuoteSummary(ticker string, payload *quoteSummaryResponse) (*contracts.FundamentalSnapshot, error) {
	if len(payload.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("fundamentals for %s: %w", ticker, contracts.ErrMissingData)
	}
	res := payload.QuoteSummary.Result[0]

	snap := &contracts.FundamentalSnapshot{
		Ticker:        ticker,
		PER:           res.SummaryDetail.TrailingPE.Raw,
		ROE:           res.FinancialData.ReturnOnEquity.Raw,
		EPSGrowthYoY:  res.FinancialData.EarningsGrowth.Raw,
		DebtToEquity:  res.FinancialData.DebtToEquity.Raw,
		NetMargin:     res.FinancialData.ProfitMargins.Raw,
		DividendYield: res.SummaryDetail.DividendYield.Raw,
	}
	if v := res.SummaryDetail.MarketCap.Raw; v != nil {
		snap.MarketCap = int64(*v)
	}
	if v := res.DefaultKeyStatistics.SharesOutstanding.Raw; v != nil {
		snap.SharesOutstanding = int64(*v)
	}
	return snap, nil
}
