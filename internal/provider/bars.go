package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/quantora/marketlens/internal/contracts"
)

// chartResponse mirrors the quote API's daily chart payload. Price and
// volume arrays use null for days the venue reported nothing.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchBars returns daily bars for a ticker from the given date up to
// now, oldest first. Days with incomplete quotes are dropped.
func (c *Client) FetchBars(ctx context.Context, ticker string, from time.Time) ([]*contracts.Bar, error) {
	url := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d",
		c.cfg.BaseURL, ticker, from.Unix(), time.Now().Unix())

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bars for %s: %w", ticker, err)
	}
	defer body.Close()

	var payload chartResponse
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode chart for %s: %w", ticker, err)
	}
	return parseChart(ticker, &payload)
}

func parseChart(ticker string, payload *chartResponse) ([]*contracts.Bar, error) {
	if payload.Chart.Error != nil {
		return nil, fmt.Errorf("chart error for %s: %s", ticker, payload.Chart.Error.Description)
	}
	if len(payload.Chart.Result) == 0 || len(payload.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("chart for %s: %w", ticker, contracts.ErrMissingData)
	}

	result := payload.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	bars := make([]*contracts.Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Open) || i >= len(quote.High) || i >= len(quote.Low) ||
			i >= len(quote.Close) || i >= len(quote.Volume) {
			break
		}
		if quote.Open[i] == nil || quote.High[i] == nil || quote.Low[i] == nil ||
			quote.Close[i] == nil || quote.Volume[i] == nil {
			continue
		}
		bars = append(bars, &contracts.Bar{
			Ticker: ticker,
			Date:   time.Unix(ts, 0).UTC().Truncate(24 * time.Hour),
			Open:   *quote.Open[i],
			High:   *quote.High[i],
			Low:    *quote.Low[i],
			Close:  *quote.Close[i],
			Volume: *quote.Volume[i],
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}
