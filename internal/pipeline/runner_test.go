package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantora/marketlens/internal/contracts"
	"github.com/quantora/marketlens/pkg/config"
	"github.com/quantora/marketlens/pkg/logger"
)

// In-memory fakes for the repository interfaces. Guarded by a mutex
// because workers hit them concurrently.

type fakeStore struct {
	mu sync.Mutex

	securities   []*contracts.Security
	bars         map[string][]*contracts.Bar
	fundamentals map[string]*contracts.FundamentalSnapshot

	indicatorLatest map[string]time.Time
	savedIndicators map[string][]*contracts.IndicatorRow
	savedChanges    map[string][]*contracts.PriceChange
	savedSummaries  map[string]*contracts.InvestmentSummary

	rankingRecomputed bool
	summarySaveErr    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		bars:            map[string][]*contracts.Bar{},
		fundamentals:    map[string]*contracts.FundamentalSnapshot{},
		indicatorLatest: map[string]time.Time{},
		savedIndicators: map[string][]*contracts.IndicatorRow{},
		savedChanges:    map[string][]*contracts.PriceChange{},
		savedSummaries:  map[string]*contracts.InvestmentSummary{},
	}
}

type fakeSecurities struct{ s *fakeStore }

func (f fakeSecurities) Save(ctx context.Context, sec *contracts.Security) error { return nil }
func (f fakeSecurities) SaveBatch(ctx context.Context, secs []*contracts.Security) error {
	return nil
}
func (f fakeSecurities) GetByTicker(ctx context.Context, ticker string) (*contracts.Security, error) {
	return nil, contracts.ErrMissingData
}
func (f fakeSecurities) GetAll(ctx context.Context) ([]*contracts.Security, error) {
	return f.s.securities, nil
}

type fakeBars struct{ s *fakeStore }

func (f fakeBars) SaveBatch(ctx context.Context, bars []*contracts.Bar) error { return nil }
func (f fakeBars) GetByTicker(ctx context.Context, ticker string) ([]*contracts.Bar, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return f.s.bars[ticker], nil
}
func (f fakeBars) GetByTickerSince(ctx context.Context, ticker string, from time.Time) ([]*contracts.Bar, error) {
	return f.GetByTicker(ctx, ticker)
}
func (f fakeBars) GetLatestDate(ctx context.Context, ticker string) (time.Time, error) {
	return time.Time{}, nil
}

type fakeIndicators struct{ s *fakeStore }

func (f fakeIndicators) SaveBatch(ctx context.Context, rows []*contracts.IndicatorRow) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if len(rows) > 0 {
		f.s.savedIndicators[rows[0].Ticker] = append(f.s.savedIndicators[rows[0].Ticker], rows...)
	}
	return nil
}
func (f fakeIndicators) GetByTicker(ctx context.Context, ticker string) ([]*contracts.IndicatorRow, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return f.s.savedIndicators[ticker], nil
}
func (f fakeIndicators) GetLatest(ctx context.Context, ticker string) (*contracts.IndicatorRow, error) {
	return nil, contracts.ErrMissingData
}
func (f fakeIndicators) GetLatestDate(ctx context.Context, ticker string) (time.Time, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return f.s.indicatorLatest[ticker], nil
}

type fakeFundamentals struct{ s *fakeStore }

func (f fakeFundamentals) Save(ctx context.Context, snap *contracts.FundamentalSnapshot) error {
	return nil
}
func (f fakeFundamentals) GetByTicker(ctx context.Context, ticker string) (*contracts.FundamentalSnapshot, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	snap, ok := f.s.fundamentals[ticker]
	if !ok {
		return nil, contracts.ErrMissingData
	}
	return snap, nil
}
func (f fakeFundamentals) RecomputeRanking(ctx context.Context) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.rankingRecomputed = true
	return nil
}
func (f fakeFundamentals) GetTopRanked(ctx context.Context, limit int) ([]*contracts.RankedSecurity, error) {
	return nil, nil
}

type fakeSummaries struct{ s *fakeStore }

func (f fakeSummaries) Save(ctx context.Context, sum *contracts.InvestmentSummary) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.summarySaveErr != nil {
		return f.s.summarySaveErr
	}
	f.s.savedSummaries[sum.Ticker] = sum
	return nil
}
func (f fakeSummaries) GetByTicker(ctx context.Context, ticker string) (*contracts.InvestmentSummary, error) {
	return nil, contracts.ErrMissingData
}

type fakeChanges struct{ s *fakeStore }

func (f fakeChanges) SaveBatch(ctx context.Context, changes []*contracts.PriceChange) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if len(changes) > 0 {
		f.s.savedChanges[changes[0].Ticker] = append(f.s.savedChanges[changes[0].Ticker], changes...)
	}
	return nil
}
func (f fakeChanges) GetByTicker(ctx context.Context, ticker string) ([]*contracts.PriceChange, error) {
	return nil, nil
}

func testRunner(s *fakeStore) *Runner {
	cfg := &config.Config{
		Env: "development",
		Pipeline: config.PipelineConfig{
			Workers:         4,
			SecurityTimeout: time.Minute,
			FibLookback:     252,
		},
		Signals: config.SignalConfig{
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
		},
		LogLevel:  "error",
		LogFormat: "json",
	}
	return NewRunner(cfg, logger.New(cfg), Deps{
		Securities:   fakeSecurities{s},
		Bars:         fakeBars{s},
		Indicators:   fakeIndicators{s},
		Fundamentals: fakeFundamentals{s},
		Summaries:    fakeSummaries{s},
		PriceChanges: fakeChanges{s},
	})
}

func barsFor(ticker string, n int) []*contracts.Bar {
	out := make([]*contracts.Bar, 0, n)
	for i := 0; i < n; i++ {
		c := 100 + float64(i)
		out = append(out, &contracts.Bar{
			Ticker: ticker,
			Date:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			Open:   c, High: c + 1, Low: c - 1, Close: c, Volume: 1000,
		})
	}
	return out
}

func TestRunnerHappyPath(t *testing.T) {
	s := newFakeStore()
	roe := 0.2
	for _, ticker := range []string{"AAA", "BBB"} {
		s.securities = append(s.securities, &contracts.Security{Ticker: ticker})
		s.bars[ticker] = barsFor(ticker, 60)
		s.fundamentals[ticker] = &contracts.FundamentalSnapshot{Ticker: ticker, ROE: &roe}
	}

	report, err := testRunner(s).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Processed)
	assert.Empty(t, report.Skipped)
	assert.Empty(t, report.Failed)
	assert.Equal(t, 120, report.IndicatorRows)
	assert.True(t, s.rankingRecomputed)

	require.Contains(t, s.savedSummaries, "AAA")
	sum := s.savedSummaries["AAA"]
	require.NotNil(t, sum.ROEState)
	assert.Equal(t, contracts.VerdictBuy, *sum.ROEState)
	assert.Len(t, s.savedChanges["AAA"], 60)
}

func TestRunnerSkipsMissingAndMalformed(t *testing.T) {
	s := newFakeStore()
	s.securities = []*contracts.Security{{Ticker: "GOOD"}, {Ticker: "EMPTY"}, {Ticker: "BAD"}}
	s.bars["GOOD"] = barsFor("GOOD", 30)
	bad := barsFor("BAD", 10)
	bad[5].Volume = -1
	s.bars["BAD"] = bad

	report, err := testRunner(s).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Processed)
	assert.Len(t, report.Skipped, 2)
	// Data-quality skips never block the ranking refresh
	assert.True(t, s.rankingRecomputed)
}

func TestRunnerStoreFailureSuppressesRanking(t *testing.T) {
	s := newFakeStore()
	s.securities = []*contracts.Security{{Ticker: "AAA"}}
	s.bars["AAA"] = barsFor("AAA", 30)
	s.summarySaveErr = errors.New("connection reset")

	report, err := testRunner(s).Run(context.Background())
	require.Error(t, err)
	require.NotNil(t, report)

	assert.Len(t, report.Failed, 1)
	assert.False(t, s.rankingRecomputed)
}

func TestRunnerIncrementalWrites(t *testing.T) {
	s := newFakeStore()
	s.securities = []*contracts.Security{{Ticker: "AAA"}}
	bars := barsFor("AAA", 30)
	s.bars["AAA"] = bars
	// Rows up to bar 25 are already stored
	s.indicatorLatest["AAA"] = bars[24].Date

	report, err := testRunner(s).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, report.IndicatorRows)
	require.Len(t, s.savedIndicators["AAA"], 5)
	assert.Equal(t, bars[25].Date, s.savedIndicators["AAA"][0].Date)
	assert.Len(t, s.savedChanges["AAA"], 5)
}

func TestRunnerEmptyRegistry(t *testing.T) {
	s := newFakeStore()
	_, err := testRunner(s).Run(context.Background())
	assert.ErrorIs(t, err, contracts.ErrMissingData)
}
