package ingest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/quantora/marketlens/internal/contracts"
	"github.com/quantora/marketlens/internal/provider"
	"github.com/quantora/marketlens/pkg/config"
	"github.com/quantora/marketlens/pkg/logger"
)

// Collector pulls the registry, bar history and fundamentals from the
// upstream source into the store. Per security the registry row lands
// first, then bars, then fundamentals, so dependent rows always have
// their parent.
type Collector struct {
	cfg      *config.Config
	log      *logger.Logger
	provider *provider.Client

	securities   contracts.SecurityRepository
	bars         contracts.BarRepository
	fundamentals contracts.FundamentalRepository
}

// NewCollector creates a collector
func NewCollector(
	cfg *config.Config,
	log *logger.Logger,
	prov *provider.Client,
	securities contracts.SecurityRepository,
	bars contracts.BarRepository,
	fundamentals contracts.FundamentalRepository,
) *Collector {
	return &Collector{
		cfg:          cfg,
		log:          log,
		provider:     prov,
		securities:   securities,
		bars:         bars,
		fundamentals: fundamentals,
	}
}

// Report summarizes one collection run
type Report struct {
	Securities int
	BarsSaved  int
	Failed     []Failure
	Duration   time.Duration
}

// Failure records one security that could not be collected
type Failure struct {
	Ticker string
	Reason string
}

type result struct {
	ticker string
	bars   int
	err    error
}

// Collect refreshes the registry and then fetches bars and
// fundamentals for every security through a worker pool. Individual
// securities that fail are logged and reported, not fatal.
func (c *Collector) Collect(ctx context.Context) (*Report, error) {
	start := time.Now()

	secs, err := c.provider.FetchRegistry(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch registry: %w", err)
	}
	if err := c.securities.SaveBatch(ctx, secs); err != nil {
		return nil, fmt.Errorf("failed to save registry: %w", err)
	}

	c.log.WithFields(map[string]interface{}{
		"securities": len(secs),
		"workers":    c.cfg.Pipeline.Workers,
	}).Info("Collection started")

	secCh := make(chan *contracts.Security, len(secs))
	resCh := make(chan result, len(secs))

	var wg sync.WaitGroup
	for i := 0; i < c.cfg.Pipeline.Workers; i++ {
		wg.Add(1)
		go c.worker(ctx, &wg, secCh, resCh)
	}

	for _, sec := range secs {
		secCh <- sec
	}
	close(secCh)

	wg.Wait()
	close(resCh)

	report := &Report{Securities: len(secs)}
	for res := range resCh {
		if res.err != nil {
			report.Failed = append(report.Failed, Failure{Ticker: res.ticker, Reason: res.err.Error()})
			c.log.WithField("ticker", res.ticker).WithError(res.err).Warn("Failed to collect security")
			continue
		}
		report.BarsSaved += res.bars
	}
	report.Duration = time.Since(start)

	c.log.WithFields(map[string]interface{}{
		"securities": report.Securities,
		"bars":       report.BarsSaved,
		"failed":     len(report.Failed),
		"duration":   report.Duration.String(),
	}).Info("Collection finished")
	return report, nil
}

func (c *Collector) worker(ctx context.Context, wg *sync.WaitGroup, secCh <-chan *contracts.Security, resCh chan<- result) {
	defer wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case sec, ok := <-secCh:
			if !ok {
				return
			}
			n, err := c.collectSecurity(ctx, sec.Ticker)
			resCh <- result{ticker: sec.Ticker, bars: n, err: err}
		}
	}
}

// collectSecurity fetches the missing bar range and the current
// fundamentals for one ticker
func (c *Collector) collectSecurity(ctx context.Context, ticker string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Pipeline.SecurityTimeout)
	defer cancel()

	from, err := c.fetchFrom(ctx, ticker)
	if err != nil {
		return 0, err
	}

	bars, err := c.provider.FetchBars(ctx, ticker, from)
	if err != nil {
		return 0, err
	}
	if err := c.bars.SaveBatch(ctx, bars); err != nil {
		return 0, err
	}

	snap, err := c.provider.FetchFundamentals(ctx, ticker)
	if err != nil {
		return len(bars), err
	}
	if err := c.fundamentals.Save(ctx, snap); err != nil {
		return len(bars), err
	}

	return len(bars), nil
}

// fetchFrom picks the start of the bar request: the day after the
// newest stored bar, or the configured history start on first contact
func (c *Collector) fetchFrom(ctx context.Context, ticker string) (time.Time, error) {
	latest, err := c.bars.GetLatestDate(ctx, ticker)
	if err != nil {
		return time.Time{}, err
	}
	if !latest.IsZero() {
		return latest.AddDate(0, 0, 1), nil
	}

	from, err := time.Parse("2006-01-02", c.cfg.Provider.HistoryFrom)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid PROVIDER_HISTORY_FROM %q: %w", c.cfg.Provider.HistoryFrom, err)
	}
	return from, nil
}
