package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/quantora/marketlens/internal/contracts"
	"github.com/quantora/marketlens/internal/indicator"
	"github.com/quantora/marketlens/internal/signal"
	"github.com/quantora/marketlens/pkg/config"
	"github.com/quantora/marketlens/pkg/logger"
)

// Deps bundles the repositories the runner works against. Everything is
// an interface so the runner is testable without a database.
type Deps struct {
	Securities   contracts.SecurityRepository
	Bars         contracts.BarRepository
	Indicators   contracts.IndicatorRepository
	Fundamentals contracts.FundamentalRepository
	Summaries    contracts.SummaryRepository
	PriceChanges contracts.PriceChangeRepository
}

// Runner derives indicators, price changes and investment summaries for
// every registered security, then refreshes the market-cap ranking.
//
// Securities with missing or malformed data are skipped and reported;
// infrastructure failures mark the run failed and suppress the ranking
// update so a broken run never publishes a partial ranking.
type Runner struct {
	cfg        config.PipelineConfig
	log        *logger.Logger
	deps       Deps
	classifier *signal.Classifier
	aggregator *signal.Aggregator
}

// NewRunner creates a pipeline runner
func NewRunner(cfg *config.Config, log *logger.Logger, deps Deps) *Runner {
	return &Runner{
		cfg:        cfg.Pipeline,
		log:        log,
		deps:       deps,
		classifier: signal.NewClassifier(cfg.Signals),
		aggregator: signal.NewAggregator(cfg.Signals),
	}
}

// Report summarizes one pipeline run
type Report struct {
	Processed     int
	IndicatorRows int
	Skipped       []Skip
	Failed        []Skip
	Duration      time.Duration
}

// Skip records why one security produced no output this run
type Skip struct {
	Ticker string
	Reason string
}

type result struct {
	ticker string
	rows   int
	err    error
}

// Run processes every registered security through a worker pool and,
// when no infrastructure failure occurred, recomputes the ranking.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	start := time.Now()

	secs, err := r.deps.Securities.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load security registry: %w", err)
	}
	if len(secs) == 0 {
		return nil, fmt.Errorf("security registry: %w", contracts.ErrMissingData)
	}

	r.log.WithFields(map[string]interface{}{
		"securities": len(secs),
		"workers":    r.cfg.Workers,
	}).Info("Pipeline run started")

	secCh := make(chan *contracts.Security, len(secs))
	resCh := make(chan result, len(secs))

	var wg sync.WaitGroup
	for i := 0; i < r.cfg.Workers; i++ {
		wg.Add(1)
		go r.worker(ctx, &wg, secCh, resCh)
	}

	for _, sec := range secs {
		secCh <- sec
	}
	close(secCh)

	wg.Wait()
	close(resCh)

	report := &Report{}
	for res := range resCh {
		switch {
		case res.err == nil:
			report.Processed++
			report.IndicatorRows += res.rows
		case errors.Is(res.err, contracts.ErrMissingData), errors.Is(res.err, contracts.ErrMalformed):
			report.Skipped = append(report.Skipped, Skip{Ticker: res.ticker, Reason: res.err.Error()})
			r.log.WithField("ticker", res.ticker).WithError(res.err).Warn("Skipped security")
		default:
			report.Failed = append(report.Failed, Skip{Ticker: res.ticker, Reason: res.err.Error()})
			r.log.WithField("ticker", res.ticker).WithError(res.err).Error("Failed to process security")
		}
	}
	report.Duration = time.Since(start)

	if len(report.Failed) > 0 {
		return report, fmt.Errorf("pipeline run failed for %d securities, ranking not updated", len(report.Failed))
	}

	if err := r.deps.Fundamentals.RecomputeRanking(ctx); err != nil {
		return report, fmt.Errorf("failed to recompute ranking: %w", err)
	}

	r.log.WithFields(map[string]interface{}{
		"processed": report.Processed,
		"skipped":   len(report.Skipped),
		"rows":      report.IndicatorRows,
		"duration":  report.Duration.String(),
	}).Info("Pipeline run finished")
	return report, nil
}

func (r *Runner) worker(ctx context.Context, wg *sync.WaitGroup, secCh <-chan *contracts.Security, resCh chan<- result) {
	defer wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case sec, ok := <-secCh:
			if !ok {
				return
			}
			rows, err := r.processSecurity(ctx, sec.Ticker)
			resCh <- result{ticker: sec.Ticker, rows: rows, err: err}
		}
	}
}

// processSecurity recomputes the full derived history for one ticker
// and refreshes its summary. The whole bar history feeds the
// calculator so cumulative indicators stay continuous; only rows newer
// than what is already stored get written.
func (r *Runner) processSecurity(ctx context.Context, ticker string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.SecurityTimeout)
	defer cancel()

	bars, err := r.deps.Bars.GetByTicker(ctx, ticker)
	if err != nil {
		return 0, err
	}
	if len(bars) == 0 {
		return 0, fmt.Errorf("no bars: %w", contracts.ErrMissingData)
	}

	rows, err := indicator.Compute(bars, r.cfg.FibLookback)
	if err != nil {
		return 0, err
	}

	latest, err := r.deps.Indicators.GetLatestDate(ctx, ticker)
	if err != nil {
		return 0, err
	}
	newRows := rows
	for i, row := range rows {
		if row.Date.After(latest) {
			newRows = rows[i:]
			break
		}
		if i == len(rows)-1 {
			newRows = nil
		}
	}
	if err := r.deps.Indicators.SaveBatch(ctx, newRows); err != nil {
		return 0, err
	}

	changes := indicator.Changes(bars)
	newChanges := changes[len(changes)-len(newRows):]
	if err := r.deps.PriceChanges.SaveBatch(ctx, newChanges); err != nil {
		return 0, err
	}

	// Fundamentals may legitimately be absent; the summary then rests
	// on technicals alone and the fundamental side stays undefined.
	snap, err := r.deps.Fundamentals.GetByTicker(ctx, ticker)
	if err != nil && !errors.Is(err, contracts.ErrMissingData) {
		return 0, err
	}

	tech := r.classifier.Technical(rows[len(rows)-1])
	fund := r.classifier.Fundamental(snap)
	if err := r.deps.Summaries.Save(ctx, r.aggregator.Summarize(ticker, tech, fund)); err != nil {
		return 0, err
	}

	return len(newRows), nil
}
