package jobs

import (
	"context"
	"fmt"

	"github.com/quantora/marketlens/internal/ingest"
	"github.com/quantora/marketlens/internal/pipeline"
	"github.com/quantora/marketlens/pkg/logger"
)

// RefreshJob runs the nightly end-to-end refresh: collect new upstream
// data, then recompute indicators, summaries and the ranking.
type RefreshJob struct {
	schedule  string
	log       *logger.Logger
	collector *ingest.Collector
	runner    *pipeline.Runner
}

func NewRefreshJob(schedule string, log *logger.Logger, collector *ingest.Collector, runner *pipeline.Runner) *RefreshJob {
	return &RefreshJob{
		schedule:  schedule,
		log:       log,
		collector: collector,
		runner:    runner,
	}
}

func (j *RefreshJob) Name() string     { return "refresh" }
func (j *RefreshJob) Schedule() string { return j.schedule }

func (j *RefreshJob) Run(ctx context.Context) error {
	collected, err := j.collector.Collect(ctx)
	if err != nil {
		return fmt.Errorf("collection failed: %w", err)
	}
	j.log.WithFields(map[string]interface{}{
		"securities": collected.Securities,
		"bars":       collected.BarsSaved,
		"failed":     len(collected.Failed),
	}).Info("Collection phase done")

	report, err := j.runner.Run(ctx)
	if err != nil {
		return fmt.Errorf("pipeline failed: %w", err)
	}
	j.log.WithFields(map[string]interface{}{
		"processed": report.Processed,
		"skipped":   len(report.Skipped),
	}).Info("Pipeline phase done")
	return nil
}
