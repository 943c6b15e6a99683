package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/quantora/marketlens/internal/ingest"
	"github.com/quantora/marketlens/internal/pipeline"
	"github.com/quantora/marketlens/internal/provider"
	"github.com/quantora/marketlens/internal/scheduler"
	"github.com/quantora/marketlens/internal/scheduler/jobs"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the nightly refresh on its cron schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		collector := ingest.NewCollector(
			a.cfg, a.log,
			provider.NewClient(a.cfg, a.log),
			a.securities, a.bars, a.fundamentals,
		)
		runner := pipeline.NewRunner(a.cfg, a.log, pipeline.Deps{
			Securities:   a.securities,
			Bars:         a.bars,
			Indicators:   a.indicators,
			Fundamentals: a.fundamentals,
			Summaries:    a.summaries,
			PriceChanges: a.priceChanges,
		})

		sched := scheduler.New(a.log)
		if err := sched.Register(jobs.NewRefreshJob(a.cfg.RefreshSchedule, a.log, collector, runner)); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		a.log.WithField("signal", sig.String()).Info("Shutting down")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
}
