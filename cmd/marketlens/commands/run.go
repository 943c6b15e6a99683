package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/quantora/marketlens/internal/pipeline"
)

// timeUnit rounds durations in CLI output
const timeUnit = 10 * time.Millisecond

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Recompute indicators, summaries and the market-cap ranking",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		runner := pipeline.NewRunner(a.cfg, a.log, pipeline.Deps{
			Securities:   a.securities,
			Bars:         a.bars,
			Indicators:   a.indicators,
			Fundamentals: a.fundamentals,
			Summaries:    a.summaries,
			PriceChanges: a.priceChanges,
		})

		report, err := runner.Run(cmd.Context())
		if report != nil {
			fmt.Printf("Processed %d securities, %d indicator rows in %s\n",
				report.Processed, report.IndicatorRows, report.Duration.Round(timeUnit))
			for _, s := range report.Skipped {
				fmt.Printf("  skipped %-8s %s\n", s.Ticker, s.Reason)
			}
			for _, f := range report.Failed {
				fmt.Printf("  failed  %-8s %s\n", f.Ticker, f.Reason)
			}
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
