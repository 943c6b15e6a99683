package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quantora/marketlens/internal/ingest"
	"github.com/quantora/marketlens/internal/provider"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch registry, bars and fundamentals from the upstream source",
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

		report, err := collector.Collect(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("Collected %d securities, %d new bars in %s\n",
			report.Securities, report.BarsSaved, report.Duration.Round(timeUnit))
		if len(report.Failed) > 0 {
			fmt.Printf("Failed: %d\n", len(report.Failed))
			for _, f := range report.Failed {
				fmt.Printf("  %-8s %s\n", f.Ticker, f.Reason)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}
