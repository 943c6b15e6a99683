package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database health and table counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		health, err := a.db.HealthCheck(cmd.Context())
		if err != nil {
			return fmt.Errorf("database unhealthy: %w", err)
		}
		fmt.Printf("Database: healthy (ping %s, %d/%d conns)\n",
			health.ResponseTime.Round(timeUnit),
			health.Stats.TotalConns, health.Stats.MaxConns)

		for _, table := range []string{"securities", "bars", "fundamentals", "indicator_rows", "investment_summary", "price_changes"} {
			n, err := tableCount(cmd.Context(), a, table)
			if err != nil {
				return err
			}
			fmt.Printf("%-20s %d\n", table, n)
		}
		return nil
	},
}

func tableCount(ctx context.Context, a *app, table string) (int64, error) {
	var n int64
	if err := a.db.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
