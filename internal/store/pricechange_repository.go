package store

import (
	"context"
	"fmt"

	"github.com/quantora/marketlens/internal/contracts"
	"github.com/quantora/marketlens/pkg/database"
	"github.com/quantora/marketlens/pkg/logger"
)

// PriceChangeRepository persists trailing price-change rows. Like
// indicator rows these are recomputable, so conflicts replace.
type PriceChangeRepository struct {
	db  *database.DB
	log *logger.Logger
}

func NewPriceChangeRepository(db *database.DB, log *logger.Logger) *PriceChangeRepository {
	return &PriceChangeRepository{db: db, log: log}
}

func (r *PriceChangeRepository) SaveBatch(ctx context.Context, changes []*contracts.PriceChange) error {
	if len(changes) == 0 {
		return nil
	}

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO price_changes (ticker, date, close, var_daily, var_weekly, var_monthly, var_annual, var_5y)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (ticker, date) DO UPDATE SET
			close = EXCLUDED.close,
			var_daily = EXCLUDED.var_daily,
			var_weekly = EXCLUDED.var_weekly,
			var_monthly = EXCLUDED.var_monthly,
			var_annual = EXCLUDED.var_annual,
			var_5y = EXCLUDED.var_5y
	`
	for _, ch := range changes {
		_, err := tx.Exec(ctx, query,
			ch.Ticker, ch.Date, round3(ch.Close),
			round6p(ch.Daily), round6p(ch.Weekly), round6p(ch.Monthly),
			round6p(ch.Annual), round6p(ch.FiveYear),
		)
		if err != nil {
			return fmt.Errorf("failed to save price change %s/%s: %w", ch.Ticker, ch.Date.Format("2006-01-02"), err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.log.WithFields(map[string]interface{}{
		"ticker": changes[0].Ticker,
		"count":  len(changes),
	}).Debug("Saved price changes")
	return nil
}

func (r *PriceChangeRepository) GetByTicker(ctx context.Context, ticker string) ([]*contracts.PriceChange, error) {
	query := `
		SELECT ticker, date, close, var_daily, var_weekly, var_monthly, var_annual, var_5y
		FROM price_changes
		WHERE ticker = $1
		ORDER BY date ASC
	`
	rows, err := r.db.Pool.Query(ctx, query, ticker)
	if err != nil {
		return nil, fmt.Errorf("failed to query price changes for %s: %w", ticker, err)
	}
	defer rows.Close()

	var out []*contracts.PriceChange
	for rows.Next() {
		var ch contracts.PriceChange
		if err := rows.Scan(&ch.Ticker, &ch.Date, &ch.Close, &ch.Daily, &ch.Weekly, &ch.Monthly, &ch.Annual, &ch.FiveYear); err != nil {
			return nil, fmt.Errorf("failed to scan price change: %w", err)
		}
		out = append(out, &ch)
	}
	return out, rows.Err()
}
