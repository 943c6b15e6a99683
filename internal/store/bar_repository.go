package store

import (
	"context"
	"fmt"
	"time"

	"github.com/quantora/marketlens/internal/contracts"
	"github.com/quantora/marketlens/pkg/database"
	"github.com/quantora/marketlens/pkg/logger"
)

// BarRepository persists daily OHLCV bars. Bars are immutable: a
// conflicting insert is a replay of data we already hold and is
// silently skipped, which makes backfills safely re-runnable.
type BarRepository struct {
	db  *database.DB
	log *logger.Logger
}

func NewBarRepository(db *database.DB, log *logger.Logger) *BarRepository {
	return &BarRepository{db: db, log: log}
}

func (r *BarRepository) SaveBatch(ctx context.Context, bars []*contracts.Bar) error {
	if len(bars) == 0 {
		return nil
	}

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO bars (ticker, date, open, high, low, close, volume)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (ticker, date) DO NOTHING
	`
	for _, b := range bars {
		_, err := tx.Exec(ctx, query,
			b.Ticker, b.Date,
			round3(b.Open), round3(b.High), round3(b.Low), round3(b.Close),
			b.Volume,
		)
		if err != nil {
			return fmt.Errorf("failed to save bar %s/%s: %w", b.Ticker, b.Date.Format("2006-01-02"), err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.log.WithFields(map[string]interface{}{
		"ticker": bars[0].Ticker,
		"count":  len(bars),
	}).Debug("Saved bars")
	return nil
}

func (r *BarRepository) GetByTicker(ctx context.Context, ticker string) ([]*contracts.Bar, error) {
	return r.GetByTickerSince(ctx, ticker, time.Time{})
}

func (r *BarRepository) GetByTickerSince(ctx context.Context, ticker string, from time.Time) ([]*contracts.Bar, error) {
	query := `
		SELECT ticker, date, open, high, low, close, volume
		FROM bars
		WHERE ticker = $1 AND date >= $2
		ORDER BY date ASC
	`
	rows, err := r.db.Pool.Query(ctx, query, ticker, from)
	if err != nil {
		return nil, fmt.Errorf("failed to query bars for %s: %w", ticker, err)
	}
	defer rows.Close()

	var bars []*contracts.Bar
	for rows.Next() {
		var b contracts.Bar
		if err := rows.Scan(&b.Ticker, &b.Date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("failed to scan bar: %w", err)
		}
		bars = append(bars, &b)
	}
	return bars, rows.Err()
}

// GetLatestDate returns the newest bar date for a ticker, or the zero
// time when no bars exist yet.
func (r *BarRepository) GetLatestDate(ctx context.Context, ticker string) (time.Time, error) {
	query := `SELECT MAX(date) FROM bars WHERE ticker = $1`

	var latest *time.Time
	if err := r.db.Pool.QueryRow(ctx, query, ticker).Scan(&latest); err != nil {
		return time.Time{}, fmt.Errorf("failed to get latest bar date for %s: %w", ticker, err)
	}
	if latest == nil {
		return time.Time{}, nil
	}
	return *latest, nil
}
