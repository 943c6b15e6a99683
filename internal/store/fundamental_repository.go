package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/quantora/marketlens/internal/contracts"
	"github.com/quantora/marketlens/pkg/database"
	"github.com/quantora/marketlens/pkg/logger"
)

// FundamentalRepository persists fundamental snapshots, one row per
// ticker, and maintains the market-cap ranking over them.
type FundamentalRepository struct {
	db  *database.DB
	log *logger.Logger
}

func NewFundamentalRepository(db *database.DB, log *logger.Logger) *FundamentalRepository {
	return &FundamentalRepository{db: db, log: log}
}

func (r *FundamentalRepository) Save(ctx context.Context, snap *contracts.FundamentalSnapshot) error {
	query := `
		INSERT INTO fundamentals (
			ticker, per, roe, eps_growth_yoy, debt_to_equity, net_margin,
			dividend_yield, market_cap, shares_outstanding, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		ON CONFLICT (ticker) DO UPDATE SET
			per = EXCLUDED.per,
			roe = EXCLUDED.roe,
			eps_growth_yoy = EXCLUDED.eps_growth_yoy,
			debt_to_equity = EXCLUDED.debt_to_equity,
			net_margin = EXCLUDED.net_margin,
			dividend_yield = EXCLUDED.dividend_yield,
			market_cap = EXCLUDED.market_cap,
			shares_outstanding = EXCLUDED.shares_outstanding,
			updated_at = NOW()
	`
	_, err := r.db.Pool.Exec(ctx, query,
		snap.Ticker,
		round6p(snap.PER), round6p(snap.ROE), round6p(snap.EPSGrowthYoY),
		round6p(snap.DebtToEquity), round6p(snap.NetMargin), round6p(snap.DividendYield),
		snap.MarketCap, snap.SharesOutstanding,
	)
	if err != nil {
		return fmt.Errorf("failed to save fundamentals for %s: %w", snap.Ticker, err)
	}
	return nil
}

func (r *FundamentalRepository) GetByTicker(ctx context.Context, ticker string) (*contracts.FundamentalSnapshot, error) {
	query := `
		SELECT ticker, per, roe, eps_growth_yoy, debt_to_equity, net_margin,
		       dividend_yield, market_cap, shares_outstanding, ranking_marketcap
		FROM fundamentals
		WHERE ticker = $1
	`
	var snap contracts.FundamentalSnapshot
	err := r.db.Pool.QueryRow(ctx, query, ticker).Scan(
		&snap.Ticker, &snap.PER, &snap.ROE, &snap.EPSGrowthYoY,
		&snap.DebtToEquity, &snap.NetMargin, &snap.DividendYield,
		&snap.MarketCap, &snap.SharesOutstanding, &snap.MarketCapRank,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("fundamentals %s: %w", ticker, contracts.ErrMissingData)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fundamentals for %s: %w", ticker, err)
	}
	return &snap, nil
}

// RecomputeRanking rewrites ranking_marketcap for every snapshot using
// dense ranking by descending market cap. Reads and writes happen in
// one transaction so readers never observe a half-updated ranking.
func (r *FundamentalRepository) RecomputeRanking(ctx context.Context) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `SELECT ticker, market_cap FROM fundamentals`)
	if err != nil {
		return fmt.Errorf("failed to read market caps: %w", err)
	}

	var secs []*contracts.RankedSecurity
	for rows.Next() {
		var s contracts.RankedSecurity
		if err := rows.Scan(&s.Ticker, &s.MarketCap); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan market cap: %w", err)
		}
		secs = append(secs, &s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read market caps: %w", err)
	}

	DenseRanks(secs)

	for _, s := range secs {
		_, err := tx.Exec(ctx,
			`UPDATE fundamentals SET ranking_marketcap = $1 WHERE ticker = $2`,
			s.Rank, s.Ticker,
		)
		if err != nil {
			return fmt.Errorf("failed to update rank for %s: %w", s.Ticker, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.log.WithField("count", len(secs)).Info("Recomputed market-cap ranking")
	return nil
}

func (r *FundamentalRepository) GetTopRanked(ctx context.Context, limit int) ([]*contracts.RankedSecurity, error) {
	query := `
		SELECT ticker, market_cap, ranking_marketcap
		FROM fundamentals
		WHERE ranking_marketcap > 0
		ORDER BY ranking_marketcap ASC, ticker ASC
		LIMIT $1
	`
	rows, err := r.db.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query ranking: %w", err)
	}
	defer rows.Close()

	var secs []*contracts.RankedSecurity
	for rows.Next() {
		var s contracts.RankedSecurity
		if err := rows.Scan(&s.Ticker, &s.MarketCap, &s.Rank); err != nil {
			return nil, fmt.Errorf("failed to scan ranking row: %w", err)
		}
		secs = append(secs, &s)
	}
	return secs, rows.Err()
}
