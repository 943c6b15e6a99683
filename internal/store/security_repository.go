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

// SecurityRepository persists the security registry
type SecurityRepository struct {
	db  *database.DB
	log *logger.Logger
}

func NewSecurityRepository(db *database.DB, log *logger.Logger) *SecurityRepository {
	return &SecurityRepository{db: db, log: log}
}

// Save upserts one registry entry
func (r *SecurityRepository) Save(ctx context.Context, sec *contracts.Security) error {
	query := `
		INSERT INTO securities (ticker, name, sector, industry, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (ticker) DO UPDATE SET
			name = EXCLUDED.name,
			sector = EXCLUDED.sector,
			industry = EXCLUDED.industry,
			updated_at = NOW()
	`
	if _, err := r.db.Pool.Exec(ctx, query, sec.Ticker, sec.Name, sec.Sector, sec.Industry); err != nil {
		return fmt.Errorf("failed to save security %s: %w", sec.Ticker, err)
	}
	return nil
}

// SaveBatch upserts the whole registry in one transaction
func (r *SecurityRepository) SaveBatch(ctx context.Context, secs []*contracts.Security) error {
	if len(secs) == 0 {
		return nil
	}

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO securities (ticker, name, sector, industry, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (ticker) DO UPDATE SET
			name = EXCLUDED.name,
			sector = EXCLUDED.sector,
			industry = EXCLUDED.industry,
			updated_at = NOW()
	`
	for _, sec := range secs {
		if _, err := tx.Exec(ctx, query, sec.Ticker, sec.Name, sec.Sector, sec.Industry); err != nil {
			return fmt.Errorf("failed to save security %s: %w", sec.Ticker, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.log.WithField("count", len(secs)).Debug("Saved securities")
	return nil
}

func (r *SecurityRepository) GetByTicker(ctx context.Context, ticker string) (*contracts.Security, error) {
	query := `SELECT ticker, name, sector, industry FROM securities WHERE ticker = $1`

	var sec contracts.Security
	err := r.db.Pool.QueryRow(ctx, query, ticker).Scan(&sec.Ticker, &sec.Name, &sec.Sector, &sec.Industry)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("security %s: %w", ticker, contracts.ErrMissingData)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get security %s: %w", ticker, err)
	}
	return &sec, nil
}

func (r *SecurityRepository) GetAll(ctx context.Context) ([]*contracts.Security, error) {
	query := `SELECT ticker, name, sector, industry FROM securities ORDER BY ticker`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list securities: %w", err)
	}
	defer rows.Close()

	var secs []*contracts.Security
	for rows.Next() {
		var sec contracts.Security
		if err := rows.Scan(&sec.Ticker, &sec.Name, &sec.Sector, &sec.Industry); err != nil {
			return nil, fmt.Errorf("failed to scan security: %w", err)
		}
		secs = append(secs, &sec)
	}
	return secs, rows.Err()
}
