package contracts

import (
	"context"
	"time"
)

// SecurityRepository manages the security registry
type SecurityRepository interface {
	Save(ctx context.Context, sec *Security) error
	SaveBatch(ctx context.Context, secs []*Security) error
	GetByTicker(ctx context.Context, ticker string) (*Security, error)
	GetAll(ctx context.Context) ([]*Security, error)
}

// BarRepository manages daily OHLCV bars
type BarRepository interface {
	SaveBatch(ctx context.Context, bars []*Bar) error
	GetByTicker(ctx context.Context, ticker string) ([]*Bar, error)
	GetByTickerSince(ctx context.Context, ticker string, from time.Time) ([]*Bar, error)
	GetLatestDate(ctx context.Context, ticker string) (time.Time, error)
}

// FundamentalRepository manages fundamental snapshots and the
// market-cap ranking derived from them
type FundamentalRepository interface {
	Save(ctx context.Context, snap *FundamentalSnapshot) error
	GetByTicker(ctx context.Context, ticker string) (*FundamentalSnapshot, error)
	// RecomputeRanking rewrites ranking_marketcap for every snapshot
	// using dense ranking by descending market cap, in one transaction.
	RecomputeRanking(ctx context.Context) error
	GetTopRanked(ctx context.Context, limit int) ([]*RankedSecurity, error)
}

// IndicatorRepository manages derived indicator rows
type IndicatorRepository interface {
	SaveBatch(ctx context.Context, rows []*IndicatorRow) error
	GetByTicker(ctx context.Context, ticker string) ([]*IndicatorRow, error)
	GetLatest(ctx context.Context, ticker string) (*IndicatorRow, error)
	GetLatestDate(ctx context.Context, ticker string) (time.Time, error)
}

// SummaryRepository manages composite investment summaries
type SummaryRepository interface {
	Save(ctx context.Context, sum *InvestmentSummary) error
	GetByTicker(ctx context.Context, ticker string) (*InvestmentSummary, error)
}

// PriceChangeRepository manages trailing price-change rows
type PriceChangeRepository interface {
	SaveBatch(ctx context.Context, changes []*PriceChange) error
	GetByTicker(ctx context.Context, ticker string) ([]*PriceChange, error)
}
