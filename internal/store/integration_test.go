package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantora/marketlens/internal/contracts"
	"github.com/quantora/marketlens/pkg/config"
	"github.com/quantora/marketlens/pkg/database"
	"github.com/quantora/marketlens/pkg/logger"
)

// Integration tests need a reachable PostgreSQL with the schema from
// db/schema.sql applied. They run only with DATABASE_URL set and not
// in -short mode.
func testDB(t *testing.T) (*database.DB, *logger.Logger) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}

	cfg := &config.Config{
		Database: config.DatabaseConfig{
			URL:             url,
			MaxConns:        4,
			MinConns:        1,
			MaxConnLifetime: time.Hour,
			MaxConnIdleTime: 30 * time.Minute,
		},
		LogLevel:  "error",
		LogFormat: "json",
	}
	log := logger.New(cfg)
	db, err := database.New(cfg)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	return db, log
}

func TestBarRepositoryIdempotentBackfill(t *testing.T) {
	db, log := testDB(t)
	ctx := context.Background()

	secs := NewSecurityRepository(db, log)
	require.NoError(t, secs.Save(ctx, &contracts.Security{Ticker: "ITEST", Name: "Integration Test Co"}))

	bars := NewBarRepository(db, log)
	batch := []*contracts.Bar{
		{Ticker: "ITEST", Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Open: 10, High: 11, Low: 9, Close: 10.5, Volume: 100},
		{Ticker: "ITEST", Date: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), Open: 10.5, High: 12, Low: 10, Close: 11, Volume: 200},
	}

	require.NoError(t, bars.SaveBatch(ctx, batch))
	// Replaying the same batch must not duplicate or error
	require.NoError(t, bars.SaveBatch(ctx, batch))

	got, err := bars.GetByTicker(ctx, "ITEST")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	latest, err := bars.GetLatestDate(ctx, "ITEST")
	require.NoError(t, err)
	assert.Equal(t, batch[1].Date, latest.UTC())
}

func TestFundamentalRankingRoundtrip(t *testing.T) {
	db, log := testDB(t)
	ctx := context.Background()

	secs := NewSecurityRepository(db, log)
	funds := NewFundamentalRepository(db, log)

	caps := map[string]int64{"RTESTA": 500, "RTESTB": 300, "RTESTC": 300, "RTESTD": 100}
	for ticker, cap := range caps {
		require.NoError(t, secs.Save(ctx, &contracts.Security{Ticker: ticker, Name: ticker}))
		require.NoError(t, funds.Save(ctx, &contracts.FundamentalSnapshot{Ticker: ticker, MarketCap: cap}))
	}

	require.NoError(t, funds.RecomputeRanking(ctx))

	a, err := funds.GetByTicker(ctx, "RTESTA")
	require.NoError(t, err)
	assert.Equal(t, 1, a.MarketCapRank)

	b, err := funds.GetByTicker(ctx, "RTESTB")
	require.NoError(t, err)
	c, err := funds.GetByTicker(ctx, "RTESTC")
	require.NoError(t, err)
	assert.Equal(t, b.MarketCapRank, c.MarketCapRank)

	d, err := funds.GetByTicker(ctx, "RTESTD")
	require.NoError(t, err)
	assert.Equal(t, c.MarketCapRank+1, d.MarketCapRank)
}

func TestSummaryRepositoryMissing(t *testing.T) {
	db, log := testDB(t)

	sums := NewSummaryRepository(db, log)
	_, err := sums.GetByTicker(context.Background(), "NO_SUCH_TICKER")
	assert.ErrorIs(t, err, contracts.ErrMissingData)
}
