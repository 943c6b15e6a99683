package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quantora/marketlens/internal/contracts"
	"github.com/quantora/marketlens/internal/store"
	"github.com/quantora/marketlens/pkg/config"
	"github.com/quantora/marketlens/pkg/database"
	"github.com/quantora/marketlens/pkg/logger"
	"github.com/quantora/marketlens/pkg/redis"
)

var rootCmd = &cobra.Command{
	Use:   "marketlens",
	Short: "Investment signal pipeline",
	Long: `marketlens ingests daily bars and fundamentals for index
constituents, derives technical indicators, classifies them into
BUY/SELL/HOLD signals and serves composite investment summaries.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

// app carries the shared wiring every command needs
type app struct {
	cfg   *config.Config
	log   *logger.Logger
	db    *database.DB
	redis *redis.Client
	cache *redis.Cache

	securities   contracts.SecurityRepository
	bars         contracts.BarRepository
	indicators   contracts.IndicatorRepository
	fundamentals contracts.FundamentalRepository
	summaries    contracts.SummaryRepository
	priceChanges contracts.PriceChangeRepository
}

// newApp loads config and connects shared infrastructure
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	rdb, err := redis.New(cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &app{
		cfg:   cfg,
		log:   log,
		db:    db,
		redis: rdb,
		cache: redis.NewCache(rdb, "marketlens"),

		securities:   store.NewSecurityRepository(db, log),
		bars:         store.NewBarRepository(db, log),
		indicators:   store.NewIndicatorRepository(db, log),
		fundamentals: store.NewFundamentalRepository(db, log),
		summaries:    store.NewSummaryRepository(db, log),
		priceChanges: store.NewPriceChangeRepository(db, log),
	}, nil
}

func (a *app) close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}
