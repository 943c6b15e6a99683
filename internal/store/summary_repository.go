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

// SummaryRepository persists investment summaries, one row per ticker,
// fully replaced on each pipeline run.
type SummaryRepository struct {
	db  *database.DB
	log *logger.Logger
}

func NewSummaryRepository(db *database.DB, log *logger.Logger) *SummaryRepository {
	return &SummaryRepository{db: db, log: log}
}

func (r *SummaryRepository) Save(ctx context.Context, sum *contracts.InvestmentSummary) error {
	query := `
		INSERT INTO investment_summary (
			ticker, pct_technical_buy, pct_fundamental_buy, final_decision,
			bollinger_state, sma_vs_ema, macd_state, rsi_state,
			per_state, roe_state, eps_growth_state, debt_equity_state,
			fibonacci_state, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW())
		ON CONFLICT (ticker) DO UPDATE SET
			pct_technical_buy = EXCLUDED.pct_technical_buy,
			pct_fundamental_buy = EXCLUDED.pct_fundamental_buy,
			final_decision = EXCLUDED.final_decision,
			bollinger_state = EXCLUDED.bollinger_state,
			sma_vs_ema = EXCLUDED.sma_vs_ema,
			macd_state = EXCLUDED.macd_state,
			rsi_state = EXCLUDED.rsi_state,
			per_state = EXCLUDED.per_state,
			roe_state = EXCLUDED.roe_state,
			eps_growth_state = EXCLUDED.eps_growth_state,
			debt_equity_state = EXCLUDED.debt_equity_state,
			fibonacci_state = EXCLUDED.fibonacci_state,
			updated_at = NOW()
	`
	_, err := r.db.Pool.Exec(ctx, query,
		sum.Ticker,
		round6p(sum.PctTechnicalBuy), round6p(sum.PctFundamentalBuy),
		string(sum.FinalDecision),
		sum.BollingerState,
		verdictString(sum.SMAvsEMA), verdictString(sum.MACDState), verdictString(sum.RSIState),
		verdictString(sum.PERState), verdictString(sum.ROEState),
		verdictString(sum.EPSGrowthState), verdictString(sum.DebtEquityState),
		sum.FibonacciState,
	)
	if err != nil {
		return fmt.Errorf("failed to save summary for %s: %w", sum.Ticker, err)
	}
	return nil
}

func (r *SummaryRepository) GetByTicker(ctx context.Context, ticker string) (*contracts.InvestmentSummary, error) {
	query := `
		SELECT ticker, pct_technical_buy, pct_fundamental_buy, final_decision,
		       bollinger_state, sma_vs_ema, macd_state, rsi_state,
		       per_state, roe_state, eps_growth_state, debt_equity_state,
		       fibonacci_state
		FROM investment_summary
		WHERE ticker = $1
	`
	var (
		sum    contracts.InvestmentSummary
		final  string
		smaEMA *string
		macd   *string
		rsi    *string
		per    *string
		roe    *string
		epsG   *string
		debtEq *string
	)
	err := r.db.Pool.QueryRow(ctx, query, ticker).Scan(
		&sum.Ticker, &sum.PctTechnicalBuy, &sum.PctFundamentalBuy, &final,
		&sum.BollingerState, &smaEMA, &macd, &rsi,
		&per, &roe, &epsG, &debtEq,
		&sum.FibonacciState,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("summary %s: %w", ticker, contracts.ErrMissingData)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get summary for %s: %w", ticker, err)
	}

	sum.FinalDecision = contracts.Verdict(final)
	sum.SMAvsEMA = verdictFromString(smaEMA)
	sum.MACDState = verdictFromString(macd)
	sum.RSIState = verdictFromString(rsi)
	sum.PERState = verdictFromString(per)
	sum.ROEState = verdictFromString(roe)
	sum.EPSGrowthState = verdictFromString(epsG)
	sum.DebtEquityState = verdictFromString(debtEq)
	return &sum, nil
}

func verdictString(v *contracts.Verdict) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}

func verdictFromString(s *string) *contracts.Verdict {
	if s == nil {
		return nil
	}
	v := contracts.Verdict(*s)
	return &v
}
