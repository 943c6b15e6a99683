package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quantora/marketlens/internal/contracts"
)

func TestDenseRanks(t *testing.T) {
	secs := []*contracts.RankedSecurity{
		{Ticker: "CCC", MarketCap: 300},
		{Ticker: "AAA", MarketCap: 500},
		{Ticker: "DDD", MarketCap: 100},
		{Ticker: "BBB", MarketCap: 300},
	}

	DenseRanks(secs)

	assert.Equal(t, "AAA", secs[0].Ticker)
	assert.Equal(t, 1, secs[0].Rank)
	assert.Equal(t, 2, secs[1].Rank)
	assert.Equal(t, 2, secs[2].Rank)
	// Dense: rank after the tie is 3, not 4
	assert.Equal(t, "DDD", secs[3].Ticker)
	assert.Equal(t, 3, secs[3].Rank)
}

func TestDenseRanksStableTieOrder(t *testing.T) {
	secs := []*contracts.RankedSecurity{
		{Ticker: "ZZZ", MarketCap: 300},
		{Ticker: "AAA", MarketCap: 300},
	}
	DenseRanks(secs)

	assert.Equal(t, "AAA", secs[0].Ticker)
	assert.Equal(t, "ZZZ", secs[1].Ticker)
	assert.Equal(t, 1, secs[0].Rank)
	assert.Equal(t, 1, secs[1].Rank)
}

func TestDenseRanksEmpty(t *testing.T) {
	assert.NotPanics(t, func() { DenseRanks(nil) })
}

func TestRounding(t *testing.T) {
	assert.Equal(t, 114.5, round3(114.4999999))
	assert.Equal(t, 0.012346, round6(0.0123456789))
	assert.Nil(t, round3p(nil))
}
