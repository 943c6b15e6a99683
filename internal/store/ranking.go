package store

import (
	"sort"

	"github.com/quantora/marketlens/internal/contracts"
)

// DenseRanks orders securities by descending market cap and assigns
// dense ranks in place: ties share a rank and the next distinct cap
// takes the next consecutive rank, so [500, 300, 300, 100] ranks as
// [1, 2, 2, 3]. Ties sort by ticker for a stable output order.
func DenseRanks(secs []*contracts.RankedSecurity) {
	sort.Slice(secs, func(i, j int) bool {
		if secs[i].MarketCap != secs[j].MarketCap {
			return secs[i].MarketCap > secs[j].MarketCap
		}
		return secs[i].Ticker < secs[j].Ticker
	})

	rank := 0
	var prev int64
	for i, s := range secs {
		if i == 0 || s.MarketCap != prev {
			rank++
			prev = s.MarketCap
		}
		s.Rank = rank
	}
}
