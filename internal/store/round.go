package store

import "math"

// Persisted precision: price-scale values carry 3 decimals, ratio-scale
// values 6. Rounding happens once, at the persistence boundary, so
// reruns over unchanged inputs write byte-identical rows.

func round3(v float64) float64 {
	return math.Round(v*1e3) / 1e3
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

func round3p(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := round3(*v)
	return &r
}

func round6p(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := round6(*v)
	return &r
}
