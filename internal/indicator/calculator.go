package indicator

import (
	"fmt"

	"github.com/quantora/marketlens/internal/contracts"
)

// Compute derives the full indicator history from a security's bars,
// oldest first. Validation happens up front so a malformed series never
// produces partial rows.
func Compute(bars []*contracts.Bar, fibLookback int) ([]*contracts.IndicatorRow, error) {
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: no bars", contracts.ErrMissingData)
	}
	if err := Validate(bars); err != nil {
		return nil, err
	}

	st := NewState(fibLookback)
	rows := make([]*contracts.IndicatorRow, 0, len(bars))
	for _, b := range bars {
		rows = append(rows, st.Next(b))
	}
	return rows, nil
}

// Validate checks a bar series for the defects that would corrupt
// derived indicators: out-of-order or duplicate dates, negative prices
// or volume, and a high below the low.
func Validate(bars []*contracts.Bar) error {
	for i, b := range bars {
		if b.Open < 0 || b.High < 0 || b.Low < 0 || b.Close < 0 {
			return fmt.Errorf("%w: negative price on %s", contracts.ErrMalformed, b.Date.Format("2006-01-02"))
		}
		if b.Volume < 0 {
			return fmt.Errorf("%w: negative volume on %s", contracts.ErrMalformed, b.Date.Format("2006-01-02"))
		}
		if b.High < b.Low {
			return fmt.Errorf("%w: high below low on %s", contracts.ErrMalformed, b.Date.Format("2006-01-02"))
		}
		if i > 0 && !bars[i-1].Date.Before(b.Date) {
			return fmt.Errorf("%w: dates not strictly increasing at %s", contracts.ErrMalformed, b.Date.Format("2006-01-02"))
		}
	}
	return nil
}
