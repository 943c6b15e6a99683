package contracts

import "errors"

// Per-security error kinds. Both are recovered at the pipeline boundary:
// the offending security is skipped for the run and reported at the end,
// everything else proceeds.
var (
	// ErrMissingData indicates a required bar or fundamental is absent
	ErrMissingData = errors.New("missing data")

	// ErrMalformed indicates an invalid bar sequence (non-monotonic
	// dates, negative price or volume, high below low)
	ErrMalformed = errors.New("malformed data")
)
