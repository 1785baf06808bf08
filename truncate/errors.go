package truncate

import "errors"

// Sentinel errors for truncation operations. All of them indicate a breached
// caller contract or a broken internal invariant; an over-budget result is
// never an error (see FitResult.Converged).
var (
	// ErrNotSorted indicates a length vector that must be ascending is not.
	ErrNotSorted = errors.New("lengths must be sorted ascending")

	// ErrNegativeLength indicates a length vector contains a negative entry.
	ErrNegativeLength = errors.New("length vector contains a negative entry")

	// ErrNegativeBudget indicates a negative token budget was requested.
	ErrNegativeBudget = errors.New("token budget is negative")

	// ErrInexactReduction indicates the reducer produced lengths that do not
	// sum to the requested total. This is an internal invariant failure, not
	// a data problem.
	ErrInexactReduction = errors.New("reduced lengths do not sum to the requested total")
)
