// Package xerrors holds the sentinel errors shared across crystalforge
// so callers can classify a failure with errors.Is instead of string
// matching.
package xerrors

import "errors"

var (
	// ErrConfiguration marks a malformed or out-of-range configuration
	// value. Always fatal to the run that surfaces it.
	ErrConfiguration = errors.New("crystalforge: configuration error")

	// ErrExceptionalAttempt marks a design attempt that failed in a way
	// the designer did not anticipate (neighbour enumeration overflow,
	// an uncaught numerical failure). The attempt is discarded, not the
	// worker.
	ErrExceptionalAttempt = errors.New("crystalforge: exceptional attempt")

	// ErrDegenerateCell marks a unit cell whose basis collapsed to
	// (near-)zero volume during relaxation.
	ErrDegenerateCell = errors.New("crystalforge: degenerate unit cell")

	// ErrTimeout marks an attempt that exceeded a tracer-rebuild or
	// cell-reduction budget.
	ErrTimeout = errors.New("crystalforge: attempt timed out")
)
