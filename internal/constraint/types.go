// Package constraint implements the constraint graph: a manager that
// owns the tracing/constraining pair lists, the distance predicates,
// and the symmetric bond relation mutators.
package constraint

import (
	"fmt"

	"github.com/sarat-asymmetrica/crystalforge/internal/structure"
)

// Pair is an ordered (central, other) atom reference used for both the
// tracing and constraining lists.
type Pair struct {
	I structure.OriginalAtomIndex
	J structure.TranslatedAtomIndex
}

// Policy holds the scalar parameters governing feasibility and
// tracing/constraining cutoffs.
type Policy struct {
	// FeasibleErrorRate is ε, the fractional tolerance applied around
	// each bond/exclusion bound.
	FeasibleErrorRate float64

	// ExclusiveRadiusRatio is ρ_ex >= 1, scaling bonding radii up to
	// exclusion radii.
	ExclusiveRadiusRatio float64

	// TracerCutoffRatio is ρ_trace >= 1, the looser multiplier used
	// when building the tracing superset.
	TracerCutoffRatio float64

	// ConstrainerCutoffRatio is ρ_con >= 1, the tighter multiplier used
	// when filtering tracing down to constraining.
	ConstrainerCutoffRatio float64
}

// Validate checks that ρ_ex, ρ_trace, and ρ_con are each >= 1, and
// that ε is non-negative.
func (p Policy) Validate() error {
	if p.FeasibleErrorRate < 0 {
		return fmt.Errorf("constraint: feasible error rate must be >= 0, got %f", p.FeasibleErrorRate)
	}
	if p.ExclusiveRadiusRatio < 1 {
		return fmt.Errorf("constraint: exclusive radius ratio must be >= 1, got %f", p.ExclusiveRadiusRatio)
	}
	if p.TracerCutoffRatio < 1 {
		return fmt.Errorf("constraint: tracer cutoff ratio must be >= 1, got %f", p.TracerCutoffRatio)
	}
	if p.ConstrainerCutoffRatio < 1 {
		return fmt.Errorf("constraint: constrainer cutoff ratio must be >= 1, got %f", p.ConstrainerCutoffRatio)
	}
	return nil
}

// ChargeInteraction classifies the electrostatic relationship between
// two species.
type ChargeInteraction int

const (
	Neutral ChargeInteraction = iota
	Attractive
	Repulsive
)
