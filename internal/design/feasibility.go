package design

import (
	"math"

	"github.com/sarat-asymmetrica/crystalforge/internal/constraint"
	"github.com/sarat-asymmetrica/crystalforge/internal/polyhedra"
	"github.com/sarat-asymmetrica/crystalforge/internal/relax"
	"github.com/sarat-asymmetrica/crystalforge/internal/structure"
)

// isFeasible reports whether every atom has a feasible coordination
// composition and every pair in the constraining list obeys the
// feasibility predicate matching its current bond/charge state.
func isFeasible(m *constraint.Manager) bool {
	n := m.Structure.Len()
	for i := 0; i < n; i++ {
		if !polyhedra.HasFeasibleCoordinationComposition(m, structure.OriginalAtomIndex(i)) {
			return false
		}
	}
	for _, pair := range m.Constraining() {
		switch m.Classify(pair.I, pair.J) {
		case constraint.Repulsive:
			if !m.IsFeasibleIonicRepulsion(pair.I, pair.J) {
				return false
			}
		case constraint.Attractive:
			if m.Structure.At(pair.I).HasIonicBond(pair.J) {
				if !m.IsFeasibleIonicBond(pair.I, pair.J) {
					return false
				}
			} else if !m.IsFeasibleIonicExclusion(pair.I, pair.J) {
				return false
			}
		default:
			if m.Structure.At(pair.I).HasCovalentBond(pair.J) {
				if !m.IsFeasibleCovalentBond(pair.I, pair.J) {
					return false
				}
			} else if !m.IsFeasibleCovalentExclusion(pair.I, pair.J) {
				return false
			}
		}
	}
	return true
}

// OptimalityScore scores a feasible structure in [0,1]: for every
// constraining pair, how close its distance sits to its feasibility
// bound's midpoint, averaged over the structure. A score of 1 means
// every pair sits exactly at its ideal distance; scores fall toward 0
// as pairs crowd a feasibility boundary.
func OptimalityScore(m *constraint.Manager) float64 {
	total := 0.0
	count := 0
	eps := m.Policy.FeasibleErrorRate
	rhoEx := m.Policy.ExclusiveRadiusRatio

	score := func(d, lower, upper float64) float64 {
		mid := (lower + upper) / 2
		halfWidth := (upper - lower) / 2
		if halfWidth <= 0 {
			return 1
		}
		return math.Max(0, 1-math.Abs(d-mid)/halfWidth)
	}
	scoreLowerOnly := func(d, lower float64) float64 {
		if lower <= 0 {
			return 1
		}
		return math.Max(0, math.Min(1, (d-lower)/lower))
	}

	for _, pair := range m.Constraining() {
		d := m.Structure.Displacement(pair.I, pair.J).Norm()
		switch m.Classify(pair.I, pair.J) {
		case constraint.Repulsive:
			lower := relax.IonicRepulsionBound(m.Structure, pair.I, pair.J, eps)
			total += scoreLowerOnly(d, lower)
		case constraint.Attractive:
			if m.Structure.At(pair.I).HasIonicBond(pair.J) {
				lower, upper := relax.IonicBondBounds(m.Structure, pair.I, pair.J, eps)
				total += score(d, lower, upper)
			} else {
				lower := relax.IonicExclusionBound(m.Structure, pair.I, pair.J, eps, rhoEx)
				total += scoreLowerOnly(d, lower)
			}
		default:
			if m.Structure.At(pair.I).HasCovalentBond(pair.J) {
				lower, upper := relax.CovalentBondBounds(m.Structure, pair.I, pair.J, eps)
				total += score(d, lower, upper)
			} else {
				lower := relax.CovalentExclusionBound(m.Structure, pair.I, pair.J, eps, rhoEx)
				total += scoreLowerOnly(d, lower)
			}
		}
		count++
	}
	if count == 0 {
		return 1
	}
	return total / float64(count)
}
