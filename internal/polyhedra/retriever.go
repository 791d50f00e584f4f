// Package polyhedra implements a coordination analyzer: a read/erase
// view over a constraint.Manager that maps bonds to coordination
// compositions and prunes bonds that no longer satisfy feasibility
// bounds.
//
// The source's PolyhedraRetriever is a subclass of ConstraintManager;
// per the design notes this collapses to free functions taking
// *constraint.Manager rather than a second type in an inheritance chain.
package polyhedra

import (
	"sort"

	"github.com/sarat-asymmetrica/crystalforge/internal/constraint"
	"github.com/sarat-asymmetrica/crystalforge/internal/species"
	"github.com/sarat-asymmetrica/crystalforge/internal/structure"
)

// bondedNeighbors returns every translated-atom reference currently
// bonded to i, covalent or ionic, in-cell or across-cell.
func bondedNeighbors(m *constraint.Manager, i structure.OriginalAtomIndex) []structure.TranslatedAtomIndex {
	atom := m.Structure.At(i)
	out := make([]structure.TranslatedAtomIndex, 0, atom.CovalentBondCount()+atom.IonicBondCount())
	out = append(out, atom.CovalentBonds()...)
	out = append(out, atom.IonicBonds()...)
	return out
}

// CoordinationComposition returns the multiset of neighbour element
// symbols over every atom currently bonded (covalent + ionic, in-cell +
// across-cell) to atom i.
func CoordinationComposition(m *constraint.Manager, i structure.OriginalAtomIndex) species.Composition {
	comp := make(species.Composition)
	for _, t := range bondedNeighbors(m, i) {
		el := m.Structure.At(t.Index).Species.Number.Element
		comp[el]++
	}
	return comp
}

// HasFeasibleCoordinationComposition reports whether atom i's current
// coordination composition satisfies its species' declared constraints:
// against the explicit feasible-composition set if one is declared,
// otherwise against the declared covalent/ionic coordination counts
// and lower-bound compositions.
func HasFeasibleCoordinationComposition(m *constraint.Manager, i structure.OriginalAtomIndex) bool {
	atom := m.Structure.At(i)
	constr := atom.Species.Coordination
	comp := CoordinationComposition(m, i)

	if len(constr.FeasibleCompositions) > 0 {
		for _, candidate := range constr.FeasibleCompositions {
			if comp.Equal(candidate) {
				return true
			}
		}
		return false
	}

	if len(constr.FeasibleCovalentCoordinationNumbers) > 0 {
		if !constr.FeasibleCovalentCoordinationNumbers[atom.CovalentBondCount()] {
			return false
		}
	}
	if len(constr.FeasibleIonicCoordinationNumbers) > 0 {
		if !constr.FeasibleIonicCoordinationNumbers[atom.IonicBondCount()] {
			return false
		}
	}
	for _, lowerBound := range constr.LowerBoundCompositions {
		if !comp.Contains(lowerBound) {
			return false
		}
	}
	return true
}

// OrderedBondedIndices returns atom i's bonded neighbours sorted by
// squared distance ascending, with ties broken by lattice-point order
// then original-index order, for reproducibility.
func OrderedBondedIndices(m *constraint.Manager, i structure.OriginalAtomIndex) []structure.TranslatedAtomIndex {
	neighbors := bondedNeighbors(m, i)
	type scored struct {
		ref structure.TranslatedAtomIndex
		d2  float64
	}
	scoredList := make([]scored, len(neighbors))
	for idx, t := range neighbors {
		scoredList[idx] = scored{ref: t, d2: m.Structure.Displacement(i, t).Norm2()}
	}
	sort.Slice(scoredList, func(a, b int) bool {
		if scoredList[a].d2 != scoredList[b].d2 {
			return scoredList[a].d2 < scoredList[b].d2
		}
		if scoredList[a].ref.Lattice != scoredList[b].ref.Lattice {
			return scoredList[a].ref.Lattice.Less(scoredList[b].ref.Lattice)
		}
		return scoredList[a].ref.Index < scoredList[b].ref.Index
	})
	out := make([]structure.TranslatedAtomIndex, len(scoredList))
	for idx, s := range scoredList {
		out[idx] = s.ref
	}
	return out
}

// EraseInfeasibleChemicalBonds iterates every in-cell pair and every
// constraining pair, erasing (symmetrically, via the manager) any bond
// whose matching feasibility predicate no longer holds at the current
// geometry and ε.
func EraseInfeasibleChemicalBonds(m *constraint.Manager) {
	n := m.Structure.Len()
	for i := 0; i < n; i++ {
		idx := structure.OriginalAtomIndex(i)
		for _, t := range append([]structure.TranslatedAtomIndex{}, m.Structure.At(idx).CovalentBonds()...) {
			if !t.InCell() {
				continue
			}
			if !m.IsFeasibleCovalentBond(idx, t) {
				m.EraseCovalentBond(idx, t)
			}
		}
		for _, t := range append([]structure.TranslatedAtomIndex{}, m.Structure.At(idx).IonicBonds()...) {
			if !t.InCell() {
				continue
			}
			if !m.IsFeasibleIonicBond(idx, t) {
				m.EraseIonicBond(idx, t)
			}
		}
	}

	for _, pair := range m.Constraining() {
		switch m.Classify(pair.I, pair.J) {
		case constraint.Attractive:
			if m.Structure.At(pair.I).HasIonicBond(pair.J) && !m.IsFeasibleIonicBond(pair.I, pair.J) {
				m.EraseIonicBond(pair.I, pair.J)
			}
		default:
			if m.Structure.At(pair.I).HasCovalentBond(pair.J) && !m.IsFeasibleCovalentBond(pair.I, pair.J) {
				m.EraseCovalentBond(pair.I, pair.J)
			}
		}
	}
}
