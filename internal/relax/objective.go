// Package relax implements a force-based structural relaxer,
// MoleculeOptimizer, which accumulates forces over a fixed snapshot of
// pair lists (the ObjectiveStructure) and applies a decaying atom+cell
// displacement schedule.
package relax

import (
	"github.com/sarat-asymmetrica/crystalforge/internal/structure"
)

// PairRef names one (i,j,L) relation captured at optimizer entry.
type PairRef struct {
	I structure.OriginalAtomIndex
	J structure.TranslatedAtomIndex
}

// ObjectiveStructure is a projection of the constraint graph: the atoms
// plus five fixed pair lists, captured once at optimizer entry and held
// constant for the duration of one relaxation run. Bounds are
// not frozen with the lists — they are recomputed each step from the
// atoms' current species radii and the optimizer's current ε, since ε
// itself only changes between phases, never mid-run.
type ObjectiveStructure struct {
	Structure *structure.Structure

	CovalentBonded   []PairRef
	CovalentExcluded []PairRef
	IonicBonded      []PairRef
	IonicExcluded    []PairRef
	IonicRepulsed    []PairRef
}

// NewObjectiveStructure builds an objective structure snapshot from
// explicit pair lists. Callers (internal/design's bond-graph derivation)
// are responsible for populating the five lists from the current
// constraint-manager state.
func NewObjectiveStructure(s *structure.Structure, covalentBonded, covalentExcluded, ionicBonded, ionicExcluded, ionicRepulsed []PairRef) *ObjectiveStructure {
	return &ObjectiveStructure{
		Structure:        s,
		CovalentBonded:   covalentBonded,
		CovalentExcluded: covalentExcluded,
		IonicBonded:      ionicBonded,
		IonicExcluded:    ionicExcluded,
		IonicRepulsed:    ionicRepulsed,
	}
}
