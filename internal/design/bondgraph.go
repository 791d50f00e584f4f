package design

import (
	"github.com/sarat-asymmetrica/crystalforge/internal/constraint"
	"github.com/sarat-asymmetrica/crystalforge/internal/dictionary"
	"github.com/sarat-asymmetrica/crystalforge/internal/polyhedra"
	"github.com/sarat-asymmetrica/crystalforge/internal/relax"
	"github.com/sarat-asymmetrica/crystalforge/internal/structure"
)

// deriveBondGraph rebuilds chemical bonds from the current constraining
// list, prunes any central atom whose coordination composition or
// polyhedra linkage is now infeasible by dropping its longest offending
// bond first, and returns the five pair lists the optimizer needs.
func deriveBondGraph(m *constraint.Manager, linkage *dictionary.LinkageDictionary) *relax.ObjectiveStructure {
	createFeasibleBonds(m)
	pruneInfeasibleCoordination(m, linkage)
	return buildObjectiveStructure(m)
}

// createFeasibleBonds realizes step 1: for every pair currently in the
// constraining list, create an ionic bond if the pair is attractive,
// innately ionic-bondable, and within feasible ionic-bond distance;
// otherwise create a covalent bond if the pair is neutral, innately
// covalent-bondable, and within feasible covalent-bond distance.
func createFeasibleBonds(m *constraint.Manager) {
	for _, pair := range m.Constraining() {
		switch m.Classify(pair.I, pair.J) {
		case constraint.Attractive:
			if m.IsInnateIonicBondable(pair.I, pair.J) && m.IsInnateChemicalBondable(pair.I, pair.J) &&
				m.IsFeasibleIonicBond(pair.I, pair.J) {
				m.CreateIonicBond(pair.I, pair.J)
			}
		case constraint.Neutral:
			if m.IsInnateCovalentBondable(pair.I, pair.J) && m.IsInnateChemicalBondable(pair.I, pair.J) &&
				m.IsFeasibleCovalentBond(pair.I, pair.J) {
				m.CreateCovalentBond(pair.I, pair.J)
			}
		}
	}
}

// pruneInfeasibleCoordination realizes step 2: repeatedly drop the
// longest bond on any atom whose coordination composition, or whose
// polyhedra linkage to a bonded neighbour, violates its declared
// constraints, until every atom is valid or has no further bond to drop.
func pruneInfeasibleCoordination(m *constraint.Manager, linkage *dictionary.LinkageDictionary) {
	n := m.Structure.Len()
	for i := 0; i < n; i++ {
		idx := structure.OriginalAtomIndex(i)
		for {
			if violation, ok := firstOffendingBond(m, linkage, idx); ok {
				dropBond(m, idx, violation)
				continue
			}
			break
		}
	}
}

// firstOffendingBond returns the longest bond that should be dropped
// from atom i, if its coordination composition is infeasible or any
// bonded neighbour's polyhedra linkage to i is infeasible. The bonded
// list is already distance-ordered, so the last entry is the longest.
func firstOffendingBond(m *constraint.Manager, linkage *dictionary.LinkageDictionary, i structure.OriginalAtomIndex) (structure.TranslatedAtomIndex, bool) {
	ordered := polyhedra.OrderedBondedIndices(m, i)
	if len(ordered) == 0 {
		return structure.TranslatedAtomIndex{}, false
	}
	if !polyhedra.HasFeasibleCoordinationComposition(m, i) {
		return ordered[len(ordered)-1], true
	}
	for k := len(ordered) - 1; k >= 0; k-- {
		if !polyhedra.IsFeasiblePolyhedraLinkage(linkage, m, i, ordered[k].Index) {
			return ordered[k], true
		}
	}
	return structure.TranslatedAtomIndex{}, false
}

func dropBond(m *constraint.Manager, i structure.OriginalAtomIndex, j structure.TranslatedAtomIndex) {
	atom := m.Structure.At(i)
	if atom.HasCovalentBond(j) {
		m.EraseCovalentBond(i, j)
		return
	}
	if atom.HasIonicBond(j) {
		m.EraseIonicBond(i, j)
	}
}

// buildObjectiveStructure realizes step 3: classify every constraining
// pair as bonded or excluded/repulsed according to its current chemical
// bond state and charge interaction.
func buildObjectiveStructure(m *constraint.Manager) *relax.ObjectiveStructure {
	var covalentBonded, covalentExcluded, ionicBonded, ionicExcluded, ionicRepulsed []relax.PairRef
	for _, pair := range m.Constraining() {
		ref := relax.PairRef{I: pair.I, J: pair.J}
		switch m.Classify(pair.I, pair.J) {
		case constraint.Repulsive:
			ionicRepulsed = append(ionicRepulsed, ref)
		case constraint.Attractive:
			if m.Structure.At(pair.I).HasIonicBond(pair.J) {
				ionicBonded = append(ionicBonded, ref)
			} else {
				ionicExcluded = append(ionicExcluded, ref)
			}
		default:
			if m.Structure.At(pair.I).HasCovalentBond(pair.J) {
				covalentBonded = append(covalentBonded, ref)
			} else {
				covalentExcluded = append(covalentExcluded, ref)
			}
		}
	}
	return relax.NewObjectiveStructure(m.Structure, covalentBonded, covalentExcluded, ionicBonded, ionicExcluded, ionicRepulsed)
}
