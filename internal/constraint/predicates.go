package constraint

import (
	"github.com/sarat-asymmetrica/crystalforge/internal/structure"
)

// squaredDistance returns ‖d‖² for the displacement from atom i to
// atom/image j.
func (m *Manager) squaredDistance(i structure.OriginalAtomIndex, j structure.TranslatedAtomIndex) float64 {
	return m.Structure.Displacement(i, j).Norm2()
}

func sq(v float64) float64 { return v * v }

// Classify returns whether the (i,j) species pair is attractive
// (anion/cation), repulsive (both anions or both cations), or neutral.
func (m *Manager) Classify(i structure.OriginalAtomIndex, j structure.TranslatedAtomIndex) ChargeInteraction {
	si := m.Structure.At(i).Species.Number
	sj := m.Structure.At(j.Index).Species.Number
	switch {
	case (si.IsAnion() && sj.IsCation()) || (si.IsCation() && sj.IsAnion()):
		return Attractive
	case (si.IsAnion() && sj.IsAnion()) || (si.IsCation() && sj.IsCation()):
		return Repulsive
	default:
		return Neutral
	}
}

// IsInnateCovalentBondable reports whether both species declare a
// nonzero maximum constrained covalent coordination number.
func (m *Manager) IsInnateCovalentBondable(i structure.OriginalAtomIndex, j structure.TranslatedAtomIndex) bool {
	ci := m.Structure.At(i).Species.Coordination
	cj := m.Structure.At(j.Index).Species.Coordination
	return ci.MaxConstrainedCovalentCoordinationNumber() > 0 && cj.MaxConstrainedCovalentCoordinationNumber() > 0
}

// IsInnateIonicBondable is the ionic analogue of IsInnateCovalentBondable.
func (m *Manager) IsInnateIonicBondable(i structure.OriginalAtomIndex, j structure.TranslatedAtomIndex) bool {
	ci := m.Structure.At(i).Species.Coordination
	cj := m.Structure.At(j.Index).Species.Coordination
	return ci.MaxConstrainedIonicCoordinationNumber() > 0 && cj.MaxConstrainedIonicCoordinationNumber() > 0
}

// IsInnateChemicalBondable reports whether neither species lists the
// other's element as infeasible.
func (m *Manager) IsInnateChemicalBondable(i structure.OriginalAtomIndex, j structure.TranslatedAtomIndex) bool {
	si := m.Structure.At(i).Species
	sj := m.Structure.At(j.Index).Species
	if si.IsInfeasibleElement(sj.Number.Element) {
		return false
	}
	if sj.IsInfeasibleElement(si.Number.Element) {
		return false
	}
	return true
}

// --- constrainable predicates (upper bound only, ρ_con scale) ---

func (m *Manager) IsConstrainableCovalentBondingDistance(i structure.OriginalAtomIndex, j structure.TranslatedAtomIndex) bool {
	ri := m.Structure.At(i).Species.Covalent
	rj := m.Structure.At(j.Index).Species.Covalent
	upper := m.Policy.ConstrainerCutoffRatio * (ri.Max + rj.Max)
	return m.squaredDistance(i, j) <= sq(upper)
}

func (m *Manager) IsConstrainableIonicBondingDistance(i structure.OriginalAtomIndex, j structure.TranslatedAtomIndex) bool {
	ri := m.Structure.At(i).Species.Ionic
	rj := m.Structure.At(j.Index).Species.Ionic
	upper := m.Policy.ConstrainerCutoffRatio * (ri.Max + rj.Max)
	return m.squaredDistance(i, j) <= sq(upper)
}

func (m *Manager) IsConstrainableCovalentExclusionDistance(i structure.OriginalAtomIndex, j structure.TranslatedAtomIndex) bool {
	ri := m.Structure.At(i).Species.Covalent
	rj := m.Structure.At(j.Index).Species.Covalent
	upper := m.Policy.ConstrainerCutoffRatio * m.Policy.ExclusiveRadiusRatio * (ri.Max + rj.Max)
	return m.squaredDistance(i, j) <= sq(upper)
}

func (m *Manager) IsConstrainableIonicExclusionDistance(i structure.OriginalAtomIndex, j structure.TranslatedAtomIndex) bool {
	ri := m.Structure.At(i).Species.Ionic
	rj := m.Structure.At(j.Index).Species.Ionic
	upper := m.Policy.ConstrainerCutoffRatio * m.Policy.ExclusiveRadiusRatio * (ri.Max + rj.Max)
	return m.squaredDistance(i, j) <= sq(upper)
}

func (m *Manager) IsConstrainableIonicRepulsionDistance(i structure.OriginalAtomIndex, j structure.TranslatedAtomIndex) bool {
	ri := m.Structure.At(i).Species.Repulsion
	rj := m.Structure.At(j.Index).Species.Repulsion
	upper := m.Policy.ConstrainerCutoffRatio * (ri.Min + rj.Min)
	return m.squaredDistance(i, j) <= sq(upper)
}

// --- traceable predicates (upper bound only, ρ_trace scale) ---

func (m *Manager) isTraceableCovalentExclusionDistance(i structure.OriginalAtomIndex, j structure.TranslatedAtomIndex) bool {
	ri := m.Structure.At(i).Species.Covalent
	rj := m.Structure.At(j.Index).Species.Covalent
	upper := m.Policy.TracerCutoffRatio * m.Policy.ExclusiveRadiusRatio * (ri.Max + rj.Max)
	return m.squaredDistance(i, j) <= sq(upper)
}

func (m *Manager) isTraceableIonicExclusionDistance(i structure.OriginalAtomIndex, j structure.TranslatedAtomIndex) bool {
	ri := m.Structure.At(i).Species.Ionic
	rj := m.Structure.At(j.Index).Species.Ionic
	upper := m.Policy.TracerCutoffRatio * m.Policy.ExclusiveRadiusRatio * (ri.Max + rj.Max)
	return m.squaredDistance(i, j) <= sq(upper)
}

func (m *Manager) isTraceableIonicRepulsionDistance(i structure.OriginalAtomIndex, j structure.TranslatedAtomIndex) bool {
	ri := m.Structure.At(i).Species.Repulsion
	rj := m.Structure.At(j.Index).Species.Repulsion
	upper := m.Policy.TracerCutoffRatio * (ri.Min + rj.Min)
	return m.squaredDistance(i, j) <= sq(upper)
}

// --- feasibility predicates (bounded interval around ε) ---

func (m *Manager) IsFeasibleCovalentBond(i structure.OriginalAtomIndex, j structure.TranslatedAtomIndex) bool {
	return m.isFeasibleCovalentBondAt(i, j, m.Policy.FeasibleErrorRate)
}

func (m *Manager) isFeasibleCovalentBondAt(i structure.OriginalAtomIndex, j structure.TranslatedAtomIndex, eps float64) bool {
	ri := m.Structure.At(i).Species.Covalent
	rj := m.Structure.At(j.Index).Species.Covalent
	lower := (1 - eps) * (ri.Min + rj.Min)
	upper := (1 + eps) * (ri.Max + rj.Max)
	d2 := m.squaredDistance(i, j)
	return d2 >= sq(lower) && d2 <= sq(upper)
}

func (m *Manager) IsFeasibleIonicBond(i structure.OriginalAtomIndex, j structure.TranslatedAtomIndex) bool {
	return m.isFeasibleIonicBondAt(i, j, m.Policy.FeasibleErrorRate)
}

func (m *Manager) isFeasibleIonicBondAt(i structure.OriginalAtomIndex, j structure.TranslatedAtomIndex, eps float64) bool {
	ri := m.Structure.At(i).Species.Ionic
	rj := m.Structure.At(j.Index).Species.Ionic
	lower := (1 - eps) * (ri.Min + rj.Min)
	upper := (1 + eps) * (ri.Max + rj.Max)
	d2 := m.squaredDistance(i, j)
	return d2 >= sq(lower) && d2 <= sq(upper)
}

// IsFeasibleCovalentExclusion, IsFeasibleIonicExclusion, and
// IsFeasibleIonicRepulsion have a lower bound only: the predicate
// succeeds whenever the pair's separation is above that bound.

func (m *Manager) IsFeasibleCovalentExclusion(i structure.OriginalAtomIndex, j structure.TranslatedAtomIndex) bool {
	ri := m.Structure.At(i).Species.Covalent
	rj := m.Structure.At(j.Index).Species.Covalent
	lower := (1 - m.Policy.FeasibleErrorRate) * m.Policy.ExclusiveRadiusRatio * (ri.Max + rj.Max)
	return m.squaredDistance(i, j) >= sq(lower)
}

func (m *Manager) IsFeasibleIonicExclusion(i structure.OriginalAtomIndex, j structure.TranslatedAtomIndex) bool {
	ri := m.Structure.At(i).Species.Ionic
	rj := m.Structure.At(j.Index).Species.Ionic
	lower := (1 - m.Policy.FeasibleErrorRate) * m.Policy.ExclusiveRadiusRatio * (ri.Max + rj.Max)
	return m.squaredDistance(i, j) >= sq(lower)
}

func (m *Manager) IsFeasibleIonicRepulsion(i structure.OriginalAtomIndex, j structure.TranslatedAtomIndex) bool {
	ri := m.Structure.At(i).Species.Repulsion
	rj := m.Structure.At(j.Index).Species.Repulsion
	lower := (1 - m.Policy.FeasibleErrorRate) * (ri.Min + rj.Min)
	return m.squaredDistance(i, j) >= sq(lower)
}
