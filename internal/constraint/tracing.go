package constraint

import (
	"github.com/sarat-asymmetrica/crystalforge/internal/geometry"
	"github.com/sarat-asymmetrica/crystalforge/internal/species"
	"github.com/sarat-asymmetrica/crystalforge/internal/structure"
)

// UpdateTracingPairs rebuilds the tracing list and clears all bond
// relations. For each unordered pair (i,j) with i!=j it
// enumerates lattice images using a per-pair zone radius scaled to the
// pair's charge classification, keeping every image that passes the
// matching traceable predicate. For i==j it only considers images with
// a lattice point strictly greater than the origin, to avoid double
// counting a self-image pair from both directions.
func (m *Manager) UpdateTracingPairs() error {
	m.ClearCovalentBonds()
	m.ClearIonicBonds()
	m.ClearIonicRepulsions()
	m.tracing = nil

	inv, err := m.Structure.Cell.Inverse()
	if err != nil {
		return err
	}

	n := m.Structure.Len()
	for i := 0; i < n; i++ {
		atomI := m.Structure.At(structure.OriginalAtomIndex(i))
		fracI, err := m.Structure.Cell.Fractional(atomI.Position)
		if err != nil {
			return err
		}
		for j := i; j < n; j++ {
			radius, predicate := m.tracerZone(structure.OriginalAtomIndex(i), structure.OriginalAtomIndex(j))
			for _, lp := range geometry.NeighborZone(fracI, inv, radius) {
				if i == j && !geometry.Origin.Less(lp) {
					continue
				}
				ref := structure.TranslatedAtomIndex{Index: structure.OriginalAtomIndex(j), Lattice: lp}
				if predicate(structure.OriginalAtomIndex(i), ref) {
					m.tracing = append(m.tracing, Pair{I: structure.OriginalAtomIndex(i), J: ref})
				}
			}
		}
	}
	return nil
}

// tracerZone picks the zone radius and traceable predicate for the pair
// (i,j) based on their charge-interaction classification: repulsion
// radius minima for repulsive pairs, covalent exclusion for neutral
// pairs, ionic exclusion for attractive pairs.
func (m *Manager) tracerZone(i, j structure.OriginalAtomIndex) (float64, func(structure.OriginalAtomIndex, structure.TranslatedAtomIndex) bool) {
	si := m.Structure.At(i).Species
	sj := m.Structure.At(j).Species
	switch classifyNumbers(si.Number, sj.Number) {
	case Repulsive:
		radius := m.Policy.TracerCutoffRatio * (si.Repulsion.Min + sj.Repulsion.Min)
		return radius, m.isTraceableIonicRepulsionDistance
	case Attractive:
		radius := m.Policy.TracerCutoffRatio * m.Policy.ExclusiveRadiusRatio * (si.Ionic.Max + sj.Ionic.Max)
		return radius, m.isTraceableIonicExclusionDistance
	default:
		radius := m.Policy.TracerCutoffRatio * m.Policy.ExclusiveRadiusRatio * (si.Covalent.Max + sj.Covalent.Max)
		return radius, m.isTraceableCovalentExclusionDistance
	}
}

// UpdateConstrainingPairs filters the tracing list down to the pairs
// that currently pass the matching constrainer-scale predicate.
// Called once per relaxation step.
func (m *Manager) UpdateConstrainingPairs() {
	m.constraining = m.constraining[:0]
	for _, pair := range m.tracing {
		if m.isConstrainable(pair.I, pair.J) {
			m.constraining = append(m.constraining, pair)
		}
	}
}

// isConstrainable reports whether (i,j) currently satisfies any
// constrainer-scale bound relevant to its charge classification: a
// repulsive pair checks ionic repulsion; an attractive pair checks
// ionic bonding or ionic exclusion; a neutral pair checks covalent
// bonding or covalent exclusion.
func (m *Manager) isConstrainable(i structure.OriginalAtomIndex, j structure.TranslatedAtomIndex) bool {
	switch m.Classify(i, j) {
	case Repulsive:
		return m.IsConstrainableIonicRepulsionDistance(i, j)
	case Attractive:
		return m.IsConstrainableIonicBondingDistance(i, j) || m.IsConstrainableIonicExclusionDistance(i, j)
	default:
		return m.IsConstrainableCovalentBondingDistance(i, j) || m.IsConstrainableCovalentExclusionDistance(i, j)
	}
}

func classifyNumbers(a, b species.IonicAtomicNumber) ChargeInteraction {
	switch {
	case (a.IsAnion() && b.IsCation()) || (a.IsCation() && b.IsAnion()):
		return Attractive
	case (a.IsAnion() && b.IsAnion()) || (a.IsCation() && b.IsCation()):
		return Repulsive
	default:
		return Neutral
	}
}
