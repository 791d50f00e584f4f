package polyhedra

import (
	"github.com/sarat-asymmetrica/crystalforge/internal/constraint"
	"github.com/sarat-asymmetrica/crystalforge/internal/dictionary"
	"github.com/sarat-asymmetrica/crystalforge/internal/structure"
)

// SharedNeighborCount returns how many distinct atoms (by original
// index) are bonded to both i and j, the count bond-graph derivation
// uses to classify a corner/edge/face sharing between two polyhedra.
func SharedNeighborCount(m *constraint.Manager, i, j structure.OriginalAtomIndex) int {
	seen := make(map[structure.OriginalAtomIndex]bool)
	for _, t := range bondedNeighbors(m, i) {
		seen[t.Index] = true
	}
	count := 0
	for _, t := range bondedNeighbors(m, j) {
		if seen[t.Index] {
			count++
			seen[t.Index] = false
		}
	}
	return count
}

// IsFeasiblePolyhedraLinkage reports whether the current sharing
// relationship between the polyhedra centred on i and j (derived from
// their shared bonded neighbours) satisfies dict's declared limit for
// their element pair. A nil dict is unrestricted.
func IsFeasiblePolyhedraLinkage(dict *dictionary.LinkageDictionary, m *constraint.Manager, i, j structure.OriginalAtomIndex) bool {
	elA := m.Structure.At(i).Species.Number.Element
	elB := m.Structure.At(j).Species.Number.Element
	observed := dictionary.SharingKindFromCount(SharedNeighborCount(m, i, j))
	return dict.IsFeasibleSharing(elA, elB, observed)
}
