// Package symmetry defines the narrow interface crystal-structure
// callers use to classify a relaxed structure's space group. A real
// implementation (symmetry detection, Wyckoff analysis) is external to
// this module; Detector here is a deterministic stand-in sufficient to
// exercise internal/cio and internal/extraction end to end.
package symmetry

import (
	"sort"
	"strconv"

	"github.com/sarat-asymmetrica/crystalforge/internal/structure"
)

// Detector classifies a relaxed structure's space-group number. Space
// group 1 (P1, no symmetry beyond translation) is always a valid answer;
// a real detector may return any number in [1,230].
type Detector interface {
	SpaceGroupNumber(s *structure.Structure) (int, error)
}

// TrivialDetector always reports P1. It never inspects the structure's
// geometry, so it never misclassifies a cell it cannot analyse — it
// simply declines to analyse any of them.
type TrivialDetector struct{}

// SpaceGroupNumber always returns 1 (P1), nil.
func (TrivialDetector) SpaceGroupNumber(s *structure.Structure) (int, error) {
	return 1, nil
}

// CompositionFingerprint renders a structure's composition as a stable,
// sorted "Element:count,Element:count" string independent of atom order,
// used alongside a space-group number to key isotypic grouping.
func CompositionFingerprint(s *structure.Structure) string {
	counts := make(map[string]int)
	for i := 0; i < s.Len(); i++ {
		counts[s.At(structure.OriginalAtomIndex(i)).Species.Number.Element]++
	}
	elements := make([]string, 0, len(counts))
	for el := range counts {
		elements = append(elements, el)
	}
	sort.Strings(elements)

	out := ""
	for i, el := range elements {
		if i > 0 {
			out += ","
		}
		out += el + ":" + strconv.Itoa(counts[el])
	}
	return out
}
