// Package seed builds randomized initial structures for a target
// composition, the missing piece between a loaded configuration and a
// CrystalDesigner attempt: given a composition (how many of each ionic
// species) and the species chemical-knowledge table, it scatters atoms
// at random fractional coordinates inside a cell sized from their radii
// and returns a fresh constraint.Manager ready for CrystalDesigner.New.
package seed

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/sarat-asymmetrica/crystalforge/internal/constraint"
	"github.com/sarat-asymmetrica/crystalforge/internal/geometry"
	"github.com/sarat-asymmetrica/crystalforge/internal/species"
	"github.com/sarat-asymmetrica/crystalforge/internal/structure"
)

// Composition names how many atoms of each ionic species a generated
// structure must contain.
type Composition map[species.IonicAtomicNumber]int

// cellPaddingFactor inflates the cubic cell edge beyond the sum of
// ionic diameters so random placement has room to avoid degenerate
// overlaps before the first tracer rebuild ever runs.
const cellPaddingFactor = 1.8

// RandomStructure scatters one atom per unit of composition at random
// fractional coordinates inside a cubic cell, then wraps it in a fresh
// constraint.Manager under policy. sampleID seeds the random source, so
// two calls with the same sampleID and composition are reproducible.
func RandomStructure(table map[species.IonicAtomicNumber]species.Species, comp Composition, policy constraint.Policy, sampleID int) (*constraint.Manager, error) {
	if len(comp) == 0 {
		return nil, fmt.Errorf("seed: composition must name at least one species")
	}

	var atoms []*structure.Atom
	rng := rand.New(rand.NewSource(int64(sampleID)))
	edge := cellEdge(table, comp)
	cell := structure.NewUnitCell(geometry.NewMatrixFromRows(
		geometry.NewVector(edge, 0, 0),
		geometry.NewVector(0, edge, 0),
		geometry.NewVector(0, 0, edge),
	))

	for _, key := range sortedKeys(comp) {
		sp, ok := table[key]
		if !ok {
			return nil, fmt.Errorf("seed: composition names species %v, absent from the species table", key)
		}
		count := comp[key]
		for n := 0; n < count; n++ {
			pos := geometry.NewVector(rng.Float64()*edge, rng.Float64()*edge, rng.Float64()*edge)
			atoms = append(atoms, structure.NewAtom(sp, pos))
		}
	}

	s := structure.New(cell, atoms)
	return constraint.New(s, policy)
}

// cellEdge sizes a cubic cell so that the total volume implied by every
// atom's ionic radius (treated as a sphere) fits with cellPaddingFactor
// of headroom, giving the optimizer a plausible starting density rather
// than an arbitrarily oversized or undersized box.
func cellEdge(table map[species.IonicAtomicNumber]species.Species, comp Composition) float64 {
	volume := 0.0
	for _, key := range sortedKeys(comp) {
		sp, ok := table[key]
		if !ok {
			continue
		}
		count := comp[key]
		r := sp.Ionic.Max
		volume += float64(count) * (4.0 / 3.0) * math.Pi * r * r * r
	}
	if volume <= 0 {
		volume = 1
	}
	return math.Cbrt(volume) * cellPaddingFactor
}

// sortedKeys returns comp's species keys in a fixed order (by element,
// then charge), so iterating a composition never depends on Go's
// randomized map order — the one place that order would otherwise leak
// into which RNG draws land on which species, breaking reproducibility
// for any sampleID with more than one species in its composition.
func sortedKeys(comp Composition) []species.IonicAtomicNumber {
	keys := make([]species.IonicAtomicNumber, 0, len(comp))
	for k := range comp {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Element != keys[j].Element {
			return keys[i].Element < keys[j].Element
		}
		return keys[i].Charge < keys[j].Charge
	})
	return keys
}
