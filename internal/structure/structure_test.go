package structure

import (
	"math"
	"testing"

	"github.com/sarat-asymmetrica/crystalforge/internal/geometry"
	"github.com/sarat-asymmetrica/crystalforge/internal/species"
)

func cubicCell(a float64) *UnitCell {
	return NewUnitCell(geometry.NewMatrixFromRows(
		geometry.NewVector(a, 0, 0),
		geometry.NewVector(0, a, 0),
		geometry.NewVector(0, 0, a),
	))
}

func testSpecies(symbol string, charge int) species.Species {
	return species.Species{Number: species.IonicAtomicNumber{Element: symbol, Charge: charge}}
}

func TestNormalizeFractionalCoordinatesClearsRelationsAndWraps(t *testing.T) {
	cell := cubicCell(10)
	a0 := NewAtom(testSpecies("Na", 1), geometry.NewVector(11, -1, 25))
	a1 := NewAtom(testSpecies("Cl", -1), geometry.NewVector(5, 5, 5))
	a0.AddCovalentBond(TranslatedAtomIndex{Index: 1, Lattice: geometry.Origin})
	a1.AddCovalentBond(TranslatedAtomIndex{Index: 0, Lattice: geometry.Origin})

	s := New(cell, []*Atom{a0, a1})
	if err := s.NormalizeFractionalCoordinates(); err != nil {
		t.Fatalf("normalize failed: %v", err)
	}

	for i, atom := range s.Atoms {
		frac, err := cell.Fractional(atom.Position)
		if err != nil {
			t.Fatalf("fractional: %v", err)
		}
		for axis, v := range []float64{frac.X(), frac.Y(), frac.Z()} {
			if v < 0 || v >= 1 {
				t.Fatalf("atom %d axis %d fractional coordinate %f out of [0,1)", i, axis, v)
			}
		}
		if len(atom.CovalentBonds()) != 0 || len(atom.IonicBonds()) != 0 || len(atom.IonicRepulsions()) != 0 {
			t.Fatalf("atom %d relation sets not cleared after normalize", i)
		}
	}
}

func TestDisplacementAcrossCell(t *testing.T) {
	cell := cubicCell(10)
	a0 := NewAtom(testSpecies("Na", 1), geometry.NewVector(1, 1, 1))
	a1 := NewAtom(testSpecies("Cl", -1), geometry.NewVector(1, 1, 1))
	s := New(cell, []*Atom{a0, a1})

	d := s.Displacement(0, TranslatedAtomIndex{Index: 1, Lattice: geometry.LatticePoint{A: 1, B: 0, C: 0}})
	want := geometry.NewVector(10, 0, 0)
	if math.Abs(d.Sub(want).Norm()) > 1e-9 {
		t.Fatalf("expected displacement %+v, got %+v", want, d)
	}
}
