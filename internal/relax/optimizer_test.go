package relax

import (
	"math"
	"testing"

	"github.com/sarat-asymmetrica/crystalforge/internal/geometry"
	"github.com/sarat-asymmetrica/crystalforge/internal/species"
	"github.com/sarat-asymmetrica/crystalforge/internal/structure"
)

func cubicCell(a float64) *structure.UnitCell {
	return structure.NewUnitCell(geometry.NewMatrixFromRows(
		geometry.NewVector(a, 0, 0),
		geometry.NewVector(0, a, 0),
		geometry.NewVector(0, 0, a),
	))
}

func TestDecayFactorReachesFinalStepAfterNIterations(t *testing.T) {
	na := species.Species{Number: species.IonicAtomicNumber{Element: "Na", Charge: 1},
		Ionic: species.RadiusRange{Min: 0.9, Max: 1.1}, Covalent: species.RadiusRange{Min: 0.9, Max: 1.1},
		Repulsion: species.RadiusRange{Min: 0.5, Max: 0.5}}
	cl := species.Species{Number: species.IonicAtomicNumber{Element: "Cl", Charge: -1},
		Ionic: species.RadiusRange{Min: 1.7, Max: 1.9}, Covalent: species.RadiusRange{Min: 1.7, Max: 1.9},
		Repulsion: species.RadiusRange{Min: 0.5, Max: 0.5}}

	cell := cubicCell(10)
	a0 := structure.NewAtom(na, geometry.NewVector(5, 5, 5))
	a1 := structure.NewAtom(cl, geometry.NewVector(5, 5, 5.1))
	s := structure.New(cell, []*structure.Atom{a0, a1})

	obj := NewObjectiveStructure(s, nil, nil,
		[]PairRef{{I: 0, J: structure.TranslatedAtomIndex{Index: 1, Lattice: geometry.Origin}}},
		nil, []PairRef{{I: 0, J: structure.TranslatedAtomIndex{Index: 1, Lattice: geometry.Origin}}})

	params := Params{
		AttractiveForceConstant:       30,
		RepulsiveForceConstant:        -100,
		IterationCount:                50,
		InitialMaxAtomicDisplacement:  1.0,
		FinalMaxAtomicDisplacement:    0.01,
		MaxUnitCellDisplacementFactor: 0.1,
		Pressure:                      0,
		FeasibleErrorRate:             0.15,
		ExclusiveRadiusRatio:          1.2,
	}
	opt, err := New(obj, params)
	if err != nil {
		t.Fatalf("new optimizer: %v", err)
	}
	if err := opt.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if math.Abs(opt.MaxAtomicDisplacement()-params.FinalMaxAtomicDisplacement) > 1e-9 {
		t.Fatalf("expected final step size %f, got %f", params.FinalMaxAtomicDisplacement, opt.MaxAtomicDisplacement())
	}
}

// TestTrivialDiatomicRelaxation realizes scenario S1 with the pair in the
// ionic-bonded list: the bond's too-short branch pushes Na+ and Cl-
// apart from an almost-coincident start, and after
// enough local-phase steps the ionic bond distance settles within the
// feasible window.
func TestTrivialDiatomicRelaxation(t *testing.T) {
	na := species.Species{Number: species.IonicAtomicNumber{Element: "Na", Charge: 1},
		Ionic: species.RadiusRange{Min: 0.9, Max: 1.1}, Covalent: species.RadiusRange{Min: 0.9, Max: 1.1},
		Repulsion: species.RadiusRange{Min: 0.5, Max: 0.5}}
	cl := species.Species{Number: species.IonicAtomicNumber{Element: "Cl", Charge: -1},
		Ionic: species.RadiusRange{Min: 1.7, Max: 1.9}, Covalent: species.RadiusRange{Min: 1.7, Max: 1.9},
		Repulsion: species.RadiusRange{Min: 0.5, Max: 0.5}}

	cell := cubicCell(10)
	a0 := structure.NewAtom(na, geometry.NewVector(5, 5, 5))
	a1 := structure.NewAtom(cl, geometry.NewVector(5, 5, 5.1))
	s := structure.New(cell, []*structure.Atom{a0, a1})

	ref := structure.TranslatedAtomIndex{Index: 1, Lattice: geometry.Origin}
	obj := NewObjectiveStructure(s, nil, nil, []PairRef{{I: 0, J: ref}}, nil, nil)

	globalParams := Params{
		AttractiveForceConstant: 30, RepulsiveForceConstant: -100,
		IterationCount: 1, InitialMaxAtomicDisplacement: 2.0, FinalMaxAtomicDisplacement: 2.0,
		MaxUnitCellDisplacementFactor: 0.1, FeasibleErrorRate: 0.15, ExclusiveRadiusRatio: 1.2,
	}
	globalOpt, err := New(obj, globalParams)
	if err != nil {
		t.Fatalf("global optimizer: %v", err)
	}
	if err := globalOpt.Run(); err != nil {
		t.Fatalf("global run: %v", err)
	}

	localParams := Params{
		AttractiveForceConstant: 30, RepulsiveForceConstant: -100,
		IterationCount: 50, InitialMaxAtomicDisplacement: 0.3, FinalMaxAtomicDisplacement: 0.01,
		MaxUnitCellDisplacementFactor: 0.1, FeasibleErrorRate: 0.15, ExclusiveRadiusRatio: 1.2,
	}
	localOpt, err := New(obj, localParams)
	if err != nil {
		t.Fatalf("local optimizer: %v", err)
	}
	if err := localOpt.Run(); err != nil {
		t.Fatalf("local run: %v", err)
	}

	dist := s.Displacement(0, ref).Norm()
	if dist < 2.6 || dist > 3.0 {
		t.Fatalf("expected bond distance in [2.6,3.0], got %f", dist)
	}
}

func TestDisplacementClampHolds(t *testing.T) {
	v := geometry.NewVector(100, 0, 0)
	clamped := v.Clamp(0.5)
	if clamped.Norm() > 0.5+1e-12 {
		t.Fatalf("expected clamp to respect max displacement, got norm %f", clamped.Norm())
	}
}
