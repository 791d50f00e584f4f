package geometry

import (
	"math"
	"testing"
)

func TestVectorClamp(t *testing.T) {
	v := NewVector(3, 4, 0) // norm 5
	clamped := v.Clamp(2)
	if math.Abs(clamped.Norm()-2) > 1e-9 {
		t.Fatalf("expected clamped norm 2, got %f", clamped.Norm())
	}

	unclamped := v.Clamp(10)
	if unclamped != v {
		t.Fatalf("expected unchanged vector below the clamp, got %+v", unclamped)
	}
}

func TestVectorNorm2AvoidsSqrtPath(t *testing.T) {
	v := NewVector(1, 2, 2)
	if v.Norm2() != 9 {
		t.Fatalf("expected squared norm 9, got %f", v.Norm2())
	}
	if math.Abs(v.Norm()-3) > 1e-12 {
		t.Fatalf("expected norm 3, got %f", v.Norm())
	}
}

func TestMatrixInverseRoundTrip(t *testing.T) {
	m := NewMatrixFromRows(
		NewVector(10, 0, 0),
		NewVector(0, 10, 0),
		NewVector(0, 0, 10),
	)
	inv, ok := m.Inverse()
	if !ok {
		t.Fatal("expected cubic cell to be invertible")
	}
	f := NewVector(0.5, 0.25, 0.75)
	cart := m.VecMulBasis(f)
	back := inv.MulVec(cart)
	for i, got := range []float64{back.X(), back.Y(), back.Z()} {
		want := []float64{f.X(), f.Y(), f.Z()}[i]
		if math.Abs(got-want) > 1e-9 {
			t.Fatalf("round trip mismatch at %d: got %f want %f", i, got, want)
		}
	}
}

func TestMatrixDegenerateDetection(t *testing.T) {
	zero := Matrix{}
	if !zero.IsDegenerate() {
		t.Fatal("expected zero matrix to be degenerate")
	}
	if _, ok := zero.Inverse(); ok {
		t.Fatal("expected degenerate matrix to fail inversion")
	}
}

func TestLatticePointOrdering(t *testing.T) {
	points := []LatticePoint{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {0, 0, 0}, {-1, 5, 5}}
	for i := range points {
		for j := range points {
			if i == j {
				continue
			}
			if points[i] == points[j] {
				continue
			}
			// exactly one direction should report Less
			if points[i].Less(points[j]) == points[j].Less(points[i]) {
				t.Fatalf("ordering not antisymmetric for %+v vs %+v", points[i], points[j])
			}
		}
	}
}

func TestLatticePointNegateIsInvolution(t *testing.T) {
	p := LatticePoint{A: 2, B: -3, C: 7}
	if p.Negate().Negate() != p {
		t.Fatalf("double negate should be identity, got %+v", p.Negate().Negate())
	}
}

func TestNeighborZoneSoundness(t *testing.T) {
	// Cubic 10A cell; origin atom at fractional (0.5,0.5,0.5).
	basis := NewMatrixFromRows(NewVector(10, 0, 0), NewVector(0, 10, 0), NewVector(0, 0, 10))
	inv, _ := basis.Inverse()
	f := NewVector(0.5, 0.5, 0.5)

	// Any neighbour within r=15A cartesian (1.5 cell lengths) must
	// appear among the enumerated candidate images; check by brute
	// force across a generous superset.
	r := 15.0
	candidates := NeighborZone(f, inv, r)
	present := make(map[LatticePoint]bool, len(candidates))
	for _, p := range candidates {
		present[p] = true
	}
	for a := -2; a <= 2; a++ {
		for b := -2; b <= 2; b++ {
			for c := -2; c <= 2; c++ {
				lp := LatticePoint{A: a, B: b, C: c}
				t0 := lp.Cartesian(basis)
				origin := basis.VecMulBasis(f)
				d := t0.Add(origin).Sub(origin) // translation contribution only, relative check below
				_ = d
				img := basis.VecMulBasis(f).Add(lp.Cartesian(basis))
				dist := img.Sub(basis.VecMulBasis(f)).Norm()
				if dist <= r && !present[lp] {
					t.Fatalf("missed sound neighbour %+v at distance %f", lp, dist)
				}
			}
		}
	}
}

func TestNeighborZoneZeroRadiusReturnsOrigin(t *testing.T) {
	basis := NewMatrixFromRows(NewVector(1, 0, 0), NewVector(0, 1, 0), NewVector(0, 0, 1))
	inv, _ := basis.Inverse()
	pts := NeighborZone(NewVector(0, 0, 0), inv, 0)
	if len(pts) != 1 || pts[0] != Origin {
		t.Fatalf("expected only the origin for r=0, got %+v", pts)
	}
}
