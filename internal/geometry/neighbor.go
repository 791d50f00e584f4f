package geometry

import "math"

// NeighborZone enumerates every lattice point whose cell image could
// overlap the sphere of radius r centred on a fractional coordinate f,
// given the cell's inverse basis matrix invBasis.
//
// The bound is an over-approximating box: for each axis k it bounds the
// search by |r^k| = r * ‖row_k(invBasis)‖ and iterates every integer in
// [floor(f_k - r^k), floor(f_k + r^k)]. This deliberately over-covers so
// that no legitimate neighbour can be missed while the cell is
// deforming slightly within one relaxation step; false positives are
// pruned downstream by exact distance tests.
func NeighborZone(f Vector, invBasis Matrix, r float64) []LatticePoint {
	if r <= 0 {
		return []LatticePoint{Origin}
	}

	var boundA, boundB, boundC float64
	boundA = r * invBasis.Row(0).Norm()
	boundB = r * invBasis.Row(1).Norm()
	boundC = r * invBasis.Row(2).Norm()

	aLo, aHi := int(math.Floor(f.X()-boundA)), int(math.Floor(f.X()+boundA))
	bLo, bHi := int(math.Floor(f.Y()-boundB)), int(math.Floor(f.Y()+boundB))
	cLo, cHi := int(math.Floor(f.Z()-boundC)), int(math.Floor(f.Z()+boundC))

	points := make([]LatticePoint, 0, (aHi-aLo+1)*(bHi-bLo+1)*(cHi-cLo+1))
	for a := aLo; a <= aHi; a++ {
		for b := bLo; b <= bHi; b++ {
			for c := cLo; c <= cHi; c++ {
				points = append(points, LatticePoint{A: a, B: b, C: c})
			}
		}
	}
	return points
}
