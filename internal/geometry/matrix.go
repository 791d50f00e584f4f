package geometry

import "math"

// Matrix is a 3x3 matrix of basis vectors stored row-major: Rows[0] is
// b1, Rows[1] is b2, Rows[2] is b3. A UnitCell's basis-vector matrix and
// its cached inverse are both represented with this type.
type Matrix struct {
	Rows [3]Vector
}

// NewMatrixFromRows builds a Matrix from three row vectors.
func NewMatrixFromRows(r0, r1, r2 Vector) Matrix {
	return Matrix{Rows: [3]Vector{r0, r1, r2}}
}

// Row returns the k-th row (0,1,2).
func (m Matrix) Row(k int) Vector { return m.Rows[k] }

// MulVec returns m*v treating v as a column vector and m's rows as the
// matrix's rows: (m*v)_i = row_i(m) . v. Fractional/cartesian
// conversion uses VecMulBasis instead, since a fractional coordinate is
// a row vector against the basis rows.
func (m Matrix) MulVec(v Vector) Vector {
	return NewVector(m.Rows[0].Dot(v), m.Rows[1].Dot(v), m.Rows[2].Dot(v))
}

// VecMulBasis treats f as a fractional row-vector and returns
// f1*b1 + f2*b2 + f3*b3, i.e. the cartesian coordinate that the
// fractional coordinate f maps to under basis m.
func (m Matrix) VecMulBasis(f Vector) Vector {
	return m.Rows[0].Scale(f.X()).Add(m.Rows[1].Scale(f.Y())).Add(m.Rows[2].Scale(f.Z()))
}

// Determinant returns det(m) via the standard cofactor expansion.
func (m Matrix) Determinant() float64 {
	a, b, c := m.Rows[0].X(), m.Rows[0].Y(), m.Rows[0].Z()
	d, e, f := m.Rows[1].X(), m.Rows[1].Y(), m.Rows[1].Z()
	g, h, i := m.Rows[2].X(), m.Rows[2].Y(), m.Rows[2].Z()
	return a*(e*i-f*h) - b*(d*i-f*g) + c*(d*h-e*g)
}

// IsDegenerate reports whether m's determinant is too close to zero to
// invert safely — a zero-volume cell.
func (m Matrix) IsDegenerate() bool {
	return math.Abs(m.Determinant()) < 1e-12
}

// Inverse returns the analytic inverse of m (adjugate / determinant).
// The second return value is false if m is degenerate, so callers can
// detect a zero-volume cell before relying on the inverse.
func (m Matrix) Inverse() (Matrix, bool) {
	det := m.Determinant()
	if math.Abs(det) < 1e-12 {
		return Matrix{}, false
	}
	a, b, c := m.Rows[0].X(), m.Rows[0].Y(), m.Rows[0].Z()
	d, e, f := m.Rows[1].X(), m.Rows[1].Y(), m.Rows[1].Z()
	g, h, i := m.Rows[2].X(), m.Rows[2].Y(), m.Rows[2].Z()

	invDet := 1 / det
	cof := [3][3]float64{
		{(e*i - f*h) * invDet, (c*h - b*i) * invDet, (b*f - c*e) * invDet},
		{(f*g - d*i) * invDet, (a*i - c*g) * invDet, (c*d - a*f) * invDet},
		{(d*h - e*g) * invDet, (b*g - a*h) * invDet, (a*e - b*d) * invDet},
	}
	return Matrix{Rows: [3]Vector{
		NewVector(cof[0][0], cof[0][1], cof[0][2]),
		NewVector(cof[1][0], cof[1][1], cof[1][2]),
		NewVector(cof[2][0], cof[2][1], cof[2][2]),
	}}, true
}

// OuterProduct returns the 3x3 tensor f⊗d, i.e. the matrix whose (a,b)
// entry is f_a * d_b. Used to accumulate the virial contribution of a
// pairwise force against its displacement vector.
func OuterProduct(f, d Vector) Matrix {
	return Matrix{Rows: [3]Vector{
		d.Scale(f.X()),
		d.Scale(f.Y()),
		d.Scale(f.Z()),
	}}
}

// ClampComponents returns m with every one of its nine scalar entries
// clamped to [-max,max], independently per component (as opposed to
// Vector.Clamp's whole-vector norm clamp). Used for the cell
// displacement clamp.
func (m Matrix) ClampComponents(max float64) Matrix {
	clampScalar := func(v float64) float64 {
		if v > max {
			return max
		}
		if v < -max {
			return -max
		}
		return v
	}
	var out Matrix
	for r := 0; r < 3; r++ {
		out.Rows[r] = NewVector(clampScalar(m.Rows[r].X()), clampScalar(m.Rows[r].Y()), clampScalar(m.Rows[r].Z()))
	}
	return out
}

// Scale returns m with every entry multiplied by s.
func (m Matrix) Scale(s float64) Matrix {
	return Matrix{Rows: [3]Vector{m.Rows[0].Scale(s), m.Rows[1].Scale(s), m.Rows[2].Scale(s)}}
}

// Add returns the element-wise sum of m and n.
func (m Matrix) Add(n Matrix) Matrix {
	return Matrix{Rows: [3]Vector{
		m.Rows[0].Add(n.Rows[0]),
		m.Rows[1].Add(n.Rows[1]),
		m.Rows[2].Add(n.Rows[2]),
	}}
}
