// Package geometry implements the linear-algebra kernels the rest of the
// predictor is built on: cartesian vectors, unit-cell basis matrices, and
// lattice-point translations, plus the periodic neighbour enumerator.
package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vector is a cartesian displacement or position, in atomic length units.
//
// It is a thin wrapper over gonum's r3.Vec rather than a hand-rolled
// {X,Y,Z}: the arithmetic kernels (Add, Sub, Scale, Dot) are exactly
// what r3 already provides, and every caller in this module only ever
// needs those four operations plus the norm-based helpers below.
type Vector struct {
	v r3.Vec
}

// NewVector builds a Vector from cartesian components.
func NewVector(x, y, z float64) Vector {
	return Vector{v: r3.Vec{X: x, Y: y, Z: z}}
}

// X, Y, Z return the cartesian components.
func (a Vector) X() float64 { return a.v.X }
func (a Vector) Y() float64 { return a.v.Y }
func (a Vector) Z() float64 { return a.v.Z }

// Add returns a+b.
func (a Vector) Add(b Vector) Vector { return Vector{v: r3.Add(a.v, b.v)} }

// Sub returns a-b.
func (a Vector) Sub(b Vector) Vector { return Vector{v: r3.Sub(a.v, b.v)} }

// Scale returns a scaled by s.
func (a Vector) Scale(s float64) Vector { return Vector{v: r3.Scale(s, a.v)} }

// Dot returns the dot product a·b.
func (a Vector) Dot(b Vector) float64 { return r3.Dot(a.v, b.v) }

// Norm2 returns the squared euclidean norm, ‖a‖².
//
// Distance comparisons throughout the constraint manager compare squared
// distances against squared thresholds so that no sqrt is needed on the
// hot path; Norm is only evaluated where a force
// actually needs a unit vector.
func (a Vector) Norm2() float64 { return a.Dot(a) }

// Norm returns the euclidean norm ‖a‖.
func (a Vector) Norm() float64 { return math.Sqrt(a.Norm2()) }

// Unit returns a/‖a‖. The zero vector maps to itself.
func (a Vector) Unit() Vector {
	n := a.Norm()
	if n == 0 {
		return a
	}
	return a.Scale(1 / n)
}

// Clamp returns v scaled down to have norm at most max; v is returned
// unchanged if ‖v‖ <= max: clamp(v,s) = v·(s/‖v‖) if ‖v‖>s, else v.
func (a Vector) Clamp(max float64) Vector {
	n := a.Norm()
	if n <= max || n == 0 {
		return a
	}
	return a.Scale(max / n)
}

// Zero is the additive identity.
var Zero = Vector{}
