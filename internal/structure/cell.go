// Package structure holds the mutable crystal-structure data model: the
// unit cell, atom indices, atoms with their bond relation sets, and the
// structure container that owns them.
package structure

import (
	"fmt"

	"github.com/sarat-asymmetrica/crystalforge/internal/geometry"
)

// UnitCell is the three-basis-vector matrix describing the periodic
// repeat of a structure, plus a cached inverse. The cell is mutable
// during relaxation; callers must call Invalidate after mutating Basis
// directly, or use SetBasis which does it for them.
type UnitCell struct {
	Basis geometry.Matrix

	inverse    geometry.Matrix
	inverseOK  bool
}

// NewUnitCell builds a cell from a basis matrix.
func NewUnitCell(basis geometry.Matrix) *UnitCell {
	return &UnitCell{Basis: basis}
}

// SetBasis replaces the basis matrix and invalidates the cached inverse.
func (c *UnitCell) SetBasis(basis geometry.Matrix) {
	c.Basis = basis
	c.inverseOK = false
}

// Invalidate drops the cached inverse, forcing recomputation on next
// access. Call after mutating c.Basis in place.
func (c *UnitCell) Invalidate() { c.inverseOK = false }

// Inverse returns the cached inverse basis matrix, computing and
// caching it on first use or after invalidation.
func (c *UnitCell) Inverse() (geometry.Matrix, error) {
	if c.inverseOK {
		return c.inverse, nil
	}
	if c.Basis.IsDegenerate() {
		return geometry.Matrix{}, fmt.Errorf("structure: zero-volume unit cell, cannot invert basis")
	}
	inv, ok := c.Basis.Inverse()
	if !ok {
		return geometry.Matrix{}, fmt.Errorf("structure: zero-volume unit cell, cannot invert basis")
	}
	c.inverse = inv
	c.inverseOK = true
	return inv, nil
}

// Cartesian converts a fractional coordinate into a cartesian one under
// this cell's current basis.
func (c *UnitCell) Cartesian(frac geometry.Vector) geometry.Vector {
	return c.Basis.VecMulBasis(frac)
}

// Fractional converts a cartesian coordinate into a fractional one.
func (c *UnitCell) Fractional(cart geometry.Vector) (geometry.Vector, error) {
	inv, err := c.Inverse()
	if err != nil {
		return geometry.Vector{}, err
	}
	return inv.VecMulBasis(cart), nil
}
