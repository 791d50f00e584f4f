package structure

import (
	"math"

	"github.com/sarat-asymmetrica/crystalforge/internal/geometry"
)

// Structure owns a unit cell and its per-cell atom list exclusively; no
// structure shares atoms with another.
type Structure struct {
	Cell  *UnitCell
	Atoms []*Atom
}

// New builds a structure from a cell and an atom list.
func New(cell *UnitCell, atoms []*Atom) *Structure {
	return &Structure{Cell: cell, Atoms: atoms}
}

// Len returns the number of atoms in the original cell.
func (s *Structure) Len() int { return len(s.Atoms) }

// At returns the atom at the given original index.
func (s *Structure) At(i OriginalAtomIndex) *Atom { return s.Atoms[i] }

// Displacement returns the cartesian vector from atom i to the image of
// atom j at lattice point L: d = x_j + T(L) - x_i.
func (s *Structure) Displacement(i OriginalAtomIndex, t TranslatedAtomIndex) geometry.Vector {
	xi := s.Atoms[i].Position
	xj := s.Atoms[t.Index].Position
	translation := t.Lattice.Cartesian(s.Cell.Basis)
	return xj.Add(translation).Sub(xi)
}

// NormalizeFractionalCoordinates projects every atom's fractional
// coordinate back into [0,1) and invalidates all constraint state:
// every atom's relation sets are cleared. Callers (the
// constraint manager) are responsible for clearing their own tracing
// and constraining lists alongside this call.
func (s *Structure) NormalizeFractionalCoordinates() error {
	inv, err := s.Cell.Inverse()
	if err != nil {
		return err
	}
	for _, atom := range s.Atoms {
		frac, err := s.Cell.Fractional(atom.Position)
		if err != nil {
			return err
		}
		wrapped := geometry.NewVector(wrapUnit(frac.X()), wrapUnit(frac.Y()), wrapUnit(frac.Z()))
		atom.Position = s.Cell.Basis.VecMulBasis(wrapped)
		atom.ClearRelations()
	}
	_ = inv
	return nil
}

// NormalizeAverageFractionalCoordinates re-centres the structure so
// that the mean fractional coordinate of all atoms sits at the origin,
// then normalizes as above. This is the source's
// normalizeAverageFractionalCoordinates override, used when a whole
// structure has drifted during cell relaxation rather than individual
// atoms wrapping across a boundary.
func (s *Structure) NormalizeAverageFractionalCoordinates() error {
	if len(s.Atoms) == 0 {
		return s.NormalizeFractionalCoordinates()
	}
	inv, err := s.Cell.Inverse()
	if err != nil {
		return err
	}
	mean := geometry.Zero
	for _, atom := range s.Atoms {
		f := inv.VecMulBasis(atom.Position)
		mean = mean.Add(f)
	}
	mean = mean.Scale(1 / float64(len(s.Atoms)))
	shift := geometry.NewVector(math.Floor(mean.X()), math.Floor(mean.Y()), math.Floor(mean.Z()))
	for _, atom := range s.Atoms {
		f := inv.VecMulBasis(atom.Position)
		f = f.Sub(shift)
		atom.Position = s.Cell.Basis.VecMulBasis(f)
	}
	return s.NormalizeFractionalCoordinates()
}

// wrapUnit maps a fractional coordinate into [0,1).
func wrapUnit(f float64) float64 {
	w := math.Mod(f, 1)
	if w < 0 {
		w += 1
	}
	return w
}
