package structure

import (
	"github.com/sarat-asymmetrica/crystalforge/internal/geometry"
	"github.com/sarat-asymmetrica/crystalforge/internal/species"
)

// OriginalAtomIndex indexes into a structure's per-cell atom list.
type OriginalAtomIndex int

// TranslatedAtomIndex names an atom in a specific cell image:
// (Index,(0,0,0)) denotes the original atom; any other lattice point
// denotes a periodic image of it.
//
// The design notes collapse the source's separate in-cell/across-cell
// hash sets into this single adjacency key, with Lattice==geometry.Origin
// standing in for "in-cell". A relation set is therefore one
// map[TranslatedAtomIndex]struct{} rather than two parallel sets.
type TranslatedAtomIndex struct {
	Index   OriginalAtomIndex
	Lattice geometry.LatticePoint
}

// InCell reports whether this reference is to the original cell.
func (t TranslatedAtomIndex) InCell() bool { return t.Lattice.IsOrigin() }

// Mirror returns the reciprocal reference as seen from the far endpoint:
// (j,L) as seen from i becomes (i,-L) as seen from j.
func (t TranslatedAtomIndex) Mirror(from OriginalAtomIndex) TranslatedAtomIndex {
	return TranslatedAtomIndex{Index: from, Lattice: t.Lattice.Negate()}
}

// relationSet is an unordered set of translated-atom references.
type relationSet map[TranslatedAtomIndex]struct{}

func newRelationSet() relationSet { return make(relationSet) }

func (s relationSet) add(t TranslatedAtomIndex)    { s[t] = struct{}{} }
func (s relationSet) remove(t TranslatedAtomIndex)  { delete(s, t) }
func (s relationSet) has(t TranslatedAtomIndex) bool { _, ok := s[t]; return ok }
func (s relationSet) clear() {
	for k := range s {
		delete(s, k)
	}
}

// Slice returns the set's members in no particular order.
func (s relationSet) Slice() []TranslatedAtomIndex {
	out := make([]TranslatedAtomIndex, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	return out
}

// Atom is one periodic site: species identity, cartesian position,
// radii (inherited from its species), coordination constraints, and
// three bond relation sets (covalent, ionic, ionic-repulsion), each
// spanning both in-cell (Lattice==Origin) and across-cell entries.
type Atom struct {
	Species  species.Species
	Position geometry.Vector

	covalent   relationSet
	ionic      relationSet
	repulsion  relationSet
}

// NewAtom constructs an atom at the given position for the given
// species, with empty relation sets.
func NewAtom(sp species.Species, position geometry.Vector) *Atom {
	return &Atom{
		Species:   sp,
		Position:  position,
		covalent:  newRelationSet(),
		ionic:     newRelationSet(),
		repulsion: newRelationSet(),
	}
}

// CovalentBonds, IonicBonds, and IonicRepulsions return the bonded-peer
// references currently held by this atom.
func (a *Atom) CovalentBonds() []TranslatedAtomIndex  { return a.covalent.Slice() }
func (a *Atom) IonicBonds() []TranslatedAtomIndex     { return a.ionic.Slice() }
func (a *Atom) IonicRepulsions() []TranslatedAtomIndex { return a.repulsion.Slice() }

// HasCovalentBond, HasIonicBond, and HasIonicRepulsion test membership.
func (a *Atom) HasCovalentBond(t TranslatedAtomIndex) bool   { return a.covalent.has(t) }
func (a *Atom) HasIonicBond(t TranslatedAtomIndex) bool      { return a.ionic.has(t) }
func (a *Atom) HasIonicRepulsion(t TranslatedAtomIndex) bool { return a.repulsion.has(t) }

// AddCovalentBond, RemoveCovalentBond, AddIonicBond, RemoveIonicBond,
// AddIonicRepulsion, and RemoveIonicRepulsion are one-sided mutators.
// They exist only for constraint.Manager's symmetric create/erase pair
// to call on both endpoints at once — no other caller should invoke
// them directly, or the mirror-symmetry invariant (a bond on i implies
// the reverse bond on j) can be broken.
func (a *Atom) AddCovalentBond(t TranslatedAtomIndex)      { a.covalent.add(t) }
func (a *Atom) RemoveCovalentBond(t TranslatedAtomIndex)   { a.covalent.remove(t) }
func (a *Atom) AddIonicBond(t TranslatedAtomIndex)         { a.ionic.add(t) }
func (a *Atom) RemoveIonicBond(t TranslatedAtomIndex)      { a.ionic.remove(t) }
func (a *Atom) AddIonicRepulsion(t TranslatedAtomIndex)    { a.repulsion.add(t) }
func (a *Atom) RemoveIonicRepulsion(t TranslatedAtomIndex) { a.repulsion.remove(t) }

// ClearRelations empties all three relation sets. Used by
// normalizeFractionalCoordinates, which invalidates all constraint
// state.
func (a *Atom) ClearRelations() {
	a.covalent.clear()
	a.ionic.clear()
	a.repulsion.clear()
}

// CovalentBondCount, IonicBondCount return the current coordination
// numbers used by innate-bondability and feasibility checks.
func (a *Atom) CovalentBondCount() int { return len(a.covalent) }
func (a *Atom) IonicBondCount() int    { return len(a.ionic) }
