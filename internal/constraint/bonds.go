package constraint

import (
	"github.com/sarat-asymmetrica/crystalforge/internal/structure"
)

// CreateCovalentBond, CreateIonicBond, and CreateIonicRepulsion update
// both endpoints of the relation symmetrically: the reverse entry
// recorded on the far atom uses the negated lattice translation.
func (m *Manager) CreateCovalentBond(i structure.OriginalAtomIndex, j structure.TranslatedAtomIndex) {
	m.Structure.At(i).AddCovalentBond(j)
	m.Structure.At(j.Index).AddCovalentBond(j.Mirror(i))
}

func (m *Manager) EraseCovalentBond(i structure.OriginalAtomIndex, j structure.TranslatedAtomIndex) {
	m.Structure.At(i).RemoveCovalentBond(j)
	m.Structure.At(j.Index).RemoveCovalentBond(j.Mirror(i))
}

func (m *Manager) CreateIonicBond(i structure.OriginalAtomIndex, j structure.TranslatedAtomIndex) {
	m.Structure.At(i).AddIonicBond(j)
	m.Structure.At(j.Index).AddIonicBond(j.Mirror(i))
}

func (m *Manager) EraseIonicBond(i structure.OriginalAtomIndex, j structure.TranslatedAtomIndex) {
	m.Structure.At(i).RemoveIonicBond(j)
	m.Structure.At(j.Index).RemoveIonicBond(j.Mirror(i))
}

func (m *Manager) CreateIonicRepulsion(i structure.OriginalAtomIndex, j structure.TranslatedAtomIndex) {
	m.Structure.At(i).AddIonicRepulsion(j)
	m.Structure.At(j.Index).AddIonicRepulsion(j.Mirror(i))
}

func (m *Manager) EraseIonicRepulsion(i structure.OriginalAtomIndex, j structure.TranslatedAtomIndex) {
	m.Structure.At(i).RemoveIonicRepulsion(j)
	m.Structure.At(j.Index).RemoveIonicRepulsion(j.Mirror(i))
}

// ClearCovalentBonds, ClearIonicBonds, and ClearIonicRepulsions drop the
// named relation across every atom in the structure.
func (m *Manager) ClearCovalentBonds() {
	for _, atom := range m.Structure.Atoms {
		for _, t := range atom.CovalentBonds() {
			atom.RemoveCovalentBond(t)
		}
	}
}

func (m *Manager) ClearIonicBonds() {
	for _, atom := range m.Structure.Atoms {
		for _, t := range atom.IonicBonds() {
			atom.RemoveIonicBond(t)
		}
	}
}

func (m *Manager) ClearIonicRepulsions() {
	for _, atom := range m.Structure.Atoms {
		for _, t := range atom.IonicRepulsions() {
			atom.RemoveIonicRepulsion(t)
		}
	}
}
