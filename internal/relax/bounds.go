package relax

import "github.com/sarat-asymmetrica/crystalforge/internal/structure"

// CovalentBondBounds and IonicBondBounds return the [lower,upper]
// feasibility interval for a bonded pair, at the given ε. Exported so
// internal/design can reuse the same bound formulas when scoring how
// close a feasible structure sits to each bound's midpoint.
func CovalentBondBounds(s *structure.Structure, i structure.OriginalAtomIndex, j structure.TranslatedAtomIndex, eps float64) (lower, upper float64) {
	ri := s.At(i).Species.Covalent
	rj := s.At(j.Index).Species.Covalent
	return (1 - eps) * (ri.Min + rj.Min), (1 + eps) * (ri.Max + rj.Max)
}

func IonicBondBounds(s *structure.Structure, i structure.OriginalAtomIndex, j structure.TranslatedAtomIndex, eps float64) (lower, upper float64) {
	ri := s.At(i).Species.Ionic
	rj := s.At(j.Index).Species.Ionic
	return (1 - eps) * (ri.Min + rj.Min), (1 + eps) * (ri.Max + rj.Max)
}

// CovalentExclusionBound, IonicExclusionBound, and IonicRepulsionBound
// return the single lower threshold used by the excluded/repulsed force
// branch.
func CovalentExclusionBound(s *structure.Structure, i structure.OriginalAtomIndex, j structure.TranslatedAtomIndex, eps, rhoEx float64) float64 {
	ri := s.At(i).Species.Covalent
	rj := s.At(j.Index).Species.Covalent
	return (1 - eps) * rhoEx * (ri.Max + rj.Max)
}

func IonicExclusionBound(s *structure.Structure, i structure.OriginalAtomIndex, j structure.TranslatedAtomIndex, eps, rhoEx float64) float64 {
	ri := s.At(i).Species.Ionic
	rj := s.At(j.Index).Species.Ionic
	return (1 - eps) * rhoEx * (ri.Max + rj.Max)
}

func IonicRepulsionBound(s *structure.Structure, i structure.OriginalAtomIndex, j structure.TranslatedAtomIndex, eps float64) float64 {
	ri := s.At(i).Species.Repulsion
	rj := s.At(j.Index).Species.Repulsion
	return (1 - eps) * (ri.Min + rj.Min)
}
