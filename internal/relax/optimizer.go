package relax

import (
	"fmt"
	"math"

	"github.com/sarat-asymmetrica/crystalforge/internal/geometry"
)

// Params holds one phase's force-model and schedule constants. These
// are the values a StructuralOptimizationParameters record carries per
// phase (global/local/precise).
type Params struct {
	// AttractiveForceConstant is k_att > 0.
	AttractiveForceConstant float64
	// RepulsiveForceConstant is k_rep < 0.
	RepulsiveForceConstant float64
	// IterationCount is N, the phase's iteration cap.
	IterationCount int
	// InitialMaxAtomicDisplacement is δ_initial.
	InitialMaxAtomicDisplacement float64
	// FinalMaxAtomicDisplacement is δ_final.
	FinalMaxAtomicDisplacement float64
	// MaxUnitCellDisplacementFactor is f_cell; δ_max^cell is always
	// derived on demand as δ_max^atom * f_cell,
	// never cached or set directly.
	MaxUnitCellDisplacementFactor float64
	// Pressure is the hydrostatic driving pressure P.
	Pressure float64
	// FeasibleErrorRate is ε, used by the bond/exclusion bound
	// formulas during force accumulation.
	FeasibleErrorRate float64
	// ExclusiveRadiusRatio is ρ_ex, used by the exclusion bound
	// formulas. Mirrors constraint.Policy.ExclusiveRadiusRatio; relax
	// does not import the constraint package, so design passes the
	// scalar through.
	ExclusiveRadiusRatio float64
}

// Validate rejects negative pressure, a non-positive displacement
// decrease, k_att<=0, and k_rep>=0.
func (p Params) Validate() error {
	if p.Pressure < 0 {
		return fmt.Errorf("relax: pressure must be >= 0, got %f", p.Pressure)
	}
	if p.AttractiveForceConstant <= 0 {
		return fmt.Errorf("relax: attractive force constant must be > 0, got %f", p.AttractiveForceConstant)
	}
	if p.RepulsiveForceConstant >= 0 {
		return fmt.Errorf("relax: repulsive force constant must be < 0, got %f", p.RepulsiveForceConstant)
	}
	if p.IterationCount <= 0 {
		return fmt.Errorf("relax: iteration count must be > 0, got %d", p.IterationCount)
	}
	if p.InitialMaxAtomicDisplacement <= 0 {
		return fmt.Errorf("relax: initial max atomic displacement must be > 0, got %f", p.InitialMaxAtomicDisplacement)
	}
	if p.FinalMaxAtomicDisplacement <= 0 || p.FinalMaxAtomicDisplacement > p.InitialMaxAtomicDisplacement {
		return fmt.Errorf("relax: final max atomic displacement must be in (0, initial], got %f", p.FinalMaxAtomicDisplacement)
	}
	if p.MaxUnitCellDisplacementFactor <= 0 {
		return fmt.Errorf("relax: unit cell displacement factor must be > 0, got %f", p.MaxUnitCellDisplacementFactor)
	}
	if p.ExclusiveRadiusRatio < 1 {
		return fmt.Errorf("relax: exclusive radius ratio must be >= 1, got %f", p.ExclusiveRadiusRatio)
	}
	return nil
}

// Optimizer is the per-run force relaxer. One Optimizer is built
// fresh for each phase invocation against a frozen ObjectiveStructure.
type Optimizer struct {
	objective *ObjectiveStructure
	params    Params

	maxAtomicDisplacement float64
	decayFactor           float64
	forces                []geometry.Vector
}

// New builds an Optimizer over the given objective structure and phase
// parameters, computing the decay factor γ = (δ_final/δ_initial)^(1/N)
// so that after N iterations the step size reaches δ_final.
func New(objective *ObjectiveStructure, params Params) (*Optimizer, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	gamma := math.Pow(params.FinalMaxAtomicDisplacement/params.InitialMaxAtomicDisplacement, 1/float64(params.IterationCount))
	return &Optimizer{
		objective:             objective,
		params:                params,
		maxAtomicDisplacement: params.InitialMaxAtomicDisplacement,
		decayFactor:           gamma,
		forces:                make([]geometry.Vector, objective.Structure.Len()),
	}, nil
}

// MaxAtomicDisplacement returns the current (possibly decayed) δ_max^atom.
func (o *Optimizer) MaxAtomicDisplacement() float64 { return o.maxAtomicDisplacement }

// MaxUnitCellDisplacement derives δ_max^cell = δ_max^atom * f_cell on
// demand, so it always reflects the current decayed step size rather
// than a value cached from an earlier point in the schedule.
func (o *Optimizer) MaxUnitCellDisplacement() float64 {
	return o.maxAtomicDisplacement * o.params.MaxUnitCellDisplacementFactor
}

// Run executes the optimizer's full iteration schedule: loop until the
// iteration count reaches N, with no convergence check beyond that.
func (o *Optimizer) Run() error {
	for step := 0; step < o.params.IterationCount; step++ {
		if err := o.step(); err != nil {
			return err
		}
	}
	return nil
}

// step performs one force-accumulation + displacement sweep.
func (o *Optimizer) step() error {
	s := o.objective.Structure
	for i := range o.forces {
		o.forces[i] = geometry.Zero
	}
	virial := geometry.Matrix{}

	eps := o.params.FeasibleErrorRate
	rhoEx := o.params.ExclusiveRadiusRatio
	kRep, kAtt := o.params.RepulsiveForceConstant, o.params.AttractiveForceConstant

	for _, pr := range o.objective.CovalentBonded {
		lower, upper := CovalentBondBounds(s, pr.I, pr.J, eps)
		o.applyBondedForce(pr, lower, upper, kRep, kAtt, &virial)
	}
	for _, pr := range o.objective.IonicBonded {
		lower, upper := IonicBondBounds(s, pr.I, pr.J, eps)
		o.applyBondedForce(pr, lower, upper, kRep, kAtt, &virial)
	}
	for _, pr := range o.objective.CovalentExcluded {
		lower := CovalentExclusionBound(s, pr.I, pr.J, eps, rhoEx)
		o.applyThresholdForce(pr, lower, kRep, &virial)
	}
	for _, pr := range o.objective.IonicExcluded {
		lower := IonicExclusionBound(s, pr.I, pr.J, eps, rhoEx)
		o.applyThresholdForce(pr, lower, kRep, &virial)
	}
	for _, pr := range o.objective.IonicRepulsed {
		lower := IonicRepulsionBound(s, pr.I, pr.J, eps)
		o.applyThresholdForce(pr, lower, kRep, &virial)
	}

	o.displaceAtoms()
	if err := o.displaceCell(virial); err != nil {
		return err
	}

	o.maxAtomicDisplacement *= o.decayFactor
	return nil
}

// applyBondedForce implements the bonded branch of the force rule:
// too-short draws a repulsive force, too-long draws an attractive
// force, and accumulates the pair's virial contribution.
func (o *Optimizer) applyBondedForce(pr PairRef, lower, upper, kRep, kAtt float64, virial *geometry.Matrix) {
	s := o.objective.Structure
	d := s.Displacement(pr.I, pr.J)
	d2 := d.Norm2()

	var force geometry.Vector
	switch {
	case d2 < lower*lower:
		force = d.Unit().Scale(kRep)
	case d2 > upper*upper:
		force = d.Unit().Scale(kAtt)
	default:
		return
	}
	o.forces[pr.I] = o.forces[pr.I].Add(force)
	o.forces[pr.J.Index] = o.forces[pr.J.Index].Sub(force)
	*virial = virial.Add(geometry.OuterProduct(force, d))
}

// applyThresholdForce implements the excluded/repulsed branch: only a
// repulsive force below the threshold, no force otherwise.
func (o *Optimizer) applyThresholdForce(pr PairRef, lower, kRep float64, virial *geometry.Matrix) {
	s := o.objective.Structure
	d := s.Displacement(pr.I, pr.J)
	d2 := d.Norm2()
	if d2 >= lower*lower {
		return
	}
	force := d.Unit().Scale(kRep)
	o.forces[pr.I] = o.forces[pr.I].Add(force)
	o.forces[pr.J.Index] = o.forces[pr.J.Index].Sub(force)
	*virial = virial.Add(geometry.OuterProduct(force, d))
}

// displaceAtoms applies Δx_i = clamp(F_i, δ_max^atom) to every atom.
func (o *Optimizer) displaceAtoms() {
	s := o.objective.Structure
	maxStep := o.maxAtomicDisplacement
	for i, atom := range s.Atoms {
		dx := o.forces[i].Clamp(maxStep)
		atom.Position = atom.Position.Add(dx)
	}
}

// displaceCell computes and applies the cell displacement ΔB, combining
// a hydrostatic pressure term with the accumulated virial:
//
//	ΔB = clamp_components(P·B·δ_max^atom + c_virial·virial, δ_max^cell)
//
// The hydrostatic term scales the current basis by the configured
// pressure and the same decaying step size the atoms use, so that cell
// relaxation slows down in lockstep with atomic relaxation; the virial
// term is the accumulated Σ(force⊗displacement) from the pair forces
// just applied, scaled by a small fixed coefficient to keep it
// comparable in magnitude to the hydrostatic term. Both live in this
// one named function per the design note.
func (o *Optimizer) displaceCell(virial geometry.Matrix) error {
	s := o.objective.Structure
	const virialCoefficient = 1e-3

	hydrostatic := s.Cell.Basis.Scale(o.params.Pressure * o.maxAtomicDisplacement)
	scaledVirial := virial.Scale(virialCoefficient)
	delta := hydrostatic.Add(scaledVirial).ClampComponents(o.MaxUnitCellDisplacement())

	newBasis := s.Cell.Basis.Add(delta)
	if newBasis.IsDegenerate() {
		return fmt.Errorf("relax: cell displacement produced a degenerate unit cell")
	}
	s.Cell.SetBasis(newBasis)
	return nil
}
