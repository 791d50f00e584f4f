package design

import (
	"errors"
	"fmt"

	"github.com/sarat-asymmetrica/crystalforge/internal/constraint"
	"github.com/sarat-asymmetrica/crystalforge/internal/dictionary"
	"github.com/sarat-asymmetrica/crystalforge/internal/polyhedra"
	"github.com/sarat-asymmetrica/crystalforge/internal/relax"
	"github.com/sarat-asymmetrica/crystalforge/internal/structure"
	"github.com/sarat-asymmetrica/crystalforge/internal/xerrors"
)

// Status tags the final disposition of one design attempt.
type Status int

const (
	Feasible Status = iota
	Infeasible
	Exceptional
)

func (s Status) String() string {
	switch s {
	case Feasible:
		return "feasible"
	case Infeasible:
		return "infeasible"
	case Exceptional:
		return "exceptional"
	default:
		return "unknown"
	}
}

// Outcome is the result CrystalDesigner.Execute returns: the tagged
// status, whatever structure resulted (even when infeasible or
// exceptional, per the attempt-scoped error-handling taxonomy), and an
// optimality score when one could be computed.
type Outcome struct {
	Status          Status
	Manager         *constraint.Manager
	OptimalityScore *float64
	Err             error
}

// Designer is CrystalDesigner: it owns a constraint manager and the
// linkage dictionary consulted during bond-graph derivation, and runs the phase/restart policy described by Parameters.
type Designer struct {
	Manager    *constraint.Manager
	Linkage    *dictionary.LinkageDictionary
	Parameters Parameters

	tracerRebuilds int
	cellReductions int
}

// New validates parameters and returns a Designer over the given
// manager. Linkage may be nil, meaning no linkage restriction.
func New(m *constraint.Manager, linkage *dictionary.LinkageDictionary, params Parameters) (*Designer, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Designer{Manager: m, Linkage: linkage, Parameters: params}, nil
}

// Execute runs the global restart loop: up to MaxTotalOptimizing
// iterations of the three phases, stopping early after
// MaxCeaselessGlobal consecutive global phases produce no bond-count
// change, returning as soon as any phase leaves the structure feasible.
func (d *Designer) Execute() Outcome {
	ceaselessGlobal := 0
	lastBondCount := -1

	for iteration := 0; iteration < d.Parameters.MaxTotalOptimizing; iteration++ {
		feasible, err := d.runPhase(d.Parameters.Global)
		if err != nil {
			return d.exceptional(err)
		}
		if feasible {
			return d.feasibleOutcome()
		}

		bondCount := d.totalBondCount()
		if bondCount == lastBondCount {
			ceaselessGlobal++
		} else {
			ceaselessGlobal = 0
		}
		lastBondCount = bondCount
		if ceaselessGlobal >= d.Parameters.MaxCeaselessGlobal {
			break
		}

		feasible, err = d.runPhase(d.Parameters.Local)
		if err != nil {
			return d.exceptional(err)
		}
		if feasible {
			return d.feasibleOutcome()
		}

		feasible, err = d.runPhase(d.Parameters.Precise)
		if err != nil {
			return d.exceptional(err)
		}
		if feasible {
			return d.feasibleOutcome()
		}
	}

	return Outcome{Status: Infeasible, Manager: d.Manager}
}

// runPhase implements one phase invocation: set the phase's error
// rate, normalize and rebuild tracing once, then re-derive the bond
// graph and run the optimizer up to InnerRestartBudget times until
// feasible. The cell-reduction and tracer rebuilds each draw down their
// own whole-attempt budget; exhausting either surfaces as a timeout.
func (d *Designer) runPhase(phase Phase) (bool, error) {
	if err := d.Manager.SetFeasibleErrorRate(phase.RelaxParams.FeasibleErrorRate); err != nil {
		return false, fmt.Errorf("%w: %v", xerrors.ErrConfiguration, err)
	}
	if d.tracerRebuilds >= d.Parameters.TracerRebuildLimit {
		return false, fmt.Errorf("design: phase %q: %w", phase.Name, xerrors.ErrTimeout)
	}
	if d.cellReductions >= d.Parameters.CellReductionLimit {
		return false, fmt.Errorf("design: phase %q: %w", phase.Name, xerrors.ErrTimeout)
	}
	if err := d.Manager.NormalizeAverageFractionalCoordinates(); err != nil {
		return false, fmt.Errorf("design: phase %q cell reduction: %w", phase.Name, err)
	}
	d.cellReductions++
	if err := d.Manager.UpdateTracingPairs(); err != nil {
		return false, fmt.Errorf("design: phase %q tracing rebuild: %w", phase.Name, err)
	}
	d.tracerRebuilds++

	for inner := 0; inner < phase.InnerRestartBudget; inner++ {
		d.Manager.UpdateConstrainingPairs()
		objective := deriveBondGraph(d.Manager, d.Linkage)

		optimizer, err := relax.New(objective, phase.RelaxParams)
		if err != nil {
			return false, fmt.Errorf("%w: %v", xerrors.ErrConfiguration, err)
		}
		if err := optimizer.Run(); err != nil {
			return false, fmt.Errorf("design: phase %q: %w", phase.Name, errors.Join(xerrors.ErrDegenerateCell, err))
		}

		polyhedra.EraseInfeasibleChemicalBonds(d.Manager)
		if isFeasible(d.Manager) {
			return true, nil
		}
	}
	return false, nil
}

func (d *Designer) totalBondCount() int {
	n := d.Manager.Structure.Len()
	count := 0
	for i := 0; i < n; i++ {
		atom := d.Manager.Structure.At(structure.OriginalAtomIndex(i))
		count += atom.CovalentBondCount() + atom.IonicBondCount()
	}
	return count
}

func (d *Designer) feasibleOutcome() Outcome {
	score := OptimalityScore(d.Manager)
	return Outcome{Status: Feasible, Manager: d.Manager, OptimalityScore: &score}
}

func (d *Designer) exceptional(err error) Outcome {
	return Outcome{Status: Exceptional, Manager: d.Manager, Err: err}
}
