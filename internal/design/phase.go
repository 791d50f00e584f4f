// Package design implements CrystalDesigner: the phase/restart policy
// that drives MoleculeOptimizer through global, local, and precise
// passes over a candidate structure until it is feasible, infeasible,
// or exceptional.
package design

import (
	"fmt"

	"github.com/sarat-asymmetrica/crystalforge/internal/relax"
)

// Phase names one of the designer's three optimization passes and
// carries its own relaxation parameters plus how many times its bond
// graph may be re-derived within a single invocation (the inner
// restart budget).
type Phase struct {
	Name               string
	RelaxParams        relax.Params
	InnerRestartBudget int
}

// Validate checks the phase's relax parameters and its restart budget.
func (p Phase) Validate() error {
	if err := p.RelaxParams.Validate(); err != nil {
		return fmt.Errorf("design: phase %q: %w", p.Name, err)
	}
	if p.InnerRestartBudget <= 0 {
		return fmt.Errorf("design: phase %q: inner restart budget must be > 0, got %d", p.Name, p.InnerRestartBudget)
	}
	return nil
}

// Parameters holds the three named phases plus the top-level restart
// policy and the attempt-scoped timeout budgets.
type Parameters struct {
	Global  Phase
	Local   Phase
	Precise Phase

	// MaxTotalOptimizing bounds how many times the three-phase sequence
	// may run before the attempt is declared infeasible.
	MaxTotalOptimizing int
	// MaxCeaselessGlobal bounds how many consecutive global phases may
	// pass without any change in the bonded pair count before the
	// attempt gives up early.
	MaxCeaselessGlobal int
	// TracerRebuildLimit bounds how many tracing-pair rebuilds may occur
	// over the whole attempt.
	TracerRebuildLimit int
	// CellReductionLimit bounds how many fractional-coordinate
	// normalizations may occur over the whole attempt.
	CellReductionLimit int
}

// Validate checks every phase and the restart/timeout budgets.
func (p Parameters) Validate() error {
	for _, phase := range []Phase{p.Global, p.Local, p.Precise} {
		if err := phase.Validate(); err != nil {
			return err
		}
	}
	if p.MaxTotalOptimizing <= 0 {
		return fmt.Errorf("design: max total optimizing must be > 0, got %d", p.MaxTotalOptimizing)
	}
	if p.MaxCeaselessGlobal <= 0 {
		return fmt.Errorf("design: max ceaseless global must be > 0, got %d", p.MaxCeaselessGlobal)
	}
	if p.TracerRebuildLimit <= 0 {
		return fmt.Errorf("design: tracer rebuild limit must be > 0, got %d", p.TracerRebuildLimit)
	}
	if p.CellReductionLimit <= 0 {
		return fmt.Errorf("design: cell reduction limit must be > 0, got %d", p.CellReductionLimit)
	}
	return nil
}
