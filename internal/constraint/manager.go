package constraint

import (
	"github.com/sarat-asymmetrica/crystalforge/internal/structure"
)

// Manager is the constraint graph owner: the structure, the scalar
// policy, and the tracing/constraining pair lists.
//
// The source's deep inheritance chain (ConstraintManager <-
// PolyhedraRetriever <- LinkedPolyhedraRetriever <- Designer) collapses
// here to composition: Manager exposes the predicates and mutators that
// higher-level packages (polyhedra, relax, design) operate on through
// free functions taking *Manager, rather than subclassing it.
type Manager struct {
	Structure *structure.Structure
	Policy    Policy

	tracing      []Pair
	constraining []Pair
}

// New constructs a Manager over an existing structure with the given
// policy. The tracing and constraining lists start empty; call
// UpdateTracingPairs to populate them.
func New(s *structure.Structure, policy Policy) (*Manager, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return &Manager{Structure: s, Policy: policy}, nil
}

// FeasibleErrorRate, ExclusiveRadiusRatio, TracerCutoffRatio, and
// ConstrainerCutoffRatio expose the current policy scalars.
func (m *Manager) FeasibleErrorRate() float64      { return m.Policy.FeasibleErrorRate }
func (m *Manager) ExclusiveRadiusRatio() float64    { return m.Policy.ExclusiveRadiusRatio }
func (m *Manager) TracerCutoffRatio() float64       { return m.Policy.TracerCutoffRatio }
func (m *Manager) ConstrainerCutoffRatio() float64  { return m.Policy.ConstrainerCutoffRatio }

// SetFeasibleErrorRate, SetExclusiveRadiusRatio,
// SetTracerCutoffRatio, and SetConstrainerCutoffRatio update policy
// scalars, validating the new value first.
func (m *Manager) SetFeasibleErrorRate(v float64) error {
	p := m.Policy
	p.FeasibleErrorRate = v
	if err := p.Validate(); err != nil {
		return err
	}
	m.Policy = p
	return nil
}

func (m *Manager) SetExclusiveRadiusRatio(v float64) error {
	p := m.Policy
	p.ExclusiveRadiusRatio = v
	if err := p.Validate(); err != nil {
		return err
	}
	m.Policy = p
	return nil
}

func (m *Manager) SetTracerCutoffRatio(v float64) error {
	p := m.Policy
	p.TracerCutoffRatio = v
	if err := p.Validate(); err != nil {
		return err
	}
	m.Policy = p
	return nil
}

func (m *Manager) SetConstrainerCutoffRatio(v float64) error {
	p := m.Policy
	p.ConstrainerCutoffRatio = v
	if err := p.Validate(); err != nil {
		return err
	}
	m.Policy = p
	return nil
}

// Tracing returns the current tracing pair list.
func (m *Manager) Tracing() []Pair { return m.tracing }

// Constraining returns the current constraining pair list.
func (m *Manager) Constraining() []Pair { return m.constraining }

// ClearInteratomicDistanceConstraints empties both the tracing and
// constraining lists without touching atom relation sets.
func (m *Manager) ClearInteratomicDistanceConstraints() {
	m.tracing = nil
	m.constraining = nil
}
