package config

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/sarat-asymmetrica/crystalforge/internal/dictionary"
	"github.com/sarat-asymmetrica/crystalforge/internal/species"
	"github.com/sarat-asymmetrica/crystalforge/internal/xerrors"
)

const sampleDocument = `
Pressure 0.001
Feasible.Geometrical.Constraint.Error.Rate 0.15
Minimum.Exclusion.Distance.Ratio 1.2
Interatomic.Distance.Tracer.Cutoff.Ratio 3.0
Interatomic.Distance.Constrainer.Cutoff.Ratio 1.5
Attractive.Force.Constants 30.0
Repulsive.Force.Constants -100.0
Number.of.Iterative.Balance.Steps 50
Initial.Maximum.Atomic.Displacement 0.5
Final.Maximum.Atomic.Displacement 0.01
Maximum.Unit.Cell.Displacement.Factor 0.1
Local.Number.of.Iterative.Balance.Steps 200
&FEASIBLE_COORDINATION_COMPOSITIONS
Si_+4 O_2Si_1 O_4
O_-2 Si_1O_1
&END
&SPECIES_TABLE
Si_+4 1.0 1.2 0.3 0.5 0.4 0.4
O_-2 1.3 1.5 1.3 1.5 0.4 0.4
&END
`

func TestLoadFromParsesScalarsAndAppliesPhasePrefixOverride(t *testing.T) {
	o, err := LoadFrom(strings.NewReader(sampleDocument))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if o.Pressure != 0.001 {
		t.Fatalf("expected pressure 0.001, got %f", o.Pressure)
	}
	if o.Global.IterationCount != 50 {
		t.Fatalf("expected global iteration count 50, got %d", o.Global.IterationCount)
	}
	if o.Local.IterationCount != 200 {
		t.Fatalf("expected local iteration count overridden to 200, got %d", o.Local.IterationCount)
	}
	if o.Precise.IterationCount != 50 {
		t.Fatalf("expected precise iteration count to fall back to shared value 50, got %d", o.Precise.IterationCount)
	}
}

func TestLoadFromConvertsAngstromToAtomicUnits(t *testing.T) {
	o, err := LoadFrom(strings.NewReader(sampleDocument))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	want := 0.5 * AngstromToBohr
	if math.Abs(o.Global.InitialMaxAtomicDisplacement-want) > 1e-9 {
		t.Fatalf("expected initial displacement %f atomic units, got %f", want, o.Global.InitialMaxAtomicDisplacement)
	}
}

func TestLoadFromParsesRequiredCompositionBlock(t *testing.T) {
	o, err := LoadFrom(strings.NewReader(sampleDocument))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	si4 := species.IonicAtomicNumber{Element: "Si", Charge: 4}
	comps, ok := o.FeasibleCoordinationCompositions[si4]
	if !ok {
		t.Fatalf("expected a composition list for %v", si4)
	}
	if len(comps) != 2 {
		t.Fatalf("expected 2 compositions for %v, got %d", si4, len(comps))
	}
	want := species.Composition{"O": 2, "Si": 1}
	if !comps[0].Equal(want) {
		t.Fatalf("expected first composition %v, got %v", want, comps[0])
	}
}

func TestLoadFromParsesSpeciesTableWithConvertedRadiiAndComposition(t *testing.T) {
	o, err := LoadFrom(strings.NewReader(sampleDocument))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	si4 := species.IonicAtomicNumber{Element: "Si", Charge: 4}
	sp, ok := o.SpeciesTable[si4]
	if !ok {
		t.Fatalf("expected a species table entry for %v", si4)
	}
	wantMin := 1.0 * AngstromToBohr
	if math.Abs(sp.Covalent.Min-wantMin) > 1e-9 {
		t.Fatalf("expected covalent min %f atomic units, got %f", wantMin, sp.Covalent.Min)
	}
	if len(sp.Coordination.FeasibleCompositions) != 2 {
		t.Fatalf("expected species entry to carry its 2 feasible compositions, got %d", len(sp.Coordination.FeasibleCompositions))
	}
}

const trioDocument = `
Pressure 0.001
Feasible.Geometrical.Constraint.Error.Rate 0.15
Minimum.Exclusion.Distance.Ratio 1.2
Interatomic.Distance.Tracer.Cutoff.Ratio 3.0
Interatomic.Distance.Constrainer.Cutoff.Ratio 1.5
Attractive.Force.Constants 30.0
Repulsive.Force.Constants -100.0
Number.of.Iterative.Balance.Steps 50
Initial.Maximum.Atomic.Displacement 0.5
Final.Maximum.Atomic.Displacement 0.01
Maximum.Unit.Cell.Displacement.Factor 0.1
&LOWER_BOUND_COMPOSITIONS
Si_+4 O_2
&END
&FEASIBLE_COVALENT_COORDINATION_NUMBERS
Si_+4 4 6
&END
&FEASIBLE_IONIC_COORDINATION_NUMBERS
Si_+4 4 6
&END
&SPECIES_TABLE
Si_+4 1.0 1.2 0.3 0.5 0.4 0.4
&END
`

func TestLoadFromAcceptsTrioCoordinationRepresentation(t *testing.T) {
	o, err := LoadFrom(strings.NewReader(trioDocument))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	si4 := species.IonicAtomicNumber{Element: "Si", Charge: 4}
	sp, ok := o.SpeciesTable[si4]
	if !ok {
		t.Fatalf("expected a species table entry for %v", si4)
	}
	if len(sp.Coordination.FeasibleCompositions) != 0 {
		t.Fatalf("expected no explicit feasible compositions under the trio form, got %v", sp.Coordination.FeasibleCompositions)
	}
	if len(sp.Coordination.LowerBoundCompositions) != 1 {
		t.Fatalf("expected 1 lower-bound composition, got %d", len(sp.Coordination.LowerBoundCompositions))
	}
	if !sp.Coordination.FeasibleCovalentCoordinationNumbers[4] || !sp.Coordination.FeasibleCovalentCoordinationNumbers[6] {
		t.Fatalf("expected covalent coordination numbers {4,6}, got %v", sp.Coordination.FeasibleCovalentCoordinationNumbers)
	}
	if !sp.Coordination.FeasibleIonicCoordinationNumbers[4] || !sp.Coordination.FeasibleIonicCoordinationNumbers[6] {
		t.Fatalf("expected ionic coordination numbers {4,6}, got %v", sp.Coordination.FeasibleIonicCoordinationNumbers)
	}
}

func TestLoadFromRejectsNeitherCoordinationRepresentation(t *testing.T) {
	doc := strings.Replace(trioDocument, "&LOWER_BOUND_COMPOSITIONS\nSi_+4 O_2\n&END\n", "", 1)
	doc = strings.Replace(doc, "&FEASIBLE_COVALENT_COORDINATION_NUMBERS\nSi_+4 4 6\n&END\n", "", 1)
	doc = strings.Replace(doc, "&FEASIBLE_IONIC_COORDINATION_NUMBERS\nSi_+4 4 6\n&END\n", "", 1)
	_, err := LoadFrom(strings.NewReader(doc))
	if !errors.Is(err, xerrors.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration when neither coordination representation is declared, got %v", err)
	}
}

func TestLoadFromParsesLinkageLimitsIntoADictionary(t *testing.T) {
	withLinkage := strings.Replace(sampleDocument, "&END\n", "&END\n&LINKAGE_LIMITS\nSi Si corner\n&END\n", 1)
	o, err := LoadFrom(strings.NewReader(withLinkage))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	link := o.Linkage()
	if link.MaxSharing("Si", "Si") != dictionary.CornerSharing {
		t.Fatalf("expected Si-Si corner-sharing limit, got %v", link.MaxSharing("Si", "Si"))
	}
	if link.MaxSharing("Si", "O") != dictionary.FaceSharing {
		t.Fatalf("expected unrestricted default for an unnamed pair, got %v", link.MaxSharing("Si", "O"))
	}
}

func TestLoadFromWithoutLinkageBlockIsUnrestricted(t *testing.T) {
	o, err := LoadFrom(strings.NewReader(sampleDocument))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if o.Linkage().MaxSharing("Si", "O") != dictionary.FaceSharing {
		t.Fatalf("expected unrestricted default with no LINKAGE_LIMITS block")
	}
}

func TestLoadFromRejectsNegativePressure(t *testing.T) {
	doc := strings.Replace(sampleDocument, "Pressure 0.001", "Pressure -1", 1)
	_, err := LoadFrom(strings.NewReader(doc))
	if !errors.Is(err, xerrors.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration for negative pressure, got %v", err)
	}
}

func TestLoadFromRejectsMissingCompositionBlock(t *testing.T) {
	withoutBlock := strings.Split(sampleDocument, "&FEASIBLE_COORDINATION_COMPOSITIONS")[0]
	_, err := LoadFrom(strings.NewReader(withoutBlock))
	if !errors.Is(err, xerrors.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration for missing required block, got %v", err)
	}
}

func TestLoadFromRejectsUnclosedBlock(t *testing.T) {
	_, err := LoadFrom(strings.NewReader("&FEASIBLE_COORDINATION_COMPOSITIONS\nSi_+4 O_2Si_1\n"))
	if !errors.Is(err, xerrors.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration for unclosed block, got %v", err)
	}
}
