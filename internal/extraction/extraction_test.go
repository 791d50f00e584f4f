package extraction

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sarat-asymmetrica/crystalforge/internal/cio"
	"github.com/sarat-asymmetrica/crystalforge/internal/constraint"
	"github.com/sarat-asymmetrica/crystalforge/internal/design"
	"github.com/sarat-asymmetrica/crystalforge/internal/geometry"
	"github.com/sarat-asymmetrica/crystalforge/internal/species"
	"github.com/sarat-asymmetrica/crystalforge/internal/structure"
)

func manager(t *testing.T, el1, el2 string) *constraint.Manager {
	t.Helper()
	a := species.Species{Number: species.IonicAtomicNumber{Element: el1, Charge: 1}}
	b := species.Species{Number: species.IonicAtomicNumber{Element: el2, Charge: -1}}
	cell := structure.NewUnitCell(geometry.NewMatrixFromRows(
		geometry.NewVector(10, 0, 0),
		geometry.NewVector(0, 10, 0),
		geometry.NewVector(0, 0, 10),
	))
	s := structure.New(cell, []*structure.Atom{
		structure.NewAtom(a, geometry.NewVector(5, 5, 5)),
		structure.NewAtom(b, geometry.NewVector(5, 5, 7.8)),
	})
	m, err := constraint.New(s, constraint.Policy{
		FeasibleErrorRate:      0.15,
		ExclusiveRadiusRatio:   1.2,
		TracerCutoffRatio:      3.0,
		ConstrainerCutoffRatio: 1.5,
	})
	if err != nil {
		t.Fatalf("constraint.New: %v", err)
	}
	return m
}

func seedLibrary(t *testing.T, dir string) {
	t.Helper()
	w, err := cio.NewWriter(dir, nil)
	if err != nil {
		t.Fatalf("cio.NewWriter: %v", err)
	}

	high, low := 0.95, 0.2
	outcomes := []struct {
		id string
		o  design.Outcome
	}{
		{"a1", design.Outcome{Status: design.Feasible, Manager: manager(t, "Na", "Cl"), OptimalityScore: &high}},
		{"a2", design.Outcome{Status: design.Feasible, Manager: manager(t, "Na", "Cl"), OptimalityScore: &low}},
		{"a3", design.Outcome{Status: design.Feasible, Manager: manager(t, "K", "Br"), OptimalityScore: &high}},
		{"a4", design.Outcome{Status: design.Infeasible, Manager: manager(t, "K", "Br")}},
		{"a5", design.Outcome{Status: design.Exceptional}},
	}
	for _, c := range outcomes {
		if err := w.Write(0, c.id, c.o); err != nil {
			t.Fatalf("Write %s: %v", c.id, err)
		}
	}
}

func TestLoadLibraryParsesEveryHeader(t *testing.T) {
	dir := t.TempDir()
	seedLibrary(t, dir)

	records, err := LoadLibrary(dir)
	if err != nil {
		t.Fatalf("LoadLibrary: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("expected 5 records, got %d", len(records))
	}
}

func TestExtractIsotypicGroupsFeasibleByFingerprint(t *testing.T) {
	dir := t.TempDir()
	seedLibrary(t, dir)

	records, err := LoadLibrary(dir)
	if err != nil {
		t.Fatalf("LoadLibrary: %v", err)
	}
	groups := ExtractIsotypic(records)
	if len(groups) != 2 {
		t.Fatalf("expected 2 isotypic groups, got %d", len(groups))
	}
	for key, g := range groups {
		if key == "1:Cl:1,Na:1" && len(g) != 2 {
			t.Fatalf("expected 2 members in NaCl group, got %d", len(g))
		}
	}
}

func TestExtractPromisingFiltersByThresholdAndSorts(t *testing.T) {
	dir := t.TempDir()
	seedLibrary(t, dir)

	records, err := LoadLibrary(dir)
	if err != nil {
		t.Fatalf("LoadLibrary: %v", err)
	}
	promising := ExtractPromising(records, 0.5)
	if len(promising) != 2 {
		t.Fatalf("expected 2 promising records, got %d", len(promising))
	}
	if *promising[0].OptimalityScore < *promising[1].OptimalityScore {
		t.Fatalf("expected promising records sorted highest-score first")
	}
}

func TestLoadLibrarySkipsNonXtlFiles(t *testing.T) {
	dir := t.TempDir()
	seedLibrary(t, dir)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o644); err != nil {
		t.Fatalf("writing stray file: %v", err)
	}

	records, err := LoadLibrary(dir)
	if err != nil {
		t.Fatalf("LoadLibrary: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("expected stray non-.xtl file to be skipped, got %d records", len(records))
	}
}
