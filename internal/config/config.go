package config

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/sarat-asymmetrica/crystalforge/internal/constraint"
	"github.com/sarat-asymmetrica/crystalforge/internal/design"
	"github.com/sarat-asymmetrica/crystalforge/internal/dictionary"
	"github.com/sarat-asymmetrica/crystalforge/internal/relax"
	"github.com/sarat-asymmetrica/crystalforge/internal/species"
	"github.com/sarat-asymmetrica/crystalforge/internal/xerrors"
)

// AngstromToBohr converts a length in angstrom to atomic units
// (bohr radii), the unit every internal package computes in.
const AngstromToBohr = 1.8897261339212517

// PhaseOptions holds one named phase's force-model and schedule
// constants, read in angstrom and converted to atomic units at load
// time.
type PhaseOptions struct {
	AttractiveForceConstant       float64
	RepulsiveForceConstant        float64
	IterationCount                int
	InitialMaxAtomicDisplacement  float64
	FinalMaxAtomicDisplacement    float64
	MaxUnitCellDisplacementFactor float64
	InnerRestartBudget            int
}

// toRelaxParams combines this phase's constants with the shared
// scalars into a relax.Params record.
func (p PhaseOptions) toRelaxParams(pressure, feasibleErrorRate, exclusiveRadiusRatio float64) relax.Params {
	return relax.Params{
		AttractiveForceConstant:       p.AttractiveForceConstant,
		RepulsiveForceConstant:        p.RepulsiveForceConstant,
		IterationCount:                p.IterationCount,
		InitialMaxAtomicDisplacement:  p.InitialMaxAtomicDisplacement,
		FinalMaxAtomicDisplacement:    p.FinalMaxAtomicDisplacement,
		MaxUnitCellDisplacementFactor: p.MaxUnitCellDisplacementFactor,
		Pressure:                      pressure,
		FeasibleErrorRate:             feasibleErrorRate,
		ExclusiveRadiusRatio:          exclusiveRadiusRatio,
	}
}

// Options is the fully parsed, validated, unit-converted configuration:
// every scalar from the option table, the three named phases, and the
// coordination constraints in either of their two representations (the
// feasible-coordination-composition dictionary or the lower-bound/
// covalent-count/ionic-count trio).
type Options struct {
	Pressure               float64
	FeasibleErrorRate       float64
	ExclusiveRadiusRatio    float64
	TracerCutoffRatio       float64
	ConstrainerCutoffRatio  float64
	TracerRebuildLimit      int
	CellReductionLimit      int
	MaxTotalOptimizing      int
	MaxCeaselessGlobal      int

	Global, Local, Precise PhaseOptions

	// FeasibleCoordinationCompositions maps an ionic species key (e.g.
	// "Si_+4") to the set of neighbour-element multisets considered a
	// feasible coordination composition for that species. This is the
	// explicit-composition representation; a species may instead use
	// the lower-bound/covalent-count/ionic-count trio below, but not
	// both.
	FeasibleCoordinationCompositions map[species.IonicAtomicNumber][]species.Composition

	// LowerBoundCompositions is the trio representation's first member:
	// compositions every actual coordination multiset must be a
	// superset of.
	LowerBoundCompositions map[species.IonicAtomicNumber][]species.Composition

	// FeasibleCovalentCoordinationNumbers and FeasibleIonicCoordinationNumbers
	// are the trio representation's remaining members: the sets of
	// covalent/ionic bond counts considered feasible for a species.
	FeasibleCovalentCoordinationNumbers map[species.IonicAtomicNumber]map[int]bool
	FeasibleIonicCoordinationNumbers    map[species.IonicAtomicNumber]map[int]bool

	// SpeciesTable maps an ionic species key to its full chemical
	// record (radii in atomic units, plus whichever coordination
	// constraint representation was declared for it).
	SpeciesTable map[species.IonicAtomicNumber]species.Species

	// LinkageLimits maps an unordered pair of central elements to the
	// strongest polyhedra-sharing kind permitted between them, from the
	// optional LINKAGE_LIMITS block. A pair not named here defaults to
	// unrestricted sharing.
	LinkageLimits map[[2]string]dictionary.SharingKind
}

// Linkage builds the linkage dictionary the LINKAGE_LIMITS block
// describes. A configuration with no such block returns a dictionary
// where every pair is unrestricted.
func (o Options) Linkage() *dictionary.LinkageDictionary {
	return dictionary.NewLinkageDictionary(o.LinkageLimits)
}

// Policy builds the constraint.Policy the shared scalars describe.
func (o Options) Policy() constraint.Policy {
	return constraint.Policy{
		FeasibleErrorRate:      o.FeasibleErrorRate,
		ExclusiveRadiusRatio:   o.ExclusiveRadiusRatio,
		TracerCutoffRatio:      o.TracerCutoffRatio,
		ConstrainerCutoffRatio: o.ConstrainerCutoffRatio,
	}
}

// DesignParameters builds the design.Parameters the three phases plus
// the restart/timeout budgets describe. innerRestartBudget defaults
// come from each phase's own Options entry.
func (o Options) DesignParameters() design.Parameters {
	return design.Parameters{
		Global:  design.Phase{Name: "global", RelaxParams: o.Global.toRelaxParams(o.Pressure, o.FeasibleErrorRate, o.ExclusiveRadiusRatio), InnerRestartBudget: o.Global.InnerRestartBudget},
		Local:   design.Phase{Name: "local", RelaxParams: o.Local.toRelaxParams(o.Pressure, o.FeasibleErrorRate, o.ExclusiveRadiusRatio), InnerRestartBudget: o.Local.InnerRestartBudget},
		Precise: design.Phase{Name: "precise", RelaxParams: o.Precise.toRelaxParams(o.Pressure, o.FeasibleErrorRate, o.ExclusiveRadiusRatio), InnerRestartBudget: o.Precise.InnerRestartBudget},

		MaxTotalOptimizing: o.MaxTotalOptimizing,
		MaxCeaselessGlobal: o.MaxCeaselessGlobal,
		TracerRebuildLimit: o.TracerRebuildLimit,
		CellReductionLimit: o.CellReductionLimit,
	}
}

// Load reads and parses the configuration file at path.
func Load(path string) (Options, error) {
	f, err := os.Open(path)
	if err != nil {
		return Options{}, fmt.Errorf("config: %w: %v", xerrors.ErrConfiguration, err)
	}
	defer f.Close()
	return LoadFrom(f)
}

// LoadFrom parses and validates configuration from an already-open
// reader, useful for tests that don't want a file on disk.
func LoadFrom(r io.Reader) (Options, error) {
	doc, err := parseDocument(r)
	if err != nil {
		return Options{}, fmt.Errorf("%w: %v", xerrors.ErrConfiguration, err)
	}

	o := Options{}
	var perr parseErrors

	o.Pressure = perr.float(doc, "Pressure", 0)
	o.FeasibleErrorRate = perr.float(doc, "Feasible.Geometrical.Constraint.Error.Rate", 0.1)
	o.ExclusiveRadiusRatio = perr.float(doc, "Minimum.Exclusion.Distance.Ratio", 1.2)
	o.TracerCutoffRatio = perr.float(doc, "Interatomic.Distance.Tracer.Cutoff.Ratio", 3.0)
	o.ConstrainerCutoffRatio = perr.float(doc, "Interatomic.Distance.Constrainer.Cutoff.Ratio", 1.5)
	o.TracerRebuildLimit = perr.int(doc, "Tracer.Rebuild.Limit", 20)
	o.CellReductionLimit = perr.int(doc, "Cell.Reduction.Limit", 20)
	o.MaxTotalOptimizing = perr.int(doc, "Maximum.Total.Optimizing.Steps", 10)
	o.MaxCeaselessGlobal = perr.int(doc, "Maximum.Ceaseless.Global.Phases", 3)

	o.Global = perr.phase(doc, "Global")
	o.Local = perr.phase(doc, "Local")
	o.Precise = perr.phase(doc, "Precise")

	o.FeasibleCoordinationCompositions, err = parseCompositionBlock(doc, "FEASIBLE_COORDINATION_COMPOSITIONS")
	if err != nil {
		perr.errs = append(perr.errs, err)
	}
	o.LowerBoundCompositions, err = parseCompositionBlock(doc, "LOWER_BOUND_COMPOSITIONS")
	if err != nil {
		perr.errs = append(perr.errs, err)
	}
	o.FeasibleCovalentCoordinationNumbers, err = parseCountBlock(doc, "FEASIBLE_COVALENT_COORDINATION_NUMBERS")
	if err != nil {
		perr.errs = append(perr.errs, err)
	}
	o.FeasibleIonicCoordinationNumbers, err = parseCountBlock(doc, "FEASIBLE_IONIC_COORDINATION_NUMBERS")
	if err != nil {
		perr.errs = append(perr.errs, err)
	}

	o.SpeciesTable, err = parseSpeciesBlock(doc, o.FeasibleCoordinationCompositions, o.LowerBoundCompositions,
		o.FeasibleCovalentCoordinationNumbers, o.FeasibleIonicCoordinationNumbers)
	if err != nil {
		perr.errs = append(perr.errs, err)
	}

	o.LinkageLimits, err = parseLinkageBlock(doc)
	if err != nil {
		perr.errs = append(perr.errs, err)
	}

	if err := perr.join(); err != nil {
		return Options{}, fmt.Errorf("%w: %v", xerrors.ErrConfiguration, err)
	}
	if err := o.validate(); err != nil {
		return Options{}, fmt.Errorf("%w: %v", xerrors.ErrConfiguration, err)
	}
	return o, nil
}

// validate rejects negative pressure, non-positive displacement
// decreases, ratios below 1, and a configuration that declares neither
// coordination-constraint representation, mirroring the numeric
// validation rules in the option table.
func (o Options) validate() error {
	if o.Pressure < 0 {
		return fmt.Errorf("Pressure must be >= 0, got %f", o.Pressure)
	}
	if o.ExclusiveRadiusRatio < 1 {
		return fmt.Errorf("Minimum.Exclusion.Distance.Ratio must be >= 1, got %f", o.ExclusiveRadiusRatio)
	}
	if o.TracerCutoffRatio < 1 {
		return fmt.Errorf("Interatomic.Distance.Tracer.Cutoff.Ratio must be >= 1, got %f", o.TracerCutoffRatio)
	}
	if o.ConstrainerCutoffRatio < 1 {
		return fmt.Errorf("Interatomic.Distance.Constrainer.Cutoff.Ratio must be >= 1, got %f", o.ConstrainerCutoffRatio)
	}
	for _, p := range []struct {
		name string
		p    PhaseOptions
	}{{"Global", o.Global}, {"Local", o.Local}, {"Precise", o.Precise}} {
		if p.p.FinalMaxAtomicDisplacement <= 0 || p.p.FinalMaxAtomicDisplacement > p.p.InitialMaxAtomicDisplacement {
			return fmt.Errorf("%s.Final.Maximum.Atomic.Displacement must be in (0, initial], got %f (initial %f)",
				p.name, p.p.FinalMaxAtomicDisplacement, p.p.InitialMaxAtomicDisplacement)
		}
	}
	hasTrio := len(o.LowerBoundCompositions) > 0 ||
		len(o.FeasibleCovalentCoordinationNumbers) > 0 ||
		len(o.FeasibleIonicCoordinationNumbers) > 0
	if len(o.FeasibleCoordinationCompositions) == 0 && !hasTrio {
		return fmt.Errorf("either FEASIBLE_COORDINATION_COMPOSITIONS or the LOWER_BOUND_COMPOSITIONS/FEASIBLE_COVALENT_COORDINATION_NUMBERS/FEASIBLE_IONIC_COORDINATION_NUMBERS trio must be declared and non-empty")
	}
	if len(o.SpeciesTable) == 0 {
		return fmt.Errorf("SPECIES_TABLE block is required and must be non-empty")
	}
	return nil
}

// parseErrors accumulates field-level parse failures so Load reports
// every malformed key in one pass instead of stopping at the first.
type parseErrors struct {
	errs []error
}

func (p *parseErrors) float(doc *document, key string, def float64) float64 {
	raw, ok := doc.values[key]
	if !ok {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return v
}

// floatLength is like float but additionally converts the parsed
// angstrom value to atomic units.
func (p *parseErrors) floatLength(doc *document, key string, def float64) float64 {
	raw, ok := doc.values[key]
	if !ok {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return v * AngstromToBohr
}

func (p *parseErrors) int(doc *document, key string, def int) int {
	raw, ok := doc.values[key]
	if !ok {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return v
}

// phase reads one phase's seven scalars, preferring "<Prefix>.<Key>" and
// falling back to the unprefixed key shared across phases.
func (p *parseErrors) phase(doc *document, prefix string) PhaseOptions {
	lookup := func(key string) string {
		if doc.has(prefix + "." + key) {
			return prefix + "." + key
		}
		return key
	}
	return PhaseOptions{
		AttractiveForceConstant:       p.float(doc, lookup("Attractive.Force.Constants"), 1),
		RepulsiveForceConstant:        p.float(doc, lookup("Repulsive.Force.Constants"), -1),
		IterationCount:                p.int(doc, lookup("Number.of.Iterative.Balance.Steps"), 50),
		InitialMaxAtomicDisplacement:  p.floatLength(doc, lookup("Initial.Maximum.Atomic.Displacement"), 0.5),
		FinalMaxAtomicDisplacement:    p.floatLength(doc, lookup("Final.Maximum.Atomic.Displacement"), 0.01),
		MaxUnitCellDisplacementFactor: p.float(doc, lookup("Maximum.Unit.Cell.Displacement.Factor"), 0.1),
		InnerRestartBudget:            p.int(doc, lookup("Inner.Restart.Budget"), 5),
	}
}

func (p *parseErrors) join() error {
	if len(p.errs) == 0 {
		return nil
	}
	msgs := make([]string, len(p.errs))
	for i, e := range p.errs {
		msgs[i] = e.Error()
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}

var compositionTokenPattern = regexp.MustCompile(`([A-Z][a-z]?)_(\d+)`)

// parseCompositionToken parses a token like "O_2Si_1" into the
// multiset {O:2, Si:1}: concatenated "Element_count" groups with no
// separator between groups.
func parseCompositionToken(token string) (species.Composition, error) {
	matches := compositionTokenPattern.FindAllStringSubmatch(token, -1)
	if matches == nil {
		return nil, fmt.Errorf("malformed composition token %q", token)
	}
	comp := make(species.Composition, len(matches))
	for _, m := range matches {
		count, err := strconv.Atoi(m[2])
		if err != nil {
			return nil, fmt.Errorf("malformed composition token %q: %w", token, err)
		}
		comp[m[1]] += count
	}
	return comp, nil
}

// parseIonicKey parses a species key like "Si_+4" or "O_-2" into its
// ionic atomic number, matching species.IonicAtomicNumber.String().
func parseIonicKey(key string) (species.IonicAtomicNumber, error) {
	element, chargeStr, ok := strings.Cut(key, "_")
	if !ok {
		return species.IonicAtomicNumber{}, fmt.Errorf("malformed species key %q, expected \"Element_Charge\"", key)
	}
	charge, err := strconv.Atoi(chargeStr)
	if err != nil {
		return species.IonicAtomicNumber{}, fmt.Errorf("malformed species key %q: %w", key, err)
	}
	return species.IonicAtomicNumber{Element: element, Charge: charge}, nil
}

// parseSpeciesBlock reads the SPECIES_TABLE block: each line names an
// ionic species key followed by its covalent, ionic, and repulsion
// radius ranges in angstrom ("Min Max" pairs, six numbers total),
// converted to atomic units. A species whose key appears in explicit
// carries that entry as its explicit feasible coordination compositions;
// otherwise it carries whichever of the lowerBound/covalentNums/ionicNums
// trio names it, since the two representations are mutually exclusive
// per species.Validate.
func parseSpeciesBlock(doc *document, explicit, lowerBound map[species.IonicAtomicNumber][]species.Composition,
	covalentNums, ionicNums map[species.IonicAtomicNumber]map[int]bool) (map[species.IonicAtomicNumber]species.Species, error) {
	lines, ok := doc.blocks["SPECIES_TABLE"]
	if !ok {
		return nil, nil
	}
	out := make(map[species.IonicAtomicNumber]species.Species, len(lines))
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) != 7 {
			return nil, fmt.Errorf("SPECIES_TABLE: line %q must name a species key and six radius bounds", line)
		}
		key, err := parseIonicKey(fields[0])
		if err != nil {
			return nil, fmt.Errorf("SPECIES_TABLE: %w", err)
		}
		bounds := make([]float64, 6)
		for i, field := range fields[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("SPECIES_TABLE: %s: %w", key, err)
			}
			bounds[i] = v * AngstromToBohr
		}
		sp := species.Species{
			Number:    key,
			Covalent:  species.RadiusRange{Min: bounds[0], Max: bounds[1]},
			Ionic:     species.RadiusRange{Min: bounds[2], Max: bounds[3]},
			Repulsion: species.RadiusRange{Min: bounds[4], Max: bounds[5]},
		}
		if comps, ok := explicit[key]; ok {
			sp.Coordination.FeasibleCompositions = comps
		} else {
			sp.Coordination.LowerBoundCompositions = lowerBound[key]
			sp.Coordination.FeasibleCovalentCoordinationNumbers = covalentNums[key]
			sp.Coordination.FeasibleIonicCoordinationNumbers = ionicNums[key]
		}
		if err := sp.Validate(); err != nil {
			return nil, fmt.Errorf("SPECIES_TABLE: %w", err)
		}
		out[key] = sp
	}
	return out, nil
}

// parseCompositionBlock reads a block of the composition-list shape
// (FEASIBLE_COORDINATION_COMPOSITIONS or LOWER_BOUND_COMPOSITIONS):
// each line is an ionic species key followed by one or more
// whitespace-separated composition tokens.
func parseCompositionBlock(doc *document, blockName string) (map[species.IonicAtomicNumber][]species.Composition, error) {
	lines, ok := doc.blocks[blockName]
	if !ok {
		return nil, nil
	}
	out := make(map[species.IonicAtomicNumber][]species.Composition, len(lines))
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("%s: line %q must name a species key and at least one composition", blockName, line)
		}
		key, err := parseIonicKey(fields[0])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", blockName, err)
		}
		for _, token := range fields[1:] {
			comp, err := parseCompositionToken(token)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", blockName, err)
			}
			out[key] = append(out[key], comp)
		}
	}
	return out, nil
}

var sharingKindNames = map[string]dictionary.SharingKind{
	"unlinked": dictionary.Unlinked,
	"corner":   dictionary.CornerSharing,
	"edge":     dictionary.EdgeSharing,
	"face":     dictionary.FaceSharing,
}

// parseLinkageBlock reads the optional LINKAGE_LIMITS block: each line
// names two central elements and the strongest polyhedra-sharing kind
// permitted between them ("unlinked", "corner", "edge", or "face").
func parseLinkageBlock(doc *document) (map[[2]string]dictionary.SharingKind, error) {
	lines, ok := doc.blocks["LINKAGE_LIMITS"]
	if !ok {
		return nil, nil
	}
	out := make(map[[2]string]dictionary.SharingKind, len(lines))
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, fmt.Errorf("LINKAGE_LIMITS: line %q must name two elements and a sharing kind", line)
		}
		kind, ok := sharingKindNames[strings.ToLower(fields[2])]
		if !ok {
			return nil, fmt.Errorf("LINKAGE_LIMITS: unrecognized sharing kind %q", fields[2])
		}
		out[[2]string{fields[0], fields[1]}] = kind
	}
	return out, nil
}

// parseCountBlock reads a block of the coordination-number-set shape
// (FEASIBLE_COVALENT_COORDINATION_NUMBERS or
// FEASIBLE_IONIC_COORDINATION_NUMBERS): each line is an ionic species
// key followed by one or more whitespace-separated integers.
func parseCountBlock(doc *document, blockName string) (map[species.IonicAtomicNumber]map[int]bool, error) {
	lines, ok := doc.blocks[blockName]
	if !ok {
		return nil, nil
	}
	out := make(map[species.IonicAtomicNumber]map[int]bool, len(lines))
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("%s: line %q must name a species key and at least one coordination number", blockName, line)
		}
		key, err := parseIonicKey(fields[0])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", blockName, err)
		}
		set := out[key]
		if set == nil {
			set = make(map[int]bool, len(fields)-1)
			out[key] = set
		}
		for _, field := range fields[1:] {
			n, err := strconv.Atoi(field)
			if err != nil {
				return nil, fmt.Errorf("%s: %s: %w", blockName, key, err)
			}
			set[n] = true
		}
	}
	return out, nil
}
