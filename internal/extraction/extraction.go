// Package extraction scans a library of produced container files
// (internal/cio's output format) and selects subsets of interest:
// structures sharing a symmetry/composition fingerprint ("isotypic"),
// and structures whose optimality score clears a threshold
// ("promising").
package extraction

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Record is one library entry's metadata, read back from the comment
// header internal/cio writes at the top of each container file.
type Record struct {
	Path            string
	Rank            int
	AttemptID       string
	Status          string
	OptimalityScore *float64
	Fingerprint     string
	SpaceGroup      int
}

// LoadLibrary reads every ".xtl" file under dir, including the
// per-rank subdirectories internal/cio writes into, and parses its
// header into a Record. Files that fail to parse are skipped rather
// than aborting the whole scan, matching ParsePDB's tolerance of
// malformed individual records.
func LoadLibrary(dir string) ([]Record, error) {
	var records []Record
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".xtl" {
			return nil
		}
		rec, err := parseHeader(path)
		if err != nil {
			return nil
		}
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("extraction: reading library directory %q: %w", dir, err)
	}
	return records, nil
}

func parseHeader(path string) (Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return Record{}, fmt.Errorf("extraction: opening %q: %w", path, err)
	}
	defer f.Close()

	rec := Record{Path: path}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "#") {
			break
		}
		fields := strings.Fields(strings.TrimPrefix(line, "#"))
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "rank":
			// "rank <N> attempt <id>"
			if len(fields) >= 4 {
				rec.Rank, _ = strconv.Atoi(fields[1])
				rec.AttemptID = fields[3]
			}
		case "status":
			if len(fields) >= 2 {
				rec.Status = fields[1]
			}
		case "optimality":
			if len(fields) >= 2 {
				if v, err := strconv.ParseFloat(fields[1], 64); err == nil {
					rec.OptimalityScore = &v
				}
			}
		case "fingerprint":
			// "fingerprint <fp> space-group <n>"
			if len(fields) >= 4 {
				rec.Fingerprint = fields[1]
				rec.SpaceGroup, _ = strconv.Atoi(fields[3])
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return Record{}, fmt.Errorf("extraction: reading %q: %w", path, err)
	}
	if rec.AttemptID == "" {
		return Record{}, fmt.Errorf("extraction: %q has no recognizable header", path)
	}
	return rec, nil
}

// isotypicKey identifies the symmetry/composition class a record
// belongs to.
func isotypicKey(r Record) string {
	return fmt.Sprintf("%d:%s", r.SpaceGroup, r.Fingerprint)
}

// ExtractIsotypic groups every feasible record by space-group number and
// composition fingerprint. Records with an empty fingerprint (no
// structure was ever attached, i.e. an exceptional outcome) are
// excluded.
func ExtractIsotypic(records []Record) map[string][]Record {
	groups := make(map[string][]Record)
	for _, r := range records {
		if r.Status != "feasible" || r.Fingerprint == "" {
			continue
		}
		key := isotypicKey(r)
		groups[key] = append(groups[key], r)
	}
	return groups
}

// ExtractPromising returns every feasible record whose optimality score
// is at least threshold, most optimal first.
func ExtractPromising(records []Record, threshold float64) []Record {
	var out []Record
	for _, r := range records {
		if r.Status != "feasible" || r.OptimalityScore == nil {
			continue
		}
		if *r.OptimalityScore >= threshold {
			out = append(out, r)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && *out[j].OptimalityScore > *out[j-1].OptimalityScore; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
