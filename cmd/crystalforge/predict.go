package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sarat-asymmetrica/crystalforge/internal/cio"
	"github.com/sarat-asymmetrica/crystalforge/internal/config"
	"github.com/sarat-asymmetrica/crystalforge/internal/constraint"
	"github.com/sarat-asymmetrica/crystalforge/internal/obslog"
	"github.com/sarat-asymmetrica/crystalforge/internal/predictor"
	"github.com/sarat-asymmetrica/crystalforge/internal/seed"
	"github.com/sarat-asymmetrica/crystalforge/internal/species"
)

var (
	predictComposition string
	predictOutputDir   string
	predictRanks       int
	predictThreads     int
	predictCap         int
	predictDev         bool
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "run the producer pool for a target composition",
	RunE:  runPredict,
}

func init() {
	predictCmd.Flags().StringVar(&predictComposition, "composition", "", `target composition, e.g. "Si_+4:1,O_-2:2" (required)`)
	predictCmd.Flags().StringVar(&predictOutputDir, "output", "./crystals", "directory to write produced structures into")
	predictCmd.Flags().IntVar(&predictRanks, "ranks", 1, "number of simulated collective ranks")
	predictCmd.Flags().IntVar(&predictThreads, "threads", 4, "worker threads per rank")
	predictCmd.Flags().IntVar(&predictCap, "cap", 100, "total attempts to run across all ranks, whatever their outcome, divided with a remainder across --ranks")
	predictCmd.Flags().BoolVar(&predictDev, "dev", false, "use a development-profile (console) logger")
	predictCmd.MarkFlagRequired("composition")
}

func runPredict(cmd *cobra.Command, args []string) error {
	opts, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("crystalforge: %w", err)
	}

	target, err := parseTargetComposition(predictComposition)
	if err != nil {
		return fmt.Errorf("crystalforge: --composition: %w", err)
	}

	if predictCap < predictRanks {
		return fmt.Errorf("crystalforge: --cap (%d) must be >= --ranks (%d) so every rank receives at least one structure", predictCap, predictRanks)
	}

	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("crystalforge: %w", err)
	}
	defer logger.Sync()

	writer, err := cio.NewWriter(predictOutputDir, nil)
	if err != nil {
		return fmt.Errorf("crystalforge: %w", err)
	}

	policy := opts.Policy()
	params := opts.DesignParameters()

	newConfig := func(rank int) predictor.Config {
		return predictor.Config{
			Cap:        predictor.RankShare(predictCap, predictRanks, rank),
			Threads:    predictThreads,
			Parameters: params,
			NewAttempt: func(sampleID int) (*constraint.Manager, error) {
				return seed.RandomStructure(opts.SpeciesTable, target, policy, sampleID)
			},
			Linkage: opts.Linkage(),
			Sink:    writer,
			Logger:  logger.With(obslog.Rank(rank)),
		}
	}

	return predictor.RunAll(context.Background(), predictRanks, newConfig)
}

func newLogger() (obslog.Logger, error) {
	if predictDev {
		return obslog.NewDevelopment()
	}
	return obslog.New()
}

// parseTargetComposition parses "Key:count,Key:count" into a
// seed.Composition, where each Key is a species key like "Si_+4".
func parseTargetComposition(raw string) (seed.Composition, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("composition must not be empty")
	}
	comp := make(seed.Composition)
	for _, term := range strings.Split(raw, ",") {
		key, countStr, ok := strings.Cut(strings.TrimSpace(term), ":")
		if !ok {
			return nil, fmt.Errorf("malformed term %q, expected \"Key:Count\"", term)
		}
		number, err := parseSpeciesKey(key)
		if err != nil {
			return nil, err
		}
		count, err := strconv.Atoi(strings.TrimSpace(countStr))
		if err != nil {
			return nil, fmt.Errorf("malformed count in %q: %w", term, err)
		}
		comp[number] += count
	}
	return comp, nil
}

// parseSpeciesKey parses a species key like "Si_+4" or "O_-2".
func parseSpeciesKey(key string) (species.IonicAtomicNumber, error) {
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
