package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarat-asymmetrica/crystalforge/internal/extraction"
)

var (
	extractLibraryDir string
	extractThreshold  float64
	extractIsotypic   bool
	extractPromising  bool
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "extract isotypic or promising subsets from an existing structure library",
	RunE:  runExtract,
}

func init() {
	extractCmd.Flags().StringVar(&extractLibraryDir, "library", "./crystals", "directory of produced structure files")
	extractCmd.Flags().Float64Var(&extractThreshold, "threshold", 0.8, "minimum optimality score for the promising subset")
	extractCmd.Flags().BoolVar(&extractIsotypic, "isotypic", false, "report isotypic groupings")
	extractCmd.Flags().BoolVar(&extractPromising, "promising", false, "report the promising subset")
}

func runExtract(cmd *cobra.Command, args []string) error {
	records, err := extraction.LoadLibrary(extractLibraryDir)
	if err != nil {
		return fmt.Errorf("crystalforge: %w", err)
	}

	if !extractIsotypic && !extractPromising {
		extractIsotypic, extractPromising = true, true
	}

	if extractIsotypic {
		groups := extraction.ExtractIsotypic(records)
		fmt.Printf("isotypic groups: %d\n", len(groups))
		for key, members := range groups {
			fmt.Printf("  %s: %d structures\n", key, len(members))
		}
	}

	if extractPromising {
		promising := extraction.ExtractPromising(records, extractThreshold)
		fmt.Printf("promising structures (score >= %.2f): %d\n", extractThreshold, len(promising))
		for _, r := range promising {
			fmt.Printf("  %s: %.6f (%s)\n", r.AttemptID, *r.OptimalityScore, r.Path)
		}
	}

	return nil
}
