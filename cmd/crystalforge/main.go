// Command crystalforge is the CLI entry point for crystal-structure
// prediction: "predict" runs the producer pool against a target
// composition, "extract" scans an existing output library for isotypic
// or promising subsets.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "crystalforge",
	Short: "crystalforge predicts plausible crystal structures from a target composition",
	Long: `crystalforge treats a candidate crystal structure as a point in a
high-dimensional geometry subject to chemical-distance constraints and
drives that point toward feasibility through iterative force relaxation.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the run configuration file (required)")
	rootCmd.MarkPersistentFlagRequired("config")

	rootCmd.AddCommand(predictCmd, extractCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
