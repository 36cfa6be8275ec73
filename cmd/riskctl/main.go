// cmd/riskctl/main.go

// riskctl evaluates the exposure calculators from the command line against
// the same catalog the workers load.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"exposure-risk-workers/internal/catalog"
)

var (
	catalogPath string
	jsonOutput  bool
)

var rootCmd = &cobra.Command{
	Use:   "riskctl",
	Short: "Inspect and evaluate exposure risk calculations",
	Long: `riskctl runs the pure calculators behind the exposure workers:
cumulative risk, repetitions to 50%, percent formatting, risk colors,
immune susceptibility and the reference catalog.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "Path to a catalog YAML file (embedded default when empty)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print results as JSON")

	rootCmd.AddCommand(cumulativeCmd, thresholdCmd, formatCmd, colorCmd, immunityCmd, catalogCmd)
}

func loadCatalog() (*catalog.Catalog, error) {
	if catalogPath == "" {
		return catalog.Default(), nil
	}
	c, err := catalog.Load(catalogPath)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", catalogPath, err)
	}
	return c, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
