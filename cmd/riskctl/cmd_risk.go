// cmd/riskctl/cmd_risk.go
package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"exposure-risk-workers/internal/calculator/cumulative"
	"exposure-risk-workers/internal/calculator/riskcolor"
)

var cumulativeCmd = &cobra.Command{
	Use:   "cumulative <risk> <exposures>",
	Short: "Probability of at least one infection over repeated exposures",
	Args:  cobra.ExactArgs(2),
	RunE:  runCumulative,
}

var thresholdCmd = &cobra.Command{
	Use:   "threshold <risk>",
	Short: "Smallest number of exposures whose cumulative risk exceeds 50%",
	Args:  cobra.ExactArgs(1),
	RunE:  runThreshold,
}

var formatCmd = &cobra.Command{
	Use:   "format <risk> [upper]",
	Short: "Format a probability, or a confidence interval when upper is given",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runFormat,
}

var colorCmd = &cobra.Command{
	Use:   "color <risk>",
	Short: "Map a probability to its risk band color",
	Args:  cobra.ExactArgs(1),
	RunE:  runColor,
}

func parseRisk(s string) (float64, error) {
	p, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid risk %q: %w", s, err)
	}
	return p, nil
}

func runCumulative(cmd *cobra.Command, args []string) error {
	p, err := parseRisk(args[0])
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(args[1])
	if err != nil || n < 0 {
		return fmt.Errorf("invalid exposures %q", args[1])
	}

	res := cumulative.Repeated(p, n)
	if jsonOutput {
		return writeJSON(cmd, res)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "per exposure: %s\n", cumulative.FormatPercent(p))
	fmt.Fprintf(cmd.OutOrStdout(), "after %d: %s (%s)\n", n, cumulative.FormatPercent(res.CumulativeRisk), riskcolor.Classify(res.CumulativeRisk))
	return nil
}

func runThreshold(cmd *cobra.Command, args []string) error {
	p, err := parseRisk(args[0])
	if err != nil {
		return err
	}
	n, ok := cumulative.RepetitionsToExceedHalf(p)
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "never")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), n)
	return nil
}

func runFormat(cmd *cobra.Command, args []string) error {
	p, err := parseRisk(args[0])
	if err != nil {
		return err
	}
	if len(args) == 1 {
		fmt.Fprintln(cmd.OutOrStdout(), cumulative.FormatPercent(p))
		return nil
	}
	upper, err := parseRisk(args[1])
	if err != nil {
		return err
	}
	lo, hi := cumulative.FormatConfidenceInterval(p, upper)
	fmt.Fprintf(cmd.OutOrStdout(), "%s - %s\n", lo, hi)
	return nil
}

func runColor(cmd *cobra.Command, args []string) error {
	fmt.Fprintln(cmd.OutOrStdout(), riskcolor.ClassifyString(args[0]))
	return nil
}

func writeJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
