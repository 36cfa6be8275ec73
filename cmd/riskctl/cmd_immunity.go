// cmd/riskctl/cmd_immunity.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"exposure-risk-workers/internal/calculator"
	"exposure-risk-workers/internal/calculator/immunity"
	"exposure-risk-workers/internal/common/logger"
	"exposure-risk-workers/internal/models"
)

var (
	vaccinationMonths string
	infectionMonths   string
	immunocompromised bool
	sequenceLength    int
)

var immunityCmd = &cobra.Command{
	Use:   "immunity",
	Short: "Immune susceptibility from vaccination and infection history",
	Long: `Computes the susceptibility factor applied to per-exposure risk.
Months are counted back from today and must lie in [0, 12]; anything else is
treated as no history. With --sequence the factor is projected over that many
exposures, spaced according to the exposure count.`,
	Args: cobra.NoArgs,
	RunE: runImmunity,
}

func init() {
	immunityCmd.Flags().StringVar(&vaccinationMonths, "vaccinated", "", "Months since the last vaccination")
	immunityCmd.Flags().StringVar(&infectionMonths, "infected", "", "Months since the last infection")
	immunityCmd.Flags().BoolVar(&immunocompromised, "immunocompromised", false, "Use the immunocompromised vaccination curve")
	immunityCmd.Flags().IntVar(&sequenceLength, "sequence", 0, "Project the factor over this many exposures")
}

func runImmunity(cmd *cobra.Command, args []string) error {
	model := immunity.NewModel(calculator.NewReporter(logger.NewNoOpLogger()))
	answers := immunity.FormAnswers{
		RecentVaccination: yesIfSet(vaccinationMonths),
		VaccinationTime:   vaccinationMonths,
		RecentInfection:   yesIfSet(infectionMonths),
		InfectionTime:     infectionMonths,
		Immunocompromised: noOrYes(immunocompromised),
	}
	h, a := model.Susceptibility(answers)

	var sequence []float64
	var pattern models.ExposurePattern
	if sequenceLength > 0 {
		pattern = models.PatternForExposures(sequenceLength)
		sequence = immunity.Sequence(h, sequenceLength, pattern)
	}

	if jsonOutput {
		return writeJSON(cmd, map[string]interface{}{
			"assessment": a,
			"history":    h,
			"pattern":    pattern,
			"sequence":   sequence,
		})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "basis: %s\n", a.Basis)
	fmt.Fprintf(out, "protection: %.4f\n", a.Protection)
	fmt.Fprintf(out, "susceptibility: %.4f\n", a.Susceptibility)
	if len(sequence) > 0 {
		fmt.Fprintf(out, "%s sequence: first %.4f, last %.4f\n", pattern, sequence[0], sequence[len(sequence)-1])
	}
	return nil
}

func yesIfSet(months string) string {
	if months == "" {
		return "No"
	}
	return "Yes"
}

func noOrYes(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
