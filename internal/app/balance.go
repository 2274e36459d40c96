package app

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/liftwatch/internal/analyzer"
	"github.com/blackwell-systems/liftwatch/internal/output"
)

var (
	balanceCategory string
	balanceDetails  bool
	balanceWindow   window
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Muscle balance against the ideal distribution",
	Long: `Compare each muscle group's share of total volume with its ideal share
and with its antagonist, then rank groups by how far they are off. Each group
gets a priority, a development stage, recommendations and warnings.

Examples:
  liftwatch balance
  liftwatch balance --details
  liftwatch balance --category Espalda --json`,
	RunE: runBalance,
}

func init() {
	balanceCmd.Flags().StringVar(&balanceCategory, "category", "", "Show a single muscle group (shares stay relative to all groups)")
	balanceCmd.Flags().BoolVar(&balanceDetails, "details", false, "Print recommendations and warnings per group")
	balanceWindow.register(balanceCmd)
	rootCmd.AddCommand(balanceCmd)
}

func runBalance(cmd *cobra.Command, args []string) error {
	r, err := runReport(cmd, &balanceWindow, balanceCategory, nil)
	if err != nil {
		return err
	}
	if flagJSON {
		return writeJSON(cmd.OutOrStdout(), r.Balance)
	}
	renderBalance(cmd.OutOrStdout(), r.Balance, balanceDetails || balanceCategory != "")
	return nil
}

func renderBalance(w io.Writer, balances []analyzer.MuscleBalance, details bool) {
	fmt.Fprintln(w, output.Section("Muscle Balance"))
	fmt.Fprintln(w)

	tbl := output.NewTable("Group", "Actual", "Ideal", "Deviation", "Antagonist", "Ratio", "Priority", "Stage")
	for _, b := range balances {
		antagonist, ratio := "-", "-"
		if b.Antagonist != "" {
			antagonist = b.Antagonist
			ratio = fmt.Sprintf("%.2f / %.2f", b.AntagonistRatio, b.IdealRatio)
			if b.HasImbalance {
				ratio = output.StyleWarning.Render(ratio)
			}
		}
		tbl.AddRow(
			b.Category,
			pct(b.ActualPercentage),
			pct(b.IdealPercentage),
			output.DeviationBar(b.Deviation, 8)+" "+fmt.Sprintf("%+.1f", b.Deviation),
			antagonist,
			ratio,
			output.PriorityLabel(b.PriorityLevel),
			b.DevelopmentStage,
		)
	}
	tbl.Fprint(w)

	if !details {
		return
	}
	for _, b := range balances {
		if len(b.Recommendations) == 0 && len(b.Warnings) == 0 {
			continue
		}
		fmt.Fprintln(w)
		fmt.Fprintf(w, " %s  %s  symmetry %.0f  strength %.0f\n",
			output.StyleBold.Render(b.Category),
			output.TrendLabel(b.ProgressTrend),
			b.SymmetryScore, b.StrengthIndex)
		for _, msg := range b.Warnings {
			fmt.Fprintf(w, "   %s %s\n", output.StyleWarning.Render("!"), msg)
		}
		for _, msg := range b.Recommendations {
			fmt.Fprintf(w, "   %s %s\n", output.StyleSuccess.Render("+"), msg)
		}
	}
}
