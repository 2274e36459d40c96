package app

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/liftwatch/internal/analyzer"
	"github.com/blackwell-systems/liftwatch/internal/output"
)

var (
	analyzeCategory string
	analyzeWindow   window
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Per-muscle-group training metrics",
	Long: `Aggregate every record into its muscle groups and show volume, frequency,
estimated 1RM, progression, scores, trend and strength level per group.

Examples:
  liftwatch analyze
  liftwatch analyze --category Pecho
  liftwatch analyze --since 2026-01-01 --json`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeCategory, "category", "", "Show a single muscle group")
	analyzeWindow.register(analyzeCmd)
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	r, err := runReport(cmd, &analyzeWindow, analyzeCategory, nil)
	if err != nil {
		return err
	}
	if flagJSON {
		return writeJSON(cmd.OutOrStdout(), r.Categories)
	}
	renderCategories(cmd.OutOrStdout(), r.Categories)
	return nil
}

func renderCategories(w io.Writer, a analyzer.CategoryAnalysis) {
	fmt.Fprintln(w, output.Section("Muscle Groups"))
	fmt.Fprintln(w)

	if a.TotalRecords == 0 {
		fmt.Fprintln(w, " No records in range. Log a session with 'liftwatch record add'.")
		return
	}

	tbl := output.NewTable("Group", "Sessions", "Volume", "Freq/wk", "Est. 1RM", "Intensity", "Trend", "Level", "Last")
	for _, m := range a.Metrics {
		last := "-"
		if m.WorkoutCount > 0 {
			last = fmt.Sprintf("%dd", m.DaysSinceLastWorkout)
		}
		tbl.AddRow(
			m.Category,
			fmt.Sprintf("%d", m.SessionCount),
			fmt.Sprintf("%.0f", m.TotalVolume),
			fmt.Sprintf("%.1f", m.WeeklyFrequency),
			kg(m.EstimatedOneRM),
			output.ScoreBar(m.IntensityScore, 10),
			output.TrendLabel(m.Trend),
			m.StrengthLevel,
			last,
		)
	}
	tbl.Fprint(w)

	fmt.Fprintln(w)
	fmt.Fprintf(w, " %s %s\n", output.StyleLabel.Render("Total volume"), output.StyleValue.Render(fmt.Sprintf("%.0f kg", a.TotalVolume)))
	fmt.Fprintf(w, " %s %s\n", output.StyleLabel.Render("Records"), output.StyleValue.Render(fmt.Sprintf("%d", a.TotalRecords)))
	if a.UnresolvedRecords > 0 {
		fmt.Fprintf(w, " %s\n", output.StyleWarning.Render(fmt.Sprintf("%d record(s) reference unknown or uncategorized exercises", a.UnresolvedRecords)))
	}

	for _, m := range a.Metrics {
		if len(m.MissedProgrammedDays) > 0 {
			fmt.Fprintf(w, " %s %s missed on programmed days: %v\n", output.StyleWarning.Render("!"), m.Category, m.MissedProgrammedDays)
		}
	}
}
