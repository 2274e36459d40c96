package app

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/liftwatch/internal/analyzer"
	"github.com/blackwell-systems/liftwatch/internal/output"
	"github.com/blackwell-systems/liftwatch/internal/workout"
)

var (
	strengthExercise string
	strengthWindow   window
)

var strengthCmd = &cobra.Command{
	Use:   "strength",
	Short: "Whole-history strength progress",
	Long: `Track estimated 1RM across the whole history (or one exercise): overall
progress and rate, plateaus and breakthroughs, 4- and 12-week predictions,
strength phase, training zone, rep-range effectiveness and quality scores.

Examples:
  liftwatch strength
  liftwatch strength --exercise "Press inclinado"
  liftwatch strength --since 2026-01-01 --json`,
	RunE: runStrength,
}

func init() {
	strengthCmd.Flags().StringVar(&strengthExercise, "exercise", "", "Restrict to one exercise, by id or name")
	strengthWindow.register(strengthCmd)
	rootCmd.AddCommand(strengthCmd)
}

// strengthOutput is the JSON shape of the strength command.
type strengthOutput struct {
	Available bool                               `json:"available"`
	Analysis  *analyzer.StrengthProgressAnalysis `json:"analysis,omitempty"`
	Warnings  []string                           `json:"warnings"`
}

func runStrength(cmd *cobra.Command, args []string) error {
	var narrow func(workout.Dataset) workout.Dataset
	if strengthExercise != "" {
		narrow = func(ds workout.Dataset) workout.Dataset { return ds.FilterByExercise(strengthExercise) }
	}
	r, err := runReport(cmd, &strengthWindow, "", narrow)
	if err != nil {
		return err
	}
	if flagJSON {
		return writeJSON(cmd.OutOrStdout(), strengthOutput{
			Available: r.StrengthAvailable,
			Analysis:  r.Strength,
			Warnings:  r.StrengthWarnings,
		})
	}
	renderStrength(cmd.OutOrStdout(), r.Strength, r.StrengthWarnings)
	return nil
}

func renderStrength(w io.Writer, s *analyzer.StrengthProgressAnalysis, warnings []string) {
	fmt.Fprintln(w, output.Section("Strength Progress"))
	fmt.Fprintln(w)
	if s == nil {
		fmt.Fprintln(w, " No records to analyze.")
		return
	}

	row := func(label, value string) {
		fmt.Fprintf(w, " %s %s\n", output.StyleLabel.Render(label), output.StyleValue.Render(value))
	}
	p := s.OverallProgress
	row("Current max (est. 1RM)", kg(s.CurrentMax))
	row("Sessions", fmt.Sprintf("%d (%d records)", s.SessionCount, s.RecordCount))
	row("Period", fmt.Sprintf("%s to %s", s.FirstSession.Format("2006-01-02"), s.LastSession.Format("2006-01-02")))
	row("Progress", fmt.Sprintf("%s -> %s  %s", kg(p.Start), kg(p.End), output.TrendArrowPercent(p.Percentage, true)))
	row("Weekly rate", fmt.Sprintf("%.2f%%/wk (%s)", p.WeeklyRate, p.Rate))

	fmt.Fprintln(w, output.Section("Consistency"))
	c := s.Consistency
	row("Progression", output.ScoreBar(c.ProgressionConsistency, 20))
	row("Volatility", output.ScoreBar(c.VolatilityIndex, 20))
	row("Plateau periods", fmt.Sprintf("%d", c.PlateauPeriods))
	row("Breakthroughs", fmt.Sprintf("%d", c.BreakthroughCount))

	fmt.Fprintln(w, output.Section("Predictions"))
	pr := s.Predictions
	row("4 weeks", kg(pr.FourWeekPR))
	row("12 weeks", kg(pr.TwelveWeekPR))
	row("Plateau risk", output.ScoreBar(pr.PlateauRisk, 20))
	if pr.TimeToNextPR > 0 {
		row("Next PR in", fmt.Sprintf("~%d sessions", pr.TimeToNextPR))
	}
	row("Confidence", output.ScoreBar(pr.Confidence, 20))

	fmt.Fprintln(w, output.Section("Programming"))
	row("Phase", fmt.Sprintf("%s (%.0f%% to elite)", s.StrengthCurve.Phase, s.StrengthCurve.Potential))
	t := s.Training
	row("Zone", fmt.Sprintf("%s @ RPE %.1f", t.IntensityZone, t.SuggestedRPE))
	row("Volume adjustment", fmt.Sprintf("%+.0f%%", t.VolumeAdjustment))
	row("Frequency adjustment", fmt.Sprintf("%+d/wk", t.FrequencyAdjustment))
	fmt.Fprintf(w, " %s\n", output.StyleMuted.Render(t.PeriodizationTip))

	if len(s.RepRanges) > 0 {
		fmt.Fprintln(w, output.Section("Rep Ranges"))
		fmt.Fprintln(w)
		tbl := output.NewTable("Range", "Sets", "Volume", "Max", "Progress", "Effectiveness")
		for _, rr := range s.RepRanges {
			tbl.AddRow(rr.Label, fmt.Sprintf("%d", rr.SetCount), fmt.Sprintf("%.0f", rr.Volume),
				kg(rr.MaxWeight), pct(rr.ProgressRate), output.ScoreBar(rr.Effectiveness, 10))
		}
		tbl.Fprint(w)
	}

	fmt.Fprintln(w, output.Section("Quality"))
	q := s.Quality
	row("Form consistency", output.ScoreBar(q.FormConsistency, 20))
	row("Load progression", output.ScoreBar(q.LoadProgression, 20))
	row("Volume optimization", output.ScoreBar(q.VolumeOptimization, 20))
	row("Recovery", output.ScoreBar(q.RecoveryIndicators, 20))

	if len(warnings) > 0 {
		fmt.Fprintln(w)
		for _, msg := range warnings {
			fmt.Fprintf(w, " %s %s\n", output.StyleWarning.Render("!"), msg)
		}
	}
}
