package app

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/liftwatch/internal/output"
	"github.com/blackwell-systems/liftwatch/internal/store"
)

var (
	trackCompare int
	trackHistory int
	trackWindow  window
)

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Snapshot and compare metrics over time",
	Long: `Run the full analysis, store a snapshot of its headline metrics and
per-group balance, and compare against an earlier snapshot with trend arrows.

Examples:
  liftwatch track                # compare with the previous snapshot
  liftwatch track --compare 4    # compare with the 4th previous snapshot
  liftwatch track --history 6    # metric timeline over the last 6 snapshots`,
	RunE: runTrack,
}

func init() {
	trackCmd.Flags().IntVar(&trackCompare, "compare", 1, "Compare against Nth previous snapshot (1 = most recent)")
	trackCmd.Flags().IntVar(&trackHistory, "history", 0, "Show metric trends across N most recent snapshots")
	trackWindow.register(trackCmd)
	rootCmd.AddCommand(trackCmd)
}

// snapshotDiff pairs two snapshots with their metric deltas.
type snapshotDiff struct {
	Previous *store.Snapshot     `json:"previous"`
	Current  *store.Snapshot     `json:"current"`
	Deltas   []store.MetricDelta `json:"deltas"`
}

func runTrack(cmd *cobra.Command, args []string) error {
	if trackCompare < 1 {
		return fmt.Errorf("--compare must be at least 1, got %d", trackCompare)
	}

	r, err := runReport(cmd, &trackWindow, "", nil)
	if err != nil {
		return err
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	snapshotID, err := db.SaveReport(cmd.Context(), r, "track", appVersion)
	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}

	out := cmd.OutOrStdout()
	if trackHistory > 0 {
		if flagJSON {
			return outputHistoryJSON(out, db, trackHistory)
		}
		return renderHistory(out, db, trackHistory)
	}

	// trackCompare=1 means compare against the immediate predecessor (offset 2 from newest).
	prevSnapshot, err := db.GetSnapshotN(trackCompare + 1)
	if err != nil {
		return fmt.Errorf("loading previous snapshot: %w", err)
	}
	currentSnapshot, err := db.GetLatestSnapshot()
	if err != nil {
		return fmt.Errorf("loading current snapshot: %w", err)
	}

	var diff *snapshotDiff
	if prevSnapshot != nil {
		deltas, err := db.CompareSnapshots(prevSnapshot.ID, snapshotID)
		if err != nil {
			return fmt.Errorf("comparing snapshots: %w", err)
		}
		diff = &snapshotDiff{Previous: prevSnapshot, Current: currentSnapshot, Deltas: deltas}
	}

	if flagJSON {
		result := map[string]any{"snapshot": currentSnapshot}
		if diff != nil {
			result["diff"] = diff
		}
		return writeJSON(out, result)
	}
	renderTrackOutput(out, currentSnapshot, diff)
	return nil
}

// higherIsBetter reports whether growth in the named metric is progress.
func higherIsBetter(name string) bool {
	switch name {
	case store.MetricUnresolvedRecords, store.MetricPlateauRisk, store.MetricSuggestions:
		return false
	default:
		return true
	}
}

// metricDisplayOrder defines the order headline metrics appear in history output.
var metricDisplayOrder = []string{
	store.MetricTotalVolume,
	store.MetricCurrentMax,
	store.MetricProgressPct,
	store.MetricPlateauRisk,
	store.MetricSuggestions,
	store.MetricUnresolvedRecords,
}

// metricShortName returns a compact label for display.
func metricShortName(name string) string {
	short := map[string]string{
		store.MetricTotalVolume:       "Total Volume (kg)",
		store.MetricCurrentMax:        "Est. 1RM (kg)",
		store.MetricProgressPct:       "Progress %",
		store.MetricPlateauRisk:       "Plateau Risk",
		store.MetricSuggestions:       "Suggestions",
		store.MetricUnresolvedRecords: "Unresolved Records",
	}
	if s, ok := short[name]; ok {
		return s
	}
	if group, ok := strings.CutPrefix(name, "volume:"); ok {
		return group + " volume"
	}
	return name
}

func renderTrackOutput(w io.Writer, current *store.Snapshot, diff *snapshotDiff) {
	fmt.Fprintln(w, output.Section("Track: Snapshot Comparison"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, " Snapshot #%d taken at %s\n\n", current.ID, current.TakenAt.Format("2006-01-02 15:04:05"))

	if diff == nil {
		fmt.Fprintln(w, " First snapshot recorded. Run 'liftwatch track' again later to see trends.")
		return
	}

	fmt.Fprintf(w, " Comparing against snapshot #%d (%s)\n\n",
		diff.Previous.ID, diff.Previous.TakenAt.Format("2006-01-02 15:04:05"))

	tbl := output.NewTable("Metric", "Previous", "Current", "Delta", "Trend")
	for _, d := range diff.Deltas {
		tbl.AddRow(
			metricShortName(d.Name),
			fmt.Sprintf("%.1f", d.Previous),
			fmt.Sprintf("%.1f", d.Current),
			fmt.Sprintf("%+.1f", d.Delta),
			output.TrendArrow(d.Delta, higherIsBetter(d.Name)),
		)
	}
	tbl.Fprint(w)
}

// renderHistory shows a multi-snapshot timeline table.
func renderHistory(w io.Writer, db *store.DB, n int) error {
	snapshots, err := db.GetRecentSnapshots(n)
	if err != nil {
		return fmt.Errorf("loading snapshots: %w", err)
	}
	slices.Reverse(snapshots)

	timeline := make([]map[string]float64, 0, len(snapshots))
	for _, s := range snapshots {
		metrics, err := db.GetAggregateMetrics(s.ID)
		if err != nil {
			return fmt.Errorf("loading metrics for snapshot #%d: %w", s.ID, err)
		}
		m := make(map[string]float64, len(metrics))
		for _, am := range metrics {
			m[am.MetricName] = am.MetricValue
		}
		timeline = append(timeline, m)
	}

	fmt.Fprintln(w, output.Section("Track: Metric History"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, " Showing %d most recent snapshots\n\n", len(snapshots))

	headers := []string{"Metric"}
	for _, s := range snapshots {
		headers = append(headers, fmt.Sprintf("#%d %s", s.ID, s.TakenAt.Format("Jan 02")))
	}
	headers = append(headers, "Trend")
	tbl := output.NewTable(headers...)

	for _, name := range metricDisplayOrder {
		row := []string{metricShortName(name)}
		var vals []float64
		for _, m := range timeline {
			v, ok := m[name]
			if !ok {
				row = append(row, "-")
				continue
			}
			vals = append(vals, v)
			row = append(row, fmt.Sprintf("%.1f", v))
		}
		trend := ""
		if len(vals) >= 2 {
			trend = output.TrendArrow(vals[len(vals)-1]-vals[0], higherIsBetter(name))
		}
		tbl.AddRow(append(row, trend)...)
	}
	tbl.Fprint(w)
	return nil
}

// outputHistoryJSON writes the history data as JSON.
func outputHistoryJSON(w io.Writer, db *store.DB, n int) error {
	snapshots, err := db.GetRecentSnapshots(n)
	if err != nil {
		return fmt.Errorf("loading snapshots: %w", err)
	}
	slices.Reverse(snapshots)

	type snapshotEntry struct {
		Snapshot store.Snapshot          `json:"snapshot"`
		Metrics  []store.AggregateMetric `json:"metrics"`
		Balance  []store.BalanceRow      `json:"balance"`
	}

	entries := []snapshotEntry{}
	for _, s := range snapshots {
		metrics, err := db.GetAggregateMetrics(s.ID)
		if err != nil {
			return fmt.Errorf("loading metrics for snapshot #%d: %w", s.ID, err)
		}
		balance, err := db.GetBalanceRows(s.ID)
		if err != nil {
			return fmt.Errorf("loading balance for snapshot #%d: %w", s.ID, err)
		}
		entries = append(entries, snapshotEntry{Snapshot: s, Metrics: metrics, Balance: balance})
	}
	return writeJSON(w, map[string]any{"history": entries})
}
