package app

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/liftwatch/internal/report"
	"github.com/blackwell-systems/liftwatch/internal/store"
	"github.com/blackwell-systems/liftwatch/internal/workout"
)

// window holds the --since/--until flags shared by the analysis commands.
type window struct {
	since string
	until string
}

func (w *window) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&w.since, "since", "", "Only records on or after this date (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().StringVar(&w.until, "until", "", "Only records on or before this date (YYYY-MM-DD or RFC 3339)")
}

// apply parses the bounds into opts.
func (w *window) apply(opts *report.Options) error {
	var err error
	if opts.Since, err = workout.ParseBound(w.since, false); err != nil {
		return fmt.Errorf("--since: %w", err)
	}
	if opts.Until, err = workout.ParseBound(w.until, true); err != nil {
		return fmt.Errorf("--until: %w", err)
	}
	if !opts.Since.IsZero() && !opts.Until.IsZero() && opts.Until.Before(opts.Since) {
		return fmt.Errorf("--until %s is before --since %s", w.until, w.since)
	}
	return nil
}

// openStore opens the configured database.
func openStore() (*store.DB, error) {
	db, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}

// reportOptions builds report options from the loaded config.
func reportOptions() (report.Options, error) {
	a, err := cfg.AnalyzerOptions()
	if err != nil {
		return report.Options{}, fmt.Errorf("loading reference tables: %w", err)
	}
	return report.Options{Analysis: a, Limit: cfg.Analysis.RecommendationLimit}, nil
}

// runReport loads the dataset and builds a report for the given window and
// category. narrow, when set, is applied to the dataset before analysis.
func runReport(cmd *cobra.Command, w *window, category string, narrow func(workout.Dataset) workout.Dataset) (*report.Report, error) {
	opts, err := reportOptions()
	if err != nil {
		return nil, err
	}
	if err := w.apply(&opts); err != nil {
		return nil, err
	}
	opts.Analysis.Category = category

	db, err := openStore()
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	ds, err := db.Dataset(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("loading dataset: %w", err)
	}
	if narrow != nil {
		ds = narrow(ds)
	}
	r, err := report.Build(cmd.Context(), ds, opts)
	if err != nil {
		return nil, err
	}
	if category != "" && len(r.Categories.Metrics) == 0 {
		return nil, fmt.Errorf("unknown category %q", category)
	}
	return r, nil
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func kg(v float64) string {
	return fmt.Sprintf("%.1f kg", v)
}

func pct(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}
