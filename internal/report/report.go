// Package report runs the full analysis pipeline over a dataset.
package report

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/blackwell-systems/liftwatch/internal/analyzer"
	"github.com/blackwell-systems/liftwatch/internal/suggest"
	"github.com/blackwell-systems/liftwatch/internal/workout"
)

// Options configures a report.
type Options struct {
	Analysis analyzer.Options

	// Since and Until bound record dates; zero values are open.
	Since time.Time
	Until time.Time

	// Limit caps recommendations and warnings per category.
	Limit int
}

// Report is the complete analysis result.
type Report struct {
	AsOf       time.Time                          `json:"as_of"`
	Categories analyzer.CategoryAnalysis          `json:"categories"`
	Balance    []analyzer.MuscleBalance           `json:"balance"`
	Strength   *analyzer.StrengthProgressAnalysis `json:"strength,omitempty"`

	// StrengthAvailable is false when there were no records to analyze.
	StrengthAvailable bool                 `json:"strength_available"`
	StrengthWarnings  []string             `json:"strength_warnings"`
	Suggestions       []suggest.Suggestion `json:"suggestions"`
	UnresolvedRecords int                  `json:"unresolved_records"`
}

// Build filters the dataset, computes category metrics, runs the balance and
// strength analyzers concurrently, then generates suggestions. The only
// error it returns is the context's.
func Build(ctx context.Context, ds workout.Dataset, opts Options) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	in := analyzer.NewInput(ds)
	in.Records = workout.FilterByDate(workout.SortedRecords(ds.Records), opts.Since, opts.Until)

	// Balance needs every category, so the filter is applied to the output only.
	unfiltered := opts.Analysis
	unfiltered.Category = ""
	cats := analyzer.AnalyzeCategories(in, unfiltered)

	var (
		balances []analyzer.MuscleBalance
		strength *analyzer.StrengthProgressAnalysis
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		balances = analyzer.AnalyzeBalance(cats, opts.Analysis)
		return gctx.Err()
	})
	g.Go(func() error {
		strength = analyzer.AnalyzeStrength(in, opts.Analysis)
		return gctx.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	engine := suggest.NewEngine(opts.Limit)
	balances = engine.Apply(balances, cats)

	r := &Report{
		AsOf:              cats.AsOf,
		Categories:        cats,
		Balance:           balances,
		Strength:          strength,
		StrengthAvailable: strength != nil,
		StrengthWarnings:  engine.StrengthWarnings(strength),
		Suggestions:       engine.Suggestions(balances, cats, strength),
		UnresolvedRecords: cats.UnresolvedRecords,
	}
	if r.Suggestions == nil {
		r.Suggestions = []suggest.Suggestion{}
	}

	if opts.Analysis.Category != "" {
		filtered := analyzer.AnalyzeCategories(in, opts.Analysis)
		r.Categories = filtered
		r.Balance = filterBalance(balances, filtered)
		r.Suggestions = filterSuggestions(r.Suggestions, filtered)
	}
	return r, nil
}

func filterBalance(balances []analyzer.MuscleBalance, cats analyzer.CategoryAnalysis) []analyzer.MuscleBalance {
	out := []analyzer.MuscleBalance{}
	for _, b := range balances {
		if cats.Find(b.Category) != nil {
			out = append(out, b)
		}
	}
	return out
}

func filterSuggestions(all []suggest.Suggestion, cats analyzer.CategoryAnalysis) []suggest.Suggestion {
	out := []suggest.Suggestion{}
	for _, s := range all {
		if cats.Find(s.Category) != nil {
			out = append(out, s)
		}
	}
	return out
}

// Find returns the balance entry for category, or nil.
func (r *Report) Find(category string) *analyzer.MuscleBalance {
	for i := range r.Balance {
		if r.Balance[i].Category == category {
			return &r.Balance[i]
		}
	}
	return nil
}
