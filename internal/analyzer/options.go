package analyzer

import (
	"time"

	"github.com/blackwell-systems/liftwatch/internal/workout"
)

// RateCutpoints are the weekly %-gain boundaries for progress rate labels.
// A rate below Moderate is "slow".
type RateCutpoints struct {
	Exceptional float64 `json:"exceptional"`
	Fast        float64 `json:"fast"`
	Moderate    float64 `json:"moderate"`
}

// PlateauRules controls plateau and breakthrough detection.
type PlateauRules struct {
	// TolerancePct is the largest session-to-session |change| still counted as flat.
	TolerancePct float64 `json:"tolerance_pct"`
	// MinSessions is the shortest flat run (in sessions) that counts as a plateau.
	MinSessions int `json:"min_sessions"`
	// BreakthroughPct is the smallest interval gain counted as a breakthrough.
	BreakthroughPct float64 `json:"breakthrough_pct"`
}

// Thresholds are the tunable cutpoints of the engine.
type Thresholds struct {
	// TrendPct is the recent-vs-earlier 1RM change (%) needed to leave "stable".
	TrendPct float64       `json:"trend_pct"`
	Rates    RateCutpoints `json:"rates"`
	Plateau  PlateauRules  `json:"plateau"`
}

// DefaultThresholds returns the shipped cutpoints.
func DefaultThresholds() Thresholds {
	return Thresholds{
		TrendPct: 2,
		Rates:    RateCutpoints{Exceptional: 2.0, Fast: 1.0, Moderate: 0.25},
		Plateau:  PlateauRules{TolerancePct: 2, MinSessions: 3, BreakthroughPct: 5},
	}
}

// Options configures an analysis run.
type Options struct {
	Tables     Tables
	Thresholds Thresholds

	// Now is the reference time for "days since" figures. The zero value
	// means the date of the latest record; the wall clock is never read.
	Now time.Time

	// Category restricts category output to one label. Empty means all.
	Category string
}

func (o Options) withDefaults() Options {
	if len(o.Tables.Categories) == 0 {
		o.Tables = DefaultTables()
	}
	d := DefaultThresholds()
	if o.Thresholds.TrendPct <= 0 {
		o.Thresholds.TrendPct = d.TrendPct
	}
	if o.Thresholds.Rates == (RateCutpoints{}) {
		o.Thresholds.Rates = d.Rates
	}
	if o.Thresholds.Plateau.TolerancePct <= 0 {
		o.Thresholds.Plateau.TolerancePct = d.Plateau.TolerancePct
	}
	if o.Thresholds.Plateau.MinSessions < 2 {
		o.Thresholds.Plateau.MinSessions = d.Plateau.MinSessions
	}
	if o.Thresholds.Plateau.BreakthroughPct <= 0 {
		o.Thresholds.Plateau.BreakthroughPct = d.Plateau.BreakthroughPct
	}
	return o
}

// Input is the read-only data an analysis runs over.
type Input struct {
	Records     []workout.Record
	Exercises   map[string]workout.Exercise
	Assignments []workout.Assignment
}

// NewInput builds an Input from a dataset.
func NewInput(ds workout.Dataset) Input {
	return Input{
		Records:     ds.Records,
		Exercises:   ds.ExerciseIndex(),
		Assignments: ds.Assignments,
	}
}

// resolve returns the exercise for id, or nil when it is unknown.
func (in Input) resolve(id string) *workout.Exercise {
	ex, ok := in.Exercises[id]
	if !ok {
		return nil
	}
	return &ex
}

// referenceTime returns opts.Now, or the latest record date when unset.
func referenceTime(records []workout.Record, now time.Time) time.Time {
	if !now.IsZero() {
		return now
	}
	var latest time.Time
	for _, r := range records {
		if r.Date.After(latest) {
			latest = r.Date
		}
	}
	return latest
}
