// Package workout defines the training data model consumed by the analyzer:
// exercises, workout records and weekly exercise assignments.
package workout

import (
	"fmt"
	"sort"
	"time"
)

// Uncategorized is the label used for records whose exercise cannot be
// resolved or whose exercise carries no category.
const Uncategorized = "Sin categoría"

// SetDetail is a single set within a record that tracks per-set variation.
type SetDetail struct {
	Weight float64 `json:"weight" yaml:"weight"`
	Reps   int     `json:"reps" yaml:"reps"`
}

// Record is one logged exercise entry. When IndividualSets is non-empty it
// is authoritative over the aggregate Weight/Reps/Sets fields.
type Record struct {
	ID             string      `json:"id" yaml:"id"`
	ExerciseID     string      `json:"exerciseId" yaml:"exerciseId"`
	Weight         float64     `json:"weight" yaml:"weight"`
	Reps           int         `json:"reps" yaml:"reps"`
	Sets           int         `json:"sets" yaml:"sets"`
	Date           time.Time   `json:"date" yaml:"date"`
	DayOfWeek      string      `json:"dayOfWeek,omitempty" yaml:"dayOfWeek,omitempty"`
	IndividualSets []SetDetail `json:"individualSets,omitempty" yaml:"individualSets,omitempty"`
}

// Load returns the record's training load as a tagged variant.
func (r Record) Load() Load {
	if len(r.IndividualSets) > 0 {
		return DetailedSets(r.IndividualSets)
	}
	return Aggregate{Weight: r.Weight, Reps: r.Reps, Sets: r.Sets}
}

// Weekday returns the record's day-of-week label, deriving it from the date
// when the stored label is empty.
func (r Record) Weekday() string {
	if r.DayOfWeek != "" {
		return r.DayOfWeek
	}
	return DayOfWeek(r.Date)
}

// Exercise is a named movement tagged with one or more muscle-group labels.
type Exercise struct {
	ID         string   `json:"id" yaml:"id"`
	Name       string   `json:"name" yaml:"name"`
	Categories []string `json:"categories" yaml:"categories"`
}

// Assignment schedules an exercise on a day of the week.
type Assignment struct {
	ID         string `json:"id" yaml:"id"`
	ExerciseID string `json:"exerciseId" yaml:"exerciseId"`
	DayOfWeek  string `json:"dayOfWeek" yaml:"dayOfWeek"`
}

// Dataset is everything the analyzer needs, fetched by the caller.
type Dataset struct {
	Exercises   []Exercise   `json:"exercises" yaml:"exercises"`
	Records     []Record     `json:"records" yaml:"records"`
	Assignments []Assignment `json:"assignments,omitempty" yaml:"assignments,omitempty"`
}

// ExerciseIndex maps exercise ID to exercise.
func (d Dataset) ExerciseIndex() map[string]Exercise {
	idx := make(map[string]Exercise, len(d.Exercises))
	for _, ex := range d.Exercises {
		idx[ex.ID] = ex
	}
	return idx
}

// SortedRecords returns a copy of records ordered by date, then ID. The input
// slice is left untouched.
func SortedRecords(records []Record) []Record {
	sorted := make([]Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.Before(sorted[j].Date)
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}

// FilterByDate returns records whose date falls in [since, until]. A zero
// bound is open.
func FilterByDate(records []Record, since, until time.Time) []Record {
	if since.IsZero() && until.IsZero() {
		return records
	}
	var filtered []Record
	for _, r := range records {
		if !since.IsZero() && r.Date.Before(since) {
			continue
		}
		if !until.IsZero() && r.Date.After(until) {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered
}

// Day truncates t to its calendar day in t's location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

var weekdayLabels = [...]string{
	"Domingo", "Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado",
}

// DayOfWeek returns the day label used by the app for t.
func DayOfWeek(t time.Time) string {
	return weekdayLabels[t.Weekday()]
}

// FilterByExercise returns a copy of d keeping only records of the exercise
// whose ID or name matches key (names compare case-insensitively).
func (d Dataset) FilterByExercise(key string) Dataset {
	ids := make(map[string]bool)
	for _, ex := range d.Exercises {
		if ex.ID == key || SameLabel(ex.Name, key) {
			ids[ex.ID] = true
		}
	}
	ids[key] = true

	out := d
	out.Records = nil
	for _, r := range d.Records {
		if ids[r.ExerciseID] {
			out.Records = append(out.Records, r)
		}
	}
	return out
}

// ParseBound parses a date filter given as RFC 3339 or YYYY-MM-DD. Empty is
// the zero (open) bound. A bare date used as an upper bound covers the
// whole day.
func ParseBound(s string, upper bool) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD or RFC 3339)", s)
	}
	if upper {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return t, nil
}
