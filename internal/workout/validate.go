package workout

import (
	"fmt"

	"go.uber.org/multierr"
)

// Validate checks the numeric and identity invariants the analyzer relies
// on. It reports every violation, not just the first.
func Validate(ds Dataset) error {
	var errs error

	exerciseIDs := make(map[string]bool, len(ds.Exercises))
	for i, ex := range ds.Exercises {
		if ex.ID == "" {
			errs = multierr.Append(errs, fmt.Errorf("exercise #%d: empty id", i))
			continue
		}
		if exerciseIDs[ex.ID] {
			errs = multierr.Append(errs, fmt.Errorf("exercise %s: duplicate id", ex.ID))
		}
		exerciseIDs[ex.ID] = true
		if ex.Name == "" {
			errs = multierr.Append(errs, fmt.Errorf("exercise %s: empty name", ex.ID))
		}
	}

	recordIDs := make(map[string]bool, len(ds.Records))
	for i, r := range ds.Records {
		label := r.ID
		if label == "" {
			label = fmt.Sprintf("#%d", i)
		} else if recordIDs[r.ID] {
			errs = multierr.Append(errs, fmt.Errorf("record %s: duplicate id", label))
		}
		recordIDs[r.ID] = true
		errs = multierr.Append(errs, ValidateRecord(r, label))
	}

	for i, a := range ds.Assignments {
		if a.ExerciseID == "" {
			errs = multierr.Append(errs, fmt.Errorf("assignment #%d: empty exerciseId", i))
		}
		if a.DayOfWeek == "" {
			errs = multierr.Append(errs, fmt.Errorf("assignment #%d: empty dayOfWeek", i))
		}
	}

	return errs
}

// ValidateRecord checks a single record. label identifies the record in
// error messages.
func ValidateRecord(r Record, label string) error {
	var errs error
	if r.ExerciseID == "" {
		errs = multierr.Append(errs, fmt.Errorf("record %s: empty exerciseId", label))
	}
	if r.Date.IsZero() {
		errs = multierr.Append(errs, fmt.Errorf("record %s: missing date", label))
	}
	if len(r.IndividualSets) > 0 {
		for j, s := range r.IndividualSets {
			if s.Weight < 0 {
				errs = multierr.Append(errs, fmt.Errorf("record %s set %d: negative weight %.1f", label, j+1, s.Weight))
			}
			if s.Reps < 1 {
				errs = multierr.Append(errs, fmt.Errorf("record %s set %d: reps must be >= 1, got %d", label, j+1, s.Reps))
			}
		}
		return errs
	}
	if r.Weight < 0 {
		errs = multierr.Append(errs, fmt.Errorf("record %s: negative weight %.1f", label, r.Weight))
	}
	if r.Reps < 1 {
		errs = multierr.Append(errs, fmt.Errorf("record %s: reps must be >= 1, got %d", label, r.Reps))
	}
	if r.Sets < 1 {
		errs = multierr.Append(errs, fmt.Errorf("record %s: sets must be >= 1, got %d", label, r.Sets))
	}
	return errs
}
