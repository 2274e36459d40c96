// Package watcher re-analyzes the training log at a regular interval and
// emits alerts when the picture changes: new records, new personal bests,
// categories slipping into neglect or critical priority, rising plateau risk.
package watcher

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/blackwell-systems/liftwatch/internal/report"
	"github.com/blackwell-systems/liftwatch/internal/workout"
)

// Source supplies the dataset to analyze on each cycle.
type Source interface {
	Dataset(ctx context.Context) (workout.Dataset, error)
}

// WatchState captures a point-in-time analysis of the training log.
type WatchState struct {
	Timestamp   time.Time
	RecordCount int
	RecordIDs   map[string]bool
	CurrentMax  float64
	PlateauRisk float64

	// Per category.
	Priority map[string]string
	Stage    map[string]string
	Trend    map[string]string
	Severity map[string]string

	exercises map[string]workout.Exercise
	records   []workout.Record
}

// Alert represents a notable event detected by the watcher.
type Alert struct {
	Level   string    `json:"level"` // "info", "warning", "critical"
	Title   string    `json:"title"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// Alert levels.
const (
	LevelInfo     = "info"
	LevelWarning  = "warning"
	LevelCritical = "critical"
)

// Watcher monitors a Source at a regular interval and emits alerts when
// notable changes are detected.
type Watcher struct {
	source        Source
	interval      time.Duration
	opts          report.Options
	previous      *WatchState
	alertFn       func(Alert)     // callback for emitting alerts
	lastAlertKeys map[string]bool // dedup: suppress repeated identical alerts
	now           func() time.Time
}

// New creates a Watcher over source.
func New(source Source, interval time.Duration, opts report.Options, alertFn func(Alert)) *Watcher {
	return &Watcher{
		source:        source,
		interval:      interval,
		opts:          opts,
		alertFn:       alertFn,
		lastAlertKeys: make(map[string]bool),
		now:           time.Now,
	}
}

// Run takes an initial snapshot, then checks at every interval. Blocks until
// ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	initial, err := w.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("initial snapshot: %w", err)
	}
	w.previous = initial
	logrus.WithFields(logrus.Fields{
		"records":  initial.RecordCount,
		"interval": w.interval,
	}).Info("watching training log")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			for _, a := range w.Check(ctx) {
				if w.alertFn != nil {
					w.alertFn(a)
				}
			}
		}
	}
}

// Check performs a single cycle: snapshot, compare against the previous
// state, and return any alerts. Identical alerts are suppressed until the
// underlying data changes.
func (w *Watcher) Check(ctx context.Context) []Alert {
	curr, err := w.Snapshot(ctx)
	if err != nil {
		logrus.WithError(err).Warn("watch snapshot failed")
		return []Alert{{
			Level:   LevelWarning,
			Title:   "Snapshot failed",
			Message: fmt.Sprintf("Could not analyze the training log: %v", err),
			Time:    w.now(),
		}}
	}

	var raw []Alert
	if w.previous != nil {
		raw = Compare(w.previous, curr)
	}

	currentKeys := make(map[string]bool, len(raw))
	var alerts []Alert
	for _, a := range raw {
		key := a.Level + ":" + a.Title + ":" + a.Message
		currentKeys[key] = true
		if !w.lastAlertKeys[key] {
			alerts = append(alerts, a)
		}
	}
	w.lastAlertKeys = currentKeys

	w.previous = curr
	logrus.WithFields(logrus.Fields{"records": curr.RecordCount, "alerts": len(alerts)}).Debug("watch cycle")
	return alerts
}

// Snapshot loads the dataset and runs the full analysis.
func (w *Watcher) Snapshot(ctx context.Context) (*WatchState, error) {
	ds, err := w.source.Dataset(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading dataset: %w", err)
	}
	r, err := report.Build(ctx, ds, w.opts)
	if err != nil {
		return nil, err
	}
	return stateOf(ds, r, w.now()), nil
}

func stateOf(ds workout.Dataset, r *report.Report, at time.Time) *WatchState {
	s := &WatchState{
		Timestamp:   at,
		RecordCount: len(ds.Records),
		RecordIDs:   make(map[string]bool, len(ds.Records)),
		Priority:    make(map[string]string),
		Stage:       make(map[string]string),
		Trend:       make(map[string]string),
		Severity:    make(map[string]string),
		exercises:   ds.ExerciseIndex(),
		records:     ds.Records,
	}
	for _, rec := range ds.Records {
		s.RecordIDs[rec.ID] = true
	}
	if r.Strength != nil {
		s.CurrentMax = r.Strength.CurrentMax
		s.PlateauRisk = r.Strength.Predictions.PlateauRisk
	}
	for _, b := range r.Balance {
		s.Priority[b.Category] = b.PriorityLevel
		s.Stage[b.Category] = b.DevelopmentStage
		s.Severity[b.Category] = b.ImbalanceSeverity
	}
	for _, m := range r.Categories.Metrics {
		if m.WorkoutCount > 0 {
			s.Trend[m.Category] = m.Trend
		}
	}
	return s
}

// newRecords returns records present in curr but not in prev, by ID.
func newRecords(prev, curr *WatchState) []workout.Record {
	var out []workout.Record
	for _, r := range workout.SortedRecords(curr.records) {
		if !prev.RecordIDs[r.ID] {
			out = append(out, r)
		}
	}
	return out
}

func exerciseName(s *WatchState, id string) string {
	if ex, ok := s.exercises[id]; ok && ex.Name != "" {
		return ex.Name
	}
	return id
}
