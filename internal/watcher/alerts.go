package watcher

import (
	"fmt"
	"sort"

	"github.com/blackwell-systems/liftwatch/internal/analyzer"
	"github.com/blackwell-systems/liftwatch/internal/workout"
)

// plateauAlertRisk is the plateau risk at which the watcher raises an alarm.
const plateauAlertRisk = 70

// Compare detects notable changes between two watch states and returns
// alerts, critical first. Within a level, categories are visited in name
// order so the output is stable.
func Compare(prev, curr *WatchState) []Alert {
	var alerts []Alert
	alerts = append(alerts, compareCritical(prev, curr)...)
	alerts = append(alerts, compareWarning(prev, curr)...)
	alerts = append(alerts, compareInfo(prev, curr)...)
	for i := range alerts {
		alerts[i].Time = curr.Timestamp
	}
	return alerts
}

func compareCritical(prev, curr *WatchState) []Alert {
	var alerts []Alert

	for _, cat := range sortedKeys(curr.Priority) {
		was, seen := prev.Priority[cat]
		if !seen || was == analyzer.PriorityCritical || curr.Priority[cat] != analyzer.PriorityCritical {
			continue
		}
		alerts = append(alerts, Alert{
			Level:   LevelCritical,
			Title:   fmt.Sprintf("Critical priority: %s", cat),
			Message: fmt.Sprintf("%s escalated from %s to critical", cat, was),
		})
	}

	if curr.PlateauRisk >= plateauAlertRisk && prev.PlateauRisk < plateauAlertRisk {
		alerts = append(alerts, Alert{
			Level:   LevelCritical,
			Title:   "Plateau risk",
			Message: fmt.Sprintf("Plateau risk rose to %.0f%% (was %.0f%%); consider a deload or a new stimulus", curr.PlateauRisk, prev.PlateauRisk),
		})
	}

	return alerts
}

func compareWarning(prev, curr *WatchState) []Alert {
	var alerts []Alert

	for _, cat := range sortedKeys(curr.Stage) {
		was, seen := prev.Stage[cat]
		if seen && was != analyzer.StageNeglected && curr.Stage[cat] == analyzer.StageNeglected {
			alerts = append(alerts, Alert{
				Level:   LevelWarning,
				Title:   fmt.Sprintf("Neglected: %s", cat),
				Message: fmt.Sprintf("%s dropped from %s to neglected", cat, was),
			})
		}
	}

	for _, cat := range sortedKeys(curr.Severity) {
		was, seen := prev.Severity[cat]
		if seen && was != analyzer.SeveritySevere && curr.Severity[cat] == analyzer.SeveritySevere {
			alerts = append(alerts, Alert{
				Level:   LevelWarning,
				Title:   fmt.Sprintf("Severe imbalance: %s", cat),
				Message: fmt.Sprintf("%s is now severely out of ratio with its antagonist", cat),
			})
		}
	}

	for _, cat := range sortedKeys(curr.Trend) {
		was, seen := prev.Trend[cat]
		if seen && was != analyzer.TrendDeclining && curr.Trend[cat] == analyzer.TrendDeclining {
			alerts = append(alerts, Alert{
				Level:   LevelWarning,
				Title:   fmt.Sprintf("Declining: %s", cat),
				Message: fmt.Sprintf("Estimated 1RM for %s is trending down (was %s)", cat, was),
			})
		}
	}

	return alerts
}

func compareInfo(prev, curr *WatchState) []Alert {
	var alerts []Alert

	for _, r := range newRecords(prev, curr) {
		alerts = append(alerts, Alert{
			Level:   LevelInfo,
			Title:   fmt.Sprintf("Logged: %s", exerciseName(curr, r.ExerciseID)),
			Message: describeRecord(r),
		})
	}

	if prev.CurrentMax > 0 && curr.CurrentMax > prev.CurrentMax {
		alerts = append(alerts, Alert{
			Level:   LevelInfo,
			Title:   "New estimated max",
			Message: fmt.Sprintf("Estimated 1RM %.1f kg (previous best %.1f kg)", curr.CurrentMax, prev.CurrentMax),
		})
	}

	for _, cat := range sortedKeys(curr.Stage) {
		if prev.Stage[cat] == analyzer.StageNeglected && curr.Stage[cat] != analyzer.StageNeglected {
			alerts = append(alerts, Alert{
				Level:   LevelInfo,
				Title:   fmt.Sprintf("Back in training: %s", cat),
				Message: fmt.Sprintf("%s is no longer neglected (%s)", cat, curr.Stage[cat]),
			})
		}
	}

	for _, cat := range sortedKeys(curr.Priority) {
		if prev.Priority[cat] == analyzer.PriorityCritical && curr.Priority[cat] != analyzer.PriorityCritical {
			alerts = append(alerts, Alert{
				Level:   LevelInfo,
				Title:   fmt.Sprintf("Recovered: %s", cat),
				Message: fmt.Sprintf("%s priority eased from critical to %s", cat, curr.Priority[cat]),
			})
		}
	}

	return alerts
}

func describeRecord(r workout.Record) string {
	load := r.Load()
	return fmt.Sprintf("%d sets, %d reps, top %.1f kg, est. 1RM %.1f kg on %s",
		load.SetCount(), load.TotalReps(), load.MaxWeight(), analyzer.RecordOneRepMax(r), r.Date.Format("2006-01-02"))
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
