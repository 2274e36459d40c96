package suggest

import (
	"fmt"
	"sort"

	"github.com/blackwell-systems/liftwatch/internal/analyzer"
)

// RankSuggestions sorts suggestions by ImpactScore in descending order.
// Ties fall back to priority, then category and title, so the order is stable
// across runs.
func RankSuggestions(suggestions []Suggestion) []Suggestion {
	sorted := make([]Suggestion, len(suggestions))
	copy(sorted, suggestions)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.ImpactScore != b.ImpactScore {
			return a.ImpactScore > b.ImpactScore
		}
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		return a.Title < b.Title
	})
	return sorted
}

// ComputeImpact calculates an impact score for a suggestion.
// Formula: (affectedSessions * severity * gain) / effort
//
// Parameters:
//   - affectedSessions: training sessions touched by the issue
//   - severity: how far off target the category is (0.0-1.0)
//   - gain: expected benefit of acting on the suggestion
//   - effort: relative effort to act on it
//
// Returns 0 if effort is zero to avoid division by zero.
func ComputeImpact(affectedSessions int, severity float64, gain float64, effort float64) float64 {
	if effort <= 0 {
		return 0
	}
	return (float64(affectedSessions) * severity * gain) / effort
}

// priorityGain weights more urgent suggestions higher.
func priorityGain(priority int) float64 {
	switch priority {
	case PriorityCritical:
		return 10
	case PriorityHigh:
		return 6
	case PriorityMedium:
		return 3
	default:
		return 1
	}
}

func describe(b analyzer.MuscleBalance) string {
	return fmt.Sprintf("%s: %.1f%% of volume (ideal %.0f%%), priority %s, stage %s, strength index %.0f",
		b.Category, b.ActualPercentage, b.IdealPercentage, b.PriorityLevel, b.DevelopmentStage, b.StrengthIndex)
}
