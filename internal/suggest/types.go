// Package suggest turns analysis signals into capped, de-duplicated
// recommendations and warnings, and ranks them for display.
package suggest

import "github.com/blackwell-systems/liftwatch/internal/analyzer"

// Priority levels for suggestions.
const (
	PriorityCritical = 1
	PriorityHigh     = 2
	PriorityMedium   = 3
	PriorityLow      = 4
)

// DefaultLimit caps recommendations and warnings per category.
const DefaultLimit = 3

// Kind separates recommendations from warnings.
type Kind string

const (
	KindRecommendation Kind = "recommendation"
	KindWarning        Kind = "warning"
)

// Suggestion is one ranked, actionable item.
type Suggestion struct {
	Category    string  `json:"category"`
	Kind        Kind    `json:"kind"`
	Priority    int     `json:"priority"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ImpactScore float64 `json:"impact_score"`
}

// BalanceContext is everything a balance rule can look at for one category.
type BalanceContext struct {
	Balance analyzer.MuscleBalance
	Metrics analyzer.CategoryMetrics

	// Antagonist is the opposing category's balance, or nil.
	Antagonist *analyzer.MuscleBalance

	// OwnsPair is true when this category reports the pair's imbalance.
	OwnsPair bool
}

// Rule is a predicate plus a message template. Rules are evaluated in order
// and the first Limit matches of each Kind are kept.
type Rule struct {
	Name    string
	Kind    Kind
	Applies func(ctx *BalanceContext) bool
	Message func(ctx *BalanceContext) string
}

// StrengthRule produces a whole-history warning.
type StrengthRule struct {
	Name    string
	Applies func(s *analyzer.StrengthProgressAnalysis) bool
	Message func(s *analyzer.StrengthProgressAnalysis) string
}

// priorityOf maps an analyzer priority label onto a suggestion priority.
func priorityOf(level string) int {
	switch level {
	case analyzer.PriorityCritical:
		return PriorityCritical
	case analyzer.PriorityHigh:
		return PriorityHigh
	case analyzer.PriorityMedium:
		return PriorityMedium
	default:
		return PriorityLow
	}
}
