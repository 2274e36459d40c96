package suggest

import (
	"math"

	"github.com/blackwell-systems/liftwatch/internal/analyzer"
)

// Engine evaluates the rule lists against analysis results.
type Engine struct {
	warnings        []Rule
	recommendations []Rule
	strength        []StrengthRule
	limit           int
}

// NewEngine creates an engine with the built-in rules. A limit below 1 uses
// DefaultLimit.
func NewEngine(limit int) *Engine {
	if limit < 1 {
		limit = DefaultLimit
	}
	return &Engine{
		warnings:        WarningRules,
		recommendations: RecommendationRules,
		strength:        StrengthRules,
		limit:           limit,
	}
}

// Limit returns the per-kind cap.
func (e *Engine) Limit() int { return e.limit }

// Apply returns a copy of balances with Recommendations and Warnings filled.
// The input slice and its elements are not modified.
func (e *Engine) Apply(balances []analyzer.MuscleBalance, cats analyzer.CategoryAnalysis) []analyzer.MuscleBalance {
	byName := make(map[string]analyzer.MuscleBalance, len(balances))
	for _, b := range balances {
		byName[b.Category] = b
	}

	out := make([]analyzer.MuscleBalance, len(balances))
	for i, b := range balances {
		ctx := &BalanceContext{Balance: b}
		if m := cats.Find(b.Category); m != nil {
			ctx.Metrics = *m
		}
		if ant, ok := byName[b.Antagonist]; ok && b.Antagonist != "" {
			ctx.Antagonist = &ant
			ctx.OwnsPair = PairOwner(b, ant) == b.Category
		}
		b.Warnings = e.evaluate(e.warnings, ctx)
		b.Recommendations = e.evaluate(e.recommendations, ctx)
		out[i] = b
	}
	return out
}

func (e *Engine) evaluate(rules []Rule, ctx *BalanceContext) []string {
	msgs := []string{}
	for _, r := range rules {
		if len(msgs) >= e.limit {
			break
		}
		if r.Applies(ctx) {
			msgs = append(msgs, r.Message(ctx))
		}
	}
	return msgs
}

// StrengthWarnings evaluates the whole-history rules. A nil analysis yields none.
func (e *Engine) StrengthWarnings(s *analyzer.StrengthProgressAnalysis) []string {
	msgs := []string{}
	if s == nil {
		return msgs
	}
	for _, r := range e.strength {
		if len(msgs) >= e.limit {
			break
		}
		if r.Applies(s) {
			msgs = append(msgs, r.Message(s))
		}
	}
	return msgs
}

// Suggestions flattens applied balances and strength warnings into one
// ranked list.
func (e *Engine) Suggestions(balances []analyzer.MuscleBalance, cats analyzer.CategoryAnalysis, s *analyzer.StrengthProgressAnalysis) []Suggestion {
	var all []Suggestion
	for _, b := range balances {
		sessions := 1
		if m := cats.Find(b.Category); m != nil && m.SessionCount > 0 {
			sessions = m.SessionCount
		}
		ideal := math.Max(1, b.IdealPercentage)
		severity := math.Min(1, math.Max(0.1, math.Abs(b.Deviation)/ideal))
		prio := priorityOf(b.PriorityLevel)
		for _, w := range b.Warnings {
			all = append(all, Suggestion{
				Category:    b.Category,
				Kind:        KindWarning,
				Priority:    prio,
				Title:       w,
				Description: describe(b),
				ImpactScore: ComputeImpact(sessions, severity, priorityGain(prio)*1.5, 1),
			})
		}
		for _, r := range b.Recommendations {
			all = append(all, Suggestion{
				Category:    b.Category,
				Kind:        KindRecommendation,
				Priority:    prio,
				Title:       r,
				Description: describe(b),
				ImpactScore: ComputeImpact(sessions, severity, priorityGain(prio), 1),
			})
		}
	}
	if s != nil {
		for _, w := range e.StrengthWarnings(s) {
			all = append(all, Suggestion{
				Category:    "strength",
				Kind:        KindWarning,
				Priority:    PriorityHigh,
				Title:       w,
				Description: s.Training.PeriodizationTip,
				ImpactScore: ComputeImpact(s.SessionCount, 0.5, priorityGain(PriorityHigh), 1),
			})
		}
	}
	return RankSuggestions(all)
}
