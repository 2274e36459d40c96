package suggest

import (
	"fmt"
	"math"
	"strings"

	"github.com/blackwell-systems/liftwatch/internal/analyzer"
)

// AntagonistPrefix starts every antagonist-pair warning.
const AntagonistPrefix = "Antagonist imbalance"

// PairOwner returns which of two antagonists reports their shared imbalance.
// An untrained side owns it against a trained one; otherwise the side with
// the larger |Deviation| from its own ideal share does, ties going to the
// smaller name.
func PairOwner(a, b analyzer.MuscleBalance) string {
	switch {
	case a.Volume == 0 && b.Volume > 0:
		return a.Category
	case b.Volume == 0 && a.Volume > 0:
		return b.Category
	}
	da, db := math.Abs(a.Deviation), math.Abs(b.Deviation)
	switch {
	case da > db:
		return a.Category
	case db > da:
		return b.Category
	case a.Category < b.Category:
		return a.Category
	default:
		return b.Category
	}
}

func pairImbalanced(ctx *BalanceContext) bool {
	return ctx.Antagonist != nil && (ctx.Balance.HasImbalance || ctx.Antagonist.HasImbalance)
}

// WarningRules are evaluated in order; the antagonist rule stays first so any
// cap keeps it.
var WarningRules = []Rule{
	{
		Name: "antagonist_imbalance",
		Kind: KindWarning,
		Applies: func(ctx *BalanceContext) bool {
			return ctx.OwnsPair && pairImbalanced(ctx)
		},
		Message: func(ctx *BalanceContext) string {
			b, a := ctx.Balance, ctx.Antagonist
			severity := b.ImbalanceSeverity
			if severity == analyzer.SeverityBalanced {
				severity = a.ImbalanceSeverity
			}
			switch {
			case b.Volume == 0:
				return fmt.Sprintf("%s: %s is untrained while %s carries all the pair's volume (%s)",
					AntagonistPrefix, b.Category, a.Category, severity)
			case a.Volume == 0:
				return fmt.Sprintf("%s: %s is trained with no %s work to balance it (%s)",
					AntagonistPrefix, b.Category, a.Category, severity)
			default:
				return fmt.Sprintf("%s: %s/%s ratio is %.2f against an ideal of %.2f (%s, %s %s)",
					AntagonistPrefix, b.Category, a.Category, b.AntagonistRatio, b.IdealRatio,
					severity, strings.ReplaceAll(b.ImbalanceDirection, "_", " "), b.Category)
			}
		},
	},
	{
		Name:    "neglected",
		Kind:    KindWarning,
		Applies: func(ctx *BalanceContext) bool { return ctx.Balance.DevelopmentStage == analyzer.StageNeglected },
		Message: func(ctx *BalanceContext) string {
			if ctx.Balance.Volume == 0 {
				return fmt.Sprintf("%s has no recorded training", ctx.Balance.Category)
			}
			return fmt.Sprintf("%s is neglected: %.2f workouts per week", ctx.Balance.Category, ctx.Balance.WeeklyFrequency)
		},
	},
	{
		Name: "overtrained_share",
		Kind: KindWarning,
		Applies: func(ctx *BalanceContext) bool {
			return ctx.Balance.Deviation > 15
		},
		Message: func(ctx *BalanceContext) string {
			b := ctx.Balance
			return fmt.Sprintf("%s takes %.1f%% of total volume against an ideal of %.0f%%",
				b.Category, b.ActualPercentage, b.IdealPercentage)
		},
	},
	{
		Name:    "declining_strength",
		Kind:    KindWarning,
		Applies: func(ctx *BalanceContext) bool { return ctx.Balance.ProgressTrend == analyzer.TrendDeclining },
		Message: func(ctx *BalanceContext) string {
			return fmt.Sprintf("Estimated 1RM for %s is declining", ctx.Balance.Category)
		},
	},
	{
		Name: "long_gap",
		Kind: KindWarning,
		Applies: func(ctx *BalanceContext) bool {
			return ctx.Metrics.WorkoutCount > 0 && ctx.Metrics.DaysSinceLastWorkout > 14
		},
		Message: func(ctx *BalanceContext) string {
			return fmt.Sprintf("No %s training in %d days", ctx.Balance.Category, ctx.Metrics.DaysSinceLastWorkout)
		},
	},
	{
		Name: "erratic_volume",
		Kind: KindWarning,
		Applies: func(ctx *BalanceContext) bool {
			return ctx.Metrics.SessionCount >= 3 && ctx.Balance.BalanceHistory.Volatility > 60
		},
		Message: func(ctx *BalanceContext) string {
			return fmt.Sprintf("%s session volume is erratic (volatility %.0f)", ctx.Balance.Category, ctx.Balance.BalanceHistory.Volatility)
		},
	},
}

// RecommendationRules are evaluated in order, most actionable first.
var RecommendationRules = []Rule{
	{
		Name:    "increase_volume",
		Kind:    KindRecommendation,
		Applies: func(ctx *BalanceContext) bool { return ctx.Balance.Deviation < -5 },
		Message: func(ctx *BalanceContext) string {
			b := ctx.Balance
			return fmt.Sprintf("Increase %s volume by about %.0f points of total (%.1f%% now, %.0f%% ideal)",
				b.Category, -b.Deviation, b.ActualPercentage, b.IdealPercentage)
		},
	},
	{
		Name:    "reduce_volume",
		Kind:    KindRecommendation,
		Applies: func(ctx *BalanceContext) bool { return ctx.Balance.Deviation > 5 },
		Message: func(ctx *BalanceContext) string {
			b := ctx.Balance
			if b.Antagonist != "" {
				return fmt.Sprintf("Shift some %s volume to %s (%.1f%% now, %.0f%% ideal)",
					b.Category, b.Antagonist, b.ActualPercentage, b.IdealPercentage)
			}
			return fmt.Sprintf("Reduce %s volume (%.1f%% now, %.0f%% ideal)", b.Category, b.ActualPercentage, b.IdealPercentage)
		},
	},
	{
		Name: "raise_frequency",
		Kind: KindRecommendation,
		Applies: func(ctx *BalanceContext) bool {
			return ctx.Balance.Volume > 0 && ctx.Balance.WeeklyFrequency < 1
		},
		Message: func(ctx *BalanceContext) string {
			return fmt.Sprintf("Train %s at least once a week (%.2f workouts per week now)",
				ctx.Balance.Category, ctx.Balance.WeeklyFrequency)
		},
	},
	{
		Name: "missed_days",
		Kind: KindRecommendation,
		Applies: func(ctx *BalanceContext) bool {
			return len(ctx.Metrics.MissedProgrammedDays) > 0
		},
		Message: func(ctx *BalanceContext) string {
			return fmt.Sprintf("%s is programmed on %s but was never trained on those days",
				ctx.Balance.Category, strings.Join(ctx.Metrics.MissedProgrammedDays, ", "))
		},
	},
	{
		Name: "progressive_overload",
		Kind: KindRecommendation,
		Applies: func(ctx *BalanceContext) bool {
			return ctx.Balance.Volume > 0 && ctx.Balance.StrengthIndex < 25
		},
		Message: func(ctx *BalanceContext) string {
			return fmt.Sprintf("Build base strength in %s with small weekly load increases", ctx.Balance.Category)
		},
	},
	{
		Name: "keep_going",
		Kind: KindRecommendation,
		Applies: func(ctx *BalanceContext) bool {
			return ctx.Balance.IsBalanced && ctx.Balance.Volume > 0 && ctx.Balance.ProgressTrend == analyzer.TrendImproving
		},
		Message: func(ctx *BalanceContext) string {
			return fmt.Sprintf("%s is balanced and improving: keep the current programming", ctx.Balance.Category)
		},
	},
}

// StrengthRules produce whole-history warnings.
var StrengthRules = []StrengthRule{
	{
		Name:    "plateau_risk",
		Applies: func(s *analyzer.StrengthProgressAnalysis) bool { return s.Predictions.PlateauRisk >= 70 },
		Message: func(s *analyzer.StrengthProgressAnalysis) string {
			return fmt.Sprintf("High plateau risk (%.0f%%): plan a deload week", s.Predictions.PlateauRisk)
		},
	},
	{
		Name:    "strength_loss",
		Applies: func(s *analyzer.StrengthProgressAnalysis) bool { return s.OverallProgress.Percentage < 0 },
		Message: func(s *analyzer.StrengthProgressAnalysis) string {
			return fmt.Sprintf("Estimated 1RM fell %.1f%% over the period", -s.OverallProgress.Percentage)
		},
	},
	{
		Name:    "volatile_strength",
		Applies: func(s *analyzer.StrengthProgressAnalysis) bool { return s.Consistency.VolatilityIndex > 10 },
		Message: func(s *analyzer.StrengthProgressAnalysis) string {
			return fmt.Sprintf("Session-to-session strength is volatile (index %.1f): check recovery and technique",
				s.Consistency.VolatilityIndex)
		},
	},
	{
		Name:    "low_confidence",
		Applies: func(s *analyzer.StrengthProgressAnalysis) bool { return s.Predictions.Confidence < 40 },
		Message: func(s *analyzer.StrengthProgressAnalysis) string {
			return fmt.Sprintf("Predictions are low confidence (%.0f%%): log more sessions", s.Predictions.Confidence)
		},
	},
}
