package suggest

import (
	"strings"
	"testing"

	"github.com/blackwell-systems/liftwatch/internal/analyzer"
)

func ruleByName(rules []Rule, name string) Rule {
	for _, r := range rules {
		if r.Name == name {
			return r
		}
	}
	panic("no rule " + name)
}

// --- PairOwner ---

func TestPairOwner_LargerDeviationWinsWhenBothTrained(t *testing.T) {
	// Pecho sits far above its ideal ratio to Espalda, but Espalda is further
	// from its own ideal share.
	a := analyzer.MuscleBalance{Category: "Pecho", Volume: 2600, Deviation: 8, RatioDeviation: 217.78}
	b := analyzer.MuscleBalance{Category: "Espalda", Volume: 1000, Deviation: -12, RatioDeviation: -68.53}
	if got := PairOwner(a, b); got != "Espalda" {
		t.Errorf("expected Espalda, got %s", got)
	}
	if got := PairOwner(b, a); got != "Espalda" {
		t.Errorf("argument order changed owner to %s", got)
	}
}

func TestPairOwner_UntrainedSideWins(t *testing.T) {
	a := analyzer.MuscleBalance{Category: "Pecho", Volume: 2616, Deviation: 82, RatioDeviation: 100}
	b := analyzer.MuscleBalance{Category: "Espalda", Volume: 0, Deviation: -22, RatioDeviation: -100}
	if got := PairOwner(a, b); got != "Espalda" {
		t.Errorf("expected Espalda, got %s", got)
	}
	if got := PairOwner(b, a); got != "Espalda" {
		t.Errorf("argument order changed owner to %s", got)
	}
}

func TestPairOwner_TieGoesToSmallerName(t *testing.T) {
	a := analyzer.MuscleBalance{Category: "Pecho", Deviation: -18}
	b := analyzer.MuscleBalance{Category: "Espalda", Deviation: 18}
	if got := PairOwner(a, b); got != "Espalda" {
		t.Errorf("expected Espalda, got %s", got)
	}
	if got := PairOwner(b, a); got != "Espalda" {
		t.Errorf("expected Espalda regardless of order, got %s", got)
	}
}

// --- antagonist_imbalance ---

func TestAntagonistRule_RequiresOwnershipAndImbalance(t *testing.T) {
	rule := ruleByName(WarningRules, "antagonist_imbalance")
	ant := analyzer.MuscleBalance{Category: "Espalda", HasImbalance: true, Volume: 100}
	ctx := &BalanceContext{
		Balance:    analyzer.MuscleBalance{Category: "Pecho", Volume: 400, Antagonist: "Espalda"},
		Antagonist: &ant,
	}
	if rule.Applies(ctx) {
		t.Error("non-owner must not report the pair")
	}
	ctx.OwnsPair = true
	if !rule.Applies(ctx) {
		t.Error("owner should report when the antagonist side is imbalanced")
	}
	ant.HasImbalance = false
	if rule.Applies(ctx) {
		t.Error("no imbalance on either side should not fire")
	}
}

func TestAntagonistRule_MessageForUntrainedSide(t *testing.T) {
	rule := ruleByName(WarningRules, "antagonist_imbalance")
	ant := analyzer.MuscleBalance{Category: "Pecho", Volume: 3000, ImbalanceSeverity: analyzer.SeveritySevere}
	ctx := &BalanceContext{
		Balance:    analyzer.MuscleBalance{Category: "Espalda", ImbalanceSeverity: analyzer.SeveritySevere, HasImbalance: true},
		Antagonist: &ant,
		OwnsPair:   true,
	}
	msg := rule.Message(ctx)
	if !strings.HasPrefix(msg, AntagonistPrefix) {
		t.Errorf("expected antagonist prefix, got %q", msg)
	}
	if !strings.Contains(msg, "Espalda is untrained") {
		t.Errorf("expected message about untrained Espalda, got %q", msg)
	}
}

// --- other warning rules ---

func TestNeglectedRule(t *testing.T) {
	rule := ruleByName(WarningRules, "neglected")
	ctx := &BalanceContext{Balance: analyzer.MuscleBalance{Category: "Core", DevelopmentStage: analyzer.StageNeglected}}
	if !rule.Applies(ctx) {
		t.Fatal("expected neglected rule to fire")
	}
	if msg := rule.Message(ctx); !strings.Contains(msg, "no recorded training") {
		t.Errorf("unexpected message %q", msg)
	}
	ctx.Balance.Volume = 500
	ctx.Balance.WeeklyFrequency = 0.3
	if msg := rule.Message(ctx); !strings.Contains(msg, "0.30 workouts per week") {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestLongGapRule(t *testing.T) {
	rule := ruleByName(WarningRules, "long_gap")
	ctx := &BalanceContext{Metrics: analyzer.CategoryMetrics{WorkoutCount: 3, DaysSinceLastWorkout: 14}}
	if rule.Applies(ctx) {
		t.Error("14 days should not fire")
	}
	ctx.Metrics.DaysSinceLastWorkout = 15
	if !rule.Applies(ctx) {
		t.Error("15 days should fire")
	}
	ctx.Metrics.WorkoutCount = 0
	if rule.Applies(ctx) {
		t.Error("untrained category is covered by the neglected rule")
	}
}

// --- recommendation rules ---

func TestVolumeRules_Direction(t *testing.T) {
	inc := ruleByName(RecommendationRules, "increase_volume")
	red := ruleByName(RecommendationRules, "reduce_volume")

	under := &BalanceContext{Balance: analyzer.MuscleBalance{Category: "Piernas", Deviation: -12, ActualPercentage: 13, IdealPercentage: 25}}
	if !inc.Applies(under) || red.Applies(under) {
		t.Error("under-trained category should only get the increase rule")
	}
	if msg := inc.Message(under); !strings.Contains(msg, "by about 12 points") {
		t.Errorf("unexpected message %q", msg)
	}

	over := &BalanceContext{Balance: analyzer.MuscleBalance{Category: "Pecho", Deviation: 9, Antagonist: "Espalda"}}
	if inc.Applies(over) || !red.Applies(over) {
		t.Error("over-trained category should only get the reduce rule")
	}
	if msg := red.Message(over); !strings.Contains(msg, "to Espalda") {
		t.Errorf("expected shift toward antagonist, got %q", msg)
	}

	balanced := &BalanceContext{Balance: analyzer.MuscleBalance{Deviation: 5}}
	if inc.Applies(balanced) || red.Applies(balanced) {
		t.Error("deviation of exactly 5 is balanced")
	}
}

func TestMissedDaysRule(t *testing.T) {
	rule := ruleByName(RecommendationRules, "missed_days")
	ctx := &BalanceContext{
		Balance: analyzer.MuscleBalance{Category: "Pecho"},
		Metrics: analyzer.CategoryMetrics{MissedProgrammedDays: []string{"Martes", "Jueves"}},
	}
	if !rule.Applies(ctx) {
		t.Fatal("expected rule to fire")
	}
	if msg := rule.Message(ctx); !strings.Contains(msg, "Martes, Jueves") {
		t.Errorf("unexpected message %q", msg)
	}
}

// --- strength rules ---

func TestStrengthRules(t *testing.T) {
	s := &analyzer.StrengthProgressAnalysis{}
	s.Predictions.PlateauRisk = 70
	s.Predictions.Confidence = 90
	s.OverallProgress.Percentage = -4

	var fired []string
	for _, r := range StrengthRules {
		if r.Applies(s) {
			fired = append(fired, r.Name)
		}
	}
	want := []string{"plateau_risk", "strength_loss"}
	if strings.Join(fired, ",") != strings.Join(want, ",") {
		t.Errorf("fired %v, want %v", fired, want)
	}
}
