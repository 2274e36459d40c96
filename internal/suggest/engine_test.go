package suggest

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/blackwell-systems/liftwatch/internal/analyzer"
	"github.com/blackwell-systems/liftwatch/internal/workout"
)

func analyze(ds workout.Dataset) ([]analyzer.MuscleBalance, analyzer.CategoryAnalysis) {
	in := analyzer.NewInput(ds)
	cats := analyzer.AnalyzeCategories(in, analyzer.Options{})
	return analyzer.AnalyzeBalance(cats, analyzer.Options{}), cats
}

func chestOnlyDataset() workout.Dataset {
	start := time.Date(2026, 1, 5, 18, 0, 0, 0, time.UTC)
	return workout.Dataset{
		Exercises: []workout.Exercise{{ID: "incline", Name: "Press inclinado", Categories: []string{"Pecho"}}},
		Records: []workout.Record{
			{ID: "r1", ExerciseID: "incline", Weight: 40, Reps: 8, Sets: 3, Date: start},
			{ID: "r2", ExerciseID: "incline", Weight: 42, Reps: 8, Sets: 3, Date: start.AddDate(0, 0, 7)},
			{ID: "r3", ExerciseID: "incline", Weight: 45, Reps: 8, Sets: 3, Date: start.AddDate(0, 0, 14)},
		},
	}
}

func hasAntagonistWarning(b analyzer.MuscleBalance) bool {
	for _, w := range b.Warnings {
		if strings.HasPrefix(w, AntagonistPrefix) {
			return true
		}
	}
	return false
}

// --- Engine.Apply ---

func TestEngineApply_ChestScenarioWarnsFromBack(t *testing.T) {
	balances, cats := analyze(chestOnlyDataset())
	applied := NewEngine(DefaultLimit).Apply(balances, cats)

	byName := make(map[string]analyzer.MuscleBalance)
	for _, b := range applied {
		byName[b.Category] = b
	}
	if !hasAntagonistWarning(byName["Espalda"]) {
		t.Errorf("expected Espalda to carry the antagonist warning, got %v", byName["Espalda"].Warnings)
	}
	if hasAntagonistWarning(byName["Pecho"]) {
		t.Errorf("Pecho must not repeat the pair warning, got %v", byName["Pecho"].Warnings)
	}
}

func TestEngineApply_PairWarningExactlyOnce(t *testing.T) {
	datasets := []workout.Dataset{{}, chestOnlyDataset()}

	mixed := chestOnlyDataset()
	mixed.Exercises = append(mixed.Exercises,
		workout.Exercise{ID: "row", Name: "Remo", Categories: []string{"Espalda"}},
		workout.Exercise{ID: "squat", Name: "Sentadilla", Categories: []string{"Piernas"}},
		workout.Exercise{ID: "crunch", Name: "Crunch", Categories: []string{"Core"}},
	)
	mixed.Records = append(mixed.Records,
		workout.Record{ID: "row1", ExerciseID: "row", Weight: 50, Reps: 10, Sets: 4, Date: mixed.Records[0].Date},
		workout.Record{ID: "sq1", ExerciseID: "squat", Weight: 100, Reps: 5, Sets: 5, Date: mixed.Records[1].Date},
		workout.Record{ID: "cr1", ExerciseID: "crunch", Weight: 10, Reps: 20, Sets: 3, Date: mixed.Records[2].Date},
	)
	datasets = append(datasets, mixed)

	for _, limit := range []int{1, 2, 3, 5} {
		for i, ds := range datasets {
			balances, cats := analyze(ds)
			applied := NewEngine(limit).Apply(balances, cats)
			byName := make(map[string]analyzer.MuscleBalance)
			for _, b := range applied {
				byName[b.Category] = b
			}
			for _, b := range applied {
				ant, ok := byName[b.Antagonist]
				if !ok || b.Category > ant.Category {
					continue // visit each pair once
				}
				count := 0
				if hasAntagonistWarning(b) {
					count++
				}
				if hasAntagonistWarning(ant) {
					count++
				}
				imbalanced := b.HasImbalance || ant.HasImbalance
				if imbalanced && count != 1 {
					t.Errorf("dataset %d limit %d: pair %s/%s has %d warnings, want 1", i, limit, b.Category, ant.Category, count)
				}
				if !imbalanced && count != 0 {
					t.Errorf("dataset %d limit %d: balanced pair %s/%s warned", i, limit, b.Category, ant.Category)
				}
			}
		}
	}
}

func TestEngineApply_CapsPerKind(t *testing.T) {
	balances, cats := analyze(workout.Dataset{})
	for _, limit := range []int{1, 2} {
		for _, b := range NewEngine(limit).Apply(balances, cats) {
			if len(b.Warnings) > limit || len(b.Recommendations) > limit {
				t.Errorf("limit %d exceeded for %s: %d warnings, %d recommendations",
					limit, b.Category, len(b.Warnings), len(b.Recommendations))
			}
		}
	}
}

func TestEngineApply_DoesNotMutateInput(t *testing.T) {
	balances, cats := analyze(chestOnlyDataset())
	_ = NewEngine(DefaultLimit).Apply(balances, cats)
	for _, b := range balances {
		if len(b.Warnings) != 0 || len(b.Recommendations) != 0 {
			t.Fatalf("input balance %s was modified", b.Category)
		}
	}
}

func TestNewEngine_DefaultLimit(t *testing.T) {
	if got := NewEngine(0).Limit(); got != DefaultLimit {
		t.Errorf("expected default limit %d, got %d", DefaultLimit, got)
	}
}

// --- Engine.StrengthWarnings ---

func TestStrengthWarnings_NilAnalysis(t *testing.T) {
	got := NewEngine(DefaultLimit).StrengthWarnings(nil)
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

// --- Engine.Suggestions ---

func TestSuggestions_SortedByImpact(t *testing.T) {
	balances, cats := analyze(chestOnlyDataset())
	engine := NewEngine(DefaultLimit)
	applied := engine.Apply(balances, cats)
	strength := analyzer.AnalyzeStrength(analyzer.NewInput(chestOnlyDataset()), analyzer.Options{})

	suggestions := engine.Suggestions(applied, cats, strength)
	if len(suggestions) == 0 {
		t.Fatal("expected suggestions")
	}
	for i := 1; i < len(suggestions); i++ {
		if suggestions[i].ImpactScore > suggestions[i-1].ImpactScore {
			t.Errorf("suggestions not sorted at %d: %.2f > %.2f", i, suggestions[i].ImpactScore, suggestions[i-1].ImpactScore)
		}
	}
	for _, s := range suggestions {
		if s.Title == "" || s.Category == "" {
			t.Errorf("incomplete suggestion %+v", s)
		}
		if math.IsNaN(s.ImpactScore) || math.IsInf(s.ImpactScore, 0) {
			t.Errorf("impact score not finite: %+v", s)
		}
	}
}

// --- RankSuggestions / ComputeImpact ---

func TestRankSuggestions_TieBreaks(t *testing.T) {
	in := []Suggestion{
		{Category: "b", Priority: PriorityHigh, Title: "x", ImpactScore: 5},
		{Category: "a", Priority: PriorityHigh, Title: "y", ImpactScore: 5},
		{Category: "z", Priority: PriorityCritical, Title: "z", ImpactScore: 5},
		{Category: "c", Priority: PriorityLow, Title: "w", ImpactScore: 9},
	}
	got := RankSuggestions(in)
	order := []string{got[0].Category, got[1].Category, got[2].Category, got[3].Category}
	if strings.Join(order, "") != "czab" {
		t.Errorf("unexpected order %v", order)
	}
	if in[0].Category != "b" {
		t.Error("RankSuggestions modified its input")
	}
}

func TestComputeImpact(t *testing.T) {
	if got := ComputeImpact(10, 0.5, 4, 2); got != 10 {
		t.Errorf("expected 10, got %v", got)
	}
	if got := ComputeImpact(10, 0.5, 4, 0); got != 0 {
		t.Errorf("expected 0 for zero effort, got %v", got)
	}
}
