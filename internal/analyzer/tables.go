package analyzer

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/blackwell-systems/liftwatch/internal/workout"
)

// Standard holds the four 1RM thresholds (kg) for one muscle group.
type Standard struct {
	Beginner     float64 `yaml:"beginner" json:"beginner"`
	Intermediate float64 `yaml:"intermediate" json:"intermediate"`
	Advanced     float64 `yaml:"advanced" json:"advanced"`
	Elite        float64 `yaml:"elite" json:"elite"`
}

// Tables is the reference data the engine scores against. Values are never
// mutated by the engine; DefaultTables returns a fresh copy on every call.
type Tables struct {
	// Categories lists the known muscle groups in display order.
	Categories []string `yaml:"categories"`

	// IdealDistribution maps category to target share of total volume (sums to 100).
	IdealDistribution map[string]float64 `yaml:"ideal_distribution"`

	// Antagonists maps each category to its opposing group. Must be symmetric.
	Antagonists map[string]string `yaml:"antagonists"`

	StrengthStandards map[string]Standard `yaml:"strength_standards"`

	// EffortSplits maps a case-folded exercise name to category fractions.
	EffortSplits map[string]map[string]float64 `yaml:"effort_splits"`
}

// DefaultTables returns the shipped reference tables.
func DefaultTables() Tables {
	t := Tables{
		Categories: []string{"Pecho", "Espalda", "Piernas", "Hombros", "Brazos", "Core"},
		IdealDistribution: map[string]float64{
			"Pecho":   18,
			"Espalda": 22,
			"Piernas": 25,
			"Hombros": 12,
			"Brazos":  13,
			"Core":    10,
		},
		Antagonists: map[string]string{
			"Pecho":   "Espalda",
			"Espalda": "Pecho",
			"Hombros": "Core",
			"Core":    "Hombros",
			"Piernas": "Brazos",
			"Brazos":  "Piernas",
		},
		StrengthStandards: map[string]Standard{
			"Pecho":   {40, 70, 100, 130},
			"Espalda": {40, 70, 100, 130},
			"Piernas": {60, 100, 140, 180},
			"Hombros": {25, 45, 65, 85},
			"Brazos":  {20, 35, 50, 65},
			"Core":    {15, 30, 45, 60},
		},
		EffortSplits: map[string]map[string]float64{},
	}

	splits := []struct {
		names []string
		split map[string]float64
	}{
		{[]string{"press de banca", "bench press"}, map[string]float64{"Pecho": 0.7, "Hombros": 0.15, "Brazos": 0.15}},
		{[]string{"fondos", "dips"}, map[string]float64{"Pecho": 0.5, "Brazos": 0.4, "Hombros": 0.1}},
		{[]string{"dominadas", "pull-up"}, map[string]float64{"Espalda": 0.7, "Brazos": 0.3}},
		{[]string{"remo con barra", "barbell row"}, map[string]float64{"Espalda": 0.75, "Brazos": 0.25}},
		{[]string{"sentadilla", "squat"}, map[string]float64{"Piernas": 0.85, "Core": 0.15}},
		{[]string{"peso muerto", "deadlift"}, map[string]float64{"Piernas": 0.5, "Espalda": 0.4, "Core": 0.1}},
		{[]string{"press militar", "overhead press"}, map[string]float64{"Hombros": 0.7, "Brazos": 0.2, "Core": 0.1}},
	}
	for _, s := range splits {
		for _, name := range s.names {
			cp := make(map[string]float64, len(s.split))
			for k, v := range s.split {
				cp[k] = v
			}
			t.EffortSplits[workout.FoldLabel(name)] = cp
		}
	}
	return t
}

// LoadTables reads table overrides from a YAML file. Sections present in the
// file replace the corresponding default section wholesale.
func LoadTables(path string) (Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, err
	}

	var override Tables
	if err := yaml.Unmarshal(data, &override); err != nil {
		return Tables{}, fmt.Errorf("parsing %s: %w", path, err)
	}

	t := DefaultTables()
	if len(override.Categories) > 0 {
		t.Categories = override.Categories
	}
	if len(override.IdealDistribution) > 0 {
		t.IdealDistribution = override.IdealDistribution
	}
	if len(override.Antagonists) > 0 {
		t.Antagonists = override.Antagonists
	}
	if len(override.StrengthStandards) > 0 {
		t.StrengthStandards = override.StrengthStandards
	}
	if len(override.EffortSplits) > 0 {
		t.EffortSplits = make(map[string]map[string]float64, len(override.EffortSplits))
		for name, split := range override.EffortSplits {
			t.EffortSplits[workout.FoldLabel(name)] = split
		}
	}

	if err := t.Validate(); err != nil {
		return Tables{}, fmt.Errorf("tables %s: %w", path, err)
	}
	return t, nil
}

// Validate checks the structural invariants of the tables.
func (t Tables) Validate() error {
	if len(t.Categories) == 0 {
		return fmt.Errorf("no categories defined")
	}

	seen := make(map[string]bool, len(t.Categories))
	var total float64
	for _, c := range t.Categories {
		if seen[c] {
			return fmt.Errorf("duplicate category %q", c)
		}
		seen[c] = true
		ideal, ok := t.IdealDistribution[c]
		if !ok {
			return fmt.Errorf("category %q has no ideal percentage", c)
		}
		if ideal < 0 {
			return fmt.Errorf("category %q has negative ideal percentage", c)
		}
		total += ideal
	}
	if math.Abs(total-100) > 0.01 {
		return fmt.Errorf("ideal distribution sums to %.2f, want 100", total)
	}

	for a, b := range t.Antagonists {
		if !seen[a] || !seen[b] {
			return fmt.Errorf("antagonist pair %s/%s references unknown category", a, b)
		}
		if t.Antagonists[b] != a {
			return fmt.Errorf("antagonist pair %s/%s is not symmetric", a, b)
		}
	}

	for c, s := range t.StrengthStandards {
		if !(s.Beginner < s.Intermediate && s.Intermediate < s.Advanced && s.Advanced < s.Elite) || s.Beginner <= 0 {
			return fmt.Errorf("strength standards for %q must be positive and strictly increasing", c)
		}
	}

	for name, split := range t.EffortSplits {
		var sum float64
		for c, f := range split {
			if !seen[c] {
				return fmt.Errorf("effort split %q references unknown category %q", name, c)
			}
			sum += f
		}
		if math.Abs(sum-1) > 0.001 {
			return fmt.Errorf("effort split %q sums to %.3f, want 1", name, sum)
		}
	}
	return nil
}

// IdealRatio returns ideal(category)/ideal(antagonist), or 0 when either is
// unknown or the antagonist's ideal is zero.
func (t Tables) IdealRatio(category string) float64 {
	ant, ok := t.Antagonists[category]
	if !ok {
		return 0
	}
	den := t.IdealDistribution[ant]
	if den == 0 {
		return 0
	}
	return t.IdealDistribution[category] / den
}
