package analyzer

import (
	"math"
	"testing"

	"github.com/blackwell-systems/liftwatch/internal/workout"
)

// --- EstimateOneRepMax ---

func TestEstimateOneRepMax(t *testing.T) {
	tests := []struct {
		weight float64
		reps   int
		want   float64
	}{
		{100, 1, 100 * (1 + 1.0/30)},
		{100, 10, 100 * (1 + 10.0/30)},
		{60, 20, 100},
		{60, 25, 100},
		{0, 10, 0},
		{50, 0, 0},
	}
	for _, tt := range tests {
		got := EstimateOneRepMax(tt.weight, tt.reps)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("EstimateOneRepMax(%v, %d) = %v, want %v", tt.weight, tt.reps, got, tt.want)
		}
	}
}

func TestEstimateOneRepMax_MonotonicInWeight(t *testing.T) {
	for reps := 1; reps <= 25; reps++ {
		prev := -1.0
		for w := 0.0; w <= 200; w += 2.5 {
			got := EstimateOneRepMax(w, reps)
			if got < prev {
				t.Fatalf("reps=%d: weight %v gave %v, below %v", reps, w, got, prev)
			}
			prev = got
		}
	}
}

func TestEstimateOneRepMax_MonotonicInRepsAndClamped(t *testing.T) {
	at20 := EstimateOneRepMax(80, 20)
	prev := 0.0
	for reps := 1; reps <= 40; reps++ {
		got := EstimateOneRepMax(80, reps)
		if got < prev {
			t.Fatalf("reps %d gave %v, below %v", reps, got, prev)
		}
		if reps >= 20 && got != at20 {
			t.Errorf("reps %d gave %v, want clamped value %v", reps, got, at20)
		}
		prev = got
	}
}

// --- RecordOneRepMax / RecordVolume ---

func TestRecordOneRepMax_DetailedSetsUseBestSet(t *testing.T) {
	r := workout.Record{
		Weight: 10, Reps: 1, Sets: 1, // ignored
		IndividualSets: []workout.SetDetail{{Weight: 100, Reps: 3}, {Weight: 90, Reps: 10}},
	}
	want := EstimateOneRepMax(90, 10) // 120 > 110
	if got := RecordOneRepMax(r); got != want {
		t.Errorf("RecordOneRepMax = %v, want %v", got, want)
	}
}

func TestRecordVolume(t *testing.T) {
	agg := workout.Record{Weight: 50, Reps: 10, Sets: 3}
	if got := RecordVolume(agg); got != 1500 {
		t.Errorf("aggregate volume = %v, want 1500", got)
	}
	detailed := workout.Record{
		Weight: 50, Reps: 10, Sets: 3,
		IndividualSets: []workout.SetDetail{{Weight: 50, Reps: 10}, {Weight: 60, Reps: 5}},
	}
	if got := RecordVolume(detailed); got != 800 {
		t.Errorf("detailed volume = %v, want 800", got)
	}
}

// --- Attribution ---

func TestAttribution(t *testing.T) {
	tables := DefaultTables()

	t.Run("nil exercise", func(t *testing.T) {
		got := Attribution(nil, tables)
		if len(got) != 1 || got[workout.Uncategorized] != 1 {
			t.Errorf("got %v, want all effort on %s", got, workout.Uncategorized)
		}
	})

	t.Run("effort split wins over categories", func(t *testing.T) {
		ex := &workout.Exercise{Name: "  BENCH press ", Categories: []string{"Pecho"}}
		got := Attribution(ex, tables)
		if got["Pecho"] != 0.7 || got["Hombros"] != 0.15 || got["Brazos"] != 0.15 {
			t.Errorf("got %v, want bench press split", got)
		}
	})

	t.Run("even split with label folding", func(t *testing.T) {
		ex := &workout.Exercise{Name: "Plancha", Categories: []string{"core", "HOMBROS", "Core"}}
		got := Attribution(ex, tables)
		if len(got) != 2 || got["Core"] != 0.5 || got["Hombros"] != 0.5 {
			t.Errorf("got %v, want Core/Hombros at 0.5 each", got)
		}
	})

	t.Run("no categories", func(t *testing.T) {
		got := Attribution(&workout.Exercise{Name: "Mystery"}, tables)
		if got[workout.Uncategorized] != 1 {
			t.Errorf("got %v, want uncategorized", got)
		}
	})
}

// --- OneRepMaxSeries ---

func TestOneRepMaxSeries_SortedAndSameFormula(t *testing.T) {
	records := []workout.Record{
		rec("b", "x", 50, 5, 1, day(7)),
		rec("a", "x", 40, 5, 1, day(0)),
	}
	points := OneRepMaxSeries(records)
	if len(points) != 2 {
		t.Fatalf("got %d points, want 2", len(points))
	}
	if !points[0].Date.Equal(day(0)) {
		t.Errorf("first point date = %v, want %v", points[0].Date, day(0))
	}
	if points[1].Value != round2(EstimateOneRepMax(50, 5)) {
		t.Errorf("second point = %v, want %v", points[1].Value, round2(EstimateOneRepMax(50, 5)))
	}
	if records[0].ID != "b" {
		t.Error("input slice was reordered")
	}
}

// --- stats helpers ---

func TestStatsGuards(t *testing.T) {
	if mean(nil) != 0 || stddev([]float64{5}) != 0 || coefVar([]float64{0, 0}) != 0 {
		t.Error("expected zero guards")
	}
	if pctChange(0, 10) != 0 || safeDiv(1, 0) != 0 {
		t.Error("expected zero on division by zero")
	}
	if round2(math.Inf(1)) != 0 || round2(math.NaN()) != 0 {
		t.Error("round2 must map NaN/Inf to 0")
	}
	slope, intercept := linearFit([]float64{0, 1, 2}, []float64{1, 3, 5})
	if math.Abs(slope-2) > 1e-9 || math.Abs(intercept-1) > 1e-9 {
		t.Errorf("linearFit = (%v, %v), want (2, 1)", slope, intercept)
	}
	slope, intercept = linearFit([]float64{3}, []float64{7})
	if slope != 0 || intercept != 7 {
		t.Errorf("single-point fit = (%v, %v), want (0, 7)", slope, intercept)
	}
}
