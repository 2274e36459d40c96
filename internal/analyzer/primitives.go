package analyzer

import (
	"time"

	"github.com/blackwell-systems/liftwatch/internal/workout"
)

// maxEstimateReps caps the reps fed to the 1RM estimate.
const maxEstimateReps = 20

// EstimateOneRepMax returns weight * (1 + min(reps, 20)/30). Every 1RM in
// the engine goes through this function.
func EstimateOneRepMax(weight float64, reps int) float64 {
	if weight <= 0 || reps <= 0 {
		return 0
	}
	if reps > maxEstimateReps {
		reps = maxEstimateReps
	}
	return weight * (1 + float64(reps)/30)
}

// RecordOneRepMax is the best per-set 1RM estimate in a record.
func RecordOneRepMax(r workout.Record) float64 {
	var best float64
	for _, s := range r.Load().Expand() {
		if e := EstimateOneRepMax(s.Weight, s.Reps); e > best {
			best = e
		}
	}
	return best
}

// RecordVolume is the total weight moved in a record.
func RecordVolume(r workout.Record) float64 {
	return r.Load().Volume()
}

// Attribution returns the fraction of an exercise's effort credited to each
// category. A known effort split wins; otherwise the exercise's categories
// share equally. Unknown exercises, and exercises without categories, are
// credited entirely to workout.Uncategorized.
func Attribution(ex *workout.Exercise, t Tables) map[string]float64 {
	if ex == nil {
		return map[string]float64{workout.Uncategorized: 1}
	}
	if split, ok := t.EffortSplits[workout.FoldLabel(ex.Name)]; ok && len(split) > 0 {
		out := make(map[string]float64, len(split))
		for c, f := range split {
			if f > 0 {
				out[workout.CanonicalCategory(c, t.Categories)] += f
			}
		}
		return out
	}

	var cats []string
	seen := make(map[string]bool)
	for _, label := range ex.Categories {
		c := workout.CanonicalCategory(label, t.Categories)
		if !seen[c] {
			seen[c] = true
			cats = append(cats, c)
		}
	}
	if len(cats) == 0 {
		return map[string]float64{workout.Uncategorized: 1}
	}
	share := 1 / float64(len(cats))
	out := make(map[string]float64, len(cats))
	for _, c := range cats {
		out[c] = share
	}
	return out
}

// Point is a dated value for charting.
type Point struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// OneRepMaxSeries returns (date, estimated 1RM) chart coordinates in date order.
func OneRepMaxSeries(records []workout.Record) []Point {
	sorted := workout.SortedRecords(records)
	points := make([]Point, 0, len(sorted))
	for _, r := range sorted {
		points = append(points, Point{Date: r.Date, Value: round2(RecordOneRepMax(r))})
	}
	return points
}
