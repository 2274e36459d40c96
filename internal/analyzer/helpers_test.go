package analyzer

import (
	"fmt"
	"time"

	"github.com/blackwell-systems/liftwatch/internal/workout"
)

var baseDate = time.Date(2026, 1, 5, 18, 0, 0, 0, time.UTC) // a Monday

func day(offset int) time.Time {
	return baseDate.AddDate(0, 0, offset)
}

func rec(id, exerciseID string, weight float64, reps, sets int, date time.Time) workout.Record {
	return workout.Record{
		ID:         id,
		ExerciseID: exerciseID,
		Weight:     weight,
		Reps:       reps,
		Sets:       sets,
		Date:       date,
	}
}

func inputOf(exercises []workout.Exercise, records ...workout.Record) Input {
	return NewInput(workout.Dataset{Exercises: exercises, Records: records})
}

// chestOnly is the weekly incline-press scenario: 40, 42, 45 kg for 8 reps.
func chestOnly() Input {
	exercises := []workout.Exercise{
		{ID: "incline", Name: "Press inclinado", Categories: []string{"Pecho"}},
	}
	return inputOf(exercises,
		rec("r1", "incline", 40, 8, 3, day(0)),
		rec("r2", "incline", 42, 8, 3, day(7)),
		rec("r3", "incline", 45, 8, 3, day(14)),
	)
}

// mixedInput covers several categories, a detailed record, an effort split
// and an unresolved exercise id.
func mixedInput() Input {
	exercises := []workout.Exercise{
		{ID: "bench", Name: "Bench Press", Categories: []string{"Pecho"}},
		{ID: "row", Name: "Remo con barra", Categories: []string{"Espalda"}},
		{ID: "squat", Name: "Sentadilla", Categories: []string{"Piernas"}},
		{ID: "curl", Name: "Curl", Categories: []string{"brazos"}},
		{ID: "plank", Name: "Plancha", Categories: []string{"Core", "Hombros"}},
	}
	var records []workout.Record
	for w := 0; w < 6; w++ {
		records = append(records,
			rec(fmt.Sprintf("b%d", w), "bench", 60+float64(w)*2.5, 5, 5, day(w*7)),
			rec(fmt.Sprintf("s%d", w), "squat", 80+float64(w)*5, 5, 5, day(w*7+2)),
			rec(fmt.Sprintf("c%d", w), "curl", 12, 12, 3, day(w*7+4)),
			rec(fmt.Sprintf("p%d", w), "plank", 10, 10, 3, day(w*7+4)),
		)
	}
	records = append(records,
		workout.Record{
			ID: "row-detailed", ExerciseID: "row", Date: day(3),
			IndividualSets: []workout.SetDetail{{Weight: 50, Reps: 10}, {Weight: 55, Reps: 8}, {Weight: 60, Reps: 6}},
		},
		rec("ghost", "deleted-exercise", 30, 10, 3, day(10)),
	)
	return inputOf(exercises, records...)
}
