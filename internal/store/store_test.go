package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/blackwell-systems/liftwatch/internal/report"
	"github.com/blackwell-systems/liftwatch/internal/workout"
)

var monday = time.Date(2026, 1, 5, 18, 0, 0, 0, time.UTC)

func openTest(t *testing.T) *DB {
	t.Helper()
	db, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func sampleDataset() workout.Dataset {
	return workout.Dataset{
		Exercises: []workout.Exercise{
			{ID: "bench", Name: "Press de banca", Categories: []string{"Pecho"}},
			{ID: "row", Name: "Remo con barra", Categories: []string{"Espalda"}},
		},
		Records: []workout.Record{
			{ID: "r1", ExerciseID: "bench", Weight: 60, Reps: 8, Sets: 3, Date: monday},
			{ID: "r2", ExerciseID: "row", Weight: 50, Reps: 10, Sets: 4, Date: monday.AddDate(0, 0, 2)},
			{ExerciseID: "bench", Date: monday.AddDate(0, 0, 7), IndividualSets: []workout.SetDetail{
				{Weight: 62.5, Reps: 8}, {Weight: 65, Reps: 6},
			}},
		},
		Assignments: []workout.Assignment{{ExerciseID: "bench", DayOfWeek: "Lunes"}},
	}
}

// --- Open / Migrate ---

func TestOpen_CreatesDirectoryAndMigratesTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "liftwatch.db")
	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	var version int
	require.NoError(t, db.conn.QueryRow("SELECT version FROM schema_version").Scan(&version))
	assert.Equal(t, currentSchemaVersion, version)
}

// --- Exercises ---

func TestExerciseCRUD(t *testing.T) {
	ctx := context.Background()
	db := openTest(t)

	ex := workout.Exercise{Name: "Sentadilla", Categories: []string{"Piernas", "Core"}}
	require.NoError(t, db.CreateExercise(ctx, &ex))
	require.NotEmpty(t, ex.ID, "expected generated id")

	got, err := db.GetExercise(ctx, ex.ID)
	require.NoError(t, err)
	assert.Equal(t, ex, *got)

	ex.Categories = []string{"Piernas"}
	require.NoError(t, db.UpdateExercise(ctx, ex))
	got, err = db.GetExercise(ctx, ex.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Piernas"}, got.Categories)

	list, err := db.ListExercises(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, db.DeleteExercise(ctx, ex.ID))
	_, err = db.GetExercise(ctx, ex.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, db.DeleteExercise(ctx, ex.ID), ErrNotFound)
	assert.ErrorIs(t, db.UpdateExercise(ctx, ex), ErrNotFound)
}

func TestCreateExercise_RejectsEmptyName(t *testing.T) {
	db := openTest(t)
	assert.Error(t, db.CreateExercise(context.Background(), &workout.Exercise{Name: "  "}))
}

// --- Records ---

func TestRecordCRUD(t *testing.T) {
	ctx := context.Background()
	db := openTest(t)

	r := workout.Record{ExerciseID: "bench", Weight: 60, Reps: 8, Sets: 3, Date: monday}
	require.NoError(t, db.CreateRecord(ctx, &r))
	require.NotEmpty(t, r.ID)

	got, err := db.GetRecord(ctx, r.ID)
	require.NoError(t, err)
	assert.True(t, got.Date.Equal(monday))
	assert.Equal(t, "Lunes", got.DayOfWeek, "day label derived from date on write")
	assert.Nil(t, got.IndividualSets)

	r.IndividualSets = []workout.SetDetail{{Weight: 60, Reps: 8}, {Weight: 65, Reps: 5}}
	require.NoError(t, db.UpdateRecord(ctx, r))
	got, err = db.GetRecord(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.IndividualSets, got.IndividualSets)

	require.NoError(t, db.DeleteRecord(ctx, r.ID))
	_, err = db.GetRecord(ctx, r.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateRecord_Validates(t *testing.T) {
	db := openTest(t)
	err := db.CreateRecord(context.Background(), &workout.Record{ExerciseID: "bench", Weight: -1, Date: monday})
	require.Error(t, err)
	// negative weight, reps < 1, sets < 1
	assert.Len(t, multierr.Errors(err), 3)

	list, err := db.ListRecords(context.Background(), RecordFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestListRecords_Filter(t *testing.T) {
	ctx := context.Background()
	db := openTest(t)
	_, err := db.ImportDataset(ctx, sampleDataset())
	require.NoError(t, err)

	all, err := db.ListRecords(ctx, RecordFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].Date.Before(all[i-1].Date), "records must be date ordered")
	}

	bench, err := db.ListRecords(ctx, RecordFilter{ExerciseID: "bench"})
	require.NoError(t, err)
	assert.Len(t, bench, 2)

	window, err := db.ListRecords(ctx, RecordFilter{Since: monday.AddDate(0, 0, 1), Until: monday.AddDate(0, 0, 3)})
	require.NoError(t, err)
	require.Len(t, window, 1)
	assert.Equal(t, "r2", window[0].ID)

	limited, err := db.ListRecords(ctx, RecordFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

// --- Assignments ---

func TestAssignmentCRUD(t *testing.T) {
	ctx := context.Background()
	db := openTest(t)

	a := workout.Assignment{ExerciseID: "bench", DayOfWeek: "Lunes"}
	require.NoError(t, db.CreateAssignment(ctx, &a))

	a.DayOfWeek = "Martes"
	require.NoError(t, db.UpdateAssignment(ctx, a))
	got, err := db.GetAssignment(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Martes", got.DayOfWeek)

	require.NoError(t, db.DeleteAssignment(ctx, a.ID))
	assert.ErrorIs(t, db.DeleteAssignment(ctx, a.ID), ErrNotFound)
	assert.Error(t, db.CreateAssignment(ctx, &workout.Assignment{ExerciseID: "bench"}))
}

// --- Dataset / ImportDataset ---

func TestImportDataset_RoundTripsThroughDataset(t *testing.T) {
	ctx := context.Background()
	db := openTest(t)

	stats, err := db.ImportDataset(ctx, sampleDataset())
	require.NoError(t, err)
	assert.Equal(t, ImportStats{Exercises: 2, Records: 3, Assignments: 1}, stats)

	ds, err := db.Dataset(ctx)
	require.NoError(t, err)
	assert.Len(t, ds.Exercises, 2)
	assert.Len(t, ds.Records, 3)
	assert.Len(t, ds.Assignments, 1)
	assert.Len(t, ds.Records[2].IndividualSets, 2)

	// Importing again upserts rather than duplicating.
	_, err = db.ImportDataset(ctx, ds)
	require.NoError(t, err)
	again, err := db.Dataset(ctx)
	require.NoError(t, err)
	assert.Len(t, again.Records, 3)
}

func TestImportDataset_InvalidWritesNothing(t *testing.T) {
	ctx := context.Background()
	db := openTest(t)

	ds := sampleDataset()
	ds.Records[0].Reps = 0
	ds.Exercises = append(ds.Exercises, workout.Exercise{ID: "bench", Name: "dup"})

	_, err := db.ImportDataset(ctx, ds)
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)

	got, err := db.Dataset(ctx)
	require.NoError(t, err)
	assert.Empty(t, got.Exercises)
	assert.Empty(t, got.Records)
}

func TestImportDataset_DoesNotMutateInput(t *testing.T) {
	db := openTest(t)
	ds := sampleDataset()
	_, err := db.ImportDataset(context.Background(), ds)
	require.NoError(t, err)
	assert.Empty(t, ds.Records[2].ID)
	assert.Empty(t, ds.Assignments[0].ID)
}

// --- Snapshots ---

func TestSnapshots_Ordering(t *testing.T) {
	db := openTest(t)

	none, err := db.GetLatestSnapshot()
	require.NoError(t, err)
	assert.Nil(t, none)

	first, err := db.CreateSnapshot("track", "dev")
	require.NoError(t, err)
	second, err := db.CreateSnapshot("track", "dev")
	require.NoError(t, err)

	latest, err := db.GetSnapshotN(1)
	require.NoError(t, err)
	assert.Equal(t, second, latest.ID)
	prev, err := db.GetSnapshotN(2)
	require.NoError(t, err)
	assert.Equal(t, first, prev.ID)

	recent, err := db.GetRecentSnapshots(5)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, second, recent[0].ID)
}

func TestSaveReport_AndCompare(t *testing.T) {
	ctx := context.Background()
	db := openTest(t)
	ds := sampleDataset()

	r, err := report.Build(ctx, ds, report.Options{})
	require.NoError(t, err)
	firstID, err := db.SaveReport(ctx, r, "track", "dev")
	require.NoError(t, err)

	rows, err := db.GetBalanceRows(firstID)
	require.NoError(t, err)
	assert.Len(t, rows, len(r.Balance))
	assert.Equal(t, r.Balance[0].Category, rows[0].Category)

	metrics, err := db.GetAggregateMetrics(firstID)
	require.NoError(t, err)
	names := make(map[string]float64)
	for _, m := range metrics {
		names[m.MetricName] = m.MetricValue
	}
	assert.Equal(t, r.Categories.TotalVolume, names[MetricTotalVolume])
	assert.Contains(t, names, MetricPlateauRisk)
	assert.Contains(t, names, "volume:Pecho")

	ds.Records = append(ds.Records, workout.Record{
		ID: "r4", ExerciseID: "bench", Weight: 70, Reps: 5, Sets: 3, Date: monday.AddDate(0, 0, 14),
	})
	r2, err := report.Build(ctx, ds, report.Options{})
	require.NoError(t, err)
	secondID, err := db.SaveReport(ctx, r2, "track", "dev")
	require.NoError(t, err)

	deltas, err := db.CompareSnapshots(firstID, secondID)
	require.NoError(t, err)
	byName := make(map[string]MetricDelta)
	for _, d := range deltas {
		byName[d.Name] = d
	}
	assert.Equal(t, "up", byName[MetricTotalVolume].Direction)
	assert.Equal(t, "unchanged", byName[MetricUnresolvedRecords].Direction)
}
