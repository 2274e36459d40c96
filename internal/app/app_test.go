package app

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/liftwatch/internal/analyzer"
	"github.com/blackwell-systems/liftwatch/internal/store"
	"github.com/blackwell-systems/liftwatch/internal/suggest"
	"github.com/blackwell-systems/liftwatch/internal/workout"
)

// --- Helpers ---

// sandbox points HOME and the database at a temp dir and returns the db path.
func sandbox(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "data", "liftwatch.db")
	t.Setenv("HOME", dir)
	t.Setenv("LIFTWATCH_DB_PATH", dbPath)
	return dbPath
}

// resetFlags restores every flag in the tree to its default so package-level
// flag variables do not leak between executions.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	cfg = nil

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func mustExecute(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(t, args...)
	require.NoError(t, err, "liftwatch %v: %s", args, out)
	return out
}

func decodeJSON[T any](t *testing.T, out string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(out), &v), "output: %s", out)
	return v
}

var start = time.Date(2026, 1, 5, 18, 0, 0, 0, time.UTC)

func writeDataset(t *testing.T, ds workout.Dataset) string {
	t.Helper()
	data, err := json.Marshal(ds)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "dataset.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func sampleDataset() workout.Dataset {
	return workout.Dataset{
		Exercises: []workout.Exercise{
			{ID: "incline", Name: "Press inclinado", Categories: []string{"Pecho"}},
			{ID: "squat", Name: "Sentadilla", Categories: []string{"Piernas"}},
		},
		Records: []workout.Record{
			{ID: "r1", ExerciseID: "incline", Weight: 40, Reps: 8, Sets: 3, Date: start},
			{ID: "r2", ExerciseID: "incline", Weight: 42, Reps: 8, Sets: 3, Date: start.AddDate(0, 0, 7)},
			{ID: "r3", ExerciseID: "incline", Weight: 45, Reps: 8, Sets: 3, Date: start.AddDate(0, 0, 14)},
			{ID: "s1", ExerciseID: "squat", Weight: 100, Reps: 5, Sets: 5, Date: start.AddDate(0, 0, 2)},
		},
		Assignments: []workout.Assignment{{ExerciseID: "squat", DayOfWeek: "Viernes"}},
	}
}

// --- Root ---

func TestRoot_ListsCommands(t *testing.T) {
	sandbox(t)
	out := mustExecute(t)
	for _, name := range []string{"analyze", "balance", "strength", "suggest", "record", "exercise", "import", "track", "watch", "mcp"} {
		assert.Contains(t, out, name)
	}
}

func TestRoot_SubcommandsRegistered(t *testing.T) {
	registered := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}
	for _, name := range []string{"analyze", "balance", "strength", "suggest", "record", "exercise", "import", "track", "watch", "mcp"} {
		assert.True(t, registered[name], "missing subcommand %s", name)
	}
}

// --- Exercises and records ---

func TestExerciseAndRecordFlow(t *testing.T) {
	sandbox(t)

	out := mustExecute(t, "exercise", "add", "Press inclinado", "--id", "incline", "--category", "pecho")
	assert.Contains(t, out, "[Pecho]")

	mustExecute(t, "record", "add", "--exercise", "press INCLINADO", "--weight", "60", "--reps", "8", "--sets", "3", "--date", "2026-01-05")
	mustExecute(t, "record", "add", "--exercise", "incline", "--set", "62.5x8", "--set", "65x6", "--date", "2026-01-12")

	records := decodeJSON[[]workout.Record](t, mustExecute(t, "record", "list", "--json"))
	require.Len(t, records, 2)
	assert.Equal(t, 60.0, records[0].Weight)
	assert.Equal(t, "Lunes", records[0].DayOfWeek)
	require.Len(t, records[1].IndividualSets, 2)
	assert.Equal(t, 65.0, records[1].Weight)
	assert.Equal(t, 2, records[1].Sets)

	windowed := decodeJSON[[]workout.Record](t, mustExecute(t, "record", "list", "--since", "2026-01-10", "--json"))
	require.Len(t, windowed, 1)

	out = mustExecute(t, "record", "delete", records[0].ID)
	assert.Contains(t, out, records[0].ID)
	left := decodeJSON[[]workout.Record](t, mustExecute(t, "record", "list", "--json"))
	assert.Len(t, left, 1)

	exercises := decodeJSON[[]workout.Exercise](t, mustExecute(t, "exercise", "list", "--json"))
	require.Len(t, exercises, 1)
	assert.Equal(t, []string{"Pecho"}, exercises[0].Categories)
}

func TestExerciseAdd_UnknownGroup(t *testing.T) {
	sandbox(t)
	_, err := execute(t, "exercise", "add", "Curl", "--category", "Antebrazo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown muscle group")
}

func TestRecordAdd_Errors(t *testing.T) {
	sandbox(t)
	mustExecute(t, "exercise", "add", "Sentadilla", "--id", "squat", "--category", "Piernas")

	_, err := execute(t, "record", "add", "--exercise", "deadlift", "--weight", "100", "--reps", "5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown exercise")

	_, err = execute(t, "record", "add", "--exercise", "squat", "--weight", "100")
	require.Error(t, err, "zero reps must fail validation")

	_, err = execute(t, "record", "add", "--exercise", "squat", "--set", "100-5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WEIGHTxREPS")

	_, err = execute(t, "record", "delete", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no record")
}

func TestParseSets(t *testing.T) {
	sets, err := parseSets([]string{"62.5x8", " 70 X 5 "})
	require.NoError(t, err)
	assert.Equal(t, []workout.SetDetail{{Weight: 62.5, Reps: 8}, {Weight: 70, Reps: 5}}, sets)

	for _, bad := range []string{"62.5", "ax8", "60xb"} {
		_, err := parseSets([]string{bad})
		assert.Error(t, err, bad)
	}
}

// --- Import ---

func TestImport_ThenAnalyze(t *testing.T) {
	sandbox(t)
	out := mustExecute(t, "import", writeDataset(t, sampleDataset()))
	assert.Contains(t, out, "Imported 2 exercises, 4 records, 1 assignments")

	cats := decodeJSON[analyzer.CategoryAnalysis](t, mustExecute(t, "analyze", "--json"))
	assert.Equal(t, 4, cats.TotalRecords)
	require.NotNil(t, cats.Find("Pecho"))
	assert.Equal(t, 3, cats.Find("Pecho").WorkoutCount)

	one := decodeJSON[analyzer.CategoryAnalysis](t, mustExecute(t, "analyze", "--category", "pecho", "--until", "2026-01-12", "--json"))
	require.Len(t, one.Metrics, 1)
	assert.Equal(t, 2, one.Metrics[0].WorkoutCount)

	text := mustExecute(t, "analyze")
	assert.Contains(t, text, "Muscle Groups")
	assert.Contains(t, text, "Pecho")
}

func TestImport_Directory(t *testing.T) {
	sandbox(t)
	dir := t.TempDir()
	ds := sampleDataset()
	for name, v := range map[string]any{"exercises.json": ds.Exercises, "records.json": ds.Records} {
		data, err := json.Marshal(v)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
	}
	stats := decodeJSON[store.ImportStats](t, mustExecute(t, "import", dir, "--json"))
	assert.Equal(t, store.ImportStats{Exercises: 2, Records: 4}, stats)
}

func TestImport_InvalidWritesNothing(t *testing.T) {
	sandbox(t)
	ds := sampleDataset()
	ds.Records[1].Reps = 0
	_, err := execute(t, "import", writeDataset(t, ds))
	require.Error(t, err)

	exercises := decodeJSON[[]workout.Exercise](t, mustExecute(t, "exercise", "list", "--json"))
	assert.Empty(t, exercises)
}

func TestImport_MissingPath(t *testing.T) {
	sandbox(t)
	_, err := execute(t, "import", filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

// --- Analysis commands ---

func TestBalance_JSON(t *testing.T) {
	sandbox(t)
	mustExecute(t, "import", writeDataset(t, sampleDataset()))

	balances := decodeJSON[[]analyzer.MuscleBalance](t, mustExecute(t, "balance", "--json"))
	assert.Len(t, balances, 6)

	one := decodeJSON[[]analyzer.MuscleBalance](t, mustExecute(t, "balance", "--category", "Espalda", "--json"))
	require.Len(t, one, 1)
	assert.Equal(t, analyzer.StageNeglected, one[0].DevelopmentStage)

	text := mustExecute(t, "balance", "--details")
	assert.Contains(t, text, "Muscle Balance")
}

func TestAnalyze_Errors(t *testing.T) {
	sandbox(t)
	mustExecute(t, "import", writeDataset(t, sampleDataset()))

	_, err := execute(t, "analyze", "--category", "Glúteos")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown category")

	_, err = execute(t, "analyze", "--since", "2026-02-01", "--until", "2026-01-01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "before")

	_, err = execute(t, "balance", "--since", "last week")
	require.Error(t, err)
}

func TestStrength(t *testing.T) {
	sandbox(t)
	mustExecute(t, "import", writeDataset(t, sampleDataset()))

	got := decodeJSON[strengthOutput](t, mustExecute(t, "strength", "--exercise", "incline", "--json"))
	require.True(t, got.Available)
	assert.Equal(t, 3, got.Analysis.RecordCount)

	none := decodeJSON[strengthOutput](t, mustExecute(t, "strength", "--exercise", "curl", "--json"))
	assert.False(t, none.Available)

	text := mustExecute(t, "strength")
	assert.Contains(t, text, "Strength Progress")
	assert.Contains(t, text, "Predictions")
}

func TestStrength_EmptyDatabase(t *testing.T) {
	sandbox(t)
	out := mustExecute(t, "strength")
	assert.Contains(t, out, "No records to analyze")
}

func TestSuggest(t *testing.T) {
	sandbox(t)
	mustExecute(t, "import", writeDataset(t, sampleDataset()))

	all := decodeJSON[[]suggest.Suggestion](t, mustExecute(t, "suggest", "--limit", "0", "--json"))
	require.NotEmpty(t, all)

	limited := decodeJSON[[]suggest.Suggestion](t, mustExecute(t, "suggest", "--limit", "2", "--json"))
	assert.LessOrEqual(t, len(limited), 2)

	warnings := decodeJSON[[]suggest.Suggestion](t, mustExecute(t, "suggest", "--kind", "warning", "--limit", "0", "--json"))
	for _, s := range warnings {
		assert.Equal(t, suggest.KindWarning, s.Kind)
	}

	_, err := execute(t, "suggest", "--kind", "bogus")
	require.Error(t, err)
	_, err = execute(t, "suggest", "--limit", "-1")
	require.Error(t, err)
}

func TestFilterByKind(t *testing.T) {
	in := []suggest.Suggestion{
		{Title: "a", Kind: suggest.KindRecommendation},
		{Title: "b", Kind: suggest.KindWarning},
	}
	assert.Len(t, filterByKind(in, ""), 2)
	got := filterByKind(in, suggest.KindWarning)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].Title)
}

// --- Track ---

func TestTrack_FirstThenCompare(t *testing.T) {
	sandbox(t)
	mustExecute(t, "import", writeDataset(t, sampleDataset()))

	out := mustExecute(t, "track")
	assert.Contains(t, out, "First snapshot recorded")

	more := sampleDataset()
	more.Records = append(more.Records, workout.Record{ID: "r4", ExerciseID: "incline", Weight: 50, Reps: 8, Sets: 3, Date: start.AddDate(0, 0, 21)})
	mustExecute(t, "import", writeDataset(t, more))

	result := decodeJSON[struct {
		Snapshot store.Snapshot `json:"snapshot"`
		Diff     *snapshotDiff  `json:"diff"`
	}](t, mustExecute(t, "track", "--json"))
	require.NotNil(t, result.Diff)

	var volume *store.MetricDelta
	for i := range result.Diff.Deltas {
		if result.Diff.Deltas[i].Name == store.MetricTotalVolume {
			volume = &result.Diff.Deltas[i]
		}
	}
	require.NotNil(t, volume)
	assert.Equal(t, "up", volume.Direction)

	history := mustExecute(t, "track", "--history", "3")
	assert.Contains(t, history, "Metric History")
	assert.Contains(t, history, "Total Volume (kg)")

	_, err := execute(t, "track", "--compare", "0")
	require.Error(t, err)
}

func TestHigherIsBetter(t *testing.T) {
	assert.True(t, higherIsBetter(store.MetricTotalVolume))
	assert.True(t, higherIsBetter("volume:Pecho"))
	assert.False(t, higherIsBetter(store.MetricPlateauRisk))
	assert.False(t, higherIsBetter(store.MetricUnresolvedRecords))
	assert.Equal(t, "Pecho volume", metricShortName("volume:Pecho"))
}

// --- Watch ---

func TestWatch_IntervalTooShort(t *testing.T) {
	sandbox(t)
	_, err := execute(t, "watch", "--interval", "1s")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least")
}

func TestWatch_SingleInstance(t *testing.T) {
	dbPath := sandbox(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(dbPath), 0o755))

	held := flock.New(dbPath + ".watch.lock")
	locked, err := held.TryLock()
	require.NoError(t, err)
	require.True(t, locked)
	defer func() { _ = held.Unlock() }()

	_, err = execute(t, "watch", "--interval", "1m")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already running")
}
