package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/liftwatch/internal/output"
	"github.com/blackwell-systems/liftwatch/internal/store"
	"github.com/blackwell-systems/liftwatch/internal/workout"
)

var (
	recordExercise string
	recordWeight   float64
	recordReps     int
	recordSets     int
	recordDate     string
	recordSetList  []string
	recordLimit    int
	recordWindow   window
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Add, list or delete workout records",
}

var recordAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Log a workout record",
	Long: `Log one exercise entry. Give either aggregate --weight/--reps/--sets or
one --set WEIGHTxREPS per set when the load varied between sets.

Examples:
  liftwatch record add --exercise "Press inclinado" --weight 60 --reps 8 --sets 3
  liftwatch record add --exercise squat --set 100x5 --set 105x5 --set 110x3 --date 2026-03-02`,
	Args: cobra.NoArgs,
	RunE: runRecordAdd,
}

var recordListCmd = &cobra.Command{
	Use:   "list",
	Short: "List workout records, oldest first",
	Args:  cobra.NoArgs,
	RunE:  runRecordList,
}

var recordDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a workout record",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecordDelete,
}

func init() {
	recordAddCmd.Flags().StringVar(&recordExercise, "exercise", "", "Exercise id or name (required)")
	recordAddCmd.Flags().Float64Var(&recordWeight, "weight", 0, "Weight per set in kg")
	recordAddCmd.Flags().IntVar(&recordReps, "reps", 0, "Reps per set")
	recordAddCmd.Flags().IntVar(&recordSets, "sets", 1, "Number of sets")
	recordAddCmd.Flags().StringArrayVar(&recordSetList, "set", nil, "One set as WEIGHTxREPS, repeatable (overrides --weight/--reps/--sets)")
	recordAddCmd.Flags().StringVar(&recordDate, "date", "", "Session date, YYYY-MM-DD or RFC 3339 (default: now)")
	_ = recordAddCmd.MarkFlagRequired("exercise")

	recordListCmd.Flags().StringVar(&recordExercise, "exercise", "", "Only records of this exercise (id or name)")
	recordListCmd.Flags().IntVar(&recordLimit, "limit", 0, "Maximum records to list (0 = all)")
	recordWindow.register(recordListCmd)

	recordCmd.AddCommand(recordAddCmd, recordListCmd, recordDeleteCmd)
	rootCmd.AddCommand(recordCmd)
}

func runRecordAdd(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	ctx := cmd.Context()
	ex, err := resolveExercise(ctx, db, recordExercise)
	if err != nil {
		return err
	}

	rec := workout.Record{ExerciseID: ex.ID, Weight: recordWeight, Reps: recordReps, Sets: recordSets, Date: time.Now()}
	if recordDate != "" {
		if rec.Date, err = workout.ParseBound(recordDate, false); err != nil {
			return fmt.Errorf("--date: %w", err)
		}
	}
	if len(recordSetList) > 0 {
		sets, err := parseSets(recordSetList)
		if err != nil {
			return err
		}
		rec.IndividualSets = sets
		summarizeSets(&rec)
	}

	if err := db.CreateRecord(ctx, &rec); err != nil {
		return fmt.Errorf("saving record: %w", err)
	}
	if flagJSON {
		return writeJSON(cmd.OutOrStdout(), rec)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Logged %s: %s (%s)\n",
		output.StyleSuccess.Render("✓"), ex.Name, describeLoad(rec), rec.ID)
	return nil
}

func runRecordList(cmd *cobra.Command, args []string) error {
	since, err := workout.ParseBound(recordWindow.since, false)
	if err != nil {
		return fmt.Errorf("--since: %w", err)
	}
	until, err := workout.ParseBound(recordWindow.until, true)
	if err != nil {
		return fmt.Errorf("--until: %w", err)
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	ctx := cmd.Context()
	filter := store.RecordFilter{Since: since, Until: until, Limit: recordLimit}
	if recordExercise != "" {
		ex, err := resolveExercise(ctx, db, recordExercise)
		if err != nil {
			return err
		}
		filter.ExerciseID = ex.ID
	}

	records, err := db.ListRecords(ctx, filter)
	if err != nil {
		return fmt.Errorf("listing records: %w", err)
	}
	if flagJSON {
		if records == nil {
			records = []workout.Record{}
		}
		return writeJSON(cmd.OutOrStdout(), records)
	}

	exercises, err := db.ListExercises(ctx)
	if err != nil {
		return fmt.Errorf("listing exercises: %w", err)
	}
	renderRecords(cmd.OutOrStdout(), records, workout.Dataset{Exercises: exercises}.ExerciseIndex())
	return nil
}

func runRecordDelete(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := db.DeleteRecord(cmd.Context(), args[0]); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no record with id %q", args[0])
		}
		return fmt.Errorf("deleting record: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted record %s\n", args[0])
	return nil
}

// resolveExercise finds an exercise by id, then by case-insensitive name.
func resolveExercise(ctx context.Context, db *store.DB, key string) (*workout.Exercise, error) {
	ex, err := db.GetExercise(ctx, key)
	if err == nil {
		return ex, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	all, err := db.ListExercises(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if workout.SameLabel(all[i].Name, key) {
			return &all[i], nil
		}
	}
	return nil, fmt.Errorf("unknown exercise %q (add it with 'liftwatch exercise add')", key)
}

// parseSets parses WEIGHTxREPS values such as "62.5x8".
func parseSets(values []string) ([]workout.SetDetail, error) {
	sets := make([]workout.SetDetail, 0, len(values))
	for _, v := range values {
		w, r, ok := strings.Cut(strings.ToLower(strings.TrimSpace(v)), "x")
		if !ok {
			return nil, fmt.Errorf("--set %q: want WEIGHTxREPS", v)
		}
		weight, err := strconv.ParseFloat(strings.TrimSpace(w), 64)
		if err != nil {
			return nil, fmt.Errorf("--set %q: bad weight: %w", v, err)
		}
		reps, err := strconv.Atoi(strings.TrimSpace(r))
		if err != nil {
			return nil, fmt.Errorf("--set %q: bad reps: %w", v, err)
		}
		sets = append(sets, workout.SetDetail{Weight: weight, Reps: reps})
	}
	return sets, nil
}

// summarizeSets fills the aggregate fields from the individual sets.
func summarizeSets(r *workout.Record) {
	load := workout.DetailedSets(r.IndividualSets)
	r.Weight = load.MaxWeight()
	r.Reps = int(load.AvgReps() + 0.5)
	r.Sets = load.SetCount()
}

func describeLoad(r workout.Record) string {
	if len(r.IndividualSets) == 0 {
		return fmt.Sprintf("%d x %d @ %s", r.Sets, r.Reps, kg(r.Weight))
	}
	parts := make([]string, len(r.IndividualSets))
	for i, s := range r.IndividualSets {
		parts[i] = fmt.Sprintf("%gx%d", s.Weight, s.Reps)
	}
	return strings.Join(parts, ", ")
}

func renderRecords(w io.Writer, records []workout.Record, exercises map[string]workout.Exercise) {
	if len(records) == 0 {
		fmt.Fprintln(w, " No records.")
		return
	}
	tbl := output.NewTable("Date", "Day", "Exercise", "Load", "Volume", "ID")
	for _, r := range records {
		name := r.ExerciseID
		if ex, ok := exercises[r.ExerciseID]; ok {
			name = ex.Name
		} else {
			name = output.StyleMuted.Render(name + " (unknown)")
		}
		tbl.AddRow(
			r.Date.Format("2006-01-02"),
			r.Weekday(),
			name,
			describeLoad(r),
			fmt.Sprintf("%.0f", r.Load().Volume()),
			output.StyleMuted.Render(r.ID),
		)
	}
	tbl.Fprint(w)
}
