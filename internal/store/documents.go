package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/blackwell-systems/liftwatch/internal/workout"
)

// dateLayout is fixed-width UTC so text ordering matches time ordering.
const dateLayout = "2006-01-02T15:04:05.000000000Z"

func formatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func affectedOrNotFound(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return nil
}

// --- Exercises ---

const upsertExerciseSQL = `INSERT INTO exercises (id, name, categories) VALUES (?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET name = excluded.name, categories = excluded.categories`

func putExercise(ctx context.Context, e execer, ex workout.Exercise) error {
	cats := ex.Categories
	if cats == nil {
		cats = []string{}
	}
	data, err := json.Marshal(cats)
	if err != nil {
		return err
	}
	_, err = e.ExecContext(ctx, upsertExerciseSQL, ex.ID, ex.Name, string(data))
	return err
}

// CreateExercise inserts an exercise, assigning a new id when empty.
func (db *DB) CreateExercise(ctx context.Context, ex *workout.Exercise) error {
	if ex.ID == "" {
		ex.ID = uuid.NewString()
	}
	if strings.TrimSpace(ex.Name) == "" {
		return fmt.Errorf("exercise %s: empty name", ex.ID)
	}
	return putExercise(ctx, db.conn, *ex)
}

// GetExercise returns the exercise with the given id.
func (db *DB) GetExercise(ctx context.Context, id string) (*workout.Exercise, error) {
	row := db.conn.QueryRowContext(ctx, "SELECT id, name, categories FROM exercises WHERE id = ?", id)
	ex, err := scanExercise(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("exercise %s: %w", id, ErrNotFound)
	}
	return ex, err
}

// UpdateExercise replaces an existing exercise.
func (db *DB) UpdateExercise(ctx context.Context, ex workout.Exercise) error {
	data, err := json.Marshal(ex.Categories)
	if err != nil {
		return err
	}
	res, err := db.conn.ExecContext(ctx, "UPDATE exercises SET name = ?, categories = ? WHERE id = ?", ex.Name, string(data), ex.ID)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res, "exercise", ex.ID)
}

// DeleteExercise removes an exercise. Records pointing at it are kept and
// analyze as uncategorized.
func (db *DB) DeleteExercise(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, "DELETE FROM exercises WHERE id = ?", id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res, "exercise", id)
}

// ListExercises returns all exercises ordered by name.
func (db *DB) ListExercises(ctx context.Context) ([]workout.Exercise, error) {
	rows, err := db.conn.QueryContext(ctx, "SELECT id, name, categories FROM exercises ORDER BY name, id")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []workout.Exercise
	for rows.Next() {
		ex, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *ex)
	}
	return out, rows.Err()
}

func scanExercise(row rowScanner) (*workout.Exercise, error) {
	var ex workout.Exercise
	var cats string
	if err := row.Scan(&ex.ID, &ex.Name, &cats); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(cats), &ex.Categories); err != nil {
		return nil, fmt.Errorf("exercise %s categories: %w", ex.ID, err)
	}
	return &ex, nil
}

// --- Records ---

const upsertRecordSQL = `INSERT INTO records
	(id, exercise_id, weight, reps, sets, date, day_of_week, individual_sets)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		exercise_id = excluded.exercise_id, weight = excluded.weight,
		reps = excluded.reps, sets = excluded.sets, date = excluded.date,
		day_of_week = excluded.day_of_week, individual_sets = excluded.individual_sets`

const selectRecordSQL = `SELECT id, exercise_id, weight, reps, sets, date, day_of_week, individual_sets FROM records`

func recordArgs(r workout.Record) ([]any, error) {
	var sets sql.NullString
	if len(r.IndividualSets) > 0 {
		data, err := json.Marshal(r.IndividualSets)
		if err != nil {
			return nil, err
		}
		sets = sql.NullString{String: string(data), Valid: true}
	}
	day := r.DayOfWeek
	if day == "" {
		day = workout.DayOfWeek(r.Date)
	}
	return []any{r.ID, r.ExerciseID, r.Weight, r.Reps, r.Sets, formatDate(r.Date), day, sets}, nil
}

func putRecord(ctx context.Context, e execer, r workout.Record) error {
	args, err := recordArgs(r)
	if err != nil {
		return err
	}
	_, err = e.ExecContext(ctx, upsertRecordSQL, args...)
	return err
}

// CreateRecord validates and inserts a record, assigning a new id when empty.
func (db *DB) CreateRecord(ctx context.Context, r *workout.Record) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if err := workout.ValidateRecord(*r, r.ID); err != nil {
		return err
	}
	return putRecord(ctx, db.conn, *r)
}

// GetRecord returns the record with the given id.
func (db *DB) GetRecord(ctx context.Context, id string) (*workout.Record, error) {
	row := db.conn.QueryRowContext(ctx, selectRecordSQL+" WHERE id = ?", id)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("record %s: %w", id, ErrNotFound)
	}
	return r, err
}

// UpdateRecord validates and replaces an existing record.
func (db *DB) UpdateRecord(ctx context.Context, r workout.Record) error {
	if err := workout.ValidateRecord(r, r.ID); err != nil {
		return err
	}
	args, err := recordArgs(r)
	if err != nil {
		return err
	}
	res, err := db.conn.ExecContext(ctx,
		`UPDATE records SET exercise_id = ?, weight = ?, reps = ?, sets = ?, date = ?,
		 day_of_week = ?, individual_sets = ? WHERE id = ?`,
		append(args[1:], r.ID)...,
	)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res, "record", r.ID)
}

// DeleteRecord removes a record.
func (db *DB) DeleteRecord(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, "DELETE FROM records WHERE id = ?", id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res, "record", id)
}

// ListRecords returns records matching f ordered by date then id.
func (db *DB) ListRecords(ctx context.Context, f RecordFilter) ([]workout.Record, error) {
	var (
		where []string
		args  []any
	)
	if f.ExerciseID != "" {
		where = append(where, "exercise_id = ?")
		args = append(args, f.ExerciseID)
	}
	if !f.Since.IsZero() {
		where = append(where, "date >= ?")
		args = append(args, formatDate(f.Since))
	}
	if !f.Until.IsZero() {
		where = append(where, "date <= ?")
		args = append(args, formatDate(f.Until))
	}

	query := selectRecordSQL
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY date, id"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []workout.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

func scanRecord(row rowScanner) (*workout.Record, error) {
	var (
		r         workout.Record
		date      string
		day, sets sql.NullString
	)
	if err := row.Scan(&r.ID, &r.ExerciseID, &r.Weight, &r.Reps, &r.Sets, &date, &day, &sets); err != nil {
		return nil, err
	}
	t, err := parseDate(date)
	if err != nil {
		return nil, fmt.Errorf("record %s date: %w", r.ID, err)
	}
	r.Date = t
	r.DayOfWeek = day.String
	if sets.Valid && sets.String != "" {
		if err := json.Unmarshal([]byte(sets.String), &r.IndividualSets); err != nil {
			return nil, fmt.Errorf("record %s sets: %w", r.ID, err)
		}
	}
	return &r, nil
}

// --- Assignments ---

func putAssignment(ctx context.Context, e execer, a workout.Assignment) error {
	_, err := e.ExecContext(ctx,
		`INSERT INTO assignments (id, exercise_id, day_of_week) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET exercise_id = excluded.exercise_id, day_of_week = excluded.day_of_week`,
		a.ID, a.ExerciseID, a.DayOfWeek,
	)
	return err
}

// CreateAssignment schedules an exercise on a day, assigning a new id when empty.
func (db *DB) CreateAssignment(ctx context.Context, a *workout.Assignment) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.ExerciseID == "" || a.DayOfWeek == "" {
		return fmt.Errorf("assignment %s: exerciseId and dayOfWeek are required", a.ID)
	}
	return putAssignment(ctx, db.conn, *a)
}

// GetAssignment returns the assignment with the given id.
func (db *DB) GetAssignment(ctx context.Context, id string) (*workout.Assignment, error) {
	var a workout.Assignment
	err := db.conn.QueryRowContext(ctx, "SELECT id, exercise_id, day_of_week FROM assignments WHERE id = ?", id).
		Scan(&a.ID, &a.ExerciseID, &a.DayOfWeek)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("assignment %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// UpdateAssignment replaces an existing assignment.
func (db *DB) UpdateAssignment(ctx context.Context, a workout.Assignment) error {
	res, err := db.conn.ExecContext(ctx, "UPDATE assignments SET exercise_id = ?, day_of_week = ? WHERE id = ?",
		a.ExerciseID, a.DayOfWeek, a.ID)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res, "assignment", a.ID)
}

// DeleteAssignment removes an assignment.
func (db *DB) DeleteAssignment(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, "DELETE FROM assignments WHERE id = ?", id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res, "assignment", id)
}

// ListAssignments returns all assignments.
func (db *DB) ListAssignments(ctx context.Context) ([]workout.Assignment, error) {
	rows, err := db.conn.QueryContext(ctx, "SELECT id, exercise_id, day_of_week FROM assignments ORDER BY exercise_id, id")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []workout.Assignment
	for rows.Next() {
		var a workout.Assignment
		if err := rows.Scan(&a.ID, &a.ExerciseID, &a.DayOfWeek); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// --- Whole dataset ---

// Dataset loads every document for analysis.
func (db *DB) Dataset(ctx context.Context) (workout.Dataset, error) {
	var ds workout.Dataset
	var err error
	if ds.Exercises, err = db.ListExercises(ctx); err != nil {
		return ds, fmt.Errorf("listing exercises: %w", err)
	}
	if ds.Records, err = db.ListRecords(ctx, RecordFilter{}); err != nil {
		return ds, fmt.Errorf("listing records: %w", err)
	}
	if ds.Assignments, err = db.ListAssignments(ctx); err != nil {
		return ds, fmt.Errorf("listing assignments: %w", err)
	}
	return ds, nil
}

// ImportStats counts the documents written by ImportDataset.
type ImportStats struct {
	Exercises   int `json:"exercises"`
	Records     int `json:"records"`
	Assignments int `json:"assignments"`
}

// ImportDataset validates ds and upserts all of it in one transaction.
// Records and assignments without an id get a fresh one. Nothing is written
// when validation fails.
func (db *DB) ImportDataset(ctx context.Context, ds workout.Dataset) (ImportStats, error) {
	ds.Records = append([]workout.Record(nil), ds.Records...)
	for i := range ds.Records {
		if ds.Records[i].ID == "" {
			ds.Records[i].ID = uuid.NewString()
		}
	}
	ds.Assignments = append([]workout.Assignment(nil), ds.Assignments...)
	for i := range ds.Assignments {
		if ds.Assignments[i].ID == "" {
			ds.Assignments[i].ID = uuid.NewString()
		}
	}
	if err := workout.Validate(ds); err != nil {
		return ImportStats{}, err
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return ImportStats{}, err
	}
	defer func() { _ = tx.Rollback() }()

	for _, ex := range ds.Exercises {
		if err := putExercise(ctx, tx, ex); err != nil {
			return ImportStats{}, fmt.Errorf("exercise %s: %w", ex.ID, err)
		}
	}
	for _, r := range ds.Records {
		if err := putRecord(ctx, tx, r); err != nil {
			return ImportStats{}, fmt.Errorf("record %s: %w", r.ID, err)
		}
	}
	for _, a := range ds.Assignments {
		if err := putAssignment(ctx, tx, a); err != nil {
			return ImportStats{}, fmt.Errorf("assignment %s: %w", a.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return ImportStats{}, err
	}
	return ImportStats{
		Exercises:   len(ds.Exercises),
		Records:     len(ds.Records),
		Assignments: len(ds.Assignments),
	}, nil
}
