package store

import "fmt"

// currentSchemaVersion is the latest schema version.
const currentSchemaVersion = 2

// Migrate runs forward migrations to bring the database schema up to date.
func (db *DB) Migrate() error {
	if _, err := db.conn.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	version := 0
	if err := db.conn.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		// No rows means a fresh database.
		version = 0
	}

	steps := []struct {
		version int
		stmts   []string
	}{
		{1, documentTables},
		{2, snapshotTables},
	}
	for _, step := range steps {
		if version >= step.version {
			continue
		}
		if err := db.migrate(step.version, step.stmts); err != nil {
			return fmt.Errorf("migration v%d: %w", step.version, err)
		}
	}
	return nil
}

// documentTables holds the records, exercises and assignments the app edits.
var documentTables = []string{
	`CREATE TABLE IF NOT EXISTS exercises (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		categories TEXT NOT NULL DEFAULT '[]'
	)`,

	`CREATE TABLE IF NOT EXISTS records (
		id              TEXT PRIMARY KEY,
		exercise_id     TEXT NOT NULL,
		weight          REAL NOT NULL DEFAULT 0,
		reps            INTEGER NOT NULL DEFAULT 0,
		sets            INTEGER NOT NULL DEFAULT 0,
		date            TEXT NOT NULL,
		day_of_week     TEXT,
		individual_sets TEXT
	)`,

	`CREATE TABLE IF NOT EXISTS assignments (
		id          TEXT PRIMARY KEY,
		exercise_id TEXT NOT NULL,
		day_of_week TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_records_exercise ON records(exercise_id)`,
	`CREATE INDEX IF NOT EXISTS idx_records_date ON records(date)`,
	`CREATE INDEX IF NOT EXISTS idx_assignments_exercise ON assignments(exercise_id)`,
}

// snapshotTables holds point-in-time analysis results for trend tracking.
var snapshotTables = []string{
	`CREATE TABLE IF NOT EXISTS snapshots (
		id       INTEGER PRIMARY KEY AUTOINCREMENT,
		taken_at TEXT NOT NULL,
		command  TEXT NOT NULL,
		version  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS aggregate_metrics (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		snapshot_id  INTEGER NOT NULL REFERENCES snapshots(id),
		metric_name  TEXT NOT NULL,
		metric_value REAL NOT NULL,
		detail       TEXT
	)`,

	`CREATE TABLE IF NOT EXISTS balance_rows (
		id                INTEGER PRIMARY KEY AUTOINCREMENT,
		snapshot_id       INTEGER NOT NULL REFERENCES snapshots(id),
		category          TEXT NOT NULL,
		volume            REAL NOT NULL,
		actual_percentage REAL NOT NULL,
		deviation         REAL NOT NULL,
		strength_index    REAL NOT NULL,
		priority_level    TEXT NOT NULL,
		development_stage TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_aggregate_snapshot ON aggregate_metrics(snapshot_id)`,
	`CREATE INDEX IF NOT EXISTS idx_balance_snapshot ON balance_rows(snapshot_id)`,
}

func (db *DB) migrate(version int, statements []string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("executing %q: %w", stmt[:min(40, len(stmt))], err)
		}
	}

	if _, err := tx.Exec("DELETE FROM schema_version"); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}
