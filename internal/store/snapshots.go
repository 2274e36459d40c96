package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/blackwell-systems/liftwatch/internal/analyzer"
	"github.com/blackwell-systems/liftwatch/internal/report"
)

// CreateSnapshot inserts a new snapshot and returns its ID.
func (db *DB) CreateSnapshot(command, version string) (int64, error) {
	result, err := db.conn.Exec(
		"INSERT INTO snapshots (taken_at, command, version) VALUES (?, ?, ?)",
		time.Now().UTC().Format(time.RFC3339), command, version,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetLatestSnapshot returns the most recent snapshot, or nil if none exist.
func (db *DB) GetLatestSnapshot() (*Snapshot, error) {
	return db.GetSnapshotN(1)
}

// GetSnapshotN returns the Nth most recent snapshot (1 = latest, 2 = previous, etc.).
func (db *DB) GetSnapshotN(n int) (*Snapshot, error) {
	row := db.conn.QueryRow(
		"SELECT id, taken_at, command, version FROM snapshots ORDER BY id DESC LIMIT 1 OFFSET ?",
		n-1,
	)
	var s Snapshot
	var takenAt string
	err := row.Scan(&s.ID, &takenAt, &s.Command, &s.Version)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.TakenAt, _ = time.Parse(time.RFC3339, takenAt)
	return &s, nil
}

// GetRecentSnapshots returns up to limit snapshots, newest first.
func (db *DB) GetRecentSnapshots(limit int) ([]Snapshot, error) {
	rows, err := db.conn.Query("SELECT id, taken_at, command, version FROM snapshots ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Snapshot
	for rows.Next() {
		var s Snapshot
		var takenAt string
		if err := rows.Scan(&s.ID, &takenAt, &s.Command, &s.Version); err != nil {
			return nil, err
		}
		s.TakenAt, _ = time.Parse(time.RFC3339, takenAt)
		out = append(out, s)
	}
	return out, rows.Err()
}

// InsertAggregateMetric inserts an aggregate metric for a snapshot.
func (db *DB) InsertAggregateMetric(snapshotID int64, name string, value float64, detail string) error {
	_, err := db.conn.Exec(
		"INSERT INTO aggregate_metrics (snapshot_id, metric_name, metric_value, detail) VALUES (?, ?, ?, ?)",
		snapshotID, name, value, detail,
	)
	return err
}

// GetAggregateMetrics returns all aggregate metrics for a snapshot.
func (db *DB) GetAggregateMetrics(snapshotID int64) ([]AggregateMetric, error) {
	rows, err := db.conn.Query(
		"SELECT id, snapshot_id, metric_name, metric_value, detail FROM aggregate_metrics WHERE snapshot_id = ? ORDER BY id",
		snapshotID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var metrics []AggregateMetric
	for rows.Next() {
		var m AggregateMetric
		var detail sql.NullString
		if err := rows.Scan(&m.ID, &m.SnapshotID, &m.MetricName, &m.MetricValue, &detail); err != nil {
			return nil, err
		}
		m.Detail = detail.String
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}

// InsertBalanceRows stores one row per category balance for a snapshot.
func (db *DB) InsertBalanceRows(snapshotID int64, balances []analyzer.MuscleBalance) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, b := range balances {
		if _, err := tx.Exec(
			`INSERT INTO balance_rows
			(snapshot_id, category, volume, actual_percentage, deviation, strength_index,
			 priority_level, development_stage)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			snapshotID, b.Category, b.Volume, b.ActualPercentage, b.Deviation,
			b.StrengthIndex, b.PriorityLevel, b.DevelopmentStage,
		); err != nil {
			return fmt.Errorf("balance row %s: %w", b.Category, err)
		}
	}
	return tx.Commit()
}

// GetBalanceRows returns the balance rows for a snapshot in insertion order.
func (db *DB) GetBalanceRows(snapshotID int64) ([]BalanceRow, error) {
	rows, err := db.conn.Query(
		`SELECT id, snapshot_id, category, volume, actual_percentage, deviation,
		 strength_index, priority_level, development_stage
		 FROM balance_rows WHERE snapshot_id = ? ORDER BY id`,
		snapshotID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []BalanceRow
	for rows.Next() {
		var b BalanceRow
		if err := rows.Scan(&b.ID, &b.SnapshotID, &b.Category, &b.Volume, &b.ActualPercentage,
			&b.Deviation, &b.StrengthIndex, &b.PriorityLevel, &b.DevelopmentStage); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Aggregate metric names written by SaveReport.
const (
	MetricTotalVolume       = "total_volume"
	MetricUnresolvedRecords = "unresolved_records"
	MetricCurrentMax        = "current_max"
	MetricProgressPct       = "progress_pct"
	MetricPlateauRisk       = "plateau_risk"
	MetricSuggestions       = "suggestion_count"
)

type namedValue struct {
	name  string
	value float64
}

// SaveReport snapshots r: headline aggregates plus one balance row per
// category. It returns the new snapshot id.
func (db *DB) SaveReport(ctx context.Context, r *report.Report, command, version string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	id, err := db.CreateSnapshot(command, version)
	if err != nil {
		return 0, fmt.Errorf("creating snapshot: %w", err)
	}

	metrics := []namedValue{
		{MetricTotalVolume, r.Categories.TotalVolume},
		{MetricUnresolvedRecords, float64(r.UnresolvedRecords)},
		{MetricSuggestions, float64(len(r.Suggestions))},
	}
	if r.Strength != nil {
		metrics = append(metrics,
			namedValue{MetricCurrentMax, r.Strength.CurrentMax},
			namedValue{MetricProgressPct, r.Strength.OverallProgress.Percentage},
			namedValue{MetricPlateauRisk, r.Strength.Predictions.PlateauRisk},
		)
	}
	for _, m := range metrics {
		if err := db.InsertAggregateMetric(id, m.name, m.value, ""); err != nil {
			return 0, fmt.Errorf("metric %s: %w", m.name, err)
		}
	}
	for _, c := range r.Categories.Metrics {
		if err := db.InsertAggregateMetric(id, "volume:"+c.Category, c.TotalVolume, c.Trend); err != nil {
			return 0, fmt.Errorf("metric volume:%s: %w", c.Category, err)
		}
	}
	if err := db.InsertBalanceRows(id, r.Balance); err != nil {
		return 0, err
	}
	return id, nil
}

// CompareSnapshots diffs the aggregate metrics of two snapshots by name.
// Metrics present in only one snapshot are skipped.
func (db *DB) CompareSnapshots(previousID, currentID int64) ([]MetricDelta, error) {
	prev, err := db.GetAggregateMetrics(previousID)
	if err != nil {
		return nil, err
	}
	cur, err := db.GetAggregateMetrics(currentID)
	if err != nil {
		return nil, err
	}

	prevByName := make(map[string]float64, len(prev))
	for _, m := range prev {
		prevByName[m.MetricName] = m.MetricValue
	}
	var deltas []MetricDelta
	for _, m := range cur {
		p, ok := prevByName[m.MetricName]
		if !ok {
			continue
		}
		d := MetricDelta{Name: m.MetricName, Previous: p, Current: m.MetricValue, Delta: m.MetricValue - p}
		switch {
		case math.Abs(d.Delta) < 1e-9:
			d.Direction = "unchanged"
		case d.Delta > 0:
			d.Direction = "up"
		default:
			d.Direction = "down"
		}
		deltas = append(deltas, d)
	}
	return deltas, nil
}
