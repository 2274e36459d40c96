// Package store provides SQLite persistence for workout documents and
// analysis snapshots.
package store

import "time"

// Snapshot represents a point-in-time capture of an analysis run.
type Snapshot struct {
	ID      int64     `json:"id"`
	TakenAt time.Time `json:"taken_at"`
	Command string    `json:"command"`
	Version string    `json:"version"`
}

// AggregateMetric represents a named metric value within a snapshot.
type AggregateMetric struct {
	ID          int64   `json:"id"`
	SnapshotID  int64   `json:"snapshot_id"`
	MetricName  string  `json:"metric_name"`
	MetricValue float64 `json:"metric_value"`
	Detail      string  `json:"detail,omitempty"`
}

// BalanceRow is the persisted subset of a category's balance result.
type BalanceRow struct {
	ID               int64   `json:"id"`
	SnapshotID       int64   `json:"snapshot_id"`
	Category         string  `json:"category"`
	Volume           float64 `json:"volume"`
	ActualPercentage float64 `json:"actual_percentage"`
	Deviation        float64 `json:"deviation"`
	StrengthIndex    float64 `json:"strength_index"`
	PriorityLevel    string  `json:"priority_level"`
	DevelopmentStage string  `json:"development_stage"`
}

// RecordFilter narrows ListRecords. Zero fields match everything.
type RecordFilter struct {
	ExerciseID string
	Since      time.Time
	Until      time.Time
	Limit      int
}

// MetricDelta represents the change in a single metric between snapshots.
type MetricDelta struct {
	Name      string  `json:"name"`
	Previous  float64 `json:"previous"`
	Current   float64 `json:"current"`
	Delta     float64 `json:"delta"`
	Direction string  `json:"direction"` // "up", "down", "unchanged"
}
