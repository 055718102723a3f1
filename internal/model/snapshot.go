package model

import "time"

type SnapshotStatus string

const (
	SnapshotStatusRunning   SnapshotStatus = "running"
	SnapshotStatusCompleted SnapshotStatus = "completed"
	SnapshotStatusFailed    SnapshotStatus = "failed"
)

// Snapshot records one encrypted export of the logs and members to object storage.
type Snapshot struct {
	ID         int64          `json:"id"`
	ObjectKey  string         `json:"object_key"`
	SizeBytes  int64          `json:"size_bytes"`
	LogCount   int            `json:"log_count"`
	Status     SnapshotStatus `json:"status"`
	ErrorMsg   string         `json:"error_message,omitempty"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt *time.Time     `json:"finished_at,omitempty"`
}
