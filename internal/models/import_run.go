package models

import "time"

// ImportStatus tracks the lifecycle of one snapshot import run.
type ImportStatus string

// Possible import run statuses.
const (
	ImportStatusQueued    ImportStatus = "queued"
	ImportStatusRunning   ImportStatus = "running"
	ImportStatusCompleted ImportStatus = "completed"
	ImportStatusSkipped   ImportStatus = "skipped"
	ImportStatusFailed    ImportStatus = "failed"
)

// ImportRun records one snapshot import with its outcome summary.
type ImportRun struct {
	ID           string         `json:"id"`
	TeacherID    string         `json:"teacher_id"`
	TeacherEmail string         `json:"teacher_email"`
	Status       ImportStatus   `json:"status"`
	SnapshotHash string         `json:"snapshot_hash"`
	Counts       *MergeCounts   `json:"counts,omitempty"`
	Warnings     []MergeWarning `json:"warnings,omitempty"`
	Error        string         `json:"error,omitempty"`
	StartedAt    time.Time      `json:"started_at"`
	FinishedAt   *time.Time     `json:"finished_at,omitempty"`
}
