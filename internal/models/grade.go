package models

import "time"

// GradedBy identifies the origin of a grade.
type GradedBy string

// Grade origins after normalization ("system" from the source maps to auto).
const (
	GradedByAuto   GradedBy = "auto"
	GradedByManual GradedBy = "manual"
	GradedByAI     GradedBy = "ai"
)

// GradeCandidate is a grade derived from a snapshot submission's embedded
// grade sub-object, keyed to the submission lineage. Versioning and record
// IDs are resolved during reconciliation once the target submission version
// is known.
type GradeCandidate struct {
	LineageID    string
	ClassroomID  string
	AssignmentID string
	StudentID    string
	Score        float64
	MaxScore     float64
	GradedBy     GradedBy
	IsLocked     bool
	Feedback     string
	GradedAt     *time.Time
}

// Grade is an append-only versioned grade attached to a submission lineage.
// Manual grades are locked so automated re-imports cannot overwrite them.
type Grade struct {
	ID                      string     `db:"id" json:"id"`
	SubmissionID            string     `db:"submission_id" json:"submission_id"`
	AssignmentID            string     `db:"assignment_id" json:"assignment_id"`
	StudentID               string     `db:"student_id" json:"student_id"`
	ClassroomID             string     `db:"classroom_id" json:"classroom_id"`
	Score                   float64    `db:"score" json:"score"`
	MaxScore                float64    `db:"max_score" json:"max_score"`
	Version                 int        `db:"version" json:"version"`
	SubmissionVersionGraded int        `db:"submission_version_graded" json:"submission_version_graded"`
	IsLatest                bool       `db:"is_latest" json:"is_latest"`
	GradedBy                GradedBy   `db:"graded_by" json:"graded_by"`
	IsLocked                bool       `db:"is_locked" json:"is_locked"`
	Feedback                string     `db:"feedback" json:"feedback"`
	GradedAt                *time.Time `db:"graded_at" json:"graded_at,omitempty"`
	CreatedAt               time.Time  `db:"created_at" json:"created_at"`
}
