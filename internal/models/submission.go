package models

import "time"

// SubmissionStatus is the closed set of normalized submission states.
type SubmissionStatus string

// Possible submission statuses.
const (
	SubmissionStatusDraft     SubmissionStatus = "draft"
	SubmissionStatusSubmitted SubmissionStatus = "submitted"
	SubmissionStatusGraded    SubmissionStatus = "graded"
	SubmissionStatusReturned  SubmissionStatus = "returned"
)

// Attachment is a normalized submission attachment. Unrecognized source
// shapes are preserved as placeholders so attachment counts survive import.
type Attachment struct {
	Type  string `json:"type"`
	ID    string `json:"id,omitempty"`
	Title string `json:"title,omitempty"`
	URL   string `json:"url,omitempty"`
}

// Submission is one immutable version of a student's work on an assignment.
// All versions of the same work share a lineage key derived from
// (classroom, assignment, student); exactly one version per lineage carries
// IsLatest.
type Submission struct {
	ID                string           `db:"id" json:"id"`
	LineageID         string           `db:"lineage_id" json:"lineage_id"`
	AssignmentID      string           `db:"assignment_id" json:"assignment_id"`
	ClassroomID       string           `db:"classroom_id" json:"classroom_id"`
	StudentID         string           `db:"student_id" json:"student_id"`
	StudentEmail      string           `db:"student_email" json:"student_email"`
	StudentName       string           `db:"student_name" json:"student_name"`
	Version           int              `db:"version" json:"version"`
	PreviousVersionID *string          `db:"previous_version_id" json:"previous_version_id,omitempty"`
	IsLatest          bool             `db:"is_latest" json:"is_latest"`
	Content           string           `db:"content" json:"content"`
	Attachments       []Attachment     `db:"-" json:"attachments,omitempty"`
	Status            SubmissionStatus `db:"status" json:"status"`
	SubmittedAt       *time.Time       `db:"submitted_at" json:"submitted_at,omitempty"`
	CreatedAt         time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time        `db:"updated_at" json:"updated_at"`
}

// SubmissionFilter scopes submission listings.
type SubmissionFilter struct {
	ClassroomID  string
	AssignmentID string
	StudentID    string
	LatestOnly   bool
	Page         int
	PageSize     int
}
