package models

import "time"

// EnrollmentStatus represents the lifecycle of a classroom enrollment.
// Transitions only move away from active; enrollments are archived, never
// deleted, when a student is confirmed absent from a later snapshot.
type EnrollmentStatus string

// Possible enrollment statuses.
const (
	EnrollmentStatusActive   EnrollmentStatus = "active"
	EnrollmentStatusInactive EnrollmentStatus = "inactive"
	EnrollmentStatusRemoved  EnrollmentStatus = "removed"
)

// StudentEnrollment links a student to a classroom with roster metadata.
type StudentEnrollment struct {
	ID              string           `db:"id" json:"id"`
	ClassroomID     string           `db:"classroom_id" json:"classroom_id"`
	StudentID       string           `db:"student_id" json:"student_id"`
	Email           string           `db:"email" json:"email"`
	Name            string           `db:"name" json:"name"`
	FirstName       string           `db:"first_name" json:"first_name"`
	LastName        string           `db:"last_name" json:"last_name"`
	ExternalID      string           `db:"external_id" json:"external_id"`
	Status          EnrollmentStatus `db:"status" json:"status"`
	EnrolledAt      *time.Time       `db:"enrolled_at" json:"enrolled_at,omitempty"`
	RemovedAt       *time.Time       `db:"removed_at" json:"removed_at,omitempty"`
	SubmissionCount int              `db:"submission_count" json:"submission_count"`
	OverallGrade    *float64         `db:"overall_grade" json:"overall_grade,omitempty"`
	CreatedAt       time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time        `db:"updated_at" json:"updated_at"`
}
