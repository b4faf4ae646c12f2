package models

import (
	"time"

	"github.com/lib/pq"
)

// CourseState represents the lifecycle of a classroom on the source platform.
type CourseState string

// Possible course states.
const (
	CourseStateActive   CourseState = "ACTIVE"
	CourseStateArchived CourseState = "ARCHIVED"
	CourseStateDeclined CourseState = "DECLINED"
)

// Classroom is the normalized classroom entity with a stable derived ID.
type Classroom struct {
	ID              string         `db:"id" json:"id"`
	TeacherID       string         `db:"teacher_id" json:"teacher_id"`
	TeacherEmail    string         `db:"teacher_email" json:"teacher_email"`
	Name            string         `db:"name" json:"name"`
	Section         string         `db:"section" json:"section"`
	ExternalID      string         `db:"external_id" json:"external_id"`
	CourseState     CourseState    `db:"course_state" json:"course_state"`
	StudentIDs      pq.StringArray `db:"student_ids" json:"student_ids"`
	AssignmentIDs   pq.StringArray `db:"assignment_ids" json:"assignment_ids"`
	StudentCount    int            `db:"student_count" json:"student_count"`
	AssignmentCount int            `db:"assignment_count" json:"assignment_count"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
}

// ClassroomFilter provides filters for listing classrooms.
type ClassroomFilter struct {
	TeacherID string
	State     CourseState
	Page      int
	PageSize  int
}
