package models

import (
	"time"

	"github.com/lib/pq"
)

// AssignmentType distinguishes coursework kinds after normalization.
type AssignmentType string

// Possible assignment types.
const (
	AssignmentTypeAssignment AssignmentType = "assignment"
	AssignmentTypeQuiz       AssignmentType = "quiz"
	AssignmentTypeQuestion   AssignmentType = "question"
)

// AssignmentStatus represents the publication state of an assignment.
type AssignmentStatus string

// Possible assignment statuses.
const (
	AssignmentStatusPublished AssignmentStatus = "published"
	AssignmentStatusDraft     AssignmentStatus = "draft"
	AssignmentStatusClosed    AssignmentStatus = "closed"
)

// Platform identifies where student work for an assignment lives.
type Platform string

// Platforms recognized by the classifier.
const (
	PlatformGoogleForm      Platform = "google_form"
	PlatformGoogleDocs      Platform = "google_docs"
	PlatformExternalLink    Platform = "external_link"
	PlatformGoogleClassroom Platform = "google_classroom"
)

// ContentType describes the nature of the expected student work.
type ContentType string

// Content types recognized by the classifier.
const (
	ContentTypeCode        ContentType = "code"
	ContentTypeChoice      ContentType = "choice"
	ContentTypeShortAnswer ContentType = "short_answer"
	ContentTypeText        ContentType = "text"
)

// GradingApproach selects the downstream grading strategy.
type GradingApproach string

// Grading approaches recognized by the classifier.
const (
	GradingGenerousCode GradingApproach = "generous_code"
	GradingAutoGrade    GradingApproach = "auto_grade"
	GradingStandardQuiz GradingApproach = "standard_quiz"
	GradingEssayRubric  GradingApproach = "essay_rubric"
	GradingAIAnalysis   GradingApproach = "ai_analysis"
)

// Classification is the heuristic inference result for one assignment.
type Classification struct {
	Platform        Platform        `db:"platform" json:"platform"`
	ContentType     ContentType     `db:"content_type" json:"content_type"`
	GradingApproach GradingApproach `db:"grading_approach" json:"grading_approach"`
	Tags            pq.StringArray  `db:"tags" json:"tags,omitempty"`
	Confidence      float64         `db:"confidence" json:"confidence"`
}

// Assignment is the normalized coursework entity.
type Assignment struct {
	ID              string           `db:"id" json:"id"`
	ClassroomID     string           `db:"classroom_id" json:"classroom_id"`
	Title           string           `db:"title" json:"title"`
	Description     string           `db:"description" json:"description"`
	Type            AssignmentType   `db:"type" json:"type"`
	Status          AssignmentStatus `db:"status" json:"status"`
	ExternalID      string           `db:"external_id" json:"external_id"`
	MaxScore        float64          `db:"max_score" json:"max_score"`
	DueDate         *time.Time       `db:"due_date" json:"due_date,omitempty"`
	Classification  Classification   `json:"classification"`
	SubmissionCount int              `db:"submission_count" json:"submission_count"`
	GradedCount     int              `db:"graded_count" json:"graded_count"`
	CreatedAt       time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time        `db:"updated_at" json:"updated_at"`
}
