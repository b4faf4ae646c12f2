package models

// CandidateSet is the flattened, normalized output of transforming one
// snapshot. Candidates carry derived stable IDs but no persistence metadata.
type CandidateSet struct {
	TeacherID   string
	Classrooms  []Classroom
	Assignments []Assignment
	Submissions []Submission
	Enrollments []StudentEnrollment
	Grades      []GradeCandidate
}

// EntitySet is the full persisted state for one teacher, used as the
// existing side of a reconciliation pass.
type EntitySet struct {
	Classrooms  []Classroom
	Assignments []Assignment
	Submissions []Submission
	Enrollments []StudentEnrollment
	Grades      []Grade
}

// CreateSet groups records the caller must insert.
type CreateSet struct {
	Classrooms  []Classroom         `json:"classrooms"`
	Assignments []Assignment        `json:"assignments"`
	Submissions []Submission        `json:"submissions"`
	Enrollments []StudentEnrollment `json:"enrollments"`
	Grades      []Grade             `json:"grades"`
}

// UpdateSet groups records the caller must update in place.
type UpdateSet struct {
	Classrooms  []Classroom         `json:"classrooms"`
	Assignments []Assignment        `json:"assignments"`
	Submissions []Submission        `json:"submissions"`
	Enrollments []StudentEnrollment `json:"enrollments"`
}

// ArchiveSet groups records the caller must archive. Nothing is ever deleted.
type ArchiveSet struct {
	SubmissionIDs []string `json:"submission_ids"`
	EnrollmentIDs []string `json:"enrollment_ids"`
}

// MergeWarning surfaces a non-fatal reconciliation anomaly, such as an
// ambiguous title-only assignment match that degraded to a create.
type MergeWarning struct {
	Code         string   `json:"code"`
	Message      string   `json:"message"`
	EntityID     string   `json:"entity_id,omitempty"`
	CandidateIDs []string `json:"candidate_ids,omitempty"`
}

// Warning codes emitted by the reconciliation engine.
const (
	WarnAmbiguousAssignmentMatch = "AMBIGUOUS_ASSIGNMENT_MATCH"
	WarnOrphanSubmission         = "ORPHAN_SUBMISSION"
)

// MergeResult is the deterministic three-way diff of one reconciliation
// pass. Callers apply ToCreate, then ToUpdate, then ToArchive as one logical
// batch per teacher import.
type MergeResult struct {
	ToCreate  CreateSet      `json:"to_create"`
	ToUpdate  UpdateSet      `json:"to_update"`
	ToArchive ArchiveSet     `json:"to_archive"`
	Warnings  []MergeWarning `json:"warnings,omitempty"`
}

// Counts summarizes a MergeResult for logging and reporting.
func (r *MergeResult) Counts() MergeCounts {
	return MergeCounts{
		ClassroomsCreated:  len(r.ToCreate.Classrooms),
		ClassroomsUpdated:  len(r.ToUpdate.Classrooms),
		AssignmentsCreated: len(r.ToCreate.Assignments),
		AssignmentsUpdated: len(r.ToUpdate.Assignments),
		SubmissionsCreated: len(r.ToCreate.Submissions),
		SubmissionsUpdated: len(r.ToUpdate.Submissions),
		EnrollmentsCreated: len(r.ToCreate.Enrollments),
		EnrollmentsUpdated: len(r.ToUpdate.Enrollments),
		GradesCreated:      len(r.ToCreate.Grades),
		EnrollmentsArchived: len(r.ToArchive.EnrollmentIDs),
		Warnings:           len(r.Warnings),
	}
}

// MergeCounts is a flat summary of one merge pass.
type MergeCounts struct {
	ClassroomsCreated   int `json:"classrooms_created"`
	ClassroomsUpdated   int `json:"classrooms_updated"`
	AssignmentsCreated  int `json:"assignments_created"`
	AssignmentsUpdated  int `json:"assignments_updated"`
	SubmissionsCreated  int `json:"submissions_created"`
	SubmissionsUpdated  int `json:"submissions_updated"`
	EnrollmentsCreated  int `json:"enrollments_created"`
	EnrollmentsUpdated  int `json:"enrollments_updated"`
	GradesCreated       int `json:"grades_created"`
	EnrollmentsArchived int `json:"enrollments_archived"`
	Warnings            int `json:"warnings"`
}
