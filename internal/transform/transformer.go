// Package transform converts raw classroom snapshots into flat, normalized
// candidate entity sets ready for reconciliation.
package transform

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/codepet/classroom-sync-api/internal/classify"
	"github.com/codepet/classroom-sync-api/internal/grades"
	"github.com/codepet/classroom-sync-api/internal/identity"
	"github.com/codepet/classroom-sync-api/internal/models"
)

// Transformer flattens one snapshot into candidate records. Failures on
// individual submissions are logged and excluded; a snapshot transform never
// aborts on a single bad record.
type Transformer struct {
	logger *zap.Logger
}

// NewTransformer constructs a Transformer.
func NewTransformer(logger *zap.Logger) *Transformer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transformer{logger: logger}
}

// Transform normalizes every classroom in the snapshot. The returned
// candidate set carries derived stable IDs and no persistence metadata.
func (t *Transformer) Transform(snapshot models.ClassroomSnapshot) models.CandidateSet {
	out := models.CandidateSet{
		TeacherID: identity.TeacherID(snapshot.Teacher.Email),
	}

	for _, room := range snapshot.Classrooms {
		classroomID := identity.ClassroomID(room.ExternalID)

		assignments := t.transformAssignments(classroomID, room.Assignments)
		enrollments := t.transformStudents(classroomID, room.Students)
		submissions, gradeCandidates := t.transformSubmissions(classroomID, room)

		out.Classrooms = append(out.Classrooms, buildClassroom(classroomID, room, assignments, enrollments))
		out.Assignments = append(out.Assignments, assignments...)
		out.Enrollments = append(out.Enrollments, enrollments...)
		out.Submissions = append(out.Submissions, submissions...)
		out.Grades = append(out.Grades, gradeCandidates...)
	}

	return out
}

func buildClassroom(classroomID string, room models.ClassroomWithData, assignments []models.Assignment, enrollments []models.StudentEnrollment) models.Classroom {
	studentIDs := make([]string, 0, len(enrollments))
	for _, e := range enrollments {
		studentIDs = append(studentIDs, e.StudentID)
	}
	assignmentIDs := make([]string, 0, len(assignments))
	for _, a := range assignments {
		assignmentIDs = append(assignmentIDs, a.ID)
	}

	state := models.CourseState(room.CourseState)
	if state == "" {
		state = models.CourseStateActive
	}

	return models.Classroom{
		ID:         classroomID,
		ExternalID: room.ExternalID,
		// The classroom-level email is authoritative: classrooms within one
		// snapshot can belong to different sub-account owners.
		TeacherID:       identity.TeacherID(room.TeacherEmail),
		TeacherEmail:    room.TeacherEmail,
		Name:            room.Name,
		Section:         room.Section,
		CourseState:     state,
		StudentIDs:      studentIDs,
		AssignmentIDs:   assignmentIDs,
		StudentCount:    len(studentIDs),
		AssignmentCount: len(assignmentIDs),
	}
}

func (t *Transformer) transformAssignments(classroomID string, raw []models.AssignmentSnapshot) []models.Assignment {
	assignments := make([]models.Assignment, 0, len(raw))
	for _, a := range raw {
		if a.ExternalID == "" {
			t.logger.Warn("skipping assignment without external id",
				zap.String("classroom_id", classroomID),
				zap.String("title", a.Title))
			continue
		}
		assignments = append(assignments, t.transformAssignment(classroomID, a))
	}
	return assignments
}

func (t *Transformer) transformAssignment(classroomID string, a models.AssignmentSnapshot) models.Assignment {
	assignmentType := models.AssignmentType(a.Type)
	if assignmentType == "" {
		// Legacy snapshots flag quizzes with isQuiz instead of a type field.
		if a.IsQuiz || a.QuizData != nil {
			assignmentType = models.AssignmentTypeQuiz
		} else {
			assignmentType = models.AssignmentTypeAssignment
		}
	}

	maxScore := 100.0
	switch {
	case a.MaxScore != nil:
		maxScore = *a.MaxScore
	case a.MaxPoints != nil:
		// Legacy field name.
		maxScore = *a.MaxPoints
	case a.QuizData != nil && a.QuizData.TotalPoints > 0:
		maxScore = a.QuizData.TotalPoints
	}

	status := models.AssignmentStatusPublished
	switch models.AssignmentStatus(a.Status) {
	case models.AssignmentStatusDraft:
		status = models.AssignmentStatusDraft
	case models.AssignmentStatusClosed:
		status = models.AssignmentStatusClosed
	}

	return models.Assignment{
		ID:             identity.AssignmentID(classroomID, a.ExternalID),
		ClassroomID:    classroomID,
		ExternalID:     a.ExternalID,
		Title:          a.Title,
		Description:    a.Description,
		Type:           assignmentType,
		Status:         status,
		MaxScore:       maxScore,
		DueDate:        parseTime(a.DueDate),
		Classification: classify.Classify(a),
	}
}

func (t *Transformer) transformStudents(classroomID string, raw []models.StudentSnapshot) []models.StudentEnrollment {
	enrollments := make([]models.StudentEnrollment, 0, len(raw))
	for _, s := range raw {
		if s.Email == "" {
			t.logger.Warn("skipping student without email",
				zap.String("classroom_id", classroomID),
				zap.String("external_id", s.ExternalID))
			continue
		}
		studentID := identity.StudentID(s.Email)
		enrollments = append(enrollments, models.StudentEnrollment{
			ID:              identity.EnrollmentID(classroomID, studentID),
			ClassroomID:     classroomID,
			StudentID:       studentID,
			Email:           s.Email,
			Name:            s.Name,
			FirstName:       s.FirstName,
			LastName:        s.LastName,
			ExternalID:      s.ExternalID,
			Status:          models.EnrollmentStatusActive,
			EnrolledAt:      parseTime(s.JoinTime),
			SubmissionCount: s.SubmissionCount,
			OverallGrade:    s.OverallGrade,
		})
	}
	return enrollments
}

func (t *Transformer) transformSubmissions(classroomID string, room models.ClassroomWithData) ([]models.Submission, []models.GradeCandidate) {
	submissions := make([]models.Submission, 0, len(room.Submissions))
	var gradeCandidates []models.GradeCandidate
	for _, raw := range room.Submissions {
		sub, err := transformSubmission(classroomID, raw)
		if err != nil {
			// Partial success: one malformed submission never aborts the
			// snapshot.
			t.logger.Warn("excluding malformed submission",
				zap.String("classroom_id", classroomID),
				zap.String("external_id", raw.ExternalID),
				zap.Error(err))
			continue
		}
		submissions = append(submissions, sub)

		if raw.Grade != nil {
			candidate := grades.Candidate(sub.LineageID, sub.ClassroomID, sub.AssignmentID, sub.StudentID, raw.Grade, parseTime(raw.Grade.GradedAt))
			gradeCandidates = append(gradeCandidates, *candidate)
		}
	}
	return submissions, gradeCandidates
}

func transformSubmission(classroomID string, raw models.SubmissionSnapshot) (models.Submission, error) {
	if raw.StudentEmail == "" {
		return models.Submission{}, fmt.Errorf("submission %q has no student email", raw.ExternalID)
	}
	if raw.AssignmentID == "" {
		return models.Submission{}, fmt.Errorf("submission %q has no assignment reference", raw.ExternalID)
	}

	studentID := identity.StudentID(raw.StudentEmail)
	assignmentID := identity.AssignmentID(classroomID, raw.AssignmentID)
	lineageID := identity.SubmissionLineageID(classroomID, assignmentID, studentID)

	return models.Submission{
		LineageID:    lineageID,
		ClassroomID:  classroomID,
		AssignmentID: assignmentID,
		StudentID:    studentID,
		StudentEmail: raw.StudentEmail,
		StudentName:  raw.StudentName,
		Status:       mapSubmissionStatus(raw.Status),
		Content:      extractContent(raw),
		Attachments:  mapAttachments(raw.Attachments),
		SubmittedAt:  parseTime(raw.SubmittedAt),
	}, nil
}

func mapSubmissionStatus(raw string) models.SubmissionStatus {
	switch models.SubmissionStatus(raw) {
	case models.SubmissionStatusDraft, models.SubmissionStatusGraded, models.SubmissionStatusReturned:
		return models.SubmissionStatus(raw)
	default:
		return models.SubmissionStatusSubmitted
	}
}

func extractContent(raw models.SubmissionSnapshot) string {
	if raw.ExtractedContent != nil && raw.ExtractedContent.Text != "" {
		return raw.ExtractedContent.Text
	}
	if raw.StudentWork != "" {
		return raw.StudentWork
	}
	return raw.Content
}

func mapAttachments(raw []models.AttachmentSnapshot) []models.Attachment {
	if len(raw) == 0 {
		return nil
	}
	attachments := make([]models.Attachment, 0, len(raw))
	for _, a := range raw {
		switch a.Type {
		case "driveFile":
			attachments = append(attachments, models.Attachment{Type: "driveFile", ID: a.ID, Title: a.Title, URL: a.URL})
		case "link":
			attachments = append(attachments, models.Attachment{Type: "link", Title: a.Title, URL: a.URL})
		default:
			// Placeholder rather than a silent drop: attachment counts must
			// survive unrecognized shapes.
			attachments = append(attachments, models.Attachment{Type: "unknown", Title: a.Title})
		}
	}
	return attachments
}

func parseTime(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			ts = ts.UTC()
			return &ts
		}
	}
	return nil
}
