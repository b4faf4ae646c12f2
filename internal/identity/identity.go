// Package identity derives deterministic, stable entity identifiers from
// externally supplied keys. Every function here is pure: identical inputs
// yield byte-identical output across processes and over time, with no
// randomness or timestamps involved.
package identity

import (
	"fmt"
	"strings"
)

const (
	classroomPrefix = "classroom_"
	studentPrefix   = "student_"
	teacherPrefix   = "teacher_"
)

// TeacherID derives the stable teacher ID from the teacher's email address.
func TeacherID(email string) string {
	return teacherPrefix + NormalizeEmail(email)
}

// ClassroomID derives the stable classroom ID from the external course ID.
func ClassroomID(externalCourseID string) string {
	return classroomPrefix + externalCourseID
}

// AssignmentID derives the stable assignment ID scoped to its classroom.
func AssignmentID(classroomID, externalAssignmentID string) string {
	return classroomID + "_assignment_" + externalAssignmentID
}

// StudentID derives the stable student ID from the student's email address.
func StudentID(email string) string {
	return studentPrefix + NormalizeEmail(email)
}

// EnrollmentID derives the stable enrollment ID for a classroom/student pair.
func EnrollmentID(classroomID, studentID string) string {
	return classroomID + "_" + studentID
}

// SubmissionLineageID derives the lineage key shared by every version of one
// student's work on one assignment.
func SubmissionLineageID(classroomID, assignmentID, studentID string) string {
	return classroomID + "_" + assignmentID + "_" + studentID
}

// SubmissionVersionID derives the record ID of a specific version within a
// lineage.
func SubmissionVersionID(lineageID string, version int) string {
	return fmt.Sprintf("%s_v%d", lineageID, version)
}

// GradeID derives the grade record ID for a submission version.
func GradeID(submissionID string, version int) string {
	return fmt.Sprintf("%s_grade_v%d", submissionID, version)
}

// NormalizeEmail maps an email address onto the safe identifier alphabet
// without losing information. '@', '.' and the escape character itself are
// percent-style escaped so distinct addresses can never collide the way a
// naive replace-first-dot scheme does for multi-dot local parts.
func NormalizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	var b strings.Builder
	b.Grow(len(email))
	for i := 0; i < len(email); i++ {
		switch c := email[i]; c {
		case '@':
			b.WriteString("-40")
		case '.':
			b.WriteString("-2e")
		case '-':
			b.WriteString("-2d")
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
