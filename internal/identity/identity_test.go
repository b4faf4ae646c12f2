package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassroomID(t *testing.T) {
	assert.Equal(t, "classroom_c1", ClassroomID("c1"))
}

func TestAssignmentID(t *testing.T) {
	assert.Equal(t, "classroom_c1_assignment_a1", AssignmentID(ClassroomID("c1"), "a1"))
}

func TestStudentIDDeterminism(t *testing.T) {
	first := StudentID("jane.doe@example.com")
	second := StudentID("jane.doe@example.com")
	require.Equal(t, first, second)
	assert.Equal(t, "student_jane-2edoe-40example-2ecom", first)
}

func TestStudentIDCaseInsensitive(t *testing.T) {
	assert.Equal(t, StudentID("Jane.Doe@Example.com"), StudentID("jane.doe@example.com"))
}

func TestNormalizeEmailNoCollisions(t *testing.T) {
	// Multi-dot local parts must stay distinguishable from addresses that
	// would collide under naive character replacement.
	pairs := [][2]string{
		{"a.b.c@example.com", "a.b-c@example.com"},
		{"a-b@example.com", "a.b@example.com"},
		{"a@b.example.com", "a.b@example.com"},
	}
	for _, pair := range pairs {
		assert.NotEqual(t, NormalizeEmail(pair[0]), NormalizeEmail(pair[1]), "expected %q and %q to normalize apart", pair[0], pair[1])
	}
}

func TestSubmissionLineageAndVersionIDs(t *testing.T) {
	classroomID := ClassroomID("c1")
	assignmentID := AssignmentID(classroomID, "a1")
	studentID := StudentID("s@x.io")

	lineage := SubmissionLineageID(classroomID, assignmentID, studentID)
	require.Equal(t, classroomID+"_"+assignmentID+"_"+studentID, lineage)

	assert.Equal(t, lineage+"_v1", SubmissionVersionID(lineage, 1))
	assert.Equal(t, lineage+"_v2", SubmissionVersionID(lineage, 2))
}

func TestGradeID(t *testing.T) {
	assert.Equal(t, "sub_v1_grade_v3", GradeID("sub_v1", 3))
}

func TestEnrollmentID(t *testing.T) {
	assert.Equal(t, "classroom_c1_student_s-40x-2eio", EnrollmentID(ClassroomID("c1"), StudentID("s@x.io")))
}
