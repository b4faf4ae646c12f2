package grades

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codepet/classroom-sync-api/internal/models"
)

func TestCandidateNormalizesSystemGrader(t *testing.T) {
	c := Candidate("lin", "room", "assign", "stu", &models.GradeSnapshot{Score: 7, MaxScore: 10, GradedBy: "system"}, nil)
	require.NotNil(t, c)
	assert.Equal(t, models.GradedByAuto, c.GradedBy)
	assert.False(t, c.IsLocked)
}

func TestCandidateLocksManualGrades(t *testing.T) {
	c := Candidate("lin", "room", "assign", "stu", &models.GradeSnapshot{Score: 7, MaxScore: 10, GradedBy: "manual"}, nil)
	require.NotNil(t, c)
	assert.Equal(t, models.GradedByManual, c.GradedBy)
	assert.True(t, c.IsLocked)
}

func TestCandidateNilGrade(t *testing.T) {
	assert.Nil(t, Candidate("lin", "room", "assign", "stu", nil, nil))
}

func TestResolveFirstGrade(t *testing.T) {
	latest := map[string]models.Submission{
		"lin": {ID: "lin_v1", LineageID: "lin", Version: 1, IsLatest: true},
	}
	out := Resolve([]models.GradeCandidate{
		{LineageID: "lin", ClassroomID: "room", AssignmentID: "assign", StudentID: "stu", Score: 7, MaxScore: 10, GradedBy: models.GradedByAuto},
	}, latest, nil)

	require.Len(t, out, 1)
	g := out[0]
	assert.Equal(t, "lin_grade_v1", g.ID)
	assert.Equal(t, 1, g.Version)
	assert.Equal(t, 1, g.SubmissionVersionGraded)
	assert.True(t, g.IsLatest)
}

func TestResolveNoOpWhenUnchanged(t *testing.T) {
	latest := map[string]models.Submission{"lin": {ID: "lin_v1", LineageID: "lin", Version: 1}}
	existing := []models.Grade{{
		ID: "lin_grade_v1", SubmissionID: "lin", Version: 1, Score: 7, MaxScore: 10,
		GradedBy: models.GradedByAuto, SubmissionVersionGraded: 1, IsLatest: true,
	}}
	out := Resolve([]models.GradeCandidate{
		{LineageID: "lin", Score: 7, MaxScore: 10, GradedBy: models.GradedByAuto},
	}, latest, existing)
	assert.Empty(t, out)
}

func TestResolveNewVersionOnScoreChange(t *testing.T) {
	latest := map[string]models.Submission{"lin": {ID: "lin_v2", LineageID: "lin", Version: 2}}
	existing := []models.Grade{{
		ID: "lin_grade_v1", SubmissionID: "lin", Version: 1, Score: 7, MaxScore: 10,
		GradedBy: models.GradedByAuto, SubmissionVersionGraded: 1, IsLatest: true,
	}}
	out := Resolve([]models.GradeCandidate{
		{LineageID: "lin", Score: 9, MaxScore: 10, GradedBy: models.GradedByAuto},
	}, latest, existing)

	require.Len(t, out, 1)
	assert.Equal(t, "lin_grade_v2", out[0].ID)
	assert.Equal(t, 2, out[0].Version)
	assert.Equal(t, 2, out[0].SubmissionVersionGraded)
}

func TestResolveLockedGradeBlocksAuto(t *testing.T) {
	latest := map[string]models.Submission{"lin": {ID: "lin_v1", LineageID: "lin", Version: 1}}
	existing := []models.Grade{{
		ID: "lin_grade_v1", SubmissionID: "lin", Version: 1, Score: 9, MaxScore: 10,
		GradedBy: models.GradedByManual, IsLocked: true, SubmissionVersionGraded: 1, IsLatest: true,
	}}
	out := Resolve([]models.GradeCandidate{
		{LineageID: "lin", Score: 3, MaxScore: 10, GradedBy: models.GradedByAuto},
	}, latest, existing)
	assert.Empty(t, out)
}

func TestResolveManualOverridesManual(t *testing.T) {
	latest := map[string]models.Submission{"lin": {ID: "lin_v1", LineageID: "lin", Version: 1}}
	existing := []models.Grade{{
		ID: "lin_grade_v1", SubmissionID: "lin", Version: 1, Score: 9, MaxScore: 10,
		GradedBy: models.GradedByManual, IsLocked: true, SubmissionVersionGraded: 1, IsLatest: true,
	}}
	out := Resolve([]models.GradeCandidate{
		{LineageID: "lin", Score: 10, MaxScore: 10, GradedBy: models.GradedByManual, IsLocked: true},
	}, latest, existing)

	require.Len(t, out, 1)
	assert.Equal(t, 2, out[0].Version)
	assert.True(t, out[0].IsLocked)
}

func TestResolveSkipsUnknownLineage(t *testing.T) {
	out := Resolve([]models.GradeCandidate{{LineageID: "ghost"}}, map[string]models.Submission{}, nil)
	assert.Empty(t, out)
}
