package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codepet/classroom-sync-api/internal/models"
	appErrors "github.com/codepet/classroom-sync-api/pkg/errors"
)

type mockExportClassroomRepo struct {
	classroom *models.Classroom
}

func (m *mockExportClassroomRepo) FindByID(ctx context.Context, id string) (*models.Classroom, error) {
	return m.classroom, nil
}

type mockExportAssignmentRepo struct {
	assignments []models.Assignment
}

func (m *mockExportAssignmentRepo) ListByClassroom(ctx context.Context, classroomID string) ([]models.Assignment, error) {
	return m.assignments, nil
}

type mockExportEnrollmentRepo struct {
	enrollments []models.StudentEnrollment
}

func (m *mockExportEnrollmentRepo) ListByClassroom(ctx context.Context, classroomID string, activeOnly bool) ([]models.StudentEnrollment, error) {
	return m.enrollments, nil
}

type mockExportGradeRepo struct {
	grades map[string][]models.Grade
}

func (m *mockExportGradeRepo) ListLatestByAssignment(ctx context.Context, assignmentID string) ([]models.Grade, error) {
	return m.grades[assignmentID], nil
}

func newTestExportService() *ExportService {
	return NewExportService(
		&mockExportClassroomRepo{classroom: &models.Classroom{ID: "room", Name: "Period 1"}},
		&mockExportAssignmentRepo{assignments: []models.Assignment{
			{ID: "a1", ClassroomID: "room", Title: "Homework 1"},
		}},
		&mockExportEnrollmentRepo{enrollments: []models.StudentEnrollment{
			{ID: "e1", ClassroomID: "room", StudentID: "s1", Name: "Alice", Email: "alice@example.com"},
		}},
		&mockExportGradeRepo{grades: map[string][]models.Grade{
			"a1": {{ID: "g1", AssignmentID: "a1", StudentID: "s1", Score: 8, MaxScore: 10, IsLatest: true}},
		}},
		nil,
	)
}

func TestGradebookCSV(t *testing.T) {
	svc := newTestExportService()

	raw, filename, err := svc.GradebookCSV(context.Background(), "room")
	require.NoError(t, err)
	assert.Equal(t, "gradebook-Period 1.csv", filename)

	content := string(raw)
	require.True(t, strings.HasPrefix(content, "\ufeff"), "spreadsheet apps expect the BOM")
	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(content, "\ufeff")), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Student,Email,Homework 1", lines[0])
	assert.Equal(t, "Alice,alice@example.com,8/10", lines[1])
}

func TestGradebookPDF(t *testing.T) {
	svc := newTestExportService()

	raw, filename, err := svc.GradebookPDF(context.Background(), "room")
	require.NoError(t, err)
	assert.Equal(t, "gradebook-Period 1.pdf", filename)
	assert.True(t, strings.HasPrefix(string(raw), "%PDF"), "output should be a pdf document")
}

func TestGradebookCSVClassroomNotFound(t *testing.T) {
	svc := NewExportService(
		&mockExportClassroomRepo{},
		&mockExportAssignmentRepo{},
		&mockExportEnrollmentRepo{},
		&mockExportGradeRepo{},
		nil,
	)

	_, _, err := svc.GradebookCSV(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
