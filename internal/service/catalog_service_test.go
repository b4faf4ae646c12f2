package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codepet/classroom-sync-api/internal/models"
	appErrors "github.com/codepet/classroom-sync-api/pkg/errors"
)

type mockCatalogClassroomRepo struct {
	classrooms []models.Classroom
	total      int
	byID       *models.Classroom
}

func (m *mockCatalogClassroomRepo) List(ctx context.Context, filter models.ClassroomFilter) ([]models.Classroom, int, error) {
	return m.classrooms, m.total, nil
}

func (m *mockCatalogClassroomRepo) FindByID(ctx context.Context, id string) (*models.Classroom, error) {
	return m.byID, nil
}

type mockCatalogAssignmentRepo struct {
	assignments []models.Assignment
}

func (m *mockCatalogAssignmentRepo) ListByClassroom(ctx context.Context, classroomID string) ([]models.Assignment, error) {
	return m.assignments, nil
}

type mockCatalogSubmissionRepo struct {
	submissions []models.Submission
	total       int
	versions    []models.Submission
}

func (m *mockCatalogSubmissionRepo) List(ctx context.Context, filter models.SubmissionFilter) ([]models.Submission, int, error) {
	return m.submissions, m.total, nil
}

func (m *mockCatalogSubmissionRepo) ListVersions(ctx context.Context, lineageID string) ([]models.Submission, error) {
	return m.versions, nil
}

func TestListClassroomsPaginationDefaults(t *testing.T) {
	svc := NewCatalogService(
		&mockCatalogClassroomRepo{classrooms: []models.Classroom{{ID: "classroom_c1"}}, total: 42},
		&mockCatalogAssignmentRepo{},
		&mockCatalogSubmissionRepo{},
		nil,
	)

	classrooms, pagination, err := svc.ListClassrooms(context.Background(), models.ClassroomFilter{})
	require.NoError(t, err)
	assert.Len(t, classrooms, 1)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 20, pagination.PageSize)
	assert.Equal(t, 42, pagination.TotalCount)
}

func TestGetClassroomNotFound(t *testing.T) {
	svc := NewCatalogService(
		&mockCatalogClassroomRepo{},
		&mockCatalogAssignmentRepo{},
		&mockCatalogSubmissionRepo{},
		nil,
	)

	_, _, err := svc.GetClassroom(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSubmissionHistoryUnknownLineage(t *testing.T) {
	svc := NewCatalogService(
		&mockCatalogClassroomRepo{},
		&mockCatalogAssignmentRepo{},
		&mockCatalogSubmissionRepo{},
		nil,
	)

	_, err := svc.SubmissionHistory(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
