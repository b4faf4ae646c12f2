package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/codepet/classroom-sync-api/internal/models"
	appErrors "github.com/codepet/classroom-sync-api/pkg/errors"
)

type catalogClassroomRepository interface {
	List(ctx context.Context, filter models.ClassroomFilter) ([]models.Classroom, int, error)
	FindByID(ctx context.Context, id string) (*models.Classroom, error)
}

type catalogAssignmentRepository interface {
	ListByClassroom(ctx context.Context, classroomID string) ([]models.Assignment, error)
}

type catalogSubmissionRepository interface {
	List(ctx context.Context, filter models.SubmissionFilter) ([]models.Submission, int, error)
	ListVersions(ctx context.Context, lineageID string) ([]models.Submission, error)
}

// CatalogService serves read access to the reconciled entities.
type CatalogService struct {
	classrooms  catalogClassroomRepository
	assignments catalogAssignmentRepository
	submissions catalogSubmissionRepository
	logger      *zap.Logger
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(
	classrooms catalogClassroomRepository,
	assignments catalogAssignmentRepository,
	submissions catalogSubmissionRepository,
	logger *zap.Logger,
) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		classrooms:  classrooms,
		assignments: assignments,
		submissions: submissions,
		logger:      logger,
	}
}

// ListClassrooms returns classrooms with pagination metadata.
func (s *CatalogService) ListClassrooms(ctx context.Context, filter models.ClassroomFilter) ([]models.Classroom, *models.Pagination, error) {
	classrooms, total, err := s.classrooms.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classrooms")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return classrooms, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// GetClassroom returns one classroom with its assignments.
func (s *CatalogService) GetClassroom(ctx context.Context, id string) (*models.Classroom, []models.Assignment, error) {
	classroom, err := s.classrooms.FindByID(ctx, id)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classroom")
	}
	if classroom == nil {
		return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "classroom not found")
	}
	assignments, err := s.assignments.ListByClassroom(ctx, id)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignments")
	}
	return classroom, assignments, nil
}

// ListSubmissions returns submissions with pagination metadata.
func (s *CatalogService) ListSubmissions(ctx context.Context, filter models.SubmissionFilter) ([]models.Submission, *models.Pagination, error) {
	submissions, total, err := s.submissions.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list submissions")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return submissions, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// SubmissionHistory returns every version of one lineage, newest first.
func (s *CatalogService) SubmissionHistory(ctx context.Context, lineageID string) ([]models.Submission, error) {
	versions, err := s.submissions.ListVersions(ctx, lineageID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load submission history")
	}
	if len(versions) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "submission lineage not found")
	}
	return versions, nil
}
