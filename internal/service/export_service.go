package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/codepet/classroom-sync-api/internal/models"
	appErrors "github.com/codepet/classroom-sync-api/pkg/errors"
	"github.com/codepet/classroom-sync-api/pkg/export"
)

type exportClassroomRepository interface {
	FindByID(ctx context.Context, id string) (*models.Classroom, error)
}

type exportAssignmentRepository interface {
	ListByClassroom(ctx context.Context, classroomID string) ([]models.Assignment, error)
}

type exportEnrollmentRepository interface {
	ListByClassroom(ctx context.Context, classroomID string, activeOnly bool) ([]models.StudentEnrollment, error)
}

type exportGradeRepository interface {
	ListLatestByAssignment(ctx context.Context, assignmentID string) ([]models.Grade, error)
}

// ExportService renders gradebook reports for one classroom.
type ExportService struct {
	classrooms  exportClassroomRepository
	assignments exportAssignmentRepository
	enrollments exportEnrollmentRepository
	grades      exportGradeRepository
	csv         *export.CSVExporter
	pdf         *export.PDFExporter
	logger      *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(
	classrooms exportClassroomRepository,
	assignments exportAssignmentRepository,
	enrollments exportEnrollmentRepository,
	grades exportGradeRepository,
	logger *zap.Logger,
) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		classrooms:  classrooms,
		assignments: assignments,
		enrollments: enrollments,
		grades:      grades,
		csv:         export.NewCSVExporter(),
		pdf:         export.NewPDFExporter(),
		logger:      logger,
	}
}

// GradebookCSV renders the classroom gradebook as CSV. One row per active
// student, one column per assignment holding the current grade.
func (s *ExportService) GradebookCSV(ctx context.Context, classroomID string) ([]byte, string, error) {
	dataset, name, err := s.buildGradebook(ctx, classroomID)
	if err != nil {
		return nil, "", err
	}
	raw, err := s.csv.Render(*dataset)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render gradebook csv")
	}
	return raw, name + ".csv", nil
}

// GradebookPDF renders the classroom gradebook as a tabular PDF.
func (s *ExportService) GradebookPDF(ctx context.Context, classroomID string) ([]byte, string, error) {
	dataset, name, err := s.buildGradebook(ctx, classroomID)
	if err != nil {
		return nil, "", err
	}
	raw, err := s.pdf.Render(*dataset, name)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render gradebook pdf")
	}
	return raw, name + ".pdf", nil
}

func (s *ExportService) buildGradebook(ctx context.Context, classroomID string) (*export.Dataset, string, error) {
	classroom, err := s.classrooms.FindByID(ctx, classroomID)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classroom")
	}
	if classroom == nil {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "classroom not found")
	}

	assignments, err := s.assignments.ListByClassroom(ctx, classroomID)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignments")
	}
	enrollments, err := s.enrollments.ListByClassroom(ctx, classroomID, true)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}

	// student ID -> assignment title -> rendered score
	scores := make(map[string]map[string]string, len(enrollments))
	for _, assignment := range assignments {
		grades, err := s.grades.ListLatestByAssignment(ctx, assignment.ID)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grades")
		}
		for _, grade := range grades {
			if scores[grade.StudentID] == nil {
				scores[grade.StudentID] = make(map[string]string)
			}
			scores[grade.StudentID][assignment.Title] = formatScore(grade)
		}
	}

	headers := []string{"Student", "Email"}
	for _, assignment := range assignments {
		headers = append(headers, assignment.Title)
	}

	rows := make([]map[string]string, 0, len(enrollments))
	for _, enrollment := range enrollments {
		row := map[string]string{
			"Student": enrollment.Name,
			"Email":   enrollment.Email,
		}
		for title, score := range scores[enrollment.StudentID] {
			row[title] = score
		}
		rows = append(rows, row)
	}

	name := fmt.Sprintf("gradebook-%s", classroom.Name)
	return &export.Dataset{Headers: headers, Rows: rows}, name, nil
}

func formatScore(grade models.Grade) string {
	return strconv.FormatFloat(grade.Score, 'f', -1, 64) + "/" + strconv.FormatFloat(grade.MaxScore, 'f', -1, 64)
}
