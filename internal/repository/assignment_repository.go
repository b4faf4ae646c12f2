package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/codepet/classroom-sync-api/internal/models"
)

const assignmentColumns = `a.id, a.classroom_id, a.title, a.description, a.type, a.status, a.external_id,
        a.max_score, a.due_date, a.submission_count, a.graded_count, a.created_at, a.updated_at,
        a.platform AS "classification.platform", a.content_type AS "classification.content_type",
        a.grading_approach AS "classification.grading_approach", a.tags AS "classification.tags",
        a.confidence AS "classification.confidence"`

// AssignmentRepository manages persistence for assignment records.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs an AssignmentRepository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// FindByID fetches one assignment.
func (r *AssignmentRepository) FindByID(ctx context.Context, id string) (*models.Assignment, error) {
	query := fmt.Sprintf("SELECT %s FROM assignments a WHERE a.id = $1", assignmentColumns)
	var assignment models.Assignment
	if err := r.db.GetContext(ctx, &assignment, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find assignment: %w", err)
	}
	return &assignment, nil
}

// ListByClassroom returns the assignments of one classroom ordered by title.
func (r *AssignmentRepository) ListByClassroom(ctx context.Context, classroomID string) ([]models.Assignment, error) {
	query := fmt.Sprintf("SELECT %s FROM assignments a WHERE a.classroom_id = $1 ORDER BY a.title ASC", assignmentColumns)
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, classroomID); err != nil {
		return nil, fmt.Errorf("list assignments by classroom: %w", err)
	}
	return assignments, nil
}

// ListByTeacher returns every assignment across a teacher's classrooms.
func (r *AssignmentRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.Assignment, error) {
	query := fmt.Sprintf(`SELECT %s FROM assignments a
        JOIN classrooms c ON c.id = a.classroom_id
        WHERE c.teacher_id = $1`, assignmentColumns)
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, teacherID); err != nil {
		return nil, fmt.Errorf("list assignments by teacher: %w", err)
	}
	return assignments, nil
}
