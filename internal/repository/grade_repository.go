package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/codepet/classroom-sync-api/internal/models"
)

const gradeColumns = `id, submission_id, assignment_id, student_id, classroom_id, score, max_score,
        version, submission_version_graded, is_latest, graded_by, is_locked, feedback, graded_at, created_at`

// GradeRepository manages persistence for versioned grades.
type GradeRepository struct {
	db *sqlx.DB
}

// NewGradeRepository constructs a GradeRepository.
func NewGradeRepository(db *sqlx.DB) *GradeRepository {
	return &GradeRepository{db: db}
}

// ListByTeacher returns every grade across a teacher's classrooms.
func (r *GradeRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.Grade, error) {
	query := fmt.Sprintf(`SELECT %s FROM grades g
        JOIN classrooms c ON c.id = g.classroom_id
        WHERE c.teacher_id = $1`, prefixColumns(gradeColumns, "g"))
	var grades []models.Grade
	if err := r.db.SelectContext(ctx, &grades, query, teacherID); err != nil {
		return nil, fmt.Errorf("list grades by teacher: %w", err)
	}
	return grades, nil
}

// ListLatestByAssignment returns the current grade per student for one
// assignment.
func (r *GradeRepository) ListLatestByAssignment(ctx context.Context, assignmentID string) ([]models.Grade, error) {
	query := fmt.Sprintf("SELECT %s FROM grades WHERE assignment_id = $1 AND is_latest = true ORDER BY student_id ASC", gradeColumns)
	var grades []models.Grade
	if err := r.db.SelectContext(ctx, &grades, query, assignmentID); err != nil {
		return nil, fmt.Errorf("list latest grades: %w", err)
	}
	return grades, nil
}
