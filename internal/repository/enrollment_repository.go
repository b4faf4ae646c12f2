package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/codepet/classroom-sync-api/internal/models"
)

const enrollmentColumns = `id, classroom_id, student_id, email, name, first_name, last_name,
        external_id, status, enrolled_at, removed_at, submission_count, overall_grade,
        created_at, updated_at`

// EnrollmentRepository manages persistence for classroom rosters.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs an EnrollmentRepository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// ListByClassroom returns the roster of one classroom.
func (r *EnrollmentRepository) ListByClassroom(ctx context.Context, classroomID string, activeOnly bool) ([]models.StudentEnrollment, error) {
	query := fmt.Sprintf("SELECT %s FROM enrollments WHERE classroom_id = $1", enrollmentColumns)
	args := []interface{}{classroomID}
	if activeOnly {
		query += " AND status = $2"
		args = append(args, models.EnrollmentStatusActive)
	}
	query += " ORDER BY name ASC"

	var enrollments []models.StudentEnrollment
	if err := r.db.SelectContext(ctx, &enrollments, query, args...); err != nil {
		return nil, fmt.Errorf("list enrollments by classroom: %w", err)
	}
	return enrollments, nil
}

// ListByTeacher returns every enrollment across a teacher's classrooms,
// archived ones included.
func (r *EnrollmentRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.StudentEnrollment, error) {
	query := fmt.Sprintf(`SELECT %s FROM enrollments e
        JOIN classrooms c ON c.id = e.classroom_id
        WHERE c.teacher_id = $1`, prefixColumns(enrollmentColumns, "e"))
	var enrollments []models.StudentEnrollment
	if err := r.db.SelectContext(ctx, &enrollments, query, teacherID); err != nil {
		return nil, fmt.Errorf("list enrollments by teacher: %w", err)
	}
	return enrollments, nil
}
