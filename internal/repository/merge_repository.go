package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/codepet/classroom-sync-api/internal/models"
)

// MergeRepository loads the full persisted state for one teacher and applies
// a merge result as a single transaction.
type MergeRepository struct {
	db          *sqlx.DB
	classrooms  *ClassroomRepository
	assignments *AssignmentRepository
	submissions *SubmissionRepository
	enrollments *EnrollmentRepository
	grades      *GradeRepository
}

// NewMergeRepository constructs a MergeRepository.
func NewMergeRepository(db *sqlx.DB) *MergeRepository {
	return &MergeRepository{
		db:          db,
		classrooms:  NewClassroomRepository(db),
		assignments: NewAssignmentRepository(db),
		submissions: NewSubmissionRepository(db),
		enrollments: NewEnrollmentRepository(db),
		grades:      NewGradeRepository(db),
	}
}

// GetExisting loads everything persisted for the teacher. Archived
// enrollments and superseded submission versions are included so a merge
// pass sees complete lineage state.
func (r *MergeRepository) GetExisting(ctx context.Context, teacherID string) (models.EntitySet, error) {
	var set models.EntitySet
	var err error

	if set.Classrooms, err = r.classrooms.ListByTeacher(ctx, teacherID); err != nil {
		return set, err
	}
	if set.Assignments, err = r.assignments.ListByTeacher(ctx, teacherID); err != nil {
		return set, err
	}
	if set.Submissions, err = r.submissions.ListByTeacher(ctx, teacherID); err != nil {
		return set, err
	}
	if set.Enrollments, err = r.enrollments.ListByTeacher(ctx, teacherID); err != nil {
		return set, err
	}
	if set.Grades, err = r.grades.ListByTeacher(ctx, teacherID); err != nil {
		return set, err
	}
	return set, nil
}

// Apply persists a merge result atomically. Submission demotions run before
// inserts so the partial unique index on (lineage_id) WHERE is_latest never
// sees two latest versions, and prior latest grades are cleared before new
// grade versions land.
func (r *MergeRepository) Apply(ctx context.Context, result models.MergeResult) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin merge tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := applyClassrooms(ctx, tx, result); err != nil {
		return err
	}
	if err := applyAssignments(ctx, tx, result); err != nil {
		return err
	}
	if err := applySubmissions(ctx, tx, result); err != nil {
		return err
	}
	if err := applyEnrollments(ctx, tx, result); err != nil {
		return err
	}
	if err := applyGrades(ctx, tx, result); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit merge tx: %w", err)
	}
	return nil
}

const insertClassroomQuery = `INSERT INTO classrooms (id, teacher_id, teacher_email, name, section, external_id, course_state,
        student_ids, assignment_ids, student_count, assignment_count, created_at, updated_at)
        VALUES (:id, :teacher_id, :teacher_email, :name, :section, :external_id, :course_state,
        :student_ids, :assignment_ids, :student_count, :assignment_count, :created_at, :updated_at)`

const updateClassroomQuery = `UPDATE classrooms SET teacher_email = :teacher_email, name = :name, section = :section,
        external_id = :external_id, course_state = :course_state, student_ids = :student_ids,
        assignment_ids = :assignment_ids, student_count = :student_count, assignment_count = :assignment_count,
        updated_at = :updated_at WHERE id = :id`

func applyClassrooms(ctx context.Context, tx *sqlx.Tx, result models.MergeResult) error {
	for i := range result.ToCreate.Classrooms {
		if _, err := tx.NamedExecContext(ctx, insertClassroomQuery, &result.ToCreate.Classrooms[i]); err != nil {
			return fmt.Errorf("insert classroom %s: %w", result.ToCreate.Classrooms[i].ID, err)
		}
	}
	for i := range result.ToUpdate.Classrooms {
		if _, err := tx.NamedExecContext(ctx, updateClassroomQuery, &result.ToUpdate.Classrooms[i]); err != nil {
			return fmt.Errorf("update classroom %s: %w", result.ToUpdate.Classrooms[i].ID, err)
		}
	}
	return nil
}

const insertAssignmentQuery = `INSERT INTO assignments (id, classroom_id, title, description, type, status, external_id,
        max_score, due_date, platform, content_type, grading_approach, tags, confidence,
        submission_count, graded_count, created_at, updated_at)
        VALUES (:id, :classroom_id, :title, :description, :type, :status, :external_id,
        :max_score, :due_date, :classification.platform, :classification.content_type,
        :classification.grading_approach, :classification.tags, :classification.confidence,
        :submission_count, :graded_count, :created_at, :updated_at)`

const updateAssignmentQuery = `UPDATE assignments SET title = :title, description = :description, type = :type,
        status = :status, external_id = :external_id, max_score = :max_score, due_date = :due_date,
        platform = :classification.platform, content_type = :classification.content_type,
        grading_approach = :classification.grading_approach, tags = :classification.tags,
        confidence = :classification.confidence, updated_at = :updated_at WHERE id = :id`

func applyAssignments(ctx context.Context, tx *sqlx.Tx, result models.MergeResult) error {
	for i := range result.ToCreate.Assignments {
		if _, err := tx.NamedExecContext(ctx, insertAssignmentQuery, &result.ToCreate.Assignments[i]); err != nil {
			return fmt.Errorf("insert assignment %s: %w", result.ToCreate.Assignments[i].ID, err)
		}
	}
	for i := range result.ToUpdate.Assignments {
		if _, err := tx.NamedExecContext(ctx, updateAssignmentQuery, &result.ToUpdate.Assignments[i]); err != nil {
			return fmt.Errorf("update assignment %s: %w", result.ToUpdate.Assignments[i].ID, err)
		}
	}
	return nil
}

const insertSubmissionQuery = `INSERT INTO submissions (id, lineage_id, assignment_id, classroom_id, student_id,
        student_email, student_name, version, previous_version_id, is_latest, content, attachments,
        status, submitted_at, created_at, updated_at)
        VALUES (:id, :lineage_id, :assignment_id, :classroom_id, :student_id,
        :student_email, :student_name, :version, :previous_version_id, :is_latest, :content, :attachments,
        :status, :submitted_at, :created_at, :updated_at)`

const updateSubmissionQuery = `UPDATE submissions SET student_name = :student_name, is_latest = :is_latest,
        status = :status, submitted_at = :submitted_at, updated_at = :updated_at WHERE id = :id`

func applySubmissions(ctx context.Context, tx *sqlx.Tx, result models.MergeResult) error {
	for i := range result.ToUpdate.Submissions {
		if _, err := tx.NamedExecContext(ctx, updateSubmissionQuery, &result.ToUpdate.Submissions[i]); err != nil {
			return fmt.Errorf("update submission %s: %w", result.ToUpdate.Submissions[i].ID, err)
		}
	}
	for i := range result.ToCreate.Submissions {
		row, err := newSubmissionRow(result.ToCreate.Submissions[i])
		if err != nil {
			return err
		}
		if _, err := tx.NamedExecContext(ctx, insertSubmissionQuery, row); err != nil {
			return fmt.Errorf("insert submission %s: %w", row.ID, err)
		}
	}
	return nil
}

const insertEnrollmentQuery = `INSERT INTO enrollments (id, classroom_id, student_id, email, name, first_name, last_name,
        external_id, status, enrolled_at, removed_at, submission_count, overall_grade, created_at, updated_at)
        VALUES (:id, :classroom_id, :student_id, :email, :name, :first_name, :last_name,
        :external_id, :status, :enrolled_at, :removed_at, :submission_count, :overall_grade, :created_at, :updated_at)`

const updateEnrollmentQuery = `UPDATE enrollments SET email = :email, name = :name, first_name = :first_name,
        last_name = :last_name, external_id = :external_id, status = :status, enrolled_at = :enrolled_at,
        removed_at = :removed_at, updated_at = :updated_at WHERE id = :id`

const archiveEnrollmentQuery = `UPDATE enrollments SET status = $2, removed_at = NOW(), updated_at = NOW() WHERE id = $1`

func applyEnrollments(ctx context.Context, tx *sqlx.Tx, result models.MergeResult) error {
	for i := range result.ToCreate.Enrollments {
		if _, err := tx.NamedExecContext(ctx, insertEnrollmentQuery, &result.ToCreate.Enrollments[i]); err != nil {
			return fmt.Errorf("insert enrollment %s: %w", result.ToCreate.Enrollments[i].ID, err)
		}
	}
	for i := range result.ToUpdate.Enrollments {
		if _, err := tx.NamedExecContext(ctx, updateEnrollmentQuery, &result.ToUpdate.Enrollments[i]); err != nil {
			return fmt.Errorf("update enrollment %s: %w", result.ToUpdate.Enrollments[i].ID, err)
		}
	}
	for _, id := range result.ToArchive.EnrollmentIDs {
		if _, err := tx.ExecContext(ctx, archiveEnrollmentQuery, id, models.EnrollmentStatusRemoved); err != nil {
			return fmt.Errorf("archive enrollment %s: %w", id, err)
		}
	}
	return nil
}

const demoteGradeQuery = `UPDATE grades SET is_latest = false WHERE submission_id = $1 AND is_latest = true`

const insertGradeQuery = `INSERT INTO grades (id, submission_id, assignment_id, student_id, classroom_id, score, max_score,
        version, submission_version_graded, is_latest, graded_by, is_locked, feedback, graded_at, created_at)
        VALUES (:id, :submission_id, :assignment_id, :student_id, :classroom_id, :score, :max_score,
        :version, :submission_version_graded, :is_latest, :graded_by, :is_locked, :feedback, :graded_at, :created_at)`

func applyGrades(ctx context.Context, tx *sqlx.Tx, result models.MergeResult) error {
	for i := range result.ToCreate.Grades {
		grade := &result.ToCreate.Grades[i]
		if _, err := tx.ExecContext(ctx, demoteGradeQuery, grade.SubmissionID); err != nil {
			return fmt.Errorf("demote grades for %s: %w", grade.SubmissionID, err)
		}
		if _, err := tx.NamedExecContext(ctx, insertGradeQuery, grade); err != nil {
			return fmt.Errorf("insert grade %s: %w", grade.ID, err)
		}
	}
	return nil
}
