package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/codepet/classroom-sync-api/internal/models"
)

const submissionColumns = `id, lineage_id, assignment_id, classroom_id, student_id, student_email,
        student_name, version, previous_version_id, is_latest, content, attachments, status,
        submitted_at, created_at, updated_at`

// submissionRow carries the JSONB attachments column alongside the model.
type submissionRow struct {
	models.Submission
	AttachmentsJSON types.JSONText `db:"attachments"`
}

func (row *submissionRow) toModel() (models.Submission, error) {
	sub := row.Submission
	if len(row.AttachmentsJSON) > 0 {
		if err := json.Unmarshal(row.AttachmentsJSON, &sub.Attachments); err != nil {
			return sub, fmt.Errorf("decode attachments for %s: %w", sub.ID, err)
		}
	}
	return sub, nil
}

func newSubmissionRow(sub models.Submission) (*submissionRow, error) {
	row := &submissionRow{Submission: sub}
	raw, err := json.Marshal(sub.Attachments)
	if err != nil {
		return nil, fmt.Errorf("encode attachments for %s: %w", sub.ID, err)
	}
	row.AttachmentsJSON = types.JSONText(raw)
	return row, nil
}

// SubmissionRepository manages persistence for versioned submissions.
type SubmissionRepository struct {
	db *sqlx.DB
}

// NewSubmissionRepository constructs a SubmissionRepository.
func NewSubmissionRepository(db *sqlx.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// List returns submissions matching the provided filters.
func (r *SubmissionRepository) List(ctx context.Context, filter models.SubmissionFilter) ([]models.Submission, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.ClassroomID != "" {
		conditions = append(conditions, fmt.Sprintf("classroom_id = $%d", len(args)+1))
		args = append(args, filter.ClassroomID)
	}
	if filter.AssignmentID != "" {
		conditions = append(conditions, fmt.Sprintf("assignment_id = $%d", len(args)+1))
		args = append(args, filter.AssignmentID)
	}
	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.LatestOnly {
		conditions = append(conditions, "is_latest = true")
	}

	where := strings.Join(conditions, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT %s FROM submissions WHERE %s ORDER BY lineage_id ASC, version DESC LIMIT %d OFFSET %d`,
		submissionColumns, where, size, offset)

	var rows []submissionRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list submissions: %w", err)
	}

	submissions := make([]models.Submission, 0, len(rows))
	for i := range rows {
		sub, err := rows[i].toModel()
		if err != nil {
			return nil, 0, err
		}
		submissions = append(submissions, sub)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM submissions WHERE %s", where)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count submissions: %w", err)
	}
	return submissions, total, nil
}

// ListVersions returns the full version history of one lineage, newest first.
func (r *SubmissionRepository) ListVersions(ctx context.Context, lineageID string) ([]models.Submission, error) {
	query := fmt.Sprintf("SELECT %s FROM submissions WHERE lineage_id = $1 ORDER BY version DESC", submissionColumns)
	var rows []submissionRow
	if err := r.db.SelectContext(ctx, &rows, query, lineageID); err != nil {
		return nil, fmt.Errorf("list submission versions: %w", err)
	}
	submissions := make([]models.Submission, 0, len(rows))
	for i := range rows {
		sub, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, sub)
	}
	return submissions, nil
}

// ListByTeacher returns every submission across a teacher's classrooms.
func (r *SubmissionRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.Submission, error) {
	query := fmt.Sprintf(`SELECT %s FROM submissions s
        JOIN classrooms c ON c.id = s.classroom_id
        WHERE c.teacher_id = $1`, prefixColumns(submissionColumns, "s"))
	var rows []submissionRow
	if err := r.db.SelectContext(ctx, &rows, query, teacherID); err != nil {
		return nil, fmt.Errorf("list submissions by teacher: %w", err)
	}
	submissions := make([]models.Submission, 0, len(rows))
	for i := range rows {
		sub, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, sub)
	}
	return submissions, nil
}

// prefixColumns qualifies a comma-separated column list with a table alias.
func prefixColumns(columns, alias string) string {
	parts := strings.Split(columns, ",")
	for i, part := range parts {
		parts[i] = alias + "." + strings.TrimSpace(part)
	}
	return strings.Join(parts, ", ")
}
