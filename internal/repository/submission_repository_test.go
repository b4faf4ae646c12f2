package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codepet/classroom-sync-api/internal/models"
)

func submissionRows(attachments string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "lineage_id", "assignment_id", "classroom_id", "student_id", "student_email",
		"student_name", "version", "previous_version_id", "is_latest", "content", "attachments",
		"status", "submitted_at", "created_at", "updated_at",
	}).AddRow(
		"lin_v1", "lin", "assign", "room", "stu", "alice@example.com",
		"Alice", 1, nil, true, "my answer", []byte(attachments),
		"submitted", time.Now(), time.Now(), time.Now(),
	)
}

func TestSubmissionRepositoryListDecodesAttachments(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubmissionRepository(db)

	mock.ExpectQuery(`SELECT .+ FROM submissions WHERE 1=1 AND is_latest = true ORDER BY lineage_id ASC, version DESC LIMIT 20 OFFSET 0`).
		WillReturnRows(submissionRows(`[{"type":"driveFile","id":"d1","title":"Essay","url":"https://example.com/d1"}]`))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM submissions WHERE 1=1 AND is_latest = true`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	submissions, total, err := repo.List(context.Background(), models.SubmissionFilter{LatestOnly: true})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, submissions, 1)
	require.Len(t, submissions[0].Attachments, 1)
	assert.Equal(t, "driveFile", submissions[0].Attachments[0].Type)
	assert.Equal(t, "Essay", submissions[0].Attachments[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionRepositoryListVersionsOrder(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubmissionRepository(db)

	mock.ExpectQuery(`SELECT .+ FROM submissions WHERE lineage_id = \$1 ORDER BY version DESC`).
		WithArgs("lin").
		WillReturnRows(submissionRows("[]"))

	versions, err := repo.ListVersions(context.Background(), "lin")
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.Empty(t, versions[0].Attachments)
	assert.NoError(t, mock.ExpectationsWereMet())
}
