package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codepet/classroom-sync-api/internal/models"
)

func TestMergeRepositoryApplyOrdersStatements(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMergeRepository(db)

	now := time.Now().UTC()
	result := models.MergeResult{
		ToCreate: models.CreateSet{
			Classrooms: []models.Classroom{{ID: "classroom_c1", TeacherID: "t", ExternalID: "c1", CreatedAt: now, UpdatedAt: now}},
			Submissions: []models.Submission{{
				ID: "lin_v2", LineageID: "lin", AssignmentID: "a", ClassroomID: "classroom_c1",
				StudentID: "s", Version: 2, IsLatest: true, Content: "new answer",
				Status: models.SubmissionStatusSubmitted, CreatedAt: now, UpdatedAt: now,
			}},
			Grades: []models.Grade{{
				ID: "lin_grade_v1", SubmissionID: "lin", AssignmentID: "a", StudentID: "s",
				ClassroomID: "classroom_c1", Score: 8, MaxScore: 10, Version: 1,
				SubmissionVersionGraded: 2, IsLatest: true, GradedBy: models.GradedByAuto, CreatedAt: now,
			}},
		},
		ToUpdate: models.UpdateSet{
			Submissions: []models.Submission{{
				ID: "lin_v1", LineageID: "lin", Version: 1, IsLatest: false,
				Status: models.SubmissionStatusSubmitted, UpdatedAt: now,
			}},
		},
		ToArchive: models.ArchiveSet{EnrollmentIDs: []string{"enroll_gone"}},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO classrooms`).WillReturnResult(sqlmock.NewResult(0, 1))
	// demotion of the prior latest version must land before the new insert
	mock.ExpectExec(`UPDATE submissions SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO submissions`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE enrollments SET status = \$2`).
		WithArgs("enroll_gone", models.EnrollmentStatusRemoved).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE grades SET is_latest = false`).
		WithArgs("lin").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO grades`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Apply(context.Background(), result)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMergeRepositoryApplyRollsBackOnFailure(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMergeRepository(db)

	result := models.MergeResult{
		ToCreate: models.CreateSet{
			Classrooms: []models.Classroom{{ID: "classroom_c1"}},
		},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO classrooms`).WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	err := repo.Apply(context.Background(), result)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert classroom classroom_c1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMergeRepositoryGetExistingAggregates(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMergeRepository(db)

	mock.ExpectQuery(`SELECT .+ FROM classrooms WHERE teacher_id = \$1`).
		WithArgs("teacher_t").
		WillReturnRows(classroomRows())
	mock.ExpectQuery(`SELECT .+ FROM assignments a\s+JOIN classrooms c ON c.id = a.classroom_id`).
		WithArgs("teacher_t").
		WillReturnRows(sqlmock.NewRows([]string{"id", "classroom_id", "title"}))
	mock.ExpectQuery(`SELECT .+ FROM submissions s\s+JOIN classrooms c ON c.id = s.classroom_id`).
		WithArgs("teacher_t").
		WillReturnRows(sqlmock.NewRows([]string{"id", "lineage_id"}))
	mock.ExpectQuery(`SELECT .+ FROM enrollments e\s+JOIN classrooms c ON c.id = e.classroom_id`).
		WithArgs("teacher_t").
		WillReturnRows(sqlmock.NewRows([]string{"id", "classroom_id"}))
	mock.ExpectQuery(`SELECT .+ FROM grades g\s+JOIN classrooms c ON c.id = g.classroom_id`).
		WithArgs("teacher_t").
		WillReturnRows(sqlmock.NewRows([]string{"id", "submission_id"}))

	set, err := repo.GetExisting(context.Background(), "teacher_t")
	require.NoError(t, err)
	assert.Len(t, set.Classrooms, 1)
	assert.Empty(t, set.Assignments)
	assert.NoError(t, mock.ExpectationsWereMet())
}
