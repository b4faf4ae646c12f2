package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codepet/classroom-sync-api/internal/models"
	appErrors "github.com/codepet/classroom-sync-api/pkg/errors"
)

type mockMergeRepo struct {
	existing       models.EntitySet
	getExistingErr error
	applyErr       error
	applied        []models.MergeResult
}

func (m *mockMergeRepo) GetExisting(ctx context.Context, teacherID string) (models.EntitySet, error) {
	if m.getExistingErr != nil {
		return models.EntitySet{}, m.getExistingErr
	}
	return m.existing, nil
}

func (m *mockMergeRepo) Apply(ctx context.Context, result models.MergeResult) error {
	if m.applyErr != nil {
		return m.applyErr
	}
	m.applied = append(m.applied, result)
	return nil
}

type mockRunStore struct {
	saved     map[string]*models.ImportRun
	claimed   map[string]bool
	released  []string
	claimBusy bool
	saveErr   error
}

func newMockRunStore() *mockRunStore {
	return &mockRunStore{saved: map[string]*models.ImportRun{}, claimed: map[string]bool{}}
}

func (m *mockRunStore) Save(ctx context.Context, run *models.ImportRun) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	copied := *run
	m.saved[run.ID] = &copied
	return nil
}

func (m *mockRunStore) Get(ctx context.Context, id string) (*models.ImportRun, error) {
	return m.saved[id], nil
}

func (m *mockRunStore) ClaimSnapshot(ctx context.Context, teacherID, hash string) (bool, error) {
	if m.claimBusy {
		return false, nil
	}
	key := teacherID + ":" + hash
	if m.claimed[key] {
		return false, nil
	}
	m.claimed[key] = true
	return true, nil
}

func (m *mockRunStore) ReleaseSnapshot(ctx context.Context, teacherID, hash string) error {
	m.released = append(m.released, teacherID+":"+hash)
	delete(m.claimed, teacherID+":"+hash)
	return nil
}

func validSnapshot() models.ClassroomSnapshot {
	return models.ClassroomSnapshot{
		Teacher: models.TeacherProfile{Email: "teacher@example.com", Name: "Teacher"},
		Classrooms: []models.ClassroomWithData{{
			ExternalID:   "c1",
			Name:         "Period 1",
			TeacherEmail: "teacher@example.com",
			Students: []models.StudentSnapshot{
				{Email: "alice@example.com", Name: "Alice"},
			},
			Assignments: []models.AssignmentSnapshot{
				{ExternalID: "a1", Title: "Homework 1", MaxScore: floatPtr(10)},
			},
			Submissions: []models.SubmissionSnapshot{
				{AssignmentID: "a1", StudentEmail: "alice@example.com", Content: "my answer", Status: "turned_in"},
			},
		}},
	}
}

func floatPtr(v float64) *float64 { return &v }

func newTestImportService(repo *mockMergeRepo, runs *mockRunStore) *ImportService {
	return NewImportService(repo, runs, nil, nil, NewMetricsService(), ImportConfig{})
}

func TestEnqueueSnapshotRejectsInvalidPayload(t *testing.T) {
	svc := newTestImportService(&mockMergeRepo{}, newMockRunStore())

	_, err := svc.EnqueueSnapshot(context.Background(), models.ClassroomSnapshot{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSnapshotInvalid.Code, appErrors.FromError(err).Code)
}

func TestEnqueueSnapshotSkipsDuplicate(t *testing.T) {
	runs := newMockRunStore()
	runs.claimBusy = true
	svc := newTestImportService(&mockMergeRepo{}, runs)

	run, err := svc.EnqueueSnapshot(context.Background(), validSnapshot())
	require.NoError(t, err)
	assert.Equal(t, models.ImportStatusSkipped, run.Status)
	assert.NotNil(t, run.FinishedAt)
}

func TestProcessAppliesMergeAndCompletesRun(t *testing.T) {
	repo := &mockMergeRepo{}
	runs := newMockRunStore()
	svc := newTestImportService(repo, runs)

	run := &models.ImportRun{ID: "run-1", TeacherID: "teacher_teacher-40example-2ecom", Status: models.ImportStatusQueued}
	err := svc.Process(context.Background(), run, validSnapshot())
	require.NoError(t, err)

	require.Len(t, repo.applied, 1)
	result := repo.applied[0]
	assert.Len(t, result.ToCreate.Classrooms, 1)
	assert.Len(t, result.ToCreate.Assignments, 1)
	assert.Len(t, result.ToCreate.Submissions, 1)
	assert.Len(t, result.ToCreate.Enrollments, 1)

	assert.Equal(t, models.ImportStatusCompleted, run.Status)
	require.NotNil(t, run.Counts)
	assert.Equal(t, 1, run.Counts.ClassroomsCreated)
	assert.NotNil(t, run.FinishedAt)

	saved := runs.saved["run-1"]
	require.NotNil(t, saved)
	assert.Equal(t, models.ImportStatusCompleted, saved.Status)
}

func TestProcessSecondPassIsNoOp(t *testing.T) {
	repo := &mockMergeRepo{}
	runs := newMockRunStore()
	svc := newTestImportService(repo, runs)

	run := &models.ImportRun{ID: "run-1", TeacherID: "teacher_teacher-40example-2ecom"}
	require.NoError(t, svc.Process(context.Background(), run, validSnapshot()))

	// Simulate the first pass having been persisted.
	first := repo.applied[0]
	repo.existing = models.EntitySet{
		Classrooms:  first.ToCreate.Classrooms,
		Assignments: first.ToCreate.Assignments,
		Submissions: first.ToCreate.Submissions,
		Enrollments: first.ToCreate.Enrollments,
		Grades:      first.ToCreate.Grades,
	}

	run2 := &models.ImportRun{ID: "run-2", TeacherID: "teacher_teacher-40example-2ecom"}
	require.NoError(t, svc.Process(context.Background(), run2, validSnapshot()))

	require.Len(t, repo.applied, 2)
	second := repo.applied[1]
	assert.Empty(t, second.ToCreate.Classrooms)
	assert.Empty(t, second.ToCreate.Assignments)
	assert.Empty(t, second.ToCreate.Submissions, "unchanged content must not version")
	assert.Empty(t, second.ToCreate.Enrollments)
}

func TestProcessFailureReleasesDedupeClaim(t *testing.T) {
	repo := &mockMergeRepo{applyErr: errors.New("db down")}
	runs := newMockRunStore()
	svc := newTestImportService(repo, runs)

	run := &models.ImportRun{ID: "run-1", TeacherID: "t", SnapshotHash: "h"}
	err := svc.Process(context.Background(), run, validSnapshot())
	require.Error(t, err)

	assert.Equal(t, models.ImportStatusFailed, run.Status)
	assert.NotEmpty(t, run.Error)
	assert.Contains(t, runs.released, "t:h")
}

func TestGetRunNotFound(t *testing.T) {
	svc := newTestImportService(&mockMergeRepo{}, newMockRunStore())

	_, err := svc.GetRun(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSnapshotHashStable(t *testing.T) {
	a, err := snapshotHash(validSnapshot())
	require.NoError(t, err)
	b, err := snapshotHash(validSnapshot())
	require.NoError(t, err)
	assert.Equal(t, a, b)

	changed := validSnapshot()
	changed.Classrooms[0].Submissions[0].Content = "different answer"
	c, err := snapshotHash(changed)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}
