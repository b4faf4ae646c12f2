package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codepet/classroom-sync-api/internal/models"
	"github.com/codepet/classroom-sync-api/internal/service"
	"github.com/codepet/classroom-sync-api/pkg/response"
)

type mergeRepoMock struct{}

func (m *mergeRepoMock) GetExisting(ctx context.Context, teacherID string) (models.EntitySet, error) {
	return models.EntitySet{}, nil
}

func (m *mergeRepoMock) Apply(ctx context.Context, result models.MergeResult) error {
	return nil
}

type runStoreMock struct {
	runs      map[string]*models.ImportRun
	duplicate bool
}

func (m *runStoreMock) Save(ctx context.Context, run *models.ImportRun) error {
	if m.runs == nil {
		m.runs = map[string]*models.ImportRun{}
	}
	copied := *run
	m.runs[run.ID] = &copied
	return nil
}

func (m *runStoreMock) Get(ctx context.Context, id string) (*models.ImportRun, error) {
	return m.runs[id], nil
}

func (m *runStoreMock) ClaimSnapshot(ctx context.Context, teacherID, hash string) (bool, error) {
	return !m.duplicate, nil
}

func (m *runStoreMock) ReleaseSnapshot(ctx context.Context, teacherID, hash string) error {
	return nil
}

func newImportHandlerForTest(store *runStoreMock) *ImportHandler {
	imports := service.NewImportService(&mergeRepoMock{}, store, nil, nil, service.NewMetricsService(), service.ImportConfig{})
	return NewImportHandler(imports)
}

func TestImportHandlerSubmitInvalidJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newImportHandlerForTest(&runStoreMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/imports/snapshot", bytes.NewReader([]byte(`not json`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Submit(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImportHandlerSubmitInvalidSnapshot(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newImportHandlerForTest(&runStoreMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(models.ClassroomSnapshot{})
	req, _ := http.NewRequest(http.MethodPost, "/imports/snapshot", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Submit(c)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestImportHandlerSubmitDuplicateSkips(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newImportHandlerForTest(&runStoreMock{duplicate: true})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	snapshot := models.ClassroomSnapshot{
		Teacher: models.TeacherProfile{Email: "teacher@example.com"},
		Classrooms: []models.ClassroomWithData{
			{ExternalID: "c1", Name: "Period 1", TeacherEmail: "teacher@example.com"},
		},
	}
	body, _ := json.Marshal(snapshot)
	req, _ := http.NewRequest(http.MethodPost, "/imports/snapshot", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Submit(c)
	require.Equal(t, http.StatusAccepted, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	data, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, string(models.ImportStatusSkipped), data["status"])
}

func TestImportHandlerGetUnknownRun(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newImportHandlerForTest(&runStoreMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/imports/missing", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.Get(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
