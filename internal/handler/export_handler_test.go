package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/aesong/academy-api/internal/dto"
	"github.com/aesong/academy-api/internal/models"
	"github.com/aesong/academy-api/internal/service"
	appErrors "github.com/aesong/academy-api/pkg/errors"
)

type exportJobManagerMock struct {
	captured dto.ExportRequest
	status   *dto.ExportStatusResponse
}

func (m *exportJobManagerMock) CreateJob(ctx context.Context, req dto.ExportRequest, actorID string) (*dto.ExportJobResponse, error) {
	m.captured = req
	return &dto.ExportJobResponse{ID: "job-1", Status: models.ExportStatusQueued}, nil
}

func (m *exportJobManagerMock) GetStatus(ctx context.Context, id string) (*dto.ExportStatusResponse, error) {
	if m.status == nil {
		return nil, appErrors.ErrNotFound
	}
	return m.status, nil
}

func (m *exportJobManagerMock) ResolveDownload(ctx context.Context, token string) (*service.ExportDownload, error) {
	return nil, appErrors.ErrForbidden
}

func newExportTestContext(t *testing.T, method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(method, path, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestExportHandlerCreate(t *testing.T) {
	mockSvc := &exportJobManagerMock{}
	handler := &ExportHandler{service: mockSvc}
	payload := []byte(`{"type":"timetable","courseCode":"WD-2026-1","format":"csv"}`)
	c, w := newExportTestContext(t, http.MethodPost, "/exports", payload)

	handler.Create(c)

	require.Equal(t, http.StatusAccepted, w.Code)
	require.Equal(t, models.ExportTypeTimetable, mockSvc.captured.Type)
	require.Equal(t, "WD-2026-1", mockSvc.captured.CourseCode)
}

func TestExportHandlerStatusNotFound(t *testing.T) {
	handler := &ExportHandler{service: &exportJobManagerMock{}}
	c, w := newExportTestContext(t, http.MethodGet, "/exports/job-1", nil)
	c.Params = gin.Params{{Key: "id", Value: "job-1"}}

	handler.Status(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportHandlerDownloadMissingToken(t *testing.T) {
	handler := &ExportHandler{service: &exportJobManagerMock{}}
	c, w := newExportTestContext(t, http.MethodGet, "/exports/download/", nil)
	c.Params = gin.Params{{Key: "token", Value: " "}}

	handler.Download(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportHandlerDownloadForbidden(t *testing.T) {
	handler := &ExportHandler{service: &exportJobManagerMock{}}
	c, w := newExportTestContext(t, http.MethodGet, "/exports/download/bad-token", nil)
	c.Params = gin.Params{{Key: "token", Value: "bad-token"}}

	handler.Download(c)

	require.Equal(t, http.StatusForbidden, w.Code)
}
