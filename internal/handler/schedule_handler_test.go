package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/aesong/academy-api/internal/dto"
	appErrors "github.com/aesong/academy-api/pkg/errors"
)

type scheduleRunnerMock struct {
	captured dto.ScheduleRunRequest
	runErr   error
	rows     []dto.TimetableEntryResponse
}

func (m *scheduleRunnerMock) Run(ctx context.Context, req dto.ScheduleRunRequest) (*dto.ScheduleRunResponse, error) {
	m.captured = req
	if m.runErr != nil {
		return nil, m.runErr
	}
	return &dto.ScheduleRunResponse{
		CourseCode:      req.CourseCode,
		LectureEndDate:  time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
		ProjectEndDate:  time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		PracticeEndDate: time.Date(2026, 10, 30, 0, 0, 0, 0, time.UTC),
		DryRun:          req.DryRun,
	}, nil
}

func (m *scheduleRunnerMock) GetTimetable(ctx context.Context, courseCode string, query dto.TimetableQuery) ([]dto.TimetableEntryResponse, error) {
	return m.rows, nil
}

func newScheduleTestContext(t *testing.T, method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(method, path, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "code", Value: "WD-2026-1"}}
	return c, w
}

func TestScheduleHandlerRun(t *testing.T) {
	mockSvc := &scheduleRunnerMock{}
	handler := &ScheduleHandler{service: mockSvc}
	c, w := newScheduleTestContext(t, http.MethodPost, "/courses/WD-2026-1/schedule", []byte(`{"generateTimetable":true}`))

	handler.Run(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "WD-2026-1", mockSvc.captured.CourseCode)
	require.True(t, mockSvc.captured.GenerateTimetable)
	require.False(t, mockSvc.captured.DryRun)
}

func TestScheduleHandlerRunEmptyBody(t *testing.T) {
	mockSvc := &scheduleRunnerMock{}
	handler := &ScheduleHandler{service: mockSvc}
	c, w := newScheduleTestContext(t, http.MethodPost, "/courses/WD-2026-1/schedule", nil)

	handler.Run(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.False(t, mockSvc.captured.GenerateTimetable)
}

func TestScheduleHandlerRunUnschedulable(t *testing.T) {
	mockSvc := &scheduleRunnerMock{runErr: appErrors.ErrUnschedulable}
	handler := &ScheduleHandler{service: mockSvc}
	c, w := newScheduleTestContext(t, http.MethodPost, "/courses/WD-2026-1/schedule", []byte(`{}`))

	handler.Run(c)

	require.Equal(t, appErrors.ErrUnschedulable.Status, w.Code)
}

func TestScheduleHandlerRunBadPayload(t *testing.T) {
	handler := &ScheduleHandler{service: &scheduleRunnerMock{}}
	c, w := newScheduleTestContext(t, http.MethodPost, "/courses/WD-2026-1/schedule", []byte(`{"dryRun":`))

	handler.Run(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleHandlerTimetable(t *testing.T) {
	mockSvc := &scheduleRunnerMock{rows: []dto.TimetableEntryResponse{
		{CourseCode: "WD-2026-1", StartTime: "09:00", EndTime: "13:00", Phase: "LECTURE"},
	}}
	handler := &ScheduleHandler{service: mockSvc}
	c, w := newScheduleTestContext(t, http.MethodGet, "/courses/WD-2026-1/timetable?phase=LECTURE", nil)

	handler.Timetable(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "LECTURE")
}
