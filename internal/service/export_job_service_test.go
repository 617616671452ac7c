package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aesong/academy-api/internal/dto"
	"github.com/aesong/academy-api/internal/models"
	"github.com/aesong/academy-api/internal/repository"
	appErrors "github.com/aesong/academy-api/pkg/errors"
	"github.com/aesong/academy-api/pkg/jobs"
)

type exportJobStoreStub struct {
	jobs    map[string]*models.ExportJob
	updates []repository.UpdateExportJobParams
}

func newExportJobStoreStub() *exportJobStoreStub {
	return &exportJobStoreStub{jobs: map[string]*models.ExportJob{}}
}

func (s *exportJobStoreStub) Create(ctx context.Context, job *models.ExportJob) error {
	if job.ID == "" {
		job.ID = fmt.Sprintf("job-%d", len(s.jobs)+1)
	}
	s.jobs[job.ID] = job
	return nil
}

func (s *exportJobStoreStub) GetByID(ctx context.Context, id string) (*models.ExportJob, error) {
	job, ok := s.jobs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *job
	return &copied, nil
}

func (s *exportJobStoreStub) Update(ctx context.Context, id string, params repository.UpdateExportJobParams) error {
	s.updates = append(s.updates, params)
	job, ok := s.jobs[id]
	if !ok {
		return sql.ErrNoRows
	}
	if params.Status != nil {
		job.Status = *params.Status
	}
	if params.Progress != nil {
		job.Progress = *params.Progress
	}
	if params.ResultURL != nil {
		job.ResultURL = params.ResultURL
	}
	if params.ErrorMessage != nil {
		job.ErrorMessage = params.ErrorMessage
	}
	if params.FinishedAt != nil {
		job.FinishedAt = params.FinishedAt
	}
	return nil
}

func (s *exportJobStoreStub) ListQueued(ctx context.Context, limit int) ([]models.ExportJob, error) {
	out := make([]models.ExportJob, 0)
	for _, job := range s.jobs {
		if job.Status == models.ExportStatusQueued {
			out = append(out, *job)
		}
	}
	return out, nil
}

func (s *exportJobStoreStub) ListFinishedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.ExportJob, error) {
	return nil, nil
}

type dispatcherStub struct {
	enqueued []jobs.Job
	err      error
}

func (s *dispatcherStub) Enqueue(job jobs.Job) error {
	if s.err != nil {
		return s.err
	}
	s.enqueued = append(s.enqueued, job)
	return nil
}

type courseExistsStub struct {
	exists bool
}

func (s *courseExistsStub) ExistsByCode(ctx context.Context, code string) (bool, error) {
	return s.exists, nil
}

type generatorStub struct {
	result *ExportResult
	err    error
}

func (s *generatorStub) Generate(ctx context.Context, job *models.ExportJob) (*ExportResult, error) {
	return s.result, s.err
}

func validExportRequest() dto.ExportRequest {
	return dto.ExportRequest{
		Type:       models.ExportTypeTimetable,
		CourseCode: "WD-2026-1",
		Format:     models.ExportFormatCSV,
	}
}

func TestExportJobServiceCreateJob(t *testing.T) {
	store := newExportJobStoreStub()
	dispatcher := &dispatcherStub{}
	service := NewExportJobService(store, &courseExistsStub{exists: true}, dispatcher, nil, zap.NewNop(), ExportJobConfig{})

	resp, err := service.CreateJob(context.Background(), validExportRequest(), "admin-1")
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusQueued, resp.Status)
	assert.Equal(t, 0, resp.Progress)
	require.Len(t, dispatcher.enqueued, 1)
	assert.Equal(t, resp.ID, dispatcher.enqueued[0].ID)
}

func TestExportJobServiceCreateJobUnknownCourse(t *testing.T) {
	service := NewExportJobService(newExportJobStoreStub(), &courseExistsStub{}, &dispatcherStub{}, nil, zap.NewNop(), ExportJobConfig{})

	_, err := service.CreateJob(context.Background(), validExportRequest(), "admin-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestExportJobServiceCreateJobBadType(t *testing.T) {
	service := NewExportJobService(newExportJobStoreStub(), &courseExistsStub{exists: true}, &dispatcherStub{}, nil, zap.NewNop(), ExportJobConfig{})

	req := validExportRequest()
	req.Type = models.ExportType("spreadsheet")
	_, err := service.CreateJob(context.Background(), req, "admin-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestExportJobServiceCreateJobEnqueueFailureMarksFailed(t *testing.T) {
	store := newExportJobStoreStub()
	dispatcher := &dispatcherStub{err: errors.New("queue full")}
	service := NewExportJobService(store, &courseExistsStub{exists: true}, dispatcher, nil, zap.NewNop(), ExportJobConfig{})

	_, err := service.CreateJob(context.Background(), validExportRequest(), "admin-1")
	require.Error(t, err)
	require.Len(t, store.jobs, 1)
	for _, job := range store.jobs {
		assert.Equal(t, models.ExportStatusFailed, job.Status)
	}
}

func TestExportJobServiceGetStatusNotFound(t *testing.T) {
	service := NewExportJobService(newExportJobStoreStub(), nil, &dispatcherStub{}, nil, zap.NewNop(), ExportJobConfig{})

	_, err := service.GetStatus(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestExportJobServiceRecoverPendingJobs(t *testing.T) {
	store := newExportJobStoreStub()
	store.jobs["stalled"] = &models.ExportJob{ID: "stalled", Type: models.ExportTypeLedger, Status: models.ExportStatusQueued}
	dispatcher := &dispatcherStub{}
	service := NewExportJobService(store, nil, dispatcher, nil, zap.NewNop(), ExportJobConfig{})

	service.RecoverPendingJobs(context.Background())
	require.Len(t, dispatcher.enqueued, 1)
	assert.Equal(t, "stalled", dispatcher.enqueued[0].ID)
}

func TestExportJobServiceResolveDownload(t *testing.T) {
	exporter := newExportServiceForTest(t, []models.TimetableEntry{
		timetableRow("2026-03-02", "LECTURE", "GO101"),
	})
	store := newExportJobStoreStub()
	job := &models.ExportJob{
		ID:     "job-dl",
		Type:   models.ExportTypeTimetable,
		Params: models.ExportJobParams{CourseCode: "WD-2026-1", Format: models.ExportFormatCSV},
		Status: models.ExportStatusProcessing,
	}
	store.jobs[job.ID] = job

	result, err := exporter.Generate(context.Background(), job)
	require.NoError(t, err)
	job.Status = models.ExportStatusFinished
	job.ResultURL = &result.URL

	service := NewExportJobService(store, nil, &dispatcherStub{}, exporter, zap.NewNop(), ExportJobConfig{})

	download, err := service.ResolveDownload(context.Background(), result.Token)
	require.NoError(t, err)
	defer download.File.Close()
	assert.Equal(t, models.ExportFormatCSV, download.Format)
	content, err := io.ReadAll(download.File)
	require.NoError(t, err)
	assert.Contains(t, string(content), "GO101")
}

func TestExportJobServiceResolveDownloadRejectsBadToken(t *testing.T) {
	exporter := newExportServiceForTest(t, nil)
	service := NewExportJobService(newExportJobStoreStub(), nil, &dispatcherStub{}, exporter, zap.NewNop(), ExportJobConfig{})

	_, err := service.ResolveDownload(context.Background(), "not-a-token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestExportWorkerHandleSuccess(t *testing.T) {
	store := newExportJobStoreStub()
	store.jobs["job-ok"] = &models.ExportJob{
		ID:     "job-ok",
		Type:   models.ExportTypeTimetable,
		Params: models.ExportJobParams{CourseCode: "WD-2026-1", Format: models.ExportFormatCSV},
		Status: models.ExportStatusQueued,
	}
	generator := &generatorStub{result: &ExportResult{URL: "/api/v1/exports/download/token-1"}}
	worker := NewExportWorker(store, generator, 3, zap.NewNop())

	err := worker.Handle(context.Background(), jobs.Job{ID: "job-ok"})
	require.NoError(t, err)

	job := store.jobs["job-ok"]
	assert.Equal(t, models.ExportStatusFinished, job.Status)
	assert.Equal(t, 100, job.Progress)
	require.NotNil(t, job.ResultURL)
	assert.Equal(t, "/api/v1/exports/download/token-1", *job.ResultURL)
}

func TestExportWorkerHandleRetriesThenFails(t *testing.T) {
	store := newExportJobStoreStub()
	store.jobs["job-bad"] = &models.ExportJob{
		ID:     "job-bad",
		Type:   models.ExportTypeLedger,
		Params: models.ExportJobParams{CourseCode: "WD-2026-1", Format: models.ExportFormatPDF},
		Status: models.ExportStatusQueued,
	}
	generator := &generatorStub{err: errors.New("render failed")}
	worker := NewExportWorker(store, generator, 2, zap.NewNop())

	err := worker.Handle(context.Background(), jobs.Job{ID: "job-bad", Attempt: 0})
	require.Error(t, err)
	assert.Equal(t, models.ExportStatusQueued, store.jobs["job-bad"].Status)

	err = worker.Handle(context.Background(), jobs.Job{ID: "job-bad", Attempt: 2})
	require.Error(t, err)
	assert.Equal(t, models.ExportStatusFailed, store.jobs["job-bad"].Status)
	require.NotNil(t, store.jobs["job-bad"].ErrorMessage)
	assert.Equal(t, "render failed", *store.jobs["job-bad"].ErrorMessage)
}
