package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/aesong/academy-api/internal/models"
	"github.com/aesong/academy-api/pkg/export"
	"github.com/aesong/academy-api/pkg/storage"
)

type exportCourseSource interface {
	FindByCode(ctx context.Context, code string) (*models.Course, error)
}

type exportTimetableSource interface {
	ListByCourse(ctx context.Context, filter models.TimetableFilter) ([]models.TimetableEntry, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ExportFormat
	ExpiresAt    time.Time
}

// ExportService builds course datasets and persists rendered files.
type ExportService struct {
	courses    exportCourseSource
	timetables exportTimetableSource
	storage    fileStorage
	csv        datasetRenderer
	pdf        datasetRenderer
	signer     *storage.SignedURLSigner
	logger     *zap.Logger
	cfg        ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(courses exportCourseSource, timetables exportTimetableSource, store fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, csv, pdf datasetRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		courses:    courses,
		timetables: timetables,
		storage:    store,
		csv:        csv,
		pdf:        pdf,
		signer:     signer,
		logger:     logger,
		cfg:        cfg,
	}
}

// Generate builds the dataset according to the job definition and stores the
// rendered export.
func (s *ExportService) Generate(ctx context.Context, job *models.ExportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	dataset, err := s.buildDataset(ctx, job)
	if err != nil {
		return nil, err
	}

	var payload []byte
	switch job.Params.Format {
	case models.ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ExportFormatPDF:
		payload, err = s.pdf.Render(dataset)
	default:
		err = fmt.Errorf("unsupported format %s", job.Params.Format)
	}
	if err != nil {
		return nil, err
	}

	filename := s.buildFilename(job)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	signedURL := strings.TrimRight(s.cfg.APIPrefix, "/")
	if signedURL == "" {
		signedURL = "/api/v1"
	}
	signedURL = fmt.Sprintf("%s/exports/download/%s", signedURL, token)

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          signedURL,
		Format:       job.Params.Format,
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) buildFilename(job *models.ExportJob) string {
	timestamp := time.Now().UTC().Format("20060102_150405")
	coursePart := sanitizeFilename(job.Params.CourseCode)
	return fmt.Sprintf("%s_%s_%s.%s", strings.ToLower(string(job.Type)), coursePart, timestamp, job.Params.Format)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}

func (s *ExportService) buildDataset(ctx context.Context, job *models.ExportJob) (export.Dataset, error) {
	switch job.Type {
	case models.ExportTypeTimetable:
		return s.buildTimetableDataset(ctx, job.Params)
	case models.ExportTypeLedger:
		return s.buildLedgerDataset(ctx, job.Params)
	default:
		return export.Dataset{}, fmt.Errorf("unsupported export type %s", job.Type)
	}
}

func (s *ExportService) buildTimetableDataset(ctx context.Context, params models.ExportJobParams) (export.Dataset, error) {
	course, err := s.courses.FindByCode(ctx, params.CourseCode)
	if err != nil {
		return export.Dataset{}, fmt.Errorf("load course: %w", err)
	}
	rows, err := s.timetables.ListByCourse(ctx, models.TimetableFilter{CourseCode: params.CourseCode})
	if err != nil {
		return export.Dataset{}, fmt.Errorf("load timetable: %w", err)
	}

	dataset := export.Dataset{
		Title:   fmt.Sprintf("Timetable %s", course.Code),
		Headers: []string{"Date", "Start", "End", "Phase", "Subject", "Instructor"},
		Rows:    make([][]string, 0, len(rows)),
	}
	for _, row := range rows {
		dataset.Rows = append(dataset.Rows, []string{
			row.ClassDate.Format("2006-01-02"),
			row.StartTime,
			row.EndTime,
			row.PhaseType,
			deref(row.SubjectCode),
			deref(row.InstructorCode),
		})
	}
	return dataset, nil
}

func (s *ExportService) buildLedgerDataset(ctx context.Context, params models.ExportJobParams) (export.Dataset, error) {
	course, err := s.courses.FindByCode(ctx, params.CourseCode)
	if err != nil {
		return export.Dataset{}, fmt.Errorf("load course: %w", err)
	}

	dataset := export.Dataset{
		Title:   fmt.Sprintf("Schedule Ledger %s", course.Code),
		Headers: []string{"Phase", "End Date", "Hours"},
	}
	if course.ScheduleNotes != nil {
		dataset.Summary = strings.Split(strings.TrimRight(*course.ScheduleNotes, "\n"), "\n")
	}
	appendPhase := func(name string, end *time.Time, hours int) {
		endText := ""
		if end != nil {
			endText = end.Format("2006-01-02")
		}
		dataset.Rows = append(dataset.Rows, []string{name, endText, fmt.Sprintf("%d", hours)})
	}
	appendPhase("LECTURE", course.LectureEndDate, course.LectureHours)
	appendPhase("PROJECT", course.ProjectEndDate, course.ProjectHours)
	appendPhase("PRACTICE", course.PracticeEndDate, course.PracticeHours)
	return dataset, nil
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
