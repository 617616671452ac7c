package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/aesong/academy-api/internal/dto"
	"github.com/aesong/academy-api/internal/models"
	"github.com/aesong/academy-api/internal/repository"
	appErrors "github.com/aesong/academy-api/pkg/errors"
)

type courseStore interface {
	Create(ctx context.Context, course *models.Course) error
	FindByCode(ctx context.Context, code string) (*models.Course, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error)
	Update(ctx context.Context, code string, params repository.UpdateCourseParams) error
}

type instructorChecker interface {
	ExistByCodes(ctx context.Context, codes []string) (bool, error)
}

type subjectPlanStore interface {
	ListByCourse(ctx context.Context, courseCode string) ([]models.SubjectAssignment, error)
	ReplaceForCourse(ctx context.Context, exec sqlx.ExtContext, courseCode string, assignments []models.SubjectAssignment) error
}

// CourseService manages course planning data.
type CourseService struct {
	courses     courseStore
	subjects    subjectPlanStore
	instructors instructorChecker
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewCourseService constructs the service.
func NewCourseService(courses courseStore, subjects subjectPlanStore, instructors instructorChecker, logger *zap.Logger) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{
		courses:     courses,
		subjects:    subjects,
		instructors: instructors,
		validator:   validator.New(),
		logger:      logger,
	}
}

// Create registers a new course in draft status.
func (s *CourseService) Create(ctx context.Context, req dto.CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid start date")
	}
	if req.LectureHours+req.ProjectHours+req.PracticeHours <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course requires a positive total hour budget")
	}

	exists, err := s.courses.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check course code")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "course code already in use")
	}

	course := &models.Course{
		Code:           req.Code,
		Name:           req.Name,
		StartDate:      startDate,
		LectureHours:   req.LectureHours,
		ProjectHours:   req.ProjectHours,
		PracticeHours:  req.PracticeHours,
		MorningHours:   req.MorningHours,
		AfternoonHours: req.AfternoonHours,
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	return course, nil
}

// Get returns a course by code.
func (s *CourseService) Get(ctx context.Context, code string) (*models.Course, error) {
	course, err := s.courses.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// List returns a page of courses.
func (s *CourseService) List(ctx context.Context, query dto.CourseListQuery) (*dto.CourseListResponse, error) {
	filter := models.CourseFilter{
		Search:   query.Search,
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	if query.Status != "" {
		status := models.CourseStatus(query.Status)
		switch status {
		case models.CourseStatusDraft, models.CourseStatusScheduled, models.CourseStatusRunning, models.CourseStatusFinished:
			filter.Status = &status
		default:
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid course status")
		}
	}

	courses, total, err := s.courses.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return &dto.CourseListResponse{
		Courses:    courses,
		Pagination: models.Pagination{Page: page, PageSize: size, TotalCount: total},
	}, nil
}

// Update changes the planning fields of a course. Schedule boundaries are
// cleared implicitly on the next synthesis run.
func (s *CourseService) Update(ctx context.Context, code string, req dto.UpdateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	if _, err := s.Get(ctx, code); err != nil {
		return nil, err
	}

	params := repository.UpdateCourseParams{
		Name:           req.Name,
		LectureHours:   req.LectureHours,
		ProjectHours:   req.ProjectHours,
		PracticeHours:  req.PracticeHours,
		MorningHours:   req.MorningHours,
		AfternoonHours: req.AfternoonHours,
	}
	if req.StartDate != nil {
		startDate, err := time.Parse("2006-01-02", *req.StartDate)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid start date")
		}
		params.StartDate = &startDate
	}

	if err := s.courses.Update(ctx, code, params); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}
	return s.Get(ctx, code)
}

// GetSubjectPlan returns the subject plan of a course ordered by position.
func (s *CourseService) GetSubjectPlan(ctx context.Context, code string) ([]models.SubjectAssignment, error) {
	if _, err := s.Get(ctx, code); err != nil {
		return nil, err
	}
	assignments, err := s.subjects.ListByCourse(ctx, code)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject plan")
	}
	return assignments, nil
}

// ReplaceSubjectPlan swaps the full subject plan of a course.
func (s *CourseService) ReplaceSubjectPlan(ctx context.Context, code string, req dto.ReplaceSubjectPlanRequest) ([]models.SubjectAssignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject plan payload")
	}
	if _, err := s.Get(ctx, code); err != nil {
		return nil, err
	}

	codes := make([]string, 0, len(req.Assignments))
	assignments := make([]models.SubjectAssignment, 0, len(req.Assignments))
	for _, a := range req.Assignments {
		codes = append(codes, a.InstructorCode)
		assignments = append(assignments, models.SubjectAssignment{
			SubjectCode:    a.SubjectCode,
			SubjectName:    a.SubjectName,
			DayOfWeek:      a.DayOfWeek,
			Biweekly:       a.Biweekly,
			WeekParity:     a.WeekParity,
			Hours:          a.Hours,
			InstructorCode: a.InstructorCode,
		})
	}

	if s.instructors != nil {
		valid, err := s.instructors.ExistByCodes(ctx, codes)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate instructors")
		}
		if !valid {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown instructor code in subject plan")
		}
	}

	if err := s.subjects.ReplaceForCourse(ctx, nil, code, assignments); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to replace subject plan")
	}
	return assignments, nil
}
