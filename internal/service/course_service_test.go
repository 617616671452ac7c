package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aesong/academy-api/internal/dto"
	"github.com/aesong/academy-api/internal/models"
	"github.com/aesong/academy-api/internal/repository"
	appErrors "github.com/aesong/academy-api/pkg/errors"
)

type courseStoreStub struct {
	courses map[string]*models.Course
	created *models.Course
	updated *repository.UpdateCourseParams
}

func newCourseStoreStub(courses ...*models.Course) *courseStoreStub {
	stub := &courseStoreStub{courses: map[string]*models.Course{}}
	for _, c := range courses {
		stub.courses[c.Code] = c
	}
	return stub
}

func (s *courseStoreStub) Create(ctx context.Context, course *models.Course) error {
	s.created = course
	s.courses[course.Code] = course
	return nil
}

func (s *courseStoreStub) FindByCode(ctx context.Context, code string) (*models.Course, error) {
	course, ok := s.courses[code]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return course, nil
}

func (s *courseStoreStub) ExistsByCode(ctx context.Context, code string) (bool, error) {
	_, ok := s.courses[code]
	return ok, nil
}

func (s *courseStoreStub) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	out := make([]models.Course, 0, len(s.courses))
	for _, c := range s.courses {
		if filter.Status != nil && c.Status != *filter.Status {
			continue
		}
		out = append(out, *c)
	}
	return out, len(out), nil
}

func (s *courseStoreStub) Update(ctx context.Context, code string, params repository.UpdateCourseParams) error {
	s.updated = &params
	return nil
}

type subjectPlanStoreStub struct {
	plan     []models.SubjectAssignment
	replaced []models.SubjectAssignment
}

func (s *subjectPlanStoreStub) ListByCourse(ctx context.Context, courseCode string) ([]models.SubjectAssignment, error) {
	return s.plan, nil
}

func (s *subjectPlanStoreStub) ReplaceForCourse(ctx context.Context, exec sqlx.ExtContext, courseCode string, assignments []models.SubjectAssignment) error {
	s.replaced = assignments
	return nil
}

type instructorCheckerStub struct {
	known map[string]bool
}

func (s *instructorCheckerStub) ExistByCodes(ctx context.Context, codes []string) (bool, error) {
	for _, code := range codes {
		if !s.known[code] {
			return false, nil
		}
	}
	return true, nil
}

func TestCourseServiceCreate(t *testing.T) {
	store := newCourseStoreStub()
	service := NewCourseService(store, &subjectPlanStoreStub{}, nil, zap.NewNop())

	course, err := service.Create(context.Background(), dto.CreateCourseRequest{
		Code:           "WD-2026-1",
		Name:           "Web Development",
		StartDate:      "2026-03-02",
		LectureHours:   320,
		ProjectHours:   160,
		PracticeHours:  160,
		MorningHours:   4,
		AfternoonHours: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, "WD-2026-1", course.Code)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), course.StartDate)
	require.NotNil(t, store.created)
}

func TestCourseServiceCreateDuplicateCode(t *testing.T) {
	existing := testCourse()
	store := newCourseStoreStub(existing)
	service := NewCourseService(store, &subjectPlanStoreStub{}, nil, zap.NewNop())

	_, err := service.Create(context.Background(), dto.CreateCourseRequest{
		Code:           existing.Code,
		Name:           "Duplicate",
		StartDate:      "2026-03-02",
		LectureHours:   100,
		MorningHours:   4,
		AfternoonHours: 4,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestCourseServiceCreateRejectsZeroBudget(t *testing.T) {
	service := NewCourseService(newCourseStoreStub(), &subjectPlanStoreStub{}, nil, zap.NewNop())

	_, err := service.Create(context.Background(), dto.CreateCourseRequest{
		Code:           "EMPTY-1",
		Name:           "Empty",
		StartDate:      "2026-03-02",
		MorningHours:   4,
		AfternoonHours: 4,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCourseServiceGetNotFound(t *testing.T) {
	service := NewCourseService(newCourseStoreStub(), &subjectPlanStoreStub{}, nil, zap.NewNop())

	_, err := service.Get(context.Background(), "MISSING")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestCourseServiceListRejectsUnknownStatus(t *testing.T) {
	service := NewCourseService(newCourseStoreStub(), &subjectPlanStoreStub{}, nil, zap.NewNop())

	_, err := service.List(context.Background(), dto.CourseListQuery{Status: "PAUSED"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCourseServiceUpdate(t *testing.T) {
	store := newCourseStoreStub(testCourse())
	service := NewCourseService(store, &subjectPlanStoreStub{}, nil, zap.NewNop())

	name := "Web Development Evening"
	startDate := "2026-04-06"
	_, err := service.Update(context.Background(), "WD-2026-1", dto.UpdateCourseRequest{
		Name:      &name,
		StartDate: &startDate,
	})
	require.NoError(t, err)
	require.NotNil(t, store.updated)
	assert.Equal(t, name, *store.updated.Name)
	assert.Equal(t, time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC), *store.updated.StartDate)
}

func TestCourseServiceReplaceSubjectPlan(t *testing.T) {
	store := newCourseStoreStub(testCourse())
	subjects := &subjectPlanStoreStub{}
	instructors := &instructorCheckerStub{known: map[string]bool{"INS-1": true}}
	service := NewCourseService(store, subjects, instructors, zap.NewNop())

	plan, err := service.ReplaceSubjectPlan(context.Background(), "WD-2026-1", dto.ReplaceSubjectPlanRequest{
		Assignments: []dto.SubjectAssignmentRequest{
			{SubjectCode: "GO101", SubjectName: "Go Basics", DayOfWeek: 1, Hours: 64, InstructorCode: "INS-1"},
			{SubjectCode: "DB201", SubjectName: "Databases", DayOfWeek: 3, Hours: 48, InstructorCode: "INS-1"},
		},
	})
	require.NoError(t, err)
	assert.Len(t, plan, 2)
	assert.Len(t, subjects.replaced, 2)
	assert.Equal(t, "GO101", subjects.replaced[0].SubjectCode)
}

func TestCourseServiceReplaceSubjectPlanUnknownInstructor(t *testing.T) {
	store := newCourseStoreStub(testCourse())
	instructors := &instructorCheckerStub{known: map[string]bool{}}
	service := NewCourseService(store, &subjectPlanStoreStub{}, instructors, zap.NewNop())

	_, err := service.ReplaceSubjectPlan(context.Background(), "WD-2026-1", dto.ReplaceSubjectPlanRequest{
		Assignments: []dto.SubjectAssignmentRequest{
			{SubjectCode: "GO101", SubjectName: "Go Basics", DayOfWeek: 1, Hours: 64, InstructorCode: "GHOST"},
		},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
