package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/aesong/academy-api/internal/models"
)

func newCourseRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestCourseRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newCourseRepoMock(t)
	defer cleanup()

	repo := NewCourseRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO courses")).
		WithArgs(sqlmock.AnyArg(), "WD-2025-01", "Welding Basics", "DRAFT", sqlmock.AnyArg(), 120, 80, 40, 4, 4, nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	course := &models.Course{
		Code:           "WD-2025-01",
		Name:           "Welding Basics",
		StartDate:      time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
		LectureHours:   120,
		ProjectHours:   80,
		PracticeHours:  40,
		MorningHours:   4,
		AfternoonHours: 4,
	}
	require.NoError(t, repo.Create(context.Background(), course))
	require.NotEmpty(t, course.ID)
	require.Equal(t, models.CourseStatusDraft, course.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryFindByCode(t *testing.T) {
	db, mock, cleanup := newCourseRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "code", "name", "status", "start_date", "lecture_hours", "project_hours", "practice_hours",
		"morning_hours", "afternoon_hours", "lecture_end_date", "project_end_date", "practice_end_date",
		"schedule_notes", "scheduled_at", "created_at", "updated_at",
	}).AddRow("course-1", "WD-2025-01", "Welding Basics", "DRAFT", now, 120, 80, 40, 4, 4, nil, nil, nil, nil, nil, now, now)
	mock.ExpectQuery("SELECT .+ FROM courses WHERE code = \\$1").
		WithArgs("WD-2025-01").
		WillReturnRows(rows)

	course, err := repo.FindByCode(context.Background(), "WD-2025-01")
	require.NoError(t, err)
	require.Equal(t, "course-1", course.ID)
	require.Equal(t, 120, course.LectureHours)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryList(t *testing.T) {
	db, mock, cleanup := newCourseRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	now := time.Now()
	status := models.CourseStatusScheduled
	rows := sqlmock.NewRows([]string{
		"id", "code", "name", "status", "start_date", "lecture_hours", "project_hours", "practice_hours",
		"morning_hours", "afternoon_hours", "lecture_end_date", "project_end_date", "practice_end_date",
		"schedule_notes", "scheduled_at", "created_at", "updated_at",
	}).AddRow("course-1", "WD-2025-01", "Welding Basics", "SCHEDULED", now, 120, 80, 40, 4, 4, now, now, now, "ledger", now, now, now)

	mock.ExpectQuery("SELECT .+ FROM courses WHERE 1=1 AND status = \\$1 ORDER BY created_at DESC LIMIT 20 OFFSET 0").
		WithArgs(status).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM courses WHERE 1=1 AND status = $1")).
		WithArgs(status).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	courses, total, err := repo.List(context.Background(), models.CourseFilter{Status: &status})
	require.NoError(t, err)
	require.Len(t, courses, 1)
	require.Equal(t, 1, total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositorySaveScheduleResult(t *testing.T) {
	db, mock, cleanup := newCourseRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	result := ScheduleResult{
		LectureEndDate:  time.Date(2025, 1, 24, 0, 0, 0, 0, time.UTC),
		ProjectEndDate:  time.Date(2025, 2, 7, 0, 0, 0, 0, time.UTC),
		PracticeEndDate: time.Date(2025, 2, 14, 0, 0, 0, 0, time.UTC),
		ScheduleNotes:   "LECTURE 2025-01-06 ~ 2025-01-24",
	}
	mock.ExpectExec(regexp.QuoteMeta("UPDATE courses")).
		WithArgs(models.CourseStatusScheduled, result.LectureEndDate, result.ProjectEndDate, result.PracticeEndDate, result.ScheduleNotes, sqlmock.AnyArg(), "WD-2025-01").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SaveScheduleResult(context.Background(), nil, "WD-2025-01", result))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryUpdateNoFields(t *testing.T) {
	db, mock, cleanup := newCourseRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	require.NoError(t, repo.Update(context.Background(), "WD-2025-01", UpdateCourseParams{}))
	require.NoError(t, mock.ExpectationsWereMet())
}
