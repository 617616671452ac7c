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

func newTimetableRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func strPtr(s string) *string { return &s }

func TestTimetableRepositoryReplaceForCourse(t *testing.T) {
	db, mock, cleanup := newTimetableRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM timetable_entries WHERE course_code = $1")).
		WithArgs("WD-2025-01").
		WillReturnResult(sqlmock.NewResult(0, 3))

	entries := []models.TimetableEntry{
		{
			SubjectCode:    strPtr("WELD-101"),
			ClassDate:      time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
			StartTime:      "09:00",
			EndTime:        "13:00",
			InstructorCode: strPtr("T01"),
			PhaseType:      "LECTURE",
		},
		{
			SubjectCode:    strPtr("WELD-101"),
			ClassDate:      time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
			StartTime:      "14:00",
			EndTime:        "18:00",
			InstructorCode: strPtr("T01"),
			PhaseType:      "LECTURE",
		},
	}
	// Both rows land in one multi-row INSERT.
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO timetable_entries")).
		WillReturnResult(sqlmock.NewResult(1, 2))

	require.NoError(t, repo.ReplaceForCourse(context.Background(), nil, "WD-2025-01", entries))
	require.Equal(t, "WD-2025-01", entries[0].CourseCode)
	require.NotEmpty(t, entries[0].ID)
	require.NotEmpty(t, entries[1].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryReplaceForCourseEmpty(t *testing.T) {
	db, mock, cleanup := newTimetableRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM timetable_entries WHERE course_code = $1")).
		WithArgs("WD-2025-01").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.ReplaceForCourse(context.Background(), nil, "WD-2025-01", nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryListByCourse(t *testing.T) {
	db, mock, cleanup := newTimetableRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "course_code", "subject_code", "class_date", "start_time", "end_time", "instructor_code", "phase_type", "created_at"}).
		AddRow("entry-1", "WD-2025-01", "WELD-101", now, "09:00", "13:00", "T01", "LECTURE", now).
		AddRow("entry-2", "WD-2025-01", "WELD-101", now, "14:00", "18:00", "T01", "LECTURE", now)
	mock.ExpectQuery("SELECT .+ FROM timetable_entries WHERE course_code = \\$1 AND phase_type = \\$2 ORDER BY class_date ASC, start_time ASC").
		WithArgs("WD-2025-01", "LECTURE").
		WillReturnRows(rows)

	entries, err := repo.ListByCourse(context.Background(), models.TimetableFilter{CourseCode: "WD-2025-01", Phase: "LECTURE"})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "09:00", entries[0].StartTime)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryCountByCourse(t *testing.T) {
	db, mock, cleanup := newTimetableRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM timetable_entries WHERE course_code = $1")).
		WithArgs("WD-2025-01").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	count, err := repo.CountByCourse(context.Background(), "WD-2025-01")
	require.NoError(t, err)
	require.Equal(t, 42, count)
	require.NoError(t, mock.ExpectationsWereMet())
}
