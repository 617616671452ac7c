package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/aesong/academy-api/internal/models"
)

const timetableColumns = `id, course_code, subject_code, class_date, start_time, end_time, instructor_code, phase_type, created_at`

// TimetableRepository persists generated timetable rows.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository builds the repository.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

func (r *TimetableRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// ReplaceForCourse swaps the stored timetable of a course under an optional
// transaction. A regenerated schedule always replaces the previous one whole.
func (r *TimetableRepository) ReplaceForCourse(ctx context.Context, exec sqlx.ExtContext, courseCode string, entries []models.TimetableEntry) error {
	target := r.exec(exec)

	if _, err := target.ExecContext(ctx, `DELETE FROM timetable_entries WHERE course_code = $1`, courseCode); err != nil {
		return fmt.Errorf("clear timetable entries: %w", err)
	}

	const query = `INSERT INTO timetable_entries (id, course_code, subject_code, class_date, start_time, end_time, instructor_code, phase_type, created_at)
VALUES (:id, :course_code, :subject_code, :class_date, :start_time, :end_time, :instructor_code, :phase_type, :created_at)`

	if len(entries) == 0 {
		return nil
	}

	now := time.Now().UTC()
	for i := range entries {
		entry := &entries[i]
		if entry.ID == "" {
			entry.ID = uuid.NewString()
		}
		entry.CourseCode = courseCode
		if entry.CreatedAt.IsZero() {
			entry.CreatedAt = now
		}
	}

	// sqlx expands the named VALUES clause once per slice element, so the
	// whole set lands in a single multi-row INSERT.
	if _, err := sqlx.NamedExecContext(ctx, target, query, entries); err != nil {
		return fmt.Errorf("insert timetable entries: %w", err)
	}
	return nil
}

// ListByCourse returns stored timetable rows ordered by date and start time.
func (r *TimetableRepository) ListByCourse(ctx context.Context, filter models.TimetableFilter) ([]models.TimetableEntry, error) {
	base := fmt.Sprintf("SELECT %s FROM timetable_entries WHERE course_code = $1", timetableColumns)
	args := []interface{}{filter.CourseCode}
	var conditions []string

	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("class_date >= $%d", len(args)+1))
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("class_date <= $%d", len(args)+1))
		args = append(args, *filter.To)
	}
	if filter.Phase != "" {
		conditions = append(conditions, fmt.Sprintf("phase_type = $%d", len(args)+1))
		args = append(args, filter.Phase)
	}

	query := base
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY class_date ASC, start_time ASC"

	var entries []models.TimetableEntry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("list timetable entries: %w", err)
	}
	return entries, nil
}

// CountByCourse returns the number of stored rows for a course.
func (r *TimetableRepository) CountByCourse(ctx context.Context, courseCode string) (int, error) {
	const query = `SELECT COUNT(*) FROM timetable_entries WHERE course_code = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, courseCode); err != nil {
		return 0, fmt.Errorf("count timetable entries: %w", err)
	}
	return count, nil
}
