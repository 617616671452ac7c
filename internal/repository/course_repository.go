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

const courseColumns = `id, code, name, status, start_date, lecture_hours, project_hours, practice_hours,
morning_hours, afternoon_hours, lecture_end_date, project_end_date, practice_end_date,
schedule_notes, scheduled_at, created_at, updated_at`

// CourseRepository handles persistence for courses.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository creates a new repository instance.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

func (r *CourseRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// Create inserts a new course row with generated defaults.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	if course.Status == "" {
		course.Status = models.CourseStatusDraft
	}
	now := time.Now().UTC()
	if course.CreatedAt.IsZero() {
		course.CreatedAt = now
	}
	course.UpdatedAt = now

	const query = `INSERT INTO courses (id, code, name, status, start_date, lecture_hours, project_hours, practice_hours,
morning_hours, afternoon_hours, schedule_notes, created_at, updated_at)
VALUES (:id, :code, :name, :status, :start_date, :lecture_hours, :project_hours, :practice_hours,
:morning_hours, :afternoon_hours, :schedule_notes, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// FindByCode returns a course by its unique code.
func (r *CourseRepository) FindByCode(ctx context.Context, code string) (*models.Course, error) {
	query := fmt.Sprintf("SELECT %s FROM courses WHERE code = $1", courseColumns)
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, code); err != nil {
		return nil, err
	}
	return &course, nil
}

// ExistsByCode checks uniqueness of the course code.
func (r *CourseRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM courses WHERE LOWER(code) = LOWER($1))`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, code); err != nil {
		return false, fmt.Errorf("check course code: %w", err)
	}
	return exists, nil
}

// List returns courses matching filters with pagination metadata.
func (r *CourseRepository) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	base := "FROM courses WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(code) LIKE $%d OR LOWER(name) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"code":       true,
		"name":       true,
		"start_date": true,
		"created_at": true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "created_at"
	}

	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", courseColumns, base, sortBy, order, size, offset)
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}

	return courses, total, nil
}

// UpdateCourseParams defines the mutable planning fields.
type UpdateCourseParams struct {
	Name           *string
	StartDate      *time.Time
	LectureHours   *int
	ProjectHours   *int
	PracticeHours  *int
	MorningHours   *int
	AfternoonHours *int
}

// Update persists the provided changes for a course row.
func (r *CourseRepository) Update(ctx context.Context, code string, params UpdateCourseParams) error {
	set := make([]string, 0, 8)
	args := make([]interface{}, 0, 9)
	argPos := 1

	appendSet := func(column string, value interface{}) {
		set = append(set, fmt.Sprintf("%s = $%d", column, argPos))
		args = append(args, value)
		argPos++
	}

	if params.Name != nil {
		appendSet("name", *params.Name)
	}
	if params.StartDate != nil {
		appendSet("start_date", *params.StartDate)
	}
	if params.LectureHours != nil {
		appendSet("lecture_hours", *params.LectureHours)
	}
	if params.ProjectHours != nil {
		appendSet("project_hours", *params.ProjectHours)
	}
	if params.PracticeHours != nil {
		appendSet("practice_hours", *params.PracticeHours)
	}
	if params.MorningHours != nil {
		appendSet("morning_hours", *params.MorningHours)
	}
	if params.AfternoonHours != nil {
		appendSet("afternoon_hours", *params.AfternoonHours)
	}

	if len(set) == 0 {
		return nil
	}
	appendSet("updated_at", time.Now().UTC())

	query := fmt.Sprintf("UPDATE courses SET %s WHERE code = $%d", strings.Join(set, ", "), argPos)
	args = append(args, code)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	return nil
}

// ScheduleResult carries the synthesized boundaries persisted after a run.
type ScheduleResult struct {
	LectureEndDate  time.Time
	ProjectEndDate  time.Time
	PracticeEndDate time.Time
	ScheduleNotes   string
}

// SaveScheduleResult stores phase boundaries and the schedule ledger under an
// optional transaction.
func (r *CourseRepository) SaveScheduleResult(ctx context.Context, exec sqlx.ExtContext, code string, result ScheduleResult) error {
	target := r.exec(exec)
	const query = `UPDATE courses
SET status = $1, lecture_end_date = $2, project_end_date = $3, practice_end_date = $4,
    schedule_notes = $5, scheduled_at = $6, updated_at = $6
WHERE code = $7`
	now := time.Now().UTC()
	if _, err := target.ExecContext(ctx, query,
		models.CourseStatusScheduled,
		result.LectureEndDate,
		result.ProjectEndDate,
		result.PracticeEndDate,
		result.ScheduleNotes,
		now,
		code,
	); err != nil {
		return fmt.Errorf("save schedule result: %w", err)
	}
	return nil
}
