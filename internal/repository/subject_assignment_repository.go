package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/aesong/academy-api/internal/models"
)

const subjectAssignmentColumns = `id, course_code, subject_code, subject_name, day_of_week, biweekly,
week_parity, hours, instructor_code, position, created_at, updated_at`

// SubjectAssignmentRepository manages the subject plan of a course.
type SubjectAssignmentRepository struct {
	db *sqlx.DB
}

// NewSubjectAssignmentRepository builds the repository.
func NewSubjectAssignmentRepository(db *sqlx.DB) *SubjectAssignmentRepository {
	return &SubjectAssignmentRepository{db: db}
}

func (r *SubjectAssignmentRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// ListByCourse returns the subject plan ordered by position.
func (r *SubjectAssignmentRepository) ListByCourse(ctx context.Context, courseCode string) ([]models.SubjectAssignment, error) {
	query := fmt.Sprintf("SELECT %s FROM subject_assignments WHERE course_code = $1 ORDER BY position ASC", subjectAssignmentColumns)
	var assignments []models.SubjectAssignment
	if err := r.db.SelectContext(ctx, &assignments, query, courseCode); err != nil {
		return nil, fmt.Errorf("list subject assignments: %w", err)
	}
	return assignments, nil
}

// ReplaceForCourse swaps the full subject plan of a course under an optional
// transaction.
func (r *SubjectAssignmentRepository) ReplaceForCourse(ctx context.Context, exec sqlx.ExtContext, courseCode string, assignments []models.SubjectAssignment) error {
	target := r.exec(exec)

	if _, err := target.ExecContext(ctx, `DELETE FROM subject_assignments WHERE course_code = $1`, courseCode); err != nil {
		return fmt.Errorf("clear subject assignments: %w", err)
	}

	const query = `INSERT INTO subject_assignments (id, course_code, subject_code, subject_name, day_of_week, biweekly,
week_parity, hours, instructor_code, position, created_at, updated_at)
VALUES (:id, :course_code, :subject_code, :subject_name, :day_of_week, :biweekly,
:week_parity, :hours, :instructor_code, :position, :created_at, :updated_at)`

	now := time.Now().UTC()
	for i := range assignments {
		assignment := &assignments[i]
		if assignment.ID == "" {
			assignment.ID = uuid.NewString()
		}
		assignment.CourseCode = courseCode
		assignment.Position = i
		if assignment.CreatedAt.IsZero() {
			assignment.CreatedAt = now
		}
		assignment.UpdatedAt = now
		if _, err := sqlx.NamedExecContext(ctx, target, query, assignment); err != nil {
			return fmt.Errorf("insert subject assignment: %w", err)
		}
	}
	return nil
}
