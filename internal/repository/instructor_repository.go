package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/aesong/academy-api/internal/models"
)

// InstructorRepository handles persistence for teaching staff.
type InstructorRepository struct {
	db *sqlx.DB
}

// NewInstructorRepository creates a new repository instance.
func NewInstructorRepository(db *sqlx.DB) *InstructorRepository {
	return &InstructorRepository{db: db}
}

// ListActiveLeads returns active lead instructors ordered by code. The order
// fixes the rotation sequence for project and practice phases.
func (r *InstructorRepository) ListActiveLeads(ctx context.Context) ([]models.Instructor, error) {
	const query = `SELECT id, code, name, instructor_type, active, created_at, updated_at
FROM instructors WHERE instructor_type = $1 AND active = TRUE ORDER BY code ASC`
	var instructors []models.Instructor
	if err := r.db.SelectContext(ctx, &instructors, query, models.InstructorTypeLead); err != nil {
		return nil, fmt.Errorf("list lead instructors: %w", err)
	}
	return instructors, nil
}

// ExistByCodes reports whether every provided code matches an active
// instructor.
func (r *InstructorRepository) ExistByCodes(ctx context.Context, codes []string) (bool, error) {
	if len(codes) == 0 {
		return true, nil
	}
	query, args, err := sqlx.In(`SELECT COUNT(DISTINCT code) FROM instructors WHERE active = TRUE AND code IN (?)`, codes)
	if err != nil {
		return false, fmt.Errorf("build instructor code query: %w", err)
	}
	query = r.db.Rebind(query)

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return false, fmt.Errorf("count instructor codes: %w", err)
	}
	return count == len(uniqueStrings(codes)), nil
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
