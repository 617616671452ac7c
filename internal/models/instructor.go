package models

import "time"

// InstructorType distinguishes lead instructors, who rotate through the
// project and field-practice phases, from guest lecturers.
type InstructorType string

const (
	InstructorTypeLead  InstructorType = "LEAD"
	InstructorTypeGuest InstructorType = "GUEST"
)

// Instructor represents a teaching staff member.
type Instructor struct {
	ID        string         `db:"id" json:"id"`
	Code      string         `db:"code" json:"code"`
	Name      string         `db:"name" json:"name"`
	Type      InstructorType `db:"instructor_type" json:"type"`
	Active    bool           `db:"active" json:"active"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}
