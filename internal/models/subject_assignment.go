package models

import "time"

// SubjectAssignment binds a lecture subject to a course with its weekday
// slot, hour budget and recurrence pattern.
type SubjectAssignment struct {
	ID             string    `db:"id" json:"id"`
	CourseCode     string    `db:"course_code" json:"course_code"`
	SubjectCode    string    `db:"subject_code" json:"subject_code"`
	SubjectName    string    `db:"subject_name" json:"subject_name"`
	DayOfWeek      int       `db:"day_of_week" json:"day_of_week"`
	Biweekly       bool      `db:"biweekly" json:"biweekly"`
	WeekParity     int       `db:"week_parity" json:"week_parity"`
	Hours          int       `db:"hours" json:"hours"`
	InstructorCode string    `db:"instructor_code" json:"instructor_code"`
	Position       int       `db:"position" json:"position"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}
