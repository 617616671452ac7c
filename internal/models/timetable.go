package models

import "time"

// TimetableEntry is one persisted half-day (or shorter) block of a course
// timetable.
type TimetableEntry struct {
	ID             string    `db:"id" json:"id"`
	CourseCode     string    `db:"course_code" json:"course_code"`
	SubjectCode    *string   `db:"subject_code" json:"subject_code,omitempty"`
	ClassDate      time.Time `db:"class_date" json:"class_date"`
	StartTime      string    `db:"start_time" json:"start_time"`
	EndTime        string    `db:"end_time" json:"end_time"`
	InstructorCode *string   `db:"instructor_code" json:"instructor_code,omitempty"`
	PhaseType      string    `db:"phase_type" json:"phase_type"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// TimetableFilter narrows down timetable rows for listing.
type TimetableFilter struct {
	CourseCode string
	From       *time.Time
	To         *time.Time
	Phase      string
}
