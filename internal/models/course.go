package models

import "time"

// CourseStatus tracks where a course sits in its planning lifecycle.
type CourseStatus string

const (
	CourseStatusDraft     CourseStatus = "DRAFT"
	CourseStatusScheduled CourseStatus = "SCHEDULED"
	CourseStatusRunning   CourseStatus = "RUNNING"
	CourseStatusFinished  CourseStatus = "FINISHED"
)

// Course represents a vocational training course with its phase hour
// budgets and daily half-day split.
type Course struct {
	ID              string       `db:"id" json:"id"`
	Code            string       `db:"code" json:"code"`
	Name            string       `db:"name" json:"name"`
	Status          CourseStatus `db:"status" json:"status"`
	StartDate       time.Time    `db:"start_date" json:"start_date"`
	LectureHours    int          `db:"lecture_hours" json:"lecture_hours"`
	ProjectHours    int          `db:"project_hours" json:"project_hours"`
	PracticeHours   int          `db:"practice_hours" json:"practice_hours"`
	MorningHours    int          `db:"morning_hours" json:"morning_hours"`
	AfternoonHours  int          `db:"afternoon_hours" json:"afternoon_hours"`
	LectureEndDate  *time.Time   `db:"lecture_end_date" json:"lecture_end_date,omitempty"`
	ProjectEndDate  *time.Time   `db:"project_end_date" json:"project_end_date,omitempty"`
	PracticeEndDate *time.Time   `db:"practice_end_date" json:"practice_end_date,omitempty"`
	ScheduleNotes   *string      `db:"schedule_notes" json:"schedule_notes,omitempty"`
	ScheduledAt     *time.Time   `db:"scheduled_at" json:"scheduled_at,omitempty"`
	CreatedAt       time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time    `db:"updated_at" json:"updated_at"`
}

// CourseFilter captures supported filters for listing courses.
type CourseFilter struct {
	Status    *CourseStatus
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
