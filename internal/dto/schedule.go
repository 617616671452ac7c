package dto

import "time"

// ScheduleRunRequest triggers schedule synthesis for a course.
type ScheduleRunRequest struct {
	CourseCode        string `json:"courseCode" validate:"required"`
	GenerateTimetable bool   `json:"generateTimetable"`
	DryRun            bool   `json:"dryRun"`
}

// PhaseSummary reports the computed window of one phase.
type PhaseSummary struct {
	Phase     string         `json:"phase"`
	StartDate *time.Time     `json:"startDate,omitempty"`
	EndDate   *time.Time     `json:"endDate,omitempty"`
	Hours     int            `json:"hours"`
	Months    []MonthSummary `json:"months"`
}

// MonthSummary aggregates distinct class days and hours per month.
type MonthSummary struct {
	Month string `json:"month"`
	Days  int    `json:"days"`
	Hours int    `json:"hours"`
}

// DayCountSummary reports how the calendar window was consumed.
type DayCountSummary struct {
	Total    int `json:"total"`
	Working  int `json:"working"`
	Weekends int `json:"weekends"`
	Holidays int `json:"holidays"`
}

// ScheduleRunResponse returns the synthesized schedule boundaries.
type ScheduleRunResponse struct {
	CourseCode      string          `json:"courseCode"`
	LectureEndDate  time.Time       `json:"lectureEndDate"`
	ProjectEndDate  time.Time       `json:"projectEndDate"`
	PracticeEndDate time.Time       `json:"practiceEndDate"`
	Phases          []PhaseSummary  `json:"phases"`
	DayCounts       DayCountSummary `json:"dayCounts"`
	LedgerText      string          `json:"ledgerText"`
	TimetableRows   int             `json:"timetableRows"`
	DryRun          bool            `json:"dryRun"`
}

// TimetableEntryResponse is one row of a generated or stored timetable.
type TimetableEntryResponse struct {
	CourseCode     string    `json:"courseCode"`
	SubjectCode    *string   `json:"subjectCode,omitempty"`
	ClassDate      time.Time `json:"classDate"`
	StartTime      string    `json:"startTime"`
	EndTime        string    `json:"endTime"`
	InstructorCode *string   `json:"instructorCode,omitempty"`
	Phase          string    `json:"phase"`
}

// TimetableQuery filters stored timetable rows.
type TimetableQuery struct {
	From  string `form:"from" json:"from"`
	To    string `form:"to" json:"to"`
	Phase string `form:"phase" json:"phase"`
}
