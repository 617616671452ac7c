package dto

import "github.com/aesong/academy-api/internal/models"

// CreateCourseRequest captures POST /courses payload.
type CreateCourseRequest struct {
	Code           string `json:"code" validate:"required"`
	Name           string `json:"name" validate:"required"`
	StartDate      string `json:"startDate" validate:"required,datetime=2006-01-02"`
	LectureHours   int    `json:"lectureHours" validate:"min=0"`
	ProjectHours   int    `json:"projectHours" validate:"min=0"`
	PracticeHours  int    `json:"practiceHours" validate:"min=0"`
	MorningHours   int    `json:"morningHours" validate:"required,min=1,max=12"`
	AfternoonHours int    `json:"afternoonHours" validate:"required,min=1,max=12"`
}

// UpdateCourseRequest captures PUT /courses/:code payload. Nil fields are
// left unchanged.
type UpdateCourseRequest struct {
	Name           *string `json:"name,omitempty"`
	StartDate      *string `json:"startDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	LectureHours   *int    `json:"lectureHours,omitempty" validate:"omitempty,min=0"`
	ProjectHours   *int    `json:"projectHours,omitempty" validate:"omitempty,min=0"`
	PracticeHours  *int    `json:"practiceHours,omitempty" validate:"omitempty,min=0"`
	MorningHours   *int    `json:"morningHours,omitempty" validate:"omitempty,min=1,max=12"`
	AfternoonHours *int    `json:"afternoonHours,omitempty" validate:"omitempty,min=1,max=12"`
}

// CourseListQuery filters the course listing.
type CourseListQuery struct {
	Status   string `form:"status" json:"status"`
	Search   string `form:"search" json:"search"`
	Page     int    `form:"page" json:"page"`
	PageSize int    `form:"pageSize" json:"pageSize"`
}

// CourseListResponse wraps a page of courses.
type CourseListResponse struct {
	Courses    []models.Course   `json:"courses"`
	Pagination models.Pagination `json:"pagination"`
}

// SubjectAssignmentRequest is one binding in a replace-all subject plan.
type SubjectAssignmentRequest struct {
	SubjectCode    string `json:"subjectCode" validate:"required"`
	SubjectName    string `json:"subjectName" validate:"required"`
	DayOfWeek      int    `json:"dayOfWeek" validate:"required,min=1,max=7"`
	Biweekly       bool   `json:"biweekly"`
	WeekParity     int    `json:"weekParity" validate:"min=0,max=1"`
	Hours          int    `json:"hours" validate:"required,min=1"`
	InstructorCode string `json:"instructorCode" validate:"required"`
}

// ReplaceSubjectPlanRequest replaces the full subject plan of a course.
type ReplaceSubjectPlanRequest struct {
	Assignments []SubjectAssignmentRequest `json:"assignments" validate:"required,dive"`
}
