package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aesong/academy-api/internal/dto"
	"github.com/aesong/academy-api/internal/models"
	"github.com/aesong/academy-api/internal/service"
	appErrors "github.com/aesong/academy-api/pkg/errors"
	"github.com/aesong/academy-api/pkg/response"
)

type courseManager interface {
	Create(ctx context.Context, req dto.CreateCourseRequest) (*models.Course, error)
	Get(ctx context.Context, code string) (*models.Course, error)
	List(ctx context.Context, query dto.CourseListQuery) (*dto.CourseListResponse, error)
	Update(ctx context.Context, code string, req dto.UpdateCourseRequest) (*models.Course, error)
	GetSubjectPlan(ctx context.Context, code string) ([]models.SubjectAssignment, error)
	ReplaceSubjectPlan(ctx context.Context, code string, req dto.ReplaceSubjectPlanRequest) ([]models.SubjectAssignment, error)
}

// CourseHandler exposes course planning endpoints.
type CourseHandler struct {
	service courseManager
}

// NewCourseHandler constructs the handler.
func NewCourseHandler(svc *service.CourseService) *CourseHandler {
	return &CourseHandler{service: svc}
}

// Create godoc
// @Summary Register a new course
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body dto.CreateCourseRequest true "Course payload"
// @Success 201 {object} response.Envelope
// @Router /courses [post]
func (h *CourseHandler) Create(c *gin.Context) {
	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid course payload"))
		return
	}

	course, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, course, nil)
}

// Get godoc
// @Summary Get a course by code
// @Tags Courses
// @Produce json
// @Param code path string true "Course code"
// @Success 200 {object} response.Envelope
// @Router /courses/{code} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	course, err := h.service.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// List godoc
// @Summary List courses
// @Tags Courses
// @Produce json
// @Param status query string false "Status filter"
// @Param search query string false "Search by code or name"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	var query dto.CourseListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid course query"))
		return
	}

	result, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result.Courses, &result.Pagination)
}

// Update godoc
// @Summary Update course planning fields
// @Tags Courses
// @Accept json
// @Produce json
// @Param code path string true "Course code"
// @Param payload body dto.UpdateCourseRequest true "Course payload"
// @Success 200 {object} response.Envelope
// @Router /courses/{code} [put]
func (h *CourseHandler) Update(c *gin.Context) {
	var req dto.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid course payload"))
		return
	}

	course, err := h.service.Update(c.Request.Context(), c.Param("code"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// SubjectPlan godoc
// @Summary Get the subject plan of a course
// @Tags Courses
// @Produce json
// @Param code path string true "Course code"
// @Success 200 {object} response.Envelope
// @Router /courses/{code}/subjects [get]
func (h *CourseHandler) SubjectPlan(c *gin.Context) {
	plan, err := h.service.GetSubjectPlan(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"assignments": plan}, nil)
}

// ReplaceSubjectPlan godoc
// @Summary Replace the full subject plan of a course
// @Tags Courses
// @Accept json
// @Produce json
// @Param code path string true "Course code"
// @Param payload body dto.ReplaceSubjectPlanRequest true "Subject plan payload"
// @Success 200 {object} response.Envelope
// @Router /courses/{code}/subjects [put]
func (h *CourseHandler) ReplaceSubjectPlan(c *gin.Context) {
	var req dto.ReplaceSubjectPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid subject plan payload"))
		return
	}

	plan, err := h.service.ReplaceSubjectPlan(c.Request.Context(), c.Param("code"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"assignments": plan}, nil)
}
