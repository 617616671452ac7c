package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aesong/academy-api/internal/dto"
	"github.com/aesong/academy-api/internal/service"
	appErrors "github.com/aesong/academy-api/pkg/errors"
	"github.com/aesong/academy-api/pkg/response"
)

type scheduleRunner interface {
	Run(ctx context.Context, req dto.ScheduleRunRequest) (*dto.ScheduleRunResponse, error)
	GetTimetable(ctx context.Context, courseCode string, query dto.TimetableQuery) ([]dto.TimetableEntryResponse, error)
}

// ScheduleHandler exposes schedule synthesis endpoints.
type ScheduleHandler struct {
	service scheduleRunner
}

// NewScheduleHandler constructs the handler.
func NewScheduleHandler(svc *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: svc}
}

type scheduleRunPayload struct {
	GenerateTimetable bool `json:"generateTimetable"`
	DryRun            bool `json:"dryRun"`
}

// Run godoc
// @Summary Synthesize the phase schedule for a course
// @Description Computes lecture, project, and practice boundaries from the course hour budget and persists them unless dryRun is set.
// @Tags Schedules
// @Accept json
// @Produce json
// @Param code path string true "Course code"
// @Param payload body scheduleRunPayload false "Run options"
// @Success 200 {object} response.Envelope
// @Router /courses/{code}/schedule [post]
func (h *ScheduleHandler) Run(c *gin.Context) {
	var payload scheduleRunPayload
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&payload); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid schedule payload"))
			return
		}
	}

	resp, err := h.service.Run(c.Request.Context(), dto.ScheduleRunRequest{
		CourseCode:        c.Param("code"),
		GenerateTimetable: payload.GenerateTimetable,
		DryRun:            payload.DryRun,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// Timetable godoc
// @Summary List generated timetable rows for a course
// @Tags Schedules
// @Produce json
// @Param code path string true "Course code"
// @Param from query string false "Window start (YYYY-MM-DD)"
// @Param to query string false "Window end (YYYY-MM-DD)"
// @Param phase query string false "Phase filter (LECTURE, PROJECT, PRACTICE)"
// @Success 200 {object} response.Envelope
// @Router /courses/{code}/timetable [get]
func (h *ScheduleHandler) Timetable(c *gin.Context) {
	var query dto.TimetableQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid timetable query"))
		return
	}

	rows, err := h.service.GetTimetable(c.Request.Context(), c.Param("code"), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"entries": rows, "count": len(rows)}, nil)
}
