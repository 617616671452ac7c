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

type holidayManager interface {
	Create(ctx context.Context, req dto.CreateHolidayRequest) (*models.Holiday, error)
	List(ctx context.Context, query dto.HolidayListQuery) ([]models.Holiday, error)
	Delete(ctx context.Context, id string) error
}

// HolidayHandler exposes closure calendar endpoints.
type HolidayHandler struct {
	service holidayManager
}

// NewHolidayHandler constructs the handler.
func NewHolidayHandler(svc *service.HolidayService) *HolidayHandler {
	return &HolidayHandler{service: svc}
}

// Create godoc
// @Summary Register a closure day
// @Tags Holidays
// @Accept json
// @Produce json
// @Param payload body dto.CreateHolidayRequest true "Holiday payload"
// @Success 201 {object} response.Envelope
// @Router /holidays [post]
func (h *HolidayHandler) Create(c *gin.Context) {
	var req dto.CreateHolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid holiday payload"))
		return
	}

	holiday, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, holiday, nil)
}

// List godoc
// @Summary List closure days
// @Tags Holidays
// @Produce json
// @Param from query string false "Window start (YYYY-MM-DD)"
// @Param to query string false "Window end (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /holidays [get]
func (h *HolidayHandler) List(c *gin.Context) {
	var query dto.HolidayListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid holiday query"))
		return
	}

	holidays, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.HolidayListResponse{Holidays: holidays}, nil)
}

// Delete godoc
// @Summary Remove a closure day
// @Tags Holidays
// @Produce json
// @Param id path string true "Holiday ID"
// @Success 204
// @Router /holidays/{id} [delete]
func (h *HolidayHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
