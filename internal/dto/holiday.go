package dto

import "github.com/aesong/academy-api/internal/models"

// CreateHolidayRequest captures POST /holidays payload.
type CreateHolidayRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
	Name string `json:"name" validate:"required"`
}

// HolidayListQuery filters holidays to a date window.
type HolidayListQuery struct {
	From string `form:"from" json:"from"`
	To   string `form:"to" json:"to"`
}

// HolidayListResponse wraps the holiday listing.
type HolidayListResponse struct {
	Holidays []models.Holiday `json:"holidays"`
}
