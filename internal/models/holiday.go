package models

import "time"

// Holiday represents a public holiday or an academy closure day that the
// scheduler must skip.
type Holiday struct {
	ID        string    `db:"id" json:"id"`
	Date      time.Time `db:"holiday_date" json:"date"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// HolidayFilter narrows down holidays to a date window.
type HolidayFilter struct {
	From *time.Time
	To   *time.Time
}
