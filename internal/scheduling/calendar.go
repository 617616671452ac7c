package scheduling

import "time"

// DayCounts summarises the calendar composition of a schedule span.
type DayCounts struct {
	Total    int `json:"total"`
	Working  int `json:"working"`
	Weekends int `json:"weekends"`
	Holidays int `json:"holidays"`
}

// Calendar answers working-day questions for one schedule computation.
// Weekends are derived from the date itself; holidays are an explicit set
// loaded once up front. Read-only after construction.
type Calendar struct {
	holidays map[time.Time]struct{}
}

// NewCalendar builds a calendar from a holiday date list. The list may be
// empty; times are normalised so callers can pass raw timestamps.
func NewCalendar(holidays []time.Time) *Calendar {
	set := make(map[time.Time]struct{}, len(holidays))
	for _, day := range holidays {
		set[DateOnly(day)] = struct{}{}
	}
	return &Calendar{holidays: set}
}

// DateOnly normalises a timestamp to midnight UTC so dates compare by value.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// IsWeekend reports whether the date falls on Saturday or Sunday.
func IsWeekend(day time.Time) bool {
	wd := day.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsHoliday reports whether the date is in the holiday set.
func (c *Calendar) IsHoliday(day time.Time) bool {
	_, ok := c.holidays[DateOnly(day)]
	return ok
}

// IsWorkingDay reports whether teaching can take place on the date.
func (c *Calendar) IsWorkingDay(day time.Time) bool {
	return !IsWeekend(day) && !c.IsHoliday(day)
}

// CountDays aggregates the inclusive span [from, to]. Weekend classification
// wins over holiday when a holiday lands on a weekend, matching how the
// working-day rule treats such dates.
func (c *Calendar) CountDays(from, to time.Time) DayCounts {
	var counts DayCounts
	end := DateOnly(to)
	for day := DateOnly(from); !day.After(end); day = day.AddDate(0, 0, 1) {
		counts.Total++
		switch {
		case IsWeekend(day):
			counts.Weekends++
		case c.IsHoliday(day):
			counts.Holidays++
		default:
			counts.Working++
		}
	}
	return counts
}
