package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCalendarIsWorkingDay(t *testing.T) {
	cal := NewCalendar([]time.Time{date(2025, time.January, 1)})

	assert.True(t, cal.IsWorkingDay(date(2025, time.January, 6)), "Monday")
	assert.False(t, cal.IsWorkingDay(date(2025, time.January, 4)), "Saturday")
	assert.False(t, cal.IsWorkingDay(date(2025, time.January, 5)), "Sunday")
	assert.False(t, cal.IsWorkingDay(date(2025, time.January, 1)), "holiday")
}

func TestCalendarNormalisesTimestamps(t *testing.T) {
	holiday := time.Date(2025, time.March, 3, 15, 30, 0, 0, time.FixedZone("KST", 9*3600))
	cal := NewCalendar([]time.Time{holiday})

	assert.True(t, cal.IsHoliday(date(2025, time.March, 3)))
}

func TestCalendarEmptyHolidays(t *testing.T) {
	cal := NewCalendar(nil)
	assert.True(t, cal.IsWorkingDay(date(2025, time.January, 6)))
}

func TestCalendarCountDays(t *testing.T) {
	cal := NewCalendar([]time.Time{date(2025, time.January, 8)})

	// Mon Jan 6 .. Sun Jan 12: one holiday Wednesday, one weekend pair.
	counts := cal.CountDays(date(2025, time.January, 6), date(2025, time.January, 12))
	assert.Equal(t, 7, counts.Total)
	assert.Equal(t, 4, counts.Working)
	assert.Equal(t, 2, counts.Weekends)
	assert.Equal(t, 1, counts.Holidays)
}

func TestIsoWeekday(t *testing.T) {
	assert.Equal(t, 1, isoWeekday(date(2025, time.January, 6)))  // Monday
	assert.Equal(t, 5, isoWeekday(date(2025, time.January, 10))) // Friday
	assert.Equal(t, 7, isoWeekday(date(2025, time.January, 12))) // Sunday
}
