package scheduling

import "time"

// maxAlignSkips bounds the consecutive non-working days the cursor will skip
// before declaring the calendar exhausted. A year of slack beyond any sane
// holiday density.
const maxAlignSkips = 400

// halfDayCursor tracks the next position an allocation may occupy. The
// afternoon flag means the morning block of the current date is already taken
// by the previous phase and only the afternoon remains; this is the carry-over
// mechanism that lets a phase begin the same day its predecessor ended.
type halfDayCursor struct {
	cal       *Calendar
	date      time.Time
	afternoon bool
}

func newHalfDayCursor(cal *Calendar, start time.Time, inAfternoon bool) *halfDayCursor {
	return &halfDayCursor{cal: cal, date: DateOnly(start), afternoon: inAfternoon}
}

// align moves the cursor forward to the first working day at or after its
// current date. Moving off a non-working day always lands on a fresh morning:
// an afternoon carry only survives when its own date is workable.
func (c *halfDayCursor) align() error {
	for skips := 0; !c.cal.IsWorkingDay(c.date); skips++ {
		if skips >= maxAlignSkips {
			return newFailure(KindCalendarExhausted, "no working day within %d days of %s", maxAlignSkips, c.date.Format("2006-01-02"))
		}
		c.date = c.date.AddDate(0, 0, 1)
		c.afternoon = false
	}
	return nil
}

// advanceDay steps onto the next calendar day's morning.
func (c *halfDayCursor) advanceDay() {
	c.date = c.date.AddDate(0, 0, 1)
	c.afternoon = false
}

// rewindToAfternoon pins the cursor to the afternoon of the given date, used
// when a phase leaves the afternoon block free for its successor.
func (c *halfDayCursor) rewindToAfternoon(date time.Time) {
	c.date = DateOnly(date)
	c.afternoon = true
}
