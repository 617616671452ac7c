package scheduling

import (
	"fmt"
	"time"
)

// TimetableEntry is one concrete teaching block with clock times. The set for
// a course is regenerated wholesale: the caller deletes the prior set and
// inserts the new one in a single transaction.
type TimetableEntry struct {
	CourseCode     string    `json:"course_code"`
	SubjectCode    string    `json:"subject_code,omitempty"`
	ClassDate      time.Time `json:"class_date"`
	StartTime      string    `json:"start_time"` // HH:MM
	EndTime        string    `json:"end_time"`
	InstructorCode string    `json:"instructor_code,omitempty"`
	Phase          Phase     `json:"phase"`
}

// TimetableInput is the immutable snapshot one generation run consumes.
type TimetableInput struct {
	CourseCode  string
	StartDate   time.Time
	Budget      HourBudget
	Split       DaySplit
	Holidays    []time.Time
	Subjects    []SubjectAssignment
	Instructors []string
}

// Morning teaching starts at 09:00, afternoon at 14:00; block length follows
// the configured half-day capacities.
const (
	morningStartHour   = 9
	afternoonStartHour = 14
)

func slotTimes(half Half, hours int) (string, string) {
	start := morningStartHour
	if half == HalfAfternoon {
		start = afternoonStartHour
	}
	return fmt.Sprintf("%02d:00", start), fmt.Sprintf("%02d:00", start+hours)
}

// GenerateTimetable walks the calendar day by day across all three phases,
// assigning subjects to lecture slots and rotating instructors through
// project and practice slots.
func GenerateTimetable(in TimetableInput) ([]TimetableEntry, error) {
	if err := validateInput(in.StartDate, in.Budget, in.Split); err != nil {
		return nil, err
	}
	if in.Budget.LectureHours > 0 && len(in.Subjects) == 0 {
		return nil, newFailure(KindUnschedulable, "lecture phase has %dh budgeted but no subject assignments", in.Budget.LectureHours)
	}

	g := &timetableGenerator{
		in:       in,
		cal:      NewCalendar(in.Holidays),
		subjects: NewSubjectAssignmentMap(in.StartDate, in.Subjects),
	}
	g.cur = newHalfDayCursor(g.cal, in.StartDate, false)

	if err := g.lecturePhase(); err != nil {
		return nil, err
	}
	if err := g.rotationPhase(PhaseProject, in.Budget.ProjectHours); err != nil {
		return nil, err
	}
	if err := g.rotationPhase(PhasePractice, in.Budget.PracticeHours); err != nil {
		return nil, err
	}
	return g.entries, nil
}

type timetableGenerator struct {
	in       TimetableInput
	cal      *Calendar
	cur      *halfDayCursor
	subjects *SubjectAssignmentMap
	entries  []TimetableEntry
	rrIndex  int
}

func (g *timetableGenerator) emit(half Half, hours int, phase Phase, subject, instructor string) {
	start, end := slotTimes(half, hours)
	g.entries = append(g.entries, TimetableEntry{
		CourseCode:     g.in.CourseCode,
		SubjectCode:    subject,
		ClassDate:      g.cur.date,
		StartTime:      start,
		EndTime:        end,
		InstructorCode: instructor,
		Phase:          phase,
	})
}

func (g *timetableGenerator) fail(kind FailureKind, format string, args ...interface{}) error {
	f := newFailure(kind, format, args...)
	f.PartialEntries = g.entries
	return f
}

// lecturePhase consumes per-subject remaining-hour counters with the same
// half-day discipline the allocator uses. The morning pick is the top ranked
// candidate; the afternoon preferentially continues the morning's subject.
func (g *timetableGenerator) lecturePhase() error {
	remaining := g.in.Budget.LectureHours
	if remaining == 0 {
		return nil
	}

	limit := iterationCap(remaining, g.in.Split)
	var lastHalf Half
	var lastDate time.Time
	for iter := 0; remaining > 0; iter++ {
		if iter >= limit {
			return g.fail(KindCalendarExhausted, "lecture phase still has %dh after %d days", remaining, limit)
		}
		if err := g.cur.align(); err != nil {
			if f, ok := AsFailure(err); ok {
				f.PartialEntries = g.entries
			}
			return err
		}

		ranked := g.subjects.candidates(g.cur.date)
		if len(ranked) == 0 {
			return g.fail(KindUnschedulable, "lecture phase has %dh budgeted but no subject has remaining hours", remaining)
		}
		pick := ranked[0]

		hours := minInt(minInt(g.in.Split.MorningHours, pick.remaining), remaining)
		g.emit(HalfMorning, hours, PhaseLecture, pick.SubjectCode, pick.InstructorCode)
		pick.remaining -= hours
		remaining -= hours
		lastHalf, lastDate = HalfMorning, g.cur.date

		if remaining > 0 {
			afternoon := pick
			if afternoon.remaining == 0 {
				// Morning subject exhausted: re-select among all subjects
				// with remaining hours regardless of weekday binding.
				widened := g.subjects.fallback()
				if len(widened) == 0 {
					return g.fail(KindUnschedulable, "lecture phase has %dh budgeted but subject hours are exhausted", remaining)
				}
				afternoon = widened[0]
			}
			hours = minInt(minInt(g.in.Split.AfternoonHours, afternoon.remaining), remaining)
			g.emit(HalfAfternoon, hours, PhaseLecture, afternoon.SubjectCode, afternoon.InstructorCode)
			afternoon.remaining -= hours
			remaining -= hours
			lastHalf = HalfAfternoon
		}
		g.cur.advanceDay()
	}

	if lastHalf == HalfMorning {
		g.cur.rewindToAfternoon(lastDate)
	}
	return nil
}

// rotationPhase fills half-days against a flat budget, cycling through the
// instructor pool one slot at a time.
func (g *timetableGenerator) rotationPhase(phase Phase, budget int) error {
	if budget == 0 {
		return nil
	}

	remaining := budget
	limit := iterationCap(budget, g.in.Split)
	var lastHalf Half
	var lastDate time.Time
	for iter := 0; remaining > 0; iter++ {
		if iter >= limit {
			return g.fail(KindCalendarExhausted, "%s phase still has %dh after %d days", phase, remaining, limit)
		}
		if err := g.cur.align(); err != nil {
			if f, ok := AsFailure(err); ok {
				f.PartialEntries = g.entries
			}
			return err
		}

		if g.cur.afternoon {
			hours := minInt(g.in.Split.AfternoonHours, remaining)
			g.emit(HalfAfternoon, hours, phase, "", g.nextInstructor())
			remaining -= hours
			lastHalf, lastDate = HalfAfternoon, g.cur.date
			g.cur.advanceDay()
			continue
		}

		hours := minInt(g.in.Split.MorningHours, remaining)
		g.emit(HalfMorning, hours, phase, "", g.nextInstructor())
		remaining -= hours
		lastHalf, lastDate = HalfMorning, g.cur.date
		if remaining > 0 {
			hours = minInt(g.in.Split.AfternoonHours, remaining)
			g.emit(HalfAfternoon, hours, phase, "", g.nextInstructor())
			remaining -= hours
			lastHalf = HalfAfternoon
		}
		g.cur.advanceDay()
	}

	if lastHalf == HalfMorning {
		g.cur.rewindToAfternoon(lastDate)
	}
	return nil
}

// nextInstructor advances the round-robin index once per half-day slot.
func (g *timetableGenerator) nextInstructor() string {
	if len(g.in.Instructors) == 0 {
		return ""
	}
	code := g.in.Instructors[g.rrIndex%len(g.in.Instructors)]
	g.rrIndex++
	return code
}
