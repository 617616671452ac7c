package scheduling

import "time"

// Phase identifies one sequential stage of a training course.
type Phase string

const (
	PhaseLecture  Phase = "LECTURE"
	PhaseProject  Phase = "PROJECT"
	PhasePractice Phase = "PRACTICE"
)

// Half identifies the teaching block within a day.
type Half string

const (
	HalfMorning   Half = "MORNING"
	HalfAfternoon Half = "AFTERNOON"
)

// HourBudget carries the total teaching hours of the three phases. Immutable
// input to a synthesis run.
type HourBudget struct {
	LectureHours  int `json:"lecture_hours"`
	ProjectHours  int `json:"project_hours"`
	PracticeHours int `json:"practice_hours"`
}

// Total sums all three phase budgets.
func (b HourBudget) Total() int {
	return b.LectureHours + b.ProjectHours + b.PracticeHours
}

// DaySplit fixes the morning and afternoon hour capacities. It applies
// uniformly to every phase of a course.
type DaySplit struct {
	MorningHours   int `json:"morning_hours"`
	AfternoonHours int `json:"afternoon_hours"`
}

// HoursPerDay is the capacity of one full working day.
func (d DaySplit) HoursPerDay() int {
	return d.MorningHours + d.AfternoonHours
}

// HalfDaySlot is one allocated teaching block. Slots are append-only: the
// ledger never mutates a slot after recording it.
type HalfDaySlot struct {
	Date           time.Time `json:"date"`
	Half           Half      `json:"half"`
	HoursUsed      int       `json:"hours_used"`
	Phase          Phase     `json:"phase"`
	SubjectCode    string    `json:"subject_code,omitempty"`
	InstructorCode string    `json:"instructor_code,omitempty"`
}

// PhaseLedger records every half-day slot one phase consumed. The allocated
// hours sum to the phase budget exactly unless the run aborted.
type PhaseLedger struct {
	Phase     Phase         `json:"phase"`
	Budget    int           `json:"budget"`
	StartDate time.Time     `json:"start_date"`
	EndDate   time.Time     `json:"end_date"`
	Slots     []HalfDaySlot `json:"slots"`
}

// TotalHours sums the allocated hours across the ledger.
func (l PhaseLedger) TotalHours() int {
	total := 0
	for _, slot := range l.Slots {
		total += slot.HoursUsed
	}
	return total
}

func (l PhaseLedger) hoursOn(day time.Time) int {
	total := 0
	for _, slot := range l.Slots {
		if slot.Date.Equal(day) {
			total += slot.HoursUsed
		}
	}
	return total
}

// safetyMarginDays pads the naive day estimate before an allocation loop is
// declared runaway.
const safetyMarginDays = 366

func iterationCap(budget int, split DaySplit) int {
	perDay := split.HoursPerDay()
	if perDay < 1 {
		perDay = 1
	}
	return (budget+perDay-1)/perDay + safetyMarginDays
}

// phaseAllocator greedily consumes an hour budget half-day by half-day.
type phaseAllocator struct {
	cal   *Calendar
	split DaySplit
}

// allocate consumes budget hours starting at the cursor position and leaves
// the cursor where the successor phase must begin: the same date's afternoon
// when the final day stopped at or inside the morning block, otherwise the
// morning after the final day. A zero budget touches nothing, so the carry
// position is inherited unchanged.
func (a phaseAllocator) allocate(cur *halfDayCursor, phase Phase, budget int) (PhaseLedger, error) {
	ledger := PhaseLedger{Phase: phase, Budget: budget, StartDate: cur.date, EndDate: cur.date}
	if budget == 0 {
		return ledger, nil
	}

	remaining := budget
	limit := iterationCap(budget, a.split)
	for iter := 0; remaining > 0; iter++ {
		if iter >= limit {
			err := newFailure(KindCalendarExhausted, "%s phase still has %dh after %d allocation days", phase, remaining, limit)
			err.PartialSlots = ledger.Slots
			return ledger, err
		}
		if err := cur.align(); err != nil {
			if f, ok := AsFailure(err); ok {
				f.PartialSlots = ledger.Slots
			}
			return ledger, err
		}

		if cur.afternoon {
			hours := minInt(a.split.AfternoonHours, remaining)
			ledger.Slots = append(ledger.Slots, HalfDaySlot{Date: cur.date, Half: HalfAfternoon, HoursUsed: hours, Phase: phase})
			remaining -= hours
			cur.advanceDay()
			continue
		}

		morning := minInt(a.split.MorningHours, remaining)
		ledger.Slots = append(ledger.Slots, HalfDaySlot{Date: cur.date, Half: HalfMorning, HoursUsed: morning, Phase: phase})
		remaining -= morning
		if remaining > 0 {
			afternoon := minInt(a.split.AfternoonHours, remaining)
			ledger.Slots = append(ledger.Slots, HalfDaySlot{Date: cur.date, Half: HalfAfternoon, HoursUsed: afternoon, Phase: phase})
			remaining -= afternoon
		}
		cur.advanceDay()
	}

	last := ledger.Slots[len(ledger.Slots)-1]
	ledger.StartDate = ledger.Slots[0].Date
	ledger.EndDate = last.Date
	if endsWithSpareAfternoon(ledger, a.split) {
		cur.rewindToAfternoon(last.Date)
	}
	return ledger, nil
}

// endsWithSpareAfternoon is the canonical carry rule: the successor phase may
// start the same afternoon iff the final day recorded a morning block and its
// total consumed hours stayed within the morning capacity.
func endsWithSpareAfternoon(ledger PhaseLedger, split DaySplit) bool {
	if len(ledger.Slots) == 0 {
		return false
	}
	last := ledger.Slots[len(ledger.Slots)-1]
	if last.Half != HalfMorning {
		return false
	}
	return ledger.hoursOn(last.Date) <= split.MorningHours
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
