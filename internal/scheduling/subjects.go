package scheduling

import (
	"sort"
	"time"
)

// SubjectAssignment binds a subject to a weekday rotation within a course
// catalog. WeekParity selects the odd or even week instance of a biweekly
// subject, counted from the course start date.
type SubjectAssignment struct {
	SubjectCode    string `json:"subject_code"`
	Weekday        int    `json:"weekday"` // ISO weekday, 1=Monday..7=Sunday; only 1-5 are teachable
	Biweekly       bool   `json:"biweekly"`
	WeekParity     int    `json:"week_parity"` // 0 or 1
	Hours          int    `json:"hours"`
	InstructorCode string `json:"instructor_code"`
}

// subjectState pairs an assignment with its remaining-hour counter. Counters
// live for exactly one generation run and only ever decrease.
type subjectState struct {
	SubjectAssignment
	remaining int
}

// SubjectAssignmentMap indexes a course catalog by weekday and owns the
// remaining-hour counters for one timetable generation run.
type SubjectAssignmentMap struct {
	start     time.Time
	byWeekday map[int][]*subjectState
	all       []*subjectState
}

// NewSubjectAssignmentMap groups the catalog by weekday and primes every
// counter at its subject's total hours.
func NewSubjectAssignmentMap(courseStart time.Time, catalog []SubjectAssignment) *SubjectAssignmentMap {
	m := &SubjectAssignmentMap{
		start:     DateOnly(courseStart),
		byWeekday: make(map[int][]*subjectState),
	}
	for _, assignment := range catalog {
		state := &subjectState{SubjectAssignment: assignment, remaining: assignment.Hours}
		m.all = append(m.all, state)
		m.byWeekday[assignment.Weekday] = append(m.byWeekday[assignment.Weekday], state)
	}
	return m
}

// WeekParity is 0 during the first week from the course start, 1 during the
// second, alternating thereafter.
func (m *SubjectAssignmentMap) WeekParity(day time.Time) int {
	days := int(DateOnly(day).Sub(m.start).Hours() / 24)
	if days < 0 {
		return 0
	}
	return (days / 7) % 2
}

// TotalRemaining sums the unconsumed hours across every subject.
func (m *SubjectAssignmentMap) TotalRemaining() int {
	total := 0
	for _, state := range m.all {
		total += state.remaining
	}
	return total
}

// candidates returns the ranked subject list for the date: the primary tier
// holds weekday-bound subjects whose parity applies today; when that tier is
// empty the selection widens to every subject with remaining hours so the
// lecture phase always terminates at its exact budget.
func (m *SubjectAssignmentMap) candidates(day time.Time) []*subjectState {
	parity := m.WeekParity(day)
	var primary []*subjectState
	for _, state := range m.byWeekday[isoWeekday(day)] {
		if state.remaining <= 0 {
			continue
		}
		if state.Biweekly && state.WeekParity != parity {
			continue
		}
		primary = append(primary, state)
	}
	if len(primary) > 0 {
		return rankByRemaining(primary)
	}
	return m.fallback()
}

// fallback returns every subject with remaining hours regardless of weekday
// or parity binding.
func (m *SubjectAssignmentMap) fallback() []*subjectState {
	var states []*subjectState
	for _, state := range m.all {
		if state.remaining > 0 {
			states = append(states, state)
		}
	}
	return rankByRemaining(states)
}

// rankByRemaining orders largest remaining hours first, preserving catalog
// order on ties so generation stays deterministic.
func rankByRemaining(states []*subjectState) []*subjectState {
	sort.SliceStable(states, func(i, j int) bool {
		return states[i].remaining > states[j].remaining
	})
	return states
}

// isoWeekday maps time.Weekday onto 1=Monday..7=Sunday.
func isoWeekday(day time.Time) int {
	wd := int(day.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}
