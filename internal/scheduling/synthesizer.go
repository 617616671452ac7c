package scheduling

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// SynthesisInput is the immutable snapshot a synthesis run consumes. Holiday
// data must be fetched up front by the caller; the engine performs no I/O.
type SynthesisInput struct {
	StartDate time.Time
	Budget    HourBudget
	Split     DaySplit
	Holidays  []time.Time
}

// MonthUsage aggregates allocated days and hours within one calendar month.
type MonthUsage struct {
	Month string `json:"month"` // YYYY-MM
	Days  int    `json:"days"`
	Hours int    `json:"hours"`
}

// PhaseBreakdown summarises one phase for reporting.
type PhaseBreakdown struct {
	Phase     Phase        `json:"phase"`
	StartDate time.Time    `json:"start_date"`
	EndDate   time.Time    `json:"end_date"`
	Days      int          `json:"days"`
	Hours     int          `json:"hours"`
	Months    []MonthUsage `json:"months"`
}

// SynthesisResult carries the phase boundaries, the three ledgers, the
// monthly aggregation, and a human-readable textual ledger suitable for
// storage as free-text notes.
type SynthesisResult struct {
	LectureEndDate  time.Time        `json:"lecture_end_date"`
	ProjectEndDate  time.Time        `json:"project_end_date"`
	PracticeEndDate time.Time        `json:"practice_end_date"`
	Ledgers         []PhaseLedger    `json:"ledgers"` // lecture, project, practice
	Phases          []PhaseBreakdown `json:"phases"`
	DayCounts       DayCounts        `json:"day_counts"`
	LedgerText      string           `json:"ledger_text"`
}

// Synthesize allocates the three phases sequentially, threading the spare
// afternoon carry between them. Identical inputs always produce identical
// results.
func Synthesize(in SynthesisInput) (*SynthesisResult, error) {
	if err := validateInput(in.StartDate, in.Budget, in.Split); err != nil {
		return nil, err
	}

	cal := NewCalendar(in.Holidays)
	alloc := phaseAllocator{cal: cal, split: in.Split}
	cur := newHalfDayCursor(cal, in.StartDate, false)

	runs := []struct {
		phase  Phase
		budget int
	}{
		{PhaseLecture, in.Budget.LectureHours},
		{PhaseProject, in.Budget.ProjectHours},
		{PhasePractice, in.Budget.PracticeHours},
	}

	result := &SynthesisResult{}
	prevEnd := DateOnly(in.StartDate)
	for _, run := range runs {
		ledger, err := alloc.allocate(cur, run.phase, run.budget)
		if err != nil {
			return nil, err
		}
		if run.budget == 0 {
			// A zero-budget phase contributes no days: its boundary collapses
			// onto the previous phase's end date.
			ledger.StartDate, ledger.EndDate = prevEnd, prevEnd
		}
		result.Ledgers = append(result.Ledgers, ledger)
		prevEnd = ledger.EndDate

		switch run.phase {
		case PhaseLecture:
			result.LectureEndDate = ledger.EndDate
		case PhaseProject:
			result.ProjectEndDate = ledger.EndDate
		case PhasePractice:
			result.PracticeEndDate = ledger.EndDate
		}
	}

	result.DayCounts = cal.CountDays(in.StartDate, result.PracticeEndDate)
	result.Phases = breakdownPhases(result.Ledgers)
	result.LedgerText = renderLedgerText(result.Phases)
	return result, nil
}

func validateInput(start time.Time, budget HourBudget, split DaySplit) error {
	if start.IsZero() {
		return newFailure(KindInvalidInput, "start date is required")
	}
	if budget.LectureHours < 0 || budget.ProjectHours < 0 || budget.PracticeHours < 0 {
		return newFailure(KindInvalidInput, "hour budgets must be non-negative")
	}
	if split.MorningHours <= 0 || split.AfternoonHours <= 0 {
		return newFailure(KindInvalidInput, "day split requires positive morning and afternoon hours")
	}
	return nil
}

func breakdownPhases(ledgers []PhaseLedger) []PhaseBreakdown {
	phases := make([]PhaseBreakdown, 0, len(ledgers))
	for _, ledger := range ledgers {
		breakdown := PhaseBreakdown{
			Phase:     ledger.Phase,
			StartDate: ledger.StartDate,
			EndDate:   ledger.EndDate,
			Hours:     ledger.TotalHours(),
		}

		hoursByMonth := map[string]int{}
		daysByMonth := map[string]map[time.Time]struct{}{}
		for _, slot := range ledger.Slots {
			month := slot.Date.Format("2006-01")
			hoursByMonth[month] += slot.HoursUsed
			if daysByMonth[month] == nil {
				daysByMonth[month] = map[time.Time]struct{}{}
			}
			daysByMonth[month][slot.Date] = struct{}{}
		}

		months := make([]string, 0, len(hoursByMonth))
		for month := range hoursByMonth {
			months = append(months, month)
		}
		sort.Strings(months)
		for _, month := range months {
			usage := MonthUsage{Month: month, Days: len(daysByMonth[month]), Hours: hoursByMonth[month]}
			breakdown.Months = append(breakdown.Months, usage)
			breakdown.Days += usage.Days
		}
		phases = append(phases, breakdown)
	}
	return phases
}

func renderLedgerText(phases []PhaseBreakdown) string {
	var sb strings.Builder
	for i, phase := range phases {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%s %s ~ %s (%d days, %dh)\n",
			phase.Phase,
			phase.StartDate.Format("2006-01-02"),
			phase.EndDate.Format("2006-01-02"),
			phase.Days,
			phase.Hours,
		)
		for _, month := range phase.Months {
			fmt.Fprintf(&sb, "  %s: %d days / %dh\n", month.Month, month.Days, month.Hours)
		}
	}
	return sb.String()
}
