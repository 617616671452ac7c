package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fourFour() DaySplit {
	return DaySplit{MorningHours: 4, AfternoonHours: 4}
}

func TestSynthesizeSingleFullDay(t *testing.T) {
	result, err := Synthesize(SynthesisInput{
		StartDate: date(2025, time.January, 6), // Monday
		Budget:    HourBudget{LectureHours: 8},
		Split:     fourFour(),
	})
	require.NoError(t, err)

	assert.Equal(t, date(2025, time.January, 6), result.LectureEndDate)
	lecture := result.Ledgers[0]
	require.Len(t, lecture.Slots, 2)
	assert.Equal(t, HalfMorning, lecture.Slots[0].Half)
	assert.Equal(t, 4, lecture.Slots[0].HoursUsed)
	assert.Equal(t, HalfAfternoon, lecture.Slots[1].Half)
	assert.Equal(t, 4, lecture.Slots[1].HoursUsed)
}

func TestSynthesizeMorningOnlyCarriesAfternoon(t *testing.T) {
	result, err := Synthesize(SynthesisInput{
		StartDate: date(2025, time.January, 6),
		Budget:    HourBudget{LectureHours: 4, ProjectHours: 4},
		Split:     fourFour(),
	})
	require.NoError(t, err)

	lecture, project := result.Ledgers[0], result.Ledgers[1]
	require.Len(t, lecture.Slots, 1)
	assert.Equal(t, HalfMorning, lecture.Slots[0].Half)
	assert.Equal(t, date(2025, time.January, 6), result.LectureEndDate)

	// Project takes over the same date's afternoon block.
	require.Len(t, project.Slots, 1)
	assert.Equal(t, date(2025, time.January, 6), project.Slots[0].Date)
	assert.Equal(t, HalfAfternoon, project.Slots[0].Half)
	assert.Equal(t, date(2025, time.January, 6), result.ProjectEndDate)
}

func TestSynthesizeFullDayStartsNextPhaseNextMorning(t *testing.T) {
	result, err := Synthesize(SynthesisInput{
		StartDate: date(2025, time.January, 6),
		Budget:    HourBudget{LectureHours: 8, ProjectHours: 4},
		Split:     fourFour(),
	})
	require.NoError(t, err)

	project := result.Ledgers[1]
	require.Len(t, project.Slots, 1)
	assert.Equal(t, date(2025, time.January, 7), project.Slots[0].Date)
	assert.Equal(t, HalfMorning, project.Slots[0].Half)
}

func TestSynthesizeSkipsWeekendStart(t *testing.T) {
	result, err := Synthesize(SynthesisInput{
		StartDate: date(2025, time.January, 4), // Saturday
		Budget:    HourBudget{LectureHours: 4},
		Split:     fourFour(),
	})
	require.NoError(t, err)

	require.Len(t, result.Ledgers[0].Slots, 1)
	assert.Equal(t, date(2025, time.January, 6), result.Ledgers[0].Slots[0].Date)
	assert.Equal(t, date(2025, time.January, 6), result.LectureEndDate)
}

func TestSynthesizeHolidayOnFinalDayShiftsEnd(t *testing.T) {
	// 16h lecture would end Tuesday Jan 7; a holiday there pushes the
	// second day to Wednesday while still delivering exactly 16h.
	result, err := Synthesize(SynthesisInput{
		StartDate: date(2025, time.January, 6),
		Budget:    HourBudget{LectureHours: 16},
		Split:     fourFour(),
		Holidays:  []time.Time{date(2025, time.January, 7)},
	})
	require.NoError(t, err)

	assert.Equal(t, date(2025, time.January, 8), result.LectureEndDate)
	assert.Equal(t, 16, result.Ledgers[0].TotalHours())
}

func TestSynthesizeZeroLectureBudget(t *testing.T) {
	start := date(2025, time.January, 6)
	result, err := Synthesize(SynthesisInput{
		StartDate: start,
		Budget:    HourBudget{ProjectHours: 8},
		Split:     fourFour(),
	})
	require.NoError(t, err)

	assert.Equal(t, start, result.LectureEndDate)
	assert.Empty(t, result.Ledgers[0].Slots)

	// Project begins on the course start date at the morning block since no
	// carry was produced.
	project := result.Ledgers[1]
	require.NotEmpty(t, project.Slots)
	assert.Equal(t, start, project.Slots[0].Date)
	assert.Equal(t, HalfMorning, project.Slots[0].Half)
}

func TestSynthesizeLedgerSumsMatchBudgets(t *testing.T) {
	budgets := []HourBudget{
		{LectureHours: 120, ProjectHours: 40, PracticeHours: 80},
		{LectureHours: 3, ProjectHours: 5, PracticeHours: 7},
		{LectureHours: 1},
		{ProjectHours: 9, PracticeHours: 2},
		{LectureHours: 200, ProjectHours: 160, PracticeHours: 160},
	}
	holidays := []time.Time{
		date(2025, time.January, 28),
		date(2025, time.January, 29),
		date(2025, time.January, 30),
		date(2025, time.March, 3),
		date(2025, time.May, 5),
	}

	for _, budget := range budgets {
		result, err := Synthesize(SynthesisInput{
			StartDate: date(2025, time.January, 6),
			Budget:    budget,
			Split:     fourFour(),
			Holidays:  holidays,
		})
		require.NoError(t, err)

		assert.Equal(t, budget.LectureHours, result.Ledgers[0].TotalHours())
		assert.Equal(t, budget.ProjectHours, result.Ledgers[1].TotalHours())
		assert.Equal(t, budget.PracticeHours, result.Ledgers[2].TotalHours())
	}
}

func TestSynthesizeNeverAllocatesExcludedDates(t *testing.T) {
	holidays := []time.Time{date(2025, time.January, 9), date(2025, time.February, 12)}
	cal := NewCalendar(holidays)

	result, err := Synthesize(SynthesisInput{
		StartDate: date(2025, time.January, 6),
		Budget:    HourBudget{LectureHours: 100, ProjectHours: 60, PracticeHours: 40},
		Split:     fourFour(),
		Holidays:  holidays,
	})
	require.NoError(t, err)

	for _, ledger := range result.Ledgers {
		for _, slot := range ledger.Slots {
			assert.True(t, cal.IsWorkingDay(slot.Date), "slot on %s", slot.Date.Format("2006-01-02"))
		}
	}
}

func TestSynthesizeIsDeterministic(t *testing.T) {
	input := SynthesisInput{
		StartDate: date(2025, time.January, 6),
		Budget:    HourBudget{LectureHours: 96, ProjectHours: 32, PracticeHours: 64},
		Split:     fourFour(),
		Holidays:  []time.Time{date(2025, time.January, 28), date(2025, time.January, 29)},
	}

	first, err := Synthesize(input)
	require.NoError(t, err)
	second, err := Synthesize(input)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSynthesizeMonthlyBreakdown(t *testing.T) {
	// 120h at 8h/day = 15 working days from Mon Jan 6: Jan 6-24 (15 days).
	result, err := Synthesize(SynthesisInput{
		StartDate: date(2025, time.January, 6),
		Budget:    HourBudget{LectureHours: 120},
		Split:     fourFour(),
	})
	require.NoError(t, err)

	lecture := result.Phases[0]
	require.Len(t, lecture.Months, 1)
	assert.Equal(t, "2025-01", lecture.Months[0].Month)
	assert.Equal(t, 15, lecture.Months[0].Days)
	assert.Equal(t, 120, lecture.Months[0].Hours)
	assert.Equal(t, date(2025, time.January, 24), result.LectureEndDate)
	assert.Contains(t, result.LedgerText, "LECTURE 2025-01-06 ~ 2025-01-24")
}

func TestSynthesizeUnevenSplitCarry(t *testing.T) {
	// 3+5 split: 3h budget stops inside the morning block, so the afternoon
	// stays free for the next phase.
	result, err := Synthesize(SynthesisInput{
		StartDate: date(2025, time.January, 6),
		Budget:    HourBudget{LectureHours: 3, ProjectHours: 5},
		Split:     DaySplit{MorningHours: 3, AfternoonHours: 5},
	})
	require.NoError(t, err)

	project := result.Ledgers[1]
	require.Len(t, project.Slots, 1)
	assert.Equal(t, date(2025, time.January, 6), project.Slots[0].Date)
	assert.Equal(t, HalfAfternoon, project.Slots[0].Half)
	assert.Equal(t, 5, project.Slots[0].HoursUsed)
}

func TestSynthesizeRejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name  string
		input SynthesisInput
	}{
		{
			name:  "missing start date",
			input: SynthesisInput{Budget: HourBudget{LectureHours: 8}, Split: fourFour()},
		},
		{
			name: "negative budget",
			input: SynthesisInput{
				StartDate: date(2025, time.January, 6),
				Budget:    HourBudget{LectureHours: -1},
				Split:     fourFour(),
			},
		},
		{
			name: "zero day split",
			input: SynthesisInput{
				StartDate: date(2025, time.January, 6),
				Budget:    HourBudget{LectureHours: 8},
				Split:     DaySplit{},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Synthesize(tc.input)
			require.Error(t, err)
			assert.True(t, IsKind(err, KindInvalidInput))
		})
	}
}

func TestSynthesizeCalendarExhaustion(t *testing.T) {
	// Block every weekday for two years so the cursor can never land.
	var holidays []time.Time
	for day := date(2025, time.January, 1); day.Before(date(2027, time.January, 1)); day = day.AddDate(0, 0, 1) {
		holidays = append(holidays, day)
	}

	_, err := Synthesize(SynthesisInput{
		StartDate: date(2025, time.January, 6),
		Budget:    HourBudget{LectureHours: 8},
		Split:     fourFour(),
		Holidays:  holidays,
	})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindCalendarExhausted))
}

func TestEndsWithSpareAfternoonRule(t *testing.T) {
	split := fourFour()
	day := date(2025, time.January, 6)

	morningOnly := PhaseLedger{Slots: []HalfDaySlot{{Date: day, Half: HalfMorning, HoursUsed: 4}}}
	assert.True(t, endsWithSpareAfternoon(morningOnly, split))

	partialMorning := PhaseLedger{Slots: []HalfDaySlot{{Date: day, Half: HalfMorning, HoursUsed: 2}}}
	assert.True(t, endsWithSpareAfternoon(partialMorning, split))

	fullDay := PhaseLedger{Slots: []HalfDaySlot{
		{Date: day, Half: HalfMorning, HoursUsed: 4},
		{Date: day, Half: HalfAfternoon, HoursUsed: 4},
	}}
	assert.False(t, endsWithSpareAfternoon(fullDay, split))

	afternoonOnly := PhaseLedger{Slots: []HalfDaySlot{{Date: day, Half: HalfAfternoon, HoursUsed: 4}}}
	assert.False(t, endsWithSpareAfternoon(afternoonOnly, split))

	assert.False(t, endsWithSpareAfternoon(PhaseLedger{}, split))
}
