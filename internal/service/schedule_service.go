package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/aesong/academy-api/internal/dto"
	"github.com/aesong/academy-api/internal/models"
	"github.com/aesong/academy-api/internal/repository"
	"github.com/aesong/academy-api/internal/scheduling"
	appErrors "github.com/aesong/academy-api/pkg/errors"
)

type scheduleCourseStore interface {
	FindByCode(ctx context.Context, code string) (*models.Course, error)
	SaveScheduleResult(ctx context.Context, exec sqlx.ExtContext, code string, result repository.ScheduleResult) error
}

type holidayDateSource interface {
	Dates(ctx context.Context) ([]time.Time, error)
}

type subjectPlanSource interface {
	ListByCourse(ctx context.Context, courseCode string) ([]models.SubjectAssignment, error)
}

type leadInstructorSource interface {
	ListActiveLeads(ctx context.Context) ([]models.Instructor, error)
}

type timetableStore interface {
	ReplaceForCourse(ctx context.Context, exec sqlx.ExtContext, courseCode string, entries []models.TimetableEntry) error
	ListByCourse(ctx context.Context, filter models.TimetableFilter) ([]models.TimetableEntry, error)
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type scheduleRunRecorder interface {
	RecordScheduleRun(outcome string, duration time.Duration)
}

// ScheduleService runs schedule synthesis for a course and persists the
// resulting boundaries and timetable atomically.
type ScheduleService struct {
	courses     scheduleCourseStore
	holidays    holidayDateSource
	subjects    subjectPlanSource
	instructors leadInstructorSource
	timetables  timetableStore
	tx          txProvider
	metrics     scheduleRunRecorder
	logger      *zap.Logger
}

// NewScheduleService constructs the service.
func NewScheduleService(
	courses scheduleCourseStore,
	holidays holidayDateSource,
	subjects subjectPlanSource,
	instructors leadInstructorSource,
	timetables timetableStore,
	tx txProvider,
	metrics scheduleRunRecorder,
	logger *zap.Logger,
) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{
		courses:     courses,
		holidays:    holidays,
		subjects:    subjects,
		instructors: instructors,
		timetables:  timetables,
		tx:          tx,
		metrics:     metrics,
		logger:      logger,
	}
}

// Run synthesizes the phase boundaries for a course, optionally generates the
// concrete timetable, and persists both unless DryRun is set.
func (s *ScheduleService) Run(ctx context.Context, req dto.ScheduleRunRequest) (*dto.ScheduleRunResponse, error) {
	started := time.Now()
	resp, err := s.run(ctx, req)
	if s.metrics != nil {
		s.metrics.RecordScheduleRun(runOutcome(err), time.Since(started))
	}
	return resp, err
}

func (s *ScheduleService) run(ctx context.Context, req dto.ScheduleRunRequest) (*dto.ScheduleRunResponse, error) {
	course, err := s.courses.FindByCode(ctx, req.CourseCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	holidays, err := s.holidays.Dates(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load holidays")
	}

	budget := scheduling.HourBudget{
		LectureHours:  course.LectureHours,
		ProjectHours:  course.ProjectHours,
		PracticeHours: course.PracticeHours,
	}
	split := scheduling.DaySplit{
		MorningHours:   course.MorningHours,
		AfternoonHours: course.AfternoonHours,
	}

	result, err := scheduling.Synthesize(scheduling.SynthesisInput{
		StartDate: course.StartDate,
		Budget:    budget,
		Split:     split,
		Holidays:  holidays,
	})
	if err != nil {
		return nil, s.mapEngineError(err)
	}

	var entries []models.TimetableEntry
	if req.GenerateTimetable {
		entries, err = s.generateTimetable(ctx, course, budget, split, holidays)
		if err != nil {
			return nil, err
		}
	}

	if !req.DryRun {
		if err := s.persist(ctx, course.Code, result, entries, req.GenerateTimetable); err != nil {
			return nil, err
		}
	}

	resp := buildRunResponse(course.Code, result, req.DryRun)
	resp.TimetableRows = len(entries)
	return resp, nil
}

func (s *ScheduleService) generateTimetable(ctx context.Context, course *models.Course, budget scheduling.HourBudget, split scheduling.DaySplit, holidays []time.Time) ([]models.TimetableEntry, error) {
	plan, err := s.subjects.ListByCourse(ctx, course.Code)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject plan")
	}

	catalog := make([]scheduling.SubjectAssignment, 0, len(plan))
	for _, a := range plan {
		catalog = append(catalog, scheduling.SubjectAssignment{
			SubjectCode:    a.SubjectCode,
			Weekday:        a.DayOfWeek,
			Biweekly:       a.Biweekly,
			WeekParity:     a.WeekParity,
			Hours:          a.Hours,
			InstructorCode: a.InstructorCode,
		})
	}

	// The project/practice rotation draws on the instructors the course
	// catalog names; the lead roster is only queried when the plan names
	// nobody.
	rotation := rotationFromPlan(plan)
	if len(rotation) == 0 {
		leads, err := s.instructors.ListActiveLeads(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load instructors")
		}
		for _, lead := range leads {
			rotation = append(rotation, lead.Code)
		}
	}

	generated, err := scheduling.GenerateTimetable(scheduling.TimetableInput{
		CourseCode:  course.Code,
		StartDate:   course.StartDate,
		Budget:      budget,
		Split:       split,
		Holidays:    holidays,
		Subjects:    catalog,
		Instructors: rotation,
	})
	if err != nil {
		return nil, s.mapEngineError(err)
	}

	entries := make([]models.TimetableEntry, 0, len(generated))
	for _, g := range generated {
		entry := models.TimetableEntry{
			CourseCode: g.CourseCode,
			ClassDate:  g.ClassDate,
			StartTime:  g.StartTime,
			EndTime:    g.EndTime,
			PhaseType:  string(g.Phase),
		}
		if g.SubjectCode != "" {
			code := g.SubjectCode
			entry.SubjectCode = &code
		}
		if g.InstructorCode != "" {
			code := g.InstructorCode
			entry.InstructorCode = &code
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// rotationFromPlan collects the distinct instructor codes of the subject
// plan, preserving catalog order.
func rotationFromPlan(plan []models.SubjectAssignment) []string {
	seen := make(map[string]struct{}, len(plan))
	rotation := make([]string, 0, len(plan))
	for _, a := range plan {
		if a.InstructorCode == "" {
			continue
		}
		if _, ok := seen[a.InstructorCode]; ok {
			continue
		}
		seen[a.InstructorCode] = struct{}{}
		rotation = append(rotation, a.InstructorCode)
	}
	return rotation
}

func (s *ScheduleService) persist(ctx context.Context, courseCode string, result *scheduling.SynthesisResult, entries []models.TimetableEntry, replaceTimetable bool) (err error) {
	if s.tx == nil {
		return appErrors.Clone(appErrors.ErrInternal, "transaction provider missing")
	}
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.courses.SaveScheduleResult(ctx, tx, courseCode, repository.ScheduleResult{
		LectureEndDate:  result.LectureEndDate,
		ProjectEndDate:  result.ProjectEndDate,
		PracticeEndDate: result.PracticeEndDate,
		ScheduleNotes:   result.LedgerText,
	}); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save schedule result")
		return err
	}

	if replaceTimetable {
		if err = s.timetables.ReplaceForCourse(ctx, tx, courseCode, entries); err != nil {
			err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to replace timetable")
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit schedule transaction")
		return err
	}
	return nil
}

// GetTimetable lists stored timetable rows for a course.
func (s *ScheduleService) GetTimetable(ctx context.Context, courseCode string, query dto.TimetableQuery) ([]dto.TimetableEntryResponse, error) {
	filter := models.TimetableFilter{CourseCode: courseCode, Phase: query.Phase}
	if query.From != "" {
		from, err := time.Parse("2006-01-02", query.From)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid from date")
		}
		filter.From = &from
	}
	if query.To != "" {
		to, err := time.Parse("2006-01-02", query.To)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid to date")
		}
		filter.To = &to
	}

	rows, err := s.timetables.ListByCourse(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timetable")
	}

	out := make([]dto.TimetableEntryResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.TimetableEntryResponse{
			CourseCode:     row.CourseCode,
			SubjectCode:    row.SubjectCode,
			ClassDate:      row.ClassDate,
			StartTime:      row.StartTime,
			EndTime:        row.EndTime,
			InstructorCode: row.InstructorCode,
			Phase:          row.PhaseType,
		})
	}
	return out, nil
}

func (s *ScheduleService) mapEngineError(err error) error {
	failure, ok := scheduling.AsFailure(err)
	if !ok {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "schedule synthesis failed")
	}
	switch failure.Kind {
	case scheduling.KindInvalidInput:
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, failure.Reason)
	case scheduling.KindUnschedulable:
		return appErrors.Wrap(err, appErrors.ErrUnschedulable.Code, appErrors.ErrUnschedulable.Status, failure.Reason)
	case scheduling.KindCalendarExhausted:
		return appErrors.Wrap(err, appErrors.ErrCalendarExhausted.Code, appErrors.ErrCalendarExhausted.Status, failure.Reason)
	default:
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, failure.Reason)
	}
}

func runOutcome(err error) string {
	if err == nil {
		return "success"
	}
	appErr := appErrors.FromError(err)
	switch appErr.Code {
	case appErrors.ErrUnschedulable.Code:
		return "unschedulable"
	case appErrors.ErrCalendarExhausted.Code:
		return "calendar_exhausted"
	case appErrors.ErrValidation.Code:
		return "invalid_input"
	case appErrors.ErrNotFound.Code:
		return "not_found"
	default:
		return "error"
	}
}

func buildRunResponse(courseCode string, result *scheduling.SynthesisResult, dryRun bool) *dto.ScheduleRunResponse {
	phases := make([]dto.PhaseSummary, 0, len(result.Phases))
	for _, p := range result.Phases {
		months := make([]dto.MonthSummary, 0, len(p.Months))
		for _, m := range p.Months {
			months = append(months, dto.MonthSummary{Month: m.Month, Days: m.Days, Hours: m.Hours})
		}
		summary := dto.PhaseSummary{
			Phase:  string(p.Phase),
			Hours:  p.Hours,
			Months: months,
		}
		if !p.StartDate.IsZero() {
			start := p.StartDate
			end := p.EndDate
			summary.StartDate = &start
			summary.EndDate = &end
		}
		phases = append(phases, summary)
	}

	return &dto.ScheduleRunResponse{
		CourseCode:      courseCode,
		LectureEndDate:  result.LectureEndDate,
		ProjectEndDate:  result.ProjectEndDate,
		PracticeEndDate: result.PracticeEndDate,
		Phases:          phases,
		DayCounts: dto.DayCountSummary{
			Total:    result.DayCounts.Total,
			Working:  result.DayCounts.Working,
			Weekends: result.DayCounts.Weekends,
			Holidays: result.DayCounts.Holidays,
		},
		LedgerText: result.LedgerText,
		DryRun:     dryRun,
	}
}
