package scheduling

import (
	"errors"
	"fmt"
)

// FailureKind classifies why a schedule computation aborted.
type FailureKind string

const (
	KindInvalidInput      FailureKind = "INVALID_INPUT"
	KindUnschedulable     FailureKind = "UNSCHEDULABLE_PHASE"
	KindCalendarExhausted FailureKind = "CALENDAR_EXHAUSTED"
)

// Failure aborts a synthesis or generation run. PartialSlots and
// PartialEntries hold whatever was allocated before the abort so callers can
// surface it for debugging; neither is retried automatically since a failure
// indicates a data problem, not a transient fault.
type Failure struct {
	Kind           FailureKind
	Reason         string
	PartialSlots   []HalfDaySlot
	PartialEntries []TimetableEntry
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Reason)
}

func newFailure(kind FailureKind, format string, args ...interface{}) *Failure {
	return &Failure{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

// AsFailure extracts a *Failure from an error chain.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// IsKind reports whether err is a Failure of the given kind.
func IsKind(err error, kind FailureKind) bool {
	f, ok := AsFailure(err)
	return ok && f.Kind == kind
}
