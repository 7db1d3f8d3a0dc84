// internal/core/analytics/period.go
package analytics

import (
	"fmt"
	"time"
)

// Period represents a calendar-aligned reporting window
type Period string

// Period constants
const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
	PeriodAll   Period = "all"
)

// ParsePeriod validates a period tag
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case PeriodWeek, PeriodMonth, PeriodYear, PeriodAll:
		return Period(s), nil
	}
	return "", fmt.Errorf("unknown period: %q", s)
}

// ParseLocalDate parses a date-only string at local midnight. Date-only
// values must never be parsed as UTC or they shift a day in western
// timezones.
func ParseLocalDate(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, time.Local)
}

// PeriodStart returns the inclusive start boundary of the current period
// relative to ref, or nil for PeriodAll (unbounded).
//
// Weeks start on Sunday; a ref that is itself a Sunday starts the same day.
func PeriodStart(p Period, ref time.Time) *time.Time {
	midnight := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())

	var start time.Time
	switch p {
	case PeriodWeek:
		start = midnight.AddDate(0, 0, -int(midnight.Weekday()))
	case PeriodMonth:
		start = time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	case PeriodYear:
		start = time.Date(ref.Year(), time.January, 1, 0, 0, 0, 0, ref.Location())
	default:
		return nil
	}
	return &start
}

// IsWithinPeriod reports whether t falls within [PeriodStart(p, ref), ref].
// The boundary itself is included. PeriodAll is unconditionally true;
// a missing timestamp is unconditionally false.
func IsWithinPeriod(t *time.Time, p Period, ref time.Time) bool {
	if p == PeriodAll {
		return true
	}
	if t == nil {
		return false
	}
	start := PeriodStart(p, ref)
	if start == nil {
		return true
	}
	return !t.Before(*start) && !t.After(ref)
}

// PreviousPeriodRange returns the previous period's inclusive range:
// end is one millisecond before the current period start, and start rolls
// back exactly one period unit (7 days, calendar month, calendar year).
// Both bounds are nil for PeriodAll.
func PreviousPeriodRange(p Period, ref time.Time) (start, end *time.Time) {
	currentStart := PeriodStart(p, ref)
	if currentStart == nil {
		return nil, nil
	}

	e := currentStart.Add(-time.Millisecond)

	var s time.Time
	switch p {
	case PeriodWeek:
		s = currentStart.AddDate(0, 0, -7)
	case PeriodMonth:
		s = currentStart.AddDate(0, -1, 0)
	case PeriodYear:
		s = currentStart.AddDate(-1, 0, 0)
	}
	return &s, &e
}
