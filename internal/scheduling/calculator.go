// Package scheduling computes recurring notification slots and drives the
// one-shot timers that fire them.
package scheduling

import (
	"fmt"
	"time"

	"github.com/fundwatch/fundwatch/internal/datastore/entities"
	"github.com/fundwatch/fundwatch/internal/errors"
)

var (
	// ErrUnsupportedRecurrence is returned for recurrence types with no
	// defined arithmetic.
	ErrUnsupportedRecurrence = errors.New("unsupported recurrence type")
	// ErrInvalidSchedule is returned for configs that can never produce a
	// fire time (malformed time-of-day, impossible day set).
	ErrInvalidSchedule = errors.New("invalid schedule configuration")
)

// monthlyScanLimit bounds the forward scan for monthly schedules. 62 days
// is enough to clear any month boundary even when every configured
// month-day is invalid for the current month.
const monthlyScanLimit = 62

// NextFireTime computes the smallest timestamp strictly after now that
// lands on the configured time-of-day and satisfies the recurrence's day
// constraint. An empty weekday or month-day set means every day.
func NextFireTime(cfg entities.ScheduleConfig, now time.Time) (time.Time, error) {
	hour, minute, err := parseTimeOfDay(cfg.TimeOfDay)
	if err != nil {
		return time.Time{}, err
	}

	switch cfg.Recurrence {
	case entities.RecurrenceDaily:
		return nextSlot(now, hour, minute, 2, func(time.Time) bool { return true }), nil
	case entities.RecurrenceWeekly:
		allowed := intSet(cfg.Weekdays)
		match := func(t time.Time) bool {
			return len(allowed) == 0 || allowed[int(t.Weekday())]
		}
		// 8 days always contains a qualifying slot for a non-empty set.
		return nextSlot(now, hour, minute, 8, match), nil
	case entities.RecurrenceMonthly:
		allowed := intSet(cfg.MonthDays)
		match := func(t time.Time) bool {
			return len(allowed) == 0 || allowed[t.Day()]
		}
		// Month-days a month doesn't have are skipped, not clamped: day 31
		// in April simply never matches and the scan moves on to May 31.
		next := nextSlot(now, hour, minute, monthlyScanLimit, match)
		if next.IsZero() {
			return time.Time{}, fmt.Errorf("%w: no valid month-day in %v", ErrInvalidSchedule, cfg.MonthDays)
		}
		return next, nil
	default:
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnsupportedRecurrence, cfg.Recurrence)
	}
}

// nextSlot scans forward day by day from now's date and returns the first
// slot at hour:minute that is strictly after now and matches. Returns the
// zero time when no day within the scan limit qualifies.
func nextSlot(now time.Time, hour, minute, scanDays int, match func(time.Time) bool) time.Time {
	for i := 0; i < scanDays; i++ {
		candidate := time.Date(now.Year(), now.Month(), now.Day()+i, hour, minute, 0, 0, now.Location())
		if candidate.After(now) && match(candidate) {
			return candidate
		}
	}
	return time.Time{}
}

func parseTimeOfDay(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: bad time of day %q", ErrInvalidSchedule, s)
	}
	return t.Hour(), t.Minute(), nil
}

func intSet(values []int) map[int]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[int]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
