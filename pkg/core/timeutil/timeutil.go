// Package timeutil holds the clock and calendar arithmetic shared by the
// rota validation rules. Clock times are plain "HH:MM" strings and dates are
// plain "2006-01-02" strings; nothing here is timezone-aware.
package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// DateLayout is the wire format for calendar dates
	DateLayout = "2006-01-02"

	minutesPerDay = 24 * 60
)

// ParseClock converts an "HH:MM" string to minutes since midnight.
// Hours must be 0-23 and minutes 0-59.
func ParseClock(clock string) (int, error) {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock time %q: expected HH:MM", clock)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", clock, err)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", clock, err)
	}

	if hours < 0 || hours > 23 {
		return 0, fmt.Errorf("invalid clock time %q: hour out of range", clock)
	}
	if minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid clock time %q: minute out of range", clock)
	}

	return hours*60 + minutes, nil
}

// ShiftHours returns the duration of a shift in fractional hours.
// An end time earlier than the start means the shift wraps past midnight,
// so a day is added before subtracting. Malformed times are an error;
// callers treat them as zero duration.
func ShiftHours(start, end string) (float64, error) {
	startMins, err := ParseClock(start)
	if err != nil {
		return 0, err
	}
	endMins, err := ParseClock(end)
	if err != nil {
		return 0, err
	}

	if endMins < startMins {
		endMins += minutesPerDay
	}

	return float64(endMins-startMins) / 60.0, nil
}

// Overlaps reports whether two clock-time ranges intersect. Both ranges are
// normalized for overnight wrap (the wrapped end extended by 24h) before the
// standard open-interval test.
func Overlaps(aStart, aEnd, bStart, bEnd string) (bool, error) {
	as, err := ParseClock(aStart)
	if err != nil {
		return false, err
	}
	ae, err := ParseClock(aEnd)
	if err != nil {
		return false, err
	}
	bs, err := ParseClock(bStart)
	if err != nil {
		return false, err
	}
	be, err := ParseClock(bEnd)
	if err != nil {
		return false, err
	}

	if ae < as {
		ae += minutesPerDay
	}
	if be < bs {
		be += minutesPerDay
	}

	return as < be && bs < ae, nil
}

// WeekStart returns the Monday of the week containing t, truncated to
// midnight. Sunday belongs to the week that started six days earlier.
func WeekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())

	offset := int(day.Weekday()) - int(time.Monday)
	if day.Weekday() == time.Sunday {
		offset = 6
	}

	return day.AddDate(0, 0, -offset)
}

// ParseDate parses a "2006-01-02" date string
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return t, nil
}

// FormatDate renders a time as a "2006-01-02" date string
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// IsWeekend reports whether t falls on a Saturday or Sunday
func IsWeekend(t time.Time) bool {
	return t.Weekday() == time.Saturday || t.Weekday() == time.Sunday
}

// PreviousWeekend returns the Saturday and Sunday of the calendar weekend
// immediately before the one containing t. t must itself be a weekend day.
func PreviousWeekend(t time.Time) (saturday, sunday time.Time) {
	sat := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	if sat.Weekday() == time.Sunday {
		sat = sat.AddDate(0, 0, -1)
	}
	return sat.AddDate(0, 0, -7), sat.AddDate(0, 0, -6)
}

// FriendlyDate renders a date for user-facing messages, e.g. "Monday 2 June 2025"
func FriendlyDate(t time.Time) string {
	return fmt.Sprintf("%s %d %s %d", t.Weekday(), t.Day(), t.Month(), t.Year())
}
