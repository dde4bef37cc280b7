// Package timeutil provides calendar-day and week helpers for Better-Me Core.
// All derived-state accounting (streaks, daily completion, weekly journal
// windows) is done in UTC calendar days so that results do not depend on the
// host machine's timezone.
// No external dependencies - uses only standard library.
package timeutil

import (
	"time"
)

// FormatDate is the standard calendar-day key format (YYYY-MM-DD).
const FormatDate = "2006-01-02"

// DayKey returns the UTC calendar-day key (YYYY-MM-DD) for a time.
func DayKey(t time.Time) string {
	return t.UTC().Format(FormatDate)
}

// ParseDayKey parses a calendar-day key back into a UTC midnight time.
func ParseDayKey(key string) (time.Time, error) {
	return time.ParseInLocation(FormatDate, key, time.UTC)
}

// StartOfDay returns the start of the day (00:00:00) in UTC.
func StartOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// EndOfDay returns the end of the day (23:59:59.999999999) in UTC.
func EndOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 23, 59, 59, 999999999, time.UTC)
}

// StartOfWeek returns the start of the ISO week (Monday 00:00:00) in UTC.
func StartOfWeek(t time.Time) time.Time {
	u := t.UTC()
	weekday := int(u.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday
	}
	daysToSubtract := weekday - 1 // Monday = 1
	return StartOfDay(u.AddDate(0, 0, -daysToSubtract))
}

// EndOfWeek returns the end of the ISO week (Sunday 23:59:59) in UTC.
func EndOfWeek(t time.Time) time.Time {
	start := StartOfWeek(t)
	return EndOfDay(start.AddDate(0, 0, 6))
}

// SameDay checks if two times fall on the same UTC calendar day.
func SameDay(a, b time.Time) bool {
	au, bu := a.UTC(), b.UTC()
	return au.Year() == bu.Year() && au.Month() == bu.Month() && au.Day() == bu.Day()
}

// DaysBetween returns the number of whole calendar days from a to b.
// Positive when b is after a, zero for the same day.
func DaysBetween(a, b time.Time) int {
	return int(StartOfDay(b).Sub(StartOfDay(a)).Hours() / 24)
}

// IsYesterday checks if a falls on the calendar day before b.
func IsYesterday(a, b time.Time) bool {
	return DaysBetween(a, b) == 1
}

// InWeekOf checks if t is within the ISO week containing ref.
func InWeekOf(t, ref time.Time) bool {
	start := StartOfWeek(ref)
	end := EndOfWeek(ref)
	u := t.UTC()
	return !u.Before(start) && !u.After(end)
}
