// Package schedule holds the pure time and date primitives of the visit
// calendar: canonical date keys, minute-of-day times, time slots, calendar
// arithmetic, and the fixed operating window. Everything here works on
// local calendar fields only — the calendar is timezone-agnostic, so no
// conversion ever happens.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ToDateKey renders a date as its canonical YYYY-MM-DD key.
func ToDateKey(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// FromDateKey parses a date key back into a date (midnight, UTC calendar
// fields). Returns ok=false for keys that are not three numeric parts or do
// not name a real calendar day (e.g. 2025-02-30).
func FromDateKey(key string) (time.Time, bool) {
	parts := strings.Split(key, "-")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	y, errY := strconv.Atoi(parts[0])
	m, errM := strconv.Atoi(parts[1])
	d, errD := strconv.Atoi(parts[2])
	if errY != nil || errM != nil || errD != nil {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (Feb 30 becomes Mar 2); a changed field
	// means the key did not name a real day.
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

// StartOfDay truncates a date to midnight, keeping calendar fields.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns the Sunday on or before t, at midnight.
func StartOfWeek(t time.Time) time.Time {
	d := StartOfDay(t)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// AddDays shifts a date by a number of calendar days.
func AddDays(t time.Time, days int) time.Time {
	return t.AddDate(0, 0, days)
}

// AddMonths shifts a date by a number of calendar months.
func AddMonths(t time.Time, months int) time.Time {
	return t.AddDate(0, months, 0)
}

// AddYears shifts a date by a number of calendar years.
func AddYears(t time.Time, years int) time.Time {
	return t.AddDate(years, 0, 0)
}

// IsSelectable reports whether date is on or after today, at day
// granularity. Visits can never be created or moved into the past.
func IsSelectable(date, today time.Time) bool {
	return !StartOfDay(date).Before(StartOfDay(today))
}

// ParseTimeToMinutes converts an "HH:MM" string to minutes after midnight.
// Returns ok=false on any non-numeric component. Out-of-window values are
// not rejected here — that is the operating-window check's job.
func ParseTimeToMinutes(s string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, false
	}
	h, errH := strconv.Atoi(strings.TrimSpace(parts[0]))
	m, errM := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errH != nil || errM != nil || h < 0 || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// FormatMinutes renders minutes after midnight as zero-padded 24-hour
// "HH:MM".
func FormatMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// NormalizeTime re-renders a parseable time string in canonical "HH:MM"
// form. Returns ok=false when the input does not parse.
func NormalizeTime(s string) (string, bool) {
	minutes, ok := ParseTimeToMinutes(s)
	if !ok {
		return "", false
	}
	return FormatMinutes(minutes), true
}
