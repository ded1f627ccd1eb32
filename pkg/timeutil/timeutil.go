// Package timeutil provides calendar-day utilities for ClassTrack.
// Attendance and grade records carry day-granularity dates exchanged as
// ISO "YYYY-MM-DD" strings, and reports operate on school weeks (Mon-Fri)
// and sliding date windows. No external dependencies - standard library only.
package timeutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ISOLayout is the wire format for calendar days.
const ISOLayout = "2006-01-02"

// ErrInvalidDay indicates a day string that does not parse as YYYY-MM-DD.
var ErrInvalidDay = errors.New("timeutil: invalid day, want YYYY-MM-DD")

// ══════════════════════════════════════════════════════════════════════════════
// DAY
// ══════════════════════════════════════════════════════════════════════════════

// Day represents a calendar day with no time component.
// The zero value is "no day" and reports IsZero() == true.
// Internally normalized to midnight UTC so comparisons are exact.
type Day struct {
	t time.Time
}

// NewDay creates a Day from year, month and day numbers.
func NewDay(year int, month time.Month, day int) Day {
	return Day{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDay parses an ISO "YYYY-MM-DD" string.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(ISOLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("%w: %q", ErrInvalidDay, s)
	}
	return Day{t: t}, nil
}

// MustParseDay parses an ISO day string and panics on error.
// Intended for tests and compile-time-known constants.
func MustParseDay(s string) Day {
	d, err := ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

// FromTime truncates a time.Time to its calendar day (in the time's location).
func FromTime(t time.Time) Day {
	return NewDay(t.Year(), t.Month(), t.Day())
}

// Today returns the current calendar day in local time.
func Today() Day {
	return FromTime(time.Now())
}

// String returns the ISO representation, or "" for the zero Day.
func (d Day) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(ISOLayout)
}

// Time returns the underlying midnight-UTC time.
func (d Day) Time() time.Time { return d.t }

// IsZero reports whether the Day is the zero value.
func (d Day) IsZero() bool { return d.t.IsZero() }

// Before reports whether d is strictly before other.
func (d Day) Before(other Day) bool { return d.t.Before(other.t) }

// After reports whether d is strictly after other.
func (d Day) After(other Day) bool { return d.t.After(other.t) }

// Equal reports whether d and other are the same calendar day.
func (d Day) Equal(other Day) bool { return d.t.Equal(other.t) }

// AddDays returns the day shifted by n days (n may be negative).
func (d Day) AddDays(n int) Day { return Day{t: d.t.AddDate(0, 0, n)} }

// AddMonths returns the day shifted by n months (n may be negative).
func (d Day) AddMonths(n int) Day { return Day{t: d.t.AddDate(0, n, 0)} }

// Weekday returns the day of week.
func (d Day) Weekday() time.Weekday { return d.t.Weekday() }

// MarshalJSON encodes the day as an ISO string.
func (d Day) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes an ISO string; "" and null yield the zero Day.
func (d *Day) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Day{}
		return nil
	}
	parsed, err := ParseDay(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// SCHOOL WEEK
// ══════════════════════════════════════════════════════════════════════════════

// SchoolWeekDays is the number of instructional days in a school week.
const SchoolWeekDays = 5

// StartOfWeek returns the Monday of the week containing d.
func StartOfWeek(d Day) Day {
	weekday := int(d.Weekday())
	if weekday == 0 {
		weekday = 7 // воскресенье
	}
	return d.AddDays(-(weekday - 1))
}

// SchoolWeek returns the Monday-through-Friday days of the week containing
// the anchor day.
func SchoolWeek(anchor Day) [SchoolWeekDays]Day {
	var week [SchoolWeekDays]Day
	monday := StartOfWeek(anchor)
	for i := 0; i < SchoolWeekDays; i++ {
		week[i] = monday.AddDays(i)
	}
	return week
}

// ══════════════════════════════════════════════════════════════════════════════
// WINDOW
// ══════════════════════════════════════════════════════════════════════════════

// Window is an inclusive lower bound on record days. Records dated strictly
// before From fall outside the window. The zero Window is open: it contains
// every day.
type Window struct {
	From Day
}

// OpenWindow returns a window with no lower bound.
func OpenWindow() Window { return Window{} }

// Since returns a window starting at the given day.
func Since(from Day) Window { return Window{From: from} }

// LastDays returns a window covering the n days up to the anchor.
func LastDays(anchor Day, n int) Window {
	return Window{From: anchor.AddDays(-n)}
}

// LastWeeks returns a window covering the n weeks up to the anchor.
func LastWeeks(anchor Day, n int) Window {
	return Window{From: anchor.AddDays(-7 * n)}
}

// LastMonths returns a window covering the n calendar months up to the anchor.
func LastMonths(anchor Day, n int) Window {
	return Window{From: anchor.AddMonths(-n)}
}

// IsOpen reports whether the window has no lower bound.
func (w Window) IsOpen() bool { return w.From.IsZero() }

// Contains reports whether the day falls inside the window.
// Zero days (records without a date) fall outside any bounded window.
func (w Window) Contains(d Day) bool {
	if w.IsOpen() {
		return true
	}
	if d.IsZero() {
		return false
	}
	return !d.Before(w.From)
}

// String returns a human-readable representation for logging.
func (w Window) String() string {
	if w.IsOpen() {
		return "window[open]"
	}
	return fmt.Sprintf("window[%s..]", w.From)
}
