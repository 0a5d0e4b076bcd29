// Package dates holds the calendar helpers shared by the aggregation and
// comparison services. Dates travel as time.Time values truncated to
// midnight UTC and are stored as YYYY-MM-DD text.
package dates

import (
	"fmt"
	"time"
)

// Layout is the storage format for calendar dates.
const Layout = "2006-01-02"

// WeekdayNames indexes long weekday names by weekday index (0=Monday).
var WeekdayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// WeekdayShortNames indexes short weekday names by weekday index (0=Monday).
var WeekdayShortNames = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Parse parses a YYYY-MM-DD string into a UTC date.
func Parse(s string) (time.Time, error) {
	t, err := time.ParseInLocation(Layout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("dates: parse %q: %w", s, err)
	}
	return t, nil
}

// Format renders a date as YYYY-MM-DD.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// FormatDisplay renders a date for display, e.g. "02 Jan 2006".
func FormatDisplay(t time.Time) string {
	return t.Format("02 Jan 2006")
}

// FormatShort renders a date as "02 Jan".
func FormatShort(t time.Time) string {
	return t.Format("02 Jan")
}

// FormatHourSlot renders an hour slot as a 12-hour label, e.g. "9 AM".
func FormatHourSlot(hour int) string {
	switch {
	case hour == 0:
		return "12 AM"
	case hour < 12:
		return fmt.Sprintf("%d AM", hour)
	case hour == 12:
		return "12 PM"
	default:
		return fmt.Sprintf("%d PM", hour-12)
	}
}

// WeekdayIndex returns the weekday of a date with Monday as 0.
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// WeekStart returns the start of the week containing d, given the configured
// week start day (0=Monday).
func WeekStart(d time.Time, weekStartDay int) time.Time {
	offset := (WeekdayIndex(d) - weekStartDay + 7) % 7
	return d.AddDate(0, 0, -offset)
}

// Range returns every date from start through end inclusive. Empty when end
// precedes start.
func Range(start, end time.Time) []time.Time {
	if end.Before(start) {
		return nil
	}
	days := int(end.Sub(start).Hours()/24) + 1
	out := make([]time.Time, 0, days)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

// SameWeekdayDates returns every date in [start, end] falling on the given
// weekday index (0=Monday).
func SameWeekdayDates(start, end time.Time, weekday int) []time.Time {
	var out []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if WeekdayIndex(d) == weekday {
			out = append(out, d)
		}
	}
	return out
}

// MonthKey renders the YYYY-MM bucket key for a date.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}
