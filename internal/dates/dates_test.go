package dates

import (
	"testing"
	"time"
)

func TestWeekdayIndex_MondayIsZero(t *testing.T) {
	// 2026-08-24 is a Monday.
	monday := time.Date(2026, time.August, 24, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		got := WeekdayIndex(monday.AddDate(0, 0, i))
		if got != i {
			t.Fatalf("WeekdayIndex(+%d days) = %d, want %d", i, got, i)
		}
	}
}

func TestWeekStart(t *testing.T) {
	// 2026-08-27 is a Thursday.
	thursday := time.Date(2026, time.August, 27, 0, 0, 0, 0, time.UTC)

	gotMonday := WeekStart(thursday, 0)
	if Format(gotMonday) != "2026-08-24" {
		t.Fatalf("WeekStart(monday weeks) = %s, want 2026-08-24", Format(gotMonday))
	}

	gotSunday := WeekStart(thursday, 6)
	if Format(gotSunday) != "2026-08-23" {
		t.Fatalf("WeekStart(sunday weeks) = %s, want 2026-08-23", Format(gotSunday))
	}
}

func TestFormatHourSlot(t *testing.T) {
	cases := []struct {
		hour int
		want string
	}{
		{0, "12 AM"},
		{9, "9 AM"},
		{12, "12 PM"},
		{13, "1 PM"},
		{23, "11 PM"},
	}
	for _, tc := range cases {
		if got := FormatHourSlot(tc.hour); got != tc.want {
			t.Fatalf("FormatHourSlot(%d) = %q, want %q", tc.hour, got, tc.want)
		}
	}
}

func TestRange_Inclusive(t *testing.T) {
	start := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 6)
	days := Range(start, end)
	if len(days) != 7 {
		t.Fatalf("Range length = %d, want 7", len(days))
	}
	if Format(days[0]) != "2026-08-01" || Format(days[6]) != "2026-08-07" {
		t.Fatalf("Range bounds = %s..%s", Format(days[0]), Format(days[6]))
	}

	if got := Range(end, start); got != nil {
		t.Fatalf("reversed Range = %v, want nil", got)
	}
}

func TestSameWeekdayDates(t *testing.T) {
	start := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC)

	mondays := SameWeekdayDates(start, end, 0)
	if len(mondays) != 5 {
		t.Fatalf("mondays in Aug 2026 = %d, want 5", len(mondays))
	}
	for _, d := range mondays {
		if d.Weekday() != time.Monday {
			t.Fatalf("unexpected weekday %s for %s", d.Weekday(), Format(d))
		}
	}
}

func TestParse_RoundTrip(t *testing.T) {
	d, err := Parse("2026-02-28")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if Format(d) != "2026-02-28" {
		t.Fatalf("round trip = %s", Format(d))
	}
	if _, errBad := Parse("28/02/2026"); errBad == nil {
		t.Fatalf("expected error for wrong layout")
	}
}
