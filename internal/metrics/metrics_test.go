package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/akshathkarthikn/footfall-tracker/internal/db"
	"github.com/akshathkarthikn/footfall-tracker/internal/entry"
	"github.com/akshathkarthikn/footfall-tracker/internal/settings"
)

func newTestService(t *testing.T) (*Service, *entry.Service) {
	t.Helper()
	conn, err := db.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	store := settings.NewStore(conn)
	entries := entry.NewService(conn, store)
	return NewService(entries, store), entries
}

func mustSave(t *testing.T, entries *entry.Service, date time.Time, hour int, floorID uint64, count int) {
	t.Helper()
	if _, errSave := entries.Save(context.Background(), entry.SaveParams{
		Date: date, HourSlot: hour, FloorID: floorID, Count: count, ActorID: 1,
	}); errSave != nil {
		t.Fatalf("save (%s %d floor %d): %v", date.Format("2006-01-02"), hour, floorID, errSave)
	}
}

func testDate() time.Time {
	return time.Date(2026, time.August, 24, 0, 0, 0, 0, time.UTC)
}

func TestDailyTotal(t *testing.T) {
	svc, entries := newTestService(t)
	ctx := context.Background()
	date := testDate()

	mustSave(t, entries, date, 9, 1, 10)
	mustSave(t, entries, date, 10, 1, 25)
	mustSave(t, entries, date, 9, 2, 15)

	total, err := svc.DailyTotal(ctx, date, 0)
	if err != nil {
		t.Fatalf("DailyTotal: %v", err)
	}
	if total != 50 {
		t.Fatalf("total = %d, want 50", total)
	}

	floorTotal, err := svc.DailyTotal(ctx, date, 1)
	if err != nil {
		t.Fatalf("DailyTotal floor: %v", err)
	}
	if floorTotal != 35 {
		t.Fatalf("floor 1 total = %d, want 35", floorTotal)
	}

	empty, err := svc.DailyTotal(ctx, date.AddDate(0, 0, 1), 0)
	if err != nil {
		t.Fatalf("DailyTotal empty: %v", err)
	}
	if empty != 0 {
		t.Fatalf("empty day total = %d, want 0", empty)
	}
}

func TestFloorBreakdown_AbsentFloorsOmitted(t *testing.T) {
	svc, entries := newTestService(t)
	ctx := context.Background()
	date := testDate()

	mustSave(t, entries, date, 9, 1, 20)
	mustSave(t, entries, date, 9, 2, 30)

	breakdown, err := svc.FloorBreakdown(ctx, date)
	if err != nil {
		t.Fatalf("FloorBreakdown: %v", err)
	}
	if len(breakdown) != 2 {
		t.Fatalf("breakdown size = %d, want 2", len(breakdown))
	}
	if breakdown["Basement"] != 20 || breakdown["Ground"] != 30 {
		t.Fatalf("breakdown = %v", breakdown)
	}
}

func TestPeakOf(t *testing.T) {
	if _, _, ok := PeakOf(nil); ok {
		t.Fatalf("empty trend reported a peak")
	}

	hour, count, ok := PeakOf(map[int]int{9: 10, 12: 40, 15: 40, 18: 5})
	if !ok {
		t.Fatalf("no peak found")
	}
	// Ties resolve to the earliest hour.
	if hour != 12 || count != 40 {
		t.Fatalf("peak = (%d, %d), want (12, 40)", hour, count)
	}
}

func TestFloorSharePercent_ZeroTotal(t *testing.T) {
	svc, entries := newTestService(t)
	ctx := context.Background()
	date := testDate()

	mustSave(t, entries, date, 9, 1, 0)
	mustSave(t, entries, date, 9, 2, 0)

	shares, err := svc.FloorSharePercent(ctx, date)
	if err != nil {
		t.Fatalf("FloorSharePercent: %v", err)
	}
	for floor, share := range shares {
		if share != 0.0 {
			t.Fatalf("share for %s = %v, want 0.0", floor, share)
		}
	}
}

func TestFloorSharePercent_Rounding(t *testing.T) {
	svc, entries := newTestService(t)
	ctx := context.Background()
	date := testDate()

	mustSave(t, entries, date, 9, 1, 1)
	mustSave(t, entries, date, 9, 2, 2)

	shares, err := svc.FloorSharePercent(ctx, date)
	if err != nil {
		t.Fatalf("FloorSharePercent: %v", err)
	}
	if shares["Basement"] != 33.3 || shares["Ground"] != 66.7 {
		t.Fatalf("shares = %v", shares)
	}
}

func TestRollingAverage_ZeroDaysInDenominator(t *testing.T) {
	svc, entries := newTestService(t)
	ctx := context.Background()
	end := testDate()

	// 70 visitors on one day of the week; the other six days stay empty.
	mustSave(t, entries, end.AddDate(0, 0, -3), 9, 1, 70)

	averages, err := svc.RollingAverage(ctx, end, 7)
	if err != nil {
		t.Fatalf("RollingAverage: %v", err)
	}
	if len(averages) != 7 {
		t.Fatalf("rows = %d, want 7", len(averages))
	}
	last := averages[len(averages)-1]
	if last.Average != 10.0 {
		t.Fatalf("final average = %v, want 10.0 (zero days count)", last.Average)
	}
}

func TestDeltaVsYesterday(t *testing.T) {
	svc, entries := newTestService(t)
	ctx := context.Background()
	today := testDate()
	yesterday := today.AddDate(0, 0, -1)

	mustSave(t, entries, yesterday, 9, 1, 100)
	mustSave(t, entries, yesterday, 15, 1, 50)
	mustSave(t, entries, today, 9, 1, 120)

	delta, err := svc.DeltaVsYesterday(ctx, today, 10)
	if err != nil {
		t.Fatalf("DeltaVsYesterday: %v", err)
	}
	if delta.TodayTotal != 120 || delta.YesterdayTotal != 150 {
		t.Fatalf("totals = %d / %d", delta.TodayTotal, delta.YesterdayTotal)
	}
	if delta.TotalPercentChange != -20.0 {
		t.Fatalf("total pct = %v, want -20.0", delta.TotalPercentChange)
	}
	// Cumulative through hour 10 excludes yesterday's 3 PM entry.
	if delta.TodayAtHour != 120 || delta.YesterdayAtHour != 100 {
		t.Fatalf("at-hour = %d / %d", delta.TodayAtHour, delta.YesterdayAtHour)
	}
	if delta.HourPercentChange != 20.0 {
		t.Fatalf("hour pct = %v, want 20.0", delta.HourPercentChange)
	}
}

func TestDeltaVsYesterday_ZeroBaseline(t *testing.T) {
	svc, entries := newTestService(t)
	ctx := context.Background()
	today := testDate()

	mustSave(t, entries, today, 9, 1, 40)

	delta, err := svc.DeltaVsYesterday(ctx, today, 23)
	if err != nil {
		t.Fatalf("DeltaVsYesterday: %v", err)
	}
	if delta.TotalPercentChange != 0.0 || delta.HourPercentChange != 0.0 {
		t.Fatalf("pct with zero baseline = %v / %v, want 0.0", delta.TotalPercentChange, delta.HourPercentChange)
	}
}

func TestWeekdayHourHeatmap(t *testing.T) {
	svc, entries := newTestService(t)
	ctx := context.Background()
	monday := testDate()

	mustSave(t, entries, monday, 9, 1, 30)
	mustSave(t, entries, monday.AddDate(0, 0, 7), 9, 1, 50)

	rows, err := svc.WeekdayHourHeatmap(ctx, monday, monday.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("WeekdayHourHeatmap: %v", err)
	}
	if len(rows) != 7 {
		t.Fatalf("rows = %d, want 7", len(rows))
	}
	if rows[0].Weekday != "Mon" {
		t.Fatalf("first row weekday = %s, want Mon", rows[0].Weekday)
	}
	if rows[0].Cells[0].Hour != 9 || rows[0].Cells[0].Average != 40 {
		t.Fatalf("Mon 9 AM cell = %+v, want average 40", rows[0].Cells[0])
	}
	// Tuesday has no observations.
	if rows[1].Cells[0].Average != 0 {
		t.Fatalf("empty cell average = %v, want 0", rows[1].Cells[0].Average)
	}
}

func TestMonthlyTotals(t *testing.T) {
	svc, entries := newTestService(t)
	ctx := context.Background()

	jan := time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)
	aug := testDate()
	mustSave(t, entries, jan, 9, 1, 11)
	mustSave(t, entries, aug, 9, 1, 22)

	monthly, err := svc.MonthlyTotals(ctx, 2026)
	if err != nil {
		t.Fatalf("MonthlyTotals: %v", err)
	}
	if monthly["2026-01"] != 11 || monthly["2026-08"] != 22 {
		t.Fatalf("monthly = %v", monthly)
	}
	if _, present := monthly["2026-02"]; present {
		t.Fatalf("empty month present in result")
	}
}
