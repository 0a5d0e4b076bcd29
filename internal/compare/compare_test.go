package compare

import (
	"context"
	"testing"
	"time"

	"github.com/akshathkarthikn/footfall-tracker/internal/db"
	"github.com/akshathkarthikn/footfall-tracker/internal/entry"
	"github.com/akshathkarthikn/footfall-tracker/internal/metrics"
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
	m := metrics.NewService(entries, store)
	return NewService(entries, m, store), entries
}

func mustSave(t *testing.T, entries *entry.Service, date time.Time, hour int, floorID uint64, count int) {
	t.Helper()
	if _, errSave := entries.Save(context.Background(), entry.SaveParams{
		Date: date, HourSlot: hour, FloorID: floorID, Count: count, ActorID: 1,
	}); errSave != nil {
		t.Fatalf("save: %v", errSave)
	}
}

func testDate() time.Time {
	return time.Date(2026, time.August, 24, 0, 0, 0, 0, time.UTC)
}

func TestDays_ChangeFormatting(t *testing.T) {
	svc, entries := newTestService(t)
	ctx := context.Background()
	dateA := testDate()
	dateB := dateA.AddDate(0, 0, -7)

	mustSave(t, entries, dateA, 9, 1, 20)
	mustSave(t, entries, dateB, 9, 1, 10)
	mustSave(t, entries, dateA, 10, 1, 5)

	table, err := svc.Days(ctx, dateA, dateB, nil)
	if err != nil {
		t.Fatalf("Days: %v", err)
	}

	// 13 default operating hours plus TOTAL.
	if len(table.Rows) != 14 {
		t.Fatalf("rows = %d, want 14", len(table.Rows))
	}

	nineAM := table.Rows[0]
	if nineAM.Label != "9 AM" {
		t.Fatalf("first row label = %q", nineAM.Label)
	}
	if nineAM.A != 20 || nineAM.B != 10 || nineAM.ChangePct != "+100.0%" {
		t.Fatalf("9 AM row = %+v", nineAM)
	}

	// Baseline 0 never yields a percentage.
	tenAM := table.Rows[1]
	if tenAM.A != 5 || tenAM.B != 0 || tenAM.ChangePct != ChangeNA {
		t.Fatalf("10 AM row = %+v", tenAM)
	}

	total := table.Rows[len(table.Rows)-1]
	if total.Label != "TOTAL" || total.A != 25 || total.B != 10 {
		t.Fatalf("TOTAL row = %+v", total)
	}
	if total.ChangePct != "+150.0%" {
		t.Fatalf("TOTAL change = %q", total.ChangePct)
	}
}

func TestDays_FloorFilter(t *testing.T) {
	svc, entries := newTestService(t)
	ctx := context.Background()
	dateA := testDate()
	dateB := dateA.AddDate(0, 0, -1)

	mustSave(t, entries, dateA, 9, 1, 10)
	mustSave(t, entries, dateA, 9, 2, 90)
	mustSave(t, entries, dateB, 9, 1, 10)

	table, err := svc.Days(ctx, dateA, dateB, []uint64{1})
	if err != nil {
		t.Fatalf("Days: %v", err)
	}
	total := table.Rows[len(table.Rows)-1]
	if total.A != 10 || total.B != 10 {
		t.Fatalf("filtered TOTAL = %+v", total)
	}
}

func TestWeeks_BucketsByOffset(t *testing.T) {
	svc, entries := newTestService(t)
	ctx := context.Background()
	weekA := testDate()              // Monday.
	weekB := weekA.AddDate(0, 0, -7) // Previous Monday.

	mustSave(t, entries, weekA.AddDate(0, 0, 2), 9, 1, 30) // Wednesday of week A.
	mustSave(t, entries, weekB.AddDate(0, 0, 2), 9, 1, 15) // Wednesday of week B.

	table, err := svc.Weeks(ctx, weekA, weekB, nil)
	if err != nil {
		t.Fatalf("Weeks: %v", err)
	}
	if len(table.Rows) != 8 {
		t.Fatalf("rows = %d, want 8", len(table.Rows))
	}
	wednesday := table.Rows[2]
	if wednesday.Label != "Wednesday" {
		t.Fatalf("offset 2 label = %q", wednesday.Label)
	}
	if wednesday.A != 30 || wednesday.B != 15 || wednesday.ChangePct != "+100.0%" {
		t.Fatalf("Wednesday row = %+v", wednesday)
	}
}

func TestSameWeekday_DeviationFromMean(t *testing.T) {
	svc, entries := newTestService(t)
	ctx := context.Background()
	firstMonday := time.Date(2026, time.August, 3, 0, 0, 0, 0, time.UTC)

	mustSave(t, entries, firstMonday, 9, 1, 50)
	mustSave(t, entries, firstMonday.AddDate(0, 0, 7), 9, 1, 150)

	rows, err := svc.SameWeekday(ctx, firstMonday, firstMonday.AddDate(0, 0, 7), 0, nil)
	if err != nil {
		t.Fatalf("SameWeekday: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	// Mean is 100; 50 is -50%, 150 is +50%.
	if rows[0].VsAvg != "-50.0%" || rows[1].VsAvg != "+50.0%" {
		t.Fatalf("deviations = %q, %q", rows[0].VsAvg, rows[1].VsAvg)
	}
}

func TestSameWeekday_SingleOccurrenceHasNoDeviation(t *testing.T) {
	svc, entries := newTestService(t)
	ctx := context.Background()
	monday := testDate()

	mustSave(t, entries, monday, 9, 1, 50)

	rows, err := svc.SameWeekday(ctx, monday, monday, 0, nil)
	if err != nil {
		t.Fatalf("SameWeekday: %v", err)
	}
	if len(rows) != 1 || rows[0].VsAvg != ChangeNA {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestComparisonSummary(t *testing.T) {
	svc, entries := newTestService(t)
	ctx := context.Background()
	dateA := testDate()
	dateB := dateA.AddDate(0, 0, -1)

	mustSave(t, entries, dateA, 9, 1, 30)
	mustSave(t, entries, dateA, 12, 1, 70)
	mustSave(t, entries, dateB, 10, 1, 50)

	summary, err := svc.ComparisonSummary(ctx, dateA, dateB)
	if err != nil {
		t.Fatalf("ComparisonSummary: %v", err)
	}
	if summary.TotalA != 100 || summary.TotalB != 50 || summary.Change != 50 {
		t.Fatalf("summary totals = %+v", summary)
	}
	if summary.PercentChange != 100.0 {
		t.Fatalf("pct = %v, want 100.0", summary.PercentChange)
	}
	if !summary.HasPeakA || summary.PeakHourA != 12 {
		t.Fatalf("peak A = %d (has %v)", summary.PeakHourA, summary.HasPeakA)
	}
	if !summary.HasPeakB || summary.PeakHourB != 10 {
		t.Fatalf("peak B = %d (has %v)", summary.PeakHourB, summary.HasPeakB)
	}
}

func TestComparisonSummary_ZeroBaseline(t *testing.T) {
	svc, entries := newTestService(t)
	ctx := context.Background()
	dateA := testDate()
	dateB := dateA.AddDate(0, 0, -1)

	mustSave(t, entries, dateA, 9, 1, 40)

	summary, err := svc.ComparisonSummary(ctx, dateA, dateB)
	if err != nil {
		t.Fatalf("ComparisonSummary: %v", err)
	}
	if summary.PercentChange != 0.0 {
		t.Fatalf("pct with zero baseline = %v, want 0.0", summary.PercentChange)
	}
	if summary.HasPeakB {
		t.Fatalf("empty baseline reported a peak")
	}
}

func TestDashboardAverages_ExcludesZeroDays(t *testing.T) {
	svc, entries := newTestService(t)
	ctx := context.Background()
	date := testDate()

	// Two non-zero days in the trailing week; the rest stay empty.
	mustSave(t, entries, date.AddDate(0, 0, -2), 9, 1, 30)
	mustSave(t, entries, date.AddDate(0, 0, -5), 9, 1, 50)

	averages, err := svc.DashboardAverages(ctx, date)
	if err != nil {
		t.Fatalf("DashboardAverages: %v", err)
	}
	if averages.SevenDay.Days != 2 {
		t.Fatalf("seven-day days = %d, want 2", averages.SevenDay.Days)
	}
	if averages.SevenDay.Average != 40.0 {
		t.Fatalf("seven-day average = %v, want 40.0 (zero days excluded)", averages.SevenDay.Average)
	}
	if averages.LastYearSameDate.Days != 0 || averages.LastYearSameDate.Average != 0.0 {
		t.Fatalf("last year = %+v, want empty", averages.LastYearSameDate)
	}
}
