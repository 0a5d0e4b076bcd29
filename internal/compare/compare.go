// Package compare composes aggregator reads into delta reports: two dates,
// two weeks, recurring weekdays, and the dashboard period averages.
package compare

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/akshathkarthikn/footfall-tracker/internal/dates"
	"github.com/akshathkarthikn/footfall-tracker/internal/entry"
	"github.com/akshathkarthikn/footfall-tracker/internal/metrics"
	"github.com/akshathkarthikn/footfall-tracker/internal/models"
	"github.com/akshathkarthikn/footfall-tracker/internal/settings"
)

// ChangeNA is the percent-change column value when the baseline is 0.
const ChangeNA = "N/A"

// Row is one line of a side-by-side comparison table.
type Row struct {
	Label     string `json:"label"`      // Hour label, weekday, or TOTAL.
	A         int    `json:"a"`          // First series total.
	B         int    `json:"b"`          // Second series (baseline) total.
	ChangePct string `json:"change_pct"` // Signed percent change, or N/A when the baseline is 0.
}

// Table is a two-series comparison with a trailing TOTAL row.
type Table struct {
	SeriesA string `json:"series_a"` // Display label of the first series.
	SeriesB string `json:"series_b"` // Display label of the second series.
	Rows    []Row  `json:"rows"`     // Per-bucket rows, TOTAL last.
}

// Service builds comparison reports over the aggregator.
type Service struct {
	entries  *entry.Service
	metrics  *metrics.Service
	settings *settings.Store
}

// NewService constructs a comparison service.
func NewService(entries *entry.Service, m *metrics.Service, store *settings.Store) *Service {
	return &Service{entries: entries, metrics: m, settings: store}
}

// Days compares two dates hour by hour over the configured operating
// window, optionally restricted to a floor subset, with a trailing TOTAL
// row.
func (s *Service) Days(ctx context.Context, dateA, dateB time.Time, floorIDs []uint64) (Table, error) {
	slots, err := s.settings.HourSlots(ctx)
	if err != nil {
		return Table{}, err
	}
	selected, err := s.selectedFloors(ctx, floorIDs)
	if err != nil {
		return Table{}, err
	}

	entriesA, err := s.entries.ListForDate(ctx, dateA, 0)
	if err != nil {
		return Table{}, err
	}
	entriesB, err := s.entries.ListForDate(ctx, dateB, 0)
	if err != nil {
		return Table{}, err
	}

	lookupA := slotTotals(entriesA, selected)
	lookupB := slotTotals(entriesB, selected)

	table := Table{SeriesA: dates.FormatShort(dateA), SeriesB: dates.FormatShort(dateB)}
	totalA, totalB := 0, 0
	for _, hour := range slots {
		a, b := lookupA[hour], lookupB[hour]
		totalA += a
		totalB += b
		table.Rows = append(table.Rows, Row{
			Label:     dates.FormatHourSlot(hour),
			A:         a,
			B:         b,
			ChangePct: changePct(a, b),
		})
	}
	table.Rows = append(table.Rows, Row{Label: "TOTAL", A: totalA, B: totalB, ChangePct: changePct(totalA, totalB)})
	return table, nil
}

// Weeks compares two weeks bucketed by day offset from each week's start,
// so day 0 of week A lines up with day 0 of week B regardless of the
// calendar dates involved.
func (s *Service) Weeks(ctx context.Context, weekAStart, weekBStart time.Time, floorIDs []uint64) (Table, error) {
	selected, err := s.selectedFloors(ctx, floorIDs)
	if err != nil {
		return Table{}, err
	}

	entriesA, err := s.entries.ListForRange(ctx, weekAStart, weekAStart.AddDate(0, 0, 6), 0)
	if err != nil {
		return Table{}, err
	}
	entriesB, err := s.entries.ListForRange(ctx, weekBStart, weekBStart.AddDate(0, 0, 6), 0)
	if err != nil {
		return Table{}, err
	}

	dailyA := offsetTotals(entriesA, weekAStart, selected)
	dailyB := offsetTotals(entriesB, weekBStart, selected)

	table := Table{
		SeriesA: "Week of " + dates.FormatShort(weekAStart),
		SeriesB: "Week of " + dates.FormatShort(weekBStart),
	}
	totalA, totalB := 0, 0
	for offset := 0; offset < 7; offset++ {
		a, b := dailyA[offset], dailyB[offset]
		totalA += a
		totalB += b
		table.Rows = append(table.Rows, Row{
			Label:     dates.WeekdayNames[dates.WeekdayIndex(weekAStart.AddDate(0, 0, offset))],
			A:         a,
			B:         b,
			ChangePct: changePct(a, b),
		})
	}
	table.Rows = append(table.Rows, Row{Label: "TOTAL", A: totalA, B: totalB, ChangePct: changePct(totalA, totalB)})
	return table, nil
}

// WeekdayRow is one occurrence of a recurring weekday with its deviation
// from the mean of all collected occurrences.
type WeekdayRow struct {
	Date  string `json:"date"`   // Calendar date, YYYY-MM-DD.
	Total int    `json:"total"`  // Daily total over the selected floors.
	VsAvg string `json:"vs_avg"` // Signed percent deviation from the mean, or N/A.
}

// SameWeekday collects every occurrence of a weekday (0=Monday) in the
// range and reports each day's deviation from the mean of all occurrences.
// The deviation is N/A when fewer than two occurrences exist or the mean
// is 0.
func (s *Service) SameWeekday(ctx context.Context, start, end time.Time, weekday int, floorIDs []uint64) ([]WeekdayRow, error) {
	selected, err := s.selectedFloors(ctx, floorIDs)
	if err != nil {
		return nil, err
	}

	days := dates.SameWeekdayDates(start, end, weekday)
	rows := make([]WeekdayRow, 0, len(days))
	sum := 0
	for _, day := range days {
		list, errList := s.entries.ListForDate(ctx, day, 0)
		if errList != nil {
			return nil, errList
		}
		total := 0
		for _, e := range list {
			if _, ok := selected[e.FloorID]; ok {
				total += e.Count
			}
		}
		sum += total
		rows = append(rows, WeekdayRow{Date: dates.Format(day), Total: total, VsAvg: ChangeNA})
	}

	if len(rows) >= 2 {
		avg := float64(sum) / float64(len(rows))
		for i := range rows {
			if avg > 0 {
				rows[i].VsAvg = fmt.Sprintf("%+.1f%%", float64(rows[i].Total)/avg*100-100)
			}
		}
	}
	return rows, nil
}

// Summary is the headline comparison between two dates.
type Summary struct {
	DateA           string         `json:"date_a"`            // First date, YYYY-MM-DD.
	DateB           string         `json:"date_b"`            // Baseline date, YYYY-MM-DD.
	TotalA          int            `json:"total_a"`           // First date total.
	TotalB          int            `json:"total_b"`           // Baseline total.
	Change          int            `json:"change"`            // Absolute difference.
	PercentChange   float64        `json:"percent_change"`    // Percent change; 0.0 when the baseline is 0, by convention.
	PeakHourA       int            `json:"peak_hour_a"`       // First date's peak hour; meaningful only when HasPeakA.
	HasPeakA        bool           `json:"has_peak_a"`        // Whether the first date has any entries.
	PeakHourB       int            `json:"peak_hour_b"`       // Baseline peak hour; meaningful only when HasPeakB.
	HasPeakB        bool           `json:"has_peak_b"`        // Whether the baseline has any entries.
	FloorBreakdownA map[string]int `json:"floor_breakdown_a"` // First date per-floor totals.
	FloorBreakdownB map[string]int `json:"floor_breakdown_b"` // Baseline per-floor totals.
}

// ComparisonSummary builds the headline numbers for two dates.
func (s *Service) ComparisonSummary(ctx context.Context, dateA, dateB time.Time) (Summary, error) {
	totalA, err := s.metrics.DailyTotal(ctx, dateA, 0)
	if err != nil {
		return Summary{}, err
	}
	totalB, err := s.metrics.DailyTotal(ctx, dateB, 0)
	if err != nil {
		return Summary{}, err
	}
	breakdownA, err := s.metrics.FloorBreakdown(ctx, dateA)
	if err != nil {
		return Summary{}, err
	}
	breakdownB, err := s.metrics.FloorBreakdown(ctx, dateB)
	if err != nil {
		return Summary{}, err
	}
	hourlyA, err := s.metrics.HourlyTrend(ctx, dateA, 0)
	if err != nil {
		return Summary{}, err
	}
	hourlyB, err := s.metrics.HourlyTrend(ctx, dateB, 0)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{
		DateA:           dates.Format(dateA),
		DateB:           dates.Format(dateB),
		TotalA:          totalA,
		TotalB:          totalB,
		Change:          totalA - totalB,
		FloorBreakdownA: breakdownA,
		FloorBreakdownB: breakdownB,
	}
	summary.PeakHourA, _, summary.HasPeakA = metrics.PeakOf(hourlyA)
	summary.PeakHourB, _, summary.HasPeakB = metrics.PeakOf(hourlyB)
	if totalB != 0 {
		summary.PercentChange = math.Round(float64(totalA-totalB)/float64(totalB)*1000) / 10
	}
	return summary, nil
}

// PeriodAverage is one dashboard baseline.
type PeriodAverage struct {
	Average float64 `json:"average"` // Mean of non-zero daily totals in the period.
	Days    int     `json:"days"`    // Number of non-zero days contributing.
}

// PeriodAverages are the dashboard comparison baselines for one date.
type PeriodAverages struct {
	SevenDay         PeriodAverage `json:"seven_day"`           // Trailing 7 days, ending the day before.
	MonthToDate      PeriodAverage `json:"month_to_date"`       // First of the month through the day before.
	SameWeekday      PeriodAverage `json:"same_weekday"`        // Previous 8 occurrences of the date's weekday.
	LastYearSameDate PeriodAverage `json:"last_year_same_date"` // The same calendar date one year earlier.
}

// DashboardAverages computes the period baselines a date is compared
// against. Unlike RollingAverage, zero-valued days are treated as "no
// data" and excluded from every mean here; the two behaviors are
// deliberately different and materially change displayed percentages.
func (s *Service) DashboardAverages(ctx context.Context, date time.Time) (PeriodAverages, error) {
	out := PeriodAverages{}

	sevenDay, err := s.nonZeroAverage(ctx, dates.Range(date.AddDate(0, 0, -7), date.AddDate(0, 0, -1)))
	if err != nil {
		return PeriodAverages{}, err
	}
	out.SevenDay = sevenDay

	monthStart := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
	mtd, err := s.nonZeroAverage(ctx, dates.Range(monthStart, date.AddDate(0, 0, -1)))
	if err != nil {
		return PeriodAverages{}, err
	}
	out.MonthToDate = mtd

	sameWeekdays := make([]time.Time, 0, 8)
	for i := 1; i <= 8; i++ {
		sameWeekdays = append(sameWeekdays, date.AddDate(0, 0, -7*i))
	}
	sw, err := s.nonZeroAverage(ctx, sameWeekdays)
	if err != nil {
		return PeriodAverages{}, err
	}
	out.SameWeekday = sw

	lastYear, err := s.nonZeroAverage(ctx, []time.Time{date.AddDate(-1, 0, 0)})
	if err != nil {
		return PeriodAverages{}, err
	}
	out.LastYearSameDate = lastYear

	return out, nil
}

// nonZeroAverage averages daily totals over the given days, excluding days
// whose total is 0.
func (s *Service) nonZeroAverage(ctx context.Context, days []time.Time) (PeriodAverage, error) {
	sum, n := 0, 0
	for _, day := range days {
		total, err := s.metrics.DailyTotal(ctx, day, 0)
		if err != nil {
			return PeriodAverage{}, err
		}
		if total == 0 {
			continue
		}
		sum += total
		n++
	}
	if n == 0 {
		return PeriodAverage{}, nil
	}
	return PeriodAverage{Average: float64(sum) / float64(n), Days: n}, nil
}

// selectedFloors resolves a floor filter to a set of floor IDs. An empty
// filter selects every active floor.
func (s *Service) selectedFloors(ctx context.Context, floorIDs []uint64) (map[uint64]struct{}, error) {
	floors, err := s.entries.Floors(ctx, true)
	if err != nil {
		return nil, err
	}
	selected := make(map[uint64]struct{}, len(floors))
	if len(floorIDs) == 0 {
		for _, f := range floors {
			selected[f.ID] = struct{}{}
		}
		return selected, nil
	}
	wanted := make(map[uint64]struct{}, len(floorIDs))
	for _, id := range floorIDs {
		wanted[id] = struct{}{}
	}
	for _, f := range floors {
		if _, ok := wanted[f.ID]; ok {
			selected[f.ID] = struct{}{}
		}
	}
	return selected, nil
}

// slotTotals sums counts per hour slot over the selected floors.
func slotTotals(entries []models.FootfallEntry, selected map[uint64]struct{}) map[int]int {
	totals := make(map[int]int)
	for _, e := range entries {
		if _, ok := selected[e.FloorID]; !ok {
			continue
		}
		totals[e.HourSlot] += e.Count
	}
	return totals
}

// offsetTotals sums counts per day-offset from a week start over the
// selected floors.
func offsetTotals(entries []models.FootfallEntry, weekStart time.Time, selected map[uint64]struct{}) map[int]int {
	totals := make(map[int]int)
	for _, e := range entries {
		if _, ok := selected[e.FloorID]; !ok {
			continue
		}
		d, err := dates.Parse(e.Date)
		if err != nil {
			continue
		}
		offset := int(d.Sub(weekStart).Hours() / 24)
		totals[offset] += e.Count
	}
	return totals
}

// changePct formats the percent change of a against baseline b, N/A when
// the baseline is 0.
func changePct(a, b int) string {
	if b == 0 {
		return ChangeNA
	}
	return fmt.Sprintf("%+.1f%%", float64(a-b)/float64(b)*100)
}
