// Package metrics computes aggregations over the entry store. Every
// function is a pure computation over rows fetched fresh per call; nothing
// is memoized, so results always reflect the store's current snapshot.
package metrics

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/akshathkarthikn/footfall-tracker/internal/dates"
	"github.com/akshathkarthikn/footfall-tracker/internal/entry"
	"github.com/akshathkarthikn/footfall-tracker/internal/settings"
)

// Service computes aggregations over the entry store.
type Service struct {
	entries  *entry.Service
	settings *settings.Store
}

// NewService constructs a metrics service.
func NewService(entries *entry.Service, store *settings.Store) *Service {
	return &Service{entries: entries, settings: store}
}

// DailyTotal returns the summed count for a date. floorID 0 means all
// floors.
func (s *Service) DailyTotal(ctx context.Context, date time.Time, floorID uint64) (int, error) {
	rows, err := s.entries.ListForDate(ctx, date, floorID)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, row := range rows {
		total += row.Count
	}
	return total, nil
}

// FloorBreakdown returns floor-name -> summed count for a date. Floors with
// no entries are absent, not zero-valued.
func (s *Service) FloorBreakdown(ctx context.Context, date time.Time) (map[string]int, error) {
	rows, err := s.entries.ListForDate(ctx, date, 0)
	if err != nil {
		return nil, err
	}
	names, err := s.floorNames(ctx)
	if err != nil {
		return nil, err
	}
	breakdown := make(map[string]int)
	for _, row := range rows {
		breakdown[names(row.FloorID)] += row.Count
	}
	return breakdown, nil
}

// HourlyTrend returns hour-slot -> summed count for a date. floorID 0 means
// all floors.
func (s *Service) HourlyTrend(ctx context.Context, date time.Time, floorID uint64) (map[int]int, error) {
	rows, err := s.entries.ListForDate(ctx, date, floorID)
	if err != nil {
		return nil, err
	}
	hourly := make(map[int]int)
	for _, row := range rows {
		hourly[row.HourSlot] += row.Count
	}
	return hourly, nil
}

// PeakHour returns the hour with the highest summed count for a date.
// ok=false when the date has no entries; no default hour is assumed. Ties
// resolve to the earliest hour.
func (s *Service) PeakHour(ctx context.Context, date time.Time) (hour, count int, ok bool, err error) {
	hourly, err := s.HourlyTrend(ctx, date, 0)
	if err != nil {
		return 0, 0, false, err
	}
	hour, count, ok = PeakOf(hourly)
	return hour, count, ok, nil
}

// PeakOf picks the peak hour out of an hourly trend. ok=false when the
// trend is empty.
func PeakOf(hourly map[int]int) (hour, count int, ok bool) {
	if len(hourly) == 0 {
		return 0, 0, false
	}
	hour = -1
	for h, c := range hourly {
		if hour == -1 || c > count || (c == count && h < hour) {
			hour, count = h, c
		}
	}
	return hour, count, true
}

// FloorSharePercent returns each floor's percentage of the day's total,
// rounded to one decimal. When the total is 0 every present floor's share
// is 0.0.
func (s *Service) FloorSharePercent(ctx context.Context, date time.Time) (map[string]float64, error) {
	breakdown, err := s.FloorBreakdown(ctx, date)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, count := range breakdown {
		total += count
	}
	shares := make(map[string]float64, len(breakdown))
	for floor, count := range breakdown {
		if total == 0 {
			shares[floor] = 0.0
			continue
		}
		shares[floor] = round1(float64(count) / float64(total) * 100)
	}
	return shares, nil
}

// DayAverage is one day's trailing-window average.
type DayAverage struct {
	Date    string  `json:"date"`    // Calendar date, YYYY-MM-DD.
	Average float64 `json:"average"` // Mean daily total over the trailing window.
}

// RollingAverage returns, for each day of the windowDays-long period ending
// at end, the mean of daily totals over the trailing windowDays-sized
// sub-window ending at that day (clipped at the period start). Days with no
// entries contribute 0 to the mean rather than being excluded.
func (s *Service) RollingAverage(ctx context.Context, end time.Time, windowDays int) ([]DayAverage, error) {
	if windowDays <= 0 {
		return nil, nil
	}
	start := end.AddDate(0, 0, -(windowDays - 1))
	rows, err := s.entries.ListForRange(ctx, start, end, 0)
	if err != nil {
		return nil, err
	}

	dailyTotals := make(map[string]int)
	for _, row := range rows {
		dailyTotals[row.Date] += row.Count
	}

	out := make([]DayAverage, 0, windowDays)
	for i := 0; i < windowDays; i++ {
		day := start.AddDate(0, 0, i)
		windowStart := day.AddDate(0, 0, -(windowDays - 1))
		sum, n := 0, 0
		for j := 0; j < windowDays; j++ {
			d := windowStart.AddDate(0, 0, j)
			if d.After(day) {
				break
			}
			sum += dailyTotals[dates.Format(d)]
			n++
		}
		avg := 0.0
		if n > 0 {
			avg = float64(sum) / float64(n)
		}
		out = append(out, DayAverage{Date: dates.Format(day), Average: avg})
	}
	return out, nil
}

// HeatmapCell is the average count for one (weekday, hour) slot.
type HeatmapCell struct {
	Hour    int     `json:"hour"`    // Hour slot.
	Average float64 `json:"average"` // Mean of matching observations; 0 when none.
}

// HeatmapRow is one weekday of the weekday-by-hour heatmap.
type HeatmapRow struct {
	Weekday string        `json:"weekday"` // Short weekday name, Monday first.
	Cells   []HeatmapCell `json:"cells"`   // One cell per configured hour slot.
}

// WeekdayHourHeatmap averages counts per (weekday, hour slot) across the
// range. Cells with no observations are 0.
func (s *Service) WeekdayHourHeatmap(ctx context.Context, start, end time.Time) ([]HeatmapRow, error) {
	rows, err := s.entries.ListForRange(ctx, start, end, 0)
	if err != nil {
		return nil, err
	}
	slots, err := s.settings.HourSlots(ctx)
	if err != nil {
		return nil, err
	}

	type cellKey struct {
		weekday int
		hour    int
	}
	sums := make(map[cellKey]int)
	counts := make(map[cellKey]int)
	for _, row := range rows {
		d, errParse := dates.Parse(row.Date)
		if errParse != nil {
			continue
		}
		key := cellKey{weekday: dates.WeekdayIndex(d), hour: row.HourSlot}
		sums[key] += row.Count
		counts[key]++
	}

	out := make([]HeatmapRow, 0, 7)
	for weekday := 0; weekday < 7; weekday++ {
		row := HeatmapRow{Weekday: dates.WeekdayShortNames[weekday], Cells: make([]HeatmapCell, 0, len(slots))}
		for _, hour := range slots {
			key := cellKey{weekday: weekday, hour: hour}
			avg := 0.0
			if n := counts[key]; n > 0 {
				avg = math.Round(float64(sums[key]) / float64(n))
			}
			row.Cells = append(row.Cells, HeatmapCell{Hour: hour, Average: avg})
		}
		out = append(out, row)
	}
	return out, nil
}

// MonthlyTotals returns summed counts grouped by calendar month for a year,
// keyed YYYY-MM. Months with no entries are absent.
func (s *Service) MonthlyTotals(ctx context.Context, year int) (map[string]int, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	rows, err := s.entries.ListForRange(ctx, start, end, 0)
	if err != nil {
		return nil, err
	}
	monthly := make(map[string]int)
	for _, row := range rows {
		d, errParse := dates.Parse(row.Date)
		if errParse != nil {
			continue
		}
		monthly[dates.MonthKey(d)] += row.Count
	}
	return monthly, nil
}

// Delta compares a date against the previous day.
type Delta struct {
	TodayTotal         int     `json:"today_total"`          // Total for the date.
	YesterdayTotal     int     `json:"yesterday_total"`      // Total for the previous day.
	TotalChange        int     `json:"total_change"`         // Absolute difference.
	TotalPercentChange float64 `json:"total_percent_change"` // Percent change; 0.0 when the baseline is 0.
	TodayAtHour        int     `json:"today_at_hour"`        // Cumulative total up to the reference hour.
	YesterdayAtHour    int     `json:"yesterday_at_hour"`    // Same cumulative total for the previous day.
	HourChange         int     `json:"hour_change"`          // Cumulative difference.
	HourPercentChange  float64 `json:"hour_percent_change"`  // Cumulative percent change; 0.0 when the baseline is 0.
}

// DeltaVsYesterday compares a date's totals to the previous day, including
// a like-for-like cumulative comparison up to the given hour.
func (s *Service) DeltaVsYesterday(ctx context.Context, date time.Time, currentHour int) (Delta, error) {
	yesterday := date.AddDate(0, 0, -1)

	todayTotal, err := s.DailyTotal(ctx, date, 0)
	if err != nil {
		return Delta{}, err
	}
	yesterdayTotal, err := s.DailyTotal(ctx, yesterday, 0)
	if err != nil {
		return Delta{}, err
	}
	todayHourly, err := s.HourlyTrend(ctx, date, 0)
	if err != nil {
		return Delta{}, err
	}
	yesterdayHourly, err := s.HourlyTrend(ctx, yesterday, 0)
	if err != nil {
		return Delta{}, err
	}

	todayAtHour, yesterdayAtHour := 0, 0
	for hour, count := range todayHourly {
		if hour <= currentHour {
			todayAtHour += count
		}
	}
	for hour, count := range yesterdayHourly {
		if hour <= currentHour {
			yesterdayAtHour += count
		}
	}

	delta := Delta{
		TodayTotal:      todayTotal,
		YesterdayTotal:  yesterdayTotal,
		TotalChange:     todayTotal - yesterdayTotal,
		TodayAtHour:     todayAtHour,
		YesterdayAtHour: yesterdayAtHour,
		HourChange:      todayAtHour - yesterdayAtHour,
	}
	if yesterdayTotal != 0 {
		delta.TotalPercentChange = round1(float64(todayTotal-yesterdayTotal) / float64(yesterdayTotal) * 100)
	}
	if yesterdayAtHour != 0 {
		delta.HourPercentChange = round1(float64(todayAtHour-yesterdayAtHour) / float64(yesterdayAtHour) * 100)
	}
	return delta, nil
}

// FloorTrendRow is one day of per-floor totals.
type FloorTrendRow struct {
	Date   string         `json:"date"`   // Calendar date, YYYY-MM-DD.
	Totals map[string]int `json:"totals"` // Floor name -> total; 0 for floors without entries.
}

// FloorTrend returns per-day per-floor totals across a range, including
// zero rows for days without entries.
func (s *Service) FloorTrend(ctx context.Context, start, end time.Time) ([]FloorTrendRow, error) {
	rows, err := s.entries.ListForRange(ctx, start, end, 0)
	if err != nil {
		return nil, err
	}
	floors, err := s.entries.Floors(ctx, false)
	if err != nil {
		return nil, err
	}
	names := make(map[uint64]string, len(floors))
	for _, f := range floors {
		names[f.ID] = f.Name
	}

	byDay := make(map[string]map[string]int)
	for _, row := range rows {
		day := byDay[row.Date]
		if day == nil {
			day = make(map[string]int)
			byDay[row.Date] = day
		}
		day[names[row.FloorID]] += row.Count
	}

	var out []FloorTrendRow
	for _, d := range dates.Range(start, end) {
		key := dates.Format(d)
		totals := make(map[string]int, len(floors))
		for _, f := range floors {
			totals[f.Name] = byDay[key][f.Name]
		}
		out = append(out, FloorTrendRow{Date: key, Totals: totals})
	}
	return out, nil
}

// floorNames returns a lookup from floor ID to display name, falling back
// to "Floor <id>" for rows referencing an unknown floor.
func (s *Service) floorNames(ctx context.Context) (func(uint64) string, error) {
	floors, err := s.entries.Floors(ctx, false)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint64]string, len(floors))
	for _, f := range floors {
		byID[f.ID] = f.Name
	}
	return func(id uint64) string {
		if name, ok := byID[id]; ok {
			return name
		}
		return "Floor " + strconv.FormatUint(id, 10)
	}, nil
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
