// Package export renders entry data as CSV for download.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/akshathkarthikn/footfall-tracker/internal/dates"
	"github.com/akshathkarthikn/footfall-tracker/internal/entry"
)

// Service writes CSV exports over the entry store.
type Service struct {
	entries *entry.Service
}

// NewService constructs an export service.
func NewService(entries *entry.Service) *Service {
	return &Service{entries: entries}
}

// entryHeader is the column layout of the raw entries export.
var entryHeader = []string{"Date", "Weekday", "Hour", "Hour (24h)", "Floor", "Count", "Source", "Notes"}

// Entries writes every entry between start and end inclusive as CSV rows,
// ordered by date then hour. floorID 0 means all floors.
func (s *Service) Entries(ctx context.Context, w io.Writer, start, end time.Time, floorID uint64) error {
	rows, err := s.entries.ListForRange(ctx, start, end, floorID)
	if err != nil {
		return err
	}
	floors, err := s.entries.Floors(ctx, false)
	if err != nil {
		return err
	}
	names := make(map[uint64]string, len(floors))
	for _, f := range floors {
		names[f.ID] = f.Name
	}

	cw := csv.NewWriter(w)
	if errWrite := cw.Write(entryHeader); errWrite != nil {
		return fmt.Errorf("export: write header: %w", errWrite)
	}
	for _, row := range rows {
		weekday := ""
		if d, errParse := dates.Parse(row.Date); errParse == nil {
			weekday = dates.WeekdayNames[dates.WeekdayIndex(d)]
		}
		record := []string{
			row.Date,
			weekday,
			dates.FormatHourSlot(row.HourSlot),
			strconv.Itoa(row.HourSlot),
			names[row.FloorID],
			strconv.Itoa(row.Count),
			row.Source,
			row.Notes,
		}
		if errWrite := cw.Write(record); errWrite != nil {
			return fmt.Errorf("export: write row: %w", errWrite)
		}
	}
	cw.Flush()
	if errFlush := cw.Error(); errFlush != nil {
		return fmt.Errorf("export: flush: %w", errFlush)
	}
	return nil
}

// Summary writes a period summary as CSV: the grand total, days with data,
// the daily average over days with data, and per-floor subtotals with their
// percentage share.
func (s *Service) Summary(ctx context.Context, w io.Writer, start, end time.Time) error {
	rows, err := s.entries.ListForRange(ctx, start, end, 0)
	if err != nil {
		return err
	}
	floors, err := s.entries.Floors(ctx, false)
	if err != nil {
		return err
	}

	total := 0
	daysWithData := make(map[string]struct{})
	floorTotals := make(map[uint64]int)
	for _, row := range rows {
		total += row.Count
		daysWithData[row.Date] = struct{}{}
		floorTotals[row.FloorID] += row.Count
	}
	dailyAverage := 0.0
	if len(daysWithData) > 0 {
		dailyAverage = float64(total) / float64(len(daysWithData))
	}

	cw := csv.NewWriter(w)
	records := [][]string{
		{"Metric", "Value"},
		{"Period", dates.Format(start) + " to " + dates.Format(end)},
		{"Total Footfall", strconv.Itoa(total)},
		{"Days With Data", strconv.Itoa(len(daysWithData))},
		{"Daily Average", fmt.Sprintf("%.1f", dailyAverage)},
	}
	for _, f := range floors {
		count, ok := floorTotals[f.ID]
		if !ok {
			continue
		}
		share := 0.0
		if total > 0 {
			share = float64(count) / float64(total) * 100
		}
		records = append(records, []string{f.Name, fmt.Sprintf("%d (%.1f%%)", count, share)})
	}
	for _, record := range records {
		if errWrite := cw.Write(record); errWrite != nil {
			return fmt.Errorf("export: write summary row: %w", errWrite)
		}
	}
	cw.Flush()
	if errFlush := cw.Error(); errFlush != nil {
		return fmt.Errorf("export: flush: %w", errFlush)
	}
	return nil
}

// MissingSlots writes the missing-slot report for each date in the range:
// every (active floor, operating hour) combination with no entry.
func (s *Service) MissingSlots(ctx context.Context, w io.Writer, start, end time.Time) error {
	cw := csv.NewWriter(w)
	if errWrite := cw.Write([]string{"Date", "Floor", "Hour"}); errWrite != nil {
		return fmt.Errorf("export: write header: %w", errWrite)
	}
	for _, day := range dates.Range(start, end) {
		missing, err := s.entries.MissingSlots(ctx, day)
		if err != nil {
			return err
		}
		for _, slot := range missing {
			record := []string{dates.Format(day), slot.FloorName, dates.FormatHourSlot(slot.HourSlot)}
			if errWrite := cw.Write(record); errWrite != nil {
				return fmt.Errorf("export: write row: %w", errWrite)
			}
		}
	}
	cw.Flush()
	if errFlush := cw.Error(); errFlush != nil {
		return fmt.Errorf("export: flush: %w", errFlush)
	}
	return nil
}

// Filename builds the download filename for an export kind and range, e.g.
// "footfall_2026-01-01_2026-01-31.csv".
func Filename(kind string, start, end time.Time) string {
	return fmt.Sprintf("%s_%s_%s.csv", kind, dates.Format(start), dates.Format(end))
}
