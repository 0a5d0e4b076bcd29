package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/akshathkarthikn/footfall-tracker/internal/compare"
	"github.com/akshathkarthikn/footfall-tracker/internal/dates"
	"github.com/akshathkarthikn/footfall-tracker/internal/metrics"
	"github.com/gin-gonic/gin"
)

// ReportHandler serves aggregation and comparison endpoints.
type ReportHandler struct {
	metrics *metrics.Service
	compare *compare.Service
}

// NewReportHandler constructs a ReportHandler.
func NewReportHandler(m *metrics.Service, cmp *compare.Service) *ReportHandler {
	return &ReportHandler{metrics: m, compare: cmp}
}

// Daily returns the full aggregation for one date: total, per-floor
// breakdown with share percentages, hourly trend, and peak hour.
func (h *ReportHandler) Daily(c *gin.Context) {
	date, ok := dateQuery(c, "date")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	total, errTotal := h.metrics.DailyTotal(ctx, date, 0)
	if errTotal != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "daily report failed"})
		return
	}
	breakdown, errBreakdown := h.metrics.FloorBreakdown(ctx, date)
	if errBreakdown != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "daily report failed"})
		return
	}
	shares, errShares := h.metrics.FloorSharePercent(ctx, date)
	if errShares != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "daily report failed"})
		return
	}
	hourly, errHourly := h.metrics.HourlyTrend(ctx, date, 0)
	if errHourly != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "daily report failed"})
		return
	}
	peakHour, peakCount, hasPeak, errPeak := h.metrics.PeakHour(ctx, date)
	if errPeak != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "daily report failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":            dates.Format(date),
		"total":           total,
		"floor_breakdown": breakdown,
		"floor_share":     shares,
		"hourly_trend":    hourly,
		"peak_hour":       peakHour,
		"peak_count":      peakCount,
		"has_peak":        hasPeak,
	})
}

// RollingAverage returns the trailing-window daily averages ending at a
// date. The window defaults to 7 days.
func (h *ReportHandler) RollingAverage(c *gin.Context) {
	end, ok := dateQuery(c, "end")
	if !ok {
		return
	}
	window := 7
	if raw := strings.TrimSpace(c.Query("window")); raw != "" {
		parsed, errParse := strconv.Atoi(raw)
		if errParse != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid window"})
			return
		}
		window = parsed
	}
	averages, errAvg := h.metrics.RollingAverage(c.Request.Context(), end, window)
	if errAvg != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "rolling average failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"averages": averages})
}

// Heatmap returns the weekday-by-hour average heatmap over a range.
func (h *ReportHandler) Heatmap(c *gin.Context) {
	start, ok := dateQuery(c, "start")
	if !ok {
		return
	}
	end, ok := dateQuery(c, "end")
	if !ok {
		return
	}
	rows, errHeatmap := h.metrics.WeekdayHourHeatmap(c.Request.Context(), start, end)
	if errHeatmap != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "heatmap failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows})
}

// Monthly returns totals per calendar month for a year.
func (h *ReportHandler) Monthly(c *gin.Context) {
	year, errParse := strconv.Atoi(strings.TrimSpace(c.Query("year")))
	if errParse != nil || year < 2000 || year > 2200 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return
	}
	monthly, errMonthly := h.metrics.MonthlyTotals(c.Request.Context(), year)
	if errMonthly != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "monthly totals failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"monthly": monthly})
}

// Delta returns the comparison of a date against the previous day,
// including the cumulative like-for-like comparison up to the given hour.
// The hour defaults to the current hour.
func (h *ReportHandler) Delta(c *gin.Context) {
	date, ok := dateQuery(c, "date")
	if !ok {
		return
	}
	hour := time.Now().UTC().Hour()
	if raw := strings.TrimSpace(c.Query("hour")); raw != "" {
		parsed, errParse := strconv.Atoi(raw)
		if errParse != nil || parsed < 0 || parsed > 23 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid hour"})
			return
		}
		hour = parsed
	}
	delta, errDelta := h.metrics.DeltaVsYesterday(c.Request.Context(), date, hour)
	if errDelta != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delta failed"})
		return
	}
	c.JSON(http.StatusOK, delta)
}

// FloorTrend returns per-day per-floor totals over a range.
func (h *ReportHandler) FloorTrend(c *gin.Context) {
	start, ok := dateQuery(c, "start")
	if !ok {
		return
	}
	end, ok := dateQuery(c, "end")
	if !ok {
		return
	}
	rows, errTrend := h.metrics.FloorTrend(c.Request.Context(), start, end)
	if errTrend != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "floor trend failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows})
}

// CompareDays returns the hour-by-hour comparison of two dates.
func (h *ReportHandler) CompareDays(c *gin.Context) {
	dateA, ok := dateQuery(c, "a")
	if !ok {
		return
	}
	dateB, ok := dateQuery(c, "b")
	if !ok {
		return
	}
	floorIDs, ok := floorFilterQuery(c)
	if !ok {
		return
	}
	table, errCompare := h.compare.Days(c.Request.Context(), dateA, dateB, floorIDs)
	if errCompare != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "compare days failed"})
		return
	}
	c.JSON(http.StatusOK, table)
}

// CompareWeeks returns the day-by-day comparison of two weeks, each given
// by its start date.
func (h *ReportHandler) CompareWeeks(c *gin.Context) {
	weekA, ok := dateQuery(c, "a")
	if !ok {
		return
	}
	weekB, ok := dateQuery(c, "b")
	if !ok {
		return
	}
	floorIDs, ok := floorFilterQuery(c)
	if !ok {
		return
	}
	table, errCompare := h.compare.Weeks(c.Request.Context(), weekA, weekB, floorIDs)
	if errCompare != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "compare weeks failed"})
		return
	}
	c.JSON(http.StatusOK, table)
}

// CompareWeekday returns every occurrence of a weekday in a range with its
// deviation from the mean.
func (h *ReportHandler) CompareWeekday(c *gin.Context) {
	start, ok := dateQuery(c, "start")
	if !ok {
		return
	}
	end, ok := dateQuery(c, "end")
	if !ok {
		return
	}
	weekday, errParse := strconv.Atoi(strings.TrimSpace(c.Query("weekday")))
	if errParse != nil || weekday < 0 || weekday > 6 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid weekday"})
		return
	}
	floorIDs, ok := floorFilterQuery(c)
	if !ok {
		return
	}
	rows, errCompare := h.compare.SameWeekday(c.Request.Context(), start, end, weekday, floorIDs)
	if errCompare != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "compare weekday failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows})
}

// CompareSummary returns the headline numbers for two dates.
func (h *ReportHandler) CompareSummary(c *gin.Context) {
	dateA, ok := dateQuery(c, "a")
	if !ok {
		return
	}
	dateB, ok := dateQuery(c, "b")
	if !ok {
		return
	}
	summary, errCompare := h.compare.ComparisonSummary(c.Request.Context(), dateA, dateB)
	if errCompare != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "compare summary failed"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// DashboardAverages returns the period baselines a date is compared
// against.
func (h *ReportHandler) DashboardAverages(c *gin.Context) {
	date, ok := dateQuery(c, "date")
	if !ok {
		return
	}
	averages, errAvg := h.compare.DashboardAverages(c.Request.Context(), date)
	if errAvg != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "dashboard averages failed"})
		return
	}
	c.JSON(http.StatusOK, averages)
}
