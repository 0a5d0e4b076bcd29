package settings

// Setting keys and first-run defaults.
const (
	// OpeningHourKey is the first hour slot of the operating window.
	OpeningHourKey = "opening_hour"
	// ClosingHourKey is the last hour slot of the operating window.
	ClosingHourKey = "closing_hour"
	// WeekStartDayKey is the weekday a week starts on (0=Monday).
	WeekStartDayKey = "week_start_day"
	// SpikeThresholdPercentKey is the percent jump that flags a spike.
	SpikeThresholdPercentKey = "spike_threshold_percent"
	// MaxFootfallValueKey is the largest count a save accepts.
	MaxFootfallValueKey = "max_footfall_value"
	// EditWindowHoursKey is how long non-admins may edit an entry.
	EditWindowHoursKey = "edit_window_hours"

	// DefaultOpeningHour is the fallback opening hour.
	DefaultOpeningHour = 9
	// DefaultClosingHour is the fallback closing hour.
	DefaultClosingHour = 21
	// DefaultWeekStartDay is the fallback week start (Monday).
	DefaultWeekStartDay = 0
	// DefaultSpikeThresholdPercent is the fallback spike threshold.
	DefaultSpikeThresholdPercent = 50
	// DefaultMaxFootfallValue is the fallback count ceiling.
	DefaultMaxFootfallValue = 10000
	// DefaultEditWindowHours is the fallback edit window.
	DefaultEditWindowHours = 2
)

// Defaults maps every setting key to its first-run value. Applied once by
// the migrator; later edits always win.
var Defaults = map[string]int{
	OpeningHourKey:           DefaultOpeningHour,
	ClosingHourKey:           DefaultClosingHour,
	WeekStartDayKey:          DefaultWeekStartDay,
	SpikeThresholdPercentKey: DefaultSpikeThresholdPercent,
	MaxFootfallValueKey:      DefaultMaxFootfallValue,
	EditWindowHoursKey:       DefaultEditWindowHours,
}
