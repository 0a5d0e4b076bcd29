package models

// HolidayLabel attaches a descriptive label to a calendar date. Purely
// informational; aggregation never consults it.
type HolidayLabel struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"` // Primary key.

	Date        string `gorm:"type:text;not null;uniqueIndex" json:"date"` // Calendar date, YYYY-MM-DD.
	Label       string `gorm:"type:text;not null" json:"label"`            // Short label, e.g. "Diwali".
	Description string `gorm:"type:text" json:"description"`               // Optional longer description.
}
