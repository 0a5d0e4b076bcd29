package models

import "time"

// Entry source tags.
const (
	// SourceManual marks an entry typed in by a user.
	SourceManual = "manual"
	// SourceImport marks an entry loaded from a bulk import.
	SourceImport = "import"
	// SourceAPI marks an entry written through the API by another system.
	SourceAPI = "api"
)

// FootfallEntry is the hourly visitor count for one floor. The triple
// (date, hour_slot, floor_id) identifies at most one row.
type FootfallEntry struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"entry_id"` // Primary key; preserved across updates of the same slot.

	Date     string `gorm:"type:text;not null;uniqueIndex:uq_date_hour_floor,priority:1;index:ix_date_floor,priority:1" json:"date"` // Calendar date, YYYY-MM-DD.
	HourSlot int    `gorm:"not null;uniqueIndex:uq_date_hour_floor,priority:2" json:"hour_slot"`                                     // Hour of day, 0-23.
	FloorID  uint64 `gorm:"not null;uniqueIndex:uq_date_hour_floor,priority:3;index:ix_date_floor,priority:2" json:"floor_id"`       // Owning floor.
	Count    int    `gorm:"not null;default:0" json:"count"`                                                                         // Visitor count, non-negative.

	EnteredBy uint64    `gorm:"not null" json:"entered_by"`                   // Author user ID.
	EnteredAt time.Time `gorm:"not null" json:"entered_at"`                   // Timestamp of the last write.
	Source    string    `gorm:"type:text;default:manual" json:"source"`       // "manual", "import", or "api".
	Notes     string    `gorm:"type:text" json:"notes"`                       // Optional free-text note.

	Floor *Floor `gorm:"foreignKey:FloorID" json:"-"` // Owning floor record.
}
