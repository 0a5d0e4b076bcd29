package models

import "time"

// Setting is one key/value row of process-wide configuration. Values are
// stored as text and parsed by the readers on every call.
type Setting struct {
	Key   string `gorm:"type:text;primaryKey" json:"key"` // Setting key.
	Value string `gorm:"type:text;not null" json:"value"` // Raw value.

	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"` // Last change timestamp.
	UpdatedBy *uint64   `json:"updated_by"`                                // Admin who last changed it, when known.
}
