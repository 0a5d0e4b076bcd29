package models

import "time"

// Floor is a named physical area that accumulates footfall counts.
type Floor struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"floor_id"` // Primary key.

	Name         string `gorm:"type:text;not null;uniqueIndex" json:"floor_name"` // Unique display name.
	DisplayOrder int    `gorm:"not null;default:0" json:"display_order"`          // Sort position in grids.
	Active       bool   `gorm:"not null;default:true" json:"active"`              // Soft-delete flag; floors with entries are never hard-deleted.

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"` // Creation timestamp.
}
