package models

import (
	"time"

	"gorm.io/datatypes"
)

// Audit actions.
const (
	// AuditInsert records a row creation.
	AuditInsert = "INSERT"
	// AuditUpdate records a row overwrite.
	AuditUpdate = "UPDATE"
	// AuditDelete records a row removal.
	AuditDelete = "DELETE"
)

// AuditLog is one immutable record of a mutation. Rows are only ever
// appended; the sole bulk-clear path is the admin data reset.
type AuditLog struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"log_id"` // Primary key.

	TableName string `gorm:"type:text;not null;index:ix_audit_table_record,priority:1" json:"table_name"` // Mutated table.
	RecordID  uint64 `gorm:"not null;index:ix_audit_table_record,priority:2" json:"record_id"`            // Mutated row ID.
	Action    string `gorm:"type:text;not null" json:"action"`                                            // INSERT, UPDATE, or DELETE.

	OldValue datatypes.JSON `json:"old_value"` // Field snapshot before the change; absent for INSERT.
	NewValue datatypes.JSON `json:"new_value"` // Field snapshot after the change; absent for DELETE.

	ChangedBy uint64    `gorm:"not null" json:"changed_by"`            // Acting user ID.
	ChangedAt time.Time `gorm:"not null;index" json:"changed_at"`      // Timestamp of the mutation.
	IPAddress string    `gorm:"type:text" json:"ip_address,omitempty"` // Client address, when known.
}
