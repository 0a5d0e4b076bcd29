// Package audit appends immutable change records for every entry mutation.
// There is no update or partial-delete API; the only bulk-clear path is the
// admin data reset, which wipes entries and the log together.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/akshathkarthikn/footfall-tracker/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Change describes one mutation to record.
type Change struct {
	TableName string         // Mutated table name.
	RecordID  uint64         // Mutated row ID.
	Action    string         // models.AuditInsert, AuditUpdate, or AuditDelete.
	OldValue  map[string]any // Snapshot before the change; nil for INSERT.
	NewValue  map[string]any // Snapshot after the change; nil for DELETE.
	ChangedBy uint64         // Acting user ID.
	IPAddress string         // Client address, optional.
}

// Record appends one audit row using the supplied connection. Callers that
// need the audit write to commit atomically with the mutation it describes
// pass their open transaction here.
func Record(ctx context.Context, tx *gorm.DB, change Change) error {
	if tx == nil {
		return fmt.Errorf("audit: nil connection")
	}

	row := models.AuditLog{
		TableName: change.TableName,
		RecordID:  change.RecordID,
		Action:    change.Action,
		ChangedBy: change.ChangedBy,
		ChangedAt: time.Now().UTC(),
		IPAddress: change.IPAddress,
	}
	if change.OldValue != nil {
		payload, errMarshal := json.Marshal(change.OldValue)
		if errMarshal != nil {
			return fmt.Errorf("audit: marshal old value: %w", errMarshal)
		}
		row.OldValue = datatypes.JSON(payload)
	}
	if change.NewValue != nil {
		payload, errMarshal := json.Marshal(change.NewValue)
		if errMarshal != nil {
			return fmt.Errorf("audit: marshal new value: %w", errMarshal)
		}
		row.NewValue = datatypes.JSON(payload)
	}

	if errCreate := tx.WithContext(ctx).Create(&row).Error; errCreate != nil {
		return fmt.Errorf("audit: append: %w", errCreate)
	}
	return nil
}

// Filter narrows an audit log query. Zero fields are ignored.
type Filter struct {
	TableName string     // Match one table.
	RecordID  uint64     // Match one record.
	UserID    uint64     // Match one acting user.
	Start     *time.Time // Inclusive lower bound on changed_at.
	End       *time.Time // Inclusive upper bound on changed_at.
}

// DefaultListLimit caps List results when the caller passes limit <= 0.
const DefaultListLimit = 100

// List returns matching audit rows newest-first, capped at limit.
func List(ctx context.Context, conn *gorm.DB, filter Filter, limit int) ([]models.AuditLog, error) {
	if conn == nil {
		return nil, fmt.Errorf("audit: nil connection")
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}

	q := conn.WithContext(ctx).Model(&models.AuditLog{})
	if filter.TableName != "" {
		q = q.Where("table_name = ?", filter.TableName)
	}
	if filter.RecordID != 0 {
		q = q.Where("record_id = ?", filter.RecordID)
	}
	if filter.UserID != 0 {
		q = q.Where("changed_by = ?", filter.UserID)
	}
	if filter.Start != nil {
		q = q.Where("changed_at >= ?", *filter.Start)
	}
	if filter.End != nil {
		q = q.Where("changed_at <= ?", *filter.End)
	}

	var rows []models.AuditLog
	if errFind := q.Order("changed_at DESC, id DESC").Limit(limit).Find(&rows).Error; errFind != nil {
		return nil, fmt.Errorf("audit: list: %w", errFind)
	}
	return rows, nil
}

// EntryHistory returns the full audit trail for one footfall entry.
func EntryHistory(ctx context.Context, conn *gorm.DB, entryID uint64) ([]models.AuditLog, error) {
	return List(ctx, conn, Filter{TableName: "footfall_entries", RecordID: entryID}, 1000)
}

// ResetData wipes all footfall entries and the audit log in one
// transaction. Reserved for the explicit admin data-reset action; partial
// completion is not possible.
func ResetData(ctx context.Context, conn *gorm.DB) (entriesDeleted, logsDeleted int64, err error) {
	if conn == nil {
		return 0, 0, fmt.Errorf("audit: nil connection")
	}
	err = conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		resEntries := tx.Where("1 = 1").Delete(&models.FootfallEntry{})
		if resEntries.Error != nil {
			return fmt.Errorf("audit: reset entries: %w", resEntries.Error)
		}
		resLogs := tx.Where("1 = 1").Delete(&models.AuditLog{})
		if resLogs.Error != nil {
			return fmt.Errorf("audit: reset log: %w", resLogs.Error)
		}
		entriesDeleted = resEntries.RowsAffected
		logsDeleted = resLogs.RowsAffected
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return entriesDeleted, logsDeleted, nil
}
