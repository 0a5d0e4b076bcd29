package audit

import (
	"context"
	"testing"
	"time"

	"github.com/akshathkarthikn/footfall-tracker/internal/db"
	"github.com/akshathkarthikn/footfall-tracker/internal/models"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := db.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	return conn
}

func TestRecord_MarshalsSnapshots(t *testing.T) {
	conn := newTestDB(t)
	ctx := context.Background()

	errRecord := Record(ctx, conn, Change{
		TableName: "footfall_entries",
		RecordID:  7,
		Action:    models.AuditUpdate,
		OldValue:  map[string]any{"count": 10},
		NewValue:  map[string]any{"count": 25},
		ChangedBy: 1,
	})
	if errRecord != nil {
		t.Fatalf("Record: %v", errRecord)
	}

	var row models.AuditLog
	if errFind := conn.First(&row).Error; errFind != nil {
		t.Fatalf("find: %v", errFind)
	}
	if row.Action != models.AuditUpdate || row.RecordID != 7 {
		t.Fatalf("row = %+v", row)
	}
	if len(row.OldValue) == 0 || len(row.NewValue) == 0 {
		t.Fatalf("snapshots not persisted: old=%s new=%s", row.OldValue, row.NewValue)
	}
}

func TestList_NewestFirstWithFilters(t *testing.T) {
	conn := newTestDB(t)
	ctx := context.Background()

	for i, action := range []string{models.AuditInsert, models.AuditUpdate, models.AuditDelete} {
		errRecord := Record(ctx, conn, Change{
			TableName: "footfall_entries",
			RecordID:  uint64(i + 1),
			Action:    action,
			ChangedBy: uint64(i%2 + 1),
		})
		if errRecord != nil {
			t.Fatalf("Record: %v", errRecord)
		}
	}

	rows, err := List(ctx, conn, Filter{}, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[0].Action != models.AuditDelete {
		t.Fatalf("newest first violated: first action %s", rows[0].Action)
	}

	filtered, err := List(ctx, conn, Filter{UserID: 2}, 0)
	if err != nil {
		t.Fatalf("List filtered: %v", err)
	}
	if len(filtered) != 1 || filtered[0].RecordID != 2 {
		t.Fatalf("filtered = %+v", filtered)
	}
}

func TestList_TimeBounds(t *testing.T) {
	conn := newTestDB(t)
	ctx := context.Background()

	if errRecord := Record(ctx, conn, Change{
		TableName: "footfall_entries", RecordID: 1, Action: models.AuditInsert, ChangedBy: 1,
	}); errRecord != nil {
		t.Fatalf("Record: %v", errRecord)
	}

	past := time.Now().UTC().Add(-time.Hour)
	future := time.Now().UTC().Add(time.Hour)

	rows, err := List(ctx, conn, Filter{Start: &past, End: &future}, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("in-window rows = %d, want 1", len(rows))
	}

	rows, err = List(ctx, conn, Filter{End: &past}, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("out-of-window rows = %d, want 0", len(rows))
	}
}

func TestResetData_WipesEntriesAndLog(t *testing.T) {
	conn := newTestDB(t)
	ctx := context.Background()

	entries := []models.FootfallEntry{
		{Date: "2026-08-24", HourSlot: 9, FloorID: 1, Count: 5, EnteredBy: 1, EnteredAt: time.Now().UTC()},
		{Date: "2026-08-24", HourSlot: 10, FloorID: 1, Count: 7, EnteredBy: 1, EnteredAt: time.Now().UTC()},
	}
	for i := range entries {
		if errCreate := conn.Create(&entries[i]).Error; errCreate != nil {
			t.Fatalf("create entry: %v", errCreate)
		}
	}
	if errRecord := Record(ctx, conn, Change{
		TableName: "footfall_entries", RecordID: entries[0].ID, Action: models.AuditInsert, ChangedBy: 1,
	}); errRecord != nil {
		t.Fatalf("Record: %v", errRecord)
	}

	entriesDeleted, logsDeleted, err := ResetData(ctx, conn)
	if err != nil {
		t.Fatalf("ResetData: %v", err)
	}
	if entriesDeleted != 2 || logsDeleted != 1 {
		t.Fatalf("deleted = %d entries, %d logs", entriesDeleted, logsDeleted)
	}

	var count int64
	if errCount := conn.Model(&models.FootfallEntry{}).Count(&count).Error; errCount != nil || count != 0 {
		t.Fatalf("entries after reset = %d (%v)", count, errCount)
	}
	if errCount := conn.Model(&models.AuditLog{}).Count(&count).Error; errCount != nil || count != 0 {
		t.Fatalf("logs after reset = %d (%v)", count, errCount)
	}
}
