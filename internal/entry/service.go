// Package entry implements the footfall entry store: slot lookups, the
// save/delete operations that pair every mutation with its audit record,
// and the missing-slot report.
package entry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/akshathkarthikn/footfall-tracker/internal/audit"
	"github.com/akshathkarthikn/footfall-tracker/internal/dates"
	"github.com/akshathkarthikn/footfall-tracker/internal/models"
	"github.com/akshathkarthikn/footfall-tracker/internal/settings"
	"gorm.io/gorm"
)

const tableName = "footfall_entries"

// Service exposes entry store operations over the shared database.
type Service struct {
	db       *gorm.DB
	settings *settings.Store
}

// NewService constructs an entry service.
func NewService(db *gorm.DB, store *settings.Store) *Service {
	return &Service{db: db, settings: store}
}

// DB exposes the underlying connection for collaborating services.
func (s *Service) DB() *gorm.DB {
	return s.db
}

// Floors returns floors ordered by display position, active only by default.
func (s *Service) Floors(ctx context.Context, activeOnly bool) ([]models.Floor, error) {
	q := s.db.WithContext(ctx).Model(&models.Floor{})
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	var rows []models.Floor
	if errFind := q.Order("display_order ASC").Find(&rows).Error; errFind != nil {
		return nil, fmt.Errorf("entry: list floors: %w", errFind)
	}
	return rows, nil
}

// Get returns the entry for one (date, hour, floor) slot, or nil when the
// slot has no entry.
func (s *Service) Get(ctx context.Context, date time.Time, hourSlot int, floorID uint64) (*models.FootfallEntry, error) {
	var row models.FootfallEntry
	errFind := s.db.WithContext(ctx).
		Where("date = ? AND hour_slot = ? AND floor_id = ?", dates.Format(date), hourSlot, floorID).
		First(&row).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("entry: get: %w", errFind)
	}
	return &row, nil
}

// GetByID returns the entry with the given ID, or nil when absent.
func (s *Service) GetByID(ctx context.Context, id uint64) (*models.FootfallEntry, error) {
	var row models.FootfallEntry
	errFind := s.db.WithContext(ctx).First(&row, id).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("entry: get by id: %w", errFind)
	}
	return &row, nil
}

// ListForDate returns the entries for a date ordered by hour then floor.
// floorID 0 means all floors.
func (s *Service) ListForDate(ctx context.Context, date time.Time, floorID uint64) ([]models.FootfallEntry, error) {
	q := s.db.WithContext(ctx).Where("date = ?", dates.Format(date))
	if floorID != 0 {
		q = q.Where("floor_id = ?", floorID)
	}
	var rows []models.FootfallEntry
	if errFind := q.Order("hour_slot ASC, floor_id ASC").Find(&rows).Error; errFind != nil {
		return nil, fmt.Errorf("entry: list for date: %w", errFind)
	}
	return rows, nil
}

// ListForRange returns the entries between start and end inclusive, ordered
// by date then hour. floorID 0 means all floors.
func (s *Service) ListForRange(ctx context.Context, start, end time.Time, floorID uint64) ([]models.FootfallEntry, error) {
	q := s.db.WithContext(ctx).Where("date >= ? AND date <= ?", dates.Format(start), dates.Format(end))
	if floorID != 0 {
		q = q.Where("floor_id = ?", floorID)
	}
	var rows []models.FootfallEntry
	if errFind := q.Order("date ASC, hour_slot ASC").Find(&rows).Error; errFind != nil {
		return nil, fmt.Errorf("entry: list for range: %w", errFind)
	}
	return rows, nil
}

// SaveParams describe one entry write.
type SaveParams struct {
	Date     time.Time // Calendar date.
	HourSlot int       // Hour of day.
	FloorID  uint64    // Target floor.
	Count    int       // Visitor count.
	ActorID  uint64    // Acting user.
	Notes    string    // Optional note.
	Source   string    // Source tag; defaults to manual.
}

// Save inserts or updates the entry for (date, hour, floor). A second save
// of the same slot overwrites the existing row in place, preserving its ID.
// The row write and its audit record commit in one transaction, so a
// committed entry is always observable together with its provenance.
// Returns updated=true when an existing row was overwritten.
func (s *Service) Save(ctx context.Context, p SaveParams) (bool, error) {
	source := p.Source
	if source == "" {
		source = models.SourceManual
	}
	dateStr := dates.Format(p.Date)
	now := time.Now().UTC()

	var updated bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.FootfallEntry
		errFind := tx.Where("date = ? AND hour_slot = ? AND floor_id = ?", dateStr, p.HourSlot, p.FloorID).
			First(&existing).Error

		switch {
		case errFind == nil:
			oldValue := map[string]any{
				"count":      existing.Count,
				"notes":      existing.Notes,
				"entered_by": existing.EnteredBy,
				"entered_at": existing.EnteredAt.Format(time.RFC3339),
			}
			updates := map[string]any{
				"count":      p.Count,
				"notes":      p.Notes,
				"entered_by": p.ActorID,
				"entered_at": now,
			}
			if errUpdate := tx.Model(&models.FootfallEntry{}).Where("id = ?", existing.ID).Updates(updates).Error; errUpdate != nil {
				return fmt.Errorf("entry: update: %w", errUpdate)
			}
			newValue := map[string]any{
				"count":      p.Count,
				"notes":      p.Notes,
				"entered_by": p.ActorID,
				"entered_at": now.Format(time.RFC3339),
			}
			if errAudit := audit.Record(ctx, tx, audit.Change{
				TableName: tableName,
				RecordID:  existing.ID,
				Action:    models.AuditUpdate,
				OldValue:  oldValue,
				NewValue:  newValue,
				ChangedBy: p.ActorID,
			}); errAudit != nil {
				return errAudit
			}
			updated = true
			return nil

		case errors.Is(errFind, gorm.ErrRecordNotFound):
			row := models.FootfallEntry{
				Date:      dateStr,
				HourSlot:  p.HourSlot,
				FloorID:   p.FloorID,
				Count:     p.Count,
				EnteredBy: p.ActorID,
				EnteredAt: now,
				Source:    source,
				Notes:     p.Notes,
			}
			if errCreate := tx.Create(&row).Error; errCreate != nil {
				return fmt.Errorf("entry: insert: %w", errCreate)
			}
			newValue := map[string]any{
				"date":       dateStr,
				"hour_slot":  p.HourSlot,
				"floor_id":   p.FloorID,
				"count":      p.Count,
				"entered_by": p.ActorID,
				"notes":      p.Notes,
			}
			if errAudit := audit.Record(ctx, tx, audit.Change{
				TableName: tableName,
				RecordID:  row.ID,
				Action:    models.AuditInsert,
				NewValue:  newValue,
				ChangedBy: p.ActorID,
			}); errAudit != nil {
				return errAudit
			}
			updated = false
			return nil

		default:
			return fmt.Errorf("entry: lookup: %w", errFind)
		}
	})
	if err != nil {
		return false, err
	}
	return updated, nil
}

// SaveBulk applies Save to each item independently. One item's failure does
// not block its siblings; failures come back as messages keyed by floor and
// hour. Re-running the same payload turns every insert into an update and
// leaves the row count unchanged.
func (s *Service) SaveBulk(ctx context.Context, items []SaveParams, actorID uint64) (saved, updated int, errs []string) {
	for _, item := range items {
		item.ActorID = actorID
		wasUpdate, errSave := s.Save(ctx, item)
		if errSave != nil {
			errs = append(errs, fmt.Sprintf("Error saving entry for floor %d, hour %d: %v", item.FloorID, item.HourSlot, errSave))
			continue
		}
		if wasUpdate {
			updated++
		} else {
			saved++
		}
	}
	return saved, updated, errs
}

// Delete removes an entry by ID, recording the pre-delete snapshot in the
// same transaction. Returns false with no audit record when the ID does not
// exist.
func (s *Service) Delete(ctx context.Context, id uint64, actorID uint64) (bool, error) {
	var deleted bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.FootfallEntry
		errFind := tx.First(&existing, id).Error
		if errFind != nil {
			if errors.Is(errFind, gorm.ErrRecordNotFound) {
				return nil
			}
			return fmt.Errorf("entry: delete lookup: %w", errFind)
		}

		if errDelete := tx.Delete(&models.FootfallEntry{}, id).Error; errDelete != nil {
			return fmt.Errorf("entry: delete: %w", errDelete)
		}
		oldValue := map[string]any{
			"date":      existing.Date,
			"hour_slot": existing.HourSlot,
			"floor_id":  existing.FloorID,
			"count":     existing.Count,
		}
		if errAudit := audit.Record(ctx, tx, audit.Change{
			TableName: tableName,
			RecordID:  id,
			Action:    models.AuditDelete,
			OldValue:  oldValue,
			ChangedBy: actorID,
		}); errAudit != nil {
			return errAudit
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// PreviousHourCount returns the count for the previous hour slot on the same
// floor, or nil at hour 0 or when the slot has no entry. Used by spike
// detection.
func (s *Service) PreviousHourCount(ctx context.Context, date time.Time, hourSlot int, floorID uint64) (*int, error) {
	if hourSlot == 0 {
		return nil, nil
	}
	row, err := s.Get(ctx, date, hourSlot-1, floorID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	count := row.Count
	return &count, nil
}

// MissingSlot is one (floor, hour) combination with no entry.
type MissingSlot struct {
	FloorID   uint64 `json:"floor_id"`
	FloorName string `json:"floor_name"`
	HourSlot  int    `json:"hour_slot"`
}

// MissingSlots returns every (active floor, operating hour) combination with
// no entry on the given date.
func (s *Service) MissingSlots(ctx context.Context, date time.Time) ([]MissingSlot, error) {
	floors, err := s.Floors(ctx, true)
	if err != nil {
		return nil, err
	}
	slots, err := s.settings.HourSlots(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := s.ListForDate(ctx, date, 0)
	if err != nil {
		return nil, err
	}

	type slotKey struct {
		hour  int
		floor uint64
	}
	existing := make(map[slotKey]struct{}, len(entries))
	for _, e := range entries {
		existing[slotKey{hour: e.HourSlot, floor: e.FloorID}] = struct{}{}
	}

	var missing []MissingSlot
	for _, floor := range floors {
		for _, hour := range slots {
			if _, ok := existing[slotKey{hour: hour, floor: floor.ID}]; ok {
				continue
			}
			missing = append(missing, MissingSlot{FloorID: floor.ID, FloorName: floor.Name, HourSlot: hour})
		}
	}
	return missing, nil
}
