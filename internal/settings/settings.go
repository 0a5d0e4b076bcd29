package settings

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/akshathkarthikn/footfall-tracker/internal/models"
	"gorm.io/gorm"
)

// Store reads and writes the settings table. Readers hit the database on
// every call so changes made by an admin are visible immediately.
type Store struct {
	db *gorm.DB
}

// NewStore constructs a settings store.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Get returns the raw value for a key, or fallback when the key is absent.
func (s *Store) Get(ctx context.Context, key, fallback string) (string, error) {
	var row models.Setting
	errFind := s.db.WithContext(ctx).Where("key = ?", key).First(&row).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return fallback, nil
		}
		return "", fmt.Errorf("settings: get %s: %w", key, errFind)
	}
	return row.Value, nil
}

// GetInt returns the integer value for a key, or fallback when the key is
// absent or unparsable.
func (s *Store) GetInt(ctx context.Context, key string, fallback int) (int, error) {
	raw, err := s.Get(ctx, key, strconv.Itoa(fallback))
	if err != nil {
		return 0, err
	}
	value, errParse := strconv.Atoi(raw)
	if errParse != nil {
		return fallback, nil
	}
	return value, nil
}

// Set upserts a setting value, recording the acting admin when known.
func (s *Store) Set(ctx context.Context, key, value string, updatedBy *uint64) error {
	var row models.Setting
	errFind := s.db.WithContext(ctx).Where("key = ?", key).First(&row).Error
	switch {
	case errFind == nil:
		updates := map[string]any{"value": value, "updated_at": time.Now().UTC()}
		if updatedBy != nil {
			updates["updated_by"] = *updatedBy
		}
		if errUpdate := s.db.WithContext(ctx).Model(&models.Setting{}).Where("key = ?", key).Updates(updates).Error; errUpdate != nil {
			return fmt.Errorf("settings: update %s: %w", key, errUpdate)
		}
		return nil
	case errors.Is(errFind, gorm.ErrRecordNotFound):
		row = models.Setting{Key: key, Value: value, UpdatedBy: updatedBy}
		if errCreate := s.db.WithContext(ctx).Create(&row).Error; errCreate != nil {
			return fmt.Errorf("settings: create %s: %w", key, errCreate)
		}
		return nil
	default:
		return fmt.Errorf("settings: set %s: %w", key, errFind)
	}
}

// All returns every setting row ordered by key.
func (s *Store) All(ctx context.Context) ([]models.Setting, error) {
	var rows []models.Setting
	if errFind := s.db.WithContext(ctx).Order("key ASC").Find(&rows).Error; errFind != nil {
		return nil, fmt.Errorf("settings: list: %w", errFind)
	}
	return rows, nil
}

// OperatingHours returns the configured opening and closing hours.
func (s *Store) OperatingHours(ctx context.Context) (opening, closing int, err error) {
	opening, err = s.GetInt(ctx, OpeningHourKey, DefaultOpeningHour)
	if err != nil {
		return 0, 0, err
	}
	closing, err = s.GetInt(ctx, ClosingHourKey, DefaultClosingHour)
	if err != nil {
		return 0, 0, err
	}
	return opening, closing, nil
}

// HourSlots returns the operating-hour slots, opening through closing
// inclusive.
func (s *Store) HourSlots(ctx context.Context) ([]int, error) {
	opening, closing, err := s.OperatingHours(ctx)
	if err != nil {
		return nil, err
	}
	if closing < opening {
		return nil, nil
	}
	slots := make([]int, 0, closing-opening+1)
	for h := opening; h <= closing; h++ {
		slots = append(slots, h)
	}
	return slots, nil
}

// MaxFootfallValue returns the configured count ceiling.
func (s *Store) MaxFootfallValue(ctx context.Context) (int, error) {
	return s.GetInt(ctx, MaxFootfallValueKey, DefaultMaxFootfallValue)
}

// SpikeThresholdPercent returns the configured spike threshold.
func (s *Store) SpikeThresholdPercent(ctx context.Context) (int, error) {
	return s.GetInt(ctx, SpikeThresholdPercentKey, DefaultSpikeThresholdPercent)
}

// EditWindow returns the duration non-admins may edit an entry after it was
// written.
func (s *Store) EditWindow(ctx context.Context) (time.Duration, error) {
	hours, err := s.GetInt(ctx, EditWindowHoursKey, DefaultEditWindowHours)
	if err != nil {
		return 0, err
	}
	return time.Duration(hours) * time.Hour, nil
}

// WeekStartDay returns the configured week start (0=Monday .. 6=Sunday).
func (s *Store) WeekStartDay(ctx context.Context) (int, error) {
	return s.GetInt(ctx, WeekStartDayKey, DefaultWeekStartDay)
}
