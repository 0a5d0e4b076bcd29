package db

import (
	"fmt"
	"strconv"

	"github.com/akshathkarthikn/footfall-tracker/internal/models"
	"github.com/akshathkarthikn/footfall-tracker/internal/security"
	internalsettings "github.com/akshathkarthikn/footfall-tracker/internal/settings"
	"gorm.io/gorm"
)

// DefaultFloors are seeded on first run when the floors table is empty.
var DefaultFloors = []models.Floor{
	{Name: "Basement", DisplayOrder: 1, Active: true},
	{Name: "Ground", DisplayOrder: 2, Active: true},
	{Name: "Upper Ground", DisplayOrder: 3, Active: true},
	{Name: "First", DisplayOrder: 4, Active: true},
	{Name: "Second", DisplayOrder: 5, Active: true},
	{Name: "Third", DisplayOrder: 6, Active: true},
}

// Bootstrap admin credentials, created only when the users table is empty.
const (
	bootstrapAdminUsername = "admin"
	bootstrapAdminPassword = "admin123"
)

// Migrate creates the schema and seeds first-run defaults.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}

	if errAutoMigrate := conn.AutoMigrate(
		&models.Floor{},
		&models.User{},
		&models.FootfallEntry{},
		&models.Setting{},
		&models.HolidayLabel{},
		&models.AuditLog{},
	); errAutoMigrate != nil {
		return fmt.Errorf("db: migrate: %w", errAutoMigrate)
	}

	// ddl defines an index statement to apply.
	type ddl struct {
		name string // Human-readable name for error reporting.
		sql  string // SQL to execute.
	}
	ddls := []ddl{
		{
			name: "idx_audit_log_changed_at_id",
			sql: `
				CREATE INDEX IF NOT EXISTS idx_audit_log_changed_at_id
				ON audit_logs (changed_at DESC, id DESC)
			`,
		},
		{
			name: "idx_footfall_entries_entered_at",
			sql: `
				CREATE INDEX IF NOT EXISTS idx_footfall_entries_entered_at
				ON footfall_entries (entered_at)
			`,
		},
	}
	for _, item := range ddls {
		if errDDL := conn.Exec(item.sql).Error; errDDL != nil {
			return fmt.Errorf("db: create index %s: %w", item.name, errDDL)
		}
	}

	if errSeed := ensureDefaultSettings(conn); errSeed != nil {
		return errSeed
	}
	if errSeed := ensureDefaultFloors(conn); errSeed != nil {
		return errSeed
	}
	if errSeed := ensureBootstrapAdmin(conn); errSeed != nil {
		return errSeed
	}
	return nil
}

// ensureDefaultSettings inserts missing setting keys with their defaults.
// Existing values are left alone so admin edits survive restarts.
func ensureDefaultSettings(conn *gorm.DB) error {
	for key, value := range internalsettings.Defaults {
		var count int64
		if errCount := conn.Model(&models.Setting{}).Where("key = ?", key).Count(&count).Error; errCount != nil {
			return fmt.Errorf("db: check setting %s: %w", key, errCount)
		}
		if count > 0 {
			continue
		}
		row := models.Setting{Key: key, Value: strconv.Itoa(value)}
		if errCreate := conn.Create(&row).Error; errCreate != nil {
			return fmt.Errorf("db: seed setting %s: %w", key, errCreate)
		}
	}
	return nil
}

// ensureDefaultFloors seeds the default floor list when none exist.
func ensureDefaultFloors(conn *gorm.DB) error {
	var count int64
	if errCount := conn.Model(&models.Floor{}).Count(&count).Error; errCount != nil {
		return fmt.Errorf("db: count floors: %w", errCount)
	}
	if count > 0 {
		return nil
	}
	for _, floor := range DefaultFloors {
		row := floor
		if errCreate := conn.Create(&row).Error; errCreate != nil {
			return fmt.Errorf("db: seed floor %s: %w", floor.Name, errCreate)
		}
	}
	return nil
}

// ensureBootstrapAdmin creates the default admin account when the users
// table is empty.
func ensureBootstrapAdmin(conn *gorm.DB) error {
	var count int64
	if errCount := conn.Model(&models.User{}).Count(&count).Error; errCount != nil {
		return fmt.Errorf("db: count users: %w", errCount)
	}
	if count > 0 {
		return nil
	}
	hash, errHash := security.HashPassword(bootstrapAdminPassword)
	if errHash != nil {
		return fmt.Errorf("db: hash bootstrap password: %w", errHash)
	}
	admin := models.User{
		Username:     bootstrapAdminUsername,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		FullName:     "Administrator",
		Active:       true,
	}
	if errCreate := conn.Create(&admin).Error; errCreate != nil {
		return fmt.Errorf("db: seed admin: %w", errCreate)
	}
	return nil
}
