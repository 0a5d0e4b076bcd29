package db

import (
	"testing"

	"github.com/akshathkarthikn/footfall-tracker/internal/models"
	"github.com/akshathkarthikn/footfall-tracker/internal/security"
	internalsettings "github.com/akshathkarthikn/footfall-tracker/internal/settings"
)

func TestMigrate_SeedsDefaults(t *testing.T) {
	conn, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if errMigrate := Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}

	var floorCount int64
	if errCount := conn.Model(&models.Floor{}).Count(&floorCount).Error; errCount != nil {
		t.Fatalf("count floors: %v", errCount)
	}
	if floorCount != int64(len(DefaultFloors)) {
		t.Fatalf("floors = %d, want %d", floorCount, len(DefaultFloors))
	}

	var settingCount int64
	if errCount := conn.Model(&models.Setting{}).Count(&settingCount).Error; errCount != nil {
		t.Fatalf("count settings: %v", errCount)
	}
	if settingCount != int64(len(internalsettings.Defaults)) {
		t.Fatalf("settings = %d, want %d", settingCount, len(internalsettings.Defaults))
	}

	var admin models.User
	if errFind := conn.First(&admin).Error; errFind != nil {
		t.Fatalf("find admin: %v", errFind)
	}
	if !admin.IsAdmin() || admin.Username != "admin" {
		t.Fatalf("bootstrap admin = %+v", admin)
	}
	if !security.CheckPassword("admin123", admin.PasswordHash) {
		t.Fatalf("bootstrap password mismatch")
	}
}

func TestMigrate_IdempotentAndPreservesEdits(t *testing.T) {
	dataDir := t.TempDir()
	conn, err := Open(dataDir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if errMigrate := Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}

	// An admin edit to a setting must survive a re-migration.
	if errUpdate := conn.Model(&models.Setting{}).
		Where("key = ?", internalsettings.ClosingHourKey).
		Update("value", "22").Error; errUpdate != nil {
		t.Fatalf("update setting: %v", errUpdate)
	}

	if errMigrate := Migrate(conn); errMigrate != nil {
		t.Fatalf("re-migrate: %v", errMigrate)
	}

	var row models.Setting
	if errFind := conn.Where("key = ?", internalsettings.ClosingHourKey).First(&row).Error; errFind != nil {
		t.Fatalf("find setting: %v", errFind)
	}
	if row.Value != "22" {
		t.Fatalf("setting reverted to %q", row.Value)
	}

	var userCount int64
	if errCount := conn.Model(&models.User{}).Count(&userCount).Error; errCount != nil {
		t.Fatalf("count users: %v", errCount)
	}
	if userCount != 1 {
		t.Fatalf("users after re-migrate = %d, want 1", userCount)
	}
}
