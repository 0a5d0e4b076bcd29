package db

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultFileName is the database file name under the data directory.
const DefaultFileName = "footfall.db"

// Path returns the database file path for a data directory.
func Path(dataDir string) string {
	return filepath.Join(dataDir, DefaultFileName)
}

// Open opens the SQLite database file, creating the data directory when
// missing, and applies the pragmas the store relies on for concurrent LAN
// access: WAL journaling and a bounded busy wait on the write lock.
func Open(dataDir string) (*gorm.DB, error) {
	if errMkdir := os.MkdirAll(dataDir, 0o755); errMkdir != nil {
		return nil, fmt.Errorf("db: create data dir: %w", errMkdir)
	}

	conn, err := gorm.Open(sqlite.Open(Path(dataDir)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("db: open: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA cache_size=-64000",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if errExec := conn.Exec(pragma).Error; errExec != nil {
			return nil, fmt.Errorf("db: apply %q: %w", pragma, errExec)
		}
	}

	return conn, nil
}
