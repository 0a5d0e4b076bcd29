// Package backup manages file copies of the SQLite database: timestamped
// snapshots, restore, and retention cleanup.
package backup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/akshathkarthikn/footfall-tracker/internal/db"
)

// prefix and suffix frame every backup file name:
// footfall_YYYYMMDD_HHMMSS.db.
const (
	prefix = "footfall_"
	suffix = ".db"
)

// stampLayout is the timestamp embedded in backup file names.
const stampLayout = "20060102_150405"

// Manager copies the database file in and out of the backups directory.
type Manager struct {
	dataDir string
}

// NewManager constructs a backup manager over a data directory.
func NewManager(dataDir string) *Manager {
	return &Manager{dataDir: dataDir}
}

// Dir returns the backups directory path.
func (m *Manager) Dir() string {
	return filepath.Join(m.dataDir, "backups")
}

// Info describes one backup file.
type Info struct {
	Name      string    `json:"name"`       // File name, footfall_YYYYMMDD_HHMMSS.db.
	SizeBytes int64     `json:"size_bytes"` // File size.
	CreatedAt time.Time `json:"created_at"` // Timestamp parsed from the name.
}

// Create copies the live database file into the backups directory under a
// timestamped name. WAL and SHM companion files are copied alongside when
// present so the snapshot includes unmerged WAL pages.
func (m *Manager) Create() (Info, error) {
	src := db.Path(m.dataDir)
	stat, errStat := os.Stat(src)
	if errStat != nil {
		return Info{}, fmt.Errorf("backup: stat database: %w", errStat)
	}
	if errMkdir := os.MkdirAll(m.Dir(), 0o755); errMkdir != nil {
		return Info{}, fmt.Errorf("backup: create backups dir: %w", errMkdir)
	}

	now := time.Now().UTC()
	name := prefix + now.Format(stampLayout) + suffix
	dst := filepath.Join(m.Dir(), name)
	if errCopy := copyFile(src, dst); errCopy != nil {
		return Info{}, errCopy
	}
	for _, companion := range []string{"-wal", "-shm"} {
		if _, errComp := os.Stat(src + companion); errComp != nil {
			continue
		}
		if errCopy := copyFile(src+companion, dst+companion); errCopy != nil {
			return Info{}, errCopy
		}
	}

	return Info{Name: name, SizeBytes: stat.Size(), CreatedAt: now}, nil
}

// List returns available backups newest-first. Files not matching the
// backup naming scheme are ignored.
func (m *Manager) List() ([]Info, error) {
	dirEntries, errRead := os.ReadDir(m.Dir())
	if errRead != nil {
		if os.IsNotExist(errRead) {
			return nil, nil
		}
		return nil, fmt.Errorf("backup: read backups dir: %w", errRead)
	}

	var out []Info
	for _, de := range dirEntries {
		name := de.Name()
		if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, suffix) {
			continue
		}
		stamp := strings.TrimSuffix(strings.TrimPrefix(name, prefix), suffix)
		createdAt, errParse := time.Parse(stampLayout, stamp)
		if errParse != nil {
			continue
		}
		info, errInfo := de.Info()
		if errInfo != nil {
			return nil, fmt.Errorf("backup: stat %s: %w", name, errInfo)
		}
		out = append(out, Info{Name: name, SizeBytes: info.Size(), CreatedAt: createdAt.UTC()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Restore replaces the live database file with the named backup. The caller
// must close all database connections first; restoring under an open
// connection corrupts the WAL.
func (m *Manager) Restore(name string) error {
	if filepath.Base(name) != name {
		return fmt.Errorf("backup: invalid backup name %q", name)
	}
	src := filepath.Join(m.Dir(), name)
	if _, errStat := os.Stat(src); errStat != nil {
		return fmt.Errorf("backup: stat backup: %w", errStat)
	}

	dst := db.Path(m.dataDir)
	// Stale WAL or SHM files from the previous database must not survive
	// the restore.
	for _, companion := range []string{"-wal", "-shm"} {
		if errRemove := os.Remove(dst + companion); errRemove != nil && !os.IsNotExist(errRemove) {
			return fmt.Errorf("backup: remove %s: %w", dst+companion, errRemove)
		}
	}
	if errCopy := copyFile(src, dst); errCopy != nil {
		return errCopy
	}
	for _, companion := range []string{"-wal", "-shm"} {
		if _, errStat := os.Stat(src + companion); errStat != nil {
			continue
		}
		if errCopy := copyFile(src+companion, dst+companion); errCopy != nil {
			return errCopy
		}
	}
	return nil
}

// Cleanup deletes all but the keep newest backups and returns how many were
// removed. keep <= 0 removes nothing.
func (m *Manager) Cleanup(keep int) (int, error) {
	if keep <= 0 {
		return 0, nil
	}
	backups, err := m.List()
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, info := range backups[min(keep, len(backups)):] {
		base := filepath.Join(m.Dir(), info.Name)
		if errRemove := os.Remove(base); errRemove != nil {
			return removed, fmt.Errorf("backup: remove %s: %w", info.Name, errRemove)
		}
		for _, companion := range []string{"-wal", "-shm"} {
			if errRemove := os.Remove(base + companion); errRemove != nil && !os.IsNotExist(errRemove) {
				return removed, fmt.Errorf("backup: remove %s: %w", info.Name+companion, errRemove)
			}
		}
		removed++
	}
	return removed, nil
}

// DatabaseSize returns the size of the live database file in bytes, 0 when
// it does not exist yet.
func (m *Manager) DatabaseSize() (int64, error) {
	stat, errStat := os.Stat(db.Path(m.dataDir))
	if errStat != nil {
		if os.IsNotExist(errStat) {
			return 0, nil
		}
		return 0, fmt.Errorf("backup: stat database: %w", errStat)
	}
	return stat.Size(), nil
}

func copyFile(src, dst string) error {
	in, errOpen := os.Open(src)
	if errOpen != nil {
		return fmt.Errorf("backup: open %s: %w", src, errOpen)
	}
	defer in.Close()

	out, errCreate := os.Create(dst)
	if errCreate != nil {
		return fmt.Errorf("backup: create %s: %w", dst, errCreate)
	}
	if _, errCopy := io.Copy(out, in); errCopy != nil {
		out.Close()
		return fmt.Errorf("backup: copy to %s: %w", dst, errCopy)
	}
	if errClose := out.Close(); errClose != nil {
		return fmt.Errorf("backup: close %s: %w", dst, errClose)
	}
	return nil
}
