package backup

import (
	"os"
	"testing"

	"github.com/akshathkarthikn/footfall-tracker/internal/db"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	dataDir := t.TempDir()
	if errWrite := os.WriteFile(db.Path(dataDir), []byte("database contents"), 0o644); errWrite != nil {
		t.Fatalf("write database: %v", errWrite)
	}
	return NewManager(dataDir)
}

func TestCreateAndList(t *testing.T) {
	m := newTestManager(t)

	info, err := m.Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if info.SizeBytes == 0 {
		t.Fatalf("backup size = 0")
	}

	backups, err := m.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(backups) != 1 || backups[0].Name != info.Name {
		t.Fatalf("backups = %+v", backups)
	}
}

func TestList_EmptyWhenNoBackupsDir(t *testing.T) {
	m := NewManager(t.TempDir())
	backups, err := m.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if backups != nil {
		t.Fatalf("backups = %v, want nil", backups)
	}
}

func TestRestore_ReplacesDatabase(t *testing.T) {
	dataDir := t.TempDir()
	if errWrite := os.WriteFile(db.Path(dataDir), []byte("good data"), 0o644); errWrite != nil {
		t.Fatalf("write database: %v", errWrite)
	}
	m := NewManager(dataDir)

	info, err := m.Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if errWrite := os.WriteFile(db.Path(dataDir), []byte("corrupted"), 0o644); errWrite != nil {
		t.Fatalf("overwrite database: %v", errWrite)
	}

	if errRestore := m.Restore(info.Name); errRestore != nil {
		t.Fatalf("Restore: %v", errRestore)
	}
	restored, errRead := os.ReadFile(db.Path(dataDir))
	if errRead != nil {
		t.Fatalf("read database: %v", errRead)
	}
	if string(restored) != "good data" {
		t.Fatalf("restored contents = %q", restored)
	}
}

func TestRestore_RejectsPathTraversal(t *testing.T) {
	m := newTestManager(t)
	if errRestore := m.Restore("../footfall.db"); errRestore == nil {
		t.Fatalf("path traversal accepted")
	}
}

func TestCleanup_KeepsNewest(t *testing.T) {
	m := newTestManager(t)

	// Backup names carry second precision; write the files directly so
	// three distinct snapshots exist without sleeping.
	if errMkdir := os.MkdirAll(m.Dir(), 0o755); errMkdir != nil {
		t.Fatalf("mkdir: %v", errMkdir)
	}
	names := []string{
		"footfall_20260824_090000.db",
		"footfall_20260824_100000.db",
		"footfall_20260824_110000.db",
	}
	for _, name := range names {
		if errWrite := os.WriteFile(m.Dir()+"/"+name, []byte("snapshot"), 0o644); errWrite != nil {
			t.Fatalf("write backup: %v", errWrite)
		}
	}

	removed, err := m.Cleanup(2)
	if err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}

	backups, err := m.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(backups) != 2 {
		t.Fatalf("remaining = %d, want 2", len(backups))
	}
	// The oldest snapshot is the one removed.
	for _, info := range backups {
		if info.Name == names[0] {
			t.Fatalf("oldest backup survived cleanup")
		}
	}
}

func TestDatabaseSize(t *testing.T) {
	m := NewManager(t.TempDir())
	size, err := m.DatabaseSize()
	if err != nil {
		t.Fatalf("DatabaseSize: %v", err)
	}
	if size != 0 {
		t.Fatalf("size without database = %d", size)
	}
}
