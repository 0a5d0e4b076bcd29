package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DataDir != DefaultDataDir {
		t.Fatalf("data dir = %q", cfg.DataDir)
	}
	if cfg.ListenAddr != DefaultListenAddr {
		t.Fatalf("listen addr = %q", cfg.ListenAddr)
	}
	if cfg.JWT.Expiry != DefaultJWTExpiry {
		t.Fatalf("jwt expiry = %v", cfg.JWT.Expiry)
	}
	if cfg.BackupKeep != DefaultBackupKeep {
		t.Fatalf("backup keep = %d", cfg.BackupKeep)
	}
}

func TestLoad_ReadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
data-dir: /var/lib/footfall
listen-addr: ":9090"
backup-keep: 10
jwt:
  secret: file-secret
  expiry: 24h
`
	if errWrite := os.WriteFile(path, []byte(content), 0o644); errWrite != nil {
		t.Fatalf("write config: %v", errWrite)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DataDir != "/var/lib/footfall" || cfg.ListenAddr != ":9090" || cfg.BackupKeep != 10 {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.JWT.Secret != "file-secret" || cfg.JWT.Expiry != 24*time.Hour {
		t.Fatalf("jwt = %+v", cfg.JWT)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if errWrite := os.WriteFile(path, []byte("jwt:\n  secret: file-secret\n"), 0o644); errWrite != nil {
		t.Fatalf("write config: %v", errWrite)
	}

	t.Setenv(EnvJWTSecret, "env-secret")
	t.Setenv(EnvJWTExpiry, "1h")
	t.Setenv(EnvDataDir, "/tmp/override")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.JWT.Secret != "env-secret" {
		t.Fatalf("secret = %q", cfg.JWT.Secret)
	}
	if cfg.JWT.Expiry != time.Hour {
		t.Fatalf("expiry = %v", cfg.JWT.Expiry)
	}
	if cfg.DataDir != "/tmp/override" {
		t.Fatalf("data dir = %q", cfg.DataDir)
	}
}

func TestLoad_RejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if errWrite := os.WriteFile(path, []byte(":\n\t- bad"), 0o644); errWrite != nil {
		t.Fatalf("write config: %v", errWrite)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("malformed yaml accepted")
	}
}

func TestResolveConfigPath(t *testing.T) {
	got := ResolveConfigPath("  ")
	if got == "" {
		t.Fatalf("empty resolution")
	}
	if !filepath.IsAbs(got) {
		t.Fatalf("resolved path not absolute: %q", got)
	}
}
