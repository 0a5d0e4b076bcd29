// Package config loads server configuration from a YAML file with
// environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables recognized by the loader. Each overrides its file
// counterpart when set.
const (
	EnvConfigPath = "FOOTFALL_CONFIG"
	EnvDataDir    = "FOOTFALL_DATA_DIR"
	EnvListenAddr = "FOOTFALL_LISTEN_ADDR"
	EnvJWTSecret  = "JWT_SECRET"
	EnvJWTExpiry  = "JWT_EXPIRY"
)

// Defaults applied when the file and environment are silent.
const (
	DefaultDataDir    = "./data"
	DefaultListenAddr = ":8080"
	DefaultJWTExpiry  = 12 * time.Hour
	DefaultBackupKeep = 30
)

// JWTConfig holds session token settings.
type JWTConfig struct {
	Secret string        `yaml:"secret"` // HMAC signing secret.
	Expiry time.Duration `yaml:"expiry"` // Token lifetime.
}

// Config is the resolved server configuration.
type Config struct {
	DataDir    string    `yaml:"data-dir"`    // Directory holding the database and backups.
	ListenAddr string    `yaml:"listen-addr"` // HTTP listen address.
	BackupKeep int       `yaml:"backup-keep"` // Backups retained by cleanup.
	JWT        JWTConfig `yaml:"jwt"`
}

// ResolveConfigPath normalizes a config path, falling back to the
// FOOTFALL_CONFIG variable and then ./config.yaml.
func ResolveConfigPath(p string) string {
	trimmed := strings.TrimSpace(p)
	if trimmed == "" {
		trimmed = strings.TrimSpace(os.Getenv(EnvConfigPath))
	}
	if trimmed == "" {
		trimmed = "./config.yaml"
	}
	if abs, err := filepath.Abs(trimmed); err == nil {
		return abs
	}
	return trimmed
}

// Load reads the YAML config file and applies environment overrides. A
// missing file is not an error; defaults and the environment then decide
// everything.
func Load(configPath string) (Config, error) {
	cfg := Config{
		DataDir:    DefaultDataDir,
		ListenAddr: DefaultListenAddr,
		BackupKeep: DefaultBackupKeep,
		JWT:        JWTConfig{Expiry: DefaultJWTExpiry},
	}

	data, errRead := os.ReadFile(configPath)
	if errRead == nil {
		if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", configPath, errUnmarshal)
		}
	} else if !os.IsNotExist(errRead) {
		return Config{}, fmt.Errorf("config: read %s: %w", configPath, errRead)
	}

	if dataDir := strings.TrimSpace(os.Getenv(EnvDataDir)); dataDir != "" {
		cfg.DataDir = dataDir
	}
	if addr := strings.TrimSpace(os.Getenv(EnvListenAddr)); addr != "" {
		cfg.ListenAddr = addr
	}
	if secret := strings.TrimSpace(os.Getenv(EnvJWTSecret)); secret != "" {
		cfg.JWT.Secret = secret
	}
	if expiryRaw := strings.TrimSpace(os.Getenv(EnvJWTExpiry)); expiryRaw != "" {
		if expiry, errParse := time.ParseDuration(expiryRaw); errParse == nil && expiry > 0 {
			cfg.JWT.Expiry = expiry
		}
	}

	if cfg.DataDir == "" {
		cfg.DataDir = DefaultDataDir
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = DefaultListenAddr
	}
	if cfg.BackupKeep <= 0 {
		cfg.BackupKeep = DefaultBackupKeep
	}
	if cfg.JWT.Expiry <= 0 {
		cfg.JWT.Expiry = DefaultJWTExpiry
	}
	return cfg, nil
}
