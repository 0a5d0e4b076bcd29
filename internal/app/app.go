// Package app boots the server: it opens the database, runs migrations,
// builds the services, and serves the HTTP API.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/akshathkarthikn/footfall-tracker/internal/auth"
	"github.com/akshathkarthikn/footfall-tracker/internal/backup"
	"github.com/akshathkarthikn/footfall-tracker/internal/compare"
	"github.com/akshathkarthikn/footfall-tracker/internal/config"
	"github.com/akshathkarthikn/footfall-tracker/internal/db"
	"github.com/akshathkarthikn/footfall-tracker/internal/entry"
	"github.com/akshathkarthikn/footfall-tracker/internal/export"
	"github.com/akshathkarthikn/footfall-tracker/internal/http/api"
	"github.com/akshathkarthikn/footfall-tracker/internal/metrics"
	"github.com/akshathkarthikn/footfall-tracker/internal/settings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Migrate opens the database and runs migrations and seeding, then exits.
func Migrate(ctx context.Context, cfg config.Config) error {
	conn, err := db.Open(cfg.DataDir)
	if err != nil {
		return err
	}
	return db.Migrate(conn)
}

// Backup opens the data directory and writes one database snapshot.
func Backup(cfg config.Config) error {
	manager := backup.NewManager(cfg.DataDir)
	info, err := manager.Create()
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{"name": info.Name, "size_bytes": info.SizeBytes}).Info("backup created")
	if _, errCleanup := manager.Cleanup(cfg.BackupKeep); errCleanup != nil {
		return errCleanup
	}
	return nil
}

// RunServer boots the HTTP API and blocks until ctx is cancelled.
func RunServer(ctx context.Context, cfg config.Config) error {
	if cfg.JWT.Secret == "" {
		return fmt.Errorf("app: JWT secret is not configured (set %s)", config.EnvJWTSecret)
	}

	conn, err := db.Open(cfg.DataDir)
	if err != nil {
		return err
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return errMigrate
	}

	settingsStore := settings.NewStore(conn)
	entrySvc := entry.NewService(conn, settingsStore)
	metricsSvc := metrics.NewService(entrySvc, settingsStore)
	compareSvc := compare.NewService(entrySvc, metricsSvc, settingsStore)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	api.RegisterRoutes(r, api.Services{
		DB:       conn,
		Settings: settingsStore,
		Auth:     auth.NewService(conn, settingsStore),
		Entries:  entrySvc,
		Metrics:  metricsSvc,
		Compare:  compareSvc,
		Export:   export.NewService(entrySvc),
		Backups:  backup.NewManager(cfg.DataDir),
		JWT:      cfg.JWT,
	})

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.ListenAddr).Info("server listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if errShutdown := server.Shutdown(shutdownCtx); errShutdown != nil {
			return fmt.Errorf("app: shutdown: %w", errShutdown)
		}
		return nil
	case errServe := <-errCh:
		if errors.Is(errServe, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("app: serve: %w", errServe)
	}
}
