package handlers

import (
	"net/http"
	"strings"

	"github.com/akshathkarthikn/footfall-tracker/internal/audit"
	"github.com/akshathkarthikn/footfall-tracker/internal/backup"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// resetConfirmation must be sent verbatim to run the data reset.
const resetConfirmation = "RESET"

// AdminHandler serves the destructive and maintenance admin endpoints.
type AdminHandler struct {
	db      *gorm.DB
	backups *backup.Manager
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(db *gorm.DB, backups *backup.Manager) *AdminHandler {
	return &AdminHandler{db: db, backups: backups}
}

// resetRequest defines the request body for the data reset.
type resetRequest struct {
	Confirm string `json:"confirm"`
}

// Reset wipes all footfall entries and the audit log. Requires the literal
// confirmation string; users, floors, and settings survive.
func (h *AdminHandler) Reset(c *gin.Context) {
	var body resetRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(body.Confirm) != resetConfirmation {
		c.JSON(http.StatusBadRequest, gin.H{"error": "confirmation mismatch"})
		return
	}

	entriesDeleted, logsDeleted, errReset := audit.ResetData(c.Request.Context(), h.db)
	if errReset != nil {
		log.WithError(errReset).Error("data reset failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reset failed"})
		return
	}
	fields := log.Fields{
		"entries_deleted": entriesDeleted,
		"logs_deleted":    logsDeleted,
	}
	if actor := currentUser(c); actor != nil {
		fields["admin_id"] = actor.ID
	}
	log.WithFields(fields).Warn("data reset executed")
	c.JSON(http.StatusOK, gin.H{
		"entries_deleted": entriesDeleted,
		"logs_deleted":    logsDeleted,
	})
}

// CreateBackup snapshots the database file.
func (h *AdminHandler) CreateBackup(c *gin.Context) {
	info, errCreate := h.backups.Create()
	if errCreate != nil {
		log.WithError(errCreate).Error("backup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "backup failed"})
		return
	}
	c.JSON(http.StatusCreated, info)
}

// ListBackups returns available backups newest-first.
func (h *AdminHandler) ListBackups(c *gin.Context) {
	backups, errList := h.backups.List()
	if errList != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list backups failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"backups": backups})
}

// restoreRequest defines the request body for a backup restore.
type restoreRequest struct {
	Name string `json:"name"`
}

// RestoreBackup overwrites the live database with a named backup. Callers
// should stop writes first; the server keeps running on the restored file.
func (h *AdminHandler) RestoreBackup(c *gin.Context) {
	var body restoreRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(body.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	if errRestore := h.backups.Restore(body.Name); errRestore != nil {
		log.WithError(errRestore).WithField("backup", body.Name).Error("restore failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "restore failed"})
		return
	}
	fields := log.Fields{"backup": body.Name}
	if actor := currentUser(c); actor != nil {
		fields["admin_id"] = actor.ID
	}
	log.WithFields(fields).Warn("database restored from backup")
	c.JSON(http.StatusOK, gin.H{"restored": body.Name})
}

// cleanupRequest defines the request body for backup cleanup.
type cleanupRequest struct {
	Keep int `json:"keep"`
}

// CleanupBackups deletes all but the newest backups.
func (h *AdminHandler) CleanupBackups(c *gin.Context) {
	var body cleanupRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if body.Keep <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "keep must be positive"})
		return
	}
	removed, errCleanup := h.backups.Cleanup(body.Keep)
	if errCleanup != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cleanup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

// Storage returns the live database file size.
func (h *AdminHandler) Storage(c *gin.Context) {
	size, errSize := h.backups.DatabaseSize()
	if errSize != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage info failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"database_size_bytes": size})
}
