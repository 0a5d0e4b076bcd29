package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/akshathkarthikn/footfall-tracker/internal/audit"
	"github.com/akshathkarthikn/footfall-tracker/internal/dates"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuditHandler serves the audit log admin endpoints.
type AuditHandler struct {
	db *gorm.DB
}

// NewAuditHandler constructs an AuditHandler.
func NewAuditHandler(db *gorm.DB) *AuditHandler {
	return &AuditHandler{db: db}
}

// List returns audit records newest-first with optional filters: table,
// record_id, user_id, start, end, limit.
func (h *AuditHandler) List(c *gin.Context) {
	filter := audit.Filter{TableName: strings.TrimSpace(c.Query("table"))}

	if raw := strings.TrimSpace(c.Query("record_id")); raw != "" {
		id, errParse := strconv.ParseUint(raw, 10, 64)
		if errParse != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid record_id"})
			return
		}
		filter.RecordID = id
	}
	if raw := strings.TrimSpace(c.Query("user_id")); raw != "" {
		id, errParse := strconv.ParseUint(raw, 10, 64)
		if errParse != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
			return
		}
		filter.UserID = id
	}
	if raw := strings.TrimSpace(c.Query("start")); raw != "" {
		d, errParse := dates.Parse(raw)
		if errParse != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start"})
			return
		}
		filter.Start = &d
	}
	if raw := strings.TrimSpace(c.Query("end")); raw != "" {
		d, errParse := dates.Parse(raw)
		if errParse != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end"})
			return
		}
		// End of day so the bound is inclusive of the whole date.
		bound := d.Add(24*time.Hour - time.Nanosecond)
		filter.End = &bound
	}

	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		parsed, errParse := strconv.Atoi(raw)
		if errParse != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	rows, errList := audit.List(c.Request.Context(), h.db, filter, limit)
	if errList != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list audit log failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": rows})
}

// EntryHistory returns the full audit trail for one footfall entry.
func (h *AuditHandler) EntryHistory(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	rows, errList := audit.EntryHistory(c.Request.Context(), h.db, id)
	if errList != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "entry history failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": rows})
}
