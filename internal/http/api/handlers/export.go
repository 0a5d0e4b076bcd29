package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/akshathkarthikn/footfall-tracker/internal/export"
	"github.com/gin-gonic/gin"
)

// ExportHandler serves CSV download endpoints.
type ExportHandler struct {
	export *export.Service
}

// NewExportHandler constructs an ExportHandler.
func NewExportHandler(exportSvc *export.Service) *ExportHandler {
	return &ExportHandler{export: exportSvc}
}

// Entries streams the raw entries CSV for a range.
func (h *ExportHandler) Entries(c *gin.Context) {
	start, ok := dateQuery(c, "start")
	if !ok {
		return
	}
	end, ok := dateQuery(c, "end")
	if !ok {
		return
	}
	var floorID uint64
	if raw := strings.TrimSpace(c.Query("floor_id")); raw != "" {
		parsed, errParse := strconv.ParseUint(raw, 10, 64)
		if errParse != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid floor_id"})
			return
		}
		floorID = parsed
	}

	setCSVHeaders(c, export.Filename("footfall", start, end))
	if errExport := h.export.Entries(c.Request.Context(), c.Writer, start, end, floorID); errExport != nil {
		c.Status(http.StatusInternalServerError)
	}
}

// Summary streams the period summary CSV for a range.
func (h *ExportHandler) Summary(c *gin.Context) {
	start, ok := dateQuery(c, "start")
	if !ok {
		return
	}
	end, ok := dateQuery(c, "end")
	if !ok {
		return
	}
	setCSVHeaders(c, export.Filename("footfall_summary", start, end))
	if errExport := h.export.Summary(c.Request.Context(), c.Writer, start, end); errExport != nil {
		c.Status(http.StatusInternalServerError)
	}
}

// MissingSlots streams the missing-slot report CSV for a range.
func (h *ExportHandler) MissingSlots(c *gin.Context) {
	start, ok := dateQuery(c, "start")
	if !ok {
		return
	}
	end, ok := dateQuery(c, "end")
	if !ok {
		return
	}
	setCSVHeaders(c, export.Filename("footfall_missing", start, end))
	if errExport := h.export.MissingSlots(c.Request.Context(), c.Writer, start, end); errExport != nil {
		c.Status(http.StatusInternalServerError)
	}
}

func setCSVHeaders(c *gin.Context, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
}
