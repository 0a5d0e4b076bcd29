package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/akshathkarthikn/footfall-tracker/internal/auth"
	"github.com/akshathkarthikn/footfall-tracker/internal/entry"
	"github.com/akshathkarthikn/footfall-tracker/internal/models"
	"github.com/akshathkarthikn/footfall-tracker/internal/validate"
	"github.com/gin-gonic/gin"
)

// EntryHandler manages footfall entry endpoints.
type EntryHandler struct {
	entries   *entry.Service
	auth      *auth.Service
	validator *validate.Validator
}

// NewEntryHandler constructs an EntryHandler.
func NewEntryHandler(entries *entry.Service, authSvc *auth.Service, validator *validate.Validator) *EntryHandler {
	return &EntryHandler{entries: entries, auth: authSvc, validator: validator}
}

// List returns entries for a date, or for a start/end range.
func (h *EntryHandler) List(c *gin.Context) {
	var floorID uint64
	if raw := strings.TrimSpace(c.Query("floor_id")); raw != "" {
		parsed, errParse := strconv.ParseUint(raw, 10, 64)
		if errParse != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid floor_id"})
			return
		}
		floorID = parsed
	}

	var rows []models.FootfallEntry
	switch {
	case strings.TrimSpace(c.Query("date")) != "":
		date, ok := dateQuery(c, "date")
		if !ok {
			return
		}
		listed, errList := h.entries.ListForDate(c.Request.Context(), date, floorID)
		if errList != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list entries failed"})
			return
		}
		rows = listed
	default:
		start, ok := dateQuery(c, "start")
		if !ok {
			return
		}
		end, ok := dateQuery(c, "end")
		if !ok {
			return
		}
		listed, errList := h.entries.ListForRange(c.Request.Context(), start, end, floorID)
		if errList != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list entries failed"})
			return
		}
		rows = listed
	}
	c.JSON(http.StatusOK, gin.H{"entries": rows})
}

// Get returns one entry by ID.
func (h *EntryHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	row, errGet := h.entries.GetByID(c.Request.Context(), id)
	if errGet != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get entry failed"})
		return
	}
	if row == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "entry not found"})
		return
	}
	c.JSON(http.StatusOK, row)
}

// saveEntryRequest defines the request body for a single entry save.
type saveEntryRequest struct {
	Date     string `json:"date"`
	HourSlot int    `json:"hour_slot"`
	FloorID  uint64 `json:"floor_id"`
	Count    *int   `json:"count"`
	Notes    string `json:"notes"`
	Source   string `json:"source"`
}

// Save inserts or updates the entry for one (date, hour, floor) slot. The
// response carries the spike advisory; a flagged spike never blocks the
// write.
func (h *EntryHandler) Save(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	var body saveEntryRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	date, errDate := parseBodyDate(body.Date)
	if errDate != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}
	if body.HourSlot < 0 || body.HourSlot > 23 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid hour_slot"})
		return
	}

	ok, msg, errValidate := h.validator.Count(c.Request.Context(), body.Count)
	if errValidate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "validate count failed"})
		return
	}
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	existing, errGet := h.entries.Get(c.Request.Context(), date, body.HourSlot, body.FloorID)
	if errGet != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup entry failed"})
		return
	}
	if existing != nil {
		allowed, errWindow := h.auth.CanEditEntry(c.Request.Context(), user, existing.EnteredAt)
		if errWindow != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "edit window check failed"})
			return
		}
		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{"error": "entry is outside the edit window"})
			return
		}
	}

	previous, errPrev := h.entries.PreviousHourCount(c.Request.Context(), date, body.HourSlot, body.FloorID)
	if errPrev != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "spike check failed"})
		return
	}
	spike, percentChange, errSpike := h.validator.DetectSpike(c.Request.Context(), *body.Count, previous)
	if errSpike != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "spike check failed"})
		return
	}

	updated, errSave := h.entries.Save(c.Request.Context(), entry.SaveParams{
		Date:     date,
		HourSlot: body.HourSlot,
		FloorID:  body.FloorID,
		Count:    *body.Count,
		ActorID:  user.ID,
		Notes:    body.Notes,
		Source:   body.Source,
	})
	if errSave != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save entry failed"})
		return
	}

	status := http.StatusCreated
	if updated {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{
		"updated": updated,
		"spike": gin.H{
			"flagged":        spike,
			"percent_change": percentChange,
		},
	})
}

// bulkSaveRequest defines the request body for a grid save.
type bulkSaveRequest struct {
	Date  string `json:"date"`
	Items []struct {
		HourSlot int    `json:"hour_slot"`
		FloorID  uint64 `json:"floor_id"`
		Count    *int   `json:"count"`
		Notes    string `json:"notes"`
	} `json:"items"`
}

// SaveBulk saves a grid of entries for one date. Items fail independently;
// per-item errors come back alongside the saved/updated counts.
func (h *EntryHandler) SaveBulk(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	var body bulkSaveRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	date, errDate := parseBodyDate(body.Date)
	if errDate != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}

	params := make([]entry.SaveParams, 0, len(body.Items))
	var errs []string
	for _, item := range body.Items {
		ok, msg, errValidate := h.validator.Count(c.Request.Context(), item.Count)
		if errValidate != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "validate count failed"})
			return
		}
		if !ok {
			errs = append(errs, fmt.Sprintf("Error saving entry for floor %d, hour %d: %s", item.FloorID, item.HourSlot, msg))
			continue
		}
		params = append(params, entry.SaveParams{
			Date:     date,
			HourSlot: item.HourSlot,
			FloorID:  item.FloorID,
			Count:    *item.Count,
			Notes:    item.Notes,
		})
	}

	saved, updated, saveErrs := h.entries.SaveBulk(c.Request.Context(), params, user.ID)
	errs = append(errs, saveErrs...)
	c.JSON(http.StatusOK, gin.H{
		"saved":   saved,
		"updated": updated,
		"errors":  errs,
	})
}

// Delete removes one entry by ID.
func (h *EntryHandler) Delete(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	existing, errGet := h.entries.GetByID(c.Request.Context(), id)
	if errGet != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup entry failed"})
		return
	}
	if existing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "entry not found"})
		return
	}
	allowed, errWindow := h.auth.CanEditEntry(c.Request.Context(), user, existing.EnteredAt)
	if errWindow != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "edit window check failed"})
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "entry is outside the edit window"})
		return
	}

	deleted, errDelete := h.entries.Delete(c.Request.Context(), id, user.ID)
	if errDelete != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete entry failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

// MissingSlots returns the (floor, hour) combinations without an entry on a
// date.
func (h *EntryHandler) MissingSlots(c *gin.Context) {
	date, ok := dateQuery(c, "date")
	if !ok {
		return
	}
	missing, errList := h.entries.MissingSlots(c.Request.Context(), date)
	if errList != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "missing slots failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"missing": missing})
}
