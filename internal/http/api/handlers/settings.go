package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/akshathkarthikn/footfall-tracker/internal/settings"
	"github.com/gin-gonic/gin"
)

// SettingHandler manages the settings admin endpoints.
type SettingHandler struct {
	settings *settings.Store
}

// NewSettingHandler constructs a SettingHandler.
func NewSettingHandler(store *settings.Store) *SettingHandler {
	return &SettingHandler{settings: store}
}

// List returns all settings.
func (h *SettingHandler) List(c *gin.Context) {
	rows, errList := h.settings.All(c.Request.Context())
	if errList != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list settings failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": rows})
}

// updateSettingRequest defines the request body for a setting update.
type updateSettingRequest struct {
	Value string `json:"value"`
}

// Update changes one setting value. Integer settings are range-checked;
// the opening hour must stay at or before the closing hour.
func (h *SettingHandler) Update(c *gin.Context) {
	key := strings.TrimSpace(c.Param("key"))
	if _, known := settings.Defaults[key]; !known {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown setting"})
		return
	}
	var body updateSettingRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	value := strings.TrimSpace(body.Value)
	parsed, errParse := strconv.Atoi(value)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "value must be an integer"})
		return
	}
	if msg, ok := h.checkRange(c, key, parsed); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	var updatedBy *uint64
	if user := currentUser(c); user != nil {
		updatedBy = &user.ID
	}
	if errSet := h.settings.Set(c.Request.Context(), key, value, updatedBy); errSet != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update setting failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// checkRange validates a new integer setting value against its key's
// bounds and the other operating-hour bound.
func (h *SettingHandler) checkRange(c *gin.Context, key string, value int) (string, bool) {
	switch key {
	case settings.OpeningHourKey, settings.ClosingHourKey:
		if value < 0 || value > 23 {
			return "hour must be between 0 and 23", false
		}
		opening, closing, errHours := h.settings.OperatingHours(c.Request.Context())
		if errHours != nil {
			return "update setting failed", false
		}
		if key == settings.OpeningHourKey && value > closing {
			return "opening hour must not be after closing hour", false
		}
		if key == settings.ClosingHourKey && value < opening {
			return "closing hour must not be before opening hour", false
		}
	case settings.WeekStartDayKey:
		if value < 0 || value > 6 {
			return "week start day must be between 0 and 6", false
		}
	case settings.SpikeThresholdPercentKey:
		if value <= 0 {
			return "spike threshold must be positive", false
		}
	case settings.MaxFootfallValueKey:
		if value <= 0 {
			return "max footfall value must be positive", false
		}
	case settings.EditWindowHoursKey:
		if value < 0 {
			return "edit window must not be negative", false
		}
	}
	return "", true
}
