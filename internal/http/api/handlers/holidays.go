package handlers

import (
	"net/http"
	"strings"

	"github.com/akshathkarthikn/footfall-tracker/internal/dates"
	"github.com/akshathkarthikn/footfall-tracker/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HolidayHandler manages holiday label endpoints.
type HolidayHandler struct {
	db *gorm.DB
}

// NewHolidayHandler constructs a HolidayHandler.
func NewHolidayHandler(db *gorm.DB) *HolidayHandler {
	return &HolidayHandler{db: db}
}

// List returns holiday labels, optionally limited to one year.
func (h *HolidayHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Model(&models.HolidayLabel{})
	if year := strings.TrimSpace(c.Query("year")); year != "" {
		q = q.Where("date LIKE ?", year+"-%")
	}
	var rows []models.HolidayLabel
	if errFind := q.Order("date ASC").Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list holidays failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"holidays": rows})
}

// createHolidayRequest defines the request body for holiday creation.
type createHolidayRequest struct {
	Date        string `json:"date"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// Create labels a date. One label per date; a second label for the same
// date is rejected.
func (h *HolidayHandler) Create(c *gin.Context) {
	var body createHolidayRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	date, errDate := dates.Parse(strings.TrimSpace(body.Date))
	if errDate != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}
	label := strings.TrimSpace(body.Label)
	if label == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing label"})
		return
	}

	var count int64
	if errCount := h.db.WithContext(c.Request.Context()).Model(&models.HolidayLabel{}).
		Where("date = ?", dates.Format(date)).Count(&count).Error; errCount != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create holiday failed"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "date already has a label"})
		return
	}

	row := models.HolidayLabel{Date: dates.Format(date), Label: label, Description: strings.TrimSpace(body.Description)}
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&row).Error; errCreate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create holiday failed"})
		return
	}
	c.JSON(http.StatusCreated, row)
}

// Delete removes a holiday label.
func (h *HolidayHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	res := h.db.WithContext(c.Request.Context()).Delete(&models.HolidayLabel{}, id)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete holiday failed"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "holiday not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
