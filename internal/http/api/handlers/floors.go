package handlers

import (
	"net/http"
	"strings"

	"github.com/akshathkarthikn/footfall-tracker/internal/models"
	"github.com/akshathkarthikn/footfall-tracker/internal/validate"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// FloorHandler manages floor endpoints.
type FloorHandler struct {
	db *gorm.DB
}

// NewFloorHandler constructs a FloorHandler.
func NewFloorHandler(db *gorm.DB) *FloorHandler {
	return &FloorHandler{db: db}
}

// List returns floors ordered by display position. active=true limits to
// active floors.
func (h *FloorHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Model(&models.Floor{})
	if strings.TrimSpace(c.Query("active")) == "true" {
		q = q.Where("active = ?", true)
	}
	var rows []models.Floor
	if errFind := q.Order("display_order ASC").Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list floors failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"floors": rows})
}

// createFloorRequest defines the request body for floor creation.
type createFloorRequest struct {
	Name         string `json:"name"`
	DisplayOrder int    `json:"display_order"`
}

// Create adds a floor.
func (h *FloorHandler) Create(c *gin.Context) {
	var body createFloorRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	name := strings.TrimSpace(body.Name)
	if ok, msg := validate.FloorName(name); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	var count int64
	if errCount := h.db.WithContext(c.Request.Context()).Model(&models.Floor{}).
		Where("name = ?", name).Count(&count).Error; errCount != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create floor failed"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "floor name already exists"})
		return
	}

	floor := models.Floor{Name: name, DisplayOrder: body.DisplayOrder, Active: true}
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&floor).Error; errCreate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create floor failed"})
		return
	}
	c.JSON(http.StatusCreated, floor)
}

// updateFloorRequest defines the request body for a floor update.
type updateFloorRequest struct {
	Name         *string `json:"name"`
	DisplayOrder *int    `json:"display_order"`
	Active       *bool   `json:"active"`
}

// Update changes a floor's name, position, or active flag. Deactivation is
// the only removal path; floors with entries are never hard-deleted so
// historical aggregations keep resolving.
func (h *FloorHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var body updateFloorRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	updates := map[string]any{}
	if body.Name != nil {
		name := strings.TrimSpace(*body.Name)
		if okName, msg := validate.FloorName(name); !okName {
			c.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}
		updates["name"] = name
	}
	if body.DisplayOrder != nil {
		updates["display_order"] = *body.DisplayOrder
	}
	if body.Active != nil {
		updates["active"] = *body.Active
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}

	res := h.db.WithContext(c.Request.Context()).Model(&models.Floor{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update floor failed"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "floor not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
