// Package handlers implements the HTTP endpoint handlers. Each handler
// struct wraps the services it needs and is wired by the router.
package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/akshathkarthikn/footfall-tracker/internal/dates"
	"github.com/akshathkarthikn/footfall-tracker/internal/models"
	"github.com/gin-gonic/gin"
)

// Context keys populated by the auth middleware.
const (
	CtxUser = "user" // *models.User of the authenticated caller.
)

// currentUser returns the authenticated user loaded by the middleware.
func currentUser(c *gin.Context) *models.User {
	value, ok := c.Get(CtxUser)
	if !ok {
		return nil
	}
	user, _ := value.(*models.User)
	return user
}

// dateQuery parses a required YYYY-MM-DD query parameter, writing a 400 on
// failure.
func dateQuery(c *gin.Context, name string) (time.Time, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing " + name})
		return time.Time{}, false
	}
	d, err := dates.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return time.Time{}, false
	}
	return d, true
}

// parseBodyDate parses a YYYY-MM-DD date from a request body field.
func parseBodyDate(raw string) (time.Time, error) {
	return dates.Parse(strings.TrimSpace(raw))
}

// idParam parses a numeric :id path parameter, writing a 400 on failure.
func idParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

// floorFilterQuery parses an optional comma-separated floors query
// parameter into floor IDs. Empty means all floors.
func floorFilterQuery(c *gin.Context) ([]uint64, bool) {
	raw := strings.TrimSpace(c.Query("floors"))
	if raw == "" {
		return nil, true
	}
	parts := strings.Split(raw, ",")
	ids := make([]uint64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if err != nil || id == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid floors"})
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}
