package handlers

import (
	"net/http"
	"strings"

	"github.com/akshathkarthikn/footfall-tracker/internal/auth"
	"github.com/akshathkarthikn/footfall-tracker/internal/models"
	"github.com/akshathkarthikn/footfall-tracker/internal/validate"
	"github.com/gin-gonic/gin"
)

// UserHandler manages user account admin endpoints.
type UserHandler struct {
	auth *auth.Service
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(authSvc *auth.Service) *UserHandler {
	return &UserHandler{auth: authSvc}
}

// List returns all accounts.
func (h *UserHandler) List(c *gin.Context) {
	users, errList := h.auth.ListUsers(c.Request.Context())
	if errList != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list users failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// createUserRequest defines the request body for account creation.
type createUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
	FullName string `json:"full_name"`
}

// Create adds an account. The role defaults to entry.
func (h *UserHandler) Create(c *gin.Context) {
	var body createUserRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	username := strings.TrimSpace(body.Username)
	if ok, msg := validate.Username(username); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	if ok, msg := validate.Password(body.Password); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	role := strings.TrimSpace(body.Role)
	if role == "" {
		role = models.RoleEntry
	}

	user, errCreate := h.auth.CreateUser(c.Request.Context(), username, body.Password, role, strings.TrimSpace(body.FullName))
	if errCreate != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errCreate.Error()})
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Disable deactivates an account. Admins cannot disable themselves, so at
// least one working admin login always remains.
func (h *UserHandler) Disable(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if actor := currentUser(c); actor != nil && actor.ID == id {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot disable your own account"})
		return
	}
	if errSet := h.auth.SetActive(c.Request.Context(), id, false); errSet != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "disable user failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Enable reactivates an account.
func (h *UserHandler) Enable(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if errSet := h.auth.SetActive(c.Request.Context(), id, true); errSet != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "enable user failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// resetPasswordRequest defines the request body for an admin password
// reset.
type resetPasswordRequest struct {
	NewPassword string `json:"new_password"`
}

// ResetPassword replaces another user's password.
func (h *UserHandler) ResetPassword(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var body resetPasswordRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if okPwd, msg := validate.Password(body.NewPassword); !okPwd {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	if errChange := h.auth.ChangePassword(c.Request.Context(), id, body.NewPassword); errChange != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reset password failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
