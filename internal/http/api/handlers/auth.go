package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/akshathkarthikn/footfall-tracker/internal/auth"
	"github.com/akshathkarthikn/footfall-tracker/internal/config"
	"github.com/akshathkarthikn/footfall-tracker/internal/security"
	"github.com/akshathkarthikn/footfall-tracker/internal/validate"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// AuthHandler manages login and self-service account endpoints.
type AuthHandler struct {
	auth   *auth.Service
	jwtCfg config.JWTConfig
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(authSvc *auth.Service, jwtCfg config.JWTConfig) *AuthHandler {
	return &AuthHandler{auth: authSvc, jwtCfg: jwtCfg}
}

// loginRequest defines the request body for login.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates a username/password pair and issues a session token.
func (h *AuthHandler) Login(c *gin.Context) {
	var body loginRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	user, errAuth := h.auth.Authenticate(c.Request.Context(), strings.TrimSpace(body.Username), body.Password)
	if errAuth != nil {
		if errors.Is(errAuth, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
			return
		}
		log.WithError(errAuth).Error("login failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	token, errToken := security.IssueUserToken(h.jwtCfg.Secret, user.ID, user.Username, user.Role, h.jwtCfg.Expiry)
	if errToken != nil {
		log.WithError(errToken).Error("issue token failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "issue token failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":        user.ID,
			"username":  user.Username,
			"role":      user.Role,
			"full_name": user.FullName,
		},
	})
}

// Me returns the authenticated caller's account.
func (h *AuthHandler) Me(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":         user.ID,
		"username":   user.Username,
		"role":       user.Role,
		"full_name":  user.FullName,
		"last_login": user.LastLogin,
	})
}

// changePasswordRequest defines the request body for a self password change.
type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangePassword changes the caller's own password after re-verifying the
// current one.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	var body changePasswordRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if ok, msg := validate.Password(body.NewPassword); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	if _, errAuth := h.auth.Authenticate(c.Request.Context(), user.Username, body.CurrentPassword); errAuth != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "current password is incorrect"})
		return
	}
	if errChange := h.auth.ChangePassword(c.Request.Context(), user.ID, body.NewPassword); errChange != nil {
		log.WithError(errChange).Error("change password failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "change password failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
