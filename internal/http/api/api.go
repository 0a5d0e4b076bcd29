// Package api wires the HTTP routes: the public login endpoint, the
// authenticated entry and report endpoints, and the admin-only group.
package api

import (
	"net/http"
	"strings"

	"github.com/akshathkarthikn/footfall-tracker/internal/auth"
	"github.com/akshathkarthikn/footfall-tracker/internal/backup"
	"github.com/akshathkarthikn/footfall-tracker/internal/compare"
	"github.com/akshathkarthikn/footfall-tracker/internal/config"
	"github.com/akshathkarthikn/footfall-tracker/internal/entry"
	"github.com/akshathkarthikn/footfall-tracker/internal/export"
	"github.com/akshathkarthikn/footfall-tracker/internal/http/api/handlers"
	"github.com/akshathkarthikn/footfall-tracker/internal/metrics"
	"github.com/akshathkarthikn/footfall-tracker/internal/models"
	"github.com/akshathkarthikn/footfall-tracker/internal/security"
	"github.com/akshathkarthikn/footfall-tracker/internal/settings"
	"github.com/akshathkarthikn/footfall-tracker/internal/validate"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Services bundles everything the routes depend on.
type Services struct {
	DB       *gorm.DB
	Settings *settings.Store
	Auth     *auth.Service
	Entries  *entry.Service
	Metrics  *metrics.Service
	Compare  *compare.Service
	Export   *export.Service
	Backups  *backup.Manager
	JWT      config.JWTConfig
}

// RegisterRoutes registers every route, middleware, and handler.
func RegisterRoutes(r *gin.Engine, svc Services) {
	if r == nil || svc.DB == nil {
		return
	}
	validator := validate.New(svc.Settings)

	healthHandler := handlers.NewHealthHandler(svc.DB)
	r.GET("/healthz", healthHandler.Healthz)

	v0 := r.Group("/v0")

	authHandler := handlers.NewAuthHandler(svc.Auth, svc.JWT)
	v0.POST("/login", authHandler.Login)

	authed := v0.Group("")
	authed.Use(authMiddleware(svc.Auth, svc.JWT))

	authed.GET("/me", authHandler.Me)
	authed.PUT("/me/password", authHandler.ChangePassword)

	entryHandler := handlers.NewEntryHandler(svc.Entries, svc.Auth, validator)
	authed.GET("/entries", entryHandler.List)
	authed.POST("/entries", entryHandler.Save)
	authed.POST("/entries/bulk", entryHandler.SaveBulk)
	authed.GET("/entries/missing", entryHandler.MissingSlots)
	authed.GET("/entries/:id", entryHandler.Get)
	authed.DELETE("/entries/:id", entryHandler.Delete)

	floorHandler := handlers.NewFloorHandler(svc.DB)
	authed.GET("/floors", floorHandler.List)

	reportHandler := handlers.NewReportHandler(svc.Metrics, svc.Compare)
	authed.GET("/reports/daily", reportHandler.Daily)
	authed.GET("/reports/rolling-average", reportHandler.RollingAverage)
	authed.GET("/reports/heatmap", reportHandler.Heatmap)
	authed.GET("/reports/monthly", reportHandler.Monthly)
	authed.GET("/reports/delta", reportHandler.Delta)
	authed.GET("/reports/floor-trend", reportHandler.FloorTrend)
	authed.GET("/reports/compare/days", reportHandler.CompareDays)
	authed.GET("/reports/compare/weeks", reportHandler.CompareWeeks)
	authed.GET("/reports/compare/weekday", reportHandler.CompareWeekday)
	authed.GET("/reports/compare/summary", reportHandler.CompareSummary)
	authed.GET("/reports/dashboard-averages", reportHandler.DashboardAverages)

	exportHandler := handlers.NewExportHandler(svc.Export)
	authed.GET("/export/entries", exportHandler.Entries)
	authed.GET("/export/summary", exportHandler.Summary)
	authed.GET("/export/missing", exportHandler.MissingSlots)

	admin := authed.Group("/admin")
	admin.Use(adminMiddleware())

	admin.POST("/floors", floorHandler.Create)
	admin.PUT("/floors/:id", floorHandler.Update)

	userHandler := handlers.NewUserHandler(svc.Auth)
	admin.GET("/users", userHandler.List)
	admin.POST("/users", userHandler.Create)
	admin.POST("/users/:id/disable", userHandler.Disable)
	admin.POST("/users/:id/enable", userHandler.Enable)
	admin.PUT("/users/:id/password", userHandler.ResetPassword)

	settingHandler := handlers.NewSettingHandler(svc.Settings)
	admin.GET("/settings", settingHandler.List)
	admin.PUT("/settings/:key", settingHandler.Update)

	holidayHandler := handlers.NewHolidayHandler(svc.DB)
	admin.GET("/holidays", holidayHandler.List)
	admin.POST("/holidays", holidayHandler.Create)
	admin.DELETE("/holidays/:id", holidayHandler.Delete)

	auditHandler := handlers.NewAuditHandler(svc.DB)
	admin.GET("/audit", auditHandler.List)
	admin.GET("/audit/entries/:id", auditHandler.EntryHistory)

	adminHandler := handlers.NewAdminHandler(svc.DB, svc.Backups)
	admin.POST("/reset", adminHandler.Reset)
	admin.POST("/backups", adminHandler.CreateBackup)
	admin.GET("/backups", adminHandler.ListBackups)
	admin.POST("/backups/restore", adminHandler.RestoreBackup)
	admin.POST("/backups/cleanup", adminHandler.CleanupBackups)
	admin.GET("/storage", adminHandler.Storage)
}

// authMiddleware validates session tokens and loads the caller's account.
func authMiddleware(authSvc *auth.Service, jwtCfg config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}
		token = strings.TrimSpace(token)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "empty token"})
			return
		}

		claims, errJWT := security.ParseUserToken(jwtCfg.Secret, token)
		if errJWT != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		user, errFind := authSvc.GetUser(c.Request.Context(), claims.UserID)
		if errFind != nil || user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}
		if !user.Active {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "user disabled"})
			return
		}

		c.Set(handlers.CtxUser, user)
		c.Next()
	}
}

// adminMiddleware rejects callers without the admin role. Runs after
// authMiddleware.
func adminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		value, ok := c.Get(handlers.CtxUser)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		user, okUser := value.(*models.User)
		if !okUser || !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin role required"})
			return
		}
		c.Next()
	}
}
