package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	healthController := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", healthController.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	divesController := NewDivesController(cfg.DiveStore)
	interchangeController := NewInterchangeController(cfg.InterchangeService, cfg.SettingsStore, cfg.AuditLogger, cfg.Auditor)
	settingsController := NewSettingsController(cfg.SettingsStore, cfg.SettingsRepo, cfg.BackupScheduler)

	api := router.Group("/api")
	{
		api.GET("/dives", divesController.GetAllDives)
		api.GET("/dives/:id", divesController.GetDiveByID)
		api.POST("/dives", divesController.CreateDive)

		api.POST("/interchange/import", interchangeController.Import)
		api.GET("/interchange/export", interchangeController.Export)

		api.GET("/settings/units", settingsController.GetUnits)
		api.PUT("/settings/units", settingsController.UpdateUnits)
		api.GET("/settings/backup", settingsController.GetBackup)
		api.PUT("/settings/backup", settingsController.UpdateBackup)
		api.POST("/settings/backup/run", settingsController.RunBackupNow)
	}

	return router
}
