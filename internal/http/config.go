package http

import (
	"github.com/tmakela/scubalog/internal/audit"
	"github.com/tmakela/scubalog/internal/database"
	"github.com/tmakela/scubalog/internal/database/settings"
	"github.com/tmakela/scubalog/internal/scheduler"
	"github.com/tmakela/scubalog/internal/services"
	"github.com/tmakela/scubalog/internal/settingsstore"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router. This replaces a long parameter list
// in NewRouter for better maintainability.
type RouterConfig struct {
	// Core dependencies
	Database           *database.Database
	DiveStore          DiveStore
	InterchangeService *services.InterchangeService

	// Preferences and audit
	SettingsStore *settingsstore.SettingsStore
	SettingsRepo  *settings.Repository
	AuditLogger   AuditLogger
	Auditor       *audit.Auditor

	// Scheduled backups (optional)
	BackupScheduler *scheduler.BackupScheduler

	// Application info
	Version string
}
