package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tmakela/scubalog/internal/database/settings"
	"github.com/tmakela/scubalog/internal/entities"
	"github.com/tmakela/scubalog/internal/scheduler"
	"github.com/tmakela/scubalog/internal/settingsstore"
	"github.com/tmakela/scubalog/internal/units"
)

type SettingsController struct {
	store     *settingsstore.SettingsStore
	repo      *settings.Repository
	scheduler *scheduler.BackupScheduler
}

func NewSettingsController(store *settingsstore.SettingsStore, repo *settings.Repository, sched *scheduler.BackupScheduler) *SettingsController {
	return &SettingsController{
		store:     store,
		repo:      repo,
		scheduler: sched,
	}
}

type UnitSettingsResponse struct {
	Units  string `json:"units"`
	Source string `json:"source"`
}

func (ctrl *SettingsController) GetUnits(c *gin.Context) {
	c.JSON(http.StatusOK, UnitSettingsResponse{
		Units:  string(ctrl.store.GetUnitSystem()),
		Source: ctrl.store.UnitSystemSource(),
	})
}

type UpdateUnitsRequest struct {
	Units string `json:"units" binding:"required"`
}

func (ctrl *SettingsController) UpdateUnits(c *gin.Context) {
	var req UpdateUnitsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request: "+err.Error())
		return
	}

	sys := units.ParseSystem(req.Units)
	if err := ctrl.store.SetUnitSystem(sys); err != nil {
		respondInternalError(c, err, "update units")
		return
	}
	c.JSON(http.StatusOK, UnitSettingsResponse{Units: string(sys), Source: "database"})
}

type BackupSettingsResponse struct {
	ExportDir        string `json:"export_dir"`
	SchedulerRunning bool   `json:"scheduler_running"`
	NextRun          string `json:"next_run,omitempty"`
	LastRunAt        string `json:"last_run_at,omitempty"`
	LastRunStatus    string `json:"last_run_status,omitempty"`
	LastRunMessage   string `json:"last_run_message,omitempty"`
}

func (ctrl *SettingsController) GetBackup(c *gin.Context) {
	resp := BackupSettingsResponse{
		ExportDir:        ctrl.store.GetBackupExportDir(),
		SchedulerRunning: ctrl.scheduler != nil && ctrl.scheduler.IsRunning(),
		LastRunAt:        ctrl.repo.GetValue(entities.SettingKeyBackupLastAt, ""),
		LastRunStatus:    ctrl.repo.GetValue(entities.SettingKeyBackupLastStatus, ""),
		LastRunMessage:   ctrl.repo.GetValue(entities.SettingKeyBackupLastMessage, ""),
	}
	if ctrl.scheduler != nil {
		if next := ctrl.scheduler.NextRunTime(); next != nil {
			resp.NextRun = next.Format("2006-01-02T15:04:05Z07:00")
		}
	}
	c.JSON(http.StatusOK, resp)
}

type UpdateBackupRequest struct {
	ExportDir string `json:"export_dir" binding:"required"`
}

func (ctrl *SettingsController) UpdateBackup(c *gin.Context) {
	var req UpdateBackupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request: "+err.Error())
		return
	}

	if err := ctrl.store.SetBackupExportDir(req.ExportDir); err != nil {
		respondInternalError(c, err, "update backup settings")
		return
	}
	ctrl.GetBackup(c)
}

// RunBackupNow triggers an immediate backup export outside the schedule.
func (ctrl *SettingsController) RunBackupNow(c *gin.Context) {
	if ctrl.scheduler == nil {
		respondBadRequest(c, "backup scheduler is not configured")
		return
	}
	ctrl.scheduler.RunNow()
	c.JSON(http.StatusAccepted, SuccessResponse{Message: "backup started"})
}
