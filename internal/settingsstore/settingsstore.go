// Package settingsstore resolves user preferences with a
// database > environment > default priority, so a preference saved through
// the UI wins over a deployment-level env var, which wins over the built-in
// default.
package settingsstore

import (
	"os"

	"github.com/tmakela/scubalog/internal/database/settings"
	"github.com/tmakela/scubalog/internal/entities"
	"github.com/tmakela/scubalog/internal/units"
)

type SettingsStore struct {
	repo *settings.Repository
}

func New(repo *settings.Repository) *SettingsStore {
	return &SettingsStore{repo: repo}
}

// GetUnitSystem returns the preferred display/export unit system.
func (s *SettingsStore) GetUnitSystem() units.System {
	setting, err := s.repo.GetSetting(entities.SettingKeyUnitSystem)
	if err == nil && setting.Value != "" {
		return units.ParseSystem(setting.Value)
	}

	if env := os.Getenv("SCUBALOG_UNITS"); env != "" {
		return units.ParseSystem(env)
	}

	return units.Metric
}

func (s *SettingsStore) SetUnitSystem(sys units.System) error {
	return s.repo.SetSetting(entities.SettingKeyUnitSystem, string(sys))
}

// GetBackupExportDir returns the directory for scheduled backup exports.
func (s *SettingsStore) GetBackupExportDir() string {
	setting, err := s.repo.GetSetting(entities.SettingKeyBackupExportDir)
	if err == nil && setting.Value != "" {
		return setting.Value
	}

	if env := os.Getenv("SCUBALOG_BACKUP_DIR"); env != "" {
		return env
	}

	pwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return pwd
}

func (s *SettingsStore) SetBackupExportDir(dir string) error {
	return s.repo.SetSetting(entities.SettingKeyBackupExportDir, dir)
}

// UnitSystemSource reports where the active unit system comes from:
// "database", "environment", or "default".
func (s *SettingsStore) UnitSystemSource() string {
	setting, err := s.repo.GetSetting(entities.SettingKeyUnitSystem)
	if err == nil && setting.Value != "" {
		return "database"
	}
	if os.Getenv("SCUBALOG_UNITS") != "" {
		return "environment"
	}
	return "default"
}

// RecordBackupResult stores the outcome of the latest scheduled backup so
// the settings surface can show it.
func (s *SettingsStore) RecordBackupResult(at, status, message string) {
	_ = s.repo.SetSetting(entities.SettingKeyBackupLastAt, at)
	_ = s.repo.SetSetting(entities.SettingKeyBackupLastStatus, status)
	_ = s.repo.SetSetting(entities.SettingKeyBackupLastMessage, message)
}
