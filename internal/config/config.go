package config

import (
	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Backup
		Audit
		Global
		Database
	}

	HTTP struct {
		Port int32
		Host string
	}
	Backup struct {
		Enabled   bool
		ExportDir string // Directory for scheduled CSV backup exports
		Schedule  string // Cron format: "0 3 * * *" = daily at 03:00
	}
	Audit struct {
		Dir           string
		RetentionDays int // Days to keep audit events (default: 30)
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8189)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("audit_dir", "./audit")
	v.SetDefault("audit_retention_days", 30)
	v.SetDefault("backup_enabled", false)
	v.SetDefault("backup_export_dir", "")
	v.SetDefault("backup_schedule", "0 3 * * *") // Daily at 03:00

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Backup: Backup{
			Enabled:   v.GetBool("BACKUP_ENABLED"),
			ExportDir: v.GetString("BACKUP_EXPORT_DIR"),
			Schedule:  v.GetString("BACKUP_SCHEDULE"),
		},
		Audit: Audit{
			Dir:           v.GetString("AUDIT_DIR"),
			RetentionDays: v.GetInt("AUDIT_RETENTION_DAYS"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
	}
}
