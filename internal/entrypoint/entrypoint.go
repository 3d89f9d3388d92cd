package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tmakela/scubalog/internal/audit"
	"github.com/tmakela/scubalog/internal/config"
	"github.com/tmakela/scubalog/internal/database"
	database_audit "github.com/tmakela/scubalog/internal/database/audit"
	"github.com/tmakela/scubalog/internal/database/dives"
	"github.com/tmakela/scubalog/internal/database/settings"
	"github.com/tmakela/scubalog/internal/entities"
	http_controllers "github.com/tmakela/scubalog/internal/http"
	"github.com/tmakela/scubalog/internal/scheduler"
	"github.com/tmakela/scubalog/internal/services"
	"github.com/tmakela/scubalog/internal/settingsstore"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until an interrupt or termination signal
// arrives, then drains it within the configured shutdown timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop the backup scheduler)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run wires the application together and serves it.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting ScubaLog v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	diveRepo := dives.NewRepository(db.DB)
	settingsRepo := settings.NewRepository(db.DB)
	auditRepo := database_audit.NewRepository(db.DB)

	settingsStore := settingsstore.New(settingsRepo)
	auditService := audit.NewService(auditRepo)
	auditor := audit.NewAuditor(cfg.Audit.Dir)
	interchangeService := services.NewInterchangeService(diveRepo)

	// Seed the backup directory from the environment on first boot so the
	// scheduler has somewhere to write before the user touches settings.
	if cfg.Backup.ExportDir != "" {
		if existing, err := settingsRepo.GetSetting(entities.SettingKeyBackupExportDir); err != nil || existing.Value == "" {
			if err := settingsStore.SetBackupExportDir(cfg.Backup.ExportDir); err != nil {
				log.Printf("WARNING: failed to store backup export dir: %v", err)
			}
		}
	}

	// Trim audit events past the retention window.
	if cfg.Audit.RetentionDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -cfg.Audit.RetentionDays)
		if deleted, err := auditRepo.DeleteOlderThan(cutoff); err != nil {
			log.Printf("WARNING: audit cleanup failed: %v", err)
		} else if deleted > 0 {
			log.Printf("Audit cleanup: removed %d events older than %d days", deleted, cfg.Audit.RetentionDays)
		}
	}

	var backupScheduler *scheduler.BackupScheduler
	if cfg.Backup.Enabled {
		backupScheduler = scheduler.NewBackupScheduler(interchangeService, settingsStore, auditService, cfg.Backup.Schedule)
		if err := backupScheduler.Start(context.Background()); err != nil {
			log.Printf("WARNING: failed to start backup scheduler: %v", err)
		}
	}

	routerCfg := http_controllers.RouterConfig{
		Database:           db,
		DiveStore:          diveRepo,
		InterchangeService: interchangeService,
		SettingsStore:      settingsStore,
		SettingsRepo:       settingsRepo,
		AuditLogger:        auditService,
		Auditor:            auditor,
		BackupScheduler:    backupScheduler,
		Version:            version,
	}

	router := http_controllers.NewRouter(routerCfg)

	Serve(router, cfg, func(ctx context.Context) {
		if backupScheduler != nil {
			backupScheduler.Stop()
		}
	})
}
