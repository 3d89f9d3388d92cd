// Package scheduler runs periodic backup exports of the dive collection.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/tmakela/scubalog/internal/audit"
	"github.com/tmakela/scubalog/internal/services"
	"github.com/tmakela/scubalog/internal/settingsstore"
)

// BackupScheduler periodically exports the whole collection as CSV into the
// configured backup directory. One backup runs at a time; the interchange
// engine itself is synchronous.
type BackupScheduler struct {
	interchange   *services.InterchangeService
	settingsStore *settingsstore.SettingsStore
	auditService  *audit.Service
	schedule      string

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewBackupScheduler creates a new scheduler instance.
func NewBackupScheduler(interchange *services.InterchangeService, settingsStore *settingsstore.SettingsStore, auditService *audit.Service, schedule string) *BackupScheduler {
	return &BackupScheduler{
		interchange:   interchange,
		settingsStore: settingsStore,
		auditService:  auditService,
		schedule:      schedule,
		cron:          cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler.
func (s *BackupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if s.settingsStore.GetBackupExportDir() == "" {
		log.Printf("Backup scheduler: export directory not configured, skipping")
		return nil
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.runBackup()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule backup job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Backup scheduler: started with schedule '%s'", s.schedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler.
func (s *BackupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	// Stop accepting new jobs and wait for running jobs to complete
	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Backup scheduler: stopped")
}

// RunNow triggers an immediate backup.
func (s *BackupScheduler) RunNow() {
	go s.runBackup()
}

// IsRunning returns whether the scheduler is active.
func (s *BackupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the next backup will occur.
func (s *BackupScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

func (s *BackupScheduler) runBackup() {
	dir := s.settingsStore.GetBackupExportDir()
	sys := s.settingsStore.GetUnitSystem()

	file, err := s.interchange.Export(services.FormatCSV, sys)
	if err == nil {
		err = os.WriteFile(filepath.Join(dir, file.Filename), file.Data, 0644)
	}

	now := time.Now().Format(time.RFC3339)
	if err != nil {
		log.Printf("Backup scheduler: export failed: %v", err)
		s.settingsStore.RecordBackupResult(now, "failed", err.Error())
		if s.auditService != nil {
			s.auditService.LogBackup("scheduled backup export failed", err)
		}
		return
	}

	s.settingsStore.RecordBackupResult(now, "success", file.Filename)
	if s.auditService != nil {
		s.auditService.LogBackup(fmt.Sprintf("exported backup %s", file.Filename), nil)
	}
}
