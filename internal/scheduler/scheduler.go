package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"pos_service/internal/usecase"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// BackupScheduler snapshots the document on a cron schedule.
type BackupScheduler struct {
	sched       *cron.Cron
	maintenance usecase.MaintenanceUseCase
	timeout     time.Duration
	log         *logrus.Logger
}

// NewBackupScheduler validates schedule (five or six fields, or a descriptor such
// as "@daily") and registers the backup job. Nothing runs until Start.
func NewBackupScheduler(schedule string, maintenance usecase.MaintenanceUseCase, logger *logrus.Logger) (*BackupScheduler, error) {
	s := &BackupScheduler{
		sched:       cron.New(cron.WithParser(cronParser)),
		maintenance: maintenance,
		timeout:     time.Minute,
		log:         logger,
	}
	if _, err := s.sched.AddFunc(schedule, s.RunBackup); err != nil {
		return nil, fmt.Errorf("invalid backup schedule %q: %w", schedule, err)
	}
	return s, nil
}

// RunBackup is the scheduled job. Failures are logged, never propagated.
func (s *BackupScheduler) RunBackup() {
	defer func() {
		if err := recover(); err != nil {
			s.log.Errorf("Scheduler: Backup job panicked: %v", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	path, err := s.maintenance.Backup(ctx, "")
	if err != nil {
		s.log.Errorf("Scheduler: Scheduled backup failed: %v", err)
		return
	}
	s.log.Infof("Scheduler: Scheduled backup written to %s", path)
}

func (s *BackupScheduler) Start() {
	s.log.Info("Scheduler: Starting backup scheduler")
	s.sched.Start()
}

// Stop prevents new runs and waits for a running job until ctx is done.
func (s *BackupScheduler) Stop(ctx context.Context) {
	done := s.sched.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn("Scheduler: Timed out waiting for backup job to finish")
	}
}

// Next reports when the job fires next; zero before Start.
func (s *BackupScheduler) Next() time.Time {
	entries := s.sched.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}
