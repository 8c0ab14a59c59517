package services

import (
	"time"

	"github.com/ValterGames-Coder/IDMS/internal/config"
	"github.com/ValterGames-Coder/IDMS/internal/models"
	"github.com/ValterGames-Coder/IDMS/pkg/logger"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// MaintenanceService runs nightly row hygiene: it trims old system logs,
// hard-deletes invites long past expiry and lock rows long released. It never
// touches a live invite or an active lock; invite expiry itself stays lazy.
type MaintenanceService struct {
	db        *gorm.DB
	cfg       *config.SystemConfig
	scheduler *cron.Cron
}

func NewMaintenanceService(db *gorm.DB, cfg *config.SystemConfig) *MaintenanceService {
	return &MaintenanceService{db: db, cfg: cfg}
}

// StartScheduler runs the cleanup every night at 03:30 and once at startup.
func (s *MaintenanceService) StartScheduler() {
	s.scheduler = cron.New()

	if _, err := s.scheduler.AddFunc("30 3 * * *", s.RunCleanup); err != nil {
		logger.Error().Err(err).Msg("failed to schedule maintenance job")
		return
	}

	s.scheduler.Start()
	go s.RunCleanup()
	logger.Info().Msg("maintenance scheduler started")
}

func (s *MaintenanceService) StopScheduler() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

// RunCleanup executes one maintenance pass.
func (s *MaintenanceService) RunCleanup() {
	if n, err := s.cleanupLogs(); err != nil {
		logger.Error().Err(err).Msg("system log cleanup failed")
	} else if n > 0 {
		logger.Info().Int64("deleted", n).Msg("system logs cleaned up")
	}

	if n, err := s.purgeDeadInvites(); err != nil {
		logger.Error().Err(err).Msg("invite purge failed")
	} else if n > 0 {
		logger.Info().Int64("deleted", n).Msg("dead invites purged")
	}

	if n, err := s.purgeReleasedLocks(); err != nil {
		logger.Error().Err(err).Msg("lock row purge failed")
	} else if n > 0 {
		logger.Info().Int64("deleted", n).Msg("released lock rows purged")
	}
}

func (s *MaintenanceService) cleanupLogs() (int64, error) {
	if s.cfg.LogRetentionDays <= 0 {
		return 0, nil
	}
	return NewSystemLogService(s.db).CleanupOldLogs(s.cfg.LogRetentionDays)
}

// purgeDeadInvites removes invites whose expiry is far enough in the past
// that no client could still be holding the link open.
func (s *MaintenanceService) purgeDeadInvites() (int64, error) {
	if s.cfg.InvitePurgeDays <= 0 {
		return 0, nil
	}
	cutoff := time.Now().AddDate(0, 0, -s.cfg.InvitePurgeDays)
	result := s.db.Where("expires_at < ?", cutoff).Delete(&models.ProjectInvite{})
	return result.RowsAffected, result.Error
}

// purgeReleasedLocks drops inactive lock rows that have sat released for a
// while. Active locks are never deleted here.
func (s *MaintenanceService) purgeReleasedLocks() (int64, error) {
	if s.cfg.LockRowRetainDays <= 0 {
		return 0, nil
	}
	cutoff := time.Now().AddDate(0, 0, -s.cfg.LockRowRetainDays)
	result := s.db.Where("is_active = ? AND locked_at < ?", false, cutoff).Delete(&models.DiagramLock{})
	return result.RowsAffected, result.Error
}
