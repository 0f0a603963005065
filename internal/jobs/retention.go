package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/selfora/backend/internal/logging"
	"github.com/selfora/backend/internal/models"
	"gorm.io/gorm"
)

// StartRetention schedules the periodic cleanup jobs: system log retention
// and purging of expired or revoked refresh tokens. Shut the returned
// scheduler down on exit.
func StartRetention(db *gorm.DB, retentionDays int) (gocron.Scheduler, error) {
	if retentionDays <= 0 {
		retentionDays = 30
	}
	retention := time.Duration(retentionDays) * 24 * time.Hour

	sched, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(func() {
			deleted, err := logging.CleanupSystemLogs(db, retention, time.Now())
			if err != nil {
				slog.Error("system log cleanup failed", "action", "log_retention", "error", err)
				return
			}
			slog.Info("system log cleanup completed", "deleted", deleted, "retention_days", retentionDays)
		}),
		gocron.WithName("system-log-retention"),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule log retention: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(6*time.Hour),
		gocron.NewTask(func() {
			deleted, err := PurgeRefreshTokens(db, time.Now())
			if err != nil {
				slog.Error("refresh token purge failed", "action", "token_purge", "error", err)
				return
			}
			slog.Info("refresh token purge completed", "deleted", deleted)
		}),
		gocron.WithName("refresh-token-purge"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule token purge: %w", err)
	}

	sched.Start()
	return sched, nil
}

// PurgeRefreshTokens removes refresh tokens that expired or were revoked.
func PurgeRefreshTokens(db *gorm.DB, now time.Time) (int64, error) {
	result := db.Where("expires_at < ? OR revoked = ?", now, true).Delete(&models.RefreshToken{})
	return result.RowsAffected, result.Error
}
