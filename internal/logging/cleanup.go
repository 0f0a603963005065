package logging

import (
	"time"

	"github.com/selfora/backend/internal/models"
	"gorm.io/gorm"
)

// CleanupSystemLogs deletes system_logs older than the retention window.
func CleanupSystemLogs(db *gorm.DB, retention time.Duration, now time.Time) (int64, error) {
	cutoff := now.Add(-retention)
	result := db.Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	return result.RowsAffected, result.Error
}
