package db

import (
	"errors"
	"fmt"
	"time"

	"github.com/asteroid-belt/vitalsync/internal/models"
)

// ErrStaleAdvance is returned when an advance would move the sync
// watermark backwards.
var ErrStaleAdvance = errors.New("sync state advance is older than stored state")

// GetSyncState retrieves the single sync-state row.
func (db *DB) GetSyncState() (*models.SyncState, error) {
	var state models.SyncState
	if err := db.First(&state, "id = ?", models.SyncStateID).Error; err != nil {
		return nil, err
	}
	return &state, nil
}

// AdvanceSyncState overwrites the sync-state row with the outcome of a
// successful merge. The watermark only moves forward; an advance carrying
// an older watermark than the stored one fails with ErrStaleAdvance and
// changes nothing. Call inside the merge transaction so the state and the
// records commit together.
func (db *DB) AdvanceSyncState(next *models.SyncState) error {
	current, err := db.GetSyncState()
	if err != nil {
		return err
	}
	if next.WatermarkMS < current.WatermarkMS {
		return fmt.Errorf("%w: watermark %d < %d", ErrStaleAdvance, next.WatermarkMS, current.WatermarkMS)
	}

	now := time.Now()
	next.ID = models.SyncStateID
	if next.LastSyncAt == nil {
		next.LastSyncAt = &now
	}
	return db.Model(&models.SyncState{}).
		Where("id = ?", models.SyncStateID).
		Updates(map[string]interface{}{
			"last_sync_at":      next.LastSyncAt,
			"archive_hash":      next.ArchiveHash,
			"watermark_ms":      next.WatermarkMS,
			"merged_sleep":      next.MergedSleep,
			"merged_steps":      next.MergedSteps,
			"merged_heart_rate": next.MergedHeartRate,
			"merged_spo2":       next.MergedSpO2,
			"merged_workouts":   next.MergedWorkouts,
		}).Error
}
