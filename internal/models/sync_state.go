package models

import "time"

// SyncStateID is the primary key of the single SyncState row.
const SyncStateID = "default"

// SyncState records the outcome of the last successful merge. There is
// exactly one row, created on first open and advanced atomically inside
// the merge transaction. It only moves forward: a merge carrying an older
// watermark than the stored one is rejected.
type SyncState struct {
	ID          string     `gorm:"primaryKey;size:16" json:"-"`
	LastSyncAt  *time.Time `json:"last_sync_at"`
	ArchiveHash string     `gorm:"size:64" json:"archive_hash"`

	// WatermarkMS is the newest record timestamp seen, in epoch millis.
	WatermarkMS int64 `json:"watermark_ms"`

	MergedSleep     int64 `json:"merged_sleep"`
	MergedSteps     int64 `json:"merged_steps"`
	MergedHeartRate int64 `json:"merged_heart_rate"`
	MergedSpO2      int64 `gorm:"column:merged_spo2" json:"merged_spo2"`
	MergedWorkouts  int64 `json:"merged_workouts"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (SyncState) TableName() string { return "sync_state" }

// MergedByKind returns the per-kind merge counters.
func (s *SyncState) MergedByKind() map[RecordKind]int64 {
	return map[RecordKind]int64{
		KindSleep:     s.MergedSleep,
		KindSteps:     s.MergedSteps,
		KindHeartRate: s.MergedHeartRate,
		KindSpO2:      s.MergedSpO2,
		KindWorkout:   s.MergedWorkouts,
	}
}
