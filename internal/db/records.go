package db

import (
	"fmt"
	"time"

	"gorm.io/gorm/clause"

	"github.com/asteroid-belt/vitalsync/internal/models"
)

// upsertByID is the conflict clause shared by every record kind: records
// are identified by their export source id, so re-merging the same
// archive rewrites rows in place instead of duplicating them.
var upsertByID = clause.OnConflict{
	Columns:   []clause.Column{{Name: "source_id"}},
	UpdateAll: true,
}

// UpsertSleepSessions upserts sleep sessions by source identity.
func (db *DB) UpsertSleepSessions(sessions []models.SleepSession) error {
	if len(sessions) == 0 {
		return nil
	}
	return db.Clauses(upsertByID).Create(&sessions).Error
}

// UpsertStepRecords upserts step records by source identity.
func (db *DB) UpsertStepRecords(records []models.StepRecord) error {
	if len(records) == 0 {
		return nil
	}
	return db.Clauses(upsertByID).Create(&records).Error
}

// UpsertHeartRateSamples upserts heart-rate samples by source identity.
func (db *DB) UpsertHeartRateSamples(samples []models.HeartRateSample) error {
	if len(samples) == 0 {
		return nil
	}
	return db.Clauses(upsertByID).CreateInBatches(&samples, 500).Error
}

// UpsertSpO2Samples upserts SpO2 samples by source identity.
func (db *DB) UpsertSpO2Samples(samples []models.SpO2Sample) error {
	if len(samples) == 0 {
		return nil
	}
	return db.Clauses(upsertByID).Create(&samples).Error
}

// UpsertWorkoutSessions upserts workout sessions by source identity.
func (db *DB) UpsertWorkoutSessions(sessions []models.WorkoutSession) error {
	if len(sessions) == 0 {
		return nil
	}
	return db.Clauses(upsertByID).Create(&sessions).Error
}

// SleepSessionsBetween returns sessions starting in [start, end),
// ordered by start time.
func (db *DB) SleepSessionsBetween(start, end time.Time) ([]models.SleepSession, error) {
	var sessions []models.SleepSession
	err := db.Where("start_time >= ? AND start_time < ?", start, end).
		Order("start_time").
		Find(&sessions).Error
	return sessions, err
}

// StepRecordsBetween returns step records starting in [start, end).
func (db *DB) StepRecordsBetween(start, end time.Time) ([]models.StepRecord, error) {
	var records []models.StepRecord
	err := db.Where("start_time >= ? AND start_time < ?", start, end).
		Order("start_time").
		Find(&records).Error
	return records, err
}

// HeartRateSamplesBetween returns samples in [start, end), flagged ones
// included; aggregation decides what to do with them.
func (db *DB) HeartRateSamplesBetween(start, end time.Time) ([]models.HeartRateSample, error) {
	var samples []models.HeartRateSample
	err := db.Where("timestamp >= ? AND timestamp < ?", start, end).
		Order("timestamp").
		Find(&samples).Error
	return samples, err
}

// SpO2SamplesBetween returns samples in [start, end).
func (db *DB) SpO2SamplesBetween(start, end time.Time) ([]models.SpO2Sample, error) {
	var samples []models.SpO2Sample
	err := db.Where("timestamp >= ? AND timestamp < ?", start, end).
		Order("timestamp").
		Find(&samples).Error
	return samples, err
}

// WorkoutSessionsBetween returns workouts starting in [start, end).
func (db *DB) WorkoutSessionsBetween(start, end time.Time) ([]models.WorkoutSession, error) {
	var sessions []models.WorkoutSession
	err := db.Where("start_time >= ? AND start_time < ?", start, end).
		Order("start_time").
		Find(&sessions).Error
	return sessions, err
}

// RecordCounts returns the number of stored records per kind.
func (db *DB) RecordCounts() (map[models.RecordKind]int64, error) {
	counts := make(map[models.RecordKind]int64, len(models.Kinds))
	for kind, model := range map[models.RecordKind]interface{}{
		models.KindSleep:     &models.SleepSession{},
		models.KindSteps:     &models.StepRecord{},
		models.KindHeartRate: &models.HeartRateSample{},
		models.KindSpO2:      &models.SpO2Sample{},
		models.KindWorkout:   &models.WorkoutSession{},
	} {
		var n int64
		if err := db.Model(model).Count(&n).Error; err != nil {
			return nil, err
		}
		counts[kind] = n
	}
	return counts, nil
}

// QualityFlagCounts returns the number of quality-flagged records per kind.
func (db *DB) QualityFlagCounts() (map[models.RecordKind]int64, error) {
	counts := make(map[models.RecordKind]int64)

	var n int64
	if err := db.Model(&models.HeartRateSample{}).Where("flagged = ?", true).Count(&n).Error; err != nil {
		return nil, err
	}
	counts[models.KindHeartRate] = n

	if err := db.Model(&models.SpO2Sample{}).Where("flagged = ?", true).Count(&n).Error; err != nil {
		return nil, err
	}
	counts[models.KindSpO2] = n

	if err := db.Model(&models.SleepSession{}).Where("stage_overrun = ?", true).Count(&n).Error; err != nil {
		return nil, err
	}
	counts[models.KindSleep] = n

	return counts, nil
}

// DateRange returns the earliest and latest record start times across all
// kinds, or nil when the store is empty.
func (db *DB) DateRange() (*time.Time, *time.Time, error) {
	var minT, maxT *time.Time

	consider := func(t time.Time) {
		if t.IsZero() {
			return
		}
		tt := t
		if minT == nil || tt.Before(*minT) {
			minT = &tt
		}
		if maxT == nil || tt.After(*maxT) {
			maxT = &tt
		}
	}

	type span struct {
		Min *time.Time
		Max *time.Time
	}
	columns := map[string]string{
		"sleep_sessions":     "start_time",
		"step_records":       "start_time",
		"workout_sessions":   "start_time",
		"heart_rate_samples": "timestamp",
		"spo2_samples":       "timestamp",
	}
	for table, col := range columns {
		var s span
		if err := db.Table(table).
			Select(fmt.Sprintf("MIN(%s) AS min, MAX(%s) AS max", col, col)).
			Scan(&s).Error; err != nil {
			return nil, nil, err
		}
		if s.Min != nil {
			consider(*s.Min)
		}
		if s.Max != nil {
			consider(*s.Max)
		}
	}

	return minT, maxT, nil
}
