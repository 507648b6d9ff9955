package sync

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/asteroid-belt/vitalsync/internal/models"
)

// requiredTables are the Health Connect export tables the reader
// depends on. A missing one means the export format changed.
var requiredTables = []string{
	"sleep_session_record_table",
	"sleep_stages_table",
	"steps_record_table",
	"heart_rate_record_table",
	"heart_rate_record_series_table",
	"oxygen_saturation_record_table",
	"exercise_session_record_table",
}

// Snapshot is everything read out of one export database, normalized
// into store models, plus the newest record timestamp seen.
type Snapshot struct {
	Sleep     []models.SleepSession
	Steps     []models.StepRecord
	HeartRate []models.HeartRateSample
	SpO2      []models.SpO2Sample
	Workouts  []models.WorkoutSession

	// NewestMS is the latest record timestamp in epoch millis, 0 when
	// the export is empty.
	NewestMS int64
}

// ExportReader reads the raw Health Connect export database. The export
// is treated as an untrusted input: timestamps are epoch millis, stage
// sums may exceed session spans, and samples may be physically
// impossible. The reader normalizes and flags; it never rejects
// individual rows.
type ExportReader struct {
	db *gorm.DB
}

// OpenExport opens the extracted export database and validates its
// schema.
func OpenExport(path string) (*ExportReader, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: open export: %v", ErrCorruptArchive, err)
	}

	r := &ExportReader{db: db}
	if err := r.validateSchema(); err != nil {
		r.Close()
		return nil, err
	}
	return r, nil
}

// Close releases the underlying connection.
func (r *ExportReader) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (r *ExportReader) validateSchema() error {
	var names []string
	if err := r.db.Raw("SELECT name FROM sqlite_master WHERE type = 'table'").Scan(&names).Error; err != nil {
		return fmt.Errorf("%w: read schema: %v", ErrCorruptArchive, err)
	}

	present := make(map[string]bool, len(names))
	for _, n := range names {
		present[n] = true
	}

	var missing []string
	for _, t := range requiredTables {
		if !present[t] {
			missing = append(missing, t)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing tables %s", ErrSchemaMismatch, strings.Join(missing, ", "))
	}
	return nil
}

// ReadAll reads every supported record kind. loc is the timezone day
// labels are assigned in.
func (r *ExportReader) ReadAll(loc *time.Location) (*Snapshot, error) {
	snap := &Snapshot{}

	sleep, err := r.readSleep()
	if err != nil {
		return nil, err
	}
	snap.Sleep = sleep

	steps, err := r.readSteps(loc)
	if err != nil {
		return nil, err
	}
	snap.Steps = steps

	heart, err := r.readHeartRate()
	if err != nil {
		return nil, err
	}
	snap.HeartRate = heart

	spo2, err := r.readSpO2()
	if err != nil {
		return nil, err
	}
	snap.SpO2 = spo2

	workouts, err := r.readWorkouts()
	if err != nil {
		return nil, err
	}
	snap.Workouts = workouts

	snap.NewestMS = newestMillis(snap)
	return snap, nil
}

func msToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

type sleepRow struct {
	RowID     int64  `gorm:"column:row_id"`
	StartTime int64  `gorm:"column:start_time"`
	EndTime   int64  `gorm:"column:end_time"`
	Title     string `gorm:"column:title"`
}

type stageRow struct {
	ParentKey int64 `gorm:"column:parent_key"`
	StageType int   `gorm:"column:stage_type"`
	StartTime int64 `gorm:"column:stage_start_time"`
	EndTime   int64 `gorm:"column:stage_end_time"`
}

func (r *ExportReader) readSleep() ([]models.SleepSession, error) {
	var rows []sleepRow
	if err := r.db.Raw(`
		SELECT row_id, start_time, end_time, COALESCE(title, '') AS title
		FROM sleep_session_record_table
		ORDER BY start_time`).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: sleep sessions: %v", ErrSchemaMismatch, err)
	}

	var stages []stageRow
	if err := r.db.Raw(`
		SELECT parent_key, stage_type, stage_start_time, stage_end_time
		FROM sleep_stages_table`).Scan(&stages).Error; err != nil {
		return nil, fmt.Errorf("%w: sleep stages: %v", ErrSchemaMismatch, err)
	}

	byParent := make(map[int64]map[int]float64)
	for _, st := range stages {
		if byParent[st.ParentKey] == nil {
			byParent[st.ParentKey] = make(map[int]float64)
		}
		byParent[st.ParentKey][st.StageType] += float64(st.EndTime-st.StartTime) / 60000.0
	}

	sessions := make([]models.SleepSession, 0, len(rows))
	for _, row := range rows {
		s := models.SleepSession{
			SourceID:  row.RowID,
			StartTime: msToTime(row.StartTime),
			EndTime:   msToTime(row.EndTime),
			Title:     row.Title,
		}
		if mins := byParent[row.RowID]; mins != nil {
			s.LightMin = mins[models.StageLight]
			s.DeepMin = mins[models.StageDeep]
			s.RemMin = mins[models.StageREM]
			s.AwakeMin = mins[models.StageAwake]
		}
		stageSum := s.LightMin + s.DeepMin + s.RemMin + s.AwakeMin
		span := s.InBedMinutes()
		if stageSum > span+models.StageOverrunTolerance.Minutes() {
			s.StageOverrun = true
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}

type stepRow struct {
	RowID     int64 `gorm:"column:row_id"`
	StartTime int64 `gorm:"column:start_time"`
	LocalTime int64 `gorm:"column:local_date_time_start_time"`
	Count     int64 `gorm:"column:count"`
}

func (r *ExportReader) readSteps(loc *time.Location) ([]models.StepRecord, error) {
	var rows []stepRow
	if err := r.db.Raw(`
		SELECT row_id, start_time,
		       COALESCE(local_date_time_start_time, 0) AS local_date_time_start_time,
		       count
		FROM steps_record_table
		ORDER BY start_time`).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: step records: %v", ErrSchemaMismatch, err)
	}

	records := make([]models.StepRecord, 0, len(rows))
	for _, row := range rows {
		rec := models.StepRecord{
			SourceID:  row.RowID,
			StartTime: msToTime(row.StartTime),
			Count:     row.Count,
		}
		// The export carries the device-local wall time as a separate
		// pseudo-epoch column. Prefer it for day assignment; fall back
		// to the configured zone.
		if row.LocalTime > 0 {
			rec.Day = msToTime(row.LocalTime).Format("2006-01-02")
		} else {
			rec.Day = rec.StartTime.In(loc).Format("2006-01-02")
		}
		records = append(records, rec)
	}
	return records, nil
}

type heartRow struct {
	EpochMS int64 `gorm:"column:epoch_millis"`
	BPM     int   `gorm:"column:beats_per_minute"`
}

func (r *ExportReader) readHeartRate() ([]models.HeartRateSample, error) {
	// The series table has no row id of its own; the sample's epoch
	// millisecond is its stable identity across exports.
	var rows []heartRow
	if err := r.db.Raw(`
		SELECT s.epoch_millis, s.beats_per_minute
		FROM heart_rate_record_series_table s
		JOIN heart_rate_record_table h ON s.parent_key = h.row_id
		ORDER BY s.epoch_millis`).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: heart rate series: %v", ErrSchemaMismatch, err)
	}

	samples := make([]models.HeartRateSample, 0, len(rows))
	for _, row := range rows {
		samples = append(samples, models.HeartRateSample{
			SourceID:  row.EpochMS,
			Timestamp: msToTime(row.EpochMS),
			BPM:       row.BPM,
			Flagged:   !models.PlausibleBPM(row.BPM),
		})
	}
	return samples, nil
}

type spo2Row struct {
	RowID      int64   `gorm:"column:row_id"`
	Time       int64   `gorm:"column:time"`
	Percentage float64 `gorm:"column:percentage"`
}

func (r *ExportReader) readSpO2() ([]models.SpO2Sample, error) {
	var rows []spo2Row
	if err := r.db.Raw(`
		SELECT row_id, time, percentage
		FROM oxygen_saturation_record_table
		ORDER BY time`).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: oxygen saturation: %v", ErrSchemaMismatch, err)
	}

	samples := make([]models.SpO2Sample, 0, len(rows))
	for _, row := range rows {
		samples = append(samples, models.SpO2Sample{
			SourceID:   row.RowID,
			Timestamp:  msToTime(row.Time),
			Percentage: row.Percentage,
			Flagged:    !models.PlausibleSpO2(row.Percentage),
		})
	}
	return samples, nil
}

type workoutRow struct {
	RowID        int64  `gorm:"column:row_id"`
	StartTime    int64  `gorm:"column:start_time"`
	EndTime      int64  `gorm:"column:end_time"`
	ExerciseType int    `gorm:"column:exercise_type"`
	Title        string `gorm:"column:title"`
}

func (r *ExportReader) readWorkouts() ([]models.WorkoutSession, error) {
	var rows []workoutRow
	if err := r.db.Raw(`
		SELECT row_id, start_time, end_time, exercise_type, COALESCE(title, '') AS title
		FROM exercise_session_record_table
		ORDER BY start_time`).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: exercise sessions: %v", ErrSchemaMismatch, err)
	}

	sessions := make([]models.WorkoutSession, 0, len(rows))
	for _, row := range rows {
		sessions = append(sessions, models.WorkoutSession{
			SourceID:     row.RowID,
			StartTime:    msToTime(row.StartTime),
			EndTime:      msToTime(row.EndTime),
			ExerciseType: row.ExerciseType,
			Title:        row.Title,
		})
	}
	return sessions, nil
}

func newestMillis(snap *Snapshot) int64 {
	var stamps []int64
	for _, s := range snap.Sleep {
		stamps = append(stamps, s.EndTime.UnixMilli())
	}
	for _, s := range snap.Steps {
		stamps = append(stamps, s.StartTime.UnixMilli())
	}
	for _, s := range snap.HeartRate {
		stamps = append(stamps, s.Timestamp.UnixMilli())
	}
	for _, s := range snap.SpO2 {
		stamps = append(stamps, s.Timestamp.UnixMilli())
	}
	for _, s := range snap.Workouts {
		stamps = append(stamps, s.EndTime.UnixMilli())
	}
	if len(stamps) == 0 {
		return 0
	}
	sort.Slice(stamps, func(i, j int) bool { return stamps[i] > stamps[j] })
	return stamps[0]
}
