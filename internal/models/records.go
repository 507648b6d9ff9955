// Package models defines the core data structures for Vitalsync.
package models

import (
	"time"
)

// RecordKind identifies one family of health records.
type RecordKind string

const (
	KindSleep     RecordKind = "sleep"
	KindSteps     RecordKind = "steps"
	KindHeartRate RecordKind = "heart_rate"
	KindSpO2      RecordKind = "spo2"
	KindWorkout   RecordKind = "workout"
)

// Kinds lists every record kind in merge order.
var Kinds = []RecordKind{KindSleep, KindSteps, KindHeartRate, KindSpO2, KindWorkout}

// Plausible heart-rate range. Samples outside are kept but flagged and
// excluded from numeric aggregates.
const (
	MinPlausibleBPM = 20
	MaxPlausibleBPM = 240
)

// StageOverrunTolerance is the slack allowed between the sum of stage
// durations and the session span before the session is flagged.
const StageOverrunTolerance = time.Minute

// SleepSession is one sleep session from the export. Stage durations are
// stored as reported; when their sum exceeds the session span the session
// carries a StageOverrun flag instead of being clipped.
type SleepSession struct {
	SourceID  int64     `gorm:"primaryKey;autoIncrement:false" json:"source_id"`
	StartTime time.Time `gorm:"index" json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	LightMin float64 `json:"light_min"`
	DeepMin  float64 `json:"deep_min"`
	RemMin   float64 `json:"rem_min"`
	AwakeMin float64 `json:"awake_min"`

	StageOverrun bool   `json:"stage_overrun"`
	Title        string `gorm:"size:255" json:"title,omitempty"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (SleepSession) TableName() string { return "sleep_sessions" }

// InBedMinutes is the full session span.
func (s *SleepSession) InBedMinutes() float64 {
	return s.EndTime.Sub(s.StartTime).Minutes()
}

// AsleepMinutes is the time spent in a non-awake stage. Sessions without
// stage data count the whole span as asleep.
func (s *SleepSession) AsleepMinutes() float64 {
	asleep := s.LightMin + s.DeepMin + s.RemMin
	if asleep == 0 && s.AwakeMin == 0 {
		return s.InBedMinutes()
	}
	return asleep
}

// Efficiency is time asleep over time in bed, in [0,1].
func (s *SleepSession) Efficiency() float64 {
	inBed := s.InBedMinutes()
	if inBed <= 0 {
		return 0
	}
	eff := s.AsleepMinutes() / inBed
	if eff > 1 {
		eff = 1
	}
	return eff
}

// StageMinutes returns the per-stage durations keyed by stage code.
func (s *SleepSession) StageMinutes() map[int]float64 {
	return map[int]float64{
		StageLight: s.LightMin,
		StageDeep:  s.DeepMin,
		StageREM:   s.RemMin,
		StageAwake: s.AwakeMin,
	}
}

// StepRecord is one step-count row from the export. Day is the calendar
// day in the configured timezone, assigned once at merge time so bucketing
// is stable across runs.
type StepRecord struct {
	SourceID  int64     `gorm:"primaryKey;autoIncrement:false" json:"source_id"`
	Day       string    `gorm:"size:10;index" json:"day"`
	StartTime time.Time `json:"start_time"`
	Count     int64     `json:"count"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (StepRecord) TableName() string { return "step_records" }

// HeartRateSample is a single heart-rate measurement.
type HeartRateSample struct {
	SourceID  int64     `gorm:"primaryKey;autoIncrement:false" json:"source_id"`
	Timestamp time.Time `gorm:"index" json:"timestamp"`
	BPM       int       `json:"bpm"`
	Flagged   bool      `gorm:"index" json:"flagged"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (HeartRateSample) TableName() string { return "heart_rate_samples" }

// PlausibleBPM reports whether a measurement falls in the accepted range.
func PlausibleBPM(bpm int) bool {
	return bpm >= MinPlausibleBPM && bpm <= MaxPlausibleBPM
}

// PlausibleSpO2 reports whether a saturation percentage is physically
// possible. Zero readings are sensor dropouts, not measurements.
func PlausibleSpO2(pct float64) bool {
	return pct > 0 && pct <= 100
}

// SpO2Sample is a single blood-oxygen measurement.
type SpO2Sample struct {
	SourceID   int64     `gorm:"primaryKey;autoIncrement:false" json:"source_id"`
	Timestamp  time.Time `gorm:"index" json:"timestamp"`
	Percentage float64   `json:"percentage"`
	Flagged    bool      `gorm:"index" json:"flagged"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (SpO2Sample) TableName() string { return "spo2_samples" }

// WorkoutSession is one exercise session from the export.
type WorkoutSession struct {
	SourceID     int64     `gorm:"primaryKey;autoIncrement:false" json:"source_id"`
	StartTime    time.Time `gorm:"index" json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	ExerciseType int       `gorm:"index" json:"exercise_type"`
	Title        string    `gorm:"size:255" json:"title,omitempty"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (WorkoutSession) TableName() string { return "workout_sessions" }

// DurationMinutes is the session length.
func (w *WorkoutSession) DurationMinutes() float64 {
	return w.EndTime.Sub(w.StartTime).Minutes()
}

// ExerciseName resolves the exercise-type code to a display name.
func (w *WorkoutSession) ExerciseName() string {
	return ExerciseTypeName(w.ExerciseType)
}
