package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSleepSession_Derived(t *testing.T) {
	start := time.Date(2026, 8, 20, 22, 0, 0, 0, time.UTC)
	s := SleepSession{
		StartTime: start,
		EndTime:   start.Add(8 * time.Hour),
		LightMin:  240,
		DeepMin:   120,
		RemMin:    90,
		AwakeMin:  30,
	}

	assert.Equal(t, 480.0, s.InBedMinutes())
	assert.Equal(t, 450.0, s.AsleepMinutes())
	assert.InDelta(t, 450.0/480.0, s.Efficiency(), 1e-9)
	assert.Equal(t, 120.0, s.StageMinutes()[StageDeep])
}

func TestSleepSession_NoStages(t *testing.T) {
	start := time.Date(2026, 8, 20, 23, 0, 0, 0, time.UTC)
	s := SleepSession{StartTime: start, EndTime: start.Add(7 * time.Hour)}

	// Without stage data the whole span counts as asleep.
	assert.Equal(t, 420.0, s.AsleepMinutes())
	assert.Equal(t, 1.0, s.Efficiency())
}

func TestSleepSession_EfficiencyClamped(t *testing.T) {
	start := time.Date(2026, 8, 20, 23, 0, 0, 0, time.UTC)
	s := SleepSession{
		StartTime: start,
		EndTime:   start.Add(6 * time.Hour),
		LightMin:  400, // overrun: more stage time than span
	}
	assert.Equal(t, 1.0, s.Efficiency())

	zero := SleepSession{StartTime: start, EndTime: start}
	assert.Equal(t, 0.0, zero.Efficiency())
}

func TestPlausibleBPM(t *testing.T) {
	assert.True(t, PlausibleBPM(20))
	assert.True(t, PlausibleBPM(240))
	assert.False(t, PlausibleBPM(19))
	assert.False(t, PlausibleBPM(300))
}

func TestPlausibleSpO2(t *testing.T) {
	assert.True(t, PlausibleSpO2(97.5))
	assert.True(t, PlausibleSpO2(100))
	assert.False(t, PlausibleSpO2(0))
	assert.False(t, PlausibleSpO2(120))
}

func TestCodeNames(t *testing.T) {
	assert.Equal(t, "Deep", SleepStageName(StageDeep))
	assert.Equal(t, "Unknown (99)", SleepStageName(99))
	assert.Equal(t, "Running", ExerciseTypeName(33))
	assert.Equal(t, "Unknown (9999)", ExerciseTypeName(9999))
}

func TestWorkoutSession_Derived(t *testing.T) {
	start := time.Date(2026, 8, 21, 8, 0, 0, 0, time.UTC)
	w := WorkoutSession{StartTime: start, EndTime: start.Add(45 * time.Minute), ExerciseType: 33}
	assert.Equal(t, 45.0, w.DurationMinutes())
	assert.Equal(t, "Running", w.ExerciseName())
}
