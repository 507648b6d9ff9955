package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asteroid-belt/vitalsync/internal/models"
)

func TestUpsertSleepSessions_IdempotentByIdentity(t *testing.T) {
	database := testDB(t)

	start := time.Date(2026, 8, 1, 23, 0, 0, 0, time.UTC)
	sessions := []models.SleepSession{
		{SourceID: 10, StartTime: start, EndTime: start.Add(8 * time.Hour), LightMin: 240, DeepMin: 120, RemMin: 90, AwakeMin: 30},
	}
	require.NoError(t, database.UpsertSleepSessions(sessions))
	require.NoError(t, database.UpsertSleepSessions(sessions))

	counts, err := database.RecordCounts()
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[models.KindSleep])
}

func TestUpsertSleepSessions_ReplacesBySourceID(t *testing.T) {
	database := testDB(t)

	start := time.Date(2026, 8, 1, 23, 0, 0, 0, time.UTC)
	require.NoError(t, database.UpsertSleepSessions([]models.SleepSession{
		{SourceID: 10, StartTime: start, EndTime: start.Add(7 * time.Hour), LightMin: 200},
	}))
	require.NoError(t, database.UpsertSleepSessions([]models.SleepSession{
		{SourceID: 10, StartTime: start, EndTime: start.Add(8 * time.Hour), LightMin: 260},
	}))

	got, err := database.SleepSessionsBetween(start.Add(-time.Hour), start.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 260.0, got[0].LightMin)
	assert.Equal(t, start.Add(8*time.Hour).Unix(), got[0].EndTime.Unix())
}

func TestHeartRateSamplesBetween_HalfOpenRange(t *testing.T) {
	database := testDB(t)

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, database.UpsertHeartRateSamples([]models.HeartRateSample{
		{SourceID: 1, Timestamp: base, BPM: 60},
		{SourceID: 2, Timestamp: base.Add(12 * time.Hour), BPM: 70},
		{SourceID: 3, Timestamp: base.Add(24 * time.Hour), BPM: 80}, // exactly at end, excluded
	}))

	got, err := database.HeartRateSamplesBetween(base, base.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].SourceID)
	assert.Equal(t, int64(2), got[1].SourceID)
}

func TestQualityFlagCounts(t *testing.T) {
	database := testDB(t)

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, database.UpsertHeartRateSamples([]models.HeartRateSample{
		{SourceID: 1, Timestamp: base, BPM: 65},
		{SourceID: 2, Timestamp: base.Add(time.Minute), BPM: 300, Flagged: true},
	}))
	require.NoError(t, database.UpsertSleepSessions([]models.SleepSession{
		{SourceID: 3, StartTime: base, EndTime: base.Add(6 * time.Hour), LightMin: 500, StageOverrun: true},
	}))

	flags, err := database.QualityFlagCounts()
	require.NoError(t, err)
	assert.Equal(t, int64(1), flags[models.KindHeartRate])
	assert.Equal(t, int64(1), flags[models.KindSleep])
	assert.Zero(t, flags[models.KindSpO2])
}

func TestDateRange_SpansAllKinds(t *testing.T) {
	database := testDB(t)

	early := time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)
	late := time.Date(2026, 8, 15, 9, 30, 0, 0, time.UTC)
	require.NoError(t, database.UpsertStepRecords([]models.StepRecord{
		{SourceID: 1, Day: "2026-07-01", StartTime: early, Count: 100},
	}))
	require.NoError(t, database.UpsertSpO2Samples([]models.SpO2Sample{
		{SourceID: 2, Timestamp: late, Percentage: 97},
	}))

	minT, maxT, err := database.DateRange()
	require.NoError(t, err)
	require.NotNil(t, minT)
	require.NotNil(t, maxT)
	assert.Equal(t, early.Unix(), minT.Unix())
	assert.Equal(t, late.Unix(), maxT.Unix())
}
