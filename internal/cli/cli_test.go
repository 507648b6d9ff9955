package cli

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asteroid-belt/vitalsync/internal/metrics"
	"github.com/asteroid-belt/vitalsync/internal/models"
	"github.com/asteroid-belt/vitalsync/internal/series"
)

func TestParseGranularity(t *testing.T) {
	for in, want := range map[string]metrics.Granularity{
		"":      metrics.Day,
		"day":   metrics.Day,
		"week":  metrics.Week,
		"month": metrics.Month,
	} {
		g, err := parseGranularity(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, g, in)
	}

	_, err := parseGranularity("fortnight")
	assert.Error(t, err)
}

func TestResolveDays(t *testing.T) {
	d, err := resolveDays(7)
	require.NoError(t, err)
	assert.Equal(t, 7, d)

	_, err = resolveDays(0)
	assert.Error(t, err)

	_, err = resolveDays(maxRangeDays + 1)
	assert.Error(t, err)
}

func TestShortHash(t *testing.T) {
	assert.Equal(t, "abcdef123456", shortHash("abcdef1234567890abcdef"))
	assert.Equal(t, "abc", shortHash("abc"))
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "45m", formatMinutes(45))
	assert.Equal(t, "1h 00m", formatMinutes(60))
	assert.Equal(t, "7h 32m", formatMinutes(452))
	assert.Equal(t, "8h 00m", formatMinutes(479.6))
}

func TestAnchorDate(t *testing.T) {
	loc := time.UTC
	now := time.Date(2026, 8, 25, 14, 30, 0, 0, loc)

	got, err := anchorDate("", now, loc)
	require.NoError(t, err)
	assert.Equal(t, now, got)

	got, err = anchorDate("2026-08-20", now, loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 20, 0, 0, 0, 0, loc), got)
	// The window anchored there includes the date itself.
	r := metrics.LastDays(7, got, loc)
	assert.Equal(t, time.Date(2026, 8, 21, 0, 0, 0, 0, loc), r.End)

	_, err = anchorDate("20/08/2026", now, loc)
	assert.Error(t, err)
}

func TestResolveExerciseType(t *testing.T) {
	code, err := resolveExerciseType("running")
	require.NoError(t, err)
	assert.Equal(t, 33, code)

	code, err = resolveExerciseType("YOGA")
	require.NoError(t, err)
	assert.Equal(t, 66, code)

	_, err = resolveExerciseType("quidditch")
	assert.Error(t, err)
}

func TestFilterWorkouts(t *testing.T) {
	sessions := []models.WorkoutSession{
		{SourceID: 1, ExerciseType: 33},
		{SourceID: 2, ExerciseType: 66},
		{SourceID: 3, ExerciseType: 33},
	}

	out := filterWorkouts(sessions, 33)
	require.Len(t, out, 2)
	assert.Equal(t, int64(1), out[0].SourceID)
	assert.Equal(t, int64(3), out[1].SourceID)
	assert.Empty(t, filterWorkouts(sessions, 1))
}

func TestReportJSON_EmptyRangeMarshals(t *testing.T) {
	// Sample-based reports over a range without data carry gap buckets;
	// their JSON form must still encode.
	loc := time.UTC
	r := metrics.LastDays(7, time.Date(2026, 8, 25, 12, 0, 0, 0, loc), loc)

	hb := metrics.AggregateHeartRate(nil, r, metrics.Day, loc)
	_, err := json.Marshal(heartReport{
		Granularity: "day", Buckets: hb, Series: series.FromHeartRate(hb, metrics.Day),
	})
	require.NoError(t, err)

	ob := metrics.AggregateSpO2(nil, r, metrics.Day, loc)
	_, err = json.Marshal(spo2Report{
		Granularity: "day", Buckets: ob, Series: series.FromSpO2(ob, metrics.Day),
	})
	require.NoError(t, err)
}

func TestCommandsRegistered(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"sync", "status", "today", "sleep", "steps", "heart", "spo2", "workout", "report", "chart"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}
