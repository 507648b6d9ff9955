package series

import (
	"encoding/json"
	"math"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asteroid-belt/vitalsync/internal/metrics"
	"github.com/asteroid-belt/vitalsync/internal/models"
)

func dayRange(days int) (metrics.Range, *time.Location) {
	loc := time.UTC
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, loc)
	return metrics.Range{Start: start, End: start.AddDate(0, 0, days)}, loc
}

func TestFromSteps_ParallelArraysAndOrder(t *testing.T) {
	r, loc := dayRange(5)
	records := []models.StepRecord{
		{SourceID: 1, StartTime: r.Start.Add(10 * time.Hour), Count: 5000},
		{SourceID: 2, StartTime: r.Start.AddDate(0, 0, 3).Add(time.Hour), Count: 9000},
	}

	s := FromSteps(metrics.AggregateSteps(records, r, metrics.Day, loc), metrics.Day)

	require.Len(t, s.Labels, 5)
	assert.Equal(t, len(s.Labels), len(s.Values))
	assert.Nil(t, s.Bands)
	assert.True(t, sort.StringsAreSorted(s.Labels), "labels must increase in time")
	assert.Equal(t, 5000.0, s.Values[0])
	assert.Equal(t, 0.0, s.Values[1]) // empty bucket exported, not skipped
	assert.Equal(t, 9000.0, s.Values[3])
}

func TestFromHeartRate_BandsAndGaps(t *testing.T) {
	r, loc := dayRange(2)
	samples := []models.HeartRateSample{
		{SourceID: 1, Timestamp: r.Start.Add(8 * time.Hour), BPM: 55},
		{SourceID: 2, Timestamp: r.Start.Add(9 * time.Hour), BPM: 125},
	}

	s := FromHeartRate(metrics.AggregateHeartRate(samples, r, metrics.Day, loc), metrics.Day)

	require.Len(t, s.Values, 2)
	require.Len(t, s.Bands, 2)
	assert.Equal(t, 55.0, s.Bands[0].Low)
	assert.Equal(t, 125.0, s.Bands[0].High)
	// Day two has no samples: NaN gap, never zero.
	assert.True(t, math.IsNaN(s.Values[1]))
	assert.True(t, math.IsNaN(s.Bands[1].Low))
}

func TestFromSpO2_ConstantNormalBand(t *testing.T) {
	r, loc := dayRange(1)
	samples := []models.SpO2Sample{
		{SourceID: 1, Timestamp: r.Start.Add(time.Hour), Percentage: 97},
	}

	s := FromSpO2(metrics.AggregateSpO2(samples, r, metrics.Day, loc), metrics.Day)
	require.Len(t, s.Bands, 1)
	assert.Equal(t, 95.0, s.Bands[0].Low)
	assert.Equal(t, 100.0, s.Bands[0].High)
}

func TestFromSleep_HoursConversion(t *testing.T) {
	r, loc := dayRange(1)
	night := r.Start.Add(-time.Hour).Add(time.Hour) // starts at range start
	sessions := []models.SleepSession{
		{SourceID: 1, StartTime: night, EndTime: night.Add(8 * time.Hour),
			LightMin: 240, DeepMin: 120, RemMin: 90, AwakeMin: 30},
	}

	s := FromSleep(metrics.AggregateSleep(sessions, r, metrics.Day, loc), metrics.Day)
	require.Len(t, s.Values, 1)
	assert.InDelta(t, 8.0, s.Values[0], 1e-9)
}

func TestSeries_GapsMarshalAsNull(t *testing.T) {
	r, loc := dayRange(3)
	samples := []models.HeartRateSample{
		{SourceID: 1, Timestamp: r.Start.Add(8 * time.Hour), BPM: 60},
	}

	s := FromHeartRate(metrics.AggregateHeartRate(samples, r, metrics.Day, loc), metrics.Day)
	data, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded struct {
		Labels []string   `json:"labels"`
		Values []*float64 `json:"values"`
		Bands  []struct {
			Low  *float64 `json:"low"`
			High *float64 `json:"high"`
		} `json:"bands"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded.Values, 3)
	assert.Equal(t, len(decoded.Labels), len(decoded.Values))
	require.NotNil(t, decoded.Values[0])
	assert.Equal(t, 60.0, *decoded.Values[0])
	assert.Nil(t, decoded.Values[1])
	assert.Nil(t, decoded.Values[2])
	assert.Nil(t, decoded.Bands[1].Low)
}

func TestSeries_EmptyStoreMarshals(t *testing.T) {
	// A range with no records at all must still produce machine-readable
	// output, not an encoding error.
	r, loc := dayRange(7)
	s := FromSpO2(metrics.AggregateSpO2(nil, r, metrics.Day, loc), metrics.Day)

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(data), "null")
}

func TestFromWorkouts_MonthLabels(t *testing.T) {
	loc := time.UTC
	r := metrics.Range{
		Start: time.Date(2026, 6, 1, 0, 0, 0, 0, loc),
		End:   time.Date(2026, 9, 1, 0, 0, 0, 0, loc),
	}

	s := FromWorkouts(metrics.AggregateWorkouts(nil, r, metrics.Month, loc), metrics.Month)
	assert.Equal(t, []string{"2026-06", "2026-07", "2026-08"}, s.Labels)
	assert.Equal(t, len(s.Labels), len(s.Values))
}
