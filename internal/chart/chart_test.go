package chart

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asteroid-belt/vitalsync/internal/series"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestRenderLine_ProducesPNG(t *testing.T) {
	s := series.Series{
		Kind:   "sleep",
		Labels: []string{"2026-08-18", "2026-08-19", "2026-08-20"},
		Values: []float64{7.5, 6.2, 8.1},
	}

	var buf bytes.Buffer
	require.NoError(t, RenderLine(s, "Sleep hours", &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestRenderLine_WithBandsAndGap(t *testing.T) {
	nan := math.NaN()
	s := series.Series{
		Kind:   "heart_rate",
		Labels: []string{"d1", "d2", "d3", "d4"},
		Values: []float64{62, 64, nan, 59},
		Bands: []series.Band{
			{Low: 48, High: 130},
			{Low: 50, High: 141},
			{Low: nan, High: nan},
			{Low: 47, High: 122},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, RenderLine(s, "Heart rate", &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestRenderLine_NotEnoughData(t *testing.T) {
	s := series.Series{
		Kind:   "spo2",
		Labels: []string{"d1", "d2"},
		Values: []float64{math.NaN(), 97},
	}

	var buf bytes.Buffer
	err := RenderLine(s, "SpO2", &buf)
	assert.ErrorIs(t, err, ErrNotEnoughData)
}

func TestRenderBars_GoalColoring(t *testing.T) {
	s := series.Series{
		Kind:   "steps",
		Labels: []string{"2026-08-18", "2026-08-19"},
		Values: []float64{8432, 11250},
	}

	var buf bytes.Buffer
	require.NoError(t, RenderBars(s, "Daily steps", 10000, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestRenderBars_Empty(t *testing.T) {
	var buf bytes.Buffer
	err := RenderBars(series.Series{Kind: "steps"}, "Daily steps", 0, &buf)
	assert.ErrorIs(t, err, ErrNotEnoughData)
}

func TestRuns_SplitsOnNaN(t *testing.T) {
	nan := math.NaN()
	got := runs([]float64{nan, 1, 2, nan, nan, 3, 4, 5})
	assert.Equal(t, []run{{1, 3}, {5, 8}}, got)

	assert.Empty(t, runs([]float64{nan, nan}))
	assert.Equal(t, []run{{0, 2}}, runs([]float64{1, 2}))
}
