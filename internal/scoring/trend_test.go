package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrend_MinMaxNormalization(t *testing.T) {
	levels := Trend([]float64{0, 50, 100})
	require.Len(t, levels, 3)
	assert.Equal(t, 0, levels[0])
	assert.Equal(t, 3, levels[1])
	assert.Equal(t, 7, levels[2])
}

func TestTrend_RangeRelative(t *testing.T) {
	// Same shape at a different scale quantizes identically.
	a := Trend([]float64{1, 2, 3, 4})
	b := Trend([]float64{1000, 2000, 3000, 4000})
	assert.Equal(t, a, b)
}

func TestTrend_FlatSeries(t *testing.T) {
	levels := Trend([]float64{5, 5, 5})
	assert.Equal(t, []int{0, 0, 0}, levels)
}

func TestTrend_NaNMapsToZero(t *testing.T) {
	levels := Trend([]float64{10, math.NaN(), 20})
	require.Len(t, levels, 3)
	assert.Equal(t, 0, levels[1])
	assert.Equal(t, 7, levels[2])
}

func TestTrend_Empty(t *testing.T) {
	assert.Nil(t, Trend(nil))
}

func TestTrend_LevelsWithinBounds(t *testing.T) {
	values := []float64{3, 1, 4, 1, 5, 9, 2, 6, 5, 3, 5}
	for _, l := range Trend(values) {
		assert.GreaterOrEqual(t, l, 0)
		assert.Less(t, l, TrendLevels)
	}
}
