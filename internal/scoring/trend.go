package scoring

import "math"

// TrendLevels is the number of discrete levels trend values are
// quantized into, matching the eight sparkline glyphs.
const TrendLevels = 8

// Trend maps each value to a discrete level in [0, TrendLevels) via
// min-max normalization over the given values. Normalization is
// range-relative and recomputed per call, not cached. NaN values (buckets
// with no valid data) map to level 0.
func Trend(values []float64) []int {
	if len(values) == 0 {
		return nil
	}

	minV, maxV := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}

	levels := make([]int, len(values))
	span := maxV - minV
	if math.IsInf(minV, 1) || span == 0 {
		return levels
	}

	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		levels[i] = int((v - minV) / span * float64(TrendLevels-1))
	}
	return levels
}
