package cli

import (
	"math"
	"strings"

	"github.com/asteroid-belt/vitalsync/internal/scoring"
)

// sparkGlyphs are the eight block glyphs, one per trend level.
var sparkGlyphs = []rune("▁▂▃▄▅▆▇█")

// sparkline renders values as a compact unicode trend. Buckets with no
// valid data render as a space so gaps stay visible.
func sparkline(values []float64) string {
	levels := scoring.Trend(values)
	var b strings.Builder
	for i, lvl := range levels {
		if math.IsNaN(values[i]) {
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(sparkGlyphs[lvl])
	}
	return b.String()
}
