// Package chart renders series as PNG charts.
package chart

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/asteroid-belt/vitalsync/internal/series"
)

// ErrNotEnoughData is returned when a series has fewer than two plottable
// points. A chart of one point is a dot, not a trend.
var ErrNotEnoughData = errors.New("not enough data points to chart")

const (
	chartWidth  = 1024
	chartHeight = 400
)

var (
	lineColor = drawing.Color{R: 68, G: 102, B: 240, A: 255}
	bandColor = drawing.Color{R: 68, G: 102, B: 240, A: 60}
	goalColor = drawing.Color{R: 46, G: 160, B: 67, A: 255}
	barColor  = drawing.Color{R: 110, G: 120, B: 140, A: 255}
)

// RenderLine draws a series as a line chart. Bands, when present, are
// drawn as a translucent envelope behind the line. NaN gaps split the
// line into segments instead of being bridged.
func RenderLine(s series.Series, title string, w io.Writer) error {
	if plottable(s.Values) < 2 {
		return fmt.Errorf("%w: %s", ErrNotEnoughData, s.Kind)
	}

	segments := runs(s.Values)
	if len(segments) == 0 {
		return fmt.Errorf("%w: %s", ErrNotEnoughData, s.Kind)
	}

	var cs []chart.Series
	if s.Bands != nil {
		for _, run := range segments {
			low := make([]float64, 0, run.end-run.start)
			high := make([]float64, 0, run.end-run.start)
			xs := make([]float64, 0, run.end-run.start)
			for i := run.start; i < run.end; i++ {
				xs = append(xs, float64(i))
				low = append(low, s.Bands[i].Low)
				high = append(high, s.Bands[i].High)
			}
			cs = append(cs, chart.ContinuousSeries{
				XValues: xs,
				YValues: high,
				Style:   chart.Style{StrokeColor: bandColor, StrokeWidth: 1},
			}, chart.ContinuousSeries{
				XValues: xs,
				YValues: low,
				Style:   chart.Style{StrokeColor: bandColor, StrokeWidth: 1, FillColor: bandColor},
			})
		}
	}
	for _, run := range segments {
		xs := make([]float64, 0, run.end-run.start)
		ys := make([]float64, 0, run.end-run.start)
		for i := run.start; i < run.end; i++ {
			xs = append(xs, float64(i))
			ys = append(ys, s.Values[i])
		}
		cs = append(cs, chart.ContinuousSeries{
			XValues: xs,
			YValues: ys,
			Style:   chart.Style{StrokeColor: lineColor, StrokeWidth: 2},
		})
	}

	c := chart.Chart{
		Title:  title,
		Width:  chartWidth,
		Height: chartHeight,
		XAxis: chart.XAxis{
			ValueFormatter: labelFormatter(s.Labels),
		},
		Series: cs,
	}
	return c.Render(chart.PNG, w)
}

// RenderBars draws a series as a bar chart. Bars meeting or beating the
// goal are drawn in the goal color; pass goal <= 0 for no goal.
func RenderBars(s series.Series, title string, goal float64, w io.Writer) error {
	if len(s.Values) == 0 {
		return fmt.Errorf("%w: %s", ErrNotEnoughData, s.Kind)
	}

	bars := make([]chart.Value, 0, len(s.Values))
	for i, v := range s.Values {
		if math.IsNaN(v) {
			v = 0
		}
		color := barColor
		if goal > 0 && v >= goal {
			color = goalColor
		}
		bars = append(bars, chart.Value{
			Value: v,
			Label: s.Labels[i],
			Style: chart.Style{FillColor: color, StrokeColor: color},
		})
	}

	c := chart.BarChart{
		Title:    title,
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: barWidth(len(bars)),
		Bars:     bars,
	}
	return c.Render(chart.PNG, w)
}

func barWidth(n int) int {
	w := (chartWidth - 100) / (n + 1)
	if w > 60 {
		w = 60
	}
	if w < 4 {
		w = 4
	}
	return w
}

func labelFormatter(labels []string) chart.ValueFormatter {
	return func(v interface{}) string {
		f, ok := v.(float64)
		if !ok {
			return ""
		}
		i := int(math.Round(f))
		if i < 0 || i >= len(labels) || math.Abs(f-float64(i)) > 1e-6 {
			return ""
		}
		return labels[i]
	}
}

func plottable(values []float64) int {
	n := 0
	for _, v := range values {
		if !math.IsNaN(v) {
			n++
		}
	}
	return n
}

type run struct{ start, end int }

// runs returns the half-open index ranges of contiguous non-NaN values.
func runs(values []float64) []run {
	var out []run
	start := -1
	for i, v := range values {
		if math.IsNaN(v) {
			if start >= 0 {
				out = append(out, run{start, i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		out = append(out, run{start, len(values)})
	}
	return out
}
