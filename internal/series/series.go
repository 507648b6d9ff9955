// Package series reshapes aggregated buckets into the flat parallel
// arrays consumed by reporting and chart rendering. Pure reshaping: one
// entry per bucket, labels strictly increasing in time, nothing omitted.
package series

import (
	"encoding/json"
	"math"

	"github.com/asteroid-belt/vitalsync/internal/metrics"
)

// Band is an optional per-point low/high envelope.
type Band struct {
	Low  float64
	High float64
}

// Series holds chart-ready parallel arrays. Len(Labels) == len(Values)
// always; Bands is nil for kinds that define none, otherwise the same
// length. Buckets with no valid data carry NaN so renderers can show a
// gap instead of a fake zero. JSON marshaling is custom: see
// MarshalJSON.
type Series struct {
	Kind   string
	Labels []string
	Values []float64
	Bands  []Band
}

// jsonValue is a float64 whose NaN form marshals as null.
// encoding/json rejects NaN outright, and a series over an empty or
// sparse store always contains gaps.
type jsonValue float64

func (v jsonValue) MarshalJSON() ([]byte, error) {
	if math.IsNaN(float64(v)) {
		return []byte("null"), nil
	}
	return json.Marshal(float64(v))
}

// MarshalJSON emits the parallel arrays with gap buckets as null, so a
// range without data is still well-formed machine output. Renderers keep
// working with the NaN form in memory.
func (s Series) MarshalJSON() ([]byte, error) {
	type band struct {
		Low  jsonValue `json:"low"`
		High jsonValue `json:"high"`
	}
	out := struct {
		Kind   string      `json:"kind"`
		Labels []string    `json:"labels"`
		Values []jsonValue `json:"values"`
		Bands  []band      `json:"bands,omitempty"`
	}{
		Kind:   s.Kind,
		Labels: s.Labels,
		Values: make([]jsonValue, 0, len(s.Values)),
	}
	if out.Labels == nil {
		out.Labels = []string{}
	}
	for _, v := range s.Values {
		out.Values = append(out.Values, jsonValue(v))
	}
	for _, b := range s.Bands {
		out.Bands = append(out.Bands, band{Low: jsonValue(b.Low), High: jsonValue(b.High)})
	}
	return json.Marshal(out)
}

// SpO2 normal-range band bounds, constant across buckets.
const (
	SpO2NormalLow  = 95
	SpO2NormalHigh = 100
)

// FromSleep exports total sleep hours per bucket.
func FromSleep(buckets []metrics.SleepBucket, g metrics.Granularity) Series {
	s := Series{Kind: "sleep"}
	for _, b := range buckets {
		s.Labels = append(s.Labels, b.Label(g))
		s.Values = append(s.Values, b.Stats.TotalMin/60)
	}
	return s
}

// FromSteps exports step totals per bucket.
func FromSteps(buckets []metrics.StepBucket, g metrics.Granularity) Series {
	s := Series{Kind: "steps"}
	for _, b := range buckets {
		s.Labels = append(s.Labels, b.Label(g))
		s.Values = append(s.Values, float64(b.Stats.Steps))
	}
	return s
}

// FromHeartRate exports mean BPM per bucket with a min/max band. Buckets
// without valid samples carry NaN.
func FromHeartRate(buckets []metrics.HeartBucket, g metrics.Granularity) Series {
	s := Series{Kind: "heart_rate"}
	for _, b := range buckets {
		s.Labels = append(s.Labels, b.Label(g))
		if b.Stats.Valid {
			s.Values = append(s.Values, b.Stats.Mean)
			s.Bands = append(s.Bands, Band{Low: float64(b.Stats.Min), High: float64(b.Stats.Max)})
		} else {
			s.Values = append(s.Values, math.NaN())
			s.Bands = append(s.Bands, Band{Low: math.NaN(), High: math.NaN()})
		}
	}
	return s
}

// FromSpO2 exports mean saturation per bucket with the constant normal
// range band.
func FromSpO2(buckets []metrics.SpO2Bucket, g metrics.Granularity) Series {
	s := Series{Kind: "spo2"}
	for _, b := range buckets {
		s.Labels = append(s.Labels, b.Label(g))
		if b.Stats.Valid {
			s.Values = append(s.Values, b.Stats.Mean)
		} else {
			s.Values = append(s.Values, math.NaN())
		}
		s.Bands = append(s.Bands, Band{Low: SpO2NormalLow, High: SpO2NormalHigh})
	}
	return s
}

// FromWorkouts exports total workout minutes per bucket.
func FromWorkouts(buckets []metrics.WorkoutBucket, g metrics.Granularity) Series {
	s := Series{Kind: "workout"}
	for _, b := range buckets {
		s.Labels = append(s.Labels, b.Label(g))
		s.Values = append(s.Values, b.Stats.TotalMin)
	}
	return s
}
