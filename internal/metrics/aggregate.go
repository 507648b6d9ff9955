package metrics

import (
	"time"

	"github.com/asteroid-belt/vitalsync/internal/models"
)

// SleepStats summarizes the sleep sessions starting inside one bucket.
// TotalMin is the sum of stage durations when stages were recorded and
// the session span otherwise; Efficiency is weighted by time in bed.
type SleepStats struct {
	Sessions   int     `json:"sessions"`
	TotalMin   float64 `json:"total_min"`
	LightMin   float64 `json:"light_min"`
	DeepMin    float64 `json:"deep_min"`
	RemMin     float64 `json:"rem_min"`
	AwakeMin   float64 `json:"awake_min"`
	Efficiency float64 `json:"efficiency"`
}

// SleepBucket pairs a bucket with its sleep stats.
type SleepBucket struct {
	Bucket
	Stats SleepStats
}

// AggregateSleep rolls sessions into buckets covering r. Sessions are
// assigned by start time. Buckets without sessions appear with zero stats.
func AggregateSleep(sessions []models.SleepSession, r Range, g Granularity, loc *time.Location) []SleepBucket {
	buckets := Buckets(r, g, loc)
	out := make([]SleepBucket, len(buckets))
	inBed := make([]float64, len(buckets))
	asleep := make([]float64, len(buckets))
	for i, b := range buckets {
		out[i].Bucket = b
	}

	for _, s := range sessions {
		i := bucketIndex(buckets, s.StartTime.In(loc))
		if i < 0 {
			continue
		}
		stats := &out[i].Stats
		stats.Sessions++
		stats.LightMin += s.LightMin
		stats.DeepMin += s.DeepMin
		stats.RemMin += s.RemMin
		stats.AwakeMin += s.AwakeMin

		stageSum := s.LightMin + s.DeepMin + s.RemMin + s.AwakeMin
		if stageSum > 0 {
			stats.TotalMin += stageSum
		} else {
			stats.TotalMin += s.InBedMinutes()
		}
		inBed[i] += s.InBedMinutes()
		asleep[i] += s.AsleepMinutes()
	}

	for i := range out {
		if inBed[i] > 0 {
			eff := asleep[i] / inBed[i]
			if eff > 1 {
				eff = 1
			}
			out[i].Stats.Efficiency = eff
		}
	}
	return out
}

// StepStats is the step total for one bucket.
type StepStats struct {
	Steps int64 `json:"steps"`
}

// StepBucket pairs a bucket with its step stats.
type StepBucket struct {
	Bucket
	Stats StepStats
}

// AggregateSteps sums step counts into buckets covering r. Records are
// assigned by their stored day label, which follows the device-local
// wall clock; records without one fall back to the instant in loc.
func AggregateSteps(records []models.StepRecord, r Range, g Granularity, loc *time.Location) []StepBucket {
	buckets := Buckets(r, g, loc)
	out := make([]StepBucket, len(buckets))
	for i, b := range buckets {
		out[i].Bucket = b
	}
	for _, rec := range records {
		i := bucketIndex(buckets, stepBucketTime(rec, loc))
		if i < 0 {
			continue
		}
		out[i].Stats.Steps += rec.Count
	}
	return out
}

// stepBucketTime places a step record on the timeline for bucketing.
// The merge assigns Day from the export's device-local wall time, so
// day buckets agree with the label even when the device zone and the
// configured zone disagree around midnight.
func stepBucketTime(rec models.StepRecord, loc *time.Location) time.Time {
	if rec.Day != "" {
		if d, err := time.ParseInLocation("2006-01-02", rec.Day, loc); err == nil {
			return d
		}
	}
	return rec.StartTime.In(loc)
}

// HeartStats summarizes valid heart-rate samples in one bucket. Flagged
// samples are excluded from Min/Max/Mean but counted; a bucket whose
// samples are all flagged (or that has none) reports Valid=false rather
// than zeros.
type HeartStats struct {
	Valid   bool    `json:"valid"`
	Min     int     `json:"min"`
	Max     int     `json:"max"`
	Mean    float64 `json:"mean"`
	Samples int     `json:"samples"`
	Flagged int     `json:"flagged"`
}

// HeartBucket pairs a bucket with its heart-rate stats.
type HeartBucket struct {
	Bucket
	Stats HeartStats
}

// AggregateHeartRate computes min/max/mean of valid samples per bucket.
func AggregateHeartRate(samples []models.HeartRateSample, r Range, g Granularity, loc *time.Location) []HeartBucket {
	buckets := Buckets(r, g, loc)
	out := make([]HeartBucket, len(buckets))
	sums := make([]int64, len(buckets))
	for i, b := range buckets {
		out[i].Bucket = b
	}

	for _, s := range samples {
		i := bucketIndex(buckets, s.Timestamp.In(loc))
		if i < 0 {
			continue
		}
		stats := &out[i].Stats
		if s.Flagged {
			stats.Flagged++
			continue
		}
		if stats.Samples == 0 || s.BPM < stats.Min {
			stats.Min = s.BPM
		}
		if s.BPM > stats.Max {
			stats.Max = s.BPM
		}
		stats.Samples++
		sums[i] += int64(s.BPM)
	}

	for i := range out {
		if out[i].Stats.Samples > 0 {
			out[i].Stats.Valid = true
			out[i].Stats.Mean = float64(sums[i]) / float64(out[i].Stats.Samples)
		}
	}
	return out
}

// SpO2Stats summarizes valid SpO2 samples in one bucket.
type SpO2Stats struct {
	Valid   bool    `json:"valid"`
	Mean    float64 `json:"mean"`
	Min     float64 `json:"min"`
	Samples int     `json:"samples"`
	Flagged int     `json:"flagged"`
}

// SpO2Bucket pairs a bucket with its SpO2 stats.
type SpO2Bucket struct {
	Bucket
	Stats SpO2Stats
}

// AggregateSpO2 computes mean and min of valid samples per bucket.
func AggregateSpO2(samples []models.SpO2Sample, r Range, g Granularity, loc *time.Location) []SpO2Bucket {
	buckets := Buckets(r, g, loc)
	out := make([]SpO2Bucket, len(buckets))
	sums := make([]float64, len(buckets))
	for i, b := range buckets {
		out[i].Bucket = b
	}

	for _, s := range samples {
		i := bucketIndex(buckets, s.Timestamp.In(loc))
		if i < 0 {
			continue
		}
		stats := &out[i].Stats
		if s.Flagged {
			stats.Flagged++
			continue
		}
		if stats.Samples == 0 || s.Percentage < stats.Min {
			stats.Min = s.Percentage
		}
		stats.Samples++
		sums[i] += s.Percentage
	}

	for i := range out {
		if out[i].Stats.Samples > 0 {
			out[i].Stats.Valid = true
			out[i].Stats.Mean = sums[i] / float64(out[i].Stats.Samples)
		}
	}
	return out
}

// WorkoutTypeStats summarizes one exercise type within a bucket.
type WorkoutTypeStats struct {
	Count    int     `json:"count"`
	TotalMin float64 `json:"total_min"`
}

// WorkoutStats summarizes workouts in one bucket, split by exercise type.
type WorkoutStats struct {
	Count    int                      `json:"count"`
	TotalMin float64                  `json:"total_min"`
	ByType   map[int]WorkoutTypeStats `json:"by_type,omitempty"`
}

// WorkoutBucket pairs a bucket with its workout stats.
type WorkoutBucket struct {
	Bucket
	Stats WorkoutStats
}

// AggregateWorkouts counts sessions and sums durations per bucket.
func AggregateWorkouts(sessions []models.WorkoutSession, r Range, g Granularity, loc *time.Location) []WorkoutBucket {
	buckets := Buckets(r, g, loc)
	out := make([]WorkoutBucket, len(buckets))
	for i, b := range buckets {
		out[i].Bucket = b
	}

	for _, s := range sessions {
		i := bucketIndex(buckets, s.StartTime.In(loc))
		if i < 0 {
			continue
		}
		stats := &out[i].Stats
		stats.Count++
		dur := s.DurationMinutes()
		stats.TotalMin += dur
		if stats.ByType == nil {
			stats.ByType = make(map[int]WorkoutTypeStats)
		}
		ts := stats.ByType[s.ExerciseType]
		ts.Count++
		ts.TotalMin += dur
		stats.ByType[s.ExerciseType] = ts
	}
	return out
}
