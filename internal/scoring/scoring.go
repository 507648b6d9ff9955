// Package scoring derives goal-relative scores and compact trend
// representations from aggregated metrics. Pure functions, no storage.
package scoring

import (
	"math"
)

// Fixed component weights. Components whose data is absent for the range
// are dropped and the remaining weights renormalized to sum to 1, so "no
// data" never reads as "zero achievement".
const (
	WeightSleep     = 0.4
	WeightSteps     = 0.3
	WeightStability = 0.3
)

// stabilitySlope converts the coefficient of variation of daily mean
// heart rate into a [0,1] stability ratio: cv of 0 scores 1.0, cv of
// 0.25 or worse scores 0.
const stabilitySlope = 4.0

// Component is one weighted term of the energy score.
type Component struct {
	Name   string  `json:"name"`
	Ratio  float64 `json:"ratio"`  // clamped goal-attainment ratio in [0,1]
	Weight float64 `json:"weight"` // renormalized weight actually applied
}

// EnergyScore is the composite 0-100 score with its contributing terms.
type EnergyScore struct {
	Value      float64     `json:"value"`
	Components []Component `json:"components"`
}

// Input carries the per-range summaries the score is computed from.
// Nil pointers (or, for heart rate, fewer than two days of data) mark a
// component as absent.
type Input struct {
	AvgSleepHours  *float64  // mean nightly sleep over the range
	AvgDailySteps  *float64  // mean daily step count over the range
	DailyMeanHR    []float64 // per-day mean heart rate, valid samples only
	SleepGoalHours float64
	StepGoal       int
}

// Score computes the composite energy score. Each ratio is clamped to
// [0,1] before weighting, so no single metric can push the result outside
// [0,100].
func Score(in Input) EnergyScore {
	var components []Component

	if in.AvgSleepHours != nil && in.SleepGoalHours > 0 {
		components = append(components, Component{
			Name:   "sleep",
			Ratio:  clamp01(*in.AvgSleepHours / in.SleepGoalHours),
			Weight: WeightSleep,
		})
	}
	if in.AvgDailySteps != nil && in.StepGoal > 0 {
		components = append(components, Component{
			Name:   "steps",
			Ratio:  clamp01(*in.AvgDailySteps / float64(in.StepGoal)),
			Weight: WeightSteps,
		})
	}
	if ratio, ok := stabilityRatio(in.DailyMeanHR); ok {
		components = append(components, Component{
			Name:   "stability",
			Ratio:  ratio,
			Weight: WeightStability,
		})
	}

	if len(components) == 0 {
		return EnergyScore{}
	}

	var totalWeight float64
	for _, c := range components {
		totalWeight += c.Weight
	}

	var value float64
	for i := range components {
		components[i].Weight /= totalWeight
		value += components[i].Ratio * components[i].Weight
	}

	return EnergyScore{Value: 100 * value, Components: components}
}

// stabilityRatio derives a [0,1] stability term from the day-to-day
// variation of mean heart rate. Needs at least two days of valid data.
func stabilityRatio(dailyMeans []float64) (float64, bool) {
	if len(dailyMeans) < 2 {
		return 0, false
	}

	var sum float64
	for _, v := range dailyMeans {
		sum += v
	}
	mean := sum / float64(len(dailyMeans))
	if mean <= 0 {
		return 0, false
	}

	var sq float64
	for _, v := range dailyMeans {
		d := v - mean
		sq += d * d
	}
	stddev := math.Sqrt(sq / float64(len(dailyMeans)))
	cv := stddev / mean

	return clamp01(1 - stabilitySlope*cv), true
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
