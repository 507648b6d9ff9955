package cli

import (
	"fmt"
	"math"
	"time"

	"github.com/spf13/cobra"

	"github.com/asteroid-belt/vitalsync/internal/metrics"
	"github.com/asteroid-belt/vitalsync/internal/scoring"
	"github.com/asteroid-belt/vitalsync/internal/series"
)

var reportDays int

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the energy score and metric trends",
	Long: `Compute the composite energy score for the period and show a compact
trend for each metric.

The score weighs sleep against the sleep goal, steps against the step
goal, and the day-to-day stability of resting heart rate. Metrics with
no data in the period are dropped and the remaining weights rescaled.

Examples:
  vitalsync report
  vitalsync report --days 30`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().IntVar(&reportDays, "days", 7, "number of days to look back")
}

type reportOutput struct {
	Days   int                 `json:"days"`
	Score  scoring.EnergyScore `json:"score"`
	Trends map[string]string   `json:"trends"`
}

func runReport(cmd *cobra.Command, args []string) error {
	days, err := resolveDays(reportDays)
	if err != nil {
		return err
	}

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	r := metrics.LastDays(days, time.Now(), e.loc)

	sessions, err := e.store.SleepSessionsBetween(r.Start, r.End)
	if err != nil {
		return fmt.Errorf("load sleep: %w", err)
	}
	steps, err := e.store.StepRecordsBetween(r.Start, r.End)
	if err != nil {
		return fmt.Errorf("load steps: %w", err)
	}
	hr, err := e.store.HeartRateSamplesBetween(r.Start, r.End)
	if err != nil {
		return fmt.Errorf("load heart rate: %w", err)
	}
	spo2, err := e.store.SpO2SamplesBetween(r.Start, r.End)
	if err != nil {
		return fmt.Errorf("load spo2: %w", err)
	}

	sleepBuckets := metrics.AggregateSleep(sessions, r, metrics.Day, e.loc)
	stepBuckets := metrics.AggregateSteps(steps, r, metrics.Day, e.loc)
	heartBuckets := metrics.AggregateHeartRate(hr, r, metrics.Day, e.loc)
	spo2Buckets := metrics.AggregateSpO2(spo2, r, metrics.Day, e.loc)

	in := scoring.Input{
		SleepGoalHours: e.cfg.Goals.SleepHours,
		StepGoal:       e.cfg.Goals.DailySteps,
	}

	// Averages run over days that have data; empty days would otherwise
	// drag a sparse week to zero.
	var sleepSum float64
	var sleepDaysN int
	for _, b := range sleepBuckets {
		if b.Stats.Sessions > 0 {
			sleepSum += b.Stats.TotalMin / 60
			sleepDaysN++
		}
	}
	if sleepDaysN > 0 {
		avg := sleepSum / float64(sleepDaysN)
		in.AvgSleepHours = &avg
	}

	var stepSum float64
	var stepDaysN int
	for _, b := range stepBuckets {
		if b.Stats.Steps > 0 {
			stepSum += float64(b.Stats.Steps)
			stepDaysN++
		}
	}
	if stepDaysN > 0 {
		avg := stepSum / float64(stepDaysN)
		in.AvgDailySteps = &avg
	}

	for _, b := range heartBuckets {
		if b.Stats.Valid {
			in.DailyMeanHR = append(in.DailyMeanHR, b.Stats.Mean)
		}
	}

	score := scoring.Score(in)

	trends := map[string]string{
		"sleep":      sparkline(series.FromSleep(sleepBuckets, metrics.Day).Values),
		"steps":      sparkline(series.FromSteps(stepBuckets, metrics.Day).Values),
		"heart_rate": sparkline(series.FromHeartRate(heartBuckets, metrics.Day).Values),
		"spo2":       sparkline(series.FromSpO2(spo2Buckets, metrics.Day).Values),
	}

	if jsonOutput {
		return printJSON(reportOutput{Days: days, Score: score, Trends: trends})
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("Energy report, last %d days", days)))

	if len(score.Components) == 0 {
		fmt.Println(dimStyle.Render("  no data to score"))
		return nil
	}

	scoreStyle := errStyle
	switch {
	case score.Value >= 75:
		scoreStyle = goodStyle
	case score.Value >= 50:
		scoreStyle = warnStyle
	}
	fmt.Printf("  Score: %s / 100\n\n", scoreStyle.Render(fmt.Sprintf("%.0f", math.Round(score.Value))))

	for _, c := range score.Components {
		fmt.Printf("  %-10s %3.0f%%  %s\n",
			c.Name, c.Ratio*100, dimStyle.Render(fmt.Sprintf("weight %.2f", c.Weight)))
	}

	fmt.Println()
	fmt.Printf("  sleep  %s\n", trends["sleep"])
	fmt.Printf("  steps  %s\n", trends["steps"])
	fmt.Printf("  heart  %s\n", trends["heart_rate"])
	fmt.Printf("  spo2   %s\n", trends["spo2"])
	return nil
}
