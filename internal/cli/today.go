package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/asteroid-belt/vitalsync/internal/metrics"
)

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show a summary of today's health data",
	Long: `Show today's steps against the goal, last night's sleep, today's heart
rate range, the latest blood-oxygen reading, and any workouts.

This is also what running vitalsync with no arguments shows.`,
	Args: cobra.NoArgs,
	RunE: runToday,
}

type todaySummary struct {
	Date     string              `json:"date"`
	Steps    int64               `json:"steps"`
	StepGoal int                 `json:"step_goal"`
	Sleep    *sleepNight         `json:"sleep,omitempty"`
	Heart    *metrics.HeartStats `json:"heart,omitempty"`
	SpO2     *spo2Reading        `json:"spo2,omitempty"`
	Workouts []workoutLine       `json:"workouts,omitempty"`
}

type sleepNight struct {
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	TotalMin   float64   `json:"total_min"`
	DeepMin    float64   `json:"deep_min"`
	RemMin     float64   `json:"rem_min"`
	Efficiency float64   `json:"efficiency"`
}

type spo2Reading struct {
	At         time.Time `json:"at"`
	Percentage float64   `json:"percentage"`
}

type workoutLine struct {
	Start   time.Time `json:"start"`
	Name    string    `json:"name"`
	Minutes float64   `json:"minutes"`
}

func runToday(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	now := time.Now()
	today := metrics.LastDays(1, now, e.loc)
	summary := todaySummary{
		Date:     today.Start.Format("2006-01-02"),
		StepGoal: e.cfg.Goals.DailySteps,
	}

	steps, err := e.store.StepRecordsBetween(today.Start, today.End)
	if err != nil {
		return fmt.Errorf("load steps: %w", err)
	}
	for _, rec := range steps {
		summary.Steps += rec.Count
	}

	// Last night's sleep: the most recent session that started within the
	// last two days, so sessions beginning before midnight still count.
	sleepRange := metrics.LastDays(2, now, e.loc)
	sessions, err := e.store.SleepSessionsBetween(sleepRange.Start, sleepRange.End)
	if err != nil {
		return fmt.Errorf("load sleep: %w", err)
	}
	if len(sessions) > 0 {
		last := sessions[len(sessions)-1]
		stageSum := last.LightMin + last.DeepMin + last.RemMin + last.AwakeMin
		total := stageSum
		if total == 0 {
			total = last.InBedMinutes()
		}
		summary.Sleep = &sleepNight{
			Start:      last.StartTime,
			End:        last.EndTime,
			TotalMin:   total,
			DeepMin:    last.DeepMin,
			RemMin:     last.RemMin,
			Efficiency: last.Efficiency(),
		}
	}

	hr, err := e.store.HeartRateSamplesBetween(today.Start, today.End)
	if err != nil {
		return fmt.Errorf("load heart rate: %w", err)
	}
	if buckets := metrics.AggregateHeartRate(hr, today, metrics.Day, e.loc); len(buckets) > 0 && buckets[0].Stats.Valid {
		stats := buckets[0].Stats
		summary.Heart = &stats
	}

	spo2, err := e.store.SpO2SamplesBetween(today.Start, today.End)
	if err != nil {
		return fmt.Errorf("load spo2: %w", err)
	}
	for i := len(spo2) - 1; i >= 0; i-- {
		if !spo2[i].Flagged {
			summary.SpO2 = &spo2Reading{At: spo2[i].Timestamp, Percentage: spo2[i].Percentage}
			break
		}
	}

	workouts, err := e.store.WorkoutSessionsBetween(today.Start, today.End)
	if err != nil {
		return fmt.Errorf("load workouts: %w", err)
	}
	for _, w := range workouts {
		summary.Workouts = append(summary.Workouts, workoutLine{
			Start:   w.StartTime,
			Name:    w.ExerciseName(),
			Minutes: w.DurationMinutes(),
		})
	}

	if jsonOutput {
		return printJSON(summary)
	}
	printToday(e, summary)
	return nil
}

func printToday(e *env, s todaySummary) {
	fmt.Println(headerStyle.Render("Today " + s.Date))

	stepStyle := warnStyle
	if s.StepGoal > 0 && s.Steps >= int64(s.StepGoal) {
		stepStyle = goodStyle
	}
	fmt.Printf("  Steps:   %s of %d\n", stepStyle.Render(fmt.Sprintf("%d", s.Steps)), s.StepGoal)

	if s.Sleep != nil {
		fmt.Printf("  Sleep:   %s  (deep %s, REM %s, efficiency %.0f%%)\n",
			formatMinutes(s.Sleep.TotalMin),
			formatMinutes(s.Sleep.DeepMin),
			formatMinutes(s.Sleep.RemMin),
			s.Sleep.Efficiency*100)
	} else {
		fmt.Printf("  Sleep:   %s\n", dimStyle.Render("no data"))
	}

	if s.Heart != nil {
		fmt.Printf("  Heart:   %d-%d bpm, avg %.0f (%d samples)\n",
			s.Heart.Min, s.Heart.Max, s.Heart.Mean, s.Heart.Samples)
	} else {
		fmt.Printf("  Heart:   %s\n", dimStyle.Render("no data"))
	}

	if s.SpO2 != nil {
		style := goodStyle
		if s.SpO2.Percentage < 95 {
			style = warnStyle
		}
		fmt.Printf("  SpO2:    %s at %s\n",
			style.Render(fmt.Sprintf("%.0f%%", s.SpO2.Percentage)),
			s.SpO2.At.In(e.loc).Format("15:04"))
	}

	if len(s.Workouts) > 0 {
		fmt.Println("  Workouts:")
		for _, w := range s.Workouts {
			fmt.Printf("    %s %s (%s)\n",
				w.Start.In(e.loc).Format("15:04"), w.Name, formatMinutes(w.Minutes))
		}
	}
}

// formatMinutes renders a minute count as "7h 32m".
func formatMinutes(min float64) string {
	total := int(min + 0.5)
	h, m := total/60, total%60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %02dm", h, m)
}
