package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/asteroid-belt/vitalsync/internal/chart"
	"github.com/asteroid-belt/vitalsync/internal/metrics"
	"github.com/asteroid-belt/vitalsync/internal/series"
)

var (
	chartDays   int
	chartBy     string
	chartOutput string
)

var chartCmd = &cobra.Command{
	Use:   "chart <sleep|steps|heart|spo2|workout>",
	Short: "Render a metric as a PNG chart",
	Long: `Render one metric over the period as a PNG chart.

Steps render as bars colored by goal attainment; the other metrics
render as lines, heart rate and blood oxygen with their range bands.

Examples:
  vitalsync chart steps --days 30 -o steps.png
  vitalsync chart heart --days 90 --by week -o heart.png`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"sleep", "steps", "heart", "spo2", "workout"},
	RunE:      runChart,
}

func init() {
	chartCmd.Flags().IntVar(&chartDays, "days", 30, "number of days to look back")
	chartCmd.Flags().StringVar(&chartBy, "by", "day", "bucket size: day, week, or month")
	chartCmd.Flags().StringVarP(&chartOutput, "output", "o", "", "output PNG path (default <metric>.png)")
}

func runChart(cmd *cobra.Command, args []string) error {
	metric := args[0]

	days, err := resolveDays(chartDays)
	if err != nil {
		return err
	}
	g, err := parseGranularity(chartBy)
	if err != nil {
		return err
	}

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	r := metrics.LastDays(days, time.Now(), e.loc)

	s, title, bars, goal, err := chartSeries(e, metric, r, g)
	if err != nil {
		return err
	}

	out := chartOutput
	if out == "" {
		out = metric + ".png"
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	defer f.Close()

	if bars {
		err = chart.RenderBars(s, title, goal, f)
	} else {
		err = chart.RenderLine(s, title, f)
	}
	if err != nil {
		os.Remove(out)
		return err
	}

	if !jsonOutput {
		fmt.Printf("%s Wrote %s\n", goodStyle.Render("✓"), out)
	}
	return nil
}

// chartSeries loads and shapes the requested metric. The bool result
// selects bar rendering; goal is the bar goal value, 0 for none.
func chartSeries(e *env, metric string, r metrics.Range, g metrics.Granularity) (series.Series, string, bool, float64, error) {
	switch metric {
	case "sleep":
		sessions, err := e.store.SleepSessionsBetween(r.Start, r.End)
		if err != nil {
			return series.Series{}, "", false, 0, err
		}
		return series.FromSleep(metrics.AggregateSleep(sessions, r, g, e.loc), g), "Sleep hours", false, 0, nil
	case "steps":
		records, err := e.store.StepRecordsBetween(r.Start, r.End)
		if err != nil {
			return series.Series{}, "", false, 0, err
		}
		goal := 0.0
		// A daily goal only colors day-sized bars.
		if g == metrics.Day {
			goal = float64(e.cfg.Goals.DailySteps)
		}
		return series.FromSteps(metrics.AggregateSteps(records, r, g, e.loc), g), "Steps", true, goal, nil
	case "heart":
		samples, err := e.store.HeartRateSamplesBetween(r.Start, r.End)
		if err != nil {
			return series.Series{}, "", false, 0, err
		}
		return series.FromHeartRate(metrics.AggregateHeartRate(samples, r, g, e.loc), g), "Heart rate (bpm)", false, 0, nil
	case "spo2":
		samples, err := e.store.SpO2SamplesBetween(r.Start, r.End)
		if err != nil {
			return series.Series{}, "", false, 0, err
		}
		return series.FromSpO2(metrics.AggregateSpO2(samples, r, g, e.loc), g), "Blood oxygen (%)", false, 0, nil
	case "workout":
		sessions, err := e.store.WorkoutSessionsBetween(r.Start, r.End)
		if err != nil {
			return series.Series{}, "", false, 0, err
		}
		return series.FromWorkouts(metrics.AggregateWorkouts(sessions, r, g, e.loc), g), "Workout minutes", true, 0, nil
	default:
		return series.Series{}, "", false, 0, fmt.Errorf("unknown metric %q", metric)
	}
}
