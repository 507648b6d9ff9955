package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/asteroid-belt/vitalsync/internal/metrics"
	"github.com/asteroid-belt/vitalsync/internal/series"
)

var (
	sleepDays int
	sleepBy   string
	sleepDate string
)

var sleepCmd = &cobra.Command{
	Use:   "sleep",
	Short: "Show sleep history",
	Long: `Show sleep totals, stage breakdown, and efficiency per bucket.

The window ends today by default; --date moves it to end on a past date
instead.

Examples:
  vitalsync sleep
  vitalsync sleep --days 30 --by week
  vitalsync sleep --date 2026-08-20`,
	Args: cobra.NoArgs,
	RunE: runSleep,
}

func init() {
	sleepCmd.Flags().IntVar(&sleepDays, "days", 7, "number of days to look back")
	sleepCmd.Flags().StringVar(&sleepBy, "by", "day", "bucket size: day, week, or month")
	sleepCmd.Flags().StringVar(&sleepDate, "date", "", "end the window on this date (YYYY-MM-DD)")
}

// anchorDate resolves the instant a lookback window should end around:
// the given calendar date when set, now otherwise.
func anchorDate(date string, now time.Time, loc *time.Location) (time.Time, error) {
	if date == "" {
		return now, nil
	}
	d, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", date)
	}
	return d, nil
}

type sleepReport struct {
	Granularity string                `json:"granularity"`
	Buckets     []metrics.SleepBucket `json:"buckets"`
	Series      series.Series         `json:"series"`
}

func runSleep(cmd *cobra.Command, args []string) error {
	days, err := resolveDays(sleepDays)
	if err != nil {
		return err
	}
	g, err := parseGranularity(sleepBy)
	if err != nil {
		return err
	}

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	anchor, err := anchorDate(sleepDate, time.Now(), e.loc)
	if err != nil {
		return err
	}

	r := metrics.LastDays(days, anchor, e.loc)
	sessions, err := e.store.SleepSessionsBetween(r.Start, r.End)
	if err != nil {
		return fmt.Errorf("load sleep: %w", err)
	}

	buckets := metrics.AggregateSleep(sessions, r, g, e.loc)
	s := series.FromSleep(buckets, g)

	if jsonOutput {
		return printJSON(sleepReport{Granularity: g.String(), Buckets: buckets, Series: s})
	}

	title := fmt.Sprintf("Sleep, last %d days", days)
	if sleepDate != "" {
		title = fmt.Sprintf("Sleep, %d days ending %s", days, sleepDate)
	}
	fmt.Printf("%s  %s\n", headerStyle.Render(title), sparkline(s.Values))
	overruns := 0
	for _, sess := range sessions {
		if sess.StageOverrun {
			overruns++
		}
	}
	if overruns > 0 {
		fmt.Printf("%s\n", warnStyle.Render(fmt.Sprintf("  %d session(s) with inconsistent stage data", overruns)))
	}
	fmt.Println()

	for _, b := range buckets {
		if b.Stats.Sessions == 0 {
			fmt.Printf("  %-10s %s\n", b.Label(g), dimStyle.Render("-"))
			continue
		}
		fmt.Printf("  %-10s %-8s  deep %-7s rem %-7s awake %-7s eff %.0f%%\n",
			b.Label(g),
			formatMinutes(b.Stats.TotalMin),
			formatMinutes(b.Stats.DeepMin),
			formatMinutes(b.Stats.RemMin),
			formatMinutes(b.Stats.AwakeMin),
			b.Stats.Efficiency*100)
	}
	return nil
}
