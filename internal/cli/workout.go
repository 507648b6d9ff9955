package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/asteroid-belt/vitalsync/internal/metrics"
	"github.com/asteroid-belt/vitalsync/internal/models"
)

var (
	workoutDays int
	workoutType string
)

var workoutCmd = &cobra.Command{
	Use:   "workout",
	Short: "Show workout history",
	Long: `List workout sessions in the period and total time per exercise type.

Examples:
  vitalsync workout
  vitalsync workout --days 90
  vitalsync workout --type running`,
	Args: cobra.NoArgs,
	RunE: runWorkout,
}

func init() {
	workoutCmd.Flags().IntVar(&workoutDays, "days", 30, "number of days to look back")
	workoutCmd.Flags().StringVar(&workoutType, "type", "", "only show one exercise type, by name")
}

// resolveExerciseType maps an exercise type name, case-insensitively, to
// its code.
func resolveExerciseType(name string) (int, error) {
	for code, n := range models.ExerciseTypes {
		if strings.EqualFold(n, name) {
			return code, nil
		}
	}
	return 0, fmt.Errorf("unknown workout type %q", name)
}

func filterWorkouts(sessions []models.WorkoutSession, exerciseType int) []models.WorkoutSession {
	var out []models.WorkoutSession
	for _, s := range sessions {
		if s.ExerciseType == exerciseType {
			out = append(out, s)
		}
	}
	return out
}

type workoutReport struct {
	Sessions []models.WorkoutSession `json:"sessions"`
	Stats    metrics.WorkoutStats    `json:"stats"`
}

func runWorkout(cmd *cobra.Command, args []string) error {
	days, err := resolveDays(workoutDays)
	if err != nil {
		return err
	}

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	r := metrics.LastDays(days, time.Now(), e.loc)
	sessions, err := e.store.WorkoutSessionsBetween(r.Start, r.End)
	if err != nil {
		return fmt.Errorf("load workouts: %w", err)
	}

	if workoutType != "" {
		code, err := resolveExerciseType(workoutType)
		if err != nil {
			return err
		}
		sessions = filterWorkouts(sessions, code)
	}

	// Collapse the bucketed rollup into period totals.
	var stats metrics.WorkoutStats
	if buckets := metrics.AggregateWorkouts(sessions, r, metrics.Month, e.loc); len(buckets) > 0 {
		for _, b := range buckets {
			stats.Count += b.Stats.Count
			stats.TotalMin += b.Stats.TotalMin
			for typ, ts := range b.Stats.ByType {
				if stats.ByType == nil {
					stats.ByType = make(map[int]metrics.WorkoutTypeStats)
				}
				agg := stats.ByType[typ]
				agg.Count += ts.Count
				agg.TotalMin += ts.TotalMin
				stats.ByType[typ] = agg
			}
		}
	}

	if jsonOutput {
		return printJSON(workoutReport{Sessions: sessions, Stats: stats})
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("Workouts, last %d days", days)))
	if stats.Count == 0 {
		fmt.Println(dimStyle.Render("  no workouts recorded"))
		return nil
	}
	fmt.Printf("  %d sessions, %s total\n\n", stats.Count, formatMinutes(stats.TotalMin))

	types := make([]int, 0, len(stats.ByType))
	for typ := range stats.ByType {
		types = append(types, typ)
	}
	sort.Slice(types, func(i, j int) bool {
		return stats.ByType[types[i]].TotalMin > stats.ByType[types[j]].TotalMin
	})
	for _, typ := range types {
		ts := stats.ByType[typ]
		fmt.Printf("  %-20s %2dx  %s\n", models.ExerciseTypeName(typ), ts.Count, formatMinutes(ts.TotalMin))
	}

	fmt.Println()
	for _, w := range sessions {
		title := w.Title
		if title == "" {
			title = w.ExerciseName()
		}
		fmt.Printf("  %s  %-20s %s\n",
			w.StartTime.In(e.loc).Format("2006-01-02 15:04"), title, formatMinutes(w.DurationMinutes()))
	}
	return nil
}
