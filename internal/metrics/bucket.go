// Package metrics computes time-bucketed rollups over stored health
// records. Everything here is a pure function of its inputs: callers
// load records from the store and pass them in together with a range,
// a granularity, and the configured timezone.
package metrics

import (
	"time"
)

// Granularity selects the bucket width.
type Granularity int

const (
	Day Granularity = iota
	Week
	Month
)

// String returns the label form of the granularity.
func (g Granularity) String() string {
	switch g {
	case Week:
		return "week"
	case Month:
		return "month"
	default:
		return "day"
	}
}

// Range is a half-open time interval [Start, End).
type Range struct {
	Start time.Time
	End   time.Time
}

// LastDays returns a day-aligned range covering the last n calendar days
// in loc, ending at the start of tomorrow so today is included.
func LastDays(n int, now time.Time, loc *time.Location) Range {
	local := now.In(loc)
	end := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
	return Range{Start: end.AddDate(0, 0, -n), End: end}
}

// Bucket is one contiguous window [Start, End) within a range.
type Bucket struct {
	Start time.Time
	End   time.Time
}

// Label formats the bucket for display: the calendar date for day and
// week buckets (week buckets use their first day), YYYY-MM for months.
func (b Bucket) Label(g Granularity) string {
	if g == Month {
		return b.Start.Format("2006-01")
	}
	return b.Start.Format("2006-01-02")
}

// Buckets splits r into contiguous, non-overlapping buckets covering
// exactly [r.Start, r.End) in loc. Interior edges fall on calendar
// boundaries (midnight, Monday midnight, or the first of the month); the
// first and last bucket are clipped to the range. Empty buckets are the
// caller's concern: the slice always covers the whole range.
func Buckets(r Range, g Granularity, loc *time.Location) []Bucket {
	start := r.Start.In(loc)
	end := r.End.In(loc)
	if !start.Before(end) {
		return nil
	}

	var buckets []Bucket
	for cur := start; cur.Before(end); {
		next := nextBoundary(cur, g, loc)
		if next.After(end) {
			next = end
		}
		buckets = append(buckets, Bucket{Start: cur, End: next})
		cur = next
	}
	return buckets
}

// nextBoundary returns the first calendar boundary strictly after t.
func nextBoundary(t time.Time, g Granularity, loc *time.Location) time.Time {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	switch g {
	case Week:
		// Weeks start on Monday.
		offset := (int(t.Weekday()) + 6) % 7
		return midnight.AddDate(0, 0, 7-offset)
	case Month:
		first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
		return first.AddDate(0, 1, 0)
	default:
		return midnight.AddDate(0, 0, 1)
	}
}

// bucketIndex locates the bucket containing t, or -1 when t falls outside
// the range. A timestamp exactly on an edge belongs to the bucket it
// opens, never the one it closes.
func bucketIndex(buckets []Bucket, t time.Time) int {
	for i, b := range buckets {
		if !t.Before(b.Start) && t.Before(b.End) {
			return i
		}
	}
	return -1
}
