package price

import (
	"sort"
	"time"
)

// Mode selects how the cheap intervals are picked.
type Mode string

var (
	// ModeCheapest picks the individually cheapest intervals of the day,
	// falling back to tomorrow when all of today's picks have passed.
	ModeCheapest = Mode("cheapest")
	// ModeContiguous picks the cheapest contiguous run of intervals today.
	ModeContiguous = Mode("contiguous")
)

// Cheapest returns up to count intervals, picked by ascending price among
// the intervals starting today (UTC), returned sorted by start time.
// An interval that has started but not yet ended is still a candidate.
// When every pick of today is already over we fall back to tomorrow's
// intervals starting after now. Count <= 0 returns nil.
func Cheapest(schedule Schedule, count int, now time.Time) []Interval {
	if count <= 0 {
		return nil
	}

	today, tomorrow := splitDays(schedule, now)

	chosen := cheapestOf(today, count)
	chosen = notOver(chosen, now)

	if len(chosen) == 0 {
		var future []Interval
		for _, iv := range tomorrow {
			if iv.Start.After(now) {
				future = append(future, iv)
			}
		}
		chosen = cheapestOf(future, count)
	}

	sort.Slice(chosen, func(i, j int) bool {
		return chosen[i].Start.Before(chosen[j].Start)
	})
	return chosen
}

// CheapestContiguous returns the cheapest run of count adjacent intervals
// starting today (UTC), by sliding-window sum. Adjacency means the next
// interval starts exactly where the previous one ends. Runs that are
// entirely over are skipped.
func CheapestContiguous(schedule Schedule, count int, now time.Time) []Interval {
	if count <= 0 {
		return nil
	}

	today, _ := splitDays(schedule, now)
	sort.Slice(today, func(i, j int) bool {
		return today[i].Start.Before(today[j].Start)
	})

	if count > len(today) {
		count = len(today)
	}

	var best []Interval
	bestSum := 0.0
	for i := 0; i+count <= len(today); i++ {
		run := today[i : i+count]
		if !adjacent(run) {
			continue
		}
		if !run[count-1].End.After(now) {
			continue
		}
		sum := 0.0
		for _, iv := range run {
			sum += iv.Price
		}
		if best == nil || sum < bestSum {
			best = run
			bestSum = sum
		}
	}
	return append([]Interval(nil), best...)
}

func adjacent(run []Interval) bool {
	for i := 1; i < len(run); i++ {
		if !run[i].Start.Equal(run[i-1].End) {
			return false
		}
	}
	return true
}

// splitDays buckets the schedule into intervals starting today and
// tomorrow relative to now. Days are compared as full UTC dates, so
// month and year boundaries classify correctly.
func splitDays(schedule Schedule, now time.Time) (today, tomorrow []Interval) {
	ty, tm, td := now.UTC().Date()
	ny, nm, nd := now.UTC().Add(24 * time.Hour).Date()

	for _, iv := range schedule {
		y, m, d := iv.Start.UTC().Date()
		switch {
		case y == ty && m == tm && d == td:
			today = append(today, iv)
		case y == ny && m == nm && d == nd:
			tomorrow = append(tomorrow, iv)
		}
	}
	return today, tomorrow
}

// cheapestOf takes the count cheapest intervals. Equal prices tie-break
// on start time so the pick is deterministic regardless of map order.
func cheapestOf(intervals []Interval, count int) []Interval {
	byPrice := append([]Interval(nil), intervals...)
	sort.Slice(byPrice, func(i, j int) bool {
		return byPrice[i].Start.Before(byPrice[j].Start)
	})
	sort.SliceStable(byPrice, func(i, j int) bool {
		return byPrice[i].Price < byPrice[j].Price
	})
	if count < len(byPrice) {
		byPrice = byPrice[:count]
	}
	return byPrice
}

func notOver(intervals []Interval, now time.Time) []Interval {
	var out []Interval
	for _, iv := range intervals {
		if iv.End.After(now) {
			out = append(out, iv)
		}
	}
	return out
}
