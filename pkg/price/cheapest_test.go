package price

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ts(t *testing.T, value string) time.Time {
	parsed, err := time.Parse(time.RFC3339, value)
	assert.NoError(t, err)
	return parsed
}

func block(t *testing.T, start string, minutes int, price float64) Interval {
	s := ts(t, start)
	return Interval{Start: s, End: s.Add(time.Duration(minutes) * time.Minute), Price: price}
}

func schedule(intervals ...Interval) Schedule {
	s := Schedule{}
	for _, iv := range intervals {
		s[iv.Start.Format(time.RFC3339)] = iv
	}
	return s
}

func TestCheapestEmpty(t *testing.T) {
	now := ts(t, "2025-09-30T10:00:00Z")
	assert.Empty(t, Cheapest(Schedule{}, 4, now))
	assert.Empty(t, Cheapest(schedule(block(t, "2025-09-30T12:00:00Z", 15, 0.5)), 0, now))
	assert.Empty(t, Cheapest(schedule(block(t, "2025-09-30T12:00:00Z", 15, 0.5)), -1, now))
}

func TestCheapestPicksTodaysCheapestInStartOrder(t *testing.T) {
	now := ts(t, "2025-09-30T10:00:00Z")
	s := schedule(
		block(t, "2025-09-30T12:00:00Z", 15, 0.9),
		block(t, "2025-09-30T12:15:00Z", 15, 0.1),
		block(t, "2025-09-30T12:30:00Z", 15, 0.5),
		block(t, "2025-09-30T12:45:00Z", 15, 0.2),
	)

	got := Cheapest(s, 2, now)
	assert.Len(t, got, 2)
	assert.Equal(t, 0.1, got[0].Price)
	assert.Equal(t, 0.2, got[1].Price)
	assert.True(t, got[0].Start.Before(got[1].Start))
}

func TestCheapestKeepsStartedInterval(t *testing.T) {
	now := ts(t, "2025-09-30T12:05:00Z")
	s := schedule(
		block(t, "2025-09-30T12:00:00Z", 15, 0.1),
		block(t, "2025-09-30T14:00:00Z", 15, 0.9),
	)

	got := Cheapest(s, 1, now)
	assert.Len(t, got, 1)
	assert.Equal(t, 0.1, got[0].Price)
	assert.True(t, got[0].End.After(now))
}

func TestCheapestFallsBackToTomorrow(t *testing.T) {
	now := ts(t, "2025-09-30T22:00:00Z")
	s := schedule(
		// todays cheap picks are all in the past.
		block(t, "2025-09-30T02:00:00Z", 15, 0.1),
		block(t, "2025-09-30T02:15:00Z", 15, 0.1),
		// expensive leftovers today must not win over tomorrow.
		block(t, "2025-10-01T05:00:00Z", 15, 0.3),
		block(t, "2025-10-01T05:15:00Z", 15, 0.2),
		block(t, "2025-10-01T05:30:00Z", 15, 0.4),
	)

	got := Cheapest(s, 2, now)
	assert.Len(t, got, 2)
	assert.Equal(t, 0.3, got[0].Price)
	assert.Equal(t, 0.2, got[1].Price)
}

func TestCheapestPrefersTodayWhileCandidatesRemain(t *testing.T) {
	// 8 future intervals today at 0.5 and 20 cheaper ones tomorrow: today
	// still has valid candidates so tomorrow is not considered.
	now := ts(t, "2025-09-30T10:00:00Z")
	s := Schedule{}
	for i := 0; i < 8; i++ {
		iv := block(t, "2025-09-30T12:00:00Z", 15, 0.5)
		iv.Start = iv.Start.Add(time.Duration(i) * 15 * time.Minute)
		iv.End = iv.Start.Add(15 * time.Minute)
		s[iv.Start.Format(time.RFC3339)] = iv
	}
	for i := 0; i < 20; i++ {
		iv := block(t, "2025-10-01T12:00:00Z", 15, 0.1)
		iv.Start = iv.Start.Add(time.Duration(i) * 15 * time.Minute)
		iv.End = iv.Start.Add(15 * time.Minute)
		s[iv.Start.Format(time.RFC3339)] = iv
	}

	got := Cheapest(s, 4, now)
	assert.Len(t, got, 4)
	for _, iv := range got {
		assert.Equal(t, 0.5, iv.Price)
		assert.Equal(t, 30, iv.Start.UTC().Day())
	}
}

func TestCheapestCountAboveAvailable(t *testing.T) {
	now := ts(t, "2025-09-30T10:00:00Z")
	s := schedule(
		block(t, "2025-09-30T12:00:00Z", 15, 0.5),
		block(t, "2025-09-30T12:15:00Z", 15, 0.4),
	)

	got := Cheapest(s, 10, now)
	assert.Len(t, got, 2)
	assert.True(t, got[0].Start.Before(got[1].Start))
}

func TestCheapestMonthBoundary(t *testing.T) {
	// Oct 31 vs Nov 1: classification compares full dates, not just the
	// day number.
	now := ts(t, "2025-10-31T20:00:00Z")
	s := schedule(
		block(t, "2025-11-01T05:00:00Z", 15, 0.2),
		block(t, "2025-12-01T05:00:00Z", 15, 0.1),
	)

	got := Cheapest(s, 2, now)
	assert.Len(t, got, 1)
	assert.Equal(t, 0.2, got[0].Price)
}

func TestCheapestNaNPriceDoesNotPanic(t *testing.T) {
	now := ts(t, "2025-09-30T10:00:00Z")
	s := schedule(
		block(t, "2025-09-30T12:00:00Z", 15, math.NaN()),
		block(t, "2025-09-30T12:15:00Z", 15, 0.5),
	)

	assert.NotPanics(t, func() {
		got := Cheapest(s, 2, now)
		assert.Len(t, got, 2)
	})
}

func TestCheapestContiguous(t *testing.T) {
	now := ts(t, "2025-09-30T10:00:00Z")
	s := schedule(
		block(t, "2025-09-30T12:00:00Z", 15, 0.5),
		block(t, "2025-09-30T12:15:00Z", 15, 0.1),
		block(t, "2025-09-30T12:30:00Z", 15, 0.2),
		block(t, "2025-09-30T12:45:00Z", 15, 0.9),
	)

	got := CheapestContiguous(s, 2, now)
	assert.Len(t, got, 2)
	assert.Equal(t, 0.1, got[0].Price)
	assert.Equal(t, 0.2, got[1].Price)
	assert.True(t, got[1].Start.Equal(got[0].End))
}

func TestCheapestContiguousSkipsGaps(t *testing.T) {
	now := ts(t, "2025-09-30T10:00:00Z")
	s := schedule(
		block(t, "2025-09-30T12:00:00Z", 15, 0.1),
		// gap, 12:15 missing. cheapest pair is not adjacent.
		block(t, "2025-09-30T12:30:00Z", 15, 0.1),
		block(t, "2025-09-30T12:45:00Z", 15, 0.4),
	)

	got := CheapestContiguous(s, 2, now)
	assert.Len(t, got, 2)
	assert.True(t, got[0].Start.Equal(ts(t, "2025-09-30T12:30:00Z")))
}
