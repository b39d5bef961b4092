package stats

import (
	"testing"
	"time"
)

var today = time.Date(2025, 6, 15, 18, 30, 0, 0, time.UTC)

func daysAgo(n int) time.Time {
	return today.AddDate(0, 0, -n)
}

func TestCurrentStreak(t *testing.T) {
	cases := []struct {
		name   string
		solves []time.Time
		want   int
	}{
		{"no solves ever", nil, 0},
		{"solved only today", []time.Time{today}, 1},
		{"three consecutive days", []time.Time{today, daysAgo(1), daysAgo(2)}, 3},
		{"yesterday only breaks streak", []time.Time{daysAgo(1), daysAgo(2)}, 0},
		{"gap at yesterday", []time.Time{today, daysAgo(2)}, 1},
		{"gap in the middle ignores older run", []time.Time{today, daysAgo(1), daysAgo(3), daysAgo(4), daysAgo(5)}, 2},
		{"several solves on the same day count once", []time.Time{today, today.Add(-2 * time.Hour), daysAgo(1)}, 2},
		{"old activity only", []time.Time{daysAgo(30), daysAgo(31)}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CurrentStreak(tc.solves, today); got != tc.want {
				t.Errorf("CurrentStreak = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestCurrentStreakNormalizesToReferenceLocation(t *testing.T) {
	// 23:30 UTC on June 14 is already June 15 in UTC+2; relative to a
	// UTC+2 "today" of June 15 that solve counts as today.
	loc := time.FixedZone("UTC+2", 2*60*60)
	ref := time.Date(2025, 6, 15, 9, 0, 0, 0, loc)
	solve := time.Date(2025, 6, 14, 23, 30, 0, 0, time.UTC)
	if got := CurrentStreak([]time.Time{solve}, ref); got != 1 {
		t.Errorf("CurrentStreak = %d, want 1", got)
	}
	// The same instant against a UTC reference lands on June 14: no solve
	// today, streak zero.
	refUTC := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	if got := CurrentStreak([]time.Time{solve}, refUTC); got != 0 {
		t.Errorf("CurrentStreak in UTC = %d, want 0", got)
	}
}

func TestCurrentStreakLongRun(t *testing.T) {
	var solves []time.Time
	for i := 0; i < 100; i++ {
		solves = append(solves, daysAgo(i))
	}
	if got := CurrentStreak(solves, today); got != 100 {
		t.Errorf("CurrentStreak = %d, want 100", got)
	}
}

func TestBestStreak(t *testing.T) {
	if got := BestStreak(5, 3); got != 5 {
		t.Errorf("BestStreak(5, 3) = %d, want 5", got)
	}
	if got := BestStreak(5, 8); got != 8 {
		t.Errorf("BestStreak(5, 8) = %d, want 8", got)
	}
	if got := BestStreak(0, 0); got != 0 {
		t.Errorf("BestStreak(0, 0) = %d, want 0", got)
	}
}
