// Package stats derives dashboard statistics from loaded problem records:
// consecutive-day solve streaks and day/week/month/dimension roll-ups.
// Everything here is a pure function; the reference time always comes in as
// a parameter.
package stats

import "time"

// CurrentStreak counts consecutive calendar days ending today on which at
// least one of the given solve timestamps falls. Days are normalized in
// today's location, so callers pass "today" in the user's timezone. A day
// with no solve ends the streak immediately, today included: a solve
// yesterday with none today is a streak of zero.
func CurrentStreak(solveDates []time.Time, today time.Time) int {
	if len(solveDates) == 0 {
		return 0
	}
	loc := today.Location()
	solved := make(map[time.Time]struct{}, len(solveDates))
	for _, d := range solveDates {
		solved[startOfDay(d.In(loc))] = struct{}{}
	}

	streak := 0
	day := startOfDay(today)
	for {
		if _, ok := solved[day]; !ok {
			return streak
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
}

// BestStreak folds a freshly computed current streak into the stored best.
// The result never decreases.
func BestStreak(storedBest, current int) int {
	if current > storedBest {
		return current
	}
	return storedBest
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
