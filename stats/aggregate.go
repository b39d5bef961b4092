package stats

import (
	"sort"
	"time"

	"codetrack/model"
)

// CountByDimension tallies problems under the label the selector extracts.
// Used for difficulty, category and platform distributions.
func CountByDimension(problems []model.Problem, selector func(model.Problem) string) map[string]int {
	counts := make(map[string]int, len(problems))
	for _, p := range problems {
		counts[selector(p)]++
	}
	return counts
}

// SortedCounts flattens a distribution into (label, count) pairs ordered by
// label, so serialized responses are stable across runs.
func SortedCounts(counts map[string]int) []model.DimensionCount {
	out := make([]model.DimensionCount, 0, len(counts))
	for label, count := range counts {
		out = append(out, model.DimensionCount{Label: label, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// AverageTimeTaken returns the unrounded mean of timeTaken across the
// collection, or nil for an empty collection. Callers that want a display
// value round it themselves; nil must never be rendered as zero.
func AverageTimeTaken(problems []model.Problem) *float64 {
	if len(problems) == 0 {
		return nil
	}
	total := 0
	for _, p := range problems {
		total += p.TimeTaken
	}
	avg := float64(total) / float64(len(problems))
	return &avg
}

// BucketByDay groups problems by calendar day of the selected date, sorted
// ascending. Day keys use the YYYY-MM-DD form of the date's own location.
// Days without activity are absent; the heatmap renderer fills gaps.
func BucketByDay(problems []model.Problem, dateOf func(model.Problem) time.Time) []model.DayBucket {
	type acc struct {
		count int
		total int
	}
	byDay := make(map[string]*acc)
	for _, p := range problems {
		key := dateOf(p).Format("2006-01-02")
		a := byDay[key]
		if a == nil {
			a = &acc{}
			byDay[key] = a
		}
		a.count++
		a.total += p.TimeTaken
	}

	out := make([]model.DayBucket, 0, len(byDay))
	for day, a := range byDay {
		out = append(out, model.DayBucket{
			Day:     day,
			Count:   a.count,
			AvgTime: float64(a.total) / float64(a.count),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}

// BucketByWeek groups problems by (ISO year, ISO week), sorted ascending.
func BucketByWeek(problems []model.Problem, dateOf func(model.Problem) time.Time) []model.WeekBucket {
	type key struct{ year, week int }
	type acc struct {
		count int
		total int
	}
	byWeek := make(map[key]*acc)
	for _, p := range problems {
		y, w := dateOf(p).ISOWeek()
		k := key{y, w}
		a := byWeek[k]
		if a == nil {
			a = &acc{}
			byWeek[k] = a
		}
		a.count++
		a.total += p.TimeTaken
	}

	out := make([]model.WeekBucket, 0, len(byWeek))
	for k, a := range byWeek {
		out = append(out, model.WeekBucket{
			Year:    k.year,
			Week:    k.week,
			Count:   a.count,
			AvgTime: float64(a.total) / float64(a.count),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Week < out[j].Week
	})
	return out
}

// BucketByMonth groups problems by (year, month), sorted ascending.
func BucketByMonth(problems []model.Problem, dateOf func(model.Problem) time.Time) []model.MonthBucket {
	type key struct {
		year  int
		month time.Month
	}
	type acc struct {
		count int
		total int
	}
	byMonth := make(map[key]*acc)
	for _, p := range problems {
		d := dateOf(p)
		k := key{d.Year(), d.Month()}
		a := byMonth[k]
		if a == nil {
			a = &acc{}
			byMonth[k] = a
		}
		a.count++
		a.total += p.TimeTaken
	}

	out := make([]model.MonthBucket, 0, len(byMonth))
	for k, a := range byMonth {
		out = append(out, model.MonthBucket{
			Year:    k.year,
			Month:   int(k.month),
			Count:   a.count,
			AvgTime: float64(a.total) / float64(a.count),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out
}

// PendingRevisionsCount counts problems whose next revision falls on or
// before the end of asOf's calendar day. Unscheduled problems never count.
func PendingRevisionsCount(problems []model.Problem, asOf time.Time) int {
	cutoff := endOfDay(asOf)
	n := 0
	for _, p := range problems {
		next := p.RevisionSchedule.NextRevisionDate
		if next != nil && !next.After(cutoff) {
			n++
		}
	}
	return n
}

// RoundAverage converts a raw mean into the integer shown on dashboards.
// A nil average renders as zero only here, at the explicit boundary.
func RoundAverage(avg *float64) int {
	if avg == nil {
		return 0
	}
	if *avg >= 0 {
		return int(*avg + 0.5)
	}
	return int(*avg - 0.5)
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
