package revision

import (
	"errors"
	"testing"
	"time"

	"codetrack/model"
)

var t0 = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func mustScheduler(t *testing.T) *Scheduler {
	t.Helper()
	s, err := NewScheduler(DefaultConfig())
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}
	return s
}

func TestNewSchedulerRejectsBadConfig(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"empty table", Config{IntervalDays: nil, PlateauDays: 90}},
		{"zero interval", Config{IntervalDays: []int{1, 0, 7}, PlateauDays: 90}},
		{"negative interval", Config{IntervalDays: []int{-1}, PlateauDays: 90}},
		{"zero plateau", Config{IntervalDays: []int{1}, PlateauDays: 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewScheduler(tc.cfg); !errors.Is(err, model.ErrValidation) {
				t.Errorf("NewScheduler(%+v) err = %v, want ErrValidation", tc.cfg, err)
			}
		})
	}
}

func TestScheduleNextIntervalTable(t *testing.T) {
	s := mustScheduler(t)
	wantDays := []int{1, 3, 7, 14, 30, 60}
	for count, days := range wantDays {
		sched := model.RevisionSchedule{RevisionCount: count}
		got := s.ScheduleNext(sched, t0)
		if got.NextRevisionDate == nil {
			t.Fatalf("count=%d: NextRevisionDate is nil", count)
		}
		want := t0.AddDate(0, 0, days)
		if !got.NextRevisionDate.Equal(want) {
			t.Errorf("count=%d: next = %v, want %v", count, got.NextRevisionDate, want)
		}
	}
}

func TestScheduleNextPlateau(t *testing.T) {
	s := mustScheduler(t)
	for _, count := range []int{6, 7, 20, 100} {
		sched := model.RevisionSchedule{RevisionCount: count}
		got := s.ScheduleNext(sched, t0)
		want := t0.AddDate(0, 0, 90)
		if !got.NextRevisionDate.Equal(want) {
			t.Errorf("count=%d: next = %v, want %v", count, got.NextRevisionDate, want)
		}
	}
}

func TestScheduleNextIgnoresPreviousDate(t *testing.T) {
	s := mustScheduler(t)
	stale := t0.AddDate(0, 0, -45)
	sched := model.RevisionSchedule{RevisionCount: 2, NextRevisionDate: &stale}
	got := s.ScheduleNext(sched, t0)
	want := t0.AddDate(0, 0, 7)
	if !got.NextRevisionDate.Equal(want) {
		t.Errorf("next = %v, want %v (delay must not compound)", got.NextRevisionDate, want)
	}
}

func TestMarkRevisedMonotonicCount(t *testing.T) {
	s := mustScheduler(t)
	sched := model.RevisionSchedule{}
	now := t0
	for i := 1; i <= 10; i++ {
		var err error
		sched, err = s.MarkRevised(sched, now, 10+i, "")
		if err != nil {
			t.Fatalf("MarkRevised #%d: %v", i, err)
		}
		if sched.RevisionCount != i {
			t.Fatalf("after %d revisions count = %d", i, sched.RevisionCount)
		}
		if len(sched.RevisionHistory) != i {
			t.Fatalf("after %d revisions history length = %d", i, len(sched.RevisionHistory))
		}
		if sched.LastRevisionDate == nil || !sched.LastRevisionDate.Equal(now) {
			t.Fatalf("after %d revisions lastRevisionDate = %v", i, sched.LastRevisionDate)
		}
		now = now.AddDate(0, 0, 1)
	}
	// History is chronological append order.
	for i := 1; i < len(sched.RevisionHistory); i++ {
		if sched.RevisionHistory[i].Date.Before(sched.RevisionHistory[i-1].Date) {
			t.Errorf("history entry %d predates entry %d", i, i-1)
		}
	}
}

func TestMarkRevisedRecordsEntry(t *testing.T) {
	s := mustScheduler(t)
	got, err := s.MarkRevised(model.RevisionSchedule{}, t0, 25, "needed a hint on the recurrence")
	if err != nil {
		t.Fatalf("MarkRevised: %v", err)
	}
	entry := got.RevisionHistory[0]
	if !entry.Date.Equal(t0) || entry.TimeTaken != 25 || entry.Notes != "needed a hint on the recurrence" {
		t.Errorf("entry = %+v", entry)
	}
	want := t0.AddDate(0, 0, 3) // count is 1 after the mark
	if !got.NextRevisionDate.Equal(want) {
		t.Errorf("next = %v, want %v", got.NextRevisionDate, want)
	}
}

func TestMarkRevisedRejectsBadTimeTaken(t *testing.T) {
	s := mustScheduler(t)
	orig := model.RevisionSchedule{RevisionCount: 2, RevisionHistory: make([]model.RevisionEntry, 2)}
	for _, mins := range []int{0, -5} {
		got, err := s.MarkRevised(orig, t0, mins, "")
		if !errors.Is(err, model.ErrValidation) {
			t.Errorf("timeTaken=%d: err = %v, want ErrValidation", mins, err)
		}
		if got.RevisionCount != orig.RevisionCount || len(got.RevisionHistory) != len(orig.RevisionHistory) {
			t.Errorf("timeTaken=%d: schedule mutated on rejected input", mins)
		}
	}
}

func TestMarkRevisedDetectsInconsistentState(t *testing.T) {
	s := mustScheduler(t)
	sched := model.RevisionSchedule{RevisionCount: 3, RevisionHistory: make([]model.RevisionEntry, 1)}
	if _, err := s.MarkRevised(sched, t0, 10, ""); !errors.Is(err, model.ErrInconsistentState) {
		t.Errorf("err = %v, want ErrInconsistentState", err)
	}
}

func TestMarkRevisedDoesNotAliasHistory(t *testing.T) {
	s := mustScheduler(t)
	first, err := s.MarkRevised(model.RevisionSchedule{}, t0, 10, "first")
	if err != nil {
		t.Fatalf("MarkRevised: %v", err)
	}
	second, err := s.MarkRevised(first, t0.AddDate(0, 0, 1), 12, "second")
	if err != nil {
		t.Fatalf("MarkRevised: %v", err)
	}
	if len(first.RevisionHistory) != 1 {
		t.Errorf("first schedule history grew to %d after second mark", len(first.RevisionHistory))
	}
	if second.RevisionHistory[0].Notes != "first" {
		t.Errorf("second schedule lost earlier history: %+v", second.RevisionHistory)
	}
}

func TestRescheduleToAllowsPastDates(t *testing.T) {
	past := t0.AddDate(0, 0, -10)
	got := RescheduleTo(model.RevisionSchedule{}, past)
	if got.NextRevisionDate == nil || !got.NextRevisionDate.Equal(past) {
		t.Errorf("next = %v, want %v", got.NextRevisionDate, past)
	}
}

func TestClassify(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	at := func(t time.Time) *time.Time { return &t }
	cases := []struct {
		name string
		next *time.Time
		want Status
	}{
		{"nil date", nil, StatusUnscheduled},
		{"an hour ago", at(now.Add(-time.Hour)), StatusOverdue},
		{"last week", at(now.AddDate(0, 0, -7)), StatusOverdue},
		{"exactly now", at(now), StatusDueToday},
		{"tonight", at(time.Date(2025, 6, 15, 23, 0, 0, 0, time.UTC)), StatusDueToday},
		{"tomorrow", at(now.AddDate(0, 0, 1)), StatusUpcoming},
		{"next month", at(now.AddDate(0, 1, 0)), StatusUpcoming},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(model.RevisionSchedule{NextRevisionDate: tc.next}, now)
			if got != tc.want {
				t.Errorf("Classify = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestEndOfDay(t *testing.T) {
	got := EndOfDay(time.Date(2025, 6, 15, 0, 1, 2, 3, time.UTC))
	if got.Day() != 15 || got.Hour() != 23 || got.Minute() != 59 || got.Second() != 59 {
		t.Errorf("EndOfDay = %v", got)
	}
	if !got.Before(time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("EndOfDay %v crosses midnight", got)
	}
}
