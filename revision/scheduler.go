// Package revision implements the spaced-repetition scheduling engine.
//
// All functions are pure over their inputs: the current time is always an
// explicit parameter, and schedules are returned as new values for the
// caller to persist. Two concurrent mark-as-revised requests are serialized
// at the persistence boundary with a compare-and-swap on the stored
// revision count, not here.
package revision

import (
	"fmt"
	"time"

	"codetrack/model"
)

// Config holds the tunable scheduling parameters: the per-revision interval
// table and the steady-state plateau applied once the table is exhausted.
type Config struct {
	// IntervalDays is indexed by the current revision count.
	IntervalDays []int
	// PlateauDays is the fixed interval after len(IntervalDays) revisions.
	PlateauDays int
}

// DefaultConfig returns the stock schedule: revisions after 1, 3, 7, 14, 30
// and 60 days, then every 90 days.
func DefaultConfig() Config {
	return Config{
		IntervalDays: []int{1, 3, 7, 14, 30, 60},
		PlateauDays:  90,
	}
}

// Scheduler computes next-revision dates from a Config. The zero value is
// not usable; construct with NewScheduler.
type Scheduler struct {
	cfg Config
}

func NewScheduler(cfg Config) (*Scheduler, error) {
	if len(cfg.IntervalDays) == 0 {
		return nil, fmt.Errorf("%w: interval table must not be empty", model.ErrValidation)
	}
	for i, d := range cfg.IntervalDays {
		if d <= 0 {
			return nil, fmt.Errorf("%w: interval %d at index %d must be positive", model.ErrValidation, d, i)
		}
	}
	if cfg.PlateauDays <= 0 {
		return nil, fmt.Errorf("%w: plateau days must be positive", model.ErrValidation)
	}
	return &Scheduler{cfg: cfg}, nil
}

// ScheduleNext sets the next revision date as a function of the revision
// count and now. It intentionally ignores the previous nextRevisionDate so
// that delay in actually performing a revision does not compound.
func (s *Scheduler) ScheduleNext(sched model.RevisionSchedule, now time.Time) model.RevisionSchedule {
	days := s.cfg.PlateauDays
	if sched.RevisionCount < len(s.cfg.IntervalDays) {
		days = s.cfg.IntervalDays[sched.RevisionCount]
	}
	next := now.AddDate(0, 0, days)
	sched.NextRevisionDate = &next
	return sched
}

// MarkRevised records a completed revision: it appends a history entry,
// increments the count, stamps the last revision date and schedules the
// next one. The returned schedule must be persisted as a single atomic
// update keyed on the previous revision count.
func (s *Scheduler) MarkRevised(sched model.RevisionSchedule, now time.Time, timeTaken int, notes string) (model.RevisionSchedule, error) {
	if timeTaken < 1 {
		return sched, fmt.Errorf("%w: time taken must be at least 1 minute, got %d", model.ErrValidation, timeTaken)
	}
	if sched.RevisionCount != len(sched.RevisionHistory) {
		return sched, fmt.Errorf("%w: count=%d history=%d",
			model.ErrInconsistentState, sched.RevisionCount, len(sched.RevisionHistory))
	}

	// Copy the history slice so the stored record is never aliased.
	history := make([]model.RevisionEntry, len(sched.RevisionHistory), len(sched.RevisionHistory)+1)
	copy(history, sched.RevisionHistory)
	sched.RevisionHistory = append(history, model.RevisionEntry{
		Date:      now,
		TimeTaken: timeTaken,
		Notes:     notes,
	})
	sched.RevisionCount++
	last := now
	sched.LastRevisionDate = &last
	return s.ScheduleNext(sched, now), nil
}

// RescheduleTo overrides the next revision date with an explicit timestamp,
// bypassing the interval table. Past dates are deliberately legal: users
// reschedule backwards to correct mistakes or force a problem overdue.
func RescheduleTo(sched model.RevisionSchedule, at time.Time) model.RevisionSchedule {
	sched.NextRevisionDate = &at
	return sched
}

// Status classifies where a schedule stands relative to a reference time.
type Status string

const (
	StatusUnscheduled Status = "unscheduled"
	StatusOverdue     Status = "overdue"
	StatusDueToday    Status = "due-today"
	StatusUpcoming    Status = "upcoming"
)

// Classify reports the revision status of a schedule as of now. Day
// boundaries follow now's location.
func Classify(sched model.RevisionSchedule, now time.Time) Status {
	if sched.NextRevisionDate == nil {
		return StatusUnscheduled
	}
	next := *sched.NextRevisionDate
	switch {
	case next.Before(now):
		return StatusOverdue
	case !next.After(EndOfDay(now)):
		return StatusDueToday
	default:
		return StatusUpcoming
	}
}

// EndOfDay returns the last representable instant of t's calendar day in
// t's location.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
