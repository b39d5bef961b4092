package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap/zapcore"

	"codetrack/model"
	"codetrack/natsclient"
	"codetrack/revision"
)

// markRevisedRetries bounds how often a lost compare-and-swap is replayed
// before the conflict surfaces to the caller.
const markRevisedRetries = 3

// MarkRevised records a completed revision. The scheduling decision is the
// engine's; persistence pins the revision count the schedule was computed
// from, and a lost race reloads and retries so concurrent marks serialize
// instead of overwriting each other.
func (s *Service) MarkRevised(ctx context.Context, userID, problemID primitive.ObjectID, timeTaken int, notes string) (model.Problem, error) {
	traceID := uuid.New().String()
	s.log(zapcore.InfoLevel, traceID, "Starting MarkRevised", map[string]any{
		"method":    "MarkRevised",
		"userId":    userID.Hex(),
		"problemId": problemID.Hex(),
	}, nil)

	var lastErr error
	for attempt := 0; attempt <= markRevisedRetries; attempt++ {
		problem, err := s.Store.GetProblem(ctx, userID, problemID)
		if err != nil {
			return model.Problem{}, err
		}

		sched, err := s.Scheduler.MarkRevised(problem.RevisionSchedule, s.Now(), timeTaken, notes)
		if err != nil {
			s.log(zapcore.ErrorLevel, traceID, "Revision engine rejected mark", map[string]any{
				"method":    "MarkRevised",
				"userId":    userID.Hex(),
				"problemId": problemID.Hex(),
				"errorType": "VALIDATION_ERROR",
			}, err)
			return model.Problem{}, err
		}

		updated, err := s.Store.ApplyRevisionSchedule(ctx, userID, problemID, problem.RevisionSchedule.RevisionCount, sched)
		if errors.Is(err, model.ErrConflict) {
			lastErr = err
			s.log(zapcore.WarnLevel, traceID, "Lost revision race, retrying", map[string]any{
				"method":    "MarkRevised",
				"userId":    userID.Hex(),
				"problemId": problemID.Hex(),
				"attempt":   attempt + 1,
			}, nil)
			continue
		}
		if err != nil {
			s.log(zapcore.ErrorLevel, traceID, "Failed to apply revision schedule", map[string]any{
				"method":    "MarkRevised",
				"userId":    userID.Hex(),
				"problemId": problemID.Hex(),
				"errorType": "DB_ERROR",
			}, err)
			return model.Problem{}, err
		}

		if err := s.Store.IncrementUserStat(ctx, userID, "totalRevisionCount", 1); err != nil {
			s.log(zapcore.ErrorLevel, traceID, "Failed to bump totalRevisionCount", map[string]any{
				"method":    "MarkRevised",
				"userId":    userID.Hex(),
				"errorType": "DB_ERROR",
			}, err)
		}
		s.invalidateStatsCaches(traceID, userID)

		s.log(zapcore.InfoLevel, traceID, "Problem marked revised", map[string]any{
			"method":        "MarkRevised",
			"userId":        userID.Hex(),
			"problemId":     problemID.Hex(),
			"revisionCount": updated.RevisionSchedule.RevisionCount,
		}, nil)
		return updated, nil
	}

	return model.Problem{}, fmt.Errorf("mark revised did not settle after %d retries: %w", markRevisedRetries, lastErr)
}

// Reschedule moves the next revision to an explicit date.
func (s *Service) Reschedule(ctx context.Context, userID, problemID primitive.ObjectID, rawDate string) (model.Problem, error) {
	return s.ScheduleRevision(ctx, userID, problemID, rawDate)
}

// RevisionFilter narrows the revision listing.
type RevisionFilter struct {
	Status     string // pending, overdue, due-today or empty for all
	Difficulty string
	Category   string
	Page       int64
	Limit      int64
}

// ListRevisions returns scheduled problems grouped by their revision status
// as of now.
func (s *Service) ListRevisions(ctx context.Context, userID primitive.ObjectID, f RevisionFilter) (model.ProblemList, error) {
	scheduled, err := s.Store.ListScheduledProblems(ctx, userID)
	if err != nil {
		return model.ProblemList{}, err
	}

	now := s.Now()
	matched := make([]model.Problem, 0, len(scheduled))
	for _, p := range scheduled {
		if f.Difficulty != "" && string(p.PlatformDifficulty) != f.Difficulty {
			continue
		}
		if f.Category != "" && string(p.MainCategory) != f.Category {
			continue
		}
		status := revision.Classify(p.RevisionSchedule, now)
		switch f.Status {
		case "", "all":
		case "pending":
			if status == revision.StatusOverdue {
				continue
			}
		case "overdue":
			if status != revision.StatusOverdue {
				continue
			}
		case "due-today":
			if status != revision.StatusDueToday {
				continue
			}
		default:
			return model.ProblemList{}, fmt.Errorf("%w: unknown revision status %q", model.ErrValidation, f.Status)
		}
		matched = append(matched, p)
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	limit := f.Limit
	if limit < 1 {
		limit = 10
	}
	total := int64(len(matched))
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return model.ProblemList{
		Problems:   matched[start:end],
		Pagination: model.Pagination{Current: page, Pages: (total + limit - 1) / limit, Total: total},
	}, nil
}

// Notifications lists revisions due in the next 24 hours plus everything
// already overdue.
func (s *Service) Notifications(ctx context.Context, userID primitive.ObjectID) (model.RevisionNotifications, error) {
	scheduled, err := s.Store.ListScheduledProblems(ctx, userID)
	if err != nil {
		return model.RevisionNotifications{}, err
	}

	now := s.Now()
	horizon := now.Add(24 * time.Hour)
	out := model.RevisionNotifications{
		Upcoming: []model.RevisionDigest{},
		Overdue:  []model.RevisionDigest{},
	}
	for _, p := range scheduled {
		next := p.RevisionSchedule.NextRevisionDate
		if next == nil {
			continue
		}
		switch {
		case next.Before(now):
			out.Overdue = append(out.Overdue, digest(p))
		case !next.After(horizon):
			out.Upcoming = append(out.Upcoming, digest(p))
		}
	}
	return out, nil
}

// PublishDueNotifications pushes a NATS event per user with due or overdue
// revisions; the cron job calls it on its schedule.
func (s *Service) PublishDueNotifications(ctx context.Context, traceID string, user model.User) error {
	notifications, err := s.Notifications(ctx, user.ID)
	if err != nil {
		return err
	}
	if len(notifications.Upcoming) == 0 && len(notifications.Overdue) == 0 {
		return nil
	}
	if !user.Preferences.Notifications {
		return nil
	}
	event, err := json.Marshal(map[string]any{
		"userId":   user.ID.Hex(),
		"upcoming": len(notifications.Upcoming),
		"overdue":  len(notifications.Overdue),
	})
	if err != nil {
		return err
	}
	s.publish(traceID, natsclient.SubjectRevisionDue, event)
	return nil
}

func digest(p model.Problem) model.RevisionDigest {
	return model.RevisionDigest{
		ID:                 p.ID.Hex(),
		ProblemName:        p.ProblemName,
		ProblemTitle:       p.ProblemTitle,
		PlatformDifficulty: p.PlatformDifficulty,
		MainCategory:       p.MainCategory,
		NextRevisionDate:   p.RevisionSchedule.NextRevisionDate,
		LastRevisionDate:   p.RevisionSchedule.LastRevisionDate,
	}
}
