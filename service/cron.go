package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap/zapcore"

	"codetrack/stats"
)

// StartCronJob runs the hourly background sweep: refresh each user's stored
// streak statistics and push due-revision events. Returns the cron handle so
// main can Stop it on shutdown.
func (s *Service) StartCronJob() *cron.Cron {
	c := cron.New()
	c.AddFunc("@every 1h", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		s.runHourlySweep(ctx)
	})
	c.Start()
	return c
}

func (s *Service) runHourlySweep(ctx context.Context) {
	traceID := uuid.New().String()
	s.log(zapcore.InfoLevel, traceID, "Starting hourly sweep", map[string]any{
		"method": "runHourlySweep",
	}, nil)

	users, err := s.Store.ListUsers(ctx)
	if err != nil {
		s.log(zapcore.ErrorLevel, traceID, "Failed to list users for sweep", map[string]any{
			"method":    "runHourlySweep",
			"errorType": "DB_ERROR",
		}, err)
		return
	}

	for _, user := range users {
		solved, err := s.Store.ListSolvedProblems(ctx, user.ID)
		if err != nil {
			s.log(zapcore.ErrorLevel, traceID, "Failed to load solves for sweep", map[string]any{
				"method":    "runHourlySweep",
				"userId":    user.ID.Hex(),
				"errorType": "DB_ERROR",
			}, err)
			continue
		}

		now := s.Now().In(s.userLocation(user))
		solveDates := make([]time.Time, len(solved))
		for i, p := range solved {
			solveDates[i] = p.SolveDate
		}
		current := stats.CurrentStreak(solveDates, now)
		if _, err := s.persistStreaks(ctx, traceID, user, current, solved); err != nil {
			continue
		}

		if err := s.PublishDueNotifications(ctx, traceID, user); err != nil {
			s.log(zapcore.ErrorLevel, traceID, "Failed to publish due notifications", map[string]any{
				"method":    "runHourlySweep",
				"userId":    user.ID.Hex(),
				"errorType": "NATS_ERROR",
			}, err)
		}
	}

	s.log(zapcore.InfoLevel, traceID, "Hourly sweep finished", map[string]any{
		"method": "runHourlySweep",
		"users":  len(users),
	}, nil)
}
