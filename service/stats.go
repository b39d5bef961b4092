package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap/zapcore"

	"codetrack/model"
	"codetrack/stats"
)

const statsCacheTTL = 5 * time.Minute

func solveDate(p model.Problem) time.Time { return p.SolveDate }

// DashboardStats assembles the dashboard summary: counts, current streak,
// average solve time, pending revisions, distributions, the last-30-day
// time analysis and the full heatmap series.
func (s *Service) DashboardStats(ctx context.Context, userID primitive.ObjectID) (model.DashboardStats, error) {
	traceID := uuid.New().String()

	cacheKey := "dashboard:" + userID.Hex()
	if cached, ok := s.cacheGet(cacheKey); ok {
		var out model.DashboardStats
		if err := json.Unmarshal([]byte(cached), &out); err == nil {
			s.log(zapcore.InfoLevel, traceID, "Dashboard stats served from cache", map[string]any{
				"method":   "DashboardStats",
				"userId":   userID.Hex(),
				"cacheKey": cacheKey,
			}, nil)
			return out, nil
		}
	}

	user, err := s.Store.GetUserByID(ctx, userID)
	if err != nil {
		return model.DashboardStats{}, err
	}
	all, err := s.Store.ListAllProblems(ctx, userID)
	if err != nil {
		return model.DashboardStats{}, err
	}

	solved := make([]model.Problem, 0, len(all))
	solveDates := make([]time.Time, 0, len(all))
	for _, p := range all {
		if p.Status == model.StatusSolved {
			solved = append(solved, p)
			solveDates = append(solveDates, p.SolveDate)
		}
	}

	now := s.Now().In(s.userLocation(user))
	currentStreak := stats.CurrentStreak(solveDates, now)
	best, err := s.persistStreaks(ctx, traceID, user, currentStreak, solved)
	if err != nil {
		return model.DashboardStats{}, err
	}

	weekStart := startOfWeek(now)
	problemsThisWeek := 0
	last30 := make([]model.Problem, 0, len(solved))
	cutoff30 := now.AddDate(0, 0, -30)
	for _, p := range solved {
		if !p.SolveDate.Before(weekStart) {
			problemsThisWeek++
		}
		if !p.SolveDate.Before(cutoff30) {
			last30 = append(last30, p)
		}
	}

	out := model.DashboardStats{
		TotalProblems:    len(all),
		ProblemsThisWeek: problemsThisWeek,
		CurrentStreak:    currentStreak,
		BestStreak:       best,
		AverageSolveTime: stats.RoundAverage(stats.AverageTimeTaken(solved)),
		PendingRevisions: stats.PendingRevisionsCount(all, now),
		DifficultyStats: stats.SortedCounts(stats.CountByDimension(solved, func(p model.Problem) string {
			return string(p.PlatformDifficulty)
		})),
		CategoryStats: stats.SortedCounts(stats.CountByDimension(solved, func(p model.Problem) string {
			return string(p.MainCategory)
		})),
		TimeAnalysis: stats.BucketByDay(last30, solveDate),
		HeatmapData:  stats.BucketByDay(solved, solveDate),
	}

	if data, err := json.Marshal(out); err == nil {
		s.cacheSet(traceID, cacheKey, data, statsCacheTTL)
	}
	return out, nil
}

// persistStreaks folds the freshly computed current streak into the stored
// statistics. BestStreak only ever moves up.
func (s *Service) persistStreaks(ctx context.Context, traceID string, user model.User, currentStreak int, solved []model.Problem) (int, error) {
	best := stats.BestStreak(user.Statistics.BestStreak, currentStreak)
	updated := user.Statistics
	updated.CurrentStreak = currentStreak
	updated.BestStreak = best
	updated.AverageSolveTime = stats.RoundAverage(stats.AverageTimeTaken(solved))
	if updated == user.Statistics {
		return best, nil
	}
	if err := s.Store.UpdateUserStatistics(ctx, user.ID, updated); err != nil {
		s.log(zapcore.ErrorLevel, traceID, "Failed to persist streak statistics", map[string]any{
			"method":    "persistStreaks",
			"userId":    user.ID.Hex(),
			"errorType": "DB_ERROR",
		}, err)
		return best, err
	}
	return best, nil
}

// RevisionStats summarizes revision activity: volume this week, misses,
// average revision time across all history entries, and distributions over
// problems that have been revised at least once.
func (s *Service) RevisionStats(ctx context.Context, userID primitive.ObjectID) (model.RevisionStats, error) {
	traceID := uuid.New().String()

	cacheKey := "revstats:" + userID.Hex()
	if cached, ok := s.cacheGet(cacheKey); ok {
		var out model.RevisionStats
		if err := json.Unmarshal([]byte(cached), &out); err == nil {
			return out, nil
		}
	}

	user, err := s.Store.GetUserByID(ctx, userID)
	if err != nil {
		return model.RevisionStats{}, err
	}
	all, err := s.Store.ListAllProblems(ctx, userID)
	if err != nil {
		return model.RevisionStats{}, err
	}

	now := s.Now().In(s.userLocation(user))
	weekStart := startOfWeek(now)

	var (
		revised         []model.Problem
		recent          []model.Problem
		revisedThisWeek int
		missed          int
		totalSolved     int
		historyTotal    int
		historyCount    int
	)
	for _, p := range all {
		if p.Status == model.StatusSolved {
			totalSolved++
		}
		next := p.RevisionSchedule.NextRevisionDate
		if next != nil && next.Before(now) {
			missed++
		}
		last := p.RevisionSchedule.LastRevisionDate
		if last != nil {
			recent = append(recent, p)
			if !last.Before(weekStart) {
				revisedThisWeek++
			}
		}
		if len(p.RevisionSchedule.RevisionHistory) > 0 {
			revised = append(revised, p)
			for _, entry := range p.RevisionSchedule.RevisionHistory {
				historyTotal += entry.TimeTaken
				historyCount++
			}
		}
	}

	averageRevisionTime := 0
	if historyCount > 0 {
		avg := float64(historyTotal) / float64(historyCount)
		averageRevisionTime = stats.RoundAverage(&avg)
	}

	sort.Slice(recent, func(i, j int) bool {
		return recent[i].RevisionSchedule.LastRevisionDate.After(*recent[j].RevisionSchedule.LastRevisionDate)
	})
	if len(recent) > 5 {
		recent = recent[:5]
	}
	recentDigests := make([]model.RevisionDigest, len(recent))
	for i, p := range recent {
		recentDigests[i] = digest(p)
	}

	out := model.RevisionStats{
		RevisedThisWeek:     revisedThisWeek,
		TotalProblems:       totalSolved,
		MissedRevisions:     missed,
		AverageRevisionTime: averageRevisionTime,
		PendingToday:        stats.PendingRevisionsCount(all, now),
		DifficultyStats: stats.SortedCounts(stats.CountByDimension(revised, func(p model.Problem) string {
			return string(p.PlatformDifficulty)
		})),
		CategoryStats: stats.SortedCounts(stats.CountByDimension(revised, func(p model.Problem) string {
			return string(p.MainCategory)
		})),
		RecentRevisions: recentDigests,
	}

	if data, err := json.Marshal(out); err == nil {
		s.cacheSet(traceID, cacheKey, data, statsCacheTTL)
	}
	return out, nil
}

// Activity returns daily, weekly and monthly solve buckets for the chart
// views over the trailing period.
func (s *Service) Activity(ctx context.Context, userID primitive.ObjectID, periodDays int) (model.ActivityStats, error) {
	traceID := uuid.New().String()
	if periodDays < 1 {
		periodDays = 30
	}

	user, err := s.Store.GetUserByID(ctx, userID)
	if err != nil {
		return model.ActivityStats{}, err
	}
	solved, err := s.Store.ListSolvedProblems(ctx, userID)
	if err != nil {
		return model.ActivityStats{}, err
	}

	now := s.Now().In(s.userLocation(user))
	cutoff := now.AddDate(0, 0, -periodDays)
	window := make([]model.Problem, 0, len(solved))
	for _, p := range solved {
		if !p.SolveDate.Before(cutoff) {
			window = append(window, p)
		}
	}

	out := model.ActivityStats{
		Daily:   stats.BucketByDay(window, solveDate),
		Weekly:  stats.BucketByWeek(window, solveDate),
		Monthly: stats.BucketByMonth(window, solveDate),
	}
	s.log(zapcore.InfoLevel, traceID, "Activity computed", map[string]any{
		"method":     "Activity",
		"userId":     userID.Hex(),
		"periodDays": periodDays,
		"solves":     len(window),
	}, nil)
	return out, nil
}

// Profile returns the user with platform/difficulty/category distributions
// and the best single week ever.
func (s *Service) Profile(ctx context.Context, userID primitive.ObjectID) (model.ProfileStats, error) {
	user, err := s.Store.GetUserByID(ctx, userID)
	if err != nil {
		return model.ProfileStats{}, err
	}
	solved, err := s.Store.ListSolvedProblems(ctx, userID)
	if err != nil {
		return model.ProfileStats{}, err
	}

	bestWeek := 0
	for _, b := range stats.BucketByWeek(solved, solveDate) {
		if b.Count > bestWeek {
			bestWeek = b.Count
		}
	}

	return model.ProfileStats{
		User:          user,
		TotalProblems: len(solved),
		BestWeek:      bestWeek,
		ByPlatform: stats.SortedCounts(stats.CountByDimension(solved, func(p model.Problem) string {
			return string(p.Platform)
		})),
		ByDifficulty: stats.SortedCounts(stats.CountByDimension(solved, func(p model.Problem) string {
			return string(p.PlatformDifficulty)
		})),
		ByCategory: stats.SortedCounts(stats.CountByDimension(solved, func(p model.Problem) string {
			return string(p.MainCategory)
		})),
	}, nil
}

// startOfWeek returns midnight of the most recent Sunday, matching the
// dashboard's week boundary.
func startOfWeek(t time.Time) time.Time {
	y, m, d := t.AddDate(0, 0, -int(t.Weekday())).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
