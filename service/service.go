package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap/zapcore"

	"codetrack/cache"
	"codetrack/logger"
	"codetrack/model"
	"codetrack/natsclient"
	"codetrack/repository"
	"codetrack/revision"
)

// Store is the persistence surface the service consumes. It is implemented
// by repository.Repository and by the in-memory store the tests use.
type Store interface {
	CreateUser(ctx context.Context, user model.User) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	GetUserByID(ctx context.Context, userID primitive.ObjectID) (model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	UpdateUserPreferences(ctx context.Context, userID primitive.ObjectID, prefs model.Preferences) error
	UpdateUserPlatformUsernames(ctx context.Context, userID primitive.ObjectID, names model.PlatformUsernames) error
	UpdateUserStatistics(ctx context.Context, userID primitive.ObjectID, stats model.UserStatistics) error
	IncrementUserStat(ctx context.Context, userID primitive.ObjectID, field string, delta int) error
	TouchLastActive(ctx context.Context, userID primitive.ObjectID) error

	CreateProblem(ctx context.Context, p model.Problem) (model.Problem, error)
	GetProblem(ctx context.Context, userID, problemID primitive.ObjectID) (model.Problem, error)
	ListProblems(ctx context.Context, userID primitive.ObjectID, f repository.ProblemFilter) ([]model.Problem, int64, error)
	ListAllProblems(ctx context.Context, userID primitive.ObjectID) ([]model.Problem, error)
	ListSolvedProblems(ctx context.Context, userID primitive.ObjectID) ([]model.Problem, error)
	ListScheduledProblems(ctx context.Context, userID primitive.ObjectID) ([]model.Problem, error)
	UpdateProblem(ctx context.Context, userID, problemID primitive.ObjectID, req model.UpdateProblemRequest) (model.Problem, error)
	DeleteProblem(ctx context.Context, userID, problemID primitive.ObjectID) error
	ToggleFavorite(ctx context.Context, userID, problemID primitive.ObjectID) (model.Problem, error)
	ApplyRevisionSchedule(ctx context.Context, userID, problemID primitive.ObjectID, expectedCount int, sched model.RevisionSchedule) (model.Problem, error)
	SetNextRevisionDate(ctx context.Context, userID, problemID primitive.ObjectID, date time.Time) (model.Problem, error)
}

// Service orchestrates the tracker: it validates input, delegates the
// scheduling and analytics decisions to the revision and stats packages,
// and handles persistence, caching and notification events.
type Service struct {
	Store       Store
	NatsClient  *natsclient.NatsClient
	CacheClient cache.Cache
	Scheduler   *revision.Scheduler
	JWTSecret   string

	// Now supplies the reference clock; tests pin it.
	Now func() time.Time

	logger *logger.LogStreamer
}

func NewService(store Store, natsClient *natsclient.NatsClient, cacheClient cache.Cache, scheduler *revision.Scheduler, log *logger.LogStreamer, jwtSecret string) *Service {
	return &Service{
		Store:       store,
		NatsClient:  natsClient,
		CacheClient: cacheClient,
		Scheduler:   scheduler,
		JWTSecret:   jwtSecret,
		Now:         time.Now,
		logger:      log,
	}
}

func (s *Service) log(level zapcore.Level, traceID, msg string, fields map[string]any, err error) {
	if s.logger != nil {
		s.logger.Log(level, traceID, msg, fields, "SERVICE", err)
	}
}

// userLocation resolves the user's preferred timezone, falling back to UTC
// so a bad preference never breaks stats.
func (s *Service) userLocation(user model.User) *time.Location {
	if user.Preferences.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(user.Preferences.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (s *Service) cacheGet(key string) (string, bool) {
	if s.CacheClient == nil {
		return "", false
	}
	val, err := s.CacheClient.Get(key)
	if err != nil || val == nil {
		return "", false
	}
	str, ok := val.(string)
	return str, ok
}

func (s *Service) cacheSet(traceID, key string, data []byte, ttl time.Duration) {
	if s.CacheClient == nil {
		return
	}
	if err := s.CacheClient.Set(key, data, ttl); err != nil {
		s.log(zapcore.ErrorLevel, traceID, "Failed to cache payload", map[string]any{
			"cacheKey":  key,
			"errorType": "CACHE_ERROR",
		}, err)
	}
}

func (s *Service) invalidateStatsCaches(traceID string, userID primitive.ObjectID) {
	if s.CacheClient == nil {
		return
	}
	cacheKeys := []string{
		"dashboard:" + userID.Hex(),
		"revstats:" + userID.Hex(),
		"activity:" + userID.Hex(),
		"profile:" + userID.Hex(),
	}
	for _, cacheKey := range cacheKeys {
		if err := s.CacheClient.Delete(cacheKey); err != nil {
			s.log(zapcore.ErrorLevel, traceID, "Failed to delete cache", map[string]any{
				"cacheKey":  cacheKey,
				"errorType": "CACHE_ERROR",
			}, err)
		}
	}
}

func (s *Service) publish(traceID, subject string, data []byte) {
	if s.NatsClient == nil {
		return
	}
	if err := s.NatsClient.Publish(subject, data); err != nil {
		s.log(zapcore.ErrorLevel, traceID, "Failed to publish event", map[string]any{
			"subject":   subject,
			"errorType": "NATS_ERROR",
		}, err)
	}
}
