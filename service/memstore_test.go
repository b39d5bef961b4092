package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"codetrack/model"
	"codetrack/repository"
)

// memStore is a mutex-guarded Store for tests. ApplyRevisionSchedule keeps
// the repository's compare-and-swap semantics so concurrency behavior can be
// exercised without a database.
type memStore struct {
	mu       sync.Mutex
	users    map[primitive.ObjectID]model.User
	problems map[primitive.ObjectID]model.Problem
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[primitive.ObjectID]model.User),
		problems: make(map[primitive.ObjectID]model.Problem),
	}
}

func (m *memStore) CreateUser(_ context.Context, user model.User) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return model.User{}, fmt.Errorf("%w: %s", model.ErrDuplicateEmail, user.Email)
		}
	}
	user.ID = primitive.NewObjectID()
	m.users[user.ID] = user
	return user, nil
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, fmt.Errorf("%w: user %s", model.ErrNotFound, email)
}

func (m *memStore) GetUserByID(_ context.Context, userID primitive.ObjectID) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return model.User{}, fmt.Errorf("%w: user %s", model.ErrNotFound, userID.Hex())
	}
	return u, nil
}

func (m *memStore) ListUsers(_ context.Context) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *memStore) UpdateUserPreferences(_ context.Context, userID primitive.ObjectID, prefs model.Preferences) error {
	return m.mutateUser(userID, func(u *model.User) { u.Preferences = prefs })
}

func (m *memStore) UpdateUserPlatformUsernames(_ context.Context, userID primitive.ObjectID, names model.PlatformUsernames) error {
	return m.mutateUser(userID, func(u *model.User) { u.PlatformUsernames = names })
}

func (m *memStore) UpdateUserStatistics(_ context.Context, userID primitive.ObjectID, stats model.UserStatistics) error {
	return m.mutateUser(userID, func(u *model.User) { u.Statistics = stats })
}

func (m *memStore) IncrementUserStat(_ context.Context, userID primitive.ObjectID, field string, delta int) error {
	return m.mutateUser(userID, func(u *model.User) {
		switch field {
		case "totalProblemsSolved":
			u.Statistics.TotalProblemsSolved += delta
		case "totalRevisionCount":
			u.Statistics.TotalRevisionCount += delta
		}
	})
}

func (m *memStore) TouchLastActive(_ context.Context, userID primitive.ObjectID) error {
	return m.mutateUser(userID, func(u *model.User) { u.LastActiveDate = time.Now() })
}

func (m *memStore) mutateUser(userID primitive.ObjectID, fn func(*model.User)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return fmt.Errorf("%w: user %s", model.ErrNotFound, userID.Hex())
	}
	fn(&u)
	m.users[userID] = u
	return nil
}

func (m *memStore) CreateProblem(_ context.Context, p model.Problem) (model.Problem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = primitive.NewObjectID()
	if p.TopicTags == nil {
		p.TopicTags = []string{}
	}
	if p.RevisionSchedule.RevisionHistory == nil {
		p.RevisionSchedule.RevisionHistory = []model.RevisionEntry{}
	}
	m.problems[p.ID] = p
	return p, nil
}

func (m *memStore) GetProblem(_ context.Context, userID, problemID primitive.ObjectID) (model.Problem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.problems[problemID]
	if !ok || p.UserID != userID {
		return model.Problem{}, fmt.Errorf("%w: problem %s", model.ErrNotFound, problemID.Hex())
	}
	return p, nil
}

func (m *memStore) ListProblems(_ context.Context, userID primitive.ObjectID, f repository.ProblemFilter) ([]model.Problem, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Problem
	for _, p := range m.problems {
		if p.UserID != userID {
			continue
		}
		if f.Status != "" && string(p.Status) != f.Status {
			continue
		}
		if f.Platform != "" && string(p.Platform) != f.Platform {
			continue
		}
		if f.FavoritesOnly && !p.IsFavorite {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, int64(len(out)), nil
}

func (m *memStore) ListAllProblems(_ context.Context, userID primitive.ObjectID) ([]model.Problem, error) {
	return m.listWhere(userID, func(model.Problem) bool { return true })
}

func (m *memStore) ListSolvedProblems(_ context.Context, userID primitive.ObjectID) ([]model.Problem, error) {
	return m.listWhere(userID, func(p model.Problem) bool { return p.Status == model.StatusSolved })
}

func (m *memStore) ListScheduledProblems(_ context.Context, userID primitive.ObjectID) ([]model.Problem, error) {
	out, err := m.listWhere(userID, func(p model.Problem) bool {
		return p.RevisionSchedule.NextRevisionDate != nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].RevisionSchedule.NextRevisionDate.Before(*out[j].RevisionSchedule.NextRevisionDate)
	})
	return out, nil
}

func (m *memStore) listWhere(userID primitive.ObjectID, keep func(model.Problem) bool) ([]model.Problem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Problem
	for _, p := range m.problems {
		if p.UserID == userID && keep(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memStore) UpdateProblem(_ context.Context, userID, problemID primitive.ObjectID, req model.UpdateProblemRequest) (model.Problem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.problems[problemID]
	if !ok || p.UserID != userID {
		return model.Problem{}, fmt.Errorf("%w: problem %s", model.ErrNotFound, problemID.Hex())
	}
	if req.ProblemName != nil {
		p.ProblemName = *req.ProblemName
	}
	if req.TimeTaken != nil {
		p.TimeTaken = *req.TimeTaken
	}
	if req.Status != nil {
		p.Status = *req.Status
	}
	if req.IsFavorite != nil {
		p.IsFavorite = *req.IsFavorite
	}
	m.problems[problemID] = p
	return p, nil
}

func (m *memStore) DeleteProblem(_ context.Context, userID, problemID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.problems[problemID]
	if !ok || p.UserID != userID {
		return fmt.Errorf("%w: problem %s", model.ErrNotFound, problemID.Hex())
	}
	delete(m.problems, problemID)
	return nil
}

func (m *memStore) ToggleFavorite(_ context.Context, userID, problemID primitive.ObjectID) (model.Problem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.problems[problemID]
	if !ok || p.UserID != userID {
		return model.Problem{}, fmt.Errorf("%w: problem %s", model.ErrNotFound, problemID.Hex())
	}
	p.IsFavorite = !p.IsFavorite
	m.problems[problemID] = p
	return p, nil
}

func (m *memStore) ApplyRevisionSchedule(_ context.Context, userID, problemID primitive.ObjectID, expectedCount int, sched model.RevisionSchedule) (model.Problem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.problems[problemID]
	if !ok || p.UserID != userID {
		return model.Problem{}, fmt.Errorf("%w: problem %s", model.ErrNotFound, problemID.Hex())
	}
	if p.RevisionSchedule.RevisionCount != expectedCount {
		return model.Problem{}, fmt.Errorf("%w: revision count moved past %d", model.ErrConflict, expectedCount)
	}
	p.RevisionSchedule = sched
	m.problems[problemID] = p
	return p, nil
}

func (m *memStore) SetNextRevisionDate(_ context.Context, userID, problemID primitive.ObjectID, date time.Time) (model.Problem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.problems[problemID]
	if !ok || p.UserID != userID {
		return model.Problem{}, fmt.Errorf("%w: problem %s", model.ErrNotFound, problemID.Hex())
	}
	p.RevisionSchedule.NextRevisionDate = &date
	m.problems[problemID] = p
	return p, nil
}
