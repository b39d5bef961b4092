package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap/zapcore"

	"codetrack/model"
	"codetrack/natsclient"
	"codetrack/repository"
	"codetrack/revision"
)

// CreateProblem validates and stores a newly logged solve.
func (s *Service) CreateProblem(ctx context.Context, userID primitive.ObjectID, req model.CreateProblemRequest) (model.Problem, error) {
	traceID := uuid.New().String()
	s.log(zapcore.InfoLevel, traceID, "Starting CreateProblem", map[string]any{
		"method":      "CreateProblem",
		"userId":      userID.Hex(),
		"problemName": req.ProblemName,
	}, nil)

	if err := validateCreateProblem(req); err != nil {
		s.log(zapcore.ErrorLevel, traceID, "Invalid problem payload", map[string]any{
			"method":    "CreateProblem",
			"userId":    userID.Hex(),
			"errorType": "VALIDATION_ERROR",
		}, err)
		return model.Problem{}, err
	}

	now := s.Now()
	solveDate := now
	if req.SolveDate != nil {
		solveDate = *req.SolveDate
	}
	status := req.Status
	if status == "" {
		status = model.StatusSolved
	}

	problem, err := s.Store.CreateProblem(ctx, model.Problem{
		UserID:             userID,
		ProblemName:        req.ProblemName,
		ProblemTitle:       req.ProblemTitle,
		Description:        req.Description,
		ProblemLink:        req.ProblemLink,
		Platform:           req.Platform,
		PlatformDifficulty: req.PlatformDifficulty,
		RealDifficulty:     req.RealDifficulty,
		TimeTaken:          req.TimeTaken,
		MainCategory:       req.MainCategory,
		TopicTags:          req.TopicTags,
		ProblemPattern:     req.ProblemPattern,
		ApproachNotes:      req.ApproachNotes,
		CodeSnippet:        req.CodeSnippet,
		Status:             status,
		SolveDate:          solveDate,
	})
	if err != nil {
		s.log(zapcore.ErrorLevel, traceID, "Failed to create problem", map[string]any{
			"method":    "CreateProblem",
			"userId":    userID.Hex(),
			"errorType": "DB_ERROR",
		}, err)
		return model.Problem{}, err
	}

	if err := s.Store.IncrementUserStat(ctx, userID, "totalProblemsSolved", 1); err != nil {
		s.log(zapcore.ErrorLevel, traceID, "Failed to bump totalProblemsSolved", map[string]any{
			"method":    "CreateProblem",
			"userId":    userID.Hex(),
			"errorType": "DB_ERROR",
		}, err)
	}
	s.invalidateStatsCaches(traceID, userID)

	if event, err := json.Marshal(map[string]any{
		"userId":     userID.Hex(),
		"problemId":  problem.ID.Hex(),
		"platform":   problem.Platform,
		"difficulty": problem.PlatformDifficulty,
		"solvedAt":   problem.SolveDate,
	}); err == nil {
		s.publish(traceID, natsclient.SubjectProblemSolved, event)
	}

	s.log(zapcore.InfoLevel, traceID, "Problem created", map[string]any{
		"method":    "CreateProblem",
		"userId":    userID.Hex(),
		"problemId": problem.ID.Hex(),
	}, nil)
	return problem, nil
}

func (s *Service) GetProblem(ctx context.Context, userID, problemID primitive.ObjectID) (model.Problem, error) {
	return s.Store.GetProblem(ctx, userID, problemID)
}

func (s *Service) ListProblems(ctx context.Context, userID primitive.ObjectID, f repository.ProblemFilter) (model.ProblemList, error) {
	problems, total, err := s.Store.ListProblems(ctx, userID, f)
	if err != nil {
		return model.ProblemList{}, err
	}
	if problems == nil {
		problems = []model.Problem{}
	}
	limit := f.Limit
	if limit < 1 {
		limit = 10
	}
	page := f.Page
	if page < 1 {
		page = 1
	}
	pages := (total + limit - 1) / limit
	return model.ProblemList{
		Problems:   problems,
		Pagination: model.Pagination{Current: page, Pages: pages, Total: total},
	}, nil
}

// UpdateProblem applies a partial edit after validating any supplied
// classification fields against their closed value sets.
func (s *Service) UpdateProblem(ctx context.Context, userID, problemID primitive.ObjectID, req model.UpdateProblemRequest) (model.Problem, error) {
	traceID := uuid.New().String()

	if err := validateUpdateProblem(req); err != nil {
		s.log(zapcore.ErrorLevel, traceID, "Invalid problem update", map[string]any{
			"method":    "UpdateProblem",
			"userId":    userID.Hex(),
			"problemId": problemID.Hex(),
			"errorType": "VALIDATION_ERROR",
		}, err)
		return model.Problem{}, err
	}

	problem, err := s.Store.UpdateProblem(ctx, userID, problemID, req)
	if err != nil {
		s.log(zapcore.ErrorLevel, traceID, "Failed to update problem", map[string]any{
			"method":    "UpdateProblem",
			"userId":    userID.Hex(),
			"problemId": problemID.Hex(),
			"errorType": "DB_ERROR",
		}, err)
		return model.Problem{}, err
	}

	s.invalidateStatsCaches(traceID, userID)
	return problem, nil
}

func (s *Service) DeleteProblem(ctx context.Context, userID, problemID primitive.ObjectID) error {
	traceID := uuid.New().String()

	if err := s.Store.DeleteProblem(ctx, userID, problemID); err != nil {
		s.log(zapcore.ErrorLevel, traceID, "Failed to delete problem", map[string]any{
			"method":    "DeleteProblem",
			"userId":    userID.Hex(),
			"problemId": problemID.Hex(),
			"errorType": "DB_ERROR",
		}, err)
		return err
	}

	if err := s.Store.IncrementUserStat(ctx, userID, "totalProblemsSolved", -1); err != nil {
		s.log(zapcore.ErrorLevel, traceID, "Failed to lower totalProblemsSolved", map[string]any{
			"method":    "DeleteProblem",
			"userId":    userID.Hex(),
			"errorType": "DB_ERROR",
		}, err)
	}
	s.invalidateStatsCaches(traceID, userID)

	s.log(zapcore.InfoLevel, traceID, "Problem deleted", map[string]any{
		"method":    "DeleteProblem",
		"userId":    userID.Hex(),
		"problemId": problemID.Hex(),
	}, nil)
	return nil
}

func (s *Service) ToggleFavorite(ctx context.Context, userID, problemID primitive.ObjectID) (model.Problem, error) {
	return s.Store.ToggleFavorite(ctx, userID, problemID)
}

// ScheduleRevision sets an explicit next revision date, bypassing the
// interval table. Past dates are accepted; see revision.RescheduleTo.
func (s *Service) ScheduleRevision(ctx context.Context, userID, problemID primitive.ObjectID, rawDate string) (model.Problem, error) {
	traceID := uuid.New().String()

	date, err := revision.ParseDate(rawDate)
	if err != nil {
		s.log(zapcore.ErrorLevel, traceID, "Unparseable revision date", map[string]any{
			"method":    "ScheduleRevision",
			"userId":    userID.Hex(),
			"problemId": problemID.Hex(),
			"date":      rawDate,
			"errorType": "VALIDATION_ERROR",
		}, err)
		return model.Problem{}, err
	}

	problem, err := s.Store.SetNextRevisionDate(ctx, userID, problemID, date)
	if err != nil {
		return model.Problem{}, err
	}
	s.invalidateStatsCaches(traceID, userID)

	s.log(zapcore.InfoLevel, traceID, "Revision scheduled", map[string]any{
		"method":    "ScheduleRevision",
		"userId":    userID.Hex(),
		"problemId": problemID.Hex(),
		"date":      date,
	}, nil)
	return problem, nil
}

func validateCreateProblem(req model.CreateProblemRequest) error {
	if strings.TrimSpace(req.ProblemName) == "" || len(req.ProblemName) > 200 {
		return fmt.Errorf("%w: problem name is required and must be at most 200 characters", model.ErrValidation)
	}
	if strings.TrimSpace(req.ProblemTitle) == "" || len(req.ProblemTitle) > 200 {
		return fmt.Errorf("%w: problem title is required and must be at most 200 characters", model.ErrValidation)
	}
	if strings.TrimSpace(req.Description) == "" {
		return fmt.Errorf("%w: description is required", model.ErrValidation)
	}
	if strings.TrimSpace(req.ProblemLink) == "" {
		return fmt.Errorf("%w: problem link is required", model.ErrValidation)
	}
	if !req.Platform.Valid() {
		return fmt.Errorf("%w: unknown platform %q", model.ErrValidation, req.Platform)
	}
	if !req.PlatformDifficulty.Valid() {
		return fmt.Errorf("%w: unknown difficulty %q", model.ErrValidation, req.PlatformDifficulty)
	}
	if !req.RealDifficulty.Valid() {
		return fmt.Errorf("%w: unknown difficulty %q", model.ErrValidation, req.RealDifficulty)
	}
	if req.TimeTaken < 1 {
		return fmt.Errorf("%w: time taken must be at least 1 minute", model.ErrValidation)
	}
	if !req.MainCategory.Valid() {
		return fmt.Errorf("%w: unknown category %q", model.ErrValidation, req.MainCategory)
	}
	if !req.ProblemPattern.Valid() {
		return fmt.Errorf("%w: unknown pattern %q", model.ErrValidation, req.ProblemPattern)
	}
	if req.Status != "" && !req.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", model.ErrValidation, req.Status)
	}
	return nil
}

func validateUpdateProblem(req model.UpdateProblemRequest) error {
	if req.Platform != nil && !req.Platform.Valid() {
		return fmt.Errorf("%w: unknown platform %q", model.ErrValidation, *req.Platform)
	}
	if req.PlatformDifficulty != nil && !req.PlatformDifficulty.Valid() {
		return fmt.Errorf("%w: unknown difficulty %q", model.ErrValidation, *req.PlatformDifficulty)
	}
	if req.RealDifficulty != nil && !req.RealDifficulty.Valid() {
		return fmt.Errorf("%w: unknown difficulty %q", model.ErrValidation, *req.RealDifficulty)
	}
	if req.MainCategory != nil && !req.MainCategory.Valid() {
		return fmt.Errorf("%w: unknown category %q", model.ErrValidation, *req.MainCategory)
	}
	if req.ProblemPattern != nil && !req.ProblemPattern.Valid() {
		return fmt.Errorf("%w: unknown pattern %q", model.ErrValidation, *req.ProblemPattern)
	}
	if req.Status != nil && !req.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", model.ErrValidation, *req.Status)
	}
	if req.TimeTaken != nil && *req.TimeTaken < 1 {
		return fmt.Errorf("%w: time taken must be at least 1 minute", model.ErrValidation)
	}
	return nil
}
