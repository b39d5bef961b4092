package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap/zapcore"

	"codetrack/model"
)

// UpdatePreferences replaces the stored preferences wholesale. The timezone
// must resolve or the update is rejected, so stats never see a broken zone.
func (s *Service) UpdatePreferences(ctx context.Context, userID primitive.ObjectID, prefs model.Preferences) (model.User, error) {
	traceID := uuid.New().String()

	if prefs.Timezone != "" {
		if _, err := time.LoadLocation(prefs.Timezone); err != nil {
			return model.User{}, fmt.Errorf("%w: unknown timezone %q", model.ErrValidation, prefs.Timezone)
		}
	} else {
		prefs.Timezone = "UTC"
	}

	if err := s.Store.UpdateUserPreferences(ctx, userID, prefs); err != nil {
		s.log(zapcore.ErrorLevel, traceID, "Failed to update preferences", map[string]any{
			"method":    "UpdatePreferences",
			"userId":    userID.Hex(),
			"errorType": "DB_ERROR",
		}, err)
		return model.User{}, err
	}
	s.invalidateStatsCaches(traceID, userID)

	s.log(zapcore.InfoLevel, traceID, "Preferences updated", map[string]any{
		"method":   "UpdatePreferences",
		"userId":   userID.Hex(),
		"timezone": prefs.Timezone,
	}, nil)
	return s.Store.GetUserByID(ctx, userID)
}

// UpdatePlatformUsernames merges the supplied handles over the stored ones.
// Empty fields keep their previous value, so callers can send just the one
// platform they changed.
func (s *Service) UpdatePlatformUsernames(ctx context.Context, userID primitive.ObjectID, names model.PlatformUsernames) (model.User, error) {
	traceID := uuid.New().String()

	user, err := s.Store.GetUserByID(ctx, userID)
	if err != nil {
		return model.User{}, err
	}

	merged := user.PlatformUsernames
	if names.LeetCode != "" {
		merged.LeetCode = names.LeetCode
	}
	if names.HackerRank != "" {
		merged.HackerRank = names.HackerRank
	}
	if names.Codeforces != "" {
		merged.Codeforces = names.Codeforces
	}
	if names.CodeChef != "" {
		merged.CodeChef = names.CodeChef
	}
	if names.AtCoder != "" {
		merged.AtCoder = names.AtCoder
	}

	if err := s.Store.UpdateUserPlatformUsernames(ctx, userID, merged); err != nil {
		s.log(zapcore.ErrorLevel, traceID, "Failed to update platform usernames", map[string]any{
			"method":    "UpdatePlatformUsernames",
			"userId":    userID.Hex(),
			"errorType": "DB_ERROR",
		}, err)
		return model.User{}, err
	}

	user.PlatformUsernames = merged
	return user, nil
}

// GetUser returns the stored account.
func (s *Service) GetUser(ctx context.Context, userID primitive.ObjectID) (model.User, error) {
	return s.Store.GetUserByID(ctx, userID)
}
