package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap/zapcore"
	"golang.org/x/crypto/bcrypt"

	"codetrack/model"
)

const tokenTTL = 7 * 24 * time.Hour

type authClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// Register creates an account and returns a signed token for it.
func (s *Service) Register(ctx context.Context, req model.RegisterRequest) (model.AuthResponse, error) {
	traceID := uuid.New().String()
	s.log(zapcore.InfoLevel, traceID, "Starting Register", map[string]any{
		"method": "Register",
		"email":  req.Email,
	}, nil)

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || len(req.Name) > 50 {
		return model.AuthResponse{}, fmt.Errorf("%w: name is required and must be at most 50 characters", model.ErrValidation)
	}
	if !strings.Contains(req.Email, "@") {
		return model.AuthResponse{}, fmt.Errorf("%w: valid email is required", model.ErrValidation)
	}
	if len(req.Password) < 6 {
		return model.AuthResponse{}, fmt.Errorf("%w: password must be at least 6 characters", model.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.AuthResponse{}, err
	}

	user, err := s.Store.CreateUser(ctx, model.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hash),
		Preferences: model.Preferences{
			Notifications: true,
			Timezone:      "UTC",
		},
	})
	if err != nil {
		s.log(zapcore.ErrorLevel, traceID, "Failed to create user", map[string]any{
			"method":    "Register",
			"email":     req.Email,
			"errorType": "DB_ERROR",
		}, err)
		return model.AuthResponse{}, err
	}

	token, err := s.signToken(user.ID)
	if err != nil {
		return model.AuthResponse{}, err
	}
	s.log(zapcore.InfoLevel, traceID, "User registered", map[string]any{
		"method": "Register",
		"userId": user.ID.Hex(),
	}, nil)
	return model.AuthResponse{Token: token, User: user}, nil
}

// Login verifies credentials and returns a fresh token.
func (s *Service) Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error) {
	traceID := uuid.New().String()

	user, err := s.Store.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		s.log(zapcore.WarnLevel, traceID, "Login for unknown email", map[string]any{
			"method": "Login",
			"email":  req.Email,
		}, nil)
		return model.AuthResponse{}, model.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		s.log(zapcore.WarnLevel, traceID, "Login with wrong password", map[string]any{
			"method": "Login",
			"userId": user.ID.Hex(),
		}, nil)
		return model.AuthResponse{}, model.ErrUnauthorized
	}

	if err := s.Store.TouchLastActive(ctx, user.ID); err != nil {
		s.log(zapcore.ErrorLevel, traceID, "Failed to touch last active", map[string]any{
			"method":    "Login",
			"userId":    user.ID.Hex(),
			"errorType": "DB_ERROR",
		}, err)
	}

	token, err := s.signToken(user.ID)
	if err != nil {
		return model.AuthResponse{}, err
	}
	s.log(zapcore.InfoLevel, traceID, "User logged in", map[string]any{
		"method": "Login",
		"userId": user.ID.Hex(),
	}, nil)
	return model.AuthResponse{Token: token, User: user}, nil
}

// ParseToken validates a bearer token and returns the user it identifies.
func (s *Service) ParseToken(tokenString string) (primitive.ObjectID, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &authClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.JWTSecret), nil
	}, jwt.WithTimeFunc(s.Now))
	if err != nil || !parsed.Valid {
		return primitive.NilObjectID, model.ErrUnauthorized
	}
	claims, ok := parsed.Claims.(*authClaims)
	if !ok {
		return primitive.NilObjectID, model.ErrUnauthorized
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return primitive.NilObjectID, model.ErrUnauthorized
	}
	return userID, nil
}

func (s *Service) signToken(userID primitive.ObjectID) (string, error) {
	now := s.Now()
	claims := authClaims{
		UserID: userID.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.JWTSecret))
}
