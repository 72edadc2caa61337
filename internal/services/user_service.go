package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/homestock/auth-api/internal/auth"
	"github.com/homestock/auth-api/internal/models"
	pkgauth "github.com/homestock/auth-api/pkg/auth"
	pkglogger "github.com/homestock/auth-api/pkg/logger"
)

// UserService handles account lifecycle outside the login flows:
// registration, listing and deletion.
type UserService struct {
	repo   UserRepository
	tm     *auth.TokenManager
	logger *slog.Logger
	audit  *pkglogger.AuditLogger
}

// NewUserService creates a new UserService
func NewUserService(repo UserRepository, tm *auth.TokenManager, logger *slog.Logger, audit *pkglogger.AuditLogger) *UserService {
	return &UserService{repo: repo, tm: tm, logger: logger, audit: audit}
}

// RegisterResponse is the success shape of registration. The token here is
// the long-lived registration variant, not a login token.
type RegisterResponse struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Token    string `json:"token"`
}

// Register creates a password-origin account. Admin status is never set
// through this path.
func (s *UserService) Register(ctx context.Context, fullName, email, password string) (*RegisterResponse, error) {
	email = NormalizeEmail(email)
	fullName = strings.TrimSpace(fullName)

	if email == "" || fullName == "" {
		return nil, models.ErrBadRequest
	}

	if err := pkgauth.ValidatePassword(password); err != nil {
		return nil, err
	}

	_, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		return nil, models.ErrConflict
	}
	if !errors.Is(err, models.ErrNotFound) {
		s.logger.Error("failed to check existing user", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	hash, err := pkgauth.HashPassword(password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	user, err := s.repo.Create(ctx, &models.User{
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
		AuthOrigin:   models.AuthOriginPassword,
	})
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, models.ErrConflict
		}
		s.logger.Error("failed to create user", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	token, err := s.tm.GenerateRegistrationToken(user)
	if err != nil {
		s.logger.Error("failed to generate registration token", slog.String("user_id", user.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("user registered", slog.String("user_id", user.ID))
	s.audit.LogAccountAction("user_registered", user.ID, "", nil)

	return &RegisterResponse{
		ID:       user.ID,
		FullName: user.FullName,
		Email:    user.Email,
		Token:    token,
	}, nil
}

// List returns sanitized projections of all accounts, newest first.
func (s *UserService) List(ctx context.Context, limit, offset int) ([]*UserResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	users, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("failed to list users", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	responses := make([]*UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, userModelToResponse(user))
	}
	return responses, nil
}

// Delete removes an account by id.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to delete user", slog.String("user_id", id), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.audit.LogAccountAction("user_deleted", id, "", nil)
	return nil
}
