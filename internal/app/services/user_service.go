package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/repositories"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/auth"
	"github.com/yigit/studentrecords/internal/pkg/validation"
)

// UserService defines the interface for user account operations
type UserService interface {
	Register(ctx context.Context, userID, password, displayName string, role models.Role) (*models.User, error)
	Authenticate(ctx context.Context, userID, password string) (*models.User, error)
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
}

// userServiceImpl implements UserService
type userServiceImpl struct {
	userRepo *repositories.UserRepository
	logger   zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo *repositories.UserRepository, logger zerolog.Logger) UserService {
	return &userServiceImpl{
		userRepo: userRepo,
		logger:   logger,
	}
}

func hashPassword(password string) (string, error) {
	hash, err := auth.HashPassword(password)
	if errors.Is(err, auth.ErrPasswordTooShort) {
		return "", validation.Field("password", err.Error())
	}
	return hash, err
}

// Register creates a user account with a bcrypt password hash
func (s *userServiceImpl) Register(ctx context.Context, userID, password, displayName string, role models.Role) (*models.User, error) {
	user := &models.User{
		UserID:      strings.TrimSpace(userID),
		DisplayName: strings.TrimSpace(displayName),
		Role:        role,
	}
	if err := validation.Struct(user); err != nil {
		return nil, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", user.UserID).Str("role", string(user.Role)).Msg("User registered")
	return user, nil
}

// Authenticate verifies a password. Unknown users and wrong passwords give
// the same error.
func (s *userServiceImpl) Authenticate(ctx context.Context, userID, password string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, strings.TrimSpace(userID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		s.logger.Warn().Str("user_id", user.UserID).Msg("Failed login attempt")
		return nil, apperrors.ErrInvalidCredentials
	}
	return user, nil
}

// ChangePassword replaces the password after checking the current one
func (s *userServiceImpl) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := s.Authenticate(ctx, userID, oldPassword)
	if err != nil {
		return err
	}
	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePasswordHash(ctx, user.UserID, hash); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", user.UserID).Msg("Password changed")
	return nil
}
