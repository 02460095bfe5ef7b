package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/antonkh/eventory/internal/app/models"
	"github.com/antonkh/eventory/internal/app/models/dto"
	"github.com/antonkh/eventory/internal/app/repositories"
	"github.com/antonkh/eventory/internal/pkg/apperrors"
	"github.com/antonkh/eventory/internal/pkg/helpers"
)

// userStore is the slice of the user repository the service consumes
type userStore interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context, ids []int64, page helpers.Page) ([]models.User, error)
	Delete(ctx context.Context, id int64) error
}

// UserService defines the interface for admin user operations
type UserService interface {
	Register(ctx context.Context, req *dto.NewUserRequest) (*dto.UserDto, error)
	List(ctx context.Context, ids []int64, page helpers.Page) ([]dto.UserDto, error)
	Delete(ctx context.Context, id int64) error
}

// userServiceImpl implements UserService
type userServiceImpl struct {
	userRepo userStore
	logger   zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo userStore, logger zerolog.Logger) UserService {
	return &userServiceImpl{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Register creates a new user
func (s *userServiceImpl) Register(ctx context.Context, req *dto.NewUserRequest) (*dto.UserDto, error) {
	user := &models.User{
		Name:  req.Name,
		Email: req.Email,
	}

	created, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil, apperrors.NewConflictError(
				fmt.Sprintf("User with email=%s already exists", req.Email))
		}
		s.logger.Error().Err(err).Str("email", req.Email).Msg("Failed to create user")
		return nil, err
	}

	s.logger.Info().Int64("userId", created.ID).Msg("User registered")
	result := dto.ToUserDto(created)
	return &result, nil
}

// List retrieves users, either the named ids or a page of all users
func (s *userServiceImpl) List(ctx context.Context, ids []int64, page helpers.Page) ([]dto.UserDto, error) {
	users, err := s.userRepo.List(ctx, ids, page)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list users")
		return nil, err
	}

	result := make([]dto.UserDto, 0, len(users))
	for i := range users {
		result = append(result, dto.ToUserDto(&users[i]))
	}
	return result, nil
}

// Delete removes a user
func (s *userServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NewNotFoundError(fmt.Sprintf("User with id=%d was not found", id))
		}
		s.logger.Error().Err(err).Int64("userId", id).Msg("Failed to delete user")
		return err
	}

	s.logger.Info().Int64("userId", id).Msg("User deleted")
	return nil
}
