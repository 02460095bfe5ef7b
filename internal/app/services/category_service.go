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

type categoryStore interface {
	Create(ctx context.Context, category *models.Category) (*models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	List(ctx context.Context, page helpers.Page) ([]models.Category, error)
	Delete(ctx context.Context, id int64) error
}

type categoryEventChecker interface {
	ExistsByCategory(ctx context.Context, categoryID int64) (bool, error)
}

// CategoryService defines the interface for category operations
type CategoryService interface {
	Create(ctx context.Context, req *dto.NewCategoryRequest) (*dto.CategoryDto, error)
	Update(ctx context.Context, id int64, req *dto.NewCategoryRequest) (*dto.CategoryDto, error)
	GetByID(ctx context.Context, id int64) (*dto.CategoryDto, error)
	List(ctx context.Context, page helpers.Page) ([]dto.CategoryDto, error)
	Delete(ctx context.Context, id int64) error
}

// categoryServiceImpl implements CategoryService
type categoryServiceImpl struct {
	categoryRepo categoryStore
	eventRepo    categoryEventChecker
	logger       zerolog.Logger
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo categoryStore, eventRepo categoryEventChecker, logger zerolog.Logger) CategoryService {
	return &categoryServiceImpl{
		categoryRepo: categoryRepo,
		eventRepo:    eventRepo,
		logger:       logger,
	}
}

// Create adds a new category
func (s *categoryServiceImpl) Create(ctx context.Context, req *dto.NewCategoryRequest) (*dto.CategoryDto, error) {
	category := &models.Category{Name: req.Name}

	created, err := s.categoryRepo.Create(ctx, category)
	if err != nil {
		if errors.Is(err, apperrors.ErrCategoryAlreadyExists) {
			return nil, apperrors.NewConflictError(
				fmt.Sprintf("Category with name=%s already exists", req.Name))
		}
		s.logger.Error().Err(err).Str("name", req.Name).Msg("Failed to create category")
		return nil, err
	}

	return dto.ToCategoryDto(created), nil
}

// Update renames a category
func (s *categoryServiceImpl) Update(ctx context.Context, id int64, req *dto.NewCategoryRequest) (*dto.CategoryDto, error) {
	category := &models.Category{ID: id, Name: req.Name}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("Category with id=%d was not found", id))
		case errors.Is(err, apperrors.ErrCategoryAlreadyExists):
			return nil, apperrors.NewConflictError(
				fmt.Sprintf("Category with name=%s already exists", req.Name))
		}
		s.logger.Error().Err(err).Int64("categoryId", id).Msg("Failed to update category")
		return nil, err
	}

	return dto.ToCategoryDto(category), nil
}

// GetByID retrieves a category
func (s *categoryServiceImpl) GetByID(ctx context.Context, id int64) (*dto.CategoryDto, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("Category with id=%d was not found", id))
		}
		return nil, err
	}

	return dto.ToCategoryDto(category), nil
}

// List retrieves a page of categories
func (s *categoryServiceImpl) List(ctx context.Context, page helpers.Page) ([]dto.CategoryDto, error) {
	categories, err := s.categoryRepo.List(ctx, page)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list categories")
		return nil, err
	}

	result := make([]dto.CategoryDto, 0, len(categories))
	for i := range categories {
		result = append(result, *dto.ToCategoryDto(&categories[i]))
	}
	return result, nil
}

// Delete removes a category unless events still reference it
func (s *categoryServiceImpl) Delete(ctx context.Context, id int64) error {
	inUse, err := s.eventRepo.ExistsByCategory(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("categoryId", id).Msg("Failed to check category usage")
		return err
	}
	if inUse {
		return apperrors.NewConflictError("The category is not empty")
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NewNotFoundError(fmt.Sprintf("Category with id=%d was not found", id))
		}
		s.logger.Error().Err(err).Int64("categoryId", id).Msg("Failed to delete category")
		return err
	}

	return nil
}
