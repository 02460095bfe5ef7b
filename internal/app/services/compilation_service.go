package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/antonkh/eventory/internal/app/models"
	"github.com/antonkh/eventory/internal/app/models/dto"
	"github.com/antonkh/eventory/internal/app/repositories"
	"github.com/antonkh/eventory/internal/db"
	"github.com/antonkh/eventory/internal/pkg/apperrors"
	"github.com/antonkh/eventory/internal/pkg/helpers"
)

type compilationStore interface {
	Create(ctx context.Context, tx pgx.Tx, comp *models.Compilation, eventIDs []int64) (*models.Compilation, error)
	Update(ctx context.Context, tx pgx.Tx, comp *models.Compilation, eventIDs *[]int64) error
	GetByID(ctx context.Context, id int64) (*models.Compilation, error)
	List(ctx context.Context, pinned *bool, page helpers.Page) ([]models.Compilation, error)
	Delete(ctx context.Context, id int64) error
	EventIDsByCompilations(ctx context.Context, compilationIDs []int64) (map[int64][]int64, error)
}

type eventLister interface {
	ListByIDs(ctx context.Context, ids []int64) ([]models.Event, error)
}

// CompilationService defines the interface for compilation operations
type CompilationService interface {
	Create(ctx context.Context, req *dto.NewCompilationRequest) (*dto.CompilationDto, error)
	Update(ctx context.Context, id int64, req *dto.UpdateCompilationRequest) (*dto.CompilationDto, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, pinned *bool, page helpers.Page) ([]dto.CompilationDto, error)
	GetByID(ctx context.Context, id int64) (*dto.CompilationDto, error)
}

// compilationServiceImpl implements CompilationService
type compilationServiceImpl struct {
	tx              db.TxRunner
	compilationRepo compilationStore
	eventRepo       eventLister
	requestRepo     confirmedCounter
	stats           viewsProvider
	logger          zerolog.Logger
}

// NewCompilationService creates a new CompilationService
func NewCompilationService(
	tx db.TxRunner,
	compilationRepo compilationStore,
	eventRepo eventLister,
	requestRepo confirmedCounter,
	stats viewsProvider,
	logger zerolog.Logger,
) CompilationService {
	return &compilationServiceImpl{
		tx:              tx,
		compilationRepo: compilationRepo,
		eventRepo:       eventRepo,
		requestRepo:     requestRepo,
		stats:           stats,
		logger:          logger,
	}
}

// Create adds a new compilation with its member events
func (s *compilationServiceImpl) Create(ctx context.Context, req *dto.NewCompilationRequest) (*dto.CompilationDto, error) {
	events, err := s.resolveEvents(ctx, req.EventIDs)
	if err != nil {
		return nil, err
	}

	comp := &models.Compilation{
		Title:  req.Title,
		Pinned: req.Pinned,
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		_, err := s.compilationRepo.Create(ctx, tx, comp, req.EventIDs)
		return err
	})
	if err != nil {
		s.logger.Error().Err(err).Str("title", req.Title).Msg("Failed to create compilation")
		return nil, err
	}

	s.logger.Info().Int64("compilationId", comp.ID).Msg("Compilation created")
	result := dto.ToCompilationDto(comp, s.renderEvents(ctx, events))
	return &result, nil
}

// Update changes a compilation and optionally replaces its member set
func (s *compilationServiceImpl) Update(ctx context.Context, id int64, req *dto.UpdateCompilationRequest) (*dto.CompilationDto, error) {
	comp, err := s.compilationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("Compilation with id=%d was not found", id))
		}
		return nil, err
	}

	if req.Title != nil {
		comp.Title = *req.Title
	}
	if req.Pinned != nil {
		comp.Pinned = *req.Pinned
	}
	if req.EventIDs != nil {
		if _, err := s.resolveEvents(ctx, *req.EventIDs); err != nil {
			return nil, err
		}
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return s.compilationRepo.Update(ctx, tx, comp, req.EventIDs)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("Compilation with id=%d was not found", id))
		}
		s.logger.Error().Err(err).Int64("compilationId", id).Msg("Failed to update compilation")
		return nil, err
	}

	return s.GetByID(ctx, id)
}

// Delete removes a compilation
func (s *compilationServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.compilationRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NewNotFoundError(fmt.Sprintf("Compilation with id=%d was not found", id))
		}
		s.logger.Error().Err(err).Int64("compilationId", id).Msg("Failed to delete compilation")
		return err
	}

	s.logger.Info().Int64("compilationId", id).Msg("Compilation deleted")
	return nil
}

// List retrieves a page of compilations with their rendered events
func (s *compilationServiceImpl) List(ctx context.Context, pinned *bool, page helpers.Page) ([]dto.CompilationDto, error) {
	compilations, err := s.compilationRepo.List(ctx, pinned, page)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list compilations")
		return nil, err
	}

	ids := make([]int64, 0, len(compilations))
	for i := range compilations {
		ids = append(ids, compilations[i].ID)
	}

	members, err := s.compilationRepo.EventIDsByCompilations(ctx, ids)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load compilation events")
		return nil, err
	}

	result := make([]dto.CompilationDto, 0, len(compilations))
	for i := range compilations {
		comp := &compilations[i]
		events, err := s.eventRepo.ListByIDs(ctx, members[comp.ID])
		if err != nil {
			return nil, err
		}
		result = append(result, dto.ToCompilationDto(comp, s.renderEvents(ctx, events)))
	}
	return result, nil
}

// GetByID retrieves a compilation with its rendered events
func (s *compilationServiceImpl) GetByID(ctx context.Context, id int64) (*dto.CompilationDto, error) {
	comp, err := s.compilationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("Compilation with id=%d was not found", id))
		}
		return nil, err
	}

	members, err := s.compilationRepo.EventIDsByCompilations(ctx, []int64{id})
	if err != nil {
		return nil, err
	}

	events, err := s.eventRepo.ListByIDs(ctx, members[id])
	if err != nil {
		return nil, err
	}

	result := dto.ToCompilationDto(comp, s.renderEvents(ctx, events))
	return &result, nil
}

// resolveEvents loads the named events and rejects references to missing ones
func (s *compilationServiceImpl) resolveEvents(ctx context.Context, ids []int64) ([]models.Event, error) {
	if len(ids) == 0 {
		return []models.Event{}, nil
	}

	events, err := s.eventRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(events) != len(uniqueIDs(ids)) {
		return nil, apperrors.NewNotFoundError("Event was not found")
	}
	return events, nil
}

// renderEvents maps the published members to their short representation with
// counters. Counter failures degrade to zero.
func (s *compilationServiceImpl) renderEvents(ctx context.Context, events []models.Event) []dto.EventShortDto {
	published := make([]models.Event, 0, len(events))
	for i := range events {
		if events[i].State == models.EventStatePublished {
			published = append(published, events[i])
		}
	}
	if len(published) == 0 {
		return []dto.EventShortDto{}
	}

	ids := make([]int64, 0, len(published))
	for i := range published {
		ids = append(ids, published[i].ID)
	}

	confirmed, err := s.requestRepo.CountConfirmedByEvents(ctx, ids)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to count confirmed requests, degrading to zero")
		confirmed = map[int64]int64{}
	}

	uris := make([]string, 0, len(published))
	uriToID := make(map[string]int64, len(published))
	for i := range published {
		e := &published[i]
		uri := fmt.Sprintf("/events/%d", e.ID)
		uris = append(uris, uri)
		uriToID[uri] = e.ID
	}

	views := make(map[int64]int64, len(published))
	statsStart, statsEnd := statsWindow(nil, nil)
	for uri, count := range s.stats.Views(ctx, statsStart, statsEnd, uris, true) {
		if id, ok := uriToID[uri]; ok {
			views[id] = count
		}
	}

	result := make([]dto.EventShortDto, 0, len(published))
	for i := range published {
		e := &published[i]
		result = append(result, dto.ToEventShortDto(e, confirmed[e.ID], views[e.ID]))
	}
	return result
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	result := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
