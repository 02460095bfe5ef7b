package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/antonkh/eventory/internal/app/models"
	"github.com/antonkh/eventory/internal/app/models/dto"
	"github.com/antonkh/eventory/internal/app/repositories"
	"github.com/antonkh/eventory/internal/db"
	"github.com/antonkh/eventory/internal/pkg/apperrors"
)

type requestStore interface {
	Create(ctx context.Context, tx pgx.Tx, req *models.ParticipationRequest) (*models.ParticipationRequest, error)
	GetByID(ctx context.Context, id int64) (*models.ParticipationRequest, error)
	CountConfirmed(ctx context.Context, tx pgx.Tx, eventID int64) (int64, error)
	CountConfirmedByEvents(ctx context.Context, eventIDs []int64) (map[int64]int64, error)
	ListByIDs(ctx context.Context, tx pgx.Tx, eventID int64, ids []int64) ([]models.ParticipationRequest, error)
	ListPendingByEvent(ctx context.Context, tx pgx.Tx, eventID int64) ([]models.ParticipationRequest, error)
	ListByRequester(ctx context.Context, userID int64) ([]models.ParticipationRequest, error)
	ListByEvent(ctx context.Context, eventID int64) ([]models.ParticipationRequest, error)
	ExistsActive(ctx context.Context, tx pgx.Tx, eventID, requesterID int64) (bool, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, ids []int64, status models.RequestStatus) error
	UpdateStatusByID(ctx context.Context, id int64, status models.RequestStatus) error
}

type lockingEventStore interface {
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*models.Event, error)
	GetByIDAndInitiator(ctx context.Context, eventID, userID int64) (*models.Event, error)
}

// RequestService defines the interface for participation request operations
type RequestService interface {
	Create(ctx context.Context, userID, eventID int64) (*dto.ParticipationRequestDto, error)
	Cancel(ctx context.Context, userID, requestID int64) (*dto.ParticipationRequestDto, error)
	ListOwn(ctx context.Context, userID int64) ([]dto.ParticipationRequestDto, error)
	ListForEvent(ctx context.Context, userID, eventID int64) ([]dto.ParticipationRequestDto, error)
	UpdateStatus(ctx context.Context, userID, eventID int64, req *dto.RequestStatusUpdateRequest) (*dto.RequestStatusUpdateResult, error)
}

// requestServiceImpl implements RequestService. Admission decisions run in a
// transaction holding the event row lock so the capacity check and the status
// write cannot interleave across requests.
type requestServiceImpl struct {
	tx          db.TxRunner
	requestRepo requestStore
	eventRepo   lockingEventStore
	userRepo    userStore
	logger      zerolog.Logger
}

// NewRequestService creates a new RequestService
func NewRequestService(
	tx db.TxRunner,
	requestRepo requestStore,
	eventRepo lockingEventStore,
	userRepo userStore,
	logger zerolog.Logger,
) RequestService {
	return &requestServiceImpl{
		tx:          tx,
		requestRepo: requestRepo,
		eventRepo:   eventRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// Create submits a participation request. Requests for unmoderated or
// unlimited events confirm immediately.
func (s *requestServiceImpl) Create(ctx context.Context, userID, eventID int64) (*dto.ParticipationRequestDto, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("User with id=%d was not found", userID))
		}
		return nil, err
	}

	var created *models.ParticipationRequest
	err := s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		event, err := s.eventRepo.GetByIDForUpdate(ctx, tx, eventID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return apperrors.NewNotFoundError(fmt.Sprintf("Event with id=%d was not found", eventID))
			}
			return err
		}

		if event.InitiatorID == userID {
			return apperrors.NewConflictError("Initiator cannot request participation in own event")
		}
		if event.State != models.EventStatePublished {
			return apperrors.NewConflictError("Cannot participate in an unpublished event")
		}

		exists, err := s.requestRepo.ExistsActive(ctx, tx, eventID, userID)
		if err != nil {
			return err
		}
		if exists {
			return apperrors.NewConflictError("Request already exists")
		}

		if !event.Unlimited() {
			confirmed, err := s.requestRepo.CountConfirmed(ctx, tx, eventID)
			if err != nil {
				return err
			}
			if confirmed >= int64(event.ParticipantLimit) {
				return apperrors.NewConflictError("The participant limit has been reached")
			}
		}

		status := models.RequestStatusPending
		if !event.RequestModeration || event.Unlimited() {
			status = models.RequestStatusConfirmed
		}

		created, err = s.requestRepo.Create(ctx, tx, &models.ParticipationRequest{
			EventID:     eventID,
			RequesterID: userID,
			Status:      status,
			Created:     time.Now(),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("requestId", created.ID).
		Int64("eventId", eventID).
		Int64("userId", userID).
		Str("status", string(created.Status)).
		Msg("Participation request created")

	result := dto.ToParticipationRequestDto(created)
	return &result, nil
}

// Cancel withdraws the user's own request
func (s *requestServiceImpl) Cancel(ctx context.Context, userID, requestID int64) (*dto.ParticipationRequestDto, error) {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("Request with id=%d was not found", requestID))
		}
		return nil, err
	}
	if request.RequesterID != userID {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("Request with id=%d was not found", requestID))
	}

	if err := s.requestRepo.UpdateStatusByID(ctx, requestID, models.RequestStatusCanceled); err != nil {
		return nil, err
	}
	request.Status = models.RequestStatusCanceled

	s.logger.Info().Int64("requestId", requestID).Int64("userId", userID).Msg("Participation request canceled")

	result := dto.ToParticipationRequestDto(request)
	return &result, nil
}

// ListOwn retrieves all requests made by the user
func (s *requestServiceImpl) ListOwn(ctx context.Context, userID int64) ([]dto.ParticipationRequestDto, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("User with id=%d was not found", userID))
		}
		return nil, err
	}

	requests, err := s.requestRepo.ListByRequester(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Int64("userId", userID).Msg("Failed to list requests")
		return nil, err
	}

	return dto.ToParticipationRequestDtos(requests), nil
}

// ListForEvent retrieves all requests targeting an event owned by the user
func (s *requestServiceImpl) ListForEvent(ctx context.Context, userID, eventID int64) ([]dto.ParticipationRequestDto, error) {
	if _, err := s.eventRepo.GetByIDAndInitiator(ctx, eventID, userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("Event with id=%d was not found", eventID))
		}
		return nil, err
	}

	requests, err := s.requestRepo.ListByEvent(ctx, eventID)
	if err != nil {
		s.logger.Error().Err(err).Int64("eventId", eventID).Msg("Failed to list event requests")
		return nil, err
	}

	return dto.ToParticipationRequestDtos(requests), nil
}

// UpdateStatus confirms or rejects a batch of pending requests on the user's
// event. Confirming the last free slot rejects every remaining pending request
// in the same transaction.
func (s *requestServiceImpl) UpdateStatus(ctx context.Context, userID, eventID int64, req *dto.RequestStatusUpdateRequest) (*dto.RequestStatusUpdateResult, error) {
	if _, err := s.eventRepo.GetByIDAndInitiator(ctx, eventID, userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("Event with id=%d was not found", eventID))
		}
		return nil, err
	}

	result := &dto.RequestStatusUpdateResult{
		ConfirmedRequests: []dto.ParticipationRequestDto{},
		RejectedRequests:  []dto.ParticipationRequestDto{},
	}

	err := s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		event, err := s.eventRepo.GetByIDForUpdate(ctx, tx, eventID)
		if err != nil {
			return err
		}

		// Events without moderation or capacity never hold pending requests,
		// so there is nothing to decide.
		if !event.RequestModeration || event.Unlimited() {
			return apperrors.NewConflictError("Event does not require request confirmation")
		}

		requests, err := s.requestRepo.ListByIDs(ctx, tx, eventID, req.RequestIDs)
		if err != nil {
			return err
		}
		if len(requests) != len(req.RequestIDs) {
			return apperrors.NewNotFoundError("Request was not found")
		}
		for i := range requests {
			if requests[i].Status != models.RequestStatusPending {
				return apperrors.NewConflictError("Request must have status PENDING")
			}
		}

		confirmed, err := s.requestRepo.CountConfirmed(ctx, tx, eventID)
		if err != nil {
			return err
		}

		free := int64(event.ParticipantLimit) - confirmed
		if free <= 0 {
			return apperrors.NewConflictError("The participant limit has been reached")
		}

		if req.Status == models.RequestStatusRejected {
			return s.reject(ctx, tx, requests, result)
		}

		toConfirm := requests
		var toReject []models.ParticipationRequest
		if int64(len(requests)) > free {
			toConfirm = requests[:free]
			toReject = requests[free:]
		}

		confirmIDs := requestIDs(toConfirm)
		if err := s.requestRepo.UpdateStatus(ctx, tx, confirmIDs, models.RequestStatusConfirmed); err != nil {
			return err
		}
		for i := range toConfirm {
			toConfirm[i].Status = models.RequestStatusConfirmed
			result.ConfirmedRequests = append(result.ConfirmedRequests, dto.ToParticipationRequestDto(&toConfirm[i]))
		}

		if err := s.reject(ctx, tx, toReject, result); err != nil {
			return err
		}

		// Reaching capacity voids every remaining pending request.
		if confirmed+int64(len(toConfirm)) >= int64(event.ParticipantLimit) {
			pending, err := s.requestRepo.ListPendingByEvent(ctx, tx, eventID)
			if err != nil {
				return err
			}
			if err := s.reject(ctx, tx, pending, result); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("eventId", eventID).
		Int("confirmed", len(result.ConfirmedRequests)).
		Int("rejected", len(result.RejectedRequests)).
		Msg("Participation requests processed")

	return result, nil
}

func (s *requestServiceImpl) reject(ctx context.Context, tx pgx.Tx, requests []models.ParticipationRequest, result *dto.RequestStatusUpdateResult) error {
	if len(requests) == 0 {
		return nil
	}
	if err := s.requestRepo.UpdateStatus(ctx, tx, requestIDs(requests), models.RequestStatusRejected); err != nil {
		return err
	}
	for i := range requests {
		requests[i].Status = models.RequestStatusRejected
		result.RejectedRequests = append(result.RejectedRequests, dto.ToParticipationRequestDto(&requests[i]))
	}
	return nil
}

func requestIDs(requests []models.ParticipationRequest) []int64 {
	ids := make([]int64, 0, len(requests))
	for i := range requests {
		ids = append(ids, requests[i].ID)
	}
	return ids
}
