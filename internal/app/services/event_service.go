package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/antonkh/eventory/internal/app/models"
	"github.com/antonkh/eventory/internal/app/models/dto"
	"github.com/antonkh/eventory/internal/app/repositories"
	"github.com/antonkh/eventory/internal/pkg/apperrors"
	"github.com/antonkh/eventory/internal/pkg/helpers"
	"github.com/antonkh/eventory/internal/pkg/validation"
)

// PublicEventQuery carries the public listing parameters
type PublicEventQuery struct {
	Text          *string
	Categories    []int64
	Paid          *bool
	RangeStart    *time.Time
	RangeEnd      *time.Time
	OnlyAvailable bool
	Sort          models.EventSort
	Page          helpers.Page
}

// AdminEventQuery carries the admin listing parameters
type AdminEventQuery struct {
	Users      []int64
	States     []models.EventState
	Categories []int64
	RangeStart *time.Time
	RangeEnd   *time.Time
	Page       helpers.Page
}

type eventStore interface {
	Create(ctx context.Context, e *models.Event) (*models.Event, error)
	Update(ctx context.Context, e *models.Event) error
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	GetByIDAndInitiator(ctx context.Context, eventID, userID int64) (*models.Event, error)
	ListByInitiator(ctx context.Context, userID int64, page helpers.Page) ([]models.Event, error)
	FindPublic(ctx context.Context, f repositories.PublicEventFilter, page helpers.Page, sortByDate bool) ([]models.Event, error)
	FindPublicWithViews(ctx context.Context, f repositories.PublicEventFilter, page helpers.Page,
		unique bool, statsStart, statsEnd time.Time) ([]models.EventWithStats, error)
	FindAdmin(ctx context.Context, f repositories.AdminEventFilter, page helpers.Page) ([]models.Event, error)
}

type confirmedCounter interface {
	CountConfirmedByEvents(ctx context.Context, eventIDs []int64) (map[int64]int64, error)
}

// viewsProvider answers hit counts per URI from the telemetry service.
// Implementations must fail open: a telemetry outage degrades view counters
// to zero, it never fails a listing.
type viewsProvider interface {
	Views(ctx context.Context, start, end time.Time, uris []string, unique bool) map[string]int64
}

// EventService defines the interface for event operations across the private,
// admin and public surfaces.
type EventService interface {
	Create(ctx context.Context, userID int64, req *dto.NewEventRequest) (*dto.EventFullDto, error)
	ListOwn(ctx context.Context, userID int64, page helpers.Page) ([]dto.EventShortDto, error)
	GetOwn(ctx context.Context, userID, eventID int64) (*dto.EventFullDto, error)
	UpdateByOwner(ctx context.Context, userID, eventID int64, req *dto.UpdateEventUserRequest) (*dto.EventFullDto, error)
	FindAdmin(ctx context.Context, query AdminEventQuery) ([]dto.EventFullDto, error)
	UpdateByAdmin(ctx context.Context, eventID int64, req *dto.UpdateEventAdminRequest) (*dto.EventFullDto, error)
	FindPublic(ctx context.Context, query PublicEventQuery) ([]dto.EventShortDto, error)
	GetPublished(ctx context.Context, eventID int64) (*dto.EventFullDto, error)
}

// eventServiceImpl implements EventService
type eventServiceImpl struct {
	eventRepo    eventStore
	categoryRepo categoryStore
	userRepo     userStore
	requestRepo  confirmedCounter
	stats        viewsProvider
	logger       zerolog.Logger
}

// NewEventService creates a new EventService
func NewEventService(
	eventRepo eventStore,
	categoryRepo categoryStore,
	userRepo userStore,
	requestRepo confirmedCounter,
	stats viewsProvider,
	logger zerolog.Logger,
) EventService {
	return &eventServiceImpl{
		eventRepo:    eventRepo,
		categoryRepo: categoryRepo,
		userRepo:     userRepo,
		requestRepo:  requestRepo,
		stats:        stats,
		logger:       logger,
	}
}

// Create adds a new event in the PENDING state
func (s *eventServiceImpl) Create(ctx context.Context, userID int64, req *dto.NewEventRequest) (*dto.EventFullDto, error) {
	now := time.Now()

	if err := validation.ValidateEventDate(req.EventDate.Time(), now); err != nil {
		return nil, err
	}
	if err := validateEventStrings(req.Annotation, req.Description, req.Title); err != nil {
		return nil, err
	}

	initiator, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("User with id=%d was not found", userID))
		}
		return nil, err
	}

	category, err := s.categoryRepo.GetByID(ctx, req.CategoryID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("Category with id=%d was not found", req.CategoryID))
		}
		return nil, err
	}

	event := &models.Event{
		Annotation:        req.Annotation,
		Description:       req.Description,
		Title:             req.Title,
		CategoryID:        category.ID,
		InitiatorID:       initiator.ID,
		EventDate:         req.EventDate.Time(),
		Lat:               req.Location.Lat,
		Lon:               req.Location.Lon,
		Paid:              false,
		ParticipantLimit:  0,
		RequestModeration: true,
		State:             models.EventStatePending,
		CreatedOn:         now,
	}
	if req.Paid != nil {
		event.Paid = *req.Paid
	}
	if req.ParticipantLimit != nil {
		event.ParticipantLimit = *req.ParticipantLimit
	}
	if req.RequestModeration != nil {
		event.RequestModeration = *req.RequestModeration
	}

	created, err := s.eventRepo.Create(ctx, event)
	if err != nil {
		s.logger.Error().Err(err).Int64("userId", userID).Msg("Failed to create event")
		return nil, err
	}
	created.Category = category
	created.Initiator = initiator

	s.logger.Info().Int64("eventId", created.ID).Int64("userId", userID).Msg("Event created")
	result := dto.ToEventFullDto(created, 0, 0)
	return &result, nil
}

// ListOwn retrieves a page of the user's own events
func (s *eventServiceImpl) ListOwn(ctx context.Context, userID int64, page helpers.Page) ([]dto.EventShortDto, error) {
	events, err := s.eventRepo.ListByInitiator(ctx, userID, page)
	if err != nil {
		s.logger.Error().Err(err).Int64("userId", userID).Msg("Failed to list user events")
		return nil, err
	}

	confirmed, views := s.eventCounters(ctx, events, nil, nil)

	result := make([]dto.EventShortDto, 0, len(events))
	for i := range events {
		e := &events[i]
		result = append(result, dto.ToEventShortDto(e, confirmed[e.ID], views[e.ID]))
	}
	return result, nil
}

// GetOwn retrieves a single event owned by the user
func (s *eventServiceImpl) GetOwn(ctx context.Context, userID, eventID int64) (*dto.EventFullDto, error) {
	event, err := s.eventRepo.GetByIDAndInitiator(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("Event with id=%d was not found", eventID))
		}
		return nil, err
	}

	confirmed, views := s.eventCounters(ctx, []models.Event{*event}, nil, nil)

	result := dto.ToEventFullDto(event, confirmed[event.ID], views[event.ID])
	return &result, nil
}

// UpdateByOwner applies an owner's changes and optional state action. Published
// events cannot be changed by their owner.
func (s *eventServiceImpl) UpdateByOwner(ctx context.Context, userID, eventID int64, req *dto.UpdateEventUserRequest) (*dto.EventFullDto, error) {
	event, err := s.eventRepo.GetByIDAndInitiator(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("Event with id=%d was not found", eventID))
		}
		return nil, err
	}

	if event.State == models.EventStatePublished {
		return nil, apperrors.NewConflictError("Only pending or canceled events can be changed")
	}

	now := time.Now()
	if req.EventDate != nil {
		if err := validation.ValidateEventDate(req.EventDate.Time(), now); err != nil {
			return nil, err
		}
	}

	if err := s.applyEventUpdate(ctx, event, req.Annotation, req.Description, req.Title,
		req.CategoryID, req.EventDate, req.Location, req.Paid, req.ParticipantLimit, req.RequestModeration); err != nil {
		return nil, err
	}

	switch req.StateAction {
	case models.StateActionSendToReview:
		// Idempotent: resubmitting a pending event keeps it pending.
		event.State = models.EventStatePending
	case models.StateActionCancelReview:
		event.State = models.EventStateCanceled
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		s.logger.Error().Err(err).Int64("eventId", eventID).Msg("Failed to update event")
		return nil, err
	}

	s.logger.Info().Int64("eventId", eventID).Str("state", string(event.State)).Msg("Event updated by owner")

	confirmed, views := s.eventCounters(ctx, []models.Event{*event}, nil, nil)
	result := dto.ToEventFullDto(event, confirmed[event.ID], views[event.ID])
	return &result, nil
}

// FindAdmin answers the admin listing
func (s *eventServiceImpl) FindAdmin(ctx context.Context, query AdminEventQuery) ([]dto.EventFullDto, error) {
	if err := validateRange(query.RangeStart, query.RangeEnd); err != nil {
		return nil, err
	}

	events, err := s.eventRepo.FindAdmin(ctx, repositories.AdminEventFilter{
		Users:      query.Users,
		States:     query.States,
		Categories: query.Categories,
		RangeStart: query.RangeStart,
		RangeEnd:   query.RangeEnd,
	}, query.Page)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list events for admin")
		return nil, err
	}

	confirmed, views := s.eventCounters(ctx, events, nil, nil)

	result := make([]dto.EventFullDto, 0, len(events))
	for i := range events {
		e := &events[i]
		result = append(result, dto.ToEventFullDto(e, confirmed[e.ID], views[e.ID]))
	}
	return result, nil
}

// UpdateByAdmin applies a moderation decision and optional field changes
func (s *eventServiceImpl) UpdateByAdmin(ctx context.Context, eventID int64, req *dto.UpdateEventAdminRequest) (*dto.EventFullDto, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("Event with id=%d was not found", eventID))
		}
		return nil, err
	}

	now := time.Now()
	if req.EventDate != nil {
		if err := validation.ValidateEventDateForAdminUpdate(req.EventDate.Time(), event.PublishedOn, now); err != nil {
			return nil, err
		}
	}

	if err := s.applyEventUpdate(ctx, event, req.Annotation, req.Description, req.Title,
		req.CategoryID, req.EventDate, req.Location, req.Paid, req.ParticipantLimit, req.RequestModeration); err != nil {
		return nil, err
	}

	switch req.StateAction {
	case models.StateActionPublishEvent:
		if event.State != models.EventStatePending {
			return nil, apperrors.NewConflictError(fmt.Sprintf(
				"Cannot publish the event because it's not in the right state: %s", event.State))
		}
		if err := validation.ValidateEventDateForPublish(event.EventDate, now); err != nil {
			return nil, err
		}
		event.State = models.EventStatePublished
		publishedOn := now
		event.PublishedOn = &publishedOn
	case models.StateActionRejectEvent:
		if event.State == models.EventStatePublished {
			return nil, apperrors.NewConflictError(
				"Cannot reject the event because it's not in the right state: PUBLISHED")
		}
		event.State = models.EventStateCanceled
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		s.logger.Error().Err(err).Int64("eventId", eventID).Msg("Failed to update event")
		return nil, err
	}

	s.logger.Info().Int64("eventId", eventID).Str("state", string(event.State)).Msg("Event updated by admin")

	confirmed, views := s.eventCounters(ctx, []models.Event{*event}, nil, nil)
	result := dto.ToEventFullDto(event, confirmed[event.ID], views[event.ID])
	return &result, nil
}

// FindPublic answers the public listing. The views sort runs as one aggregate
// query over the shared hit log; the date sort composes predicates and asks
// the telemetry service for counters afterwards.
func (s *eventServiceImpl) FindPublic(ctx context.Context, query PublicEventQuery) ([]dto.EventShortDto, error) {
	if err := validateRange(query.RangeStart, query.RangeEnd); err != nil {
		return nil, err
	}

	filter := repositories.PublicEventFilter{
		Text:       query.Text,
		Categories: query.Categories,
		Paid:       query.Paid,
		RangeStart: query.RangeStart,
		RangeEnd:   query.RangeEnd,
	}

	if query.Sort == models.EventSortViews {
		return s.findPublicByViews(ctx, filter, query)
	}

	sortByDate := query.Sort == models.EventSortEventDate
	events, err := s.eventRepo.FindPublic(ctx, filter, query.Page, sortByDate)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list public events")
		return nil, err
	}

	confirmed, views := s.eventCounters(ctx, events, query.RangeStart, query.RangeEnd)

	result := make([]dto.EventShortDto, 0, len(events))
	for i := range events {
		e := &events[i]
		if query.OnlyAvailable && !e.Unlimited() && confirmed[e.ID] >= int64(e.ParticipantLimit) {
			continue
		}
		result = append(result, dto.ToEventShortDto(e, confirmed[e.ID], views[e.ID]))
	}
	return result, nil
}

func (s *eventServiceImpl) findPublicByViews(ctx context.Context, filter repositories.PublicEventFilter, query PublicEventQuery) ([]dto.EventShortDto, error) {
	// Same window resolution as the per-event counters.
	statsStart, statsEnd := statsWindow(query.RangeStart, query.RangeEnd)

	events, err := s.eventRepo.FindPublicWithViews(ctx, filter, query.Page, true, statsStart, statsEnd)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list public events by views")
		return nil, err
	}

	result := make([]dto.EventShortDto, 0, len(events))
	for i := range events {
		e := &events[i]
		if query.OnlyAvailable && !e.Unlimited() && e.ConfirmedRequests >= int64(e.ParticipantLimit) {
			continue
		}
		result = append(result, dto.ToEventShortDto(&e.Event, e.ConfirmedRequests, e.Views))
	}
	return result, nil
}

// GetPublished retrieves a single published event for the public surface.
// Unpublished events are indistinguishable from missing ones.
func (s *eventServiceImpl) GetPublished(ctx context.Context, eventID int64) (*dto.EventFullDto, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("Event with id=%d was not found", eventID))
		}
		return nil, err
	}
	if event.State != models.EventStatePublished {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("Event with id=%d was not found", eventID))
	}

	confirmed, views := s.eventCounters(ctx, []models.Event{*event}, nil, nil)

	result := dto.ToEventFullDto(event, confirmed[event.ID], views[event.ID])
	return &result, nil
}

// applyEventUpdate copies the non-nil update fields onto the event, validating
// lengths and resolving the category reference.
func (s *eventServiceImpl) applyEventUpdate(ctx context.Context, event *models.Event,
	annotation, description, title *string, categoryID *int64, eventDate *helpers.DateTime,
	location *dto.LocationDto, paid *bool, participantLimit *int, requestModeration *bool) error {

	if annotation != nil {
		if err := validation.ValidateStringLength(*annotation, "annotation",
			validation.AnnotationMinLength, validation.AnnotationMaxLength); err != nil {
			return err
		}
		event.Annotation = *annotation
	}
	if description != nil {
		if err := validation.ValidateStringLength(*description, "description",
			validation.DescriptionMinLength, validation.DescriptionMaxLength); err != nil {
			return err
		}
		event.Description = *description
	}
	if title != nil {
		if err := validation.ValidateStringLength(*title, "title",
			validation.TitleMinLength, validation.TitleMaxLength); err != nil {
			return err
		}
		event.Title = *title
	}
	if categoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, *categoryID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return apperrors.NewNotFoundError(fmt.Sprintf("Category with id=%d was not found", *categoryID))
			}
			return err
		}
		event.CategoryID = category.ID
		event.Category = category
	}
	if eventDate != nil {
		event.EventDate = eventDate.Time()
	}
	if location != nil {
		event.Lat = location.Lat
		event.Lon = location.Lon
	}
	if paid != nil {
		event.Paid = *paid
	}
	if participantLimit != nil {
		if *participantLimit < 0 {
			return apperrors.NewBadRequestError("participant limit must not be negative")
		}
		event.ParticipantLimit = *participantLimit
	}
	if requestModeration != nil {
		event.RequestModeration = *requestModeration
	}

	return nil
}

// eventCounters fetches confirmed-request counts and view counters for the
// given events. Failures degrade to zero counters rather than failing the read.
func (s *eventServiceImpl) eventCounters(ctx context.Context, events []models.Event, rangeStart, rangeEnd *time.Time) (map[int64]int64, map[int64]int64) {
	views := make(map[int64]int64, len(events))
	if len(events) == 0 {
		return map[int64]int64{}, views
	}

	ids := make([]int64, 0, len(events))
	for i := range events {
		ids = append(ids, events[i].ID)
	}

	confirmed, err := s.requestRepo.CountConfirmedByEvents(ctx, ids)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to count confirmed requests, degrading to zero")
		confirmed = map[int64]int64{}
	}

	// Only published events accumulate views. Counters are deduplicated by ip
	// over the caller's window, or one year on either side of now by default.
	uris := make([]string, 0, len(events))
	uriToID := make(map[string]int64, len(events))
	for i := range events {
		e := &events[i]
		if e.PublishedOn == nil {
			continue
		}
		uri := fmt.Sprintf("/events/%d", e.ID)
		uris = append(uris, uri)
		uriToID[uri] = e.ID
	}
	if len(uris) == 0 {
		return confirmed, views
	}

	statsStart, statsEnd := statsWindow(rangeStart, rangeEnd)
	hits := s.stats.Views(ctx, statsStart, statsEnd, uris, true)
	for uri, count := range hits {
		if id, ok := uriToID[uri]; ok {
			views[id] = count
		}
	}

	return confirmed, views
}

func validateEventStrings(annotation, description, title string) error {
	if err := validation.ValidateStringLength(annotation, "annotation",
		validation.AnnotationMinLength, validation.AnnotationMaxLength); err != nil {
		return err
	}
	if err := validation.ValidateStringLength(description, "description",
		validation.DescriptionMinLength, validation.DescriptionMaxLength); err != nil {
		return err
	}
	return validation.ValidateStringLength(title, "title",
		validation.TitleMinLength, validation.TitleMaxLength)
}

// statsWindow resolves the interval view counters are fetched over. Caller
// bounds win; absent bounds fall back to one year on either side of now.
func statsWindow(start, end *time.Time) (time.Time, time.Time) {
	now := time.Now()
	from, to := now.AddDate(-1, 0, 0), now.AddDate(1, 0, 0)
	if start != nil {
		from = *start
	}
	if end != nil {
		to = *end
	}
	return from, to
}

func validateRange(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return apperrors.NewBadRequestError("rangeEnd must not be before rangeStart")
	}
	return nil
}
