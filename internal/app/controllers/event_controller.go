package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/antonkh/eventory/internal/app/models"
	"github.com/antonkh/eventory/internal/app/models/dto"
	"github.com/antonkh/eventory/internal/app/services"
	"github.com/antonkh/eventory/internal/middleware"
	"github.com/antonkh/eventory/internal/pkg/apperrors"
	"github.com/antonkh/eventory/internal/pkg/helpers"
)

// EventController handles the private, admin and public event surfaces
type EventController struct {
	eventService services.EventService
}

// NewEventController creates a new EventController
func NewEventController(eventService services.EventService) *EventController {
	return &EventController{
		eventService: eventService,
	}
}

// CreateEvent handles event creation by its initiator
// @Summary Create an event
// @Tags private
// @Accept json
// @Produce json
// @Param userId path int true "Initiator ID"
// @Param request body dto.NewEventRequest true "Event information"
// @Success 201 {object} dto.EventFullDto
// @Failure 400 {object} dto.ApiError
// @Failure 404 {object} dto.ApiError
// @Router /users/{userId}/events [post]
func (c *EventController) CreateEvent(ctx *gin.Context) {
	userID, ok := parsePathID(ctx, "userId")
	if !ok {
		return
	}

	var req dto.NewEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	event, err := c.eventService.Create(ctx, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, event)
}

// ListOwnEvents retrieves the caller's events
// @Summary List own events
// @Tags private
// @Produce json
// @Param userId path int true "Initiator ID"
// @Param from query int false "Elements to skip"
// @Param size query int false "Page size"
// @Success 200 {array} dto.EventShortDto
// @Router /users/{userId}/events [get]
func (c *EventController) ListOwnEvents(ctx *gin.Context) {
	userID, ok := parsePathID(ctx, "userId")
	if !ok {
		return
	}

	events, err := c.eventService.ListOwn(ctx, userID, helpers.ParsePageParams(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, events)
}

// GetOwnEvent retrieves one of the caller's events
// @Summary Get own event
// @Tags private
// @Produce json
// @Param userId path int true "Initiator ID"
// @Param eventId path int true "Event ID"
// @Success 200 {object} dto.EventFullDto
// @Failure 404 {object} dto.ApiError
// @Router /users/{userId}/events/{eventId} [get]
func (c *EventController) GetOwnEvent(ctx *gin.Context) {
	userID, ok := parsePathID(ctx, "userId")
	if !ok {
		return
	}
	eventID, ok := parsePathID(ctx, "eventId")
	if !ok {
		return
	}

	event, err := c.eventService.GetOwn(ctx, userID, eventID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// UpdateOwnEvent applies an owner update and optional state action
// @Summary Update own event
// @Tags private
// @Accept json
// @Produce json
// @Param userId path int true "Initiator ID"
// @Param eventId path int true "Event ID"
// @Param request body dto.UpdateEventUserRequest true "Changed fields"
// @Success 200 {object} dto.EventFullDto
// @Failure 400 {object} dto.ApiError
// @Failure 404 {object} dto.ApiError
// @Failure 409 {object} dto.ApiError
// @Router /users/{userId}/events/{eventId} [patch]
func (c *EventController) UpdateOwnEvent(ctx *gin.Context) {
	userID, ok := parsePathID(ctx, "userId")
	if !ok {
		return
	}
	eventID, ok := parsePathID(ctx, "eventId")
	if !ok {
		return
	}

	var req dto.UpdateEventUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	event, err := c.eventService.UpdateByOwner(ctx, userID, eventID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// FindEventsAdmin retrieves the filtered admin listing
// @Summary List events for admin
// @Tags admin
// @Produce json
// @Param users query []int false "Initiator ids"
// @Param states query []string false "Event states"
// @Param categories query []int false "Category ids"
// @Param rangeStart query string false "Window start"
// @Param rangeEnd query string false "Window end"
// @Param from query int false "Elements to skip"
// @Param size query int false "Page size"
// @Success 200 {array} dto.EventFullDto
// @Failure 400 {object} dto.ApiError
// @Router /admin/events [get]
func (c *EventController) FindEventsAdmin(ctx *gin.Context) {
	query, err := parseAdminEventQuery(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	events, err := c.eventService.FindAdmin(ctx, query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, events)
}

// UpdateEventAdmin applies a moderation decision
// @Summary Update event as admin
// @Tags admin
// @Accept json
// @Produce json
// @Param eventId path int true "Event ID"
// @Param request body dto.UpdateEventAdminRequest true "Changed fields"
// @Success 200 {object} dto.EventFullDto
// @Failure 400 {object} dto.ApiError
// @Failure 404 {object} dto.ApiError
// @Failure 409 {object} dto.ApiError
// @Router /admin/events/{eventId} [patch]
func (c *EventController) UpdateEventAdmin(ctx *gin.Context) {
	eventID, ok := parsePathID(ctx, "eventId")
	if !ok {
		return
	}

	var req dto.UpdateEventAdminRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	event, err := c.eventService.UpdateByAdmin(ctx, eventID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// FindEventsPublic retrieves the filtered public listing
// @Summary List published events
// @Tags public
// @Produce json
// @Param text query string false "Search text"
// @Param categories query []int false "Category ids"
// @Param paid query bool false "Paid filter"
// @Param rangeStart query string false "Window start"
// @Param rangeEnd query string false "Window end"
// @Param onlyAvailable query bool false "Hide full events"
// @Param sort query string false "EVENT_DATE or VIEWS"
// @Param from query int false "Elements to skip"
// @Param size query int false "Page size"
// @Success 200 {array} dto.EventShortDto
// @Failure 400 {object} dto.ApiError
// @Router /events [get]
func (c *EventController) FindEventsPublic(ctx *gin.Context) {
	query, err := parsePublicEventQuery(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	events, err := c.eventService.FindPublic(ctx, query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, events)
}

// GetEventPublic retrieves one published event
// @Summary Get a published event
// @Tags public
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} dto.EventFullDto
// @Failure 404 {object} dto.ApiError
// @Router /events/{id} [get]
func (c *EventController) GetEventPublic(ctx *gin.Context) {
	eventID, ok := parsePathID(ctx, "id")
	if !ok {
		return
	}

	event, err := c.eventService.GetPublished(ctx, eventID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, event)
}

func parsePublicEventQuery(ctx *gin.Context) (services.PublicEventQuery, error) {
	var query services.PublicEventQuery

	if text, ok := ctx.GetQuery("text"); ok {
		query.Text = &text
	}

	categories, err := parseIDList(ctx, "categories")
	if err != nil {
		return query, err
	}
	query.Categories = categories

	if query.Paid, err = parseOptionalBool(ctx, "paid"); err != nil {
		return query, err
	}
	if query.RangeStart, err = parseOptionalTime(ctx, "rangeStart"); err != nil {
		return query, err
	}
	if query.RangeEnd, err = parseOptionalTime(ctx, "rangeEnd"); err != nil {
		return query, err
	}

	onlyAvailable, err := parseOptionalBool(ctx, "onlyAvailable")
	if err != nil {
		return query, err
	}
	query.OnlyAvailable = onlyAvailable != nil && *onlyAvailable

	switch sort := ctx.Query("sort"); sort {
	case "", string(models.EventSortEventDate):
		query.Sort = models.EventSortEventDate
	case string(models.EventSortViews):
		query.Sort = models.EventSortViews
	default:
		return query, apperrors.NewBadRequestError(fmt.Sprintf("unknown sort %q", sort))
	}

	query.Page = helpers.ParsePageParams(ctx)
	return query, nil
}

func parseAdminEventQuery(ctx *gin.Context) (services.AdminEventQuery, error) {
	var query services.AdminEventQuery

	users, err := parseIDList(ctx, "users")
	if err != nil {
		return query, err
	}
	query.Users = users

	for _, s := range ctx.QueryArray("states") {
		state := models.EventState(s)
		if !state.Valid() {
			return query, apperrors.NewBadRequestError(fmt.Sprintf("unknown state %q", s))
		}
		query.States = append(query.States, state)
	}

	if query.Categories, err = parseIDList(ctx, "categories"); err != nil {
		return query, err
	}
	if query.RangeStart, err = parseOptionalTime(ctx, "rangeStart"); err != nil {
		return query, err
	}
	if query.RangeEnd, err = parseOptionalTime(ctx, "rangeEnd"); err != nil {
		return query, err
	}

	query.Page = helpers.ParsePageParams(ctx)
	return query, nil
}
