package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/antonkh/eventory/internal/app/models/dto"
	"github.com/antonkh/eventory/internal/app/services"
	"github.com/antonkh/eventory/internal/middleware"
	"github.com/antonkh/eventory/internal/pkg/apperrors"
)

// RequestController handles the participation request surface
type RequestController struct {
	requestService services.RequestService
}

// NewRequestController creates a new RequestController
func NewRequestController(requestService services.RequestService) *RequestController {
	return &RequestController{
		requestService: requestService,
	}
}

// CreateRequest submits a participation request
// @Summary Request participation in an event
// @Tags private
// @Produce json
// @Param userId path int true "Requester ID"
// @Param eventId query int true "Event ID"
// @Success 201 {object} dto.ParticipationRequestDto
// @Failure 400 {object} dto.ApiError
// @Failure 404 {object} dto.ApiError
// @Failure 409 {object} dto.ApiError
// @Router /users/{userId}/requests [post]
func (c *RequestController) CreateRequest(ctx *gin.Context) {
	userID, ok := parsePathID(ctx, "userId")
	if !ok {
		return
	}

	eventID, err := strconv.ParseInt(ctx.Query("eventId"), 10, 64)
	if err != nil || eventID <= 0 {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("eventId must be a positive number"))
		return
	}

	request, err := c.requestService.Create(ctx, userID, eventID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, request)
}

// CancelRequest withdraws the caller's own request
// @Summary Cancel own participation request
// @Tags private
// @Produce json
// @Param userId path int true "Requester ID"
// @Param requestId path int true "Request ID"
// @Success 200 {object} dto.ParticipationRequestDto
// @Failure 404 {object} dto.ApiError
// @Router /users/{userId}/requests/{requestId}/cancel [patch]
func (c *RequestController) CancelRequest(ctx *gin.Context) {
	userID, ok := parsePathID(ctx, "userId")
	if !ok {
		return
	}
	requestID, ok := parsePathID(ctx, "requestId")
	if !ok {
		return
	}

	request, err := c.requestService.Cancel(ctx, userID, requestID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, request)
}

// ListOwnRequests retrieves the caller's requests to other events
// @Summary List own participation requests
// @Tags private
// @Produce json
// @Param userId path int true "Requester ID"
// @Success 200 {array} dto.ParticipationRequestDto
// @Failure 404 {object} dto.ApiError
// @Router /users/{userId}/requests [get]
func (c *RequestController) ListOwnRequests(ctx *gin.Context) {
	userID, ok := parsePathID(ctx, "userId")
	if !ok {
		return
	}

	requests, err := c.requestService.ListOwn(ctx, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, requests)
}

// ListEventRequests retrieves the requests targeting the caller's event
// @Summary List requests for own event
// @Tags private
// @Produce json
// @Param userId path int true "Initiator ID"
// @Param eventId path int true "Event ID"
// @Success 200 {array} dto.ParticipationRequestDto
// @Failure 404 {object} dto.ApiError
// @Router /users/{userId}/events/{eventId}/requests [get]
func (c *RequestController) ListEventRequests(ctx *gin.Context) {
	userID, ok := parsePathID(ctx, "userId")
	if !ok {
		return
	}
	eventID, ok := parsePathID(ctx, "eventId")
	if !ok {
		return
	}

	requests, err := c.requestService.ListForEvent(ctx, userID, eventID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, requests)
}

// UpdateRequestStatus confirms or rejects pending requests in a batch
// @Summary Decide pending requests for own event
// @Tags private
// @Accept json
// @Produce json
// @Param userId path int true "Initiator ID"
// @Param eventId path int true "Event ID"
// @Param request body dto.RequestStatusUpdateRequest true "Decision"
// @Success 200 {object} dto.RequestStatusUpdateResult
// @Failure 400 {object} dto.ApiError
// @Failure 404 {object} dto.ApiError
// @Failure 409 {object} dto.ApiError
// @Router /users/{userId}/events/{eventId}/requests [patch]
func (c *RequestController) UpdateRequestStatus(ctx *gin.Context) {
	userID, ok := parsePathID(ctx, "userId")
	if !ok {
		return
	}
	eventID, ok := parsePathID(ctx, "eventId")
	if !ok {
		return
	}

	var req dto.RequestStatusUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	result, err := c.requestService.UpdateStatus(ctx, userID, eventID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, result)
}
