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

// CommentController handles the private, admin and public comment surfaces
type CommentController struct {
	commentService services.CommentService
}

// NewCommentController creates a new CommentController
func NewCommentController(commentService services.CommentService) *CommentController {
	return &CommentController{
		commentService: commentService,
	}
}

// CreateComment adds a comment to an event
// @Summary Comment on an event
// @Tags private
// @Accept json
// @Produce json
// @Param userId path int true "Author ID"
// @Param eventId path int true "Event ID"
// @Param request body dto.NewCommentRequest true "Comment text"
// @Success 201 {object} dto.CommentDto
// @Failure 400 {object} dto.ApiError
// @Failure 404 {object} dto.ApiError
// @Failure 409 {object} dto.ApiError
// @Router /users/{userId}/comments/{eventId} [post]
func (c *CommentController) CreateComment(ctx *gin.Context) {
	userID, ok := parsePathID(ctx, "userId")
	if !ok {
		return
	}
	eventID, ok := parsePathID(ctx, "eventId")
	if !ok {
		return
	}

	var req dto.NewCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	comment, err := c.commentService.Create(ctx, userID, eventID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, comment)
}

// UpdateComment edits the caller's own comment
// @Summary Edit own comment
// @Tags private
// @Accept json
// @Produce json
// @Param userId path int true "Author ID"
// @Param commentId path int true "Comment ID"
// @Param request body dto.UpdateCommentRequest true "New text"
// @Success 200 {object} dto.CommentDto
// @Failure 404 {object} dto.ApiError
// @Failure 409 {object} dto.ApiError
// @Router /users/{userId}/comments/{commentId} [patch]
func (c *CommentController) UpdateComment(ctx *gin.Context) {
	userID, ok := parsePathID(ctx, "userId")
	if !ok {
		return
	}
	commentID, ok := parsePathID(ctx, "commentId")
	if !ok {
		return
	}

	var req dto.UpdateCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	comment, err := c.commentService.Update(ctx, userID, commentID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, comment)
}

// DeleteComment blanks the caller's own comment
// @Summary Delete own comment
// @Tags private
// @Param userId path int true "Author ID"
// @Param commentId path int true "Comment ID"
// @Success 204
// @Failure 404 {object} dto.ApiError
// @Failure 409 {object} dto.ApiError
// @Router /users/{userId}/comments/{commentId} [delete]
func (c *CommentController) DeleteComment(ctx *gin.Context) {
	userID, ok := parsePathID(ctx, "userId")
	if !ok {
		return
	}
	commentID, ok := parsePathID(ctx, "commentId")
	if !ok {
		return
	}

	if err := c.commentService.Delete(ctx, userID, commentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// ListOwnComments retrieves the caller's comments
// @Summary List own comments
// @Tags private
// @Produce json
// @Param userId path int true "Author ID"
// @Param from query int false "Elements to skip"
// @Param size query int false "Page size"
// @Success 200 {array} dto.CommentDto
// @Failure 404 {object} dto.ApiError
// @Router /users/{userId}/comments [get]
func (c *CommentController) ListOwnComments(ctx *gin.Context) {
	userID, ok := parsePathID(ctx, "userId")
	if !ok {
		return
	}

	comments, err := c.commentService.ListOwn(ctx, userID, helpers.ParsePageParams(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, comments)
}

// ListEventComments retrieves an event's root comments
// @Summary List comments of an event
// @Tags public
// @Produce json
// @Param id path int true "Event ID"
// @Param from query int false "Elements to skip"
// @Param size query int false "Page size"
// @Success 200 {array} dto.CommentDto
// @Failure 404 {object} dto.ApiError
// @Router /events/{id}/comments [get]
func (c *CommentController) ListEventComments(ctx *gin.Context) {
	eventID, ok := parsePathID(ctx, "id")
	if !ok {
		return
	}

	comments, err := c.commentService.ListForEvent(ctx, eventID, helpers.ParsePageParams(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, comments)
}

// GetComment retrieves a comment with its replies
// @Summary Get a comment thread
// @Tags public
// @Produce json
// @Param commentId path int true "Comment ID"
// @Success 200 {object} dto.CommentFullDto
// @Failure 404 {object} dto.ApiError
// @Router /comments/{commentId} [get]
func (c *CommentController) GetComment(ctx *gin.Context) {
	commentID, ok := parsePathID(ctx, "commentId")
	if !ok {
		return
	}

	comment, err := c.commentService.GetWithReplies(ctx, commentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, comment)
}

// ListCommentsAdmin retrieves comments for the moderation surface
// @Summary List comments for moderation
// @Tags admin
// @Produce json
// @Param status query string false "Comment status filter"
// @Param from query int false "Elements to skip"
// @Param size query int false "Page size"
// @Success 200 {array} dto.CommentDto
// @Failure 400 {object} dto.ApiError
// @Router /admin/comments [get]
func (c *CommentController) ListCommentsAdmin(ctx *gin.Context) {
	var status *models.CommentStatus
	if raw := ctx.Query("status"); raw != "" {
		s := models.CommentStatus(raw)
		if !s.Valid() {
			middleware.HandleAPIError(ctx, apperrors.NewBadRequestError(
				fmt.Sprintf("unknown comment status %q", raw)))
			return
		}
		status = &s
	}

	comments, err := c.commentService.ListForAdmin(ctx, status, helpers.ParsePageParams(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, comments)
}

// ModerateComment applies an admin status decision
// @Summary Moderate a comment
// @Tags admin
// @Accept json
// @Produce json
// @Param commentId path int true "Comment ID"
// @Param request body dto.CommentModerationRequest true "Moderation decision"
// @Success 200 {object} dto.CommentDto
// @Failure 400 {object} dto.ApiError
// @Failure 404 {object} dto.ApiError
// @Router /admin/comments/{commentId} [patch]
func (c *CommentController) ModerateComment(ctx *gin.Context) {
	commentID, ok := parsePathID(ctx, "commentId")
	if !ok {
		return
	}

	var req dto.CommentModerationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	comment, err := c.commentService.Moderate(ctx, commentID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, comment)
}

// RestrictComment forbids further edits of a comment
// @Summary Restrict comment editing
// @Tags admin
// @Accept json
// @Produce json
// @Param commentId path int true "Comment ID"
// @Param request body dto.RestrictCommentRequest true "Restriction reason"
// @Success 200 {object} dto.CommentDto
// @Failure 404 {object} dto.ApiError
// @Router /admin/comments/{commentId}/restrict [patch]
func (c *CommentController) RestrictComment(ctx *gin.Context) {
	commentID, ok := parsePathID(ctx, "commentId")
	if !ok {
		return
	}

	var req dto.RestrictCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	comment, err := c.commentService.RestrictEditing(ctx, commentID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, comment)
}
