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

// deletedCommentText replaces the body of a comment removed by its author.
const deletedCommentText = "[deleted by user]"

type commentStore interface {
	Create(ctx context.Context, cm *models.Comment) (*models.Comment, error)
	GetByID(ctx context.Context, id int64) (*models.Comment, error)
	Update(ctx context.Context, cm *models.Comment) error
	ListTopLevelByEvent(ctx context.Context, eventID int64, page helpers.Page) ([]models.Comment, error)
	ListReplies(ctx context.Context, parentID int64) ([]models.Comment, error)
	ListByAuthor(ctx context.Context, authorID int64, page helpers.Page) ([]models.Comment, error)
	ListByStatus(ctx context.Context, status *models.CommentStatus, page helpers.Page) ([]models.Comment, error)
	CountRepliesByParents(ctx context.Context, parentIDs []int64) (map[int64]int64, error)
}

type commentEventStore interface {
	GetByID(ctx context.Context, id int64) (*models.Event, error)
}

// CommentService defines the interface for comment operations
type CommentService interface {
	Create(ctx context.Context, userID, eventID int64, req *dto.NewCommentRequest) (*dto.CommentDto, error)
	Update(ctx context.Context, userID, commentID int64, req *dto.UpdateCommentRequest) (*dto.CommentDto, error)
	Delete(ctx context.Context, userID, commentID int64) error
	ListOwn(ctx context.Context, userID int64, page helpers.Page) ([]dto.CommentDto, error)
	ListForEvent(ctx context.Context, eventID int64, page helpers.Page) ([]dto.CommentDto, error)
	ListForAdmin(ctx context.Context, status *models.CommentStatus, page helpers.Page) ([]dto.CommentDto, error)
	GetWithReplies(ctx context.Context, commentID int64) (*dto.CommentFullDto, error)
	Moderate(ctx context.Context, commentID int64, req *dto.CommentModerationRequest) (*dto.CommentDto, error)
	RestrictEditing(ctx context.Context, commentID int64, req *dto.RestrictCommentRequest) (*dto.CommentDto, error)
}

// commentServiceImpl implements CommentService
type commentServiceImpl struct {
	commentRepo commentStore
	eventRepo   commentEventStore
	userRepo    userStore
	logger      zerolog.Logger
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo commentStore, eventRepo commentEventStore, userRepo userStore, logger zerolog.Logger) CommentService {
	return &commentServiceImpl{
		commentRepo: commentRepo,
		eventRepo:   eventRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// Create adds a comment or a reply to a published event
func (s *commentServiceImpl) Create(ctx context.Context, userID, eventID int64, req *dto.NewCommentRequest) (*dto.CommentDto, error) {
	if err := validation.ValidateStringLength(req.Text, "text",
		validation.CommentMinLength, validation.CommentMaxLength); err != nil {
		return nil, err
	}

	author, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("User with id=%d was not found", userID))
		}
		return nil, err
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("Event with id=%d was not found", eventID))
		}
		return nil, err
	}
	if event.State != models.EventStatePublished {
		return nil, apperrors.NewConflictError("Cannot comment on an unpublished event")
	}

	if req.ParentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *req.ParentID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, apperrors.NewNotFoundError(fmt.Sprintf("Comment with id=%d was not found", *req.ParentID))
			}
			return nil, err
		}
		if parent.EventID != eventID {
			return nil, apperrors.NewConflictError("Parent comment belongs to another event")
		}
		if parent.ParentID != nil {
			return nil, apperrors.NewConflictError("Replies cannot be nested")
		}
	}

	now := time.Now()
	comment := &models.Comment{
		Text:          req.Text,
		AuthorID:      userID,
		EventID:       eventID,
		ParentID:      req.ParentID,
		Status:        models.CommentStatusPublished,
		Created:       now,
		EditableUntil: now.Add(models.CommentEditWindow),
	}

	created, err := s.commentRepo.Create(ctx, comment)
	if err != nil {
		s.logger.Error().Err(err).Int64("eventId", eventID).Msg("Failed to create comment")
		return nil, err
	}
	created.Author = author

	s.logger.Info().Int64("commentId", created.ID).Int64("eventId", eventID).Msg("Comment created")
	result := dto.ToCommentDto(created, 0)
	return &result, nil
}

// Update edits the author's own comment inside the editing window
func (s *commentServiceImpl) Update(ctx context.Context, userID, commentID int64, req *dto.UpdateCommentRequest) (*dto.CommentDto, error) {
	if err := validation.ValidateStringLength(req.Text, "text",
		validation.CommentMinLength, validation.CommentMaxLength); err != nil {
		return nil, err
	}

	comment, err := s.getOwnComment(ctx, userID, commentID)
	if err != nil {
		return nil, err
	}

	if err := checkEditable(comment, time.Now()); err != nil {
		return nil, err
	}

	now := time.Now()
	comment.Text = req.Text
	comment.Status = models.CommentStatusEdited
	comment.Updated = &now

	if err := s.commentRepo.Update(ctx, comment); err != nil {
		s.logger.Error().Err(err).Int64("commentId", commentID).Msg("Failed to update comment")
		return nil, err
	}

	result := dto.ToCommentDto(comment, 0)
	return &result, nil
}

// Delete replaces the comment body with a removal marker and rejects it, which
// hides it from public reads. The row survives so reply references stay valid.
// Unlike Update, deletion is not bound by the editing window or restrictions.
func (s *commentServiceImpl) Delete(ctx context.Context, userID, commentID int64) error {
	comment, err := s.getOwnComment(ctx, userID, commentID)
	if err != nil {
		return err
	}

	if comment.Status == models.CommentStatusRejected {
		return apperrors.NewConflictError("Comment has already been removed")
	}

	now := time.Now()
	comment.Text = deletedCommentText
	comment.Status = models.CommentStatusRejected
	comment.Updated = &now

	if err := s.commentRepo.Update(ctx, comment); err != nil {
		s.logger.Error().Err(err).Int64("commentId", commentID).Msg("Failed to delete comment")
		return err
	}

	s.logger.Info().Int64("commentId", commentID).Int64("userId", userID).Msg("Comment deleted by author")
	return nil
}

// ListOwn retrieves a page of the user's own comments
func (s *commentServiceImpl) ListOwn(ctx context.Context, userID int64, page helpers.Page) ([]dto.CommentDto, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("User with id=%d was not found", userID))
		}
		return nil, err
	}

	comments, err := s.commentRepo.ListByAuthor(ctx, userID, page)
	if err != nil {
		s.logger.Error().Err(err).Int64("userId", userID).Msg("Failed to list comments")
		return nil, err
	}

	return s.toCommentDtos(ctx, comments, false)
}

// ListForEvent retrieves a page of an event's root comments for the public
// surface. Rejected comments are not shown.
func (s *commentServiceImpl) ListForEvent(ctx context.Context, eventID int64, page helpers.Page) ([]dto.CommentDto, error) {
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

	comments, err := s.commentRepo.ListTopLevelByEvent(ctx, eventID, page)
	if err != nil {
		s.logger.Error().Err(err).Int64("eventId", eventID).Msg("Failed to list event comments")
		return nil, err
	}

	return s.toCommentDtos(ctx, comments, true)
}

// ListForAdmin retrieves a page of comments for the moderation surface,
// optionally narrowed to one status. Nothing is hidden here.
func (s *commentServiceImpl) ListForAdmin(ctx context.Context, status *models.CommentStatus, page helpers.Page) ([]dto.CommentDto, error) {
	comments, err := s.commentRepo.ListByStatus(ctx, status, page)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list comments for admin")
		return nil, err
	}

	return s.toCommentDtos(ctx, comments, false)
}

// GetWithReplies retrieves a comment and its visible replies
func (s *commentServiceImpl) GetWithReplies(ctx context.Context, commentID int64) (*dto.CommentFullDto, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("Comment with id=%d was not found", commentID))
		}
		return nil, err
	}
	if comment.Status == models.CommentStatusRejected {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("Comment with id=%d was not found", commentID))
	}

	replies, err := s.commentRepo.ListReplies(ctx, commentID)
	if err != nil {
		s.logger.Error().Err(err).Int64("commentId", commentID).Msg("Failed to list replies")
		return nil, err
	}

	replyDtos := make([]dto.CommentDto, 0, len(replies))
	for i := range replies {
		if replies[i].Status == models.CommentStatusRejected {
			continue
		}
		replyDtos = append(replyDtos, dto.ToCommentDto(&replies[i], 0))
	}

	result := dto.ToCommentFullDto(comment, replyDtos)
	return &result, nil
}

// Moderate applies an admin status decision to a comment
func (s *commentServiceImpl) Moderate(ctx context.Context, commentID int64, req *dto.CommentModerationRequest) (*dto.CommentDto, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("Comment with id=%d was not found", commentID))
		}
		return nil, err
	}

	comment.Status = req.Status
	if req.EditRestricted != nil {
		comment.EditRestricted = *req.EditRestricted
	}
	if req.RestrictionReason != nil {
		comment.RestrictionReason = req.RestrictionReason
	}

	if err := s.commentRepo.Update(ctx, comment); err != nil {
		s.logger.Error().Err(err).Int64("commentId", commentID).Msg("Failed to moderate comment")
		return nil, err
	}

	s.logger.Info().Int64("commentId", commentID).Str("status", string(req.Status)).Msg("Comment moderated")
	result := dto.ToCommentDto(comment, 0)
	return &result, nil
}

// RestrictEditing forbids further author edits of a comment
func (s *commentServiceImpl) RestrictEditing(ctx context.Context, commentID int64, req *dto.RestrictCommentRequest) (*dto.CommentDto, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("Comment with id=%d was not found", commentID))
		}
		return nil, err
	}

	comment.EditRestricted = true
	comment.RestrictionReason = &req.Reason

	if err := s.commentRepo.Update(ctx, comment); err != nil {
		s.logger.Error().Err(err).Int64("commentId", commentID).Msg("Failed to restrict comment")
		return nil, err
	}

	s.logger.Info().Int64("commentId", commentID).Msg("Comment editing restricted")
	result := dto.ToCommentDto(comment, 0)
	return &result, nil
}

func (s *commentServiceImpl) getOwnComment(ctx context.Context, userID, commentID int64) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("Comment with id=%d was not found", commentID))
		}
		return nil, err
	}
	if comment.AuthorID != userID {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("Comment with id=%d was not found", commentID))
	}
	return comment, nil
}

func (s *commentServiceImpl) toCommentDtos(ctx context.Context, comments []models.Comment, hideRejected bool) ([]dto.CommentDto, error) {
	ids := make([]int64, 0, len(comments))
	for i := range comments {
		ids = append(ids, comments[i].ID)
	}

	replyCounts, err := s.commentRepo.CountRepliesByParents(ctx, ids)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to count replies, degrading to zero")
		replyCounts = map[int64]int64{}
	}

	result := make([]dto.CommentDto, 0, len(comments))
	for i := range comments {
		c := &comments[i]
		if hideRejected && c.Status == models.CommentStatusRejected {
			continue
		}
		result = append(result, dto.ToCommentDto(c, replyCounts[c.ID]))
	}
	return result, nil
}

func checkEditable(comment *models.Comment, now time.Time) error {
	if comment.EditRestricted {
		reason := "Comment editing is restricted"
		if comment.RestrictionReason != nil {
			reason = fmt.Sprintf("Comment editing is restricted: %s", *comment.RestrictionReason)
		}
		return apperrors.NewConflictError(reason)
	}
	if now.After(comment.EditableUntil) {
		return apperrors.NewConflictError("Comment can no longer be edited")
	}
	if comment.Status == models.CommentStatusRejected {
		return apperrors.NewConflictError("Rejected comments cannot be edited")
	}
	return nil
}
