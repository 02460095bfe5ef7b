package dto

import (
	"github.com/antonkh/eventory/internal/app/models"
	"github.com/antonkh/eventory/internal/pkg/helpers"
)

// NewCommentRequest is the comment-creation payload
type NewCommentRequest struct {
	Text     string `json:"text" binding:"required"`
	ParentID *int64 `json:"parentId"`
}

// UpdateCommentRequest is the author edit payload
type UpdateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// CommentModerationRequest is the admin moderation payload. EditRestricted nil
// leaves the restriction flag untouched.
type CommentModerationRequest struct {
	Status            models.CommentStatus `json:"status" binding:"required,oneof=PUBLISHED EDITED REJECTED PENDING"`
	EditRestricted    *bool                `json:"editRestricted"`
	RestrictionReason *string              `json:"restrictionReason"`
}

// RestrictCommentRequest is the admin edit-restriction payload
type RestrictCommentRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// CommentDto is the wire representation of a comment
type CommentDto struct {
	ID                int64                `json:"id"`
	Text              string               `json:"text"`
	Author            *UserShortDto        `json:"author"`
	EventID           int64                `json:"eventId"`
	ParentID          *int64               `json:"parentId,omitempty"`
	Status            models.CommentStatus `json:"status"`
	Created           helpers.DateTime     `json:"created"`
	Updated           *helpers.DateTime    `json:"updated,omitempty"`
	EditableUntil     helpers.DateTime     `json:"editableUntil"`
	EditRestricted    bool                 `json:"editRestricted"`
	RestrictionReason *string              `json:"restrictionReason,omitempty"`
	RepliesCount      int64                `json:"repliesCount"`
}

// CommentFullDto is a comment with its published replies inlined
type CommentFullDto struct {
	CommentDto
	Replies []CommentDto `json:"replies"`
}

// ToCommentDto maps a comment model and its published-reply count
func ToCommentDto(c *models.Comment, repliesCount int64) CommentDto {
	d := CommentDto{
		ID:                c.ID,
		Text:              c.Text,
		Author:            ToUserShortDto(c.Author),
		EventID:           c.EventID,
		ParentID:          c.ParentID,
		Status:            c.Status,
		Created:           helpers.NewDateTime(c.Created),
		EditableUntil:     helpers.NewDateTime(c.EditableUntil),
		EditRestricted:    c.EditRestricted,
		RestrictionReason: c.RestrictionReason,
		RepliesCount:      repliesCount,
	}
	if c.Updated != nil {
		u := helpers.NewDateTime(*c.Updated)
		d.Updated = &u
	}
	return d
}

// ToCommentFullDto maps a comment with its replies
func ToCommentFullDto(c *models.Comment, replies []CommentDto) CommentFullDto {
	if replies == nil {
		replies = []CommentDto{}
	}
	return CommentFullDto{
		CommentDto: ToCommentDto(c, int64(len(replies))),
		Replies:    replies,
	}
}
