package models

import "time"

// CommentStatus is the moderation state of a comment
type CommentStatus string

const (
	CommentStatusPublished CommentStatus = "PUBLISHED"
	CommentStatusEdited    CommentStatus = "EDITED"
	CommentStatusRejected  CommentStatus = "REJECTED"
	CommentStatusPending   CommentStatus = "PENDING"
)

// Valid reports whether s is a known comment status.
func (s CommentStatus) Valid() bool {
	switch s {
	case CommentStatusPublished, CommentStatusEdited, CommentStatusRejected, CommentStatusPending:
		return true
	}
	return false
}

// CommentEditWindow is how long after creation an author may edit a comment.
const CommentEditWindow = 30 * 24 * time.Hour

// Comment defines the comment model based on the 'comments' table. ParentID
// references another comment on the same event, forming a two-level thread.
// An admin-set edit restriction overrides the time-window rule.
type Comment struct {
	ID                int64         `json:"id" db:"id"`
	Text              string        `json:"text" db:"text"`
	AuthorID          int64         `json:"authorId" db:"author_id"`
	EventID           int64         `json:"eventId" db:"event_id"`
	ParentID          *int64        `json:"parentId,omitempty" db:"parent_id"`
	Status            CommentStatus `json:"status" db:"status"`
	Created           time.Time     `json:"created" db:"created"`
	Updated           *time.Time    `json:"updated,omitempty" db:"updated"`
	EditableUntil     time.Time     `json:"editableUntil" db:"editable_until"`
	EditRestricted    bool          `json:"editRestricted" db:"edit_restricted"`
	RestrictionReason *string       `json:"restrictionReason,omitempty" db:"restriction_reason"`

	// Related entities, populated by repository joins
	Author *User `json:"author,omitempty"`
}
