package validation

import (
	"fmt"
	"time"

	"github.com/antonkh/eventory/internal/pkg/apperrors"
)

// Field length bounds, enforced identically on create and update paths.
const (
	AnnotationMinLength  = 20
	AnnotationMaxLength  = 2000
	DescriptionMinLength = 20
	DescriptionMaxLength = 7000
	TitleMinLength       = 3
	TitleMaxLength       = 120
	CommentMinLength     = 1
	CommentMaxLength     = 5000
)

// Lead times for event scheduling.
const (
	// MinEventLead is the earliest an event may start relative to creation or
	// owner update time.
	MinEventLead = 2 * time.Hour
	// MinPublishLead is the earliest a published event may start relative to
	// the moment of publication.
	MinPublishLead = 1 * time.Hour
)

// ValidateEventDate checks the lead time for event creation and owner updates.
func ValidateEventDate(eventDate time.Time, now time.Time) error {
	if eventDate.IsZero() {
		return apperrors.NewBadRequestError("event date must not be empty")
	}
	if eventDate.Before(now.Add(MinEventLead)) {
		return apperrors.NewBadRequestError(fmt.Sprintf(
			"event date must be at least 2 hours from now, got %s", eventDate))
	}
	return nil
}

// ValidateEventDateForPublish checks the lead time required by an admin publish.
func ValidateEventDateForPublish(eventDate time.Time, now time.Time) error {
	if eventDate.IsZero() {
		return apperrors.NewBadRequestError("event date must not be empty")
	}
	if eventDate.Before(now.Add(MinPublishLead)) {
		return apperrors.NewConflictError("cannot publish an event that starts in less than one hour")
	}
	return nil
}

// ValidateEventDateForAdminUpdate checks a date change on an already-published
// event: the new date must leave at least an hour after publication.
func ValidateEventDateForAdminUpdate(eventDate time.Time, publishedOn *time.Time, now time.Time) error {
	if eventDate.Before(now) {
		return apperrors.NewBadRequestError("event date cannot be in the past")
	}
	if publishedOn != nil && eventDate.Before(publishedOn.Add(MinPublishLead)) {
		return apperrors.NewConflictError("event date must be at least one hour after publication date")
	}
	return nil
}

// ValidateStringLength enforces rune-length bounds on a field.
func ValidateStringLength(value, fieldName string, min, max int) error {
	length := len([]rune(value))
	if length < min || length > max {
		return apperrors.NewBadRequestError(fmt.Sprintf(
			"%s length must be between %d and %d characters, got %d", fieldName, min, max, length))
	}
	return nil
}
