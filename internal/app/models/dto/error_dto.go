package dto

import (
	"time"

	"github.com/antonkh/eventory/internal/pkg/helpers"
)

// Reason categories carried in error responses.
const (
	ReasonNotFound   = "The required object was not found."
	ReasonConflict   = "For the requested operation the conditions are not met."
	ReasonBadRequest = "Incorrectly made request."
	ReasonInternal   = "Internal server error."
)

// ApiError is the error body returned on every failed request.
type ApiError struct {
	Status    string           `json:"status" example:"NOT_FOUND"`
	Reason    string           `json:"reason" example:"The required object was not found."`
	Message   string           `json:"message" example:"Event with id=42 was not found"`
	Timestamp helpers.DateTime `json:"timestamp" example:"2024-03-10 14:30:00"`
}

// NewApiError creates an error body stamped with the current time.
func NewApiError(status, reason, message string) ApiError {
	return ApiError{
		Status:    status,
		Reason:    reason,
		Message:   message,
		Timestamp: helpers.NewDateTime(time.Now()),
	}
}
