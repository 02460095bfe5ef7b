package dto

import (
	"github.com/antonkh/eventory/internal/app/models"
	"github.com/antonkh/eventory/internal/pkg/helpers"
)

// LocationDto is the latitude/longitude pair of an event venue
type LocationDto struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// NewEventRequest is the event-creation payload
type NewEventRequest struct {
	Annotation        string           `json:"annotation" binding:"required"`
	CategoryID        int64            `json:"category" binding:"required"`
	Description       string           `json:"description" binding:"required"`
	EventDate         helpers.DateTime `json:"eventDate" binding:"required"`
	Location          LocationDto      `json:"location" binding:"required"`
	Paid              *bool            `json:"paid"`
	ParticipantLimit  *int             `json:"participantLimit" binding:"omitempty,min=0"`
	RequestModeration *bool            `json:"requestModeration"`
	Title             string           `json:"title" binding:"required"`
}

// UpdateEventUserRequest is the owner update payload. Nil fields stay unchanged.
type UpdateEventUserRequest struct {
	Annotation        *string            `json:"annotation"`
	CategoryID        *int64             `json:"category"`
	Description       *string            `json:"description"`
	EventDate         *helpers.DateTime  `json:"eventDate"`
	Location          *LocationDto       `json:"location"`
	Paid              *bool              `json:"paid"`
	ParticipantLimit  *int               `json:"participantLimit" binding:"omitempty,min=0"`
	RequestModeration *bool              `json:"requestModeration"`
	Title             *string            `json:"title"`
	StateAction       models.StateAction `json:"stateAction" binding:"omitempty,oneof=SEND_TO_REVIEW CANCEL_REVIEW"`
}

// UpdateEventAdminRequest is the admin update payload. Nil fields stay unchanged.
type UpdateEventAdminRequest struct {
	Annotation        *string            `json:"annotation"`
	CategoryID        *int64             `json:"category"`
	Description       *string            `json:"description"`
	EventDate         *helpers.DateTime  `json:"eventDate"`
	Location          *LocationDto       `json:"location"`
	Paid              *bool              `json:"paid"`
	ParticipantLimit  *int               `json:"participantLimit" binding:"omitempty,min=0"`
	RequestModeration *bool              `json:"requestModeration"`
	Title             *string            `json:"title"`
	StateAction       models.StateAction `json:"stateAction" binding:"omitempty,oneof=PUBLISH_EVENT REJECT_EVENT"`
}

// EventFullDto is the complete event representation
type EventFullDto struct {
	ID                int64             `json:"id"`
	Annotation        string            `json:"annotation"`
	Category          *CategoryDto      `json:"category"`
	ConfirmedRequests int64             `json:"confirmedRequests"`
	CreatedOn         helpers.DateTime  `json:"createdOn"`
	Description       string            `json:"description"`
	EventDate         helpers.DateTime  `json:"eventDate"`
	Initiator         *UserShortDto     `json:"initiator"`
	Location          LocationDto       `json:"location"`
	Paid              bool              `json:"paid"`
	ParticipantLimit  int               `json:"participantLimit"`
	PublishedOn       *helpers.DateTime `json:"publishedOn,omitempty"`
	RequestModeration bool              `json:"requestModeration"`
	State             models.EventState `json:"state"`
	Title             string            `json:"title"`
	Views             int64             `json:"views"`
}

// EventShortDto is the condensed event representation used in listings
type EventShortDto struct {
	ID                int64            `json:"id"`
	Annotation        string           `json:"annotation"`
	Category          *CategoryDto     `json:"category"`
	ConfirmedRequests int64            `json:"confirmedRequests"`
	EventDate         helpers.DateTime `json:"eventDate"`
	Initiator         *UserShortDto    `json:"initiator"`
	Paid              bool             `json:"paid"`
	Title             string           `json:"title"`
	Views             int64            `json:"views"`
}

// ToEventFullDto maps an event with its derived counters to the full representation
func ToEventFullDto(e *models.Event, confirmed, views int64) EventFullDto {
	d := EventFullDto{
		ID:                e.ID,
		Annotation:        e.Annotation,
		Category:          ToCategoryDto(e.Category),
		ConfirmedRequests: confirmed,
		CreatedOn:         helpers.NewDateTime(e.CreatedOn),
		Description:       e.Description,
		EventDate:         helpers.NewDateTime(e.EventDate),
		Initiator:         ToUserShortDto(e.Initiator),
		Location:          LocationDto{Lat: e.Lat, Lon: e.Lon},
		Paid:              e.Paid,
		ParticipantLimit:  e.ParticipantLimit,
		RequestModeration: e.RequestModeration,
		State:             e.State,
		Title:             e.Title,
		Views:             views,
	}
	if e.PublishedOn != nil {
		p := helpers.NewDateTime(*e.PublishedOn)
		d.PublishedOn = &p
	}
	return d
}

// ToEventShortDto maps an event with its derived counters to the short representation
func ToEventShortDto(e *models.Event, confirmed, views int64) EventShortDto {
	return EventShortDto{
		ID:                e.ID,
		Annotation:        e.Annotation,
		Category:          ToCategoryDto(e.Category),
		ConfirmedRequests: confirmed,
		EventDate:         helpers.NewDateTime(e.EventDate),
		Initiator:         ToUserShortDto(e.Initiator),
		Paid:              e.Paid,
		Title:             e.Title,
		Views:             views,
	}
}
