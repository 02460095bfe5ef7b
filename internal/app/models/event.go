package models

import "time"

// EventState is the moderation lifecycle state of an event
type EventState string

const (
	EventStatePending   EventState = "PENDING"
	EventStatePublished EventState = "PUBLISHED"
	EventStateCanceled  EventState = "CANCELED"
)

// Valid reports whether s is a known event state.
func (s EventState) Valid() bool {
	switch s {
	case EventStatePending, EventStatePublished, EventStateCanceled:
		return true
	}
	return false
}

// StateAction is a requested state transition carried in update payloads
type StateAction string

const (
	// Owner actions
	StateActionSendToReview StateAction = "SEND_TO_REVIEW"
	StateActionCancelReview StateAction = "CANCEL_REVIEW"
	// Admin actions
	StateActionPublishEvent StateAction = "PUBLISH_EVENT"
	StateActionRejectEvent  StateAction = "REJECT_EVENT"
)

// EventSort orders public event listings
type EventSort string

const (
	EventSortEventDate EventSort = "EVENT_DATE"
	EventSortViews     EventSort = "VIEWS"
)

// Event defines the event model based on the 'events' table.
// ParticipantLimit 0 means unlimited capacity. PublishedOn is set exactly once,
// on the transition to PUBLISHED.
type Event struct {
	ID                int64      `json:"id" db:"id"`
	Annotation        string     `json:"annotation" db:"annotation"`
	Description       string     `json:"description" db:"description"`
	Title             string     `json:"title" db:"title"`
	CategoryID        int64      `json:"categoryId" db:"category_id"`
	InitiatorID       int64      `json:"initiatorId" db:"initiator_id"`
	EventDate         time.Time  `json:"eventDate" db:"event_date"`
	Lat               float64    `json:"lat" db:"lat"`
	Lon               float64    `json:"lon" db:"lon"`
	Paid              bool       `json:"paid" db:"paid"`
	ParticipantLimit  int        `json:"participantLimit" db:"participant_limit"`
	RequestModeration bool       `json:"requestModeration" db:"request_moderation"`
	State             EventState `json:"state" db:"state"`
	CreatedOn         time.Time  `json:"createdOn" db:"created_on"`
	PublishedOn       *time.Time `json:"publishedOn,omitempty" db:"published_on"`

	// Related entities, populated by repository joins
	Category  *Category `json:"category,omitempty"`
	Initiator *User     `json:"initiator,omitempty"`
}

// Unlimited reports whether the event has no participant capacity bound.
func (e *Event) Unlimited() bool {
	return e.ParticipantLimit == 0
}

// EventWithStats is an event row enriched with the derived counters produced by
// the single aggregate listing query.
type EventWithStats struct {
	Event
	Views             int64 `db:"views"`
	ConfirmedRequests int64 `db:"confirmed_requests"`
}
