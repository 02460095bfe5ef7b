package models

import "time"

// RequestStatus is the state of a participation request
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "PENDING"
	RequestStatusConfirmed RequestStatus = "CONFIRMED"
	RequestStatusRejected  RequestStatus = "REJECTED"
	RequestStatusCanceled  RequestStatus = "CANCELED"
)

// Valid reports whether s is a known request status.
func (s RequestStatus) Valid() bool {
	switch s {
	case RequestStatusPending, RequestStatusConfirmed, RequestStatusRejected, RequestStatusCanceled:
		return true
	}
	return false
}

// ParticipationRequest defines a user's request to join an event, based on the
// 'participation_requests' table. At most one non-canceled request may exist
// per (event, requester) pair.
type ParticipationRequest struct {
	ID          int64         `json:"id" db:"id"`
	EventID     int64         `json:"event" db:"event_id"`
	RequesterID int64         `json:"requester" db:"requester_id"`
	Status      RequestStatus `json:"status" db:"status"`
	Created     time.Time     `json:"created" db:"created"`
}
