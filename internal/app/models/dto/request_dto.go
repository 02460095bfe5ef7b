package dto

import (
	"github.com/antonkh/eventory/internal/app/models"
	"github.com/antonkh/eventory/internal/pkg/helpers"
)

// ParticipationRequestDto is the wire representation of a participation request
type ParticipationRequestDto struct {
	ID        int64                `json:"id"`
	Created   helpers.DateTime     `json:"created"`
	Event     int64                `json:"event"`
	Requester int64                `json:"requester"`
	Status    models.RequestStatus `json:"status"`
}

// RequestStatusUpdateRequest is the organizer batch confirm/reject payload
type RequestStatusUpdateRequest struct {
	RequestIDs []int64              `json:"requestIds" binding:"required,min=1"`
	Status     models.RequestStatus `json:"status" binding:"required,oneof=CONFIRMED REJECTED"`
}

// RequestStatusUpdateResult lists the requests changed by a batch update,
// including cascade rejections.
type RequestStatusUpdateResult struct {
	ConfirmedRequests []ParticipationRequestDto `json:"confirmedRequests"`
	RejectedRequests  []ParticipationRequestDto `json:"rejectedRequests"`
}

// ToParticipationRequestDto maps a request model to its wire representation
func ToParticipationRequestDto(r *models.ParticipationRequest) ParticipationRequestDto {
	return ParticipationRequestDto{
		ID:        r.ID,
		Created:   helpers.NewDateTime(r.Created),
		Event:     r.EventID,
		Requester: r.RequesterID,
		Status:    r.Status,
	}
}

// ToParticipationRequestDtos maps a slice of request models
func ToParticipationRequestDtos(requests []models.ParticipationRequest) []ParticipationRequestDto {
	dtos := make([]ParticipationRequestDto, 0, len(requests))
	for i := range requests {
		dtos = append(dtos, ToParticipationRequestDto(&requests[i]))
	}
	return dtos
}
