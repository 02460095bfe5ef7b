package dto

import "github.com/antonkh/eventory/internal/app/models"

// NewCompilationRequest is the admin compilation-creation payload
type NewCompilationRequest struct {
	Title    string  `json:"title" binding:"required,min=1,max=50"`
	Pinned   bool    `json:"pinned"`
	EventIDs []int64 `json:"events"`
}

// UpdateCompilationRequest is the admin compilation update payload. Nil fields
// stay unchanged; a non-nil EventIDs replaces the member set.
type UpdateCompilationRequest struct {
	Title    *string  `json:"title" binding:"omitempty,min=1,max=50"`
	Pinned   *bool    `json:"pinned"`
	EventIDs *[]int64 `json:"events"`
}

// CompilationDto is the wire representation of a compilation. Member events are
// filtered to PUBLISHED when rendered.
type CompilationDto struct {
	ID     int64           `json:"id"`
	Title  string          `json:"title"`
	Pinned bool            `json:"pinned"`
	Events []EventShortDto `json:"events"`
}

// ToCompilationDto maps a compilation with its rendered member events
func ToCompilationDto(c *models.Compilation, events []EventShortDto) CompilationDto {
	if events == nil {
		events = []EventShortDto{}
	}
	return CompilationDto{
		ID:     c.ID,
		Title:  c.Title,
		Pinned: c.Pinned,
		Events: events,
	}
}
