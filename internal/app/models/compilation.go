package models

// Compilation defines a curated set of events based on the 'compilations' table
// and the 'compilation_events' join table. Member ordering is not guaranteed.
type Compilation struct {
	ID     int64  `json:"id" db:"id"`
	Title  string `json:"title" db:"title"`
	Pinned bool   `json:"pinned" db:"pinned"`

	// Member events, populated by repository joins
	Events []Event `json:"events,omitempty"`
}
