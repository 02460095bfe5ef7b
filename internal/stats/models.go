package stats

import (
	"time"

	"github.com/antonkh/eventory/internal/pkg/helpers"
)

// EndpointHit defines the hit model based on the 'endpoint_hits' table
type EndpointHit struct {
	ID        int64     `json:"id" db:"id"`
	App       string    `json:"app" db:"app"`
	URI       string    `json:"uri" db:"uri"`
	IP        string    `json:"ip" db:"ip"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
}

// ViewStats is an aggregated hit count for one app and URI
type ViewStats struct {
	App  string `json:"app" db:"app"`
	URI  string `json:"uri" db:"uri"`
	Hits int64  `json:"hits" db:"hits"`
}

// EndpointHitRequest is the hit-recording payload
type EndpointHitRequest struct {
	App       string           `json:"app" binding:"required"`
	URI       string           `json:"uri" binding:"required"`
	IP        string           `json:"ip" binding:"required"`
	Timestamp helpers.DateTime `json:"timestamp" binding:"required"`
}

// StatsQuery carries the parsed aggregation parameters
type StatsQuery struct {
	Start  time.Time
	End    time.Time
	URIs   []string
	Unique bool
}
