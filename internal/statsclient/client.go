package statsclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/antonkh/eventory/internal/pkg/helpers"
)

// EndpointHit is the telemetry record sent for each tracked request
type EndpointHit struct {
	App       string           `json:"app"`
	URI       string           `json:"uri"`
	IP        string           `json:"ip"`
	Timestamp helpers.DateTime `json:"timestamp"`
}

// ViewStats is one aggregated line of the telemetry answer
type ViewStats struct {
	App  string `json:"app"`
	URI  string `json:"uri"`
	Hits int64  `json:"hits"`
}

// Client talks to the telemetry service over HTTP. Reads fail open: an
// unreachable or erroring telemetry service yields empty counters, never an
// error surfaced to a listing.
type Client struct {
	baseURL string
	appName string
	client  *http.Client
	logger  zerolog.Logger
}

// New creates a telemetry client bound to the given service URL and app name
func New(baseURL, appName string, timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		appName: appName,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Hit records one endpoint hit. Failures are logged and swallowed; telemetry
// must never fail the request it observes.
func (c *Client) Hit(ctx context.Context, uri, ip string, timestamp time.Time) {
	hit := EndpointHit{
		App:       c.appName,
		URI:       uri,
		IP:        ip,
		Timestamp: helpers.NewDateTime(timestamp),
	}

	body, err := json.Marshal(hit)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to encode endpoint hit")
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/hit", bytes.NewReader(body))
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to build hit request")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("uri", uri).Msg("Failed to record endpoint hit")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		c.logger.Warn().Int("status", resp.StatusCode).Str("uri", uri).Msg("Telemetry service rejected hit")
	}
}

// Views fetches hit counters per URI for this client's app within the window.
// Any failure degrades to an empty map.
func (c *Client) Views(ctx context.Context, start, end time.Time, uris []string, unique bool) map[string]int64 {
	views := make(map[string]int64, len(uris))

	query := url.Values{}
	query.Set("start", helpers.FormatDateTime(start))
	query.Set("end", helpers.FormatDateTime(end))
	query.Set("unique", strconv.FormatBool(unique))
	for _, uri := range uris {
		query.Add("uris", uri)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/stats?"+query.Encode(), nil)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to build stats request")
		return views
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Failed to fetch view stats, degrading to zero")
		return views
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn().Int("status", resp.StatusCode).Msg("Telemetry service returned error, degrading to zero")
		return views
	}

	var stats []ViewStats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to decode view stats, degrading to zero")
		return views
	}

	for _, s := range stats {
		if s.App != c.appName {
			continue
		}
		views[s.URI] += s.Hits
	}

	return views
}

// String identifies the client target for startup logging
func (c *Client) String() string {
	return fmt.Sprintf("statsclient{url=%s, app=%s}", c.baseURL, c.appName)
}
