// Package onemap implements the routing provider against the OneMap
// routing service.
package onemap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tripweave/tripweave/internal/provider/resilience"
	"github.com/tripweave/tripweave/internal/routing"
)

const (
	// DefaultBaseURL is the base URL for the OneMap routing service.
	DefaultBaseURL = "https://www.onemap.gov.sg/api/public/routingsvc"

	// ProviderName identifies this provider.
	ProviderName = "onemap"

	// Transit query defaults.
	defaultMaxWalkDistance = "2000"
	defaultNumItineraries  = "5"
)

// ErrNoToken is returned when the client is constructed without an API
// token.
var ErrNoToken = errors.New("no OneMap API token configured")

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the OneMap client.
type ClientConfig struct {
	// BaseURL is the API base URL (defaults to DefaultBaseURL).
	BaseURL string

	// Token is the OneMap API token, sent as the Authorization header.
	Token string

	// HTTPClient is the HTTP client to use. If nil, a default resilient
	// client will be created.
	HTTPClient HTTPDoer

	// Timeout for individual API requests (default: 15s).
	Timeout time.Duration

	// Logger for request logging.
	Logger zerolog.Logger

	// Now supplies the transit query date and time. Defaults to time.Now
	// in the Singapore timezone when the zone database has it, UTC+8
	// otherwise.
	Now func() time.Time
}

// Client is a OneMap routing client.
type Client struct {
	baseURL    string
	token      string
	httpClient HTTPDoer
	log        zerolog.Logger
	now        func() time.Time
}

// Compile-time interface check.
var _ routing.Provider = (*Client)(nil)

// NewClient creates a new OneMap client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 15 * time.Second
		}
		httpClient = resilience.NewClient(resilience.ClientConfig{
			Name:            ProviderName,
			Timeout:         timeout,
			MaxRetries:      3,
			InitialInterval: 200 * time.Millisecond,
			MaxInterval:     5 * time.Second,
		})
	}

	now := cfg.Now
	if now == nil {
		loc, err := time.LoadLocation("Asia/Singapore")
		if err != nil {
			loc = time.FixedZone("SGT", 8*60*60)
		}
		now = func() time.Time { return time.Now().In(loc) }
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      cfg.Token,
		httpClient: httpClient,
		log:        cfg.Logger.With().Str("provider", ProviderName).Logger(),
		now:        now,
	}
}

// Name returns the provider identifier.
func (c *Client) Name() string {
	return ProviderName
}

// GetRoute fetches route candidates between two points for one mode.
// Transit requests carry the current local date and time plus the walk
// distance and itinerary-count defaults; other modes are plain point to
// point queries.
func (c *Client) GetRoute(ctx context.Context, start, end routing.Point, mode routing.Mode) (*routing.Response, error) {
	if c.token == "" {
		return nil, ErrNoToken
	}
	if !validPoint(start) || !validPoint(end) {
		return nil, routing.ErrInvalidCoordinates
	}

	params := url.Values{
		"start":     {fmt.Sprintf("%f,%f", start.Lat, start.Lng)},
		"end":       {fmt.Sprintf("%f,%f", end.Lat, end.Lng)},
		"routeType": {string(mode)},
	}
	if mode == routing.ModeTransit {
		t := c.now()
		params.Set("date", t.Format("01-02-2006"))
		params.Set("time", t.Format("15:04:05"))
		params.Set("mode", "TRANSIT")
		params.Set("maxWalkDistance", defaultMaxWalkDistance)
		params.Set("numItineraries", defaultNumItineraries)
	}

	endpoint := c.baseURL + "/route?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, resilience.ErrCircuitOpen) {
			return nil, fmt.Errorf("%w: %s", routing.ErrProviderUnavailable, err)
		}
		return nil, fmt.Errorf("fetch route: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn().
			Int("status", resp.StatusCode).
			Str("mode", string(mode)).
			Msg("routing request failed")
		return nil, fmt.Errorf("%w: status %d", routing.ErrProviderUnavailable, resp.StatusCode)
	}

	var route routing.Response
	if err := json.NewDecoder(resp.Body).Decode(&route); err != nil {
		return nil, fmt.Errorf("decode route response: %w", err)
	}

	if route.Plan == nil && route.RouteGeometry == "" && len(route.RouteInstructions) == 0 {
		return nil, routing.ErrNoRouteFound
	}

	return &route, nil
}

func validPoint(p routing.Point) bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}
