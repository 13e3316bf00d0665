package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tripweave/tripweave/internal/provider/resilience"
	"github.com/tripweave/tripweave/pkg/geo"
)

const (
	// DefaultBaseURL is the base URL for the NEA real-time weather API.
	DefaultBaseURL = "https://api-open.data.gov.sg/v2/real-time/api"

	// ProviderName identifies this provider.
	ProviderName = "nea-weather"
)

// ErrNoForecast is returned when the API responds without a usable
// forecast period.
var ErrNoForecast = errors.New("no forecast period in response")

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the weather client.
type ClientConfig struct {
	// BaseURL is the API base URL (defaults to DefaultBaseURL).
	BaseURL string

	// HTTPClient is the HTTP client to use. If nil, a default resilient
	// client will be created.
	HTTPClient HTTPDoer

	// Timeout for individual API requests (default: 10s).
	Timeout time.Duration
}

// Client is an NEA two-hour forecast client.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
}

// NewClient creates a new weather client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		httpClient = resilience.NewClient(resilience.ClientConfig{
			Name:            ProviderName,
			Timeout:         timeout,
			MaxRetries:      3,
			InitialInterval: 200 * time.Millisecond,
			MaxInterval:     5 * time.Second,
		})
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

// twoHourResponse is the v2 two-hour forecast envelope. Only the first
// item (the current period) is used.
type twoHourResponse struct {
	Data struct {
		AreaMetadata []AreaMetadata `json:"area_metadata"`
		Items        []struct {
			Forecasts []AreaForecast `json:"forecasts"`
		} `json:"items"`
	} `json:"data"`
}

// FetchTwoHourForecast retrieves the current two-hour forecast for all
// areas.
func (c *Client) FetchTwoHourForecast(ctx context.Context) (*Forecast, error) {
	endpoint := c.baseURL + "/two-hr-forecast"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch two-hour forecast: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from two-hour forecast", resp.StatusCode)
	}

	var body twoHourResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode two-hour forecast: %w", err)
	}

	if len(body.Data.Items) == 0 {
		return nil, ErrNoForecast
	}

	return &Forecast{
		Areas:     body.Data.AreaMetadata,
		Forecasts: body.Data.Items[0].Forecasts,
	}, nil
}

// ForecastAt returns the forecast text for the area whose label location is
// nearest to the given point by great-circle distance. Returns "" when the
// bundle has no areas or the nearest area carries no forecast.
func (f *Forecast) ForecastAt(lat, lng float64) string {
	nearest := ""
	best := -1.0
	for _, area := range f.Areas {
		d := geo.DistanceKm(lat, lng, area.LabelLocation.Latitude, area.LabelLocation.Longitude)
		if best < 0 || d < best {
			best = d
			nearest = area.Name
		}
	}
	if nearest == "" {
		return ""
	}
	for _, fc := range f.Forecasts {
		if fc.Area == nearest {
			return fc.Forecast
		}
	}
	return ""
}
