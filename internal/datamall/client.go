package datamall

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tripweave/tripweave/internal/itinerary"
	"github.com/tripweave/tripweave/internal/provider/resilience"
)

const (
	// DefaultBaseURL is the base URL for the DataMall OData service.
	DefaultBaseURL = "https://datamall2.mytransport.sg/ltaodataservice"

	// ProviderName identifies this provider.
	ProviderName = "datamall"
)

// ErrNoAccountKey is returned when the client is constructed without an
// API account key.
var ErrNoAccountKey = errors.New("no DataMall account key configured")

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the DataMall client.
type ClientConfig struct {
	// BaseURL is the API base URL (defaults to DefaultBaseURL).
	BaseURL string

	// AccountKey is the DataMall API key, sent as the AccountKey header.
	AccountKey string

	// HTTPClient is the HTTP client to use. If nil, a default resilient
	// client will be created.
	HTTPClient HTTPDoer

	// Timeout for individual API requests (default: 10s).
	Timeout time.Duration
}

// Client is a DataMall API client.
type Client struct {
	baseURL    string
	accountKey string
	httpClient HTTPDoer
}

// NewClient creates a new DataMall client.
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
		accountKey: cfg.AccountKey,
		httpClient: httpClient,
	}
}

type valueEnvelope[T any] struct {
	Value []T `json:"value"`
}

// FetchCarparkAvailability retrieves all carpark availability records.
func (c *Client) FetchCarparkAvailability(ctx context.Context) ([]CarparkRecord, error) {
	var envelope valueEnvelope[CarparkRecord]
	if err := c.get(ctx, "/CarParkAvailabilityv2", nil, &envelope); err != nil {
		return nil, fmt.Errorf("fetch carpark availability: %w", err)
	}
	return envelope.Value, nil
}

// FetchTrafficIncidents retrieves all current traffic incidents.
func (c *Client) FetchTrafficIncidents(ctx context.Context) ([]itinerary.Incident, error) {
	var envelope valueEnvelope[itinerary.Incident]
	if err := c.get(ctx, "/TrafficIncidents", nil, &envelope); err != nil {
		return nil, fmt.Errorf("fetch traffic incidents: %w", err)
	}
	return envelope.Value, nil
}

// busArrivalResponse is the BusArrival v3 shape: up to three upcoming buses
// nested under the first matching service.
type busArrivalResponse struct {
	Services []struct {
		ServiceNo string      `json:"ServiceNo"`
		NextBus   *BusArrival `json:"NextBus"`
		NextBus2  *BusArrival `json:"NextBus2"`
		NextBus3  *BusArrival `json:"NextBus3"`
	} `json:"Services"`
}

// FetchBusArrivals retrieves up to three upcoming arrivals for one service
// at one stop, in arrival order.
func (c *Client) FetchBusArrivals(ctx context.Context, busStopCode, serviceNo string) ([]BusArrival, error) {
	params := url.Values{
		"BusStopCode": {busStopCode},
		"ServiceNo":   {serviceNo},
	}

	var resp busArrivalResponse
	if err := c.get(ctx, "/v3/BusArrival", params, &resp); err != nil {
		return nil, fmt.Errorf("fetch bus arrivals: %w", err)
	}

	if len(resp.Services) == 0 {
		return nil, nil
	}

	var arrivals []BusArrival
	svc := resp.Services[0]
	for _, next := range []*BusArrival{svc.NextBus, svc.NextBus2, svc.NextBus3} {
		if next != nil && next.EstimatedArrival != "" {
			arrivals = append(arrivals, *next)
		}
	}
	return arrivals, nil
}

// FetchPlatformCrowd retrieves real-time platform crowd levels for one
// train line (e.g. "NSL", "EWL").
func (c *Client) FetchPlatformCrowd(ctx context.Context, trainLine string) ([]StationCrowd, error) {
	params := url.Values{"TrainLine": {trainLine}}

	var envelope valueEnvelope[StationCrowd]
	if err := c.get(ctx, "/PCDRealTime", params, &envelope); err != nil {
		return nil, fmt.Errorf("fetch platform crowd: %w", err)
	}
	return envelope.Value, nil
}

// get executes an authenticated GET and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	if c.accountKey == "" {
		return ErrNoAccountKey
	}

	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("AccountKey", c.accountKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
