package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripweave/tripweave/internal/api"
	"github.com/tripweave/tripweave/internal/api/models"
	"github.com/tripweave/tripweave/internal/itinerary"
	"github.com/tripweave/tripweave/internal/planner"
	"github.com/tripweave/tripweave/internal/score"
	"github.com/tripweave/tripweave/internal/trips"
)

// stubPlanner serves a canned walking itinerary for every plan request.
type stubPlanner struct {
	err error
}

func (s *stubPlanner) Plan(ctx context.Context, req planner.Request) (*score.Result, error) {
	if s.err != nil {
		return nil, s.err
	}
	it := itinerary.NewWalking([]itinerary.Leg{
		{Mode: itinerary.LegWalk, Distance: 800, Duration: 600, Description: "WALK for 0.80 km"},
	}, "", "walk")
	return score.Rank([]*itinerary.Itinerary{it}, req.Preference)
}

func newTestRouter(p *stubPlanner) http.Handler {
	logger := zerolog.New(io.Discard)
	return api.NewRouter(api.RouterConfig{
		Version:     "test",
		BuildTime:   "2026-01-01T00:00:00Z",
		Logger:      logger,
		Planner:     p,
		TripService: trips.NewService(trips.NewInMemoryRepository()),
	})
}

func validRecord() itinerary.Record {
	return itinerary.Serialize(itinerary.NewWalking([]itinerary.Leg{
		{Mode: itinerary.LegWalk, Distance: 800, Duration: 600},
	}, "", "walk"))
}

func TestRouter_HealthCheck(t *testing.T) {
	router := newTestRouter(&stubPlanner{})

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	var health models.Health
	err := json.Unmarshal(w.Body.Bytes(), &health)
	require.NoError(t, err)

	assert.Equal(t, models.HealthStatusOK, health.Status)
	assert.NotEmpty(t, health.Time)
}

func TestRouter_ReadinessCheck_NoDatabase(t *testing.T) {
	router := newTestRouter(&stubPlanner{})

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/ready", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_SystemStatus(t *testing.T) {
	router := newTestRouter(&stubPlanner{})

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/status", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var status models.SystemStatus
	err := json.Unmarshal(w.Body.Bytes(), &status)
	require.NoError(t, err)

	assert.NotEmpty(t, status.Subsystems)
	assert.NotEmpty(t, status.Providers)
}

func TestRouter_Plan(t *testing.T) {
	router := newTestRouter(&stubPlanner{})

	input := models.PlanRequest{
		Start:   models.Point{Lat: 1.3521, Lng: 103.8198},
		End:     models.Point{Lat: 1.3000, Lng: 103.8500},
		Weights: models.Weights{Duration: 1},
	}
	body, _ := json.Marshal(input)

	req := httptest.NewRequest(http.MethodPost, "/v1/plan", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.PlanResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)

	require.Len(t, resp.Best, 1)
	assert.Equal(t, itinerary.ModeWalking, resp.Best[0].Mode)
	assert.Len(t, resp.Walking, 1)
}

func TestRouter_Plan_ValidationError(t *testing.T) {
	router := newTestRouter(&stubPlanner{})

	input := models.PlanRequest{
		Start:   models.Point{Lat: 95, Lng: 103.8198},
		End:     models.Point{Lat: 1.3000, Lng: 103.8500},
		Modes:   []string{"teleport"},
		Weights: models.Weights{Duration: 1},
	}
	body, _ := json.Marshal(input)

	req := httptest.NewRequest(http.MethodPost, "/v1/plan", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))

	var problem models.Problem
	err := json.Unmarshal(w.Body.Bytes(), &problem)
	require.NoError(t, err)

	assert.Equal(t, models.ProblemTypeValidation, problem.Type)
	assert.NotEmpty(t, problem.Errors)
}

func TestRouter_Plan_NoItineraries(t *testing.T) {
	router := newTestRouter(&stubPlanner{err: planner.ErrNoItineraries})

	input := models.PlanRequest{
		Start:   models.Point{Lat: 1.3521, Lng: 103.8198},
		End:     models.Point{Lat: 1.3000, Lng: 103.8500},
		Weights: models.Weights{Duration: 1},
	}
	body, _ := json.Marshal(input)

	req := httptest.NewRequest(http.MethodPost, "/v1/plan", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_Rank(t *testing.T) {
	router := newTestRouter(&stubPlanner{})

	input := models.RankRequest{
		Itineraries: []itinerary.Record{validRecord()},
		Weights:     models.Weights{Duration: 1},
	}
	body, _ := json.Marshal(input)

	req := httptest.NewRequest(http.MethodPost, "/v1/itineraries/rank", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "user-1")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.PlanResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)

	require.Len(t, resp.Best, 1)
}

func TestRouter_Rank_BadRecord(t *testing.T) {
	router := newTestRouter(&stubPlanner{})

	rec := validRecord()
	rec.Mode = "HoverboardItinerary"
	input := models.RankRequest{
		Itineraries: []itinerary.Record{rec},
		Weights:     models.Weights{Duration: 1},
	}
	body, _ := json.Marshal(input)

	req := httptest.NewRequest(http.MethodPost, "/v1/itineraries/rank", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "user-1")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var problem models.Problem
	err := json.Unmarshal(w.Body.Bytes(), &problem)
	require.NoError(t, err)

	require.NotEmpty(t, problem.Errors)
	assert.Equal(t, "itineraries[0].mode", problem.Errors[0].Field)
}

func TestRouter_CreateAndGetTrip(t *testing.T) {
	router := newTestRouter(&stubPlanner{})

	notes := "weekday route"
	input := models.TripCreateRequest{
		Label:       "Home → Office",
		Origin:      models.Point{Lat: 1.3521, Lng: 103.8198},
		Destination: models.Point{Lat: 1.3000, Lng: 103.8500},
		Itinerary:   validRecord(),
		Notes:       &notes,
	}
	body, _ := json.Marshal(input)

	req := httptest.NewRequest(http.MethodPost, "/v1/trips", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "user-1")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NotEmpty(t, w.Header().Get("Location"))

	var trip models.Trip
	err := json.Unmarshal(w.Body.Bytes(), &trip)
	require.NoError(t, err)
	assert.Equal(t, "Home → Office", trip.Label)
	require.NotEmpty(t, trip.ID)

	req = httptest.NewRequest(http.MethodGet, "/v1/trips/"+trip.ID, http.NoBody)
	req.Header.Set("X-User-Id", "user-1")
	w = httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var fetched models.Trip
	err = json.Unmarshal(w.Body.Bytes(), &fetched)
	require.NoError(t, err)
	assert.Equal(t, trip.ID, fetched.ID)
}

func TestRouter_Trips_RequireUserHeader(t *testing.T) {
	router := newTestRouter(&stubPlanner{})

	req := httptest.NewRequest(http.MethodGet, "/v1/trips", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_GetTrip_NotFound(t *testing.T) {
	router := newTestRouter(&stubPlanner{})

	req := httptest.NewRequest(http.MethodGet, "/v1/trips/trp_missing", http.NoBody)
	req.Header.Set("X-User-Id", "user-1")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var problem models.Problem
	err := json.Unmarshal(w.Body.Bytes(), &problem)
	require.NoError(t, err)
	assert.Equal(t, models.ProblemTypeNotFound, problem.Type)
}

func TestRouter_DeleteTrip(t *testing.T) {
	router := newTestRouter(&stubPlanner{})

	body, _ := json.Marshal(models.TripCreateRequest{
		Label:       "Throwaway",
		Origin:      models.Point{Lat: 1.35, Lng: 103.82},
		Destination: models.Point{Lat: 1.30, Lng: 103.85},
		Itinerary:   validRecord(),
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/trips", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "user-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var trip models.Trip
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &trip))

	req = httptest.NewRequest(http.MethodDelete, "/v1/trips/"+trip.ID, http.NoBody)
	req.Header.Set("X-User-Id", "user-1")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRouter_RequestID_Preserved(t *testing.T) {
	router := newTestRouter(&stubPlanner{})

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	req.Header.Set("X-Request-Id", "custom_request_id")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, "custom_request_id", w.Header().Get("X-Request-Id"))
}

func TestRouter_NotFound(t *testing.T) {
	router := newTestRouter(&stubPlanner{})

	req := httptest.NewRequest(http.MethodGet, "/v1/nonexistent", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
