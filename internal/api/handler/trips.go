package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/tripweave/tripweave/internal/api/models"
	"github.com/tripweave/tripweave/internal/api/response"
	"github.com/tripweave/tripweave/internal/trips"
)

// defaultListLimit caps the page size for trip listings.
const defaultListLimit = 50

// TripsHandler handles saved-trip endpoints. The caller identifies itself
// with the X-User-Id header; there is no authentication layer in front.
type TripsHandler struct {
	service *trips.Service
	log     zerolog.Logger
}

// NewTripsHandler creates a new TripsHandler.
func NewTripsHandler(service *trips.Service, log zerolog.Logger) *TripsHandler {
	return &TripsHandler{service: service, log: log}
}

// userID extracts the caller's user key. An empty key is rejected by the
// handlers before touching the service.
func userID(r *http.Request) string {
	return r.Header.Get("X-User-Id")
}

// List handles GET /v1/trips.
func (h *TripsHandler) List(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		response.BadRequest(w, r, "X-User-Id header is required", nil)
		return
	}

	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > defaultListLimit {
			response.BadRequest(w, r, "limit must be between 1 and 50", nil)
			return
		}
		limit = parsed
	}

	result, err := h.service.List(r.Context(), uid, limit)
	if err != nil {
		h.log.Error().Err(err).Msg("list trips failed")
		response.InternalError(w, r, "failed to list trips")
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}

// Get handles GET /v1/trips/{tripId}.
func (h *TripsHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		response.BadRequest(w, r, "X-User-Id header is required", nil)
		return
	}

	trip, err := h.service.Get(r.Context(), uid, chi.URLParam(r, "tripId"))
	if err != nil {
		if trips.IsNotFound(err) {
			response.NotFound(w, r, "trip not found")
			return
		}
		h.log.Error().Err(err).Msg("get trip failed")
		response.InternalError(w, r, "failed to get trip")
		return
	}

	response.JSON(w, r, http.StatusOK, trip)
}

// Create handles POST /v1/trips.
func (h *TripsHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		response.BadRequest(w, r, "X-User-Id header is required", nil)
		return
	}

	var input models.TripCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	trip, err := h.service.Create(r.Context(), uid, &input)
	if err != nil {
		var validationErr *trips.ValidationError
		if errors.As(err, &validationErr) {
			response.BadRequest(w, r, "invalid trip", validationErr.Errors)
			return
		}
		h.log.Error().Err(err).Msg("create trip failed")
		response.InternalError(w, r, "failed to create trip")
		return
	}

	response.Created(w, r, "/v1/trips/"+trip.ID, trip)
}

// Update handles PATCH /v1/trips/{tripId}.
func (h *TripsHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		response.BadRequest(w, r, "X-User-Id header is required", nil)
		return
	}

	var input models.TripUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	trip, err := h.service.Update(r.Context(), uid, chi.URLParam(r, "tripId"), &input)
	if err != nil {
		var validationErr *trips.ValidationError
		switch {
		case trips.IsNotFound(err):
			response.NotFound(w, r, "trip not found")
		case errors.As(err, &validationErr):
			response.BadRequest(w, r, "invalid trip", validationErr.Errors)
		default:
			h.log.Error().Err(err).Msg("update trip failed")
			response.InternalError(w, r, "failed to update trip")
		}
		return
	}

	response.JSON(w, r, http.StatusOK, trip)
}

// Delete handles DELETE /v1/trips/{tripId}.
func (h *TripsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		response.BadRequest(w, r, "X-User-Id header is required", nil)
		return
	}

	if err := h.service.Delete(r.Context(), uid, chi.URLParam(r, "tripId")); err != nil {
		if trips.IsNotFound(err) {
			response.NotFound(w, r, "trip not found")
			return
		}
		h.log.Error().Err(err).Msg("delete trip failed")
		response.InternalError(w, r, "failed to delete trip")
		return
	}

	response.NoContent(w, r)
}
