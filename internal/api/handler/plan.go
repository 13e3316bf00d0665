// Package handler provides HTTP handlers for the TripWeave API.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/tripweave/tripweave/internal/api/models"
	"github.com/tripweave/tripweave/internal/api/response"
	"github.com/tripweave/tripweave/internal/itinerary"
	"github.com/tripweave/tripweave/internal/planner"
	"github.com/tripweave/tripweave/internal/routing"
	"github.com/tripweave/tripweave/internal/score"
)

// Planner plans and ranks trips.
type Planner interface {
	Plan(ctx context.Context, req planner.Request) (*score.Result, error)
}

// PlanHandler handles trip planning and re-ranking endpoints.
type PlanHandler struct {
	planner Planner
	log     zerolog.Logger
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(p Planner, log zerolog.Logger) *PlanHandler {
	return &PlanHandler{planner: p, log: log}
}

// Plan handles POST /v1/plan.
func (h *PlanHandler) Plan(w http.ResponseWriter, r *http.Request) {
	var req models.PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if fieldErrors := validatePlanRequest(&req); len(fieldErrors) > 0 {
		response.BadRequest(w, r, "invalid plan request", fieldErrors)
		return
	}

	pref, err := toPreference(req.Weights)
	if err != nil {
		response.BadRequest(w, r, err.Error(), nil)
		return
	}

	result, err := h.planner.Plan(r.Context(), planner.Request{
		Start:      routing.Point{Lat: req.Start.Lat, Lng: req.Start.Lng},
		End:        routing.Point{Lat: req.End.Lat, Lng: req.End.Lng},
		Modes:      toModes(req.Modes),
		Preference: pref,
	})
	if err != nil {
		switch {
		case errors.Is(err, planner.ErrNoItineraries):
			response.NotFound(w, r, "no itineraries found for the given points")
		case errors.Is(err, score.ErrNegativeWeight):
			response.BadRequest(w, r, "weights must be non-negative", nil)
		case errors.Is(err, routing.ErrProviderUnavailable):
			response.ServiceUnavailable(w, r, "routing provider unavailable")
		default:
			h.log.Error().Err(err).Msg("plan request failed")
			response.InternalError(w, r, "failed to plan trip")
		}
		return
	}

	response.JSON(w, r, http.StatusOK, toPlanResponse(result))
}

// Rank handles POST /v1/itineraries/rank: re-rank previously serialized
// itineraries under new weights without refetching routes.
func (h *PlanHandler) Rank(w http.ResponseWriter, r *http.Request) {
	var req models.RankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}
	if len(req.Itineraries) == 0 {
		response.BadRequest(w, r, "itineraries must not be empty", nil)
		return
	}

	pref, err := toPreference(req.Weights)
	if err != nil {
		response.BadRequest(w, r, err.Error(), nil)
		return
	}

	candidates := make([]*itinerary.Itinerary, 0, len(req.Itineraries))
	for i, rec := range req.Itineraries {
		it, err := itinerary.Deserialize(rec)
		if err != nil {
			response.BadRequest(w, r, "invalid itinerary record", []models.FieldError{{
				Field:   "itineraries[" + strconv.Itoa(i) + "].mode",
				Message: err.Error(),
			}})
			return
		}
		candidates = append(candidates, it)
	}

	result, err := score.Rank(candidates, pref)
	if err != nil {
		h.log.Error().Err(err).Msg("rank request failed")
		response.InternalError(w, r, "failed to rank itineraries")
		return
	}

	response.JSON(w, r, http.StatusOK, toPlanResponse(result))
}

func validatePlanRequest(req *models.PlanRequest) []models.FieldError {
	var errs []models.FieldError
	errs = append(errs, validatePoint(req.Start, "start")...)
	errs = append(errs, validatePoint(req.End, "end")...)
	for _, mode := range req.Modes {
		switch routing.Mode(mode) {
		case routing.ModeTransit, routing.ModeDrive, routing.ModeWalk, routing.ModeCycle:
		default:
			errs = append(errs, models.FieldError{Field: "modes", Message: "unknown mode " + mode})
		}
	}
	return errs
}

func validatePoint(p models.Point, prefix string) []models.FieldError {
	var errs []models.FieldError
	if p.Lat < -90 || p.Lat > 90 {
		errs = append(errs, models.FieldError{Field: prefix + ".lat", Message: "must be between -90 and 90"})
	}
	if p.Lng < -180 || p.Lng > 180 {
		errs = append(errs, models.FieldError{Field: prefix + ".lng", Message: "must be between -180 and 180"})
	}
	return errs
}

func toPreference(w models.Weights) (score.Preference, error) {
	return score.NewPreference(
		w.Duration,
		w.NoTransfer,
		w.WalkingDistance,
		w.CarparkAvailability,
		w.BusWaitTime,
		w.PlatformDensity,
		w.Fare,
	)
}

func toModes(modes []string) []routing.Mode {
	out := make([]routing.Mode, 0, len(modes))
	for _, m := range modes {
		out = append(out, routing.Mode(m))
	}
	return out
}

func toPlanResponse(result *score.Result) models.PlanResponse {
	return models.PlanResponse{
		Best:    toRecords(result.Best),
		Walking: toRecords(result.Walking),
		Public:  toRecords(result.Public),
		Driving: toRecords(result.Driving),
	}
}

func toRecords(ranked []score.Ranked) []itinerary.Record {
	records := make([]itinerary.Record, 0, len(ranked))
	for _, r := range ranked {
		records = append(records, itinerary.Serialize(r.Itinerary))
	}
	return records
}
