package trips

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/tripweave/tripweave/internal/api/models"
	"github.com/tripweave/tripweave/internal/itinerary"
)

// Validation constants.
const (
	MaxLabelLength = 80
	MaxNotesLength = 500
)

// Service provides trip operations.
type Service struct {
	repo Repository
}

// NewService creates a new trip service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List retrieves all trips for a user.
func (s *Service) List(ctx context.Context, userID string, limit int) (*models.PagedTrips, error) {
	result, err := s.repo.List(ctx, userID, ListOptions{Limit: limit})
	if err != nil {
		return nil, err
	}

	items := make([]models.Trip, 0, len(result.Items))
	for _, t := range result.Items {
		items = append(items, s.toAPITrip(t))
	}

	var nextCursor *string
	if result.NextCursor != "" {
		nextCursor = &result.NextCursor
	}

	return &models.PagedTrips{
		Items: items,
		Meta: models.PagedResponseMeta{
			Limit:      limit,
			NextCursor: nextCursor,
		},
	}, nil
}

// Get retrieves a trip by ID for a user.
func (s *Service) Get(ctx context.Context, userID, tripID string) (*models.Trip, error) {
	trip, err := s.repo.GetByUserAndID(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}

	result := s.toAPITrip(trip)
	return &result, nil
}

// Create creates a new trip for a user.
func (s *Service) Create(ctx context.Context, userID string, input *models.TripCreateRequest) (*models.Trip, error) {
	if fieldErrors := s.validateCreateInput(input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	now := time.Now()
	tripID := "trp_" + uuid.New().String()[:22]

	trip := &Trip{
		ID:          tripID,
		UserID:      userID,
		Label:       input.Label,
		Origin:      Point{Lat: input.Origin.Lat, Lng: input.Origin.Lng},
		Destination: Point{Lat: input.Destination.Lat, Lng: input.Destination.Lng},
		Itinerary:   input.Itinerary,
		Notes:       input.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, trip); err != nil {
		return nil, err
	}

	result := s.toAPITrip(trip)
	return &result, nil
}

// Update updates an existing trip for a user.
func (s *Service) Update(ctx context.Context, userID, tripID string, input *models.TripUpdateRequest) (*models.Trip, error) {
	trip, err := s.repo.GetByUserAndID(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}

	if fieldErrors := s.validateUpdateInput(input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	if input.Label != nil {
		trip.Label = *input.Label
	}
	if input.Origin != nil {
		trip.Origin = Point{Lat: input.Origin.Lat, Lng: input.Origin.Lng}
	}
	if input.Destination != nil {
		trip.Destination = Point{Lat: input.Destination.Lat, Lng: input.Destination.Lng}
	}
	if input.Itinerary != nil {
		trip.Itinerary = *input.Itinerary
	}
	if input.Notes != nil {
		trip.Notes = input.Notes
	}
	trip.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, trip); err != nil {
		return nil, err
	}

	result := s.toAPITrip(trip)
	return &result, nil
}

// Delete deletes a trip for a user.
func (s *Service) Delete(ctx context.Context, userID, tripID string) error {
	// Verify ownership
	_, err := s.repo.GetByUserAndID(ctx, userID, tripID)
	if err != nil {
		return err
	}

	return s.repo.Delete(ctx, tripID)
}

// validateCreateInput validates the create trip input.
func (s *Service) validateCreateInput(input *models.TripCreateRequest) []models.FieldError {
	var errs []models.FieldError

	if input.Label == "" {
		errs = append(errs, models.FieldError{Field: "label", Message: "is required"})
	} else if len(input.Label) > MaxLabelLength {
		errs = append(errs, models.FieldError{Field: "label", Message: "must be at most 80 characters"})
	}

	errs = append(errs, validatePoint(input.Origin, "origin")...)
	errs = append(errs, validatePoint(input.Destination, "destination")...)
	errs = append(errs, validateRecord(input.Itinerary)...)

	if input.Notes != nil && len(*input.Notes) > MaxNotesLength {
		errs = append(errs, models.FieldError{Field: "notes", Message: "must be at most 500 characters"})
	}

	return errs
}

// validateUpdateInput validates the update trip input.
func (s *Service) validateUpdateInput(input *models.TripUpdateRequest) []models.FieldError {
	var errs []models.FieldError

	if input.Label != nil {
		if *input.Label == "" {
			errs = append(errs, models.FieldError{Field: "label", Message: "cannot be empty"})
		} else if len(*input.Label) > MaxLabelLength {
			errs = append(errs, models.FieldError{Field: "label", Message: "must be at most 80 characters"})
		}
	}

	if input.Origin != nil {
		errs = append(errs, validatePoint(*input.Origin, "origin")...)
	}
	if input.Destination != nil {
		errs = append(errs, validatePoint(*input.Destination, "destination")...)
	}
	if input.Itinerary != nil {
		errs = append(errs, validateRecord(*input.Itinerary)...)
	}

	if input.Notes != nil && len(*input.Notes) > MaxNotesLength {
		errs = append(errs, models.FieldError{Field: "notes", Message: "must be at most 500 characters"})
	}

	return errs
}

// validateRecord checks the stored itinerary decodes under its own mode
// discriminant.
func validateRecord(rec itinerary.Record) []models.FieldError {
	if _, err := itinerary.Deserialize(rec); err != nil {
		return []models.FieldError{{Field: "itinerary.mode", Message: "unknown itinerary mode"}}
	}
	return nil
}

// validatePoint validates a trip endpoint.
func validatePoint(p models.Point, prefix string) []models.FieldError {
	var errs []models.FieldError

	if p.Lat < -90 || p.Lat > 90 {
		errs = append(errs, models.FieldError{
			Field:   prefix + ".lat",
			Message: "must be between -90 and 90",
		})
	}
	if p.Lng < -180 || p.Lng > 180 {
		errs = append(errs, models.FieldError{
			Field:   prefix + ".lng",
			Message: "must be between -180 and 180",
		})
	}

	return errs
}

// toAPITrip converts a domain Trip to an API Trip.
func (s *Service) toAPITrip(t *Trip) models.Trip {
	return models.Trip{
		ID:          t.ID,
		Label:       t.Label,
		Origin:      models.Point{Lat: t.Origin.Lat, Lng: t.Origin.Lng},
		Destination: models.Point{Lat: t.Destination.Lat, Lng: t.Destination.Lng},
		Itinerary:   t.Itinerary,
		Notes:       t.Notes,
		CreatedAt:   models.Timestamp(t.CreatedAt),
		UpdatedAt:   models.Timestamp(t.UpdatedAt),
	}
}

// ValidationError represents validation errors.
type ValidationError struct {
	Errors []models.FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// IsNotFound reports whether the error is the repository's not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTripNotFound)
}
