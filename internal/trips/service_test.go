package trips

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tripweave/tripweave/internal/api/models"
	"github.com/tripweave/tripweave/internal/itinerary"
)

func validRecord() itinerary.Record {
	return itinerary.Serialize(itinerary.NewWalking([]itinerary.Leg{
		{Mode: itinerary.LegWalk, Distance: 800, Duration: 600, Description: "WALK for 0.80 km"},
	}, "", "walk"))
}

func validCreateRequest() *models.TripCreateRequest {
	return &models.TripCreateRequest{
		Label:       "Morning commute",
		Origin:      models.Point{Lat: 1.3521, Lng: 103.8198},
		Destination: models.Point{Lat: 1.3000, Lng: 103.8500},
		Itinerary:   validRecord(),
	}
}

func TestCreateTrip(t *testing.T) {
	svc := NewService(NewInMemoryRepository())

	trip, err := svc.Create(context.Background(), "user-1", validCreateRequest())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if !strings.HasPrefix(trip.ID, "trp_") {
		t.Errorf("ID = %q, want trp_ prefix", trip.ID)
	}
	if trip.Label != "Morning commute" {
		t.Errorf("Label = %q", trip.Label)
	}
	if trip.Itinerary.Mode != itinerary.ModeWalking {
		t.Errorf("Itinerary.Mode = %q", trip.Itinerary.Mode)
	}

	// The trip is readable back under the same user.
	got, err := svc.Get(context.Background(), "user-1", trip.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.ID != trip.ID {
		t.Errorf("Get() ID = %q, want %q", got.ID, trip.ID)
	}
}

func TestCreateTrip_Validation(t *testing.T) {
	longLabel := strings.Repeat("x", MaxLabelLength+1)
	longNotes := strings.Repeat("x", MaxNotesLength+1)

	tests := []struct {
		name      string
		mutate    func(*models.TripCreateRequest)
		wantField string
	}{
		{
			name:      "missing label",
			mutate:    func(r *models.TripCreateRequest) { r.Label = "" },
			wantField: "label",
		},
		{
			name:      "label too long",
			mutate:    func(r *models.TripCreateRequest) { r.Label = longLabel },
			wantField: "label",
		},
		{
			name:      "origin latitude out of range",
			mutate:    func(r *models.TripCreateRequest) { r.Origin.Lat = 95 },
			wantField: "origin.lat",
		},
		{
			name:      "destination longitude out of range",
			mutate:    func(r *models.TripCreateRequest) { r.Destination.Lng = -200 },
			wantField: "destination.lng",
		},
		{
			name:      "unknown itinerary mode",
			mutate:    func(r *models.TripCreateRequest) { r.Itinerary.Mode = "HoverboardItinerary" },
			wantField: "itinerary.mode",
		},
		{
			name:      "notes too long",
			mutate:    func(r *models.TripCreateRequest) { r.Notes = &longNotes },
			wantField: "notes",
		},
	}

	svc := NewService(NewInMemoryRepository())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateRequest()
			tt.mutate(req)

			_, err := svc.Create(context.Background(), "user-1", req)

			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("Create() error = %v, want ValidationError", err)
			}
			found := false
			for _, fe := range vErr.Errors {
				if fe.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("no error for field %q in %v", tt.wantField, vErr.Errors)
			}
		})
	}
}

func TestGetTrip_WrongUser(t *testing.T) {
	svc := NewService(NewInMemoryRepository())

	trip, err := svc.Create(context.Background(), "user-1", validCreateRequest())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	_, err = svc.Get(context.Background(), "user-2", trip.ID)
	if !IsNotFound(err) {
		t.Fatalf("Get() with wrong user error = %v, want not found", err)
	}
}

func TestUpdateTrip(t *testing.T) {
	svc := NewService(NewInMemoryRepository())
	ctx := context.Background()

	trip, err := svc.Create(ctx, "user-1", validCreateRequest())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	newLabel := "Evening commute"
	notes := "avoid the CTE"
	updated, err := svc.Update(ctx, "user-1", trip.ID, &models.TripUpdateRequest{
		Label: &newLabel,
		Notes: &notes,
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if updated.Label != newLabel {
		t.Errorf("Label = %q, want %q", updated.Label, newLabel)
	}
	if updated.Notes == nil || *updated.Notes != notes {
		t.Errorf("Notes = %v, want %q", updated.Notes, notes)
	}
	// Untouched fields survive a partial update.
	if updated.Origin.Lat != trip.Origin.Lat {
		t.Errorf("Origin changed: %v", updated.Origin)
	}
}

func TestUpdateTrip_EmptyLabelRejected(t *testing.T) {
	svc := NewService(NewInMemoryRepository())
	ctx := context.Background()

	trip, err := svc.Create(ctx, "user-1", validCreateRequest())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	empty := ""
	_, err = svc.Update(ctx, "user-1", trip.ID, &models.TripUpdateRequest{Label: &empty})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("Update() error = %v, want ValidationError", err)
	}
}

func TestUpdateTrip_NotFound(t *testing.T) {
	svc := NewService(NewInMemoryRepository())

	label := "anything"
	_, err := svc.Update(context.Background(), "user-1", "trp_missing", &models.TripUpdateRequest{Label: &label})
	if !IsNotFound(err) {
		t.Fatalf("Update() error = %v, want not found", err)
	}
}

func TestDeleteTrip(t *testing.T) {
	svc := NewService(NewInMemoryRepository())
	ctx := context.Background()

	trip, err := svc.Create(ctx, "user-1", validCreateRequest())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// A different user cannot delete it.
	if err := svc.Delete(ctx, "user-2", trip.ID); !IsNotFound(err) {
		t.Fatalf("Delete() with wrong user error = %v, want not found", err)
	}

	if err := svc.Delete(ctx, "user-1", trip.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := svc.Get(ctx, "user-1", trip.ID); !IsNotFound(err) {
		t.Fatalf("Get() after delete error = %v, want not found", err)
	}
}

func TestListTrips(t *testing.T) {
	svc := NewService(NewInMemoryRepository())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(ctx, "user-1", validCreateRequest()); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}
	if _, err := svc.Create(ctx, "user-2", validCreateRequest()); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	page, err := svc.List(ctx, "user-1", 10)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(page.Items) != 3 {
		t.Errorf("len(Items) = %d, want 3", len(page.Items))
	}
	if page.Meta.NextCursor != nil {
		t.Errorf("NextCursor = %v, want nil", page.Meta.NextCursor)
	}

	// A limit below the row count produces a cursor.
	page, err = svc.List(ctx, "user-1", 2)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(page.Items) != 2 {
		t.Errorf("len(Items) = %d, want 2", len(page.Items))
	}
	if page.Meta.NextCursor == nil {
		t.Errorf("NextCursor = nil, want a cursor")
	}
}
