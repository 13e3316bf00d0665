package trips

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository. The
// itinerary record is stored as JSONB.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL trip repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const tripColumns = `
	id, user_id, label,
	origin_lat, origin_lng,
	destination_lat, destination_lng,
	itinerary, notes,
	created_at, updated_at
`

// Get retrieves a trip by ID.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Trip, error) {
	query := `SELECT` + tripColumns + `FROM trips WHERE id = $1`
	return r.scanTrip(ctx, query, id)
}

// GetByUserAndID retrieves a trip by user ID and trip ID.
func (r *PostgresRepository) GetByUserAndID(ctx context.Context, userID, tripID string) (*Trip, error) {
	query := `SELECT` + tripColumns + `FROM trips WHERE id = $1 AND user_id = $2`
	return r.scanTrip(ctx, query, tripID, userID)
}

// scanTrip scans a trip from a query result.
func (r *PostgresRepository) scanTrip(ctx context.Context, query string, args ...interface{}) (*Trip, error) {
	var trip Trip
	var record []byte

	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&trip.ID,
		&trip.UserID,
		&trip.Label,
		&trip.Origin.Lat,
		&trip.Origin.Lng,
		&trip.Destination.Lat,
		&trip.Destination.Lng,
		&record,
		&trip.Notes,
		&trip.CreatedAt,
		&trip.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal(record, &trip.Itinerary); err != nil {
		return nil, fmt.Errorf("decode stored itinerary: %w", err)
	}

	return &trip, nil
}

// List retrieves all trips for a user with pagination.
func (r *PostgresRepository) List(ctx context.Context, userID string, opts ListOptions) (*ListResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	// Fetch one extra to determine if there are more results
	fetchLimit := limit + 1

	query := `SELECT` + tripColumns + `
		FROM trips
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, fetchLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Trip
	for rows.Next() {
		var trip Trip
		var record []byte
		err := rows.Scan(
			&trip.ID,
			&trip.UserID,
			&trip.Label,
			&trip.Origin.Lat,
			&trip.Origin.Lng,
			&trip.Destination.Lat,
			&trip.Destination.Lng,
			&record,
			&trip.Notes,
			&trip.CreatedAt,
			&trip.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(record, &trip.Itinerary); err != nil {
			return nil, fmt.Errorf("decode stored itinerary: %w", err)
		}
		items = append(items, &trip)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := &ListResult{Items: items}

	// If we got more results than the limit, there are more pages
	if len(items) > limit {
		result.Items = items[:limit]
		result.NextCursor = items[limit-1].ID
	}

	return result, nil
}

// Create creates a new trip.
func (r *PostgresRepository) Create(ctx context.Context, trip *Trip) error {
	record, err := json.Marshal(trip.Itinerary)
	if err != nil {
		return fmt.Errorf("encode itinerary: %w", err)
	}

	query := `
		INSERT INTO trips (
			id, user_id, label,
			origin_lat, origin_lng,
			destination_lat, destination_lng,
			itinerary, notes,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = r.pool.Exec(ctx, query,
		trip.ID,
		trip.UserID,
		trip.Label,
		trip.Origin.Lat,
		trip.Origin.Lng,
		trip.Destination.Lat,
		trip.Destination.Lng,
		record,
		trip.Notes,
		trip.CreatedAt,
		trip.UpdatedAt,
	)
	return err
}

// Update updates an existing trip.
func (r *PostgresRepository) Update(ctx context.Context, trip *Trip) error {
	record, err := json.Marshal(trip.Itinerary)
	if err != nil {
		return fmt.Errorf("encode itinerary: %w", err)
	}

	query := `
		UPDATE trips SET
			label = $2,
			origin_lat = $3,
			origin_lng = $4,
			destination_lat = $5,
			destination_lng = $6,
			itinerary = $7,
			notes = $8,
			updated_at = $9
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		trip.ID,
		trip.Label,
		trip.Origin.Lat,
		trip.Origin.Lng,
		trip.Destination.Lat,
		trip.Destination.Lng,
		record,
		trip.Notes,
		trip.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrTripNotFound
	}

	return nil
}

// Delete deletes a trip by ID.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM trips WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
