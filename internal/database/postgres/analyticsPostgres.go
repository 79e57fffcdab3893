package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/devevents-app/devevents/internal/entity"
)

type analyticsRepository struct {
	db *sql.DB
}

func NewAnalyticsRepository(db *sql.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

// GetOwnerConfirmedBookings returns every confirmed booking across all
// events owned by the organizer, oldest first.
func (r *analyticsRepository) GetOwnerConfirmedBookings(ctx context.Context, ownerID string) ([]*entity.Booking, error) {
	query := `
		SELECT b.id, b.event_id, b.user_id, b.user_name, b.email, b.status, b.created_at, b.updated_at
		FROM bookings b
		JOIN events e ON e.id = b.event_id
		WHERE e.created_by = $1 AND b.status = 'confirmed'
		ORDER BY b.created_at ASC
	`

	return r.queryBookings(ctx, query, ownerID)
}

func (r *analyticsRepository) GetEventConfirmedBookings(ctx context.Context, eventID string) ([]*entity.Booking, error) {
	query := `
		SELECT id, event_id, user_id, user_name, email, status, created_at, updated_at
		FROM bookings
		WHERE event_id = $1 AND status = 'confirmed'
		ORDER BY created_at ASC
	`

	return r.queryBookings(ctx, query, eventID)
}

func (r *analyticsRepository) queryBookings(ctx context.Context, query string, arg string) ([]*entity.Booking, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}
