package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/devevents-app/devevents/internal/entity"
	"github.com/lib/pq"
)

const bookingColumns = `id, event_id, user_id, user_name, email, status, created_at, updated_at`

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func scanBooking(row interface{ Scan(...interface{}) error }) (*entity.Booking, error) {
	var b entity.Booking
	var userID, userName sql.NullString
	err := row.Scan(
		&b.ID,
		&b.EventID,
		&userID,
		&userName,
		&b.Email,
		&b.Status,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.UserID = userID.String
	b.UserName = userName.String
	return &b, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Create inserts a confirmed booking. The partial unique index on
// (event_id, email) WHERE status = 'confirmed' is the authority on
// duplicate registrations: when two concurrent requests pass the
// application-level pre-check, the second insert fails here and is
// reported as entity.ErrAlreadyRegistered.
func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, event_id, user_id, user_name, email, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		booking.ID,
		booking.EventID,
		nullable(booking.UserID),
		nullable(booking.UserName),
		booking.Email,
		booking.Status,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "idx_bookings_confirmed_registration") {
			return entity.ErrAlreadyRegistered
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}

	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, entity.ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

// GetConfirmed returns the confirmed booking for (event, email), or nil
// when none exists. Cancelled bookings never match, which is what permits
// re-registration after cancellation.
func (r *bookingRepository) GetConfirmed(ctx context.Context, eventID, email string) (*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE event_id = $1 AND email = $2 AND status = 'confirmed'
	`

	booking, err := scanBooking(r.db.QueryRowContext(ctx, query, eventID, email))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get confirmed booking: %w", err)
	}
	return booking, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id string, status entity.BookingStatus) error {
	query := `UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return entity.ErrBookingNotFound
	}

	return nil
}

func (r *bookingRepository) GetConfirmedByEvent(ctx context.Context, eventID string) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE event_id = $1 AND status = 'confirmed'
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event bookings: %w", err)
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

// GetConfirmedByIdentity returns the caller's confirmed bookings joined
// with their events, newest first. Authenticated callers match on user_id,
// anonymous callers on email.
func (r *bookingRepository) GetConfirmedByIdentity(ctx context.Context, userID, email string) ([]*entity.BookingWithEvent, error) {
	condition := `b.email = $1`
	arg := email
	if userID != "" {
		condition = `b.user_id = $1`
		arg = userID
	}

	query := `
		SELECT b.id, b.event_id, b.user_id, b.user_name, b.email, b.status, b.created_at, b.updated_at,
		       e.id, e.title, e.slug, e.description, e.overview, e.image, e.venue, e.location,
		       e.date, e.time, e.mode, e.audience, e.agenda, e.organizer, e.tags, e.created_by,
		       e.created_at, e.updated_at
		FROM bookings b
		JOIN events e ON e.id = b.event_id
		WHERE ` + condition + ` AND b.status = 'confirmed'
		ORDER BY b.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings for identity: %w", err)
	}
	defer rows.Close()

	var result []*entity.BookingWithEvent
	for rows.Next() {
		var item entity.BookingWithEvent
		var userID, userName sql.NullString
		err := rows.Scan(
			&item.Booking.ID,
			&item.Booking.EventID,
			&userID,
			&userName,
			&item.Booking.Email,
			&item.Booking.Status,
			&item.Booking.CreatedAt,
			&item.Booking.UpdatedAt,
			&item.Event.ID,
			&item.Event.Title,
			&item.Event.Slug,
			&item.Event.Description,
			&item.Event.Overview,
			&item.Event.Image,
			&item.Event.Venue,
			&item.Event.Location,
			&item.Event.Date,
			&item.Event.Time,
			&item.Event.Mode,
			&item.Event.Audience,
			pq.Array(&item.Event.Agenda),
			&item.Event.Organizer,
			pq.Array(&item.Event.Tags),
			&item.Event.CreatedBy,
			&item.Event.CreatedAt,
			&item.Event.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking with event: %w", err)
		}
		item.Booking.UserID = userID.String
		item.Booking.UserName = userName.String
		result = append(result, &item)
	}

	return result, rows.Err()
}

func (r *bookingRepository) CountConfirmedByEvent(ctx context.Context, eventID string) (int, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE event_id = $1 AND status = 'confirmed'`

	var count int
	if err := r.db.QueryRowContext(ctx, query, eventID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	return count, nil
}
