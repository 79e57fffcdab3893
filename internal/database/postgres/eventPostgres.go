package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/devevents-app/devevents/internal/entity"
	"github.com/lib/pq"
)

const eventColumns = `id, title, slug, description, overview, image, venue, location,
		date, time, mode, audience, agenda, organizer, tags, created_by, created_at, updated_at`

type eventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) EventRepository {
	return &eventRepository{db: db}
}

func scanEvent(row interface{ Scan(...interface{}) error }) (*entity.Event, error) {
	var e entity.Event
	err := row.Scan(
		&e.ID,
		&e.Title,
		&e.Slug,
		&e.Description,
		&e.Overview,
		&e.Image,
		&e.Venue,
		&e.Location,
		&e.Date,
		&e.Time,
		&e.Mode,
		&e.Audience,
		pq.Array(&e.Agenda),
		&e.Organizer,
		pq.Array(&e.Tags),
		&e.CreatedBy,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts a new event. A unique violation on the slug index is
// translated to entity.ErrSlugTaken so callers can prompt for a new title.
func (r *eventRepository) Create(ctx context.Context, event *entity.Event) error {
	query := `
		INSERT INTO events (
			id, title, slug, description, overview, image, venue, location,
			date, time, mode, audience, agenda, organizer, tags, created_by,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	_, err := r.db.ExecContext(ctx, query,
		event.ID,
		event.Title,
		event.Slug,
		event.Description,
		event.Overview,
		event.Image,
		event.Venue,
		event.Location,
		event.Date,
		event.Time,
		event.Mode,
		event.Audience,
		pq.Array(event.Agenda),
		event.Organizer,
		pq.Array(event.Tags),
		event.CreatedBy,
		event.CreatedAt,
		event.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "events_slug_key") {
			return entity.ErrSlugTaken
		}
		return fmt.Errorf("failed to create event: %w", err)
	}

	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	event, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, entity.ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return event, nil
}

func (r *eventRepository) GetBySlug(ctx context.Context, slug string) (*entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE slug = $1`

	event, err := scanEvent(r.db.QueryRowContext(ctx, query, slug))
	if err == sql.ErrNoRows {
		return nil, entity.ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event by slug: %w", err)
	}
	return event, nil
}

func (r *eventRepository) Update(ctx context.Context, event *entity.Event) error {
	query := `
		UPDATE events SET
			title = $2, slug = $3, description = $4, overview = $5, image = $6,
			venue = $7, location = $8, date = $9, time = $10, mode = $11,
			audience = $12, agenda = $13, organizer = $14, tags = $15, updated_at = $16
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		event.ID,
		event.Title,
		event.Slug,
		event.Description,
		event.Overview,
		event.Image,
		event.Venue,
		event.Location,
		event.Date,
		event.Time,
		event.Mode,
		event.Audience,
		pq.Array(event.Agenda),
		event.Organizer,
		pq.Array(event.Tags),
		event.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "events_slug_key") {
			return entity.ErrSlugTaken
		}
		return fmt.Errorf("failed to update event: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return entity.ErrEventNotFound
	}

	return nil
}

// Delete removes an event and cancels its confirmed bookings in the same
// transaction. Bookings are kept as history, not deleted.
func (r *eventRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	cancelQuery := `
		UPDATE bookings SET status = 'cancelled', updated_at = NOW()
		WHERE event_id = $1 AND status = 'confirmed'
	`
	if _, err := tx.ExecContext(ctx, cancelQuery, id); err != nil {
		return fmt.Errorf("failed to cancel event bookings: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return entity.ErrEventNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// List returns one page of events plus the unpaginated total. Free-text
// search is ORed across title, description, location, venue, organizer and
// tags; date and mode are exact; everything is ANDed.
func (r *eventRepository) List(ctx context.Context, filter *entity.EventFilter) ([]*entity.Event, int, error) {
	where := []string{}
	args := []interface{}{}

	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		args = append(args, pattern)
		n := len(args)
		where = append(where, fmt.Sprintf(`(
			title ILIKE $%d OR description ILIKE $%d OR location ILIKE $%d OR
			venue ILIKE $%d OR organizer ILIKE $%d OR
			EXISTS (SELECT 1 FROM unnest(tags) AS tag WHERE tag ILIKE $%d)
		)`, n, n, n, n, n, n))
	}
	if filter.Date != "" {
		args = append(args, filter.Date)
		where = append(where, fmt.Sprintf("date = $%d", len(args)))
	}
	if filter.Mode != "" {
		args = append(args, filter.Mode)
		where = append(where, fmt.Sprintf("mode = $%d", len(args)))
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM events` + whereClause
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count events: %w", err)
	}

	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)
	listQuery := fmt.Sprintf(
		`SELECT %s FROM events%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		eventColumns, whereClause, len(args)-1, len(args),
	)

	rows, err := r.db.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*entity.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate events: %w", err)
	}

	return events, total, nil
}

// GetSimilar returns recent events sharing at least one tag with the given
// event, excluding the event itself.
func (r *eventRepository) GetSimilar(ctx context.Context, eventID string, tags []string, limit int) ([]*entity.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE id != $1 AND tags && $2
		ORDER BY created_at DESC
		LIMIT $3
	`

	rows, err := r.db.QueryContext(ctx, query, eventID, pq.Array(tags), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get similar events: %w", err)
	}
	defer rows.Close()

	var events []*entity.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

func (r *eventRepository) GetByOwner(ctx context.Context, ownerID string) ([]*entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE created_by = $1 ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get owner events: %w", err)
	}
	defer rows.Close()

	var events []*entity.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

// isUniqueViolation reports whether err is a postgres unique constraint
// violation on the named index or constraint.
func isUniqueViolation(err error, constraint string) bool {
	pqErr, ok := err.(*pq.Error)
	if !ok {
		return false
	}
	return pqErr.Code == "23505" && pqErr.Constraint == constraint
}
