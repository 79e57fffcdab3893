package repository

import (
	"context"

	"github.com/devevents-app/devevents/internal/entity"
)

type EventRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, event *entity.Event) error
	GetByID(ctx context.Context, id string) (*entity.Event, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Event, error)
	Update(ctx context.Context, event *entity.Event) error
	Delete(ctx context.Context, id string) error

	// Query operations
	List(ctx context.Context, filter *entity.EventFilter) ([]*entity.Event, int, error)
	GetSimilar(ctx context.Context, eventID string, tags []string, limit int) ([]*entity.Event, error)
	GetByOwner(ctx context.Context, ownerID string) ([]*entity.Event, error)
}

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	GetByID(ctx context.Context, id string) (*entity.Booking, error)
	GetConfirmed(ctx context.Context, eventID, email string) (*entity.Booking, error)
	UpdateStatus(ctx context.Context, id string, status entity.BookingStatus) error

	// Query operations
	GetConfirmedByEvent(ctx context.Context, eventID string) ([]*entity.Booking, error)
	GetConfirmedByIdentity(ctx context.Context, userID, email string) ([]*entity.BookingWithEvent, error)
	CountConfirmedByEvent(ctx context.Context, eventID string) (int, error)
}

// AnalyticsRepository provides the raw rows the analytics service computes
// over. It never aggregates in SQL beyond filtering; the metrics themselves
// are pure Go so they can be tested without a database.
type AnalyticsRepository interface {
	GetOwnerConfirmedBookings(ctx context.Context, ownerID string) ([]*entity.Booking, error)
	GetEventConfirmedBookings(ctx context.Context, eventID string) ([]*entity.Booking, error)
}
