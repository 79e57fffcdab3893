package service

import (
	"context"

	"github.com/devevents-app/devevents/internal/entity"
)

// CreateEventRequest carries the organizer-supplied fields for a new event.
// Slug is always derived from Title, never accepted from the caller.
type CreateEventRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Overview    string   `json:"overview"`
	Image       string   `json:"image"`
	Venue       string   `json:"venue"`
	Location    string   `json:"location"`
	Date        string   `json:"date"`
	Time        string   `json:"time"`
	Mode        string   `json:"mode"`
	Audience    string   `json:"audience"`
	Agenda      []string `json:"agenda"`
	Organizer   string   `json:"organizer"`
	Tags        []string `json:"tags"`
}

// UpdateEventRequest is a partial update: nil fields keep their current
// value. A new Title re-derives the slug.
type UpdateEventRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Overview    *string   `json:"overview"`
	Image       *string   `json:"image"`
	Venue       *string   `json:"venue"`
	Location    *string   `json:"location"`
	Date        *string   `json:"date"`
	Time        *string   `json:"time"`
	Mode        *string   `json:"mode"`
	Audience    *string   `json:"audience"`
	Agenda      *[]string `json:"agenda"`
	Organizer   *string   `json:"organizer"`
	Tags        *[]string `json:"tags"`
}

// EventListResult is one page of the event listing.
type EventListResult struct {
	Events     []*entity.Event   `json:"events"`
	Pagination entity.Pagination `json:"pagination"`
}

type EventService interface {
	Create(ctx context.Context, caller entity.Identity, req *CreateEventRequest) (*entity.Event, error)
	Update(ctx context.Context, caller entity.Identity, id string, req *UpdateEventRequest) (*entity.Event, error)
	Delete(ctx context.Context, caller entity.Identity, id string) error

	GetBySlug(ctx context.Context, slug string) (*entity.Event, error)
	List(ctx context.Context, filter *entity.EventFilter) (*EventListResult, error)
	GetSimilar(ctx context.Context, slug string) ([]*entity.Event, error)
	GetRegistrationCount(ctx context.Context, slug string) (int, error)
}

// BookingScope narrows a user's booking listing by event date.
type BookingScope string

const (
	BookingScopeAll      BookingScope = "all"
	BookingScopeUpcoming BookingScope = "upcoming"
	BookingScopePast     BookingScope = "past"
)

type BookingService interface {
	Register(ctx context.Context, eventID string, caller entity.Identity) (*entity.Booking, error)
	Cancel(ctx context.Context, bookingID string, caller entity.Identity) error

	GetUserBookings(ctx context.Context, caller entity.Identity, scope BookingScope) ([]*entity.BookingWithEvent, error)
	GetEventBookings(ctx context.Context, eventID string, caller entity.Identity) ([]*entity.Booking, error)
}

type AnalyticsService interface {
	GetOrganizerSummary(ctx context.Context, ownerID string) (*entity.OrganizerSummary, error)
	GetBookingTrends(ctx context.Context, ownerID string, days int) ([]entity.TrendPoint, error)
	GetEventAnalytics(ctx context.Context, ownerID, eventID string) (*entity.EventAnalytics, error)
}
