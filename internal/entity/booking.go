package entity

import (
	"time"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type Booking struct {
	ID        string        `json:"id" db:"id"`
	EventID   string        `json:"event_id" db:"event_id"`
	UserID    string        `json:"user_id,omitempty" db:"user_id"`
	UserName  string        `json:"user_name,omitempty" db:"user_name"`
	Email     string        `json:"email" db:"email"`
	Status    BookingStatus `json:"status" db:"status"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" db:"updated_at"`
}

// Identity is the trusted caller identity supplied by the auth proxy.
// UserID is empty on the anonymous path; Email is always present for
// booking operations.
type Identity struct {
	UserID string `json:"user_id,omitempty"`
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`
}

// BookingWithEvent pairs a booking with the event it references,
// for dashboard listings.
type BookingWithEvent struct {
	Booking Booking `json:"booking"`
	Event   Event   `json:"event"`
}
