package entity

import (
	"time"
)

type EventMode string

const (
	EventModeOnline  EventMode = "online"
	EventModeOffline EventMode = "offline"
	EventModeHybrid  EventMode = "hybrid"
)

// ValidMode reports whether the given mode is one of the supported values.
func ValidMode(mode string) bool {
	switch EventMode(mode) {
	case EventModeOnline, EventModeOffline, EventModeHybrid:
		return true
	}
	return false
}

type Event struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Slug        string    `json:"slug" db:"slug"`
	Description string    `json:"description" db:"description"`
	Overview    string    `json:"overview" db:"overview"`
	Image       string    `json:"image" db:"image"`
	Venue       string    `json:"venue" db:"venue"`
	Location    string    `json:"location" db:"location"`
	Date        string    `json:"date" db:"date"` // YYYY-MM-DD
	Time        string    `json:"time" db:"time"` // HH:MM, 24h
	Mode        EventMode `json:"mode" db:"mode"`
	Audience    string    `json:"audience" db:"audience"`
	Agenda      []string  `json:"agenda" db:"agenda"`
	Organizer   string    `json:"organizer" db:"organizer"`
	Tags        []string  `json:"tags" db:"tags"`
	CreatedBy   string    `json:"created_by" db:"created_by"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// EventFilter narrows the event listing. Query is matched case-insensitively
// against title, description, location, venue, organizer and tags; Date and
// Mode are exact matches. All present filters are ANDed together.
type EventFilter struct {
	Query string `form:"q"`
	Date  string `form:"date"`
	Mode  string `form:"mode"`
	Page  int    `form:"page"`
	Limit int    `form:"limit"`
}

// Pagination describes one page of a listing result.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}
