package entity

import "time"

// PopularEvent represents an owned event with its confirmed booking count,
// used for the dashboard top-5 ranking.
type PopularEvent struct {
	EventID  string `json:"event_id"`
	Title    string `json:"title"`
	Slug     string `json:"slug"`
	Date     string `json:"date"`
	Bookings int    `json:"bookings"`
}

// OrganizerSummary aggregates confirmed-booking metrics across all events
// owned by one organizer.
type OrganizerSummary struct {
	TotalEvents         int            `json:"totalEvents"`
	TotalBookings       int            `json:"totalBookings"`
	RecentBookingsCount int            `json:"recentBookingsCount"`
	GrowthRate          float64        `json:"growthRate"`
	PopularEvents       []PopularEvent `json:"popularEvents"`
}

// TrendPoint is one day of the organizer-wide booking trend. The series is
// dense: days without bookings are present with a zero count.
type TrendPoint struct {
	Date     string `json:"date"`
	Bookings int    `json:"bookings"`
}

// TimelinePoint is one day of a single event's registration timeline. The
// series is sparse: only days with at least one booking appear.
type TimelinePoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Attendee is one confirmed registration shown to the event's organizer.
type Attendee struct {
	Email        string    `json:"email"`
	UserName     string    `json:"userName"`
	RegisteredAt time.Time `json:"registeredAt"`
}

// EventAnalytics is the per-event view for the owning organizer.
type EventAnalytics struct {
	EventTitle           string          `json:"eventTitle"`
	TotalBookings        int             `json:"totalBookings"`
	RegistrationTimeline []TimelinePoint `json:"registrationTimeline"`
	Attendees            []Attendee      `json:"attendees"`
}
