package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devevents-app/devevents/internal/entity"
)

var analyticsNow = time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

func newTestAnalyticsService() (AnalyticsService, *fakeEventRepo, *fakeBookingRepo) {
	events := newFakeEventRepo()
	bookings := newFakeBookingRepo(events)
	analytics := newFakeAnalyticsRepo(events, bookings)
	svc := NewAnalyticsService(events, analytics, 5, 90, func() time.Time { return analyticsNow })
	return svc, events, bookings
}

func seedOwnedEvent(t *testing.T, events *fakeEventRepo, id, owner string) {
	t.Helper()
	require.NoError(t, events.Create(context.Background(), &entity.Event{
		ID:        id,
		Title:     "Event " + id,
		Slug:      "event-" + id,
		Date:      "2026-10-01",
		Time:      "10:00",
		Mode:      entity.EventModeOnline,
		CreatedBy: owner,
	}))
}

func seedBooking(t *testing.T, bookings *fakeBookingRepo, eventID, email string, createdAt time.Time) {
	t.Helper()
	require.NoError(t, bookings.Create(context.Background(), &entity.Booking{
		ID:        fmt.Sprintf("%s-%s-%d", eventID, email, createdAt.UnixNano()),
		EventID:   eventID,
		Email:     email,
		UserName:  "Attendee",
		Status:    entity.BookingStatusConfirmed,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}))
}

func TestOrganizerSummaryEmpty(t *testing.T) {
	svc, _, _ := newTestAnalyticsService()

	summary, err := svc.GetOrganizerSummary(context.Background(), "nobody")
	require.NoError(t, err)

	assert.Equal(t, 0, summary.TotalEvents)
	assert.Equal(t, 0, summary.TotalBookings)
	assert.Equal(t, 0, summary.RecentBookingsCount)
	assert.Equal(t, float64(0), summary.GrowthRate)
	assert.Empty(t, summary.PopularEvents)
}

func TestOrganizerSummary(t *testing.T) {
	svc, events, bookings := newTestAnalyticsService()

	seedOwnedEvent(t, events, "e1", "owner")
	seedOwnedEvent(t, events, "e2", "owner")
	seedOwnedEvent(t, events, "foreign", "someone-else")

	// Two bookings in the last 30 days, one in the 30 days before that.
	seedBooking(t, bookings, "e1", "a@b.com", analyticsNow.AddDate(0, 0, -5))
	seedBooking(t, bookings, "e1", "c@d.com", analyticsNow.AddDate(0, 0, -10))
	seedBooking(t, bookings, "e2", "e@f.com", analyticsNow.AddDate(0, 0, -45))
	// Foreign events never leak into the owner's numbers.
	seedBooking(t, bookings, "foreign", "x@y.com", analyticsNow.AddDate(0, 0, -1))

	summary, err := svc.GetOrganizerSummary(context.Background(), "owner")
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalEvents)
	assert.Equal(t, 3, summary.TotalBookings)
	assert.Equal(t, 2, summary.RecentBookingsCount)
	assert.Equal(t, float64(100), summary.GrowthRate)

	require.Len(t, summary.PopularEvents, 2)
	assert.Equal(t, "e1", summary.PopularEvents[0].EventID)
	assert.Equal(t, 2, summary.PopularEvents[0].Bookings)
}

func TestOrganizerSummaryPopularLimitAndTies(t *testing.T) {
	svc, events, bookings := newTestAnalyticsService()

	for i := 1; i <= 7; i++ {
		seedOwnedEvent(t, events, fmt.Sprintf("e%d", i), "owner")
	}
	// e3 leads; everyone else ties at one booking.
	for i := 1; i <= 7; i++ {
		seedBooking(t, bookings, fmt.Sprintf("e%d", i), fmt.Sprintf("u%d@b.com", i), analyticsNow.AddDate(0, 0, -i))
	}
	seedBooking(t, bookings, "e3", "extra@b.com", analyticsNow.AddDate(0, 0, -2))

	summary, err := svc.GetOrganizerSummary(context.Background(), "owner")
	require.NoError(t, err)

	require.Len(t, summary.PopularEvents, 5)
	assert.Equal(t, "e3", summary.PopularEvents[0].EventID)
	// Ties keep event creation order.
	assert.Equal(t, "e1", summary.PopularEvents[1].EventID)
	assert.Equal(t, "e2", summary.PopularEvents[2].EventID)
}

func TestGrowthRate(t *testing.T) {
	tests := []struct {
		name     string
		recent   int
		previous int
		want     float64
	}{
		{"no activity", 0, 0, 0},
		{"new activity", 5, 0, 100},
		{"doubled", 10, 5, 100},
		{"declined", 1, 3, -66.7},
		{"flat", 4, 4, 0},
		{"fractional", 7, 3, 133.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, growthRate(tt.recent, tt.previous))
		})
	}
}

func TestBookingTrendsDense(t *testing.T) {
	svc, events, bookings := newTestAnalyticsService()
	seedOwnedEvent(t, events, "e1", "owner")

	seedBooking(t, bookings, "e1", "a@b.com", analyticsNow.AddDate(0, 0, -3))
	seedBooking(t, bookings, "e1", "c@d.com", analyticsNow.AddDate(0, 0, -3))
	seedBooking(t, bookings, "e1", "e@f.com", analyticsNow)

	points, err := svc.GetBookingTrends(context.Background(), "owner", 7)
	require.NoError(t, err)

	require.Len(t, points, 8, "7 days back plus today")
	assert.Equal(t, analyticsNow.AddDate(0, 0, -7).Format("2006-01-02"), points[0].Date)
	assert.Equal(t, analyticsNow.Format("2006-01-02"), points[7].Date)

	var total int
	for _, p := range points {
		total += p.Bookings
	}
	assert.Equal(t, 3, total)
	assert.Equal(t, 2, points[4].Bookings)
	assert.Equal(t, 0, points[1].Bookings, "days without bookings are zero filled")
}

func TestBookingTrendsClampsDays(t *testing.T) {
	svc, _, _ := newTestAnalyticsService()

	points, err := svc.GetBookingTrends(context.Background(), "owner", 500)
	require.NoError(t, err)
	assert.Len(t, points, 91)

	points, err = svc.GetBookingTrends(context.Background(), "owner", 0)
	require.NoError(t, err)
	assert.Len(t, points, 31)
}

func TestEventAnalytics(t *testing.T) {
	svc, events, bookings := newTestAnalyticsService()
	seedOwnedEvent(t, events, "e1", "owner")

	seedBooking(t, bookings, "e1", "a@b.com", analyticsNow.AddDate(0, 0, -2))
	seedBooking(t, bookings, "e1", "c@d.com", analyticsNow.AddDate(0, 0, -2))
	seedBooking(t, bookings, "e1", "e@f.com", analyticsNow)

	analytics, err := svc.GetEventAnalytics(context.Background(), "owner", "e1")
	require.NoError(t, err)

	assert.Equal(t, "Event e1", analytics.EventTitle)
	assert.Equal(t, 3, analytics.TotalBookings)
	assert.Len(t, analytics.Attendees, 3)

	// Sparse timeline: only the two days that saw registrations.
	require.Len(t, analytics.RegistrationTimeline, 2)
	assert.Equal(t, analyticsNow.AddDate(0, 0, -2).Format("2006-01-02"), analytics.RegistrationTimeline[0].Date)
	assert.Equal(t, 2, analytics.RegistrationTimeline[0].Count)
	assert.Equal(t, 1, analytics.RegistrationTimeline[1].Count)
}

func TestEventAnalyticsForeignEventReadsAsAbsent(t *testing.T) {
	svc, events, _ := newTestAnalyticsService()
	seedOwnedEvent(t, events, "e1", "owner")

	_, err := svc.GetEventAnalytics(context.Background(), "intruder", "e1")
	assert.ErrorIs(t, err, entity.ErrEventNotFound)
}
