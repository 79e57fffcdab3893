package service

import (
	"context"
	"math"
	"sort"
	"time"

	repository "github.com/devevents-app/devevents/internal/database/postgres"
	"github.com/devevents-app/devevents/internal/entity"
)

const (
	recentWindowDays = 30
	defaultTrendDays = 30
)

type analyticsService struct {
	events       repository.EventRepository
	analytics    repository.AnalyticsRepository
	popularLimit int
	trendDaysMax int
	now          func() time.Time
}

// NewAnalyticsService creates a new analytics service. The clock is
// injectable so window math is testable.
func NewAnalyticsService(events repository.EventRepository, analytics repository.AnalyticsRepository, popularLimit, trendDaysMax int, now func() time.Time) AnalyticsService {
	if popularLimit <= 0 {
		popularLimit = 5
	}
	if trendDaysMax <= 0 {
		trendDaysMax = 90
	}
	if now == nil {
		now = time.Now
	}
	return &analyticsService{
		events:       events,
		analytics:    analytics,
		popularLimit: popularLimit,
		trendDaysMax: trendDaysMax,
		now:          now,
	}
}

func (s *analyticsService) GetOrganizerSummary(ctx context.Context, ownerID string) (*entity.OrganizerSummary, error) {
	events, err := s.events.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	bookings, err := s.analytics.GetOwnerConfirmedBookings(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	recentCutoff := now.AddDate(0, 0, -recentWindowDays)
	previousCutoff := now.AddDate(0, 0, -2*recentWindowDays)

	var recent, previous int
	perEvent := make(map[string]int, len(events))
	for _, b := range bookings {
		perEvent[b.EventID]++
		switch {
		case !b.CreatedAt.Before(recentCutoff):
			recent++
		case !b.CreatedAt.Before(previousCutoff):
			previous++
		}
	}

	popular := make([]entity.PopularEvent, 0, len(events))
	for _, e := range events {
		popular = append(popular, entity.PopularEvent{
			EventID:  e.ID,
			Title:    e.Title,
			Slug:     e.Slug,
			Date:     e.Date,
			Bookings: perEvent[e.ID],
		})
	}
	// Stable, so equally booked events keep their creation order.
	sort.SliceStable(popular, func(i, j int) bool {
		return popular[i].Bookings > popular[j].Bookings
	})
	if len(popular) > s.popularLimit {
		popular = popular[:s.popularLimit]
	}

	return &entity.OrganizerSummary{
		TotalEvents:         len(events),
		TotalBookings:       len(bookings),
		RecentBookingsCount: recent,
		GrowthRate:          growthRate(recent, previous),
		PopularEvents:       popular,
	}, nil
}

func (s *analyticsService) GetBookingTrends(ctx context.Context, ownerID string, days int) ([]entity.TrendPoint, error) {
	if days <= 0 {
		days = defaultTrendDays
	}
	if days > s.trendDaysMax {
		days = s.trendDaysMax
	}

	bookings, err := s.analytics.GetOwnerConfirmedBookings(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]int)
	for _, b := range bookings {
		byDay[b.CreatedAt.UTC().Format("2006-01-02")]++
	}

	// Dense series: every day from now-days through today, zero filled.
	today := s.now().UTC().Truncate(24 * time.Hour)
	points := make([]entity.TrendPoint, 0, days+1)
	for i := days; i >= 0; i-- {
		day := today.AddDate(0, 0, -i).Format("2006-01-02")
		points = append(points, entity.TrendPoint{
			Date:     day,
			Bookings: byDay[day],
		})
	}

	return points, nil
}

func (s *analyticsService) GetEventAnalytics(ctx context.Context, ownerID, eventID string) (*entity.EventAnalytics, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	// Ownership is not disclosed: a foreign event reads as absent.
	if event.CreatedBy != ownerID {
		return nil, entity.ErrEventNotFound
	}

	bookings, err := s.analytics.GetEventConfirmedBookings(ctx, eventID)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]int)
	attendees := make([]entity.Attendee, 0, len(bookings))
	for _, b := range bookings {
		byDay[b.CreatedAt.UTC().Format("2006-01-02")]++
		attendees = append(attendees, entity.Attendee{
			Email:        b.Email,
			UserName:     b.UserName,
			RegisteredAt: b.CreatedAt,
		})
	}

	// Sparse series: only days that saw at least one registration.
	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)
	timeline := make([]entity.TimelinePoint, 0, len(days))
	for _, day := range days {
		timeline = append(timeline, entity.TimelinePoint{Date: day, Count: byDay[day]})
	}

	return &entity.EventAnalytics{
		EventTitle:           event.Title,
		TotalBookings:        len(bookings),
		RegistrationTimeline: timeline,
		Attendees:            attendees,
	}, nil
}

// growthRate compares the two most recent windows. With no prior activity
// any recent bookings count as 100% growth.
func growthRate(recent, previous int) float64 {
	if previous == 0 {
		if recent > 0 {
			return 100
		}
		return 0
	}
	rate := float64(recent-previous) / float64(previous) * 100
	return math.Round(rate*10) / 10
}
