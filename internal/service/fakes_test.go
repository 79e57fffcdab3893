package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/devevents-app/devevents/internal/entity"
)

// In-memory repositories mirroring the postgres behavior the services rely
// on, including the uniqueness guarantees enforced by the schema.

type fakeEventRepo struct {
	mu     sync.Mutex
	events map[string]*entity.Event
	order  []string
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[string]*entity.Event)}
}

func (r *fakeEventRepo) Create(_ context.Context, event *entity.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.Slug == event.Slug {
			return entity.ErrSlugTaken
		}
	}
	clone := *event
	r.events[event.ID] = &clone
	r.order = append(r.order, event.ID)
	return nil
}

func (r *fakeEventRepo) GetByID(_ context.Context, id string) (*entity.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return nil, entity.ErrEventNotFound
	}
	clone := *e
	return &clone, nil
}

func (r *fakeEventRepo) GetBySlug(_ context.Context, slug string) (*entity.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.Slug == slug {
			clone := *e
			return &clone, nil
		}
	}
	return nil, entity.ErrEventNotFound
}

func (r *fakeEventRepo) Update(_ context.Context, event *entity.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[event.ID]; !ok {
		return entity.ErrEventNotFound
	}
	for id, e := range r.events {
		if id != event.ID && e.Slug == event.Slug {
			return entity.ErrSlugTaken
		}
	}
	clone := *event
	r.events[event.ID] = &clone
	return nil
}

func (r *fakeEventRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[id]; !ok {
		return entity.ErrEventNotFound
	}
	delete(r.events, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *fakeEventRepo) List(_ context.Context, filter *entity.EventFilter) ([]*entity.Event, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	matched := make([]*entity.Event, 0, len(r.events))
	for _, id := range r.order {
		e := r.events[id]
		if filter.Date != "" && e.Date != filter.Date {
			continue
		}
		if filter.Mode != "" && string(e.Mode) != filter.Mode {
			continue
		}
		if filter.Query != "" {
			q := strings.ToLower(filter.Query)
			hay := strings.ToLower(e.Title + " " + e.Description + " " + e.Location + " " + e.Venue + " " + e.Organizer + " " + strings.Join(e.Tags, " "))
			if !strings.Contains(hay, q) {
				continue
			}
		}
		clone := *e
		matched = append(matched, &clone)
	}
	total := len(matched)
	start := (filter.Page - 1) * filter.Limit
	if start >= total {
		return []*entity.Event{}, total, nil
	}
	end := start + filter.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (r *fakeEventRepo) GetSimilar(_ context.Context, eventID string, tags []string, limit int) ([]*entity.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tagSet := make(map[string]bool, len(tags))
	for _, t := range tags {
		tagSet[t] = true
	}
	similar := make([]*entity.Event, 0)
	for _, id := range r.order {
		e := r.events[id]
		if e.ID == eventID {
			continue
		}
		for _, t := range e.Tags {
			if tagSet[t] {
				clone := *e
				similar = append(similar, &clone)
				break
			}
		}
		if len(similar) == limit {
			break
		}
	}
	return similar, nil
}

func (r *fakeEventRepo) GetByOwner(_ context.Context, ownerID string) ([]*entity.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	owned := make([]*entity.Event, 0)
	for _, id := range r.order {
		e := r.events[id]
		if e.CreatedBy == ownerID {
			clone := *e
			owned = append(owned, &clone)
		}
	}
	return owned, nil
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*entity.Booking
	order    []string
	events   *fakeEventRepo
}

func newFakeBookingRepo(events *fakeEventRepo) *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[string]*entity.Booking), events: events}
}

// Create enforces the same constraint as the partial unique index: at most
// one confirmed booking per (event, email).
func (r *fakeBookingRepo) Create(_ context.Context, booking *entity.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if booking.Status == entity.BookingStatusConfirmed {
		for _, b := range r.bookings {
			if b.EventID == booking.EventID && b.Email == booking.Email && b.Status == entity.BookingStatusConfirmed {
				return entity.ErrAlreadyRegistered
			}
		}
	}
	clone := *booking
	r.bookings[booking.ID] = &clone
	r.order = append(r.order, booking.ID)
	return nil
}

func (r *fakeBookingRepo) GetByID(_ context.Context, id string) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, entity.ErrBookingNotFound
	}
	clone := *b
	return &clone, nil
}

func (r *fakeBookingRepo) GetConfirmed(_ context.Context, eventID, email string) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.EventID == eventID && b.Email == email && b.Status == entity.BookingStatusConfirmed {
			clone := *b
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeBookingRepo) UpdateStatus(_ context.Context, id string, status entity.BookingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return entity.ErrBookingNotFound
	}
	b.Status = status
	return nil
}

func (r *fakeBookingRepo) GetConfirmedByEvent(_ context.Context, eventID string) ([]*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]*entity.Booking, 0)
	for _, id := range r.order {
		b := r.bookings[id]
		if b.EventID == eventID && b.Status == entity.BookingStatusConfirmed {
			clone := *b
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (r *fakeBookingRepo) GetConfirmedByIdentity(ctx context.Context, userID, email string) ([]*entity.BookingWithEvent, error) {
	r.mu.Lock()
	matched := make([]*entity.Booking, 0)
	for _, id := range r.order {
		b := r.bookings[id]
		if b.Status != entity.BookingStatusConfirmed {
			continue
		}
		if (userID != "" && b.UserID == userID) || (userID == "" && b.Email == email) {
			clone := *b
			matched = append(matched, &clone)
		}
	}
	r.mu.Unlock()

	result := make([]*entity.BookingWithEvent, 0, len(matched))
	for _, b := range matched {
		event, err := r.events.GetByID(ctx, b.EventID)
		if err != nil {
			continue
		}
		result = append(result, &entity.BookingWithEvent{Booking: *b, Event: *event})
	}
	return result, nil
}

func (r *fakeBookingRepo) CountConfirmedByEvent(ctx context.Context, eventID string) (int, error) {
	bookings, err := r.GetConfirmedByEvent(ctx, eventID)
	if err != nil {
		return 0, err
	}
	return len(bookings), nil
}

type fakeAnalyticsRepo struct {
	events   *fakeEventRepo
	bookings *fakeBookingRepo
}

func newFakeAnalyticsRepo(events *fakeEventRepo, bookings *fakeBookingRepo) *fakeAnalyticsRepo {
	return &fakeAnalyticsRepo{events: events, bookings: bookings}
}

func (r *fakeAnalyticsRepo) GetOwnerConfirmedBookings(ctx context.Context, ownerID string) ([]*entity.Booking, error) {
	owned, err := r.events.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	ownedIDs := make(map[string]bool, len(owned))
	for _, e := range owned {
		ownedIDs[e.ID] = true
	}

	r.bookings.mu.Lock()
	defer r.bookings.mu.Unlock()
	result := make([]*entity.Booking, 0)
	for _, id := range r.bookings.order {
		b := r.bookings.bookings[id]
		if ownedIDs[b.EventID] && b.Status == entity.BookingStatusConfirmed {
			clone := *b
			result = append(result, &clone)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *fakeAnalyticsRepo) GetEventConfirmedBookings(ctx context.Context, eventID string) ([]*entity.Booking, error) {
	bookings, err := r.bookings.GetConfirmedByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.Before(bookings[j].CreatedAt)
	})
	return bookings, nil
}

type fakeMailer struct {
	mu            sync.Mutex
	confirmations []string
	cancellations []string
}

func (m *fakeMailer) SendBookingConfirmation(email string, _ *entity.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.confirmations = append(m.confirmations, email)
	return nil
}

func (m *fakeMailer) SendBookingCancellation(email string, _ *entity.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancellations = append(m.cancellations, email)
	return nil
}
