package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	repository "github.com/devevents-app/devevents/internal/database/postgres"
	"github.com/devevents-app/devevents/internal/entity"
	"github.com/devevents-app/devevents/internal/mailer"
	"github.com/devevents-app/devevents/pkg/queue"
)

var emailRegexp = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeEmail lowercases and trims an address and rejects anything that
// is not shaped like one.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailRegexp.MatchString(email) {
		return "", entity.ErrInvalidEmail
	}
	return email, nil
}

type bookingService struct {
	bookings repository.BookingRepository
	events   repository.EventRepository
	queue    queue.Queue
	mailer   mailer.Mailer
	now      func() time.Time
}

// NewBookingService creates a new booking service. Queue and mailer may be
// nil; notifications degrade gracefully and never fail a booking.
func NewBookingService(bookings repository.BookingRepository, events repository.EventRepository, q queue.Queue, m mailer.Mailer) BookingService {
	return &bookingService{
		bookings: bookings,
		events:   events,
		queue:    q,
		mailer:   m,
		now:      time.Now,
	}
}

func (s *bookingService) Register(ctx context.Context, eventID string, caller entity.Identity) (*entity.Booking, error) {
	email, err := NormalizeEmail(caller.Email)
	if err != nil {
		return nil, err
	}

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	// Fast path for the common duplicate. The partial unique index on
	// confirmed bookings closes the remaining race at insert time.
	existing, err := s.bookings.GetConfirmed(ctx, eventID, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, entity.ErrAlreadyRegistered
	}

	now := s.now().UTC()
	booking := &entity.Booking{
		ID:        uuid.NewString(),
		EventID:   eventID,
		UserID:    caller.UserID,
		UserName:  caller.Name,
		Email:     email,
		Status:    entity.BookingStatusConfirmed,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.notify(ctx, queue.TaskTypeBookingConfirmation, booking, event)
	return booking, nil
}

func (s *bookingService) Cancel(ctx context.Context, bookingID string, caller entity.Identity) error {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}

	if !s.mayManage(booking, caller) {
		return entity.ErrForbidden
	}
	if booking.Status == entity.BookingStatusCancelled {
		return entity.ErrAlreadyCancelled
	}

	if err := s.bookings.UpdateStatus(ctx, bookingID, entity.BookingStatusCancelled); err != nil {
		return err
	}

	event, err := s.events.GetByID(ctx, booking.EventID)
	if err != nil {
		if !errors.Is(err, entity.ErrEventNotFound) {
			logrus.Warnf("Failed to load event %s for cancellation notice: %v", booking.EventID, err)
		}
		return nil
	}

	s.notify(ctx, queue.TaskTypeBookingCancellation, booking, event)
	return nil
}

func (s *bookingService) GetUserBookings(ctx context.Context, caller entity.Identity, scope BookingScope) ([]*entity.BookingWithEvent, error) {
	// Authenticated callers match on user_id; their email header is not
	// part of the lookup and is left unvalidated.
	email := ""
	if caller.UserID == "" {
		if caller.Email == "" {
			return nil, entity.ErrForbidden
		}
		normalized, err := NormalizeEmail(caller.Email)
		if err != nil {
			return nil, err
		}
		email = normalized
	}

	bookings, err := s.bookings.GetConfirmedByIdentity(ctx, caller.UserID, email)
	if err != nil {
		return nil, err
	}

	if scope == "" || scope == BookingScopeAll {
		return bookings, nil
	}

	// Event dates are YYYY-MM-DD, so string comparison orders correctly.
	today := s.now().UTC().Format("2006-01-02")
	filtered := make([]*entity.BookingWithEvent, 0, len(bookings))
	for _, b := range bookings {
		switch scope {
		case BookingScopeUpcoming:
			if b.Event.Date >= today {
				filtered = append(filtered, b)
			}
		case BookingScopePast:
			if b.Event.Date < today {
				filtered = append(filtered, b)
			}
		}
	}
	return filtered, nil
}

// GetEventBookings lists an event's confirmed bookings for its organizer.
func (s *bookingService) GetEventBookings(ctx context.Context, eventID string, caller entity.Identity) ([]*entity.Booking, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if caller.UserID == "" || event.CreatedBy != caller.UserID {
		return nil, entity.ErrForbidden
	}
	return s.bookings.GetConfirmedByEvent(ctx, eventID)
}

// mayManage reports whether the caller owns the booking, either by account
// id or by the email it was made with.
func (s *bookingService) mayManage(booking *entity.Booking, caller entity.Identity) bool {
	if caller.UserID != "" && booking.UserID == caller.UserID {
		return true
	}
	if caller.Email != "" {
		if email, err := NormalizeEmail(caller.Email); err == nil && booking.Email == email {
			return true
		}
	}
	return false
}

// notify dispatches a booking notification. Delivery problems are logged
// and never surfaced to the caller.
func (s *bookingService) notify(ctx context.Context, taskType string, booking *entity.Booking, event *entity.Event) {
	if s.queue != nil {
		task := &queue.Task{
			ID:   uuid.NewString(),
			Type: taskType,
			Data: map[string]interface{}{
				"booking_id": booking.ID,
				"event_id":   event.ID,
				"email":      booking.Email,
			},
		}
		if err := s.queue.Publish(ctx, task); err != nil {
			logrus.Warnf("Failed to enqueue %s for booking %s: %v", taskType, booking.ID, err)
		}
		return
	}

	if s.mailer == nil {
		return
	}

	email := booking.Email
	eventCopy := *event
	go func() {
		var err error
		switch taskType {
		case queue.TaskTypeBookingConfirmation:
			err = s.mailer.SendBookingConfirmation(email, &eventCopy)
		case queue.TaskTypeBookingCancellation:
			err = s.mailer.SendBookingCancellation(email, &eventCopy)
		}
		if err != nil {
			logrus.Warnf("Failed to send %s to %s: %v", taskType, email, err)
		}
	}()
}
