package service

import (
	"context"
	"strings"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	repository "github.com/devevents-app/devevents/internal/database/postgres"
	"github.com/devevents-app/devevents/internal/database/redis"
	"github.com/devevents-app/devevents/internal/entity"
	"github.com/devevents-app/devevents/internal/normalize"
)

const (
	defaultPageSize = 12
	maxPageSize     = 100
)

type eventService struct {
	events       repository.EventRepository
	bookings     repository.BookingRepository
	cache        *redis.EventCache
	pageSize     int
	similarLimit int
}

// EventServiceOptions tunes listing and similarity defaults.
type EventServiceOptions struct {
	PageSize     int
	SimilarLimit int
}

// NewEventService creates a new event service. Cache may be nil, in which
// case every read goes to the database.
func NewEventService(events repository.EventRepository, bookings repository.BookingRepository, cache *redis.EventCache, opts EventServiceOptions) EventService {
	if opts.PageSize <= 0 {
		opts.PageSize = defaultPageSize
	}
	if opts.SimilarLimit <= 0 {
		opts.SimilarLimit = 3
	}
	return &eventService{
		events:       events,
		bookings:     bookings,
		cache:        cache,
		pageSize:     opts.PageSize,
		similarLimit: opts.SimilarLimit,
	}
}

func (s *eventService) Create(ctx context.Context, caller entity.Identity, req *CreateEventRequest) (*entity.Event, error) {
	if caller.UserID == "" {
		return nil, entity.ErrForbidden
	}
	if err := validateCreate(req); err != nil {
		return nil, err
	}

	slug, err := normalize.Slugify(req.Title)
	if err != nil {
		return nil, err
	}
	date, err := normalize.Date(req.Date)
	if err != nil {
		return nil, err
	}
	eventTime, err := normalize.Time(req.Time)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	event := &entity.Event{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(req.Title),
		Slug:        slug,
		Description: req.Description,
		Overview:    req.Overview,
		Image:       req.Image,
		Venue:       req.Venue,
		Location:    req.Location,
		Date:        date,
		Time:        eventTime,
		Mode:        entity.EventMode(req.Mode),
		Audience:    req.Audience,
		Agenda:      req.Agenda,
		Organizer:   req.Organizer,
		Tags:        req.Tags,
		CreatedBy:   caller.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.events.Create(ctx, event); err != nil {
		return nil, err
	}

	return event, nil
}

func (s *eventService) Update(ctx context.Context, caller entity.Identity, id string, req *UpdateEventRequest) (*entity.Event, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if caller.UserID == "" || event.CreatedBy != caller.UserID {
		return nil, entity.ErrForbidden
	}

	oldSlug := event.Slug

	if req.Title != nil && strings.TrimSpace(*req.Title) != event.Title {
		slug, err := normalize.Slugify(*req.Title)
		if err != nil {
			return nil, err
		}
		event.Title = strings.TrimSpace(*req.Title)
		event.Slug = slug
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Overview != nil {
		event.Overview = *req.Overview
	}
	if req.Image != nil {
		event.Image = *req.Image
	}
	if req.Venue != nil {
		event.Venue = *req.Venue
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.Date != nil {
		date, err := normalize.Date(*req.Date)
		if err != nil {
			return nil, err
		}
		event.Date = date
	}
	if req.Time != nil {
		eventTime, err := normalize.Time(*req.Time)
		if err != nil {
			return nil, err
		}
		event.Time = eventTime
	}
	if req.Mode != nil {
		if !entity.ValidMode(*req.Mode) {
			return nil, entity.NewValidationError("mode", "must be one of online, offline, hybrid")
		}
		event.Mode = entity.EventMode(*req.Mode)
	}
	if req.Audience != nil {
		event.Audience = *req.Audience
	}
	if req.Agenda != nil {
		event.Agenda = *req.Agenda
	}
	if req.Organizer != nil {
		event.Organizer = *req.Organizer
	}
	if req.Tags != nil {
		event.Tags = *req.Tags
	}
	event.UpdatedAt = time.Now().UTC()

	// Partial updates can blank fields one at a time, so the merged
	// result is validated as a whole before it is persisted.
	if err := validateEvent(event); err != nil {
		return nil, err
	}

	if err := s.events.Update(ctx, event); err != nil {
		return nil, err
	}

	s.invalidate(ctx, oldSlug)
	if event.Slug != oldSlug {
		s.invalidate(ctx, event.Slug)
	}

	return event, nil
}

func (s *eventService) Delete(ctx context.Context, caller entity.Identity, id string) error {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if caller.UserID == "" || event.CreatedBy != caller.UserID {
		return entity.ErrForbidden
	}

	if err := s.events.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx, event.Slug)
	return nil
}

func (s *eventService) GetBySlug(ctx context.Context, slug string) (*entity.Event, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, slug)
		if err == nil {
			return cached, nil
		}
		if err != goredis.Nil {
			logrus.Warnf("Event cache read failed for %q: %v", slug, err)
		}
	}

	event, err := s.events.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, event); err != nil {
			logrus.Warnf("Event cache write failed for %q: %v", slug, err)
		}
	}

	return event, nil
}

func (s *eventService) List(ctx context.Context, filter *entity.EventFilter) (*EventListResult, error) {
	if filter == nil {
		filter = &entity.EventFilter{}
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = s.pageSize
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}
	if filter.Date != "" {
		date, err := normalize.Date(filter.Date)
		if err != nil {
			return nil, err
		}
		filter.Date = date
	}
	if filter.Mode != "" && !entity.ValidMode(filter.Mode) {
		return nil, entity.NewValidationError("mode", "must be one of online, offline, hybrid")
	}

	events, total, err := s.events.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := (total + filter.Limit - 1) / filter.Limit
	return &EventListResult{
		Events: events,
		Pagination: entity.Pagination{
			Total:      total,
			Page:       filter.Page,
			Limit:      filter.Limit,
			TotalPages: totalPages,
		},
	}, nil
}

func (s *eventService) GetSimilar(ctx context.Context, slug string) ([]*entity.Event, error) {
	event, err := s.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if len(event.Tags) == 0 {
		return []*entity.Event{}, nil
	}
	return s.events.GetSimilar(ctx, event.ID, event.Tags, s.similarLimit)
}

// GetRegistrationCount returns the number of confirmed bookings for the
// event with the given slug, for the public event page.
func (s *eventService) GetRegistrationCount(ctx context.Context, slug string) (int, error) {
	event, err := s.GetBySlug(ctx, slug)
	if err != nil {
		return 0, err
	}
	return s.bookings.CountConfirmedByEvent(ctx, event.ID)
}

func (s *eventService) invalidate(ctx context.Context, slug string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, slug); err != nil {
		logrus.Warnf("Event cache invalidation failed for %q: %v", slug, err)
	}
}

func validateCreate(req *CreateEventRequest) error {
	return validateFields(
		req.Title, req.Description, req.Overview, req.Image, req.Venue,
		req.Location, req.Date, req.Time, req.Mode, req.Audience,
		req.Organizer, req.Agenda, req.Tags,
	)
}

// validateEvent checks a merged event before an update is persisted; the
// same field invariants hold on every save, not just on create.
func validateEvent(event *entity.Event) error {
	return validateFields(
		event.Title, event.Description, event.Overview, event.Image,
		event.Venue, event.Location, event.Date, event.Time,
		string(event.Mode), event.Audience, event.Organizer,
		event.Agenda, event.Tags,
	)
}

func validateFields(title, description, overview, image, venue, location, date, timeOfDay, mode, audience, organizer string, agenda, tags []string) error {
	required := []struct {
		field string
		value string
	}{
		{"title", title},
		{"description", description},
		{"overview", overview},
		{"image", image},
		{"venue", venue},
		{"location", location},
		{"date", date},
		{"time", timeOfDay},
		{"audience", audience},
		{"organizer", organizer},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return entity.NewValidationError(f.field, "is required")
		}
	}
	if !entity.ValidMode(mode) {
		return entity.NewValidationError("mode", "must be one of online, offline, hybrid")
	}
	if len(agenda) == 0 {
		return entity.NewValidationError("agenda", "must have at least one item")
	}
	if len(tags) == 0 {
		return entity.NewValidationError("tags", "must have at least one item")
	}
	return nil
}
