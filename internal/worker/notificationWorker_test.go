package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devevents-app/devevents/internal/entity"
	"github.com/devevents-app/devevents/pkg/queue"
)

type stubEventRepo struct {
	event *entity.Event
}

func (s *stubEventRepo) Create(context.Context, *entity.Event) error  { return nil }
func (s *stubEventRepo) Update(context.Context, *entity.Event) error  { return nil }
func (s *stubEventRepo) Delete(context.Context, string) error         { return nil }
func (s *stubEventRepo) GetBySlug(context.Context, string) (*entity.Event, error) {
	return s.event, nil
}
func (s *stubEventRepo) GetByID(context.Context, string) (*entity.Event, error) {
	if s.event == nil {
		return nil, entity.ErrEventNotFound
	}
	return s.event, nil
}
func (s *stubEventRepo) List(context.Context, *entity.EventFilter) ([]*entity.Event, int, error) {
	return nil, 0, nil
}
func (s *stubEventRepo) GetSimilar(context.Context, string, []string, int) ([]*entity.Event, error) {
	return nil, nil
}
func (s *stubEventRepo) GetByOwner(context.Context, string) ([]*entity.Event, error) {
	return nil, nil
}

type recordingMailer struct {
	confirmations []string
	cancellations []string
}

func (m *recordingMailer) SendBookingConfirmation(email string, _ *entity.Event) error {
	m.confirmations = append(m.confirmations, email)
	return nil
}

func (m *recordingMailer) SendBookingCancellation(email string, _ *entity.Event) error {
	m.cancellations = append(m.cancellations, email)
	return nil
}

func TestHandleConfirmationTask(t *testing.T) {
	m := &recordingMailer{}
	w := NewNotificationWorker(nil, &stubEventRepo{event: &entity.Event{ID: "e1", Title: "Go Conf"}}, m)

	task := &queue.Task{
		ID:   "t1",
		Type: queue.TaskTypeBookingConfirmation,
		Data: map[string]interface{}{"email": "a@b.com", "event_id": "e1"},
	}
	require.NoError(t, w.handle(context.Background(), task))
	assert.Equal(t, []string{"a@b.com"}, m.confirmations)
}

func TestHandleCancellationTask(t *testing.T) {
	m := &recordingMailer{}
	w := NewNotificationWorker(nil, &stubEventRepo{event: &entity.Event{ID: "e1"}}, m)

	task := &queue.Task{
		ID:   "t1",
		Type: queue.TaskTypeBookingCancellation,
		Data: map[string]interface{}{"email": "a@b.com", "event_id": "e1"},
	}
	require.NoError(t, w.handle(context.Background(), task))
	assert.Equal(t, []string{"a@b.com"}, m.cancellations)
}

func TestHandleRejectsMalformedTask(t *testing.T) {
	w := NewNotificationWorker(nil, &stubEventRepo{}, &recordingMailer{})

	err := w.handle(context.Background(), &queue.Task{ID: "t1", Type: queue.TaskTypeBookingConfirmation, Data: map[string]interface{}{}})
	assert.Error(t, err)
}

func TestHandleUnknownTaskType(t *testing.T) {
	w := NewNotificationWorker(nil, &stubEventRepo{event: &entity.Event{ID: "e1"}}, &recordingMailer{})

	err := w.handle(context.Background(), &queue.Task{
		ID:   "t1",
		Type: "unknown",
		Data: map[string]interface{}{"email": "a@b.com", "event_id": "e1"},
	})
	assert.Error(t, err)
}
