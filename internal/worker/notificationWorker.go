package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	repository "github.com/devevents-app/devevents/internal/database/postgres"
	"github.com/devevents-app/devevents/internal/mailer"
	"github.com/devevents-app/devevents/pkg/queue"
)

// NotificationWorker drains booking notification tasks and turns them into
// outgoing email. It runs alongside the HTTP server and shares its queue.
type NotificationWorker struct {
	queue  queue.Queue
	events repository.EventRepository
	mailer mailer.Mailer
}

func NewNotificationWorker(q queue.Queue, events repository.EventRepository, m mailer.Mailer) *NotificationWorker {
	return &NotificationWorker{queue: q, events: events, mailer: m}
}

// Run blocks until the context is cancelled or the queue closes.
func (w *NotificationWorker) Run(ctx context.Context) error {
	logrus.Info("Notification worker started")
	return w.queue.Subscribe(ctx, func(task *queue.Task) error {
		taskCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		return w.handle(taskCtx, task)
	})
}

func (w *NotificationWorker) handle(ctx context.Context, task *queue.Task) error {
	email, _ := task.Data["email"].(string)
	eventID, _ := task.Data["event_id"].(string)
	if email == "" || eventID == "" {
		// Malformed tasks retry like any other failure and land in the
		// dead letter queue once their attempts run out.
		return fmt.Errorf("task %s is missing email or event_id", task.ID)
	}

	event, err := w.events.GetByID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("failed to load event %s: %w", eventID, err)
	}

	switch task.Type {
	case queue.TaskTypeBookingConfirmation:
		return w.mailer.SendBookingConfirmation(email, event)
	case queue.TaskTypeBookingCancellation:
		return w.mailer.SendBookingCancellation(email, event)
	default:
		return fmt.Errorf("unknown task type %q", task.Type)
	}
}
