package queue

import (
	"context"
	"time"
)

// Task types processed by the notification worker.
const (
	TaskTypeBookingConfirmation = "booking_confirmation"
	TaskTypeBookingCancellation = "booking_cancellation"
)

// Task is one unit of deferred work. Data is a flat JSON object so tasks
// survive a round trip through redis without type information.
type Task struct {
	ID         string                 `json:"id"`
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	ExecuteAt  time.Time              `json:"execute_at"`
	MaxRetries int                    `json:"max_retries"`
	Attempts   int                    `json:"attempts"`
}

type Queue interface {
	Publish(ctx context.Context, task *Task) error
	Subscribe(ctx context.Context, handler func(*Task) error) error
	Close() error
}
