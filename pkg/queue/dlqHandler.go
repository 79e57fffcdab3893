package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// DLQHandler receives tasks that exhausted their retry budget.
type DLQHandler interface {
	Handle(ctx context.Context, task *Task, taskErr error) error
}

// DeadTask is the envelope stored in the dead letter queue.
type DeadTask struct {
	Task     *Task     `json:"task"`
	Error    string    `json:"error"`
	FailedAt time.Time `json:"failed_at"`
}

// DefaultDLQHandler pushes dead tasks onto a redis list for later inspection.
type DefaultDLQHandler struct {
	client *redis.Client
	key    string
}

// NewDefaultDLQHandler creates a new DefaultDLQHandler.
func NewDefaultDLQHandler(client *redis.Client, key string) *DefaultDLQHandler {
	return &DefaultDLQHandler{client: client, key: key}
}

func (h *DefaultDLQHandler) Handle(ctx context.Context, task *Task, taskErr error) error {
	dead := DeadTask{
		Task:     task,
		Error:    taskErr.Error(),
		FailedAt: time.Now(),
	}

	data, err := json.Marshal(dead)
	if err != nil {
		return fmt.Errorf("failed to marshal dead task: %w", err)
	}

	if err := h.client.LPush(ctx, h.key, data).Err(); err != nil {
		return fmt.Errorf("failed to push task to DLQ: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"task_id":   task.ID,
		"task_type": task.Type,
		"attempts":  task.Attempts,
	}).Error("Task moved to dead letter queue")

	return nil
}
