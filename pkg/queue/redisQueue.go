package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const (
	defaultMaxRetries = 3
	defaultBaseDelay  = 5 * time.Second
	popTimeout        = 5 * time.Second
	delayedBatchSize  = 10
)

// RedisQueueConfig contains configuration for RedisQueue.
type RedisQueueConfig struct {
	MainQueue  string
	DelayedSet string
	DLQ        string
	MaxRetries int
	BaseDelay  time.Duration
}

// DefaultRedisQueueConfig returns default configuration.
func DefaultRedisQueueConfig() *RedisQueueConfig {
	return &RedisQueueConfig{
		MainQueue:  "devevents:tasks",
		DelayedSet: "devevents:tasks:delayed",
		DLQ:        "devevents:dlq",
		MaxRetries: defaultMaxRetries,
		BaseDelay:  defaultBaseDelay,
	}
}

// RedisQueue implements Queue on top of a redis list (ready tasks) and a
// sorted set (delayed tasks, scored by execute-at). The client is injected;
// the queue never owns the connection.
type RedisQueue struct {
	client       *redis.Client
	mainQueue    string
	delayedSet   string
	retryManager *RetryManager
	dlqHandler   DLQHandler
	stopChan     chan struct{}
}

// NewRedisQueue creates a new RedisQueue instance.
func NewRedisQueue(client *redis.Client, cfg *RedisQueueConfig, retryManager *RetryManager, dlqHandler DLQHandler) (*RedisQueue, error) {
	if cfg == nil {
		cfg = DefaultRedisQueueConfig()
	}
	if retryManager == nil {
		retryManager = NewRetryManager(cfg.MaxRetries, cfg.BaseDelay)
	}
	if dlqHandler == nil {
		dlqHandler = NewDefaultDLQHandler(client, cfg.DLQ)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisQueue{
		client:       client,
		mainQueue:    cfg.MainQueue,
		delayedSet:   cfg.DelayedSet,
		retryManager: retryManager,
		dlqHandler:   dlqHandler,
		stopChan:     make(chan struct{}),
	}, nil
}

// Publish sends a task to the queue. Tasks scheduled in the future land in
// the delayed set and are moved to the main queue when due.
func (r *RedisQueue) Publish(ctx context.Context, task *Task) error {
	if task == nil {
		return fmt.Errorf("task cannot be nil")
	}
	if task.ID == "" || task.Type == "" {
		return fmt.Errorf("task id and type are required")
	}
	if task.MaxRetries == 0 {
		task.MaxRetries = r.retryManager.maxRetries
	}

	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	if task.ExecuteAt.After(time.Now()) {
		return r.client.ZAdd(ctx, r.delayedSet, &redis.Z{
			Score:  float64(task.ExecuteAt.Unix()),
			Member: data,
		}).Err()
	}

	return r.client.LPush(ctx, r.mainQueue, data).Err()
}

// Subscribe blocks, delivering ready tasks to the handler one at a time.
// Failed tasks are rescheduled with backoff until their retry budget is
// spent, then handed to the DLQ.
func (r *RedisQueue) Subscribe(ctx context.Context, handler func(*Task) error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.stopChan:
			return nil
		default:
		}

		if err := r.promoteDelayed(ctx); err != nil {
			logrus.Errorf("Failed to promote delayed tasks: %v", err)
		}

		result, err := r.client.BRPop(ctx, popTimeout, r.mainQueue).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logrus.Errorf("Queue pop failed: %v", err)
			time.Sleep(time.Second)
			continue
		}

		var task Task
		if err := json.Unmarshal([]byte(result[1]), &task); err != nil {
			logrus.Errorf("Failed to unmarshal task, dropping: %v", err)
			continue
		}

		r.process(ctx, &task, handler)
	}
}

func (r *RedisQueue) process(ctx context.Context, task *Task, handler func(*Task) error) {
	err := handler(task)
	if err == nil {
		return
	}

	task.Attempts++
	retry, delay := r.retryManager.ShouldRetry(task, err)
	if retry {
		logrus.Warnf("Task %s failed (attempt %d/%d), retrying in %s: %v",
			task.ID, task.Attempts, task.MaxRetries, delay, err)
		task.ExecuteAt = time.Now().Add(delay)
		if pubErr := r.Publish(ctx, task); pubErr != nil {
			logrus.Errorf("Failed to reschedule task %s: %v", task.ID, pubErr)
		}
		return
	}

	logrus.Errorf("Task %s exhausted retries, moving to DLQ: %v", task.ID, err)
	if dlqErr := r.dlqHandler.Handle(ctx, task, err); dlqErr != nil {
		logrus.Errorf("Failed to move task %s to DLQ: %v", task.ID, dlqErr)
	}
}

// promoteDelayed moves due tasks from the delayed set to the main queue.
func (r *RedisQueue) promoteDelayed(ctx context.Context) error {
	now := fmt.Sprintf("%d", time.Now().Unix())

	members, err := r.client.ZRangeByScore(ctx, r.delayedSet, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   now,
		Count: delayedBatchSize,
	}).Result()
	if err != nil {
		return err
	}

	for _, member := range members {
		removed, err := r.client.ZRem(ctx, r.delayedSet, member).Result()
		if err != nil {
			return err
		}
		// Another consumer took this one.
		if removed == 0 {
			continue
		}
		if err := r.client.LPush(ctx, r.mainQueue, member).Err(); err != nil {
			return err
		}
	}

	return nil
}

func (r *RedisQueue) Close() error {
	close(r.stopChan)
	return nil
}
