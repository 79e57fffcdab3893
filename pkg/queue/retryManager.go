package queue

import (
	"math"
	"math/rand"
	"time"
)

// RetryManager decides whether a failed task should be retried and with
// what delay. Delays grow exponentially with a small jitter so that a burst
// of failures does not retry in lockstep.
type RetryManager struct {
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

// NewRetryManager creates a new RetryManager.
func NewRetryManager(maxRetries int, baseDelay time.Duration) *RetryManager {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	if baseDelay <= 0 {
		baseDelay = defaultBaseDelay
	}
	return &RetryManager{
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		maxDelay:   10 * time.Minute,
	}
}

// ShouldRetry reports whether the task has retry budget left and, if so,
// the delay before the next attempt.
func (m *RetryManager) ShouldRetry(task *Task, err error) (bool, time.Duration) {
	maxRetries := task.MaxRetries
	if maxRetries == 0 {
		maxRetries = m.maxRetries
	}
	if task.Attempts >= maxRetries {
		return false, 0
	}
	return true, m.nextDelay(task.Attempts)
}

func (m *RetryManager) nextDelay(attempt int) time.Duration {
	delay := time.Duration(float64(m.baseDelay) * math.Pow(2, float64(attempt-1)))
	if delay > m.maxDelay {
		delay = m.maxDelay
	}
	// Up to 20% jitter.
	jitter := time.Duration(rand.Int63n(int64(delay)/5 + 1))
	return delay + jitter
}
