package queue

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShouldRetryWithinBudget(t *testing.T) {
	m := NewRetryManager(3, time.Second)

	task := &Task{ID: "t1", MaxRetries: 3, Attempts: 1}
	retry, delay := m.ShouldRetry(task, errors.New("boom"))

	assert.True(t, retry)
	assert.GreaterOrEqual(t, delay, time.Second)
}

func TestShouldRetryExhausted(t *testing.T) {
	m := NewRetryManager(3, time.Second)

	task := &Task{ID: "t1", MaxRetries: 3, Attempts: 3}
	retry, _ := m.ShouldRetry(task, errors.New("boom"))

	assert.False(t, retry)
}

func TestRetryDelayGrows(t *testing.T) {
	m := NewRetryManager(5, time.Second)

	_, first := m.ShouldRetry(&Task{MaxRetries: 5, Attempts: 1}, errors.New("boom"))
	_, third := m.ShouldRetry(&Task{MaxRetries: 5, Attempts: 3}, errors.New("boom"))

	// Jitter adds at most 20%, so the growth always dominates.
	assert.Greater(t, third, first)
}

func TestRetryDelayCapped(t *testing.T) {
	m := NewRetryManager(100, time.Minute)

	_, delay := m.ShouldRetry(&Task{MaxRetries: 100, Attempts: 50}, errors.New("boom"))
	assert.LessOrEqual(t, delay, 12*time.Minute)
}

func TestTaskMaxRetriesFallsBackToManager(t *testing.T) {
	m := NewRetryManager(2, time.Second)

	retry, _ := m.ShouldRetry(&Task{Attempts: 2}, errors.New("boom"))
	assert.False(t, retry)
}
