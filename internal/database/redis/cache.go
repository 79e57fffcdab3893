package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/devevents-app/devevents/internal/entity"

	"github.com/go-redis/redis/v8"
)

// EventCache is a slug-keyed read-through cache for single event fetches,
// the hottest read path. Mutations must invalidate through Delete.
type EventCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewEventCache(client *redis.Client, ttl time.Duration) *EventCache {
	return &EventCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *EventCache) key(slug string) string {
	return "event:slug:" + slug
}

func (c *EventCache) Set(ctx context.Context, event *entity.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, c.key(event.Slug), data, c.ttl).Err()
}

// Get returns the cached event or redis.Nil when absent.
func (c *EventCache) Get(ctx context.Context, slug string) (*entity.Event, error) {
	data, err := c.client.Get(ctx, c.key(slug)).Result()
	if err != nil {
		return nil, err
	}

	var event entity.Event
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return nil, err
	}

	return &event, nil
}

func (c *EventCache) Delete(ctx context.Context, slug string) error {
	return c.client.Del(ctx, c.key(slug)).Err()
}
