package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/inventario/internal/core/domain"
	"github.com/rl1809/inventario/internal/port"
)

var (
	_ port.RateLimiter    = (*RedisAdapter)(nil)
	_ port.EventPublisher = (*RedisAdapter)(nil)
)

const (
	rateLimitKeyPrefix = "rate_limit:"
	// EventsChannel carries one JSON message per committed change.
	EventsChannel = "inventario:events"
)

// rateLimitScript counts a hit and starts the window on the first one, so a
// key can never be left without an expiry.
var rateLimitScript = redis.NewScript(`
local key = KEYS[1]
local window = tonumber(ARGV[1])

local current = redis.call('INCR', key)
if current == 1 then
	redis.call('PEXPIRE', key, window)
end

return current
`)

type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func (r *RedisAdapter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	count, err := rateLimitScript.Run(ctx, r.client, []string{rateLimitKeyPrefix + key}, window.Milliseconds()).Int()
	if err != nil {
		return false, err
	}
	return count <= limit, nil
}

type eventMessage struct {
	Entity string    `json:"entity"`
	Action string    `json:"action"`
	ID     uint      `json:"id"`
	At     time.Time `json:"at"`
}

func (r *RedisAdapter) Publish(ctx context.Context, event domain.Event) error {
	payload, err := json.Marshal(eventMessage{
		Entity: string(event.Entity),
		Action: string(event.Action),
		ID:     event.ID,
		At:     event.At.UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	return r.client.Publish(ctx, EventsChannel, payload).Err()
}
