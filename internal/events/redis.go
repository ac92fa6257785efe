package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// DefaultChannel канал Redis для событий бронирований
const DefaultChannel = "bookings.status"

// RedisClient минимальный набор команд Redis
type RedisClient interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisPublisher публикует события в Redis pub/sub в формате JSON
type RedisPublisher struct {
	client  RedisClient
	channel string
}

func NewRedisPublisher(client RedisClient, channel string) *RedisPublisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisPublisher{client: client, channel: channel}
}

func (p *RedisPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: marshal: %v", ErrPublish, err)
	}

	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("%w: redis publish to %s: %v", ErrPublish, p.channel, err)
	}
	return nil
}
