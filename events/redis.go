package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// DefaultChannel is the pub/sub channel analytics events are published to.
const DefaultChannel = "clinical-analytics-events"

// RedisPublisher implements Publisher on Redis pub/sub.
type RedisPublisher struct {
	client  *redis.Client
	channel string
	logger  *slog.Logger
}

var _ Publisher = (*RedisPublisher)(nil)

// NewRedisPublisher creates a publisher connected to the given Redis address.
// The connection is verified with a ping before the publisher is returned.
// An empty channel selects DefaultChannel.
func NewRedisPublisher(ctx context.Context, addr, channel string) (*RedisPublisher, error) {
	if channel == "" {
		channel = DefaultChannel
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return &RedisPublisher{
		client:  client,
		channel: channel,
		logger:  slog.Default().With("component", "redis-publisher"),
	}, nil
}

// Publish serializes the event as JSON and publishes it to the channel.
func (p *RedisPublisher) Publish(ctx context.Context, event *AnalyticsEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug("published analytics event", "type", event.Type, "channel", p.channel)
	return nil
}

// Ping verifies the Redis connection. Used by platform health checks.
func (p *RedisPublisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
