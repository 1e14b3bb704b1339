package messaging

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type redisPublisher struct {
	client *redis.Client
}

// NewRedisPublisher publishes to the topic channel and to a per-key
// channel "<topic>:<key>" so consumers can follow a single entity.
func NewRedisPublisher(client *redis.Client) Publisher {
	return &redisPublisher{client: client}
}

func (p *redisPublisher) Publish(ctx context.Context, topic, key string, message interface{}) error {
	payload, err := encode(message)
	if err != nil {
		return err
	}

	if err := p.client.Publish(ctx, topic, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish to redis channel %s: %w", topic, err)
	}

	if key != "" {
		channel := fmt.Sprintf("%s:%s", topic, key)
		if err := p.client.Publish(ctx, channel, payload).Err(); err != nil {
			return fmt.Errorf("failed to publish to redis channel %s: %w", channel, err)
		}
	}

	return nil
}

// Close is a no-op: the redis client is shared and closed by its owner.
func (p *redisPublisher) Close() error {
	return nil
}
