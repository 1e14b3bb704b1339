// Package messaging publishes JSON events to a message broker.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
)

// Publisher delivers a message to a topic. key is a partitioning or
// routing hint; brokers without that notion may ignore it.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, message interface{}) error
	Close() error
}

func encode(message interface{}) ([]byte, error) {
	payload, err := json.Marshal(message)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}
	return payload, nil
}

// NoopPublisher drops every message
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, topic, key string, message interface{}) error {
	return nil
}

func (NoopPublisher) Close() error {
	return nil
}
