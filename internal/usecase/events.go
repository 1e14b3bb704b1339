package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/event"
	"github.com/fitrahmoef/Saintara-Mobile/pkg/messaging"
)

const publishTimeout = 5 * time.Second

// EventPublisher publishes integration events after a transaction commits.
// Delivery is best effort: failures are logged, never returned.
type EventPublisher struct {
	publisher messaging.Publisher
	topic     string
	logger    *zap.Logger
}

// NewEventPublisher creates a new event publisher on topic
func NewEventPublisher(publisher messaging.Publisher, topic string, logger *zap.Logger) *EventPublisher {
	if publisher == nil {
		publisher = messaging.NoopPublisher{}
	}
	return &EventPublisher{
		publisher: publisher,
		topic:     topic,
		logger:    logger,
	}
}

func (p *EventPublisher) publish(ctx context.Context, eventType, key string, data interface{}) {
	if p == nil {
		return
	}

	// The request may be finished by the time the broker answers
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := p.publisher.Publish(ctx, p.topic, key, event.New(eventType, data)); err != nil {
		p.logger.Warn("Failed to publish event",
			zap.String("event_type", eventType),
			zap.String("key", key),
			zap.Error(err))
	}
}
