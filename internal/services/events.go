package services

import (
	"context"

	"facilitae/internal/amqp"
)

// EventPublisher publishes entity-change events. Services treat a nil
// publisher as "events disabled" and never fail a request because a
// publish failed; the write to the store already succeeded.
type EventPublisher interface {
	PublishEntityEvent(ctx context.Context, event *amqp.EntityEvent) error
}

func publishEvent(ctx context.Context, events EventPublisher, logger logger, entity, action, id, groupID string) {
	if events == nil {
		return
	}
	if err := events.PublishEntityEvent(ctx, amqp.NewEntityEvent(entity, action, id, groupID)); err != nil {
		logger.ErrorContext(ctx, "Failed to publish entity event",
			"error", err,
			"entity", entity,
			"action", action,
			"id", id)
	}
}

// logger is the subset of *log.Logger the services need.
type logger interface {
	InfoContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
}
