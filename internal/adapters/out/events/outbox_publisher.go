// Package events turns emitted domain events into outbox rows.
package events

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/outbox"
)

// OutboxPublisher implements ports.EventPublisher by appending to the outbox.
// It never reports failure to the caller: a lost event is logged, and the
// status change it describes stays committed.
type OutboxPublisher struct {
	repo          ports.OutboxRepository
	topic         string
	aggregateType string
	logger        *slog.Logger
	now           func() time.Time
}

func NewOutboxPublisher(repo ports.OutboxRepository, topic string, logger *slog.Logger) *OutboxPublisher {
	return &OutboxPublisher{
		repo:          repo,
		topic:         topic,
		aggregateType: "fulfillment",
		logger:        logger.With("component", "outbox_publisher"),
		now:           time.Now,
	}
}

func (p *OutboxPublisher) Emit(ctx context.Context, aggregateID, name string, payload any) {
	event, err := outbox.NewEvent(aggregateID, p.aggregateType, name, p.topic, payload, p.now().UTC())
	if err != nil {
		p.logger.ErrorContext(ctx, "Failed to encode event",
			"event_type", name, "aggregate_id", aggregateID, "error", err)
		return
	}

	if err = p.repo.Save(ctx, event); err != nil {
		p.logger.ErrorContext(ctx, "Failed to append event to outbox",
			"event_type", name, "aggregate_id", aggregateID, "error", err)
		return
	}

	p.logger.DebugContext(ctx, "Event appended to outbox",
		"event_id", event.ID, "event_type", name, "aggregate_id", aggregateID)
}
