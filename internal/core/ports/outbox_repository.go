package ports

import (
	"context"

	"fulfillment/internal/pkg/outbox"
)

// OutboxRepository stores integration events until the relay delivers them.
type OutboxRepository interface {
	Save(ctx context.Context, event *outbox.Event) error

	// FindUnpublished returns up to limit pending events that may still be
	// retried, oldest first.
	FindUnpublished(ctx context.Context, limit int) ([]*outbox.Event, error)

	MarkPublished(ctx context.Context, eventID string) error
	IncrementRetry(ctx context.Context, eventID string, errorMsg string) error
}
