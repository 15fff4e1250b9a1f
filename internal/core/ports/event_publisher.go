package ports

import "context"

// EventPublisher announces lifecycle events. Emit never fails the caller:
// delivery problems are handled (and logged) by the implementation.
type EventPublisher interface {
	Emit(ctx context.Context, aggregateID, name string, payload any)
}
