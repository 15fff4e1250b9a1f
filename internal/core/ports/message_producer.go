package ports

import (
	"context"
	"errors"

	"fulfillment/internal/pkg/outbox"
)

// ErrProducerUnavailable means the broker is not accepting messages right
// now; callers should stop the current batch rather than count a failure
// against each event.
var ErrProducerUnavailable = errors.New("message producer unavailable")

// MessageProducer delivers one outbox event to the message broker.
type MessageProducer interface {
	Publish(ctx context.Context, event *outbox.Event) error
}
