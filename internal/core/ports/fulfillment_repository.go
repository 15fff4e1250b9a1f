// Package ports defines the contracts between the fulfillment core and its
// infrastructure: repositories, the unit of work and the event publisher.
package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/kernel"
)

// FulfillmentRepository persists fulfillment aggregates together with their items.
type FulfillmentRepository interface {
	// Add persists a new fulfillment at version 0.
	Add(ctx context.Context, aggregate *fulfillment.Fulfillment) error

	// Update writes the aggregate and its items if the stored version still
	// equals aggregate.Version(), then advances the version. A stale version
	// yields errs.ErrVersionIsInvalid.
	Update(ctx context.Context, aggregate *fulfillment.Fulfillment) error

	// Get returns the fulfillment with its items, or errs.ErrObjectNotFound.
	Get(ctx context.Context, id kernel.UUID) (*fulfillment.Fulfillment, error)
}
