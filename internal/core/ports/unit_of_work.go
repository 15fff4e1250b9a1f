package ports

import (
	"context"
)

// UnitOfWorkFactory creates a fresh UnitOfWork per command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a business transaction boundary. Repositories obtained from
// it after Begin share the transaction.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	FulfillmentRepository() FulfillmentRepository
	ShippingZoneRepository() ShippingZoneRepository
	ShippingMethodRepository() ShippingMethodRepository
	ShippingRateRepository() ShippingRateRepository
}
