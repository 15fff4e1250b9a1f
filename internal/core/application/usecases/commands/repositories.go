// Package commands contains the operations that change fulfillment and
// shipping catalog state. Every handler validates its command, opens a unit of
// work, mutates aggregates through their methods and commits.
package commands

import (
	"context"

	"fulfillment/internal/core/ports"
)

type (
	// TxManager handles the transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	FulfillmentRepoFactory interface {
		FulfillmentRepository() ports.FulfillmentRepository
	}

	ShippingZoneRepoFactory interface {
		ShippingZoneRepository() ports.ShippingZoneRepository
	}

	ShippingMethodRepoFactory interface {
		ShippingMethodRepository() ports.ShippingMethodRepository
	}

	ShippingRateRepoFactory interface {
		ShippingRateRepository() ports.ShippingRateRepository
	}

	// FulfillmentUoW is used by commands that only touch fulfillments.
	FulfillmentUoW interface {
		TxManager
		FulfillmentRepoFactory
	}

	FulfillmentUoWFactory interface {
		Create() FulfillmentUoW
	}

	// CatalogUoW is used by commands that write zones, methods and rates.
	// Rate writes check that the referenced zone and method exist in the
	// same transaction.
	CatalogUoW interface {
		TxManager
		ShippingZoneRepoFactory
		ShippingMethodRepoFactory
		ShippingRateRepoFactory
	}

	CatalogUoWFactory interface {
		Create() CatalogUoW
	}
)
