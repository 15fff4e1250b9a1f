package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipping"
)

type ShippingZoneRepository interface {
	Add(ctx context.Context, zone *shipping.Zone) error
	Update(ctx context.Context, zone *shipping.Zone) error
	Get(ctx context.Context, id kernel.UUID) (*shipping.Zone, error)
	GetByName(ctx context.Context, name string) (*shipping.Zone, error)

	// List returns every zone in creation order.
	List(ctx context.Context) ([]*shipping.Zone, error)
}

type ShippingMethodRepository interface {
	Add(ctx context.Context, method *shipping.Method) error
	Update(ctx context.Context, method *shipping.Method) error
	Get(ctx context.Context, id kernel.UUID) (*shipping.Method, error)
	GetByCode(ctx context.Context, code string) (*shipping.Method, error)

	// ListActive returns active methods in creation order.
	ListActive(ctx context.Context) ([]*shipping.Method, error)
}

type ShippingRateRepository interface {
	Add(ctx context.Context, rate *shipping.Rate) error
	Update(ctx context.Context, rate *shipping.Rate) error
	Get(ctx context.Context, id kernel.UUID) (*shipping.Rate, error)

	// FindByZoneAndMethod returns the active rate with the lowest priority
	// value for the pair, or errs.ErrObjectNotFound.
	FindByZoneAndMethod(ctx context.Context, zoneID, methodID kernel.UUID) (*shipping.Rate, error)
}
