package postgres

import (
	"fulfillment/internal/adapters/out/postgres/fulfillmentrepo"
	"fulfillment/internal/adapters/out/postgres/outboxrepo"
	"fulfillment/internal/adapters/out/postgres/shippingrepo"

	"gorm.io/gorm"
)

// Migrate creates or updates every table owned by the service.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&fulfillmentrepo.FulfillmentDTO{},
		&fulfillmentrepo.ItemDTO{},
		&shippingrepo.ZoneDTO{},
		&shippingrepo.MethodDTO{},
		&shippingrepo.RateDTO{},
		&outboxrepo.EventDTO{},
	)
}
