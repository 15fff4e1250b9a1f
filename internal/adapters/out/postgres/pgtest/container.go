// Package pgtest starts a throwaway PostgreSQL container for integration
// suites and migrates every table the adapters use.
package pgtest

import (
	"context"
	"time"

	"fulfillment/internal/adapters/out/postgres"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Tables lists every table in truncation order.
var Tables = []string{"fulfillment_items", "fulfillments", "shipping_rates", "shipping_methods", "shipping_zones", "outbox_events"}

// Start runs postgres:15-alpine and returns a migrated connection.
func Start(ctx context.Context) (*tcpostgres.PostgresContainer, *gorm.DB, error) {
	container, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, nil, err
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return container, nil, err
	}

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{Logger: logger.Discard, TranslateError: true})
	if err != nil {
		return container, nil, err
	}
	if err = postgres.Migrate(db); err != nil {
		return container, nil, err
	}
	return container, db, nil
}

// Truncate empties every table.
func Truncate(db *gorm.DB) error {
	for _, table := range Tables {
		if err := db.Exec("TRUNCATE TABLE " + table + " CASCADE").Error; err != nil {
			return err
		}
	}
	return nil
}
