package catalogfile

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

type zoneUpserter interface {
	Handle(ctx context.Context, cmd commands.UpsertShippingZoneCommand) (kernel.UUID, error)
}

type methodUpserter interface {
	Handle(ctx context.Context, cmd commands.UpsertShippingMethodCommand) (kernel.UUID, error)
}

type rateSaver interface {
	Handle(ctx context.Context, cmd commands.SaveShippingRateCommand) error
}

// Summary counts the entries written by Seed.
type Summary struct {
	Zones   int
	Methods int
	Rates   int
}

// Seeder writes a Catalog entry by entry. Each entry is its own transaction,
// so a failure leaves the entries before it in place.
type Seeder struct {
	zones   zoneUpserter
	methods methodUpserter
	rates   rateSaver
	logger  *slog.Logger
}

func NewSeeder(zones zoneUpserter, methods methodUpserter, rates rateSaver, logger *slog.Logger) *Seeder {
	return &Seeder{
		zones:   zones,
		methods: methods,
		rates:   rates,
		logger:  logger.With("component", "catalog_seeder"),
	}
}

func (s *Seeder) Seed(ctx context.Context, c Catalog) (Summary, error) {
	var summary Summary

	zoneIDs := make(map[string]kernel.UUID, len(c.Zones))
	for i, z := range c.Zones {
		cmd, err := commands.NewUpsertShippingZoneCommand(z.Fields())
		if err != nil {
			return summary, fmt.Errorf("zones[%d]: %w", i, err)
		}
		id, err := s.zones.Handle(ctx, cmd)
		if err != nil {
			return summary, fmt.Errorf("zones[%d] %q: %w", i, z.Name, err)
		}
		zoneIDs[strings.TrimSpace(z.Name)] = id
		summary.Zones++
	}

	methodIDs := make(map[string]kernel.UUID, len(c.Methods))
	for i, m := range c.Methods {
		fields, err := m.Fields()
		if err != nil {
			return summary, fmt.Errorf("methods[%d]: %w", i, err)
		}
		cmd, err := commands.NewUpsertShippingMethodCommand(fields)
		if err != nil {
			return summary, fmt.Errorf("methods[%d]: %w", i, err)
		}
		id, err := s.methods.Handle(ctx, cmd)
		if err != nil {
			return summary, fmt.Errorf("methods[%d] %q: %w", i, m.Code, err)
		}
		methodIDs[strings.ToLower(strings.TrimSpace(m.Code))] = id
		summary.Methods++
	}

	for i, r := range c.Rates {
		if err := s.seedRate(ctx, r, zoneIDs, methodIDs); err != nil {
			return summary, fmt.Errorf("rates[%d]: %w", i, err)
		}
		summary.Rates++
	}

	s.logger.InfoContext(ctx, "Shipping catalog seeded",
		"zones", summary.Zones, "methods", summary.Methods, "rates", summary.Rates)
	return summary, nil
}

func (s *Seeder) seedRate(ctx context.Context, r RateEntry, zoneIDs, methodIDs map[string]kernel.UUID) error {
	rateID, err := kernel.UUIDFromString(r.ID)
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("rate id", err)
	}
	zoneID, ok := zoneIDs[strings.TrimSpace(r.Zone)]
	if !ok {
		return errs.NewObjectNotFoundError("zone", r.Zone)
	}
	methodID, ok := methodIDs[strings.ToLower(strings.TrimSpace(r.Method))]
	if !ok {
		return errs.NewObjectNotFoundError("method", r.Method)
	}

	fields, err := r.Fields(zoneID, methodID)
	if err != nil {
		return err
	}
	cmd, err := commands.NewSaveShippingRateCommand(rateID, fields)
	if err != nil {
		return err
	}
	return s.rates.Handle(ctx, cmd)
}
