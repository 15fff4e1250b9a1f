package commands

import (
	"errors"
	"slices"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipping"
	"fulfillment/internal/pkg/guard"
)

var ErrSaveShippingRateCommandIsNotConstructed = errors.New(
	"SaveShippingRateCommand must be created via NewSaveShippingRateCommand constructor",
)

// SaveShippingRateCommand creates the rate with the given id or replaces it.
// The referenced zone and method must exist.
type SaveShippingRateCommand struct {
	rateID kernel.UUID
	fields shipping.RateFields

	guard guard.ConstructorGuard
}

func NewSaveShippingRateCommand(rateID kernel.UUID, fields shipping.RateFields) (SaveShippingRateCommand, error) {
	if err := errors.Join(
		rateID.Validate(),
		fields.ZoneID.Validate(),
		fields.MethodID.Validate(),
		fields.Type.Validate(),
	); err != nil {
		return SaveShippingRateCommand{}, err
	}
	fields.Tiers = slices.Clone(fields.Tiers)

	return SaveShippingRateCommand{rateID: rateID, fields: fields, guard: guard.NewConstructorGuard()}, nil
}

func (c SaveShippingRateCommand) Validate() error {
	return c.guard.Validate(ErrSaveShippingRateCommandIsNotConstructed)
}

func (c SaveShippingRateCommand) RateID() kernel.UUID { return c.rateID }

func (c SaveShippingRateCommand) Fields() shipping.RateFields {
	f := c.fields
	f.Tiers = slices.Clone(c.fields.Tiers)
	return f
}
