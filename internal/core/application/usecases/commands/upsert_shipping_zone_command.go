package commands

import (
	"errors"
	"slices"
	"strings"

	"fulfillment/internal/core/domain/model/shipping"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrUpsertShippingZoneCommandIsNotConstructed = errors.New(
	"UpsertShippingZoneCommand must be created via NewUpsertShippingZoneCommand constructor",
)

// UpsertShippingZoneCommand creates a zone or replaces the zone with the same
// name. Pattern syntax is checked by the zone itself when the command is handled.
type UpsertShippingZoneCommand struct {
	fields shipping.ZoneFields

	guard guard.ConstructorGuard
}

func NewUpsertShippingZoneCommand(fields shipping.ZoneFields) (UpsertShippingZoneCommand, error) {
	fields.Name = strings.TrimSpace(fields.Name)
	if fields.Name == "" {
		return UpsertShippingZoneCommand{}, errs.NewValueIsRequiredError("zone name")
	}
	fields.Inclusions = slices.Clone(fields.Inclusions)
	fields.Exclusions = slices.Clone(fields.Exclusions)

	return UpsertShippingZoneCommand{fields: fields, guard: guard.NewConstructorGuard()}, nil
}

func (c UpsertShippingZoneCommand) Validate() error {
	return c.guard.Validate(ErrUpsertShippingZoneCommandIsNotConstructed)
}

func (c UpsertShippingZoneCommand) Fields() shipping.ZoneFields {
	f := c.fields
	f.Inclusions = slices.Clone(c.fields.Inclusions)
	f.Exclusions = slices.Clone(c.fields.Exclusions)
	return f
}
