package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/shipping"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrUpsertShippingMethodCommandIsNotConstructed = errors.New(
	"UpsertShippingMethodCommand must be created via NewUpsertShippingMethodCommand constructor",
)

// UpsertShippingMethodCommand creates a method or replaces the method with the
// same code. Codes are case-insensitive.
type UpsertShippingMethodCommand struct {
	fields shipping.MethodFields

	guard guard.ConstructorGuard
}

func NewUpsertShippingMethodCommand(fields shipping.MethodFields) (UpsertShippingMethodCommand, error) {
	fields.Code = strings.ToLower(strings.TrimSpace(fields.Code))
	if fields.Code == "" {
		return UpsertShippingMethodCommand{}, errs.NewValueIsRequiredError("method code")
	}
	return UpsertShippingMethodCommand{fields: fields, guard: guard.NewConstructorGuard()}, nil
}

func (c UpsertShippingMethodCommand) Validate() error {
	return c.guard.Validate(ErrUpsertShippingMethodCommandIsNotConstructed)
}

func (c UpsertShippingMethodCommand) Fields() shipping.MethodFields {
	return c.fields
}
