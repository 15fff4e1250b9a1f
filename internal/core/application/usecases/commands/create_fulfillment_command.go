package commands

import (
	"errors"
	"slices"

	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrCreateFulfillmentCommandIsNotConstructed = errors.New(
	"CreateFulfillmentCommand must be created via NewCreateFulfillmentCommand constructor",
)

// CreateFulfillmentCommand registers a new pending fulfillment for an order.
// Params.Items is ignored; the lines come from items and get fresh ids.
//
// Example:
//
//	cmd, err := NewCreateFulfillmentCommand(kernel.NewUUID(), fulfillment.Params{
//	    OrderID:    "ord-1001",
//	    SourceType: fulfillment.SourceWarehouse,
//	    SourceID:   "wh-east",
//	    ShipTo:     shipTo,
//	}, []fulfillment.ItemFields{{SKU: "TSHIRT-M", QuantityOrdered: 2}})
type CreateFulfillmentCommand struct {
	fulfillmentID kernel.UUID
	params        fulfillment.Params
	items         []fulfillment.ItemFields

	guard guard.ConstructorGuard
}

func NewCreateFulfillmentCommand(
	fulfillmentID kernel.UUID,
	params fulfillment.Params,
	items []fulfillment.ItemFields,
) (CreateFulfillmentCommand, error) {
	var itemsErr error
	if len(items) == 0 {
		itemsErr = errs.NewValueIsRequiredError("items")
	}
	if err := errors.Join(
		fulfillmentID.Validate(),
		params.SourceType.Validate(),
		itemsErr,
	); err != nil {
		return CreateFulfillmentCommand{}, err
	}

	params.Items = nil
	return CreateFulfillmentCommand{
		fulfillmentID: fulfillmentID,
		params:        params,
		items:         slices.Clone(items),
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (c CreateFulfillmentCommand) Validate() error {
	return c.guard.Validate(ErrCreateFulfillmentCommandIsNotConstructed)
}

func (c CreateFulfillmentCommand) FulfillmentID() kernel.UUID {
	return c.fulfillmentID
}

func (c CreateFulfillmentCommand) Params() fulfillment.Params {
	return c.params
}

func (c CreateFulfillmentCommand) Items() []fulfillment.ItemFields {
	return slices.Clone(c.items)
}
