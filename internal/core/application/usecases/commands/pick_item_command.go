package commands

import (
	"errors"
	"slices"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrPickItemCommandIsNotConstructed = errors.New(
	"PickItemCommand must be created via NewPickItemCommand constructor",
)

// PickItemCommand records units of one fulfillment line taken from the shelf.
type PickItemCommand struct {
	fulfillmentID kernel.UUID
	itemID        kernel.UUID
	quantity      int
	serialNumbers []string

	guard guard.ConstructorGuard
}

func NewPickItemCommand(
	fulfillmentID, itemID kernel.UUID,
	quantity int,
	serialNumbers []string,
) (PickItemCommand, error) {
	var qtyErr error
	if quantity <= 0 {
		qtyErr = errs.NewValueIsOutOfRangeError("quantity", quantity, 1, "unbounded")
	}
	if err := errors.Join(fulfillmentID.Validate(), itemID.Validate(), qtyErr); err != nil {
		return PickItemCommand{}, err
	}

	return PickItemCommand{
		fulfillmentID: fulfillmentID,
		itemID:        itemID,
		quantity:      quantity,
		serialNumbers: slices.Clone(serialNumbers),
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (c PickItemCommand) Validate() error {
	return c.guard.Validate(ErrPickItemCommandIsNotConstructed)
}

func (c PickItemCommand) FulfillmentID() kernel.UUID { return c.fulfillmentID }
func (c PickItemCommand) ItemID() kernel.UUID        { return c.itemID }
func (c PickItemCommand) Quantity() int              { return c.quantity }
func (c PickItemCommand) SerialNumbers() []string    { return slices.Clone(c.serialNumbers) }
