package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrPackItemCommandIsNotConstructed = errors.New(
	"PackItemCommand must be created via NewPackItemCommand constructor",
)

// PackItemCommand records units of one fulfillment line put into a parcel.
type PackItemCommand struct {
	fulfillmentID kernel.UUID
	itemID        kernel.UUID
	quantity      int

	guard guard.ConstructorGuard
}

func NewPackItemCommand(fulfillmentID, itemID kernel.UUID, quantity int) (PackItemCommand, error) {
	var qtyErr error
	if quantity <= 0 {
		qtyErr = errs.NewValueIsOutOfRangeError("quantity", quantity, 1, "unbounded")
	}
	if err := errors.Join(fulfillmentID.Validate(), itemID.Validate(), qtyErr); err != nil {
		return PackItemCommand{}, err
	}

	return PackItemCommand{
		fulfillmentID: fulfillmentID,
		itemID:        itemID,
		quantity:      quantity,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (c PackItemCommand) Validate() error {
	return c.guard.Validate(ErrPackItemCommandIsNotConstructed)
}

func (c PackItemCommand) FulfillmentID() kernel.UUID { return c.fulfillmentID }
func (c PackItemCommand) ItemID() kernel.UUID        { return c.itemID }
func (c PackItemCommand) Quantity() int              { return c.quantity }
