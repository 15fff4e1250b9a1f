package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrApplyFulfillmentActionCommandIsNotConstructed = errors.New(
	"ApplyFulfillmentActionCommand must be created via NewApplyFulfillmentActionCommand constructor",
)

// ActionContext carries the optional inputs of an action. Which fields are
// read depends on the action: ship reads the tracking and carrier fields,
// complete_packing the parcel fields, in_transit and out_for_delivery the
// location, and fail, return and cancel the reason.
type ActionContext struct {
	TrackingNumber string
	TrackingURL    string
	CarrierID      string
	CarrierName    string
	Weight         *decimal.Decimal
	PackageCount   *int
	Dimensions     *fulfillment.Dimensions
	Location       string
	Reason         string
}

// ApplyFulfillmentActionCommand asks for a named action to be applied to a
// fulfillment.
//
// Example:
//
//	cmd, err := NewApplyFulfillmentActionCommand(id, "ship", ActionContext{TrackingNumber: "1Z999"})
//	if err != nil {
//	    return err
//	}
//	result, err := handler.Handle(ctx, cmd)
type ApplyFulfillmentActionCommand struct {
	fulfillmentID kernel.UUID
	action        fulfillment.Action
	context       ActionContext

	guard guard.ConstructorGuard
}

// NewApplyFulfillmentActionCommand checks the identifier and that an action
// name is present. Whether the action exists is decided by the handler.
func NewApplyFulfillmentActionCommand(
	fulfillmentID kernel.UUID,
	action string,
	actionContext ActionContext,
) (ApplyFulfillmentActionCommand, error) {
	cmd := ApplyFulfillmentActionCommand{
		context: actionContext,
		guard:   guard.NewConstructorGuard(),
	}

	var actionErr error
	if action = strings.TrimSpace(action); action == "" {
		actionErr = errs.NewValueIsRequiredError("action")
	}
	if err := errors.Join(fulfillmentID.Validate(), actionErr); err != nil {
		return ApplyFulfillmentActionCommand{}, err
	}

	cmd.fulfillmentID = fulfillmentID
	cmd.action = fulfillment.Action(action)
	return cmd, nil
}

func (c ApplyFulfillmentActionCommand) Validate() error {
	return c.guard.Validate(ErrApplyFulfillmentActionCommandIsNotConstructed)
}

func (c ApplyFulfillmentActionCommand) FulfillmentID() kernel.UUID {
	return c.fulfillmentID
}

func (c ApplyFulfillmentActionCommand) Action() fulfillment.Action {
	return c.action
}

func (c ApplyFulfillmentActionCommand) Context() ActionContext {
	return c.context
}
