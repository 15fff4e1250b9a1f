package fulfillment

import (
	"fmt"
	"slices"

	"fulfillment/internal/pkg/errs"
)

// Action is a named operational request that drives the lifecycle.
type Action string

const (
	ActionStartProcessing Action = "start_processing"
	ActionStartPicking    Action = "start_picking"
	ActionCompletePicking Action = "complete_picking"
	ActionCompletePacking Action = "complete_packing"
	ActionShip            Action = "ship"
	ActionInTransit       Action = "in_transit"
	ActionOutForDelivery  Action = "out_for_delivery"
	ActionDeliver         Action = "deliver"
	ActionFail            Action = "fail"
	ActionReturn          Action = "return"
	ActionCancel          Action = "cancel"
)

// ActionRule describes where an action may be applied and where it lands.
type ActionRule struct {
	Action Action
	Target Status
	From   []Status
}

// Path returns the statuses the aggregate walks through when the action is
// applied from `from`. Only complete_packing takes more than one step.
func (r ActionRule) Path(from Status) []Status {
	if r.Action != ActionCompletePacking {
		return []Status{r.Target}
	}
	switch from {
	case Picked:
		return []Status{Packing, Packed, ReadyToShip}
	case Packing:
		return []Status{Packed, ReadyToShip}
	default:
		return []Status{ReadyToShip}
	}
}

// ActionMap is the immutable action vocabulary of the lifecycle, in
// declaration order.
type ActionMap struct {
	rules []ActionRule
}

var defaultActionMap = ActionMap{rules: []ActionRule{
	{ActionStartProcessing, Assigned, []Status{Pending}},
	{ActionStartPicking, Picking, []Status{Assigned}},
	{ActionCompletePicking, Picked, []Status{Picking}},
	{ActionCompletePacking, ReadyToShip, []Status{Picked, Packing, Packed}},
	{ActionShip, Shipped, []Status{ReadyToShip}},
	{ActionInTransit, InTransit, []Status{Shipped}},
	{ActionOutForDelivery, OutForDelivery, []Status{InTransit}},
	{ActionDeliver, Delivered, []Status{Shipped, InTransit, OutForDelivery}},
	{ActionFail, Failed, []Status{Picking, Picked, Packing, Packed, ReadyToShip, Shipped, InTransit, OutForDelivery}},
	{ActionReturn, Returned, []Status{Delivered}},
	{ActionCancel, Cancelled, []Status{Pending, Assigned, Picking, Picked, Packing, Packed, ReadyToShip}},
}}

func DefaultActionMap() ActionMap {
	return defaultActionMap
}

func ParseAction(name string) (Action, error) {
	a := Action(name)
	if _, ok := defaultActionMap.Rule(a); !ok {
		return "", errs.NewValueIsInvalidErrorWithCause("action", fmt.Errorf("%q is not a known action", name))
	}
	return a, nil
}

func (m ActionMap) Rule(a Action) (ActionRule, bool) {
	for _, r := range m.rules {
		if r.Action == a {
			return ActionRule{Action: r.Action, Target: r.Target, From: slices.Clone(r.From)}, true
		}
	}
	return ActionRule{}, false
}

func (m ActionMap) Rules() []ActionRule {
	out := make([]ActionRule, 0, len(m.rules))
	for _, r := range m.rules {
		out = append(out, ActionRule{Action: r.Action, Target: r.Target, From: slices.Clone(r.From)})
	}
	return out
}

// AllowedFrom lists the actions that are legal while in status s.
func (m ActionMap) AllowedFrom(s Status) []Action {
	var allowed []Action
	for _, r := range m.rules {
		if slices.Contains(r.From, s) {
			allowed = append(allowed, r.Action)
		}
	}
	return allowed
}

// IsLegal reports whether action may be applied while in status s.
func (m ActionMap) IsLegal(a Action, s Status) bool {
	r, ok := m.Rule(a)
	return ok && slices.Contains(r.From, s)
}
