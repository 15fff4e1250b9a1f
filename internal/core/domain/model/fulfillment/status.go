package fulfillment

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status is the lifecycle state of a fulfillment.
//
//	pending ─> assigned ─> picking ─> picked ─> packing ─> packed ─> ready_to_ship ─> shipped
//	shipped ─> in_transit ─> out_for_delivery ─> delivered ─> returned
//
// Any pre-shipment state may be cancelled, any state from picking onward may
// fail before delivery. failed, cancelled and returned are terminal.
type Status int

const (
	// Unknown (0) catches uninitialized values.
	Unknown Status = iota
	Pending
	Assigned
	Picking
	Picked
	Packing
	Packed
	ReadyToShip
	Shipped
	InTransit
	OutForDelivery
	Delivered
	Failed
	Cancelled
	Returned
)

func getStatusCodes() map[Status]string {
	return map[Status]string{
		Pending:        "pending",
		Assigned:       "assigned",
		Picking:        "picking",
		Picked:         "picked",
		Packing:        "packing",
		Packed:         "packed",
		ReadyToShip:    "ready_to_ship",
		Shipped:        "shipped",
		InTransit:      "in_transit",
		OutForDelivery: "out_for_delivery",
		Delivered:      "delivered",
		Failed:         "failed",
		Cancelled:      "cancelled",
		Returned:       "returned",
	}
}

// AllStatuses lists the valid statuses in lifecycle order.
func AllStatuses() []Status {
	return []Status{
		Pending, Assigned, Picking, Picked, Packing, Packed, ReadyToShip,
		Shipped, InTransit, OutForDelivery, Delivered, Failed, Cancelled, Returned,
	}
}

// ParseStatus maps a storage/wire code such as "ready_to_ship" to a Status.
func ParseStatus(code string) (Status, error) {
	for s, c := range getStatusCodes() {
		if c == code {
			return s, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", code))
}

func (s Status) Validate() error {
	if _, ok := getStatusCodes()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the snake_case code used in storage, events and the API.
func (s Status) String() string {
	if code, ok := getStatusCodes()[s]; ok {
		return code
	}
	return "unknown"
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(data []byte) error {
	parsed, err := ParseStatus(string(data))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return s == Failed || s == Cancelled || s == Returned
}
