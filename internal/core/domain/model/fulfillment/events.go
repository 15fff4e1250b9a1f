package fulfillment

import "time"

// Event names emitted after a committed transition.
const (
	EventShipped   = "fulfillment.shipped"
	EventDelivered = "fulfillment.delivered"
	EventFailed    = "fulfillment.failed"
	EventCancelled = "fulfillment.cancelled"
)

// StatusChangedEvent is the payload of every lifecycle event.
type StatusChangedEvent struct {
	FulfillmentID  string    `json:"fulfillmentId"`
	OrderID        string    `json:"orderId"`
	PreviousStatus Status    `json:"previousStatus"`
	Status         Status    `json:"status"`
	TrackingNumber string    `json:"trackingNumber,omitempty"`
	TrackingURL    string    `json:"trackingUrl,omitempty"`
	CarrierName    string    `json:"carrierName,omitempty"`
	Reason         string    `json:"reason,omitempty"`
	OccurredAt     time.Time `json:"occurredAt"`
}

// EventFor returns the event announcing the outcome of action, if the action
// is one that is announced.
func EventFor(action Action, f *Fulfillment, previous Status) (string, StatusChangedEvent, bool) {
	var name, reason string
	switch action {
	case ActionShip:
		name = EventShipped
	case ActionDeliver:
		name = EventDelivered
	case ActionFail:
		name, reason = EventFailed, f.FailureReason()
	case ActionCancel:
		name, reason = EventCancelled, f.CancelReason()
	default:
		return "", StatusChangedEvent{}, false
	}

	return name, StatusChangedEvent{
		FulfillmentID:  f.ID().String(),
		OrderID:        f.OrderID(),
		PreviousStatus: previous,
		Status:         f.Status(),
		TrackingNumber: f.TrackingNumber(),
		TrackingURL:    f.TrackingURL(),
		CarrierName:    f.CarrierName(),
		Reason:         reason,
		OccurredAt:     f.UpdatedAt(),
	}, true
}
