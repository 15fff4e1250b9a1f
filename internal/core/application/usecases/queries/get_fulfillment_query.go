package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetFulfillmentQueryIsNotConstructed = errors.New(
	"GetFulfillmentQuery must be created via NewGetFulfillmentQuery constructor",
)

// GetFulfillmentQuery loads the read model of one fulfillment with its items.
type GetFulfillmentQuery struct {
	fulfillmentID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetFulfillmentQuery(fulfillmentID kernel.UUID) (GetFulfillmentQuery, error) {
	if err := fulfillmentID.Validate(); err != nil {
		return GetFulfillmentQuery{}, err
	}
	return GetFulfillmentQuery{fulfillmentID: fulfillmentID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetFulfillmentQuery) Validate() error {
	return q.guard.Validate(ErrGetFulfillmentQueryIsNotConstructed)
}

func (q GetFulfillmentQuery) FulfillmentID() kernel.UUID {
	return q.fulfillmentID
}

type AddressReadModel struct {
	Name       string
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
}

type FulfillmentItemReadModel struct {
	ID                kernel.UUID
	OrderItemID       string
	SKU               string
	Name              string
	QuantityOrdered   int
	QuantityPicked    int
	QuantityPacked    int
	QuantityFulfilled int
	SerialNumbers     []string
	PickedAt          *time.Time
	PackedAt          *time.Time
}

// GetFulfillmentQueryResponse is the fulfillment as shown to operators.
// Empty strings stand for absent optional values.
type GetFulfillmentQueryResponse struct {
	ID                kernel.UUID
	OrderID           string
	SourceType        string
	SourceID          string
	Status            string
	CarrierName       string
	MethodName        string
	TrackingNumber    string
	TrackingURL       string
	ShipTo            AddressReadModel
	Weight            *decimal.Decimal
	PackageCount      int
	ShippingCost      *kernel.Money
	LastKnownLocation string
	CancelReason      string
	FailureReason     string
	ReturnReason      string
	ShippedAt         *time.Time
	DeliveredAt       *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
	Version           int
	Items             []FulfillmentItemReadModel
}
