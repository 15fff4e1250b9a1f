package fulfillment

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	ErrFulfillmentIsNotConstructed = errors.New("Fulfillment must be created via NewFulfillment")
	ErrMissingTrackingNumber       = errs.NewValueIsRequiredError("tracking number")
)

// Dimensions of the outgoing parcel.
type Dimensions struct {
	Length decimal.Decimal
	Width  decimal.Decimal
	Height decimal.Decimal
	Unit   string
}

// Timestamps records when each workflow step happened. A nil entry means the
// step has not been reached.
type Timestamps struct {
	AssignedAt       *time.Time
	PickingStartedAt *time.Time
	PickedAt         *time.Time
	PackingStartedAt *time.Time
	PackedAt         *time.Time
	ShippedAt        *time.Time
	DeliveredAt      *time.Time
	ReturnedAt       *time.Time
	CancelledAt      *time.Time
	FailedAt         *time.Time
}

// Params is the input for NewFulfillment.
type Params struct {
	OrderID       string
	SourceType    SourceType
	SourceID      string
	MerchantID    string
	SupplierID    string
	StoreID       string
	ChannelID     string
	CarrierID     string
	CarrierName   string
	MethodID      string
	MethodName    string
	ShipFrom      kernel.Address
	ShipTo        kernel.Address
	ShippingCost  *kernel.Money
	InsuranceCost *kernel.Money
	Notes         string
	Items         []*Item
}

// ShipmentDetails is the payload of the ship action.
type ShipmentDetails struct {
	TrackingNumber string
	TrackingURL    string
	CarrierID      string
	CarrierName    string
}

// PackingDetails is the payload of the complete_packing action.
type PackingDetails struct {
	Weight       *decimal.Decimal
	PackageCount *int
	Dimensions   *Dimensions
}

// Fulfillment is the aggregate root for one shipment of (part of) an order.
//
// Status changes only through the transition methods below, each of which
// checks the transition table, stamps the matching workflow timestamp and
// moves updatedAt. Version is the optimistic-lock revision maintained by the
// repository.
type Fulfillment struct {
	id                kernel.UUID
	orderID           string
	sourceType        SourceType
	sourceID          string
	merchantID        string
	supplierID        string
	storeID           string
	channelID         string
	status            Status
	carrierID         string
	carrierName       string
	methodID          string
	methodName        string
	trackingNumber    string
	trackingURL       string
	shipFrom          kernel.Address
	shipTo            kernel.Address
	weight            *decimal.Decimal
	dimensions        *Dimensions
	packageCount      int
	shippingCost      *kernel.Money
	insuranceCost     *kernel.Money
	notes             string
	timestamps        Timestamps
	failureReason     string
	cancelReason      string
	returnReason      string
	lastKnownLocation string
	createdAt         time.Time
	updatedAt         time.Time
	version           int
	items             []*Item

	transitions   TransitionTable
	isConstructed bool
}

// NewFulfillment creates a pending fulfillment with at least one item.
func NewFulfillment(id kernel.UUID, p Params, now time.Time) (*Fulfillment, error) {
	f := &Fulfillment{
		merchantID:    strings.TrimSpace(p.MerchantID),
		supplierID:    strings.TrimSpace(p.SupplierID),
		storeID:       strings.TrimSpace(p.StoreID),
		channelID:     strings.TrimSpace(p.ChannelID),
		carrierID:     p.CarrierID,
		carrierName:   p.CarrierName,
		methodID:      p.MethodID,
		methodName:    p.MethodName,
		shipFrom:      p.ShipFrom,
		shippingCost:  p.ShippingCost,
		insuranceCost: p.InsuranceCost,
		notes:         p.Notes,
		status:        Pending,
		packageCount:  1,
		createdAt:     now,
		updatedAt:     now,
		transitions:   DefaultTransitionTable(),
		isConstructed: true,
	}

	if err := errors.Join(
		f.setID(id),
		f.setOrderID(p.OrderID),
		f.setSource(p.SourceType, p.SourceID),
		f.setShipTo(p.ShipTo),
		f.setCosts(p.ShippingCost, p.InsuranceCost),
		f.setItems(p.Items),
	); err != nil {
		return nil, err
	}
	return f, nil
}

// Snapshot is the full persisted state of a fulfillment.
type Snapshot struct {
	ID                kernel.UUID
	OrderID           string
	SourceType        SourceType
	SourceID          string
	MerchantID        string
	SupplierID        string
	StoreID           string
	ChannelID         string
	Status            Status
	CarrierID         string
	CarrierName       string
	MethodID          string
	MethodName        string
	TrackingNumber    string
	TrackingURL       string
	ShipFrom          kernel.Address
	ShipTo            kernel.Address
	Weight            *decimal.Decimal
	Dimensions        *Dimensions
	PackageCount      int
	ShippingCost      *kernel.Money
	InsuranceCost     *kernel.Money
	Notes             string
	Timestamps        Timestamps
	FailureReason     string
	CancelReason      string
	ReturnReason      string
	LastKnownLocation string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	Version           int
	Items             []*Item
}

// RestoreFulfillment rebuilds an aggregate loaded from storage.
func RestoreFulfillment(s Snapshot) (*Fulfillment, error) {
	f, err := NewFulfillment(s.ID, Params{
		OrderID:       s.OrderID,
		SourceType:    s.SourceType,
		SourceID:      s.SourceID,
		MerchantID:    s.MerchantID,
		SupplierID:    s.SupplierID,
		StoreID:       s.StoreID,
		ChannelID:     s.ChannelID,
		CarrierID:     s.CarrierID,
		CarrierName:   s.CarrierName,
		MethodID:      s.MethodID,
		MethodName:    s.MethodName,
		ShipFrom:      s.ShipFrom,
		ShipTo:        s.ShipTo,
		ShippingCost:  s.ShippingCost,
		InsuranceCost: s.InsuranceCost,
		Notes:         s.Notes,
		Items:         s.Items,
	}, s.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err = s.Status.Validate(); err != nil {
		return nil, err
	}
	if s.Version < 0 {
		return nil, errs.NewValueIsOutOfRangeError("version", s.Version, 0, "unbounded")
	}

	f.status = s.Status
	f.trackingNumber = s.TrackingNumber
	f.trackingURL = s.TrackingURL
	f.weight = s.Weight
	f.dimensions = s.Dimensions
	if s.PackageCount > 0 {
		f.packageCount = s.PackageCount
	}
	f.timestamps = s.Timestamps
	f.failureReason = s.FailureReason
	f.cancelReason = s.CancelReason
	f.returnReason = s.ReturnReason
	f.lastKnownLocation = s.LastKnownLocation
	f.updatedAt = s.UpdatedAt
	f.version = s.Version
	return f, nil
}

func (f *Fulfillment) Validate() error {
	if f == nil || !f.isConstructed {
		return ErrFulfillmentIsNotConstructed
	}
	return nil
}

// UseTransitions replaces the lifecycle table consulted by the transition methods.
func (f *Fulfillment) UseTransitions(t TransitionTable) error {
	if t.IsEmpty() {
		return errs.NewValueIsRequiredError("transition table")
	}
	f.transitions = t
	return nil
}

// MarkPersisted records the revision written by the repository.
func (f *Fulfillment) MarkPersisted(version int) {
	f.version = version
}

func (f *Fulfillment) ID() kernel.UUID              { return f.id }
func (f *Fulfillment) OrderID() string              { return f.orderID }
func (f *Fulfillment) SourceType() SourceType       { return f.sourceType }
func (f *Fulfillment) SourceID() string             { return f.sourceID }
func (f *Fulfillment) MerchantID() string           { return f.merchantID }
func (f *Fulfillment) SupplierID() string           { return f.supplierID }
func (f *Fulfillment) StoreID() string              { return f.storeID }
func (f *Fulfillment) ChannelID() string            { return f.channelID }
func (f *Fulfillment) Status() Status               { return f.status }
func (f *Fulfillment) CarrierID() string            { return f.carrierID }
func (f *Fulfillment) CarrierName() string          { return f.carrierName }
func (f *Fulfillment) MethodID() string             { return f.methodID }
func (f *Fulfillment) MethodName() string           { return f.methodName }
func (f *Fulfillment) TrackingNumber() string       { return f.trackingNumber }
func (f *Fulfillment) TrackingURL() string          { return f.trackingURL }
func (f *Fulfillment) ShipFrom() kernel.Address     { return f.shipFrom }
func (f *Fulfillment) ShipTo() kernel.Address       { return f.shipTo }
func (f *Fulfillment) Weight() *decimal.Decimal     { return f.weight }
func (f *Fulfillment) Dimensions() *Dimensions      { return f.dimensions }
func (f *Fulfillment) PackageCount() int            { return f.packageCount }
func (f *Fulfillment) ShippingCost() *kernel.Money  { return f.shippingCost }
func (f *Fulfillment) InsuranceCost() *kernel.Money { return f.insuranceCost }
func (f *Fulfillment) Notes() string                { return f.notes }
func (f *Fulfillment) Timestamps() Timestamps       { return f.timestamps }
func (f *Fulfillment) FailureReason() string        { return f.failureReason }
func (f *Fulfillment) CancelReason() string         { return f.cancelReason }
func (f *Fulfillment) ReturnReason() string         { return f.returnReason }
func (f *Fulfillment) LastKnownLocation() string    { return f.lastKnownLocation }
func (f *Fulfillment) CreatedAt() time.Time         { return f.createdAt }
func (f *Fulfillment) UpdatedAt() time.Time         { return f.updatedAt }
func (f *Fulfillment) Version() int                 { return f.version }
func (f *Fulfillment) Items() []*Item               { return slices.Clone(f.items) }

// Item returns the line with the given id.
func (f *Fulfillment) Item(id kernel.UUID) (*Item, error) {
	for _, it := range f.items {
		if it.ID().IsEqual(id) {
			return it, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("item", id.String())
}

// Assign moves pending -> assigned.
func (f *Fulfillment) Assign(now time.Time) error {
	return f.transitionTo(Assigned, now)
}

func (f *Fulfillment) StartPicking(now time.Time) error {
	return f.transitionTo(Picking, now)
}

func (f *Fulfillment) CompletePicking(now time.Time) error {
	return f.transitionTo(Picked, now)
}

// StartPacking moves picked -> packing.
func (f *Fulfillment) StartPacking(now time.Time) error {
	return f.transitionTo(Packing, now)
}

// CompletePacking walks the remaining packing steps up to ready_to_ship and
// records the parcel details. Either every step applies or none does.
func (f *Fulfillment) CompletePacking(d PackingDetails, now time.Time) error {
	rule, _ := DefaultActionMap().Rule(ActionCompletePacking)
	if !slices.Contains(rule.From, f.status) {
		return NewInvalidTransitionError(f.status, ReadyToShip)
	}
	if err := d.validate(); err != nil {
		return err
	}

	path := rule.Path(f.status)
	from := f.status
	for _, step := range path {
		if err := f.transitions.Check(from, step); err != nil {
			return err
		}
		from = step
	}
	for _, step := range path {
		f.apply(step, now)
	}

	if d.Weight != nil {
		w := *d.Weight
		f.weight = &w
	}
	if d.PackageCount != nil {
		f.packageCount = *d.PackageCount
	}
	if d.Dimensions != nil {
		dims := *d.Dimensions
		f.dimensions = &dims
	}
	return nil
}

// Ship hands the parcel to the carrier. A tracking number is mandatory.
func (f *Fulfillment) Ship(d ShipmentDetails, now time.Time) error {
	if err := f.check(Shipped); err != nil {
		return err
	}
	if strings.TrimSpace(d.TrackingNumber) == "" {
		return ErrMissingTrackingNumber
	}

	f.apply(Shipped, now)
	f.trackingNumber = strings.TrimSpace(d.TrackingNumber)
	f.trackingURL = d.TrackingURL
	if d.CarrierID != "" {
		f.carrierID = d.CarrierID
	}
	if d.CarrierName != "" {
		f.carrierName = d.CarrierName
	}
	for _, it := range f.items {
		it.markFulfilled()
	}
	return nil
}

func (f *Fulfillment) MarkInTransit(location string, now time.Time) error {
	return f.moveWithLocation(InTransit, location, now)
}

func (f *Fulfillment) MarkOutForDelivery(location string, now time.Time) error {
	return f.moveWithLocation(OutForDelivery, location, now)
}

func (f *Fulfillment) Deliver(now time.Time) error {
	return f.transitionTo(Delivered, now)
}

func (f *Fulfillment) Fail(reason string, now time.Time) error {
	if err := f.transitionTo(Failed, now); err != nil {
		return err
	}
	f.failureReason = reason
	return nil
}

func (f *Fulfillment) Return(reason string, now time.Time) error {
	if err := f.transitionTo(Returned, now); err != nil {
		return err
	}
	f.returnReason = reason
	return nil
}

// Cancel is never allowed once delivered, whatever the table says.
func (f *Fulfillment) Cancel(reason string, now time.Time) error {
	if err := f.transitionTo(Cancelled, now); err != nil {
		return err
	}
	f.cancelReason = reason
	return nil
}

// PickItem records picked units of one line. Only allowed while picking.
func (f *Fulfillment) PickItem(itemID kernel.UUID, qty int, serials []string, now time.Time) error {
	if f.status != Picking {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("cannot pick items while %s", f.status))
	}
	it, err := f.Item(itemID)
	if err != nil {
		return err
	}
	if err = it.pick(qty, serials, now); err != nil {
		return err
	}
	f.updatedAt = now
	return nil
}

// PackItem records packed units of one line. The first pack after picking
// moves the fulfillment into packing.
func (f *Fulfillment) PackItem(itemID kernel.UUID, qty int, now time.Time) error {
	if f.status != Picked && f.status != Packing {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("cannot pack items while %s", f.status))
	}
	it, err := f.Item(itemID)
	if err != nil {
		return err
	}
	if f.status == Picked {
		if err = f.check(Packing); err != nil {
			return err
		}
	}
	if err = it.pack(qty, now); err != nil {
		return err
	}
	if f.status == Picked {
		f.apply(Packing, now)
	}
	f.updatedAt = now
	return nil
}

func (f *Fulfillment) moveWithLocation(to Status, location string, now time.Time) error {
	if err := f.transitionTo(to, now); err != nil {
		return err
	}
	if location = strings.TrimSpace(location); location != "" {
		f.lastKnownLocation = location
	}
	return nil
}

func (f *Fulfillment) transitionTo(to Status, now time.Time) error {
	if err := f.check(to); err != nil {
		return err
	}
	f.apply(to, now)
	return nil
}

func (f *Fulfillment) check(to Status) error {
	if to == Cancelled && f.status == Delivered {
		return NewInvalidTransitionError(f.status, to)
	}
	return f.transitions.Check(f.status, to)
}

func (f *Fulfillment) apply(to Status, now time.Time) {
	at := now
	switch to {
	case Assigned:
		f.timestamps.AssignedAt = &at
	case Picking:
		f.timestamps.PickingStartedAt = &at
	case Picked:
		f.timestamps.PickedAt = &at
	case Packing:
		f.timestamps.PackingStartedAt = &at
	case Packed:
		f.timestamps.PackedAt = &at
	case Shipped:
		f.timestamps.ShippedAt = &at
	case Delivered:
		f.timestamps.DeliveredAt = &at
	case Returned:
		f.timestamps.ReturnedAt = &at
	case Cancelled:
		f.timestamps.CancelledAt = &at
	case Failed:
		f.timestamps.FailedAt = &at
	default:
	}
	f.status = to
	f.updatedAt = now
}

func (d PackingDetails) validate() error {
	var err error
	if d.Weight != nil && !d.Weight.IsPositive() {
		err = errors.Join(err, errs.NewValueIsInvalidErrorWithCause("weight", fmt.Errorf("%s is not greater than 0", d.Weight)))
	}
	if d.PackageCount != nil && *d.PackageCount <= 0 {
		err = errors.Join(err, errs.NewValueIsInvalidErrorWithCause("package count", fmt.Errorf("%d is not greater than 0", *d.PackageCount)))
	}
	return err
}

func (f *Fulfillment) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	f.id = id
	return nil
}

func (f *Fulfillment) setOrderID(orderID string) error {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return errs.NewValueIsRequiredError("order id")
	}
	f.orderID = orderID
	return nil
}

func (f *Fulfillment) setSource(st SourceType, sourceID string) error {
	if err := st.Validate(); err != nil {
		return err
	}
	f.sourceType = st
	f.sourceID = strings.TrimSpace(sourceID)
	return nil
}

func (f *Fulfillment) setShipTo(addr kernel.Address) error {
	if err := addr.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("ship to", err)
	}
	f.shipTo = addr
	return nil
}

func (f *Fulfillment) setCosts(shipping, insurance *kernel.Money) error {
	if shipping != nil && insurance != nil && shipping.Currency() != insurance.Currency() {
		return kernel.ErrCurrencyMismatch
	}
	return nil
}

func (f *Fulfillment) setItems(items []*Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	for _, it := range items {
		if err := it.Validate(); err != nil {
			return err
		}
	}
	f.items = slices.Clone(items)
	return nil
}
