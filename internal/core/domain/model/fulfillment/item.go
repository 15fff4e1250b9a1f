package fulfillment

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem")

// ItemFields is the input for NewItem.
type ItemFields struct {
	OrderItemID       string
	ProductID         string
	VariantID         string
	SKU               string
	Name              string
	QuantityOrdered   int
	WarehouseLocation string
	BinLocation       string
	LotNumber         string
}

// Item is one order line inside a fulfillment.
//
// Invariants: picked <= ordered; packed <= picked, or <= ordered when nothing
// was picked. isPicked holds exactly when picked == ordered, isPacked exactly
// when packed reaches its limit.
type Item struct {
	id                kernel.UUID
	orderItemID       string
	productID         string
	variantID         string
	sku               string
	name              string
	quantityOrdered   int
	quantityFulfilled int
	quantityPicked    int
	quantityPacked    int
	warehouseLocation string
	binLocation       string
	serialNumbers     []string
	lotNumber         string
	pickedAt          *time.Time
	packedAt          *time.Time

	isConstructed bool
}

func NewItem(id kernel.UUID, f ItemFields) (*Item, error) {
	item := &Item{
		orderItemID:       strings.TrimSpace(f.OrderItemID),
		productID:         strings.TrimSpace(f.ProductID),
		variantID:         strings.TrimSpace(f.VariantID),
		name:              strings.TrimSpace(f.Name),
		warehouseLocation: f.WarehouseLocation,
		binLocation:       f.BinLocation,
		lotNumber:         f.LotNumber,
		isConstructed:     true,
	}

	if err := errors.Join(
		item.setID(id),
		item.setSKU(f.SKU),
		item.setQuantityOrdered(f.QuantityOrdered),
	); err != nil {
		return nil, err
	}
	return item, nil
}

// ItemSnapshot carries the persisted state of an item.
type ItemSnapshot struct {
	ID                kernel.UUID
	OrderItemID       string
	ProductID         string
	VariantID         string
	SKU               string
	Name              string
	QuantityOrdered   int
	QuantityFulfilled int
	QuantityPicked    int
	QuantityPacked    int
	WarehouseLocation string
	BinLocation       string
	SerialNumbers     []string
	LotNumber         string
	PickedAt          *time.Time
	PackedAt          *time.Time
}

// RestoreItem rebuilds an item from storage and re-checks the quantity invariants.
func RestoreItem(s ItemSnapshot) (*Item, error) {
	item, err := NewItem(s.ID, ItemFields{
		OrderItemID:       s.OrderItemID,
		ProductID:         s.ProductID,
		VariantID:         s.VariantID,
		SKU:               s.SKU,
		Name:              s.Name,
		QuantityOrdered:   s.QuantityOrdered,
		WarehouseLocation: s.WarehouseLocation,
		BinLocation:       s.BinLocation,
		LotNumber:         s.LotNumber,
	})
	if err != nil {
		return nil, err
	}
	if s.QuantityPicked < 0 || s.QuantityPicked > s.QuantityOrdered {
		return nil, errs.NewValueIsOutOfRangeError("quantity picked", s.QuantityPicked, 0, s.QuantityOrdered)
	}
	item.quantityPicked = s.QuantityPicked
	if limit := item.packLimit(); s.QuantityPacked < 0 || s.QuantityPacked > limit {
		return nil, errs.NewValueIsOutOfRangeError("quantity packed", s.QuantityPacked, 0, limit)
	}
	item.quantityPacked = s.QuantityPacked
	item.quantityFulfilled = s.QuantityFulfilled
	item.serialNumbers = slices.Clone(s.SerialNumbers)
	item.pickedAt = s.PickedAt
	item.packedAt = s.PackedAt
	return item, nil
}

func (i *Item) Validate() error {
	if i == nil || !i.isConstructed {
		return ErrItemIsNotConstructed
	}
	return nil
}

func (i *Item) ID() kernel.UUID           { return i.id }
func (i *Item) OrderItemID() string       { return i.orderItemID }
func (i *Item) ProductID() string         { return i.productID }
func (i *Item) VariantID() string         { return i.variantID }
func (i *Item) SKU() string               { return i.sku }
func (i *Item) Name() string              { return i.name }
func (i *Item) QuantityOrdered() int      { return i.quantityOrdered }
func (i *Item) QuantityFulfilled() int    { return i.quantityFulfilled }
func (i *Item) QuantityPicked() int       { return i.quantityPicked }
func (i *Item) QuantityPacked() int       { return i.quantityPacked }
func (i *Item) WarehouseLocation() string { return i.warehouseLocation }
func (i *Item) BinLocation() string       { return i.binLocation }
func (i *Item) LotNumber() string         { return i.lotNumber }
func (i *Item) PickedAt() *time.Time      { return i.pickedAt }
func (i *Item) PackedAt() *time.Time      { return i.packedAt }

func (i *Item) SerialNumbers() []string {
	return slices.Clone(i.serialNumbers)
}

func (i *Item) IsPicked() bool {
	return i.quantityPicked == i.quantityOrdered
}

func (i *Item) IsPacked() bool {
	return i.quantityPacked == i.packLimit()
}

// packLimit is the most that can be packed: what was picked, or the ordered
// quantity when the line skipped picking.
func (i *Item) packLimit() int {
	if i.quantityPicked > 0 {
		return i.quantityPicked
	}
	return i.quantityOrdered
}

// pick records qty more units taken from the shelf.
func (i *Item) pick(qty int, serials []string, now time.Time) error {
	if qty <= 0 {
		return errs.NewValueIsOutOfRangeError("quantity", qty, 1, i.quantityOrdered-i.quantityPicked)
	}
	if i.quantityPicked+qty > i.quantityOrdered {
		return errs.NewValueIsOutOfRangeError("quantity", qty, 1, i.quantityOrdered-i.quantityPicked)
	}
	i.quantityPicked += qty
	for _, s := range serials {
		if s = strings.TrimSpace(s); s != "" && !slices.Contains(i.serialNumbers, s) {
			i.serialNumbers = append(i.serialNumbers, s)
		}
	}
	if i.IsPicked() {
		i.pickedAt = &now
	}
	return nil
}

// pack records qty more units placed in a parcel.
func (i *Item) pack(qty int, now time.Time) error {
	limit := i.packLimit()
	if qty <= 0 || i.quantityPacked+qty > limit {
		return errs.NewValueIsOutOfRangeError("quantity", qty, 1, limit-i.quantityPacked)
	}
	i.quantityPacked += qty
	if i.IsPacked() {
		i.packedAt = &now
	}
	return nil
}

// markFulfilled sets the shipped quantity once the parcel leaves.
func (i *Item) markFulfilled() {
	if i.quantityPacked > 0 {
		i.quantityFulfilled = i.quantityPacked
		return
	}
	i.quantityFulfilled = i.quantityOrdered
}

func (i *Item) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	i.id = id
	return nil
}

func (i *Item) setSKU(sku string) error {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return errs.NewValueIsRequiredError("sku")
	}
	i.sku = sku
	return nil
}

func (i *Item) setQuantityOrdered(qty int) error {
	if qty <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity ordered", fmt.Errorf("%d is not greater than 0", qty))
	}
	i.quantityOrdered = qty
	return nil
}
