// Package fulfillmentrepo maps the fulfillment aggregate and its items to
// the fulfillments and fulfillment_items tables.
package fulfillmentrepo

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// FulfillmentDTO is the row of the fulfillments table. Timestamps are owned
// by the aggregate, so gorm's automatic time tracking is disabled.
type FulfillmentDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID    string    `gorm:"type:varchar(64);not null;index"`
	SourceType string    `gorm:"type:varchar(16);not null"`
	SourceID   string    `gorm:"type:varchar(64)"`
	MerchantID string    `gorm:"type:varchar(64)"`
	SupplierID string    `gorm:"type:varchar(64)"`
	StoreID    string    `gorm:"type:varchar(64)"`
	ChannelID  string    `gorm:"type:varchar(64)"`
	Status     string    `gorm:"type:varchar(32);not null;index"`

	CarrierID      string `gorm:"type:varchar(64)"`
	CarrierName    string `gorm:"type:varchar(255)"`
	MethodID       string `gorm:"type:varchar(64)"`
	MethodName     string `gorm:"type:varchar(255)"`
	TrackingNumber string `gorm:"type:varchar(128);index"`
	TrackingURL    string `gorm:"type:text"`

	ShipFrom AddressDTO `gorm:"embedded;embeddedPrefix:ship_from_"`
	ShipTo   AddressDTO `gorm:"embedded;embeddedPrefix:ship_to_"`

	Weight        *decimal.Decimal `gorm:"type:numeric(12,3)"`
	DimLength     *decimal.Decimal `gorm:"type:numeric(12,3)"`
	DimWidth      *decimal.Decimal `gorm:"type:numeric(12,3)"`
	DimHeight     *decimal.Decimal `gorm:"type:numeric(12,3)"`
	DimUnit       string           `gorm:"type:varchar(8)"`
	PackageCount  int              `gorm:"not null;default:1"`
	ShippingCost  MoneyDTO         `gorm:"embedded;embeddedPrefix:shipping_cost_"`
	InsuranceCost MoneyDTO         `gorm:"embedded;embeddedPrefix:insurance_cost_"`
	Notes         string           `gorm:"type:text"`

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

	FailureReason     string `gorm:"type:text"`
	CancelReason      string `gorm:"type:text"`
	ReturnReason      string `gorm:"type:text"`
	LastKnownLocation string `gorm:"type:varchar(255)"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime:false"`
	Version   int       `gorm:"not null;default:0"`

	Items []ItemDTO `gorm:"foreignKey:FulfillmentID;constraint:OnDelete:CASCADE"`
}

func (FulfillmentDTO) TableName() string {
	return "fulfillments"
}

type AddressDTO struct {
	Name       string `gorm:"type:varchar(255)"`
	Line1      string `gorm:"type:varchar(255)"`
	Line2      string `gorm:"type:varchar(255)"`
	City       string `gorm:"type:varchar(128)"`
	State      string `gorm:"type:varchar(64)"`
	PostalCode string `gorm:"type:varchar(32)"`
	Country    string `gorm:"type:char(2)"`
}

// MoneyDTO stores an optional amount. A NULL amount means no value.
type MoneyDTO struct {
	Amount   *decimal.Decimal `gorm:"type:numeric(14,2)"`
	Currency string           `gorm:"type:char(3)"`
}

// ItemDTO is the row of the fulfillment_items table. Position keeps the
// order in which the lines were created.
type ItemDTO struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey"`
	FulfillmentID     uuid.UUID      `gorm:"type:uuid;not null;index"`
	Position          int            `gorm:"not null"`
	OrderItemID       string         `gorm:"type:varchar(64)"`
	ProductID         string         `gorm:"type:varchar(64)"`
	VariantID         string         `gorm:"type:varchar(64)"`
	SKU               string         `gorm:"column:sku;type:varchar(128);not null"`
	Name              string         `gorm:"type:varchar(255)"`
	QuantityOrdered   int            `gorm:"not null"`
	QuantityFulfilled int            `gorm:"not null;default:0"`
	QuantityPicked    int            `gorm:"not null;default:0"`
	QuantityPacked    int            `gorm:"not null;default:0"`
	WarehouseLocation string         `gorm:"type:varchar(128)"`
	BinLocation       string         `gorm:"type:varchar(128)"`
	SerialNumbers     pq.StringArray `gorm:"type:text[]"`
	LotNumber         string         `gorm:"type:varchar(128)"`
	PickedAt          *time.Time
	PackedAt          *time.Time
}

func (ItemDTO) TableName() string {
	return "fulfillment_items"
}

func fromDomain(f *fulfillment.Fulfillment) FulfillmentDTO {
	id := f.ID().Bytes()
	ts := f.Timestamps()

	dto := FulfillmentDTO{
		ID:                id,
		OrderID:           f.OrderID(),
		SourceType:        string(f.SourceType()),
		SourceID:          f.SourceID(),
		MerchantID:        f.MerchantID(),
		SupplierID:        f.SupplierID(),
		StoreID:           f.StoreID(),
		ChannelID:         f.ChannelID(),
		Status:            f.Status().String(),
		CarrierID:         f.CarrierID(),
		CarrierName:       f.CarrierName(),
		MethodID:          f.MethodID(),
		MethodName:        f.MethodName(),
		TrackingNumber:    f.TrackingNumber(),
		TrackingURL:       f.TrackingURL(),
		ShipFrom:          addressFromDomain(f.ShipFrom()),
		ShipTo:            addressFromDomain(f.ShipTo()),
		Weight:            f.Weight(),
		PackageCount:      f.PackageCount(),
		ShippingCost:      moneyFromDomain(f.ShippingCost()),
		InsuranceCost:     moneyFromDomain(f.InsuranceCost()),
		Notes:             f.Notes(),
		AssignedAt:        ts.AssignedAt,
		PickingStartedAt:  ts.PickingStartedAt,
		PickedAt:          ts.PickedAt,
		PackingStartedAt:  ts.PackingStartedAt,
		PackedAt:          ts.PackedAt,
		ShippedAt:         ts.ShippedAt,
		DeliveredAt:       ts.DeliveredAt,
		ReturnedAt:        ts.ReturnedAt,
		CancelledAt:       ts.CancelledAt,
		FailedAt:          ts.FailedAt,
		FailureReason:     f.FailureReason(),
		CancelReason:      f.CancelReason(),
		ReturnReason:      f.ReturnReason(),
		LastKnownLocation: f.LastKnownLocation(),
		CreatedAt:         f.CreatedAt(),
		UpdatedAt:         f.UpdatedAt(),
		Version:           f.Version(),
	}
	if d := f.Dimensions(); d != nil {
		dto.DimLength, dto.DimWidth, dto.DimHeight = &d.Length, &d.Width, &d.Height
		dto.DimUnit = d.Unit
	}

	items := f.Items()
	dto.Items = make([]ItemDTO, 0, len(items))
	for i, it := range items {
		dto.Items = append(dto.Items, ItemDTO{
			ID:                it.ID().Bytes(),
			FulfillmentID:     id,
			Position:          i,
			OrderItemID:       it.OrderItemID(),
			ProductID:         it.ProductID(),
			VariantID:         it.VariantID(),
			SKU:               it.SKU(),
			Name:              it.Name(),
			QuantityOrdered:   it.QuantityOrdered(),
			QuantityFulfilled: it.QuantityFulfilled(),
			QuantityPicked:    it.QuantityPicked(),
			QuantityPacked:    it.QuantityPacked(),
			WarehouseLocation: it.WarehouseLocation(),
			BinLocation:       it.BinLocation(),
			SerialNumbers:     pq.StringArray(it.SerialNumbers()),
			LotNumber:         it.LotNumber(),
			PickedAt:          it.PickedAt(),
			PackedAt:          it.PackedAt(),
		})
	}
	return dto
}

func toDomain(dto FulfillmentDTO) (*fulfillment.Fulfillment, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	status, err := fulfillment.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	shipTo, err := dto.ShipTo.toDomain()
	if err != nil {
		return nil, err
	}
	shipFrom, err := dto.ShipFrom.toDomain()
	if err != nil {
		return nil, err
	}
	shippingCost, shipErr := dto.ShippingCost.toDomain()
	insuranceCost, insErr := dto.InsuranceCost.toDomain()
	if err = errors.Join(shipErr, insErr); err != nil {
		return nil, err
	}

	items := make([]*fulfillment.Item, 0, len(dto.Items))
	for _, it := range dto.Items {
		item, itemErr := itemToDomain(it)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	var dims *fulfillment.Dimensions
	if dto.DimLength != nil && dto.DimWidth != nil && dto.DimHeight != nil {
		dims = &fulfillment.Dimensions{
			Length: *dto.DimLength,
			Width:  *dto.DimWidth,
			Height: *dto.DimHeight,
			Unit:   dto.DimUnit,
		}
	}

	return fulfillment.RestoreFulfillment(fulfillment.Snapshot{
		ID:             id,
		OrderID:        dto.OrderID,
		SourceType:     fulfillment.SourceType(dto.SourceType),
		SourceID:       dto.SourceID,
		MerchantID:     dto.MerchantID,
		SupplierID:     dto.SupplierID,
		StoreID:        dto.StoreID,
		ChannelID:      dto.ChannelID,
		Status:         status,
		CarrierID:      dto.CarrierID,
		CarrierName:    dto.CarrierName,
		MethodID:       dto.MethodID,
		MethodName:     dto.MethodName,
		TrackingNumber: dto.TrackingNumber,
		TrackingURL:    dto.TrackingURL,
		ShipFrom:       shipFrom,
		ShipTo:         shipTo,
		Weight:         dto.Weight,
		Dimensions:     dims,
		PackageCount:   dto.PackageCount,
		ShippingCost:   shippingCost,
		InsuranceCost:  insuranceCost,
		Notes:          dto.Notes,
		Timestamps: fulfillment.Timestamps{
			AssignedAt:       dto.AssignedAt,
			PickingStartedAt: dto.PickingStartedAt,
			PickedAt:         dto.PickedAt,
			PackingStartedAt: dto.PackingStartedAt,
			PackedAt:         dto.PackedAt,
			ShippedAt:        dto.ShippedAt,
			DeliveredAt:      dto.DeliveredAt,
			ReturnedAt:       dto.ReturnedAt,
			CancelledAt:      dto.CancelledAt,
			FailedAt:         dto.FailedAt,
		},
		FailureReason:     dto.FailureReason,
		CancelReason:      dto.CancelReason,
		ReturnReason:      dto.ReturnReason,
		LastKnownLocation: dto.LastKnownLocation,
		CreatedAt:         dto.CreatedAt,
		UpdatedAt:         dto.UpdatedAt,
		Version:           dto.Version,
		Items:             items,
	})
}

func itemToDomain(dto ItemDTO) (*fulfillment.Item, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	return fulfillment.RestoreItem(fulfillment.ItemSnapshot{
		ID:                id,
		OrderItemID:       dto.OrderItemID,
		ProductID:         dto.ProductID,
		VariantID:         dto.VariantID,
		SKU:               dto.SKU,
		Name:              dto.Name,
		QuantityOrdered:   dto.QuantityOrdered,
		QuantityFulfilled: dto.QuantityFulfilled,
		QuantityPicked:    dto.QuantityPicked,
		QuantityPacked:    dto.QuantityPacked,
		WarehouseLocation: dto.WarehouseLocation,
		BinLocation:       dto.BinLocation,
		SerialNumbers:     dto.SerialNumbers,
		LotNumber:         dto.LotNumber,
		PickedAt:          dto.PickedAt,
		PackedAt:          dto.PackedAt,
	})
}

func addressFromDomain(a kernel.Address) AddressDTO {
	if a.IsEmpty() {
		return AddressDTO{}
	}
	f := a.Fields()
	return AddressDTO{
		Name:       f.Name,
		Line1:      f.Line1,
		Line2:      f.Line2,
		City:       f.City,
		State:      f.State,
		PostalCode: f.PostalCode,
		Country:    f.Country,
	}
}

// toDomain returns the zero Address for a row without a country.
func (a AddressDTO) toDomain() (kernel.Address, error) {
	if a.Country == "" {
		return kernel.Address{}, nil
	}
	return kernel.NewAddress(kernel.AddressFields{
		Name:       a.Name,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	})
}

func moneyFromDomain(m *kernel.Money) MoneyDTO {
	if m == nil {
		return MoneyDTO{}
	}
	amount := m.Amount()
	return MoneyDTO{Amount: &amount, Currency: m.Currency()}
}

func (m MoneyDTO) toDomain() (*kernel.Money, error) {
	if m.Amount == nil {
		return nil, nil //nolint:nilnil // absent amount
	}
	money, err := kernel.NewMoney(*m.Amount, m.Currency)
	if err != nil {
		return nil, err
	}
	return &money, nil
}
