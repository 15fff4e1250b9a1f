package http

import (
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipping"

	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"
)

// Amounts travel as decimal strings, e.g. "12.50".

type Money struct {
	Amount   string `json:"amount" validate:"required,numeric"`
	Currency string `json:"currency" validate:"required,len=3"`
}

func (m Money) toDomain() (kernel.Money, error) {
	return kernel.MoneyFromString(m.Amount, m.Currency)
}

func moneyFrom(m kernel.Money) Money {
	return Money{Amount: m.Amount().StringFixed(2), Currency: m.Currency()}
}

type Address struct {
	Name       string `json:"name,omitempty"`
	Line1      string `json:"line1,omitempty"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country" validate:"required,len=2"`
}

func (a Address) toDomain() (kernel.Address, error) {
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

type NewItem struct {
	OrderItemID       string `json:"orderItemId,omitempty"`
	ProductID         string `json:"productId,omitempty"`
	VariantID         string `json:"variantId,omitempty"`
	SKU               string `json:"sku" validate:"required"`
	Name              string `json:"name,omitempty"`
	Quantity          int    `json:"quantity" validate:"min=1"`
	WarehouseLocation string `json:"warehouseLocation,omitempty"`
	BinLocation       string `json:"binLocation,omitempty"`
	LotNumber         string `json:"lotNumber,omitempty"`
}

type NewFulfillment struct {
	OrderID      string    `json:"orderId" validate:"required"`
	SourceType   string    `json:"sourceType" validate:"required"`
	SourceID     string    `json:"sourceId,omitempty"`
	MerchantID   string    `json:"merchantId,omitempty"`
	SupplierID   string    `json:"supplierId,omitempty"`
	StoreID      string    `json:"storeId,omitempty"`
	ChannelID    string    `json:"channelId,omitempty"`
	CarrierID    string    `json:"carrierId,omitempty"`
	CarrierName  string    `json:"carrierName,omitempty"`
	MethodID     string    `json:"methodId,omitempty"`
	MethodName   string    `json:"methodName,omitempty"`
	ShipFrom     *Address  `json:"shipFrom,omitempty"`
	ShipTo       Address   `json:"shipTo"`
	ShippingCost *Money    `json:"shippingCost,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	Items        []NewItem `json:"items" validate:"required,min=1,dive"`
}

func (r NewFulfillment) toCommand(id kernel.UUID) (commands.CreateFulfillmentCommand, error) {
	source, err := fulfillment.ParseSourceType(r.SourceType)
	if err != nil {
		return commands.CreateFulfillmentCommand{}, err
	}
	params := fulfillment.Params{
		OrderID:     r.OrderID,
		SourceType:  source,
		SourceID:    r.SourceID,
		MerchantID:  r.MerchantID,
		SupplierID:  r.SupplierID,
		StoreID:     r.StoreID,
		ChannelID:   r.ChannelID,
		CarrierID:   r.CarrierID,
		CarrierName: r.CarrierName,
		MethodID:    r.MethodID,
		MethodName:  r.MethodName,
		Notes:       r.Notes,
	}
	if params.ShipTo, err = r.ShipTo.toDomain(); err != nil {
		return commands.CreateFulfillmentCommand{}, err
	}
	if r.ShipFrom != nil {
		if params.ShipFrom, err = r.ShipFrom.toDomain(); err != nil {
			return commands.CreateFulfillmentCommand{}, err
		}
	}
	if r.ShippingCost != nil {
		cost, costErr := r.ShippingCost.toDomain()
		if costErr != nil {
			return commands.CreateFulfillmentCommand{}, costErr
		}
		params.ShippingCost = &cost
	}

	items := make([]fulfillment.ItemFields, len(r.Items))
	for i, it := range r.Items {
		items[i] = fulfillment.ItemFields{
			OrderItemID:       it.OrderItemID,
			ProductID:         it.ProductID,
			VariantID:         it.VariantID,
			SKU:               it.SKU,
			Name:              it.Name,
			QuantityOrdered:   it.Quantity,
			WarehouseLocation: it.WarehouseLocation,
			BinLocation:       it.BinLocation,
			LotNumber:         it.LotNumber,
		}
	}
	return commands.NewCreateFulfillmentCommand(id, params, items)
}

type Created struct {
	ID openapi_types.UUID `json:"id"`
}

func createdFrom(id kernel.UUID) Created {
	return Created{ID: id.Bytes()}
}

type Dimensions struct {
	Length decimal.Decimal `json:"length"`
	Width  decimal.Decimal `json:"width"`
	Height decimal.Decimal `json:"height"`
	Unit   string          `json:"unit,omitempty"`
}

type ActionRequest struct {
	Action         string           `json:"action" validate:"required"`
	TrackingNumber string           `json:"trackingNumber,omitempty"`
	TrackingURL    string           `json:"trackingUrl,omitempty"`
	CarrierID      string           `json:"carrierId,omitempty"`
	CarrierName    string           `json:"carrierName,omitempty"`
	Weight         *decimal.Decimal `json:"weight,omitempty"`
	PackageCount   *int             `json:"packageCount,omitempty" validate:"omitempty,min=1"`
	Dimensions     *Dimensions      `json:"dimensions,omitempty"`
	Location       string           `json:"location,omitempty"`
	Reason         string           `json:"reason,omitempty"`
}

func (r ActionRequest) toCommand(id kernel.UUID) (commands.ApplyFulfillmentActionCommand, error) {
	actx := commands.ActionContext{
		TrackingNumber: r.TrackingNumber,
		TrackingURL:    r.TrackingURL,
		CarrierID:      r.CarrierID,
		CarrierName:    r.CarrierName,
		Weight:         r.Weight,
		PackageCount:   r.PackageCount,
		Location:       r.Location,
		Reason:         r.Reason,
	}
	if r.Dimensions != nil {
		actx.Dimensions = &fulfillment.Dimensions{
			Length: r.Dimensions.Length,
			Width:  r.Dimensions.Width,
			Height: r.Dimensions.Height,
			Unit:   r.Dimensions.Unit,
		}
	}
	return commands.NewApplyFulfillmentActionCommand(id, r.Action, actx)
}

type ActionResult struct {
	PreviousStatus string `json:"previousStatus"`
	CurrentStatus  string `json:"currentStatus"`
	TrackingNumber string `json:"trackingNumber,omitempty"`
}

func actionResultFrom(r commands.ActionResult) ActionResult {
	return ActionResult{
		PreviousStatus: r.PreviousStatus.String(),
		CurrentStatus:  r.CurrentStatus.String(),
		TrackingNumber: r.TrackingNumber,
	}
}

type PickRequest struct {
	Quantity      int      `json:"quantity" validate:"min=1"`
	SerialNumbers []string `json:"serialNumbers,omitempty"`
}

type PackRequest struct {
	Quantity int `json:"quantity" validate:"min=1"`
}

type Item struct {
	ID                openapi_types.UUID `json:"id"`
	OrderItemID       string             `json:"orderItemId,omitempty"`
	SKU               string             `json:"sku"`
	Name              string             `json:"name,omitempty"`
	QuantityOrdered   int                `json:"quantityOrdered"`
	QuantityPicked    int                `json:"quantityPicked"`
	QuantityPacked    int                `json:"quantityPacked"`
	QuantityFulfilled int                `json:"quantityFulfilled"`
	SerialNumbers     []string           `json:"serialNumbers,omitempty"`
	PickedAt          *time.Time         `json:"pickedAt,omitempty"`
	PackedAt          *time.Time         `json:"packedAt,omitempty"`
}

type Fulfillment struct {
	ID                openapi_types.UUID `json:"id"`
	OrderID           string             `json:"orderId"`
	SourceType        string             `json:"sourceType"`
	SourceID          string             `json:"sourceId,omitempty"`
	Status            string             `json:"status"`
	CarrierName       string             `json:"carrierName,omitempty"`
	MethodName        string             `json:"methodName,omitempty"`
	TrackingNumber    string             `json:"trackingNumber,omitempty"`
	TrackingURL       string             `json:"trackingUrl,omitempty"`
	ShipTo            Address            `json:"shipTo"`
	Weight            *decimal.Decimal   `json:"weight,omitempty"`
	PackageCount      int                `json:"packageCount,omitempty"`
	ShippingCost      *Money             `json:"shippingCost,omitempty"`
	LastKnownLocation string             `json:"lastKnownLocation,omitempty"`
	CancelReason      string             `json:"cancelReason,omitempty"`
	FailureReason     string             `json:"failureReason,omitempty"`
	ReturnReason      string             `json:"returnReason,omitempty"`
	ShippedAt         *time.Time         `json:"shippedAt,omitempty"`
	DeliveredAt       *time.Time         `json:"deliveredAt,omitempty"`
	CreatedAt         time.Time          `json:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt"`
	Version           int                `json:"version"`
	Items             []Item             `json:"items"`
}

func fulfillmentFrom(r queries.GetFulfillmentQueryResponse) Fulfillment {
	out := Fulfillment{
		ID:             r.ID.Bytes(),
		OrderID:        r.OrderID,
		SourceType:     r.SourceType,
		SourceID:       r.SourceID,
		Status:         r.Status,
		CarrierName:    r.CarrierName,
		MethodName:     r.MethodName,
		TrackingNumber: r.TrackingNumber,
		TrackingURL:    r.TrackingURL,
		ShipTo: Address{
			Name:       r.ShipTo.Name,
			Line1:      r.ShipTo.Line1,
			Line2:      r.ShipTo.Line2,
			City:       r.ShipTo.City,
			State:      r.ShipTo.State,
			PostalCode: r.ShipTo.PostalCode,
			Country:    r.ShipTo.Country,
		},
		Weight:            r.Weight,
		PackageCount:      r.PackageCount,
		LastKnownLocation: r.LastKnownLocation,
		CancelReason:      r.CancelReason,
		FailureReason:     r.FailureReason,
		ReturnReason:      r.ReturnReason,
		ShippedAt:         r.ShippedAt,
		DeliveredAt:       r.DeliveredAt,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
		Version:           r.Version,
		Items:             make([]Item, len(r.Items)),
	}
	if r.ShippingCost != nil {
		cost := moneyFrom(*r.ShippingCost)
		out.ShippingCost = &cost
	}
	for i, it := range r.Items {
		out.Items[i] = Item{
			ID:                it.ID.Bytes(),
			OrderItemID:       it.OrderItemID,
			SKU:               it.SKU,
			Name:              it.Name,
			QuantityOrdered:   it.QuantityOrdered,
			QuantityPicked:    it.QuantityPicked,
			QuantityPacked:    it.QuantityPacked,
			QuantityFulfilled: it.QuantityFulfilled,
			SerialNumbers:     it.SerialNumbers,
			PickedAt:          it.PickedAt,
			PackedAt:          it.PackedAt,
		}
	}
	return out
}

type QuoteRequest struct {
	Destination Address          `json:"destination"`
	OrderValue  Money            `json:"orderValue"`
	ItemCount   int              `json:"itemCount" validate:"gte=0"`
	Weight      *decimal.Decimal `json:"weight,omitempty"`
}

func (r QuoteRequest) toQuery() (queries.PriceDestinationQuery, error) {
	dest, err := r.Destination.toDomain()
	if err != nil {
		return queries.PriceDestinationQuery{}, err
	}
	value, err := r.OrderValue.toDomain()
	if err != nil {
		return queries.PriceDestinationQuery{}, err
	}
	return queries.NewPriceDestinationQuery(dest, value, r.ItemCount, r.Weight)
}

type MethodQuote struct {
	MethodID     openapi_types.UUID `json:"methodId"`
	Code         string             `json:"code"`
	Name         string             `json:"name"`
	Description  string             `json:"description,omitempty"`
	Speed        string             `json:"speed,omitempty"`
	HandlingDays int                `json:"handlingDays"`
	CarrierID    string             `json:"carrierId,omitempty"`
	CarrierName  string             `json:"carrierName,omitempty"`
	Charge       Money              `json:"charge"`
	IsFree       bool               `json:"isFree"`
	IsDefault    bool               `json:"isDefault"`
}

type QuoteResult struct {
	Outcome  string              `json:"outcome"`
	ZoneID   *openapi_types.UUID `json:"zoneId,omitempty"`
	ZoneName string              `json:"zoneName,omitempty"`
	Methods  []MethodQuote       `json:"methods"`
}

func quoteResultFrom(r queries.PriceDestinationQueryResponse) QuoteResult {
	out := QuoteResult{
		Outcome:  string(r.Outcome),
		ZoneName: r.ZoneName,
		Methods:  make([]MethodQuote, len(r.Methods)),
	}
	if r.ZoneID != nil {
		id := openapi_types.UUID(r.ZoneID.Bytes())
		out.ZoneID = &id
	}
	for i, m := range r.Methods {
		out.Methods[i] = MethodQuote{
			MethodID:     m.MethodID.Bytes(),
			Code:         m.Code,
			Name:         m.Name,
			Description:  m.Description,
			Speed:        m.Speed,
			HandlingDays: m.HandlingDays,
			CarrierID:    m.CarrierID,
			CarrierName:  m.CarrierName,
			Charge:       moneyFrom(m.Charge),
			IsFree:       m.IsFree,
			IsDefault:    m.IsDefault,
		}
	}
	return out
}

type Zone struct {
	Name     string   `json:"name" validate:"required"`
	Active   bool     `json:"active"`
	Priority int      `json:"priority"`
	Include  []string `json:"include,omitempty"`
	Exclude  []string `json:"exclude,omitempty"`
}

func (z Zone) toCommand() (commands.UpsertShippingZoneCommand, error) {
	return commands.NewUpsertShippingZoneCommand(shipping.ZoneFields{
		Name:       z.Name,
		Active:     z.Active,
		Priority:   z.Priority,
		Inclusions: z.Include,
		Exclusions: z.Exclude,
	})
}

type Carrier struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name,omitempty"`
}

type Method struct {
	Code          string           `json:"code" validate:"required"`
	Name          string           `json:"name" validate:"required"`
	Description   string           `json:"description,omitempty"`
	Active        bool             `json:"active"`
	Default       bool             `json:"default"`
	Carrier       *Carrier         `json:"carrier,omitempty"`
	Speed         string           `json:"speed,omitempty"`
	Scope         string           `json:"scope,omitempty"`
	HandlingDays  int              `json:"handlingDays" validate:"gte=0"`
	MinWeight     *decimal.Decimal `json:"minWeight,omitempty"`
	MaxWeight     *decimal.Decimal `json:"maxWeight,omitempty"`
	MinOrderValue *decimal.Decimal `json:"minOrderValue,omitempty"`
	MaxOrderValue *decimal.Decimal `json:"maxOrderValue,omitempty"`
}

func (m Method) toCommand() (commands.UpsertShippingMethodCommand, error) {
	fields := shipping.MethodFields{
		Code:          m.Code,
		Name:          m.Name,
		Description:   m.Description,
		Active:        m.Active,
		Default:       m.Default,
		Speed:         shipping.SpeedClass(m.Speed),
		Scope:         shipping.Scope(m.Scope),
		HandlingDays:  m.HandlingDays,
		MinWeight:     m.MinWeight,
		MaxWeight:     m.MaxWeight,
		MinOrderValue: m.MinOrderValue,
		MaxOrderValue: m.MaxOrderValue,
	}
	if m.Carrier != nil {
		fields.Carrier = &shipping.Carrier{ID: m.Carrier.ID, Name: m.Carrier.Name}
	}
	return commands.NewUpsertShippingMethodCommand(fields)
}

type Tier struct {
	Min  decimal.Decimal  `json:"min"`
	Max  *decimal.Decimal `json:"max,omitempty"`
	Rate decimal.Decimal  `json:"rate"`
}

type Rate struct {
	ID            *openapi_types.UUID `json:"id,omitempty"`
	ZoneID        openapi_types.UUID  `json:"zoneId"`
	MethodID      openapi_types.UUID  `json:"methodId"`
	Type          string              `json:"type" validate:"required"`
	Currency      string              `json:"currency" validate:"required,len=3"`
	BaseRate      decimal.Decimal     `json:"baseRate"`
	PerItemRate   *decimal.Decimal    `json:"perItemRate,omitempty"`
	FreeThreshold *decimal.Decimal    `json:"freeThreshold,omitempty"`
	Tiers         []Tier              `json:"tiers,omitempty"`
	MinRate       *decimal.Decimal    `json:"minRate,omitempty"`
	MaxRate       *decimal.Decimal    `json:"maxRate,omitempty"`
	Priority      int                 `json:"priority"`
	Active        bool                `json:"active"`
}

// toCommand builds the save command. A rate without an id is new.
func (r Rate) toCommand() (commands.SaveShippingRateCommand, error) {
	var err error
	rateID := kernel.NewUUID()
	if r.ID != nil {
		if rateID, err = kernel.UUIDFromGoogle(*r.ID); err != nil {
			return commands.SaveShippingRateCommand{}, err
		}
	}

	fields := shipping.RateFields{
		Type:     shipping.RateType(r.Type),
		Currency: r.Currency,
		Priority: r.Priority,
		Active:   r.Active,
	}
	if fields.ZoneID, err = kernel.UUIDFromGoogle(r.ZoneID); err != nil {
		return commands.SaveShippingRateCommand{}, err
	}
	if fields.MethodID, err = kernel.UUIDFromGoogle(r.MethodID); err != nil {
		return commands.SaveShippingRateCommand{}, err
	}

	if fields.BaseRate, err = kernel.NewMoney(r.BaseRate, r.Currency); err != nil {
		return commands.SaveShippingRateCommand{}, err
	}
	for _, o := range []struct {
		src *decimal.Decimal
		dst **kernel.Money
	}{
		{r.PerItemRate, &fields.PerItemRate},
		{r.FreeThreshold, &fields.FreeThreshold},
		{r.MinRate, &fields.MinRate},
		{r.MaxRate, &fields.MaxRate},
	} {
		if o.src == nil {
			continue
		}
		m, moneyErr := kernel.NewMoney(*o.src, r.Currency)
		if moneyErr != nil {
			return commands.SaveShippingRateCommand{}, moneyErr
		}
		*o.dst = &m
	}
	for _, t := range r.Tiers {
		rate, tierErr := kernel.NewMoney(t.Rate, r.Currency)
		if tierErr != nil {
			return commands.SaveShippingRateCommand{}, tierErr
		}
		fields.Tiers = append(fields.Tiers, shipping.Tier{Min: t.Min, Max: t.Max, Rate: rate})
	}

	return commands.NewSaveShippingRateCommand(rateID, fields)
}
