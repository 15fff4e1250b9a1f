package queries

import (
	"context"
	"database/sql"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetFulfillmentQueryHandler reads the fulfillments and fulfillment_items
// tables directly, bypassing the aggregate.
type GetFulfillmentQueryHandler struct {
	db *gorm.DB
}

func NewGetFulfillmentQueryHandler(db *gorm.DB) GetFulfillmentQueryHandler {
	return GetFulfillmentQueryHandler{db: db}
}

func (h GetFulfillmentQueryHandler) Handle(
	ctx context.Context,
	query GetFulfillmentQuery,
) (GetFulfillmentQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetFulfillmentQueryResponse{}, err
	}

	id := query.FulfillmentID()
	resp, err := h.header(ctx, id)
	if err != nil {
		return GetFulfillmentQueryResponse{}, err
	}
	if resp.Items, err = h.items(ctx, id); err != nil {
		return GetFulfillmentQueryResponse{}, err
	}
	return resp, nil
}

func (h GetFulfillmentQueryHandler) header(ctx context.Context, id kernel.UUID) (GetFulfillmentQueryResponse, error) {
	var (
		resp         GetFulfillmentQueryResponse
		weight       decimal.NullDecimal
		costAmount   decimal.NullDecimal
		costCurrency sql.NullString
	)

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			order_id, source_type, source_id, status,
			carrier_name, method_name, tracking_number, tracking_url,
			ship_to_name, ship_to_line1, ship_to_line2, ship_to_city,
			ship_to_state, ship_to_postal_code, ship_to_country,
			weight, package_count, shipping_cost_amount, shipping_cost_currency,
			last_known_location, cancel_reason, failure_reason, return_reason,
			shipped_at, delivered_at, created_at, updated_at, version
		FROM fulfillments
		WHERE id = ?
	`, id.Bytes()).Row()

	err := row.Scan(
		&resp.OrderID, &resp.SourceType, &resp.SourceID, &resp.Status,
		&resp.CarrierName, &resp.MethodName, &resp.TrackingNumber, &resp.TrackingURL,
		&resp.ShipTo.Name, &resp.ShipTo.Line1, &resp.ShipTo.Line2, &resp.ShipTo.City,
		&resp.ShipTo.State, &resp.ShipTo.PostalCode, &resp.ShipTo.Country,
		&weight, &resp.PackageCount, &costAmount, &costCurrency,
		&resp.LastKnownLocation, &resp.CancelReason, &resp.FailureReason, &resp.ReturnReason,
		&resp.ShippedAt, &resp.DeliveredAt, &resp.CreatedAt, &resp.UpdatedAt, &resp.Version,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetFulfillmentQueryResponse{}, errs.NewObjectNotFoundError("fulfillment", id.String())
	}
	if err != nil {
		return GetFulfillmentQueryResponse{}, err
	}

	resp.ID = id
	if weight.Valid {
		w := weight.Decimal
		resp.Weight = &w
	}
	if costAmount.Valid && costCurrency.Valid {
		cost, moneyErr := kernel.NewMoney(costAmount.Decimal, costCurrency.String)
		if moneyErr != nil {
			return GetFulfillmentQueryResponse{}, moneyErr
		}
		resp.ShippingCost = &cost
	}
	return resp, nil
}

func (h GetFulfillmentQueryHandler) items(ctx context.Context, id kernel.UUID) ([]FulfillmentItemReadModel, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id, order_item_id, sku, name,
			quantity_ordered, quantity_picked, quantity_packed, quantity_fulfilled,
			serial_numbers, picked_at, packed_at
		FROM fulfillment_items
		WHERE fulfillment_id = ?
		ORDER BY position
	`, id.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]FulfillmentItemReadModel, 0)
	for rows.Next() {
		var (
			item    FulfillmentItemReadModel
			rawID   uuid.UUID
			serials pq.StringArray
		)
		err = rows.Scan(
			&rawID, &item.OrderItemID, &item.SKU, &item.Name,
			&item.QuantityOrdered, &item.QuantityPicked, &item.QuantityPacked, &item.QuantityFulfilled,
			&serials, &item.PickedAt, &item.PackedAt,
		)
		if err != nil {
			return nil, err
		}

		itemID, idErr := kernel.UUIDFromGoogle(rawID)
		if idErr != nil {
			return nil, idErr
		}
		item.ID = itemID
		item.SerialNumbers = []string(serials)
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
