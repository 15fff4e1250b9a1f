package fulfillment_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

func newTestItem(t *testing.T, sku string, qty int) *fulfillment.Item {
	t.Helper()
	item, err := fulfillment.NewItem(kernel.NewUUID(), fulfillment.ItemFields{
		OrderItemID:     "oi-" + sku,
		ProductID:       "p-" + sku,
		SKU:             sku,
		Name:            "Item " + sku,
		QuantityOrdered: qty,
	})
	require.NoError(t, err)
	return item
}

func newTestFulfillment(t *testing.T, items ...*fulfillment.Item) *fulfillment.Fulfillment {
	t.Helper()
	if len(items) == 0 {
		items = []*fulfillment.Item{newTestItem(t, "SKU-1", 2)}
	}
	shipTo, err := kernel.NewAddress(kernel.AddressFields{City: "Oakland", State: "CA", PostalCode: "94607", Country: "US"})
	require.NoError(t, err)

	f, err := fulfillment.NewFulfillment(kernel.NewUUID(), fulfillment.Params{
		OrderID:    "order-1",
		SourceType: fulfillment.SourceWarehouse,
		SourceID:   "wh-1",
		ShipTo:     shipTo,
		Items:      items,
	}, testNow)
	require.NoError(t, err)
	return f
}

// advance moves f to ReadyToShip through the normal path.
func advance(t *testing.T, f *fulfillment.Fulfillment) {
	t.Helper()
	require.NoError(t, f.Assign(testNow))
	require.NoError(t, f.StartPicking(testNow))
	require.NoError(t, f.CompletePicking(testNow))
	require.NoError(t, f.CompletePacking(fulfillment.PackingDetails{}, testNow))
}

func TestNewFulfillment(t *testing.T) {
	t.Run("should start pending", func(t *testing.T) {
		f := newTestFulfillment(t)

		require.NoError(t, f.Validate())
		assert.Equal(t, fulfillment.Pending, f.Status())
		assert.Equal(t, "order-1", f.OrderID())
		assert.Equal(t, fulfillment.SourceWarehouse, f.SourceType())
		assert.Equal(t, 0, f.Version())
		assert.Equal(t, testNow, f.CreatedAt())
		assert.Nil(t, f.Timestamps().DeliveredAt)
		assert.Len(t, f.Items(), 1)
	})

	t.Run("should join all validation errors", func(t *testing.T) {
		var id kernel.UUID

		f, err := fulfillment.NewFulfillment(id, fulfillment.Params{SourceType: "drone"}, testNow)

		require.Error(t, err)
		assert.Nil(t, f)
		assert.Contains(t, err.Error(), "UUID must be created")
		assert.Contains(t, err.Error(), "order id")
		assert.Contains(t, err.Error(), "source type")
		assert.Contains(t, err.Error(), "ship to")
		assert.Contains(t, err.Error(), "items")
	})

	t.Run("zero value is not constructed", func(t *testing.T) {
		var f *fulfillment.Fulfillment

		assert.ErrorIs(t, f.Validate(), fulfillment.ErrFulfillmentIsNotConstructed)
	})
}

func TestFulfillment_HappyPath(t *testing.T) {
	f := newTestFulfillment(t)
	later := testNow.Add(time.Hour)

	advance(t, f)
	require.Equal(t, fulfillment.ReadyToShip, f.Status())

	require.NoError(t, f.Ship(fulfillment.ShipmentDetails{TrackingNumber: "1Z999", CarrierName: "UPS"}, later))
	require.NoError(t, f.MarkInTransit("Reno hub", later))
	require.NoError(t, f.MarkOutForDelivery("Oakland depot", later))
	require.NoError(t, f.Deliver(later))

	ts := f.Timestamps()
	assert.Equal(t, fulfillment.Delivered, f.Status())
	assert.Equal(t, "1Z999", f.TrackingNumber())
	assert.Equal(t, "UPS", f.CarrierName())
	assert.Equal(t, "Oakland depot", f.LastKnownLocation())
	require.NotNil(t, ts.AssignedAt)
	require.NotNil(t, ts.PackedAt)
	require.NotNil(t, ts.ShippedAt)
	require.NotNil(t, ts.DeliveredAt)
	assert.Equal(t, later, *ts.DeliveredAt)
	assert.Equal(t, later, f.UpdatedAt())
	assert.Equal(t, 2, f.Items()[0].QuantityFulfilled())
}

func TestFulfillment_CompletePacking(t *testing.T) {
	t.Run("walks packing and packed from picked", func(t *testing.T) {
		f := newTestFulfillment(t)
		require.NoError(t, f.Assign(testNow))
		require.NoError(t, f.StartPicking(testNow))
		require.NoError(t, f.CompletePicking(testNow))
		weight := decimal.RequireFromString("2.5")
		count := 2

		err := f.CompletePacking(fulfillment.PackingDetails{Weight: &weight, PackageCount: &count}, testNow)

		require.NoError(t, err)
		assert.Equal(t, fulfillment.ReadyToShip, f.Status())
		assert.NotNil(t, f.Timestamps().PackingStartedAt)
		assert.NotNil(t, f.Timestamps().PackedAt)
		assert.True(t, f.Weight().Equal(weight))
		assert.Equal(t, 2, f.PackageCount())
	})

	t.Run("rejects invalid details without moving", func(t *testing.T) {
		f := newTestFulfillment(t)
		require.NoError(t, f.Assign(testNow))
		require.NoError(t, f.StartPicking(testNow))
		require.NoError(t, f.CompletePicking(testNow))
		count := 0

		err := f.CompletePacking(fulfillment.PackingDetails{PackageCount: &count}, testNow)

		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Equal(t, fulfillment.Picked, f.Status())
	})

	t.Run("rejects from picking", func(t *testing.T) {
		f := newTestFulfillment(t)
		require.NoError(t, f.Assign(testNow))
		require.NoError(t, f.StartPicking(testNow))

		err := f.CompletePacking(fulfillment.PackingDetails{}, testNow)

		assert.ErrorIs(t, err, fulfillment.ErrInvalidTransition)
		assert.Equal(t, fulfillment.Picking, f.Status())
	})
}

func TestFulfillment_ShipRequiresTrackingNumber(t *testing.T) {
	f := newTestFulfillment(t)
	advance(t, f)

	err := f.Ship(fulfillment.ShipmentDetails{TrackingNumber: "  "}, testNow)

	assert.ErrorIs(t, err, fulfillment.ErrMissingTrackingNumber)
	assert.Equal(t, fulfillment.ReadyToShip, f.Status())
	assert.Nil(t, f.Timestamps().ShippedAt)
}

func TestFulfillment_IllegalTransitions(t *testing.T) {
	t.Run("cannot ship from pending", func(t *testing.T) {
		f := newTestFulfillment(t)

		err := f.Ship(fulfillment.ShipmentDetails{TrackingNumber: "X"}, testNow)

		assert.ErrorIs(t, err, fulfillment.ErrInvalidTransition)
		assert.Equal(t, fulfillment.Pending, f.Status())
	})

	t.Run("cannot cancel once delivered even with a permissive table", func(t *testing.T) {
		f := newTestFulfillment(t)
		advance(t, f)
		require.NoError(t, f.Ship(fulfillment.ShipmentDetails{TrackingNumber: "X"}, testNow))
		require.NoError(t, f.Deliver(testNow))

		permissive, err := fulfillment.NewTransitionTable(map[fulfillment.Status][]fulfillment.Status{
			fulfillment.Delivered: {fulfillment.Cancelled, fulfillment.Returned},
		})
		require.NoError(t, err)
		require.NoError(t, f.UseTransitions(permissive))

		err = f.Cancel("changed mind", testNow)

		assert.ErrorIs(t, err, fulfillment.ErrInvalidTransition)
		assert.Equal(t, fulfillment.Delivered, f.Status())
	})

	t.Run("returned after delivery keeps delivered timestamp", func(t *testing.T) {
		f := newTestFulfillment(t)
		advance(t, f)
		require.NoError(t, f.Ship(fulfillment.ShipmentDetails{TrackingNumber: "X"}, testNow))
		require.NoError(t, f.Deliver(testNow))

		require.NoError(t, f.Return("damaged", testNow))

		assert.Equal(t, fulfillment.Returned, f.Status())
		assert.Equal(t, "damaged", f.ReturnReason())
		assert.NotNil(t, f.Timestamps().DeliveredAt)
		assert.NotNil(t, f.Timestamps().ReturnedAt)
	})
}

func TestFulfillment_FailAndCancel(t *testing.T) {
	t.Run("fail records reason", func(t *testing.T) {
		f := newTestFulfillment(t)
		require.NoError(t, f.Assign(testNow))
		require.NoError(t, f.StartPicking(testNow))

		require.NoError(t, f.Fail("out of stock", testNow))

		assert.Equal(t, fulfillment.Failed, f.Status())
		assert.Equal(t, "out of stock", f.FailureReason())
		assert.NotNil(t, f.Timestamps().FailedAt)
	})

	t.Run("cannot fail from pending", func(t *testing.T) {
		f := newTestFulfillment(t)

		assert.ErrorIs(t, f.Fail("x", testNow), fulfillment.ErrInvalidTransition)
	})

	t.Run("cancel from pending", func(t *testing.T) {
		f := newTestFulfillment(t)

		require.NoError(t, f.Cancel("customer request", testNow))

		assert.Equal(t, fulfillment.Cancelled, f.Status())
		assert.Equal(t, "customer request", f.CancelReason())
	})
}

func TestFulfillment_UseTransitions(t *testing.T) {
	f := newTestFulfillment(t)

	assert.ErrorIs(t, f.UseTransitions(fulfillment.TransitionTable{}), errs.ErrValueIsRequired)
	assert.NoError(t, f.UseTransitions(fulfillment.DefaultTransitionTable()))
}

func TestRestoreFulfillment(t *testing.T) {
	t.Run("restores status and version", func(t *testing.T) {
		original := newTestFulfillment(t)
		delivered := testNow.Add(48 * time.Hour)

		restored, err := fulfillment.RestoreFulfillment(fulfillment.Snapshot{
			ID:             original.ID(),
			OrderID:        original.OrderID(),
			SourceType:     original.SourceType(),
			ShipTo:         original.ShipTo(),
			Status:         fulfillment.Delivered,
			TrackingNumber: "1Z",
			Timestamps:     fulfillment.Timestamps{DeliveredAt: &delivered},
			CreatedAt:      testNow,
			UpdatedAt:      delivered,
			Version:        7,
			Items:          original.Items(),
		})

		require.NoError(t, err)
		assert.Equal(t, fulfillment.Delivered, restored.Status())
		assert.Equal(t, 7, restored.Version())
		assert.Equal(t, delivered, restored.UpdatedAt())
		assert.Equal(t, []fulfillment.Action{fulfillment.ActionReturn},
			fulfillment.DefaultActionMap().AllowedFrom(restored.Status()))
	})

	t.Run("rejects invalid status", func(t *testing.T) {
		original := newTestFulfillment(t)

		_, err := fulfillment.RestoreFulfillment(fulfillment.Snapshot{
			ID:         original.ID(),
			OrderID:    original.OrderID(),
			SourceType: original.SourceType(),
			ShipTo:     original.ShipTo(),
			Items:      original.Items(),
		})

		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestEventFor(t *testing.T) {
	f := newTestFulfillment(t)
	advance(t, f)
	require.NoError(t, f.Ship(fulfillment.ShipmentDetails{TrackingNumber: "1Z"}, testNow))

	name, payload, ok := fulfillment.EventFor(fulfillment.ActionShip, f, fulfillment.ReadyToShip)

	require.True(t, ok)
	assert.Equal(t, fulfillment.EventShipped, name)
	assert.Equal(t, f.ID().String(), payload.FulfillmentID)
	assert.Equal(t, fulfillment.ReadyToShip, payload.PreviousStatus)
	assert.Equal(t, fulfillment.Shipped, payload.Status)
	assert.Equal(t, "1Z", payload.TrackingNumber)

	_, _, ok = fulfillment.EventFor(fulfillment.ActionInTransit, f, fulfillment.Shipped)
	assert.False(t, ok)
}
