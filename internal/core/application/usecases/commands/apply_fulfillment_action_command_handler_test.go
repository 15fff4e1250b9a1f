package commands_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var handlerNow = time.Date(2025, 5, 2, 14, 30, 0, 0, time.UTC)

// liveContext matches a context that is not cancelled when the call is made.
var liveContext = mock.MatchedBy(func(ctx context.Context) bool { return ctx.Err() == nil })

func fulfillmentInStatus(t *testing.T, status fulfillment.Status) *fulfillment.Fulfillment {
	t.Helper()
	item, err := fulfillment.NewItem(kernel.NewUUID(), fulfillment.ItemFields{SKU: "SKU-1", QuantityOrdered: 1})
	require.NoError(t, err)
	shipTo, err := kernel.NewAddress(kernel.AddressFields{City: "Austin", State: "TX", Country: "US"})
	require.NoError(t, err)

	f, err := fulfillment.RestoreFulfillment(fulfillment.Snapshot{
		ID:         kernel.NewUUID(),
		OrderID:    "order-42",
		SourceType: fulfillment.SourceWarehouse,
		SourceID:   "wh-1",
		Status:     status,
		ShipTo:     shipTo,
		CreatedAt:  handlerNow.Add(-time.Hour),
		UpdatedAt:  handlerNow.Add(-time.Hour),
		Version:    3,
		Items:      []*fulfillment.Item{item},
	})
	require.NoError(t, err)
	return f
}

func newActionHandler(
	factory *MockFulfillmentUoWFactory,
	publisher *MockEventPublisher,
	opts ...commands.HandlerOption,
) commands.ApplyFulfillmentActionCommandHandler {
	opts = append([]commands.HandlerOption{commands.WithClock(func() time.Time { return handlerNow })}, opts...)
	return commands.NewApplyFulfillmentActionCommandHandler(
		factory, publisher, fulfillment.DefaultTransitionTable(), slog.New(slog.DiscardHandler), opts...,
	)
}

// expectLoaded wires a unit of work whose repository returns f.
func expectLoaded(
	t *testing.T,
	f *fulfillment.Fulfillment,
) (*MockFulfillmentUoWFactory, *MockFulfillmentUoW, *MockFulfillmentRepository) {
	t.Helper()
	ctx := t.Context()
	repo := new(MockFulfillmentRepository)
	uow := new(MockFulfillmentUoW)
	factory := new(MockFulfillmentUoWFactory)
	factory.On("Create").Return(uow)
	uow.On("Begin", ctx).Return(nil)
	uow.On("FulfillmentRepository").Return(repo)
	repo.On("Get", ctx, f.ID()).Return(f, nil)
	uow.On("Rollback", ctx).Return(nil)
	return factory, uow, repo
}

func TestApplyFulfillmentActionCommandHandler_Handle_StartProcessing(t *testing.T) {
	ctx := t.Context()
	f := fulfillmentInStatus(t, fulfillment.Pending)
	factory, uow, repo := expectLoaded(t, f)
	repo.On("Update", ctx, f).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	publisher := new(MockEventPublisher)
	observer := &recordingObserver{}

	h := newActionHandler(factory, publisher, commands.WithActionObserver(observer))
	cmd, err := commands.NewApplyFulfillmentActionCommand(f.ID(), "start_processing", commands.ActionContext{})
	require.NoError(t, err)

	result, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, fulfillment.Pending, result.PreviousStatus)
	assert.Equal(t, fulfillment.Assigned, result.CurrentStatus)
	require.NotNil(t, f.Timestamps().AssignedAt)
	assert.Equal(t, handlerNow, *f.Timestamps().AssignedAt)

	// The same action again is no longer legal.
	_, err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, commands.ErrIllegalAction)
	var illegal *commands.IllegalActionError
	require.ErrorAs(t, err, &illegal)
	assert.Equal(t, fulfillment.Assigned, illegal.Status)
	assert.Equal(t, []fulfillment.Action{fulfillment.ActionStartPicking, fulfillment.ActionCancel}, illegal.Allowed)

	repo.AssertNumberOfCalls(t, "Update", 1)
	publisher.AssertNotCalled(t, "Emit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, [][2]string{{"start_processing", "applied"}, {"start_processing", "illegal"}}, observer.calls)
}

func TestApplyFulfillmentActionCommandHandler_Handle_ShipEmitsEvent(t *testing.T) {
	ctx := t.Context()
	f := fulfillmentInStatus(t, fulfillment.ReadyToShip)
	factory, uow, repo := expectLoaded(t, f)
	publisher := new(MockEventPublisher)
	mock.InOrder(
		repo.On("Update", ctx, f).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		publisher.On("Emit", liveContext, f.ID().String(), fulfillment.EventShipped,
			mock.AnythingOfType("fulfillment.StatusChangedEvent")).Once(),
	)

	h := newActionHandler(factory, publisher)
	cmd, err := commands.NewApplyFulfillmentActionCommand(f.ID(), "ship", commands.ActionContext{
		TrackingNumber: "1Z999AA10123456784",
		CarrierName:    "UPS",
	})
	require.NoError(t, err)

	result, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, fulfillment.Shipped, result.CurrentStatus)
	assert.Equal(t, "1Z999AA10123456784", result.TrackingNumber)
	assert.Equal(t, "UPS", f.CarrierName())

	payload := publisher.Calls[0].Arguments.Get(3).(fulfillment.StatusChangedEvent)
	assert.Equal(t, fulfillment.ReadyToShip, payload.PreviousStatus)
	assert.Equal(t, fulfillment.Shipped, payload.Status)
	publisher.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestApplyFulfillmentActionCommandHandler_Handle_ShipWithoutTracking(t *testing.T) {
	ctx := t.Context()
	f := fulfillmentInStatus(t, fulfillment.ReadyToShip)
	factory, _, repo := expectLoaded(t, f)
	publisher := new(MockEventPublisher)

	h := newActionHandler(factory, publisher)
	cmd, err := commands.NewApplyFulfillmentActionCommand(f.ID(), "ship", commands.ActionContext{TrackingNumber: "  "})
	require.NoError(t, err)

	_, err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, fulfillment.ErrMissingTrackingNumber)
	assert.Equal(t, fulfillment.ReadyToShip, f.Status())
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestApplyFulfillmentActionCommandHandler_Handle_DeliveredAcceptsOnlyReturn(t *testing.T) {
	for _, rule := range fulfillment.DefaultActionMap().Rules() {
		t.Run(string(rule.Action), func(t *testing.T) {
			ctx := t.Context()
			f := fulfillmentInStatus(t, fulfillment.Delivered)
			factory, uow, repo := expectLoaded(t, f)
			repo.On("Update", ctx, f).Return(nil).Maybe()
			uow.On("Commit", ctx).Return(nil).Maybe()

			h := newActionHandler(factory, new(MockEventPublisher))
			cmd, err := commands.NewApplyFulfillmentActionCommand(f.ID(), string(rule.Action), commands.ActionContext{
				TrackingNumber: "T-1",
				Reason:         "customer request",
			})
			require.NoError(t, err)

			result, err := h.Handle(ctx, cmd)
			if rule.Action == fulfillment.ActionReturn {
				require.NoError(t, err)
				assert.Equal(t, fulfillment.Returned, result.CurrentStatus)
				assert.Equal(t, "customer request", f.ReturnReason())
				return
			}
			require.ErrorIs(t, err, commands.ErrIllegalAction)
			assert.Equal(t, fulfillment.Delivered, f.Status())
		})
	}
}

func TestApplyFulfillmentActionCommandHandler_Handle_CompletePackingFromPicked(t *testing.T) {
	ctx := t.Context()
	f := fulfillmentInStatus(t, fulfillment.Picked)
	factory, uow, repo := expectLoaded(t, f)
	repo.On("Update", ctx, f).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()

	count := 2
	h := newActionHandler(factory, new(MockEventPublisher))
	cmd, err := commands.NewApplyFulfillmentActionCommand(f.ID(), "complete_packing", commands.ActionContext{
		PackageCount: &count,
	})
	require.NoError(t, err)

	result, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, fulfillment.ReadyToShip, result.CurrentStatus)
	assert.Equal(t, 2, f.PackageCount())
	assert.NotNil(t, f.Timestamps().PackingStartedAt)
	assert.NotNil(t, f.Timestamps().PackedAt)
}

func TestApplyFulfillmentActionCommandHandler_Handle_CancelRecordsReason(t *testing.T) {
	ctx := t.Context()
	f := fulfillmentInStatus(t, fulfillment.Picking)
	factory, uow, repo := expectLoaded(t, f)
	repo.On("Update", ctx, f).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	publisher := new(MockEventPublisher)
	publisher.On("Emit", liveContext, f.ID().String(), fulfillment.EventCancelled, mock.Anything).Once()

	h := newActionHandler(factory, publisher)
	cmd, err := commands.NewApplyFulfillmentActionCommand(f.ID(), "cancel", commands.ActionContext{Reason: "out of stock"})
	require.NoError(t, err)

	_, err = h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, "out of stock", f.CancelReason())
	assert.NotNil(t, f.Timestamps().CancelledAt)
	publisher.AssertExpectations(t)
}

func TestApplyFulfillmentActionCommandHandler_Handle_UnknownAction(t *testing.T) {
	ctx := t.Context()
	f := fulfillmentInStatus(t, fulfillment.Pending)
	factory, _, _ := expectLoaded(t, f)

	h := newActionHandler(factory, new(MockEventPublisher))
	cmd, err := commands.NewApplyFulfillmentActionCommand(f.ID(), "teleport", commands.ActionContext{})
	require.NoError(t, err)

	_, err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	assert.Equal(t, fulfillment.Pending, f.Status())
}

func TestApplyFulfillmentActionCommandHandler_Handle_NotFound(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	repo := new(MockFulfillmentRepository)
	uow := new(MockFulfillmentUoW)
	factory := new(MockFulfillmentUoWFactory)
	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("FulfillmentRepository").Return(repo).Once(),
		repo.On("Get", ctx, id).Return(nil, errs.NewObjectNotFoundError("fulfillment", id)).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	h := newActionHandler(factory, new(MockEventPublisher))
	cmd, err := commands.NewApplyFulfillmentActionCommand(id, "deliver", commands.ActionContext{})
	require.NoError(t, err)

	_, err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	assert.NotErrorIs(t, err, errs.ErrPersistence)
	uow.AssertExpectations(t)
}

func TestApplyFulfillmentActionCommandHandler_Handle_VersionConflict(t *testing.T) {
	ctx := t.Context()
	f := fulfillmentInStatus(t, fulfillment.Shipped)
	factory, uow, repo := expectLoaded(t, f)
	repo.On("Update", ctx, f).Return(errs.NewVersionIsInvalidError("fulfillment")).Once()
	publisher := new(MockEventPublisher)
	observer := &recordingObserver{}

	h := newActionHandler(factory, publisher, commands.WithActionObserver(observer))
	cmd, err := commands.NewApplyFulfillmentActionCommand(f.ID(), "deliver", commands.ActionContext{})
	require.NoError(t, err)

	_, err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrPersistence)
	require.ErrorIs(t, err, errs.ErrVersionIsInvalid)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	publisher.AssertNotCalled(t, "Emit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, [][2]string{{"deliver", "conflict"}}, observer.calls)
}

func TestApplyFulfillmentActionCommandHandler_Handle_CommitError(t *testing.T) {
	ctx := t.Context()
	f := fulfillmentInStatus(t, fulfillment.OutForDelivery)
	factory, uow, repo := expectLoaded(t, f)
	repo.On("Update", ctx, f).Return(nil).Once()
	uow.On("Commit", ctx).Return(errors.New("connection reset")).Once()
	publisher := new(MockEventPublisher)

	h := newActionHandler(factory, publisher)
	cmd, err := commands.NewApplyFulfillmentActionCommand(f.ID(), "deliver", commands.ActionContext{})
	require.NoError(t, err)

	_, err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrPersistence)
	publisher.AssertNotCalled(t, "Emit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestApplyFulfillmentActionCommandHandler_Handle_ValidationError(t *testing.T) {
	factory := new(MockFulfillmentUoWFactory)
	h := newActionHandler(factory, new(MockEventPublisher))

	_, err := h.Handle(t.Context(), commands.ApplyFulfillmentActionCommand{})
	require.ErrorIs(t, err, commands.ErrApplyFulfillmentActionCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}

func TestApplyFulfillmentActionCommandHandler_Handle_EmitsAfterClientCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	f := fulfillmentInStatus(t, fulfillment.OutForDelivery)
	repo := new(MockFulfillmentRepository)
	uow := new(MockFulfillmentUoW)
	factory := new(MockFulfillmentUoWFactory)
	factory.On("Create").Return(uow)
	uow.On("Begin", ctx).Return(nil)
	uow.On("FulfillmentRepository").Return(repo)
	repo.On("Get", ctx, f.ID()).Return(f, nil)
	repo.On("Update", ctx, f).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Run(func(mock.Arguments) { cancel() }).Once()
	uow.On("Rollback", ctx).Return(nil)
	publisher := new(MockEventPublisher)
	publisher.On("Emit", liveContext, f.ID().String(), fulfillment.EventDelivered, mock.Anything).Once()

	h := newActionHandler(factory, publisher)
	cmd, err := commands.NewApplyFulfillmentActionCommand(f.ID(), "deliver", commands.ActionContext{})
	require.NoError(t, err)

	result, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, fulfillment.Delivered, result.CurrentStatus)
	require.Error(t, ctx.Err())
	publisher.AssertExpectations(t)
}

func TestApplyFulfillmentActionCommandHandler_Handle_StampsUTC(t *testing.T) {
	ctx := t.Context()
	f := fulfillmentInStatus(t, fulfillment.Assigned)
	factory, uow, repo := expectLoaded(t, f)
	repo.On("Update", ctx, f).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()

	local := handlerNow.In(time.FixedZone("CEST", 2*60*60))
	h := newActionHandler(factory, new(MockEventPublisher),
		commands.WithClock(func() time.Time { return local }))
	cmd, err := commands.NewApplyFulfillmentActionCommand(f.ID(), "start_picking", commands.ActionContext{})
	require.NoError(t, err)

	_, err = h.Handle(ctx, cmd)

	require.NoError(t, err)
	started := f.Timestamps().PickingStartedAt
	require.NotNil(t, started)
	assert.Equal(t, time.UTC, started.Location())
	assert.True(t, handlerNow.Equal(*started))
}
