package commands_test

import (
	"errors"
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCreateCommand(t *testing.T, items ...fulfillment.ItemFields) commands.CreateFulfillmentCommand {
	t.Helper()
	shipTo, err := kernel.NewAddress(kernel.AddressFields{Line1: "1 Pier St", City: "Seattle", State: "WA", Country: "us"})
	require.NoError(t, err)
	if len(items) == 0 {
		items = []fulfillment.ItemFields{{SKU: "MUG-01", QuantityOrdered: 2}, {SKU: "CAP-02", QuantityOrdered: 1}}
	}
	cmd, err := commands.NewCreateFulfillmentCommand(kernel.NewUUID(), fulfillment.Params{
		OrderID:    "ord-1001",
		SourceType: fulfillment.SourceWarehouse,
		SourceID:   "wh-west",
		ShipTo:     shipTo,
	}, items)
	require.NoError(t, err)
	return cmd
}

func TestNewCreateFulfillmentCommand_Invalid(t *testing.T) {
	_, err := commands.NewCreateFulfillmentCommand(kernel.UUID{}, fulfillment.Params{SourceType: "courier"}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestCreateFulfillmentCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd := newCreateCommand(t)

	repo := new(MockFulfillmentRepository)
	uow := new(MockFulfillmentUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("FulfillmentRepository").Return(repo).Once(),
		repo.On("Add", ctx, mock.AnythingOfType("*fulfillment.Fulfillment")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	factory := new(MockFulfillmentUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateFulfillmentCommandHandler(factory)
	require.NoError(t, h.Handle(ctx, cmd))

	created := repo.Calls[0].Arguments.Get(1).(*fulfillment.Fulfillment)
	assert.Equal(t, fulfillment.Pending, created.Status())
	assert.True(t, cmd.FulfillmentID().IsEqual(created.ID()))
	assert.Len(t, created.Items(), 2)
	assert.Equal(t, "US", created.ShipTo().Country())
	uow.AssertExpectations(t)
}

func TestCreateFulfillmentCommandHandler_Handle_InvalidItem(t *testing.T) {
	cmd := newCreateCommand(t, fulfillment.ItemFields{SKU: "", QuantityOrdered: 0})
	factory := new(MockFulfillmentUoWFactory)

	h := commands.NewCreateFulfillmentCommandHandler(factory)
	err := h.Handle(t.Context(), cmd)
	require.Error(t, err)
	factory.AssertNotCalled(t, "Create")
}

func TestCreateFulfillmentCommandHandler_Handle_AddError(t *testing.T) {
	ctx := t.Context()
	cmd := newCreateCommand(t)

	repo := new(MockFulfillmentRepository)
	uow := new(MockFulfillmentUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("FulfillmentRepository").Return(repo).Once(),
		repo.On("Add", ctx, mock.Anything).Return(errors.New("duplicate key")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	factory := new(MockFulfillmentUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateFulfillmentCommandHandler(factory)
	err := h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrPersistence)
	uow.AssertExpectations(t)
}
