package http_test

import (
	"context"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/mock"
)

type mockCreateFulfillment struct{ mock.Mock }

func (m *mockCreateFulfillment) Handle(ctx context.Context, cmd commands.CreateFulfillmentCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type mockApplyAction struct{ mock.Mock }

func (m *mockApplyAction) Handle(ctx context.Context, cmd commands.ApplyFulfillmentActionCommand) (commands.ActionResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.ActionResult), args.Error(1)
}

type mockPickItem struct{ mock.Mock }

func (m *mockPickItem) Handle(ctx context.Context, cmd commands.PickItemCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type mockPackItem struct{ mock.Mock }

func (m *mockPackItem) Handle(ctx context.Context, cmd commands.PackItemCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type mockUpsertZone struct{ mock.Mock }

func (m *mockUpsertZone) Handle(ctx context.Context, cmd commands.UpsertShippingZoneCommand) (kernel.UUID, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(kernel.UUID), args.Error(1)
}

type mockUpsertMethod struct{ mock.Mock }

func (m *mockUpsertMethod) Handle(ctx context.Context, cmd commands.UpsertShippingMethodCommand) (kernel.UUID, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(kernel.UUID), args.Error(1)
}

type mockSaveRate struct{ mock.Mock }

func (m *mockSaveRate) Handle(ctx context.Context, cmd commands.SaveShippingRateCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type mockGetFulfillment struct{ mock.Mock }

func (m *mockGetFulfillment) Handle(ctx context.Context, q queries.GetFulfillmentQuery) (queries.GetFulfillmentQueryResponse, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(queries.GetFulfillmentQueryResponse), args.Error(1)
}

type mockPriceDestination struct{ mock.Mock }

func (m *mockPriceDestination) Handle(ctx context.Context, q queries.PriceDestinationQuery) (queries.PriceDestinationQueryResponse, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(queries.PriceDestinationQueryResponse), args.Error(1)
}
