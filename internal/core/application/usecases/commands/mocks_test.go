package commands_test

import (
	"context"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipping"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockFulfillmentRepository struct{ mock.Mock }

func (m *MockFulfillmentRepository) Add(ctx context.Context, f *fulfillment.Fulfillment) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *MockFulfillmentRepository) Update(ctx context.Context, f *fulfillment.Fulfillment) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *MockFulfillmentRepository) Get(ctx context.Context, id kernel.UUID) (*fulfillment.Fulfillment, error) {
	args := m.Called(ctx, id)
	if f, ok := args.Get(0).(*fulfillment.Fulfillment); ok {
		return f, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockFulfillmentUoW struct{ mock.Mock }

func (m *MockFulfillmentUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockFulfillmentUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockFulfillmentUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockFulfillmentUoW) FulfillmentRepository() ports.FulfillmentRepository {
	args := m.Called()
	return args.Get(0).(ports.FulfillmentRepository)
}

type MockFulfillmentUoWFactory struct{ mock.Mock }

func (m *MockFulfillmentUoWFactory) Create() commands.FulfillmentUoW {
	args := m.Called()
	return args.Get(0).(commands.FulfillmentUoW)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) Emit(ctx context.Context, aggregateID, name string, payload any) {
	m.Called(ctx, aggregateID, name, payload)
}

type MockZoneRepository struct{ mock.Mock }

func (m *MockZoneRepository) Add(ctx context.Context, z *shipping.Zone) error {
	return m.Called(ctx, z).Error(0)
}
func (m *MockZoneRepository) Update(ctx context.Context, z *shipping.Zone) error {
	return m.Called(ctx, z).Error(0)
}
func (m *MockZoneRepository) Get(ctx context.Context, id kernel.UUID) (*shipping.Zone, error) {
	args := m.Called(ctx, id)
	if z, ok := args.Get(0).(*shipping.Zone); ok {
		return z, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockZoneRepository) GetByName(ctx context.Context, name string) (*shipping.Zone, error) {
	args := m.Called(ctx, name)
	if z, ok := args.Get(0).(*shipping.Zone); ok {
		return z, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockZoneRepository) List(ctx context.Context) ([]*shipping.Zone, error) {
	args := m.Called(ctx)
	if zs, ok := args.Get(0).([]*shipping.Zone); ok {
		return zs, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockMethodRepository struct{ mock.Mock }

func (m *MockMethodRepository) Add(ctx context.Context, sm *shipping.Method) error {
	return m.Called(ctx, sm).Error(0)
}
func (m *MockMethodRepository) Update(ctx context.Context, sm *shipping.Method) error {
	return m.Called(ctx, sm).Error(0)
}
func (m *MockMethodRepository) Get(ctx context.Context, id kernel.UUID) (*shipping.Method, error) {
	args := m.Called(ctx, id)
	if sm, ok := args.Get(0).(*shipping.Method); ok {
		return sm, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockMethodRepository) GetByCode(ctx context.Context, code string) (*shipping.Method, error) {
	args := m.Called(ctx, code)
	if sm, ok := args.Get(0).(*shipping.Method); ok {
		return sm, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockMethodRepository) ListActive(ctx context.Context) ([]*shipping.Method, error) {
	args := m.Called(ctx)
	if ms, ok := args.Get(0).([]*shipping.Method); ok {
		return ms, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockRateRepository struct{ mock.Mock }

func (m *MockRateRepository) Add(ctx context.Context, r *shipping.Rate) error {
	return m.Called(ctx, r).Error(0)
}
func (m *MockRateRepository) Update(ctx context.Context, r *shipping.Rate) error {
	return m.Called(ctx, r).Error(0)
}
func (m *MockRateRepository) Get(ctx context.Context, id kernel.UUID) (*shipping.Rate, error) {
	args := m.Called(ctx, id)
	if r, ok := args.Get(0).(*shipping.Rate); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockRateRepository) FindByZoneAndMethod(ctx context.Context, zoneID, methodID kernel.UUID) (*shipping.Rate, error) {
	args := m.Called(ctx, zoneID, methodID)
	if r, ok := args.Get(0).(*shipping.Rate); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockCatalogUoW struct{ mock.Mock }

func (m *MockCatalogUoW) Begin(ctx context.Context) error    { return m.Called(ctx).Error(0) }
func (m *MockCatalogUoW) Commit(ctx context.Context) error   { return m.Called(ctx).Error(0) }
func (m *MockCatalogUoW) Rollback(ctx context.Context) error { return m.Called(ctx).Error(0) }
func (m *MockCatalogUoW) ShippingZoneRepository() ports.ShippingZoneRepository {
	return m.Called().Get(0).(ports.ShippingZoneRepository)
}
func (m *MockCatalogUoW) ShippingMethodRepository() ports.ShippingMethodRepository {
	return m.Called().Get(0).(ports.ShippingMethodRepository)
}
func (m *MockCatalogUoW) ShippingRateRepository() ports.ShippingRateRepository {
	return m.Called().Get(0).(ports.ShippingRateRepository)
}

type MockCatalogUoWFactory struct{ mock.Mock }

func (m *MockCatalogUoWFactory) Create() commands.CatalogUoW {
	return m.Called().Get(0).(commands.CatalogUoW)
}

type recordingObserver struct {
	calls [][2]string
}

func (o *recordingObserver) ObserveAction(action, outcome string) {
	o.calls = append(o.calls, [2]string{action, outcome})
}
