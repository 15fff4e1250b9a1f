package queries_test

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipping"

	"github.com/stretchr/testify/mock"
)

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
func (m *MockRateRepository) FindByZoneAndMethod(
	ctx context.Context,
	zoneID, methodID kernel.UUID,
) (*shipping.Rate, error) {
	args := m.Called(ctx, zoneID, methodID)
	if r, ok := args.Get(0).(*shipping.Rate); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

type recordingQuoteObserver struct {
	outcomes []string
}

func (o *recordingQuoteObserver) ObserveQuote(outcome string) {
	o.outcomes = append(o.outcomes, outcome)
}
