package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipping"
	"fulfillment/internal/pkg/errs"
)

// UpsertShippingZoneCommandHandler writes a zone keyed by name and returns its id.
type UpsertShippingZoneCommandHandler struct {
	uowFactory CatalogUoWFactory
	now        func() time.Time
}

func NewUpsertShippingZoneCommandHandler(uowFactory CatalogUoWFactory) UpsertShippingZoneCommandHandler {
	return UpsertShippingZoneCommandHandler{uowFactory: uowFactory, now: time.Now}
}

func (h UpsertShippingZoneCommandHandler) Handle(ctx context.Context, cmd UpsertShippingZoneCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return kernel.UUID{}, errs.WrapPersistence("begin transaction", err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.ShippingZoneRepository()
	zone, err := repo.GetByName(ctx, cmd.Fields().Name)
	switch {
	case err == nil:
		if err = zone.Update(cmd.Fields()); err != nil {
			return kernel.UUID{}, err
		}
		err = repo.Update(ctx, zone)
	case errors.Is(err, errs.ErrObjectNotFound):
		if zone, err = shipping.NewZone(kernel.NewUUID(), cmd.Fields(), h.now().UTC()); err != nil {
			return kernel.UUID{}, err
		}
		err = repo.Add(ctx, zone)
	}
	if err != nil {
		return kernel.UUID{}, errs.WrapPersistence("save zone", err)
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, errs.WrapPersistence("commit", err)
	}
	return zone.ID(), nil
}

// UpsertShippingMethodCommandHandler writes a method keyed by code and returns its id.
type UpsertShippingMethodCommandHandler struct {
	uowFactory CatalogUoWFactory
	now        func() time.Time
}

func NewUpsertShippingMethodCommandHandler(uowFactory CatalogUoWFactory) UpsertShippingMethodCommandHandler {
	return UpsertShippingMethodCommandHandler{uowFactory: uowFactory, now: time.Now}
}

func (h UpsertShippingMethodCommandHandler) Handle(ctx context.Context, cmd UpsertShippingMethodCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return kernel.UUID{}, errs.WrapPersistence("begin transaction", err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.ShippingMethodRepository()
	method, err := repo.GetByCode(ctx, cmd.Fields().Code)
	switch {
	case err == nil:
		if err = method.Update(cmd.Fields()); err != nil {
			return kernel.UUID{}, err
		}
		err = repo.Update(ctx, method)
	case errors.Is(err, errs.ErrObjectNotFound):
		if method, err = shipping.NewMethod(kernel.NewUUID(), cmd.Fields(), h.now().UTC()); err != nil {
			return kernel.UUID{}, err
		}
		err = repo.Add(ctx, method)
	}
	if err != nil {
		return kernel.UUID{}, errs.WrapPersistence("save method", err)
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, errs.WrapPersistence("commit", err)
	}
	return method.ID(), nil
}

// SaveShippingRateCommandHandler writes a rate after checking that its zone
// and method exist. The rate matrix is validated by shipping.NewRate.
type SaveShippingRateCommandHandler struct {
	uowFactory CatalogUoWFactory
	now        func() time.Time
}

func NewSaveShippingRateCommandHandler(uowFactory CatalogUoWFactory) SaveShippingRateCommandHandler {
	return SaveShippingRateCommandHandler{uowFactory: uowFactory, now: time.Now}
}

func (h SaveShippingRateCommandHandler) Handle(ctx context.Context, cmd SaveShippingRateCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	fields := cmd.Fields()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return errs.WrapPersistence("begin transaction", err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if _, err := uow.ShippingZoneRepository().Get(ctx, fields.ZoneID); err != nil {
		return errs.WrapPersistence("load zone", err)
	}
	if _, err := uow.ShippingMethodRepository().Get(ctx, fields.MethodID); err != nil {
		return errs.WrapPersistence("load method", err)
	}

	repo := uow.ShippingRateRepository()
	rate, err := repo.Get(ctx, cmd.RateID())
	switch {
	case err == nil:
		if err = rate.Update(fields); err != nil {
			return err
		}
		err = repo.Update(ctx, rate)
	case errors.Is(err, errs.ErrObjectNotFound):
		if rate, err = shipping.NewRate(cmd.RateID(), fields, h.now().UTC()); err != nil {
			return err
		}
		err = repo.Add(ctx, rate)
	}
	if err != nil {
		return errs.WrapPersistence("save rate", err)
	}

	if err = uow.Commit(ctx); err != nil {
		return errs.WrapPersistence("commit", err)
	}
	return nil
}
