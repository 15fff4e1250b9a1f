package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// CreateFulfillmentCommandHandler stores a new fulfillment in pending status.
type CreateFulfillmentCommandHandler struct {
	uowFactory FulfillmentUoWFactory
	now        func() time.Time
}

func NewCreateFulfillmentCommandHandler(uowFactory FulfillmentUoWFactory) CreateFulfillmentCommandHandler {
	return CreateFulfillmentCommandHandler{
		uowFactory: uowFactory,
		now:        time.Now,
	}
}

func (h CreateFulfillmentCommandHandler) Handle(ctx context.Context, cmd CreateFulfillmentCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	var itemErrs []error
	items := make([]*fulfillment.Item, 0, len(cmd.Items()))
	for _, fields := range cmd.Items() {
		item, err := fulfillment.NewItem(kernel.NewUUID(), fields)
		if err != nil {
			itemErrs = append(itemErrs, err)
			continue
		}
		items = append(items, item)
	}
	if err := errors.Join(itemErrs...); err != nil {
		return err
	}

	params := cmd.Params()
	params.Items = items
	f, err := fulfillment.NewFulfillment(cmd.FulfillmentID(), params, h.now().UTC())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return errs.WrapPersistence("begin transaction", err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.FulfillmentRepository().Add(ctx, f); err != nil {
		return errs.WrapPersistence("add fulfillment", err)
	}

	if err = uow.Commit(ctx); err != nil {
		return errs.WrapPersistence("commit", err)
	}
	return nil
}
