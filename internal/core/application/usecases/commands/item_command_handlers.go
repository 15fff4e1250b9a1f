package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// itemMutator runs one item-level change against a loaded fulfillment inside
// a unit of work and writes it back under the optimistic version.
type itemMutator struct {
	uowFactory  FulfillmentUoWFactory
	transitions fulfillment.TransitionTable
	now         func() time.Time
}

func (m itemMutator) mutate(
	ctx context.Context,
	fulfillmentID kernel.UUID,
	change func(f *fulfillment.Fulfillment, now time.Time) error,
) error {
	uow := m.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return errs.WrapPersistence("begin transaction", err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.FulfillmentRepository()
	f, err := repo.Get(ctx, fulfillmentID)
	if err != nil {
		return errs.WrapPersistence("load fulfillment", err)
	}
	if err = f.UseTransitions(m.transitions); err != nil {
		return err
	}
	if err = change(f, m.now().UTC()); err != nil {
		return err
	}

	if err = repo.Update(ctx, f); err != nil {
		return errs.WrapPersistence("update fulfillment", err)
	}
	if err = uow.Commit(ctx); err != nil {
		return errs.WrapPersistence("commit", err)
	}
	return nil
}

// PickItemCommandHandler applies PickItemCommand. Picking is only possible
// while the fulfillment is in picking.
type PickItemCommandHandler struct {
	itemMutator
}

func NewPickItemCommandHandler(
	uowFactory FulfillmentUoWFactory,
	transitions fulfillment.TransitionTable,
) PickItemCommandHandler {
	return PickItemCommandHandler{itemMutator{uowFactory: uowFactory, transitions: transitions, now: time.Now}}
}

func (h PickItemCommandHandler) Handle(ctx context.Context, cmd PickItemCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	return h.mutate(ctx, cmd.FulfillmentID(), func(f *fulfillment.Fulfillment, now time.Time) error {
		return f.PickItem(cmd.ItemID(), cmd.Quantity(), cmd.SerialNumbers(), now)
	})
}

// PackItemCommandHandler applies PackItemCommand. The first pack after
// picking moves the fulfillment into packing.
type PackItemCommandHandler struct {
	itemMutator
}

func NewPackItemCommandHandler(
	uowFactory FulfillmentUoWFactory,
	transitions fulfillment.TransitionTable,
) PackItemCommandHandler {
	return PackItemCommandHandler{itemMutator{uowFactory: uowFactory, transitions: transitions, now: time.Now}}
}

func (h PackItemCommandHandler) Handle(ctx context.Context, cmd PackItemCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	return h.mutate(ctx, cmd.FulfillmentID(), func(f *fulfillment.Fulfillment, now time.Time) error {
		return f.PackItem(cmd.ItemID(), cmd.Quantity(), now)
	})
}
