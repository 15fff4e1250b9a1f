package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

var ErrIllegalAction = errors.New("illegal action")

// IllegalActionError reports an action that is not legal from the current
// status. Allowed lists the actions that are.
type IllegalActionError struct {
	Action  fulfillment.Action
	Status  fulfillment.Status
	Allowed []fulfillment.Action
}

func NewIllegalActionError(action fulfillment.Action, status fulfillment.Status, allowed []fulfillment.Action) *IllegalActionError {
	return &IllegalActionError{Action: action, Status: status, Allowed: allowed}
}

func (e *IllegalActionError) Error() string {
	names := make([]string, 0, len(e.Allowed))
	for _, a := range e.Allowed {
		names = append(names, string(a))
	}
	return fmt.Sprintf("%s: %s is not allowed while %s (allowed: [%s])",
		ErrIllegalAction, e.Action, e.Status, strings.Join(names, ", "))
}

func (e *IllegalActionError) Unwrap() error {
	return ErrIllegalAction
}

// ActionResult describes the effect of an applied action.
type ActionResult struct {
	PreviousStatus fulfillment.Status
	CurrentStatus  fulfillment.Status
	TrackingNumber string
}

// ActionObserver receives the outcome of every handled action.
type ActionObserver interface {
	ObserveAction(action string, outcome string)
}

// ApplyFulfillmentActionCommandHandler is the status coordinator: it loads a
// fulfillment, checks the action against the action map, applies it to the
// aggregate, persists under optimistic versioning and announces the result.
//
// Events are emitted after commit. A failed emission is the publisher's
// concern and never undoes the transition.
type ApplyFulfillmentActionCommandHandler struct {
	uowFactory  FulfillmentUoWFactory
	publisher   ports.EventPublisher
	transitions fulfillment.TransitionTable
	actions     fulfillment.ActionMap
	observer    ActionObserver
	logger      *slog.Logger
	now         func() time.Time
}

// HandlerOption customizes ApplyFulfillmentActionCommandHandler.
type HandlerOption func(*ApplyFulfillmentActionCommandHandler)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) HandlerOption {
	return func(h *ApplyFulfillmentActionCommandHandler) { h.now = now }
}

func WithActionObserver(o ActionObserver) HandlerOption {
	return func(h *ApplyFulfillmentActionCommandHandler) { h.observer = o }
}

func NewApplyFulfillmentActionCommandHandler(
	uowFactory FulfillmentUoWFactory,
	publisher ports.EventPublisher,
	transitions fulfillment.TransitionTable,
	logger *slog.Logger,
	opts ...HandlerOption,
) ApplyFulfillmentActionCommandHandler {
	h := ApplyFulfillmentActionCommandHandler{
		uowFactory:  uowFactory,
		publisher:   publisher,
		transitions: transitions,
		actions:     fulfillment.DefaultActionMap(),
		logger:      logger.With("component", "fulfillment_status_coordinator"),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(&h)
	}
	return h
}

// Handle applies the command's action.
//
// Errors: errs.ErrObjectNotFound for an unknown fulfillment,
// errs.ErrValueIsInvalid for an unknown action, ErrIllegalAction when the
// action is not legal from the current status,
// fulfillment.ErrMissingTrackingNumber for ship without tracking, and
// errs.ErrPersistence (with errs.ErrVersionIsInvalid on a concurrent
// update) when the write fails.
func (h ApplyFulfillmentActionCommandHandler) Handle(
	ctx context.Context,
	cmd ApplyFulfillmentActionCommand,
) (ActionResult, error) {
	if err := cmd.Validate(); err != nil {
		return ActionResult{}, err
	}

	result, err := h.handle(ctx, cmd)
	h.observe(cmd.Action(), err)
	if err != nil {
		return ActionResult{}, err
	}
	return result, nil
}

func (h ApplyFulfillmentActionCommandHandler) handle(
	ctx context.Context,
	cmd ApplyFulfillmentActionCommand,
) (ActionResult, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ActionResult{}, errs.WrapPersistence("begin transaction", err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.FulfillmentRepository()
	f, err := repo.Get(ctx, cmd.FulfillmentID())
	if err != nil {
		return ActionResult{}, errs.WrapPersistence("load fulfillment", err)
	}

	action := cmd.Action()
	if _, ok := h.actions.Rule(action); !ok {
		return ActionResult{}, errs.NewValueIsInvalidErrorWithCause("action",
			fmt.Errorf("%q is not a known action", string(action)))
	}
	previous := f.Status()
	if !h.actions.IsLegal(action, previous) {
		return ActionResult{}, NewIllegalActionError(action, previous, h.actions.AllowedFrom(previous))
	}

	if err = f.UseTransitions(h.transitions); err != nil {
		return ActionResult{}, err
	}
	if err = h.apply(f, action, cmd.Context(), h.now().UTC()); err != nil {
		return ActionResult{}, err
	}

	if err = repo.Update(ctx, f); err != nil {
		return ActionResult{}, errs.WrapPersistence("update fulfillment", err)
	}
	if err = uow.Commit(ctx); err != nil {
		return ActionResult{}, errs.WrapPersistence("commit", err)
	}

	if name, payload, ok := fulfillment.EventFor(action, f, previous); ok {
		// The transition is committed; a client disconnect must not drop its event.
		h.publisher.Emit(context.WithoutCancel(ctx), f.ID().String(), name, payload)
	}

	h.logger.InfoContext(ctx, "Fulfillment action applied",
		"fulfillment_id", f.ID().String(),
		"action", string(action),
		"from", previous.String(),
		"to", f.Status().String(),
	)

	return ActionResult{
		PreviousStatus: previous,
		CurrentStatus:  f.Status(),
		TrackingNumber: f.TrackingNumber(),
	}, nil
}

func (h ApplyFulfillmentActionCommandHandler) apply(
	f *fulfillment.Fulfillment,
	action fulfillment.Action,
	c ActionContext,
	now time.Time,
) error {
	switch action {
	case fulfillment.ActionStartProcessing:
		return f.Assign(now)
	case fulfillment.ActionStartPicking:
		return f.StartPicking(now)
	case fulfillment.ActionCompletePicking:
		return f.CompletePicking(now)
	case fulfillment.ActionCompletePacking:
		return f.CompletePacking(fulfillment.PackingDetails{
			Weight:       c.Weight,
			PackageCount: c.PackageCount,
			Dimensions:   c.Dimensions,
		}, now)
	case fulfillment.ActionShip:
		if strings.TrimSpace(c.TrackingNumber) == "" {
			return fulfillment.ErrMissingTrackingNumber
		}
		return f.Ship(fulfillment.ShipmentDetails{
			TrackingNumber: c.TrackingNumber,
			TrackingURL:    c.TrackingURL,
			CarrierID:      c.CarrierID,
			CarrierName:    c.CarrierName,
		}, now)
	case fulfillment.ActionInTransit:
		return f.MarkInTransit(c.Location, now)
	case fulfillment.ActionOutForDelivery:
		return f.MarkOutForDelivery(c.Location, now)
	case fulfillment.ActionDeliver:
		return f.Deliver(now)
	case fulfillment.ActionFail:
		return f.Fail(c.Reason, now)
	case fulfillment.ActionReturn:
		return f.Return(c.Reason, now)
	case fulfillment.ActionCancel:
		return f.Cancel(c.Reason, now)
	default:
		return errs.NewValueIsInvalidErrorWithCause("action", fmt.Errorf("%q is not a known action", string(action)))
	}
}

func (h ApplyFulfillmentActionCommandHandler) observe(action fulfillment.Action, err error) {
	if h.observer == nil {
		return
	}
	outcome := "applied"
	switch {
	case err == nil:
	case errors.Is(err, ErrIllegalAction), errors.Is(err, fulfillment.ErrInvalidTransition):
		outcome = "illegal"
	case errors.Is(err, errs.ErrVersionIsInvalid):
		outcome = "conflict"
	case errors.Is(err, errs.ErrPersistence):
		outcome = "persistence_error"
	case errors.Is(err, errs.ErrObjectNotFound):
		outcome = "not_found"
	default:
		outcome = "invalid"
	}
	h.observer.ObserveAction(string(action), outcome)
}
