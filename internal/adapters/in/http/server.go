package http

import (
	"context"
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

type (
	CreateFulfillmentHandler interface {
		Handle(ctx context.Context, cmd commands.CreateFulfillmentCommand) error
	}
	ApplyActionHandler interface {
		Handle(ctx context.Context, cmd commands.ApplyFulfillmentActionCommand) (commands.ActionResult, error)
	}
	PickItemHandler interface {
		Handle(ctx context.Context, cmd commands.PickItemCommand) error
	}
	PackItemHandler interface {
		Handle(ctx context.Context, cmd commands.PackItemCommand) error
	}
	UpsertZoneHandler interface {
		Handle(ctx context.Context, cmd commands.UpsertShippingZoneCommand) (kernel.UUID, error)
	}
	UpsertMethodHandler interface {
		Handle(ctx context.Context, cmd commands.UpsertShippingMethodCommand) (kernel.UUID, error)
	}
	SaveRateHandler interface {
		Handle(ctx context.Context, cmd commands.SaveShippingRateCommand) error
	}
	GetFulfillmentHandler interface {
		Handle(ctx context.Context, q queries.GetFulfillmentQuery) (queries.GetFulfillmentQueryResponse, error)
	}
	PriceDestinationHandler interface {
		Handle(ctx context.Context, q queries.PriceDestinationQuery) (queries.PriceDestinationQueryResponse, error)
	}
)

// Handlers groups the use cases reachable over HTTP.
type Handlers struct {
	CreateFulfillment CreateFulfillmentHandler
	ApplyAction       ApplyActionHandler
	PickItem          PickItemHandler
	PackItem          PackItemHandler
	UpsertZone        UpsertZoneHandler
	UpsertMethod      UpsertMethodHandler
	SaveRate          SaveRateHandler
	GetFulfillment    GetFulfillmentHandler
	PriceDestination  PriceDestinationHandler
}

// Server translates HTTP requests into commands and queries.
type Server struct {
	h Handlers
}

func NewServer(h Handlers) *Server {
	return &Server{h: h}
}

// Register mounts the API routes on g, which is expected to be rooted at /api/v1.
func (s *Server) Register(g *echo.Group) {
	g.POST("/fulfillments", s.CreateFulfillment)
	g.GET("/fulfillments/:fulfillmentId", s.GetFulfillment)
	g.POST("/fulfillments/:fulfillmentId/actions", s.ApplyAction)
	g.POST("/fulfillments/:fulfillmentId/items/:itemId/pick", s.PickItem)
	g.POST("/fulfillments/:fulfillmentId/items/:itemId/pack", s.PackItem)

	g.POST("/shipping/quotes", s.QuoteShipping)
	g.POST("/shipping/zones", s.UpsertZone)
	g.POST("/shipping/methods", s.UpsertMethod)
	g.POST("/shipping/rates", s.SaveRate)
}

// CreateFulfillment handles POST /api/v1/fulfillments.
func (s *Server) CreateFulfillment(ctx echo.Context) error {
	var body NewFulfillment
	if err := bindAndValidate(ctx, &body); err != nil {
		return err
	}

	id := kernel.NewUUID()
	cmd, err := body.toCommand(id)
	if err != nil {
		return err
	}
	if err = s.h.CreateFulfillment.Handle(ctx.Request().Context(), cmd); err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, createdFrom(id))
}

// GetFulfillment handles GET /api/v1/fulfillments/{fulfillmentId}.
func (s *Server) GetFulfillment(ctx echo.Context) error {
	id, err := pathUUID(ctx, "fulfillmentId")
	if err != nil {
		return err
	}

	q, err := queries.NewGetFulfillmentQuery(id)
	if err != nil {
		return err
	}
	res, err := s.h.GetFulfillment.Handle(ctx.Request().Context(), q)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, fulfillmentFrom(res))
}

// ApplyAction handles POST /api/v1/fulfillments/{fulfillmentId}/actions.
func (s *Server) ApplyAction(ctx echo.Context) error {
	id, err := pathUUID(ctx, "fulfillmentId")
	if err != nil {
		return err
	}
	var body ActionRequest
	if err = bindAndValidate(ctx, &body); err != nil {
		return err
	}

	cmd, err := body.toCommand(id)
	if err != nil {
		return err
	}
	res, err := s.h.ApplyAction.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, actionResultFrom(res))
}

// PickItem handles POST /api/v1/fulfillments/{fulfillmentId}/items/{itemId}/pick.
func (s *Server) PickItem(ctx echo.Context) error {
	fulfillmentID, itemID, err := itemPath(ctx)
	if err != nil {
		return err
	}
	var body PickRequest
	if err = bindAndValidate(ctx, &body); err != nil {
		return err
	}

	cmd, err := commands.NewPickItemCommand(fulfillmentID, itemID, body.Quantity, body.SerialNumbers)
	if err != nil {
		return err
	}
	if err = s.h.PickItem.Handle(ctx.Request().Context(), cmd); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

// PackItem handles POST /api/v1/fulfillments/{fulfillmentId}/items/{itemId}/pack.
func (s *Server) PackItem(ctx echo.Context) error {
	fulfillmentID, itemID, err := itemPath(ctx)
	if err != nil {
		return err
	}
	var body PackRequest
	if err = bindAndValidate(ctx, &body); err != nil {
		return err
	}

	cmd, err := commands.NewPackItemCommand(fulfillmentID, itemID, body.Quantity)
	if err != nil {
		return err
	}
	if err = s.h.PackItem.Handle(ctx.Request().Context(), cmd); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

// QuoteShipping handles POST /api/v1/shipping/quotes. No zone and no
// methods are answers, not errors, and come back as 200.
func (s *Server) QuoteShipping(ctx echo.Context) error {
	var body QuoteRequest
	if err := bindAndValidate(ctx, &body); err != nil {
		return err
	}

	q, err := body.toQuery()
	if err != nil {
		return err
	}
	res, err := s.h.PriceDestination.Handle(ctx.Request().Context(), q)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, quoteResultFrom(res))
}

func (s *Server) UpsertZone(ctx echo.Context) error {
	var body Zone
	if err := bindAndValidate(ctx, &body); err != nil {
		return err
	}
	cmd, err := body.toCommand()
	if err != nil {
		return err
	}
	id, err := s.h.UpsertZone.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, createdFrom(id))
}

func (s *Server) UpsertMethod(ctx echo.Context) error {
	var body Method
	if err := bindAndValidate(ctx, &body); err != nil {
		return err
	}
	cmd, err := body.toCommand()
	if err != nil {
		return err
	}
	id, err := s.h.UpsertMethod.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, createdFrom(id))
}

func (s *Server) SaveRate(ctx echo.Context) error {
	var body Rate
	if err := bindAndValidate(ctx, &body); err != nil {
		return err
	}
	cmd, err := body.toCommand()
	if err != nil {
		return err
	}
	if err = s.h.SaveRate.Handle(ctx.Request().Context(), cmd); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, createdFrom(cmd.RateID()))
}

func pathUUID(ctx echo.Context, name string) (kernel.UUID, error) {
	var raw openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), &raw,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return kernel.UUID{}, echo.NewHTTPError(http.StatusBadRequest, "invalid format for parameter "+name)
	}
	id, err := kernel.UUIDFromGoogle(raw)
	if err != nil {
		return kernel.UUID{}, echo.NewHTTPError(http.StatusBadRequest, "invalid format for parameter "+name)
	}
	return id, nil
}

func itemPath(ctx echo.Context) (kernel.UUID, kernel.UUID, error) {
	fulfillmentID, err := pathUUID(ctx, "fulfillmentId")
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, err
	}
	itemID, err := pathUUID(ctx, "itemId")
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, err
	}
	return fulfillmentID, itemID, nil
}
