package order

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Additional-Code/ordergraph/internal/dto"
	"github.com/Additional-Code/ordergraph/internal/model"
	"github.com/Additional-Code/ordergraph/internal/presentation/http/response"
	service "github.com/Additional-Code/ordergraph/internal/service/order"
	"github.com/Additional-Code/ordergraph/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/Additional-Code/ordergraph/transport/http/order")

// Service is the part of the order service the handler needs.
type Service interface {
	Get(ctx context.Context, id string) (*model.CustomerOrder, error)
	Create(ctx context.Context, order *model.CustomerOrder) (*model.CustomerOrder, error)
	Patch(ctx context.Context, id string, incoming *model.CustomerOrder) (service.PatchResult, error)
	Delete(ctx context.Context, id string) error
}

// Handler exposes order endpoints over HTTP.
type Handler struct {
	svc Service
}

// NewHandler constructs an order Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with provided Echo group.
func Register(e *echo.Echo, h *Handler) {
	g := e.Group("/orders")
	g.GET("/:id", h.getByID)
	g.POST("", h.create)
	g.PATCH("/:id", h.patch)
	g.DELETE("/:id", h.delete)
}

func (h *Handler) getByID(c echo.Context) error {
	b := response.New(c)
	id := c.Param("id")

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.getByID", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	order, err := h.svc.Get(ctx, id)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(order).Build()
}

func (h *Handler) create(c echo.Context) error {
	b := response.New(c)

	order, err := bindOrder(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.create")
	span.SetAttributes(
		attribute.String("order.number", order.Number),
	)
	defer span.End()

	created, err := h.svc.Create(ctx, order)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithStatus(http.StatusCreated).WithData(created).Build()
}

func (h *Handler) patch(c echo.Context) error {
	b := response.New(c)
	id := c.Param("id")

	incoming, err := bindOrder(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.patch", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	res, err := h.svc.Patch(ctx, id, incoming)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(dto.PatchOrderResponse{
		Order:    res.Order,
		Changes:  dto.Summarize(res.Stats),
		Dangling: res.Dangling,
	}).Build()
}

func (h *Handler) delete(c echo.Context) error {
	b := response.New(c)
	id := c.Param("id")

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.delete", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	if err := h.svc.Delete(ctx, id); err != nil {
		return b.WithError(err).Build()
	}

	return b.WithStatus(http.StatusNoContent).Build()
}

func bindOrder(c echo.Context) (*model.CustomerOrder, error) {
	var order model.CustomerOrder
	if err := (&echo.DefaultBinder{}).BindBody(c, &order); err != nil {
		return nil, errorbank.BadRequest("invalid payload", errorbank.WithCause(err))
	}
	return &order, nil
}
