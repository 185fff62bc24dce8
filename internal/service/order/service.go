package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/ordergraph/internal/cache"
	"github.com/Additional-Code/ordergraph/internal/config"
	"github.com/Additional-Code/ordergraph/internal/dto"
	"github.com/Additional-Code/ordergraph/internal/entity"
	"github.com/Additional-Code/ordergraph/internal/messaging"
	"github.com/Additional-Code/ordergraph/internal/model"
	"github.com/Additional-Code/ordergraph/internal/reconcile"
	"github.com/Additional-Code/ordergraph/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/Additional-Code/ordergraph/service/order")

// Service encapsulates business logic around order graphs.
type Service struct {
	store      reconcile.Store
	reconciler *reconcile.Reconciler
	metrics    *reconcile.Metrics
	factory    entity.Factory
	validator  *Validator
	cache      cache.Store
	cacheTTL   time.Duration
	logger     *zap.Logger
	publisher  messaging.Client
	messaging  messagingConfig
	currency   string
	now        func() time.Time
}

// messagingConfig contains messaging specific knobs we care about.
type messagingConfig struct {
	enabled bool
	topic   string
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Store      reconcile.Store
	Reconciler *reconcile.Reconciler
	Metrics    *reconcile.Metrics `optional:"true"`
	Factory    entity.Factory
	Validator  *Validator `optional:"true"`
	Cache      cache.Store
	Config     config.Config
	Logger     *zap.Logger
	Publisher  messaging.Client
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	factory := p.Factory
	if factory == nil {
		factory = entity.DefaultFactory{}
	}
	validator := p.Validator
	if validator == nil {
		validator = NewValidator()
	}
	return &Service{
		store:      p.Store,
		reconciler: p.Reconciler,
		metrics:    p.Metrics,
		factory:    factory,
		validator:  validator,
		cache:      p.Cache,
		cacheTTL:   p.Config.Orders.CacheTTL,
		logger:     logger,
		publisher:  p.Publisher,
		messaging: messagingConfig{
			enabled: p.Config.Messaging.Enabled,
			topic:   p.Config.Orders.EventTopic,
		},
		currency: p.Config.Orders.DefaultCurrency,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Get retrieves an order graph by id, consulting cache when available.
func (s *Service) Get(ctx context.Context, id string) (*model.CustomerOrder, error) {
	if id == "" {
		return nil, errorbank.BadRequest("order id is required")
	}
	ctx, span := serviceTracer.Start(ctx, "OrderService.Get", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	if order, err := cache.GetJSON[model.CustomerOrder](ctx, s.cache, cacheKey(id)); err == nil {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return order, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("orders cache read failed", zap.String("id", id), zap.Error(err))
	}

	current, err := s.store.LoadGraph(ctx, id)
	if err != nil {
		return nil, s.storeError(span, "failed to load order", err)
	}

	order, err := s.toModel(current)
	if err != nil {
		return nil, errorbank.Internal("failed to map order", errorbank.WithCause(err))
	}
	s.storeInCache(ctx, order)

	return order, nil
}

// Create persists a new order graph. Generated identifiers are written back
// onto order, which is also returned.
func (s *Service) Create(ctx context.Context, order *model.CustomerOrder) (*model.CustomerOrder, error) {
	if err := s.validator.Order(ctx, order); err != nil {
		return nil, err
	}
	ctx, span := serviceTracer.Start(ctx, "OrderService.Create", trace.WithAttributes(attribute.String("order.number", order.Number)))
	defer span.End()

	if order.Currency == "" {
		order.Currency = s.currency
	}
	now := s.now()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now

	pk := entity.NewPrimaryKeyMap()
	built, err := s.factory.NewOrder().FromModel(order, s.factory, pk)
	if err != nil {
		return nil, err
	}
	graph := built.(*entity.Order)
	for _, si := range graph.LinkShipmentItems() {
		s.logger.Warn("shipment item references unknown line item",
			zap.String("order_id", graph.ID),
			zap.String("shipment_item_id", si.ID),
			zap.String("line_item_key", si.LineItemKey),
		)
	}

	err = s.store.InTx(ctx, func(ctx context.Context, tx reconcile.Store) error {
		return tx.CreateGraph(ctx, graph)
	})
	if err != nil {
		return nil, s.storeError(span, "failed to create order", err)
	}
	pk.Resolve()
	span.SetAttributes(attribute.String("order.id", graph.ID), attribute.Int("order.children", graph.Children()))

	out, err := s.toModel(graph)
	if err != nil {
		return nil, errorbank.Internal("failed to map order", errorbank.WithCause(err))
	}
	s.storeInCache(ctx, out)
	s.publish(ctx, Event{Type: EventOrderCreated, OrderID: graph.ID, Number: graph.Number, OccurredAt: now})

	return out, nil
}

// PatchResult is what Patch reports back to callers.
type PatchResult struct {
	Order    *model.CustomerOrder
	Stats    reconcile.Stats
	Dangling int
}

// Patch reconciles incoming onto the stored graph of order id inside one
// transaction. Collections absent from incoming are left untouched.
func (s *Service) Patch(ctx context.Context, id string, incoming *model.CustomerOrder) (PatchResult, error) {
	if id == "" {
		return PatchResult{}, errorbank.BadRequest("order id is required")
	}
	if err := s.validator.Order(ctx, incoming); err != nil {
		return PatchResult{}, err
	}
	if incoming.ID == "" {
		incoming.ID = id
	} else if incoming.ID != id {
		return PatchResult{}, errorbank.BadRequest("order id does not match path",
			errorbank.WithDetail("path", id), errorbank.WithDetail("body", incoming.ID))
	}

	ctx, span := serviceTracer.Start(ctx, "OrderService.Patch", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	var (
		res   reconcile.Result
		graph *entity.Order
	)
	err := s.store.InTx(ctx, func(ctx context.Context, tx reconcile.Store) error {
		current, err := tx.LoadGraph(ctx, id)
		if err != nil {
			return err
		}
		res, err = s.reconciler.Run(current, incoming)
		if err != nil {
			return err
		}
		graph = res.Order
		graph.UpdatedAt = s.now()
		return tx.SaveGraph(ctx, graph)
	})
	var appErr *errorbank.AppError
	if errors.As(err, &appErr) {
		return PatchResult{}, appErr
	}
	if err != nil {
		return PatchResult{}, s.storeError(span, "failed to update order", err)
	}
	res.PrimaryKeys.Resolve()

	total := res.Stats.Total()
	span.SetAttributes(
		attribute.Int("reconcile.added", total.Added),
		attribute.Int("reconcile.updated", total.Updated),
		attribute.Int("reconcile.removed", total.Removed),
		attribute.Int("reconcile.dangling", len(res.Dangling)),
	)
	s.metrics.Record(ctx, res.Stats, len(res.Dangling))
	s.metrics.ObserveGraph(ctx, graph.Children())

	out, err := s.toModel(graph)
	if err != nil {
		return PatchResult{}, errorbank.Internal("failed to map order", errorbank.WithCause(err))
	}
	s.invalidate(ctx, id)
	s.publish(ctx, Event{
		Type:       EventOrderUpdated,
		OrderID:    id,
		Number:     graph.Number,
		Changes:    dto.Summarize(res.Stats),
		Dangling:   len(res.Dangling),
		OccurredAt: graph.UpdatedAt,
	})

	return PatchResult{Order: out, Stats: res.Stats, Dangling: len(res.Dangling)}, nil
}

// Delete removes an order graph.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errorbank.BadRequest("order id is required")
	}
	ctx, span := serviceTracer.Start(ctx, "OrderService.Delete", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	err := s.store.InTx(ctx, func(ctx context.Context, tx reconcile.Store) error {
		return tx.DeleteGraph(ctx, id)
	})
	if err != nil {
		return s.storeError(span, "failed to delete order", err)
	}

	s.invalidate(ctx, id)
	s.publish(ctx, Event{Type: EventOrderDeleted, OrderID: id, OccurredAt: s.now()})
	return nil
}

func (s *Service) storeError(span trace.Span, message string, err error) error {
	if errors.Is(err, reconcile.ErrNotFound) {
		return errorbank.NotFound("order not found")
	}
	if errors.Is(err, reconcile.ErrConflict) {
		return errorbank.Conflict("order conflicts with stored data", errorbank.WithCause(err))
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, "repository error")
	return errorbank.Internal(message, errorbank.WithCause(err))
}

func (s *Service) toModel(graph *entity.Order) (*model.CustomerOrder, error) {
	f := model.DefaultFactory{}
	out, err := graph.ToModel(f.NewCustomerOrder(), f)
	if err != nil {
		return nil, err
	}
	return out.(*model.CustomerOrder), nil
}

func (s *Service) publish(ctx context.Context, event Event) {
	if !s.messaging.enabled || s.publisher == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal order event", zap.String("type", event.Type), zap.Error(err))
		return
	}
	msg := messaging.Message{
		Topic:   s.messaging.topic,
		Key:     []byte("order-" + event.OrderID),
		Value:   payload,
		Headers: map[string]string{"type": event.Type},
	}
	if err := s.publisher.Publish(ctx, msg); err != nil {
		s.logger.Error("publish order event", zap.String("type", event.Type), zap.String("id", event.OrderID), zap.Error(err))
	}
}

func cacheKey(id string) string {
	return fmt.Sprintf("orders:%s", id)
}

func (s *Service) storeInCache(ctx context.Context, order *model.CustomerOrder) {
	if err := cache.SetJSON(ctx, s.cache, cacheKey(order.ID), order, s.cacheTTL); err != nil {
		s.logger.Warn("orders cache write failed", zap.String("id", order.ID), zap.Error(err))
	}
}

func (s *Service) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cacheKey(id)); err != nil {
		s.logger.Warn("orders cache invalidate failed", zap.String("id", id), zap.Error(err))
	}
}
