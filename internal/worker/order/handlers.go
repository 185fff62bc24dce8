package order

import (
	"context"
	"encoding/json"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/ordergraph/internal/config"
	"github.com/Additional-Code/ordergraph/internal/messaging"
	"github.com/Additional-Code/ordergraph/internal/model"
	ordersvc "github.com/Additional-Code/ordergraph/internal/service/order"
	"github.com/Additional-Code/ordergraph/internal/worker"
	"github.com/Additional-Code/ordergraph/pkg/errorbank"
)

var workerTracer = otel.Tracer("github.com/Additional-Code/ordergraph/worker/order")

// Module registers order-related worker handlers.
var Module = fx.Module("worker_order",
	fx.Provide(
		fx.Annotate(
			func(svc *ordersvc.Service, logger *zap.Logger, cfg config.Config) worker.HandlerRegistration {
				return NewPatchHandler(svc, logger, cfg)
			},
			fx.ResultTags(`group:"worker.handlers"`),
		),
		fx.Annotate(
			NewEventLogHandler,
			fx.ResultTags(`group:"worker.handlers"`),
		),
	),
)

// Patcher reconciles an incoming snapshot onto a stored order.
type Patcher interface {
	Patch(ctx context.Context, id string, incoming *model.CustomerOrder) (ordersvc.PatchResult, error)
}

// NewPatchHandler applies order.patch commands from the consumer topic.
// Commands the service rejects as invalid are logged and acknowledged so
// they are not redelivered. Other failures are returned for retry.
func NewPatchHandler(svc Patcher, logger *zap.Logger, cfg config.Config) worker.HandlerRegistration {
	handler := func(ctx context.Context, msg messaging.Message) error {
		ctx, span := workerTracer.Start(ctx, "worker.orders.patch", trace.WithAttributes(
			attribute.String("messaging.topic", msg.Topic),
			attribute.Int64("messaging.offset", msg.Offset),
		))
		defer span.End()

		var cmd ordersvc.PatchCommand
		if err := json.Unmarshal(msg.Value, &cmd); err != nil {
			logger.Error("failed to decode order patch", zap.Error(err), zap.Int64("offset", msg.Offset))

			span.RecordError(err)
			span.SetStatus(codes.Error, "decode error")
			return nil
		}
		span.SetAttributes(attribute.String("order.id", cmd.OrderID))

		res, err := svc.Patch(ctx, cmd.OrderID, cmd.Order)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "patch failed")
			if permanent(err) {
				logger.Warn("order patch rejected", zap.String("id", cmd.OrderID), zap.Error(err))

				return nil
			}
			return err
		}

		total := res.Stats.Total()
		logger.Info("order patch applied",
			zap.String("id", cmd.OrderID),
			zap.Int("added", total.Added),
			zap.Int("updated", total.Updated),
			zap.Int("removed", total.Removed),
			zap.Int("dangling", res.Dangling),
		)
		return nil
	}

	return worker.HandlerRegistration{
		Topic:   cfg.Messaging.Kafka.Topic,
		Type:    ordersvc.CommandOrderPatch,
		Handler: handler,
	}
}

// NewEventLogHandler records order events seen on the consumer topic.
func NewEventLogHandler(logger *zap.Logger, cfg config.Config) worker.HandlerRegistration {
	handler := func(ctx context.Context, msg messaging.Message) error {
		_, span := workerTracer.Start(ctx, "worker.orders.event", trace.WithAttributes(
			attribute.String("messaging.topic", msg.Topic),
		))
		defer span.End()

		var event ordersvc.Event
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logger.Error("failed to decode order event", zap.Error(err))

			span.RecordError(err)
			span.SetStatus(codes.Error, "decode error")
			return nil
		}

		fields := []zap.Field{
			zap.String("type", event.Type),
			zap.String("id", event.OrderID),
			zap.String("number", event.Number),
		}
		for _, c := range event.Changes {
			fields = append(fields, zap.Any(c.Collection, c))
		}
		if event.Dangling > 0 {
			fields = append(fields, zap.Int("dangling", event.Dangling))
		}
		logger.Info("order event processed", fields...)

		return nil
	}

	return worker.HandlerRegistration{
		Topic:   cfg.Orders.EventTopic,
		Handler: handler,
	}
}

func permanent(err error) bool {
	for _, kind := range []errorbank.Kind{
		errorbank.KindBadRequest,
		errorbank.KindInvalidArgument,
		errorbank.KindConflict,
		errorbank.KindNotFound,
		errorbank.KindUnprocessableEntity,
	} {
		if errorbank.IsKind(err, kind) {
			return true
		}
	}
	return false
}
