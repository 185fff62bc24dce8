package seeder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/ordergraph/internal/entity"
	"github.com/Additional-Code/ordergraph/internal/model"
	"github.com/Additional-Code/ordergraph/internal/reconcile"
	"github.com/Additional-Code/ordergraph/pkg/optional"
)

// Module provides the seeder to Fx.
var Module = fx.Provide(New)

// Seeder performs database seeding for local/dev setups.
type Seeder struct {
	store   reconcile.Store
	factory entity.Factory
	logger  *zap.Logger
	now     func() time.Time
}

// New constructs a Seeder writing through the order graph store.
func New(store reconcile.Store, factory entity.Factory, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{store: store, factory: factory, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// Orders seeds demo order graphs if they are missing and reports how
// many were created.
func (s *Seeder) Orders(ctx context.Context) (int, error) {
	created := 0
	for _, sample := range Samples(s.now()) {
		_, err := s.store.LoadGraph(ctx, sample.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, reconcile.ErrNotFound) {
			return created, fmt.Errorf("check order %s: %w", sample.ID, err)
		}

		built, err := s.factory.NewOrder().FromModel(sample, s.factory, nil)
		if err != nil {
			return created, err
		}
		if err := s.store.CreateGraph(ctx, built.(*entity.Order)); err != nil {
			return created, fmt.Errorf("seed order %s: %w", sample.ID, err)
		}
		created++
	}

	s.logger.Info("seeded orders", zap.Int("count", created))
	return created, nil
}

// Samples returns the demo order graphs: a shipped order with one partial
// shipment and a payment, and a fresh order with no children yet.
func Samples(now time.Time) []*model.CustomerOrder {
	price := decimal.RequireFromString("19.90")
	return []*model.CustomerOrder{
		{
			OperationBase: model.OperationBase{
				ID: "seed-order-1000", Number: "ORDER-1000", Status: "processing",
				Currency: "USD", CreatedAt: now, UpdatedAt: now,
			},
			CustomerID: "seed-customer-1",
			StoreID:    "seed-store",
			Total:      decimal.RequireFromString("39.80"),
			SubTotal:   decimal.RequireFromString("39.80"),
			Addresses: optional.Some([]*model.Address{{
				ID: "seed-address-1", AddressType: "shipping", FirstName: "Ada", City: "London", CountryCode: "GBR",
			}}),
			Items: optional.Some([]*model.LineItem{
				{ID: "seed-li-1", CorrelationKey: "seed-li-1", ProductID: "seed-product-mug", Sku: "MUG", Quantity: 1, Price: price},
				{ID: "seed-li-2", CorrelationKey: "seed-li-2", ProductID: "seed-product-cap", Sku: "CAP", Quantity: 1, Price: price},
			}),
			Shipments: optional.Some([]*model.Shipment{{
				OperationBase: model.OperationBase{ID: "seed-shipment-1", Number: "SH-1000-1", Status: "sent"},
				Items: optional.Some([]*model.ShipmentItem{
					{ID: "seed-si-1", LineItemKey: "seed-li-1", Quantity: 1},
				}),
			}}),
			InPayments: optional.Some([]*model.PaymentIn{{
				OperationBase: model.OperationBase{ID: "seed-payment-1", Number: "PI-1000", Status: "paid"},
				GatewayCode:   "card",
				Total:         decimal.RequireFromString("39.80"),
			}}),
		},
		{
			OperationBase: model.OperationBase{
				ID: "seed-order-1001", Number: "ORDER-1001", Status: "new",
				Currency: "USD", CreatedAt: now, UpdatedAt: now,
			},
			CustomerID: "seed-customer-2",
			StoreID:    "seed-store",
		},
	}
}
