package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Additional-Code/ordergraph/internal/database"
	"github.com/Additional-Code/ordergraph/internal/entity"
	"github.com/Additional-Code/ordergraph/internal/reconcile"
)

var repoTracer = otel.Tracer("github.com/Additional-Code/ordergraph/repository/order")

// ErrNotFound is returned when an order is missing.
var ErrNotFound = reconcile.ErrNotFound

// ErrConflict is returned when a graph reuses IDs owned by another order.
var ErrConflict = reconcile.ErrConflict

// Repository reads and writes whole order graphs.
type Repository struct {
	writer bun.IDB
	reader bun.IDB
}

var _ reconcile.Store = (*Repository)(nil)

// NewRepository wires a repository backed by configured database connections.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{
		writer: conns.Writer,
		reader: conns.Reader,
	}
}

// InTx runs fn in a transaction on the writer. The Store handed to fn reads
// and writes through that transaction.
func (r *Repository) InTx(ctx context.Context, fn func(ctx context.Context, tx reconcile.Store) error) error {
	return r.writer.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, &Repository{writer: tx, reader: tx})
	})
}

// LoadGraph fetches an order with every child collection, ordered as saved.
// The returned graph is marked fully loaded and its shipment items linked.
func (r *Repository) LoadGraph(ctx context.Context, id string) (*entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.LoadGraph", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	order := new(entity.Order)
	err := r.reader.NewSelect().Model(order).
		Relation("Addresses", byPosition).
		Relation("Items", byPosition).
		Relation("Items.Discounts", byPosition).
		Relation("Items.TaxDetails", byPosition).
		Relation("Shipments", byPosition).
		Relation("Shipments.Items", byPosition).
		Relation("Shipments.Discounts", byPosition).
		Relation("Shipments.TaxDetails", byPosition).
		Relation("InPayments", byPosition).
		Relation("InPayments.TaxDetails", byPosition).
		Relation("Discounts", byPosition).
		Relation("TaxDetails", byPosition).
		Where("co.id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}

	order.MarkLoaded()
	order.LinkShipmentItems()
	return order, nil
}

// CreateGraph inserts a new order and all of its children.
func (r *Repository) CreateGraph(ctx context.Context, order *entity.Order) error {
	if order == nil {
		return errors.New("nil order")
	}
	ctx, span := repoTracer.Start(ctx, "OrderRepository.CreateGraph", trace.WithAttributes(
		attribute.String("order.id", order.ID),
		attribute.String("order.number", order.Number),
	))
	defer span.End()

	order.Attach()
	exists, err := r.writer.NewSelect().Model((*entity.Order)(nil)).Where("id = ?", order.ID).Exists(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return fmt.Errorf("check order: %w", err)
	}
	if exists {
		span.SetStatus(codes.Error, "conflict")
		return fmt.Errorf("%w: order %s already exists", ErrConflict, order.ID)
	}
	if err := r.checkOwnership(ctx, order); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "ownership check failed")
		return err
	}
	if _, err := r.writer.NewInsert().Model(order).Exec(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		return fmt.Errorf("insert order: %w", err)
	}
	if err := r.upsertChildren(ctx, order); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert children failed")
		return err
	}
	return nil
}

// SaveGraph writes an existing order back. Child rows missing from the graph
// are deleted, the rest are inserted or updated.
func (r *Repository) SaveGraph(ctx context.Context, order *entity.Order) error {
	if order == nil {
		return errors.New("nil order")
	}
	ctx, span := repoTracer.Start(ctx, "OrderRepository.SaveGraph", trace.WithAttributes(attribute.String("order.id", order.ID)))
	defer span.End()

	order.Attach()
	if _, err := r.writer.NewUpdate().Model(order).WherePK().Exec(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return fmt.Errorf("update order: %w", err)
	}

	if err := r.deleteMissing(ctx, order); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete children failed")
		return err
	}
	if err := r.checkOwnership(ctx, order); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "ownership check failed")
		return err
	}
	if err := r.upsertChildren(ctx, order); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "upsert children failed")
		return err
	}
	return nil
}

// DeleteGraph removes an order and every child row.
func (r *Repository) DeleteGraph(ctx context.Context, id string) error {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.DeleteGraph", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	order := &entity.Order{}
	order.ID = id
	if err := r.deleteMissing(ctx, order); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete children failed")
		return err
	}

	res, err := r.writer.NewDelete().Model((*entity.Order)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete failed")
		return fmt.Errorf("delete order: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		span.SetStatus(codes.Error, "not found")
		return ErrNotFound
	}
	return nil
}

func byPosition(q *bun.SelectQuery) *bun.SelectQuery {
	return q.OrderExpr("?TableAlias.position ASC")
}

// graphIDs collects the primary keys present in an order graph.
type graphIDs struct {
	addresses, items, shipments, shipmentItems, payments, discounts, taxes []string
}

func collectIDs(o *entity.Order) graphIDs {
	var ids graphIDs
	for _, a := range o.Addresses {
		ids.addresses = append(ids.addresses, a.ID)
	}
	for _, d := range o.Discounts {
		ids.discounts = append(ids.discounts, d.ID)
	}
	for _, t := range o.TaxDetails {
		ids.taxes = append(ids.taxes, t.ID)
	}
	for _, item := range o.Items {
		ids.items = append(ids.items, item.ID)
		for _, d := range item.Discounts {
			ids.discounts = append(ids.discounts, d.ID)
		}
		for _, t := range item.TaxDetails {
			ids.taxes = append(ids.taxes, t.ID)
		}
	}
	for _, s := range o.Shipments {
		ids.shipments = append(ids.shipments, s.ID)
		for _, si := range s.Items {
			ids.shipmentItems = append(ids.shipmentItems, si.ID)
		}
		for _, d := range s.Discounts {
			ids.discounts = append(ids.discounts, d.ID)
		}
		for _, t := range s.TaxDetails {
			ids.taxes = append(ids.taxes, t.ID)
		}
	}
	for _, p := range o.InPayments {
		ids.payments = append(ids.payments, p.ID)
		for _, t := range p.TaxDetails {
			ids.taxes = append(ids.taxes, t.ID)
		}
	}
	return ids
}

// deleteMissing removes the order's child rows whose IDs are not in the
// graph, leaves first.
func (r *Repository) deleteMissing(ctx context.Context, o *entity.Order) error {
	ids := collectIDs(o)
	orderID := o.ID

	ownedBy := func(model any) *bun.SelectQuery {
		return r.writer.NewSelect().Model(model).Column("id").Where("customer_order_id = ?", orderID)
	}
	lineItems := ownedBy((*entity.LineItem)(nil))
	shipments := ownedBy((*entity.Shipment)(nil))
	payments := ownedBy((*entity.PaymentIn)(nil))

	steps := []struct {
		table string
		query *bun.DeleteQuery
		keep  []string
	}{
		{
			table: "order_tax_details",
			query: r.writer.NewDelete().Model((*entity.TaxDetail)(nil)).
				WhereGroup(" AND ", func(q *bun.DeleteQuery) *bun.DeleteQuery {
					return q.Where("customer_order_id = ?", orderID).
						WhereOr("line_item_id IN (?)", lineItems).
						WhereOr("shipment_id IN (?)", shipments).
						WhereOr("payment_in_id IN (?)", payments)
				}),
			keep: ids.taxes,
		},
		{
			table: "order_discounts",
			query: r.writer.NewDelete().Model((*entity.Discount)(nil)).
				WhereGroup(" AND ", func(q *bun.DeleteQuery) *bun.DeleteQuery {
					return q.Where("customer_order_id = ?", orderID).
						WhereOr("line_item_id IN (?)", lineItems).
						WhereOr("shipment_id IN (?)", shipments)
				}),
			keep: ids.discounts,
		},
		{
			table: "order_shipment_items",
			query: r.writer.NewDelete().Model((*entity.ShipmentItem)(nil)).
				Where("shipment_id IN (?)", shipments),
			keep: ids.shipmentItems,
		},
		{
			table: "order_line_items",
			query: r.writer.NewDelete().Model((*entity.LineItem)(nil)).Where("customer_order_id = ?", orderID),
			keep:  ids.items,
		},
		{
			table: "order_shipments",
			query: r.writer.NewDelete().Model((*entity.Shipment)(nil)).Where("customer_order_id = ?", orderID),
			keep:  ids.shipments,
		},
		{
			table: "order_payments_in",
			query: r.writer.NewDelete().Model((*entity.PaymentIn)(nil)).Where("customer_order_id = ?", orderID),
			keep:  ids.payments,
		},
		{
			table: "order_addresses",
			query: r.writer.NewDelete().Model((*entity.Address)(nil)).Where("customer_order_id = ?", orderID),
			keep:  ids.addresses,
		},
	}

	for _, step := range steps {
		q := step.query
		if len(step.keep) > 0 {
			q = q.Where("id NOT IN (?)", bun.In(step.keep))
		}
		if _, err := q.Exec(ctx); err != nil {
			return fmt.Errorf("delete %s: %w", step.table, err)
		}
	}
	return nil
}

// checkOwnership fails with ErrConflict when a child ID of the graph is
// already stored under another order. Rows moving between parents of the
// same order are allowed. Runs after deleteMissing so rows of dropped
// parents are gone.
func (r *Repository) checkOwnership(ctx context.Context, o *entity.Order) error {
	ids := collectIDs(o)
	orderID := o.ID

	ownedBy := func(model any) *bun.SelectQuery {
		return r.writer.NewSelect().Model(model).Column("id").Where("customer_order_id = ?", orderID)
	}
	lineItems := ownedBy((*entity.LineItem)(nil))
	shipments := ownedBy((*entity.Shipment)(nil))
	payments := ownedBy((*entity.PaymentIn)(nil))

	otherOrder := func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("customer_order_id <> ?", orderID)
	}
	otherShipment := func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("shipment_id NOT IN (?)", shipments)
	}
	otherDiscountOwner := func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("NOT (COALESCE(customer_order_id, '') = ? OR COALESCE(line_item_id, '') IN (?) OR COALESCE(shipment_id, '') IN (?))",
			orderID, lineItems, shipments)
	}
	otherTaxOwner := func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("NOT (COALESCE(customer_order_id, '') = ? OR COALESCE(line_item_id, '') IN (?) OR COALESCE(shipment_id, '') IN (?) OR COALESCE(payment_in_id, '') IN (?))",
			orderID, lineItems, shipments, payments)
	}

	checks := []struct {
		table   string
		model   any
		ids     []string
		foreign func(q *bun.SelectQuery) *bun.SelectQuery
	}{
		{"order_addresses", (*entity.Address)(nil), ids.addresses, otherOrder},
		{"order_line_items", (*entity.LineItem)(nil), ids.items, otherOrder},
		{"order_shipments", (*entity.Shipment)(nil), ids.shipments, otherOrder},
		{"order_payments_in", (*entity.PaymentIn)(nil), ids.payments, otherOrder},
		{"order_shipment_items", (*entity.ShipmentItem)(nil), ids.shipmentItems, otherShipment},
		{"order_discounts", (*entity.Discount)(nil), ids.discounts, otherDiscountOwner},
		{"order_tax_details", (*entity.TaxDetail)(nil), ids.taxes, otherTaxOwner},
	}

	for _, c := range checks {
		if len(c.ids) == 0 {
			continue
		}
		var taken []string
		err := c.foreign(r.writer.NewSelect().Model(c.model).Column("id").Where("id IN (?)", bun.In(c.ids))).
			Scan(ctx, &taken)
		if err != nil {
			return fmt.Errorf("check %s ownership: %w", c.table, err)
		}
		if len(taken) > 0 {
			return fmt.Errorf("%w: %s %v belong to another order", ErrConflict, c.table, taken)
		}
	}
	return nil
}

// upsertChildren writes every child row, parents before children.
func (r *Repository) upsertChildren(ctx context.Context, o *entity.Order) error {
	var (
		shipmentItems []*entity.ShipmentItem
		discounts     = append([]*entity.Discount(nil), o.Discounts...)
		taxes         = append([]*entity.TaxDetail(nil), o.TaxDetails...)
	)
	for _, item := range o.Items {
		discounts = append(discounts, item.Discounts...)
		taxes = append(taxes, item.TaxDetails...)
	}
	for _, s := range o.Shipments {
		shipmentItems = append(shipmentItems, s.Items...)
		discounts = append(discounts, s.Discounts...)
		taxes = append(taxes, s.TaxDetails...)
	}
	for _, p := range o.InPayments {
		taxes = append(taxes, p.TaxDetails...)
	}

	if err := upsert(ctx, r.writer, "order_addresses", o.Addresses); err != nil {
		return err
	}
	if err := upsert(ctx, r.writer, "order_line_items", o.Items); err != nil {
		return err
	}
	if err := upsert(ctx, r.writer, "order_shipments", o.Shipments); err != nil {
		return err
	}
	if err := upsert(ctx, r.writer, "order_payments_in", o.InPayments); err != nil {
		return err
	}
	if err := upsert(ctx, r.writer, "order_shipment_items", shipmentItems); err != nil {
		return err
	}
	if err := upsert(ctx, r.writer, "order_discounts", discounts); err != nil {
		return err
	}
	return upsert(ctx, r.writer, "order_tax_details", taxes)
}

func upsert[T any](ctx context.Context, db bun.IDB, table string, rows []*T) error {
	if len(rows) == 0 {
		return nil
	}
	q := db.NewInsert().Model(&rows)
	if db.Dialect().Name() == dialect.MySQL {
		q = q.On("DUPLICATE KEY UPDATE")
	} else {
		q = q.On("CONFLICT (id) DO UPDATE")
	}
	if _, err := q.Exec(ctx); err != nil {
		return fmt.Errorf("upsert %s: %w", table, err)
	}
	return nil
}
