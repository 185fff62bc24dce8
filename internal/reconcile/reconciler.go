// Package reconcile merges an incoming order snapshot into a persisted order
// graph. Matched children keep their identity, new ones are appended, missing
// ones are dropped, and shipment items are relinked to line items afterwards.
//
// The package does no I/O. Loading and saving the graph, and the transaction
// around both, belong to the caller.
package reconcile

import (
	"go.uber.org/zap"

	"github.com/Additional-Code/ordergraph/internal/entity"
	"github.com/Additional-Code/ordergraph/internal/model"
	"github.com/Additional-Code/ordergraph/pkg/collection"
)

// Result describes one reconciliation.
type Result struct {
	// Order is the current graph, updated in place.
	Order *entity.Order
	Stats Stats
	// Dangling lists shipment items whose line item could not be found.
	Dangling []*entity.ShipmentItem
	// PrimaryKeys maps incoming model objects to the entities built from
	// them. Resolve it once the graph is saved to hand generated IDs back.
	PrimaryKeys *entity.PrimaryKeyMap
}

// Reconciler merges order graphs. It holds no per-call state and can be
// shared, but one current graph must not be reconciled concurrently.
type Reconciler struct {
	factory entity.Factory
	keys    Keys
	logger  *zap.Logger
}

// Option customises a Reconciler.
type Option func(*Reconciler)

// WithFactory overrides the entity factory.
func WithFactory(f entity.Factory) Option {
	return func(r *Reconciler) {
		if f != nil {
			r.factory = f
		}
	}
}

// WithKeys overrides identity functions. Unset functions keep their default.
func WithKeys(k Keys) Option {
	return func(r *Reconciler) {
		r.keys = k.withDefaults()
	}
}

// WithLogger sets the logger used for dangling references and stats.
func WithLogger(l *zap.Logger) Option {
	return func(r *Reconciler) {
		if l != nil {
			r.logger = l
		}
	}
}

// New builds a Reconciler using the stock factory and keys unless overridden.
func New(opts ...Option) *Reconciler {
	r := &Reconciler{
		factory: entity.DefaultFactory{},
		keys:    DefaultKeys(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile merges incoming into current and returns current.
func (r *Reconciler) Reconcile(current entity.Operation, incoming model.Operation) (*entity.Order, error) {
	res, err := r.Run(current, incoming)
	if err != nil {
		return nil, err
	}
	return res.Order, nil
}

// Run is Reconcile with the full result. Both arguments are checked before
// anything is mutated.
func (r *Reconciler) Run(current entity.Operation, incoming model.Operation) (Result, error) {
	target, ok := current.(*entity.Order)
	if !ok || target == nil {
		return Result{}, entity.KindMismatch("current", model.KindCustomerOrder, current)
	}
	if order, ok := incoming.(*model.CustomerOrder); !ok || order == nil {
		return Result{}, entity.KindMismatch("incoming", model.KindCustomerOrder, incoming)
	}

	pk := entity.NewPrimaryKeyMap()
	source, err := r.factory.NewOrder().FromModel(incoming, r.factory, pk)
	if err != nil {
		return Result{}, err
	}

	p := r.newPatcher()
	p.order(source.(*entity.Order), target)

	res := Result{
		Order:       target,
		Stats:       p.stats,
		Dangling:    p.dangling,
		PrimaryKeys: pk,
	}
	r.log(target, res)
	return res, nil
}

// Patch merges one persisted operation into another of the same kind. For
// orders the whole graph is merged and shipment items relinked.
func (r *Reconciler) Patch(source, target entity.Operation) (Stats, error) {
	p := r.newPatcher()

	switch dst := target.(type) {
	case *entity.Order:
		src, ok := source.(*entity.Order)
		if !ok || src == nil || dst == nil {
			return nil, entity.KindMismatch("source", model.KindCustomerOrder, source)
		}
		p.order(src, dst)
		r.log(dst, Result{Stats: p.stats, Dangling: p.dangling})
	case *entity.Shipment:
		src, ok := source.(*entity.Shipment)
		if !ok || src == nil || dst == nil {
			return nil, entity.KindMismatch("source", model.KindShipment, source)
		}
		p.shipment(src, dst)
	case *entity.PaymentIn:
		src, ok := source.(*entity.PaymentIn)
		if !ok || src == nil || dst == nil {
			return nil, entity.KindMismatch("source", model.KindPaymentIn, source)
		}
		p.payment(src, dst)
	default:
		return nil, entity.KindMismatch("target", model.KindCustomerOrder, target)
	}

	return p.stats, nil
}

func (r *Reconciler) log(order *entity.Order, res Result) {
	for _, si := range res.Dangling {
		r.logger.Warn("shipment item references unknown line item",
			zap.String("order_id", order.ID),
			zap.String("shipment_id", si.ShipmentID),
			zap.String("shipment_item_id", si.ID),
			zap.String("line_item_key", si.LineItemKey),
		)
	}
	total := res.Stats.Total()
	r.logger.Debug("order graph reconciled",
		zap.String("order_id", order.ID),
		zap.Int("added", total.Added),
		zap.Int("updated", total.Updated),
		zap.Int("removed", total.Removed),
		zap.Int("dangling", len(res.Dangling)),
	)
}

func (r *Reconciler) newPatcher() *patcher {
	return &patcher{keys: r.keys, stats: Stats{}}
}

// patcher walks a source graph onto a target graph, collecting stats.
type patcher struct {
	keys     Keys
	stats    Stats
	dangling []*entity.ShipmentItem
}

func (p *patcher) order(src, dst *entity.Order) {
	src.PatchScalars(dst)

	if src.Loaded.Has(entity.CollectionAddresses) {
		var st collection.Stats
		dst.Addresses, st = collection.Patch(dst.Addresses, src.Addresses, p.keys.Address,
			func(s, t *entity.Address) { s.Patch(t) })
		p.stats.add(Addresses, st)
	}
	if src.Loaded.Has(entity.CollectionItems) {
		var st collection.Stats
		dst.Items, st = collection.Patch(dst.Items, src.Items, p.keys.LineItem, p.lineItem)
		p.stats.add(Items, st)
	}
	if src.Loaded.Has(entity.CollectionShipments) {
		var st collection.Stats
		dst.Shipments, st = collection.Patch(dst.Shipments, src.Shipments, p.keys.Shipment, p.shipment)
		p.stats.add(Shipments, st)
	}
	if src.Loaded.Has(entity.CollectionInPayments) {
		var st collection.Stats
		dst.InPayments, st = collection.Patch(dst.InPayments, src.InPayments, p.keys.PaymentIn, p.payment)
		p.stats.add(InPayments, st)
	}
	if src.Loaded.Has(entity.CollectionDiscounts) {
		dst.Discounts = p.discounts(dst.Discounts, src.Discounts)
	}
	if src.Loaded.Has(entity.CollectionTaxDetails) {
		dst.TaxDetails = p.taxDetails(dst.TaxDetails, src.TaxDetails)
	}
	dst.Loaded |= src.Loaded

	dst.Attach()
	if dst.Loaded.Has(entity.CollectionItems | entity.CollectionShipments) {
		p.dangling = append(p.dangling, dst.LinkShipmentItems()...)
	}
}

func (p *patcher) lineItem(src, dst *entity.LineItem) {
	src.PatchScalars(dst)
	if src.Loaded.Has(entity.CollectionDiscounts) {
		dst.Discounts = p.discounts(dst.Discounts, src.Discounts)
	}
	if src.Loaded.Has(entity.CollectionTaxDetails) {
		dst.TaxDetails = p.taxDetails(dst.TaxDetails, src.TaxDetails)
	}
	dst.Loaded |= src.Loaded
	dst.Attach()
}

func (p *patcher) shipment(src, dst *entity.Shipment) {
	src.PatchScalars(dst)
	if src.Loaded.Has(entity.CollectionShipmentItems) {
		var st collection.Stats
		dst.Items, st = collection.Patch(dst.Items, src.Items, p.keys.ShipmentItem,
			func(s, t *entity.ShipmentItem) { s.Patch(t) })
		p.stats.add(ShipmentItems, st)
	}
	if src.Loaded.Has(entity.CollectionDiscounts) {
		dst.Discounts = p.discounts(dst.Discounts, src.Discounts)
	}
	if src.Loaded.Has(entity.CollectionTaxDetails) {
		dst.TaxDetails = p.taxDetails(dst.TaxDetails, src.TaxDetails)
	}
	dst.Loaded |= src.Loaded
	dst.Attach()
}

func (p *patcher) payment(src, dst *entity.PaymentIn) {
	src.PatchScalars(dst)
	if src.Loaded.Has(entity.CollectionTaxDetails) {
		dst.TaxDetails = p.taxDetails(dst.TaxDetails, src.TaxDetails)
	}
	dst.Loaded |= src.Loaded
	dst.Attach()
}

func (p *patcher) discounts(dst, src []*entity.Discount) []*entity.Discount {
	out, st := collection.Patch(dst, src, p.keys.Discount, func(s, t *entity.Discount) { s.Patch(t) })
	p.stats.add(Discounts, st)
	return out
}

func (p *patcher) taxDetails(dst, src []*entity.TaxDetail) []*entity.TaxDetail {
	out, st := collection.Patch(dst, src, p.keys.TaxDetail, func(s, t *entity.TaxDetail) { s.Patch(t) })
	p.stats.add(TaxDetails, st)
	return out
}
