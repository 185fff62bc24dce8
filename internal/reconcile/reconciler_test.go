package reconcile_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Additional-Code/ordergraph/internal/entity"
	"github.com/Additional-Code/ordergraph/internal/model"
	"github.com/Additional-Code/ordergraph/internal/reconcile"
	"github.com/Additional-Code/ordergraph/pkg/collection"
	"github.com/Additional-Code/ordergraph/pkg/errorbank"
	"github.com/Additional-Code/ordergraph/pkg/optional"
)

func line(id string, qty int) *model.LineItem {
	return &model.LineItem{ID: id, ProductID: "prod-" + id, Quantity: qty}
}

func lines(items ...*model.LineItem) optional.Value[[]*model.LineItem] {
	return optional.Some(items)
}

func shipment(id string, items ...*model.ShipmentItem) *model.Shipment {
	return &model.Shipment{
		OperationBase: model.OperationBase{ID: id, Number: "SH-" + id},
		Items:         optional.Some(items),
	}
}

func shipItem(id, lineKey string, qty int) *model.ShipmentItem {
	return &model.ShipmentItem{ID: id, LineItemKey: lineKey, Quantity: qty}
}

// stored builds a graph the way the repository hands it out.
func stored(t *testing.T, m *model.CustomerOrder) *entity.Order {
	t.Helper()
	op, err := (&entity.Order{}).FromModel(m, entity.DefaultFactory{}, nil)
	require.NoError(t, err)
	o := op.(*entity.Order)
	o.MarkLoaded()
	return o
}

func snapshot(t *testing.T, o *entity.Order) string {
	t.Helper()
	m, err := o.ToModel(&model.CustomerOrder{}, model.DefaultFactory{})
	require.NoError(t, err)
	b, err := json.Marshal(m)
	require.NoError(t, err)
	return string(b)
}

func newReconciler(t *testing.T, opts ...reconcile.Option) *reconcile.Reconciler {
	return reconcile.New(append([]reconcile.Option{reconcile.WithLogger(zaptest.NewLogger(t))}, opts...)...)
}

func TestReconcile_KeepsMatchedSlotAndDropsMissing(t *testing.T) {
	current := stored(t, &model.CustomerOrder{
		OperationBase: model.OperationBase{ID: "o-1"},
		Items:         lines(line("1", 2), line("2", 1)),
	})
	slot := current.Items[1]

	got, err := newReconciler(t).Reconcile(current, &model.CustomerOrder{
		OperationBase: model.OperationBase{ID: "o-1"},
		Items:         lines(line("2", 3), line("3", 5)),
	})
	require.NoError(t, err)

	assert.Same(t, current, got)
	require.Len(t, got.Items, 2)
	assert.Same(t, slot, got.Items[0], "matched line keeps its slot")
	assert.Equal(t, "2", got.Items[0].ID)
	assert.Equal(t, 3, got.Items[0].Quantity)
	assert.Equal(t, "3", got.Items[1].ID)
	assert.Equal(t, 5, got.Items[1].Quantity)
	assert.Equal(t, "o-1", got.Items[1].CustomerOrderID)
}

func TestRun_Stats(t *testing.T) {
	current := stored(t, &model.CustomerOrder{
		Items:     lines(line("1", 2), line("2", 1)),
		Discounts: optional.Some([]*model.Discount{{PromotionID: "promo-a"}}),
	})

	res, err := newReconciler(t).Run(current, &model.CustomerOrder{
		Items:     lines(line("2", 3), line("3", 5)),
		Discounts: optional.Some([]*model.Discount{}),
	})
	require.NoError(t, err)

	assert.Equal(t, collection.Stats{Added: 1, Updated: 1, Removed: 1}, res.Stats[reconcile.Items])
	assert.Equal(t, collection.Stats{Removed: 1}, res.Stats[reconcile.Discounts])
	assert.Equal(t, collection.Stats{Added: 1, Updated: 1, Removed: 2}, res.Stats.Total())
	assert.Equal(t, []string{reconcile.Discounts, reconcile.Items}, res.Stats.Names())
}

func TestReconcile_ScalarsAndSumMirror(t *testing.T) {
	tests := []struct {
		name  string
		total string
	}{
		{"positive", "120.75"},
		{"zero", "0"},
		{"credit memo", "-15.20"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current := stored(t, &model.CustomerOrder{
				OperationBase: model.OperationBase{ID: "o-1", Number: "CO-1", CreatedBy: "seed"},
				CustomerID:    "old",
				Total:         decimal.NewFromInt(99),
			})
			total := decimal.RequireFromString(tt.total)

			got, err := newReconciler(t).Reconcile(current, &model.CustomerOrder{
				OperationBase:  model.OperationBase{ID: "o-1", Number: "CO-1b", Sum: decimal.NewFromInt(1)},
				CustomerID:     "new",
				ChannelID:      "mobile",
				ShoppingCartID: "cart-7",
				Total:          total,
			})
			require.NoError(t, err)

			assert.True(t, got.Sum.Equal(total), "sum %s", got.Sum)
			assert.True(t, got.Total.Equal(total))
			assert.Equal(t, "CO-1b", got.Number)
			assert.Equal(t, "new", got.CustomerID)
			assert.Equal(t, "mobile", got.ChannelID)
			assert.Equal(t, "cart-7", got.ShoppingCartID)
			assert.Equal(t, "seed", got.CreatedBy)
		})
	}
}

func TestReconcile_AbsentCollectionUntouched(t *testing.T) {
	current := stored(t, &model.CustomerOrder{
		Items:     lines(line("1", 1)),
		Addresses: optional.Some([]*model.Address{{ID: "a-1", City: "Oslo"}}),
	})

	got, err := newReconciler(t).Reconcile(current, &model.CustomerOrder{
		Items: lines(line("1", 4)),
	})
	require.NoError(t, err)

	require.Len(t, got.Addresses, 1)
	assert.Equal(t, "Oslo", got.Addresses[0].City)
	assert.Equal(t, 4, got.Items[0].Quantity)
}

func TestReconcile_EmptyCollectionClears(t *testing.T) {
	current := stored(t, &model.CustomerOrder{
		Addresses: optional.Some([]*model.Address{{ID: "a-1"}, {ID: "a-2"}}),
	})

	res, err := newReconciler(t).Run(current, &model.CustomerOrder{
		Addresses: optional.Some([]*model.Address{}),
	})
	require.NoError(t, err)

	assert.Empty(t, res.Order.Addresses)
	assert.Equal(t, 2, res.Stats[reconcile.Addresses].Removed)
}

func TestReconcile_AdditionNeverDuplicates(t *testing.T) {
	current := stored(t, &model.CustomerOrder{Items: lines(line("1", 1))})

	got, err := newReconciler(t).Reconcile(current, &model.CustomerOrder{
		Items: lines(line("1", 1), line("9", 2), line("9", 6)),
	})
	require.NoError(t, err)

	require.Len(t, got.Items, 2)
	assert.Equal(t, "9", got.Items[1].ID)
	assert.Equal(t, 6, got.Items[1].Quantity, "later duplicate is merged onto the first")
}

func TestReconcile_NestedCollections(t *testing.T) {
	rate := decimal.RequireFromString("0.2")
	current := stored(t, &model.CustomerOrder{
		Items: lines(&model.LineItem{
			ID:         "1",
			ProductID:  "p",
			Discounts:  optional.Some([]*model.Discount{{ID: "d-1", PromotionID: "spring"}}),
			TaxDetails: optional.Some([]*model.TaxDetail{{Name: "VAT", Rate: rate}}),
		}),
	})
	discountID := current.Items[0].Discounts[0].ID
	taxID := current.Items[0].TaxDetails[0].ID

	got, err := newReconciler(t).Reconcile(current, &model.CustomerOrder{
		Items: lines(&model.LineItem{
			ID:        "1",
			ProductID: "p",
			Discounts: optional.Some([]*model.Discount{
				{PromotionID: "spring", DiscountAmount: decimal.NewFromInt(5)},
				{PromotionID: "summer"},
			}),
		}),
	})
	require.NoError(t, err)

	item := got.Items[0]
	require.Len(t, item.Discounts, 2)
	assert.Equal(t, discountID, item.Discounts[0].ID, "discounts match by promotion")
	assert.True(t, item.Discounts[0].DiscountAmount.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, "1", item.Discounts[1].LineItemID)
	assert.Empty(t, item.Discounts[1].CustomerOrderID)

	require.Len(t, item.TaxDetails, 1, "absent nested collection is untouched")
	assert.Equal(t, taxID, item.TaxDetails[0].ID)
}

func TestReconcile_DiscountWithoutPromotionMatchesByID(t *testing.T) {
	current := stored(t, &model.CustomerOrder{
		Discounts: optional.Some([]*model.Discount{{ID: "d-1", CouponCode: "MANUAL"}}),
	})
	manual := current.Discounts[0]

	res, err := newReconciler(t).Run(current, &model.CustomerOrder{
		Discounts: optional.Some([]*model.Discount{{ID: "d-1", CouponCode: "MANUAL", DiscountAmount: decimal.NewFromInt(2)}}),
	})
	require.NoError(t, err)

	require.Len(t, res.Order.Discounts, 1)
	assert.Same(t, manual, res.Order.Discounts[0])
	assert.True(t, manual.DiscountAmount.Equal(decimal.NewFromInt(2)))
	assert.Equal(t, collection.Stats{Updated: 1}, res.Stats[reconcile.Discounts])
}

func TestReconcile_UnnamedTaxDetailIsReplaced(t *testing.T) {
	current := stored(t, &model.CustomerOrder{
		TaxDetails: optional.Some([]*model.TaxDetail{{Amount: decimal.NewFromInt(1)}}),
	})

	res, err := newReconciler(t).Run(current, &model.CustomerOrder{
		TaxDetails: optional.Some([]*model.TaxDetail{{Amount: decimal.NewFromInt(1)}}),
	})
	require.NoError(t, err)

	require.Len(t, res.Order.TaxDetails, 1)
	assert.Equal(t, collection.Stats{Added: 1, Removed: 1}, res.Stats[reconcile.TaxDetails])
}

func TestReconcile_TaxDetailsMatchByName(t *testing.T) {
	current := stored(t, &model.CustomerOrder{
		TaxDetails: optional.Some([]*model.TaxDetail{{Name: "VAT"}, {Name: "City"}}),
	})
	vat := current.TaxDetails[0]

	got, err := newReconciler(t).Reconcile(current, &model.CustomerOrder{
		TaxDetails: optional.Some([]*model.TaxDetail{{Name: "VAT", Amount: decimal.NewFromInt(3)}}),
	})
	require.NoError(t, err)

	require.Len(t, got.TaxDetails, 1)
	assert.Same(t, vat, got.TaxDetails[0])
	assert.True(t, vat.Amount.Equal(decimal.NewFromInt(3)))
}

func TestReconcile_RelinksShipmentItems(t *testing.T) {
	current := stored(t, &model.CustomerOrder{
		Items:     lines(line("li-1", 2), line("li-2", 1)),
		Shipments: optional.Some([]*model.Shipment{shipment("sh-1", shipItem("si-1", "li-1", 2))}),
	})
	held := current.Items[0]
	require.Same(t, held, current.Shipments[0].Items[0].LineItem)

	got, err := newReconciler(t).Reconcile(current, &model.CustomerOrder{
		Items: lines(line("li-1", 7), line("li-2", 1), &model.LineItem{CorrelationKey: "fresh", ProductID: "p"}),
		Shipments: optional.Some([]*model.Shipment{shipment("sh-1",
			shipItem("si-1", "li-1", 2),
			shipItem("", "fresh", 1),
		)}),
	})
	require.NoError(t, err)

	items := got.Shipments[0].Items
	require.Len(t, items, 2)
	assert.Same(t, held, items[0].LineItem, "link points at the reconciled line, not a copy")
	assert.Equal(t, 7, held.Quantity)
	assert.Same(t, got.Items[2], items[1].LineItem)
	assert.Equal(t, got.Items[2].ID, items[1].LineItemID)
	assert.Equal(t, "sh-1", items[1].ShipmentID)
}

func TestReconcile_DanglingReferenceIsUnsetAndLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	r := reconcile.New(reconcile.WithLogger(zap.New(core)))

	current := stored(t, &model.CustomerOrder{
		OperationBase: model.OperationBase{ID: "o-1"},
		Items:         lines(line("li-1", 2), line("li-2", 1)),
		Shipments:     optional.Some([]*model.Shipment{shipment("sh-1", shipItem("si-1", "li-1", 2))}),
	})

	res, err := r.Run(current, &model.CustomerOrder{
		OperationBase: model.OperationBase{ID: "o-1"},
		Items:         lines(line("li-2", 1)),
	})
	require.NoError(t, err)

	si := res.Order.Shipments[0].Items[0]
	assert.Nil(t, si.LineItem)
	assert.Empty(t, si.LineItemID)
	require.Len(t, res.Dangling, 1)
	assert.Same(t, si, res.Dangling[0])

	entries := logs.FilterMessage("shipment item references unknown line item").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "si-1", entries[0].ContextMap()["shipment_item_id"])
	assert.Equal(t, "li-1", entries[0].ContextMap()["line_item_key"])
}

func TestReconcile_Idempotent(t *testing.T) {
	incoming := func() *model.CustomerOrder {
		return &model.CustomerOrder{
			OperationBase: model.OperationBase{ID: "o-1", Number: "CO-1"},
			CustomerID:    "c",
			Total:         decimal.RequireFromString("10.5"),
			Items:         lines(line("2", 3), line("3", 5)),
			Shipments:     optional.Some([]*model.Shipment{shipment("sh-1", shipItem("si-1", "3", 5))}),
			Discounts:     optional.Some([]*model.Discount{{PromotionID: "promo"}}),
			TaxDetails:    optional.Some([]*model.TaxDetail{{Name: "VAT"}}),
		}
	}
	current := stored(t, &model.CustomerOrder{
		OperationBase: model.OperationBase{ID: "o-1"},
		Items:         lines(line("1", 2), line("2", 1)),
	})
	r := newReconciler(t)

	_, err := r.Reconcile(current, incoming())
	require.NoError(t, err)
	once := snapshot(t, current)

	_, err = r.Reconcile(current, incoming())
	require.NoError(t, err)
	assert.JSONEq(t, once, snapshot(t, current))
}

func TestRun_PrimaryKeysResolveToIncoming(t *testing.T) {
	current := stored(t, &model.CustomerOrder{OperationBase: model.OperationBase{ID: "o-1"}})
	incoming := &model.CustomerOrder{
		OperationBase: model.OperationBase{ID: "o-1"},
		Items:         lines(&model.LineItem{ProductID: "p"}),
	}

	res, err := newReconciler(t).Run(current, incoming)
	require.NoError(t, err)
	res.PrimaryKeys.Resolve()

	assert.Equal(t, current.Items[0].ID, incoming.Items.OrZero()[0].ID)
}

func TestReconcile_KindMismatchLeavesCurrentUntouched(t *testing.T) {
	current := stored(t, &model.CustomerOrder{Items: lines(line("1", 1))})
	before := snapshot(t, current)
	r := newReconciler(t)

	_, err := r.Reconcile(current, &model.Shipment{})
	require.Error(t, err)
	assert.True(t, errorbank.IsKind(err, errorbank.KindInvalidArgument))
	assert.Equal(t, "incoming", errorbank.From(err).Details()["argument"])
	assert.Equal(t, "shipment", errorbank.From(err).Details()["actual"])
	assert.JSONEq(t, before, snapshot(t, current))

	_, err = r.Reconcile(&entity.PaymentIn{}, &model.CustomerOrder{})
	require.Error(t, err)
	assert.Equal(t, "current", errorbank.From(err).Details()["argument"])
	assert.Equal(t, "payment_in", errorbank.From(err).Details()["actual"])

	var nilOrder *model.CustomerOrder
	_, err = r.Reconcile(current, nilOrder)
	assert.True(t, errorbank.IsKind(err, errorbank.KindInvalidArgument))
}

func TestReconcile_CustomKeys(t *testing.T) {
	current := stored(t, &model.CustomerOrder{
		Addresses: optional.Some([]*model.Address{{ID: "a-1", AddressType: "billing", City: "Rome"}}),
	})
	held := current.Addresses[0]
	r := newReconciler(t, reconcile.WithKeys(reconcile.Keys{
		Address: func(a *entity.Address) string { return a.AddressType },
	}))

	got, err := r.Reconcile(current, &model.CustomerOrder{
		Addresses: optional.Some([]*model.Address{{AddressType: "billing", City: "Milan"}}),
	})
	require.NoError(t, err)

	require.Len(t, got.Addresses, 1)
	assert.Same(t, held, got.Addresses[0])
	assert.Equal(t, "a-1", held.ID)
	assert.Equal(t, "Milan", held.City)
}

func TestPatch_Shipment(t *testing.T) {
	target := &entity.Shipment{Items: []*entity.ShipmentItem{{ID: "si-1", Quantity: 1}}}
	target.ID = "sh-1"
	source := &entity.Shipment{
		Total:  decimal.NewFromInt(12),
		Items:  []*entity.ShipmentItem{{ID: "si-1", Quantity: 4}, {ID: "si-2", Quantity: 1}},
		Loaded: entity.CollectionShipmentItems,
	}
	source.ID = "other"

	stats, err := newReconciler(t).Patch(source, target)
	require.NoError(t, err)

	assert.Equal(t, "sh-1", target.ID)
	assert.True(t, target.Sum.Equal(decimal.NewFromInt(12)))
	require.Len(t, target.Items, 2)
	assert.Equal(t, 4, target.Items[0].Quantity)
	assert.Equal(t, "sh-1", target.Items[1].ShipmentID)
	assert.Equal(t, collection.Stats{Added: 1, Updated: 1}, stats[reconcile.ShipmentItems])
}

func TestPatch_Order(t *testing.T) {
	target := stored(t, &model.CustomerOrder{Items: lines(line("1", 1))})
	source := &entity.Order{Total: decimal.NewFromInt(3)}

	stats, err := newReconciler(t).Patch(source, target)
	require.NoError(t, err)

	assert.Len(t, target.Items, 1, "nothing loaded on the source, nothing reconciled")
	assert.True(t, target.Sum.Equal(decimal.NewFromInt(3)))
	assert.Zero(t, stats.Total())
}

func TestPatch_KindMismatch(t *testing.T) {
	r := newReconciler(t)

	_, err := r.Patch(&entity.PaymentIn{}, &entity.Shipment{})
	assert.True(t, errorbank.IsKind(err, errorbank.KindInvalidArgument))

	_, err = r.Patch(&entity.Order{}, &entity.PaymentIn{})
	assert.True(t, errorbank.IsKind(err, errorbank.KindInvalidArgument))

	_, err = r.Patch(&entity.Order{}, nil)
	assert.True(t, errorbank.IsKind(err, errorbank.KindInvalidArgument))
}
