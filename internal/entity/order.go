package entity

import (
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"github.com/Additional-Code/ordergraph/internal/model"
	"github.com/Additional-Code/ordergraph/pkg/optional"
)

// Order represents a customer order stored in the relational database,
// together with its child rows.
type Order struct {
	bun.BaseModel `bun:"table:customer_orders,alias:co"`

	OperationBase

	CustomerID         string `bun:"customer_id,notnull"`
	CustomerName       string `bun:"customer_name"`
	StoreID            string `bun:"store_id,notnull"`
	StoreName          string `bun:"store_name"`
	ChannelID          string `bun:"channel_id"`
	OrganizationID     string `bun:"organization_id"`
	OrganizationName   string `bun:"organization_name"`
	EmployeeID         string `bun:"employee_id"`
	EmployeeName       string `bun:"employee_name"`
	SubscriptionID     string `bun:"subscription_id"`
	SubscriptionNumber string `bun:"subscription_number"`
	ShoppingCartID     string `bun:"shopping_cart_id"`
	LanguageCode       string `bun:"language_code"`
	IsPrototype        bool   `bun:"is_prototype,notnull"`

	TaxPercentRate       decimal.Decimal `bun:"tax_percent_rate,type:decimal(18,4),notnull"`
	DiscountAmount       decimal.Decimal `bun:"discount_amount,type:decimal(18,4),notnull"`
	TaxTotal             decimal.Decimal `bun:"tax_total,type:decimal(18,4),notnull"`
	Total                decimal.Decimal `bun:"total,type:decimal(18,4),notnull"`
	SubTotal             decimal.Decimal `bun:"sub_total,type:decimal(18,4),notnull"`
	SubTotalWithTax      decimal.Decimal `bun:"sub_total_with_tax,type:decimal(18,4),notnull"`
	ShippingTotal        decimal.Decimal `bun:"shipping_total,type:decimal(18,4),notnull"`
	ShippingTotalWithTax decimal.Decimal `bun:"shipping_total_with_tax,type:decimal(18,4),notnull"`
	PaymentTotal         decimal.Decimal `bun:"payment_total,type:decimal(18,4),notnull"`
	PaymentTotalWithTax  decimal.Decimal `bun:"payment_total_with_tax,type:decimal(18,4),notnull"`
	HandlingTotal        decimal.Decimal `bun:"handling_total,type:decimal(18,4),notnull"`
	HandlingTotalWithTax decimal.Decimal `bun:"handling_total_with_tax,type:decimal(18,4),notnull"`
	DiscountTotal        decimal.Decimal `bun:"discount_total,type:decimal(18,4),notnull"`
	DiscountTotalWithTax decimal.Decimal `bun:"discount_total_with_tax,type:decimal(18,4),notnull"`

	Addresses  []*Address   `bun:"rel:has-many,join:id=customer_order_id"`
	Items      []*LineItem  `bun:"rel:has-many,join:id=customer_order_id"`
	Shipments  []*Shipment  `bun:"rel:has-many,join:id=customer_order_id"`
	InPayments []*PaymentIn `bun:"rel:has-many,join:id=customer_order_id"`
	Discounts  []*Discount  `bun:"rel:has-many,join:id=customer_order_id"`
	TaxDetails []*TaxDetail `bun:"rel:has-many,join:id=customer_order_id"`

	// Loaded tells which child collections carry data. A collection that is
	// not loaded is left alone when this order is patched onto another.
	Loaded Collections `bun:"-"`
}

// Kind implements Operation.
func (*Order) Kind() model.Kind { return model.KindCustomerOrder }

// FromModel fills the order graph from a *model.CustomerOrder. Collections
// absent from the model stay empty and are not marked loaded. Generated keys
// are recorded in pk.
func (o *Order) FromModel(op model.Operation, f Factory, pk *PrimaryKeyMap) (Operation, error) {
	order, ok := op.(*model.CustomerOrder)
	if !ok || order == nil {
		return nil, KindMismatch("operation", model.KindCustomerOrder, op)
	}

	o.OperationBase.fromModel(&order.OperationBase, pk)
	o.CustomerID = order.CustomerID
	o.CustomerName = order.CustomerName
	o.StoreID = order.StoreID
	o.StoreName = order.StoreName
	o.ChannelID = order.ChannelID
	o.OrganizationID = order.OrganizationID
	o.OrganizationName = order.OrganizationName
	o.EmployeeID = order.EmployeeID
	o.EmployeeName = order.EmployeeName
	o.SubscriptionID = order.SubscriptionID
	o.SubscriptionNumber = order.SubscriptionNumber
	o.ShoppingCartID = order.ShoppingCartID
	o.LanguageCode = order.LanguageCode
	o.IsPrototype = order.IsPrototype
	o.TaxPercentRate = order.TaxPercentRate
	o.DiscountAmount = order.DiscountAmount
	o.TaxTotal = order.TaxTotal
	o.Total = order.Total
	o.SubTotal = order.SubTotal
	o.SubTotalWithTax = order.SubTotalWithTax
	o.ShippingTotal = order.ShippingTotal
	o.ShippingTotalWithTax = order.ShippingTotalWithTax
	o.PaymentTotal = order.PaymentTotal
	o.PaymentTotalWithTax = order.PaymentTotalWithTax
	o.HandlingTotal = order.HandlingTotal
	o.HandlingTotalWithTax = order.HandlingTotalWithTax
	o.DiscountTotal = order.DiscountTotal
	o.DiscountTotalWithTax = order.DiscountTotalWithTax

	if addresses, ok := order.Addresses.Get(); ok {
		o.Addresses = make([]*Address, 0, len(addresses))
		for _, m := range addresses {
			if m == nil {
				continue
			}
			o.Addresses = append(o.Addresses, f.NewAddress().FromModel(m, pk))
		}
		o.Loaded |= CollectionAddresses
	}

	if items, ok := order.Items.Get(); ok {
		o.Items = make([]*LineItem, 0, len(items))
		for _, m := range items {
			if m == nil {
				continue
			}
			o.Items = append(o.Items, f.NewLineItem().FromModel(m, f, pk))
		}
		o.Loaded |= CollectionItems
	}

	if shipments, ok := order.Shipments.Get(); ok {
		o.Shipments = make([]*Shipment, 0, len(shipments))
		for _, m := range shipments {
			if m == nil {
				continue
			}
			converted, err := f.NewShipment().FromModel(m, f, pk)
			if err != nil {
				return nil, err
			}
			o.Shipments = append(o.Shipments, converted.(*Shipment))
		}
		o.Loaded |= CollectionShipments
	}

	if payments, ok := order.InPayments.Get(); ok {
		o.InPayments = make([]*PaymentIn, 0, len(payments))
		for _, m := range payments {
			if m == nil {
				continue
			}
			converted, err := f.NewPaymentIn().FromModel(m, f, pk)
			if err != nil {
				return nil, err
			}
			o.InPayments = append(o.InPayments, converted.(*PaymentIn))
		}
		o.Loaded |= CollectionInPayments
	}

	if discounts, ok := order.Discounts.Get(); ok {
		o.Discounts = discountsFromModel(discounts, f, pk)
		o.Loaded |= CollectionDiscounts
	}

	if taxes, ok := order.TaxDetails.Get(); ok {
		o.TaxDetails = taxDetailsFromModel(taxes, f)
		o.Loaded |= CollectionTaxDetails
	}

	o.Attach()
	if o.Loaded.Has(CollectionShipments) {
		o.LinkShipmentItems()
	}
	o.Sum = o.Total

	return o, nil
}

// ToModel fills a *model.CustomerOrder from the order graph. Every
// collection is emitted as present.
func (o *Order) ToModel(op model.Operation, f model.Factory) (model.Operation, error) {
	order, ok := op.(*model.CustomerOrder)
	if !ok || order == nil {
		return nil, KindMismatch("operation", model.KindCustomerOrder, op)
	}

	o.Sum = o.Total
	o.OperationBase.toModel(&order.OperationBase)
	order.CustomerID = o.CustomerID
	order.CustomerName = o.CustomerName
	order.StoreID = o.StoreID
	order.StoreName = o.StoreName
	order.ChannelID = o.ChannelID
	order.OrganizationID = o.OrganizationID
	order.OrganizationName = o.OrganizationName
	order.EmployeeID = o.EmployeeID
	order.EmployeeName = o.EmployeeName
	order.SubscriptionID = o.SubscriptionID
	order.SubscriptionNumber = o.SubscriptionNumber
	order.ShoppingCartID = o.ShoppingCartID
	order.LanguageCode = o.LanguageCode
	order.IsPrototype = o.IsPrototype
	order.TaxPercentRate = o.TaxPercentRate
	order.DiscountAmount = o.DiscountAmount
	order.TaxTotal = o.TaxTotal
	order.Total = o.Total
	order.SubTotal = o.SubTotal
	order.SubTotalWithTax = o.SubTotalWithTax
	order.ShippingTotal = o.ShippingTotal
	order.ShippingTotalWithTax = o.ShippingTotalWithTax
	order.PaymentTotal = o.PaymentTotal
	order.PaymentTotalWithTax = o.PaymentTotalWithTax
	order.HandlingTotal = o.HandlingTotal
	order.HandlingTotalWithTax = o.HandlingTotalWithTax
	order.DiscountTotal = o.DiscountTotal
	order.DiscountTotalWithTax = o.DiscountTotalWithTax

	addresses := make([]*model.Address, 0, len(o.Addresses))
	for _, a := range o.Addresses {
		addresses = append(addresses, a.ToModel(f.NewAddress()))
	}
	order.Addresses = optional.Some(addresses)

	items := make([]*model.LineItem, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, item.ToModel(f.NewLineItem(), f))
	}
	order.Items = optional.Some(items)

	shipments := make([]*model.Shipment, 0, len(o.Shipments))
	for _, s := range o.Shipments {
		converted, err := s.ToModel(f.NewShipment(), f)
		if err != nil {
			return nil, err
		}
		shipments = append(shipments, converted.(*model.Shipment))
	}
	order.Shipments = optional.Some(shipments)

	payments := make([]*model.PaymentIn, 0, len(o.InPayments))
	for _, p := range o.InPayments {
		converted, err := p.ToModel(f.NewPaymentIn(), f)
		if err != nil {
			return nil, err
		}
		payments = append(payments, converted.(*model.PaymentIn))
	}
	order.InPayments = optional.Some(payments)

	order.Discounts = optional.Some(discountsToModel(o.Discounts, f))
	order.TaxDetails = optional.Some(taxDetailsToModel(o.TaxDetails, f))

	return order, nil
}

// PatchScalars copies every scalar column onto target and mirrors the
// total into Sum.
func (o *Order) PatchScalars(target *Order) {
	o.OperationBase.patch(&target.OperationBase)
	target.CustomerID = o.CustomerID
	target.CustomerName = o.CustomerName
	target.StoreID = o.StoreID
	target.StoreName = o.StoreName
	target.ChannelID = o.ChannelID
	target.OrganizationID = o.OrganizationID
	target.OrganizationName = o.OrganizationName
	target.EmployeeID = o.EmployeeID
	target.EmployeeName = o.EmployeeName
	target.SubscriptionID = o.SubscriptionID
	target.SubscriptionNumber = o.SubscriptionNumber
	target.ShoppingCartID = o.ShoppingCartID
	target.LanguageCode = o.LanguageCode
	target.IsPrototype = o.IsPrototype
	target.TaxPercentRate = o.TaxPercentRate
	target.DiscountAmount = o.DiscountAmount
	target.TaxTotal = o.TaxTotal
	target.Total = o.Total
	target.SubTotal = o.SubTotal
	target.SubTotalWithTax = o.SubTotalWithTax
	target.ShippingTotal = o.ShippingTotal
	target.ShippingTotalWithTax = o.ShippingTotalWithTax
	target.PaymentTotal = o.PaymentTotal
	target.PaymentTotalWithTax = o.PaymentTotalWithTax
	target.HandlingTotal = o.HandlingTotal
	target.HandlingTotalWithTax = o.HandlingTotalWithTax
	target.DiscountTotal = o.DiscountTotal
	target.DiscountTotalWithTax = o.DiscountTotalWithTax
	target.Sum = o.Total
}

// Attach points every child row's owner columns at this order and numbers
// each collection in slice order.
func (o *Order) Attach() {
	for i, a := range o.Addresses {
		a.CustomerOrderID, a.Position = o.ID, i
	}
	for i, item := range o.Items {
		item.CustomerOrderID, item.Position = o.ID, i
		item.Attach()
	}
	for i, s := range o.Shipments {
		s.CustomerOrderID, s.Position = o.ID, i
		s.Attach()
	}
	for i, p := range o.InPayments {
		p.CustomerOrderID, p.Position = o.ID, i
		p.Attach()
	}
	for i, d := range o.Discounts {
		d.CustomerOrderID, d.LineItemID, d.ShipmentID = o.ID, "", ""
		d.Position = i
	}
	for i, t := range o.TaxDetails {
		t.CustomerOrderID, t.LineItemID, t.ShipmentID, t.PaymentInID = o.ID, "", "", ""
		t.Position = i
	}
}

// LinkShipmentItems points every shipment item at the line item of this
// order it was created from, matching on the correlation key first and the
// line item ID second. Items without a match are unlinked and returned.
func (o *Order) LinkShipmentItems() []*ShipmentItem {
	byKey := make(map[string]*LineItem, len(o.Items))
	byID := make(map[string]*LineItem, len(o.Items))
	for _, item := range o.Items {
		if item.CorrelationKey != "" {
			byKey[item.CorrelationKey] = item
		}
		byID[item.ID] = item
	}

	var dangling []*ShipmentItem
	for _, s := range o.Shipments {
		for _, si := range s.Items {
			ref := si.LineItemKey
			if ref == "" {
				ref = si.LineItemID
			}
			item, ok := byKey[ref]
			if !ok {
				item, ok = byID[ref]
			}
			if !ok || ref == "" {
				si.LineItem = nil
				si.LineItemID = ""
				dangling = append(dangling, si)
				continue
			}
			si.LineItem = item
			si.LineItemID = item.ID
			si.LineItemKey = item.CorrelationKey
		}
	}
	return dangling
}

// MarkLoaded flags every collection of the graph as loaded. Repositories
// call it on graphs read from storage.
func (o *Order) MarkLoaded() {
	o.Loaded = AllCollections
	for _, item := range o.Items {
		item.Loaded = AllCollections
	}
	for _, s := range o.Shipments {
		s.Loaded = AllCollections
	}
	for _, p := range o.InPayments {
		p.Loaded = AllCollections
	}
}

// Children counts the rows hanging off the order, at any depth.
func (o *Order) Children() int {
	n := len(o.Addresses) + len(o.Items) + len(o.Shipments) + len(o.InPayments) +
		len(o.Discounts) + len(o.TaxDetails)
	for _, item := range o.Items {
		n += len(item.Discounts) + len(item.TaxDetails)
	}
	for _, s := range o.Shipments {
		n += len(s.Items) + len(s.Discounts) + len(s.TaxDetails)
	}
	for _, p := range o.InPayments {
		n += len(p.TaxDetails)
	}
	return n
}
