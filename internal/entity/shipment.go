package entity

import (
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"github.com/Additional-Code/ordergraph/internal/model"
	"github.com/Additional-Code/ordergraph/pkg/optional"
)

// Shipment is a shipment operation row.
type Shipment struct {
	bun.BaseModel `bun:"table:order_shipments,alias:os"`

	OperationBase
	CustomerOrderID string `bun:"customer_order_id,notnull"`
	Position        int    `bun:"position,notnull"`

	OrganizationID        string `bun:"organization_id"`
	OrganizationName      string `bun:"organization_name"`
	FulfillmentCenterID   string `bun:"fulfillment_center_id"`
	FulfillmentCenterName string `bun:"fulfillment_center_name"`
	EmployeeID            string `bun:"employee_id"`
	EmployeeName          string `bun:"employee_name"`
	ShipmentMethodCode    string `bun:"shipment_method_code"`
	ShipmentMethodOption  string `bun:"shipment_method_option"`
	WeightUnit            string `bun:"weight_unit"`
	TaxType               string `bun:"tax_type"`

	Weight                decimal.Decimal `bun:"weight,type:decimal(18,4),notnull"`
	Price                 decimal.Decimal `bun:"price,type:decimal(18,4),notnull"`
	PriceWithTax          decimal.Decimal `bun:"price_with_tax,type:decimal(18,4),notnull"`
	DiscountAmount        decimal.Decimal `bun:"discount_amount,type:decimal(18,4),notnull"`
	DiscountAmountWithTax decimal.Decimal `bun:"discount_amount_with_tax,type:decimal(18,4),notnull"`
	Total                 decimal.Decimal `bun:"total,type:decimal(18,4),notnull"`
	TotalWithTax          decimal.Decimal `bun:"total_with_tax,type:decimal(18,4),notnull"`
	TaxTotal              decimal.Decimal `bun:"tax_total,type:decimal(18,4),notnull"`
	TaxPercentRate        decimal.Decimal `bun:"tax_percent_rate,type:decimal(18,4),notnull"`

	Items      []*ShipmentItem `bun:"rel:has-many,join:id=shipment_id"`
	Discounts  []*Discount     `bun:"rel:has-many,join:id=shipment_id"`
	TaxDetails []*TaxDetail    `bun:"rel:has-many,join:id=shipment_id"`

	Loaded Collections `bun:"-"`
}

// Kind implements Operation.
func (*Shipment) Kind() model.Kind { return model.KindShipment }

// FromModel fills the row and its children from a *model.Shipment.
func (s *Shipment) FromModel(op model.Operation, f Factory, pk *PrimaryKeyMap) (Operation, error) {
	shipment, ok := op.(*model.Shipment)
	if !ok || shipment == nil {
		return nil, KindMismatch("operation", model.KindShipment, op)
	}

	s.OperationBase.fromModel(&shipment.OperationBase, pk)
	s.OrganizationID = shipment.OrganizationID
	s.OrganizationName = shipment.OrganizationName
	s.FulfillmentCenterID = shipment.FulfillmentCenterID
	s.FulfillmentCenterName = shipment.FulfillmentCenterName
	s.EmployeeID = shipment.EmployeeID
	s.EmployeeName = shipment.EmployeeName
	s.ShipmentMethodCode = shipment.ShipmentMethodCode
	s.ShipmentMethodOption = shipment.ShipmentMethodOption
	s.WeightUnit = shipment.WeightUnit
	s.TaxType = shipment.TaxType
	s.Weight = shipment.Weight
	s.Price = shipment.Price
	s.PriceWithTax = shipment.PriceWithTax
	s.DiscountAmount = shipment.DiscountAmount
	s.DiscountAmountWithTax = shipment.DiscountAmountWithTax
	s.Total = shipment.Total
	s.TotalWithTax = shipment.TotalWithTax
	s.TaxTotal = shipment.TaxTotal
	s.TaxPercentRate = shipment.TaxPercentRate

	if items, ok := shipment.Items.Get(); ok {
		s.Items = make([]*ShipmentItem, 0, len(items))
		for _, m := range items {
			if m == nil {
				continue
			}
			s.Items = append(s.Items, f.NewShipmentItem().FromModel(m, pk))
		}
		s.Loaded |= CollectionShipmentItems
	}
	if discounts, ok := shipment.Discounts.Get(); ok {
		s.Discounts = discountsFromModel(discounts, f, pk)
		s.Loaded |= CollectionDiscounts
	}
	if taxes, ok := shipment.TaxDetails.Get(); ok {
		s.TaxDetails = taxDetailsFromModel(taxes, f)
		s.Loaded |= CollectionTaxDetails
	}

	s.Sum = s.Total
	s.Attach()
	return s, nil
}

// ToModel fills a *model.Shipment from the row.
func (s *Shipment) ToModel(op model.Operation, f model.Factory) (model.Operation, error) {
	shipment, ok := op.(*model.Shipment)
	if !ok || shipment == nil {
		return nil, KindMismatch("operation", model.KindShipment, op)
	}

	s.Sum = s.Total
	s.OperationBase.toModel(&shipment.OperationBase)
	shipment.OrganizationID = s.OrganizationID
	shipment.OrganizationName = s.OrganizationName
	shipment.FulfillmentCenterID = s.FulfillmentCenterID
	shipment.FulfillmentCenterName = s.FulfillmentCenterName
	shipment.EmployeeID = s.EmployeeID
	shipment.EmployeeName = s.EmployeeName
	shipment.ShipmentMethodCode = s.ShipmentMethodCode
	shipment.ShipmentMethodOption = s.ShipmentMethodOption
	shipment.WeightUnit = s.WeightUnit
	shipment.TaxType = s.TaxType
	shipment.Weight = s.Weight
	shipment.Price = s.Price
	shipment.PriceWithTax = s.PriceWithTax
	shipment.DiscountAmount = s.DiscountAmount
	shipment.DiscountAmountWithTax = s.DiscountAmountWithTax
	shipment.Total = s.Total
	shipment.TotalWithTax = s.TotalWithTax
	shipment.TaxTotal = s.TaxTotal
	shipment.TaxPercentRate = s.TaxPercentRate

	items := make([]*model.ShipmentItem, 0, len(s.Items))
	for _, item := range s.Items {
		items = append(items, item.ToModel(f.NewShipmentItem()))
	}
	shipment.Items = optional.Some(items)
	shipment.Discounts = optional.Some(discountsToModel(s.Discounts, f))
	shipment.TaxDetails = optional.Some(taxDetailsToModel(s.TaxDetails, f))
	return shipment, nil
}

// PatchScalars copies the shipment's own columns onto target.
func (s *Shipment) PatchScalars(target *Shipment) {
	s.OperationBase.patch(&target.OperationBase)
	target.OrganizationID = s.OrganizationID
	target.OrganizationName = s.OrganizationName
	target.FulfillmentCenterID = s.FulfillmentCenterID
	target.FulfillmentCenterName = s.FulfillmentCenterName
	target.EmployeeID = s.EmployeeID
	target.EmployeeName = s.EmployeeName
	target.ShipmentMethodCode = s.ShipmentMethodCode
	target.ShipmentMethodOption = s.ShipmentMethodOption
	target.WeightUnit = s.WeightUnit
	target.TaxType = s.TaxType
	target.Weight = s.Weight
	target.Price = s.Price
	target.PriceWithTax = s.PriceWithTax
	target.DiscountAmount = s.DiscountAmount
	target.DiscountAmountWithTax = s.DiscountAmountWithTax
	target.Total = s.Total
	target.TotalWithTax = s.TotalWithTax
	target.TaxTotal = s.TaxTotal
	target.TaxPercentRate = s.TaxPercentRate
	target.Sum = s.Total
}

// Attach points the shipment's child rows at it.
func (s *Shipment) Attach() {
	for i, item := range s.Items {
		item.ShipmentID = s.ID
		item.Position = i
	}
	for i, d := range s.Discounts {
		d.CustomerOrderID, d.LineItemID, d.ShipmentID = "", "", s.ID
		d.Position = i
	}
	for i, t := range s.TaxDetails {
		t.CustomerOrderID, t.LineItemID, t.ShipmentID, t.PaymentInID = "", "", s.ID, ""
		t.Position = i
	}
}

// ShipmentItem is a shipped quantity of one order line.
type ShipmentItem struct {
	bun.BaseModel `bun:"table:order_shipment_items,alias:osi"`

	ID          string `bun:"id,pk"`
	ShipmentID  string `bun:"shipment_id,notnull"`
	Position    int    `bun:"position,notnull"`
	LineItemID  string `bun:"line_item_id,nullzero"`
	LineItemKey string `bun:"line_item_key,notnull"`
	BarCode     string `bun:"bar_code"`
	Quantity    int    `bun:"quantity,notnull"`

	// LineItem points into the owning order's Items once linked.
	LineItem *LineItem `bun:"-"`
}

// FromModel fills the row from m. The line item reference is resolved later
// by Order.LinkShipmentItems.
func (si *ShipmentItem) FromModel(m *model.ShipmentItem, pk *PrimaryKeyMap) *ShipmentItem {
	si.ID = m.ID
	if si.ID == "" {
		si.ID = newID()
	}
	pk.Add(&m.ID, &si.ID)

	si.LineItemKey = m.LineItemKey
	si.BarCode = m.BarCode
	si.Quantity = m.Quantity
	si.LineItem = nil
	si.LineItemID = ""
	return si
}

// ToModel fills m from the row.
func (si *ShipmentItem) ToModel(m *model.ShipmentItem) *model.ShipmentItem {
	m.ID = si.ID
	m.LineItemKey = si.LineItemKey
	if si.LineItem != nil {
		m.LineItemKey = si.LineItem.CorrelationKey
	}
	m.BarCode = si.BarCode
	m.Quantity = si.Quantity
	return m
}

// Patch copies the item's columns onto target. The line item link itself is
// rebuilt by Order.LinkShipmentItems once both collections are reconciled.
func (si *ShipmentItem) Patch(target *ShipmentItem) {
	target.LineItemKey = si.LineItemKey
	target.BarCode = si.BarCode
	target.Quantity = si.Quantity
}
