package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"github.com/Additional-Code/ordergraph/internal/model"
	"github.com/Additional-Code/ordergraph/pkg/optional"
)

// LineItem is an order line row.
type LineItem struct {
	bun.BaseModel `bun:"table:order_line_items,alias:oli"`

	ID              string `bun:"id,pk"`
	CustomerOrderID string `bun:"customer_order_id,notnull"`
	// CorrelationKey is what shipment items reference. It is assigned once
	// and survives later patches.
	CorrelationKey string `bun:"correlation_key,notnull"`
	Position       int    `bun:"position,notnull"`

	ProductID           string     `bun:"product_id,notnull"`
	Sku                 string     `bun:"sku"`
	Name                string     `bun:"name"`
	CatalogID           string     `bun:"catalog_id"`
	CategoryID          string     `bun:"category_id"`
	ProductType         string     `bun:"product_type"`
	ImageURL            string     `bun:"image_url"`
	Currency            string     `bun:"currency"`
	Quantity            int        `bun:"quantity,notnull"`
	IsGift              bool       `bun:"is_gift,notnull"`
	FulfillmentCenterID string     `bun:"fulfillment_center_id"`
	Comment             string     `bun:"comment"`
	TaxType             string     `bun:"tax_type"`
	IsCancelled         bool       `bun:"is_cancelled,notnull"`
	CancelledAt         *time.Time `bun:"cancelled_at"`
	CancelReason        string     `bun:"cancel_reason"`

	Price                 decimal.Decimal `bun:"price,type:decimal(18,4),notnull"`
	PriceWithTax          decimal.Decimal `bun:"price_with_tax,type:decimal(18,4),notnull"`
	DiscountAmount        decimal.Decimal `bun:"discount_amount,type:decimal(18,4),notnull"`
	DiscountAmountWithTax decimal.Decimal `bun:"discount_amount_with_tax,type:decimal(18,4),notnull"`
	TaxTotal              decimal.Decimal `bun:"tax_total,type:decimal(18,4),notnull"`
	TaxPercentRate        decimal.Decimal `bun:"tax_percent_rate,type:decimal(18,4),notnull"`

	Discounts  []*Discount  `bun:"rel:has-many,join:id=line_item_id"`
	TaxDetails []*TaxDetail `bun:"rel:has-many,join:id=line_item_id"`

	Loaded Collections `bun:"-"`
}

// FromModel fills the row and its discounts and tax details from m.
func (l *LineItem) FromModel(m *model.LineItem, f Factory, pk *PrimaryKeyMap) *LineItem {
	l.ID = m.ID
	if l.ID == "" {
		l.ID = newID()
	}
	pk.Add(&m.ID, &l.ID)

	l.CorrelationKey = m.CorrelationKey
	if l.CorrelationKey == "" {
		l.CorrelationKey = l.ID
	}

	l.ProductID = m.ProductID
	l.Sku = m.Sku
	l.Name = m.Name
	l.CatalogID = m.CatalogID
	l.CategoryID = m.CategoryID
	l.ProductType = m.ProductType
	l.ImageURL = m.ImageURL
	l.Currency = m.Currency
	l.Quantity = m.Quantity
	l.IsGift = m.IsGift
	l.FulfillmentCenterID = m.FulfillmentCenterID
	l.Comment = m.Comment
	l.TaxType = m.TaxType
	l.IsCancelled = m.IsCancelled
	l.CancelledAt = m.CancelledAt
	l.CancelReason = m.CancelReason
	l.Price = m.Price
	l.PriceWithTax = m.PriceWithTax
	l.DiscountAmount = m.DiscountAmount
	l.DiscountAmountWithTax = m.DiscountAmountWithTax
	l.TaxTotal = m.TaxTotal
	l.TaxPercentRate = m.TaxPercentRate

	if discounts, ok := m.Discounts.Get(); ok {
		l.Discounts = discountsFromModel(discounts, f, pk)
		l.Loaded |= CollectionDiscounts
	}
	if taxes, ok := m.TaxDetails.Get(); ok {
		l.TaxDetails = taxDetailsFromModel(taxes, f)
		l.Loaded |= CollectionTaxDetails
	}
	l.Attach()
	return l
}

// ToModel fills m from the row.
func (l *LineItem) ToModel(m *model.LineItem, f model.Factory) *model.LineItem {
	m.ID = l.ID
	m.CorrelationKey = l.CorrelationKey
	m.ProductID = l.ProductID
	m.Sku = l.Sku
	m.Name = l.Name
	m.CatalogID = l.CatalogID
	m.CategoryID = l.CategoryID
	m.ProductType = l.ProductType
	m.ImageURL = l.ImageURL
	m.Currency = l.Currency
	m.Quantity = l.Quantity
	m.IsGift = l.IsGift
	m.FulfillmentCenterID = l.FulfillmentCenterID
	m.Comment = l.Comment
	m.TaxType = l.TaxType
	m.IsCancelled = l.IsCancelled
	m.CancelledAt = l.CancelledAt
	m.CancelReason = l.CancelReason
	m.Price = l.Price
	m.PriceWithTax = l.PriceWithTax
	m.DiscountAmount = l.DiscountAmount
	m.DiscountAmountWithTax = l.DiscountAmountWithTax
	m.TaxTotal = l.TaxTotal
	m.TaxPercentRate = l.TaxPercentRate
	m.Discounts = optional.Some(discountsToModel(l.Discounts, f))
	m.TaxDetails = optional.Some(taxDetailsToModel(l.TaxDetails, f))
	return m
}

// PatchScalars copies the line's own columns onto target. Child collections
// are reconciled separately. The target keeps an existing correlation key.
func (l *LineItem) PatchScalars(target *LineItem) {
	if target.CorrelationKey == "" {
		target.CorrelationKey = l.CorrelationKey
	}
	target.ProductID = l.ProductID
	target.Sku = l.Sku
	target.Name = l.Name
	target.CatalogID = l.CatalogID
	target.CategoryID = l.CategoryID
	target.ProductType = l.ProductType
	target.ImageURL = l.ImageURL
	target.Currency = l.Currency
	target.Quantity = l.Quantity
	target.IsGift = l.IsGift
	target.FulfillmentCenterID = l.FulfillmentCenterID
	target.Comment = l.Comment
	target.TaxType = l.TaxType
	target.IsCancelled = l.IsCancelled
	target.CancelledAt = l.CancelledAt
	target.CancelReason = l.CancelReason
	target.Price = l.Price
	target.PriceWithTax = l.PriceWithTax
	target.DiscountAmount = l.DiscountAmount
	target.DiscountAmountWithTax = l.DiscountAmountWithTax
	target.TaxTotal = l.TaxTotal
	target.TaxPercentRate = l.TaxPercentRate
}

// Attach points the line's discounts and tax details at it.
func (l *LineItem) Attach() {
	for i, d := range l.Discounts {
		d.CustomerOrderID, d.LineItemID, d.ShipmentID = "", l.ID, ""
		d.Position = i
	}
	for i, t := range l.TaxDetails {
		t.CustomerOrderID, t.LineItemID, t.ShipmentID, t.PaymentInID = "", l.ID, "", ""
		t.Position = i
	}
}
