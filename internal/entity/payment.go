package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"github.com/Additional-Code/ordergraph/internal/model"
	"github.com/Additional-Code/ordergraph/pkg/optional"
)

// PaymentIn is an incoming payment row.
type PaymentIn struct {
	bun.BaseModel `bun:"table:order_payments_in,alias:opi"`

	OperationBase
	CustomerOrderID string `bun:"customer_order_id,notnull"`
	Position        int    `bun:"position,notnull"`

	CustomerID     string     `bun:"customer_id"`
	CustomerName   string     `bun:"customer_name"`
	OrganizationID string     `bun:"organization_id"`
	GatewayCode    string     `bun:"gateway_code"`
	Purpose        string     `bun:"purpose"`
	PaymentStatus  string     `bun:"payment_status"`
	TaxType        string     `bun:"tax_type"`
	IncomingAt     *time.Time `bun:"incoming_at"`
	AuthorizedAt   *time.Time `bun:"authorized_at"`
	CapturedAt     *time.Time `bun:"captured_at"`
	VoidedAt       *time.Time `bun:"voided_at"`

	Price          decimal.Decimal `bun:"price,type:decimal(18,4),notnull"`
	PriceWithTax   decimal.Decimal `bun:"price_with_tax,type:decimal(18,4),notnull"`
	DiscountAmount decimal.Decimal `bun:"discount_amount,type:decimal(18,4),notnull"`
	Total          decimal.Decimal `bun:"total,type:decimal(18,4),notnull"`
	TaxTotal       decimal.Decimal `bun:"tax_total,type:decimal(18,4),notnull"`
	TaxPercentRate decimal.Decimal `bun:"tax_percent_rate,type:decimal(18,4),notnull"`

	TaxDetails []*TaxDetail `bun:"rel:has-many,join:id=payment_in_id"`

	Loaded Collections `bun:"-"`
}

// Kind implements Operation.
func (*PaymentIn) Kind() model.Kind { return model.KindPaymentIn }

// FromModel fills the row from a *model.PaymentIn.
func (p *PaymentIn) FromModel(op model.Operation, f Factory, pk *PrimaryKeyMap) (Operation, error) {
	payment, ok := op.(*model.PaymentIn)
	if !ok || payment == nil {
		return nil, KindMismatch("operation", model.KindPaymentIn, op)
	}

	p.OperationBase.fromModel(&payment.OperationBase, pk)
	p.CustomerID = payment.CustomerID
	p.CustomerName = payment.CustomerName
	p.OrganizationID = payment.OrganizationID
	p.GatewayCode = payment.GatewayCode
	p.Purpose = payment.Purpose
	p.PaymentStatus = payment.PaymentStatus
	p.TaxType = payment.TaxType
	p.IncomingAt = payment.IncomingAt
	p.AuthorizedAt = payment.AuthorizedAt
	p.CapturedAt = payment.CapturedAt
	p.VoidedAt = payment.VoidedAt
	p.Price = payment.Price
	p.PriceWithTax = payment.PriceWithTax
	p.DiscountAmount = payment.DiscountAmount
	p.Total = payment.Total
	p.TaxTotal = payment.TaxTotal
	p.TaxPercentRate = payment.TaxPercentRate

	if taxes, ok := payment.TaxDetails.Get(); ok {
		p.TaxDetails = taxDetailsFromModel(taxes, f)
		p.Loaded |= CollectionTaxDetails
	}

	p.Sum = p.Total
	p.Attach()
	return p, nil
}

// ToModel fills a *model.PaymentIn from the row.
func (p *PaymentIn) ToModel(op model.Operation, f model.Factory) (model.Operation, error) {
	payment, ok := op.(*model.PaymentIn)
	if !ok || payment == nil {
		return nil, KindMismatch("operation", model.KindPaymentIn, op)
	}

	p.Sum = p.Total
	p.OperationBase.toModel(&payment.OperationBase)
	payment.CustomerID = p.CustomerID
	payment.CustomerName = p.CustomerName
	payment.OrganizationID = p.OrganizationID
	payment.GatewayCode = p.GatewayCode
	payment.Purpose = p.Purpose
	payment.PaymentStatus = p.PaymentStatus
	payment.TaxType = p.TaxType
	payment.IncomingAt = p.IncomingAt
	payment.AuthorizedAt = p.AuthorizedAt
	payment.CapturedAt = p.CapturedAt
	payment.VoidedAt = p.VoidedAt
	payment.Price = p.Price
	payment.PriceWithTax = p.PriceWithTax
	payment.DiscountAmount = p.DiscountAmount
	payment.Total = p.Total
	payment.TaxTotal = p.TaxTotal
	payment.TaxPercentRate = p.TaxPercentRate
	payment.TaxDetails = optional.Some(taxDetailsToModel(p.TaxDetails, f))
	return payment, nil
}

// PatchScalars copies the payment's own columns onto target.
func (p *PaymentIn) PatchScalars(target *PaymentIn) {
	p.OperationBase.patch(&target.OperationBase)
	target.CustomerID = p.CustomerID
	target.CustomerName = p.CustomerName
	target.OrganizationID = p.OrganizationID
	target.GatewayCode = p.GatewayCode
	target.Purpose = p.Purpose
	target.PaymentStatus = p.PaymentStatus
	target.TaxType = p.TaxType
	target.IncomingAt = p.IncomingAt
	target.AuthorizedAt = p.AuthorizedAt
	target.CapturedAt = p.CapturedAt
	target.VoidedAt = p.VoidedAt
	target.Price = p.Price
	target.PriceWithTax = p.PriceWithTax
	target.DiscountAmount = p.DiscountAmount
	target.Total = p.Total
	target.TaxTotal = p.TaxTotal
	target.TaxPercentRate = p.TaxPercentRate
	target.Sum = p.Total
}

// Attach points the payment's tax details at it.
func (p *PaymentIn) Attach() {
	for i, t := range p.TaxDetails {
		t.CustomerOrderID, t.LineItemID, t.ShipmentID, t.PaymentInID = "", "", "", p.ID
		t.Position = i
	}
}
