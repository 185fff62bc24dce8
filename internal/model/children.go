package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Additional-Code/ordergraph/pkg/optional"
)

// LineItem is a product position on an order.
type LineItem struct {
	ID string `json:"id,omitempty" validate:"max=128"`
	// CorrelationKey lets shipment items point at a line item before it has
	// an ID. When empty the ID is used.
	CorrelationKey string `json:"correlation_key,omitempty" validate:"max=128"`

	ProductID           string `json:"product_id" validate:"required,max=64"`
	Sku                 string `json:"sku,omitempty" validate:"max=64"`
	Name                string `json:"name,omitempty" validate:"max=1024"`
	CatalogID           string `json:"catalog_id,omitempty" validate:"max=64"`
	CategoryID          string `json:"category_id,omitempty" validate:"max=64"`
	ProductType         string `json:"product_type,omitempty" validate:"max=64"`
	ImageURL            string `json:"image_url,omitempty" validate:"max=1028"`
	Currency            string `json:"currency,omitempty" validate:"max=3"`
	Quantity            int    `json:"quantity" validate:"gte=0"`
	IsGift              bool   `json:"is_gift"`
	FulfillmentCenterID string `json:"fulfillment_center_id,omitempty" validate:"max=64"`
	Comment             string `json:"comment,omitempty" validate:"max=2048"`
	TaxType             string `json:"tax_type,omitempty" validate:"max=64"`

	IsCancelled  bool       `json:"is_cancelled"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
	CancelReason string     `json:"cancel_reason,omitempty" validate:"max=2048"`

	Price                 decimal.Decimal `json:"price"`
	PriceWithTax          decimal.Decimal `json:"price_with_tax"`
	DiscountAmount        decimal.Decimal `json:"discount_amount"`
	DiscountAmountWithTax decimal.Decimal `json:"discount_amount_with_tax"`
	TaxTotal              decimal.Decimal `json:"tax_total"`
	TaxPercentRate        decimal.Decimal `json:"tax_percent_rate"`

	Discounts  optional.Value[[]*Discount]  `json:"discounts,omitzero" validate:"-"`
	TaxDetails optional.Value[[]*TaxDetail] `json:"tax_details,omitzero" validate:"-"`
}

// Key returns the value shipment items use to reference this line item.
func (l *LineItem) Key() string {
	if l.CorrelationKey != "" {
		return l.CorrelationKey
	}
	return l.ID
}

// Shipment is a delivery of some or all of an order's line items.
type Shipment struct {
	OperationBase

	OrganizationID        string `json:"organization_id,omitempty" validate:"max=64"`
	OrganizationName      string `json:"organization_name,omitempty" validate:"max=255"`
	FulfillmentCenterID   string `json:"fulfillment_center_id,omitempty" validate:"max=64"`
	FulfillmentCenterName string `json:"fulfillment_center_name,omitempty" validate:"max=255"`
	EmployeeID            string `json:"employee_id,omitempty" validate:"max=64"`
	EmployeeName          string `json:"employee_name,omitempty" validate:"max=255"`
	ShipmentMethodCode    string `json:"shipment_method_code,omitempty" validate:"max=64"`
	ShipmentMethodOption  string `json:"shipment_method_option,omitempty" validate:"max=64"`
	WeightUnit            string `json:"weight_unit,omitempty" validate:"max=32"`
	TaxType               string `json:"tax_type,omitempty" validate:"max=64"`

	Weight                decimal.Decimal `json:"weight"`
	Price                 decimal.Decimal `json:"price"`
	PriceWithTax          decimal.Decimal `json:"price_with_tax"`
	DiscountAmount        decimal.Decimal `json:"discount_amount"`
	DiscountAmountWithTax decimal.Decimal `json:"discount_amount_with_tax"`
	Total                 decimal.Decimal `json:"total"`
	TotalWithTax          decimal.Decimal `json:"total_with_tax"`
	TaxTotal              decimal.Decimal `json:"tax_total"`
	TaxPercentRate        decimal.Decimal `json:"tax_percent_rate"`

	Items      optional.Value[[]*ShipmentItem] `json:"items,omitzero" validate:"-"`
	Discounts  optional.Value[[]*Discount]     `json:"discounts,omitzero" validate:"-"`
	TaxDetails optional.Value[[]*TaxDetail]    `json:"tax_details,omitzero" validate:"-"`
}

// Kind implements Operation.
func (*Shipment) Kind() Kind { return KindShipment }

// ShipmentItem is a quantity of one line item packed into a shipment.
type ShipmentItem struct {
	ID          string `json:"id,omitempty" validate:"max=128"`
	LineItemKey string `json:"line_item_key" validate:"max=128"`
	BarCode     string `json:"bar_code,omitempty" validate:"max=128"`
	Quantity    int    `json:"quantity" validate:"gte=0"`
}

// PaymentIn is an incoming payment recorded against an order.
type PaymentIn struct {
	OperationBase

	CustomerID     string     `json:"customer_id,omitempty" validate:"max=64"`
	CustomerName   string     `json:"customer_name,omitempty" validate:"max=255"`
	OrganizationID string     `json:"organization_id,omitempty" validate:"max=64"`
	GatewayCode    string     `json:"gateway_code,omitempty" validate:"max=64"`
	Purpose        string     `json:"purpose,omitempty" validate:"max=1024"`
	PaymentStatus  string     `json:"payment_status,omitempty" validate:"max=64"`
	TaxType        string     `json:"tax_type,omitempty" validate:"max=64"`
	IncomingAt     *time.Time `json:"incoming_at,omitempty"`
	AuthorizedAt   *time.Time `json:"authorized_at,omitempty"`
	CapturedAt     *time.Time `json:"captured_at,omitempty"`
	VoidedAt       *time.Time `json:"voided_at,omitempty"`

	Price          decimal.Decimal `json:"price"`
	PriceWithTax   decimal.Decimal `json:"price_with_tax"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Total          decimal.Decimal `json:"total"`
	TaxTotal       decimal.Decimal `json:"tax_total"`
	TaxPercentRate decimal.Decimal `json:"tax_percent_rate"`

	TaxDetails optional.Value[[]*TaxDetail] `json:"tax_details,omitzero" validate:"-"`
}

// Kind implements Operation.
func (*PaymentIn) Kind() Kind { return KindPaymentIn }

// Address is a billing or shipping address attached to an order.
type Address struct {
	ID           string `json:"id,omitempty" validate:"max=128"`
	AddressType  string `json:"address_type,omitempty" validate:"max=32"`
	Organization string `json:"organization,omitempty" validate:"max=64"`
	FirstName    string `json:"first_name,omitempty" validate:"max=128"`
	LastName     string `json:"last_name,omitempty" validate:"max=128"`
	Line1        string `json:"line1,omitempty" validate:"max=2048"`
	Line2        string `json:"line2,omitempty" validate:"max=2048"`
	City         string `json:"city,omitempty" validate:"max=128"`
	RegionID     string `json:"region_id,omitempty" validate:"max=128"`
	RegionName   string `json:"region_name,omitempty" validate:"max=128"`
	PostalCode   string `json:"postal_code,omitempty" validate:"max=64"`
	CountryCode  string `json:"country_code,omitempty" validate:"max=3"`
	CountryName  string `json:"country_name,omitempty" validate:"max=128"`
	Phone        string `json:"phone,omitempty" validate:"max=64"`
	Email        string `json:"email,omitempty" validate:"omitempty,email,max=254"`
}

// Discount is a promotion reward applied to an order, line item or shipment.
// A promotion is applied at most once per owner.
type Discount struct {
	ID                    string          `json:"id,omitempty" validate:"max=128"`
	PromotionID           string          `json:"promotion_id,omitempty" validate:"max=64"`
	PromotionDescription  string          `json:"promotion_description,omitempty" validate:"max=1024"`
	CouponCode            string          `json:"coupon_code,omitempty" validate:"max=64"`
	Currency              string          `json:"currency,omitempty" validate:"max=3"`
	DiscountAmount        decimal.Decimal `json:"discount_amount"`
	DiscountAmountWithTax decimal.Decimal `json:"discount_amount_with_tax"`
}

// TaxDetail is one named tax line. Names are unique per owner.
type TaxDetail struct {
	Name   string          `json:"name" validate:"max=1024"`
	Rate   decimal.Decimal `json:"rate"`
	Amount decimal.Decimal `json:"amount"`
}
