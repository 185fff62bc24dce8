package model

import (
	"github.com/shopspring/decimal"

	"github.com/Additional-Code/ordergraph/pkg/optional"
)

// CustomerOrder is the domain view of an order and everything attached to it.
//
// Child collections are optional: an absent collection means "leave the
// stored one alone", an empty one means "remove every child".
type CustomerOrder struct {
	OperationBase

	CustomerID         string `json:"customer_id" validate:"required,max=64"`
	CustomerName       string `json:"customer_name,omitempty" validate:"max=255"`
	StoreID            string `json:"store_id" validate:"required,max=64"`
	StoreName          string `json:"store_name,omitempty" validate:"max=255"`
	ChannelID          string `json:"channel_id,omitempty" validate:"max=64"`
	OrganizationID     string `json:"organization_id,omitempty" validate:"max=64"`
	OrganizationName   string `json:"organization_name,omitempty" validate:"max=255"`
	EmployeeID         string `json:"employee_id,omitempty" validate:"max=64"`
	EmployeeName       string `json:"employee_name,omitempty" validate:"max=255"`
	SubscriptionID     string `json:"subscription_id,omitempty" validate:"max=64"`
	SubscriptionNumber string `json:"subscription_number,omitempty" validate:"max=64"`
	ShoppingCartID     string `json:"shopping_cart_id,omitempty" validate:"max=128"`
	LanguageCode       string `json:"language_code,omitempty" validate:"max=16"`
	IsPrototype        bool   `json:"is_prototype"`

	TaxPercentRate       decimal.Decimal `json:"tax_percent_rate"`
	DiscountAmount       decimal.Decimal `json:"discount_amount"`
	TaxTotal             decimal.Decimal `json:"tax_total"`
	Total                decimal.Decimal `json:"total"`
	SubTotal             decimal.Decimal `json:"sub_total"`
	SubTotalWithTax      decimal.Decimal `json:"sub_total_with_tax"`
	ShippingTotal        decimal.Decimal `json:"shipping_total"`
	ShippingTotalWithTax decimal.Decimal `json:"shipping_total_with_tax"`
	PaymentTotal         decimal.Decimal `json:"payment_total"`
	PaymentTotalWithTax  decimal.Decimal `json:"payment_total_with_tax"`
	HandlingTotal        decimal.Decimal `json:"handling_total"`
	HandlingTotalWithTax decimal.Decimal `json:"handling_total_with_tax"`
	DiscountTotal        decimal.Decimal `json:"discount_total"`
	DiscountTotalWithTax decimal.Decimal `json:"discount_total_with_tax"`

	Addresses  optional.Value[[]*Address]   `json:"addresses,omitzero" validate:"-"`
	Items      optional.Value[[]*LineItem]  `json:"items,omitzero" validate:"-"`
	Shipments  optional.Value[[]*Shipment]  `json:"shipments,omitzero" validate:"-"`
	InPayments optional.Value[[]*PaymentIn] `json:"in_payments,omitzero" validate:"-"`
	Discounts  optional.Value[[]*Discount]  `json:"discounts,omitzero" validate:"-"`
	TaxDetails optional.Value[[]*TaxDetail] `json:"tax_details,omitzero" validate:"-"`
}

// Kind implements Operation.
func (*CustomerOrder) Kind() Kind { return KindCustomerOrder }

// LineItemByKey finds a line item by its correlation key.
func (o *CustomerOrder) LineItemByKey(key string) *LineItem {
	if key == "" {
		return nil
	}
	for _, item := range o.Items.OrZero() {
		if item != nil && item.Key() == key {
			return item
		}
	}
	return nil
}
